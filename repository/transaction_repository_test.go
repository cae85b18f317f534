package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaffarkeikei/vector-markets/models"
	"github.com/jaffarkeikei/vector-markets/repository/testutil"
)

func TestTransactionRepository_Record(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	user := seedFundedUser(t, ctx, testDB, "eeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee", 0)
	repo := NewTransactionRepository(testDB.DB)

	txHash := "0xabc"
	txn := &models.Transaction{
		UserID: user.ID,
		Type:   models.TransactionTypeDeposit,
		Amount: 50000,
		TxHash: &txHash,
	}
	require.NoError(t, repo.Record(ctx, txn))
	assert.NotEmpty(t, txn.ID)
	assert.Equal(t, models.TransactionStatusConfirmed, txn.Status)
	assert.False(t, txn.CreatedAt.IsZero())

	loaded, err := repo.GetByID(ctx, txn.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, int64(50000), loaded.Amount)
	require.NotNil(t, loaded.TxHash)
	assert.Equal(t, "0xabc", *loaded.TxHash)
}

func TestTransactionRepository_ListByUser(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	user := seedFundedUser(t, ctx, testDB, "1234123412341234123412341234123412341234123412341234123412341234", 0)
	repo := NewTransactionRepository(testDB.DB)

	deposit := &models.Transaction{UserID: user.ID, Type: models.TransactionTypeDeposit, Amount: 50000}
	stake := &models.Transaction{UserID: user.ID, Type: models.TransactionTypeBetStake, Amount: -10000}
	require.NoError(t, repo.Record(ctx, deposit))
	require.NoError(t, repo.Record(ctx, stake))

	t.Run("all entries newest first", func(t *testing.T) {
		txns, total, err := repo.ListByUser(ctx, user.ID, "", 10, 0)
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		require.Len(t, txns, 2)
		assert.Equal(t, stake.ID, txns[0].ID)
		assert.Equal(t, deposit.ID, txns[1].ID)
	})

	t.Run("type filter", func(t *testing.T) {
		txns, total, err := repo.ListByUser(ctx, user.ID, models.TransactionTypeDeposit, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, txns, 1)
		assert.Equal(t, deposit.ID, txns[0].ID)
	})
}

func TestTransactionRepository_SetStatus(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	user := seedFundedUser(t, ctx, testDB, "5678567856785678567856785678567856785678567856785678567856785678", 0)
	repo := NewTransactionRepository(testDB.DB)

	txn := &models.Transaction{
		UserID: user.ID,
		Type:   models.TransactionTypeWithdrawal,
		Amount: -20000,
		Status: models.TransactionStatusPending,
	}
	require.NoError(t, repo.Record(ctx, txn))

	require.NoError(t, repo.SetStatus(ctx, txn.ID, models.TransactionStatusFailed))

	loaded, err := repo.GetByID(ctx, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusFailed, loaded.Status)

	// Terminal entries are immutable
	err = repo.SetStatus(ctx, txn.ID, models.TransactionStatusConfirmed)
	assert.Error(t, err)
}
