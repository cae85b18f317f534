package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jaffarkeikei/vector-markets/models"
)

func TestWalletService_Deposit(t *testing.T) {
	ctx := context.Background()
	m := newBettingMocks(ctx)
	service := NewWalletService(m.factory)

	m.balanceRepo.On("Credit", ctx, "user-1", int64(50000)).Return(nil)
	m.txRepo.On("Record", ctx, mock.MatchedBy(func(txn *models.Transaction) bool {
		return txn.UserID == "user-1" &&
			txn.Type == models.TransactionTypeDeposit &&
			txn.Amount == 50000 &&
			txn.TxHash != nil && *txn.TxHash == "0xabc"
	})).Return(nil)
	m.publisher.On("Publish", mock.Anything).Return()
	m.uow.On("Commit").Return(nil)

	txn, err := service.Deposit(ctx, "user-1", 50000, "0xabc")

	require.NoError(t, err)
	assert.Equal(t, int64(50000), txn.Amount)
	m.balanceRepo.AssertExpectations(t)
	m.txRepo.AssertExpectations(t)
}

func TestWalletService_Withdraw_RecordsNegativeAmount(t *testing.T) {
	ctx := context.Background()
	m := newBettingMocks(ctx)
	service := NewWalletService(m.factory)

	m.balanceRepo.On("Debit", ctx, "user-1", int64(20000)).Return(nil)
	m.txRepo.On("Record", ctx, mock.MatchedBy(func(txn *models.Transaction) bool {
		return txn.Type == models.TransactionTypeWithdrawal && txn.Amount == -20000
	})).Return(nil)
	m.publisher.On("Publish", mock.Anything).Return()
	m.uow.On("Commit").Return(nil)

	txn, err := service.Withdraw(ctx, "user-1", 20000, "0xdef")

	require.NoError(t, err)
	assert.Equal(t, int64(-20000), txn.Amount)
}

func TestWalletService_Withdraw_InsufficientBalance(t *testing.T) {
	ctx := context.Background()
	m := newBettingMocks(ctx)
	service := NewWalletService(m.factory)

	m.balanceRepo.On("Debit", ctx, "user-1", int64(20000)).Return(ErrInsufficientFunds)
	m.balanceRepo.On("GetByUserID", ctx, "user-1").Return(&models.Balance{
		UserID:    "user-1",
		Available: 5000,
	}, nil)

	txn, err := service.Withdraw(ctx, "user-1", 20000, "0xdef")

	require.Nil(t, txn)
	var balErr *InsufficientBalanceError
	require.ErrorAs(t, err, &balErr)
	assert.Equal(t, int64(5000), balErr.Available)
	assert.Equal(t, int64(20000), balErr.Required)
	m.uow.AssertNotCalled(t, "Commit")
	m.txRepo.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}

func TestWalletService_YieldRoundTripLedgerEntries(t *testing.T) {
	ctx := context.Background()
	m := newBettingMocks(ctx)
	service := NewWalletService(m.factory)

	m.balanceRepo.On("MoveToYield", ctx, "user-1", int64(30000)).Return(nil)
	m.balanceRepo.On("ReturnFromYield", ctx, "user-1", int64(30000)).Return(nil)
	m.txRepo.On("Record", ctx, mock.MatchedBy(func(txn *models.Transaction) bool {
		return txn.Type == models.TransactionTypeYieldDeposit && txn.Amount == -30000
	})).Return(nil).Once()
	m.txRepo.On("Record", ctx, mock.MatchedBy(func(txn *models.Transaction) bool {
		return txn.Type == models.TransactionTypeYieldWithdraw && txn.Amount == 30000
	})).Return(nil).Once()
	m.publisher.On("Publish", mock.Anything).Return()
	m.uow.On("Commit").Return(nil)

	_, err := service.MoveToYield(ctx, "user-1", 30000)
	require.NoError(t, err)

	_, err = service.WithdrawFromYield(ctx, "user-1", 30000)
	require.NoError(t, err)

	m.txRepo.AssertExpectations(t)
}

func TestWalletService_GetBalance_UnknownUser(t *testing.T) {
	ctx := context.Background()
	m := newBettingMocks(ctx)
	service := NewWalletService(m.factory)

	m.balanceRepo.On("GetByUserID", ctx, "missing").Return(nil, nil)

	balance, err := service.GetBalance(ctx, "missing")

	assert.Nil(t, balance)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
