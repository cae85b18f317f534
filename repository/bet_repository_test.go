package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaffarkeikei/vector-markets/models"
	"github.com/jaffarkeikei/vector-markets/repository/testutil"
)

// seedFundedUser creates a user with the given available balance
func seedFundedUser(t *testing.T, ctx context.Context, testDB *testutil.TestDatabase, wallet string, funds int64) *models.User {
	t.Helper()
	user, err := NewUserRepository(testDB.DB).Create(ctx, wallet)
	require.NoError(t, err)
	if funds > 0 {
		require.NoError(t, NewBalanceRepository(testDB.DB).Credit(ctx, user.ID, funds))
	}
	return user
}

// seedMatchResultMarket creates an upcoming match with an open 1X2 market
// and returns the market detail with its outcomes
func seedMatchResultMarket(t *testing.T, ctx context.Context, testDB *testutil.TestDatabase) (*models.Match, *models.Market, []*models.Outcome) {
	t.Helper()
	repo := NewMarketRepository(testDB.DB)

	match := testutil.CreateTestMatch("Arsenal", "Chelsea")
	require.NoError(t, repo.CreateMatch(ctx, match))

	market, outcomes := testutil.CreateTestMatchResultMarket(match.ID)
	require.NoError(t, repo.CreateMarket(ctx, market, outcomes))

	return match, market, outcomes
}

func TestBetRepository_CreateAndGet(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	user := seedFundedUser(t, ctx, testDB, "6666666666666666666666666666666666666666666666666666666666666666", 0)
	_, _, outcomes := seedMatchResultMarket(t, ctx, testDB)
	repo := NewBetRepository(testDB.DB)

	bet := testutil.CreateTestBet(user.ID, outcomes[0].ID, 10000, 2.20)
	require.NoError(t, repo.Create(ctx, bet))
	assert.NotEmpty(t, bet.ID)
	assert.False(t, bet.CreatedAt.IsZero())

	loaded, err := repo.GetByID(ctx, bet.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, user.ID, loaded.UserID)
	assert.Equal(t, int64(10000), loaded.Stake)
	assert.Equal(t, int64(22000), loaded.PotentialReturn)
	assert.Equal(t, models.BetStatusPending, loaded.Status)
	assert.Nil(t, loaded.ActualReturn)
	assert.Nil(t, loaded.SettledAt)

	missing, err := repo.GetByID(ctx, "00000000-0000-0000-0000-000000000000")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestBetRepository_SettleExactlyOnce(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	user := seedFundedUser(t, ctx, testDB, "7777777777777777777777777777777777777777777777777777777777777777", 0)
	_, _, outcomes := seedMatchResultMarket(t, ctx, testDB)
	repo := NewBetRepository(testDB.DB)

	bet := testutil.CreateTestBet(user.ID, outcomes[0].ID, 10000, 2.20)
	require.NoError(t, repo.Create(ctx, bet))

	applied, err := repo.Settle(ctx, bet.ID, models.BetStatusWon, 22000)
	require.NoError(t, err)
	assert.True(t, applied)

	// A redelivered result hits the status guard and changes nothing
	applied, err = repo.Settle(ctx, bet.ID, models.BetStatusLost, 0)
	require.NoError(t, err)
	assert.False(t, applied)

	loaded, err := repo.GetByID(ctx, bet.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BetStatusWon, loaded.Status)
	require.NotNil(t, loaded.ActualReturn)
	assert.Equal(t, int64(22000), *loaded.ActualReturn)
	assert.NotNil(t, loaded.SettledAt)
}

func TestBetRepository_SettleRejectsPendingStatus(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	repo := NewBetRepository(testDB.DB)
	_, err := repo.Settle(ctx, "00000000-0000-0000-0000-000000000000", models.BetStatusPending, 0)
	assert.Error(t, err)
}

func TestBetRepository_GetPendingByOutcome(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	user := seedFundedUser(t, ctx, testDB, "8888888888888888888888888888888888888888888888888888888888888888", 0)
	_, _, outcomes := seedMatchResultMarket(t, ctx, testDB)
	repo := NewBetRepository(testDB.DB)

	first := testutil.CreateTestBet(user.ID, outcomes[0].ID, 1000, 2.20)
	second := testutil.CreateTestBet(user.ID, outcomes[0].ID, 2000, 2.20)
	other := testutil.CreateTestBet(user.ID, outcomes[1].ID, 3000, 3.40)
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))
	require.NoError(t, repo.Create(ctx, other))

	applied, err := repo.Settle(ctx, second.ID, models.BetStatusVoid, 2000)
	require.NoError(t, err)
	require.True(t, applied)

	pending, err := repo.GetPendingByOutcome(ctx, outcomes[0].ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, first.ID, pending[0].ID)
}

func TestBetRepository_ListByUser(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	user := seedFundedUser(t, ctx, testDB, "9999999999999999999999999999999999999999999999999999999999999999", 0)
	match, _, outcomes := seedMatchResultMarket(t, ctx, testDB)
	repo := NewBetRepository(testDB.DB)

	pending := testutil.CreateTestBet(user.ID, outcomes[0].ID, 1000, 2.20)
	settled := testutil.CreateTestBet(user.ID, outcomes[2].ID, 2000, 3.10)
	require.NoError(t, repo.Create(ctx, pending))
	require.NoError(t, repo.Create(ctx, settled))
	applied, err := repo.Settle(ctx, settled.ID, models.BetStatusLost, 0)
	require.NoError(t, err)
	require.True(t, applied)

	t.Run("all bets with match context", func(t *testing.T) {
		details, total, err := repo.ListByUser(ctx, user.ID, models.BetFilter{})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		require.Len(t, details, 2)
		assert.Equal(t, match.ID, details[0].Match.ID)
		assert.Equal(t, "Arsenal", details[0].Match.HomeTeam)
	})

	t.Run("status filter", func(t *testing.T) {
		details, total, err := repo.ListByUser(ctx, user.ID, models.BetFilter{Status: models.BetStatusLost})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, details, 1)
		assert.Equal(t, settled.ID, details[0].Bet.ID)
	})

	t.Run("settled only", func(t *testing.T) {
		details, total, err := repo.ListByUser(ctx, user.ID, models.BetFilter{SettledOnly: true})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, details, 1)
		assert.Equal(t, settled.ID, details[0].Bet.ID)
	})
}

func TestBetRepository_GetStats(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	user := seedFundedUser(t, ctx, testDB, "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", 0)
	_, _, outcomes := seedMatchResultMarket(t, ctx, testDB)
	repo := NewBetRepository(testDB.DB)

	won := testutil.CreateTestBet(user.ID, outcomes[0].ID, 10000, 2.20)
	lost := testutil.CreateTestBet(user.ID, outcomes[1].ID, 5000, 3.40)
	open := testutil.CreateTestBet(user.ID, outcomes[2].ID, 2000, 3.10)
	require.NoError(t, repo.Create(ctx, won))
	require.NoError(t, repo.Create(ctx, lost))
	require.NoError(t, repo.Create(ctx, open))

	applied, err := repo.Settle(ctx, won.ID, models.BetStatusWon, 22000)
	require.NoError(t, err)
	require.True(t, applied)
	applied, err = repo.Settle(ctx, lost.ID, models.BetStatusLost, 0)
	require.NoError(t, err)
	require.True(t, applied)

	stats, err := repo.GetStats(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalBets)
	assert.Equal(t, 1, stats.Won)
	assert.Equal(t, 1, stats.Lost)
	assert.Equal(t, 0, stats.Void)
	assert.Equal(t, int64(15000), stats.TotalStake)
	assert.Equal(t, int64(22000), stats.TotalReturn)
}
