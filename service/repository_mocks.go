package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jaffarkeikei/vector-markets/events"
	"github.com/jaffarkeikei/vector-markets/models"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByWalletAddress(ctx context.Context, walletAddress string) (*models.User, error) {
	args := m.Called(ctx, walletAddress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, walletAddress string) (*models.User, error) {
	args := m.Called(ctx, walletAddress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetStats(ctx context.Context, userID string) (*models.UserStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserStats), args.Error(1)
}

// MockBalanceRepository is a mock implementation of BalanceRepository
type MockBalanceRepository struct {
	mock.Mock
}

func (m *MockBalanceRepository) GetByUserID(ctx context.Context, userID string) (*models.Balance, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Balance), args.Error(1)
}

func (m *MockBalanceRepository) LockFunds(ctx context.Context, userID string, amount int64) error {
	args := m.Called(ctx, userID, amount)
	return args.Error(0)
}

func (m *MockBalanceRepository) Unlock(ctx context.Context, userID string, stake, credit int64) error {
	args := m.Called(ctx, userID, stake, credit)
	return args.Error(0)
}

func (m *MockBalanceRepository) Credit(ctx context.Context, userID string, amount int64) error {
	args := m.Called(ctx, userID, amount)
	return args.Error(0)
}

func (m *MockBalanceRepository) Debit(ctx context.Context, userID string, amount int64) error {
	args := m.Called(ctx, userID, amount)
	return args.Error(0)
}

func (m *MockBalanceRepository) MoveToYield(ctx context.Context, userID string, amount int64) error {
	args := m.Called(ctx, userID, amount)
	return args.Error(0)
}

func (m *MockBalanceRepository) ReturnFromYield(ctx context.Context, userID string, amount int64) error {
	args := m.Called(ctx, userID, amount)
	return args.Error(0)
}

// MockBetRepository is a mock implementation of BetRepository
type MockBetRepository struct {
	mock.Mock
}

func (m *MockBetRepository) Create(ctx context.Context, bet *models.Bet) error {
	args := m.Called(ctx, bet)
	return args.Error(0)
}

func (m *MockBetRepository) GetByID(ctx context.Context, id string) (*models.Bet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bet), args.Error(1)
}

func (m *MockBetRepository) GetPendingByOutcome(ctx context.Context, outcomeID string) ([]*models.Bet, error) {
	args := m.Called(ctx, outcomeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Bet), args.Error(1)
}

func (m *MockBetRepository) Settle(ctx context.Context, betID string, status models.BetStatus, actualReturn int64) (bool, error) {
	args := m.Called(ctx, betID, status, actualReturn)
	return args.Bool(0), args.Error(1)
}

func (m *MockBetRepository) ListByUser(ctx context.Context, userID string, filter models.BetFilter) ([]*models.BetDetail, int, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.BetDetail), args.Int(1), args.Error(2)
}

func (m *MockBetRepository) GetStats(ctx context.Context, userID string) (*models.BetStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BetStats), args.Error(1)
}

// MockMarketRepository is a mock implementation of MarketRepository
type MockMarketRepository struct {
	mock.Mock
}

func (m *MockMarketRepository) GetOutcomeSnapshot(ctx context.Context, outcomeID string) (*models.OutcomeSnapshot, error) {
	args := m.Called(ctx, outcomeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OutcomeSnapshot), args.Error(1)
}

func (m *MockMarketRepository) GetMatch(ctx context.Context, matchID string) (*models.Match, error) {
	args := m.Called(ctx, matchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Match), args.Error(1)
}

func (m *MockMarketRepository) ListMatches(ctx context.Context, filter models.MatchFilter) ([]*models.Match, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.Match), args.Int(1), args.Error(2)
}

func (m *MockMarketRepository) GetMatchDetail(ctx context.Context, matchID string) (*models.MatchDetail, error) {
	args := m.Called(ctx, matchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MatchDetail), args.Error(1)
}

func (m *MockMarketRepository) GetMarketsForSettlement(ctx context.Context, matchID string) ([]*models.MarketDetail, error) {
	args := m.Called(ctx, matchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MarketDetail), args.Error(1)
}

func (m *MockMarketRepository) RecordResult(ctx context.Context, matchID string, homeScore, awayScore int) error {
	args := m.Called(ctx, matchID, homeScore, awayScore)
	return args.Error(0)
}

func (m *MockMarketRepository) SetMarketStatus(ctx context.Context, marketID string, status models.MarketStatus) error {
	args := m.Called(ctx, marketID, status)
	return args.Error(0)
}

func (m *MockMarketRepository) UpdateOdds(ctx context.Context, outcomeID string, odds float64) error {
	args := m.Called(ctx, outcomeID, odds)
	return args.Error(0)
}

func (m *MockMarketRepository) CreateMatch(ctx context.Context, match *models.Match) error {
	args := m.Called(ctx, match)
	return args.Error(0)
}

func (m *MockMarketRepository) CreateMarket(ctx context.Context, market *models.Market, outcomes []*models.Outcome) error {
	args := m.Called(ctx, market, outcomes)
	return args.Error(0)
}

// MockTransactionRepository is a mock implementation of TransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Record(ctx context.Context, txn *models.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListByUser(ctx context.Context, userID string, txType models.TransactionType, limit, offset int) ([]*models.Transaction, int, error) {
	args := m.Called(ctx, userID, txType, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.Transaction), args.Int(1), args.Error(2)
}

func (m *MockTransactionRepository) SetStatus(ctx context.Context, id string, status models.TransactionStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// MockUnitOfWork is a mock implementation of UnitOfWork. Repositories are
// injected with SetRepositories; Begin, Commit and Rollback are regular
// mock expectations.
type MockUnitOfWork struct {
	mock.Mock
	userRepo        UserRepository
	balanceRepo     BalanceRepository
	betRepo         BetRepository
	marketRepo      MarketRepository
	transactionRepo TransactionRepository
	eventPublisher  EventPublisher
}

// SetRepositories wires the mock repositories this unit of work hands out
func (m *MockUnitOfWork) SetRepositories(
	userRepo UserRepository,
	balanceRepo BalanceRepository,
	betRepo BetRepository,
	marketRepo MarketRepository,
	transactionRepo TransactionRepository,
	eventPublisher EventPublisher,
) {
	m.userRepo = userRepo
	m.balanceRepo = balanceRepo
	m.betRepo = betRepo
	m.marketRepo = marketRepo
	m.transactionRepo = transactionRepo
	m.eventPublisher = eventPublisher
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) UserRepository() UserRepository {
	return m.userRepo
}

func (m *MockUnitOfWork) BalanceRepository() BalanceRepository {
	return m.balanceRepo
}

func (m *MockUnitOfWork) BetRepository() BetRepository {
	return m.betRepo
}

func (m *MockUnitOfWork) MarketRepository() MarketRepository {
	return m.marketRepo
}

func (m *MockUnitOfWork) TransactionRepository() TransactionRepository {
	return m.transactionRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return m.eventPublisher
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (f *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := f.Called()
	return args.Get(0).(UnitOfWork)
}
