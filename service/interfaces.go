package service

import (
	"context"

	"github.com/jaffarkeikei/vector-markets/events"
	"github.com/jaffarkeikei/vector-markets/models"
)

// UserRepository defines user data access
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByWalletAddress(ctx context.Context, walletAddress string) (*models.User, error)
	Create(ctx context.Context, walletAddress string) (*models.User, error)
	GetStats(ctx context.Context, userID string) (*models.UserStats, error)
}

// BalanceRepository defines the funds ledger operations. Implementations
// must make every mutation atomic with respect to concurrent callers.
type BalanceRepository interface {
	GetByUserID(ctx context.Context, userID string) (*models.Balance, error)
	LockFunds(ctx context.Context, userID string, amount int64) error
	Unlock(ctx context.Context, userID string, stake, credit int64) error
	Credit(ctx context.Context, userID string, amount int64) error
	Debit(ctx context.Context, userID string, amount int64) error
	MoveToYield(ctx context.Context, userID string, amount int64) error
	ReturnFromYield(ctx context.Context, userID string, amount int64) error
}

// BetRepository defines bet data access
type BetRepository interface {
	Create(ctx context.Context, bet *models.Bet) error
	GetByID(ctx context.Context, id string) (*models.Bet, error)
	GetPendingByOutcome(ctx context.Context, outcomeID string) ([]*models.Bet, error)
	Settle(ctx context.Context, betID string, status models.BetStatus, actualReturn int64) (bool, error)
	ListByUser(ctx context.Context, userID string, filter models.BetFilter) ([]*models.BetDetail, int, error)
	GetStats(ctx context.Context, userID string) (*models.BetStats, error)
}

// MarketRepository defines match, market and outcome data access
type MarketRepository interface {
	GetOutcomeSnapshot(ctx context.Context, outcomeID string) (*models.OutcomeSnapshot, error)
	GetMatch(ctx context.Context, matchID string) (*models.Match, error)
	ListMatches(ctx context.Context, filter models.MatchFilter) ([]*models.Match, int, error)
	GetMatchDetail(ctx context.Context, matchID string) (*models.MatchDetail, error)
	GetMarketsForSettlement(ctx context.Context, matchID string) ([]*models.MarketDetail, error)
	RecordResult(ctx context.Context, matchID string, homeScore, awayScore int) error
	SetMarketStatus(ctx context.Context, marketID string, status models.MarketStatus) error
	UpdateOdds(ctx context.Context, outcomeID string, odds float64) error
	CreateMatch(ctx context.Context, match *models.Match) error
	CreateMarket(ctx context.Context, market *models.Market, outcomes []*models.Outcome) error
}

// TransactionRepository defines the append-only transaction log
type TransactionRepository interface {
	Record(ctx context.Context, txn *models.Transaction) error
	GetByID(ctx context.Context, id string) (*models.Transaction, error)
	ListByUser(ctx context.Context, userID string, txType models.TransactionType, limit, offset int) ([]*models.Transaction, int, error)
	SetStatus(ctx context.Context, id string, status models.TransactionStatus) error
}

// EventPublisher defines the interface for publishing events within a
// unit of work; events are delivered only after the commit succeeds
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork represents a database transaction boundary with access to
// transaction-scoped repositories
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() UserRepository
	BalanceRepository() BalanceRepository
	BetRepository() BetRepository
	MarketRepository() MarketRepository
	TransactionRepository() TransactionRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory creates UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
