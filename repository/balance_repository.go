package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jaffarkeikei/vector-markets/database"
	"github.com/jaffarkeikei/vector-markets/models"
	"github.com/jaffarkeikei/vector-markets/service"
)

// BalanceRepository implements the funds ledger. Every mutation is a single
// conditional UPDATE whose WHERE clause carries the invariant being relied
// on, so concurrent callers serialize on the balance row and can never
// overcommit: either the guard holds at commit time or the statement
// affects zero rows.
type BalanceRepository struct {
	q Queryable
}

// NewBalanceRepository creates a new balance repository
func NewBalanceRepository(db *database.DB) *BalanceRepository {
	return &BalanceRepository{q: db.Pool}
}

// newBalanceRepositoryWithTx creates a new balance repository bound to a transaction
func newBalanceRepositoryWithTx(tx Queryable) *BalanceRepository {
	return &BalanceRepository{q: tx}
}

// GetByUserID retrieves a user's balance; returns nil when not found
func (r *BalanceRepository) GetByUserID(ctx context.Context, userID string) (*models.Balance, error) {
	query := `
		SELECT user_id, available, locked, in_yield, updated_at
		FROM balances
		WHERE user_id = $1
	`

	var balance models.Balance
	err := r.q.QueryRow(ctx, query, userID).Scan(
		&balance.UserID,
		&balance.Available,
		&balance.Locked,
		&balance.InYield,
		&balance.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get balance for user %s: %w", userID, err)
	}

	return &balance, nil
}

// LockFunds moves amount from available to locked, failing with
// service.ErrInsufficientFunds when available does not cover it
func (r *BalanceRepository) LockFunds(ctx context.Context, userID string, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("lock amount must be positive, got %d", amount)
	}

	query := `
		UPDATE balances
		SET available = available - $1, locked = locked + $1, updated_at = NOW()
		WHERE user_id = $2 AND available >= $1
	`

	result, err := r.q.Exec(ctx, query, amount, userID)
	if err != nil {
		return fmt.Errorf("failed to lock funds for user %s: %w", userID, err)
	}
	if result.RowsAffected() == 0 {
		return r.guardFailure(ctx, userID, service.ErrInsufficientFunds)
	}

	return nil
}

// Unlock releases stake from locked and credits the user's available
// balance. credit is the total returned to the bettor: actualReturn on a
// win, the stake on a void, zero on a loss (the stake stays with the house).
func (r *BalanceRepository) Unlock(ctx context.Context, userID string, stake, credit int64) error {
	if stake <= 0 {
		return fmt.Errorf("unlock stake must be positive, got %d", stake)
	}
	if credit < 0 {
		return fmt.Errorf("unlock credit must be non-negative, got %d", credit)
	}

	query := `
		UPDATE balances
		SET locked = locked - $1, available = available + $2, updated_at = NOW()
		WHERE user_id = $3 AND locked >= $1
	`

	result, err := r.q.Exec(ctx, query, stake, credit, userID)
	if err != nil {
		return fmt.Errorf("failed to unlock funds for user %s: %w", userID, err)
	}
	if result.RowsAffected() == 0 {
		return r.guardFailure(ctx, userID, service.ErrInsufficientLocked)
	}

	return nil
}

// Credit adds amount to the user's available balance (deposits, yield returns)
func (r *BalanceRepository) Credit(ctx context.Context, userID string, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("credit amount must be positive, got %d", amount)
	}

	query := `
		UPDATE balances
		SET available = available + $1, updated_at = NOW()
		WHERE user_id = $2
	`

	result, err := r.q.Exec(ctx, query, amount, userID)
	if err != nil {
		return fmt.Errorf("failed to credit user %s: %w", userID, err)
	}
	if result.RowsAffected() == 0 {
		return service.ErrBalanceNotFound
	}

	return nil
}

// Debit removes amount from the user's available balance (withdrawals),
// failing with service.ErrInsufficientFunds when available does not cover it
func (r *BalanceRepository) Debit(ctx context.Context, userID string, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("debit amount must be positive, got %d", amount)
	}

	query := `
		UPDATE balances
		SET available = available - $1, updated_at = NOW()
		WHERE user_id = $2 AND available >= $1
	`

	result, err := r.q.Exec(ctx, query, amount, userID)
	if err != nil {
		return fmt.Errorf("failed to debit user %s: %w", userID, err)
	}
	if result.RowsAffected() == 0 {
		return r.guardFailure(ctx, userID, service.ErrInsufficientFunds)
	}

	return nil
}

// MoveToYield moves amount from available into the yield position
func (r *BalanceRepository) MoveToYield(ctx context.Context, userID string, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("yield amount must be positive, got %d", amount)
	}

	query := `
		UPDATE balances
		SET available = available - $1, in_yield = in_yield + $1, updated_at = NOW()
		WHERE user_id = $2 AND available >= $1
	`

	result, err := r.q.Exec(ctx, query, amount, userID)
	if err != nil {
		return fmt.Errorf("failed to move funds to yield for user %s: %w", userID, err)
	}
	if result.RowsAffected() == 0 {
		return r.guardFailure(ctx, userID, service.ErrInsufficientFunds)
	}

	return nil
}

// ReturnFromYield moves amount from the yield position back to available
func (r *BalanceRepository) ReturnFromYield(ctx context.Context, userID string, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("yield amount must be positive, got %d", amount)
	}

	query := `
		UPDATE balances
		SET in_yield = in_yield - $1, available = available + $1, updated_at = NOW()
		WHERE user_id = $2 AND in_yield >= $1
	`

	result, err := r.q.Exec(ctx, query, amount, userID)
	if err != nil {
		return fmt.Errorf("failed to return funds from yield for user %s: %w", userID, err)
	}
	if result.RowsAffected() == 0 {
		return r.guardFailure(ctx, userID, service.ErrInsufficientFunds)
	}

	return nil
}

// guardFailure distinguishes a missing balance row from a failed guard
func (r *BalanceRepository) guardFailure(ctx context.Context, userID string, guardErr error) error {
	balance, err := r.GetByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to check balance for user %s: %w", userID, err)
	}
	if balance == nil {
		return service.ErrBalanceNotFound
	}
	return guardErr
}
