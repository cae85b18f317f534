package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jaffarkeikei/vector-markets/database"
	"github.com/jaffarkeikei/vector-markets/models"
)

// UserRepository implements user data access
type UserRepository struct {
	q Queryable
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{q: db.Pool}
}

// newUserRepositoryWithTx creates a new user repository bound to a transaction
func newUserRepositoryWithTx(tx Queryable) *UserRepository {
	return &UserRepository{q: tx}
}

// GetByID retrieves a user by ID; returns nil when not found
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT id, wallet_address, created_at FROM users WHERE id = $1`

	var user models.User
	err := r.q.QueryRow(ctx, query, id).Scan(&user.ID, &user.WalletAddress, &user.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", id, err)
	}

	return &user, nil
}

// GetByWalletAddress retrieves a user by wallet address; returns nil when not found
func (r *UserRepository) GetByWalletAddress(ctx context.Context, walletAddress string) (*models.User, error) {
	query := `SELECT id, wallet_address, created_at FROM users WHERE wallet_address = $1`

	var user models.User
	err := r.q.QueryRow(ctx, query, walletAddress).Scan(&user.ID, &user.WalletAddress, &user.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by wallet %s: %w", walletAddress, err)
	}

	return &user, nil
}

// Create creates a new user together with a zeroed balance row
func (r *UserRepository) Create(ctx context.Context, walletAddress string) (*models.User, error) {
	query := `
		INSERT INTO users (id, wallet_address)
		VALUES ($1, $2)
		RETURNING id, wallet_address, created_at
	`

	var user models.User
	err := r.q.QueryRow(ctx, query, uuid.NewString(), walletAddress).Scan(
		&user.ID,
		&user.WalletAddress,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user for wallet %s: %w", walletAddress, err)
	}

	if _, err := r.q.Exec(ctx, `INSERT INTO balances (user_id) VALUES ($1)`, user.ID); err != nil {
		return nil, fmt.Errorf("failed to create balance for user %s: %w", user.ID, err)
	}

	return &user, nil
}

// GetStats returns aggregated betting statistics for a user
func (r *UserRepository) GetStats(ctx context.Context, userID string) (*models.UserStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'won'),
			COALESCE(SUM(stake), 0),
			COALESCE(SUM(actual_return), 0)
		FROM bets
		WHERE user_id = $1
	`

	var stats models.UserStats
	err := r.q.QueryRow(ctx, query, userID).Scan(
		&stats.TotalBets,
		&stats.WonBets,
		&stats.TotalWagered,
		&stats.TotalReturn,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats for user %s: %w", userID, err)
	}

	return &stats, nil
}
