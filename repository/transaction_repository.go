package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jaffarkeikei/vector-markets/database"
	"github.com/jaffarkeikei/vector-markets/models"
)

// TransactionRepository implements the append-only transaction log. Rows
// are only ever inserted or flipped from pending to a terminal status;
// amounts and types are immutable once written.
type TransactionRepository struct {
	q Queryable
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *database.DB) *TransactionRepository {
	return &TransactionRepository{q: db.Pool}
}

// newTransactionRepositoryWithTx creates a new transaction repository bound to a transaction
func newTransactionRepositoryWithTx(tx Queryable) *TransactionRepository {
	return &TransactionRepository{q: tx}
}

// Record appends a transaction; the ID, status and CreatedAt are filled in
func (r *TransactionRepository) Record(ctx context.Context, txn *models.Transaction) error {
	if txn.ID == "" {
		txn.ID = uuid.NewString()
	}
	if txn.Status == "" {
		txn.Status = models.TransactionStatusConfirmed
	}

	query := `
		INSERT INTO transactions (id, user_id, type, amount, status, tx_hash, bet_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	err := r.q.QueryRow(ctx, query,
		txn.ID,
		txn.UserID,
		txn.Type,
		txn.Amount,
		txn.Status,
		txn.TxHash,
		txn.BetID,
	).Scan(&txn.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record %s transaction for user %s: %w", txn.Type, txn.UserID, err)
	}

	return nil
}

// GetByID retrieves a transaction; returns nil when not found
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	query := `
		SELECT id, user_id, type, amount, status, tx_hash, bet_id, created_at
		FROM transactions
		WHERE id = $1
	`

	var txn models.Transaction
	err := r.q.QueryRow(ctx, query, id).Scan(
		&txn.ID,
		&txn.UserID,
		&txn.Type,
		&txn.Amount,
		&txn.Status,
		&txn.TxHash,
		&txn.BetID,
		&txn.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction %s: %w", id, err)
	}

	return &txn, nil
}

// ListByUser returns a user's transactions, newest first, optionally
// narrowed to one type
func (r *TransactionRepository) ListByUser(ctx context.Context, userID string, txType models.TransactionType, limit, offset int) ([]*models.Transaction, int, error) {
	where := `user_id = $1`
	args := []any{userID}

	if txType != "" {
		args = append(args, txType)
		where += fmt.Sprintf(" AND type = $%d", len(args))
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions for user %s: %w", userID, err)
	}

	if limit <= 0 {
		limit = 20
	}
	args = append(args, limit, offset)

	query := fmt.Sprintf(`
		SELECT id, user_id, type, amount, status, tx_hash, bet_id, created_at
		FROM transactions
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions for user %s: %w", userID, err)
	}
	defer rows.Close()

	var txns []*models.Transaction
	for rows.Next() {
		var txn models.Transaction
		err := rows.Scan(
			&txn.ID,
			&txn.UserID,
			&txn.Type,
			&txn.Amount,
			&txn.Status,
			&txn.TxHash,
			&txn.BetID,
			&txn.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, &txn)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return txns, total, nil
}

// SetStatus flips a pending transaction to a terminal status
func (r *TransactionRepository) SetStatus(ctx context.Context, id string, status models.TransactionStatus) error {
	query := `
		UPDATE transactions
		SET status = $2
		WHERE id = $1 AND status = 'pending'
	`

	result, err := r.q.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to set transaction %s status: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("transaction %s not found or already finalized", id)
	}

	return nil
}
