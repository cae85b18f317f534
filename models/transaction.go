package models

import "time"

// TransactionType represents the kind of balance-affecting event
type TransactionType string

const (
	TransactionTypeDeposit       TransactionType = "deposit"
	TransactionTypeWithdrawal    TransactionType = "withdrawal"
	TransactionTypeBetStake      TransactionType = "bet_stake"
	TransactionTypeBetWin        TransactionType = "bet_win"
	TransactionTypeBetRefund     TransactionType = "bet_refund"
	TransactionTypeYieldDeposit  TransactionType = "yield_deposit"
	TransactionTypeYieldWithdraw TransactionType = "yield_withdraw"
	TransactionTypeYieldEarned   TransactionType = "yield_earned"
)

// TransactionStatus represents the processing state of a transaction
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusConfirmed TransactionStatus = "confirmed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// Transaction is an append-only ledger entry. Amount is signed: debits
// from the user's perspective are negative. Entries are never mutated;
// corrections are recorded as new offsetting entries.
type Transaction struct {
	ID        string            `db:"id"`
	UserID    string            `db:"user_id"`
	Type      TransactionType   `db:"type"`
	Amount    int64             `db:"amount"`
	Status    TransactionStatus `db:"status"`
	TxHash    *string           `db:"tx_hash"`
	BetID     *string           `db:"bet_id"`
	CreatedAt time.Time         `db:"created_at"`
}
