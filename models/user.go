package models

import (
	"math"
	"time"
)

// User represents a wallet-authenticated account
type User struct {
	ID            string    `db:"id"`
	WalletAddress string    `db:"wallet_address"`
	CreatedAt     time.Time `db:"created_at"`
}

// Balance holds a user's custodied funds, split by state.
// All amounts are cents of USDC. Invariant: available, locked and
// inYield are each non-negative; their sum is the user's total funds.
type Balance struct {
	UserID    string    `db:"user_id"`
	Available int64     `db:"available"`
	Locked    int64     `db:"locked"`
	InYield   int64     `db:"in_yield"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Total returns the user's total custodied funds
func (b *Balance) Total() int64 {
	return b.Available + b.Locked + b.InYield
}

// UserStats represents aggregated betting statistics for a user
type UserStats struct {
	TotalBets    int
	WonBets      int
	TotalWagered int64
	TotalReturn  int64
}

// Profit returns net profit over all settled bets
func (s *UserStats) Profit() int64 {
	return s.TotalReturn - s.TotalWagered
}

// ROI returns return on investment as a percentage, rounded to two decimals
func (s *UserStats) ROI() float64 {
	if s.TotalWagered == 0 {
		return 0
	}
	roi := float64(s.Profit()) / float64(s.TotalWagered) * 100
	return math.Round(roi*100) / 100
}
