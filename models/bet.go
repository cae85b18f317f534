package models

import (
	"math"
	"time"
)

// BetStatus represents the lifecycle state of a bet. A bet starts pending
// and is written to exactly one terminal state by settlement; it never
// regresses.
type BetStatus string

const (
	BetStatusPending  BetStatus = "pending"
	BetStatusWon      BetStatus = "won"
	BetStatusLost     BetStatus = "lost"
	BetStatusVoid     BetStatus = "void"
	BetStatusHalfWon  BetStatus = "half_won"
	BetStatusHalfLost BetStatus = "half_lost"
)

// IsTerminal reports whether the status is a settled state
func (s BetStatus) IsTerminal() bool {
	return s != BetStatusPending
}

// Bet represents a wager on a single outcome. Stake, odds and
// potentialReturn are frozen at acceptance time; status, actualReturn and
// settledAt are written exactly once by settlement.
type Bet struct {
	ID              string     `db:"id"`
	UserID          string     `db:"user_id"`
	OutcomeID       string     `db:"outcome_id"`
	Stake           int64      `db:"stake"`
	Odds            float64    `db:"odds"`
	PotentialReturn int64      `db:"potential_return"`
	Status          BetStatus  `db:"status"`
	ActualReturn    *int64     `db:"actual_return"`
	CreatedAt       time.Time  `db:"created_at"`
	SettledAt       *time.Time `db:"settled_at"`
}

// PotentialReturnFor computes stake x odds in cents, rounded half up
func PotentialReturnFor(stake int64, odds float64) int64 {
	return int64(math.Round(float64(stake) * odds))
}

// SettlementFor maps an outcome verdict to the bet's terminal status and
// the total amount returned to the bettor (stake included). Quarter-line
// half verdicts settle half the stake at full odds and refund the other half.
func (b *Bet) SettlementFor(result OutcomeResult) (BetStatus, int64) {
	half := b.Stake / 2
	switch result {
	case ResultWin:
		return BetStatusWon, b.PotentialReturn
	case ResultLose:
		return BetStatusLost, 0
	case ResultVoid:
		return BetStatusVoid, b.Stake
	case ResultHalfWin:
		return BetStatusHalfWon, (b.Stake - half) + PotentialReturnFor(half, b.Odds)
	case ResultHalfLose:
		return BetStatusHalfLost, b.Stake - half
	default:
		return BetStatusVoid, b.Stake
	}
}

// Profit returns the bettor's net result for a settled bet; the full stake
// counts as lost until settlement returns it
func (b *Bet) Profit() int64 {
	if b.ActualReturn == nil {
		return -b.Stake
	}
	return *b.ActualReturn - b.Stake
}
