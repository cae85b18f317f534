package service

import (
	"errors"
	"fmt"
)

// Sentinel rejections surfaced by the betting and wallet services. The API
// layer maps each to a stable error code and HTTP status.
var (
	// ErrOutcomeNotFound means the requested outcome does not exist
	ErrOutcomeNotFound = errors.New("outcome not found")

	// ErrMarketSuspended means the outcome's market is not accepting bets
	ErrMarketSuspended = errors.New("market is not open for betting")

	// ErrMatchStarted means the match is no longer upcoming
	ErrMatchStarted = errors.New("match has already started")

	// ErrBetNotFound means the requested bet does not exist
	ErrBetNotFound = errors.New("bet not found")

	// ErrUserNotFound means the requested user does not exist
	ErrUserNotFound = errors.New("user not found")

	// ErrMatchNotFound means the requested match does not exist
	ErrMatchNotFound = errors.New("match not found")

	// ErrMatchNotFinished means settlement was requested for a match
	// without a recorded result
	ErrMatchNotFinished = errors.New("match is not finished")
)

// Sentinel errors surfaced by conditional ledger updates. The services
// translate these into their caller-facing rejections.
var (
	// ErrInsufficientFunds means an available-balance guard failed
	ErrInsufficientFunds = errors.New("insufficient available funds")

	// ErrInsufficientLocked means a locked-balance guard failed; it
	// indicates a ledger inconsistency, not a user error
	ErrInsufficientLocked = errors.New("insufficient locked funds")

	// ErrBalanceNotFound means no balance row exists for the user
	ErrBalanceNotFound = errors.New("balance not found")
)

// OddsChangedError means the persisted odds drifted too far from the odds
// the client accepted; the client must re-quote before retrying.
type OddsChangedError struct {
	CurrentOdds   float64
	RequestedOdds float64
}

func (e *OddsChangedError) Error() string {
	return fmt.Sprintf("odds have changed: current %.3f, requested %.3f", e.CurrentOdds, e.RequestedOdds)
}

// StakeOutOfRangeError means the stake falls outside the configured bounds
type StakeOutOfRangeError struct {
	Stake int64
	Min   int64
	Max   int64
}

func (e *StakeOutOfRangeError) Error() string {
	return fmt.Sprintf("stake %d outside allowed range [%d, %d]", e.Stake, e.Min, e.Max)
}

// InsufficientBalanceError means the user's available balance does not
// cover the requested amount
type InsufficientBalanceError struct {
	Available int64
	Required  int64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: available %d, required %d", e.Available, e.Required)
}
