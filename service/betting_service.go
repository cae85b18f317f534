package service

import (
	"context"
	"errors"
	"math"

	log "github.com/sirupsen/logrus"

	"github.com/jaffarkeikei/vector-markets/events"
	"github.com/jaffarkeikei/vector-markets/models"
)

// maxOddsDrift is the tolerated relative movement between the odds the
// client accepted and the current quote. Drift at exactly this bound is
// still accepted; only strictly larger movement rejects the bet.
const maxOddsDrift = 0.05

// BettingService implements bet placement and bet reads
type BettingService struct {
	uowFactory UnitOfWorkFactory
	minStake   int64
	maxStake   int64
}

// NewBettingService creates a new betting service. Stake bounds are in cents.
func NewBettingService(uowFactory UnitOfWorkFactory, minStake, maxStake int64) *BettingService {
	return &BettingService{
		uowFactory: uowFactory,
		minStake:   minStake,
		maxStake:   maxStake,
	}
}

// PlaceBet validates and accepts a wager on an outcome. The decision runs
// against a fresh snapshot of the outcome inside one transaction, so the
// funds lock, the bet row and the stake ledger entry commit or fail
// together. The bet records the current persisted odds, never the client's.
func (s *BettingService) PlaceBet(ctx context.Context, userID, outcomeID string, stake int64, oddsAccepted float64) (*models.Bet, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	snap, err := uow.MarketRepository().GetOutcomeSnapshot(ctx, outcomeID)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, ErrOutcomeNotFound
	}
	if snap.Market.Status != models.MarketStatusOpen {
		return nil, ErrMarketSuspended
	}
	if !snap.Match.IsUpcoming() {
		return nil, ErrMatchStarted
	}

	currentOdds := snap.Outcome.Odds
	drift := math.Abs(currentOdds-oddsAccepted) / oddsAccepted
	if drift > maxOddsDrift {
		return nil, &OddsChangedError{CurrentOdds: currentOdds, RequestedOdds: oddsAccepted}
	}

	if stake < s.minStake || stake > s.maxStake {
		return nil, &StakeOutOfRangeError{Stake: stake, Min: s.minStake, Max: s.maxStake}
	}

	if err := uow.BalanceRepository().LockFunds(ctx, userID, stake); err != nil {
		if errors.Is(err, ErrInsufficientFunds) {
			balance, balErr := uow.BalanceRepository().GetByUserID(ctx, userID)
			if balErr != nil {
				return nil, balErr
			}
			return nil, &InsufficientBalanceError{Available: balance.Available, Required: stake}
		}
		return nil, err
	}

	bet := &models.Bet{
		UserID:          userID,
		OutcomeID:       outcomeID,
		Stake:           stake,
		Odds:            currentOdds,
		PotentialReturn: models.PotentialReturnFor(stake, currentOdds),
	}
	if err := uow.BetRepository().Create(ctx, bet); err != nil {
		return nil, err
	}

	txn := &models.Transaction{
		UserID: userID,
		Type:   models.TransactionTypeBetStake,
		Amount: -stake,
		BetID:  &bet.ID,
	}
	if err := uow.TransactionRepository().Record(ctx, txn); err != nil {
		return nil, err
	}

	uow.EventBus().Publish(events.BetPlacedEvent{
		BetID:           bet.ID,
		UserID:          userID,
		OutcomeID:       outcomeID,
		Stake:           stake,
		Odds:            currentOdds,
		PotentialReturn: bet.PotentialReturn,
	})

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"betID":     bet.ID,
		"userID":    userID,
		"outcomeID": outcomeID,
		"stake":     stake,
		"odds":      currentOdds,
	}).Info("Bet placed")

	return bet, nil
}

// GetBet returns one of the user's bets with full match context
func (s *BettingService) GetBet(ctx context.Context, userID, betID string) (*models.BetDetail, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	bet, err := uow.BetRepository().GetByID(ctx, betID)
	if err != nil {
		return nil, err
	}
	if bet == nil || bet.UserID != userID {
		return nil, ErrBetNotFound
	}

	snap, err := uow.MarketRepository().GetOutcomeSnapshot(ctx, bet.OutcomeID)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, ErrBetNotFound
	}

	return &models.BetDetail{
		Bet:     bet,
		Outcome: &snap.Outcome,
		Market:  &snap.Market,
		Match:   &snap.Match,
	}, nil
}

// ListBets returns the user's bets, newest first
func (s *BettingService) ListBets(ctx context.Context, userID string, filter models.BetFilter) ([]*models.BetDetail, int, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, 0, err
	}
	defer uow.Rollback()

	return uow.BetRepository().ListByUser(ctx, userID, filter)
}

// BetHistory returns the user's settled bets together with summary stats
func (s *BettingService) BetHistory(ctx context.Context, userID string, filter models.BetFilter) ([]*models.BetDetail, int, *models.BetStats, error) {
	filter.SettledOnly = true
	filter.Status = ""

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, 0, nil, err
	}
	defer uow.Rollback()

	details, total, err := uow.BetRepository().ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, 0, nil, err
	}

	stats, err := uow.BetRepository().GetStats(ctx, userID)
	if err != nil {
		return nil, 0, nil, err
	}

	return details, total, stats, nil
}
