package service

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/jaffarkeikei/vector-markets/events"
	"github.com/jaffarkeikei/vector-markets/metrics"
	"github.com/jaffarkeikei/vector-markets/models"
)

// SettlementService resolves a finished match's markets and settles every
// pending bet on them exactly once
type SettlementService struct {
	uowFactory UnitOfWorkFactory
}

// NewSettlementService creates a new settlement service
func NewSettlementService(uowFactory UnitOfWorkFactory) *SettlementService {
	return &SettlementService{uowFactory: uowFactory}
}

// SettleMatch records the final score and settles all bets on the match's
// open markets. The whole operation is idempotent: re-delivery of the same
// result finds no unsettled markets and no pending bets, and each bet's
// terminal write is guarded at the SQL level. Per-bet anomalies are logged
// and counted; they never halt the batch.
func (s *SettlementService) SettleMatch(ctx context.Context, matchID string, homeScore, awayScore int) error {
	markets, err := s.recordResult(ctx, matchID, homeScore, awayScore)
	if err != nil {
		return err
	}

	settled := 0
	anomalies := 0
	for _, market := range markets {
		for _, outcome := range market.Outcomes {
			result, err := market.Market.ResolveOutcome(outcome.Name, homeScore, awayScore)
			if err != nil {
				log.WithFields(log.Fields{
					"marketID":  market.Market.ID,
					"outcomeID": outcome.ID,
					"outcome":   outcome.Name,
					"error":     err,
				}).Error("Failed to resolve outcome")
				metrics.SettlementAnomalies.Inc()
				anomalies++
				continue
			}

			n, bad := s.settleOutcome(ctx, matchID, outcome.ID, result)
			settled += n
			anomalies += bad
		}
	}

	if err := s.closeMarkets(ctx, matchID, markets, homeScore, awayScore, settled); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"matchID":   matchID,
		"homeScore": homeScore,
		"awayScore": awayScore,
		"markets":   len(markets),
		"bets":      settled,
		"anomalies": anomalies,
	}).Info("Match settled")

	return nil
}

// VoidMatch voids all open markets on a cancelled or postponed match and
// refunds every pending stake
func (s *SettlementService) VoidMatch(ctx context.Context, matchID string) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	match, err := uow.MarketRepository().GetMatch(ctx, matchID)
	if err != nil {
		return err
	}
	if match == nil {
		return ErrMatchNotFound
	}

	markets, err := uow.MarketRepository().GetMarketsForSettlement(ctx, matchID)
	if err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	refunded := 0
	anomalies := 0
	for _, market := range markets {
		for _, outcome := range market.Outcomes {
			n, bad := s.settleOutcome(ctx, matchID, outcome.ID, models.ResultVoid)
			refunded += n
			anomalies += bad
		}
	}

	uow = s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	for _, market := range markets {
		if err := uow.MarketRepository().SetMarketStatus(ctx, market.Market.ID, models.MarketStatusVoid); err != nil {
			return err
		}
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"matchID":   matchID,
		"markets":   len(markets),
		"refunded":  refunded,
		"anomalies": anomalies,
	}).Info("Match voided")

	return nil
}

// recordResult writes the final score and snapshots the unsettled markets
func (s *SettlementService) recordResult(ctx context.Context, matchID string, homeScore, awayScore int) ([]*models.MarketDetail, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	match, err := uow.MarketRepository().GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match == nil {
		return nil, ErrMatchNotFound
	}

	if err := uow.MarketRepository().RecordResult(ctx, matchID, homeScore, awayScore); err != nil {
		return nil, err
	}

	markets, err := uow.MarketRepository().GetMarketsForSettlement(ctx, matchID)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return markets, nil
}

// settleOutcome settles every pending bet on an outcome, each in its own
// transaction so one failure cannot poison the rest. Returns the number of
// bets settled and the number of anomalies.
func (s *SettlementService) settleOutcome(ctx context.Context, matchID, outcomeID string, result models.OutcomeResult) (int, int) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		log.WithField("error", err).Error("Failed to begin settlement read")
		return 0, 1
	}
	bets, err := uow.BetRepository().GetPendingByOutcome(ctx, outcomeID)
	uow.Rollback()
	if err != nil {
		log.WithFields(log.Fields{
			"outcomeID": outcomeID,
			"error":     err,
		}).Error("Failed to load pending bets")
		return 0, 1
	}

	settled := 0
	anomalies := 0
	for _, bet := range bets {
		if err := s.settleBet(ctx, matchID, bet, result); err != nil {
			log.WithFields(log.Fields{
				"betID":  bet.ID,
				"userID": bet.UserID,
				"result": result,
				"error":  err,
			}).Error("Failed to settle bet")
			metrics.SettlementAnomalies.Inc()
			anomalies++
			continue
		}
		settled++
	}

	return settled, anomalies
}

// settleBet writes one bet's terminal state and moves its money in a
// single transaction. The bet row's status guard makes a concurrent or
// repeated settlement a no-op with no balance movement.
func (s *SettlementService) settleBet(ctx context.Context, matchID string, bet *models.Bet, result models.OutcomeResult) error {
	status, actualReturn := bet.SettlementFor(result)

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	applied, err := uow.BetRepository().Settle(ctx, bet.ID, status, actualReturn)
	if err != nil {
		return err
	}
	if !applied {
		return uow.Rollback()
	}

	if err := uow.BalanceRepository().Unlock(ctx, bet.UserID, bet.Stake, actualReturn); err != nil {
		return err
	}

	// Losses append no ledger entry: the stake debit was recorded at
	// placement and nothing is returned now.
	if txType, ok := settlementTransactionType(status); ok {
		txn := &models.Transaction{
			UserID: bet.UserID,
			Type:   txType,
			Amount: actualReturn,
			BetID:  &bet.ID,
		}
		if err := uow.TransactionRepository().Record(ctx, txn); err != nil {
			return err
		}
	}

	uow.EventBus().Publish(events.BetSettledEvent{
		BetID:        bet.ID,
		UserID:       bet.UserID,
		MatchID:      matchID,
		Status:       status,
		Stake:        bet.Stake,
		ActualReturn: actualReturn,
	})

	return uow.Commit()
}

// closeMarkets transitions the settled markets and announces the result
func (s *SettlementService) closeMarkets(ctx context.Context, matchID string, markets []*models.MarketDetail, homeScore, awayScore, betsSettled int) error {
	if len(markets) == 0 {
		return nil
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	for _, market := range markets {
		if err := uow.MarketRepository().SetMarketStatus(ctx, market.Market.ID, models.MarketStatusSettled); err != nil {
			return err
		}
	}

	uow.EventBus().Publish(events.MatchSettledEvent{
		MatchID:     matchID,
		HomeScore:   homeScore,
		AwayScore:   awayScore,
		BetsSettled: betsSettled,
	})

	return uow.Commit()
}

func settlementTransactionType(status models.BetStatus) (models.TransactionType, bool) {
	switch status {
	case models.BetStatusWon, models.BetStatusHalfWon:
		return models.TransactionTypeBetWin, true
	case models.BetStatusVoid, models.BetStatusHalfLost:
		return models.TransactionTypeBetRefund, true
	default:
		return "", false
	}
}
