package testutil

import (
	"time"

	"github.com/jaffarkeikei/vector-markets/models"
)

// CreateTestMatch builds an upcoming fixture starting tomorrow
func CreateTestMatch(homeTeam, awayTeam string) *models.Match {
	return &models.Match{
		Sport:     "football",
		League:    "Premier League",
		HomeTeam:  homeTeam,
		AwayTeam:  awayTeam,
		StartTime: time.Now().Add(24 * time.Hour),
		Status:    models.MatchStatusUpcoming,
	}
}

// CreateTestMatchResultMarket builds a 1X2 market for the given match
func CreateTestMatchResultMarket(matchID string) (*models.Market, []*models.Outcome) {
	market := &models.Market{
		MatchID: matchID,
		Name:    "Match Result",
		Type:    models.MarketTypeMatchResult,
		Status:  models.MarketStatusOpen,
	}
	outcomes := []*models.Outcome{
		{Name: models.OutcomeHome, Odds: 2.20},
		{Name: models.OutcomeDraw, Odds: 3.40},
		{Name: models.OutcomeAway, Odds: 3.10},
	}
	return market, outcomes
}

// CreateTestOverUnderMarket builds a totals market at the given line
func CreateTestOverUnderMarket(matchID string, line float64) (*models.Market, []*models.Outcome) {
	market := &models.Market{
		MatchID: matchID,
		Name:    "Total Goals",
		Type:    models.MarketTypeOverUnder,
		Line:    line,
		Status:  models.MarketStatusOpen,
	}
	outcomes := []*models.Outcome{
		{Name: models.OutcomeOver, Odds: 1.90},
		{Name: models.OutcomeUnder, Odds: 1.90},
	}
	return market, outcomes
}

// CreateTestBet builds a pending bet for the given user and outcome
func CreateTestBet(userID, outcomeID string, stake int64, odds float64) *models.Bet {
	return &models.Bet{
		UserID:          userID,
		OutcomeID:       outcomeID,
		Stake:           stake,
		Odds:            odds,
		PotentialReturn: models.PotentialReturnFor(stake, odds),
		Status:          models.BetStatusPending,
	}
}
