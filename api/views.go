package api

import (
	"time"

	"github.com/jaffarkeikei/vector-markets/models"
)

// View types mirror the JSON the frontend consumes. Monetary amounts are
// integer cents of USDC.

type matchView struct {
	ID        string  `json:"id"`
	Sport     string  `json:"sport"`
	League    string  `json:"league"`
	HomeTeam  string  `json:"homeTeam"`
	AwayTeam  string  `json:"awayTeam"`
	StartTime string  `json:"startTime"`
	Status    string  `json:"status"`
	HomeScore *int    `json:"homeScore,omitempty"`
	AwayScore *int    `json:"awayScore,omitempty"`
	Venue     *string `json:"venue,omitempty"`
}

type outcomeView struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Odds         float64  `json:"odds"`
	PreviousOdds *float64 `json:"previousOdds,omitempty"`
	Movement     string   `json:"movement"`
}

type marketView struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Type     string        `json:"type"`
	Line     float64       `json:"line"`
	Status   string        `json:"status"`
	Outcomes []outcomeView `json:"outcomes"`
}

type betView struct {
	ID              string     `json:"id"`
	Status          string     `json:"status"`
	Stake           int64      `json:"stake"`
	Odds            float64    `json:"odds"`
	PotentialReturn int64      `json:"potentialReturn"`
	ActualReturn    *int64     `json:"actualReturn,omitempty"`
	CreatedAt       string     `json:"createdAt"`
	SettledAt       *string    `json:"settledAt,omitempty"`
	Match           *matchView `json:"match,omitempty"`
	Outcome         *struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Market string `json:"market"`
	} `json:"outcome,omitempty"`
}

type transactionView struct {
	ID        string  `json:"id"`
	Type      string  `json:"type"`
	Amount    int64   `json:"amount"`
	Status    string  `json:"status"`
	TxHash    *string `json:"txHash,omitempty"`
	BetID     *string `json:"betId,omitempty"`
	CreatedAt string  `json:"createdAt"`
}

type balanceView struct {
	Available int64 `json:"available"`
	Locked    int64 `json:"locked"`
	InYield   int64 `json:"inYield"`
	Total     int64 `json:"total"`
}

func newMatchView(m *models.Match) matchView {
	return matchView{
		ID:        m.ID,
		Sport:     m.Sport,
		League:    m.League,
		HomeTeam:  m.HomeTeam,
		AwayTeam:  m.AwayTeam,
		StartTime: m.StartTime.Format(time.RFC3339),
		Status:    string(m.Status),
		HomeScore: m.HomeScore,
		AwayScore: m.AwayScore,
		Venue:     m.Venue,
	}
}

func newOutcomeView(o *models.Outcome) outcomeView {
	return outcomeView{
		ID:           o.ID,
		Name:         o.Name,
		Odds:         o.Odds,
		PreviousOdds: o.PreviousOdds,
		Movement:     o.Movement(),
	}
}

func newMarketView(m *models.MarketDetail) marketView {
	view := marketView{
		ID:     m.Market.ID,
		Name:   m.Market.Name,
		Type:   string(m.Market.Type),
		Line:   m.Market.Line,
		Status: string(m.Market.Status),
	}
	for _, outcome := range m.Outcomes {
		view.Outcomes = append(view.Outcomes, newOutcomeView(outcome))
	}
	return view
}

func newBetView(d *models.BetDetail) betView {
	view := betView{
		ID:              d.Bet.ID,
		Status:          string(d.Bet.Status),
		Stake:           d.Bet.Stake,
		Odds:            d.Bet.Odds,
		PotentialReturn: d.Bet.PotentialReturn,
		ActualReturn:    d.Bet.ActualReturn,
		CreatedAt:       d.Bet.CreatedAt.Format(time.RFC3339),
	}
	if d.Bet.SettledAt != nil {
		settledAt := d.Bet.SettledAt.Format(time.RFC3339)
		view.SettledAt = &settledAt
	}
	if d.Match != nil {
		match := newMatchView(d.Match)
		view.Match = &match
	}
	if d.Outcome != nil {
		view.Outcome = &struct {
			ID     string `json:"id"`
			Name   string `json:"name"`
			Market string `json:"market"`
		}{
			ID:     d.Outcome.ID,
			Name:   d.Outcome.Name,
			Market: d.Market.Name,
		}
	}
	return view
}

func newTransactionView(t *models.Transaction) transactionView {
	return transactionView{
		ID:        t.ID,
		Type:      string(t.Type),
		Amount:    t.Amount,
		Status:    string(t.Status),
		TxHash:    t.TxHash,
		BetID:     t.BetID,
		CreatedAt: t.CreatedAt.Format(time.RFC3339),
	}
}

func newBalanceView(b *models.Balance) balanceView {
	return balanceView{
		Available: b.Available,
		Locked:    b.Locked,
		InYield:   b.InYield,
		Total:     b.Total(),
	}
}
