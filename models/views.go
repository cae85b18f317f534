package models

// OutcomeSnapshot is the bet engine's read of an outcome at decision time:
// the current persisted odds together with the market and match state that
// gate acceptance.
type OutcomeSnapshot struct {
	Outcome Outcome
	Market  Market
	Match   Match
}

// MarketDetail combines a market with its outcomes
type MarketDetail struct {
	Market   *Market
	Outcomes []*Outcome
}

// MatchDetail combines a match with its open markets
type MatchDetail struct {
	Match   *Match
	Markets []*MarketDetail
}

// MatchFilter narrows match listings
type MatchFilter struct {
	Sport  string
	League string
	Status MatchStatus
	Limit  int
	Offset int
}

// BetFilter narrows bet listings
type BetFilter struct {
	Status BetStatus
	// SettledOnly restricts results to terminal bets (history view)
	SettledOnly bool
	Limit       int
	Offset      int
}

// BetDetail combines a bet with the outcome, market and match it was
// placed against, for presentation
type BetDetail struct {
	Bet     *Bet
	Outcome *Outcome
	Market  *Market
	Match   *Match
}
