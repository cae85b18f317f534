package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jaffarkeikei/vector-markets/database"
	"github.com/jaffarkeikei/vector-markets/models"
)

// MarketRepository implements match, market and outcome data access,
// including the bet engine's decision-time snapshot read.
type MarketRepository struct {
	q Queryable
}

// NewMarketRepository creates a new market repository
func NewMarketRepository(db *database.DB) *MarketRepository {
	return &MarketRepository{q: db.Pool}
}

// newMarketRepositoryWithTx creates a new market repository bound to a transaction
func newMarketRepositoryWithTx(tx Queryable) *MarketRepository {
	return &MarketRepository{q: tx}
}

// GetOutcomeSnapshot reads an outcome together with its market and match
// state in one query: the current persisted odds, never a cached quote.
// Returns nil when the outcome does not exist.
func (r *MarketRepository) GetOutcomeSnapshot(ctx context.Context, outcomeID string) (*models.OutcomeSnapshot, error) {
	query := `
		SELECT o.id, o.market_id, o.name, o.odds, o.previous_odds,
		       mk.id, mk.match_id, mk.name, mk.type, mk.line, mk.status, mk.created_at,
		       m.id, m.sport, m.league, m.home_team, m.away_team, m.start_time,
		       m.status, m.home_score, m.away_score, m.venue, m.created_at
		FROM outcomes o
		JOIN markets mk ON mk.id = o.market_id
		JOIN matches m ON m.id = mk.match_id
		WHERE o.id = $1
	`

	var snap models.OutcomeSnapshot
	err := r.q.QueryRow(ctx, query, outcomeID).Scan(
		&snap.Outcome.ID, &snap.Outcome.MarketID, &snap.Outcome.Name, &snap.Outcome.Odds, &snap.Outcome.PreviousOdds,
		&snap.Market.ID, &snap.Market.MatchID, &snap.Market.Name, &snap.Market.Type, &snap.Market.Line,
		&snap.Market.Status, &snap.Market.CreatedAt,
		&snap.Match.ID, &snap.Match.Sport, &snap.Match.League, &snap.Match.HomeTeam, &snap.Match.AwayTeam,
		&snap.Match.StartTime, &snap.Match.Status, &snap.Match.HomeScore, &snap.Match.AwayScore,
		&snap.Match.Venue, &snap.Match.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get outcome snapshot %s: %w", outcomeID, err)
	}

	return &snap, nil
}

// GetMatch retrieves a match by ID; returns nil when not found
func (r *MarketRepository) GetMatch(ctx context.Context, matchID string) (*models.Match, error) {
	query := `
		SELECT id, sport, league, home_team, away_team, start_time,
		       status, home_score, away_score, venue, created_at
		FROM matches
		WHERE id = $1
	`

	var match models.Match
	err := r.q.QueryRow(ctx, query, matchID).Scan(
		&match.ID, &match.Sport, &match.League, &match.HomeTeam, &match.AwayTeam,
		&match.StartTime, &match.Status, &match.HomeScore, &match.AwayScore,
		&match.Venue, &match.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match %s: %w", matchID, err)
	}

	return &match, nil
}

// ListMatches returns matches narrowed by the filter, soonest first
func (r *MarketRepository) ListMatches(ctx context.Context, filter models.MatchFilter) ([]*models.Match, int, error) {
	where := `1=1`
	var args []any

	status := filter.Status
	if status == "" {
		status = models.MatchStatusUpcoming
	}
	args = append(args, status)
	where += fmt.Sprintf(" AND status = $%d", len(args))

	if filter.Sport != "" {
		args = append(args, filter.Sport)
		where += fmt.Sprintf(" AND sport = $%d", len(args))
	}
	if filter.League != "" {
		args = append(args, filter.League)
		where += fmt.Sprintf(" AND league = $%d", len(args))
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM matches WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count matches: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	args = append(args, limit, filter.Offset)

	query := fmt.Sprintf(`
		SELECT id, sport, league, home_team, away_team, start_time,
		       status, home_score, away_score, venue, created_at
		FROM matches
		WHERE %s
		ORDER BY start_time ASC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	var matches []*models.Match
	for rows.Next() {
		var match models.Match
		err := rows.Scan(
			&match.ID, &match.Sport, &match.League, &match.HomeTeam, &match.AwayTeam,
			&match.StartTime, &match.Status, &match.HomeScore, &match.AwayScore,
			&match.Venue, &match.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, &match)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate matches: %w", err)
	}

	return matches, total, nil
}

// GetMatchDetail returns a match with its non-settled markets and their outcomes
func (r *MarketRepository) GetMatchDetail(ctx context.Context, matchID string) (*models.MatchDetail, error) {
	match, err := r.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match == nil {
		return nil, nil
	}

	markets, err := r.getMarketsWithOutcomes(ctx, matchID, `mk.status = 'open'`)
	if err != nil {
		return nil, err
	}

	return &models.MatchDetail{Match: match, Markets: markets}, nil
}

// GetMarketsForSettlement returns a finished match's unsettled markets with
// their outcomes
func (r *MarketRepository) GetMarketsForSettlement(ctx context.Context, matchID string) ([]*models.MarketDetail, error) {
	return r.getMarketsWithOutcomes(ctx, matchID, `mk.status IN ('open', 'suspended')`)
}

func (r *MarketRepository) getMarketsWithOutcomes(ctx context.Context, matchID, marketCond string) ([]*models.MarketDetail, error) {
	query := fmt.Sprintf(`
		SELECT mk.id, mk.match_id, mk.name, mk.type, mk.line, mk.status, mk.created_at,
		       o.id, o.market_id, o.name, o.odds, o.previous_odds
		FROM markets mk
		JOIN outcomes o ON o.market_id = mk.id
		WHERE mk.match_id = $1 AND %s
		ORDER BY mk.created_at, o.name
	`, marketCond)

	rows, err := r.q.Query(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get markets for match %s: %w", matchID, err)
	}
	defer rows.Close()

	byID := make(map[string]*models.MarketDetail)
	var ordered []*models.MarketDetail
	for rows.Next() {
		var (
			market  models.Market
			outcome models.Outcome
		)
		err := rows.Scan(
			&market.ID, &market.MatchID, &market.Name, &market.Type, &market.Line,
			&market.Status, &market.CreatedAt,
			&outcome.ID, &outcome.MarketID, &outcome.Name, &outcome.Odds, &outcome.PreviousOdds,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan market outcome: %w", err)
		}

		detail, ok := byID[market.ID]
		if !ok {
			m := market
			detail = &models.MarketDetail{Market: &m}
			byID[market.ID] = detail
			ordered = append(ordered, detail)
		}
		o := outcome
		detail.Outcomes = append(detail.Outcomes, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate markets: %w", err)
	}

	return ordered, nil
}

// RecordResult writes a finished match's final score. The status list in
// the guard keeps the transition monotonic; recording the same result
// again is a no-op.
func (r *MarketRepository) RecordResult(ctx context.Context, matchID string, homeScore, awayScore int) error {
	query := `
		UPDATE matches
		SET status = 'finished', home_score = $2, away_score = $3
		WHERE id = $1 AND status IN ('upcoming', 'live', 'finished')
	`

	result, err := r.q.Exec(ctx, query, matchID, homeScore, awayScore)
	if err != nil {
		return fmt.Errorf("failed to record result for match %s: %w", matchID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("match %s not found or not in a finishable state", matchID)
	}

	return nil
}

// SetMarketStatus transitions a market's status
func (r *MarketRepository) SetMarketStatus(ctx context.Context, marketID string, status models.MarketStatus) error {
	result, err := r.q.Exec(ctx, `UPDATE markets SET status = $2 WHERE id = $1`, marketID, status)
	if err != nil {
		return fmt.Errorf("failed to set market %s status: %w", marketID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("market %s not found", marketID)
	}

	return nil
}

// UpdateOdds writes a new quote for an outcome, preserving the previous
// one for movement display
func (r *MarketRepository) UpdateOdds(ctx context.Context, outcomeID string, odds float64) error {
	query := `
		UPDATE outcomes
		SET previous_odds = odds, odds = $2
		WHERE id = $1
	`

	result, err := r.q.Exec(ctx, query, outcomeID, odds)
	if err != nil {
		return fmt.Errorf("failed to update odds for outcome %s: %w", outcomeID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("outcome %s not found", outcomeID)
	}

	return nil
}

// CreateMatch inserts a match; the ID is filled in when empty
func (r *MarketRepository) CreateMatch(ctx context.Context, match *models.Match) error {
	if match.ID == "" {
		match.ID = uuid.NewString()
	}
	if match.Status == "" {
		match.Status = models.MatchStatusUpcoming
	}

	query := `
		INSERT INTO matches (id, sport, league, home_team, away_team, start_time, status, venue)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`

	err := r.q.QueryRow(ctx, query,
		match.ID, match.Sport, match.League, match.HomeTeam, match.AwayTeam,
		match.StartTime, match.Status, match.Venue,
	).Scan(&match.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create match: %w", err)
	}

	return nil
}

// CreateMarket inserts a market with its outcomes
func (r *MarketRepository) CreateMarket(ctx context.Context, market *models.Market, outcomes []*models.Outcome) error {
	if market.ID == "" {
		market.ID = uuid.NewString()
	}
	if market.Status == "" {
		market.Status = models.MarketStatusOpen
	}

	query := `
		INSERT INTO markets (id, match_id, name, type, line, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err := r.q.QueryRow(ctx, query,
		market.ID, market.MatchID, market.Name, market.Type, market.Line, market.Status,
	).Scan(&market.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create market: %w", err)
	}

	for _, outcome := range outcomes {
		if outcome.ID == "" {
			outcome.ID = uuid.NewString()
		}
		outcome.MarketID = market.ID

		_, err := r.q.Exec(ctx,
			`INSERT INTO outcomes (id, market_id, name, odds) VALUES ($1, $2, $3, $4)`,
			outcome.ID, outcome.MarketID, outcome.Name, outcome.Odds,
		)
		if err != nil {
			return fmt.Errorf("failed to create outcome %s: %w", outcome.Name, err)
		}
	}

	return nil
}
