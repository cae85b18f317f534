package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jaffarkeikei/vector-markets/database"
	"github.com/jaffarkeikei/vector-markets/models"
)

// BetRepository implements bet data access
type BetRepository struct {
	q Queryable
}

// NewBetRepository creates a new bet repository
func NewBetRepository(db *database.DB) *BetRepository {
	return &BetRepository{q: db.Pool}
}

// newBetRepositoryWithTx creates a new bet repository bound to a transaction
func newBetRepositoryWithTx(tx Queryable) *BetRepository {
	return &BetRepository{q: tx}
}

// Create inserts a new pending bet; the ID and CreatedAt are filled in
func (r *BetRepository) Create(ctx context.Context, bet *models.Bet) error {
	if bet.ID == "" {
		bet.ID = uuid.NewString()
	}
	bet.Status = models.BetStatusPending

	query := `
		INSERT INTO bets (id, user_id, outcome_id, stake, odds, potential_return, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	err := r.q.QueryRow(ctx, query,
		bet.ID,
		bet.UserID,
		bet.OutcomeID,
		bet.Stake,
		bet.Odds,
		bet.PotentialReturn,
		bet.Status,
	).Scan(&bet.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create bet for user %s: %w", bet.UserID, err)
	}

	return nil
}

// GetByID retrieves a bet; returns nil when not found
func (r *BetRepository) GetByID(ctx context.Context, id string) (*models.Bet, error) {
	query := `
		SELECT id, user_id, outcome_id, stake, odds, potential_return,
		       status, actual_return, created_at, settled_at
		FROM bets
		WHERE id = $1
	`

	var bet models.Bet
	err := r.q.QueryRow(ctx, query, id).Scan(
		&bet.ID,
		&bet.UserID,
		&bet.OutcomeID,
		&bet.Stake,
		&bet.Odds,
		&bet.PotentialReturn,
		&bet.Status,
		&bet.ActualReturn,
		&bet.CreatedAt,
		&bet.SettledAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bet %s: %w", id, err)
	}

	return &bet, nil
}

// GetPendingByOutcome returns all pending bets referencing an outcome
func (r *BetRepository) GetPendingByOutcome(ctx context.Context, outcomeID string) ([]*models.Bet, error) {
	query := `
		SELECT id, user_id, outcome_id, stake, odds, potential_return,
		       status, actual_return, created_at, settled_at
		FROM bets
		WHERE outcome_id = $1 AND status = 'pending'
		ORDER BY created_at
	`

	rows, err := r.q.Query(ctx, query, outcomeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending bets for outcome %s: %w", outcomeID, err)
	}
	defer rows.Close()

	return scanBets(rows)
}

// Settle writes a bet's terminal state exactly once. The status guard in
// the WHERE clause makes retried settlement a no-op: it returns false when
// the bet was already terminal, and callers skip the balance movement.
func (r *BetRepository) Settle(ctx context.Context, betID string, status models.BetStatus, actualReturn int64) (bool, error) {
	if !status.IsTerminal() {
		return false, fmt.Errorf("settle requires a terminal status, got %q", status)
	}

	query := `
		UPDATE bets
		SET status = $2, actual_return = $3, settled_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`

	result, err := r.q.Exec(ctx, query, betID, status, actualReturn)
	if err != nil {
		return false, fmt.Errorf("failed to settle bet %s: %w", betID, err)
	}

	return result.RowsAffected() > 0, nil
}

// ListByUser returns a user's bets with full match context, newest first
func (r *BetRepository) ListByUser(ctx context.Context, userID string, filter models.BetFilter) ([]*models.BetDetail, int, error) {
	where := `b.user_id = $1`
	args := []any{userID}

	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(" AND b.status = $%d", len(args))
	} else if filter.SettledOnly {
		where += ` AND b.status <> 'pending'`
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM bets b WHERE ` + where
	if err := r.q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count bets for user %s: %w", userID, err)
	}

	orderBy := `b.created_at DESC`
	if filter.SettledOnly {
		orderBy = `b.settled_at DESC`
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	args = append(args, limit, filter.Offset)

	query := fmt.Sprintf(`
		SELECT b.id, b.user_id, b.outcome_id, b.stake, b.odds, b.potential_return,
		       b.status, b.actual_return, b.created_at, b.settled_at,
		       o.id, o.market_id, o.name, o.odds, o.previous_odds,
		       mk.id, mk.match_id, mk.name, mk.type, mk.line, mk.status, mk.created_at,
		       m.id, m.sport, m.league, m.home_team, m.away_team, m.start_time,
		       m.status, m.home_score, m.away_score, m.venue, m.created_at
		FROM bets b
		JOIN outcomes o ON o.id = b.outcome_id
		JOIN markets mk ON mk.id = o.market_id
		JOIN matches m ON m.id = mk.match_id
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, where, orderBy, len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bets for user %s: %w", userID, err)
	}
	defer rows.Close()

	var details []*models.BetDetail
	for rows.Next() {
		var (
			bet     models.Bet
			outcome models.Outcome
			market  models.Market
			match   models.Match
		)
		err := rows.Scan(
			&bet.ID, &bet.UserID, &bet.OutcomeID, &bet.Stake, &bet.Odds, &bet.PotentialReturn,
			&bet.Status, &bet.ActualReturn, &bet.CreatedAt, &bet.SettledAt,
			&outcome.ID, &outcome.MarketID, &outcome.Name, &outcome.Odds, &outcome.PreviousOdds,
			&market.ID, &market.MatchID, &market.Name, &market.Type, &market.Line, &market.Status, &market.CreatedAt,
			&match.ID, &match.Sport, &match.League, &match.HomeTeam, &match.AwayTeam, &match.StartTime,
			&match.Status, &match.HomeScore, &match.AwayScore, &match.Venue, &match.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan bet detail: %w", err)
		}
		details = append(details, &models.BetDetail{
			Bet:     &bet,
			Outcome: &outcome,
			Market:  &market,
			Match:   &match,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate bet details: %w", err)
	}

	return details, total, nil
}

// GetStats returns settled-bet statistics for a user
func (r *BetRepository) GetStats(ctx context.Context, userID string) (*models.BetStats, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE status <> 'pending'),
			COUNT(*) FILTER (WHERE status = 'won'),
			COUNT(*) FILTER (WHERE status = 'lost'),
			COUNT(*) FILTER (WHERE status = 'void'),
			COALESCE(SUM(stake) FILTER (WHERE status <> 'pending'), 0),
			COALESCE(SUM(actual_return), 0)
		FROM bets
		WHERE user_id = $1
	`

	var stats models.BetStats
	err := r.q.QueryRow(ctx, query, userID).Scan(
		&stats.TotalBets,
		&stats.Won,
		&stats.Lost,
		&stats.Void,
		&stats.TotalStake,
		&stats.TotalReturn,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get bet stats for user %s: %w", userID, err)
	}

	return &stats, nil
}

func scanBets(rows pgx.Rows) ([]*models.Bet, error) {
	var bets []*models.Bet
	for rows.Next() {
		var bet models.Bet
		err := rows.Scan(
			&bet.ID,
			&bet.UserID,
			&bet.OutcomeID,
			&bet.Stake,
			&bet.Odds,
			&bet.PotentialReturn,
			&bet.Status,
			&bet.ActualReturn,
			&bet.CreatedAt,
			&bet.SettledAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bet: %w", err)
		}
		bets = append(bets, &bet)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bets: %w", err)
	}
	return bets, nil
}
