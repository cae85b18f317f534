package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"
)

type seedFixture struct {
	league   string
	homeTeam string
	awayTeam string
	daysOut  int
	homeOdds float64
	drawOdds float64
	awayOdds float64
}

var seedFixtures = []seedFixture{
	{"Premier League", "Liverpool", "Manchester City", 2, 2.45, 3.40, 2.80},
	{"Premier League", "Arsenal", "Chelsea", 3, 1.95, 3.60, 3.80},
	{"Premier League", "Manchester United", "Tottenham", 4, 2.30, 3.50, 3.10},
	{"Premier League", "Newcastle", "Aston Villa", 5, 2.10, 3.40, 3.50},
	{"Premier League", "Brighton", "West Ham", 6, 2.20, 3.30, 3.40},
	{"La Liga", "Real Madrid", "Barcelona", 3, 2.10, 3.60, 3.20},
	{"La Liga", "Atletico Madrid", "Real Sociedad", 4, 1.80, 3.50, 4.50},
	{"Bundesliga", "Bayern Munich", "Borussia Dortmund", 2, 1.65, 4.00, 4.80},
	{"Bundesliga", "RB Leipzig", "Bayer Leverkusen", 5, 2.50, 3.40, 2.70},
}

// Seed loads development fixtures: a slate of upcoming matches, each with
// an open 1X2 market and an over/under 2.5 market. A database that already
// has upcoming matches is left untouched.
func Seed(ctx context.Context, db *DB) error {
	var existing int
	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM matches WHERE status = 'upcoming'`).Scan(&existing); err != nil {
		return fmt.Errorf("failed to check for existing fixtures: %w", err)
	}
	if existing > 0 {
		log.WithField("matches", existing).Info("Upcoming matches already present, skipping seed")
		return nil
	}

	err := db.WithTransaction(ctx, func(tx pgx.Tx) error {
		for _, f := range seedFixtures {
			if err := seedMatch(ctx, tx, f); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.WithField("matches", len(seedFixtures)).Info("Seeded fixtures")
	return nil
}

func seedMatch(ctx context.Context, tx pgx.Tx, f seedFixture) error {
	matchID := uuid.NewString()
	venue := f.homeTeam + " Stadium"
	startTime := time.Now().Add(time.Duration(f.daysOut) * 24 * time.Hour)

	_, err := tx.Exec(ctx, `
		INSERT INTO matches (id, sport, league, home_team, away_team, start_time, status, venue)
		VALUES ($1, 'football', $2, $3, $4, $5, 'upcoming', $6)
	`, matchID, f.league, f.homeTeam, f.awayTeam, startTime, venue)
	if err != nil {
		return fmt.Errorf("failed to seed match %s vs %s: %w", f.homeTeam, f.awayTeam, err)
	}

	err = seedMarket(ctx, tx, matchID, "Match Result", "match_result", 0, map[string]float64{
		"Home": f.homeOdds,
		"Draw": f.drawOdds,
		"Away": f.awayOdds,
	})
	if err != nil {
		return err
	}

	return seedMarket(ctx, tx, matchID, "Over/Under 2.5 Goals", "over_under", 2.5, map[string]float64{
		"Over":  1.85,
		"Under": 1.95,
	})
}

func seedMarket(ctx context.Context, tx pgx.Tx, matchID, name, marketType string, line float64, odds map[string]float64) error {
	marketID := uuid.NewString()

	_, err := tx.Exec(ctx, `
		INSERT INTO markets (id, match_id, name, type, line, status)
		VALUES ($1, $2, $3, $4, $5, 'open')
	`, marketID, matchID, name, marketType, line)
	if err != nil {
		return fmt.Errorf("failed to seed market %s: %w", name, err)
	}

	for outcomeName, o := range odds {
		_, err := tx.Exec(ctx, `
			INSERT INTO outcomes (id, market_id, name, odds)
			VALUES ($1, $2, $3, $4)
		`, uuid.NewString(), marketID, outcomeName, o)
		if err != nil {
			return fmt.Errorf("failed to seed outcome %s: %w", outcomeName, err)
		}
	}

	return nil
}
