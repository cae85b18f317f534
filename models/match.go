package models

import (
	"fmt"
	"time"
)

// MatchStatus represents the lifecycle state of a match
type MatchStatus string

const (
	MatchStatusUpcoming  MatchStatus = "upcoming"
	MatchStatusLive      MatchStatus = "live"
	MatchStatusFinished  MatchStatus = "finished"
	MatchStatusPostponed MatchStatus = "postponed"
	MatchStatusCancelled MatchStatus = "cancelled"
)

// Match represents a scheduled fixture between two teams.
// Status transitions monotonically upcoming -> live -> finished
// (or to postponed/cancelled); scores are set only once finished.
type Match struct {
	ID        string      `db:"id"`
	Sport     string      `db:"sport"`
	League    string      `db:"league"`
	HomeTeam  string      `db:"home_team"`
	AwayTeam  string      `db:"away_team"`
	StartTime time.Time   `db:"start_time"`
	Status    MatchStatus `db:"status"`
	HomeScore *int        `db:"home_score"`
	AwayScore *int        `db:"away_score"`
	Venue     *string     `db:"venue"`
	CreatedAt time.Time   `db:"created_at"`
}

// IsUpcoming checks whether the match still accepts pre-match bets
func (m *Match) IsUpcoming() bool {
	return m.Status == MatchStatusUpcoming
}

// IsFinished checks whether the match has a terminal result
func (m *Match) IsFinished() bool {
	return m.Status == MatchStatusFinished
}

// Result formats the final score, e.g. "2-1"; empty until both scores are set
func (m *Match) Result() string {
	if m.HomeScore == nil || m.AwayScore == nil {
		return ""
	}
	return fmt.Sprintf("%d-%d", *m.HomeScore, *m.AwayScore)
}
