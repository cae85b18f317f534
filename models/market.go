package models

import (
	"fmt"
	"math"
	"time"
)

// MarketType represents the kind of proposition a market offers
type MarketType string

const (
	MarketTypeMatchResult   MarketType = "match_result"
	MarketTypeOverUnder     MarketType = "over_under"
	MarketTypeAsianHandicap MarketType = "asian_handicap"
	MarketTypeBothToScore   MarketType = "both_to_score"
	MarketTypeDoubleChance  MarketType = "double_chance"
)

// MarketStatus represents the state of a market
type MarketStatus string

const (
	MarketStatusOpen      MarketStatus = "open"
	MarketStatusSuspended MarketStatus = "suspended"
	MarketStatusSettled   MarketStatus = "settled"
	MarketStatusVoid      MarketStatus = "void"
)

// Market represents a betting proposition on a match, grouping mutually
// exclusive outcomes. (match_id, type, line) is unique per match.
type Market struct {
	ID        string       `db:"id"`
	MatchID   string       `db:"match_id"`
	Name      string       `db:"name"`
	Type      MarketType   `db:"type"`
	Line      float64      `db:"line"`
	Status    MarketStatus `db:"status"`
	CreatedAt time.Time    `db:"created_at"`
}

// IsOpen checks whether the market accepts new bets
func (m *Market) IsOpen() bool {
	return m.Status == MarketStatusOpen
}

// Outcome represents a single wagerable result within a market
type Outcome struct {
	ID           string   `db:"id"`
	MarketID     string   `db:"market_id"`
	Name         string   `db:"name"`
	Odds         float64  `db:"odds"`
	PreviousOdds *float64 `db:"previous_odds"`
}

// Movement reports odds direction relative to the previous quote
func (o *Outcome) Movement() string {
	if o.PreviousOdds == nil || *o.PreviousOdds == o.Odds {
		return "stable"
	}
	if o.Odds > *o.PreviousOdds {
		return "up"
	}
	return "down"
}

// Canonical outcome names used by the settlement rules below.
const (
	OutcomeHome  = "Home"
	OutcomeDraw  = "Draw"
	OutcomeAway  = "Away"
	OutcomeOver  = "Over"
	OutcomeUnder = "Under"
	OutcomeYes   = "Yes"
	OutcomeNo    = "No"

	OutcomeHomeOrDraw = "Home/Draw"
	OutcomeHomeOrAway = "Home/Away"
	OutcomeDrawOrAway = "Draw/Away"
)

// OutcomeResult is the settlement verdict for one outcome of a market
type OutcomeResult string

const (
	ResultWin      OutcomeResult = "win"
	ResultLose     OutcomeResult = "lose"
	ResultVoid     OutcomeResult = "void"
	ResultHalfWin  OutcomeResult = "half_win"
	ResultHalfLose OutcomeResult = "half_lose"
)

// ResolveOutcome determines the settlement verdict for the named outcome
// given the final score. The Asian handicap line applies to the home team;
// quarter lines (x.25 / x.75) split the stake across the two adjacent
// half-lines, which is where the half_win/half_lose verdicts come from.
func (m *Market) ResolveOutcome(outcomeName string, homeScore, awayScore int) (OutcomeResult, error) {
	switch m.Type {
	case MarketTypeMatchResult:
		return resolveMatchResult(outcomeName, homeScore, awayScore)
	case MarketTypeOverUnder:
		return resolveOverUnder(outcomeName, m.Line, homeScore+awayScore)
	case MarketTypeAsianHandicap:
		return resolveAsianHandicap(outcomeName, m.Line, homeScore, awayScore)
	case MarketTypeBothToScore:
		return resolveBothToScore(outcomeName, homeScore, awayScore)
	case MarketTypeDoubleChance:
		return resolveDoubleChance(outcomeName, homeScore, awayScore)
	default:
		return "", fmt.Errorf("unsupported market type %q", m.Type)
	}
}

func resolveMatchResult(name string, home, away int) (OutcomeResult, error) {
	var winner string
	switch {
	case home > away:
		winner = OutcomeHome
	case home < away:
		winner = OutcomeAway
	default:
		winner = OutcomeDraw
	}

	switch name {
	case OutcomeHome, OutcomeDraw, OutcomeAway:
		if name == winner {
			return ResultWin, nil
		}
		return ResultLose, nil
	default:
		return "", fmt.Errorf("unknown match_result outcome %q", name)
	}
}

// resolveOverUnder settles a total-goals outcome against the line. A whole-number
// line hit exactly (e.g. 3 goals against a 3.0 line) is a push: the market
// convention refunds the stake rather than grading it.
func resolveOverUnder(name string, line float64, total int) (OutcomeResult, error) {
	if name != OutcomeOver && name != OutcomeUnder {
		return "", fmt.Errorf("unknown over_under outcome %q", name)
	}

	t := float64(total)
	if t == line {
		return ResultVoid, nil
	}
	overWins := t > line
	if (name == OutcomeOver) == overWins {
		return ResultWin, nil
	}
	return ResultLose, nil
}

// resolveAsianHandicap grades a side against the line applied to the home
// team's score. Quarter lines are settled as two half-stakes on the adjacent
// half-lines.
func resolveAsianHandicap(name string, line float64, home, away int) (OutcomeResult, error) {
	if name != OutcomeHome && name != OutcomeAway {
		return "", fmt.Errorf("unknown asian_handicap outcome %q", name)
	}

	if isQuarterLine(line) {
		lower, err := resolveAsianHandicap(name, line-0.25, home, away)
		if err != nil {
			return "", err
		}
		upper, err := resolveAsianHandicap(name, line+0.25, home, away)
		if err != nil {
			return "", err
		}
		return combineHalves(lower, upper), nil
	}

	// margin from the perspective of the named side
	margin := float64(home) - float64(away) + line
	if name == OutcomeAway {
		margin = -margin
	}

	switch {
	case margin > 0:
		return ResultWin, nil
	case margin < 0:
		return ResultLose, nil
	default:
		return ResultVoid, nil
	}
}

func isQuarterLine(line float64) bool {
	frac := math.Abs(line - math.Trunc(line))
	return math.Abs(frac-0.25) < 1e-9 || math.Abs(frac-0.75) < 1e-9
}

// combineHalves merges the verdicts of the two half-stakes of a quarter line.
// Each half independently resolves to win, lose or void; a split produces the
// half_* verdicts.
func combineHalves(a, b OutcomeResult) OutcomeResult {
	if a == b {
		return a
	}
	if a == ResultVoid || b == ResultVoid {
		other := a
		if a == ResultVoid {
			other = b
		}
		if other == ResultWin {
			return ResultHalfWin
		}
		return ResultHalfLose
	}
	// adjacent half-lines are 0.5 apart, so one half winning while the
	// other loses is unreachable
	return ResultVoid
}

func resolveBothToScore(name string, home, away int) (OutcomeResult, error) {
	if name != OutcomeYes && name != OutcomeNo {
		return "", fmt.Errorf("unknown both_to_score outcome %q", name)
	}
	both := home > 0 && away > 0
	if (name == OutcomeYes) == both {
		return ResultWin, nil
	}
	return ResultLose, nil
}

func resolveDoubleChance(name string, home, away int) (OutcomeResult, error) {
	homeWin := home > away
	awayWin := away > home
	draw := home == away

	var covered bool
	switch name {
	case OutcomeHomeOrDraw:
		covered = homeWin || draw
	case OutcomeHomeOrAway:
		covered = homeWin || awayWin
	case OutcomeDrawOrAway:
		covered = draw || awayWin
	default:
		return "", fmt.Errorf("unknown double_chance outcome %q", name)
	}

	if covered {
		return ResultWin, nil
	}
	return ResultLose, nil
}
