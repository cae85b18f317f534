package predictions

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
)

// Prediction holds outcome probabilities for a match
type Prediction struct {
	Home       float64 `json:"home"`
	Draw       float64 `json:"draw"`
	Away       float64 `json:"away"`
	Confidence float64 `json:"confidence"`
}

// Insight is generated commentary for a match
type Insight struct {
	Text    string   `json:"text"`
	Factors []string `json:"factors"`
}

// homeAdvantage is the rating boost applied to the home side
const homeAdvantage = 0.08

// defaultRating is used for teams absent from the ratings table
const defaultRating = 70

// teamRatings holds static strength ratings. A trained model would
// replace this table; the surrounding math stays the same.
var teamRatings = map[string]float64{
	// Premier League
	"Manchester City":   92,
	"Arsenal":           88,
	"Liverpool":         87,
	"Manchester United": 82,
	"Chelsea":           81,
	"Tottenham":         80,
	"Newcastle":         79,
	"Aston Villa":       77,
	"Brighton":          75,
	"West Ham":          74,
	"Crystal Palace":    72,
	"Fulham":            71,
	"Brentford":         71,
	"Wolves":            70,
	"Everton":           69,
	"Bournemouth":       68,
	"Nottingham Forest": 67,
	"Burnley":           63,
	"Sheffield United":  62,
	"Luton":             61,

	// La Liga
	"Real Madrid":     91,
	"Barcelona":       89,
	"Atletico Madrid": 84,
	"Real Sociedad":   78,
	"Athletic Bilbao": 76,
	"Villarreal":      75,
	"Real Betis":      74,
	"Sevilla":         73,

	// Bundesliga
	"Bayern Munich":      90,
	"Bayer Leverkusen":   85,
	"Borussia Dortmund":  83,
	"RB Leipzig":         81,
	"Eintracht Frankfurt": 74,

	// Serie A
	"Inter Milan": 86,
	"Napoli":      84,
	"Juventus":    83,
	"AC Milan":    82,
	"Atalanta":    79,
	"Roma":        78,
	"Lazio":       76,
}

// Analyzer produces rating-based match predictions and insights. It is
// stateless and safe for concurrent use.
type Analyzer struct{}

// NewAnalyzer creates a new analyzer
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// GeneratePrediction returns outcome probabilities from the teams'
// ratings, with a small noise term simulating model uncertainty
func (a *Analyzer) GeneratePrediction(homeTeam, awayTeam string) Prediction {
	homeRating := teamRating(homeTeam)
	awayRating := teamRating(awayTeam)

	adjustedHome := homeRating * (1 + homeAdvantage)
	ratingDiff := adjustedHome - awayRating
	totalRating := adjustedHome + awayRating

	homeProb := 0.35 + (ratingDiff/totalRating)*0.3
	awayProb := 0.30 - (ratingDiff/totalRating)*0.3
	drawProb := 0.35 - math.Abs(ratingDiff/totalRating)*0.15

	homeProb = clamp(homeProb, 0.1, 0.7)
	awayProb = clamp(awayProb, 0.1, 0.7)
	drawProb = clamp(drawProb, 0.15, 0.4)

	total := homeProb + drawProb + awayProb
	homeProb /= total
	drawProb /= total
	awayProb /= total

	const noise = 0.03
	homeProb += (rand.Float64() - 0.5) * noise
	drawProb += (rand.Float64() - 0.5) * noise
	awayProb += (rand.Float64() - 0.5) * noise

	total = homeProb + drawProb + awayProb

	confidence := 0.55 + math.Abs(ratingDiff)/100*0.3

	return Prediction{
		Home:       round3(homeProb / total),
		Draw:       round3(drawProb / total),
		Away:       round3(awayProb / total),
		Confidence: math.Min(0.85, math.Round(confidence*100)/100),
	}
}

// GenerateInsight returns commentary and contributing factors for a match
func (a *Analyzer) GenerateInsight(homeTeam, awayTeam, league string) Insight {
	homeRating := teamRating(homeTeam)
	awayRating := teamRating(awayTeam)
	prediction := a.GeneratePrediction(homeTeam, awayTeam)

	var factors []string
	var b strings.Builder

	switch {
	case homeRating > awayRating+10:
		factors = append(factors,
			fmt.Sprintf("%s significantly stronger on paper", homeTeam),
			"Home advantage amplifies the gap")
		fmt.Fprintf(&b, "%s enters this %s fixture as clear favorites. ", homeTeam, league)
	case awayRating > homeRating+10:
		factors = append(factors,
			fmt.Sprintf("%s higher rated despite playing away", awayTeam),
			"Potential for an upset if home team is organized")
		fmt.Fprintf(&b, "%s will look to overcome the home disadvantage with their superior quality. ", awayTeam)
	default:
		factors = append(factors,
			"Evenly matched teams",
			"Home advantage could be decisive")
		fmt.Fprintf(&b, "This looks set to be a closely contested %s encounter. ", league)
	}

	switch {
	case prediction.Home > 0.45:
		fmt.Fprintf(&b, "Our model gives %s a %d%% chance of victory at home. ", homeTeam, pct(prediction.Home))
		factors = append(factors, fmt.Sprintf("Strong home win probability (%d%%)", pct(prediction.Home)))
	case prediction.Away > 0.40:
		fmt.Fprintf(&b, "%s have a solid %d%% chance of taking all three points. ", awayTeam, pct(prediction.Away))
		factors = append(factors, fmt.Sprintf("Significant away win probability (%d%%)", pct(prediction.Away)))
	default:
		fmt.Fprintf(&b, "The draw at %d%% represents interesting value. ", pct(prediction.Draw))
		factors = append(factors, fmt.Sprintf("Draw probability elevated (%d%%)", pct(prediction.Draw)))
	}

	switch {
	case prediction.Home >= prediction.Away && prediction.Home >= prediction.Draw:
		fmt.Fprintf(&b, "Consider %s to win or the Double Chance (1X) for added security.", homeTeam)
	case prediction.Away >= prediction.Draw:
		fmt.Fprintf(&b, "%s or Draw (X2) could provide value depending on odds.", awayTeam)
	default:
		b.WriteString("In tight matches like this, goals markets (Under 2.5) often provide value.")
	}

	factors = append(factors, fmt.Sprintf("Model confidence: %d%%", pct(prediction.Confidence)))

	return Insight{Text: b.String(), Factors: factors}
}

// KellyStake returns a fractional Kelly stake suggestion as a display
// string, capped to [0.5%, 5%]
func (a *Analyzer) KellyStake(probability, odds float64) string {
	b := odds - 1
	q := 1 - probability
	kelly := (probability*b - q) / b

	// Quarter Kelly
	fractional := math.Max(0, kelly*0.25)

	if fractional < 0.005 {
		return "0.5%"
	}
	if fractional > 0.05 {
		return "5%"
	}
	return fmt.Sprintf("%g%%", math.Round(fractional*1000)/10)
}

func teamRating(teamName string) float64 {
	if rating, ok := teamRatings[teamName]; ok {
		return rating
	}
	for name, rating := range teamRatings {
		if strings.Contains(teamName, name) || strings.Contains(name, teamName) {
			return rating
		}
	}
	return defaultRating
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func pct(v float64) int {
	return int(math.Round(v * 100))
}
