package predictions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzer_GeneratePrediction_ProbabilitiesSumToOne(t *testing.T) {
	a := NewAnalyzer()

	p := a.GeneratePrediction("Manchester City", "Luton")

	sum := p.Home + p.Draw + p.Away
	assert.InDelta(t, 1.0, sum, 0.01)
	assert.Greater(t, p.Home, p.Away, "stronger home side should be favored")
	assert.GreaterOrEqual(t, p.Confidence, 0.55)
	assert.LessOrEqual(t, p.Confidence, 0.85)
}

func TestAnalyzer_GeneratePrediction_UnknownTeamsGetDefaultRating(t *testing.T) {
	a := NewAnalyzer()

	p := a.GeneratePrediction("FC Nowhere", "Sporting Unknown")

	// Equal ratings leave only home advantage separating the sides.
	assert.Greater(t, p.Home, p.Away)
	assert.InDelta(t, 1.0, p.Home+p.Draw+p.Away, 0.01)
}

func TestAnalyzer_GenerateInsight(t *testing.T) {
	a := NewAnalyzer()

	insight := a.GenerateInsight("Manchester City", "Luton", "Premier League")

	assert.Contains(t, insight.Text, "Manchester City")
	assert.NotEmpty(t, insight.Factors)
	assert.Contains(t, insight.Factors[0], "stronger on paper")
}

func TestAnalyzer_KellyStake(t *testing.T) {
	a := NewAnalyzer()

	tests := []struct {
		name        string
		probability float64
		odds        float64
		want        string
	}{
		{"no edge", 0.40, 2.50, "0.5%"},
		{"huge edge capped", 0.80, 3.00, "5%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.KellyStake(tt.probability, tt.odds))
		})
	}
}
