package models

import "math"

// BetStats summarizes a user's settled bets
type BetStats struct {
	TotalBets   int
	Won         int
	Lost        int
	Void        int
	TotalStake  int64
	TotalReturn int64
}

// Profit returns net result over all settled bets
func (s *BetStats) Profit() int64 {
	return s.TotalReturn - s.TotalStake
}

// ROI returns return on investment as a percentage, rounded to two decimals
func (s *BetStats) ROI() float64 {
	if s.TotalStake == 0 {
		return 0
	}
	roi := float64(s.Profit()) / float64(s.TotalStake) * 100
	return math.Round(roi*100) / 100
}
