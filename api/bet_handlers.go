package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/jaffarkeikei/vector-markets/metrics"
	"github.com/jaffarkeikei/vector-markets/models"
)

type placeBetRequest struct {
	OutcomeID    string  `json:"outcomeId"`
	Stake        int64   `json:"stake"`
	OddsAccepted float64 `json:"oddsAccepted"`
}

func (s *Server) handlePlaceBet(w http.ResponseWriter, r *http.Request) {
	var req placeBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil ||
		req.OutcomeID == "" || req.Stake <= 0 || req.OddsAccepted <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "outcomeId, stake and oddsAccepted are required")
		return
	}

	bet, err := s.bets.PlaceBet(r.Context(), userID(r), req.OutcomeID, req.Stake, req.OddsAccepted)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	metrics.BetsPlaced.Inc()

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":              bet.ID,
		"status":          string(bet.Status),
		"outcomeId":       bet.OutcomeID,
		"stake":           bet.Stake,
		"odds":            bet.Odds,
		"potentialReturn": bet.PotentialReturn,
		"createdAt":       bet.CreatedAt.Format(time.RFC3339),
	})
}

func (s *Server) handleListBets(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := models.BetFilter{
		Status: models.BetStatus(query.Get("status")),
		Limit:  queryInt(query.Get("limit"), 20),
		Offset: queryInt(query.Get("offset"), 0),
	}

	details, total, err := s.bets.ListBets(r.Context(), userID(r), filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var totalStake, pendingReturn int64
	views := make([]betView, 0, len(details))
	for _, detail := range details {
		views = append(views, newBetView(detail))
		totalStake += detail.Bet.Stake
		if detail.Bet.Status == models.BetStatusPending {
			pendingReturn += detail.Bet.PotentialReturn
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"bets": views,
		"summary": map[string]any{
			"totalStake":      totalStake,
			"potentialReturn": pendingReturn,
		},
		"total":  total,
		"limit":  filter.Limit,
		"offset": filter.Offset,
	})
}

func (s *Server) handleBetHistory(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := models.BetFilter{
		Limit:  queryInt(query.Get("limit"), 20),
		Offset: queryInt(query.Get("offset"), 0),
	}

	details, total, stats, err := s.bets.BetHistory(r.Context(), userID(r), filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	views := make([]betView, 0, len(details))
	for _, detail := range details {
		views = append(views, newBetView(detail))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"bets": views,
		"stats": map[string]any{
			"totalBets":   stats.TotalBets,
			"won":         stats.Won,
			"lost":        stats.Lost,
			"void":        stats.Void,
			"totalStake":  stats.TotalStake,
			"totalReturn": stats.TotalReturn,
			"profit":      stats.Profit(),
		},
		"total":  total,
		"limit":  filter.Limit,
		"offset": filter.Offset,
	})
}

func (s *Server) handleGetBet(w http.ResponseWriter, r *http.Request) {
	betID := mux.Vars(r)["id"]

	detail, err := s.bets.GetBet(r.Context(), userID(r), betID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newBetView(detail))
}
