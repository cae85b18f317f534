package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/jaffarkeikei/vector-markets/models"
)

func (s *Server) handleListMatches(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := models.MatchFilter{
		Sport:  query.Get("sport"),
		League: query.Get("league"),
		Status: models.MatchStatus(query.Get("status")),
		Limit:  queryInt(query.Get("limit"), 20),
		Offset: queryInt(query.Get("offset"), 0),
	}

	matches, total, err := s.matches.ListMatches(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	views := make([]matchView, 0, len(matches))
	for _, match := range matches {
		views = append(views, newMatchView(match))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"matches": views,
		"total":   total,
		"limit":   filter.Limit,
		"offset":  filter.Offset,
	})
}

func (s *Server) handleGetMatch(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["id"]

	detail, err := s.matches.GetMatchDetail(r.Context(), matchID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	markets := make([]marketView, 0, len(detail.Markets))
	for _, market := range detail.Markets {
		markets = append(markets, newMarketView(market))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"match":   newMatchView(detail.Match),
		"markets": markets,
	})
}

func (s *Server) handlePrediction(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["matchId"]

	detail, err := s.matches.GetMatchDetail(r.Context(), matchID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	match := detail.Match
	prediction := s.predictor.GeneratePrediction(match.HomeTeam, match.AwayTeam)
	insight := s.predictor.GenerateInsight(match.HomeTeam, match.AwayTeam, match.League)

	writeJSON(w, http.StatusOK, map[string]any{
		"matchId":    match.ID,
		"prediction": prediction,
		"insight":    insight,
	})
}

func queryInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return fallback
	}
	return parsed
}
