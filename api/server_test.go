package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaffarkeikei/vector-markets/auth"
	"github.com/jaffarkeikei/vector-markets/models"
	"github.com/jaffarkeikei/vector-markets/predictions"
	"github.com/jaffarkeikei/vector-markets/service"
)

type stubAuthenticator struct {
	sessions map[string]string
}

func (s *stubAuthenticator) Nonce(ctx context.Context, walletAddress string) (*auth.Challenge, error) {
	return &auth.Challenge{Nonce: "challenge", ExpiresAt: time.Now().Add(5 * time.Minute)}, nil
}

func (s *stubAuthenticator) Connect(ctx context.Context, walletAddress, nonce, signature string) (*auth.Session, error) {
	return &auth.Session{Token: "token-1", UserID: "user-1", ExpiresAt: time.Now().Add(24 * time.Hour)}, nil
}

func (s *stubAuthenticator) Resolve(ctx context.Context, token string) (string, error) {
	if userID, ok := s.sessions[token]; ok {
		return userID, nil
	}
	return "", auth.ErrInvalidToken
}

func (s *stubAuthenticator) Disconnect(ctx context.Context, token string) error {
	delete(s.sessions, token)
	return nil
}

type stubBets struct {
	placeBet func(ctx context.Context, userID, outcomeID string, stake int64, oddsAccepted float64) (*models.Bet, error)
}

func (s *stubBets) PlaceBet(ctx context.Context, userID, outcomeID string, stake int64, oddsAccepted float64) (*models.Bet, error) {
	return s.placeBet(ctx, userID, outcomeID, stake, oddsAccepted)
}

func (s *stubBets) GetBet(ctx context.Context, userID, betID string) (*models.BetDetail, error) {
	return nil, service.ErrBetNotFound
}

func (s *stubBets) ListBets(ctx context.Context, userID string, filter models.BetFilter) ([]*models.BetDetail, int, error) {
	return nil, 0, nil
}

func (s *stubBets) BetHistory(ctx context.Context, userID string, filter models.BetFilter) ([]*models.BetDetail, int, *models.BetStats, error) {
	return nil, 0, &models.BetStats{}, nil
}

type stubMatches struct {
	matches []*models.Match
	detail  *models.MatchDetail
}

func (s *stubMatches) ListMatches(ctx context.Context, filter models.MatchFilter) ([]*models.Match, int, error) {
	return s.matches, len(s.matches), nil
}

func (s *stubMatches) GetMatchDetail(ctx context.Context, matchID string) (*models.MatchDetail, error) {
	if s.detail == nil {
		return nil, service.ErrMatchNotFound
	}
	return s.detail, nil
}

func newTestServer(t *testing.T, bets BetPlacer, matches MatchBrowser) *Server {
	t.Helper()
	if matches == nil {
		matches = &stubMatches{}
	}
	return NewServer(":0", Deps{
		Authenticator: &stubAuthenticator{sessions: map[string]string{"token-1": "user-1"}},
		Matches:       matches,
		Bets:          bets,
		Predictor:     predictions.NewAnalyzer(),
		CORSOrigins:   []string{"*"},
	})
}

func doRequest(t *testing.T, s *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestServer_PlaceBet_Created(t *testing.T) {
	bets := &stubBets{
		placeBet: func(ctx context.Context, userID, outcomeID string, stake int64, oddsAccepted float64) (*models.Bet, error) {
			assert.Equal(t, "user-1", userID)
			return &models.Bet{
				ID:              "bet-1",
				UserID:          userID,
				OutcomeID:       outcomeID,
				Stake:           stake,
				Odds:            2.20,
				PotentialReturn: 22000,
				Status:          models.BetStatusPending,
				CreatedAt:       time.Now(),
			}, nil
		},
	}
	s := newTestServer(t, bets, nil)

	rec := doRequest(t, s, http.MethodPost, "/bets", "token-1", map[string]any{
		"outcomeId":    "outcome-1",
		"stake":        10000,
		"oddsAccepted": 2.20,
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "bet-1", body["id"])
	assert.Equal(t, "pending", body["status"])
	assert.Equal(t, float64(22000), body["potentialReturn"])
}

func TestServer_PlaceBet_RequiresAuth(t *testing.T) {
	s := newTestServer(t, &stubBets{}, nil)

	rec := doRequest(t, s, http.MethodPost, "/bets", "", map[string]any{
		"outcomeId": "outcome-1", "stake": 10000, "oddsAccepted": 2.2,
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, s, http.MethodPost, "/bets", "stale-token", map[string]any{
		"outcomeId": "outcome-1", "stake": 10000, "oddsAccepted": 2.2,
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", decodeBody(t, rec)["error"])
}

func TestServer_PlaceBet_OddsChangedBody(t *testing.T) {
	bets := &stubBets{
		placeBet: func(ctx context.Context, userID, outcomeID string, stake int64, oddsAccepted float64) (*models.Bet, error) {
			return nil, &service.OddsChangedError{CurrentOdds: 2.50, RequestedOdds: 2.20}
		},
	}
	s := newTestServer(t, bets, nil)

	rec := doRequest(t, s, http.MethodPost, "/bets", "token-1", map[string]any{
		"outcomeId": "outcome-1", "stake": 10000, "oddsAccepted": 2.2,
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "odds_changed", body["error"])
	assert.Equal(t, 2.50, body["currentOdds"])
	assert.Equal(t, 2.20, body["requestedOdds"])
}

func TestServer_PlaceBet_InsufficientBalanceBody(t *testing.T) {
	bets := &stubBets{
		placeBet: func(ctx context.Context, userID, outcomeID string, stake int64, oddsAccepted float64) (*models.Bet, error) {
			return nil, &service.InsufficientBalanceError{Available: 2500, Required: 10000}
		},
	}
	s := newTestServer(t, bets, nil)

	rec := doRequest(t, s, http.MethodPost, "/bets", "token-1", map[string]any{
		"outcomeId": "outcome-1", "stake": 10000, "oddsAccepted": 2.2,
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "insufficient_balance", body["error"])
	assert.Equal(t, float64(2500), body["available"])
	assert.Equal(t, float64(10000), body["required"])
}

func TestServer_PlaceBet_InvalidRequest(t *testing.T) {
	s := newTestServer(t, &stubBets{}, nil)

	rec := doRequest(t, s, http.MethodPost, "/bets", "token-1", map[string]any{
		"outcomeId": "outcome-1",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_request", decodeBody(t, rec)["error"])
}

func TestServer_ListMatches(t *testing.T) {
	matches := &stubMatches{
		matches: []*models.Match{
			{
				ID: "match-1", Sport: "football", League: "Premier League",
				HomeTeam: "Arsenal", AwayTeam: "Chelsea",
				StartTime: time.Now().Add(24 * time.Hour),
				Status:    models.MatchStatusUpcoming,
			},
		},
	}
	s := newTestServer(t, &stubBets{}, matches)

	rec := doRequest(t, s, http.MethodGet, "/matches?sport=football", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(1), body["total"])
}

func TestServer_GetMatch_NotFound(t *testing.T) {
	s := newTestServer(t, &stubBets{}, &stubMatches{})

	rec := doRequest(t, s, http.MethodGet, "/matches/ghost", "", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decodeBody(t, rec)["error"])
}

func TestServer_Prediction(t *testing.T) {
	matches := &stubMatches{
		detail: &models.MatchDetail{
			Match: &models.Match{
				ID: "match-1", League: "Premier League",
				HomeTeam: "Manchester City", AwayTeam: "Luton",
			},
		},
	}
	s := newTestServer(t, &stubBets{}, matches)

	rec := doRequest(t, s, http.MethodGet, "/ai/predictions/match-1", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "match-1", body["matchId"])
	prediction := body["prediction"].(map[string]any)
	assert.Greater(t, prediction["home"], prediction["away"])
}

func TestServer_Health(t *testing.T) {
	s := newTestServer(t, &stubBets{}, nil)

	rec := doRequest(t, s, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
}
