package api

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/jaffarkeikei/vector-markets/auth"
	"github.com/jaffarkeikei/vector-markets/metrics"
	"github.com/jaffarkeikei/vector-markets/service"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"error":   code,
		"message": message,
	})
}

// writeServiceError maps typed service rejections to stable HTTP bodies.
// Unrecognized errors become opaque 500s; details stay in the logs.
func writeServiceError(w http.ResponseWriter, err error) {
	var oddsErr *service.OddsChangedError
	if errors.As(err, &oddsErr) {
		metrics.BetsRejected.WithLabelValues("odds_changed").Inc()
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":         "odds_changed",
			"message":       "Odds have changed since selection",
			"currentOdds":   oddsErr.CurrentOdds,
			"requestedOdds": oddsErr.RequestedOdds,
		})
		return
	}

	var balErr *service.InsufficientBalanceError
	if errors.As(err, &balErr) {
		metrics.BetsRejected.WithLabelValues("insufficient_balance").Inc()
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":     "insufficient_balance",
			"message":   "Not enough available balance",
			"available": balErr.Available,
			"required":  balErr.Required,
		})
		return
	}

	var stakeErr *service.StakeOutOfRangeError
	if errors.As(err, &stakeErr) {
		metrics.BetsRejected.WithLabelValues("stake_out_of_range").Inc()
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":   "invalid_stake",
			"message": "Stake outside allowed limits",
			"min":     stakeErr.Min,
			"max":     stakeErr.Max,
		})
		return
	}

	switch {
	case errors.Is(err, service.ErrOutcomeNotFound):
		metrics.BetsRejected.WithLabelValues("outcome_not_found").Inc()
		writeError(w, http.StatusNotFound, "not_found", "Outcome not found")
	case errors.Is(err, service.ErrMarketSuspended):
		metrics.BetsRejected.WithLabelValues("market_suspended").Inc()
		writeError(w, http.StatusBadRequest, "market_suspended", "Market is not accepting bets")
	case errors.Is(err, service.ErrMatchStarted):
		metrics.BetsRejected.WithLabelValues("match_started").Inc()
		writeError(w, http.StatusBadRequest, "match_started", "Match has already started")
	case errors.Is(err, service.ErrBetNotFound):
		writeError(w, http.StatusNotFound, "not_found", "Bet not found")
	case errors.Is(err, service.ErrMatchNotFound):
		writeError(w, http.StatusNotFound, "not_found", "Match not found")
	case errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "not_found", "User not found")
	case errors.Is(err, auth.ErrInvalidAddress):
		writeError(w, http.StatusBadRequest, "invalid_address", "Invalid wallet address")
	case errors.Is(err, auth.ErrNonceNotFound):
		writeError(w, http.StatusBadRequest, "nonce_not_found", "Request a nonce first")
	case errors.Is(err, auth.ErrNonceMismatch):
		writeError(w, http.StatusBadRequest, "invalid_nonce", "Nonce does not match")
	case errors.Is(err, auth.ErrInvalidSignature):
		writeError(w, http.StatusUnauthorized, "invalid_signature", "Signature verification failed")
	default:
		log.WithField("error", err).Error("Request failed")
		writeError(w, http.StatusInternalServerError, "internal_error", "Something went wrong")
	}
}
