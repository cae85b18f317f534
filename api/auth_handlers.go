package api

import (
	"encoding/json"
	"net/http"
	"time"
)

type nonceRequest struct {
	WalletAddress string `json:"walletAddress"`
}

type connectRequest struct {
	WalletAddress string `json:"walletAddress"`
	Nonce         string `json:"nonce"`
	Signature     string `json:"signature"`
}

func (s *Server) handleNonce(w http.ResponseWriter, r *http.Request) {
	var req nonceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.WalletAddress == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "walletAddress is required")
		return
	}

	challenge, err := s.authenticator.Nonce(r.Context(), req.WalletAddress)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"nonce":     challenge.Nonce,
		"expiresAt": challenge.ExpiresAt.Format(time.RFC3339),
	})
}

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	var req connectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil ||
		req.WalletAddress == "" || req.Nonce == "" || req.Signature == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "walletAddress, nonce and signature are required")
		return
	}

	session, err := s.authenticator.Connect(r.Context(), req.WalletAddress, req.Nonce, req.Signature)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token":     session.Token,
		"userId":    session.UserID,
		"expiresAt": session.ExpiresAt.Format(time.RFC3339),
	})
}

func (s *Server) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Invalid or missing token")
		return
	}

	if err := s.authenticator.Disconnect(r.Context(), token); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"disconnected": true})
}
