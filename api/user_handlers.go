package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/jaffarkeikei/vector-markets/models"
)

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	profile, err := s.users.GetProfile(r.Context(), userID(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	body := map[string]any{
		"id":            profile.User.ID,
		"walletAddress": profile.User.WalletAddress,
		"createdAt":     profile.User.CreatedAt.Format(time.RFC3339),
	}
	if profile.Balance != nil {
		body["balance"] = newBalanceView(profile.Balance)
	}
	if profile.Stats != nil {
		body["stats"] = map[string]any{
			"totalBets":    profile.Stats.TotalBets,
			"wonBets":      profile.Stats.WonBets,
			"totalWagered": profile.Stats.TotalWagered,
			"totalProfit":  profile.Stats.Profit(),
			"roi":          profile.Stats.ROI(),
		}
	}

	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := s.wallet.GetBalance(r.Context(), userID(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newBalanceView(balance))
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	txType := models.TransactionType(query.Get("type"))
	limit := queryInt(query.Get("limit"), 20)
	offset := queryInt(query.Get("offset"), 0)

	txns, total, err := s.wallet.ListTransactions(r.Context(), userID(r), txType, limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	views := make([]transactionView, 0, len(txns))
	for _, txn := range txns {
		views = append(views, newTransactionView(txn))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"transactions": views,
		"total":        total,
		"limit":        limit,
		"offset":       offset,
	})
}

type fundsRequest struct {
	Amount int64  `json:"amount"`
	TxHash string `json:"txHash"`
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	s.handleFunds(w, r, models.TransactionTypeDeposit)
}

func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	s.handleFunds(w, r, models.TransactionTypeWithdrawal)
}

func (s *Server) handleYieldDeposit(w http.ResponseWriter, r *http.Request) {
	s.handleFunds(w, r, models.TransactionTypeYieldDeposit)
}

func (s *Server) handleYieldWithdraw(w http.ResponseWriter, r *http.Request) {
	s.handleFunds(w, r, models.TransactionTypeYieldWithdraw)
}

func (s *Server) handleFunds(w http.ResponseWriter, r *http.Request, txType models.TransactionType) {
	var req fundsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "amount must be positive")
		return
	}

	var (
		txn *models.Transaction
		err error
	)
	switch txType {
	case models.TransactionTypeDeposit:
		txn, err = s.wallet.Deposit(r.Context(), userID(r), req.Amount, req.TxHash)
	case models.TransactionTypeWithdrawal:
		txn, err = s.wallet.Withdraw(r.Context(), userID(r), req.Amount, req.TxHash)
	case models.TransactionTypeYieldDeposit:
		txn, err = s.wallet.MoveToYield(r.Context(), userID(r), req.Amount)
	case models.TransactionTypeYieldWithdraw:
		txn, err = s.wallet.WithdrawFromYield(r.Context(), userID(r), req.Amount)
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, newTransactionView(txn))
}
