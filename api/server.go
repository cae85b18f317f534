package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"

	"github.com/jaffarkeikei/vector-markets/auth"
	"github.com/jaffarkeikei/vector-markets/models"
	"github.com/jaffarkeikei/vector-markets/predictions"
	"github.com/jaffarkeikei/vector-markets/service"
)

// Authenticator is the wallet auth surface the API drives
type Authenticator interface {
	Nonce(ctx context.Context, walletAddress string) (*auth.Challenge, error)
	Connect(ctx context.Context, walletAddress, nonce, signature string) (*auth.Session, error)
	Resolve(ctx context.Context, token string) (string, error)
	Disconnect(ctx context.Context, token string) error
}

// MatchBrowser serves match listings
type MatchBrowser interface {
	ListMatches(ctx context.Context, filter models.MatchFilter) ([]*models.Match, int, error)
	GetMatchDetail(ctx context.Context, matchID string) (*models.MatchDetail, error)
}

// BetPlacer serves bet placement and reads
type BetPlacer interface {
	PlaceBet(ctx context.Context, userID, outcomeID string, stake int64, oddsAccepted float64) (*models.Bet, error)
	GetBet(ctx context.Context, userID, betID string) (*models.BetDetail, error)
	ListBets(ctx context.Context, userID string, filter models.BetFilter) ([]*models.BetDetail, int, error)
	BetHistory(ctx context.Context, userID string, filter models.BetFilter) ([]*models.BetDetail, int, *models.BetStats, error)
}

// Wallet serves balance reads and funds movement
type Wallet interface {
	GetBalance(ctx context.Context, userID string) (*models.Balance, error)
	Deposit(ctx context.Context, userID string, amount int64, txHash string) (*models.Transaction, error)
	Withdraw(ctx context.Context, userID string, amount int64, txHash string) (*models.Transaction, error)
	MoveToYield(ctx context.Context, userID string, amount int64) (*models.Transaction, error)
	WithdrawFromYield(ctx context.Context, userID string, amount int64) (*models.Transaction, error)
	ListTransactions(ctx context.Context, userID string, txType models.TransactionType, limit, offset int) ([]*models.Transaction, int, error)
}

// Users serves user profile reads
type Users interface {
	GetProfile(ctx context.Context, userID string) (*service.Profile, error)
}

// Predictor serves generated match analysis
type Predictor interface {
	GeneratePrediction(homeTeam, awayTeam string) predictions.Prediction
	GenerateInsight(homeTeam, awayTeam, league string) predictions.Insight
}

// HealthFunc reports dependency health for the health endpoint
type HealthFunc func(ctx context.Context) error

// Server is the HTTP API surface
type Server struct {
	http *http.Server

	authenticator Authenticator
	matches       MatchBrowser
	bets          BetPlacer
	wallet        Wallet
	users         Users
	predictor     Predictor
	healthFn      HealthFunc
}

// Deps bundles the collaborators the server needs
type Deps struct {
	Authenticator Authenticator
	Matches       MatchBrowser
	Bets          BetPlacer
	Wallet        Wallet
	Users         Users
	Predictor     Predictor
	HealthFn      HealthFunc
	CORSOrigins   []string
}

// NewServer creates the API server and registers all routes
func NewServer(addr string, deps Deps) *Server {
	s := &Server{
		authenticator: deps.Authenticator,
		matches:       deps.Matches,
		bets:          deps.Bets,
		wallet:        deps.Wallet,
		users:         deps.Users,
		predictor:     deps.Predictor,
		healthFn:      deps.HealthFn,
	}

	router := mux.NewRouter()
	router.Use(requestLogging)

	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	router.HandleFunc("/auth/nonce", s.handleNonce).Methods(http.MethodPost)
	router.HandleFunc("/auth/connect", s.handleConnect).Methods(http.MethodPost)
	router.HandleFunc("/auth/disconnect", s.handleDisconnect).Methods(http.MethodPost)

	router.HandleFunc("/matches", s.handleListMatches).Methods(http.MethodGet)
	router.HandleFunc("/matches/{id}", s.handleGetMatch).Methods(http.MethodGet)

	router.HandleFunc("/ai/predictions/{matchId}", s.handlePrediction).Methods(http.MethodGet)

	authed := router.NewRoute().Subrouter()
	authed.Use(s.requireAuth)
	authed.HandleFunc("/bets", s.handlePlaceBet).Methods(http.MethodPost)
	authed.HandleFunc("/bets", s.handleListBets).Methods(http.MethodGet)
	authed.HandleFunc("/bets/history", s.handleBetHistory).Methods(http.MethodGet)
	authed.HandleFunc("/bets/{id}", s.handleGetBet).Methods(http.MethodGet)
	authed.HandleFunc("/users/me", s.handleMe).Methods(http.MethodGet)
	authed.HandleFunc("/users/me/balance", s.handleBalance).Methods(http.MethodGet)
	authed.HandleFunc("/users/me/transactions", s.handleTransactions).Methods(http.MethodGet)
	authed.HandleFunc("/wallet/deposit", s.handleDeposit).Methods(http.MethodPost)
	authed.HandleFunc("/wallet/withdraw", s.handleWithdraw).Methods(http.MethodPost)
	authed.HandleFunc("/wallet/yield/deposit", s.handleYieldDeposit).Methods(http.MethodPost)
	authed.HandleFunc("/wallet/yield/withdraw", s.handleYieldWithdraw).Methods(http.MethodPost)

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   deps.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	s.http = &http.Server{
		Addr:         addr,
		Handler:      corsMiddleware.Handler(router),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s
}

// Handler exposes the configured handler, for tests
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Start serves until the listener fails or Shutdown is called
func (s *Server) Start() error {
	log.WithField("addr", s.http.Addr).Info("API server listening")
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), time.Second)
	defer cancel()

	if s.healthFn != nil {
		if err := s.healthFn(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "unhealthy"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}
