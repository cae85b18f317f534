package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// BetsPlaced counts accepted bets
	BetsPlaced = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bets_placed_total",
		Help: "Bets accepted by the bet engine",
	})

	// BetsRejected counts rejected bet attempts by reason
	BetsRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bets_rejected_total",
		Help: "Bet attempts rejected, by reason",
	}, []string{"reason"})

	// BetsSettled counts settled bets by terminal status
	BetsSettled = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bets_settled_total",
		Help: "Bets settled, by terminal status",
	}, []string{"status"})

	// SettlementAnomalies counts per-bet settlement failures
	SettlementAnomalies = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "settlement_anomalies_total",
		Help: "Settlement steps that failed and were skipped",
	})

	// BalanceOperations counts wallet movements by transaction type
	BalanceOperations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "balance_operations_total",
		Help: "Wallet operations, by transaction type",
	}, []string{"type"})

	// ResultsConsumed counts results feed messages by handling outcome
	ResultsConsumed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "results_consumed_total",
		Help: "Results feed messages consumed, by handling outcome",
	}, []string{"outcome"})
)

// Register registers all collectors with the default registry
func Register() {
	prometheus.MustRegister(
		BetsPlaced,
		BetsRejected,
		BetsSettled,
		SettlementAnomalies,
		BalanceOperations,
		ResultsConsumed,
	)
}

// HealthFunc reports dependency health for the readiness endpoint
type HealthFunc func(ctx context.Context) error

// StartServer starts a lightweight HTTP server exposing /metrics and
// /healthz, in its own goroutine. The caller owns shutdown.
func StartServer(addr string, healthFn HealthFunc) *http.Server {
	mux := http.NewServeMux()

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()

		if err := healthFn(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprintf(w, "unhealthy: %v", err)
			return
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		srv.ListenAndServe()
	}()

	return srv
}
