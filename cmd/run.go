package cmd

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/jaffarkeikei/vector-markets/api"
	"github.com/jaffarkeikei/vector-markets/auth"
	"github.com/jaffarkeikei/vector-markets/config"
	"github.com/jaffarkeikei/vector-markets/database"
	"github.com/jaffarkeikei/vector-markets/events"
	"github.com/jaffarkeikei/vector-markets/feed"
	"github.com/jaffarkeikei/vector-markets/metrics"
	"github.com/jaffarkeikei/vector-markets/predictions"
	"github.com/jaffarkeikei/vector-markets/repository"
	"github.com/jaffarkeikei/vector-markets/service"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	cfg := config.Get()

	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	log.Info("Connecting to Redis...")
	redisClient, err := auth.ConnectRedis(ctx, cfg.RedisAddr)
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	defer redisClient.Close()

	eventBus := events.NewBus()
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	userService := service.NewUserService(uowFactory)
	matchService := service.NewMatchService(uowFactory)
	bettingService := service.NewBettingService(uowFactory, cfg.MinStake, cfg.MaxStake)
	settlementService := service.NewSettlementService(uowFactory)
	walletService := service.NewWalletService(uowFactory)

	authenticator := auth.NewAuthenticator(auth.NewRedisStore(redisClient), userService)

	metrics.Register()
	subscribeMetrics(eventBus)
	metricsServer := metrics.StartServer(cfg.MetricsAddr, db.Healthy)

	var publisher *feed.Publisher
	var consumer *feed.Consumer
	if cfg.FeedEnabled {
		publisher = feed.NewPublisher(feed.NewWriter(cfg.KafkaBrokers, cfg.BetEventsTopic))
		publisher.Subscribe(eventBus)

		consumer = feed.NewConsumer(
			feed.NewReader(cfg.KafkaBrokers, cfg.ResultsTopic, cfg.FeedGroupID),
			settlementService,
		)
		go func() {
			if err := consumer.Run(ctx); err != nil {
				log.WithField("error", err).Error("Results feed consumer stopped")
			}
		}()
	}

	server := api.NewServer(cfg.ListenAddr, api.Deps{
		Authenticator: authenticator,
		Matches:       matchService,
		Bets:          bettingService,
		Wallet:        walletService,
		Users:         userService,
		Predictor:     predictions.NewAnalyzer(),
		HealthFn:      db.Healthy,
		CORSOrigins:   cfg.CORSOrigins,
	})

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	log.WithField("environment", cfg.Environment).Info("Vector Markets is running")

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithField("error", err).Error("API server shutdown failed")
	}
	if consumer != nil {
		if err := consumer.Close(); err != nil {
			log.WithField("error", err).Error("Feed consumer close failed")
		}
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			log.WithField("error", err).Error("Feed publisher close failed")
		}
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.WithField("error", err).Error("Metrics server shutdown failed")
	}

	log.Info("Shutdown completed")
	return nil
}

// subscribeMetrics keeps the counters in step with domain events
func subscribeMetrics(bus *events.Bus) {
	bus.Subscribe(events.EventTypeBetSettled, func(ctx context.Context, event events.Event) {
		if settled, ok := event.(events.BetSettledEvent); ok {
			metrics.BetsSettled.WithLabelValues(string(settled.Status)).Inc()
		}
	})
	bus.Subscribe(events.EventTypeBalanceChanged, func(ctx context.Context, event events.Event) {
		if changed, ok := event.(events.BalanceChangedEvent); ok {
			metrics.BalanceOperations.WithLabelValues(string(changed.TransactionType)).Inc()
		}
	})
}
