package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/okian/calcio/internal/adapters/http/api"
	"github.com/okian/calcio/internal/adapters/repository"
	"github.com/okian/calcio/internal/adapters/stream"
	app "github.com/okian/calcio/internal/app"
	"github.com/okian/calcio/internal/config"
	"github.com/okian/calcio/internal/domain/market"
	"github.com/okian/calcio/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env).
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
		log.Info(ctx, "seeding from clock", logger.Int64("seed", seed))
	}

	var store repository.Store
	if cfg.PostgresURL != "" {
		pg, err := repository.NewPostgresStore(cfg.PostgresURL)
		if err != nil {
			os.Stderr.WriteString("failed to connect to postgres: " + err.Error() + "\n")
			return
		}
		store = pg
		log.Info(ctx, "using postgres snapshot store")
	} else {
		store = repository.NewMemoryStore()
		log.Info(ctx, "using in-memory snapshot store")
	}

	split := market.FeeSplit{
		Burn:     cfg.FeeBurnShare,
		Treasury: cfg.FeeTreasuryShare,
		Seller:   cfg.FeeSellerShare,
	}
	if err := split.Validate(); err != nil {
		os.Stderr.WriteString("invalid fee split: " + err.Error() + "\n")
		return
	}

	hub := stream.NewHub()

	svc := app.New(
		app.WithLogger(log),
		app.WithSeed(seed),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithQueueSize(cfg.FixtureQueueSize),
		app.WithRounds(cfg.Rounds),
		app.WithDaysPerMatchday(cfg.DaysPerMatchday),
		app.WithMinRoster(cfg.MinRoster),
		app.WithBidWindow(cfg.BidWindowDays),
		app.WithFeeSplit(split),
		app.WithBonuses(cfg.WinBonus, cfg.DrawBonus, cfg.TitleBonus),
		app.WithStore(store),
		app.WithHub(hub),
	)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}

	apiServer := api.NewServer(svc,
		api.WithWebsocket(hub.ServeWS),
		api.WithMaxScorers(cfg.MaxScorersLimit),
	)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           apiServer.Handler(),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "HTTP shutdown failed", logger.Error(err))
	}
	if err := svc.Stop(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "service stop failed", logger.Error(err))
	}
}
