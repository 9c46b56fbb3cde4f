// Package application wires the configuration, the connectors and every
// module of the long-running service together.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"inv_checker/internal/config"
	"inv_checker/internal/domain/service/pricing"
	"inv_checker/internal/domain/service/valuation"
	"inv_checker/internal/domain/value"
	"inv_checker/internal/infrastructure/notifier"
	"inv_checker/internal/infrastructure/persistence"
	"inv_checker/internal/infrastructure/steam"
	"inv_checker/internal/pricecache"
	"inv_checker/internal/ratelimit"
	"inv_checker/internal/server"
	"inv_checker/internal/tasks"
	"inv_checker/internal/worker"
	"inv_checker/pkg/application/connectors"
	"inv_checker/pkg/application/modules"
	"inv_checker/pkg/contextx"
	"inv_checker/pkg/httpx"
	"inv_checker/pkg/logx"
	"inv_checker/pkg/middlewarex"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const alertChannelCapacity = 16

func Run(ctx context.Context) error { //nolint:funlen
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	steamID, err := value.ParseSteamID(cfg.Steam.SteamID)
	if err != nil {
		return fmt.Errorf("value.ParseSteamID: %w", err)
	}

	currency := value.Currency(cfg.Steam.Currency)

	// Every log line of this process is about one account.
	ctx = contextx.WithAccountID(ctx, contextx.AccountID(steamID))
	ctx = contextx.WithLogger(ctx, logger(ctx).With(slog.String(logx.FieldSteamID, steamID.String())))

	store := pricecache.NewStore(cfg.Cache.File)
	store.Load(ctx)

	limiter := ratelimit.NewLimiter(cfg.RateLimit.BaseDelay, cfg.RateLimit.MaxDelay).
		WithGrowthFactor(cfg.RateLimit.GrowthFactor).
		WithJitter(cfg.RateLimit.Jitter)

	steamClient := steam.NewClient(
		cfg.Steam,
		limiter,
		httpx.WithLogFieldMaxLen(cfg.Server.LogFieldMaxLen),
		httpx.WithSensitiveDataMasker(logx.NewSensitiveDataMasker()),
	)

	resolver := pricing.NewResolver(
		steamClient,
		store,
		limiter,
		currency,
		cfg.Cache.Duration,
		cfg.RateLimit.MaxAttempts,
	)

	valuationService := valuation.NewService(steamClient, resolver, store, steamID, currency)

	if cfg.Postgres.Enabled() {
		pg := &connectors.Postgres{
			DSN:             cfg.Postgres.DSN,
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
		}
		defer pg.Close(ctx)

		valuationService.WithSnapshots(persistence.NewValuationRepository(pg.Client(ctx)))
	}

	holder := worker.NewReportHolder()
	refresher := worker.NewRefresher(valuationService, holder, cfg.Worker.RefreshInterval)

	g, ctx := errgroup.WithContext(ctx)

	if cfg.Notifier.Enabled() {
		alertBot, err := notifier.NewTelegramBot(cfg.Notifier.BotToken, cfg.Notifier.ChatID)
		if err != nil {
			return fmt.Errorf("notifier.NewTelegramBot: %w", err)
		}

		changes := make(chan notifier.ValueChange, alertChannelCapacity)
		refresher.WithAlerts(changes, cfg.Notifier.AlertThresholdPercent)

		g.Go(func() error {
			if err := alertBot.Run(ctx, changes); err != nil && ctx.Err() == nil {
				return fmt.Errorf("alertBot.Run: %w", err)
			}

			return nil
		})
	}

	valuationServer := server.NewValuationServer(holder, resolver, refresher, steamID)

	if cfg.Redis.Enabled() {
		redisConnection := asynq.RedisClientOpt{
			Addr:     cfg.Redis.Address,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DatabaseNumber,
		}

		asynqClient := asynq.NewClient(redisConnection)
		defer asynqClient.Close() //nolint:errcheck

		valuationServer = valuationServer.WithEnqueuer(tasks.NewEnqueuer(asynqClient))

		modules.AsynqServer{
			RedisUsername: cfg.Redis.Username,
			RedisPassword: cfg.Redis.Password,
			RedisAddress:  cfg.Redis.Address,
			RedisDB:       cfg.Redis.DatabaseNumber,
		}.Run(
			ctx,
			g,
			modules.AsynqQueues{"default": 1},
			modules.AsynqHandler{
				Pattern: tasks.TypeRefreshValuation,
				Handle:  tasks.NewRefreshHandler(refresher).Handle,
			},
		)
	}

	g.Go(func() error {
		if err := refresher.Run(ctx); err != nil && ctx.Err() == nil {
			return fmt.Errorf("refresher.Run: %w", err)
		}

		return nil
	})

	modules.HTTPServer{ShutdownTimeout: cfg.Server.ShutdownTimeout}.Run(ctx, g, &http.Server{ //nolint:exhaustruct
		Addr:    cfg.Server.HTTPAddress,
		Handler: newRouter(cfg, server.NewServer(valuationServer)),
	})

	modules.ProbeServer{
		Name:          cfg.App.Name,
		Version:       cfg.App.Version,
		ListenAddress: cfg.Server.ProbeAddress,
	}.Run(ctx, g)

	modules.MetricServer{ListenAddress: cfg.Server.MetricsAddress}.Run(ctx, g)

	logger(ctx).Info("application started")

	return g.Wait()
}

func newRouter(cfg config.Config, s server.Server) http.Handler {
	masker := logx.NewSensitiveDataMasker()

	r := chi.NewRouter()
	r.Use(
		middlewarex.TraceID,
		middlewarex.Logger,
		middlewarex.RequestLogging(masker, cfg.Server.LogFieldMaxLen),
		middlewarex.ResponseLogging(masker, cfg.Server.LogFieldMaxLen),
		middlewarex.Recovery,
	)

	s.RegisterRoutes(r)

	return r
}
