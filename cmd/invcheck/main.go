// invcheck values a Steam inventory once and prints the report as a table.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/lmittmann/tint"

	"inv_checker/internal/config"
	"inv_checker/internal/domain/entity"
	"inv_checker/internal/domain/service/pricing"
	"inv_checker/internal/domain/service/valuation"
	"inv_checker/internal/domain/value"
	"inv_checker/internal/infrastructure/steam"
	"inv_checker/internal/pricecache"
	"inv_checker/internal/ratelimit"
	"inv_checker/pkg/contextx"
	"inv_checker/pkg/logx"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log := slog.New(tint.NewHandler(os.Stderr, &tint.Options{ //nolint:exhaustruct
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(log)

	ctx = contextx.WithLogger(ctx, log)

	if err := run(ctx); err != nil {
		log.Error("valuation failed", logx.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	steamID, err := value.ParseSteamID(cfg.Steam.SteamID)
	if err != nil {
		return fmt.Errorf("value.ParseSteamID: %w", err)
	}

	currency := value.Currency(cfg.Steam.Currency)

	store := pricecache.NewStore(cfg.Cache.File)
	store.Load(ctx)

	limiter := ratelimit.NewLimiter(cfg.RateLimit.BaseDelay, cfg.RateLimit.MaxDelay).
		WithGrowthFactor(cfg.RateLimit.GrowthFactor).
		WithJitter(cfg.RateLimit.Jitter)

	steamClient := steam.NewClient(cfg.Steam, limiter)

	resolver := pricing.NewResolver(
		steamClient,
		store,
		limiter,
		currency,
		cfg.Cache.Duration,
		cfg.RateLimit.MaxAttempts,
	)

	report, err := valuation.NewService(steamClient, resolver, store, steamID, currency).Run(ctx)
	if err != nil {
		return fmt.Errorf("valuation.Run: %w", err)
	}

	printReport(report)

	return nil
}

func printReport(report entity.Report) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)

	fmt.Fprintf(w, "ITEM\tUNIT PRICE\tCOUNT\tSUBTOTAL\t\n")

	for _, line := range report.Lines {
		marker := ""
		if line.Stale {
			marker = " (stale)"
		}

		fmt.Fprintf(w, "%s\t%.2f %s%s\t%d\t%.2f %s\t\n",
			line.Name, line.UnitPrice, report.Currency, marker, line.Count, line.Subtotal(), report.Currency)
	}

	fmt.Fprintf(w, "\tTOTAL\t\t%.2f %s\t\n", report.TotalValue, report.Currency)

	w.Flush()

	if len(report.Unresolved) > 0 {
		fmt.Println("\nUnresolved items:")

		for _, name := range report.Unresolved {
			fmt.Printf("  - %s\n", name)
		}
	}
}
