// Package valuation runs the full inventory valuation: fetch, deduplicate,
// price every distinct item and assemble the report.
package valuation

import (
	"context"
	"errors"
	"log/slog"

	"github.com/benbjohnson/clock"
	"github.com/samber/lo"

	"inv_checker/internal/domain"
	"inv_checker/internal/domain/entity"
	"inv_checker/internal/domain/value"
	"inv_checker/pkg/contextx"
	"inv_checker/pkg/errcodes"
	"inv_checker/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type InventoryFetcher interface {
	FetchInventory(ctx context.Context, steamID string) ([]entity.InventoryItem, error)
}

type PriceResolver interface {
	Resolve(ctx context.Context, name string) (entity.PricedItem, error)
}

// CachePersister flushes the price cache to disk after every run.
type CachePersister interface {
	Save() error
}

// SnapshotRepository keeps finished reports. Optional; nil disables it.
type SnapshotRepository interface {
	SaveReport(ctx context.Context, report entity.Report) error
}

type Service struct {
	fetcher   InventoryFetcher
	resolver  PriceResolver
	cache     CachePersister
	snapshots SnapshotRepository
	clock     clock.Clock

	steamID  value.SteamID
	currency value.Currency
}

func NewService(
	fetcher InventoryFetcher,
	resolver PriceResolver,
	cache CachePersister,
	steamID value.SteamID,
	currency value.Currency,
) *Service {
	return &Service{
		fetcher:  fetcher,
		resolver: resolver,
		cache:    cache,
		clock:    clock.New(),
		steamID:  steamID,
		currency: currency,
	}
}

func (s *Service) WithSnapshots(snapshots SnapshotRepository) *Service {
	s.snapshots = snapshots
	return s
}

func (s *Service) WithClock(clk clock.Clock) *Service {
	s.clock = clk
	return s
}

// Run produces one valuation report. Items whose price cannot be resolved go
// to the unresolved list instead of failing the run; the cache is flushed to
// disk even when the run aborts early.
func (s *Service) Run(ctx context.Context) (entity.Report, error) {
	defer s.saveCache(ctx)

	items, err := s.fetcher.FetchInventory(ctx, s.steamID.String())
	if err != nil {
		return entity.Report{}, err
	}

	counts := make(map[string]int, len(items))
	for _, item := range items {
		counts[item.Name] += item.Count
	}

	names := lo.Uniq(lo.Map(items, func(item entity.InventoryItem, _ int) string {
		return item.Name
	}))

	logger(ctx).Info(
		"inventory loaded",
		slog.String(logx.FieldSteamID, s.steamID.String()),
		slog.Int(logx.FieldCount, len(names)),
	)

	report := entity.Report{
		SteamID:     s.steamID,
		Currency:    s.currency,
		GeneratedAt: s.clock.Now().UTC(),
	}

	for _, name := range names {
		priced, err := s.resolver.Resolve(ctx, name)
		if err != nil {
			if isUnresolvable(err) {
				report.Unresolved = append(report.Unresolved, name)

				continue
			}

			return entity.Report{}, err
		}

		line := entity.ReportLine{
			Name:      name,
			UnitPrice: priced.UnitPrice,
			Count:     counts[name],
			Stale:     priced.Stale,
		}
		report.Lines = append(report.Lines, line)
		report.TotalValue += line.Subtotal()
	}

	logger(ctx).Info(
		"valuation complete",
		slog.String(logx.FieldSteamID, s.steamID.String()),
		slog.Float64(logx.FieldTotalValue, report.TotalValue),
		slog.Int("unresolved", len(report.Unresolved)),
	)

	if s.snapshots != nil {
		if err := s.snapshots.SaveReport(ctx, report); err != nil {
			logger(ctx).Error("report snapshot failed", logx.Error(err))
		}
	}

	return report, nil
}

func isUnresolvable(err error) bool {
	var appErr *domain.AppError
	if !errors.As(err, &appErr) {
		return false
	}

	return appErr.Code == errcodes.PriceNotFound || appErr.Code == errcodes.PriceUnavailable
}

func (s *Service) saveCache(ctx context.Context) {
	if err := s.cache.Save(); err != nil {
		logger(ctx).Error("price cache save failed", logx.Error(err))
	}
}
