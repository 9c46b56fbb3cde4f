// Package worker drives periodic revaluation and publishes the latest report.
package worker

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/benbjohnson/clock"

	"inv_checker/internal/domain/entity"
	"inv_checker/internal/infrastructure/notifier"
	"inv_checker/pkg/contextx"
	"inv_checker/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type ValuationRunner interface {
	Run(ctx context.Context) (entity.Report, error)
}

type Refresher struct {
	runner ValuationRunner
	holder *ReportHolder
	clock  clock.Clock

	interval       time.Duration
	alertThreshold float64
	changes        chan<- notifier.ValueChange
}

func NewRefresher(runner ValuationRunner, holder *ReportHolder, interval time.Duration) *Refresher {
	return &Refresher{
		runner:   runner,
		holder:   holder,
		clock:    clock.New(),
		interval: interval,
	}
}

// WithAlerts emits a ValueChange whenever the total moves by at least
// thresholdPercent between two consecutive runs.
func (r *Refresher) WithAlerts(changes chan<- notifier.ValueChange, thresholdPercent float64) *Refresher {
	r.changes = changes
	r.alertThreshold = thresholdPercent

	return r
}

func (r *Refresher) WithClock(clk clock.Clock) *Refresher {
	r.clock = clk
	return r
}

// RunOnce performs a single revaluation and publishes the result.
func (r *Refresher) RunOnce(ctx context.Context) (entity.Report, error) {
	previous, hadPrevious := r.holder.Latest()

	report, err := r.runner.Run(ctx)
	if err != nil {
		return entity.Report{}, err
	}

	r.holder.Set(report)

	if hadPrevious {
		r.maybeAlert(ctx, previous, report)
	}

	return report, nil
}

// Run revalues immediately and then on every interval tick until the context
// is cancelled.
func (r *Refresher) Run(ctx context.Context) error {
	if _, err := r.RunOnce(ctx); err != nil {
		logger(ctx).Error("initial valuation failed", logx.Error(err))
	}

	ticker := r.clock.Ticker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := r.RunOnce(ctx); err != nil {
				logger(ctx).Error("scheduled valuation failed", logx.Error(err))
			}
		}
	}
}

func (r *Refresher) maybeAlert(ctx context.Context, previous, current entity.Report) {
	if r.changes == nil || previous.TotalValue == 0 {
		return
	}

	changePercent := (current.TotalValue - previous.TotalValue) / previous.TotalValue * 100
	if math.Abs(changePercent) < r.alertThreshold {
		return
	}

	change := notifier.ValueChange{
		Report:        current,
		PreviousTotal: previous.TotalValue,
		ChangePercent: changePercent,
	}

	select {
	case r.changes <- change:
	default:
		logger(ctx).Warn(
			"value change alert dropped, channel full",
			slog.Float64(logx.FieldTotalValue, current.TotalValue),
		)
	}
}
