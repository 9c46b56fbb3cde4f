// Package pricing resolves one market hash name to a price, combining the
// durable cache, the adaptive pacer and the upstream listings client.
package pricing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/benbjohnson/clock"

	"inv_checker/internal/domain"
	"inv_checker/internal/domain/entity"
	"inv_checker/internal/domain/value"
	"inv_checker/internal/pricecache"
	"inv_checker/pkg/contextx"
	"inv_checker/pkg/errcodes"
	"inv_checker/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type PriceQuerier interface {
	QueryPrice(ctx context.Context, name string, currency value.Currency) (entity.PriceQuote, error)
}

type Cache interface {
	Get(name string) (entity.PricedItem, bool)
	Put(item entity.PricedItem)
}

// Limiter paces upstream calls. Acquire blocks before the call,
// ReportOutcome adapts the delay after it.
type Limiter interface {
	Acquire(ctx context.Context) error
	ReportOutcome(throttled bool)
}

type Resolver struct {
	querier PriceQuerier
	cache   Cache
	limiter Limiter
	clock   clock.Clock

	currency      value.Currency
	cacheDuration time.Duration
	maxAttempts   int
}

func NewResolver(
	querier PriceQuerier,
	cache Cache,
	limiter Limiter,
	currency value.Currency,
	cacheDuration time.Duration,
	maxAttempts int,
) *Resolver {
	return &Resolver{
		querier:       querier,
		cache:         cache,
		limiter:       limiter,
		clock:         clock.New(),
		currency:      currency,
		cacheDuration: cacheDuration,
		maxAttempts:   maxAttempts,
	}
}

func (r *Resolver) WithClock(clk clock.Clock) *Resolver {
	r.clock = clk
	return r
}

// Resolve returns the price for one item. A fresh cache entry short-circuits
// without any upstream traffic. When all attempts end throttled or transient,
// a stale cache entry is served as a marked fallback; without one the item is
// unresolvable.
func (r *Resolver) Resolve(ctx context.Context, name string) (entity.PricedItem, error) {
	cached, inCache := r.cache.Get(name)
	if inCache && pricecache.IsFresh(cached, r.cacheDuration, r.clock.Now()) {
		return cached, nil
	}

	lastOutcome := entity.OutcomeTransient

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		if err := r.limiter.Acquire(ctx); err != nil {
			return entity.PricedItem{}, err
		}

		quote, err := r.querier.QueryPrice(ctx, name, r.currency)
		if err != nil {
			return entity.PricedItem{}, err
		}

		r.limiter.ReportOutcome(quote.Outcome == entity.OutcomeThrottled)

		switch quote.Outcome {
		case entity.OutcomePriced:
			item := entity.PricedItem{
				Name:      name,
				UnitPrice: quote.UnitPrice,
				Quantity:  quote.Quantity,
				FetchedAt: r.clock.Now().UTC(),
			}
			r.cache.Put(item)

			return item, nil

		case entity.OutcomeNotFound:
			return entity.PricedItem{}, domain.NewError(errcodes.PriceNotFound, "no market listing for item")

		case entity.OutcomeThrottled, entity.OutcomeTransient:
			lastOutcome = quote.Outcome

			logger(ctx).Warn(
				"price attempt failed",
				slog.String(logx.FieldItem, name),
				slog.Int(logx.FieldAttempt, attempt),
				logx.Stringer("outcome", quote.Outcome),
			)
		}
	}

	if inCache {
		logger(ctx).Warn("serving stale cached price", slog.String(logx.FieldItem, name))

		cached.Stale = true

		return cached, nil
	}

	return entity.PricedItem{}, domain.NewError(
		errcodes.PriceUnavailable,
		fmt.Sprintf("price attempts exhausted, last outcome %s", lastOutcome),
	)
}
