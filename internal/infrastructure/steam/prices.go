package steam

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"inv_checker/internal/domain/entity"
	"inv_checker/internal/domain/value"
	"inv_checker/pkg/logx"
)

type listingInfo struct {
	ConvertedPrice float64 `json:"converted_price"`
	ConvertedFee   float64 `json:"converted_fee"`
}

type listingsResponse struct {
	Success     bool                   `json:"success"`
	TotalCount  int                    `json:"total_count"`
	ListingInfo map[string]listingInfo `json:"listinginfo"`
}

// QueryPrice performs exactly one market listings call and classifies the
// result. The caller owns pacing and retries.
func (c *Client) QueryPrice(ctx context.Context, name string, currency value.Currency) (entity.PriceQuote, error) {
	query := url.Values{}
	query.Set("start", "0")
	query.Set("count", "1")
	query.Set("currency", fmt.Sprintf("%d", currency.Code()))
	query.Set("format", "json")
	query.Set("language", c.language)

	endpoint := fmt.Sprintf(
		"%s/market/listings/%d/%s/render?%s",
		c.baseURL, c.appID, url.PathEscape(name), query.Encode(),
	)

	resp, err := c.get(ctx, endpoint)
	if err != nil {
		if ctx.Err() != nil {
			return entity.PriceQuote{}, ctx.Err()
		}

		upstreamRequests.WithLabelValues("listings", entity.OutcomeTransient.String()).Inc()

		logger(ctx).Warn("price request failed", slog.String(logx.FieldItem, name), logx.Error(err))

		return entity.PriceQuote{Outcome: entity.OutcomeTransient}, nil
	}

	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		upstreamRequests.WithLabelValues("listings", entity.OutcomeThrottled.String()).Inc()

		return entity.PriceQuote{Outcome: entity.OutcomeThrottled}, nil

	case resp.StatusCode == http.StatusNotFound:
		upstreamRequests.WithLabelValues("listings", entity.OutcomeNotFound.String()).Inc()

		return entity.PriceQuote{Outcome: entity.OutcomeNotFound}, nil

	case resp.StatusCode != http.StatusOK:
		upstreamRequests.WithLabelValues("listings", entity.OutcomeTransient.String()).Inc()

		logger(ctx).Warn(
			"price request failed",
			slog.String(logx.FieldItem, name),
			slog.Int(logx.FieldResponseStatus, resp.StatusCode),
		)

		return entity.PriceQuote{Outcome: entity.OutcomeTransient}, nil
	}

	var listings listingsResponse

	if err := json.NewDecoder(resp.Body).Decode(&listings); err != nil {
		upstreamRequests.WithLabelValues("listings", entity.OutcomeTransient.String()).Inc()

		logger(ctx).Warn("price response unparseable", slog.String(logx.FieldItem, name), logx.Error(err))

		return entity.PriceQuote{Outcome: entity.OutcomeTransient}, nil
	}

	if !listings.Success || len(listings.ListingInfo) == 0 {
		upstreamRequests.WithLabelValues("listings", entity.OutcomeNotFound.String()).Inc()

		return entity.PriceQuote{Outcome: entity.OutcomeNotFound}, nil
	}

	for _, info := range listings.ListingInfo {
		if info.ConvertedPrice <= 0 {
			continue
		}

		upstreamRequests.WithLabelValues("listings", entity.OutcomePriced.String()).Inc()

		return entity.PriceQuote{
			Outcome:   entity.OutcomePriced,
			UnitPrice: (info.ConvertedPrice + info.ConvertedFee) / 100,
			Quantity:  listings.TotalCount,
		}, nil
	}

	upstreamRequests.WithLabelValues("listings", entity.OutcomeNotFound.String()).Inc()

	return entity.PriceQuote{Outcome: entity.OutcomeNotFound}, nil
}
