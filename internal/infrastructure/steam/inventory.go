package steam

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"inv_checker/internal/domain"
	"inv_checker/internal/domain/entity"
	"inv_checker/pkg/errcodes"
	"inv_checker/pkg/logx"
)

const inventoryMaxAttempts = 5

type inventoryAsset struct {
	ClassID    string `json:"classid"`
	InstanceID string `json:"instanceid"`
	Amount     string `json:"amount"`
}

type inventoryDescription struct {
	ClassID        string `json:"classid"`
	InstanceID     string `json:"instanceid"`
	MarketHashName string `json:"market_hash_name"`
	Marketable     int    `json:"marketable"`
}

type inventoryResponse struct {
	Assets       []inventoryAsset       `json:"assets"`
	Descriptions []inventoryDescription `json:"descriptions"`
	MoreItems    int                    `json:"more_items"`
	LastAssetID  string                 `json:"last_assetid"`
}

// FetchInventory reads the full inventory page by page. Each returned entry
// carries the stack amount of one asset; the caller merges duplicates.
// A private or empty profile is a fatal InventoryUnavailable error.
func (c *Client) FetchInventory(ctx context.Context, steamID string) ([]entity.InventoryItem, error) {
	descriptions := make(map[string]string) // classid_instanceid -> market hash name

	var (
		items       []entity.InventoryItem
		lastAssetID string
	)

	for page := 1; ; page++ {
		resp, err := c.fetchInventoryPage(ctx, steamID, lastAssetID)
		if err != nil {
			return nil, err
		}

		for _, d := range resp.Descriptions {
			if d.Marketable == 0 {
				continue
			}

			descriptions[d.ClassID+"_"+d.InstanceID] = d.MarketHashName
		}

		for _, a := range resp.Assets {
			name, ok := descriptions[a.ClassID+"_"+a.InstanceID]
			if !ok {
				continue
			}

			amount, err := strconv.Atoi(a.Amount)
			if err != nil || amount < 1 {
				amount = 1
			}

			items = append(items, entity.InventoryItem{Name: name, Count: amount})
		}

		logger(ctx).Info(
			"inventory page fetched",
			slog.Int("page", page),
			slog.Int("assets", len(resp.Assets)),
			slog.Int(logx.FieldCount, len(items)),
		)

		if resp.MoreItems != 1 || resp.LastAssetID == "" {
			break
		}

		lastAssetID = resp.LastAssetID
	}

	if len(items) == 0 {
		return nil, domain.NewError(errcodes.InventoryUnavailable, "inventory is empty or profile is private")
	}

	return items, nil
}

func (c *Client) fetchInventoryPage(ctx context.Context, steamID, startAssetID string) (*inventoryResponse, error) {
	query := url.Values{}
	query.Set("l", c.language)
	query.Set("count", strconv.Itoa(c.pageSize))

	if startAssetID != "" {
		query.Set("start_assetid", startAssetID)
	}

	endpoint := fmt.Sprintf(
		"%s/inventory/%s/%d/%d?%s",
		c.baseURL, steamID, c.appID, c.contextID, query.Encode(),
	)

	for attempt := 1; attempt <= inventoryMaxAttempts; attempt++ {
		if err := c.pacer.Acquire(ctx); err != nil {
			return nil, err
		}

		resp, err := c.get(ctx, endpoint)
		if err != nil {
			c.pacer.ReportOutcome(false)
			upstreamRequests.WithLabelValues("inventory", entity.OutcomeTransient.String()).Inc()

			if ctx.Err() != nil {
				return nil, ctx.Err()
			}

			logger(ctx).Warn(
				"inventory request failed",
				slog.Int(logx.FieldAttempt, attempt),
				logx.Error(err),
			)

			continue
		}

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			resp.Body.Close()
			c.pacer.ReportOutcome(true)
			upstreamRequests.WithLabelValues("inventory", entity.OutcomeThrottled.String()).Inc()

			continue

		case resp.StatusCode == http.StatusForbidden:
			resp.Body.Close()
			c.pacer.ReportOutcome(false)

			return nil, domain.NewError(errcodes.InventoryUnavailable, "inventory is private")

		case resp.StatusCode != http.StatusOK:
			resp.Body.Close()
			c.pacer.ReportOutcome(false)
			upstreamRequests.WithLabelValues("inventory", entity.OutcomeTransient.String()).Inc()

			logger(ctx).Warn(
				"inventory request failed",
				slog.Int(logx.FieldAttempt, attempt),
				slog.Int(logx.FieldResponseStatus, resp.StatusCode),
			)

			continue
		}

		var page inventoryResponse

		err = json.NewDecoder(resp.Body).Decode(&page)
		resp.Body.Close()

		if err != nil {
			c.pacer.ReportOutcome(false)
			upstreamRequests.WithLabelValues("inventory", entity.OutcomeTransient.String()).Inc()

			logger(ctx).Warn(
				"inventory response unparseable",
				slog.Int(logx.FieldAttempt, attempt),
				logx.Error(err),
			)

			continue
		}

		c.pacer.ReportOutcome(false)
		upstreamRequests.WithLabelValues("inventory", entity.OutcomePriced.String()).Inc()

		return &page, nil
	}

	return nil, domain.NewError(errcodes.InventoryUnavailable, "inventory retrieval attempts exhausted")
}
