package entity

import "time"

// Outcome classifies the result of one upstream price query.
type Outcome int

const (
	OutcomePriced Outcome = iota
	OutcomeNotFound
	OutcomeThrottled
	OutcomeTransient
)

func (o Outcome) String() string {
	switch o {
	case OutcomePriced:
		return "priced"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeThrottled:
		return "throttled"
	case OutcomeTransient:
		return "transient_error"
	default:
		return "unknown"
	}
}

// PriceQuote is the parsed result of a single market listings call.
type PriceQuote struct {
	Outcome   Outcome
	UnitPrice float64
	Quantity  int
}

// PricedItem is a resolved market price for one listing.
type PricedItem struct {
	Name      string    `json:"name"`
	UnitPrice float64   `json:"unit_price"`
	Quantity  int       `json:"quantity"`
	FetchedAt time.Time `json:"fetched_at"`

	// Stale marks a value served from a non-fresh cache entry after the
	// upstream could not be reached. Never persisted.
	Stale bool `json:"-"`
}
