// This file is supposed to be generated from the openapi spec and be called
// types.gen.go.
package rest

import "time"

// ValuationItem is a single priced inventory line.
type ValuationItem struct {
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
	Count     int     `json:"count"`
	Subtotal  float64 `json:"subtotal"`

	// Stale is true when the price came from a non-fresh cache entry after
	// the upstream could not be reached.
	Stale bool `json:"stale,omitempty"`
}

// ValuationReport is the full inventory valuation.
type ValuationReport struct {
	SteamID     string          `json:"steamId"`
	Currency    string          `json:"currency"`
	TotalValue  float64         `json:"totalValue"`
	GeneratedAt time.Time       `json:"generatedAt"`
	Items       []ValuationItem `json:"items"`
	Unresolved  []string        `json:"unresolved,omitempty"`
}

// ItemPrice is a single market price lookup result.
type ItemPrice struct {
	Name      string    `json:"name"`
	UnitPrice float64   `json:"unitPrice"`
	Quantity  int       `json:"quantity"`
	FetchedAt time.Time `json:"fetchedAt"`
	Stale     bool      `json:"stale,omitempty"`
}

// RefreshRequest optionally pins the refresh to an account. The service
// values a single configured account, so a mismatch is rejected.
type RefreshRequest struct {
	SteamID string `json:"steamId" validate:"omitempty,numeric,len=17"`
}

// RefreshAccepted acknowledges a queued background refresh.
type RefreshAccepted struct {
	TaskID string `json:"taskId,omitempty"`
}

// Error Модель ошибок
type Error struct {
	// Code Код ошибки
	Code ErrorCode `json:"code"`

	// Message Сообщение об ошибке (для отображения в UI в будущем)
	Message string `json:"message"`
}

// ErrorCode Код ошибки
type ErrorCode string
