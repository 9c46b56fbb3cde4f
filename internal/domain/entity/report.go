package entity

import (
	"time"

	"inv_checker/internal/domain/value"
)

// ReportLine is one priced position of the valuation report.
type ReportLine struct {
	Name      string
	UnitPrice float64
	Count     int
	Stale     bool
}

func (l ReportLine) Subtotal() float64 {
	return l.UnitPrice * float64(l.Count)
}

// Report is the result of one full valuation run. Unresolved items are
// excluded from TotalValue.
type Report struct {
	SteamID     value.SteamID
	Currency    value.Currency
	TotalValue  float64
	GeneratedAt time.Time
	Lines       []ReportLine
	Unresolved  []string
}
