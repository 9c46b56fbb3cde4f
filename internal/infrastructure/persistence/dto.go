package persistence

import (
	"encoding/json"
	"time"

	"inv_checker/internal/domain/entity"
	"inv_checker/internal/domain/value"
)

// valuationRunSchema maps one row of valuation_runs.
type valuationRunSchema struct {
	ID          int64     `db:"id"`
	SteamID     string    `db:"steam_id"`
	Currency    int       `db:"currency"`
	TotalValue  float64   `db:"total_value"`
	Unresolved  []byte    `db:"unresolved"`
	GeneratedAt time.Time `db:"generated_at"`
}

func (s *valuationRunSchema) toDomain() (entity.Report, error) {
	var unresolved []string
	if len(s.Unresolved) > 0 {
		if err := json.Unmarshal(s.Unresolved, &unresolved); err != nil {
			return entity.Report{}, err
		}
	}

	return entity.Report{
		SteamID:     value.SteamID(s.SteamID),
		Currency:    value.Currency(s.Currency),
		TotalValue:  s.TotalValue,
		GeneratedAt: s.GeneratedAt,
		Unresolved:  unresolved,
	}, nil
}

func fromReport(report entity.Report) (*valuationRunSchema, error) {
	unresolved := report.Unresolved
	if unresolved == nil {
		unresolved = []string{}
	}

	raw, err := json.Marshal(unresolved)
	if err != nil {
		return nil, err
	}

	return &valuationRunSchema{
		SteamID:     report.SteamID.String(),
		Currency:    report.Currency.Code(),
		TotalValue:  report.TotalValue,
		Unresolved:  raw,
		GeneratedAt: report.GeneratedAt,
	}, nil
}

// valuationLineSchema maps one row of valuation_lines.
type valuationLineSchema struct {
	ID        int64   `db:"id"`
	RunID     int64   `db:"run_id"`
	Name      string  `db:"name"`
	UnitPrice float64 `db:"unit_price"`
	Count     int     `db:"count"`
	Stale     bool    `db:"stale"`
}

func (s *valuationLineSchema) toDomain() entity.ReportLine {
	return entity.ReportLine{
		Name:      s.Name,
		UnitPrice: s.UnitPrice,
		Count:     s.Count,
		Stale:     s.Stale,
	}
}

func fromReportLine(runID int64, line entity.ReportLine) valuationLineSchema {
	return valuationLineSchema{
		RunID:     runID,
		Name:      line.Name,
		UnitPrice: line.UnitPrice,
		Count:     line.Count,
		Stale:     line.Stale,
	}
}
