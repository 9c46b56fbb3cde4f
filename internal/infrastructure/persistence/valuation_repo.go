package persistence

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"inv_checker/internal/domain"
	"inv_checker/internal/domain/entity"
	"inv_checker/pkg/errcodes"
	"inv_checker/pkg/lox"
)

type ValuationRepository struct {
	db *sqlx.DB
}

func NewValuationRepository(db *sqlx.DB) *ValuationRepository {
	return &ValuationRepository{db: db}
}

func (r *ValuationRepository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to commit")
	}

	return nil
}

// SaveReport stores one finished valuation run with all its lines.
func (r *ValuationRepository) SaveReport(ctx context.Context, report entity.Report) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		run, err := fromReport(report)
		if err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to encode report")
		}

		query := `
			INSERT INTO valuation_runs (steam_id, currency, total_value, unresolved, generated_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id`

		var runID int64
		if err := tx.GetContext(ctx, &runID, query,
			run.SteamID, run.Currency, run.TotalValue, run.Unresolved, run.GeneratedAt,
		); err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to insert valuation run")
		}

		if len(report.Lines) == 0 {
			return nil
		}

		lines := lox.Map(report.Lines, func(line entity.ReportLine) valuationLineSchema {
			return fromReportLine(runID, line)
		})

		lineQuery := `
			INSERT INTO valuation_lines (run_id, name, unit_price, count, stale)
			VALUES (:run_id, :name, :unit_price, :count, :stale)`

		if _, err := tx.NamedExecContext(ctx, lineQuery, lines); err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to insert valuation lines")
		}

		return nil
	})
}

// LatestReport returns the most recent run for the account, lines included.
func (r *ValuationRepository) LatestReport(ctx context.Context, steamID string) (entity.Report, error) {
	query := `
		SELECT * FROM valuation_runs
		WHERE steam_id = $1
		ORDER BY generated_at DESC
		LIMIT 1`

	var run valuationRunSchema
	if err := r.db.GetContext(ctx, &run, query, steamID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Report{}, domain.NewError(errcodes.ValuationNotReady, "no valuation run stored yet")
		}

		return entity.Report{}, domain.WrapError(err, errcodes.InternalServerError, "failed to load valuation run")
	}

	report, err := run.toDomain()
	if err != nil {
		return entity.Report{}, domain.WrapError(err, errcodes.InternalServerError, "failed to decode report")
	}

	var lines []valuationLineSchema
	if err := r.db.SelectContext(ctx, &lines,
		`SELECT * FROM valuation_lines WHERE run_id = $1 ORDER BY id ASC`, run.ID,
	); err != nil {
		return entity.Report{}, domain.WrapError(err, errcodes.InternalServerError, "failed to load valuation lines")
	}

	for _, line := range lines {
		report.Lines = append(report.Lines, line.toDomain())
	}

	return report, nil
}

// RunHistory returns run headers newest first, without lines.
func (r *ValuationRepository) RunHistory(ctx context.Context, steamID string, limit int) ([]entity.Report, error) {
	query := `
		SELECT * FROM valuation_runs
		WHERE steam_id = $1
		ORDER BY generated_at DESC
		LIMIT $2`

	var runs []valuationRunSchema
	if err := r.db.SelectContext(ctx, &runs, query, steamID, limit); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list valuation runs")
	}

	reports := make([]entity.Report, 0, len(runs))

	for i := range runs {
		report, err := runs[i].toDomain()
		if err != nil {
			return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to decode report")
		}

		reports = append(reports, report)
	}

	return reports, nil
}
