package persistence_test

import (
	"context"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"inv_checker/internal/domain/entity"
	"inv_checker/internal/infrastructure/persistence"
	"inv_checker/pkg/dbtest"
)

func testDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := os.Getenv("TEST_PG_DSN")
	if dsn == "" {
		t.Skip("TEST_PG_DSN is not set")
	}

	db, err := sqlx.Connect("pgx", dsn)
	require.NoError(t, err)

	t.Cleanup(func() {
		_, _ = db.Exec(`TRUNCATE valuation_runs CASCADE`)
		_ = db.Close()
	})

	require.NoError(t, dbtest.MigrateFromFile(db, "../../../migrations/001_init.sql"))

	return db
}

func TestValuationRepositoryRoundTrip(t *testing.T) {
	rq := require.New(t)

	db := testDB(t)
	repo := persistence.NewValuationRepository(db)

	report := entity.Report{
		SteamID:     "76561198000000001",
		Currency:    3,
		TotalValue:  107.5,
		GeneratedAt: time.Now().UTC().Truncate(time.Microsecond),
		Lines: []entity.ReportLine{
			{Name: "AK-47 | Redline", UnitPrice: 10.0, Count: 2},
			{Name: "M4A1-S | Printstream", UnitPrice: 87.5, Count: 1, Stale: true},
		},
		Unresolved: []string{"Glock-18 | Fade"},
	}

	ctx := context.Background()

	rq.NoError(repo.SaveReport(ctx, report))

	got, err := repo.LatestReport(ctx, "76561198000000001")
	rq.NoError(err)

	rq.Equal(report.SteamID, got.SteamID)
	rq.InDelta(report.TotalValue, got.TotalValue, 0.0001)
	rq.Equal(report.Unresolved, got.Unresolved)
	rq.Len(got.Lines, 2)
	rq.True(got.Lines[1].Stale)
}

func TestValuationRepositoryLatestPicksNewestRun(t *testing.T) {
	rq := require.New(t)

	db := testDB(t)
	repo := persistence.NewValuationRepository(db)

	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Microsecond)

	rq.NoError(repo.SaveReport(ctx, entity.Report{
		SteamID: "76561198000000001", Currency: 3, TotalValue: 10, GeneratedAt: base.Add(-time.Hour),
	}))
	rq.NoError(repo.SaveReport(ctx, entity.Report{
		SteamID: "76561198000000001", Currency: 3, TotalValue: 20, GeneratedAt: base,
	}))

	got, err := repo.LatestReport(ctx, "76561198000000001")
	rq.NoError(err)
	rq.InDelta(20, got.TotalValue, 0.0001)

	history, err := repo.RunHistory(ctx, "76561198000000001", 10)
	rq.NoError(err)
	rq.Len(history, 2)
	rq.InDelta(20, history[0].TotalValue, 0.0001)
}

func TestValuationRepositoryLatestEmpty(t *testing.T) {
	rq := require.New(t)

	db := testDB(t)
	repo := persistence.NewValuationRepository(db)

	_, err := repo.LatestReport(context.Background(), "76561198999999999")
	rq.ErrorContains(err, "no valuation run")
}
