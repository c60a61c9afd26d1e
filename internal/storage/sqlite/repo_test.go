package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"analytics/internal/storage"
	"analytics/internal/table"
)

func newRepo(t *testing.T, tableName string) *Repository {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "analytics.db")
	r, closeFn, err := NewRepository(context.Background(), Config{DSN: dsn, Table: tableName})
	require.NoError(t, err)
	t.Cleanup(closeFn)
	return r
}

func TestNewRepository_EmptyDSN(t *testing.T) {
	_, _, err := NewRepository(context.Background(), Config{DSN: "  "})
	assert.ErrorContains(t, err, "DSN must not be empty")
}

func TestCopyFrom_InsertsRowsWithNulls(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t, "sales data")
	require.NoError(t, r.Exec(ctx, `CREATE TABLE "sales data" ("id" REAL, "region name" TEXT)`))

	n, err := r.CopyFrom(ctx, []string{"id", "region name"}, [][]any{
		{1.0, "north"},
		{2.0, nil},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	var count int
	var nulls int
	require.NoError(t, r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), SUM(CASE WHEN "region name" IS NULL THEN 1 ELSE 0 END) FROM "sales data"`,
	).Scan(&count, &nulls))
	assert.Equal(t, 2, count)
	assert.Equal(t, 1, nulls)
}

func TestCopyFrom_Validation(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t, "t")
	require.NoError(t, r.Exec(ctx, `CREATE TABLE "t" ("a" REAL)`))

	_, err := r.CopyFrom(ctx, nil, [][]any{{1.0}})
	assert.Error(t, err)

	n, err := r.CopyFrom(ctx, []string{"a"}, nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = r.CopyFrom(ctx, []string{"a"}, [][]any{{1.0, 2.0}})
	assert.ErrorContains(t, err, "row length")

	var count int
	require.NoError(t, r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM "t"`).Scan(&count))
	assert.Zero(t, count, "failed batch is rolled back")
}

func TestExec_EmptyIsNoop(t *testing.T) {
	r := newRepo(t, "t")
	assert.NoError(t, r.Exec(context.Background(), "   "))
	assert.Error(t, r.Exec(context.Background(), "NOT SQL"))
}

// TestFactory_EndToEnd drives the registered backend the way the pipeline
// export step does.
func TestFactory_EndToEnd(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "out.db")

	repo, err := storage.New(ctx, storage.Config{Kind: "sqlite", DSN: dsn, Table: "sales"})
	require.NoError(t, err)
	defer repo.Close()

	tbl := table.New(
		table.Column{Name: "id", Kind: table.Number},
		table.Column{Name: "region", Kind: table.Text},
	)
	require.NoError(t, tbl.Append(table.Row{table.Num(1), table.Str("north")}))
	require.NoError(t, tbl.Append(table.Row{table.Num(2), table.Absent()}))

	require.NoError(t, storage.EnsureTable(ctx, "sqlite", repo, "sales", tbl.Columns))
	// Idempotent.
	require.NoError(t, storage.EnsureTable(ctx, "sqlite", repo, "sales", tbl.Columns))

	n, err := repo.CopyFrom(ctx, tbl.Names(), storage.Rows(tbl))
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	defer db.Close()
	var ddl string
	require.NoError(t, db.QueryRow(`SELECT sql FROM sqlite_master WHERE name = 'sales'`).Scan(&ddl))
	assert.True(t, strings.Contains(ddl, `"id" REAL`), ddl)
	assert.True(t, strings.Contains(ddl, `"region" TEXT`), ddl)
}

func TestFactory_PropagatesOpenError(t *testing.T) {
	orig := newRepository
	t.Cleanup(func() { newRepository = orig })

	want := errors.New("boom")
	newRepository = func(context.Context, Config) (*Repository, func(), error) { return nil, nil, want }

	_, err := storage.New(context.Background(), storage.Config{Kind: "sqlite", DSN: "x"})
	assert.ErrorIs(t, err, want)
}
