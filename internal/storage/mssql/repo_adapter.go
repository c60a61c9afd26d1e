package mssql

import (
	"context"
	"fmt"
	"strings"

	"analytics/internal/storage"
	"analytics/internal/table"
)

// newRepository is a test hook that points to NewRepository by default.
var newRepository = NewRepository

// wrappedRepo adapts *Repository to storage.Repository and provides Close.
type wrappedRepo struct {
	*Repository
	closeFn func()
}

var _ storage.Repository = (*wrappedRepo)(nil)

func (w *wrappedRepo) Close() {
	if w.closeFn != nil {
		w.closeFn()
	}
}

func typeFor(k table.Kind) string {
	if k == table.Number {
		return "FLOAT"
	}
	return "NVARCHAR(MAX)"
}

// createTable renders CREATE TABLE guarded by OBJECT_ID, since SQL Server
// has no CREATE TABLE IF NOT EXISTS.
func createTable(td storage.TableDef) (string, error) {
	fqn := strings.TrimSpace(td.FQN)
	if fqn == "" {
		return "", fmt.Errorf("ddl: table FQN must not be empty")
	}
	cols, err := storage.ColumnDefsSQL(td, msIdent)
	if err != nil {
		return "", err
	}
	quoted := storage.QuoteFQN(fqn, msIdent)
	return fmt.Sprintf("IF OBJECT_ID(N'%s', N'U') IS NULL\nCREATE TABLE %s (\n  %s\n);",
		strings.ReplaceAll(quoted, "'", "''"), quoted, strings.Join(cols, ",\n  ")), nil
}

func init() {
	storage.Register("mssql", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		r, closeFn, err := newRepository(ctx, Config{DSN: cfg.DSN, Table: cfg.Table})
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{Repository: r, closeFn: closeFn}, nil
	})
	storage.RegisterDDL("mssql", storage.Dialect{TypeFor: typeFor, CreateTable: createTable})
}
