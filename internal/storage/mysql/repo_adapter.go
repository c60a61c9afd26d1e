package mysql

import (
	"context"

	"analytics/internal/storage"
	"analytics/internal/table"
)

// newRepository is a test hook that points to NewRepository by default.
var newRepository = NewRepository

var _ storage.Repository = (*wrappedRepo)(nil)

// wrappedRepo adapts *Repository to storage.Repository and provides Close.
type wrappedRepo struct {
	*Repository
	closeFn func()
}

// Close closes the underlying connection pool.
func (w *wrappedRepo) Close() {
	if w.closeFn != nil {
		w.closeFn()
	}
}

func typeFor(k table.Kind) string {
	if k == table.Number {
		return "DOUBLE"
	}
	return "TEXT"
}

func createTable(td storage.TableDef) (string, error) {
	return storage.BuildCreateTableSQL(td, myIdent)
}

func init() {
	storage.Register("mysql", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		r, closeFn, err := newRepository(ctx, Config{DSN: cfg.DSN, Table: cfg.Table})
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{Repository: r, closeFn: closeFn}, nil
	})
	storage.RegisterDDL("mysql", storage.Dialect{TypeFor: typeFor, CreateTable: createTable})
}
