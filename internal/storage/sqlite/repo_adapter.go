package sqlite

import (
	"context"

	"analytics/internal/storage"
	"analytics/internal/table"
)

// newRepository is a test hook that points to NewRepository by default.
var newRepository = NewRepository

// wrappedRepo adapts *Repository to storage.Repository, adding a Close method
// that calls the cleanup function returned by NewRepository.
type wrappedRepo struct {
	*Repository
	closeFn func()
}

func (w *wrappedRepo) Close() {
	if w.closeFn != nil {
		w.closeFn()
	}
}

var _ storage.Repository = (*wrappedRepo)(nil)

// typeFor maps column kinds to SQLite storage classes.
func typeFor(k table.Kind) string {
	if k == table.Number {
		return "REAL"
	}
	return "TEXT"
}

func createTable(td storage.TableDef) (string, error) {
	return storage.BuildCreateTableSQL(td, quoteIdent)
}

func init() {
	storage.Register("sqlite", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		r, closeFn, err := newRepository(ctx, Config{DSN: cfg.DSN, Table: cfg.Table})
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{Repository: r, closeFn: closeFn}, nil
	})
	storage.RegisterDDL("sqlite", storage.Dialect{TypeFor: typeFor, CreateTable: createTable})
}
