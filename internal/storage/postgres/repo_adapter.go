package postgres

import (
	"context"

	"analytics/internal/storage"
	"analytics/internal/table"
)

// newRepository is a test hook that points to NewRepository by default.
var newRepository = NewRepository

// wrappedRepo implements storage.Repository by delegating to *Repository and
// calling the close function returned by NewRepository.
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
		return "DOUBLE PRECISION"
	}
	return "TEXT"
}

func createTable(td storage.TableDef) (string, error) {
	return storage.BuildCreateTableSQL(td, pgIdent)
}

func init() {
	storage.Register("postgres", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		r, closeFn, err := newRepository(ctx, Config{DSN: cfg.DSN, Table: cfg.Table})
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{Repository: r, closeFn: closeFn}, nil
	})
	storage.RegisterDDL("postgres", storage.Dialect{TypeFor: typeFor, CreateTable: createTable})
}
