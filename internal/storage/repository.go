// Package storage contains the backend-agnostic contracts used to export a
// finished table to a database.
//
// Backends (postgres, mssql, mysql, sqlite) register a Factory and a Dialect
// from their init functions; callers import internal/storage/all and then
// stay backend-agnostic:
//
//	repo, err := storage.New(ctx, storage.Config{Kind: "sqlite", DSN: dsn, Table: "sales"})
//	defer repo.Close()
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Config carries what a backend needs to open a Repository.
type Config struct {
	Kind  string
	DSN   string
	Table string
}

// Repository is the minimal write surface of a backend.
type Repository interface {
	// CopyFrom bulk-inserts rows (aligned to columns) into the configured
	// table and returns the number of rows written.
	CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error)
	// Exec runs a single statement, typically DDL.
	Exec(ctx context.Context, sql string) error
	// Close releases the connection pool.
	Close()
}

// Factory opens a Repository for cfg.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	regMu     sync.RWMutex
	factories = map[string]Factory{}
)

// Register registers (or replaces) the factory for kind.
func Register(kind string, f Factory) {
	regMu.Lock()
	defer regMu.Unlock()
	factories[kind] = f
}

// New opens a Repository using the factory registered for cfg.Kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	regMu.RLock()
	f, ok := factories[cfg.Kind]
	regMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported storage.kind=%s", cfg.Kind)
	}
	return f(ctx, cfg)
}

// ListKinds returns a sorted snapshot of the registered kinds.
func ListKinds() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
