package storage

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"analytics/internal/table"
)

// ColumnDef is one column of a CREATE TABLE statement.
type ColumnDef struct {
	Name     string
	SQLType  string
	Nullable bool
}

// TableDef is a minimal, dialect-neutral table definition.
type TableDef struct {
	FQN     string
	Columns []ColumnDef
}

// Dialect renders DDL for one backend.
type Dialect struct {
	// TypeFor maps a table column kind to the backend's SQL type.
	TypeFor func(table.Kind) string
	// CreateTable renders an idempotent CREATE TABLE statement.
	CreateTable func(TableDef) (string, error)
}

var (
	ddlMu    sync.RWMutex
	dialects = map[string]Dialect{}
)

// RegisterDDL registers (or replaces) the Dialect for kind.
func RegisterDDL(kind string, d Dialect) {
	ddlMu.Lock()
	defer ddlMu.Unlock()
	dialects[kind] = d
}

// TableDefFor builds a definition with one nullable column per table column.
func TableDefFor(fqn string, cols []table.Column, typeFor func(table.Kind) string) TableDef {
	td := TableDef{FQN: fqn, Columns: make([]ColumnDef, len(cols))}
	for i, c := range cols {
		td.Columns[i] = ColumnDef{Name: c.Name, SQLType: typeFor(c.Kind), Nullable: true}
	}
	return td
}

// EnsureTable creates fqn with the given columns if it does not exist, using
// the Dialect registered for kind.
func EnsureTable(ctx context.Context, kind string, repo Repository, fqn string, cols []table.Column) error {
	ddlMu.RLock()
	d, ok := dialects[kind]
	ddlMu.RUnlock()
	if !ok {
		return fmt.Errorf("no DDL dialect registered for storage.kind=%q", kind)
	}

	sql, err := d.CreateTable(TableDefFor(fqn, cols, d.TypeFor))
	if err != nil {
		return fmt.Errorf("build ddl: %w", err)
	}
	if err := repo.Exec(ctx, sql); err != nil {
		return fmt.Errorf("apply ddl: %w", err)
	}
	return nil
}

// BuildCreateTableSQL renders
//
//	CREATE TABLE IF NOT EXISTS <fqn> (
//	  <col> <TYPE> [NOT NULL],
//	  ...
//	);
//
// quoting the table name segment by segment and every column with quote.
func BuildCreateTableSQL(t TableDef, quote func(string) string) (string, error) {
	fqn := strings.TrimSpace(t.FQN)
	if fqn == "" {
		return "", fmt.Errorf("ddl: table FQN must not be empty")
	}
	cols, err := ColumnDefsSQL(t, quote)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n);",
		QuoteFQN(fqn, quote), strings.Join(cols, ",\n  ")), nil
}

// ColumnDefsSQL renders each column as "<quoted name> <TYPE> [NOT NULL]".
func ColumnDefsSQL(t TableDef, quote func(string) string) ([]string, error) {
	if len(t.Columns) == 0 {
		return nil, fmt.Errorf("ddl: at least one column is required")
	}
	out := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		if c.Name == "" {
			return nil, fmt.Errorf("ddl: column with empty name in table %s", t.FQN)
		}
		typ := strings.TrimSpace(c.SQLType)
		if typ == "" {
			return nil, fmt.Errorf("ddl: column %s missing SQLType", c.Name)
		}
		s := quote(c.Name) + " " + typ
		if !c.Nullable {
			s += " NOT NULL"
		}
		out = append(out, s)
	}
	return out, nil
}

// QuoteFQN quotes each dot-separated segment of name.
func QuoteFQN(name string, quote func(string) string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = quote(p)
	}
	return strings.Join(parts, ".")
}

// QuoteColumns quotes every column name.
func QuoteColumns(cols []string, quote func(string) string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = quote(c)
	}
	return out
}
