package mssql

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"analytics/internal/storage"
	"analytics/internal/table"
)

func TestMsIdent(t *testing.T) {
	assert.Equal(t, "[sales]", msIdent("sales"))
	assert.Equal(t, "[a]]b]", msIdent("a]b"))
}

func TestCreateTable(t *testing.T) {
	td := storage.TableDefFor("dbo.sales", []table.Column{
		{Name: "id", Kind: table.Number},
		{Name: "region", Kind: table.Text},
	}, typeFor)

	got, err := createTable(td)
	require.NoError(t, err)
	assert.Equal(t,
		"IF OBJECT_ID(N'[dbo].[sales]', N'U') IS NULL\nCREATE TABLE [dbo].[sales] (\n  [id] FLOAT,\n  [region] NVARCHAR(MAX)\n);",
		got)

	_, err = createTable(storage.TableDef{FQN: " "})
	assert.Error(t, err)
}

func TestNewRepository_InvalidDSN(t *testing.T) {
	_, _, err := NewRepository(context.Background(), Config{DSN: "sqlserver://%zz"})
	assert.ErrorContains(t, err, "mssql dsn")
}

func TestFactory_UsesHook(t *testing.T) {
	orig := newRepository
	t.Cleanup(func() { newRepository = orig })

	closed := false
	newRepository = func(_ context.Context, cfg Config) (*Repository, func(), error) {
		assert.Equal(t, "dbo.sales", cfg.Table)
		return &Repository{cfg: cfg}, func() { closed = true }, nil
	}

	repo, err := storage.New(context.Background(), storage.Config{Kind: "mssql", Table: "dbo.sales"})
	require.NoError(t, err)
	repo.Close()
	assert.True(t, closed)
}
