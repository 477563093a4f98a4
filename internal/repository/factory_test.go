package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_SQLite(t *testing.T) {
	cfg := &config.Config{
		StorageBackend: config.BackendSQLite,
		SQLitePath:     filepath.Join(t.TempDir(), "data", "ledger.db"),
	}

	repos, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer repos.Close()

	list, err := repos.Transactions.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{StorageBackend: "mongo"})
	assert.Error(t, err)
}
