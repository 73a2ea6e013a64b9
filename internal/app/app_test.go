package app_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pip-tracker/pip-backend/internal/app"
	"github.com/pip-tracker/pip-backend/internal/config"
	"github.com/pip-tracker/pip-backend/internal/database"
)

// TestOpen tests opening a fresh database file.
//
// WHY: The default DB_PATH points into a directory that does not exist on a
// fresh checkout. Open must create it and leave the schema fully migrated.
func TestOpen(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		Database: config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "data", "pip.db")},
		Engine:   config.EngineConfig{Workers: 2},
		Market:   config.MarketConfig{YahooBaseURL: "http://127.0.0.1:0"},
	}

	a, err := app.Open(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	defer a.Close()

	_, pending, err := database.SchemaStatus(ctx, a.DB)
	require.NoError(t, err)
	assert.False(t, pending)

	accounts, err := a.Services.Account.GetAccounts(ctx)
	require.NoError(t, err)
	assert.Empty(t, accounts)

	assert.Equal(t, "healthy", a.Services.System.CheckHealth(ctx).Status)
}
