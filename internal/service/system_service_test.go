package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pip-tracker/pip-backend/internal/testutil"
	"github.com/pip-tracker/pip-backend/internal/version"
)

// TestSystemService tests health and version reporting.
func TestSystemService(t *testing.T) {
	ctx := context.Background()

	t.Run("healthy database", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSystemService(t, db)

		status := svc.CheckHealth(ctx)
		assert.Equal(t, "healthy", status.Status)
		assert.Equal(t, "connected", status.Database)
	})

	t.Run("closed database is unhealthy", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSystemService(t, db)
		db.Close()

		status := svc.CheckHealth(ctx)
		assert.Equal(t, "unhealthy", status.Status)
		assert.NotEmpty(t, status.Error)
	})

	t.Run("version reports a migrated schema", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSystemService(t, db)

		info, err := svc.GetVersionInfo(ctx)
		require.NoError(t, err)
		assert.Equal(t, version.Version, info.AppVersion)
		assert.Equal(t, "1", info.DbVersion)
		assert.False(t, info.MigrationNeeded)
		assert.Nil(t, info.MigrationMessage)
	})
}
