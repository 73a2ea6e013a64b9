package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pip-tracker/pip-backend/internal/apperrors"
	"github.com/pip-tracker/pip-backend/internal/database"
	"github.com/pip-tracker/pip-backend/internal/model"
	"github.com/pip-tracker/pip-backend/internal/version"
)

// SystemService handles system-related operations
type SystemService struct {
	db *sql.DB
}

// NewSystemService creates a new SystemService
func NewSystemService(db *sql.DB) *SystemService {
	return &SystemService{
		db: db,
	}
}

// CheckHealth checks the health of the system
func (s *SystemService) CheckHealth(ctx context.Context) model.HealthStatus {
	if err := database.HealthCheck(ctx, s.db); err != nil {
		return model.HealthStatus{Status: "unhealthy", Database: "disconnected", Error: err.Error()}
	}
	return model.HealthStatus{Status: "healthy", Database: "connected"}
}

// GetVersionInfo reports the application version and the database schema state.
func (s *SystemService) GetVersionInfo(ctx context.Context) (model.VersionInfo, error) {
	schema, pending, err := database.SchemaStatus(ctx, s.db)
	if err != nil {
		return model.VersionInfo{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToGetVersionInfo, err)
	}
	info := model.VersionInfo{
		AppVersion:      version.Version,
		DbVersion:       fmt.Sprintf("%d", schema),
		Features:        map[string]bool{"price_refresh": true, "cash_transactions": true},
		MigrationNeeded: pending,
	}
	if pending {
		msg := "Database schema is behind the application, run migrations"
		info.MigrationMessage = &msg
	}
	return info, nil
}
