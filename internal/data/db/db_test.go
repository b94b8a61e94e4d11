package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/upskill-backend/internal/platform/logger"
)

func TestOpenSQLiteAndMigrate(t *testing.T) {
	svc, err := Open(Config{Driver: DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "test.db")}, logger.Nop())
	require.NoError(t, err)
	defer svc.Close()

	require.NoError(t, svc.Ping(context.Background()))
	require.NoError(t, AutoMigrateAll(svc.DB()))
	assert.True(t, svc.DB().Migrator().HasTable("leads"))
	assert.True(t, svc.DB().Migrator().HasTable("events"))
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(Config{Driver: "mysql"}, logger.Nop())
	assert.ErrorContains(t, err, "unsupported DB_DRIVER")
}

func TestPostgresDSN(t *testing.T) {
	cfg := Config{PostgresHost: "db", PostgresPort: "5433", PostgresUser: "u", PostgresPassword: "p", PostgresName: "n"}
	assert.Equal(t, "postgres://u:p@db:5433/n?sslmode=disable", cfg.PostgresDSN())
}
