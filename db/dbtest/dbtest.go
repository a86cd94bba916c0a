// Package dbtest provides migrated in-memory databases for tests.
package dbtest

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"enabler-backend/config"
	"enabler-backend/db"
)

// New returns a freshly migrated SQLite database that is closed when the
// test ends.
func New(t testing.TB) *sql.DB {
	t.Helper()
	ctx := context.Background()

	cfg := config.DBConfig{Driver: "sqlite", SQLitePath: ":memory:"}
	conn, err := db.Open(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, db.Migrate(ctx, conn, cfg.Driver, zap.NewNop()))
	return conn
}
