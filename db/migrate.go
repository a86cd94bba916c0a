package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

const errDuplicateKeyName = 1061

var tables = []string{
	`CREATE TABLE IF NOT EXISTS pricing_frameworks (
		enabler_id VARCHAR(64) PRIMARY KEY,
		base_price DECIMAL(14,4) NOT NULL,
		max_discount_percentage DECIMAL(7,4) NOT NULL,
		auto_negotiate BOOLEAN NOT NULL DEFAULT FALSE,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS negotiations (
		id CHAR(26) PRIMARY KEY,
		host_id VARCHAR(64) NOT NULL,
		enabler_id VARCHAR(64) NOT NULL,
		offer_price DECIMAL(14,4) NOT NULL,
		event_date DATETIME NULL,
		guest_count INT NOT NULL DEFAULT 0,
		package_items TEXT NOT NULL,
		payment_plan VARCHAR(32) NOT NULL,
		status VARCHAR(32) NOT NULL,
		counter_price DECIMAL(14,4) NULL,
		agreed_price DECIMAL(14,4) NULL,
		conditions TEXT NOT NULL,
		auto_resolved BOOLEAN NOT NULL DEFAULT FALSE,
		round_no INT NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id CHAR(26) PRIMARY KEY,
		negotiation_id CHAR(26) NOT NULL UNIQUE,
		host_id VARCHAR(64) NOT NULL,
		enabler_id VARCHAR(64) NOT NULL,
		price DECIMAL(14,4) NOT NULL,
		event_date DATETIME NULL,
		guest_count INT NOT NULL DEFAULT 0,
		status VARCHAR(32) NOT NULL,
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id CHAR(26) PRIMARY KEY,
		user_id VARCHAR(64) NOT NULL,
		negotiation_id CHAR(26) NOT NULL,
		kind VARCHAR(32) NOT NULL,
		message TEXT NOT NULL,
		is_read BOOLEAN NOT NULL DEFAULT FALSE,
		created_at DATETIME NOT NULL
	)`,
}

var indexes = []string{
	"CREATE INDEX idx_negotiations_host ON negotiations (host_id, created_at)",
	"CREATE INDEX idx_negotiations_enabler ON negotiations (enabler_id, created_at)",
	"CREATE INDEX idx_notifications_user ON notifications (user_id, created_at)",
}

// Migrate creates any missing tables and indexes. It is safe to run on every
// start.
func Migrate(ctx context.Context, conn *sql.DB, driver string, logger *zap.Logger) error {
	for _, q := range tables {
		if _, err := conn.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}

	for _, q := range indexes {
		if driver == "sqlite" {
			q = "CREATE INDEX IF NOT EXISTS" + q[len("CREATE INDEX"):]
		}
		_, err := conn.ExecContext(ctx, q)
		if err == nil {
			continue
		}
		// MySQL has no IF NOT EXISTS for indexes.
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == errDuplicateKeyName {
			logger.Debug("index already exists", zap.String("query", q))
			continue
		}
		return fmt.Errorf("create index: %w", err)
	}

	logger.Info("schema migrated", zap.String("driver", driver))
	return nil
}
