package dao

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"enabler-backend/model"
)

type FrameworkRepository struct {
	db *sql.DB
}

func NewFrameworkRepository(db *sql.DB) *FrameworkRepository {
	return &FrameworkRepository{db: db}
}

// Upsert replaces the enabler's framework. Delete-then-insert keeps the
// statement portable between MySQL and SQLite.
func (r *FrameworkRepository) Upsert(ctx context.Context, fw *model.PricingFramework) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM pricing_frameworks WHERE enabler_id = ?`, fw.EnablerID); err != nil {
		return fmt.Errorf("delete framework: %w", err)
	}
	query := `INSERT INTO pricing_frameworks (enabler_id, base_price, max_discount_percentage, auto_negotiate, updated_at) VALUES (?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, query, fw.EnablerID, fw.BasePrice, fw.MaxDiscountPercentage, fw.AutoNegotiate, fw.UpdatedAt); err != nil {
		return fmt.Errorf("insert framework: %w", err)
	}
	return tx.Commit()
}

func (r *FrameworkRepository) GetByEnablerID(ctx context.Context, enablerID string) (*model.PricingFramework, error) {
	query := `
		SELECT enabler_id, base_price, max_discount_percentage, auto_negotiate, updated_at
		FROM pricing_frameworks
		WHERE enabler_id = ?
	`
	var fw model.PricingFramework
	err := r.db.QueryRowContext(ctx, query, enablerID).Scan(&fw.EnablerID, &fw.BasePrice, &fw.MaxDiscountPercentage, &fw.AutoNegotiate, &fw.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("framework for enabler %s: %w", enablerID, model.ErrNotFound)
		}
		return nil, err
	}
	return &fw, nil
}
