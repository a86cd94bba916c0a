package dao

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"enabler-backend/model"
)

type NegotiationRepository struct {
	db *sql.DB
}

func NewNegotiationRepository(db *sql.DB) *NegotiationRepository {
	return &NegotiationRepository{db: db}
}

const negotiationColumns = `id, host_id, enabler_id, offer_price, event_date, guest_count, package_items, payment_plan,
	status, counter_price, agreed_price, conditions, auto_resolved, round_no, created_at, updated_at`

func (r *NegotiationRepository) Create(ctx context.Context, n *model.StructuredNegotiation) error {
	return insertNegotiation(ctx, r.db, n)
}

// Update persists the mutable negotiation state if the stored status is
// still from. The offer itself is immutable once submitted.
func (r *NegotiationRepository) Update(ctx context.Context, n *model.StructuredNegotiation, from model.NegotiationStatus) error {
	return updateNegotiation(ctx, r.db, n, from)
}

// CreateWithBooking stores an agreed negotiation together with its booking.
// Neither row is written if either insert fails.
func (r *NegotiationRepository) CreateWithBooking(ctx context.Context, n *model.StructuredNegotiation, b *model.Booking) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := insertNegotiation(ctx, tx, n); err != nil {
			return fmt.Errorf("insert negotiation: %w", err)
		}
		if err := insertBooking(ctx, tx, b); err != nil {
			return fmt.Errorf("insert booking: %w", err)
		}
		return nil
	})
}

// UpdateWithBooking is Update plus the booking insert in one transaction.
func (r *NegotiationRepository) UpdateWithBooking(ctx context.Context, n *model.StructuredNegotiation, from model.NegotiationStatus, b *model.Booking) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := updateNegotiation(ctx, tx, n, from); err != nil {
			return err
		}
		if err := insertBooking(ctx, tx, b); err != nil {
			return fmt.Errorf("insert booking: %w", err)
		}
		return nil
	})
}

func insertNegotiation(ctx context.Context, q querier, n *model.StructuredNegotiation) error {
	items, conditions, err := encodeLists(n)
	if err != nil {
		return err
	}
	query := `INSERT INTO negotiations (` + negotiationColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = q.ExecContext(ctx, query,
		n.ID, n.HostID, n.EnablerID, n.Offer.Price, nullTime(n.Offer.Date), n.Offer.GuestCount, items, n.Offer.PaymentPlan,
		n.Status, nullDecimal(n.CounterPrice), nullDecimal(n.AgreedPrice), conditions, n.AutoResolved, n.Round, n.CreatedAt, n.UpdatedAt,
	)
	return err
}

func updateNegotiation(ctx context.Context, q querier, n *model.StructuredNegotiation, from model.NegotiationStatus) error {
	_, conditions, err := encodeLists(n)
	if err != nil {
		return err
	}
	query := `UPDATE negotiations SET status = ?, counter_price = ?, agreed_price = ?, conditions = ?, auto_resolved = ?, round_no = ?, updated_at = ? WHERE id = ? AND status = ?`
	res, err := q.ExecContext(ctx, query, n.Status, nullDecimal(n.CounterPrice), nullDecimal(n.AgreedPrice), conditions, n.AutoResolved, n.Round, n.UpdatedAt, n.ID, from)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		if _, err := getNegotiation(ctx, q, n.ID); err != nil {
			return err
		}
		return fmt.Errorf("negotiation %s is no longer %s: %w", n.ID, from, model.ErrConcurrentUpdate)
	}
	return nil
}

func (r *NegotiationRepository) GetByID(ctx context.Context, id string) (*model.StructuredNegotiation, error) {
	return getNegotiation(ctx, r.db, id)
}

func getNegotiation(ctx context.Context, q querier, id string) (*model.StructuredNegotiation, error) {
	row := q.QueryRowContext(ctx, `SELECT `+negotiationColumns+` FROM negotiations WHERE id = ?`, id)
	n, err := scanNegotiation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("negotiation %s: %w", id, model.ErrNotFound)
		}
		return nil, err
	}
	return n, nil
}

func (r *NegotiationRepository) ListByHost(ctx context.Context, hostID string) ([]model.StructuredNegotiation, error) {
	return r.list(ctx, `SELECT `+negotiationColumns+` FROM negotiations WHERE host_id = ? ORDER BY created_at DESC, id DESC`, hostID)
}

func (r *NegotiationRepository) ListByEnabler(ctx context.Context, enablerID string) ([]model.StructuredNegotiation, error) {
	return r.list(ctx, `SELECT `+negotiationColumns+` FROM negotiations WHERE enabler_id = ? ORDER BY created_at DESC, id DESC`, enablerID)
}

func (r *NegotiationRepository) list(ctx context.Context, query string, arg string) ([]model.StructuredNegotiation, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.StructuredNegotiation
	for rows.Next() {
		n, err := scanNegotiation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNegotiation(s scanner) (*model.StructuredNegotiation, error) {
	var (
		n            model.StructuredNegotiation
		eventDate    sql.NullTime
		items        string
		conditions   string
		counterPrice decimal.NullDecimal
		agreedPrice  decimal.NullDecimal
	)
	err := s.Scan(
		&n.ID, &n.HostID, &n.EnablerID, &n.Offer.Price, &eventDate, &n.Offer.GuestCount, &items, &n.Offer.PaymentPlan,
		&n.Status, &counterPrice, &agreedPrice, &conditions, &n.AutoResolved, &n.Round, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if eventDate.Valid {
		n.Offer.Date = eventDate.Time
	}
	if counterPrice.Valid {
		n.CounterPrice = &counterPrice.Decimal
	}
	if agreedPrice.Valid {
		n.AgreedPrice = &agreedPrice.Decimal
	}
	if err := json.Unmarshal([]byte(items), &n.Offer.PackageItems); err != nil {
		return nil, fmt.Errorf("decode package_items: %w", err)
	}
	if err := json.Unmarshal([]byte(conditions), &n.Conditions); err != nil {
		return nil, fmt.Errorf("decode conditions: %w", err)
	}
	return &n, nil
}

func encodeLists(n *model.StructuredNegotiation) (items, conditions string, err error) {
	packageItems := n.Offer.PackageItems
	if packageItems == nil {
		packageItems = []string{}
	}
	conds := n.Conditions
	if conds == nil {
		conds = []string{}
	}

	rawItems, err := json.Marshal(packageItems)
	if err != nil {
		return "", "", fmt.Errorf("encode package_items: %w", err)
	}
	rawConds, err := json.Marshal(conds)
	if err != nil {
		return "", "", fmt.Errorf("encode conditions: %w", err)
	}
	return string(rawItems), string(rawConds), nil
}
