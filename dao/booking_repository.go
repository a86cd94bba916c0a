package dao

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"enabler-backend/model"
)

type BookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, b *model.Booking) error {
	return insertBooking(ctx, r.db, b)
}

func insertBooking(ctx context.Context, q querier, b *model.Booking) error {
	query := `INSERT INTO bookings (id, negotiation_id, host_id, enabler_id, price, event_date, guest_count, status, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := q.ExecContext(ctx, query, b.ID, b.NegotiationID, b.HostID, b.EnablerID, b.Price, nullTime(b.EventDate), b.GuestCount, b.Status, b.CreatedAt)
	return err
}

func (r *BookingRepository) GetByNegotiationID(ctx context.Context, negotiationID string) (*model.Booking, error) {
	query := `
		SELECT id, negotiation_id, host_id, enabler_id, price, event_date, guest_count, status, created_at
		FROM bookings
		WHERE negotiation_id = ?
	`
	var (
		b         model.Booking
		eventDate sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, query, negotiationID).Scan(&b.ID, &b.NegotiationID, &b.HostID, &b.EnablerID, &b.Price, &eventDate, &b.GuestCount, &b.Status, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("booking for negotiation %s: %w", negotiationID, model.ErrNotFound)
		}
		return nil, err
	}
	if eventDate.Valid {
		b.EventDate = eventDate.Time
	}
	return &b, nil
}
