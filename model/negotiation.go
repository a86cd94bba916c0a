package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type NegotiationStatus string

const (
	NegotiationPending   NegotiationStatus = "pending"
	NegotiationCountered NegotiationStatus = "countered"
	NegotiationAgreed    NegotiationStatus = "agreed"
	NegotiationDeclined  NegotiationStatus = "declined"
	NegotiationWithdrawn NegotiationStatus = "withdrawn"
)

// Closed reports whether no further responses are accepted.
func (s NegotiationStatus) Closed() bool {
	return s == NegotiationAgreed || s == NegotiationDeclined || s == NegotiationWithdrawn
}

type StructuredNegotiation struct {
	ID           string            `json:"id"`
	HostID       string            `json:"host_id"`
	EnablerID    string            `json:"enabler_id"`
	Offer        Offer             `json:"offer"`
	Status       NegotiationStatus `json:"status"`
	CounterPrice *decimal.Decimal  `json:"counter_price"`
	AgreedPrice  *decimal.Decimal  `json:"agreed_price,omitempty"`
	Conditions   []string          `json:"conditions"`
	AutoResolved bool              `json:"auto_resolved"`
	Round        int               `json:"round"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

type BookingStatus string

const (
	BookingPendingSignature BookingStatus = "pending_signature"
)

type Booking struct {
	ID            string          `json:"id"`
	NegotiationID string          `json:"negotiation_id"`
	HostID        string          `json:"host_id"`
	EnablerID     string          `json:"enabler_id"`
	Price         decimal.Decimal `json:"price"`
	EventDate     time.Time       `json:"event_date"`
	GuestCount    int             `json:"guest_count"`
	Status        BookingStatus   `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}
