package model

import "time"

type NotificationKind string

const (
	NotificationOfferReceived  NotificationKind = "offer_received"
	NotificationOfferAgreed    NotificationKind = "offer_agreed"
	NotificationOfferCountered NotificationKind = "offer_countered"
	NotificationOfferDeclined  NotificationKind = "offer_declined"
	NotificationOfferWithdrawn NotificationKind = "offer_withdrawn"
)

type Notification struct {
	ID            string           `json:"id"`
	UserID        string           `json:"user_id"`
	NegotiationID string           `json:"negotiation_id"`
	Kind          NotificationKind `json:"kind"`
	Message       string           `json:"message"`
	IsRead        bool             `json:"is_read"`
	CreatedAt     time.Time        `json:"created_at"`
}
