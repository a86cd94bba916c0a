package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"enabler-backend/dao"
	"enabler-backend/model"
	"enabler-backend/pkg/negotiation"
)

type Notifier interface {
	Notify(userID, negotiationID string, kind model.NotificationKind, message string)
}

type IDGenerator interface {
	NewID() string
}

type Action string

const (
	ActionAccept   Action = "accept"
	ActionCounter  Action = "counter"
	ActionDecline  Action = "decline"
	ActionWithdraw Action = "withdraw"
)

// SubmitResult carries the stored negotiation, the resolver outcome when the
// enabler auto-negotiates, and the booking when the offer was agreed.
type SubmitResult struct {
	Negotiation *model.StructuredNegotiation `json:"negotiation"`
	Outcome     *negotiation.Outcome         `json:"outcome,omitempty"`
	Booking     *model.Booking               `json:"booking,omitempty"`
}

type NegotiationUsecase struct {
	frameworkRepo   *dao.FrameworkRepository
	negotiationRepo *dao.NegotiationRepository
	bookingRepo     *dao.BookingRepository
	resolver        *negotiation.Resolver
	notifier        Notifier
	ids             IDGenerator
	logger          *zap.Logger
	now             func() time.Time
}

func NewNegotiationUsecase(
	frameworkRepo *dao.FrameworkRepository,
	negotiationRepo *dao.NegotiationRepository,
	bookingRepo *dao.BookingRepository,
	resolver *negotiation.Resolver,
	notifier Notifier,
	ids IDGenerator,
	logger *zap.Logger,
) *NegotiationUsecase {
	return &NegotiationUsecase{
		frameworkRepo:   frameworkRepo,
		negotiationRepo: negotiationRepo,
		bookingRepo:     bookingRepo,
		resolver:        resolver,
		notifier:        notifier,
		ids:             ids,
		logger:          logger.Named("negotiation"),
		now:             time.Now,
	}
}

// SubmitOffer records a host's offer to an enabler. When the enabler's
// framework has auto-negotiate on, the offer is resolved immediately;
// otherwise it waits for the enabler's review.
func (u *NegotiationUsecase) SubmitOffer(ctx context.Context, hostID, enablerID string, offer model.Offer) (*SubmitResult, error) {
	if err := validateOffer(hostID, enablerID, &offer); err != nil {
		return nil, err
	}

	fw, err := u.frameworkRepo.GetByEnablerID(ctx, enablerID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, fmt.Errorf("enabler %s: %w", enablerID, model.ErrFrameworkMissing)
		}
		return nil, err
	}

	now := u.now().UTC()
	n := &model.StructuredNegotiation{
		ID:         u.ids.NewID(),
		HostID:     hostID,
		EnablerID:  enablerID,
		Offer:      offer,
		Status:     model.NegotiationPending,
		Conditions: []string{},
		Round:      1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	result := &SubmitResult{Negotiation: n}

	if fw.AutoNegotiate {
		outcome, err := u.resolver.Resolve(offer.Price, fw.BasePrice, fw.MaxDiscountPercentage)
		if err != nil {
			return nil, err
		}
		result.Outcome = &outcome
		n.AutoResolved = true
		n.Conditions = outcome.Conditions

		switch outcome.Status {
		case negotiation.StatusAgreed:
			n.Status = model.NegotiationAgreed
			agreed := offer.Price
			n.AgreedPrice = &agreed
		case negotiation.StatusCountered:
			n.Status = model.NegotiationCountered
			n.CounterPrice = outcome.CounterPrice
		}
	}

	if n.Status == model.NegotiationAgreed {
		result.Booking = u.newBooking(n)
		if err := u.negotiationRepo.CreateWithBooking(ctx, n, result.Booking); err != nil {
			return nil, fmt.Errorf("create negotiation: %w", err)
		}
	} else if err := u.negotiationRepo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("create negotiation: %w", err)
	}

	u.logger.Info("offer submitted",
		zap.String("negotiation_id", n.ID),
		zap.String("host_id", hostID),
		zap.String("enabler_id", enablerID),
		zap.Stringer("offered_price", offer.Price),
		zap.String("status", string(n.Status)),
		zap.Bool("auto_resolved", n.AutoResolved))

	switch n.Status {
	case model.NegotiationPending:
		u.notifier.Notify(enablerID, n.ID, model.NotificationOfferReceived,
			fmt.Sprintf("New offer of %s awaiting your review.", u.resolver.Format(offer.Price)))
	case model.NegotiationCountered:
		u.notifier.Notify(hostID, n.ID, model.NotificationOfferCountered, n.Conditions[0])
	case model.NegotiationAgreed:
		u.logBooking(result.Booking)
		u.notifier.Notify(enablerID, n.ID, model.NotificationOfferAgreed,
			fmt.Sprintf("Offer of %s was accepted automatically.", u.resolver.Format(offer.Price)))
	}

	return result, nil
}

// RespondAsEnabler lets the enabler accept, counter, or decline an offer
// waiting for review. counterPrice is only read for ActionCounter.
func (u *NegotiationUsecase) RespondAsEnabler(ctx context.Context, negotiationID, enablerID string, action Action, counterPrice decimal.Decimal) (*SubmitResult, error) {
	n, err := u.negotiationRepo.GetByID(ctx, negotiationID)
	if err != nil {
		return nil, err
	}
	if n.EnablerID != enablerID {
		return nil, fmt.Errorf("enabler %s on negotiation %s: %w", enablerID, negotiationID, model.ErrUnauthorized)
	}
	if n.Status != model.NegotiationPending {
		return nil, fmt.Errorf("enabler cannot %s a %s negotiation: %w", action, n.Status, model.ErrInvalidTransition)
	}

	from := n.Status
	n.UpdatedAt = u.now().UTC()

	var (
		kind    model.NotificationKind
		message string
	)
	switch action {
	case ActionAccept:
		agreed := n.Offer.Price
		n.Status = model.NegotiationAgreed
		n.AgreedPrice = &agreed
		kind = model.NotificationOfferAgreed
		message = fmt.Sprintf("Your offer of %s was accepted.", u.resolver.Format(agreed))
	case ActionCounter:
		if !counterPrice.GreaterThan(n.Offer.Price) {
			return nil, fmt.Errorf("counter price %s must exceed the offered %s: %w", counterPrice, n.Offer.Price, model.ErrInvalidOffer)
		}
		n.Status = model.NegotiationCountered
		n.CounterPrice = &counterPrice
		n.Round++
		message = fmt.Sprintf("Counter-offer: %s", u.resolver.Format(counterPrice))
		n.Conditions = []string{message}
		kind = model.NotificationOfferCountered
	case ActionDecline:
		n.Status = model.NegotiationDeclined
		kind = model.NotificationOfferDeclined
		message = "Your offer was declined."
	default:
		return nil, fmt.Errorf("enabler cannot %s: %w", action, model.ErrInvalidTransition)
	}

	return u.transition(ctx, n, from, n.HostID, kind, message)
}

// RespondAsHost lets the host settle a negotiation: accept or decline a
// counter-offer, or withdraw an offer that has not been agreed.
func (u *NegotiationUsecase) RespondAsHost(ctx context.Context, negotiationID, hostID string, action Action) (*SubmitResult, error) {
	n, err := u.negotiationRepo.GetByID(ctx, negotiationID)
	if err != nil {
		return nil, err
	}
	if n.HostID != hostID {
		return nil, fmt.Errorf("host %s on negotiation %s: %w", hostID, negotiationID, model.ErrUnauthorized)
	}
	if n.Status.Closed() {
		return nil, fmt.Errorf("host cannot %s a %s negotiation: %w", action, n.Status, model.ErrInvalidTransition)
	}

	from := n.Status
	n.UpdatedAt = u.now().UTC()

	var (
		kind    model.NotificationKind
		message string
	)
	switch {
	case action == ActionAccept && from == model.NegotiationCountered:
		agreed := *n.CounterPrice
		n.Status = model.NegotiationAgreed
		n.AgreedPrice = &agreed
		kind = model.NotificationOfferAgreed
		message = fmt.Sprintf("Host accepted your counter-offer of %s.", u.resolver.Format(agreed))
	case action == ActionDecline && from == model.NegotiationCountered:
		n.Status = model.NegotiationDeclined
		kind = model.NotificationOfferDeclined
		message = "Host declined your counter-offer."
	case action == ActionWithdraw:
		n.Status = model.NegotiationWithdrawn
		kind = model.NotificationOfferWithdrawn
		message = "Host withdrew their offer."
	default:
		return nil, fmt.Errorf("host cannot %s a %s negotiation: %w", action, from, model.ErrInvalidTransition)
	}

	return u.transition(ctx, n, from, n.EnablerID, kind, message)
}

func (u *NegotiationUsecase) transition(ctx context.Context, n *model.StructuredNegotiation, from model.NegotiationStatus, notifyUser string, kind model.NotificationKind, message string) (*SubmitResult, error) {
	result := &SubmitResult{Negotiation: n}
	if n.Status == model.NegotiationAgreed {
		result.Booking = u.newBooking(n)
		if err := u.negotiationRepo.UpdateWithBooking(ctx, n, from, result.Booking); err != nil {
			return nil, fmt.Errorf("update negotiation: %w", err)
		}
	} else if err := u.negotiationRepo.Update(ctx, n, from); err != nil {
		return nil, fmt.Errorf("update negotiation: %w", err)
	}
	u.logger.Info("negotiation updated",
		zap.String("negotiation_id", n.ID),
		zap.String("from", string(from)),
		zap.String("to", string(n.Status)))

	if result.Booking != nil {
		u.logBooking(result.Booking)
	}
	u.notifier.Notify(notifyUser, n.ID, kind, message)
	return result, nil
}

// newBooking builds the pending_signature booking for an agreed negotiation.
// It is stored in the same transaction as the agreement.
func (u *NegotiationUsecase) newBooking(n *model.StructuredNegotiation) *model.Booking {
	return &model.Booking{
		ID:            u.ids.NewID(),
		NegotiationID: n.ID,
		HostID:        n.HostID,
		EnablerID:     n.EnablerID,
		Price:         *n.AgreedPrice,
		EventDate:     n.Offer.Date,
		GuestCount:    n.Offer.GuestCount,
		Status:        model.BookingPendingSignature,
		CreatedAt:     u.now().UTC(),
	}
}

func (u *NegotiationUsecase) logBooking(b *model.Booking) {
	u.logger.Info("booking created", zap.String("booking_id", b.ID), zap.String("negotiation_id", b.NegotiationID), zap.Stringer("price", b.Price))
}

func (u *NegotiationUsecase) GetNegotiation(ctx context.Context, negotiationID, userID string) (*model.StructuredNegotiation, error) {
	n, err := u.negotiationRepo.GetByID(ctx, negotiationID)
	if err != nil {
		return nil, err
	}
	if n.HostID != userID && n.EnablerID != userID {
		return nil, fmt.Errorf("user %s on negotiation %s: %w", userID, negotiationID, model.ErrUnauthorized)
	}
	return n, nil
}

func (u *NegotiationUsecase) GetBooking(ctx context.Context, negotiationID, userID string) (*model.Booking, error) {
	if _, err := u.GetNegotiation(ctx, negotiationID, userID); err != nil {
		return nil, err
	}
	return u.bookingRepo.GetByNegotiationID(ctx, negotiationID)
}

func (u *NegotiationUsecase) ListForHost(ctx context.Context, hostID string) ([]model.StructuredNegotiation, error) {
	return u.negotiationRepo.ListByHost(ctx, hostID)
}

func (u *NegotiationUsecase) ListForEnabler(ctx context.Context, enablerID string) ([]model.StructuredNegotiation, error) {
	return u.negotiationRepo.ListByEnabler(ctx, enablerID)
}

func validateOffer(hostID, enablerID string, offer *model.Offer) error {
	switch {
	case hostID == "" || enablerID == "":
		return fmt.Errorf("host and enabler are required: %w", model.ErrInvalidOffer)
	case hostID == enablerID:
		return fmt.Errorf("cannot make an offer to yourself: %w", model.ErrInvalidOffer)
	case !offer.Price.IsPositive():
		return fmt.Errorf("price must be greater than zero: %w", model.ErrInvalidOffer)
	case offer.GuestCount < 0:
		return fmt.Errorf("guest count must not be negative: %w", model.ErrInvalidOffer)
	}
	if offer.PaymentPlan == "" {
		offer.PaymentPlan = model.PaymentPlanFull
	}
	if !offer.PaymentPlan.Valid() {
		return fmt.Errorf("unknown payment plan %q: %w", offer.PaymentPlan, model.ErrInvalidOffer)
	}
	if offer.PackageItems == nil {
		offer.PackageItems = []string{}
	}
	return nil
}

// Respond routes a response to the enabler or host flow depending on which
// side of the negotiation userID is.
func (u *NegotiationUsecase) Respond(ctx context.Context, negotiationID, userID string, action Action, counterPrice decimal.Decimal) (*SubmitResult, error) {
	n, err := u.GetNegotiation(ctx, negotiationID, userID)
	if err != nil {
		return nil, err
	}
	if n.EnablerID == userID {
		return u.RespondAsEnabler(ctx, negotiationID, userID, action, counterPrice)
	}
	return u.RespondAsHost(ctx, negotiationID, userID, action)
}

// Resolve runs the resolver without touching storage.
func (u *NegotiationUsecase) Resolve(offeredPrice, basePrice, maxDiscountPercentage decimal.Decimal) (negotiation.Outcome, error) {
	return u.resolver.Resolve(offeredPrice, basePrice, maxDiscountPercentage)
}
