package dao

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"enabler-backend/db/dbtest"
	"enabler-backend/model"
)

var base = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestFrameworkRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewFrameworkRepository(dbtest.New(t))

	_, err := repo.GetByEnablerID(ctx, "enabler-1")
	assert.ErrorIs(t, err, model.ErrNotFound)

	fw := &model.PricingFramework{
		EnablerID:             "enabler-1",
		BasePrice:             dec("1000"),
		MaxDiscountPercentage: dec("12.5"),
		AutoNegotiate:         true,
		UpdatedAt:             base,
	}
	require.NoError(t, repo.Upsert(ctx, fw))

	got, err := repo.GetByEnablerID(ctx, "enabler-1")
	require.NoError(t, err)
	assert.True(t, got.BasePrice.Equal(dec("1000")))
	assert.True(t, got.MaxDiscountPercentage.Equal(dec("12.5")))
	assert.True(t, got.AutoNegotiate)
	assert.True(t, got.UpdatedAt.Equal(base))

	fw.AutoNegotiate = false
	fw.BasePrice = dec("1250.75")
	require.NoError(t, repo.Upsert(ctx, fw))

	got, err = repo.GetByEnablerID(ctx, "enabler-1")
	require.NoError(t, err)
	assert.False(t, got.AutoNegotiate)
	assert.True(t, got.BasePrice.Equal(dec("1250.75")))
}

func newNegotiation(id, host, enabler string, created time.Time) *model.StructuredNegotiation {
	return &model.StructuredNegotiation{
		ID:        id,
		HostID:    host,
		EnablerID: enabler,
		Offer: model.Offer{
			Price:        dec("850"),
			Date:         base.AddDate(0, 2, 0),
			GuestCount:   120,
			PackageItems: []string{"catering", "dj"},
			PaymentPlan:  model.PaymentPlanDeposit,
		},
		Status:     model.NegotiationPending,
		Conditions: []string{},
		Round:      1,
		CreatedAt:  created,
		UpdatedAt:  created,
	}
}

func TestNegotiationRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewNegotiationRepository(dbtest.New(t))

	n := newNegotiation("01J0000000000000000000000A", "host-1", "enabler-1", base)
	require.NoError(t, repo.Create(ctx, n))

	got, err := repo.GetByID(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, "host-1", got.HostID)
	assert.Equal(t, model.NegotiationPending, got.Status)
	assert.True(t, got.Offer.Price.Equal(dec("850")))
	assert.True(t, got.Offer.Date.Equal(n.Offer.Date))
	assert.Equal(t, 120, got.Offer.GuestCount)
	assert.Equal(t, []string{"catering", "dj"}, got.Offer.PackageItems)
	assert.Equal(t, model.PaymentPlanDeposit, got.Offer.PaymentPlan)
	assert.Nil(t, got.CounterPrice)
	assert.Nil(t, got.AgreedPrice)
	assert.Empty(t, got.Conditions)

	counter := dec("900")
	got.Status = model.NegotiationCountered
	got.CounterPrice = &counter
	got.Conditions = []string{"Price is below minimum acceptable. Counter-offer: $900.00"}
	got.AutoResolved = true
	got.UpdatedAt = base.Add(time.Minute)
	require.NoError(t, repo.Update(ctx, got, model.NegotiationPending))

	again, err := repo.GetByID(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, model.NegotiationCountered, again.Status)
	require.NotNil(t, again.CounterPrice)
	assert.True(t, again.CounterPrice.Equal(counter))
	assert.Equal(t, got.Conditions, again.Conditions)
	assert.True(t, again.AutoResolved)
}

func TestNegotiationRepository_Missing(t *testing.T) {
	ctx := context.Background()
	repo := NewNegotiationRepository(dbtest.New(t))

	_, err := repo.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, model.ErrNotFound)

	err = repo.Update(ctx, newNegotiation("nope", "h", "e", base), model.NegotiationPending)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestNegotiationRepository_StaleUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewNegotiationRepository(dbtest.New(t))

	n := newNegotiation("01J0000000000000000000000A", "host-1", "enabler-1", base)
	require.NoError(t, repo.Create(ctx, n))

	n.Status = model.NegotiationWithdrawn
	require.NoError(t, repo.Update(ctx, n, model.NegotiationPending))

	n.Status = model.NegotiationAgreed
	err := repo.Update(ctx, n, model.NegotiationPending)
	assert.ErrorIs(t, err, model.ErrConcurrentUpdate)

	got, err := repo.GetByID(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, model.NegotiationWithdrawn, got.Status)
}

func agreedBooking(id string, n *model.StructuredNegotiation) *model.Booking {
	return &model.Booking{
		ID:            id,
		NegotiationID: n.ID,
		HostID:        n.HostID,
		EnablerID:     n.EnablerID,
		Price:         n.Offer.Price,
		Status:        model.BookingPendingSignature,
		CreatedAt:     base,
	}
}

func TestNegotiationRepository_CreateWithBooking(t *testing.T) {
	ctx := context.Background()
	conn := dbtest.New(t)
	repo := NewNegotiationRepository(conn)
	bookings := NewBookingRepository(conn)

	n := newNegotiation("01J0000000000000000000000A", "host-1", "enabler-1", base)
	n.Status = model.NegotiationAgreed
	n.AgreedPrice = &n.Offer.Price
	require.NoError(t, repo.CreateWithBooking(ctx, n, agreedBooking("01J0000000000000000000000K", n)))

	got, err := bookings.GetByNegotiationID(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, "01J0000000000000000000000K", got.ID)

	// A booking id collision rolls back the negotiation insert.
	other := newNegotiation("01J0000000000000000000000B", "host-1", "enabler-1", base)
	other.Status = model.NegotiationAgreed
	err = repo.CreateWithBooking(ctx, other, agreedBooking("01J0000000000000000000000K", other))
	require.Error(t, err)

	_, err = repo.GetByID(ctx, other.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestNegotiationRepository_UpdateWithBooking(t *testing.T) {
	ctx := context.Background()
	conn := dbtest.New(t)
	repo := NewNegotiationRepository(conn)
	bookings := NewBookingRepository(conn)

	first := newNegotiation("01J0000000000000000000000A", "host-1", "enabler-1", base)
	second := newNegotiation("01J0000000000000000000000B", "host-1", "enabler-1", base)
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	first.Status = model.NegotiationAgreed
	first.AgreedPrice = &first.Offer.Price
	require.NoError(t, repo.UpdateWithBooking(ctx, first, model.NegotiationPending, agreedBooking("01J0000000000000000000000K", first)))

	second.Status = model.NegotiationAgreed
	second.AgreedPrice = &second.Offer.Price
	err := repo.UpdateWithBooking(ctx, second, model.NegotiationPending, agreedBooking("01J0000000000000000000000K", second))
	require.Error(t, err)

	got, err := repo.GetByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, model.NegotiationPending, got.Status, "status change rolled back")
	assert.Nil(t, got.AgreedPrice)

	_, err = bookings.GetByNegotiationID(ctx, second.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)

	// Stale status still reports a concurrent update inside the transaction.
	err = repo.UpdateWithBooking(ctx, first, model.NegotiationPending, agreedBooking("01J0000000000000000000000M", first))
	assert.ErrorIs(t, err, model.ErrConcurrentUpdate)
}

func TestNegotiationRepository_Lists(t *testing.T) {
	ctx := context.Background()
	repo := NewNegotiationRepository(dbtest.New(t))

	require.NoError(t, repo.Create(ctx, newNegotiation("01J0000000000000000000000A", "host-1", "enabler-1", base)))
	require.NoError(t, repo.Create(ctx, newNegotiation("01J0000000000000000000000B", "host-1", "enabler-2", base.Add(time.Hour))))
	require.NoError(t, repo.Create(ctx, newNegotiation("01J0000000000000000000000C", "host-2", "enabler-1", base.Add(2*time.Hour))))

	byHost, err := repo.ListByHost(ctx, "host-1")
	require.NoError(t, err)
	require.Len(t, byHost, 2)
	assert.Equal(t, "01J0000000000000000000000B", byHost[0].ID)

	byEnabler, err := repo.ListByEnabler(ctx, "enabler-1")
	require.NoError(t, err)
	require.Len(t, byEnabler, 2)
	assert.Equal(t, "01J0000000000000000000000C", byEnabler[0].ID)

	none, err := repo.ListByHost(ctx, "host-9")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestBookingRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepository(dbtest.New(t))

	b := &model.Booking{
		ID:            "01J0000000000000000000000K",
		NegotiationID: "01J0000000000000000000000A",
		HostID:        "host-1",
		EnablerID:     "enabler-1",
		Price:         dec("950"),
		EventDate:     base.AddDate(0, 1, 0),
		GuestCount:    80,
		Status:        model.BookingPendingSignature,
		CreatedAt:     base,
	}
	require.NoError(t, repo.Create(ctx, b))

	got, err := repo.GetByNegotiationID(ctx, b.NegotiationID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)
	assert.True(t, got.Price.Equal(dec("950")))
	assert.Equal(t, model.BookingPendingSignature, got.Status)

	dup := *b
	dup.ID = "01J0000000000000000000000L"
	assert.Error(t, repo.Create(ctx, &dup), "one booking per negotiation")

	_, err = repo.GetByNegotiationID(ctx, "other")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestNotificationRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewNotificationRepository(dbtest.New(t))

	for i, id := range []string{"01J0000000000000000000000N", "01J0000000000000000000000P"} {
		require.NoError(t, repo.Create(ctx, &model.Notification{
			ID:            id,
			UserID:        "enabler-1",
			NegotiationID: "01J0000000000000000000000A",
			Kind:          model.NotificationOfferReceived,
			Message:       "New offer",
			CreatedAt:     base.Add(time.Duration(i) * time.Minute),
		}))
	}

	list, err := repo.ListByUser(ctx, "enabler-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "01J0000000000000000000000P", list[0].ID)
	assert.False(t, list[0].IsRead)

	require.NoError(t, repo.MarkRead(ctx, list[0].ID, "enabler-1"))
	require.NoError(t, repo.MarkRead(ctx, list[0].ID, "enabler-1"))
	assert.ErrorIs(t, repo.MarkRead(ctx, list[1].ID, "someone-else"), model.ErrNotFound)

	list, err = repo.ListByUser(ctx, "enabler-1")
	require.NoError(t, err)
	assert.True(t, list[0].IsRead)
	assert.False(t, list[1].IsRead)
}
