// Package notify delivers counterparty notifications off the request path.
package notify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"enabler-backend/model"
)

const storeTimeout = 5 * time.Second

type Store interface {
	Create(ctx context.Context, n *model.Notification) error
}

type IDGenerator interface {
	NewID() string
}

// Dispatcher persists notifications from a single background worker.
// Notify never blocks: when the queue is full the notification is dropped
// and logged.
type Dispatcher struct {
	store  Store
	ids    IDGenerator
	logger *zap.Logger
	now    func() time.Time

	mu     sync.RWMutex
	closed bool
	queue  chan model.Notification
	done   chan struct{}
}

func NewDispatcher(store Store, ids IDGenerator, logger *zap.Logger, buffer int) *Dispatcher {
	d := &Dispatcher{
		store:  store,
		ids:    ids,
		logger: logger.Named("notify"),
		now:    time.Now,
		queue:  make(chan model.Notification, buffer),
		done:   make(chan struct{}),
	}
	go d.run()
	return d
}

// Notify queues a notification for userID about a negotiation.
func (d *Dispatcher) Notify(userID, negotiationID string, kind model.NotificationKind, message string) {
	n := model.Notification{
		ID:            d.ids.NewID(),
		UserID:        userID,
		NegotiationID: negotiationID,
		Kind:          kind,
		Message:       message,
		CreatedAt:     d.now().UTC(),
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.logger.Warn("dispatcher closed, dropping notification", zap.String("user_id", userID), zap.String("kind", string(kind)))
		return
	}
	select {
	case d.queue <- n:
	default:
		d.logger.Warn("notification queue full, dropping notification",
			zap.String("user_id", userID),
			zap.String("negotiation_id", negotiationID),
			zap.String("kind", string(kind)))
	}
}

// Close stops accepting notifications and waits for queued ones to be
// stored, or for ctx to expire.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for n := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		if err := d.store.Create(ctx, &n); err != nil {
			d.logger.Error("failed to store notification", zap.String("id", n.ID), zap.Error(err))
		}
		cancel()
	}
}
