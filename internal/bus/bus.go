// Package bus propagates "data changed" signals. Signals carry no delta;
// subscribers re-fetch everything from the store.
package bus

import (
	"context"
	"sync"
)

// Handler receives the id of the user whose data changed.
type Handler func(userID string)

// Unsubscribe removes a subscription. Safe to call more than once.
type Unsubscribe func()

// Bus is the change-signal fan-out keyed by user id.
type Bus interface {
	// Publish synchronously notifies every in-process subscriber for userID.
	Publish(ctx context.Context, userID string) error
	// Subscribe registers a handler for one user's signals.
	Subscribe(userID string, h Handler) Unsubscribe
	// SubscribeAll registers a handler for every user's signals.
	SubscribeAll(h Handler) Unsubscribe
}

type subscription struct {
	id     int
	userID string // empty matches every user
	h      Handler
}

// LocalBus dispatches synchronously within the process, in subscription
// order. Within one process mutation, publish, and recompute are strictly
// sequential.
type LocalBus struct {
	mu     sync.Mutex
	nextID int
	subs   []subscription
}

func NewLocalBus() *LocalBus {
	return &LocalBus{}
}

func (b *LocalBus) Publish(_ context.Context, userID string) error {
	b.mu.Lock()
	handlers := make([]Handler, 0, len(b.subs))
	for _, s := range b.subs {
		if s.userID == "" || s.userID == userID {
			handlers = append(handlers, s.h)
		}
	}
	b.mu.Unlock()

	// Dispatch outside the lock so handlers may publish or subscribe.
	for _, h := range handlers {
		h(userID)
	}
	return nil
}

func (b *LocalBus) Subscribe(userID string, h Handler) Unsubscribe {
	return b.add(subscription{userID: userID, h: h})
}

func (b *LocalBus) SubscribeAll(h Handler) Unsubscribe {
	return b.add(subscription{h: h})
}

func (b *LocalBus) add(s subscription) Unsubscribe {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	s.id = b.nextID
	b.subs = append(b.subs, s)
	id := s.id
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i := range b.subs {
			if b.subs[i].id == id {
				b.subs = append(b.subs[:i], b.subs[i+1:]...)
				return
			}
		}
	}
}
