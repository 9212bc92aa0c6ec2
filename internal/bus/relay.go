package bus

import (
	"context"

	"github.com/google/uuid"
)

// Relay joins a LocalBus to a cross-process Bridge. A signal must fire
// exactly once in the originating process, so Publish dispatches locally
// first; outgoing messages carry the relay's origin id and incoming echoes
// of it are dropped.
type Relay struct {
	local  *LocalBus
	bridge Bridge
	origin string
}

func NewRelay(local *LocalBus, bridge Bridge) *Relay {
	return &Relay{
		local:  local,
		bridge: bridge,
		origin: uuid.NewString(),
	}
}

func (r *Relay) Publish(ctx context.Context, userID string) error {
	if err := r.local.Publish(ctx, userID); err != nil {
		return err
	}
	if r.bridge == nil {
		return nil
	}
	return r.bridge.Publish(ctx, NewDataChangedMessage(userID, r.origin))
}

func (r *Relay) Subscribe(userID string, h Handler) Unsubscribe {
	return r.local.Subscribe(userID, h)
}

func (r *Relay) SubscribeAll(h Handler) Unsubscribe {
	return r.local.SubscribeAll(h)
}

// Run consumes remote signals and re-dispatches them locally until ctx ends.
// Blocks; callers run it in a goroutine or errgroup.
func (r *Relay) Run(ctx context.Context) error {
	if r.bridge == nil {
		<-ctx.Done()
		return ctx.Err()
	}
	return r.bridge.Consume(ctx, func(msg *DataChangedMessage) error {
		if msg.Origin == r.origin {
			return nil
		}
		return r.local.Publish(ctx, msg.UserID)
	})
}
