package notify

import (
	"context"
	"fmt"

	"fintrack/internal/bus"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/storage"
)

// KindNotifications is the collection suffix the registry persists under.
const KindNotifications = "notifications"

// maxRetained caps the per-user ledger; the oldest entries fall off.
const maxRetained = 200

// Registry is the persisted read/unread notification ledger, most recent
// first. It lives in the same store as the entities but is independent of
// them.
type Registry struct {
	store  *storage.Store
	bus    bus.Bus
	logger *log.Logger
}

func NewRegistry(store *storage.Store, changeBus bus.Bus, logger *log.Logger) *Registry {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Registry{
		store:  store,
		bus:    changeBus,
		logger: logger.WithComponent(log.ComponentNotify),
	}
}

// List returns the user's notifications, most recent first.
func (r *Registry) List(ctx context.Context, userID string) ([]Notification, error) {
	items, err := storage.ReadList[Notification](ctx, r.store, userID, KindNotifications)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return items, nil
}

// UnreadCount reports how many notifications the user has not read.
func (r *Registry) UnreadCount(ctx context.Context, userID string) (int, error) {
	items, err := r.List(ctx, userID)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, n := range items {
		if !n.IsRead {
			count++
		}
	}
	return count, nil
}

// Add prepends a notification to the user's ledger.
func (r *Registry) Add(ctx context.Context, n Notification) error {
	items, err := r.List(ctx, n.UserID)
	if err != nil {
		return err
	}
	items = append([]Notification{n}, items...)
	if len(items) > maxRetained {
		items = items[:maxRetained]
	}
	if err := r.save(ctx, n.UserID, items); err != nil {
		return err
	}

	r.logger.InfoContext(ctx, "Notification added",
		log.FieldUserID, n.UserID,
		log.FieldEntityID, n.ID,
		"type", string(n.Type))
	return nil
}

// MarkRead toggles a single notification to read.
func (r *Registry) MarkRead(ctx context.Context, userID, id string) error {
	items, err := r.List(ctx, userID)
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].ID == id {
			if items[i].IsRead {
				return nil
			}
			items[i].IsRead = true
			return r.save(ctx, userID, items)
		}
	}
	return fmt.Errorf("notification %s: %w", id, core.ErrNotFound)
}

// MarkAllRead marks every notification read.
func (r *Registry) MarkAllRead(ctx context.Context, userID string) error {
	items, err := r.List(ctx, userID)
	if err != nil {
		return err
	}
	changed := false
	for i := range items {
		if !items[i].IsRead {
			items[i].IsRead = true
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return r.save(ctx, userID, items)
}

// Remove deletes a single notification. Unknown ids are a no-op.
func (r *Registry) Remove(ctx context.Context, userID, id string) error {
	items, err := r.List(ctx, userID)
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].ID == id {
			items = append(items[:i], items[i+1:]...)
			return r.save(ctx, userID, items)
		}
	}
	return nil
}

// Clear drops the user's entire ledger.
func (r *Registry) Clear(ctx context.Context, userID string) error {
	if err := r.store.Remove(ctx, r.store.Key(userID, KindNotifications)); err != nil {
		return fmt.Errorf("clear notifications: %w", err)
	}
	r.publish(ctx, userID)
	return nil
}

func (r *Registry) save(ctx context.Context, userID string, items []Notification) error {
	if err := storage.WriteList(ctx, r.store, userID, KindNotifications, items); err != nil {
		return fmt.Errorf("save notifications: %w", err)
	}
	r.publish(ctx, userID)
	return nil
}

func (r *Registry) publish(ctx context.Context, userID string) {
	if r.bus == nil {
		return
	}
	if err := r.bus.Publish(ctx, userID); err != nil {
		r.logger.ErrorContext(ctx, "Failed to publish change signal",
			log.FieldUserID, userID, log.FieldError, err.Error())
	}
}
