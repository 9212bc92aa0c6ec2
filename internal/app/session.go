package app

import (
	"context"
	"fmt"
	"sync"

	"fintrack/internal/aggregate"
	"fintrack/internal/bus"
	"fintrack/internal/log"
	"fintrack/internal/notify"
)

// Snapshot is the read-only state the presentation layer consumes. Mutations
// go through the repositories; a change signal produces a fresh snapshot.
type Snapshot struct {
	aggregate.View
	Notifications []notify.Notification
	UnreadCount   int
	IsLoading     bool
}

// Session binds the app to one signed-in user: it seeds on first run,
// refreshes its snapshot on every change signal, and runs the alert
// evaluator after each recompute.
type Session struct {
	app    *App
	userID string
	unsub  bus.Unsubscribe
	logger *log.Logger

	mu       sync.Mutex
	snapshot Snapshot
	onChange func(Snapshot)
}

// StartSession seeds the user if needed, computes the first snapshot, and
// subscribes to the user's change signals.
func (a *App) StartSession(ctx context.Context, userID string) (*Session, error) {
	if userID == "" {
		return nil, fmt.Errorf("start session: empty user id")
	}

	s := &Session{
		app:      a,
		userID:   userID,
		logger:   a.logger,
		snapshot: Snapshot{IsLoading: true},
	}

	if err := a.Seeder.SetupNewUser(ctx, userID); err != nil {
		return nil, fmt.Errorf("seed user: %w", err)
	}

	// Subscribe before the first refresh so no signal between the two is
	// lost. Refreshing twice is harmless; missing a change is not.
	s.unsub = a.Bus.Subscribe(userID, func(string) {
		if err := s.Refresh(context.Background()); err != nil {
			s.logger.Error("Refresh after change signal failed",
				log.FieldUserID, userID, log.FieldError, err.Error())
		}
	})

	if err := s.Refresh(ctx); err != nil {
		s.unsub()
		return nil, err
	}
	return s, nil
}

// UserID returns the session's user.
func (s *Session) UserID() string { return s.userID }

// Snapshot returns the most recently computed snapshot.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// OnChange registers a callback invoked with each fresh snapshot.
func (s *Session) OnChange(fn func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// Refresh re-reads everything from the store, recomputes the derived view,
// and evaluates budget alerts. Alert notifications appended here publish
// another signal, which re-enters once and settles because the evaluator
// never re-emits at an unchanged level.
func (s *Session) Refresh(ctx context.Context) error {
	s.app.Engine.Invalidate(s.userID)
	view, err := s.app.Engine.Snapshot(ctx, s.userID)
	if err != nil {
		return fmt.Errorf("refresh view: %w", err)
	}

	if _, err := s.app.Evaluator.Evaluate(ctx, s.userID, view.BudgetStatus); err != nil {
		s.logger.Error("Alert evaluation failed",
			log.FieldUserID, s.userID, log.FieldError, err.Error())
	}
	if _, err := s.app.Evaluator.EvaluateGoals(ctx, s.userID, view.GoalProgress); err != nil {
		s.logger.Error("Goal evaluation failed",
			log.FieldUserID, s.userID, log.FieldError, err.Error())
	}

	notifications, err := s.app.Registry.List(ctx, s.userID)
	if err != nil {
		return fmt.Errorf("refresh notifications: %w", err)
	}
	unread := 0
	for _, n := range notifications {
		if !n.IsRead {
			unread++
		}
	}

	s.mu.Lock()
	s.snapshot = Snapshot{
		View:          view,
		Notifications: notifications,
		UnreadCount:   unread,
	}
	fn := s.onChange
	snap := s.snapshot
	s.mu.Unlock()

	if fn != nil {
		fn(snap)
	}
	return nil
}

// Close detaches the session from the bus.
func (s *Session) Close() {
	if s.unsub != nil {
		s.unsub()
	}
}
