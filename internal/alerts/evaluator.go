// Package alerts turns budget utilization into threshold-crossing
// notifications.
package alerts

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/notify"
)

// Threshold percentages. At exactly the alert threshold the budget is
// exceeded, not merely warned about.
var (
	warnAt  = decimal.NewFromInt(80)
	alertAt = decimal.NewFromInt(100)
)

type level int

const (
	levelNone level = iota
	levelWarning
	levelAlert
)

// Evaluator is a small state machine per (user, category, period): it
// remembers the last-emitted threshold level so staying above a threshold
// across recomputes never re-emits, while dropping below re-arms it.
type Evaluator struct {
	registry *notify.Registry
	logger   *log.Logger

	mu      sync.Mutex
	last    map[string]level
	reached map[string]bool
}

func NewEvaluator(registry *notify.Registry, logger *log.Logger) *Evaluator {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Evaluator{
		registry: registry,
		logger:   logger.WithComponent(log.ComponentAlerts),
		last:     make(map[string]level),
		reached:  make(map[string]bool),
	}
}

func levelFor(utilization decimal.Decimal) level {
	switch {
	case utilization.GreaterThanOrEqual(alertAt):
		return levelAlert
	case utilization.GreaterThanOrEqual(warnAt):
		return levelWarning
	default:
		return levelNone
	}
}

// Evaluate diffs current utilization against the last-emitted level and
// appends one notification per upward crossing. It returns what it emitted.
func (e *Evaluator) Evaluate(ctx context.Context, userID string, statuses []core.BudgetStatus) ([]notify.Notification, error) {
	var emitted []notify.Notification
	for _, s := range statuses {
		key := userID + "|" + s.Budget.CategoryID + "|" + string(s.Budget.Period)
		lvl := levelFor(s.Utilization)

		e.mu.Lock()
		prev := e.last[key]
		e.last[key] = lvl
		e.mu.Unlock()

		if lvl <= prev {
			continue
		}

		var (
			n   notify.Notification
			err error
		)
		switch lvl {
		case levelAlert:
			n, err = notify.NewBudgetAlert(userID, s.CategoryName, s.Spent, s.Budget.Amount, s.Utilization)
		case levelWarning:
			n, err = notify.NewBudgetWarning(userID, s.CategoryName, s.Spent, s.Budget.Amount, s.Utilization)
		default:
			continue
		}
		if err != nil {
			return emitted, fmt.Errorf("build notification: %w", err)
		}
		if err := e.registry.Add(ctx, n); err != nil {
			return emitted, fmt.Errorf("append notification: %w", err)
		}

		e.logger.InfoContext(ctx, "Budget threshold crossed",
			log.FieldUserID, userID,
			log.FieldCategory, s.CategoryName,
			log.FieldUtilization, s.Utilization.Round(1).String(),
			"type", string(n.Type))

		emitted = append(emitted, n)
	}
	return emitted, nil
}

// EvaluateGoals emits one notification per goal the first time its progress
// reaches 100%. Falling back below the target re-arms the goal.
func (e *Evaluator) EvaluateGoals(ctx context.Context, userID string, progress []core.GoalProgress) ([]notify.Notification, error) {
	var emitted []notify.Notification
	for _, p := range progress {
		key := userID + "|" + p.Goal.ID
		done := p.Progress.GreaterThanOrEqual(alertAt)

		e.mu.Lock()
		prev := e.reached[key]
		e.reached[key] = done
		e.mu.Unlock()

		if !done || prev {
			continue
		}

		n, err := notify.NewGoalReached(userID, p.Goal.Name, p.Goal.Target)
		if err != nil {
			return emitted, fmt.Errorf("build notification: %w", err)
		}
		if err := e.registry.Add(ctx, n); err != nil {
			return emitted, fmt.Errorf("append notification: %w", err)
		}

		e.logger.InfoContext(ctx, "Goal reached",
			log.FieldUserID, userID,
			log.FieldEntityID, p.Goal.ID)

		emitted = append(emitted, n)
	}
	return emitted, nil
}

// Reset forgets all tracked state, e.g. when switching users.
func (e *Evaluator) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.last = make(map[string]level)
	e.reached = make(map[string]bool)
}
