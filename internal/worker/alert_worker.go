// Package worker runs budget alerting outside the interactive app: it reacts
// to change signals from other processes and periodically sweeps as a backup
// for signals that never arrived.
package worker

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/app"
	"fintrack/internal/bus"
	"fintrack/internal/log"
)

type AlertWorker struct {
	app      *app.App
	relay    *bus.Relay
	userID   string
	interval time.Duration
	logger   *log.Logger
}

func NewAlertWorker(a *app.App, relay *bus.Relay, userID string, interval time.Duration, logger *log.Logger) *AlertWorker {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &AlertWorker{
		app:      a,
		relay:    relay,
		userID:   userID,
		interval: interval,
		logger:   logger.WithComponent(log.ComponentWorker),
	}
}

// Run blocks until ctx ends: one goroutine relays cross-process signals into
// the local bus, the other sweeps on a timer. Both funnel into Evaluate.
func (w *AlertWorker) Run(ctx context.Context) error {
	unsub := w.app.Bus.Subscribe(w.userID, func(string) {
		w.Evaluate(ctx)
	})
	defer unsub()

	// Catch up on whatever happened while the worker was down.
	w.Evaluate(ctx)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := w.relay.Run(ctx)
		if err != nil && err != context.Canceled {
			return fmt.Errorf("relay: %w", err)
		}
		return err
	})

	g.Go(func() error {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				w.Evaluate(ctx)
			}
		}
	})

	return g.Wait()
}

// Evaluate recomputes the user's budget utilization from the store and emits
// any threshold-crossing notifications.
func (w *AlertWorker) Evaluate(ctx context.Context) {
	w.app.Engine.Invalidate(w.userID)
	view, err := w.app.Engine.Snapshot(ctx, w.userID)
	if err != nil {
		w.logger.ErrorContext(ctx, "Failed to compute view",
			log.FieldUserID, w.userID, log.FieldError, err.Error())
		return
	}

	emitted, err := w.app.Evaluator.Evaluate(ctx, w.userID, view.BudgetStatus)
	if err != nil {
		w.logger.ErrorContext(ctx, "Alert evaluation failed",
			log.FieldUserID, w.userID, log.FieldError, err.Error())
		return
	}
	goals, err := w.app.Evaluator.EvaluateGoals(ctx, w.userID, view.GoalProgress)
	if err != nil {
		w.logger.ErrorContext(ctx, "Goal evaluation failed",
			log.FieldUserID, w.userID, log.FieldError, err.Error())
		return
	}
	emitted = append(emitted, goals...)
	if len(emitted) > 0 {
		w.logger.InfoContext(ctx, "Emitted budget notifications",
			log.FieldUserID, w.userID, log.FieldCount, len(emitted))
	}
}
