package repo

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"fintrack/internal/bus"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/storage"
)

type GoalRepo struct {
	store  *storage.Store
	bus    bus.Bus
	logger *log.Logger
}

// GetAll returns the user's goals, nearest deadline first. Goals without a
// deadline sort last.
func (r *GoalRepo) GetAll(ctx context.Context, userID string) ([]core.Goal, error) {
	goals, err := storage.ReadList[core.Goal](ctx, r.store, userID, KindGoals)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	sort.SliceStable(goals, func(i, j int) bool {
		if goals[i].Deadline.IsZero() {
			return false
		}
		if goals[j].Deadline.IsZero() {
			return true
		}
		return goals[i].Deadline.Before(goals[j].Deadline)
	})
	return goals, nil
}

func (r *GoalRepo) GetByID(ctx context.Context, userID, id string) (core.Goal, error) {
	goals, err := r.GetAll(ctx, userID)
	if err != nil {
		return core.Goal{}, err
	}
	for _, g := range goals {
		if g.ID == id {
			return g, nil
		}
	}
	return core.Goal{}, fmt.Errorf("goal %s: %w", id, core.ErrNotFound)
}

func (r *GoalRepo) Upsert(ctx context.Context, userID string, g core.Goal) (core.Goal, error) {
	g.UserID = userID
	if err := g.Validate(); err != nil {
		return core.Goal{}, err
	}
	if g.ID == "" {
		g.ID = uuid.NewString()
	}

	goals, err := storage.ReadList[core.Goal](ctx, r.store, userID, KindGoals)
	if err != nil {
		return core.Goal{}, fmt.Errorf("load goals: %w", err)
	}
	goals = replaceOrAppend(goals, func(x core.Goal) string { return x.ID }, g, g.ID)

	if err := storage.WriteList(ctx, r.store, userID, KindGoals, goals); err != nil {
		return core.Goal{}, fmt.Errorf("save goals: %w", err)
	}

	publish(ctx, r.bus, r.logger, userID)
	return g, nil
}

func (r *GoalRepo) Remove(ctx context.Context, userID, id string) error {
	goals, err := storage.ReadList[core.Goal](ctx, r.store, userID, KindGoals)
	if err != nil {
		return fmt.Errorf("load goals: %w", err)
	}
	goals, removed := removeByID(goals, func(x core.Goal) string { return x.ID }, id)
	if !removed {
		return nil
	}
	if err := storage.WriteList(ctx, r.store, userID, KindGoals, goals); err != nil {
		return fmt.Errorf("save goals: %w", err)
	}
	publish(ctx, r.bus, r.logger, userID)
	return nil
}
