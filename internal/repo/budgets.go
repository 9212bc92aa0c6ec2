package repo

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/bus"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/storage"
)

type BudgetRepo struct {
	store      *storage.Store
	bus        bus.Bus
	logger     *log.Logger
	categories *CategoryRepo
}

// GetAll returns the user's budgets ordered by creation time.
func (r *BudgetRepo) GetAll(ctx context.Context, userID string) ([]core.Budget, error) {
	budgets, err := storage.ReadList[core.Budget](ctx, r.store, userID, KindBudgets)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	sort.SliceStable(budgets, func(i, j int) bool {
		return budgets[i].CreatedAt.Before(budgets[j].CreatedAt)
	})
	return budgets, nil
}

func (r *BudgetRepo) GetByID(ctx context.Context, userID, id string) (core.Budget, error) {
	budgets, err := r.GetAll(ctx, userID)
	if err != nil {
		return core.Budget{}, err
	}
	for _, b := range budgets {
		if b.ID == id {
			return b, nil
		}
	}
	return core.Budget{}, fmt.Errorf("budget %s: %w", id, core.ErrNotFound)
}

// Upsert rejects a second active budget for the same (category, period)
// pair. Replacing an existing budget by id is allowed.
func (r *BudgetRepo) Upsert(ctx context.Context, userID string, b core.Budget) (core.Budget, error) {
	b.UserID = userID
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	if _, err := r.categories.GetByID(ctx, userID, b.CategoryID); err != nil {
		return core.Budget{}, core.Invalid("budget", core.ErrUnknownCategory)
	}

	budgets, err := storage.ReadList[core.Budget](ctx, r.store, userID, KindBudgets)
	if err != nil {
		return core.Budget{}, fmt.Errorf("load budgets: %w", err)
	}
	for _, existing := range budgets {
		if existing.ID != b.ID && existing.CategoryID == b.CategoryID && existing.Period == b.Period {
			return core.Budget{}, core.Invalid("budget", core.ErrDuplicateBudget)
		}
	}

	now := time.Now()
	if b.ID == "" {
		b.ID = uuid.NewString()
		b.CreatedAt = now
	}
	b.UpdatedAt = now

	budgets = replaceOrAppend(budgets, func(x core.Budget) string { return x.ID }, b, b.ID)

	if err := storage.WriteList(ctx, r.store, userID, KindBudgets, budgets); err != nil {
		return core.Budget{}, fmt.Errorf("save budgets: %w", err)
	}

	publish(ctx, r.bus, r.logger, userID)
	return b, nil
}

func (r *BudgetRepo) Remove(ctx context.Context, userID, id string) error {
	budgets, err := storage.ReadList[core.Budget](ctx, r.store, userID, KindBudgets)
	if err != nil {
		return fmt.Errorf("load budgets: %w", err)
	}
	budgets, removed := removeByID(budgets, func(x core.Budget) string { return x.ID }, id)
	if !removed {
		return nil
	}
	if err := storage.WriteList(ctx, r.store, userID, KindBudgets, budgets); err != nil {
		return fmt.Errorf("save budgets: %w", err)
	}
	publish(ctx, r.bus, r.logger, userID)
	return nil
}
