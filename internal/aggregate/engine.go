package aggregate

import (
	"context"
	"fmt"
	"time"

	"fintrack/internal/bus"
	"fintrack/internal/cache"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/repo"
)

// View is the computed snapshot for one user: every collection re-read from
// the store plus the derived summary. Views are immutable; a change signal
// invalidates and the next read recomputes.
type View struct {
	Accounts     []core.Account
	Balances     []core.AccountBalance
	Categories   []core.Category
	Transactions []core.Transaction
	Budgets      []core.Budget
	Goals        []core.Goal
	Summary      core.FinancialSummary
	BudgetStatus []core.BudgetStatus
	GoalProgress []core.GoalProgress
	ComputedAt   time.Time
}

// Engine computes views on demand and memoizes them per user until the next
// change signal. Reads after an invalidation always go back to the store.
type Engine struct {
	repos  *repo.Repos
	views  *cache.Cache[View]
	logger *log.Logger
	now    func() time.Time
	unsub  bus.Unsubscribe
}

const (
	cacheSize = 64
	cacheTTL  = 5 * time.Minute
)

func NewEngine(repos *repo.Repos, changeBus bus.Bus, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	e := &Engine{
		repos:  repos,
		views:  cache.New[View](cacheSize, cacheTTL),
		logger: logger.WithComponent(log.ComponentAggregate),
		now:    time.Now,
	}
	if changeBus != nil {
		e.unsub = changeBus.SubscribeAll(func(userID string) {
			e.views.Delete(userID)
		})
	}
	return e
}

// SetClock overrides the engine's notion of now. Tests pin it to get stable
// period windows.
func (e *Engine) SetClock(now func() time.Time) { e.now = now }

// Close detaches the engine from the bus.
func (e *Engine) Close() {
	if e.unsub != nil {
		e.unsub()
	}
}

// Invalidate drops the cached view for a user.
func (e *Engine) Invalidate(userID string) { e.views.Delete(userID) }

// Snapshot returns the current view for a user, recomputing when the cached
// one was invalidated or expired.
func (e *Engine) Snapshot(ctx context.Context, userID string) (View, error) {
	if v, ok := e.views.Get(userID); ok {
		return v, nil
	}
	v, err := e.compute(ctx, userID)
	if err != nil {
		return View{}, err
	}
	e.views.Set(userID, v)
	return v, nil
}

func (e *Engine) compute(ctx context.Context, userID string) (View, error) {
	accounts, err := e.repos.Accounts.GetAll(ctx, userID)
	if err != nil {
		return View{}, fmt.Errorf("snapshot accounts: %w", err)
	}
	categories, err := e.repos.Categories.GetAll(ctx, userID)
	if err != nil {
		return View{}, fmt.Errorf("snapshot categories: %w", err)
	}
	txns, err := e.repos.Transactions.GetAll(ctx, userID)
	if err != nil {
		return View{}, fmt.Errorf("snapshot transactions: %w", err)
	}
	budgets, err := e.repos.Budgets.GetAll(ctx, userID)
	if err != nil {
		return View{}, fmt.Errorf("snapshot budgets: %w", err)
	}
	goals, err := e.repos.Goals.GetAll(ctx, userID)
	if err != nil {
		return View{}, fmt.Errorf("snapshot goals: %w", err)
	}

	now := e.now()
	v := View{
		Accounts:     accounts,
		Balances:     AccountBalances(accounts, txns),
		Categories:   categories,
		Transactions: txns,
		Budgets:      budgets,
		Goals:        goals,
		Summary:      Summarize(accounts, txns, now),
		BudgetStatus: BudgetStatuses(budgets, categories, txns, now),
		GoalProgress: GoalProgress(goals),
		ComputedAt:   now,
	}

	e.logger.DebugContext(ctx, "Recomputed view",
		log.FieldUserID, userID,
		log.FieldCount, len(txns))

	return v, nil
}
