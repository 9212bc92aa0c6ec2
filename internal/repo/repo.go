// Package repo implements per-kind CRUD over the persistent store, scoped by
// user id. Every successful mutation publishes the user's change signal.
package repo

import (
	"context"

	"fintrack/internal/bus"
	"fintrack/internal/log"
	"fintrack/internal/storage"
)

// Collection suffixes appended to <prefix>:<userId>: keys.
const (
	KindAccounts     = "accounts"
	KindCategories   = "categories"
	KindTransactions = "transactions"
	KindBudgets      = "budgets"
	KindGoals        = "goals"
)

// Repos bundles one repository per entity kind over a shared store and bus.
type Repos struct {
	Accounts     *AccountRepo
	Categories   *CategoryRepo
	Transactions *TransactionRepo
	Budgets      *BudgetRepo
	Goals        *GoalRepo
}

func New(store *storage.Store, changeBus bus.Bus, logger *log.Logger) *Repos {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentRepo)
	categories := &CategoryRepo{store: store, bus: changeBus, logger: logger}
	accounts := &AccountRepo{store: store, bus: changeBus, logger: logger}
	return &Repos{
		Accounts:   accounts,
		Categories: categories,
		Transactions: &TransactionRepo{
			store:      store,
			bus:        changeBus,
			logger:     logger,
			categories: categories,
			accounts:   accounts,
		},
		Budgets: &BudgetRepo{store: store, bus: changeBus, logger: logger, categories: categories},
		Goals:   &GoalRepo{store: store, bus: changeBus, logger: logger},
	}
}

// replaceOrAppend swaps the element whose id matches, or appends when absent.
func replaceOrAppend[T any](items []T, id func(T) string, item T, itemID string) []T {
	for i := range items {
		if id(items[i]) == itemID {
			items[i] = item
			return items
		}
	}
	return append(items, item)
}

// removeByID returns the list without the matching element and whether
// anything was removed.
func removeByID[T any](items []T, id func(T) string, itemID string) ([]T, bool) {
	for i := range items {
		if id(items[i]) == itemID {
			return append(items[:i], items[i+1:]...), true
		}
	}
	return items, false
}

// publish fans the change signal out. A failed publish is logged, never
// surfaced: the mutation already persisted and the periodic sweep recovers
// missed signals.
func publish(ctx context.Context, b bus.Bus, logger *log.Logger, userID string) {
	if b == nil {
		return
	}
	if err := b.Publish(ctx, userID); err != nil {
		logger.ErrorContext(ctx, "Failed to publish change signal",
			log.FieldUserID, userID, log.FieldError, err.Error())
	}
}
