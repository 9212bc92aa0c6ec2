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

type TransactionRepo struct {
	store      *storage.Store
	bus        bus.Bus
	logger     *log.Logger
	categories *CategoryRepo
	accounts   *AccountRepo
}

// GetAll returns the user's transactions, most recent first.
func (r *TransactionRepo) GetAll(ctx context.Context, userID string) ([]core.Transaction, error) {
	txns, err := storage.ReadList[core.Transaction](ctx, r.store, userID, KindTransactions)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].Date.After(txns[j].Date)
	})
	return txns, nil
}

func (r *TransactionRepo) GetByID(ctx context.Context, userID, id string) (core.Transaction, error) {
	txns, err := r.GetAll(ctx, userID)
	if err != nil {
		return core.Transaction{}, err
	}
	for _, t := range txns {
		if t.ID == id {
			return t, nil
		}
	}
	return core.Transaction{}, fmt.Errorf("transaction %s: %w", id, core.ErrNotFound)
}

// Upsert validates referential integrity before writing: the category must
// exist for this user and its kind must match the transaction type, and the
// account must exist. A rejected transaction leaves the store unchanged.
func (r *TransactionRepo) Upsert(ctx context.Context, userID string, t core.Transaction) (core.Transaction, error) {
	t.UserID = userID
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	category, err := r.categories.GetByID(ctx, userID, t.CategoryID)
	if err != nil {
		return core.Transaction{}, core.Invalid("transaction", core.ErrUnknownCategory)
	}
	if category.Kind != t.Type.Kind() {
		return core.Transaction{}, core.Invalid("transaction", core.ErrCategoryMismatch)
	}
	if _, err := r.accounts.GetByID(ctx, userID, t.AccountID); err != nil {
		return core.Transaction{}, core.Invalid("transaction", core.ErrUnknownAccount)
	}

	now := time.Now()
	if t.ID == "" {
		t.ID = uuid.NewString()
		t.CreatedAt = now
	}
	t.UpdatedAt = now

	txns, err := storage.ReadList[core.Transaction](ctx, r.store, userID, KindTransactions)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("load transactions: %w", err)
	}
	txns = replaceOrAppend(txns, func(x core.Transaction) string { return x.ID }, t, t.ID)

	if err := storage.WriteList(ctx, r.store, userID, KindTransactions, txns); err != nil {
		return core.Transaction{}, fmt.Errorf("save transactions: %w", err)
	}

	r.logger.InfoContext(ctx, "Transaction saved",
		log.FieldUserID, userID,
		log.FieldEntityID, t.ID,
		log.FieldAmountCents, t.Amount.Cents,
		log.FieldCategory, category.Name)

	publish(ctx, r.bus, r.logger, userID)
	return t, nil
}

func (r *TransactionRepo) Remove(ctx context.Context, userID, id string) error {
	txns, err := storage.ReadList[core.Transaction](ctx, r.store, userID, KindTransactions)
	if err != nil {
		return fmt.Errorf("load transactions: %w", err)
	}
	txns, removed := removeByID(txns, func(x core.Transaction) string { return x.ID }, id)
	if !removed {
		return nil
	}
	if err := storage.WriteList(ctx, r.store, userID, KindTransactions, txns); err != nil {
		return fmt.Errorf("save transactions: %w", err)
	}
	publish(ctx, r.bus, r.logger, userID)
	return nil
}
