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

type AccountRepo struct {
	store  *storage.Store
	bus    bus.Bus
	logger *log.Logger
}

// GetAll returns the user's accounts ordered by creation time.
func (r *AccountRepo) GetAll(ctx context.Context, userID string) ([]core.Account, error) {
	accounts, err := storage.ReadList[core.Account](ctx, r.store, userID, KindAccounts)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	sort.SliceStable(accounts, func(i, j int) bool {
		return accounts[i].CreatedAt.Before(accounts[j].CreatedAt)
	})
	return accounts, nil
}

func (r *AccountRepo) GetByID(ctx context.Context, userID, id string) (core.Account, error) {
	accounts, err := r.GetAll(ctx, userID)
	if err != nil {
		return core.Account{}, err
	}
	for _, a := range accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return core.Account{}, fmt.Errorf("account %s: %w", id, core.ErrNotFound)
}

// Upsert creates the account when its id is empty, otherwise replaces the
// record with the same id.
func (r *AccountRepo) Upsert(ctx context.Context, userID string, a core.Account) (core.Account, error) {
	a.UserID = userID
	if err := a.Validate(); err != nil {
		return core.Account{}, err
	}

	now := time.Now()
	if a.ID == "" {
		a.ID = uuid.NewString()
		a.CreatedAt = now
	}
	a.UpdatedAt = now

	accounts, err := storage.ReadList[core.Account](ctx, r.store, userID, KindAccounts)
	if err != nil {
		return core.Account{}, fmt.Errorf("load accounts: %w", err)
	}
	accounts = replaceOrAppend(accounts, func(x core.Account) string { return x.ID }, a, a.ID)

	if err := storage.WriteList(ctx, r.store, userID, KindAccounts, accounts); err != nil {
		return core.Account{}, fmt.Errorf("save accounts: %w", err)
	}

	publish(ctx, r.bus, r.logger, userID)
	return a, nil
}

// Remove deletes the account. Removing an unknown id is a no-op.
func (r *AccountRepo) Remove(ctx context.Context, userID, id string) error {
	accounts, err := storage.ReadList[core.Account](ctx, r.store, userID, KindAccounts)
	if err != nil {
		return fmt.Errorf("load accounts: %w", err)
	}
	accounts, removed := removeByID(accounts, func(x core.Account) string { return x.ID }, id)
	if !removed {
		return nil
	}
	if err := storage.WriteList(ctx, r.store, userID, KindAccounts, accounts); err != nil {
		return fmt.Errorf("save accounts: %w", err)
	}
	publish(ctx, r.bus, r.logger, userID)
	return nil
}
