package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack/internal/bus"
	"fintrack/internal/core"
	"fintrack/internal/storage"
)

type fixture struct {
	repos    *Repos
	bus      *bus.LocalBus
	signals  *int
	userID   string
	account  core.Account
	expense  core.Category
	income   core.Category
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := storage.NewStore(storage.NewMemoryMedium(), "", nil)
	localBus := bus.NewLocalBus()
	signals := 0
	localBus.SubscribeAll(func(string) { signals++ })
	repos := New(store, localBus, nil)

	f := &fixture{repos: repos, bus: localBus, signals: &signals, userID: "u1"}

	var err error
	f.account, err = repos.Accounts.Upsert(ctx, f.userID, core.Account{
		Name: "Checking", Type: core.AccountChecking, OpeningBalance: core.Money{Cents: 100000},
	})
	if err != nil {
		t.Fatalf("seed account: %v", err)
	}
	f.expense, err = repos.Categories.Upsert(ctx, f.userID, core.Category{
		Name: "Groceries", Kind: core.KindExpense,
	})
	if err != nil {
		t.Fatalf("seed expense category: %v", err)
	}
	f.income, err = repos.Categories.Upsert(ctx, f.userID, core.Category{
		Name: "Salary", Kind: core.KindIncome,
	})
	if err != nil {
		t.Fatalf("seed income category: %v", err)
	}
	signals = 0
	return f
}

func (f *fixture) transaction() core.Transaction {
	return core.Transaction{
		AccountID:   f.account.ID,
		CategoryID:  f.expense.ID,
		Description: "weekly shop",
		Amount:      core.Money{Cents: 4500},
		Type:        core.TypeExpense,
		Status:      core.StatusCompleted,
		Date:        time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestTransactionUpsertRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	saved, err := f.repos.Transactions.Upsert(ctx, f.userID, f.transaction())
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if saved.ID == "" {
		t.Fatal("expected generated id")
	}
	if saved.UserID != f.userID {
		t.Fatalf("user id = %q", saved.UserID)
	}
	if *f.signals != 1 {
		t.Fatalf("expected 1 change signal, got %d", *f.signals)
	}

	got, err := f.repos.Transactions.GetByID(ctx, f.userID, saved.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if got.Amount.Cents != 4500 || got.Description != "weekly shop" {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	// Update in place keeps one element.
	got.Description = "monthly shop"
	if _, err := f.repos.Transactions.Upsert(ctx, f.userID, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	all, err := f.repos.Transactions.GetAll(ctx, f.userID)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 || all[0].Description != "monthly shop" {
		t.Fatalf("expected single updated transaction, got %+v", all)
	}
}

func TestTransactionUpsertRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*core.Transaction)
		reason error
	}{
		{"unknown category", func(x *core.Transaction) { x.CategoryID = "missing" }, core.ErrUnknownCategory},
		{"kind mismatch", func(x *core.Transaction) { x.CategoryID = f.income.ID }, core.ErrCategoryMismatch},
		{"unknown account", func(x *core.Transaction) { x.AccountID = "missing" }, core.ErrUnknownAccount},
		{"zero amount", func(x *core.Transaction) { x.Amount = core.Money{} }, core.ErrInvalidAmount},
		{"negative amount", func(x *core.Transaction) { x.Amount = core.Money{Cents: -100} }, core.ErrInvalidAmount},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			txn := f.transaction()
			tc.mutate(&txn)
			_, err := f.repos.Transactions.Upsert(ctx, f.userID, txn)
			if !errors.Is(err, tc.reason) {
				t.Fatalf("expected %v, got %v", tc.reason, err)
			}
			var verr *core.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %T", err)
			}
		})
	}

	// Nothing was persisted and no signal fired.
	all, err := f.repos.Transactions.GetAll(ctx, f.userID)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 0 {
		t.Fatalf("rejected upserts must not persist, found %d", len(all))
	}
	if *f.signals != 0 {
		t.Fatalf("rejected upserts must not publish, got %d signals", *f.signals)
	}
}

func TestTransactionGetAllSortsMostRecentFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	old := f.transaction()
	old.Date = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	recent := f.transaction()
	recent.Date = time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	if _, err := f.repos.Transactions.Upsert(ctx, f.userID, old); err != nil {
		t.Fatal(err)
	}
	if _, err := f.repos.Transactions.Upsert(ctx, f.userID, recent); err != nil {
		t.Fatal(err)
	}

	all, err := f.repos.Transactions.GetAll(ctx, f.userID)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 || !all[0].Date.After(all[1].Date) {
		t.Fatalf("expected most recent first, got %+v", all)
	}
}

func TestTransactionRemove(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	saved, err := f.repos.Transactions.Upsert(ctx, f.userID, f.transaction())
	if err != nil {
		t.Fatal(err)
	}
	*f.signals = 0

	if err := f.repos.Transactions.Remove(ctx, f.userID, saved.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if *f.signals != 1 {
		t.Fatalf("expected 1 signal after remove, got %d", *f.signals)
	}
	if _, err := f.repos.Transactions.GetByID(ctx, f.userID, saved.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// Removing an unknown id is a no-op and publishes nothing.
	*f.signals = 0
	if err := f.repos.Transactions.Remove(ctx, f.userID, "missing"); err != nil {
		t.Fatalf("remove unknown: %v", err)
	}
	if *f.signals != 0 {
		t.Fatalf("no-op remove must not publish, got %d", *f.signals)
	}
}

func TestBudgetDuplicateRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.repos.Budgets.Upsert(ctx, f.userID, core.Budget{
		CategoryID: f.expense.ID, Amount: core.Money{Cents: 30000}, Period: core.Monthly,
	})
	if err != nil {
		t.Fatalf("first budget: %v", err)
	}

	_, err = f.repos.Budgets.Upsert(ctx, f.userID, core.Budget{
		CategoryID: f.expense.ID, Amount: core.Money{Cents: 40000}, Period: core.Monthly,
	})
	if !errors.Is(err, core.ErrDuplicateBudget) {
		t.Fatalf("expected ErrDuplicateBudget, got %v", err)
	}

	// Same category under a different period is fine.
	if _, err := f.repos.Budgets.Upsert(ctx, f.userID, core.Budget{
		CategoryID: f.expense.ID, Amount: core.Money{Cents: 360000}, Period: core.Yearly,
	}); err != nil {
		t.Fatalf("different period: %v", err)
	}

	// Updating the existing budget by id is not a duplicate.
	first.Amount = core.Money{Cents: 35000}
	if _, err := f.repos.Budgets.Upsert(ctx, f.userID, first); err != nil {
		t.Fatalf("update by id: %v", err)
	}
}

func TestBudgetUnknownCategoryRejected(t *testing.T) {
	f := newFixture(t)
	_, err := f.repos.Budgets.Upsert(context.Background(), f.userID, core.Budget{
		CategoryID: "missing", Amount: core.Money{Cents: 100}, Period: core.Weekly,
	})
	if !errors.Is(err, core.ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
}

func TestGoalOrderingNearestDeadlineFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mk := func(name string, deadline time.Time) core.Goal {
		return core.Goal{Name: name, Target: core.Money{Cents: 100000}, Deadline: deadline}
	}
	if _, err := f.repos.Goals.Upsert(ctx, f.userID, mk("open-ended", time.Time{})); err != nil {
		t.Fatal(err)
	}
	if _, err := f.repos.Goals.Upsert(ctx, f.userID, mk("later", time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC))); err != nil {
		t.Fatal(err)
	}
	if _, err := f.repos.Goals.Upsert(ctx, f.userID, mk("soon", time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC))); err != nil {
		t.Fatal(err)
	}

	all, err := f.repos.Goals.GetAll(ctx, f.userID)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 || all[0].Name != "soon" || all[1].Name != "later" || all[2].Name != "open-ended" {
		names := make([]string, len(all))
		for i, g := range all {
			names[i] = g.Name
		}
		t.Fatalf("goal order = %v", names)
	}
}

func TestAccountsIsolatedPerUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	other, err := f.repos.Accounts.Upsert(ctx, "u2", core.Account{
		Name: "Other", Type: core.AccountSavings,
	})
	if err != nil {
		t.Fatal(err)
	}

	mine, err := f.repos.Accounts.GetAll(ctx, f.userID)
	if err != nil {
		t.Fatal(err)
	}
	for _, a := range mine {
		if a.ID == other.ID {
			t.Fatal("u1 must not see u2's account")
		}
	}
	if _, err := f.repos.Accounts.GetByID(ctx, f.userID, other.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound across users, got %v", err)
	}
}
