package seed

import (
	"context"
	"testing"

	"fintrack/internal/bus"
	"fintrack/internal/core"
	"fintrack/internal/repo"
	"fintrack/internal/storage"
)

func newTestRepos() *repo.Repos {
	store := storage.NewStore(storage.NewMemoryMedium(), "", nil)
	return repo.New(store, bus.NewLocalBus(), nil)
}

func TestSetupNewUserSeedsDefaults(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos()
	svc := NewService(repos, nil)

	if err := svc.SetupNewUser(ctx, "u1"); err != nil {
		t.Fatalf("setup: %v", err)
	}

	accounts, err := repos.Accounts.GetAll(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(accounts) != 3 {
		t.Fatalf("accounts = %d, want 3", len(accounts))
	}

	categories, err := repos.Categories.GetAll(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(categories) != 10 {
		t.Fatalf("categories = %d, want 10", len(categories))
	}
	byName := make(map[string]core.Category, len(categories))
	for _, c := range categories {
		byName[c.Name] = c
	}
	if byName["Salary"].Kind != core.KindIncome {
		t.Fatal("Salary must be an income category")
	}
	transport, ok := byName["Transportation"]
	if !ok || transport.Kind != core.KindExpense {
		t.Fatalf("Transportation expense category missing: %+v", transport)
	}

	budgets, err := repos.Budgets.GetAll(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(budgets) != 4 {
		t.Fatalf("budgets = %d, want 4", len(budgets))
	}
	var found bool
	for _, b := range budgets {
		if b.CategoryID == transport.ID {
			found = true
			if b.Amount.Cents != 30000 || b.Period != core.Monthly {
				t.Fatalf("Transportation budget = %+v", b)
			}
		}
	}
	if !found {
		t.Fatal("no budget seeded for Transportation")
	}
}

func TestSetupNewUserIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos()
	svc := NewService(repos, nil)

	if err := svc.SetupNewUser(ctx, "u1"); err != nil {
		t.Fatal(err)
	}
	if err := svc.SetupNewUser(ctx, "u1"); err != nil {
		t.Fatal(err)
	}

	accounts, _ := repos.Accounts.GetAll(ctx, "u1")
	categories, _ := repos.Categories.GetAll(ctx, "u1")
	budgets, _ := repos.Budgets.GetAll(ctx, "u1")
	if len(accounts) != 3 || len(categories) != 10 || len(budgets) != 4 {
		t.Fatalf("second run duplicated data: %d/%d/%d", len(accounts), len(categories), len(budgets))
	}
}

func TestSetupSkippedWhenUserHasAnAccount(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos()
	svc := NewService(repos, nil)

	if _, err := repos.Accounts.Upsert(ctx, "u1", core.Account{
		Name: "Existing", Type: core.AccountChecking,
	}); err != nil {
		t.Fatal(err)
	}
	if err := svc.SetupNewUser(ctx, "u1"); err != nil {
		t.Fatal(err)
	}

	accounts, _ := repos.Accounts.GetAll(ctx, "u1")
	if len(accounts) != 1 {
		t.Fatalf("existing user must not be re-seeded, accounts = %d", len(accounts))
	}
	categories, _ := repos.Categories.GetAll(ctx, "u1")
	if len(categories) != 0 {
		t.Fatalf("expected no seeded categories, got %d", len(categories))
	}
}
