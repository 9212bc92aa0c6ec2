package worker

import (
	"context"
	"testing"
	"time"

	"fintrack/internal/app"
	"fintrack/internal/bus"
	"fintrack/internal/core"
	"fintrack/internal/notify"
	"fintrack/internal/storage"
)

func TestEvaluateEmitsOverBudgetAlert(t *testing.T) {
	ctx := context.Background()
	store := storage.NewStore(storage.NewMemoryMedium(), "", nil)
	relay := bus.NewRelay(bus.NewLocalBus(), nil)
	a := app.New(store, relay, nil)
	now := time.Date(2025, 6, 20, 12, 0, 0, 0, time.UTC)
	a.Engine.SetClock(func() time.Time { return now })

	if err := a.Seeder.SetupNewUser(ctx, "u1"); err != nil {
		t.Fatal(err)
	}
	view, err := a.Engine.Snapshot(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	var transport core.Category
	for _, c := range view.Categories {
		if c.Name == "Transportation" {
			transport = c
		}
	}
	var checking core.Account
	for _, acc := range view.Accounts {
		if acc.Name == "Checking" {
			checking = acc
		}
	}

	if _, err := a.Repos.Transactions.Upsert(ctx, "u1", core.Transaction{
		AccountID:  checking.ID,
		CategoryID: transport.ID,
		Amount:     core.Money{Cents: 38000},
		Type:       core.TypeExpense,
		Status:     core.StatusCompleted,
		Date:       now.AddDate(0, 0, -1),
	}); err != nil {
		t.Fatal(err)
	}

	w := NewAlertWorker(a, relay, "u1", time.Minute, nil)
	w.Evaluate(ctx)

	items, err := a.Registry.List(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	var alerts int
	for _, n := range items {
		if n.Type == notify.TypeBudgetAlert {
			alerts++
		}
	}
	if alerts != 1 {
		t.Fatalf("alerts = %d, want 1", alerts)
	}

	// A second sweep at the same level stays quiet.
	w.Evaluate(ctx)
	items, _ = a.Registry.List(ctx, "u1")
	alerts = 0
	for _, n := range items {
		if n.Type == notify.TypeBudgetAlert {
			alerts++
		}
	}
	if alerts != 1 {
		t.Fatalf("sweep duplicated the alert: %d", alerts)
	}
}
