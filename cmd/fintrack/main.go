package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"fintrack/internal/app"
	"fintrack/internal/backend"
	"fintrack/internal/config"
	"fintrack/internal/core"
	"fintrack/internal/identity"
	applog "fintrack/internal/log"
	"fintrack/internal/notify"
)

func main() {
	// Load .env for local development (missing file is fine).
	_ = godotenv.Load()

	addFlag := flag.Bool("add", false, "record a transaction instead of just printing the dashboard")
	amountFlag := flag.String("amount", "", "transaction amount, e.g. 12.50")
	categoryFlag := flag.String("category", "", "category name")
	accountFlag := flag.String("account", "Checking", "account name")
	typeFlag := flag.String("type", "expense", "transaction type: income or expense")
	descFlag := flag.String("desc", "", "transaction description")
	pendingFlag := flag.Bool("pending", false, "record the transaction as pending")
	flag.Parse()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err.Error())
		os.Exit(1)
	}

	result, err := backend.Create(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize backend", applog.FieldError, err.Error())
		os.Exit(1)
	}
	defer result.Cleanup()

	ctx := context.Background()

	provider := identity.NewStaticProviderFromEnv()
	user, err := provider.CurrentUser(ctx)
	if err != nil || user == nil {
		logger.Error("No signed-in user")
		os.Exit(1)
	}

	session, err := result.App.StartSession(ctx, user.ID)
	if err != nil {
		logger.Error("Failed to start session", applog.FieldError, err.Error())
		os.Exit(1)
	}
	defer session.Close()

	if *addFlag {
		if err := addTransaction(ctx, result.App, user.ID, *amountFlag, *categoryFlag, *accountFlag, *typeFlag, *descFlag, *pendingFlag); err != nil {
			logger.Error("Failed to record transaction", applog.FieldError, err.Error())
			os.Exit(1)
		}
	}

	printDashboard(session.Snapshot())
}

func addTransaction(ctx context.Context, a *app.App, userID, amount, category, account, typ, desc string, pending bool) error {
	cents, err := core.ParseDecimalToCents(amount)
	if err != nil {
		return fmt.Errorf("parse amount %q: %w", amount, err)
	}

	categories, err := a.Repos.Categories.GetAll(ctx, userID)
	if err != nil {
		return err
	}
	categoryID := ""
	for _, c := range categories {
		if c.Name == category {
			categoryID = c.ID
			break
		}
	}
	if categoryID == "" {
		return fmt.Errorf("unknown category %q", category)
	}

	accounts, err := a.Repos.Accounts.GetAll(ctx, userID)
	if err != nil {
		return err
	}
	accountID := ""
	for _, acc := range accounts {
		if acc.Name == account {
			accountID = acc.ID
			break
		}
	}
	if accountID == "" {
		return fmt.Errorf("unknown account %q", account)
	}

	status := core.StatusCompleted
	if pending {
		status = core.StatusPending
	}

	saved, err := a.Repos.Transactions.Upsert(ctx, userID, core.Transaction{
		AccountID:   accountID,
		CategoryID:  categoryID,
		Description: desc,
		Amount:      core.Money{Cents: cents},
		Type:        core.TransactionType(typ),
		Status:      status,
		Date:        time.Now(),
	})
	if err != nil {
		return err
	}

	n, err := notify.NewTransactionRecorded(userID, category, saved.Type, saved.Amount)
	if err != nil {
		return err
	}
	return a.Registry.Add(ctx, n)
}

func printDashboard(snap app.Snapshot) {
	s := snap.Summary
	fmt.Printf("Total balance:    %s\n", s.TotalBalance)
	fmt.Printf("Net worth:        %s\n", s.NetWorth)
	fmt.Printf("Monthly income:   %s (%s%% vs last month)\n", s.MonthlyIncome, s.IncomeChange.Round(1))
	fmt.Printf("Monthly expenses: %s (%s%% vs last month)\n", s.MonthlyExpenses, s.ExpenseChange.Round(1))
	fmt.Printf("Savings rate:     %s%%\n", s.SavingsRate.Round(1))

	if len(snap.BudgetStatus) > 0 {
		fmt.Println("\nBudgets:")
		for _, b := range snap.BudgetStatus {
			fmt.Printf("  %-16s %s of %s (%s%%)\n",
				b.CategoryName, b.Spent, b.Budget.Amount, b.Display.Round(1))
		}
	}

	if len(snap.Notifications) > 0 {
		fmt.Printf("\nNotifications (%d unread):\n", snap.UnreadCount)
		for _, n := range snap.Notifications {
			marker := " "
			if !n.IsRead {
				marker = "*"
			}
			fmt.Printf("  %s [%s] %s: %s\n", marker, n.Type, n.Title, n.Message)
		}
	}
}
