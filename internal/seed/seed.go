// Package seed populates the default entity set for a first-time user.
package seed

import (
	"context"
	"fmt"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/repo"
)

type defaultAccount struct {
	name string
	typ  core.AccountType
}

type defaultCategory struct {
	name  string
	kind  core.CategoryKind
	color string
	icon  string
}

type defaultBudget struct {
	category string // category name, resolved after category seeding
	cents    int64
	period   core.BudgetPeriod
}

var defaultAccounts = []defaultAccount{
	{"Checking", core.AccountChecking},
	{"Savings", core.AccountSavings},
	{"Cash", core.AccountCash},
}

var defaultCategories = []defaultCategory{
	{"Salary", core.KindIncome, "#22c55e", "briefcase"},
	{"Freelance", core.KindIncome, "#14b8a6", "laptop"},
	{"Investments", core.KindIncome, "#0ea5e9", "trending-up"},
	{"Groceries", core.KindExpense, "#f97316", "shopping-cart"},
	{"Transportation", core.KindExpense, "#3b82f6", "car"},
	{"Dining Out", core.KindExpense, "#ef4444", "utensils"},
	{"Entertainment", core.KindExpense, "#a855f7", "film"},
	{"Utilities", core.KindExpense, "#eab308", "zap"},
	{"Healthcare", core.KindExpense, "#ec4899", "heart"},
	{"Shopping", core.KindExpense, "#8b5cf6", "shopping-bag"},
}

var defaultBudgets = []defaultBudget{
	{"Groceries", 50000, core.Monthly},
	{"Transportation", 30000, core.Monthly},
	{"Dining Out", 20000, core.Monthly},
	{"Entertainment", 15000, core.Monthly},
}

// Service seeds accounts, categories and starter budgets exactly once per
// user.
type Service struct {
	repos  *repo.Repos
	logger *log.Logger
}

func NewService(repos *repo.Repos, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Service{repos: repos, logger: logger.WithComponent(log.ComponentSeed)}
}

// SetupNewUser is idempotent: it no-ops as soon as the user owns any
// account. The emptiness check runs against accounts and nothing else, so a
// user who deleted all categories is not re-seeded on every load.
func (s *Service) SetupNewUser(ctx context.Context, userID string) error {
	accounts, err := s.repos.Accounts.GetAll(ctx, userID)
	if err != nil {
		return fmt.Errorf("check existing accounts: %w", err)
	}
	if len(accounts) > 0 {
		s.logger.DebugContext(ctx, "User already seeded", log.FieldUserID, userID)
		return nil
	}

	for _, a := range defaultAccounts {
		if _, err := s.repos.Accounts.Upsert(ctx, userID, core.Account{
			Name: a.name,
			Type: a.typ,
		}); err != nil {
			return fmt.Errorf("seed account %s: %w", a.name, err)
		}
	}

	categoryIDs := make(map[string]string, len(defaultCategories))
	for _, c := range defaultCategories {
		created, err := s.repos.Categories.Upsert(ctx, userID, core.Category{
			Name:  c.name,
			Kind:  c.kind,
			Color: c.color,
			Icon:  c.icon,
		})
		if err != nil {
			return fmt.Errorf("seed category %s: %w", c.name, err)
		}
		categoryIDs[c.name] = created.ID
	}

	for _, b := range defaultBudgets {
		if _, err := s.repos.Budgets.Upsert(ctx, userID, core.Budget{
			CategoryID: categoryIDs[b.category],
			Amount:     core.Money{Cents: b.cents},
			Period:     b.period,
		}); err != nil {
			return fmt.Errorf("seed budget %s: %w", b.category, err)
		}
	}

	s.logger.InfoContext(ctx, "Seeded new user",
		log.FieldUserID, userID,
		"accounts", len(defaultAccounts),
		"categories", len(defaultCategories),
		"budgets", len(defaultBudgets))

	return nil
}
