// Package aggregate derives summary statistics from entity snapshots. All
// computation here is a pure function of its inputs; persistence and caching
// live elsewhere.
package aggregate

import (
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

var hundred = decimal.NewFromInt(100)

// Summarize computes the financial summary for one user from a snapshot of
// accounts and transactions. Pending transactions never count; missing
// inputs degrade to zero so the summary always materializes.
func Summarize(accounts []core.Account, txns []core.Transaction, now time.Time) core.FinancialSummary {
	var totalBalance, netWorth int64
	for _, b := range AccountBalances(accounts, txns) {
		netWorth += b.Balance.Cents
		if b.Account.Type != core.AccountCredit {
			totalBalance += b.Balance.Cents
		}
	}

	thisStart := monthStart(now)
	prevStart := prevMonthStart(now)

	var income, expenses, prevIncome, prevExpenses int64
	for _, t := range txns {
		if t.Status != core.StatusCompleted {
			continue
		}
		switch {
		case inWindow(t.Date, thisStart, now):
			if t.Type == core.TypeIncome {
				income += t.Amount.Cents
			} else {
				expenses += t.Amount.Cents
			}
		case inWindow(t.Date, prevStart, thisStart):
			if t.Type == core.TypeIncome {
				prevIncome += t.Amount.Cents
			} else {
				prevExpenses += t.Amount.Cents
			}
		}
	}

	return core.FinancialSummary{
		TotalBalance:    core.Money{Cents: totalBalance},
		MonthlyIncome:   core.Money{Cents: income},
		MonthlyExpenses: core.Money{Cents: expenses},
		NetWorth:        core.Money{Cents: netWorth},
		SavingsRate:     SavingsRate(income, expenses),
		IncomeChange:    PercentChange(income, prevIncome),
		ExpenseChange:   PercentChange(expenses, prevExpenses),
	}
}

// AccountBalances derives each account's balance: opening balance plus the
// signed sum of its completed transactions. Transactions are authoritative;
// no stored balance exists to reconcile against.
func AccountBalances(accounts []core.Account, txns []core.Transaction) []core.AccountBalance {
	sums := make(map[string]int64, len(accounts))
	for _, t := range txns {
		if t.Status != core.StatusCompleted {
			continue
		}
		sums[t.AccountID] += t.Signed()
	}
	balances := make([]core.AccountBalance, 0, len(accounts))
	for _, a := range accounts {
		balances = append(balances, core.AccountBalance{
			Account: a,
			Balance: core.Money{Cents: a.OpeningBalance.Cents + sums[a.ID]},
		})
	}
	return balances
}

// SavingsRate is (income - expenses) / income as a percentage, 0 when there
// is no income. Never NaN or infinite.
func SavingsRate(incomeCents, expenseCents int64) decimal.Decimal {
	if incomeCents == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(incomeCents - expenseCents).
		Div(decimal.NewFromInt(incomeCents)).
		Mul(hundred)
}

// PercentChange compares a metric against its prior-period value. A zero
// prior period reports 0 rather than infinity.
func PercentChange(current, prior int64) decimal.Decimal {
	if prior == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(current - prior).
		Div(decimal.NewFromInt(prior)).
		Mul(hundred)
}

// BudgetStatuses computes per-budget utilization over each budget's current
// period. Utilization stays uncapped for alerting; Display is capped at 100.
func BudgetStatuses(budgets []core.Budget, categories []core.Category, txns []core.Transaction, now time.Time) []core.BudgetStatus {
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	statuses := make([]core.BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		start := PeriodStart(b.Period, now)
		var spent int64
		for _, t := range txns {
			if t.Status != core.StatusCompleted || t.Type != core.TypeExpense {
				continue
			}
			if t.CategoryID == b.CategoryID && inWindow(t.Date, start, now) {
				spent += t.Amount.Cents
			}
		}

		var utilization decimal.Decimal
		if b.Amount.Cents > 0 {
			utilization = decimal.NewFromInt(spent).
				Div(decimal.NewFromInt(b.Amount.Cents)).
				Mul(hundred)
		}
		display := utilization
		if display.GreaterThan(hundred) {
			display = hundred
		}

		statuses = append(statuses, core.BudgetStatus{
			Budget:       b,
			CategoryName: names[b.CategoryID],
			Spent:        core.Money{Cents: spent},
			Utilization:  utilization,
			Display:      display,
		})
	}
	return statuses
}

// GoalProgress surfaces current/target as a percentage per goal. A zero
// target reports 0.
func GoalProgress(goals []core.Goal) []core.GoalProgress {
	progress := make([]core.GoalProgress, 0, len(goals))
	for _, g := range goals {
		var pct decimal.Decimal
		if g.Target.Cents > 0 {
			pct = decimal.NewFromInt(g.Current.Cents).
				Div(decimal.NewFromInt(g.Target.Cents)).
				Mul(hundred)
		}
		progress = append(progress, core.GoalProgress{Goal: g, Progress: pct})
	}
	return progress
}
