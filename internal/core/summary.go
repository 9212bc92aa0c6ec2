package core

import "github.com/shopspring/decimal"

// FinancialSummary is derived from accounts and transactions on demand. It is
// never persisted and never mutated independently.
type FinancialSummary struct {
	TotalBalance    Money `json:"totalBalance"`
	MonthlyIncome   Money `json:"monthlyIncome"`
	MonthlyExpenses Money `json:"monthlyExpenses"`
	NetWorth        Money `json:"netWorth"`
	// SavingsRate is (income - expenses) / income as a percentage, 0 when the
	// month has no income.
	SavingsRate decimal.Decimal `json:"savingsRate"`
	// Percent change of each metric versus the previous period. A zero prior
	// period reports +0.0% rather than infinity.
	IncomeChange  decimal.Decimal `json:"incomeChange"`
	ExpenseChange decimal.Decimal `json:"expenseChange"`
}

// AccountBalance pairs an account with its derived balance: opening balance
// plus the signed sum of completed transactions.
type AccountBalance struct {
	Account Account `json:"account"`
	Balance Money   `json:"balance"`
}

// BudgetStatus reports utilization of a single budget over its current
// period. Utilization is uncapped for alerting; Display is capped at 100 for
// progress bars.
type BudgetStatus struct {
	Budget       Budget          `json:"budget"`
	CategoryName string          `json:"categoryName"`
	Spent        Money           `json:"spent"`
	Utilization  decimal.Decimal `json:"utilization"`
	Display      decimal.Decimal `json:"display"`
}

// GoalProgress surfaces current/target as a percentage without enforcing
// 0 <= current <= target at the entity level.
type GoalProgress struct {
	Goal     Goal            `json:"goal"`
	Progress decimal.Decimal `json:"progress"`
}
