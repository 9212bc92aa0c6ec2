// Package notify holds the notification variants and the persisted
// read/unread registry. Notifications reference financial entities by value
// only; the registry owns no entity state.
package notify

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

type Type string

const (
	TypeIncome        Type = "income"
	TypeExpense       Type = "expense"
	TypeBudget        Type = "budget"
	TypeGoal          Type = "goal"
	TypeBudgetAlert   Type = "budget_alert"
	TypeBudgetWarning Type = "budget_warning"
	TypeInfo          Type = "info"
	TypeSuccess       Type = "success"
	TypeWarning       Type = "warning"
	TypeError         Type = "error"
)

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Notification is a tagged variant: Type discriminates, and each constructor
// below populates only the fields that kind carries. Build notifications
// through the constructors so the shape is validated up front.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Type      Type      `json:"type"`
	Severity  Severity  `json:"severity"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`

	// Budget and transaction kinds only.
	Amount      *core.Money      `json:"amount,omitempty"`
	Category    string           `json:"category,omitempty"`
	Percentage  *decimal.Decimal `json:"percentage,omitempty"`
	BudgetLimit *core.Money      `json:"budgetLimit,omitempty"`
}

var errEmptyUser = errors.New("notification requires a user id")

func newNotification(userID string, typ Type, severity Severity, title, message string) (Notification, error) {
	if userID == "" {
		return Notification{}, errEmptyUser
	}
	return Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      typ,
		Severity:  severity,
		Title:     title,
		Message:   message,
		CreatedAt: time.Now(),
	}, nil
}

// NewBudgetWarning reports utilization entering the warning band below the
// limit.
func NewBudgetWarning(userID, category string, spent, limit core.Money, utilization decimal.Decimal) (Notification, error) {
	pct := utilization.Round(1)
	n, err := newNotification(userID, TypeBudgetWarning, SeverityMedium,
		"Budget warning: "+category,
		fmt.Sprintf("You've used %s%% of your %s budget (%s of %s)",
			pct.String(), category, spent.String(), limit.String()))
	if err != nil {
		return Notification{}, err
	}
	n.Amount = &spent
	n.Category = category
	n.Percentage = &pct
	n.BudgetLimit = &limit
	return n, nil
}

// NewBudgetAlert reports a budget at or over its limit. The message carries
// the dollar amount exceeded.
func NewBudgetAlert(userID, category string, spent, limit core.Money, utilization decimal.Decimal) (Notification, error) {
	exceeded := core.Money{Cents: spent.Cents - limit.Cents}
	pct := utilization.Round(1)
	n, err := newNotification(userID, TypeBudgetAlert, SeverityHigh,
		"Budget exceeded: "+category,
		fmt.Sprintf("You've gone over your %s budget by %s (%s%% of %s used)",
			category, exceeded.String(), pct.String(), limit.String()))
	if err != nil {
		return Notification{}, err
	}
	n.Amount = &exceeded
	n.Category = category
	n.Percentage = &pct
	n.BudgetLimit = &limit
	return n, nil
}

// NewTransactionRecorded announces a recorded income or expense.
func NewTransactionRecorded(userID, category string, t core.TransactionType, amount core.Money) (Notification, error) {
	typ := TypeExpense
	title := "Expense recorded"
	if t == core.TypeIncome {
		typ = TypeIncome
		title = "Income recorded"
	}
	n, err := newNotification(userID, typ, SeverityLow, title,
		fmt.Sprintf("%s in %s", amount.String(), category))
	if err != nil {
		return Notification{}, err
	}
	n.Amount = &amount
	n.Category = category
	return n, nil
}

// NewGoalReached announces a goal whose current amount reached its target.
func NewGoalReached(userID, name string, target core.Money) (Notification, error) {
	n, err := newNotification(userID, TypeGoal, SeverityLow,
		"Goal reached: "+name,
		fmt.Sprintf("You've reached your %s target of %s", name, target.String()))
	if err != nil {
		return Notification{}, err
	}
	n.Amount = &target
	return n, nil
}

// NewInfo builds a plain informational notification.
func NewInfo(userID, title, message string) (Notification, error) {
	return newNotification(userID, TypeInfo, SeverityLow, title, message)
}

// NewError builds an error notification, e.g. for a failed write the user
// must act on.
func NewError(userID, title, message string) (Notification, error) {
	return newNotification(userID, TypeError, SeverityHigh, title, message)
}
