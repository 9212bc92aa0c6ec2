package core

import (
	"errors"
	"strings"
	"time"
)

const (
	AccountChecking AccountType = "checking"
	AccountSavings  AccountType = "savings"
	AccountCredit   AccountType = "credit"
	AccountCash     AccountType = "cash"
)

const (
	KindIncome  CategoryKind = "income"
	KindExpense CategoryKind = "expense"
)

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

const (
	StatusCompleted TransactionStatus = "completed"
	StatusPending   TransactionStatus = "pending"
)

const (
	Weekly  BudgetPeriod = "weekly"
	Monthly BudgetPeriod = "monthly"
	Yearly  BudgetPeriod = "yearly"
)

type (
	AccountType       string
	CategoryKind      string
	TransactionType   string
	TransactionStatus string
	BudgetPeriod      string

	// Account holds an opening balance only. The displayed balance is always
	// derived from the opening balance plus the signed sum of completed
	// transactions, so there is no stored balance to drift.
	Account struct {
		ID             string      `json:"id"`
		UserID         string      `json:"userId"`
		Name           string      `json:"name"`
		Type           AccountType `json:"type"`
		OpeningBalance Money       `json:"openingBalance"`
		CreatedAt      time.Time   `json:"createdAt"`
		UpdatedAt      time.Time   `json:"updatedAt"`
	}

	Category struct {
		ID     string       `json:"id"`
		UserID string       `json:"userId"`
		Name   string       `json:"name"`
		Kind   CategoryKind `json:"kind"`
		// Presentation hints, carried but never validated.
		Color string `json:"color,omitempty"`
		Icon  string `json:"icon,omitempty"`
	}

	// Transaction amounts are stored as non-negative magnitudes; the sign is
	// implied by Type.
	Transaction struct {
		ID          string            `json:"id"`
		UserID      string            `json:"userId"`
		AccountID   string            `json:"accountId"`
		CategoryID  string            `json:"categoryId"`
		Description string            `json:"description"`
		Amount      Money             `json:"amount"`
		Type        TransactionType   `json:"type"`
		Status      TransactionStatus `json:"status"`
		Date        time.Time         `json:"date"`
		CreatedAt   time.Time         `json:"createdAt"`
		UpdatedAt   time.Time         `json:"updatedAt"`
	}

	Budget struct {
		ID         string       `json:"id"`
		UserID     string       `json:"userId"`
		CategoryID string       `json:"categoryId"`
		Amount     Money        `json:"amount"`
		Period     BudgetPeriod `json:"period"`
		CreatedAt  time.Time    `json:"createdAt"`
		UpdatedAt  time.Time    `json:"updatedAt"`
	}

	Goal struct {
		ID       string    `json:"id"`
		UserID   string    `json:"userId"`
		Name     string    `json:"name"`
		Target   Money     `json:"target"`
		Current  Money     `json:"current"`
		Deadline time.Time `json:"deadline"`
	}
)

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyName        = errors.New("empty name")
	ErrEmptyUserID      = errors.New("empty user id")
	ErrEmptyAccountID   = errors.New("empty account id")
	ErrEmptyCategoryID  = errors.New("empty category id")
	ErrUnknownCategory  = errors.New("category does not exist")
	ErrUnknownAccount   = errors.New("account does not exist")
	ErrCategoryMismatch = errors.New("category kind does not match transaction type")
	ErrDuplicateBudget  = errors.New("active budget already exists for category and period")
	ErrZeroDate         = errors.New("date cannot be zero")
)

// ValidationError marks a rejected mutation. The wrapped reason is one of the
// sentinel errors above so callers can branch with errors.Is.
type ValidationError struct {
	Entity string
	Reason error
}

func (e *ValidationError) Error() string {
	return "invalid " + e.Entity + ": " + e.Reason.Error()
}

func (e *ValidationError) Unwrap() error { return e.Reason }

// Invalid wraps a rejection reason in a ValidationError for the given entity.
func Invalid(entity string, reason error) error {
	return &ValidationError{Entity: entity, Reason: reason}
}

func (t AccountType) IsValid() bool {
	switch t {
	case AccountChecking, AccountSavings, AccountCredit, AccountCash:
		return true
	}
	return false
}

func (k CategoryKind) IsValid() bool {
	return k == KindIncome || k == KindExpense
}

func (t TransactionType) IsValid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Kind returns the category kind a transaction of this type must reference.
func (t TransactionType) Kind() CategoryKind {
	if t == TypeIncome {
		return KindIncome
	}
	return KindExpense
}

func (s TransactionStatus) IsValid() bool {
	return s == StatusCompleted || s == StatusPending
}

func (p BudgetPeriod) IsValid() bool {
	switch p {
	case Weekly, Monthly, Yearly:
		return true
	}
	return false
}

func (a Account) Validate() error {
	if strings.TrimSpace(a.UserID) == "" {
		return Invalid("account", ErrEmptyUserID)
	}
	if strings.TrimSpace(a.Name) == "" {
		return Invalid("account", ErrEmptyName)
	}
	if !a.Type.IsValid() {
		return Invalid("account", errors.New("unknown account type "+string(a.Type)))
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.UserID) == "" {
		return Invalid("category", ErrEmptyUserID)
	}
	if strings.TrimSpace(c.Name) == "" {
		return Invalid("category", ErrEmptyName)
	}
	if !c.Kind.IsValid() {
		return Invalid("category", errors.New("unknown category kind "+string(c.Kind)))
	}
	return nil
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.UserID) == "" {
		return Invalid("transaction", ErrEmptyUserID)
	}
	if strings.TrimSpace(t.AccountID) == "" {
		return Invalid("transaction", ErrEmptyAccountID)
	}
	if strings.TrimSpace(t.CategoryID) == "" {
		return Invalid("transaction", ErrEmptyCategoryID)
	}
	if err := t.Amount.Validate(); err != nil {
		return Invalid("transaction", err)
	}
	if !t.Type.IsValid() {
		return Invalid("transaction", errors.New("unknown transaction type "+string(t.Type)))
	}
	if !t.Status.IsValid() {
		return Invalid("transaction", errors.New("unknown transaction status "+string(t.Status)))
	}
	if t.Date.IsZero() {
		return Invalid("transaction", ErrZeroDate)
	}
	return nil
}

// Signed returns the transaction's effect on a balance in cents: income
// positive, expense negative.
func (t Transaction) Signed() int64 {
	if t.Type == TypeExpense {
		return -t.Amount.Cents
	}
	return t.Amount.Cents
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.UserID) == "" {
		return Invalid("budget", ErrEmptyUserID)
	}
	if strings.TrimSpace(b.CategoryID) == "" {
		return Invalid("budget", ErrEmptyCategoryID)
	}
	if err := b.Amount.Validate(); err != nil {
		return Invalid("budget", err)
	}
	if !b.Period.IsValid() {
		return Invalid("budget", errors.New("unknown budget period "+string(b.Period)))
	}
	return nil
}

func (g Goal) Validate() error {
	if strings.TrimSpace(g.UserID) == "" {
		return Invalid("goal", ErrEmptyUserID)
	}
	if strings.TrimSpace(g.Name) == "" {
		return Invalid("goal", ErrEmptyName)
	}
	if err := g.Target.Validate(); err != nil {
		return Invalid("goal", err)
	}
	if g.Current.Cents < 0 {
		return Invalid("goal", ErrInvalidAmount)
	}
	return nil
}
