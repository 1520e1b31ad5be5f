package flow

import (
	internalTypes "github.com/eshaffer321/flowmoney-go/internal/types"
	"github.com/shopspring/decimal"
)

// Session represents an authenticated session
type Session = internalTypes.Session

// Hooks provides lifecycle hooks for requests
type Hooks = internalTypes.Hooks

// RetryConfig configures retry behavior
type RetryConfig = internalTypes.RetryConfig

// TransactionType is the direction of money for a transaction or category
type TransactionType string

const (
	TransactionTypeAll     TransactionType = "ALL"
	TransactionTypeIncome  TransactionType = "INCOME"
	TransactionTypeExpense TransactionType = "EXPENSE"
)

// Transaction represents a recorded income or expense
type Transaction struct {
	ID              int64           `json:"id"`
	CategoryID      int64           `json:"categoryId"`
	Amount          decimal.Decimal `json:"amount"`
	Type            TransactionType `json:"type"`
	Description     string          `json:"description"`
	TransactionDate Date            `json:"transactionDate"`
	CategoryName    string          `json:"categoryName,omitempty"`
	CategoryIcon    string          `json:"categoryIcon,omitempty"`
	CategoryColor   string          `json:"categoryColor,omitempty"`
}

// TransactionPage is one server page of transactions
type TransactionPage struct {
	Content       []*Transaction `json:"content"`
	Number        int            `json:"number"`
	Size          int            `json:"size"`
	TotalPages    int            `json:"totalPages"`
	TotalElements int            `json:"totalElements"`
}

// Budget is a monthly spending limit for one category. Spent, remaining and
// percentage figures are computed by the server.
type Budget struct {
	ID              int64           `json:"id"`
	CategoryID      int64           `json:"categoryId"`
	CategoryName    string          `json:"categoryName,omitempty"`
	CategoryIcon    string          `json:"categoryIcon,omitempty"`
	CategoryColor   string          `json:"categoryColor,omitempty"`
	LimitAmount     decimal.Decimal `json:"limitAmount"`
	SpentAmount     decimal.Decimal `json:"spentAmount"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
	PercentageUsed  float64         `json:"percentageUsed"`
	Month           Date            `json:"month"`
}

// SavingsGoal is a target amount with an optional deadline
type SavingsGoal struct {
	ID                  int64           `json:"id"`
	Name                string          `json:"name"`
	Description         string          `json:"description"`
	TargetAmount        decimal.Decimal `json:"targetAmount"`
	CurrentAmount       decimal.Decimal `json:"currentAmount"`
	RemainingAmount     decimal.Decimal `json:"remainingAmount"`
	PercentageCompleted float64         `json:"percentageCompleted"`
	TargetDate          Date            `json:"targetDate"`
	Icon                string          `json:"icon"`
	Color               string          `json:"color"`
}

// Category groups transactions and budgets
type Category struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Icon  string          `json:"icon"`
	Color string          `json:"color"`
	Type  TransactionType `json:"type"`
}

// UserProfile is the signed-in user's display data
type UserProfile struct {
	ID                int64  `json:"id,omitempty"`
	FirstName         string `json:"firstName"`
	LastName          string `json:"lastName"`
	Email             string `json:"email,omitempty"`
	Role              string `json:"role"`
	ProfilePictureURL string `json:"profilePictureUrl,omitempty"`
}

// FullName joins first and last name
func (p *UserProfile) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// Summary is the dashboard headline figures
type Summary struct {
	TotalBalance                 decimal.Decimal `json:"totalBalance"`
	TotalIncome                  decimal.Decimal `json:"totalIncome"`
	TotalExpenses                decimal.Decimal `json:"totalExpenses"`
	IncomeTransactionsCount      int             `json:"incomeTransactionsCount"`
	ExpenseTransactionsCount     int             `json:"expansiveTransactionsCount"`
	DifferenceFromPreviousPeriod float64         `json:"differenceFromPreviousPeriod"`
}

// MonthlyTrend is income and expenses for one month
type MonthlyTrend struct {
	Month    string          `json:"month"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
}

// CategorySpending is one slice of the category breakdown
type CategorySpending struct {
	CategoryName  string          `json:"categoryName"`
	CategoryColor string          `json:"categoryColor"`
	CategoryIcon  string          `json:"categoryIcon"`
	Amount        decimal.Decimal `json:"amount"`
	Percentage    float64         `json:"percentage"`
}

// Params

// CreateTransactionParams for creating or updating a transaction
type CreateTransactionParams struct {
	CategoryID      int64           `json:"categoryId" validate:"required,gt=0" label:"Category"`
	Amount          decimal.Decimal `json:"amount" validate:"gt=0" label:"Amount"`
	Type            TransactionType `json:"type" validate:"required,oneof=INCOME EXPENSE" label:"Type"`
	Description     string          `json:"description" validate:"required,notblank"`
	TransactionDate Date            `json:"transactionDate" validate:"required" label:"Date"`
}

// BudgetParams for creating or updating a budget
type BudgetParams struct {
	CategoryID  int64           `json:"categoryId" validate:"required,gt=0" label:"Category"`
	LimitAmount decimal.Decimal `json:"limitAmount" validate:"gt=0" label:"Amount"`
	Month       Date            `json:"month" validate:"required" label:"Date"`
}

// SavingsGoalParams for creating or updating a savings goal
type SavingsGoalParams struct {
	Name         string          `json:"name" validate:"required,notblank"`
	Description  string          `json:"description" validate:"required,notblank"`
	TargetAmount decimal.Decimal `json:"targetAmount" validate:"gt=0" label:"Target amount"`
	TargetDate   Date            `json:"targetDate"`
	Icon         string          `json:"icon"`
	Color        string          `json:"color" validate:"omitempty,hexcolor6"`
}

// ContributionParams for adding money to a savings goal
type ContributionParams struct {
	Amount decimal.Decimal `json:"amount" validate:"gt=0" label:"Amount"`
	Note   string          `json:"note"`
}

// CategoryParams for creating a category
type CategoryParams struct {
	Name  string          `json:"name" validate:"required,notblank" label:"Category name"`
	Icon  string          `json:"icon" validate:"required"`
	Color string          `json:"color" validate:"required,hexcolor6"`
	Type  TransactionType `json:"type" validate:"required,oneof=INCOME EXPENSE" label:"Type"`
}

// UpdateProfileParams for updating the profile
type UpdateProfileParams struct {
	FirstName string `json:"firstName" validate:"required,notblank" label:"First name"`
	LastName  string `json:"lastName" validate:"required,notblank" label:"Last name"`
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
}

// RegisterParams for creating an account
type RegisterParams struct {
	FirstName string `json:"firstName" validate:"required,notblank" label:"First name"`
	LastName  string `json:"lastName" validate:"required,notblank" label:"Last name"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8" label:"Password"`
}

// ChangePasswordParams for changing the password
type ChangePasswordParams struct {
	CurrentPassword    string `json:"currentPassword" validate:"required" label:"Current password"`
	NewPassword        string `json:"newPassword" validate:"required,min=8" label:"Password"`
	ConfirmNewPassword string `json:"confirmNewPassword" validate:"required,eqfield=NewPassword" label:"Confirmation"`
}
