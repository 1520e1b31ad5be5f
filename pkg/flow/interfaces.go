package flow

import (
	"context"
	"time"
)

// TransactionService handles all transaction-related operations
type TransactionService interface {
	// List retrieves one server page of transactions
	List(ctx context.Context, page, size int) (*TransactionPage, error)

	// Recent retrieves the newest transactions
	Recent(ctx context.Context, limit int) ([]*Transaction, error)

	// Create creates a new transaction
	Create(ctx context.Context, params *CreateTransactionParams) (*Transaction, error)

	// Update updates an existing transaction
	Update(ctx context.Context, transactionID int64, params *CreateTransactionParams) (*Transaction, error)

	// Delete deletes a transaction
	Delete(ctx context.Context, transactionID int64) error
}

// BudgetService handles budget operations
type BudgetService interface {
	// List retrieves every budget of the user, all months
	List(ctx context.Context) ([]*Budget, error)

	// Create creates a budget for one category and month
	Create(ctx context.Context, params *BudgetParams) (*Budget, error)

	// Update updates an existing budget
	Update(ctx context.Context, budgetID int64, params *BudgetParams) (*Budget, error)

	// Delete deletes a budget
	Delete(ctx context.Context, budgetID int64) error
}

// SavingsGoalService handles savings goal operations
type SavingsGoalService interface {
	List(ctx context.Context) ([]*SavingsGoal, error)
	Create(ctx context.Context, params *SavingsGoalParams) (*SavingsGoal, error)
	Update(ctx context.Context, goalID int64, params *SavingsGoalParams) (*SavingsGoal, error)
	Delete(ctx context.Context, goalID int64) error

	// Contribute adds money to a goal
	Contribute(ctx context.Context, goalID int64, params *ContributionParams) (*SavingsGoal, error)
}

// CategoryService handles category operations
type CategoryService interface {
	List(ctx context.Context) ([]*Category, error)
	Create(ctx context.Context, params *CategoryParams) (*Category, error)
	Delete(ctx context.Context, categoryID int64) error
}

// UserService handles the signed-in user's profile
type UserService interface {
	Profile(ctx context.Context) (*UserProfile, error)
	UpdateProfile(ctx context.Context, params *UpdateProfileParams) (*UserProfile, error)

	// UpdateProfilePicture sets the picture URL; an empty URL removes it
	UpdateProfilePicture(ctx context.Context, pictureURL string) (*UserProfile, error)
}

// AnalyticsService handles server-computed analytics
type AnalyticsService interface {
	Summary(ctx context.Context) (*Summary, error)
	MonthlyTrends(ctx context.Context, startDate, endDate time.Time) ([]*MonthlyTrend, error)
	CategoryBreakdown(ctx context.Context, startDate, endDate time.Time) ([]*CategorySpending, error)
}

// AuthService handles authentication
type AuthService interface {
	// Login performs authentication
	Login(ctx context.Context, email, password string) error

	// Register creates an account, signing in when the server returns a token
	Register(ctx context.Context, params *RegisterParams) error

	// ChangePassword changes the password of the signed-in user
	ChangePassword(ctx context.Context, params *ChangePasswordParams) error

	// Logout forgets the token and removes the session file. The client is
	// signed out even when an error is returned; the error reports a session
	// file that could not be removed and would be restored on the next start.
	Logout() error

	// GetSession returns current session
	GetSession() (*Session, error)

	// SaveSession saves session to file
	SaveSession(path string) error

	// LoadSession loads session from file
	LoadSession(path string) error
}
