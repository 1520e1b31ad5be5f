package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/eshaffer321/flowmoney-go/pkg/flow"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/shopspring/decimal"
)

// flowTools holds the Flow client and implements all tool handlers
type flowTools struct {
	client *flow.Client
	now    func() time.Time
}

func amount(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func parseType(s string) (flow.TransactionType, error) {
	switch t := flow.TransactionType(strings.ToUpper(strings.TrimSpace(s))); t {
	case "", flow.TransactionTypeAll:
		return flow.TransactionTypeAll, nil
	case flow.TransactionTypeIncome, flow.TransactionTypeExpense:
		return t, nil
	}
	return "", fmt.Errorf("invalid type %q (expected ALL, INCOME or EXPENSE)", s)
}

// GetTransactions tool - one page of transactions with client-side filters
type GetTransactionsInput struct {
	Page      int    `json:"page,omitempty" jsonschema:"Page number starting at 1 (default: 1)"`
	Size      int    `json:"size,omitempty" jsonschema:"Page size: 5, 10, 20 or 50 (default: 10)"`
	Query     string `json:"query,omitempty" jsonschema:"Search text matched against description, category name and amount (optional)"`
	Type      string `json:"type,omitempty" jsonschema:"ALL, INCOME or EXPENSE (optional)"`
	StartDate string `json:"startDate,omitempty" jsonschema:"Start date in YYYY-MM-DD format (optional)"`
	EndDate   string `json:"endDate,omitempty" jsonschema:"End date in YYYY-MM-DD format (optional)"`
}

type TransactionEntry struct {
	ID          int64   `json:"id" jsonschema:"Transaction ID"`
	Date        string  `json:"date" jsonschema:"Transaction date (YYYY-MM-DD)"`
	Amount      float64 `json:"amount" jsonschema:"Transaction amount, always positive"`
	Type        string  `json:"type" jsonschema:"INCOME or EXPENSE"`
	Description string  `json:"description" jsonschema:"Transaction description"`
	Category    string  `json:"category,omitempty" jsonschema:"Category name"`
}

type GetTransactionsOutput struct {
	Transactions  []TransactionEntry `json:"transactions" jsonschema:"Transactions of the page that match the filters"`
	Count         int                `json:"count" jsonschema:"Number of transactions returned"`
	Summary       string             `json:"summary" jsonschema:"Count label, e.g. '3 filtered / 40 total'"`
	Page          int                `json:"page" jsonschema:"Current page, starting at 1"`
	TotalPages    int                `json:"totalPages" jsonschema:"Number of pages on the server"`
	TotalElements int                `json:"totalElements" jsonschema:"Number of transactions on the server"`
	Income        float64            `json:"income" jsonschema:"Sum of income rows returned"`
	Expense       float64            `json:"expense" jsonschema:"Sum of expense rows returned"`
	Net           float64            `json:"net" jsonschema:"Income minus expense of the rows returned"`
}

func (t *flowTools) GetTransactions(ctx context.Context, req *mcp.CallToolRequest, input GetTransactionsInput) (*mcp.CallToolResult, GetTransactionsOutput, error) {
	filter := flow.TransactionFilter{Query: input.Query}

	var err error
	if filter.Type, err = parseType(input.Type); err != nil {
		return nil, GetTransactionsOutput{}, err
	}
	if filter.StartDate, err = flow.ParseDate(input.StartDate); err != nil {
		return nil, GetTransactionsOutput{}, fmt.Errorf("invalid startDate format (expected YYYY-MM-DD): %w", err)
	}
	if filter.EndDate, err = flow.ParseDate(input.EndDate); err != nil {
		return nil, GetTransactionsOutput{}, fmt.Errorf("invalid endDate format (expected YYYY-MM-DD): %w", err)
	}

	size := input.Size
	if size == 0 {
		size = flow.DefaultPageSize
	}

	view := flow.NewTransactionView(t.client.Transactions, nil)
	if err := view.SetPageSize(ctx, size); err != nil {
		return nil, GetTransactionsOutput{}, fmt.Errorf("failed to fetch transactions: %s", flow.UserMessage(err, err.Error()))
	}
	if input.Page > 1 {
		if input.Page > view.TotalPages() {
			return nil, GetTransactionsOutput{}, fmt.Errorf("page %d does not exist (there are %d pages)", input.Page, view.TotalPages())
		}
		if err := view.GoTo(ctx, input.Page-1); err != nil {
			return nil, GetTransactionsOutput{}, fmt.Errorf("failed to fetch transactions: %s", flow.UserMessage(err, err.Error()))
		}
	}
	view.SetFilter(filter)

	entries := []TransactionEntry{}
	for _, tx := range view.Visible() {
		entries = append(entries, TransactionEntry{
			ID:          tx.ID,
			Date:        tx.TransactionDate.String(),
			Amount:      amount(tx.Amount),
			Type:        string(tx.Type),
			Description: tx.Description,
			Category:    tx.CategoryName,
		})
	}

	totals := view.Totals()
	return nil, GetTransactionsOutput{
		Transactions:  entries,
		Count:         len(entries),
		Summary:       view.CountLabel(),
		Page:          view.Page() + 1,
		TotalPages:    view.TotalPages(),
		TotalElements: view.TotalElements(),
		Income:        amount(totals.Income),
		Expense:       amount(totals.Expense),
		Net:           amount(totals.Net),
	}, nil
}

// GetBudgetMonth tool - budgets and totals of one month
type GetBudgetMonthInput struct {
	Month string `json:"month,omitempty" jsonschema:"Month in YYYY-MM format (default: current month)"`
}

type BudgetEntry struct {
	Category   string  `json:"category" jsonschema:"Budget category name"`
	Limit      float64 `json:"limit" jsonschema:"Budgeted amount"`
	Spent      float64 `json:"spent" jsonschema:"Amount spent"`
	Remaining  float64 `json:"remaining" jsonschema:"Remaining budget amount"`
	Percentage float64 `json:"percentage" jsonschema:"Percentage of the budget used"`
	Tier       string  `json:"tier" jsonschema:"normal, warning or over-budget"`
	OverBy     float64 `json:"overBy,omitempty" jsonschema:"Amount spent beyond the limit"`
}

type GetBudgetMonthOutput struct {
	Month          string        `json:"month" jsonschema:"Month label, e.g. June 2025"`
	TotalLimit     float64       `json:"totalLimit" jsonschema:"Sum of the limits"`
	TotalSpent     float64       `json:"totalSpent" jsonschema:"Sum of the spending"`
	Remaining      float64       `json:"remaining" jsonschema:"Total limit minus total spent"`
	PercentageUsed int           `json:"percentageUsed" jsonschema:"Rounded percentage of the total limit used"`
	Tier           string        `json:"tier" jsonschema:"normal, warning or over-budget"`
	Budgets        []BudgetEntry `json:"budgets" jsonschema:"Budgets of the month"`
}

func (t *flowTools) GetBudgetMonth(ctx context.Context, req *mcp.CallToolRequest, input GetBudgetMonthInput) (*mcp.CallToolResult, GetBudgetMonthOutput, error) {
	month := flow.CurrentBudgetMonth(t.now())
	if input.Month != "" {
		var err error
		if month, err = flow.ParseBudgetMonth(input.Month); err != nil {
			return nil, GetBudgetMonthOutput{}, fmt.Errorf("invalid month format (expected YYYY-MM): %w", err)
		}
	}

	budgets, err := t.client.Budgets.List(ctx)
	if err != nil {
		return nil, GetBudgetMonthOutput{}, fmt.Errorf("failed to fetch budgets: %s", flow.UserMessage(err, err.Error()))
	}

	summary := month.Summarize(budgets)
	entries := []BudgetEntry{}
	for _, b := range summary.Budgets {
		entry := BudgetEntry{
			Category:   b.CategoryName,
			Limit:      amount(b.LimitAmount),
			Spent:      amount(b.SpentAmount),
			Remaining:  amount(b.RemainingAmount),
			Percentage: b.PercentageUsed,
			Tier:       string(flow.TierFor(b.PercentageUsed)),
		}
		if over, ok := flow.OverBy(b); ok {
			entry.OverBy = amount(over)
		}
		entries = append(entries, entry)
	}

	return nil, GetBudgetMonthOutput{
		Month:          month.String(),
		TotalLimit:     amount(summary.TotalLimit),
		TotalSpent:     amount(summary.TotalSpent),
		Remaining:      amount(summary.Remaining),
		PercentageUsed: summary.PercentageUsed,
		Tier:           string(summary.Tier()),
		Budgets:        entries,
	}, nil
}

// GetSavingsGoals tool - goals by nearest deadline
type GetSavingsGoalsInput struct{}

type GoalEntry struct {
	ID          int64   `json:"id" jsonschema:"Goal ID"`
	Name        string  `json:"name" jsonschema:"Goal name"`
	Description string  `json:"description,omitempty" jsonschema:"Goal description"`
	Target      float64 `json:"target" jsonschema:"Target amount"`
	Current     float64 `json:"current" jsonschema:"Amount saved so far"`
	Percentage  float64 `json:"percentage" jsonschema:"Percentage of the target saved"`
	TargetDate  string  `json:"targetDate,omitempty" jsonschema:"Deadline (YYYY-MM-DD), empty when none"`
	DaysLeft    int     `json:"daysLeft" jsonschema:"Whole days until the deadline, negative when overdue"`
	TimeLeft    string  `json:"timeLeft" jsonschema:"Countdown label, e.g. '5 days left' or 'Overdue'"`
}

type GetSavingsGoalsOutput struct {
	Goals []GoalEntry `json:"goals" jsonschema:"Savings goals ordered by deadline"`
	Count int         `json:"count" jsonschema:"Number of goals"`
}

func (t *flowTools) GetSavingsGoals(ctx context.Context, req *mcp.CallToolRequest, input GetSavingsGoalsInput) (*mcp.CallToolResult, GetSavingsGoalsOutput, error) {
	goals, err := t.client.SavingsGoals.List(ctx)
	if err != nil {
		return nil, GetSavingsGoalsOutput{}, fmt.Errorf("failed to fetch savings goals: %s", flow.UserMessage(err, err.Error()))
	}

	now := t.now()
	entries := []GoalEntry{}
	for _, g := range flow.SortByDeadline(goals, now) {
		left := flow.TimeRemaining(g.TargetDate.Time, now)
		entry := GoalEntry{
			ID:          g.ID,
			Name:        g.Name,
			Description: g.Description,
			Target:      amount(g.TargetAmount),
			Current:     amount(g.CurrentAmount),
			Percentage:  g.PercentageCompleted,
			DaysLeft:    left.Days,
			TimeLeft:    left.Label,
		}
		if !g.TargetDate.IsZero() {
			entry.TargetDate = g.TargetDate.String()
		}
		entries = append(entries, entry)
	}

	return nil, GetSavingsGoalsOutput{
		Goals: entries,
		Count: len(entries),
	}, nil
}

// GetSummary tool - headline figures and monthly trends
type GetSummaryInput struct {
	Range string `json:"range,omitempty" jsonschema:"Trend range: 6months or 12months (default: 6months)"`
}

type TrendEntry struct {
	Month    string  `json:"month" jsonschema:"Month label"`
	Income   float64 `json:"income" jsonschema:"Income of the month"`
	Expenses float64 `json:"expenses" jsonschema:"Expenses of the month"`
}

type GetSummaryOutput struct {
	Balance                      float64      `json:"balance" jsonschema:"Total balance"`
	Income                       float64      `json:"income" jsonschema:"Total income"`
	Expenses                     float64      `json:"expenses" jsonschema:"Total expenses"`
	IncomeCount                  int          `json:"incomeCount" jsonschema:"Number of income transactions"`
	ExpenseCount                 int          `json:"expenseCount" jsonschema:"Number of expense transactions"`
	DifferenceFromPreviousPeriod float64      `json:"differenceFromPreviousPeriod" jsonschema:"Change against the previous period"`
	StartDate                    string       `json:"startDate" jsonschema:"First day of the trend range"`
	EndDate                      string       `json:"endDate" jsonschema:"Last day of the trend range"`
	Trends                       []TrendEntry `json:"trends" jsonschema:"Monthly income and expenses"`
}

func (t *flowTools) GetSummary(ctx context.Context, req *mcp.CallToolRequest, input GetSummaryInput) (*mcp.CallToolResult, GetSummaryOutput, error) {
	summary, err := t.client.Analytics.Summary(ctx)
	if err != nil {
		return nil, GetSummaryOutput{}, fmt.Errorf("failed to fetch summary: %s", flow.UserMessage(err, err.Error()))
	}

	key := input.Range
	if key == "" {
		key = flow.TrendRangeSixMonths
	}
	start, end := flow.TrendRange(key, t.now())

	trends, err := t.client.Analytics.MonthlyTrends(ctx, start, end)
	if err != nil {
		return nil, GetSummaryOutput{}, fmt.Errorf("failed to fetch trends: %s", flow.UserMessage(err, err.Error()))
	}

	entries := []TrendEntry{}
	for _, tr := range trends {
		entries = append(entries, TrendEntry{
			Month:    tr.Month,
			Income:   amount(tr.Income),
			Expenses: amount(tr.Expenses),
		})
	}

	return nil, GetSummaryOutput{
		Balance:                      amount(summary.TotalBalance),
		Income:                       amount(summary.TotalIncome),
		Expenses:                     amount(summary.TotalExpenses),
		IncomeCount:                  summary.IncomeTransactionsCount,
		ExpenseCount:                 summary.ExpenseTransactionsCount,
		DifferenceFromPreviousPeriod: summary.DifferenceFromPreviousPeriod,
		StartDate:                    start.Format("2006-01-02"),
		EndDate:                      end.Format("2006-01-02"),
		Trends:                       entries,
	}, nil
}

// GetCategories tool - retrieves transaction categories
type GetCategoriesInput struct {
	Type string `json:"type,omitempty" jsonschema:"ALL, INCOME or EXPENSE (optional)"`
}

type CategoryEntry struct {
	ID    int64  `json:"id" jsonschema:"Category ID"`
	Name  string `json:"name" jsonschema:"Category name"`
	Icon  string `json:"icon,omitempty" jsonschema:"Category icon"`
	Color string `json:"color,omitempty" jsonschema:"Category color (hex code)"`
	Type  string `json:"type" jsonschema:"INCOME or EXPENSE"`
}

type GetCategoriesOutput struct {
	Categories []CategoryEntry `json:"categories" jsonschema:"List of categories"`
	Count      int             `json:"count" jsonschema:"Number of categories"`
}

func (t *flowTools) GetCategories(ctx context.Context, req *mcp.CallToolRequest, input GetCategoriesInput) (*mcp.CallToolResult, GetCategoriesOutput, error) {
	typ, err := parseType(input.Type)
	if err != nil {
		return nil, GetCategoriesOutput{}, err
	}

	categories, err := t.client.Categories.List(ctx)
	if err != nil {
		return nil, GetCategoriesOutput{}, fmt.Errorf("failed to fetch categories: %s", flow.UserMessage(err, err.Error()))
	}

	entries := []CategoryEntry{}
	for _, cat := range flow.CategoriesOfType(categories, typ) {
		entries = append(entries, CategoryEntry{
			ID:    cat.ID,
			Name:  cat.Name,
			Icon:  cat.Icon,
			Color: cat.Color,
			Type:  string(cat.Type),
		})
	}

	return nil, GetCategoriesOutput{
		Categories: entries,
		Count:      len(entries),
	}, nil
}
