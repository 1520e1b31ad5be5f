package render

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/eshaffer321/flowmoney-go/pkg/flow"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func render(t *testing.T, name string, data interface{}) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, New(false).Render(&buf, name, data))
	return buf.String()
}

func TestTemplateLoader(t *testing.T) {
	loader := NewTemplateLoader(New(false).funcs())

	names, err := loader.List()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"budgets", "categories", "dashboard", "goals", "profile", "transactions"}, names)

	for _, name := range names {
		first, err := loader.Load(name)
		require.NoError(t, err, name)
		second := loader.MustLoad(name)
		assert.Same(t, first, second, "templates are cached")
	}

	_, err = loader.Load("missing")
	assert.Error(t, err)
	assert.Panics(t, func() { loader.MustLoad("missing") })
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "$52.00", Money(dec("52")))
	assert.Equal(t, "$0.00", Money(decimal.Zero))
	assert.Equal(t, "-$12.50", Money(dec("-12.5")))
	assert.Equal(t, "+$100.00", SignedMoney(flow.TransactionTypeIncome, dec("100")))
	assert.Equal(t, "-$7.25", SignedMoney(flow.TransactionTypeExpense, dec("7.25")))
}

func TestRender_Budgets(t *testing.T) {
	month := flow.BudgetMonth{Year: 2025, Month: time.June}
	budgets := []*flow.Budget{
		{CategoryName: "Groceries", LimitAmount: dec("500"), SpentAmount: dec("600"), PercentageUsed: 120, Month: flow.NewDate(2025, 6, 1)},
	}

	out := render(t, "budgets", &BudgetsPage{Month: month, Summary: month.Summarize(budgets)})

	assert.Contains(t, out, "Budgets for June 2025")
	assert.Contains(t, out, "Limit $500.00")
	assert.Contains(t, out, "Remaining -$100.00")
	assert.Contains(t, out, "120% used")
	assert.Contains(t, out, "over by $100.00")
}

func TestRender_BudgetsEmptyMonth(t *testing.T) {
	month := flow.BudgetMonth{Year: 2025, Month: time.July}
	out := render(t, "budgets", &BudgetsPage{Month: month, Summary: month.Summarize(nil)})

	assert.Contains(t, out, "0% used")
	assert.Contains(t, out, "No budgets for this month")
}

func TestRender_Goals(t *testing.T) {
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	goals := []*flow.SavingsGoal{
		{ID: 1, Name: "Someday", TargetAmount: dec("100")},
		{ID: 2, Name: "Vacation", TargetAmount: dec("1000"), CurrentAmount: dec("250"), TargetDate: flow.NewDate(2025, 6, 15)},
		{ID: 3, Name: "Laptop", TargetAmount: dec("900"), TargetDate: flow.NewDate(2025, 6, 9)},
	}

	rows := GoalRows(goals, now)
	require.Len(t, rows, 3)
	assert.Equal(t, int64(3), rows[0].Goal.ID)
	assert.Equal(t, int64(2), rows[1].Goal.ID)
	assert.Equal(t, int64(1), rows[2].Goal.ID)

	out := render(t, "goals", &GoalsPage{Rows: rows})
	assert.Contains(t, out, "Overdue")
	assert.Contains(t, out, "5 days left")
	assert.Contains(t, out, "No deadline")
	assert.Contains(t, out, "$250.00 ")

	assert.Contains(t, render(t, "goals", &GoalsPage{}), "No savings goals yet")
}

func TestRender_Transactions(t *testing.T) {
	page := &TransactionsPage{
		Rows: []*flow.Transaction{
			{ID: 7, Description: "Salary", CategoryName: "Work", Type: flow.TransactionTypeIncome, Amount: dec("3000"), TransactionDate: flow.NewDate(2025, 6, 1)},
			{ID: 8, Description: "Rent", CategoryName: "Home", Type: flow.TransactionTypeExpense, Amount: dec("1200"), TransactionDate: flow.NewDate(2025, 6, 2)},
		},
		CountLabel:        "12 total",
		StatusLabel:       "Showing 2 to 3 of 12 entries",
		PaginationVisible: true,
		Page:              1,
		Window:            []int{0, 1, 2},
		Totals: flow.SumTransactions([]*flow.Transaction{
			{Type: flow.TransactionTypeIncome, Amount: dec("3000")},
			{Type: flow.TransactionTypeExpense, Amount: dec("1200")},
		}),
	}

	out := render(t, "transactions", page)

	assert.Contains(t, out, "12 total")
	assert.Contains(t, out, "+$3000.00")
	assert.Contains(t, out, "-$1200.00")
	assert.Contains(t, out, "Jun 1, 2025")
	assert.Contains(t, out, "Net $1800.00")
	assert.Contains(t, out, "Pages: 1 [2] 3")

	page.PaginationVisible = false
	assert.NotContains(t, render(t, "transactions", page), "Pages:")

	empty := render(t, "transactions", &TransactionsPage{Filtered: true, CountLabel: "0 filtered / 12 total"})
	assert.Contains(t, empty, "No transactions match the filters")
}

func TestRender_Dashboard(t *testing.T) {
	d := &flow.Dashboard{
		Profile: &flow.UserProfile{FirstName: "Ada", LastName: "Lovelace"},
		Summary: &flow.Summary{TotalBalance: dec("1800"), TotalIncome: dec("3000"), TotalExpenses: dec("1200"), IncomeTransactionsCount: 1, ExpenseTransactionsCount: 4},
		Breakdown: []*flow.CategorySpending{
			{CategoryName: "Home", Amount: dec("1200"), Percentage: 100},
		},
		BreakdownTotal: dec("1200"),
		StartDate:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		Errors:         map[string]error{flow.PartTrends: errors.New("boom")},
	}

	out := render(t, "dashboard", NewDashboardPage(d))

	assert.Contains(t, out, "Overview - Ada Lovelace")
	assert.Contains(t, out, "Balance   $1800.00")
	assert.Contains(t, out, "(4 transactions)")
	assert.Contains(t, out, "No transactions yet")
	assert.Contains(t, out, "2025-01-01 to 2025-06-10")
	assert.Contains(t, out, "total $1200.00")
	assert.Contains(t, out, "100%")
	assert.Contains(t, out, "trends: failed to load")
}

func TestRender_ProfileAndCategories(t *testing.T) {
	out := render(t, "profile", &flow.UserProfile{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Role: "USER"})
	assert.Contains(t, out, "Ada Lovelace")
	assert.Contains(t, out, "ada@example.com")
	assert.NotContains(t, out, "Picture")

	cats := []*flow.Category{{ID: 3, Name: "Groceries", Type: flow.TransactionTypeExpense, Color: "#22C55E"}}
	out = render(t, "categories", cats)
	assert.Contains(t, out, "Groceries")
	assert.Contains(t, out, "EXPENSE")
	assert.Contains(t, out, "#22C55E")
}

func TestRender_Styled(t *testing.T) {
	r := New(true)
	assert.Contains(t, r.tier(flow.BudgetTierOver, "120%"), "120%")
	assert.Contains(t, r.tone(flow.ToneMuted, "No deadline"), "No deadline")
}
