package flow

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func budget(id int64, month Date, limit, spent string, pct float64) *Budget {
	return &Budget{
		ID:             id,
		Month:          month,
		LimitAmount:    decimal.RequireFromString(limit),
		SpentAmount:    decimal.RequireFromString(spent),
		PercentageUsed: pct,
	}
}

func TestSummarizeMonth_OverBudgetScenario(t *testing.T) {
	budgets := []*Budget{budget(1, NewDate(2025, 6, 1), "500", "600", 120)}

	s := SummarizeMonth(budgets, 2025, time.June)

	assert.Len(t, s.Budgets, 1)
	assert.True(t, decimal.NewFromInt(500).Equal(s.TotalLimit))
	assert.True(t, decimal.NewFromInt(600).Equal(s.TotalSpent))
	assert.True(t, decimal.NewFromInt(-100).Equal(s.Remaining))
	assert.Equal(t, 120, s.PercentageUsed)
	assert.Equal(t, BudgetTierOver, s.Tier())
}

func TestSummarizeMonth_SelectsByUTCMonth(t *testing.T) {
	budgets := []*Budget{
		budget(1, NewDate(2025, 6, 1), "300", "100", 33),
		budget(2, NewDate(2025, 6, 1), "200", "150", 75),
		budget(3, NewDate(2025, 7, 1), "999", "999", 100),
		budget(4, NewDate(2024, 6, 1), "999", "0", 0),
		// late on 31 May in New York is already June in UTC
		budget(5, Date{Time: time.Date(2025, 5, 31, 22, 0, 0, 0, time.FixedZone("EDT", -4*3600))}, "100", "0", 0),
		nil,
	}

	s := SummarizeMonth(budgets, 2025, time.June)

	require.Len(t, s.Budgets, 3)
	assert.True(t, decimal.NewFromInt(600).Equal(s.TotalLimit))
	assert.True(t, decimal.NewFromInt(250).Equal(s.TotalSpent))
	assert.True(t, decimal.NewFromInt(350).Equal(s.Remaining))
	assert.Equal(t, 42, s.PercentageUsed)
	assert.Equal(t, BudgetTierNormal, s.Tier())
}

func TestSummarizeMonth_Empty(t *testing.T) {
	s := SummarizeMonth(nil, 2025, time.March)

	assert.Empty(t, s.Budgets)
	assert.True(t, s.TotalLimit.IsZero())
	assert.Equal(t, 0, s.PercentageUsed)
}

func TestPercentageUsed(t *testing.T) {
	tests := []struct {
		spent, limit string
		want         int
	}{
		{"0", "0", 0},
		{"50", "0", 0},
		{"1", "3", 33},
		{"2", "3", 67},
		{"1", "200", 1},
		{"1", "201", 0},
		{"600", "500", 120},
	}

	for _, tt := range tests {
		got := PercentageUsed(decimal.RequireFromString(tt.spent), decimal.RequireFromString(tt.limit))
		assert.Equal(t, tt.want, got, "%s/%s", tt.spent, tt.limit)
	}
}

func TestTierFor(t *testing.T) {
	assert.Equal(t, BudgetTierNormal, TierFor(0))
	assert.Equal(t, BudgetTierNormal, TierFor(79.9))
	assert.Equal(t, BudgetTierWarning, TierFor(80))
	assert.Equal(t, BudgetTierWarning, TierFor(99))
	assert.Equal(t, BudgetTierOver, TierFor(100))
	assert.Equal(t, BudgetTierOver, TierFor(250))
}

func TestOverBy(t *testing.T) {
	over, ok := OverBy(budget(1, NewDate(2025, 6, 1), "500", "600", 120))
	assert.True(t, ok)
	assert.True(t, decimal.NewFromInt(100).Equal(over))

	_, ok = OverBy(budget(2, NewDate(2025, 6, 1), "500", "500", 100))
	assert.False(t, ok)
}

func TestBudgetMonth_Navigation(t *testing.T) {
	m := CurrentBudgetMonth(time.Date(2025, 1, 31, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, "January 2025", m.String())

	assert.Equal(t, "December 2024", m.Prev().String())
	assert.Equal(t, "February 2025", m.Next().String())
	assert.Equal(t, BudgetMonth{Year: 2026, Month: time.January}, BudgetMonth{Year: 2025, Month: time.December}.Next())

	parsed, err := ParseBudgetMonth("2025-06")
	require.NoError(t, err)
	assert.Equal(t, BudgetMonth{Year: 2025, Month: time.June}, parsed)

	_, err = ParseBudgetMonth("June")
	assert.Error(t, err)
}

func TestBudgetService_ListAndCreate(t *testing.T) {
	mockTransport := new(MockTransport)
	client := newTestClient(mockTransport)

	mockTransport.On("Do", mock.Anything, http.MethodGet, "/budgets", nil, nil, mock.Anything).Return(`[
		{"id": 1, "categoryId": 4, "categoryName": "Food", "limitAmount": 500, "spentAmount": 600,
		 "remainingAmount": -100, "percentageUsed": 120, "month": "2025-06-01"}
	]`, nil)

	mockTransport.On("Do", mock.Anything, http.MethodPost, "/budgets", nil,
		mock.MatchedBy(func(body map[string]interface{}) bool {
			return body["month"] == "2025-06-01" && body["categoryId"] == int64(4) && body["limitAmount"] == amountValue(decimal.NewFromInt(500))
		}),
		mock.Anything,
	).Return(`{"id": 2, "categoryId": 4, "limitAmount": 500, "month": "2025-06-01"}`, nil)

	ctx := context.Background()
	budgets, err := client.Budgets.List(ctx)
	require.NoError(t, err)
	require.Len(t, budgets, 1)
	assert.Equal(t, "Food", budgets[0].CategoryName)
	assert.Equal(t, float64(120), budgets[0].PercentageUsed)

	created, err := client.Budgets.Create(ctx, &BudgetParams{
		CategoryID:  4,
		LimitAmount: decimal.NewFromInt(500),
		Month:       NewDate(2025, 6, 17),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), created.ID)

	mockTransport.AssertExpectations(t)
}

func TestBudgetService_Create_Validation(t *testing.T) {
	mockTransport := new(MockTransport)
	client := newTestClient(mockTransport)

	_, err := client.Budgets.Create(context.Background(), &BudgetParams{})

	require.Error(t, err)
	assert.Equal(t, "Category is required", UserMessage(err, "Failed to save budget"))
	mockTransport.AssertNotCalled(t, "Do")
}
