package flow

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestBudgetService_List(t *testing.T) {
	mockTransport := new(MockTransport)
	client := newTestClient(mockTransport)

	mockTransport.On("Do", mock.Anything, http.MethodGet, "/budgets", nil, nil, mock.Anything).Return(`[
		{"id": 1, "categoryId": 4, "categoryName": "Groceries", "limitAmount": 500, "spentAmount": 600, "remainingAmount": -100, "percentageUsed": 120, "month": "2025-06-01"},
		{"id": 2, "categoryId": 5, "categoryName": "Fuel", "limitAmount": 100.50, "spentAmount": 0, "month": "2025-05-01"}
	]`, nil)

	budgets, err := client.Budgets.List(context.Background())
	require.NoError(t, err)
	require.Len(t, budgets, 2)

	assert.Equal(t, "Groceries", budgets[0].CategoryName)
	assert.True(t, budgets[0].SpentAmount.Equal(decimal.NewFromInt(600)))
	assert.Equal(t, time.June, budgets[0].Month.Month())
	assert.Equal(t, "100.5", budgets[1].LimitAmount.String())
	mockTransport.AssertExpectations(t)
}

func TestBudgetService_CreateSendsMonthStart(t *testing.T) {
	mockTransport := new(MockTransport)
	client := newTestClient(mockTransport)

	mockTransport.On("Do", mock.Anything, http.MethodPost, "/budgets", nil,
		mock.MatchedBy(func(body map[string]interface{}) bool {
			return body["categoryId"] == int64(4) &&
				body["limitAmount"] == json.Number("500") &&
				body["month"] == "2025-06-01"
		}),
		mock.Anything,
	).Return(`{"id": 9, "categoryId": 4, "limitAmount": 500, "month": "2025-06-01"}`, nil)

	budget, err := client.Budgets.Create(context.Background(), &BudgetParams{
		CategoryID:  4,
		LimitAmount: decimal.NewFromInt(500),
		Month:       NewDate(2025, time.June, 17),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(9), budget.ID)
	mockTransport.AssertExpectations(t)
}

func TestBudgetService_UpdateAndDelete(t *testing.T) {
	mockTransport := new(MockTransport)
	client := newTestClient(mockTransport)

	mockTransport.On("Do", mock.Anything, http.MethodPut, "/budgets/9", nil, mock.Anything, mock.Anything).
		Return(`{"id": 9, "limitAmount": 650}`, nil)
	mockTransport.On("Do", mock.Anything, http.MethodDelete, "/budgets/9", nil, nil, nil).Return(nil, nil)

	ctx := context.Background()
	budget, err := client.Budgets.Update(ctx, 9, &BudgetParams{
		CategoryID:  4,
		LimitAmount: decimal.NewFromInt(650),
		Month:       NewDate(2025, time.June, 1),
	})
	require.NoError(t, err)
	assert.Equal(t, "650", budget.LimitAmount.String())

	require.NoError(t, client.Budgets.Delete(ctx, 9))
	mockTransport.AssertExpectations(t)
}

func TestBudgetService_ValidatesBeforeSending(t *testing.T) {
	mockTransport := new(MockTransport)
	client := newTestClient(mockTransport)

	_, err := client.Budgets.Create(context.Background(), &BudgetParams{CategoryID: 4})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.Equal(t, "Amount must be a valid positive number", UserMessage(err, ""))
	mockTransport.AssertNotCalled(t, "Do", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
