package flow

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// budgetService implements the BudgetService interface
type budgetService struct {
	client *Client
}

// List retrieves every budget of the user, all months
func (s *budgetService) List(ctx context.Context) ([]*Budget, error) {
	var result []*Budget
	if err := s.client.execute(ctx, http.MethodGet, "/budgets", nil, nil, &result); err != nil {
		return nil, errors.Wrap(err, "failed to get budgets")
	}

	return result, nil
}

// Create creates a budget for one category and month
func (s *budgetService) Create(ctx context.Context, params *BudgetParams) (*Budget, error) {
	if err := Validate(params); err != nil {
		return nil, err
	}

	var result Budget
	if err := s.client.execute(ctx, http.MethodPost, "/budgets", nil, budgetInput(params), &result); err != nil {
		return nil, errors.Wrap(err, "failed to create budget")
	}

	return &result, nil
}

// Update updates an existing budget
func (s *budgetService) Update(ctx context.Context, budgetID int64, params *BudgetParams) (*Budget, error) {
	if err := Validate(params); err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/budgets/%d", budgetID)

	var result Budget
	if err := s.client.execute(ctx, http.MethodPut, path, nil, budgetInput(params), &result); err != nil {
		return nil, errors.Wrap(err, "failed to update budget")
	}

	return &result, nil
}

// Delete deletes a budget
func (s *budgetService) Delete(ctx context.Context, budgetID int64) error {
	path := fmt.Sprintf("/budgets/%d", budgetID)

	if err := s.client.execute(ctx, http.MethodDelete, path, nil, nil, nil); err != nil {
		return errors.Wrap(err, "failed to delete budget")
	}

	return nil
}

// budgetInput always sends the first day of the budget's month
func budgetInput(params *BudgetParams) map[string]interface{} {
	return map[string]interface{}{
		"categoryId":  params.CategoryID,
		"limitAmount": amountValue(params.LimitAmount),
		"month":       MonthStart(params.Month.Year(), params.Month.Month()),
	}
}
