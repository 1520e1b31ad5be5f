package flow

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

// savingsGoalService implements the SavingsGoalService interface
type savingsGoalService struct {
	client *Client
}

// List retrieves all savings goals
func (s *savingsGoalService) List(ctx context.Context) ([]*SavingsGoal, error) {
	var result []*SavingsGoal
	if err := s.client.execute(ctx, http.MethodGet, "/savings-goals", nil, nil, &result); err != nil {
		return nil, errors.Wrap(err, "failed to get savings goals")
	}

	return result, nil
}

// Create creates a savings goal
func (s *savingsGoalService) Create(ctx context.Context, params *SavingsGoalParams) (*SavingsGoal, error) {
	if err := Validate(params); err != nil {
		return nil, err
	}

	var result SavingsGoal
	if err := s.client.execute(ctx, http.MethodPost, "/savings-goals", nil, goalInput(params), &result); err != nil {
		return nil, errors.Wrap(err, "failed to create savings goal")
	}

	return &result, nil
}

// Update updates a savings goal
func (s *savingsGoalService) Update(ctx context.Context, goalID int64, params *SavingsGoalParams) (*SavingsGoal, error) {
	if err := Validate(params); err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/savings-goals/%d", goalID)

	var result SavingsGoal
	if err := s.client.execute(ctx, http.MethodPut, path, nil, goalInput(params), &result); err != nil {
		return nil, errors.Wrap(err, "failed to update savings goal")
	}

	return &result, nil
}

// Delete deletes a savings goal
func (s *savingsGoalService) Delete(ctx context.Context, goalID int64) error {
	path := fmt.Sprintf("/savings-goals/%d", goalID)

	if err := s.client.execute(ctx, http.MethodDelete, path, nil, nil, nil); err != nil {
		return errors.Wrap(err, "failed to delete savings goal")
	}

	return nil
}

// Contribute adds money to a goal
func (s *savingsGoalService) Contribute(ctx context.Context, goalID int64, params *ContributionParams) (*SavingsGoal, error) {
	if err := Validate(params); err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/savings-goals/%d/contribute", goalID)

	input := map[string]interface{}{
		"amount": amountValue(params.Amount),
		"note":   nil,
	}
	if note := strings.TrimSpace(params.Note); note != "" {
		input["note"] = note
	}

	var result SavingsGoal
	if err := s.client.execute(ctx, http.MethodPost, path, nil, input, &result); err != nil {
		return nil, errors.Wrap(err, "failed to contribute to savings goal")
	}

	return &result, nil
}

// goalInput sends a missing target date as null
func goalInput(params *SavingsGoalParams) map[string]interface{} {
	return map[string]interface{}{
		"name":         params.Name,
		"description":  params.Description,
		"targetAmount": amountValue(params.TargetAmount),
		"targetDate":   params.TargetDate,
		"icon":         params.Icon,
		"color":        params.Color,
	}
}
