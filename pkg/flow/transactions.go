package flow

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// DefaultPageSize is the page size used when none is given
const DefaultPageSize = 10

// PageSizes are the page sizes offered by the transaction list
var PageSizes = []int{5, 10, 20, 50}

// transactionService implements the TransactionService interface
type transactionService struct {
	client *Client
}

// List retrieves one server page of transactions
func (s *transactionService) List(ctx context.Context, page, size int) (*TransactionPage, error) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = DefaultPageSize
	}

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("size", strconv.Itoa(size))

	var result TransactionPage
	if err := s.client.execute(ctx, http.MethodGet, "/transactions", query, nil, &result); err != nil {
		return nil, errors.Wrap(err, "failed to list transactions")
	}

	if result.Content == nil {
		result.Content = []*Transaction{}
	}
	if result.Size == 0 {
		result.Size = size
	}

	return &result, nil
}

// Recent retrieves the newest transactions
func (s *transactionService) Recent(ctx context.Context, limit int) ([]*Transaction, error) {
	if limit <= 0 {
		limit = 5
	}

	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))

	var result []*Transaction
	if err := s.client.execute(ctx, http.MethodGet, "/transactions/recent", query, nil, &result); err != nil {
		return nil, errors.Wrap(err, "failed to get recent transactions")
	}

	return result, nil
}

// Create creates a new transaction
func (s *transactionService) Create(ctx context.Context, params *CreateTransactionParams) (*Transaction, error) {
	if err := Validate(params); err != nil {
		return nil, err
	}

	var result Transaction
	if err := s.client.execute(ctx, http.MethodPost, "/transactions", nil, transactionInput(params), &result); err != nil {
		return nil, errors.Wrap(err, "failed to create transaction")
	}

	return &result, nil
}

// Update updates an existing transaction
func (s *transactionService) Update(ctx context.Context, transactionID int64, params *CreateTransactionParams) (*Transaction, error) {
	if err := Validate(params); err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/transactions/%d", transactionID)

	var result Transaction
	if err := s.client.execute(ctx, http.MethodPut, path, nil, transactionInput(params), &result); err != nil {
		return nil, errors.Wrap(err, "failed to update transaction")
	}

	return &result, nil
}

// Delete deletes a transaction
func (s *transactionService) Delete(ctx context.Context, transactionID int64) error {
	path := fmt.Sprintf("/transactions/%d", transactionID)

	if err := s.client.execute(ctx, http.MethodDelete, path, nil, nil, nil); err != nil {
		return errors.Wrap(err, "failed to delete transaction")
	}

	return nil
}

func transactionInput(params *CreateTransactionParams) map[string]interface{} {
	return map[string]interface{}{
		"categoryId":      params.CategoryID,
		"amount":          amountValue(params.Amount),
		"type":            params.Type,
		"description":     params.Description,
		"transactionDate": params.TransactionDate,
	}
}

// amountValue sends an amount as a bare JSON number
func amountValue(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}
