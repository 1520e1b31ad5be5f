package flow

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

// categoryService implements the CategoryService interface
type categoryService struct {
	client *Client
}

// List retrieves all categories
func (s *categoryService) List(ctx context.Context) ([]*Category, error) {
	var result []*Category
	if err := s.client.execute(ctx, http.MethodGet, "/categories", nil, nil, &result); err != nil {
		return nil, errors.Wrap(err, "failed to get categories")
	}

	return result, nil
}

// Create creates a category
func (s *categoryService) Create(ctx context.Context, params *CategoryParams) (*Category, error) {
	if err := Validate(params); err != nil {
		return nil, err
	}

	input := map[string]interface{}{
		"name":  strings.TrimSpace(params.Name),
		"icon":  params.Icon,
		"color": strings.ToUpper(params.Color),
		"type":  params.Type,
	}

	var result Category
	if err := s.client.execute(ctx, http.MethodPost, "/categories", nil, input, &result); err != nil {
		return nil, errors.Wrap(err, "failed to create category")
	}

	return &result, nil
}

// Delete deletes a category
func (s *categoryService) Delete(ctx context.Context, categoryID int64) error {
	path := fmt.Sprintf("/categories/%d", categoryID)

	if err := s.client.execute(ctx, http.MethodDelete, path, nil, nil, nil); err != nil {
		return errors.Wrap(err, "failed to delete category")
	}

	return nil
}

// CategoriesOfType filters categories by type. ALL or empty keeps everything.
func CategoriesOfType(categories []*Category, typ TransactionType) []*Category {
	if typ == "" || typ == TransactionTypeAll {
		return categories
	}
	out := make([]*Category, 0, len(categories))
	for _, c := range categories {
		if c.Type == typ {
			out = append(out, c)
		}
	}
	return out
}
