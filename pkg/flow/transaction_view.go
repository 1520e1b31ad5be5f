package flow

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
)

// maxPageButtons is the widest page window offered
const maxPageButtons = 5

// TransactionTotals sums the visible rows
type TransactionTotals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Net     decimal.Decimal
}

// TransactionView holds one server page of transactions plus the client-side
// filter applied to it. Filters narrow the loaded page only, so pagination is
// hidden while any filter is active.
//
// Fetches are not sequenced: when two overlap, whichever response arrives
// last replaces the page.
type TransactionView struct {
	source TransactionService
	logger Logger

	mu            sync.Mutex
	filter        TransactionFilter
	token         string
	page          int
	size          int
	totalPages    int
	totalElements int
	items         []*Transaction
}

// NewTransactionView creates a view over source starting at page 0
func NewTransactionView(source TransactionService, logger Logger) *TransactionView {
	return &TransactionView{
		source: source,
		logger: logger,
		filter: TransactionFilter{Type: TransactionTypeAll},
		size:   DefaultPageSize,
		items:  []*Transaction{},
	}
}

// Load fetches the current page
func (v *TransactionView) Load(ctx context.Context) error {
	v.mu.Lock()
	page, size := v.page, v.size
	v.mu.Unlock()

	return v.fetch(ctx, page, size)
}

// Refresh re-fetches the current page, typically after a create, edit or delete
func (v *TransactionView) Refresh(ctx context.Context) error {
	return v.Load(ctx)
}

// SetPageSize changes the page size and fetches page 0
func (v *TransactionView) SetPageSize(ctx context.Context, size int) error {
	if !validPageSize(size) {
		return &ValidationErrors{Errors: []*ValidationError{{
			Field:   "size",
			Message: fmt.Sprintf("Page size must be one of %v", PageSizes),
			Value:   size,
		}}}
	}

	v.mu.Lock()
	v.size = size
	v.page = 0
	v.mu.Unlock()

	return v.fetch(ctx, 0, size)
}

// SetSession records the token pages are fetched under. A different token
// fetches page 0 again, the same token is a no-op and an empty token clears
// the page without fetching.
func (v *TransactionView) SetSession(ctx context.Context, token string) error {
	v.mu.Lock()
	if token == v.token {
		v.mu.Unlock()
		return nil
	}
	v.token = token
	v.page = 0
	size := v.size
	if token == "" {
		v.items = []*Transaction{}
		v.totalPages = 0
		v.totalElements = 0
		v.mu.Unlock()
		return nil
	}
	v.mu.Unlock()

	return v.fetch(ctx, 0, size)
}

// GoTo fetches page when it lies in [0, totalPages). Other pages are ignored.
func (v *TransactionView) GoTo(ctx context.Context, page int) error {
	v.mu.Lock()
	if page < 0 || page >= v.totalPages {
		v.mu.Unlock()
		return nil
	}
	v.page = page
	size := v.size
	v.mu.Unlock()

	return v.fetch(ctx, page, size)
}

// First goes to page 0
func (v *TransactionView) First(ctx context.Context) error {
	return v.GoTo(ctx, 0)
}

// Prev goes back one page
func (v *TransactionView) Prev(ctx context.Context) error {
	return v.GoTo(ctx, v.Page()-1)
}

// Next goes forward one page
func (v *TransactionView) Next(ctx context.Context) error {
	return v.GoTo(ctx, v.Page()+1)
}

// Last goes to the final page
func (v *TransactionView) Last(ctx context.Context) error {
	return v.GoTo(ctx, v.TotalPages()-1)
}

// SetFilter replaces the client-side filter
func (v *TransactionView) SetFilter(f TransactionFilter) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.filter = f
}

// ClearFilters resets every filter criterion
func (v *TransactionView) ClearFilters() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.filter.Reset()
}

// Filter returns the current filter
func (v *TransactionView) Filter() TransactionFilter {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.filter
}

// Items returns the loaded page, unfiltered
func (v *TransactionView) Items() []*Transaction {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]*Transaction(nil), v.items...)
}

// Visible returns the loaded rows that pass the filter
func (v *TransactionView) Visible() []*Transaction {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.filter.Apply(v.items)
}

// Page returns the current zero-based page
func (v *TransactionView) Page() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.page
}

// PageSize returns the page size
func (v *TransactionView) PageSize() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.size
}

// TotalPages returns the server's page count
func (v *TransactionView) TotalPages() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.totalPages
}

// TotalElements returns the server's record count
func (v *TransactionView) TotalElements() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.totalElements
}

// PaginationVisible reports whether page controls apply: no filter is active
// and there is more than one page.
func (v *TransactionView) PaginationVisible() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return !v.filter.Active() && v.totalPages > 1
}

// CanPrev reports whether a previous page exists
func (v *TransactionView) CanPrev() bool {
	return v.Page() > 0
}

// CanNext reports whether a next page exists
func (v *TransactionView) CanNext() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.page < v.totalPages-1
}

// PageWindow returns up to five zero-based page numbers around the current page
func (v *TransactionView) PageWindow() []int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return PageWindow(v.page, v.totalPages)
}

// CountLabel describes how many rows are shown
func (v *TransactionView) CountLabel() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.filter.Active() {
		return fmt.Sprintf("%d filtered / %d total", len(v.filter.Apply(v.items)), v.totalElements)
	}
	return fmt.Sprintf("%d total", v.totalElements)
}

// StatusLabel is the pager caption
func (v *TransactionView) StatusLabel() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return fmt.Sprintf("Showing %d to %d of %d entries", v.page+1, v.totalPages, v.totalElements)
}

// Totals sums income and expense over the visible rows
func (v *TransactionView) Totals() TransactionTotals {
	return SumTransactions(v.Visible())
}

// SumTransactions totals income and expense amounts
func SumTransactions(list []*Transaction) TransactionTotals {
	var totals TransactionTotals
	for _, t := range list {
		switch t.Type {
		case TransactionTypeIncome:
			totals.Income = totals.Income.Add(t.Amount)
		case TransactionTypeExpense:
			totals.Expense = totals.Expense.Add(t.Amount)
		}
	}
	totals.Net = totals.Income.Sub(totals.Expense)
	return totals
}

// PageWindow returns up to five zero-based page numbers: the first five near
// the start, the last five near the end, otherwise current centred.
func PageWindow(current, totalPages int) []int {
	n := totalPages
	if n > maxPageButtons {
		n = maxPageButtons
	}
	if n <= 0 {
		return []int{}
	}

	pages := make([]int, n)
	for i := range pages {
		switch {
		case totalPages <= maxPageButtons, current < 3:
			pages[i] = i
		case current > totalPages-3:
			pages[i] = totalPages - maxPageButtons + i
		default:
			pages[i] = current - 2 + i
		}
	}
	return pages
}

func (v *TransactionView) fetch(ctx context.Context, page, size int) error {
	result, err := v.source.List(ctx, page, size)
	if err != nil {
		if v.logger != nil {
			v.logger.Error("Failed to fetch transactions", "page", page, "size", size, "error", err)
		}
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.items = result.Content
	v.page = result.Number
	v.totalPages = result.TotalPages
	v.totalElements = result.TotalElements

	return nil
}

func validPageSize(size int) bool {
	for _, s := range PageSizes {
		if s == size {
			return true
		}
	}
	return false
}
