package flow

import (
	"strings"
	"time"
)

// TransactionFilter narrows the currently loaded page of transactions.
// The zero value matches everything.
type TransactionFilter struct {
	Query     string
	Type      TransactionType
	StartDate Date
	EndDate   Date
}

// Active reports whether any criterion is set
func (f TransactionFilter) Active() bool {
	return strings.TrimSpace(f.Query) != "" ||
		(f.Type != "" && f.Type != TransactionTypeAll) ||
		!f.StartDate.IsZero() ||
		!f.EndDate.IsZero()
}

// Reset clears every criterion
func (f *TransactionFilter) Reset() {
	*f = TransactionFilter{Type: TransactionTypeAll}
}

// Matches reports whether t passes every active criterion. Date bounds are
// inclusive and compared by calendar day; the query is matched
// case-insensitively against the description, the category name and the
// amount written both plainly ("52") and with cents ("52.00").
func (f TransactionFilter) Matches(t *Transaction) bool {
	if t == nil {
		return false
	}

	if f.Type != "" && f.Type != TransactionTypeAll && t.Type != f.Type {
		return false
	}

	day := dayOf(t.TransactionDate.Time)
	if !f.StartDate.IsZero() && day.Before(dayOf(f.StartDate.Time)) {
		return false
	}
	if !f.EndDate.IsZero() && day.After(dayOf(f.EndDate.Time)) {
		return false
	}

	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}

	return strings.Contains(strings.ToLower(t.Description), q) ||
		strings.Contains(strings.ToLower(t.CategoryName), q) ||
		strings.Contains(t.Amount.String(), q) ||
		strings.Contains(t.Amount.StringFixed(2), q)
}

// Apply returns the transactions of list that match f, in order
func (f TransactionFilter) Apply(list []*Transaction) []*Transaction {
	out := make([]*Transaction, 0, len(list))
	for _, t := range list {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// dayOf drops the clock part, keeping the date as written
func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
