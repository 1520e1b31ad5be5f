package flow

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetTier classifies how much of a budget is used
type BudgetTier string

const (
	BudgetTierNormal  BudgetTier = "normal"
	BudgetTierWarning BudgetTier = "warning"
	BudgetTierOver    BudgetTier = "over-budget"
)

const (
	warningPercentage = 80
	overPercentage    = 100
)

var hundred = decimal.NewFromInt(100)

// MonthSummary totals the budgets of one month
type MonthSummary struct {
	Year           int
	Month          time.Month
	Budgets        []*Budget
	TotalLimit     decimal.Decimal
	TotalSpent     decimal.Decimal
	Remaining      decimal.Decimal
	PercentageUsed int
}

// Tier classifies the month total
func (s *MonthSummary) Tier() BudgetTier {
	return TierFor(float64(s.PercentageUsed))
}

// MonthBudgets selects the budgets whose month falls in year/month, read in UTC
func MonthBudgets(budgets []*Budget, year int, month time.Month) []*Budget {
	out := make([]*Budget, 0, len(budgets))
	for _, b := range budgets {
		if b == nil || b.Month.IsZero() {
			continue
		}
		m := b.Month.UTC()
		if m.Year() == year && m.Month() == month {
			out = append(out, b)
		}
	}
	return out
}

// SummarizeMonth totals the budgets of year/month
func SummarizeMonth(budgets []*Budget, year int, month time.Month) *MonthSummary {
	selected := MonthBudgets(budgets, year, month)

	s := &MonthSummary{
		Year:    year,
		Month:   month,
		Budgets: selected,
	}
	for _, b := range selected {
		s.TotalLimit = s.TotalLimit.Add(b.LimitAmount)
		s.TotalSpent = s.TotalSpent.Add(b.SpentAmount)
	}
	s.Remaining = s.TotalLimit.Sub(s.TotalSpent)
	s.PercentageUsed = PercentageUsed(s.TotalSpent, s.TotalLimit)

	return s
}

// PercentageUsed is spent/limit as a rounded whole percentage, 0 without a limit
func PercentageUsed(spent, limit decimal.Decimal) int {
	if limit.Sign() <= 0 {
		return 0
	}
	return int(spent.Div(limit).Mul(hundred).Round(0).IntPart())
}

// TierFor maps a percentage to its display tier
func TierFor(pct float64) BudgetTier {
	switch {
	case pct >= overPercentage:
		return BudgetTierOver
	case pct >= warningPercentage:
		return BudgetTierWarning
	default:
		return BudgetTierNormal
	}
}

// OverBy returns how far spending exceeds the limit once the budget is past
// 100%, and false otherwise.
func OverBy(b *Budget) (decimal.Decimal, bool) {
	if b.PercentageUsed <= overPercentage {
		return decimal.Zero, false
	}
	return b.SpentAmount.Sub(b.LimitAmount), true
}

// BudgetMonth is the month the budget page is looking at
type BudgetMonth struct {
	Year  int
	Month time.Month
}

// CurrentBudgetMonth returns the month containing now
func CurrentBudgetMonth(now time.Time) BudgetMonth {
	return BudgetMonth{Year: now.Year(), Month: now.Month()}
}

// ParseBudgetMonth reads "YYYY-MM"
func ParseBudgetMonth(s string) (BudgetMonth, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return BudgetMonth{}, err
	}
	return BudgetMonth{Year: t.Year(), Month: t.Month()}, nil
}

// Prev returns the month before m
func (m BudgetMonth) Prev() BudgetMonth {
	return m.add(-1)
}

// Next returns the month after m
func (m BudgetMonth) Next() BudgetMonth {
	return m.add(1)
}

// String formats m as "January 2025"
func (m BudgetMonth) String() string {
	return m.first().Format("January 2006")
}

// Summarize totals budgets for m
func (m BudgetMonth) Summarize(budgets []*Budget) *MonthSummary {
	return SummarizeMonth(budgets, m.Year, m.Month)
}

func (m BudgetMonth) add(n int) BudgetMonth {
	t := m.first().AddDate(0, n, 0)
	return BudgetMonth{Year: t.Year(), Month: t.Month()}
}

func (m BudgetMonth) first() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}
