package flow

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Trend ranges
const (
	TrendRangeSixMonths    = "6months"
	TrendRangeTwelveMonths = "12months"
)

// analyticsService implements the AnalyticsService interface
type analyticsService struct {
	client *Client
}

// Summary retrieves the dashboard headline figures
func (s *analyticsService) Summary(ctx context.Context) (*Summary, error) {
	var result Summary
	if err := s.client.execute(ctx, http.MethodGet, "/analytics/summary", nil, nil, &result); err != nil {
		return nil, errors.Wrap(err, "failed to get summary")
	}

	return &result, nil
}

// MonthlyTrends retrieves income and expenses per month between two dates
func (s *analyticsService) MonthlyTrends(ctx context.Context, startDate, endDate time.Time) ([]*MonthlyTrend, error) {
	var result []*MonthlyTrend
	if err := s.client.execute(ctx, http.MethodGet, "/analytics/monthly-trends", rangeQuery(startDate, endDate), nil, &result); err != nil {
		return nil, errors.Wrap(err, "failed to get monthly trends")
	}

	return result, nil
}

// CategoryBreakdown retrieves spending per category between two dates
func (s *analyticsService) CategoryBreakdown(ctx context.Context, startDate, endDate time.Time) ([]*CategorySpending, error) {
	var result []*CategorySpending
	if err := s.client.execute(ctx, http.MethodGet, "/analytics/category-breakdown", rangeQuery(startDate, endDate), nil, &result); err != nil {
		return nil, errors.Wrap(err, "failed to get category breakdown")
	}

	return result, nil
}

// TrendRange returns the dates for a trend range key: the first of the month
// six months back for "6months", twelve months back for anything else, through
// now. Dates are taken in now's location.
func TrendRange(key string, now time.Time) (time.Time, time.Time) {
	months := 12
	if key == TrendRangeSixMonths {
		months = 6
	}

	start := time.Date(now.Year(), now.Month()-time.Month(months), 1, 0, 0, 0, 0, now.Location())
	return start, now
}

// BreakdownTotal sums the amounts of a category breakdown
func BreakdownTotal(items []*CategorySpending) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Amount)
	}
	return total
}

func rangeQuery(startDate, endDate time.Time) url.Values {
	query := url.Values{}
	query.Set("startDate", startDate.Format(dateLayout))
	query.Set("endDate", endDate.Format(dateLayout))
	return query
}
