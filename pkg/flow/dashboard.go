package flow

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Dashboard parts
const (
	PartProfile   = "profile"
	PartSummary   = "summary"
	PartRecent    = "recent"
	PartTrends    = "trends"
	PartBreakdown = "breakdown"
)

// DashboardParts lists the parts in display order
var DashboardParts = []string{PartProfile, PartSummary, PartRecent, PartTrends, PartBreakdown}

// DashboardOptions configures LoadDashboard
type DashboardOptions struct {
	// TrendRange is "6months" or "12months"; it also bounds the breakdown
	TrendRange string

	// RecentLimit is how many recent transactions to show
	RecentLimit int

	// Now defaults to time.Now
	Now time.Time
}

// Dashboard is everything the overview screen shows. A part that failed to
// load is left empty and its error kept in Errors.
type Dashboard struct {
	Profile        *UserProfile
	Summary        *Summary
	Recent         []*Transaction
	Trends         []*MonthlyTrend
	Breakdown      []*CategorySpending
	BreakdownTotal decimal.Decimal
	StartDate      time.Time
	EndDate        time.Time
	Errors         map[string]error
}

// Err returns the error of one part
func (d *Dashboard) Err(part string) error {
	return d.Errors[part]
}

// LoadDashboard fetches the dashboard parts concurrently
func (c *Client) LoadDashboard(ctx context.Context, opts *DashboardOptions) *Dashboard {
	if opts == nil {
		opts = &DashboardOptions{}
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	limit := opts.RecentLimit
	if limit <= 0 {
		limit = 5
	}
	rangeKey := opts.TrendRange
	if rangeKey == "" {
		rangeKey = TrendRangeSixMonths
	}

	start, end := TrendRange(rangeKey, now)
	d := &Dashboard{
		StartDate: start,
		EndDate:   end,
		Errors:    map[string]error{},
	}

	var mu sync.Mutex
	fail := func(part string, err error) {
		if l := c.logger(); l != nil {
			l.Error("Failed to load dashboard part", "part", part, "error", err)
		}
		mu.Lock()
		d.Errors[part] = err
		mu.Unlock()
	}

	// Failures are recorded per part, never returned
	var g errgroup.Group

	g.Go(func() error {
		profile, err := c.Users.Profile(ctx)
		if err != nil {
			fail(PartProfile, err)
			return nil
		}
		d.Profile = profile
		return nil
	})

	g.Go(func() error {
		summary, err := c.Analytics.Summary(ctx)
		if err != nil {
			fail(PartSummary, err)
			return nil
		}
		d.Summary = summary
		return nil
	})

	g.Go(func() error {
		recent, err := c.Transactions.Recent(ctx, limit)
		if err != nil {
			fail(PartRecent, err)
			return nil
		}
		d.Recent = recent
		return nil
	})

	g.Go(func() error {
		trends, err := c.Analytics.MonthlyTrends(ctx, start, end)
		if err != nil {
			fail(PartTrends, err)
			return nil
		}
		d.Trends = trends
		return nil
	})

	g.Go(func() error {
		breakdown, err := c.Analytics.CategoryBreakdown(ctx, start, end)
		if err != nil {
			fail(PartBreakdown, err)
			return nil
		}
		d.Breakdown = breakdown
		d.BreakdownTotal = BreakdownTotal(breakdown)
		return nil
	})

	_ = g.Wait()

	return d
}
