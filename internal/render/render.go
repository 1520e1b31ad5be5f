package render

import (
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/eshaffer321/flowmoney-go/pkg/flow"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var (
	dangerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f9e2af"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6e3a1"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#7f849c"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#89b4fa"))
)

// Renderer writes the CLI screens
type Renderer struct {
	loader *TemplateLoader
	styled bool
}

// New creates a renderer. With styled false no escape codes are written.
func New(styled bool) *Renderer {
	r := &Renderer{styled: styled}
	r.loader = NewTemplateLoader(r.funcs())
	return r
}

// Render executes the named template with data
func (r *Renderer) Render(w io.Writer, name string, data interface{}) error {
	tmpl, err := r.loader.Load(name)
	if err != nil {
		return err
	}
	return errors.Wrapf(tmpl.Execute(w, data), "render %s", name)
}

func (r *Renderer) funcs() template.FuncMap {
	return template.FuncMap{
		"money":    Money,
		"signed":   SignedMoney,
		"date":     formatDate,
		"percent":  func(p float64) string { return decimal.NewFromFloat(p).Round(0).String() + "%" },
		"inc":      func(n int) int { return n + 1 },
		"header":   r.style(headerStyle),
		"muted":    r.style(mutedStyle),
		"danger":   r.style(dangerStyle),
		"tier":     r.tier,
		"tierOf":   func(p float64) flow.BudgetTier { return flow.TierFor(p) },
		"string":   func(t flow.TransactionType) string { return string(t) },
		"tone":     r.tone,
		"overBy":   overBy,
		"pad":      pad,
		"join":     strings.Join,
		"typeSign": typeSign,
	}
}

func (r *Renderer) style(s lipgloss.Style) func(string) string {
	return func(text string) string {
		if !r.styled {
			return text
		}
		return s.Render(text)
	}
}

func (r *Renderer) tier(t flow.BudgetTier, text string) string {
	switch t {
	case flow.BudgetTierOver:
		return r.style(dangerStyle)(text)
	case flow.BudgetTierWarning:
		return r.style(warningStyle)(text)
	}
	return r.style(successStyle)(text)
}

func (r *Renderer) tone(t flow.Tone, text string) string {
	switch t {
	case flow.ToneDanger:
		return r.style(dangerStyle)(text)
	case flow.ToneWarning:
		return r.style(warningStyle)(text)
	}
	return r.style(mutedStyle)(text)
}

// Money formats an amount as dollars with two decimals
func Money(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-$" + d.Neg().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}

// SignedMoney prefixes income with + and expenses with -
func SignedMoney(t flow.TransactionType, d decimal.Decimal) string {
	return typeSign(t) + Money(d.Abs())
}

func typeSign(t flow.TransactionType) string {
	if t == flow.TransactionTypeIncome {
		return "+"
	}
	return "-"
}

func overBy(b *flow.Budget) string {
	if amount, ok := flow.OverBy(b); ok {
		return Money(amount)
	}
	return ""
}

func formatDate(d flow.Date) string {
	if d.IsZero() {
		return "-"
	}
	return d.Time.Format("Jan 2, 2006")
}

func pad(width int, s string) string {
	if n := lipgloss.Width(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// GoalRow pairs a goal with its countdown
type GoalRow struct {
	Goal     *flow.SavingsGoal
	TimeLeft flow.TimeLeft
}

// GoalRows sorts goals by deadline and attaches their countdowns
func GoalRows(goals []*flow.SavingsGoal, now time.Time) []GoalRow {
	sorted := flow.SortByDeadline(goals, now)
	rows := make([]GoalRow, len(sorted))
	for i, g := range sorted {
		rows[i] = GoalRow{Goal: g, TimeLeft: flow.TimeRemaining(g.TargetDate.Time, now)}
	}
	return rows
}

// TransactionsPage is the data of the transactions screen
type TransactionsPage struct {
	Rows              []*flow.Transaction
	CountLabel        string
	StatusLabel       string
	Filtered          bool
	PaginationVisible bool
	Page              int
	Window            []int
	Totals            flow.TransactionTotals
}

// NewTransactionsPage snapshots a transaction view
func NewTransactionsPage(v *flow.TransactionView) *TransactionsPage {
	return &TransactionsPage{
		Rows:              v.Visible(),
		CountLabel:        v.CountLabel(),
		StatusLabel:       v.StatusLabel(),
		Filtered:          v.Filter().Active(),
		PaginationVisible: v.PaginationVisible(),
		Page:              v.Page(),
		Window:            v.PageWindow(),
		Totals:            v.Totals(),
	}
}

// BudgetsPage is the data of the budgets screen
type BudgetsPage struct {
	Month   flow.BudgetMonth
	Summary *flow.MonthSummary
}

// GoalsPage is the data of the savings goals screen
type GoalsPage struct {
	Rows []GoalRow
}

// DashboardPage is the data of the overview screen
type DashboardPage struct {
	*flow.Dashboard
	Failed []string
}

// NewDashboardPage lists the failed parts in a stable order
func NewDashboardPage(d *flow.Dashboard) *DashboardPage {
	page := &DashboardPage{Dashboard: d}
	for _, part := range flow.DashboardParts {
		if err := d.Err(part); err != nil {
			page.Failed = append(page.Failed, part+": "+flow.UserMessage(err, "failed to load"))
		}
	}
	return page
}
