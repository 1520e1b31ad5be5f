package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/eshaffer321/flowmoney-go/internal/render"
	"github.com/eshaffer321/flowmoney-go/pkg/flow"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var errNotSignedIn = errors.New("not signed in, run 'flow login' first")

type app struct {
	client   *flow.Client
	renderer *render.Renderer
	out      io.Writer
	in       io.Reader
	logger   *slog.Logger
	now      func() time.Time
}

type command struct {
	usage string
	auth  bool
	run   func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]command{
	"login":           {usage: "sign in and save the session", run: runLogin},
	"logout":          {usage: "forget the saved session", run: runLogout},
	"dashboard":       {usage: "show the overview", auth: true, run: runDashboard},
	"transactions":    {usage: "list and filter transactions", auth: true, run: runTransactions},
	"add-transaction": {usage: "record an income or expense", auth: true, run: runAddTransaction},
	"budgets":         {usage: "show the budgets of a month", auth: true, run: runBudgets},
	"goals":           {usage: "list savings goals by deadline", auth: true, run: runGoals},
	"contribute":      {usage: "add money to a savings goal", auth: true, run: runContribute},
	"categories":      {usage: "list categories", auth: true, run: runCategories},
	"profile":         {usage: "show the profile", auth: true, run: runProfile},
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: flow <command> [flags]")
	fmt.Fprintln(w)
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-16s %s\n", name, commands[name].usage)
	}
}

func (a *app) run(ctx context.Context, name string, args []string) error {
	cmd, ok := commands[name]
	if !ok {
		usage(a.out)
		return fmt.Errorf("unknown command %q", name)
	}
	if cmd.auth && !a.client.IsAuthenticated() {
		return errNotSignedIn
	}
	a.logger.Debug("Running command", "command", name)
	return cmd.run(ctx, a, args)
}

func (a *app) today() time.Time {
	if a.now != nil {
		return a.now()
	}
	return time.Now()
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	return fs
}

func runLogin(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("login")
	email := fs.String("email", "", "account email")
	password := fs.String("password", os.Getenv("FLOW_PASSWORD"), "account password (read from stdin when empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *email == "" {
		return errors.New("-email is required")
	}
	if *password == "" {
		line, err := bufio.NewReader(a.in).ReadString('\n')
		if err != nil && err != io.EOF {
			return errors.Wrap(err, "read password")
		}
		*password = strings.TrimRight(line, "\r\n")
	}

	if err := a.client.Auth.Login(ctx, *email, *password); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Signed in as %s\n", *email)
	return nil
}

func runLogout(_ context.Context, a *app, _ []string) error {
	if err := a.client.Auth.Logout(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Signed out")
	return nil
}

func runDashboard(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("dashboard")
	trendRange := fs.String("range", flow.TrendRangeSixMonths, "trend range: 6months or 12months")
	recent := fs.Int("recent", 5, "number of recent transactions")
	if err := fs.Parse(args); err != nil {
		return err
	}

	d := a.client.LoadDashboard(ctx, &flow.DashboardOptions{
		TrendRange:  *trendRange,
		RecentLimit: *recent,
		Now:         a.today(),
	})
	return a.renderer.Render(a.out, "dashboard", render.NewDashboardPage(d))
}

// transactionFlags are the filters and paging of the transactions command
type transactionFlags struct {
	page   int
	size   int
	filter flow.TransactionFilter
}

func parseTransactionFlags(args []string) (*transactionFlags, error) {
	fs := newFlagSet("transactions")
	page := fs.Int("page", 1, "page number, starting at 1")
	size := fs.Int("size", flow.DefaultPageSize, fmt.Sprintf("page size, one of %v", flow.PageSizes))
	query := fs.String("query", "", "search description, category or amount")
	typ := fs.String("type", string(flow.TransactionTypeAll), "ALL, INCOME or EXPENSE")
	from := fs.String("from", "", "first date, YYYY-MM-DD")
	to := fs.String("to", "", "last date, YYYY-MM-DD")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if *page < 1 {
		return nil, fmt.Errorf("invalid -page %d, pages start at 1", *page)
	}

	f := &transactionFlags{page: *page - 1, size: *size}
	f.filter.Query = *query

	switch t := flow.TransactionType(strings.ToUpper(*typ)); t {
	case flow.TransactionTypeAll, flow.TransactionTypeIncome, flow.TransactionTypeExpense:
		f.filter.Type = t
	default:
		return nil, fmt.Errorf("invalid -type %q", *typ)
	}

	var err error
	if f.filter.StartDate, err = flow.ParseDate(*from); err != nil {
		return nil, errors.Wrap(err, "invalid -from")
	}
	if f.filter.EndDate, err = flow.ParseDate(*to); err != nil {
		return nil, errors.Wrap(err, "invalid -to")
	}
	return f, nil
}

func runTransactions(ctx context.Context, a *app, args []string) error {
	f, err := parseTransactionFlags(args)
	if err != nil {
		return err
	}

	view := flow.NewTransactionView(a.client.Transactions, flow.NewSlogLogger(a.logger))
	if err := view.SetPageSize(ctx, f.size); err != nil {
		return err
	}
	if f.page > 0 {
		if f.page >= view.TotalPages() {
			return fmt.Errorf("page %d does not exist, there are %d", f.page+1, view.TotalPages())
		}
		if err := view.GoTo(ctx, f.page); err != nil {
			return err
		}
	}
	view.SetFilter(f.filter)

	return a.renderer.Render(a.out, "transactions", render.NewTransactionsPage(view))
}

func runAddTransaction(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("add-transaction")
	category := fs.Int64("category", 0, "category id")
	amount := fs.String("amount", "", "positive amount")
	typ := fs.String("type", string(flow.TransactionTypeExpense), "INCOME or EXPENSE")
	description := fs.String("description", "", "what it was for")
	date := fs.String("date", "", "YYYY-MM-DD, today when empty")
	if err := fs.Parse(args); err != nil {
		return err
	}

	params := &flow.CreateTransactionParams{
		CategoryID:  *category,
		Type:        flow.TransactionType(strings.ToUpper(*typ)),
		Description: *description,
	}

	var err error
	if params.Amount, err = parseAmount(*amount); err != nil {
		return err
	}
	if *date == "" {
		now := a.today()
		params.TransactionDate = flow.NewDate(now.Year(), now.Month(), now.Day())
	} else if params.TransactionDate, err = flow.ParseDate(*date); err != nil {
		return errors.Wrap(err, "invalid -date")
	}

	txn, err := a.client.Transactions.Create(ctx, params)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Transaction #%d saved: %s %s\n", txn.ID, txn.Description, render.SignedMoney(txn.Type, txn.Amount))
	return nil
}

func runBudgets(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("budgets")
	month := fs.String("month", "", "YYYY-MM, the current month when empty")
	if err := fs.Parse(args); err != nil {
		return err
	}

	m := flow.CurrentBudgetMonth(a.today())
	if *month != "" {
		var err error
		if m, err = flow.ParseBudgetMonth(*month); err != nil {
			return errors.Wrap(err, "invalid -month")
		}
	}

	budgets, err := a.client.Budgets.List(ctx)
	if err != nil {
		return err
	}

	return a.renderer.Render(a.out, "budgets", &render.BudgetsPage{Month: m, Summary: m.Summarize(budgets)})
}

func runGoals(ctx context.Context, a *app, _ []string) error {
	goals, err := a.client.SavingsGoals.List(ctx)
	if err != nil {
		return err
	}
	return a.renderer.Render(a.out, "goals", &render.GoalsPage{Rows: render.GoalRows(goals, a.today())})
}

func runContribute(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("contribute")
	goal := fs.Int64("goal", 0, "savings goal id")
	amount := fs.String("amount", "", "positive amount")
	note := fs.String("note", "", "optional note")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *goal <= 0 {
		return errors.New("-goal is required")
	}

	value, err := parseAmount(*amount)
	if err != nil {
		return err
	}

	g, err := a.client.SavingsGoals.Contribute(ctx, *goal, &flow.ContributionParams{Amount: value, Note: *note})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s: %s of %s saved\n", g.Name, render.Money(g.CurrentAmount), render.Money(g.TargetAmount))
	return nil
}

func runCategories(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("categories")
	typ := fs.String("type", string(flow.TransactionTypeAll), "ALL, INCOME or EXPENSE")
	if err := fs.Parse(args); err != nil {
		return err
	}

	categories, err := a.client.Categories.List(ctx)
	if err != nil {
		return err
	}

	filtered := flow.CategoriesOfType(categories, flow.TransactionType(strings.ToUpper(*typ)))
	return a.renderer.Render(a.out, "categories", filtered)
}

func runProfile(ctx context.Context, a *app, _ []string) error {
	profile, err := a.client.Users.Profile(ctx)
	if err != nil {
		return err
	}
	return a.renderer.Render(a.out, "profile", profile)
}

// parseAmount leaves range checks to form validation
func parseAmount(s string) (decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	return d, nil
}
