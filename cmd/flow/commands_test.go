package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/eshaffer321/flowmoney-go/internal/config"
	"github.com/eshaffer321/flowmoney-go/pkg/flow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

func envelope(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "data": data})
}

// fakeAPI serves the few endpoints the commands touch
func fakeAPI(t *testing.T, created *map[string]interface{}) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		envelope(w, map[string]string{"token": "fresh-token"})
	})
	mux.HandleFunc("/api/v1/transactions", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			body := map[string]interface{}{}
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			if created != nil {
				*created = body
			}
			envelope(w, map[string]interface{}{"id": 99, "description": body["description"], "type": body["type"], "amount": body["amount"]})
			return
		}
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		envelope(w, map[string]interface{}{
			"content": []map[string]interface{}{
				{"id": 1, "description": "Coffee", "categoryName": "Food", "type": "EXPENSE", "amount": 52.00, "transactionDate": "2025-06-01"},
				{"id": 2, "description": "Salary", "categoryName": "Work", "type": "INCOME", "amount": 3000, "transactionDate": "2025-06-02"},
			},
			"number":        0,
			"totalPages":    1,
			"totalElements": 2,
		})
	})
	mux.HandleFunc("/api/v1/budgets", func(w http.ResponseWriter, r *http.Request) {
		envelope(w, []map[string]interface{}{
			{"id": 1, "categoryName": "Groceries", "limitAmount": 500, "spentAmount": 600, "percentageUsed": 120, "month": "2025-06-01"},
			{"id": 2, "categoryName": "Fuel", "limitAmount": 100, "spentAmount": 10, "percentageUsed": 10, "month": "2025-05-01"},
		})
	})
	mux.HandleFunc("/api/v1/savings-goals", func(w http.ResponseWriter, r *http.Request) {
		envelope(w, []map[string]interface{}{
			{"id": 1, "name": "Laptop", "targetAmount": 900, "targetDate": "2025-06-15"},
			{"id": 2, "name": "Trip", "targetAmount": 2000, "targetDate": "2025-06-09"},
		})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestApp(t *testing.T, server *httptest.Server, token string) (*app, *bytes.Buffer) {
	t.Helper()
	return newTestAppWith(t, testConfig(t, server, token))
}

func testConfig(t *testing.T, server *httptest.Server, token string) *config.Config {
	return &config.Config{
		APIURL:      server.URL + "/api/v1",
		Token:       token,
		SessionFile: filepath.Join(t.TempDir(), "session.json"),
		Timeout:     5 * time.Second,
		LogLevel:    "error",
	}
}

func newTestAppWith(t *testing.T, cfg *config.Config) (*app, *bytes.Buffer) {
	t.Helper()
	require.NoError(t, cfg.Validate())

	var out bytes.Buffer
	a, err := newApp(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), &out, false)
	require.NoError(t, err)
	a.now = func() time.Time { return testNow }
	return a, &out
}

func TestRun_RequiresSession(t *testing.T) {
	a, _ := newTestApp(t, fakeAPI(t, nil), "")

	err := a.run(context.Background(), "budgets", nil)
	assert.ErrorIs(t, err, errNotSignedIn)

	err = a.run(context.Background(), "bogus", nil)
	assert.ErrorContains(t, err, `unknown command "bogus"`)
}

func TestRun_Login(t *testing.T) {
	t.Setenv("FLOW_PASSWORD", "")
	cfg := testConfig(t, fakeAPI(t, nil), "")
	a, out := newTestAppWith(t, cfg)
	a.in = strings.NewReader("secret-password\n")

	require.NoError(t, a.run(context.Background(), "login", []string{"-email", "ada@example.com"}))
	assert.Contains(t, out.String(), "Signed in as ada@example.com")
	assert.True(t, a.client.IsAuthenticated())

	_, err := os.Stat(cfg.SessionFile)
	require.NoError(t, err)

	// a second process picks the saved session up
	restored, _ := newTestAppWith(t, cfg)
	assert.True(t, restored.client.IsAuthenticated())

	require.NoError(t, restored.run(context.Background(), "logout", nil))
	_, err = os.Stat(cfg.SessionFile)
	assert.True(t, os.IsNotExist(err))
}

func TestRun_Transactions(t *testing.T) {
	a, out := newTestApp(t, fakeAPI(t, nil), "tok")

	require.NoError(t, a.run(context.Background(), "transactions", []string{"-query", "52.00"}))

	assert.Contains(t, out.String(), "1 filtered / 2 total")
	assert.Contains(t, out.String(), "Coffee")
	assert.NotContains(t, out.String(), "Salary")
}

func TestRun_TransactionsBadFlags(t *testing.T) {
	a, _ := newTestApp(t, fakeAPI(t, nil), "tok")

	assert.Error(t, a.run(context.Background(), "transactions", []string{"-type", "TRANSFER"}))
	assert.Error(t, a.run(context.Background(), "transactions", []string{"-from", "June"}))
	assert.Error(t, a.run(context.Background(), "transactions", []string{"-size", "7"}))
	assert.ErrorContains(t, a.run(context.Background(), "transactions", []string{"-page", "3"}), "page 3 does not exist")
	assert.ErrorContains(t, a.run(context.Background(), "transactions", []string{"-page", "0"}), "pages start at 1")
	assert.ErrorContains(t, a.run(context.Background(), "transactions", []string{"-page", "-2"}), "invalid -page -2")
}

func TestNewApp_ComponentAttribute(t *testing.T) {
	var logs bytes.Buffer
	base := slog.New(slog.NewTextHandler(&logs, nil))

	a, err := newApp(testConfig(t, fakeAPI(t, nil), "tok"), base, io.Discard, false)
	require.NoError(t, err)
	a.now = func() time.Time { return testNow }

	// the fake API has no profile or analytics routes, so the client logs each failed part
	_ = a.run(context.Background(), "dashboard", nil)
	a.logger.Info("done")

	lines := strings.Split(strings.TrimSpace(logs.String()), "\n")
	require.NotEmpty(t, lines)
	var client, cli int
	for _, line := range lines {
		assert.Equal(t, 1, strings.Count(line, "component="), line)
		switch {
		case strings.Contains(line, "component=client"):
			client++
		case strings.Contains(line, "component=cli"):
			cli++
		}
	}
	assert.Positive(t, client)
	assert.Equal(t, 1, cli)
}

func TestRun_AddTransaction(t *testing.T) {
	var created map[string]interface{}
	a, out := newTestApp(t, fakeAPI(t, &created), "tok")

	err := a.run(context.Background(), "add-transaction", []string{"-category", "4", "-amount", "12.5", "-description", "Lunch"})
	require.NoError(t, err)

	assert.Equal(t, "Lunch", created["description"])
	assert.Equal(t, "EXPENSE", created["type"])
	assert.Equal(t, "2025-06-10", created["transactionDate"])
	assert.Contains(t, out.String(), "Transaction #99 saved: Lunch -$12.50")
}

func TestRun_AddTransactionValidation(t *testing.T) {
	a, _ := newTestApp(t, fakeAPI(t, nil), "tok")

	err := a.run(context.Background(), "add-transaction", []string{"-category", "4", "-description", "Lunch"})
	require.Error(t, err)
	assert.Equal(t, "Amount must be a valid positive number", flow.UserMessage(err, ""))
}

func TestRun_Budgets(t *testing.T) {
	a, out := newTestApp(t, fakeAPI(t, nil), "tok")

	require.NoError(t, a.run(context.Background(), "budgets", nil))

	assert.Contains(t, out.String(), "Budgets for June 2025")
	assert.Contains(t, out.String(), "120% used")
	assert.NotContains(t, out.String(), "Fuel")

	out.Reset()
	require.NoError(t, a.run(context.Background(), "budgets", []string{"-month", "2025-05"}))
	assert.Contains(t, out.String(), "Fuel")
	assert.Contains(t, out.String(), "10% used")
}

func TestRun_Goals(t *testing.T) {
	a, out := newTestApp(t, fakeAPI(t, nil), "tok")

	require.NoError(t, a.run(context.Background(), "goals", nil))

	text := out.String()
	assert.Less(t, strings.Index(text, "Trip"), strings.Index(text, "Laptop"))
	assert.Contains(t, text, "Overdue")
	assert.Contains(t, text, "5 days left")
}
