package services

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"findash/internal/core"
	applog "findash/internal/log"
)

func newTestService(t *testing.T) (*DashboardService, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := applog.New(applog.Config{Level: slog.LevelDebug, Component: applog.ComponentApp, Output: &buf})
	return NewDashboardService(logger, DefaultDashboardConfig()), &buf
}

const scenarioA = `Date,Amount,Category,Description
2024-01-05,100,Income,Paycheck
2024-01-10,-40,Groceries,Groceries
2024-02-10,-40,Groceries,Groceries
2024-03-10,-40,Groceries,Groceries
`

func TestDefaultDashboardConfig(t *testing.T) {
	cfg := DefaultDashboardConfig()
	if cfg.CurrencySymbol != "$" {
		t.Errorf("expected $ symbol, got %q", cfg.CurrencySymbol)
	}
	if len(cfg.DateLayouts) == 0 {
		t.Errorf("expected default date layouts")
	}
}

func TestNewDashboardServiceNilLogger(t *testing.T) {
	svc := NewDashboardService(nil, DefaultDashboardConfig())
	if svc == nil || svc.logger == nil {
		t.Fatal("NewDashboardService should fall back to the default logger")
	}
}

func TestBuildScenarioA(t *testing.T) {
	svc, _ := newTestService(t)

	d, err := svc.Build(context.Background(), DashboardInput{Transactions: strings.NewReader(scenarioA)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.RunID == "" {
		t.Errorf("expected a run id")
	}
	if len(d.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", d.Warnings)
	}
	if d.Summary.Totals.Net.String() != "-20" {
		t.Errorf("expected net -20, got %s", d.Summary.Totals.Net)
	}
	if len(d.Recurring.Groups) != 1 || d.Recurring.Groups[0].Identity != "Groceries" || d.Recurring.Groups[0].Count != 3 {
		t.Fatalf("expected Groceries recurring in 3 months, got %+v", d.Recurring.Groups)
	}
	if d.Health.RecurringCount != 1 {
		t.Errorf("recurring count must feed the scorer, got %d", d.Health.RecurringCount)
	}
	if d.NetWorth != nil {
		t.Errorf("net worth must be nil without an accounts upload")
	}
}

func TestBuildWarnsWithoutIdentityOrCategory(t *testing.T) {
	svc, logs := newTestService(t)
	input := "Date,Amount\n2024-01-05,100\n2024-01-10,-40\n"

	d, err := svc.Build(context.Background(), DashboardInput{Transactions: strings.NewReader(input)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.HasWarning(FeatureRecurring) || !d.HasWarning(FeatureCategories) {
		t.Fatalf("expected recurring and category warnings, got %v", d.Warnings)
	}
	if !d.Recurring.Skipped() {
		t.Errorf("recurring detection should be skipped")
	}
	if d.Health.Score == 0 && d.Health.Status == "" {
		t.Errorf("health must still be scored")
	}
	if !strings.Contains(logs.String(), "feature=recurring") {
		t.Errorf("expected warning to be logged, got %q", logs.String())
	}
}

func TestBuildAccountsMissingColumn(t *testing.T) {
	svc, _ := newTestService(t)
	accounts := "Date,Amount\n2024-01-31,1000\n"

	d, err := svc.Build(context.Background(), DashboardInput{
		Transactions: strings.NewReader(scenarioA),
		Accounts:     strings.NewReader(accounts),
	})
	if err != nil {
		t.Fatalf("missing account columns must not fail the pass: %v", err)
	}
	if d.NetWorth != nil {
		t.Errorf("net worth section must be omitted")
	}
	if !d.HasWarning(FeatureNetWorth) {
		t.Errorf("expected net worth warning, got %v", d.Warnings)
	}
	if len(d.Recurring.Groups) != 1 {
		t.Errorf("other sections must still be computed")
	}
}

func TestBuildWithAccounts(t *testing.T) {
	svc, _ := newTestService(t)
	accounts := "Date,Account,Amount\n2024-01-31,Checking,1000\n2024-02-29,Checking,1250\n"

	d, err := svc.Build(context.Background(), DashboardInput{
		Transactions: strings.NewReader(scenarioA),
		Accounts:     strings.NewReader(accounts),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.NetWorth == nil || len(d.NetWorth.Points) != 2 {
		t.Fatalf("expected two net worth points, got %+v", d.NetWorth)
	}
	if d.NetWorth.Change.String() != "250" {
		t.Errorf("expected change 250, got %s", d.NetWorth.Change)
	}
}

func TestBuildParseErrorsAreFatal(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Build(context.Background(), DashboardInput{Transactions: strings.NewReader("Date,Amount\nsoon,1\n")})
	if !errors.Is(err, core.ErrParse) {
		t.Fatalf("expected parse error, got %v", err)
	}

	_, err = svc.Build(context.Background(), DashboardInput{
		Transactions: strings.NewReader(scenarioA),
		Accounts:     strings.NewReader("Date,Account,Amount\n2024-01-31,Checking,abc\n"),
	})
	if !errors.Is(err, core.ErrParse) {
		t.Fatalf("expected accounts parse error, got %v", err)
	}
}

func TestBuildRequiresTransactions(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.Build(context.Background(), DashboardInput{}); err == nil {
		t.Fatal("expected error without transactions")
	}
}

func TestBuildCancelledContext(t *testing.T) {
	svc, _ := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.Build(ctx, DashboardInput{Transactions: strings.NewReader(scenarioA)}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestBuildIsStatelessAcrossPasses(t *testing.T) {
	svc, _ := newTestService(t)

	first, err := svc.Build(context.Background(), DashboardInput{Transactions: strings.NewReader(scenarioA)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.Build(context.Background(), DashboardInput{Transactions: strings.NewReader("Date,Amount\n")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.RunID == second.RunID {
		t.Errorf("each pass needs its own run id")
	}
	if second.Table.Len() != 0 || !second.Summary.Totals.Net.IsZero() || len(second.Summary.Monthly) != 0 {
		t.Errorf("second pass leaked state from the first: %+v", second.Summary)
	}
}

func TestWriteReport(t *testing.T) {
	svc, _ := newTestService(t)
	d, err := svc.Build(context.Background(), DashboardInput{Transactions: strings.NewReader(scenarioA)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var out bytes.Buffer
	now := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
	if err := svc.WriteReport(context.Background(), &out, d, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	want := []string{
		"Financial Summary Report",
		"Generated: 2024-04-01 12:00:00",
		"Transactions: 4",
		"Total Income: $100.00",
		"Total Expenses: $-120.00",
		"Net Cash Flow: $-20.00",
		"Savings Rate: -20.00%",
		"Monthly Burn Rate: $40.00",
		"Health Score: 30/100 (Needs Work)",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d:\n%s", len(want), len(lines), out.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d expected %q, got %q", i, want[i], lines[i])
		}
	}
}

func TestWriteReportLogsExport(t *testing.T) {
	svc, logs := newTestService(t)
	d, err := svc.Build(context.Background(), DashboardInput{Transactions: strings.NewReader(scenarioA)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.WriteReport(context.Background(), &bytes.Buffer{}, d, time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := logs.String()
	for _, want := range []string{"operation=export", "run_id=" + d.RunID, "operation=score", "operation=detect"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in logs:\n%s", want, out)
		}
	}
}

func TestBuildBlankAmountDropsOutOfSums(t *testing.T) {
	svc, _ := newTestService(t)
	input := "Date,Amount,Category\n2024-01-05,100,Salary\n2024-01-06,,Groceries\n2024-02-10,-40,Groceries\n"

	d, err := svc.Build(context.Background(), DashboardInput{Transactions: strings.NewReader(input)})
	if err != nil {
		t.Fatalf("blank amount must not fail the pass: %v", err)
	}
	if d.Table.Len() != 3 || d.Summary.Totals.Net.String() != "60" {
		t.Fatalf("expected 3 rows and net 60, got %d rows net %s", d.Table.Len(), d.Summary.Totals.Net)
	}
	if len(d.Summary.Categories) != 1 || !d.Summary.Categories[0].Sum.Equal(d.Summary.Totals.Expenses) {
		t.Errorf("blank row must not count as an expense: %+v", d.Summary.Categories)
	}
	if len(d.Summary.Ledger) != 3 || d.Summary.Ledger[0].Date.Month() != time.February {
		t.Errorf("expected newest first ledger, got %+v", d.Summary.Ledger)
	}
}
