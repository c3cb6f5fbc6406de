package report

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"findash/internal/core"
)

func sample() Snapshot {
	return Snapshot{
		GeneratedAt:      time.Date(2024, 4, 1, 9, 30, 0, 0, time.UTC),
		TransactionCount: 42,
		Income:           decimal.RequireFromString("12500"),
		Expenses:         decimal.RequireFromString("-8250.5"),
		Net:              decimal.RequireFromString("4249.5"),
		Health: core.HealthScore{
			Score:       70,
			Status:      core.StatusSolid,
			SavingsRate: decimal.RequireFromString("33.996"),
			MonthlyBurn: decimal.RequireFromString("2750.1666"),
		},
	}
}

func TestLinesFixedOrder(t *testing.T) {
	want := []string{
		"Financial Summary Report",
		"Generated: 2024-04-01 09:30:00",
		"Transactions: 42",
		"Total Income: $12,500.00",
		"Total Expenses: $-8,250.50",
		"Net Cash Flow: $4,249.50",
		"Savings Rate: 34.00%",
		"Monthly Burn Rate: $2,750.17",
		"Health Score: 70/100 (Solid)",
	}

	got := Lines(sample())
	if len(got) != len(want) {
		t.Fatalf("expected %d lines, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("line %d expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestRenderCustomSymbol(t *testing.T) {
	s := sample()
	s.CurrencySymbol = "€"
	var b strings.Builder
	if err := Render(&b, s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := b.String()
	if !strings.Contains(out, "Total Income: €12,500.00\n") {
		t.Fatalf("expected euro symbol, got:\n%s", out)
	}
	if !strings.HasSuffix(out, "\n") {
		t.Fatalf("report must end with a newline")
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestRenderWriteError(t *testing.T) {
	if err := Render(failingWriter{}, sample()); err == nil {
		t.Fatalf("expected write error")
	}
}
