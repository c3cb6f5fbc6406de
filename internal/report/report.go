// Package report renders the plain-text financial summary export.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"findash/internal/core"
)

const (
	Title = "Financial Summary Report"

	// DefaultFilename is where the export is written unless configured.
	DefaultFilename = "financial_report.txt"

	timestampLayout = "2006-01-02 15:04:05"
)

// Snapshot is everything the export prints.
type Snapshot struct {
	GeneratedAt      time.Time
	TransactionCount int
	Income           decimal.Decimal
	Expenses         decimal.Decimal // sign kept
	Net              decimal.Decimal
	Health           core.HealthScore
	CurrencySymbol   string
}

// Lines returns the export body, one field per line, in fixed order.
func Lines(s Snapshot) []string {
	symbol := s.CurrencySymbol
	if symbol == "" {
		symbol = core.DefaultCurrencySymbol
	}
	return []string{
		Title,
		"Generated: " + s.GeneratedAt.Format(timestampLayout),
		fmt.Sprintf("Transactions: %d", s.TransactionCount),
		"Total Income: " + core.FormatMoney(symbol, s.Income),
		"Total Expenses: " + core.FormatMoney(symbol, s.Expenses),
		"Net Cash Flow: " + core.FormatMoney(symbol, s.Net),
		"Savings Rate: " + core.FormatPercent(s.Health.SavingsRate),
		"Monthly Burn Rate: " + core.FormatMoney(symbol, s.Health.MonthlyBurn),
		fmt.Sprintf("Health Score: %d/100 (%s)", s.Health.Score, s.Health.Status),
	}
}

// Render writes the export to w.
func Render(w io.Writer, s Snapshot) error {
	if _, err := io.WriteString(w, strings.Join(Lines(s), "\n")+"\n"); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
