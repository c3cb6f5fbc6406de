// Package health rates a transactions table with a fixed-threshold score.
//
// The score is the sum of three all-or-nothing rules:
//
//	+40 savings rate above 20%
//	+30 monthly burn below a twelfth of total income
//	+30 fewer than 10 recurring groups
//
// so it can only be 0, 30, 40, 60, 70 or 100.
package health

import (
	"github.com/shopspring/decimal"

	"findash/internal/analytics"
	"findash/internal/core"
)

const (
	SavingsPoints   = 40
	BurnPoints      = 30
	RecurringPoints = 30

	MaxRecurringGroups = 10
)

var (
	savingsThreshold = decimal.NewFromInt(20)
	hundred          = decimal.NewFromInt(100)
	twelve           = decimal.NewFromInt(12)
)

// Inputs are the figures the score is computed from.
type Inputs struct {
	Income         decimal.Decimal // sum of positive amounts
	Expenses       decimal.Decimal // magnitude of the sum of negative amounts
	MonthlyBurn    decimal.Decimal // positive magnitude
	RecurringCount int
}

// InputsFrom derives scorer inputs from an analysis summary.
func InputsFrom(s analytics.Summary, recurringCount int) Inputs {
	return Inputs{
		Income:         s.Totals.Income,
		Expenses:       s.Totals.Expenses.Abs(),
		MonthlyBurn:    s.MonthlyBurn,
		RecurringCount: recurringCount,
	}
}

// SavingsRate returns 100 * (income - expenses) / income, or zero when there
// is no income.
func SavingsRate(income, expenses decimal.Decimal) decimal.Decimal {
	if income.IsZero() {
		return decimal.Zero
	}
	return income.Sub(expenses).Mul(hundred).Div(income)
}

// Score applies the three rules to in.
func Score(in Inputs) core.HealthScore {
	rate := SavingsRate(in.Income, in.Expenses)

	score := 0
	if rate.GreaterThan(savingsThreshold) {
		score += SavingsPoints
	}
	if in.MonthlyBurn.LessThan(in.Income.Div(twelve)) {
		score += BurnPoints
	}
	if in.RecurringCount < MaxRecurringGroups {
		score += RecurringPoints
	}

	return core.HealthScore{
		Score:          score,
		Status:         core.StatusFor(score),
		SavingsRate:    rate,
		MonthlyBurn:    in.MonthlyBurn,
		Income:         in.Income,
		Expenses:       in.Expenses,
		RecurringCount: in.RecurringCount,
	}
}
