// Package analytics computes the aggregate views of a transactions table:
// totals, monthly cash flow, rolling averages and category breakdowns.
package analytics

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"findash/internal/core"
)

// RollingWindow is the number of monthly buckets averaged by RollingThreeMonth.
const RollingWindow = 3

// Totals holds the headline figures of a table.
type Totals struct {
	Income   decimal.Decimal // sum of positive amounts
	Expenses decimal.Decimal // sum of negative amounts, sign kept
	Net      decimal.Decimal
	Count    int
}

// Summary bundles every aggregate of one pass.
type Summary struct {
	Totals      Totals
	Monthly     []core.MonthlyAggregate
	Rolling     []core.RollingPoint
	Categories  []core.CategoryTotal
	Volatility  []core.CategoryVolatility
	MonthlyBurn decimal.Decimal
	Ledger      []core.Transaction // newest first
}

// Analyze computes every aggregate for t.
func Analyze(t *core.TransactionTable) Summary {
	return Summary{
		Totals:      ComputeTotals(t),
		Monthly:     MonthlyCashFlow(t),
		Rolling:     RollingThreeMonth(t),
		Categories:  CategoryTotals(t),
		Volatility:  CategoryVolatility(t),
		MonthlyBurn: MonthlyBurn(t),
		Ledger:      NewestFirst(t),
	}
}

// NewestFirst returns a copy of the transactions ordered by date, latest
// first. Rows on the same date keep file order.
func NewestFirst(t *core.TransactionTable) []core.Transaction {
	if t.Len() == 0 {
		return []core.Transaction{}
	}
	out := make([]core.Transaction, len(t.Transactions))
	copy(out, t.Transactions)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// ComputeTotals returns income, expenses and net cash flow.
func ComputeTotals(t *core.TransactionTable) Totals {
	totals := Totals{
		Income:   decimal.Zero,
		Expenses: decimal.Zero,
		Count:    t.Len(),
	}
	if t == nil {
		totals.Net = decimal.Zero
		return totals
	}
	for _, tx := range t.Transactions {
		switch tx.Amount.Sign() {
		case 1:
			totals.Income = totals.Income.Add(tx.Amount)
		case -1:
			totals.Expenses = totals.Expenses.Add(tx.Amount)
		}
	}
	totals.Net = totals.Income.Add(totals.Expenses)
	return totals
}

// MonthlyCashFlow sums every amount per calendar month, ascending.
func MonthlyCashFlow(t *core.TransactionTable) []core.MonthlyAggregate {
	return groupByMonth(t, func(core.Transaction) bool { return true })
}

// MonthlyExpenses sums negative amounts per calendar month, ascending.
// Months without expenses are absent.
func MonthlyExpenses(t *core.TransactionTable) []core.MonthlyAggregate {
	return groupByMonth(t, isExpense)
}

// MonthlyBurn is the mean of the monthly expense sums as a positive
// magnitude. Zero when the table has no expenses.
func MonthlyBurn(t *core.TransactionTable) decimal.Decimal {
	months := MonthlyExpenses(t)
	if len(months) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, m := range months {
		sum = sum.Add(m.Sum)
	}
	return sum.Div(decimal.NewFromInt(int64(len(months)))).Neg()
}

// RollingThreeMonth is RollingAverage with a three month window.
func RollingThreeMonth(t *core.TransactionTable) []core.RollingPoint {
	return RollingAverage(t, RollingWindow)
}

// RollingAverage spreads the monthly sums over every calendar month between
// the first and last month present, filling gaps with zero, and attaches the
// trailing mean of the last window buckets. The first window-1 buckets carry
// no average.
func RollingAverage(t *core.TransactionTable, window int) []core.RollingPoint {
	monthly := MonthlyCashFlow(t)
	if len(monthly) == 0 || window <= 0 {
		return []core.RollingPoint{}
	}

	sums := make(map[core.Month]decimal.Decimal, len(monthly))
	for _, m := range monthly {
		sums[m.Month] = m.Sum
	}

	first, last := monthly[0].Month, monthly[len(monthly)-1].Month
	var points []core.RollingPoint
	for m := first; !last.Before(m); m = m.Next() {
		sum, ok := sums[m]
		if !ok {
			sum = decimal.Zero
		}
		points = append(points, core.RollingPoint{Month: m, Sum: sum})
	}

	divisor := decimal.NewFromInt(int64(window))
	for i := window - 1; i < len(points); i++ {
		acc := decimal.Zero
		for j := i - window + 1; j <= i; j++ {
			acc = acc.Add(points[j].Sum)
		}
		points[i].Average = decimal.NullDecimal{Decimal: acc.Div(divisor), Valid: true}
	}

	return points
}

// CategoryTotals sums expenses per category, most negative first. Rows
// without a category are left out.
func CategoryTotals(t *core.TransactionTable) []core.CategoryTotal {
	groups := groupExpensesByCategory(t)

	totals := make([]core.CategoryTotal, 0, len(groups))
	for _, name := range sortedKeys(groups) {
		sum := decimal.Zero
		for _, a := range groups[name] {
			sum = sum.Add(a)
		}
		totals = append(totals, core.CategoryTotal{Category: name, Sum: sum})
	}

	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Sum.LessThan(totals[j].Sum)
	})
	return totals
}

// CategoryVolatility returns the sample standard deviation (n-1) of expense
// amounts per category. Categories with fewer than two expenses have no
// defined deviation and are left out.
func CategoryVolatility(t *core.TransactionTable) []core.CategoryVolatility {
	groups := groupExpensesByCategory(t)

	out := make([]core.CategoryVolatility, 0, len(groups))
	for _, name := range sortedKeys(groups) {
		amounts := groups[name]
		if len(amounts) < 2 {
			continue
		}
		out = append(out, core.CategoryVolatility{
			Category: name,
			StdDev:   sampleStdDev(amounts),
			Count:    len(amounts),
		})
	}
	return out
}

func sampleStdDev(amounts []decimal.Decimal) float64 {
	n := float64(len(amounts))
	mean := 0.0
	for _, a := range amounts {
		mean += a.InexactFloat64()
	}
	mean /= n

	ss := 0.0
	for _, a := range amounts {
		d := a.InexactFloat64() - mean
		ss += d * d
	}
	return math.Sqrt(ss / (n - 1))
}

func groupByMonth(t *core.TransactionTable, keep func(core.Transaction) bool) []core.MonthlyAggregate {
	if t == nil {
		return []core.MonthlyAggregate{}
	}

	sums := make(map[core.Month]decimal.Decimal)
	for _, tx := range t.Transactions {
		if !keep(tx) {
			continue
		}
		m := tx.Month()
		if cur, ok := sums[m]; ok {
			sums[m] = cur.Add(tx.Amount)
		} else {
			sums[m] = tx.Amount
		}
	}

	months := make([]core.Month, 0, len(sums))
	for m := range sums {
		months = append(months, m)
	}
	core.SortMonths(months)

	out := make([]core.MonthlyAggregate, len(months))
	for i, m := range months {
		out[i] = core.MonthlyAggregate{Month: m, Sum: sums[m]}
	}
	return out
}

func groupExpensesByCategory(t *core.TransactionTable) map[string][]decimal.Decimal {
	groups := make(map[string][]decimal.Decimal)
	if t == nil || !t.HasColumn(core.ColumnCategory) {
		return groups
	}
	for _, tx := range t.Transactions {
		if !isExpense(tx) || tx.Category == "" {
			continue
		}
		groups[tx.Category] = append(groups[tx.Category], tx.Amount)
	}
	return groups
}

func isExpense(tx core.Transaction) bool {
	return tx.Amount.IsNegative()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
