package core

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusNeedsWork HealthStatus = "Needs Work"
	StatusSolid     HealthStatus = "Solid"
	StatusExcellent HealthStatus = "Excellent"
)

// Column names the engine reads from uploaded tables.
const (
	ColumnDate        = "Date"
	ColumnAmount      = "Amount"
	ColumnCategory    = "Category"
	ColumnDescription = "Description"
	ColumnPayee       = "Payee"
	ColumnMerchant    = "Merchant"
	ColumnAccountName = "Account Name"
	ColumnAccount     = "Account"
)

type (
	HealthStatus string

	// Month identifies a calendar month without a day.
	Month struct {
		Year  int
		Month time.Month
	}

	Transaction struct {
		Date     time.Time
		Amount   decimal.Decimal
		Category string            // empty when the row has no category
		Fields   map[string]string // raw cells keyed by trimmed column name
	}

	// TransactionTable is the parsed transactions upload, in file order.
	TransactionTable struct {
		Columns      []string
		Transactions []Transaction
	}

	MonthlyAggregate struct {
		Month Month
		Sum   decimal.Decimal
	}

	RollingPoint struct {
		Month   Month
		Sum     decimal.Decimal
		Average decimal.NullDecimal
	}

	CategoryTotal struct {
		Category string
		Sum      decimal.Decimal
	}

	CategoryVolatility struct {
		Category string
		StdDev   float64
		Count    int
	}

	RecurringGroup struct {
		Identity string
		Presence map[Month]int
		Count    int
	}

	AccountSnapshot struct {
		Date    time.Time
		Account string
		Amount  decimal.Decimal
	}

	// AccountTable is the parsed accounts upload, in file order.
	AccountTable struct {
		Columns   []string
		Snapshots []AccountSnapshot
	}

	NetWorthPoint struct {
		Date   time.Time
		Amount decimal.Decimal
	}

	HealthScore struct {
		Score          int
		Status         HealthStatus
		SavingsRate    decimal.Decimal
		MonthlyBurn    decimal.Decimal
		Income         decimal.Decimal
		Expenses       decimal.Decimal
		RecurringCount int
	}

	// Warning is a non-fatal condition that disables one dashboard feature.
	Warning struct {
		Feature string `json:"feature"`
		Message string `json:"message"`
	}
)

var (
	ErrParse         = errors.New("parse error")
	ErrMissingColumn = errors.New("missing column")
	ErrEmptyFile     = errors.New("empty file")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date")
)

// MonthOf returns the calendar month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// String formats the month as YYYY-MM.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Before reports whether m is earlier than o.
func (m Month) Before(o Month) bool {
	if m.Year != o.Year {
		return m.Year < o.Year
	}
	return m.Month < o.Month
}

// Next returns the following calendar month.
func (m Month) Next() Month {
	if m.Month == time.December {
		return Month{Year: m.Year + 1, Month: time.January}
	}
	return Month{Year: m.Year, Month: m.Month + 1}
}

// End returns the last day of the month at midnight UTC.
func (m Month) End() time.Time {
	return time.Date(m.Year, m.Month+1, 0, 0, 0, 0, 0, time.UTC)
}

// Month returns the calendar month of the transaction date.
func (t Transaction) Month() Month {
	return MonthOf(t.Date)
}

// Field returns the trimmed cell value for column, or "" when absent.
func (t Transaction) Field(column string) string {
	if t.Fields == nil {
		return ""
	}
	return t.Fields[column]
}

// HasAmount reports whether the Amount cell was filled in. Blank cells load
// as zero.
func (t Transaction) HasAmount() bool {
	return t.Field(ColumnAmount) != ""
}

// HasColumn reports whether the table carries the named column. Names are
// compared case-sensitively.
func (t *TransactionTable) HasColumn(name string) bool {
	return hasColumn(t.Columns, name)
}

// Len returns the number of transactions.
func (t *TransactionTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Transactions)
}

// HasColumn reports whether the accounts table carries the named column.
func (a *AccountTable) HasColumn(name string) bool {
	return hasColumn(a.Columns, name)
}

func hasColumn(columns []string, name string) bool {
	for _, c := range columns {
		if c == name {
			return true
		}
	}
	return false
}

// StatusFor maps a score to its status label.
func StatusFor(score int) HealthStatus {
	switch {
	case score >= 80:
		return StatusExcellent
	case score >= 50:
		return StatusSolid
	default:
		return StatusNeedsWork
	}
}

// String implements fmt.Stringer
func (s HealthStatus) String() string {
	return string(s)
}

// Months returns the months of the presence table in ascending order.
func (g RecurringGroup) Months() []Month {
	months := make([]Month, 0, len(g.Presence))
	for m := range g.Presence {
		months = append(months, m)
	}
	SortMonths(months)
	return months
}

// SortMonths sorts months ascending in place.
func SortMonths(months []Month) {
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })
}
