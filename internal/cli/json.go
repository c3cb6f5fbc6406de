package cli

import (
	"encoding/json"
	"io"

	"github.com/shopspring/decimal"

	"findash/internal/core"
	"findash/internal/services"
)

type dashboardJSON struct {
	RunID            string            `json:"run_id"`
	TransactionCount int               `json:"transaction_count"`
	Currency         string            `json:"currency"`
	Totals           totalsJSON        `json:"totals"`
	Formatted        map[string]string `json:"formatted"`
	Monthly          []monthJSON       `json:"monthly"`
	Categories       []categoryJSON    `json:"categories,omitempty"`
	Volatility       []volatilityJSON  `json:"volatility,omitempty"`
	Recurring        *recurringJSON    `json:"recurring,omitempty"`
	Health           healthJSON        `json:"health"`
	NetWorth         *netWorthJSON     `json:"net_worth,omitempty"`
	Transactions     []transactionJSON `json:"transactions"`
	Warnings         []core.Warning    `json:"warnings"`
}

type transactionJSON struct {
	Date     string              `json:"date"`
	Amount   decimal.NullDecimal `json:"amount"`
	Category string              `json:"category,omitempty"`
	Fields   map[string]string   `json:"fields"`
}

type totalsJSON struct {
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Net      decimal.Decimal `json:"net"`
}

type monthJSON struct {
	Month          string              `json:"month"`
	MonthEnd       string              `json:"month_end"`
	Net            decimal.Decimal     `json:"net"`
	RollingAverage decimal.NullDecimal `json:"rolling_average"`
}

type categoryJSON struct {
	Category string          `json:"category"`
	Spent    decimal.Decimal `json:"spent"`
}

type volatilityJSON struct {
	Category string  `json:"category"`
	StdDev   float64 `json:"std_dev"`
	Count    int     `json:"count"`
}

type recurringJSON struct {
	Column string               `json:"column"`
	Months []string             `json:"months"`
	Groups []recurringGroupJSON `json:"groups"`
}

type recurringGroupJSON struct {
	Identity     string         `json:"identity"`
	Months       int            `json:"months"`
	ActiveMonths []string       `json:"active_months"`
	Presence     map[string]int `json:"presence"`
}

type healthJSON struct {
	Score          int             `json:"score"`
	Status         string          `json:"status"`
	SavingsRate    decimal.Decimal `json:"savings_rate"`
	MonthlyBurn    decimal.Decimal `json:"monthly_burn"`
	RecurringCount int             `json:"recurring_count"`
}

type netWorthJSON struct {
	Points   []netWorthPointJSON        `json:"points"`
	Latest   *netWorthPointJSON         `json:"latest,omitempty"`
	Change   decimal.Decimal            `json:"change"`
	Accounts map[string]decimal.Decimal `json:"accounts"`
}

type netWorthPointJSON struct {
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

// RenderJSON writes d to w as an indented JSON document.
func RenderJSON(w io.Writer, d *services.Dashboard, symbol string) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toJSON(d, symbol))
}

func toJSON(d *services.Dashboard, symbol string) dashboardJSON {
	if symbol == "" {
		symbol = core.DefaultCurrencySymbol
	}
	t := d.Summary.Totals
	out := dashboardJSON{
		RunID:            d.RunID,
		TransactionCount: d.Table.Len(),
		Currency:         symbol,
		Totals:           totalsJSON{Income: t.Income, Expenses: t.Expenses, Net: t.Net},
		Monthly:          make([]monthJSON, 0, len(d.Summary.Rolling)),
		Transactions:     make([]transactionJSON, 0, len(d.Summary.Ledger)),
		Health: healthJSON{
			Score:          d.Health.Score,
			Status:         d.Health.Status.String(),
			SavingsRate:    d.Health.SavingsRate.Round(2),
			MonthlyBurn:    d.Health.MonthlyBurn,
			RecurringCount: d.Health.RecurringCount,
		},
		Warnings: d.Warnings,
		Formatted: map[string]string{
			"income":       core.FormatMoney(symbol, t.Income),
			"expenses":     core.FormatMoney(symbol, t.Expenses),
			"net":          core.FormatMoney(symbol, t.Net),
			"savings_rate": core.FormatPercent(d.Health.SavingsRate),
			"monthly_burn": core.FormatMoney(symbol, d.Health.MonthlyBurn),
		},
	}
	if out.Warnings == nil {
		out.Warnings = []core.Warning{}
	}

	for _, p := range d.Summary.Rolling {
		out.Monthly = append(out.Monthly, monthJSON{
			Month:          p.Month.String(),
			MonthEnd:       p.Month.End().Format(dateLayout),
			Net:            p.Sum,
			RollingAverage: p.Average,
		})
	}
	for _, c := range d.Summary.Categories {
		out.Categories = append(out.Categories, categoryJSON{Category: c.Category, Spent: c.Sum})
	}
	for _, c := range d.Summary.Volatility {
		out.Volatility = append(out.Volatility, volatilityJSON{Category: c.Category, StdDev: c.StdDev, Count: c.Count})
	}

	if !d.Recurring.Skipped() {
		r := &recurringJSON{Column: d.Recurring.Column, Groups: []recurringGroupJSON{}}
		for _, m := range d.Recurring.Months {
			r.Months = append(r.Months, m.String())
		}
		for _, g := range d.Recurring.Groups {
			presence := make(map[string]int, len(g.Presence))
			for m, n := range g.Presence {
				presence[m.String()] = n
			}
			active := make([]string, 0, g.Count)
			for _, m := range g.Months() {
				active = append(active, m.String())
			}
			r.Groups = append(r.Groups, recurringGroupJSON{Identity: g.Identity, Months: g.Count, ActiveMonths: active, Presence: presence})
		}
		out.Recurring = r
	}

	if d.NetWorth != nil {
		nw := &netWorthJSON{Change: d.NetWorth.Change, Accounts: make(map[string]decimal.Decimal, len(d.NetWorth.ByAccount))}
		for _, p := range d.NetWorth.Points {
			nw.Points = append(nw.Points, netWorthPointJSON{Date: p.Date.Format(dateLayout), Amount: p.Amount})
		}
		if latest, ok := d.NetWorth.Latest(); ok {
			nw.Latest = &netWorthPointJSON{Date: latest.Date.Format(dateLayout), Amount: latest.Amount}
		}
		for _, a := range d.NetWorth.ByAccount {
			nw.Accounts[a.Account] = a.Amount
		}
		out.NetWorth = nw
	}

	for _, tx := range d.Summary.Ledger {
		out.Transactions = append(out.Transactions, transactionJSON{
			Date:     tx.Date.Format(dateLayout),
			Amount:   decimal.NullDecimal{Decimal: tx.Amount, Valid: tx.HasAmount()},
			Category: tx.Category,
			Fields:   tx.Fields,
		})
	}

	return out
}
