// Package networth sums account balances into a net-worth time series.
package networth

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"findash/internal/core"
)

// AccountBalance is the most recent balance reported for one account.
type AccountBalance struct {
	Account string
	Date    time.Time
	Amount  decimal.Decimal
}

type Result struct {
	Points    []core.NetWorthPoint // ascending by date
	Change    decimal.Decimal      // last point minus first point
	ByAccount []AccountBalance     // ordered by account name
}

// Latest returns the most recent net-worth point.
func (r Result) Latest() (core.NetWorthPoint, bool) {
	if len(r.Points) == 0 {
		return core.NetWorthPoint{}, false
	}
	return r.Points[len(r.Points)-1], true
}

// Aggregate sums every snapshot sharing a date. The change spans the
// chronologically first and last dates.
func Aggregate(a *core.AccountTable) Result {
	res := Result{
		Points:    []core.NetWorthPoint{},
		Change:    decimal.Zero,
		ByAccount: []AccountBalance{},
	}
	if a == nil || len(a.Snapshots) == 0 {
		return res
	}

	sums := make(map[time.Time]decimal.Decimal)
	latest := make(map[string]AccountBalance)
	for _, s := range a.Snapshots {
		if cur, ok := sums[s.Date]; ok {
			sums[s.Date] = cur.Add(s.Amount)
		} else {
			sums[s.Date] = s.Amount
		}

		if prev, ok := latest[s.Account]; !ok || !s.Date.Before(prev.Date) {
			latest[s.Account] = AccountBalance{Account: s.Account, Date: s.Date, Amount: s.Amount}
		}
	}

	dates := make([]time.Time, 0, len(sums))
	for d := range sums {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	for _, d := range dates {
		res.Points = append(res.Points, core.NetWorthPoint{Date: d, Amount: sums[d]})
	}
	res.Change = res.Points[len(res.Points)-1].Amount.Sub(res.Points[0].Amount)

	for _, b := range latest {
		res.ByAccount = append(res.ByAccount, b)
	}
	sort.Slice(res.ByAccount, func(i, j int) bool {
		return res.ByAccount[i].Account < res.ByAccount[j].Account
	})

	return res
}
