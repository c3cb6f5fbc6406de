// Package recurring finds payees, merchants or descriptions that show up in
// several distinct calendar months.
package recurring

import (
	"sort"

	"findash/internal/core"
)

// MinMonths is the number of distinct months an identity must appear in to
// count as recurring.
const MinMonths = 3

// IdentityColumns is the grouping-column priority. The first column present in
// the table is used.
var IdentityColumns = []string{
	core.ColumnDescription,
	core.ColumnPayee,
	core.ColumnMerchant,
	core.ColumnAccountName,
}

// Result is the outcome of one detection pass.
type Result struct {
	Column string               // grouping column, empty when detection was skipped
	Months []core.Month         // every month present in the table, ascending
	Groups []core.RecurringGroup // recurring identities, most months first
}

// Skipped reports whether no identity column was available.
func (r Result) Skipped() bool {
	return r.Column == ""
}

// SelectColumn returns the first identity column present in t.
func SelectColumn(t *core.TransactionTable) (string, bool) {
	if t == nil {
		return "", false
	}
	for _, c := range IdentityColumns {
		if t.HasColumn(c) {
			return c, true
		}
	}
	return "", false
}

// Detect groups transactions by identity and month and keeps identities seen
// in at least MinMonths distinct months. Ties on the month count keep
// identity order.
func Detect(t *core.TransactionTable) Result {
	column, ok := SelectColumn(t)
	if !ok {
		return Result{Groups: []core.RecurringGroup{}}
	}

	presence := make(map[string]map[core.Month]int)
	seen := make(map[core.Month]struct{})
	for _, tx := range t.Transactions {
		m := tx.Month()
		seen[m] = struct{}{}

		identity := tx.Field(column)
		if identity == "" {
			continue
		}
		if presence[identity] == nil {
			presence[identity] = make(map[core.Month]int)
		}
		presence[identity][m]++
	}

	identities := make([]string, 0, len(presence))
	for id := range presence {
		identities = append(identities, id)
	}
	sort.Strings(identities)

	groups := make([]core.RecurringGroup, 0)
	for _, id := range identities {
		count := 0
		for _, n := range presence[id] {
			if n > 0 {
				count++
			}
		}
		if count < MinMonths {
			continue
		}
		groups = append(groups, core.RecurringGroup{
			Identity: id,
			Presence: presence[id],
			Count:    count,
		})
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Count > groups[j].Count
	})

	months := make([]core.Month, 0, len(seen))
	for m := range seen {
		months = append(months, m)
	}
	core.SortMonths(months)

	return Result{Column: column, Months: months, Groups: groups}
}
