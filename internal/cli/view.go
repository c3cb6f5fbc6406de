package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/shopspring/decimal"

	"findash/internal/core"
	"findash/internal/services"
)

// NoValue is shown for rolling averages that are not defined yet.
const NoValue = "n/a"

const dateLayout = "2006-01-02"

// Styles for the terminal dashboard.
type Styles struct {
	Title     lipgloss.Style
	Section   lipgloss.Style
	Income    lipgloss.Style
	Spent     lipgloss.Style
	Muted     lipgloss.Style
	Warning   lipgloss.Style
	Summary   lipgloss.Style
	Border    lipgloss.Style
	Header    lipgloss.Style
	Status    map[core.HealthStatus]lipgloss.Style
	TreeRoot  lipgloss.Style
	TreeEntry lipgloss.Style
}

// DefaultStyles returns the dashboard palette.
func DefaultStyles() Styles {
	return Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#89b4fa")),
		Section: lipgloss.NewStyle().Bold(true).MarginTop(1),
		Income:  lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff00")),
		Spent:   lipgloss.NewStyle().Foreground(lipgloss.Color("#ff0000")),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("#7f849c")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("#f9e2af")),
		Summary: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 2),
		Border:  lipgloss.NewStyle().Foreground(lipgloss.Color("#585b70")),
		Header:  lipgloss.NewStyle().Bold(true).Padding(0, 1),
		Status: map[core.HealthStatus]lipgloss.Style{
			core.StatusNeedsWork: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f38ba8")),
			core.StatusSolid:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f9e2af")),
			core.StatusExcellent: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#a6e3a1")),
		},
		TreeRoot:  lipgloss.NewStyle().Foreground(lipgloss.Color("#828282")),
		TreeEntry: lipgloss.NewStyle().Foreground(lipgloss.Color("#d29b1d")),
	}
}

// DashboardView renders a dashboard for the terminal.
type DashboardView struct {
	Styles Styles
	Symbol string
}

// NewDashboardView returns a view using the default styles.
func NewDashboardView(symbol string) *DashboardView {
	if symbol == "" {
		symbol = core.DefaultCurrencySymbol
	}
	return &DashboardView{Styles: DefaultStyles(), Symbol: symbol}
}

// Render writes every available section of d to w.
func (v *DashboardView) Render(w io.Writer, d *services.Dashboard) error {
	sections := []string{
		v.Styles.Title.Render("Financial Dashboard"),
		v.overview(d),
		v.section("Monthly Cash Flow", v.monthly(d)),
	}
	if !d.HasWarning(services.FeatureCategories) {
		sections = append(sections,
			v.section("Spending by Category", v.categories(d)),
			v.section("Category Volatility", v.volatility(d)),
		)
	}
	if !d.Recurring.Skipped() {
		sections = append(sections, v.section("Recurring Expenses", v.recurring(d)))
	}
	sections = append(sections, v.section("Financial Health", v.health(d)))
	if d.NetWorth != nil {
		sections = append(sections, v.section("Net Worth", v.netWorth(d)))
	}
	sections = append(sections, v.section("Transactions", v.ledger(d)))
	if len(d.Warnings) > 0 {
		sections = append(sections, v.section("Warnings", v.warnings(d)))
	}

	_, err := io.WriteString(w, lipgloss.JoinVertical(lipgloss.Left, sections...)+"\n")
	return err
}

func (v *DashboardView) section(title, body string) string {
	return lipgloss.JoinVertical(lipgloss.Left, v.Styles.Section.Render(title), body)
}

func (v *DashboardView) money(d decimal.Decimal) string {
	return core.FormatMoney(v.Symbol, d)
}

func (v *DashboardView) signed(d decimal.Decimal) string {
	if d.IsNegative() {
		return v.Styles.Spent.Render(v.money(d))
	}
	return v.Styles.Income.Render(v.money(d))
}

func (v *DashboardView) table(headers []string, rows [][]string) string {
	if len(rows) == 0 {
		return v.Styles.Muted.Render("No data.")
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(v.Styles.Border).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return v.Styles.Header
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers(headers...).
		Rows(rows...).
		String()
}

func (v *DashboardView) overview(d *services.Dashboard) string {
	t := d.Summary.Totals
	var b strings.Builder
	fmt.Fprintf(&b, "Transactions: %d\n", d.Table.Len())
	fmt.Fprintf(&b, "Income: %s\n", v.Styles.Income.Render(v.money(t.Income)))
	fmt.Fprintf(&b, "Expenses: %s\n", v.Styles.Spent.Render(v.money(t.Expenses)))
	fmt.Fprintf(&b, "Net Cash Flow: %s", v.signed(t.Net))
	return v.Styles.Summary.Render(b.String())
}

func (v *DashboardView) monthly(d *services.Dashboard) string {
	rows := make([][]string, 0, len(d.Summary.Rolling))
	for _, p := range d.Summary.Rolling {
		avg := NoValue
		if p.Average.Valid {
			avg = v.money(p.Average.Decimal)
		}
		rows = append(rows, []string{p.Month.String(), v.money(p.Sum), avg})
	}
	return v.table([]string{"Month", "Net", "3-Month Avg"}, rows)
}

func (v *DashboardView) categories(d *services.Dashboard) string {
	rows := make([][]string, 0, len(d.Summary.Categories))
	for _, c := range d.Summary.Categories {
		rows = append(rows, []string{c.Category, v.money(c.Sum)})
	}
	return v.table([]string{"Category", "Spent"}, rows)
}

func (v *DashboardView) volatility(d *services.Dashboard) string {
	rows := make([][]string, 0, len(d.Summary.Volatility))
	for _, c := range d.Summary.Volatility {
		rows = append(rows, []string{
			c.Category,
			v.money(decimal.NewFromFloat(c.StdDev)),
			strconv.Itoa(c.Count),
		})
	}
	return v.table([]string{"Category", "Std Dev", "Expenses"}, rows)
}

func (v *DashboardView) recurring(d *services.Dashboard) string {
	headers := []string{d.Recurring.Column}
	for _, m := range d.Recurring.Months {
		headers = append(headers, m.String())
	}
	headers = append(headers, "Months")

	rows := make([][]string, 0, len(d.Recurring.Groups))
	for _, g := range d.Recurring.Groups {
		row := []string{g.Identity}
		for _, m := range d.Recurring.Months {
			row = append(row, strconv.Itoa(g.Presence[m]))
		}
		rows = append(rows, append(row, strconv.Itoa(g.Count)))
	}
	return v.table(headers, rows)
}

func (v *DashboardView) health(d *services.Dashboard) string {
	h := d.Health
	status := h.Status.String()
	if style, ok := v.Styles.Status[h.Status]; ok {
		status = style.Render(status)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Score: %d/100 (%s)\n", h.Score, status)
	fmt.Fprintf(&b, "Savings Rate: %s\n", core.FormatPercent(h.SavingsRate))
	fmt.Fprintf(&b, "Monthly Burn: %s\n", v.money(h.MonthlyBurn))
	fmt.Fprintf(&b, "Recurring Groups: %d", h.RecurringCount)
	return v.Styles.Summary.Render(b.String())
}

func (v *DashboardView) netWorth(d *services.Dashboard) string {
	nw := d.NetWorth
	rows := make([][]string, 0, len(nw.Points))
	for _, p := range nw.Points {
		rows = append(rows, []string{p.Date.Format(dateLayout), v.money(p.Amount)})
	}

	accounts := tree.New().Root(v.Styles.TreeRoot.Render("Accounts"))
	for _, a := range nw.ByAccount {
		accounts.Child(v.Styles.TreeEntry.Render(a.Account) + " " + v.money(a.Amount))
	}

	lines := []string{v.table([]string{"Date", "Net Worth"}, rows)}
	if latest, ok := nw.Latest(); ok {
		lines = append(lines, fmt.Sprintf("Latest (%s): %s", latest.Date.Format(dateLayout), v.money(latest.Amount)))
	}
	lines = append(lines, "Change: "+v.signed(nw.Change), accounts.String())
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// ledger lists every transaction, newest first, with the upload's columns.
func (v *DashboardView) ledger(d *services.Dashboard) string {
	rows := make([][]string, 0, len(d.Summary.Ledger))
	for _, tx := range d.Summary.Ledger {
		row := make([]string, 0, len(d.Table.Columns))
		for _, col := range d.Table.Columns {
			switch col {
			case core.ColumnDate:
				row = append(row, tx.Date.Format(dateLayout))
			case core.ColumnAmount:
				if tx.HasAmount() {
					row = append(row, v.money(tx.Amount))
				} else {
					row = append(row, "")
				}
			default:
				row = append(row, tx.Field(col))
			}
		}
		rows = append(rows, row)
	}
	return v.table(d.Table.Columns, rows)
}

func (v *DashboardView) warnings(d *services.Dashboard) string {
	lines := make([]string, 0, len(d.Warnings))
	for _, w := range d.Warnings {
		lines = append(lines, v.Styles.Warning.Render("! "+w.Message))
	}
	return strings.Join(lines, "\n")
}
