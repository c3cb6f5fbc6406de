package health

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"findash/internal/analytics"
	"findash/internal/core"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestSavingsRate(t *testing.T) {
	tests := []struct {
		name     string
		income   string
		expenses string
		want     string
	}{
		{"quarter saved", "1000", "750", "25"},
		{"overspent", "100", "150", "-50"},
		{"zero income", "0", "500", "0"},
		{"zero everything", "0", "0", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SavingsRate(dec(tt.income), dec(tt.expenses))
			if !got.Equal(dec(tt.want)) {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestScoreRules(t *testing.T) {
	tests := []struct {
		name       string
		in         Inputs
		wantScore  int
		wantStatus core.HealthStatus
	}{
		{
			name:       "all rules pass",
			in:         Inputs{Income: dec("12000"), Expenses: dec("6000"), MonthlyBurn: dec("500"), RecurringCount: 2},
			wantScore:  100,
			wantStatus: core.StatusExcellent,
		},
		{
			name:       "savings exactly 20 gets no credit",
			in:         Inputs{Income: dec("1000"), Expenses: dec("800"), MonthlyBurn: dec("800"), RecurringCount: 0},
			wantScore:  30,
			wantStatus: core.StatusNeedsWork,
		},
		{
			name:       "burn equal to a twelfth gets no credit",
			in:         Inputs{Income: dec("1200"), Expenses: dec("100"), MonthlyBurn: dec("100"), RecurringCount: 10},
			wantScore:  40,
			wantStatus: core.StatusNeedsWork,
		},
		{
			name:       "savings and recurring",
			in:         Inputs{Income: dec("1200"), Expenses: dec("200"), MonthlyBurn: dec("200"), RecurringCount: 9},
			wantScore:  70,
			wantStatus: core.StatusSolid,
		},
		{
			name:       "burn and recurring",
			in:         Inputs{Income: dec("12000"), Expenses: dec("11000"), MonthlyBurn: dec("900"), RecurringCount: 3},
			wantScore:  60,
			wantStatus: core.StatusSolid,
		},
		{
			name:       "nothing passes",
			in:         Inputs{Income: dec("1000"), Expenses: dec("990"), MonthlyBurn: dec("990"), RecurringCount: 12},
			wantScore:  0,
			wantStatus: core.StatusNeedsWork,
		},
		{
			name:       "zero income",
			in:         Inputs{Income: dec("0"), Expenses: dec("300"), MonthlyBurn: dec("100"), RecurringCount: 0},
			wantScore:  30,
			wantStatus: core.StatusNeedsWork,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.in)
			if got.Score != tt.wantScore {
				t.Fatalf("expected score %d, got %d", tt.wantScore, got.Score)
			}
			if got.Status != tt.wantStatus {
				t.Fatalf("expected status %q, got %q", tt.wantStatus, got.Status)
			}
		})
	}
}

func TestScoreOnlyTakesAllowedValues(t *testing.T) {
	allowed := map[int]bool{0: true, 30: true, 40: true, 60: true, 70: true, 100: true}
	incomes := []string{"0", "100", "1200", "50000"}
	expenses := []string{"0", "50", "1000", "60000"}
	burns := []string{"0", "5", "100", "10000"}
	counts := []int{0, 9, 10, 25}

	for _, i := range incomes {
		for _, e := range expenses {
			for _, b := range burns {
				for _, c := range counts {
					got := Score(Inputs{Income: dec(i), Expenses: dec(e), MonthlyBurn: dec(b), RecurringCount: c})
					if !allowed[got.Score] {
						t.Fatalf("score %d not allowed for income=%s expenses=%s burn=%s count=%d", got.Score, i, e, b, c)
					}
				}
			}
		}
	}
}

func TestScoreZeroIncome(t *testing.T) {
	tbl := &core.TransactionTable{
		Columns: []string{"Date", "Amount"},
		Transactions: []core.Transaction{
			{Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Amount: dec("-20")},
			{Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), Amount: dec("-40")},
		},
	}

	got := Score(InputsFrom(analytics.Analyze(tbl), 0))
	if !got.SavingsRate.IsZero() {
		t.Fatalf("expected zero savings rate, got %s", got.SavingsRate)
	}
	if !got.MonthlyBurn.Equal(dec("30")) {
		t.Fatalf("expected burn 30, got %s", got.MonthlyBurn)
	}
	if !got.Expenses.Equal(dec("60")) {
		t.Fatalf("expected expenses magnitude 60, got %s", got.Expenses)
	}
	if got.Score != RecurringPoints {
		t.Fatalf("expected only the recurring rule to pass, got %d", got.Score)
	}
}
