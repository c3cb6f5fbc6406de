package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"findash/internal/analytics"
	"findash/internal/core"
	"findash/internal/health"
	"findash/internal/loader"
	applog "findash/internal/log"
	"findash/internal/networth"
	"findash/internal/recurring"
	"findash/internal/report"
)

// Features that can be switched off by a missing column.
const (
	FeatureCategories = "categories"
	FeatureRecurring  = "recurring"
	FeatureNetWorth   = "net_worth"
)

// DashboardConfig holds settings for the dashboard service
type DashboardConfig struct {
	DateLayouts    []string
	CurrencySymbol string
}

// DefaultDashboardConfig returns the default configuration
func DefaultDashboardConfig() DashboardConfig {
	return DashboardConfig{
		DateLayouts:    loader.DefaultDateLayouts,
		CurrencySymbol: core.DefaultCurrencySymbol,
	}
}

// DashboardInput carries the uploads of one render pass. Accounts is optional.
type DashboardInput struct {
	Transactions io.Reader
	Accounts     io.Reader
}

// Dashboard is everything a presentation layer needs for one render.
type Dashboard struct {
	RunID     string
	Table     *core.TransactionTable
	Summary   analytics.Summary
	Recurring recurring.Result
	Health    core.HealthScore
	NetWorth  *networth.Result // nil when no usable accounts upload was given
	Warnings  []core.Warning
}

// HasWarning reports whether a feature was disabled on this pass.
func (d *Dashboard) HasWarning(feature string) bool {
	for _, w := range d.Warnings {
		if w.Feature == feature {
			return true
		}
	}
	return false
}

// DashboardService runs the engine over one pair of uploads. It keeps no
// state between calls.
type DashboardService struct {
	logger *applog.Logger
	config DashboardConfig
}

func NewDashboardService(logger *applog.Logger, config DashboardConfig) *DashboardService {
	if logger == nil {
		logger = &applog.Logger{Logger: slog.Default()}
	}
	return &DashboardService{
		logger: logger.WithComponent(applog.ComponentDashboard),
		config: config,
	}
}

// Build loads the uploads and computes every dashboard section. A parse
// error in either upload aborts the pass; missing optional columns only add
// a warning and leave the dependent section empty.
func (s *DashboardService) Build(ctx context.Context, in DashboardInput) (*Dashboard, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if in.Transactions == nil {
		return nil, fmt.Errorf("transactions upload is required")
	}

	start := time.Now()
	runID := uuid.NewString()
	logger := s.logger.With(applog.FieldRunID, runID)
	opts := loader.Options{DateLayouts: s.config.DateLayouts}

	table, err := loader.LoadTransactions(in.Transactions, opts)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to load transactions", applog.NewFields().WithOperation(applog.OpLoad).WithError(err).ToSlice()...)
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	logger.InfoContext(ctx, "Transactions loaded", applog.FieldTransactions, table.Len())

	d := &Dashboard{
		RunID:   runID,
		Table:   table,
		Summary: analytics.Analyze(table),
	}
	logger.DebugContext(ctx, "Transactions analyzed",
		applog.FieldOperation, applog.OpAnalyze,
		applog.FieldMonths, len(d.Summary.Monthly))

	if !table.HasColumn(core.ColumnCategory) {
		d.warn(ctx, logger, FeatureCategories, "No Category column found; spending by category is not available")
	}

	d.Recurring = recurring.Detect(table)
	if d.Recurring.Skipped() {
		d.warn(ctx, logger, FeatureRecurring, "No suitable column found for recurring detection (tried Description, Payee, Merchant, Account Name)")
	} else {
		logger.InfoContext(ctx, "Recurring expenses detected",
			applog.FieldOperation, applog.OpDetect,
			applog.FieldColumn, d.Recurring.Column,
			applog.FieldMonths, len(d.Recurring.Months),
			applog.FieldRecurring, len(d.Recurring.Groups))
	}

	d.Health = health.Score(health.InputsFrom(d.Summary, len(d.Recurring.Groups)))
	logger.InfoContext(ctx, "Health scored",
		applog.FieldOperation, applog.OpScore,
		applog.FieldScore, d.Health.Score,
		applog.FieldStatus, d.Health.Status.String())

	if in.Accounts != nil {
		if err := s.buildNetWorth(ctx, logger, d, in.Accounts, opts); err != nil {
			return nil, err
		}
	}

	fields := applog.NewFields().WithDuration(time.Since(start).Milliseconds())
	logger.InfoContext(ctx, "Dashboard built", append(fields.ToSlice(), applog.FieldWarnings, len(d.Warnings))...)

	return d, nil
}

func (s *DashboardService) buildNetWorth(ctx context.Context, logger *applog.Logger, d *Dashboard, r io.Reader, opts loader.Options) error {
	accounts, err := loader.LoadAccounts(r, opts)
	if mc, ok := loader.IsMissingColumns(err); ok {
		d.warn(ctx, logger, FeatureNetWorth, fmt.Sprintf("Accounts file must include Account, Amount and Date columns (missing: %v)", mc.Columns))
		return nil
	}
	if err != nil {
		logger.ErrorContext(ctx, "Failed to load accounts", applog.NewFields().WithOperation(applog.OpLoad).WithError(err).ToSlice()...)
		return fmt.Errorf("load accounts: %w", err)
	}

	nw := networth.Aggregate(accounts)
	d.NetWorth = &nw
	logger.InfoContext(ctx, "Net worth aggregated",
		applog.FieldOperation, applog.OpNetWorth,
		applog.FieldAccounts, len(nw.ByAccount),
		applog.FieldPoints, len(nw.Points))
	return nil
}

func (d *Dashboard) warn(ctx context.Context, logger *applog.Logger, feature, msg string) {
	d.Warnings = append(d.Warnings, core.Warning{Feature: feature, Message: msg})
	logger.WarnContext(ctx, msg, applog.FieldFeature, feature)
}

// Report builds the export snapshot for d.
func (s *DashboardService) Report(d *Dashboard, now time.Time) report.Snapshot {
	return report.Snapshot{
		GeneratedAt:      now,
		TransactionCount: d.Table.Len(),
		Income:           d.Summary.Totals.Income,
		Expenses:         d.Summary.Totals.Expenses,
		Net:              d.Summary.Totals.Net,
		Health:           d.Health,
		CurrencySymbol:   s.config.CurrencySymbol,
	}
}

// WriteReport renders the export for d to w.
func (s *DashboardService) WriteReport(ctx context.Context, w io.Writer, d *Dashboard, now time.Time) error {
	fields := applog.NewFields().WithRunID(d.RunID).WithOperation(applog.OpExport)
	if err := report.Render(w, s.Report(d, now)); err != nil {
		s.logger.ErrorContext(ctx, "Failed to write report", fields.WithError(err).ToSlice()...)
		return err
	}
	s.logger.InfoContext(ctx, "Report written", fields.ToSlice()...)
	return nil
}
