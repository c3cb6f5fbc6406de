package log

// Common field names for structured logging
const (
	FieldComponent    = "component"
	FieldRunID        = "run_id"
	FieldDuration     = "duration_ms"
	FieldError        = "error"
	FieldOperation    = "operation"
	FieldFile         = "file"
	FieldTransactions = "transactions"
	FieldAccounts     = "accounts"
	FieldColumn       = "column"
	FieldMonths       = "months"
	FieldRecurring    = "recurring_groups"
	FieldScore        = "health_score"
	FieldStatus       = "health_status"
	FieldFeature      = "feature"
	FieldFormat       = "format"
	FieldWarnings     = "warnings"
	FieldPoints       = "points"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentCLI       = "cli"
	ComponentDashboard = "dashboard"
	ComponentLoader    = "loader"
	ComponentReport    = "report"
)

// Operations defines standard operation names
const (
	OpLoad     = "load"
	OpAnalyze  = "analyze"
	OpDetect   = "detect"
	OpScore    = "score"
	OpNetWorth = "net_worth"
	OpRender   = "render"
	OpExport   = "export"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithRunID adds run ID field
func (f LogFields) WithRunID(runID string) LogFields {
	f[FieldRunID] = runID
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithDuration adds the elapsed milliseconds
func (f LogFields) WithDuration(ms int64) LogFields {
	f[FieldDuration] = ms
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
