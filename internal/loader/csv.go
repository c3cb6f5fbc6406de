// Package loader parses uploaded CSV exports into typed in-memory tables.
package loader

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"findash/internal/core"
)

// DefaultDateLayouts are tried in order when a Date cell is parsed.
var DefaultDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
	"1/2/2006",
	"2006/01/02",
	"Jan 2, 2006",
	"02-Jan-2006",
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Options tunes parsing. The zero value uses DefaultDateLayouts.
type Options struct {
	DateLayouts []string
}

func (o Options) layouts() []string {
	if len(o.DateLayouts) == 0 {
		return DefaultDateLayouts
	}
	return o.DateLayouts
}

// LoadTransactions parses a transactions export. Date and Amount are
// required; every other column is kept verbatim on each row. A bad Date or a
// malformed Amount fails the whole load. A blank Amount loads as zero so it
// drops out of every sum.
func LoadTransactions(r io.Reader, opts Options) (*core.TransactionTable, error) {
	header, records, err := readCSV(r)
	if err != nil {
		return nil, err
	}

	dateIdx := indexOf(header, core.ColumnDate)
	if dateIdx < 0 {
		return nil, &ParseError{Column: core.ColumnDate, Err: core.ErrMissingColumn}
	}
	amountIdx := indexOf(header, core.ColumnAmount)
	if amountIdx < 0 {
		return nil, &ParseError{Column: core.ColumnAmount, Err: core.ErrMissingColumn}
	}
	categoryIdx := indexOf(header, core.ColumnCategory)

	table := &core.TransactionTable{
		Columns:      header,
		Transactions: make([]core.Transaction, 0, len(records)),
	}
	for i, rec := range records {
		row := i + 1
		date, err := parseDate(cell(rec, dateIdx), opts.layouts())
		if err != nil {
			return nil, &ParseError{Row: row, Column: core.ColumnDate, Value: cell(rec, dateIdx), Err: err}
		}
		amount, err := parseAmount(cell(rec, amountIdx))
		if err != nil {
			return nil, &ParseError{Row: row, Column: core.ColumnAmount, Value: cell(rec, amountIdx), Err: err}
		}

		fields := make(map[string]string, len(header))
		for j, name := range header {
			fields[name] = cell(rec, j)
		}

		tx := core.Transaction{Date: date, Amount: amount, Fields: fields}
		if categoryIdx >= 0 {
			tx.Category = cell(rec, categoryIdx)
		}
		table.Transactions = append(table.Transactions, tx)
	}

	return table, nil
}

// LoadAccounts parses an accounts export. When Account, Amount or Date is
// absent it returns a *MissingColumnsError naming all of them.
func LoadAccounts(r io.Reader, opts Options) (*core.AccountTable, error) {
	header, records, err := readCSV(r)
	if err != nil {
		return nil, err
	}

	required := []string{core.ColumnAccount, core.ColumnAmount, core.ColumnDate}
	var missing []string
	for _, name := range required {
		if indexOf(header, name) < 0 {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}

	accountIdx := indexOf(header, core.ColumnAccount)
	amountIdx := indexOf(header, core.ColumnAmount)
	dateIdx := indexOf(header, core.ColumnDate)

	table := &core.AccountTable{
		Columns:   header,
		Snapshots: make([]core.AccountSnapshot, 0, len(records)),
	}
	for i, rec := range records {
		row := i + 1
		date, err := parseDate(cell(rec, dateIdx), opts.layouts())
		if err != nil {
			return nil, &ParseError{Row: row, Column: core.ColumnDate, Value: cell(rec, dateIdx), Err: err}
		}
		amount, err := parseAmount(cell(rec, amountIdx))
		if err != nil {
			return nil, &ParseError{Row: row, Column: core.ColumnAmount, Value: cell(rec, amountIdx), Err: err}
		}
		table.Snapshots = append(table.Snapshots, core.AccountSnapshot{
			Date:    date,
			Account: cell(rec, accountIdx),
			Amount:  amount,
		})
	}

	return table, nil
}

// readCSV validates the upload and returns the trimmed header and data rows.
func readCSV(r io.Reader) ([]string, [][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("read upload: %w", err)
	}
	if err := validateContent(data); err != nil {
		return nil, nil, &ParseError{Err: err}
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1 // short rows read as blank cells

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, &ParseError{Err: core.ErrEmptyFile}
	}
	if err != nil {
		return nil, nil, &ParseError{Err: fmt.Errorf("read header: %w", err)}
	}
	for i, name := range header {
		header[i] = strings.TrimSpace(name)
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, &ParseError{Err: fmt.Errorf("read records: %w", err)}
	}

	return header, records, nil
}

// validateContent rejects binary uploads: NUL bytes or invalid UTF-8.
func validateContent(data []byte) error {
	if bytes.IndexByte(data, 0) != -1 {
		return errors.New("upload contains binary data")
	}
	if !utf8.Valid(data) {
		return errors.New("upload is not valid UTF-8")
	}
	return nil
}

func parseDate(s string, layouts []string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, core.ErrInvalidDate
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, core.ErrInvalidDate
}

func indexOf(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}

func cell(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

// parseAmount treats a blank cell as a missing value.
func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return core.ParseAmount(s)
}
