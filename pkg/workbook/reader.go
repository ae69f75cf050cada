// Package workbook reads ledger exports and mapping tables from Excel files
// and writes the resulting journal table.
package workbook

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/bridgenote-apps/bn-excel-mapper/pkg/converter"
	"github.com/bridgenote-apps/bn-excel-mapper/pkg/ledger"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Target sheet columns (0-based).
const (
	colVoucher       = 0
	colJournalNumber = 1
	colDate          = 2
	colAccount       = 4
	colAmount        = 8
	colRemarks       = 13
)

// Mapper sheet columns (0-based).
const (
	colMapCode       = 0
	colMapAccount    = 3
	colMapSubAccount = 5
)

// Numbers below this are Excel serial dates even without a date number
// format; larger numbers (e.g. 20240101) are already rendered dates.
const maxSerialDate = 100000

// Built-in number format IDs that display a date.
var dateNumFmts = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 22: true,
	27: true, 28: true, 29: true, 30: true, 31: true, 32: true, 33: true, 34: true, 35: true, 36: true,
	50: true, 51: true, 52: true, 53: true, 54: true, 55: true, 56: true, 57: true, 58: true,
}

// ReadTarget reads the first worksheet of a ledger export.
// The first row is a header and is skipped; blank rows are ignored.
func ReadTarget(path string) ([]ledger.TransactionLine, error) {
	sh, err := openSheet(path)
	if err != nil {
		return nil, err
	}
	defer sh.close()

	rows := sh.rows
	if len(rows) == 0 {
		return nil, nil
	}

	if err := checkHeader(path, rows[0], colRemarks); err != nil {
		return nil, err
	}

	var lines []ledger.TransactionLine
	for i, row := range rows[1:] {
		rowNum := i + 2
		if isBlank(row) {
			continue
		}

		amount, err := sh.amount(rowNum, cell(row, colAmount))
		if err != nil {
			return nil, &converter.MalformedRowError{
				Sheet:  filepath.Base(path),
				Row:    rowNum,
				Column: "amount",
				Reason: err.Error(),
			}
		}

		lines = append(lines, ledger.TransactionLine{
			Row:           rowNum,
			Voucher:       cell(row, colVoucher),
			JournalNumber: cell(row, colJournalNumber),
			Date:          sh.date(rowNum, cell(row, colDate)),
			Account:       cell(row, colAccount),
			Amount:        amount,
			Remarks:       cell(row, colRemarks),
		})
	}

	slog.Debug("Read target", "path", path, "lines", len(lines))
	return lines, nil
}

// ReadMapper reads the first worksheet of a mapping table.
// The first row is a header and is skipped; blank rows are ignored.
func ReadMapper(path string) ([]ledger.MappingEntry, error) {
	sh, err := openSheet(path)
	if err != nil {
		return nil, err
	}
	defer sh.close()

	rows := sh.rows
	if len(rows) == 0 {
		return nil, nil
	}

	if err := checkHeader(path, rows[0], colMapSubAccount); err != nil {
		return nil, err
	}

	var entries []ledger.MappingEntry
	for i, row := range rows[1:] {
		if isBlank(row) {
			continue
		}

		code := cell(row, colMapCode)
		if strings.TrimSpace(code) == "" {
			return nil, &converter.MalformedRowError{
				Sheet:  filepath.Base(path),
				Row:    i + 2,
				Column: "code",
				Reason: "empty account code",
			}
		}

		entries = append(entries, ledger.MappingEntry{
			Code:       code,
			Account:    cell(row, colMapAccount),
			SubAccount: cell(row, colMapSubAccount),
		})
	}

	slog.Debug("Read mapper", "path", path, "entries", len(entries))
	return entries, nil
}

// OpenMapper loads a Mapper from an Excel mapping table, or from a YAML
// mapping file when the path ends in .yaml or .yml.
func OpenMapper(path string) (*converter.Mapper, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return converter.LoadMappingYAML(path)
	}

	entries, err := ReadMapper(path)
	if err != nil {
		return nil, err
	}
	return converter.NewMapper(entries), nil
}

// sheet is the first worksheet of an open workbook with its rows read as
// raw values. Cell types and number formats are looked up on demand.
type sheet struct {
	f          *excelize.File
	name       string
	rows       [][]string
	date1904   bool
	dateStyles map[int]bool
}

func openSheet(path string) (*sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		f.Close()
		return nil, fmt.Errorf("workbook %s has no worksheets", path)
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to read rows from %s: %w", path, err)
	}

	props, err := f.GetWorkbookProps()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to read workbook properties from %s: %w", path, err)
	}

	return &sheet{
		f:          f,
		name:       sheets[0],
		rows:       rows,
		date1904:   props.Date1904 != nil && *props.Date1904,
		dateStyles: make(map[int]bool),
	}, nil
}

func (s *sheet) close() {
	if err := s.f.Close(); err != nil {
		slog.Warn("Failed to close workbook", "error", err)
	}
}

func (s *sheet) cellType(row, col int) excelize.CellType {
	axis, err := excelize.CoordinatesToCellName(col+1, row)
	if err != nil {
		return excelize.CellTypeUnset
	}
	t, err := s.f.GetCellType(s.name, axis)
	if err != nil {
		return excelize.CellTypeUnset
	}
	return t
}

// dateFormatted reports whether the cell displays its number as a date.
func (s *sheet) dateFormatted(row, col int) bool {
	axis, err := excelize.CoordinatesToCellName(col+1, row)
	if err != nil {
		return false
	}
	idx, err := s.f.GetCellStyle(s.name, axis)
	if err != nil || idx == 0 {
		return false
	}
	if isDate, ok := s.dateStyles[idx]; ok {
		return isDate
	}

	isDate := false
	if style, err := s.f.GetStyle(idx); err == nil {
		isDate = dateNumFmts[style.NumFmt]
		if style.CustomNumFmt != nil {
			isDate = isDateFormatCode(*style.CustomNumFmt)
		}
	}
	s.dateStyles[idx] = isDate
	return isDate
}

// amount parses the amount cell of a data row. Amounts must be stored as
// numbers; text cells are rejected even when they look numeric.
func (s *sheet) amount(row int, value string) (decimal.Decimal, error) {
	switch t := s.cellType(row, colAmount); t {
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
		return decimal.Zero, fmt.Errorf("amount %q is stored as text", value)
	default:
		return decimal.Zero, fmt.Errorf("amount %q has non-numeric cell type %d", value, t)
	}
	return parseAmount(value)
}

// date renders the date cell of a data row.
func (s *sheet) date(row int, value string) string {
	switch s.cellType(row, colDate) {
	case excelize.CellTypeDate:
		if t, err := time.Parse("2006-01-02T15:04:05", strings.TrimSuffix(value, "Z")); err == nil {
			return t.Format("20060102")
		}
		return value
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		return renderDate(value, s.dateFormatted(row, colDate), s.date1904)
	}
	return value
}

func checkHeader(path string, header []string, lastColumn int) error {
	if len(header) <= lastColumn {
		return &converter.MalformedRowError{
			Sheet:  filepath.Base(path),
			Row:    1,
			Reason: fmt.Sprintf("header has %d columns, expected at least %d", len(header), lastColumn+1),
		}
	}
	return nil
}

// cell returns the value at index i; GetRows trims trailing empty cells.
func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func parseAmount(value string) (decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", value)
	}
	return amount, nil
}

// renderDate formats a numeric date cell as YYYYMMDD. A number is a serial
// date when its cell has a date format or when it is below maxSerialDate;
// anything else is kept verbatim.
func renderDate(value string, dateFormatted, date1904 bool) string {
	serial, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || serial <= 0 || (!dateFormatted && serial >= maxSerialDate) {
		return value
	}
	t, err := excelize.ExcelDateToTime(serial, date1904)
	if err != nil {
		return value
	}
	return t.Format("20060102")
}

// isDateFormatCode reports whether a custom number format shows a date,
// ignoring quoted literals and bracketed sections such as colors.
func isDateFormatCode(code string) bool {
	inQuote, inBracket := false, false
	for _, r := range strings.ToLower(code) {
		switch {
		case r == '"':
			inQuote = !inQuote
		case inQuote:
		case r == '[':
			inBracket = true
		case r == ']':
			inBracket = false
		case inBracket:
		case r == 'y' || r == 'd':
			return true
		}
	}
	return false
}
