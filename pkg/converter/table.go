package converter

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Column is one output column: its internal key and display label.
type Column struct {
	Key   string
	Label string
}

// Columns is the fixed output column order.
var Columns = []Column{
	{Key: "date", Label: "date"},
	{Key: "unit_no", Label: "Unit No."},
	{Key: "d_division", Label: "DebitDivision"},
	{Key: "d_project", Label: "DebitProject"},
	{Key: "d_account", Label: "DebitAccount"},
	{Key: "d_sub_account", Label: "DebitSub Account"},
	{Key: "d_amount", Label: "DebitAmount"},
	{Key: "d_remarks", Label: "DebitRemarks"},
	{Key: "c_division", Label: "CreditDivision"},
	{Key: "c_project", Label: "CreditProject"},
	{Key: "c_account", Label: "CreditAccount"},
	{Key: "c_sub_account", Label: "CreditSub Account"},
	{Key: "c_amount", Label: "CreditAmount"},
	{Key: "c_remarks", Label: "CreditRemarks"},
	{Key: "voucher", Label: "Voucher Label"},
	{Key: "voucher_type", Label: "Voucher Type"},
}

// Header returns the display labels in output order.
func Header() []string {
	labels := make([]string, len(Columns))
	for i, col := range Columns {
		labels[i] = col.Label
	}
	return labels
}

// JournalRow is one output row. A nil Debit or Credit renders as empty cells.
type JournalRow struct {
	Date        string
	UnitNo      int
	Debit       *LegLine
	Credit      *LegLine
	Voucher     string
	VoucherType string
}

// Cells returns the row values in output order. Amounts are decimal.Decimal,
// the unit number is an int, everything else is a string.
func (r JournalRow) Cells() []any {
	cells := make([]any, 0, len(Columns))
	cells = append(cells, r.Date, r.UnitNo)
	cells = appendLegCells(cells, r.Debit)
	cells = appendLegCells(cells, r.Credit)
	cells = append(cells, r.Voucher, r.VoucherType)
	return cells
}

// Strings returns the row values rendered as text.
func (r JournalRow) Strings() []string {
	cells := r.Cells()
	out := make([]string, len(cells))
	for i, cell := range cells {
		switch v := cell.(type) {
		case string:
			out[i] = v
		case int:
			out[i] = strconv.Itoa(v)
		case decimal.Decimal:
			out[i] = v.String()
		}
	}
	return out
}

func appendLegCells(cells []any, line *LegLine) []any {
	if line == nil {
		return append(cells, "", "", "", "", "", "")
	}
	return append(cells,
		line.Division,
		line.Project,
		line.Account,
		line.SubAccount,
		line.Amount,
		line.Remarks,
	)
}

// Table is the assembled output, one JournalRow per index.
type Table struct {
	Rows []JournalRow
}

// Records returns the header followed by every row rendered as text.
func (t *Table) Records() [][]string {
	records := make([][]string, 0, len(t.Rows)+1)
	records = append(records, Header())
	for _, row := range t.Rows {
		records = append(records, row.Strings())
	}
	return records
}
