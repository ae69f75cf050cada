package workbook

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/bridgenote-apps/bn-excel-mapper/pkg/converter"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet the journal table is written to.
const SheetName = "Sheet1"

// WriteTable writes the journal table to an xlsx file at path.
// The file only appears once it is complete.
func WriteTable(path string, table *converter.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := setRow(f, 1, toAny(converter.Header())); err != nil {
		return err
	}
	for i, row := range table.Rows {
		if err := setRow(f, i+2, cellValues(row)); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".journal-*.xlsx")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := f.WriteTo(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close workbook: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move workbook into place: %w", err)
	}

	return nil
}

func setRow(f *excelize.File, rowNum int, values []any) error {
	axis, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(SheetName, axis, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", rowNum, err)
	}
	return nil
}

// cellValues converts amounts to numbers so they stay numeric in Excel.
// Voucher labels that were numbers in the ledger are written back as numbers.
func cellValues(row converter.JournalRow) []any {
	cells := row.Cells()
	for i, c := range cells {
		if d, ok := c.(decimal.Decimal); ok {
			cells[i] = d.InexactFloat64()
		}
	}
	if n, ok := numericLabel(row.Voucher); ok {
		cells[voucherColumn] = n
	}
	return cells
}

var voucherColumn = slices.IndexFunc(converter.Columns, func(c converter.Column) bool {
	return c.Key == "voucher"
})

// numericLabel parses plain integers. Labels with leading zeros or signs
// stay text so they round-trip unchanged.
func numericLabel(label string) (int64, bool) {
	if label == "" || (len(label) > 1 && label[0] == '0') || label[0] == '-' || label[0] == '+' {
		return 0, false
	}
	n, err := strconv.ParseInt(label, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
