package converter

import (
	"log/slog"

	"github.com/bridgenote-apps/bn-excel-mapper/pkg/ledger"
)

// DefaultAccountPrefix selects journals that touch an expense account.
const DefaultAccountPrefix = "6"

// Converter converts ledger lines into journal rows.
type Converter struct {
	mapper *Mapper
	prefix string
}

// NewConverter creates a new Converter.
// An empty prefix falls back to DefaultAccountPrefix.
func NewConverter(mapper *Mapper, prefix string) *Converter {
	if prefix == "" {
		prefix = DefaultAccountPrefix
	}
	return &Converter{
		mapper: mapper,
		prefix: prefix,
	}
}

// UnresolvedLeg identifies a leg whose codes had no mapping entry.
type UnresolvedLeg struct {
	UnitNo  int
	Voucher string
	Side    Side
	Codes   []string
	Rows    []int // source sheet rows of the leg
}

// Result is the outcome of one conversion run.
type Result struct {
	Table      *Table
	Journals   int // journals that passed the filter
	Skipped    int // journals without a matching account
	Unresolved []UnresolvedLeg
}

// Execute groups lines into journals, keeps the journals containing an
// account with the configured prefix and assembles them in key order.
// Unit numbers start at 1 and are consumed only by kept journals.
func (c *Converter) Execute(lines []ledger.TransactionLine) *Result {
	groups := ledger.GroupLines(lines)
	result := &Result{Table: &Table{}}

	unitNo := 0
	for _, group := range groups {
		if !group.HasAccountPrefix(c.prefix) {
			result.Skipped++
			slog.Debug("Skipping journal",
				"date", group.Key.Date,
				"journal_number", group.Key.JournalNumber,
				"voucher", group.Key.Voucher,
			)
			continue
		}

		unitNo++
		rows, unresolved := c.assemble(group, unitNo)
		result.Table.Rows = append(result.Table.Rows, rows...)
		result.Journals++
		result.Unresolved = append(result.Unresolved, unresolved...)
	}

	return result
}

// AssembleJournal builds the output rows of one journal.
// Debit and credit lines are paired by position; the shorter side is padded
// with empty cells and the journal fields repeat on every row.
func (c *Converter) AssembleJournal(group ledger.JournalGroup, unitNo int) []JournalRow {
	rows, _ := c.assemble(group, unitNo)
	return rows
}

func (c *Converter) assemble(group ledger.JournalGroup, unitNo int) ([]JournalRow, []UnresolvedLeg) {
	debit := c.BuildDebit(group.Debits())
	credit := c.BuildCredit(group.Credits())

	var unresolved []UnresolvedLeg
	for _, leg := range []Leg{debit, credit} {
		if leg.Unresolved {
			unresolved = append(unresolved, UnresolvedLeg{
				UnitNo:  unitNo,
				Voucher: group.Key.Voucher,
				Side:    leg.Side,
				Codes:   leg.Codes,
				Rows:    leg.Rows(),
			})
			slog.Warn("Unresolved account",
				"unit_no", unitNo,
				"voucher", group.Key.Voucher,
				"side", leg.Side.String(),
				"codes", leg.Codes,
				"rows", leg.Rows(),
			)
		}
	}

	// A journal without non-zero lines still yields its header row.
	n := max(len(debit.Lines), len(credit.Lines), 1)

	rows := make([]JournalRow, n)
	for i := range rows {
		rows[i] = JournalRow{
			Date:    group.Key.Date,
			UnitNo:  unitNo,
			Voucher: group.Key.Voucher,
		}
		if i < len(debit.Lines) {
			rows[i].Debit = &debit.Lines[i]
		}
		if i < len(credit.Lines) {
			rows[i].Credit = &credit.Lines[i]
		}
	}

	slog.Debug("Assembled journal",
		"unit_no", unitNo,
		"voucher", group.Key.Voucher,
		"date", group.Key.Date,
		"debit_lines", len(debit.Lines),
		"credit_lines", len(credit.Lines),
	)

	return rows, unresolved
}
