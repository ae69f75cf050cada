// Package ledger provides the input data model of the journal mapper:
// raw ledger lines, journal groups and account mapping entries.
package ledger

import (
	"github.com/shopspring/decimal"
)

// TransactionLine represents one raw row of the ledger export.
type TransactionLine struct {
	Row           int             // 1-based sheet row, for diagnostics
	Voucher       string          // Voucher label
	JournalNumber string          // Journal number (grouping key only)
	Date          string          // YYYYMMDD for date cells, verbatim otherwise
	Account       string          // Raw account code (e.g., "601")
	Amount        decimal.Decimal // Positive = debit, negative = credit
	Remarks       string          // Free text
}

// IsDebit reports whether the line belongs to the debit side.
func (l TransactionLine) IsDebit() bool {
	return l.Amount.IsPositive()
}

// IsCredit reports whether the line belongs to the credit side.
func (l TransactionLine) IsCredit() bool {
	return l.Amount.IsNegative()
}

// MappingEntry represents one row of the mapper table.
type MappingEntry struct {
	Code       string `yaml:"code"`        // Source account code
	Account    string `yaml:"account"`     // Mapped account
	SubAccount string `yaml:"sub_account"` // Mapped sub-account
}
