package ledger

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// JournalKey identifies one journal in the ledger export.
type JournalKey struct {
	Date          string
	JournalNumber string
	Voucher       string
}

// Compare orders keys by date, then journal number, then voucher.
// Each part compares numerically when both sides are numbers; numbers sort
// before any non-numeric text, and text compares byte-wise.
func (k JournalKey) Compare(other JournalKey) int {
	if c := comparePart(k.Date, other.Date); c != 0 {
		return c
	}
	if c := comparePart(k.JournalNumber, other.JournalNumber); c != 0 {
		return c
	}
	return comparePart(k.Voucher, other.Voucher)
}

// JournalGroup is the set of lines sharing one JournalKey, in sheet order.
type JournalGroup struct {
	Key   JournalKey
	Lines []TransactionLine
}

// HasAccountPrefix reports whether any line's account starts with prefix.
func (g JournalGroup) HasAccountPrefix(prefix string) bool {
	for _, line := range g.Lines {
		if strings.HasPrefix(line.Account, prefix) {
			return true
		}
	}
	return false
}

// Debits returns the lines with a positive amount.
func (g JournalGroup) Debits() []TransactionLine {
	return g.filter(TransactionLine.IsDebit)
}

// Credits returns the lines with a negative amount.
// Zero-amount lines belong to neither side.
func (g JournalGroup) Credits() []TransactionLine {
	return g.filter(TransactionLine.IsCredit)
}

func (g JournalGroup) filter(keep func(TransactionLine) bool) []TransactionLine {
	var result []TransactionLine
	for _, line := range g.Lines {
		if keep(line) {
			result = append(result, line)
		}
	}
	return result
}

// GroupLines groups lines by (date, journal number, voucher) and returns the
// groups sorted ascending by key. Lines keep their sheet order inside a group.
func GroupLines(lines []TransactionLine) []JournalGroup {
	index := make(map[JournalKey]int)
	var groups []JournalGroup

	for _, line := range lines {
		key := JournalKey{
			Date:          line.Date,
			JournalNumber: line.JournalNumber,
			Voucher:       line.Voucher,
		}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, JournalGroup{Key: key})
		}
		groups[i].Lines = append(groups[i].Lines, line)
	}

	slices.SortStableFunc(groups, func(a, b JournalGroup) int {
		return a.Key.Compare(b.Key)
	})

	return groups
}

func comparePart(a, b string) int {
	da, errA := decimal.NewFromString(a)
	db, errB := decimal.NewFromString(b)

	switch {
	case errA == nil && errB == nil:
		if c := da.Cmp(db); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	}
	return strings.Compare(a, b)
}
