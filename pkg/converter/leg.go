package converter

import (
	"slices"
	"strings"

	"github.com/bridgenote-apps/bn-excel-mapper/pkg/ledger"
	"github.com/shopspring/decimal"
)

// Side selects the debit or credit half of a journal.
type Side int

const (
	Debit Side = iota
	Credit
)

// String returns the side name.
func (s Side) String() string {
	if s == Credit {
		return "credit"
	}
	return "debit"
}

// compare orders debit lines by (amount asc, remarks asc) and credit lines by
// (amount desc, remarks asc).
func (s Side) compare(a, b ledger.TransactionLine) int {
	c := a.Amount.Cmp(b.Amount)
	if s == Credit {
		c = -c
	}
	if c != 0 {
		return c
	}
	return strings.Compare(a.Remarks, b.Remarks)
}

// LegLine is one resolved line item of a leg.
type LegLine struct {
	Division   string
	Project    string
	Account    string
	SubAccount string
	Amount     decimal.Decimal
	Remarks    string
	Row        int // source sheet row
}

// Leg is the ordered, resolved debit or credit half of a journal.
type Leg struct {
	Side       Side
	Lines      []LegLine
	Codes      []string // distinct raw account codes, in leg order
	Unresolved bool
}

// Rows returns the source sheet rows of the leg's lines, in leg order.
func (l Leg) Rows() []int {
	rows := make([]int, len(l.Lines))
	for i, line := range l.Lines {
		rows[i] = line.Row
	}
	return rows
}

// BuildDebit builds the debit leg from lines with positive amounts.
func (c *Converter) BuildDebit(lines []ledger.TransactionLine) Leg {
	return c.buildLeg(Debit, lines)
}

// BuildCredit builds the credit leg from lines with negative amounts.
// Amounts are negated after sorting so the leg carries positive magnitudes.
func (c *Converter) BuildCredit(lines []ledger.TransactionLine) Leg {
	return c.buildLeg(Credit, lines)
}

func (c *Converter) buildLeg(side Side, lines []ledger.TransactionLine) Leg {
	leg := Leg{Side: side}
	if len(lines) == 0 {
		return leg
	}

	sorted := slices.Clone(lines)
	slices.SortStableFunc(sorted, side.compare)

	seen := make(map[string]bool)
	for _, line := range sorted {
		if !seen[line.Account] {
			seen[line.Account] = true
			leg.Codes = append(leg.Codes, line.Account)
		}
	}

	// One lookup per leg; every line shares the resolved account.
	account, subAccount := c.mapper.Resolve(leg.Codes)
	sub := UnresolvedSubAccount
	if subAccount != nil {
		sub = *subAccount
	} else {
		leg.Unresolved = true
	}

	leg.Lines = make([]LegLine, 0, len(sorted))
	for _, line := range sorted {
		amount := line.Amount
		if side == Credit {
			amount = amount.Neg()
		}
		leg.Lines = append(leg.Lines, LegLine{
			Account:    account,
			SubAccount: sub,
			Amount:     amount,
			Remarks:    line.Remarks,
			Row:        line.Row,
		})
	}

	return leg
}
