package converter

import (
	"reflect"
	"testing"

	"github.com/bridgenote-apps/bn-excel-mapper/pkg/ledger"
	"github.com/shopspring/decimal"
)

func line(date, journal, voucher, account, amount, remarks string) ledger.TransactionLine {
	return ledger.TransactionLine{
		Date:          date,
		JournalNumber: journal,
		Voucher:       voucher,
		Account:       account,
		Amount:        decimal.RequireFromString(amount),
		Remarks:       remarks,
	}
}

func amounts(leg Leg) []string {
	var out []string
	for _, l := range leg.Lines {
		out = append(out, l.Amount.String())
	}
	return out
}

func TestBuildDebit(t *testing.T) {
	c := NewConverter(testMapper(), "")

	leg := c.BuildDebit([]ledger.TransactionLine{
		line("20240101", "1", "V1", "601", "100", "b"),
		line("20240101", "1", "V1", "610", "50", "z"),
		line("20240101", "1", "V1", "601", "100", "a"),
	})

	if got, want := amounts(leg), []string{"50", "100", "100"}; !reflect.DeepEqual(got, want) {
		t.Errorf("debit amounts = %v, expected %v", got, want)
	}
	if leg.Lines[1].Remarks != "a" || leg.Lines[2].Remarks != "b" {
		t.Errorf("ties not ordered by remarks: %q, %q", leg.Lines[1].Remarks, leg.Lines[2].Remarks)
	}
	// 610 comes first after sorting, but 601 is earlier in the mapping table.
	for i, l := range leg.Lines {
		if l.Account != "Travel" || l.SubAccount != "Domestic" {
			t.Errorf("line %d resolved to (%q, %q), expected (Travel, Domestic)", i, l.Account, l.SubAccount)
		}
		if l.Division != "" || l.Project != "" {
			t.Errorf("line %d division/project = (%q, %q), expected empty", i, l.Division, l.Project)
		}
	}
	if !reflect.DeepEqual(leg.Codes, []string{"610", "601"}) {
		t.Errorf("leg codes = %v, expected [610 601]", leg.Codes)
	}
}

func TestBuildCredit(t *testing.T) {
	c := NewConverter(testMapper(), "")

	leg := c.BuildCredit([]ledger.TransactionLine{
		line("20240101", "1", "V1", "200", "-150", "x"),
		line("20240101", "1", "V1", "200", "-20", "b"),
		line("20240101", "1", "V1", "200", "-20", "a"),
	})

	// Sorted by amount descending (-20 before -150), then negated.
	if got, want := amounts(leg), []string{"20", "20", "150"}; !reflect.DeepEqual(got, want) {
		t.Errorf("credit amounts = %v, expected %v", got, want)
	}
	if leg.Lines[0].Remarks != "a" {
		t.Errorf("first credit remarks = %q, expected a", leg.Lines[0].Remarks)
	}
	for _, l := range leg.Lines {
		if !l.Amount.IsPositive() {
			t.Errorf("credit amount %s is not positive", l.Amount)
		}
		if l.Account != "Cash" || l.SubAccount != "" {
			t.Errorf("credit resolved to (%q, %q), expected (Cash, \"\")", l.Account, l.SubAccount)
		}
	}
}

func TestBuildLegUnresolved(t *testing.T) {
	c := NewConverter(testMapper(), "")

	leg := c.BuildDebit([]ledger.TransactionLine{line("20240101", "1", "V1", "699", "10", "")})
	if !leg.Unresolved {
		t.Error("leg.Unresolved = false, expected true")
	}
	if got := leg.Lines[0].Account; got != "N/A: 699" {
		t.Errorf("account = %q, expected %q", got, "N/A: 699")
	}
	if got := leg.Lines[0].SubAccount; got != "N/A" {
		t.Errorf("sub-account = %q, expected %q", got, "N/A")
	}

	empty := c.BuildCredit(nil)
	if len(empty.Lines) != 0 || empty.Unresolved {
		t.Errorf("empty leg = %+v, expected no lines", empty)
	}
}

func TestAssembleJournal(t *testing.T) {
	c := NewConverter(testMapper(), "")
	group := ledger.JournalGroup{
		Key: ledger.JournalKey{Date: "20240101", JournalNumber: "7", Voucher: "V1"},
		Lines: []ledger.TransactionLine{
			line("20240101", "7", "V1", "601", "100", "taxi"),
			line("20240101", "7", "V1", "601", "50", "train"),
			line("20240101", "7", "V1", "200", "-150", "paid"),
		},
	}

	rows := c.AssembleJournal(group, 3)
	if len(rows) != 2 {
		t.Fatalf("AssembleJournal() returned %d rows, expected 2", len(rows))
	}

	for i, row := range rows {
		if row.UnitNo != 3 || row.Date != "20240101" || row.Voucher != "V1" || row.VoucherType != "" {
			t.Errorf("row %d header = %+v, expected journal fields repeated", i, row)
		}
	}

	if rows[0].Debit.Amount.String() != "50" || rows[1].Debit.Amount.String() != "100" {
		t.Errorf("debit amounts = [%s %s], expected [50 100]", rows[0].Debit.Amount, rows[1].Debit.Amount)
	}
	if rows[0].Credit == nil || rows[0].Credit.Amount.String() != "150" {
		t.Errorf("first credit = %+v, expected 150", rows[0].Credit)
	}
	if rows[1].Credit != nil {
		t.Errorf("second credit = %+v, expected nil", rows[1].Credit)
	}

	want := []string{"20240101", "3", "", "", "Travel", "Domestic", "100", "taxi", "", "", "", "", "", "", "V1", ""}
	if got := rows[1].Strings(); !reflect.DeepEqual(got, want) {
		t.Errorf("row 2 = %q, expected %q", got, want)
	}
}

func TestAssembleJournalOnlyZeroAmounts(t *testing.T) {
	c := NewConverter(testMapper(), "")
	group := ledger.JournalGroup{
		Key:   ledger.JournalKey{Date: "20240101", JournalNumber: "1", Voucher: "V1"},
		Lines: []ledger.TransactionLine{line("20240101", "1", "V1", "601", "0", "")},
	}

	rows := c.AssembleJournal(group, 1)
	if len(rows) != 1 {
		t.Fatalf("AssembleJournal() returned %d rows, expected 1", len(rows))
	}
	if rows[0].Debit != nil || rows[0].Credit != nil {
		t.Errorf("row = %+v, expected empty legs", rows[0])
	}
}

func TestExecute(t *testing.T) {
	c := NewConverter(testMapper(), "")

	lines := []ledger.TransactionLine{
		line("20240101", "2", "V2", "200", "100", "a"),
		line("20240101", "1", "V1", "601", "100", "x"),
		line("20240101", "2", "V2", "2001", "-100", "b"),
		line("20240101", "1", "V1", "200", "-100", "y"),
	}

	result := c.Execute(lines)

	if result.Journals != 1 || result.Skipped != 1 {
		t.Errorf("Execute() journals/skipped = %d/%d, expected 1/1", result.Journals, result.Skipped)
	}
	if len(result.Table.Rows) != 1 {
		t.Fatalf("Execute() returned %d rows, expected 1", len(result.Table.Rows))
	}

	want := []string{"20240101", "1", "", "", "Travel", "Domestic", "100", "x", "", "", "Cash", "", "100", "y", "V1", ""}
	if got := result.Table.Rows[0].Strings(); !reflect.DeepEqual(got, want) {
		t.Errorf("row = %q, expected %q", got, want)
	}
}

func TestExecuteUnitNumbers(t *testing.T) {
	c := NewConverter(testMapper(), "")

	lines := []ledger.TransactionLine{
		line("20240102", "1", "V3", "610", "10", ""),
		line("20240102", "1", "V3", "200", "-10", ""),
		line("20240101", "10", "V2", "601", "20", ""),
		line("20240101", "10", "V2", "200", "-20", ""),
		line("20240101", "9", "V9", "200", "5", ""),
		line("20240101", "9", "V9", "201", "-5", ""),
		line("20240101", "2", "V1", "601", "30", ""),
		line("20240101", "2", "V1", "200", "-15", ""),
		line("20240101", "2", "V1", "200", "-15", ""),
	}

	result := c.Execute(lines)

	var got []string
	for _, row := range result.Table.Rows {
		got = append(got, row.Voucher+":"+row.Strings()[1])
	}
	// Ordered by (date, journal number numerically, voucher); V9 is skipped
	// without consuming a unit number.
	want := []string{"V1:1", "V1:1", "V2:2", "V3:3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("voucher:unit = %v, expected %v", got, want)
	}
	if len(result.Unresolved) != 0 {
		t.Errorf("Unresolved = %v, expected none", result.Unresolved)
	}
}

func TestExecuteDeterministic(t *testing.T) {
	lines := []ledger.TransactionLine{
		line("20240101", "1", "V1", "601", "100", "x"),
		line("20240101", "1", "V1", "699", "-60", "y"),
		line("20240101", "1", "V1", "698", "-40", "z"),
		line("20240103", "4", "V4", "610", "7", ""),
	}
	for i := range lines {
		lines[i].Row = i + 2
	}

	first := NewConverter(testMapper(), "").Execute(lines)
	second := NewConverter(testMapper(), "").Execute(lines)

	if !reflect.DeepEqual(first.Table.Records(), second.Table.Records()) {
		t.Error("Execute() is not deterministic across runs")
	}
	if len(first.Unresolved) != 1 {
		t.Fatalf("Unresolved = %v, expected 1 leg", first.Unresolved)
	}
	if u := first.Unresolved[0]; u.UnitNo != 1 || u.Side != Credit || u.Voucher != "V1" {
		t.Errorf("Unresolved[0] = %+v, expected credit leg of unit 1", u)
	}
	if got := first.Unresolved[0].Rows; !reflect.DeepEqual(got, []int{4, 3}) {
		t.Errorf("Unresolved[0].Rows = %v, expected [4 3]", got)
	}
	// Codes follow the sorted credit leg: -40 sorts before -60.
	if got := first.Table.Rows[0].Credit.Account; got != "N/A: 698, 699" {
		t.Errorf("credit account = %q, expected %q", got, "N/A: 698, 699")
	}
}

func TestExecuteCustomPrefix(t *testing.T) {
	c := NewConverter(testMapper(), "2")
	result := c.Execute([]ledger.TransactionLine{
		line("20240101", "1", "V1", "200", "5", ""),
		line("20240101", "2", "V2", "601", "5", ""),
	})
	if result.Journals != 1 || result.Table.Rows[0].Voucher != "V1" {
		t.Errorf("Execute() with prefix 2 kept %d journals, expected only V1", result.Journals)
	}
}

func TestHeader(t *testing.T) {
	header := Header()
	if len(header) != 16 {
		t.Fatalf("Header() has %d columns, expected 16", len(header))
	}
	if header[0] != "date" || header[1] != "Unit No." || header[15] != "Voucher Type" {
		t.Errorf("Header() = %q", header)
	}
}
