package ledger

import (
	"testing"

	"github.com/shopspring/decimal"

	"tripledger/internal/models"
)

func expense(amount string, paidBy string, splitWith ...string) models.Expense {
	return models.Expense{
		Amount:    decimal.RequireFromString(amount),
		PaidBy:    paidBy,
		SplitWith: splitWith,
	}
}

func sumBalances(balances map[string]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, b := range balances {
		total = total.Add(b)
	}
	return total
}

func TestComputeBalancesEmptyHistory(t *testing.T) {
	members := []string{"Alice", "Bob", "Carol"}
	balances := ComputeBalances(members, nil)

	if len(balances) != 3 {
		t.Fatalf("got %d entries, want 3", len(balances))
	}
	for _, name := range members {
		b, ok := balances[name]
		if !ok {
			t.Fatalf("member %s missing from balance map", name)
		}
		if !b.IsZero() {
			t.Errorf("%s balance = %s, want 0", name, b)
		}
	}
}

func TestComputeBalancesPayerInSplit(t *testing.T) {
	members := []string{"Alice", "Bob", "Carol"}
	expenses := []models.Expense{
		expense("300", "Alice", "Alice", "Bob", "Carol"),
	}

	balances := ComputeBalances(members, expenses)

	want := map[string]string{"Alice": "200", "Bob": "-100", "Carol": "-100"}
	for name, expected := range want {
		if !balances[name].Equal(decimal.RequireFromString(expected)) {
			t.Errorf("%s balance = %s, want %s", name, balances[name], expected)
		}
	}
	if !sumBalances(balances).IsZero() {
		t.Errorf("balances sum = %s, want 0", sumBalances(balances))
	}
}

func TestComputeBalancesUnknownParticipant(t *testing.T) {
	members := []string{"Alice", "Bob", "Carol"}
	expenses := []models.Expense{
		expense("90", "Alice", "Bob", "Dave", "Carol"),
	}

	balances := ComputeBalances(members, expenses)

	dave, ok := balances["Dave"]
	if !ok {
		t.Fatal("Dave missing: unknown names must get on-the-fly entries")
	}
	if !dave.IsNegative() {
		t.Errorf("Dave balance = %s, want negative", dave)
	}
	if !balances["Alice"].Equal(decimal.NewFromInt(90)) {
		t.Errorf("Alice balance = %s, want 90", balances["Alice"])
	}
}

func TestComputeBalancesUnknownPayer(t *testing.T) {
	// A removed member can still appear as payer in historical records.
	members := []string{"Bob"}
	expenses := []models.Expense{
		expense("50", "Ghost", "Bob"),
	}

	balances := ComputeBalances(members, expenses)
	if !balances["Ghost"].Equal(decimal.NewFromInt(50)) {
		t.Errorf("Ghost balance = %s, want 50", balances["Ghost"])
	}
	if !balances["Bob"].Equal(decimal.NewFromInt(-50)) {
		t.Errorf("Bob balance = %s, want -50", balances["Bob"])
	}
}

func TestComputeBalancesEmptySplitDefensive(t *testing.T) {
	members := []string{"Alice", "Bob"}
	expenses := []models.Expense{
		expense("40", "Alice"), // corrupted record, no split participants
	}

	balances := ComputeBalances(members, expenses)
	if !balances["Alice"].Equal(decimal.NewFromInt(40)) {
		t.Errorf("Alice balance = %s, want 40 (empty split must not divide by zero)", balances["Alice"])
	}
	if !balances["Bob"].IsZero() {
		t.Errorf("Bob balance = %s, want 0", balances["Bob"])
	}
}

func TestComputeBalancesMoneyConserved(t *testing.T) {
	members := []string{"Alice", "Bob", "Carol"}
	expenses := []models.Expense{
		expense("100", "Alice", "Alice", "Bob", "Carol"),
		expense("33.33", "Bob", "Alice", "Bob"),
		expense("0.01", "Carol", "Alice"),
		expense("999999", "Alice", "Bob", "Carol"),
	}

	balances := ComputeBalances(members, expenses)

	// Conservation: credited totals always equal debited totals, up to one
	// smallest currency unit per participant of rounding slack.
	slack := decimal.New(1, -2).Mul(decimal.NewFromInt(int64(len(members))))
	if sumBalances(balances).Abs().GreaterThan(slack) {
		t.Errorf("balances sum = %s, exceeds rounding slack %s", sumBalances(balances), slack)
	}
}

func TestComputeBalancesThreeWaySplitSlack(t *testing.T) {
	members := []string{"A", "B", "C"}
	expenses := []models.Expense{
		expense("100", "A", "A", "B", "C"),
	}

	balances := ComputeBalances(members, expenses)

	perPerson := decimal.RequireFromString("33.33")
	if balances["B"].Neg().Round(2).Cmp(perPerson) != 0 {
		t.Errorf("B owes %s, want ~%s", balances["B"].Neg().Round(2), perPerson)
	}

	slack := decimal.New(1, -2).Mul(decimal.NewFromInt(3))
	if sumBalances(balances).Abs().GreaterThan(slack) {
		t.Errorf("deviation %s exceeds slack %s", sumBalances(balances).Abs(), slack)
	}
}

func TestComputeBalancesOrderIndependent(t *testing.T) {
	members := []string{"Alice", "Bob"}
	forward := []models.Expense{
		expense("10", "Alice", "Bob"),
		expense("25.50", "Bob", "Alice", "Bob"),
		expense("7.77", "Alice", "Alice"),
	}
	backward := []models.Expense{forward[2], forward[1], forward[0]}

	a := ComputeBalances(members, forward)
	b := ComputeBalances(members, backward)

	for name := range a {
		if !a[name].Equal(b[name]) {
			t.Errorf("%s balance depends on order: %s vs %s", name, a[name], b[name])
		}
	}
}

func TestComputeBalancesNoDriftOverManyExpenses(t *testing.T) {
	members := []string{"A", "B", "C"}
	var expenses []models.Expense
	for i := 0; i < 1000; i++ {
		expenses = append(expenses, expense("0.10", "A", "A", "B", "C"))
	}

	balances := ComputeBalances(members, expenses)

	// 1000 * 0.10 = 100 credited; each participant owes a third.
	if !balances["A"].Round(2).Equal(decimal.RequireFromString("66.67")) {
		t.Errorf("A balance = %s, want 66.67 after rounding", balances["A"].Round(2))
	}
	slack := decimal.New(1, -2).Mul(decimal.NewFromInt(3))
	if sumBalances(balances).Abs().GreaterThan(slack) {
		t.Errorf("accumulated drift %s exceeds %s", sumBalances(balances).Abs(), slack)
	}
}

func TestRenameParticipant(t *testing.T) {
	members := []string{"Alice", "Bob", "Carol"}
	expenses := []models.Expense{
		expense("300", "Bob", "Alice", "Bob", "Carol"),
		expense("60", "Alice", "Bob", "Carol"),
		expense("45", "Carol", "Alice"),
	}

	before := ComputeBalances(members, expenses)
	bobBefore := before["Bob"]

	changed := RenameParticipant(expenses, "Bob", "Robert")
	if changed != 2 {
		t.Errorf("changed = %d, want 2", changed)
	}

	after := ComputeBalances([]string{"Alice", "Robert", "Carol"}, expenses)
	if _, ok := after["Bob"]; ok {
		t.Error("Bob still present after rename")
	}
	if !after["Robert"].Equal(bobBefore) {
		t.Errorf("Robert balance = %s, want pre-rename Bob balance %s", after["Robert"], bobBefore)
	}
}

func TestBalanceStatus(t *testing.T) {
	tests := []struct {
		balance string
		want    string
	}{
		{"200", "is_owed"},
		{"-100", "owes"},
		{"0", "settled"},
		{"0.001", "settled"}, // rounds to zero at cent granularity
		{"-0.004", "settled"},
		{"0.01", "is_owed"},
	}
	for _, tt := range tests {
		got := BalanceStatus(decimal.RequireFromString(tt.balance))
		if got != tt.want {
			t.Errorf("BalanceStatus(%s) = %q, want %q", tt.balance, got, tt.want)
		}
	}
}
