package ledger

import (
	"github.com/shopspring/decimal"

	"tripledger/internal/models"
)

// ComputeBalances derives each member's signed net balance from the full
// expense history. Positive means the member is owed money, negative means
// the member owes. Every name in members appears in the result, at zero when
// inactive.
//
// The engine never fails on malformed history: an expense with no split
// participants is treated as split with the payer alone (divisor 1), and a
// payer or participant missing from the roster (for example a removed
// member) gets a ledger entry created on the fly. Balances must account for
// every name the history mentions, known member or not.
func ComputeBalances(members []string, expenses []models.Expense) map[string]decimal.Decimal {
	balances := make(map[string]decimal.Decimal, len(members))
	for _, name := range members {
		balances[name] = decimal.Zero
	}

	for _, expense := range expenses {
		divisor := int64(len(expense.SplitWith))
		if divisor == 0 {
			divisor = 1
		}
		perPerson := expense.Amount.Div(decimal.NewFromInt(divisor))

		// The payer fronted the money, so the group owes them the full amount.
		balances[expense.PaidBy] = balances[expense.PaidBy].Add(expense.Amount)

		for _, name := range expense.SplitWith {
			balances[name] = balances[name].Sub(perPerson)
		}
	}

	return balances
}

// RenameParticipant rewrites every occurrence of oldName as payer or split
// participant across the given expenses, in place. It returns the number of
// expense records that changed. Balances are preserved: the new name inherits
// exactly the old name's position.
func RenameParticipant(expenses []models.Expense, oldName, newName string) int {
	changed := 0
	for i := range expenses {
		touched := false
		if expenses[i].PaidBy == oldName {
			expenses[i].PaidBy = newName
			touched = true
		}
		for j, name := range expenses[i].SplitWith {
			if name == oldName {
				expenses[i].SplitWith[j] = newName
				touched = true
			}
		}
		if touched {
			changed++
		}
	}
	return changed
}

// BalanceStatus is the presentation reading of a balance, after rounding to
// the smallest currency unit.
func BalanceStatus(balance decimal.Decimal) string {
	rounded := balance.Round(2)
	switch {
	case rounded.IsPositive():
		return "is_owed"
	case rounded.IsNegative():
		return "owes"
	default:
		return "settled"
	}
}
