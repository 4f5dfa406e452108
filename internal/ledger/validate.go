// Package ledger holds the core of the trip expense system: input
// sanitization and validation for expense records, and the balance engine
// that derives each member's net position from the full expense history.
// Everything in this package is pure; persistence and authorization live
// with the callers.
package ledger

import (
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"tripledger/internal/models"
)

const (
	maxTextLength = 100

	// Characters stripped from every text field before storage or display.
	unsafeChars = "<>{}[]\"'`;:|\\?*"
)

// MaxAmount is the upper bound for a single expense.
var MaxAmount = decimal.NewFromInt(999999)

// Amount is the wire form of a money value. Callers send it as either a
// JSON string or a JSON number; both keep their raw text so parsing, and
// the rejection message when it fails, stay with ValidateAmount.
type Amount string

func (a *Amount) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}
	*a = Amount(data)
	return nil
}

// ExpenseInput carries the raw caller-supplied fields for a new expense.
// Amount is kept as the caller sent it; parsing is part of validation.
type ExpenseInput struct {
	Description string   `json:"description"`
	Amount      Amount   `json:"amount"`
	PaidBy      string   `json:"paid_by"`
	SplitWith   []string `json:"split_with"`
	CreatedBy   string   `json:"created_by"`
}

// ExpensePatch carries a partial update. Nil fields keep their prior values.
type ExpensePatch struct {
	Description *string   `json:"description"`
	Amount      *Amount   `json:"amount"`
	PaidBy      *string   `json:"paid_by"`
	SplitWith   *[]string `json:"split_with"`
}

// SanitizeText trims the input and strips characters unsafe for storage or
// display. It reports false when the cleaned result is empty or longer than
// 100 characters. Sanitizing an already-sanitized string returns it unchanged.
func SanitizeText(input string) (string, bool) {
	cleaned := strings.Map(func(r rune) rune {
		if strings.ContainsRune(unsafeChars, r) {
			return -1
		}
		return r
	}, strings.TrimSpace(input))

	if cleaned == "" || utf8.RuneCountInString(cleaned) > maxTextLength {
		return "", false
	}
	return cleaned, true
}

// ValidateAmount parses input as a decimal amount. It reports false when the
// input is not a number, not strictly positive, above 999,999, or carries
// more than two decimal places.
func ValidateAmount(input string) (decimal.Decimal, bool) {
	amount, err := decimal.NewFromString(strings.TrimSpace(input))
	if err != nil {
		return decimal.Decimal{}, false
	}
	if amount.LessThanOrEqual(decimal.Zero) || amount.GreaterThan(MaxAmount) {
		return decimal.Decimal{}, false
	}
	// Reject sub-cent precision: the value must survive rounding to cents.
	if !amount.Equal(amount.Round(2)) {
		return decimal.Decimal{}, false
	}
	return amount, true
}

// sanitizeSplitWith sanitizes each entry, silently dropping the ones that
// fail. A malformed participant never rejects the whole expense; an empty
// result does.
func sanitizeSplitWith(names []string) []string {
	sanitized := make([]string, 0, len(names))
	for _, name := range names {
		if clean, ok := SanitizeText(name); ok {
			sanitized = append(sanitized, clean)
		}
	}
	return sanitized
}

// ValidateExpenseInput turns raw caller fields into a canonical expense
// record or a *Rejection explaining what to fix. The returned expense has no
// ID; the store assigns one.
func ValidateExpenseInput(in ExpenseInput, currency string) (models.Expense, error) {
	description, ok := SanitizeText(in.Description)
	if !ok {
		return models.Expense{}, NewRejection(KindValidation,
			"description invalid: must be 1-100 characters without special symbols")
	}

	amount, ok := ValidateAmount(string(in.Amount))
	if !ok {
		return models.Expense{}, NewRejection(KindValidation,
			"amount invalid: must be between 0 and 999,999 with at most 2 decimals")
	}

	paidBy, ok := SanitizeText(in.PaidBy)
	if !ok {
		return models.Expense{}, NewRejection(KindValidation, "payer name invalid")
	}

	createdBy, ok := SanitizeText(in.CreatedBy)
	if !ok {
		return models.Expense{}, NewRejection(KindValidation, "creator name invalid")
	}

	splitWith := sanitizeSplitWith(in.SplitWith)
	if len(splitWith) == 0 {
		return models.Expense{}, NewRejection(KindValidation,
			"split invalid: at least one valid participant is required")
	}

	return models.Expense{
		Description: description,
		Amount:      amount,
		Currency:    currency,
		PaidBy:      paidBy,
		SplitWith:   splitWith,
		CreatedBy:   createdBy,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// ValidateExpenseUpdate applies a partial update to an existing canonical
// record, revalidating only the supplied fields. ID, CreatedBy and CreatedAt
// are immutable; UpdatedAt is stamped on every successful call.
func ValidateExpenseUpdate(patch ExpensePatch, current models.Expense) (models.Expense, error) {
	updated := current

	if patch.Description != nil {
		description, ok := SanitizeText(*patch.Description)
		if !ok {
			return models.Expense{}, NewRejection(KindValidation,
				"description invalid: must be 1-100 characters without special symbols")
		}
		updated.Description = description
	}

	if patch.Amount != nil {
		amount, ok := ValidateAmount(string(*patch.Amount))
		if !ok {
			return models.Expense{}, NewRejection(KindValidation,
				"amount invalid: must be between 0 and 999,999 with at most 2 decimals")
		}
		updated.Amount = amount
	}

	if patch.PaidBy != nil {
		paidBy, ok := SanitizeText(*patch.PaidBy)
		if !ok {
			return models.Expense{}, NewRejection(KindValidation, "payer name invalid")
		}
		updated.PaidBy = paidBy
	}

	if patch.SplitWith != nil {
		splitWith := sanitizeSplitWith(*patch.SplitWith)
		if len(splitWith) == 0 {
			return models.Expense{}, NewRejection(KindValidation,
				"split invalid: at least one valid participant is required")
		}
		updated.SplitWith = splitWith
	}

	updated.ID = current.ID
	updated.CreatedBy = current.CreatedBy
	updated.CreatedAt = current.CreatedAt
	updated.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	return updated, nil
}
