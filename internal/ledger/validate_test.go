package ledger

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{name: "plain text passes", input: "Dinner at night market", want: "Dinner at night market", wantOK: true},
		{name: "trims whitespace", input: "  Alice  ", want: "Alice", wantOK: true},
		{name: "strips angle brackets", input: "<script>alert</script>", want: "scriptalert/script", wantOK: true},
		{name: "strips quotes and backslash", input: `Bob\"'` + "`", want: "Bob", wantOK: true},
		{name: "strips braces brackets pipes", input: "a{b}[c]|d", want: "abcd", wantOK: true},
		{name: "strips semicolon colon question star", input: "x;y:z?w*", want: "xyzw", wantOK: true},
		{name: "empty rejected", input: "", wantOK: false},
		{name: "whitespace only rejected", input: "   ", wantOK: false},
		{name: "only unsafe chars rejected", input: `<>{}"';`, wantOK: false},
		{name: "101 chars rejected", input: strings.Repeat("a", 101), wantOK: false},
		{name: "100 chars accepted", input: strings.Repeat("a", 100), want: strings.Repeat("a", 100), wantOK: true},
		{name: "multibyte counted as characters", input: strings.Repeat("旅", 100), want: strings.Repeat("旅", 100), wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SanitizeText(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("SanitizeText(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("SanitizeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeTextIdempotent(t *testing.T) {
	inputs := []string{"Dinner", "  spaced out  ", "<Taxi>", "night 'market'", "團體晚餐"}
	for _, input := range inputs {
		once, ok := SanitizeText(input)
		if !ok {
			t.Fatalf("SanitizeText(%q) unexpectedly rejected", input)
		}
		twice, ok := SanitizeText(once)
		if !ok {
			t.Fatalf("SanitizeText(%q) rejected its own output", input)
		}
		if twice != once {
			t.Errorf("SanitizeText not idempotent: %q -> %q -> %q", input, once, twice)
		}
	}
}

func TestValidateAmount(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{name: "whole amount", input: "100", want: "100", wantOK: true},
		{name: "two decimals", input: "33.33", want: "33.33", wantOK: true},
		{name: "upper bound accepted", input: "999999", want: "999999", wantOK: true},
		{name: "above upper bound rejected", input: "1000000", wantOK: false},
		{name: "zero rejected", input: "0", wantOK: false},
		{name: "negative rejected", input: "-5", wantOK: false},
		{name: "three decimals rejected", input: "10.005", wantOK: false},
		{name: "sub-cent rejected", input: "0.001", wantOK: false},
		{name: "not a number rejected", input: "abc", wantOK: false},
		{name: "empty rejected", input: "", wantOK: false},
		{name: "trailing zeros accepted", input: "25.10", want: "25.1", wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ValidateAmount(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ValidateAmount(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && got.String() != tt.want {
				t.Errorf("ValidateAmount(%q) = %s, want %s", tt.input, got.String(), tt.want)
			}
		})
	}
}

func TestValidateExpenseInput(t *testing.T) {
	valid := ExpenseInput{
		Description: "Dinner",
		Amount:      "300",
		PaidBy:      "Alice",
		SplitWith:   []string{"Alice", "Bob", "Carol"},
		CreatedBy:   "Alice",
	}

	t.Run("valid input canonicalized", func(t *testing.T) {
		expense, err := ValidateExpenseInput(valid, "TWD")
		if err != nil {
			t.Fatalf("unexpected rejection: %v", err)
		}
		if expense.Description != "Dinner" || expense.PaidBy != "Alice" || expense.CreatedBy != "Alice" {
			t.Errorf("unexpected canonical fields: %+v", expense)
		}
		if expense.Currency != "TWD" {
			t.Errorf("currency = %q, want TWD", expense.Currency)
		}
		if expense.CreatedAt == "" {
			t.Error("CreatedAt not assigned")
		}
		if len(expense.SplitWith) != 3 {
			t.Errorf("split_with = %v, want 3 entries", expense.SplitWith)
		}
	})

	t.Run("invalid participants silently dropped", func(t *testing.T) {
		in := valid
		in.SplitWith = []string{"Alice", "<<<>>>", "  ", "Bob"}
		expense, err := ValidateExpenseInput(in, "TWD")
		if err != nil {
			t.Fatalf("unexpected rejection: %v", err)
		}
		if len(expense.SplitWith) != 2 || expense.SplitWith[0] != "Alice" || expense.SplitWith[1] != "Bob" {
			t.Errorf("split_with = %v, want [Alice Bob]", expense.SplitWith)
		}
	})

	rejections := []struct {
		name   string
		mutate func(in *ExpenseInput)
	}{
		{name: "empty split rejected", mutate: func(in *ExpenseInput) { in.SplitWith = nil }},
		{name: "all-invalid split rejected", mutate: func(in *ExpenseInput) { in.SplitWith = []string{"<>", "''"} }},
		{name: "zero amount rejected", mutate: func(in *ExpenseInput) { in.Amount = "0" }},
		{name: "negative amount rejected", mutate: func(in *ExpenseInput) { in.Amount = "-5" }},
		{name: "oversized amount rejected", mutate: func(in *ExpenseInput) { in.Amount = "1000000" }},
		{name: "bad description rejected", mutate: func(in *ExpenseInput) { in.Description = "  " }},
		{name: "bad payer rejected", mutate: func(in *ExpenseInput) { in.PaidBy = "<>" }},
		{name: "bad creator rejected", mutate: func(in *ExpenseInput) { in.CreatedBy = "" }},
	}

	for _, tt := range rejections {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			in.SplitWith = append([]string(nil), valid.SplitWith...)
			tt.mutate(&in)
			_, err := ValidateExpenseInput(in, "TWD")
			if err == nil {
				t.Fatal("expected rejection, got success")
			}
			if !IsValidation(err) {
				t.Errorf("rejection kind = %v, want validation", err)
			}
		})
	}

	t.Run("boundary amount accepted", func(t *testing.T) {
		in := valid
		in.Amount = "999999"
		if _, err := ValidateExpenseInput(in, "TWD"); err != nil {
			t.Errorf("amount 999999 rejected: %v", err)
		}
	})
}

func TestExpenseInputAmountWire(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "json number", body: `{"description":"Taxi","amount":42.5,"paid_by":"Alice","split_with":["Alice","Bob"],"created_by":"Alice"}`, want: "42.5"},
		{name: "json string", body: `{"description":"Taxi","amount":"42.5","paid_by":"Alice","split_with":["Alice","Bob"],"created_by":"Alice"}`, want: "42.5"},
		{name: "json integer", body: `{"description":"Taxi","amount":300,"paid_by":"Alice","split_with":["Alice","Bob"],"created_by":"Alice"}`, want: "300"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var in ExpenseInput
			if err := json.Unmarshal([]byte(tt.body), &in); err != nil {
				t.Fatalf("decode failed: %v", err)
			}
			expense, err := ValidateExpenseInput(in, "TWD")
			if err != nil {
				t.Fatalf("unexpected rejection: %v", err)
			}
			if expense.Amount.String() != tt.want {
				t.Errorf("amount = %s, want %s", expense.Amount, tt.want)
			}
		})
	}

	t.Run("non-numeric string still gets the amount rejection", func(t *testing.T) {
		var in ExpenseInput
		body := `{"description":"Taxi","amount":"abc","paid_by":"Alice","split_with":["Alice"],"created_by":"Alice"}`
		if err := json.Unmarshal([]byte(body), &in); err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		_, err := ValidateExpenseInput(in, "TWD")
		if !IsValidation(err) {
			t.Fatalf("expected a validation rejection, got %v", err)
		}
		if !strings.Contains(err.Error(), "amount invalid") {
			t.Errorf("rejection %q does not name the amount", err)
		}
	})
}

func TestValidateExpenseUpdate(t *testing.T) {
	current, err := ValidateExpenseInput(ExpenseInput{
		Description: "Hotel",
		Amount:      "1200",
		PaidBy:      "Bob",
		SplitWith:   []string{"Alice", "Bob"},
		CreatedBy:   "Bob",
	}, "TWD")
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	current.ID = "exp-1"

	t.Run("absent fields keep prior values", func(t *testing.T) {
		amount := Amount("1500")
		updated, err := ValidateExpenseUpdate(ExpensePatch{Amount: &amount}, current)
		if err != nil {
			t.Fatalf("unexpected rejection: %v", err)
		}
		if updated.Amount.String() != "1500" {
			t.Errorf("amount = %s, want 1500", updated.Amount)
		}
		if updated.Description != "Hotel" || updated.PaidBy != "Bob" {
			t.Errorf("untouched fields changed: %+v", updated)
		}
		if updated.ID != "exp-1" || updated.CreatedBy != "Bob" || updated.CreatedAt != current.CreatedAt {
			t.Error("immutable fields changed on update")
		}
		if updated.UpdatedAt == "" {
			t.Error("UpdatedAt not stamped")
		}
	})

	t.Run("invalid supplied field rejects whole update", func(t *testing.T) {
		bad := Amount("not-a-number")
		if _, err := ValidateExpenseUpdate(ExpensePatch{Amount: &bad}, current); err == nil {
			t.Fatal("expected rejection")
		}
	})

	t.Run("empty split patch rejected", func(t *testing.T) {
		empty := []string{}
		if _, err := ValidateExpenseUpdate(ExpensePatch{SplitWith: &empty}, current); err == nil {
			t.Fatal("expected rejection")
		}
	})
}
