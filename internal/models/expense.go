package models

import "github.com/shopspring/decimal"

type Expense struct {
	ID          string          `json:"id,omitempty" db:"id,omitempty"`
	Description string          `json:"description,omitempty" db:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount,omitempty" db:"amount,omitempty"`
	Currency    string          `json:"currency,omitempty" db:"currency,omitempty"`
	PaidBy      string          `json:"paid_by,omitempty" db:"paid_by,omitempty"`
	SplitWith   []string        `json:"split_with,omitempty" db:"split_with,omitempty"`
	CreatedBy   string          `json:"created_by,omitempty" db:"created_by,omitempty"`
	CreatedAt   string          `json:"created_at,omitempty" db:"created_at,omitempty"`
	UpdatedAt   string          `json:"updated_at,omitempty" db:"updated_at,omitempty"`
}
