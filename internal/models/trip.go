package models

import "database/sql"

type Trip struct {
	ID        string             `json:"id,omitempty" db:"id,omitempty"`
	Name      string             `json:"name,omitempty" db:"name,omitempty"`
	Admin     string             `json:"admin,omitempty" db:"admin,omitempty"`
	Currency  string             `json:"currency,omitempty" db:"currency,omitempty"`
	CreatedAt sql.NullString     `json:"created_at,omitempty" db:"created_at,omitempty"`
	Members   map[string]Member  `json:"members,omitempty"`
	Expenses  map[string]Expense `json:"expenses,omitempty"`
}
