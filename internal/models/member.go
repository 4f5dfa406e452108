package models

import "database/sql"

type Member struct {
	Name     string         `json:"name,omitempty" db:"name,omitempty"`
	Password string         `json:"password,omitempty" db:"password,omitempty"`
	JoinedAt sql.NullString `json:"joined_at,omitempty" db:"joined_at,omitempty"`
}
