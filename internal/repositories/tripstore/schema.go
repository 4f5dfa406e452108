package tripstore

import (
	"database/sql"
	"fmt"
)

// Schema runs on startup so a fresh database is usable without manual setup.
// Trips must exist before members and expenses because of the foreign keys.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id INT AUTO_INCREMENT PRIMARY KEY,
    username VARCHAR(100) NOT NULL UNIQUE,
    email VARCHAR(255) NOT NULL,
    password VARCHAR(255) NOT NULL,
    role VARCHAR(20) NOT NULL DEFAULT 'user',
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS trips (
    id VARCHAR(40) PRIMARY KEY,
    name VARCHAR(100) NOT NULL,
    admin VARCHAR(100) NOT NULL,
    currency VARCHAR(10) NOT NULL DEFAULT 'TWD',
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS trip_members (
    trip_id VARCHAR(40) NOT NULL,
    name VARCHAR(100) NOT NULL,
    password VARCHAR(100) NOT NULL,
    joined_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (trip_id, name),
    FOREIGN KEY (trip_id) REFERENCES trips(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS expenses (
    id VARCHAR(40) PRIMARY KEY,
    trip_id VARCHAR(40) NOT NULL,
    description VARCHAR(100) NOT NULL,
    amount DECIMAL(10,2) NOT NULL,
    currency VARCHAR(10) NOT NULL DEFAULT 'TWD',
    paid_by VARCHAR(100) NOT NULL,
    split_with TEXT NOT NULL,
    created_by VARCHAR(100) NOT NULL,
    created_at VARCHAR(40) NOT NULL,
    updated_at VARCHAR(40) NOT NULL DEFAULT '',
    FOREIGN KEY (trip_id) REFERENCES trips(id) ON DELETE CASCADE,
    INDEX idx_expenses_trip_id (trip_id)
);
`

func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}
