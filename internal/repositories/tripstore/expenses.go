package tripstore

import (
	"context"
	"database/sql"
	"fmt"

	"tripledger/internal/models"
	"tripledger/pkg/utils"
)

// CreateExpense persists a canonical expense record and returns the
// store-assigned opaque ID.
func CreateExpense(ctx context.Context, db *sql.DB, tripID string, expense models.Expense) (string, error) {
	expenseID := utils.GenerateRandomString(20)

	splitWith, err := marshalSplitWith(expense.SplitWith)
	if err != nil {
		return "", err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO expenses (id, trip_id, description, amount, currency, paid_by, split_with, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, '')
	`, expenseID, tripID, expense.Description, expense.Amount, expense.Currency,
		expense.PaidBy, splitWith, expense.CreatedBy, expense.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("failed to insert expense: %w", err)
	}
	return expenseID, nil
}

// GetExpense loads one expense of a trip.
func GetExpense(ctx context.Context, db *sql.DB, tripID, expenseID string) (models.Expense, error) {
	var expense models.Expense
	var splitWith string
	err := db.QueryRowContext(ctx, `
		SELECT id, description, amount, currency, paid_by, split_with, created_by, created_at, updated_at
		FROM expenses WHERE trip_id = ? AND id = ?
	`, tripID, expenseID).Scan(
		&expense.ID, &expense.Description, &expense.Amount, &expense.Currency,
		&expense.PaidBy, &splitWith, &expense.CreatedBy, &expense.CreatedAt, &expense.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return models.Expense{}, ErrNotFound
	}
	if err != nil {
		return models.Expense{}, fmt.Errorf("failed to get expense: %w", err)
	}
	expense.SplitWith = unmarshalSplitWith(splitWith)
	return expense, nil
}

// ListExpenses returns the trip's full expense collection, newest first.
func ListExpenses(ctx context.Context, db *sql.DB, tripID string) ([]models.Expense, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, description, amount, currency, paid_by, split_with, created_by, created_at, updated_at
		FROM expenses WHERE trip_id = ? ORDER BY created_at DESC
	`, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		var expense models.Expense
		var splitWith string
		if err := rows.Scan(
			&expense.ID, &expense.Description, &expense.Amount, &expense.Currency,
			&expense.PaidBy, &splitWith, &expense.CreatedBy, &expense.CreatedAt, &expense.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expense.SplitWith = unmarshalSplitWith(splitWith)
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	return expenses, nil
}

// UpdateExpense replaces the mutable fields of an existing record. The
// caller supplies a fully revalidated expense; id, created_by and created_at
// never change.
func UpdateExpense(ctx context.Context, db *sql.DB, tripID string, expense models.Expense) error {
	splitWith, err := marshalSplitWith(expense.SplitWith)
	if err != nil {
		return err
	}

	res, err := db.ExecContext(ctx, `
		UPDATE expenses SET description = ?, amount = ?, paid_by = ?, split_with = ?, updated_at = ?
		WHERE trip_id = ? AND id = ?
	`, expense.Description, expense.Amount, expense.PaidBy, splitWith, expense.UpdatedAt, tripID, expense.ID)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteExpense hard-deletes one expense. There is no recovery.
func DeleteExpense(ctx context.Context, db *sql.DB, tripID, expenseID string) error {
	res, err := db.ExecContext(ctx, "DELETE FROM expenses WHERE trip_id = ? AND id = ?", tripID, expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}
