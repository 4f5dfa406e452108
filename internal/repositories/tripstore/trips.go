package tripstore

import (
	"context"
	"database/sql"
	"fmt"

	"tripledger/internal/models"
	"tripledger/pkg/utils"
)

// CreateTrip persists a new trip container and returns its store-assigned ID.
func CreateTrip(ctx context.Context, db *sql.DB, name, admin, currency string) (string, error) {
	tripID := utils.GenerateRandomString(20)

	_, err := db.ExecContext(ctx,
		"INSERT INTO trips (id, name, admin, currency) VALUES (?, ?, ?, ?)",
		tripID, name, admin, currency,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert trip: %w", err)
	}
	return tripID, nil
}

// GetTrip loads a trip with its full member roster and expense collection.
func GetTrip(ctx context.Context, db *sql.DB, tripID string) (models.Trip, error) {
	var trip models.Trip
	err := db.QueryRowContext(ctx,
		"SELECT id, name, admin, currency, created_at FROM trips WHERE id = ?",
		tripID,
	).Scan(&trip.ID, &trip.Name, &trip.Admin, &trip.Currency, &trip.CreatedAt)
	if err == sql.ErrNoRows {
		return models.Trip{}, ErrNotFound
	}
	if err != nil {
		return models.Trip{}, fmt.Errorf("failed to get trip: %w", err)
	}

	members, err := ListMembers(ctx, db, tripID)
	if err != nil {
		return models.Trip{}, err
	}
	trip.Members = members

	expenses, err := ListExpenses(ctx, db, tripID)
	if err != nil {
		return models.Trip{}, err
	}
	trip.Expenses = make(map[string]models.Expense, len(expenses))
	for _, e := range expenses {
		trip.Expenses[e.ID] = e
	}

	return trip, nil
}

// ListTrips returns all trips without their members or expenses.
func ListTrips(ctx context.Context, db *sql.DB) ([]models.Trip, error) {
	rows, err := db.QueryContext(ctx,
		"SELECT id, name, admin, currency, created_at FROM trips ORDER BY created_at DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	defer rows.Close()

	var trips []models.Trip
	for rows.Next() {
		var trip models.Trip
		if err := rows.Scan(&trip.ID, &trip.Name, &trip.Admin, &trip.Currency, &trip.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		trips = append(trips, trip)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trips: %w", err)
	}
	return trips, nil
}

// DeleteTrip removes the trip; members and expenses cascade with it, so no
// orphan records survive.
func DeleteTrip(ctx context.Context, db *sql.DB, tripID string) error {
	res, err := db.ExecContext(ctx, "DELETE FROM trips WHERE id = ?", tripID)
	if err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
