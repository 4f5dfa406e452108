package cron

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"tripledger/internal/ledger"
	"tripledger/internal/models"
	"tripledger/internal/repositories/tripstore"
	"tripledger/pkg/utils"

	"github.com/robfig/cron/v3"
)

func StartCronJobs(db *sql.DB) *cron.Cron {
	c := cron.New()

	// Runs every 6 hours, flags expense rows with unreadable split data
	_, err := c.AddFunc("0 */6 * * *", func() {
		err := CheckCorruptedSplitRecords(db)
		if err != nil {
			utils.Logger.Errorf("Cron job failed to check split records: %v", err)
		}
	})
	if err != nil {
		utils.Logger.Errorf("Failed to schedule split record check job: %v", err)
	}

	// Runs daily at midnight, reminds members with a negative balance
	_, err = c.AddFunc("0 0 * * *", func() {
		err := SendBalanceReminders(db)
		if err != nil {
			utils.Logger.Errorf("Cron job failed to send balance reminders: %v", err)
		}
	})
	if err != nil {
		utils.Logger.Errorf("Failed to schedule balance reminder job: %v", err)
	}

	c.Start()
	utils.Logger.Info("Cron jobs started (split record check every 6h, balance reminders daily at midnight)")
	return c
}

// -------------------------------------------------------------
// Flag expense rows whose stored split list no longer parses
// -------------------------------------------------------------
func CheckCorruptedSplitRecords(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rows, err := db.QueryContext(ctx, `SELECT id, trip_id, split_with FROM expenses`)
	if err != nil {
		return err
	}
	defer rows.Close()

	corrupted := 0
	for rows.Next() {
		var id, tripID, raw string
		if err := rows.Scan(&id, &tripID, &raw); err != nil {
			utils.Logger.Errorf("Failed to scan expense row: %v", err)
			continue
		}

		var names []string
		if err := json.Unmarshal([]byte(raw), &names); err != nil {
			corrupted++
			utils.Logger.Warnf("Expense %s in trip %s has unreadable split data", id, tripID)
		}
	}

	if err := rows.Err(); err != nil {
		return err
	}

	if corrupted > 0 {
		utils.Logger.Warnf("Found %d expense records with unreadable split data", corrupted)
	}
	return nil
}

// -------------------------------------------------------------
// Send daily reminders to members who still owe money
// -------------------------------------------------------------

type reminder struct {
	email    string
	name     string
	owed     string
	tripName string
}

func SendBalanceReminders(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	defer cancel()

	trips, err := tripstore.ListTrips(ctx, db)
	if err != nil {
		return err
	}

	var reminders []reminder
	for _, t := range trips {
		trip, err := tripstore.GetTrip(ctx, db, t.ID)
		if err != nil {
			utils.Logger.Errorf("Failed to load trip %s for reminders: %v", t.ID, err)
			continue
		}

		members := make([]string, 0, len(trip.Members))
		for name := range trip.Members {
			members = append(members, name)
		}

		expenses := make([]models.Expense, 0, len(trip.Expenses))
		for _, e := range trip.Expenses {
			expenses = append(expenses, e)
		}

		balances := ledger.ComputeBalances(members, expenses)

		for name, balance := range balances {
			if balance.Round(2).Sign() >= 0 {
				continue
			}

			var email string
			err := db.QueryRowContext(ctx, `SELECT email FROM users WHERE username = ?`, name).Scan(&email)
			if err != nil {
				if err != sql.ErrNoRows {
					utils.Logger.Errorf("Failed to look up email for %s: %v", name, err)
				}
				continue
			}

			reminders = append(reminders, reminder{
				email:    email,
				name:     name,
				owed:     fmt.Sprintf("%s %s", balance.Neg().StringFixed(2), trip.Currency),
				tripName: trip.Name,
			})
		}
	}

	for _, e := range dispatchReminders(reminders, utils.SendBalanceReminderEmail) {
		utils.Logger.Error(e)
	}

	return nil
}

// dispatchReminders fans the sends out concurrently and collects every
// failure. The channel is buffered to the batch size so a failing mailer
// never blocks a sender goroutine.
func dispatchReminders(reminders []reminder, send func(to, memberName, amountOwed, tripName string) error) []error {
	var wg sync.WaitGroup
	errChan := make(chan error, len(reminders))

	for _, rem := range reminders {
		wg.Add(1)
		go func(rem reminder) {
			defer wg.Done()

			if err := send(rem.email, rem.name, rem.owed, rem.tripName); err != nil {
				errChan <- fmt.Errorf("failed to send reminder email to %s: %v", rem.email, err)
				return
			}

			utils.Logger.Infof("Sent balance reminder to %s (%s) for trip '%s'", rem.name, rem.email, rem.tripName)
		}(rem)
	}

	wg.Wait()
	close(errChan)

	var errs []error
	for e := range errChan {
		errs = append(errs, e)
	}
	return errs
}
