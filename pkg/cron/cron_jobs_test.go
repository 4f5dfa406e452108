package cron

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
)

func TestDispatchRemindersCollectsEveryFailure(t *testing.T) {
	// Well past any fixed channel buffer; every send failing must not
	// block a sender goroutine.
	const batch = 50
	reminders := make([]reminder, batch)
	for i := range reminders {
		reminders[i] = reminder{
			email:    fmt.Sprintf("member%d@example.com", i),
			name:     fmt.Sprintf("Member %d", i),
			owed:     "100.00 TWD",
			tripName: "Taipei",
		}
	}

	errs := dispatchReminders(reminders, func(to, memberName, amountOwed, tripName string) error {
		return errors.New("smtp unavailable")
	})

	if len(errs) != batch {
		t.Fatalf("dispatchReminders collected %d errors, want %d", len(errs), batch)
	}
	for _, err := range errs {
		if !strings.Contains(err.Error(), "@example.com") {
			t.Errorf("error %q does not name the recipient", err)
		}
	}
}

func TestDispatchRemindersAllSent(t *testing.T) {
	reminders := []reminder{
		{email: "alice@example.com", name: "Alice", owed: "33.33 TWD", tripName: "Taipei"},
		{email: "bob@example.com", name: "Bob", owed: "66.67 TWD", tripName: "Taipei"},
	}

	var sent int64
	errs := dispatchReminders(reminders, func(to, memberName, amountOwed, tripName string) error {
		atomic.AddInt64(&sent, 1)
		return nil
	})

	if len(errs) != 0 {
		t.Fatalf("dispatchReminders returned errors for successful sends: %v", errs)
	}
	if sent != int64(len(reminders)) {
		t.Errorf("send called %d times, want %d", sent, len(reminders))
	}
}

func TestDispatchRemindersEmptyBatch(t *testing.T) {
	errs := dispatchReminders(nil, func(to, memberName, amountOwed, tripName string) error {
		t.Fatal("send called for an empty batch")
		return nil
	})
	if len(errs) != 0 {
		t.Errorf("dispatchReminders(nil) returned %d errors, want 0", len(errs))
	}
}
