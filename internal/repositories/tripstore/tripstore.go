// Package tripstore is the persistence boundary for trips, members and
// expenses. It decides what gets written; the ledger package decides what is
// valid. Expense rows are document shaped:
// split_with is stored as a JSON array in a single column so each expense can
// be read and rewritten as one unit.
package tripstore

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a trip, member or expense does not exist.
var ErrNotFound = errors.New("record not found")

func marshalSplitWith(names []string) (string, error) {
	raw, err := json.Marshal(names)
	if err != nil {
		return "", fmt.Errorf("failed to encode split_with: %w", err)
	}
	return string(raw), nil
}

func unmarshalSplitWith(raw string) []string {
	var names []string
	// Corrupted rows must not block reading the rest of the trip; the
	// balance engine treats a missing split as paid-by-self.
	if err := json.Unmarshal([]byte(raw), &names); err != nil {
		return nil
	}
	return names
}
