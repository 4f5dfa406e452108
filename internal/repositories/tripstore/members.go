package tripstore

import (
	"context"
	"database/sql"
	"fmt"

	"tripledger/internal/ledger"
	"tripledger/internal/models"
	"tripledger/pkg/utils"
)

// AddMember inserts a member with a freshly generated credential and returns
// the credential so the caller can hand it to the member.
func AddMember(ctx context.Context, db *sql.DB, tripID, name string) (string, error) {
	password := utils.GenerateMemberPassword()

	_, err := db.ExecContext(ctx,
		"INSERT INTO trip_members (trip_id, name, password) VALUES (?, ?, ?)",
		tripID, name, password,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert member: %w", err)
	}
	return password, nil
}

// MemberLogin pairs a trip with the credential issued to a member of it.
type MemberLogin struct {
	TripID   string
	Password string
}

// FindMemberLogins returns every trip credential issued under name, across
// all trips. Members have no user account; the login handler falls back to
// these credentials.
func FindMemberLogins(ctx context.Context, db *sql.DB, name string) ([]MemberLogin, error) {
	rows, err := db.QueryContext(ctx,
		"SELECT trip_id, password FROM trip_members WHERE name = ?",
		name,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to look up member logins: %w", err)
	}
	defer rows.Close()

	var logins []MemberLogin
	for rows.Next() {
		var login MemberLogin
		if err := rows.Scan(&login.TripID, &login.Password); err != nil {
			return nil, fmt.Errorf("failed to scan member login: %w", err)
		}
		logins = append(logins, login)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate member logins: %w", err)
	}
	return logins, nil
}

// GetMember looks up one member of a trip by name.
func GetMember(ctx context.Context, db *sql.DB, tripID, name string) (models.Member, error) {
	var member models.Member
	err := db.QueryRowContext(ctx,
		"SELECT name, password, joined_at FROM trip_members WHERE trip_id = ? AND name = ?",
		tripID, name,
	).Scan(&member.Name, &member.Password, &member.JoinedAt)
	if err == sql.ErrNoRows {
		return models.Member{}, ErrNotFound
	}
	if err != nil {
		return models.Member{}, fmt.Errorf("failed to get member: %w", err)
	}
	return member, nil
}

// ListMembers returns the trip's roster keyed by member name.
func ListMembers(ctx context.Context, db *sql.DB, tripID string) (map[string]models.Member, error) {
	rows, err := db.QueryContext(ctx,
		"SELECT name, password, joined_at FROM trip_members WHERE trip_id = ? ORDER BY joined_at",
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	members := make(map[string]models.Member)
	for rows.Next() {
		var member models.Member
		if err := rows.Scan(&member.Name, &member.Password, &member.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members[member.Name] = member
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}
	return members, nil
}

// RemoveMember deletes the member row only. Historical expenses keep the old
// name; the balance engine absorbs the orphan reference.
func RemoveMember(ctx context.Context, db *sql.DB, tripID, name string) error {
	res, err := db.ExecContext(ctx,
		"DELETE FROM trip_members WHERE trip_id = ? AND name = ?",
		tripID, name,
	)
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// RenameMember renames a member and rewrites every expense referencing the
// old name as payer or split participant. The member row moves first; the
// expense rewrite then runs as a bulk job, one record at a time, continuing
// past individual failures so the rename can be retried until every
// occurrence is updated. The result reports how far it got.
func RenameMember(ctx context.Context, db *sql.DB, tripID, oldName, newName string) (models.RenameResult, error) {
	var result models.RenameResult

	if _, err := GetMember(ctx, db, tripID, oldName); err != nil {
		return result, err
	}

	res, err := db.ExecContext(ctx,
		"UPDATE trip_members SET name = ? WHERE trip_id = ? AND name = ?",
		newName, tripID, oldName,
	)
	if err != nil {
		return result, fmt.Errorf("failed to rename member row: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return result, ErrNotFound
	}

	expenses, err := ListExpenses(ctx, db, tripID)
	if err != nil {
		return result, err
	}

	for i := range expenses {
		if ledger.RenameParticipant(expenses[i:i+1], oldName, newName) == 0 {
			continue
		}
		result.Total++

		if err := rewriteExpenseNames(ctx, db, expenses[i]); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("expense %s: %v", expenses[i].ID, err))
			utils.Logger.Errorf("rename cascade failed for expense %s: %v", expenses[i].ID, err)
			continue
		}
		result.Updated++
	}

	return result, nil
}

func rewriteExpenseNames(ctx context.Context, db *sql.DB, expense models.Expense) error {
	splitWith, err := marshalSplitWith(expense.SplitWith)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		"UPDATE expenses SET paid_by = ?, split_with = ? WHERE id = ?",
		expense.PaidBy, splitWith, expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to rewrite expense names: %w", err)
	}
	return nil
}
