package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/wbsotracker/wbsotracker/internal/model"
)

// Common errors for time entry repository operations.
var (
	ErrEntryNotFound = errors.New("time entry not found")
	ErrDateTaken     = errors.New("date already has an entry")
)

// CreateEntry inserts a new time entry.
// The unique index on (user_id, entry_date) is the backstop against two
// concurrent requests both passing the service-level conflict scan.
func (r *Repository) CreateEntry(ctx context.Context, entry *model.TimeEntry) error {
	query := `
		INSERT INTO time_entries (id, user_id, entry_date, hours, project_phase,
			activity_description, technical_challenge, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		entry.ID,
		entry.UserID,
		entry.Day(),
		entry.Hours,
		entry.ProjectPhase,
		entry.ActivityDescription,
		entry.TechnicalChallenge,
		entry.CreatedAt,
		entry.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrDateTaken
		}
		return fmt.Errorf("failed to create time entry: %w", err)
	}

	return nil
}

// GetEntry retrieves a time entry by ID, scoped to its owner.
// An entry owned by another user is reported as not found.
func (r *Repository) GetEntry(ctx context.Context, userID, entryID string) (*model.TimeEntry, error) {
	query := `
		SELECT id, user_id, entry_date, hours, project_phase,
			activity_description, technical_challenge, created_at, updated_at
		FROM time_entries
		WHERE id = $1 AND user_id = $2
	`

	entry, err := scanEntry(r.pool.QueryRow(ctx, query, entryID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to get time entry: %w", err)
	}

	return entry, nil
}

// ListEntries retrieves all of a user's time entries, newest date first.
func (r *Repository) ListEntries(ctx context.Context, userID string) ([]*model.TimeEntry, error) {
	query := `
		SELECT id, user_id, entry_date, hours, project_phase,
			activity_description, technical_challenge, created_at, updated_at
		FROM time_entries
		WHERE user_id = $1
		ORDER BY entry_date DESC, created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list time entries: %w", err)
	}
	defer rows.Close()

	var entries []*model.TimeEntry
	for rows.Next() {
		entry, err := scanEntryFromRows(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan time entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating time entries: %w", err)
	}

	return entries, nil
}

// UpdateEntry overwrites a time entry's mutable fields.
// created_at is never touched here; it anchors the edit window.
func (r *Repository) UpdateEntry(ctx context.Context, entry *model.TimeEntry) error {
	query := `
		UPDATE time_entries
		SET entry_date = $3, hours = $4, project_phase = $5,
			activity_description = $6, technical_challenge = $7, updated_at = $8
		WHERE id = $1 AND user_id = $2
	`

	result, err := r.pool.Exec(ctx, query,
		entry.ID,
		entry.UserID,
		entry.Day(),
		entry.Hours,
		entry.ProjectPhase,
		entry.ActivityDescription,
		entry.TechnicalChallenge,
		entry.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrDateTaken
		}
		return fmt.Errorf("failed to update time entry: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrEntryNotFound
	}

	return nil
}

// DeleteEntry removes a time entry permanently.
func (r *Repository) DeleteEntry(ctx context.Context, userID, entryID string) error {
	query := `
		DELETE FROM time_entries
		WHERE id = $1 AND user_id = $2
	`

	result, err := r.pool.Exec(ctx, query, entryID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete time entry: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrEntryNotFound
	}

	return nil
}

// scanEntry scans a single row into a TimeEntry model.
func scanEntry(row pgx.Row) (*model.TimeEntry, error) {
	var entry model.TimeEntry
	err := row.Scan(
		&entry.ID,
		&entry.UserID,
		&entry.Date,
		&entry.Hours,
		&entry.ProjectPhase,
		&entry.ActivityDescription,
		&entry.TechnicalChallenge,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// scanEntryFromRows scans a row from pgx.Rows into a TimeEntry model.
func scanEntryFromRows(rows pgx.Rows) (*model.TimeEntry, error) {
	var entry model.TimeEntry
	err := rows.Scan(
		&entry.ID,
		&entry.UserID,
		&entry.Date,
		&entry.Hours,
		&entry.ProjectPhase,
		&entry.ActivityDescription,
		&entry.TechnicalChallenge,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
