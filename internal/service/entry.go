// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/wbsotracker/wbsotracker/internal/clock"
	"github.com/wbsotracker/wbsotracker/internal/metrics"
	"github.com/wbsotracker/wbsotracker/internal/model"
	"github.com/wbsotracker/wbsotracker/internal/repository"
)

// Service errors.
var (
	ErrEntryNotFound     = errors.New("time entry not found")
	ErrDateConflict      = errors.New("an entry already exists for this date")
	ErrEditWindowExpired = errors.New("entry can no longer be edited (48-hour limit exceeded)")
)

// EntryStore is the persistence contract for time entries.
// Implementations report repository.ErrEntryNotFound and
// repository.ErrDateTaken; the service translates them into its own error
// kinds. ListEntries returns entries newest date first.
type EntryStore interface {
	CreateEntry(ctx context.Context, entry *model.TimeEntry) error
	GetEntry(ctx context.Context, userID, entryID string) (*model.TimeEntry, error)
	ListEntries(ctx context.Context, userID string) ([]*model.TimeEntry, error)
	UpdateEntry(ctx context.Context, entry *model.TimeEntry) error
	DeleteEntry(ctx context.Context, userID, entryID string) error
}

// UserStore is the persistence contract for user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateUserPassword(ctx context.Context, id, passwordHash string) error
}

// EntryDraft carries the caller-supplied fields of a time entry.
// On update every field overwrites the stored value.
type EntryDraft struct {
	Date                time.Time
	Hours               float64
	ProjectPhase        string
	ActivityDescription string
	TechnicalChallenge  string
}

// EntryView is a time entry annotated with its current editability.
type EntryView struct {
	Entry   *model.TimeEntry
	CanEdit bool
}

// TimeEntryService orchestrates the edit-window and uniqueness rules around
// the entry store.
type TimeEntryService struct {
	store   EntryStore
	users   UserStore
	clock   clock.Clock
	metrics metrics.Recorder
}

// NewTimeEntryService creates a new TimeEntryService.
func NewTimeEntryService(store EntryStore, users UserStore, clk clock.Clock, recorder metrics.Recorder) *TimeEntryService {
	if clk == nil {
		clk = clock.Real{}
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &TimeEntryService{
		store:   store,
		users:   users,
		clock:   clk,
		metrics: recorder,
	}
}

// List returns all of a user's entries, newest date first, each annotated
// with whether it can still be edited. Frozen entries are included.
func (s *TimeEntryService) List(ctx context.Context, userID string) ([]EntryView, error) {
	now := s.clock.Now()

	entries, err := s.store.ListEntries(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	views := make([]EntryView, len(entries))
	for i, entry := range entries {
		views[i] = EntryView{
			Entry:   entry,
			CanEdit: CanEdit(entry.CreatedAt, now),
		}
	}

	return views, nil
}

// Create persists a new entry for the user.
// Returns ErrDateConflict if the user already has an entry on the draft's
// calendar date, regardless of time-of-day.
func (s *TimeEntryService) Create(ctx context.Context, userID string, draft EntryDraft) (*EntryView, error) {
	now := s.clock.Now()

	conflictID, err := s.findConflict(ctx, userID, draft.Date, "")
	if err != nil {
		return nil, err
	}
	if conflictID != "" {
		s.metrics.IncDateConflict()
		return nil, ErrDateConflict
	}

	entry := &model.TimeEntry{
		ID:                  ulid.Make().String(),
		UserID:              userID,
		Date:                model.DayOf(draft.Date),
		Hours:               draft.Hours,
		ProjectPhase:        draft.ProjectPhase,
		ActivityDescription: draft.ActivityDescription,
		TechnicalChallenge:  draft.TechnicalChallenge,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := s.store.CreateEntry(ctx, entry); err != nil {
		// A concurrent create can slip past the scan; the store's unique
		// index reports it as the same conflict.
		if errors.Is(err, repository.ErrDateTaken) {
			s.metrics.IncDateConflict()
			return nil, ErrDateConflict
		}
		return nil, fmt.Errorf("create entry: %w", err)
	}

	s.metrics.IncEntryCreated()

	return &EntryView{Entry: entry, CanEdit: true}, nil
}

// Update overwrites an entry's fields with the draft.
// created_at stays untouched; it anchors the edit window.
func (s *TimeEntryService) Update(ctx context.Context, userID, entryID string, draft EntryDraft) (*EntryView, error) {
	now := s.clock.Now()

	entry, err := s.store.GetEntry(ctx, userID, entryID)
	if err != nil {
		if errors.Is(err, repository.ErrEntryNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("get entry: %w", err)
	}

	if !CanEdit(entry.CreatedAt, now) {
		s.metrics.IncEditWindowRejected()
		return nil, ErrEditWindowExpired
	}

	conflictID, err := s.findConflict(ctx, userID, draft.Date, entry.ID)
	if err != nil {
		return nil, err
	}
	if conflictID != "" {
		s.metrics.IncDateConflict()
		return nil, ErrDateConflict
	}

	entry.Date = model.DayOf(draft.Date)
	entry.Hours = draft.Hours
	entry.ProjectPhase = draft.ProjectPhase
	entry.ActivityDescription = draft.ActivityDescription
	entry.TechnicalChallenge = draft.TechnicalChallenge
	entry.UpdatedAt = now

	if err := s.store.UpdateEntry(ctx, entry); err != nil {
		switch {
		case errors.Is(err, repository.ErrDateTaken):
			s.metrics.IncDateConflict()
			return nil, ErrDateConflict
		case errors.Is(err, repository.ErrEntryNotFound):
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("update entry: %w", err)
	}

	s.metrics.IncEntryUpdated()

	return &EntryView{Entry: entry, CanEdit: CanEdit(entry.CreatedAt, now)}, nil
}

// Delete removes an entry permanently.
// Ownership is checked before the edit window, so a foreign or missing
// entry is not found no matter how old it is.
func (s *TimeEntryService) Delete(ctx context.Context, userID, entryID string) error {
	now := s.clock.Now()

	entry, err := s.store.GetEntry(ctx, userID, entryID)
	if err != nil {
		if errors.Is(err, repository.ErrEntryNotFound) {
			return ErrEntryNotFound
		}
		return fmt.Errorf("get entry: %w", err)
	}

	if !CanEdit(entry.CreatedAt, now) {
		s.metrics.IncEditWindowRejected()
		return ErrEditWindowExpired
	}

	if err := s.store.DeleteEntry(ctx, userID, entryID); err != nil {
		if errors.Is(err, repository.ErrEntryNotFound) {
			return ErrEntryNotFound
		}
		return fmt.Errorf("delete entry: %w", err)
	}

	s.metrics.IncEntryDeleted()

	return nil
}

// Stats computes the user's logged-hours totals against their approved
// budget. Entries outside the edit window still count.
func (s *TimeEntryService) Stats(ctx context.Context, userID string) (*Stats, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	entries, err := s.store.ListEntries(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	stats := ComputeStats(entries, user.ApprovedHours)
	return &stats, nil
}

// findConflict scans the user's entries for one on the same calendar date,
// skipping excludeID. Stored dates may carry time-of-day noise, so only the
// normalized date component is compared. Returns the conflicting entry's ID
// or empty string.
func (s *TimeEntryService) findConflict(ctx context.Context, userID string, date time.Time, excludeID string) (string, error) {
	entries, err := s.store.ListEntries(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("scan for date conflict: %w", err)
	}

	for _, entry := range entries {
		if entry.ID == excludeID {
			continue
		}
		if model.SameDay(entry.Date, date) {
			return entry.ID, nil
		}
	}

	return "", nil
}
