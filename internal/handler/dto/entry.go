package dto

import (
	"errors"
	"time"

	"github.com/wbsotracker/wbsotracker/internal/service"
)

// ErrInvalidDate indicates the date field could not be parsed.
var ErrInvalidDate = errors.New("date must be YYYY-MM-DD or RFC 3339")

// TimeEntryRequest represents the request body for creating or updating a
// time entry. Update overwrites every field, so the shapes are identical.
type TimeEntryRequest struct {
	Date                string  `json:"date"`
	Hours               float64 `json:"hours"`
	ProjectPhase        string  `json:"project_phase"`
	ActivityDescription string  `json:"activity_description"`
	TechnicalChallenge  string  `json:"technical_challenge"`
}

// ToDraft converts the request into a service draft, parsing the date.
func (r *TimeEntryRequest) ToDraft() (service.EntryDraft, error) {
	date, err := parseDate(r.Date)
	if err != nil {
		return service.EntryDraft{}, err
	}

	return service.EntryDraft{
		Date:                date,
		Hours:               r.Hours,
		ProjectPhase:        r.ProjectPhase,
		ActivityDescription: r.ActivityDescription,
		TechnicalChallenge:  r.TechnicalChallenge,
	}, nil
}

// TimeEntryResponse represents a time entry in API responses.
type TimeEntryResponse struct {
	ID                  string    `json:"id"`
	Date                string    `json:"date"`
	Hours               float64   `json:"hours"`
	ProjectPhase        string    `json:"project_phase"`
	ActivityDescription string    `json:"activity_description"`
	TechnicalChallenge  string    `json:"technical_challenge"`
	CanEdit             bool      `json:"can_edit"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// TimeEntryListResponse represents a user's entries.
type TimeEntryListResponse struct {
	Data []TimeEntryResponse `json:"data"`
}

// ToTimeEntryResponse converts an annotated entry to its response DTO.
func ToTimeEntryResponse(view *service.EntryView) *TimeEntryResponse {
	return &TimeEntryResponse{
		ID:                  view.Entry.ID,
		Date:                view.Entry.Day().Format(time.DateOnly),
		Hours:               view.Entry.Hours,
		ProjectPhase:        view.Entry.ProjectPhase,
		ActivityDescription: view.Entry.ActivityDescription,
		TechnicalChallenge:  view.Entry.TechnicalChallenge,
		CanEdit:             view.CanEdit,
		CreatedAt:           view.Entry.CreatedAt,
		UpdatedAt:           view.Entry.UpdatedAt,
	}
}

// ToTimeEntryListResponse converts annotated entries to the list DTO.
func ToTimeEntryListResponse(views []service.EntryView) *TimeEntryListResponse {
	responses := make([]TimeEntryResponse, len(views))
	for i := range views {
		responses[i] = *ToTimeEntryResponse(&views[i])
	}
	return &TimeEntryListResponse{Data: responses}
}

// parseDate accepts a plain calendar date or a full RFC 3339 timestamp.
// The frontend sends whichever its date picker produces.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, ErrInvalidDate
}
