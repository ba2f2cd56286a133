package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wbsotracker/wbsotracker/internal/auth"
	"github.com/wbsotracker/wbsotracker/internal/handler/dto"
	"github.com/wbsotracker/wbsotracker/internal/service"
)

// TimeEntryHandler handles HTTP requests for time entry operations.
type TimeEntryHandler struct {
	svc    *service.TimeEntryService
	logger *slog.Logger
}

// NewTimeEntryHandler creates a new TimeEntryHandler.
func NewTimeEntryHandler(svc *service.TimeEntryService, logger *slog.Logger) *TimeEntryHandler {
	return &TimeEntryHandler{
		svc:    svc,
		logger: logger,
	}
}

// List handles GET /api/v1/time-entries.
func (h *TimeEntryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	views, err := h.svc.List(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, err, time.Time{})
		return
	}

	writeJSON(w, http.StatusOK, dto.ToTimeEntryListResponse(views))
}

// Create handles POST /api/v1/time-entries.
func (h *TimeEntryHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	draft, ok := h.decodeDraft(w, r)
	if !ok {
		return
	}

	view, err := h.svc.Create(r.Context(), userID, draft)
	if err != nil {
		h.handleServiceError(w, err, draft.Date)
		return
	}

	h.logger.Info("entry_created",
		"entry_id", view.Entry.ID,
		"user_id", userID,
		"date", view.Entry.Day().Format(time.DateOnly),
	)

	writeJSON(w, http.StatusCreated, dto.ToTimeEntryResponse(view))
}

// Update handles PUT /api/v1/time-entries/{id}.
func (h *TimeEntryHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "MISSING_ID", "Entry ID is required")
		return
	}

	draft, ok := h.decodeDraft(w, r)
	if !ok {
		return
	}

	view, err := h.svc.Update(r.Context(), userID, id, draft)
	if err != nil {
		h.handleServiceError(w, err, draft.Date)
		return
	}

	h.logger.Info("entry_updated",
		"entry_id", view.Entry.ID,
		"user_id", userID,
	)

	writeJSON(w, http.StatusOK, dto.ToTimeEntryResponse(view))
}

// Delete handles DELETE /api/v1/time-entries/{id}.
func (h *TimeEntryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "MISSING_ID", "Entry ID is required")
		return
	}

	if err := h.svc.Delete(r.Context(), userID, id); err != nil {
		h.handleServiceError(w, err, time.Time{})
		return
	}

	h.logger.Info("entry_deleted", "entry_id", id, "user_id", userID)

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Time entry deleted"})
}

// Stats handles GET /api/v1/time-entries/stats.
func (h *TimeEntryHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	stats, err := h.svc.Stats(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, err, time.Time{})
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// decodeDraft decodes and validates a time entry request body.
func (h *TimeEntryHandler) decodeDraft(w http.ResponseWriter, r *http.Request) (service.EntryDraft, bool) {
	var req dto.TimeEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return service.EntryDraft{}, false
	}

	draft, err := req.ToDraft()
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_DATE", "Date must be YYYY-MM-DD or RFC 3339")
		return service.EntryDraft{}, false
	}

	return draft, true
}

// handleServiceError maps service errors to HTTP responses.
//
// The three domain error kinds stay distinct on the wire: 404 for missing
// or foreign entries, 403 for an expired edit window, 400 for a duplicate
// date. The original system collapsed update's expired case into 404; one
// consistent mapping is used here instead.
func (h *TimeEntryHandler) handleServiceError(w http.ResponseWriter, err error, date time.Time) {
	switch {
	case errors.Is(err, service.ErrEntryNotFound):
		h.writeError(w, http.StatusNotFound, "ENTRY_NOT_FOUND", "Time entry not found")
	case errors.Is(err, service.ErrDateConflict):
		msg := "An entry already exists for this date"
		if !date.IsZero() {
			msg = fmt.Sprintf("An entry already exists for %s", date.UTC().Format(time.DateOnly))
		}
		h.writeError(w, http.StatusBadRequest, "DATE_TAKEN", msg)
	case errors.Is(err, service.ErrEditWindowExpired):
		h.writeError(w, http.StatusForbidden, "EDIT_WINDOW_EXPIRED", "Entries can only be changed within 48 hours of creation")
	default:
		h.logger.Error("internal_error", "error", err)
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}

// writeError writes an error response.
func (h *TimeEntryHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}
