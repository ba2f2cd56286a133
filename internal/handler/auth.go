package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/wbsotracker/wbsotracker/internal/auth"
	"github.com/wbsotracker/wbsotracker/internal/handler/dto"
	"github.com/wbsotracker/wbsotracker/internal/service"
)

// AuthHandler handles HTTP requests for registration and login.
type AuthHandler struct {
	svc    *service.AccountService
	logger *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AccountService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		svc:    svc,
		logger: logger,
	}
}

// Register handles POST /api/v1/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if req.ProjectName == "" || req.WBSOApplicationNumber == "" {
		h.writeError(w, http.StatusBadRequest, "MISSING_PROJECT", "Project name and WBSO application number are required")
		return
	}
	if req.ApprovedHours < 0 {
		h.writeError(w, http.StatusBadRequest, "INVALID_APPROVED_HOURS", "Approved hours cannot be negative")
		return
	}

	session, err := h.svc.Register(r.Context(), service.RegisterInput{
		Email:                 req.Email,
		Password:              req.Password,
		ProjectName:           req.ProjectName,
		WBSOApplicationNumber: req.WBSOApplicationNumber,
		ProjectStartDate:      req.ProjectStartDate,
		ProjectEndDate:        req.ProjectEndDate,
		ApprovedHours:         req.ApprovedHours,
		ProjectPhases:         req.ProjectPhases,
	})
	if err != nil {
		h.handleAccountError(w, err)
		return
	}

	h.logger.Info("user_registered",
		"user_id", session.User.ID,
		"project", session.User.ProjectName,
	)

	writeJSON(w, http.StatusCreated, dto.ToSessionResponse(session.AccessToken, session.User))
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	session, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.handleAccountError(w, err)
		return
	}

	h.logger.Info("user_logged_in", "user_id", session.User.ID)

	writeJSON(w, http.StatusOK, dto.ToSessionResponse(session.AccessToken, session.User))
}

// ChangePassword handles POST /api/v1/auth/password.
// Requires an authenticated identity.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	var req dto.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if err := h.svc.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		h.handleAccountError(w, err)
		return
	}

	h.logger.Info("password_changed", "user_id", userID)

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Password updated"})
}

// handleAccountError maps account service errors to HTTP responses.
func (h *AuthHandler) handleAccountError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrEmailTaken):
		h.writeError(w, http.StatusBadRequest, "EMAIL_TAKEN", "Email already registered")
	case errors.Is(err, service.ErrInvalidEmail):
		h.writeError(w, http.StatusBadRequest, "INVALID_EMAIL", "A valid email address is required")
	case errors.Is(err, service.ErrWeakPassword):
		h.writeError(w, http.StatusBadRequest, "WEAK_PASSWORD", "Password must be at least 8 characters")
	case errors.Is(err, service.ErrInvalidCredentials):
		h.writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Incorrect email or password")
	default:
		h.logger.Error("internal_error", "error", err)
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}

// writeError writes an error response.
func (h *AuthHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}
