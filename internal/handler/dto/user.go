// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/wbsotracker/wbsotracker/internal/model"
)

// RegisterRequest represents the request body for creating an account.
type RegisterRequest struct {
	Email                 string    `json:"email"`
	Password              string    `json:"password"`
	ProjectName           string    `json:"project_name"`
	WBSOApplicationNumber string    `json:"wbso_application_number"`
	ProjectStartDate      time.Time `json:"project_start_date"`
	ProjectEndDate        time.Time `json:"project_end_date"`
	ApprovedHours         float64   `json:"approved_hours"`
	ProjectPhases         []string  `json:"project_phases,omitempty"`
}

// LoginRequest represents the request body for logging in.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ChangePasswordRequest represents the request body for a credential reset.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID                    string    `json:"id"`
	Email                 string    `json:"email"`
	ProjectName           string    `json:"project_name"`
	WBSOApplicationNumber string    `json:"wbso_application_number"`
	ProjectStartDate      time.Time `json:"project_start_date"`
	ProjectEndDate        time.Time `json:"project_end_date"`
	ApprovedHours         float64   `json:"approved_hours"`
	ProjectPhases         []string  `json:"project_phases"`
	CreatedAt             time.Time `json:"created_at"`
}

// SessionResponse represents a successful registration or login.
type SessionResponse struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	User        *UserResponse `json:"user"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// MessageResponse carries a human-readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// ToUserResponse converts a User model to UserResponse DTO.
func ToUserResponse(user *model.User) *UserResponse {
	return &UserResponse{
		ID:                    user.ID,
		Email:                 user.Email,
		ProjectName:           user.ProjectName,
		WBSOApplicationNumber: user.WBSOApplicationNumber,
		ProjectStartDate:      user.ProjectStartDate,
		ProjectEndDate:        user.ProjectEndDate,
		ApprovedHours:         user.ApprovedHours,
		ProjectPhases:         user.ProjectPhases,
		CreatedAt:             user.CreatedAt,
	}
}

// ToSessionResponse converts an account session to SessionResponse DTO.
func ToSessionResponse(token string, user *model.User) *SessionResponse {
	return &SessionResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        ToUserResponse(user),
	}
}
