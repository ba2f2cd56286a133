package model

import "time"

// DefaultProjectPhases are the phase labels offered to accounts that do not
// supply their own at registration.
var DefaultProjectPhases = []string{"Research", "Development", "Testing"}

// User represents an account tracking hours against one WBSO application.
type User struct {
	ID                    string    `json:"id"`
	Email                 string    `json:"email"`
	PasswordHash          string    `json:"-"`
	ProjectName           string    `json:"project_name"`
	WBSOApplicationNumber string    `json:"wbso_application_number"`
	ProjectStartDate      time.Time `json:"project_start_date"`
	ProjectEndDate        time.Time `json:"project_end_date"`
	ApprovedHours         float64   `json:"approved_hours"`
	ProjectPhases         []string  `json:"project_phases"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}
