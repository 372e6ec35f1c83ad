package models

import (
	"time"

	"github.com/google/uuid"
)

// Employee is created exactly once, as the side effect of onboarding-pass
// acceptance. EmployeeID is the human-readable sequential identifier
// (WW00001, WW00002, ...).
type Employee struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	EmployeeID   string     `json:"employee_id" db:"employee_id"`
	UserID       NullUUID   `json:"user_id,omitempty" db:"user_id"`
	SubmissionID NullUUID   `json:"submission_id,omitempty" db:"submission_id"`
	FirstName    string     `json:"first_name" db:"first_name"`
	LastName     string     `json:"last_name" db:"last_name"`
	MiddleName   NullString `json:"middle_name,omitempty" db:"middle_name"`
	FullName     string     `json:"full_name" db:"full_name"`
	Email        string     `json:"email" db:"email"`
	Phone        NullString `json:"phone,omitempty" db:"phone"`
	DateOfBirth  NullTime   `json:"date_of_birth,omitempty" db:"date_of_birth"`
	LinkedinURL  NullString `json:"linkedin_url,omitempty" db:"linkedin_url"`
	Department   string     `json:"department" db:"department"`
	Position     string     `json:"position" db:"position"`
	JoiningDate  time.Time  `json:"joining_date" db:"joining_date"`
	AboutMe      NullString `json:"about_me,omitempty" db:"about_me"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}
