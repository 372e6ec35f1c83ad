package models

import (
	"time"

	"github.com/google/uuid"
)

// Offer status values. Transitions are one-way: PENDING -> ACCEPTED or
// PENDING -> REJECTED, never reversed.
const (
	OfferPending  = "PENDING"
	OfferAccepted = "ACCEPTED"
	OfferRejected = "REJECTED"
)

// Candidate represents a job offer issued by HR. Candidates are never
// hard-deleted; they form the audit trail of the hiring pipeline.
type Candidate struct {
	ID                uuid.UUID `json:"id" db:"id"`
	FullName          string    `json:"full_name" db:"full_name"`
	Email             string    `json:"email" db:"email"`
	Phone             string    `json:"phone" db:"phone"`
	Position          string    `json:"position" db:"position"`
	Department        string    `json:"department" db:"department"`
	OfferStatus       string    `json:"offer_status" db:"offer_status"`
	AcceptToken       uuid.UUID `json:"-" db:"accept_token"` // Single-use, never expose
	AcceptTokenExpiry time.Time `json:"-" db:"accept_token_expiry"`
	JoiningTriggered  bool      `json:"joining_triggered" db:"joining_triggered"`
	CredentialsSent   bool      `json:"credentials_sent" db:"credentials_sent"`
	CreatedBy         NullUUID  `json:"created_by,omitempty" db:"created_by"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

// CreateCandidateRequest is the payload for POST /api/candidates
type CreateCandidateRequest struct {
	FullName   string `form:"full_name" binding:"required"`
	Email      string `form:"email" binding:"required,email"`
	Phone      string `form:"phone" binding:"required"`
	Position   string `form:"position" binding:"required"`
	Department string `form:"department" binding:"required"`
}
