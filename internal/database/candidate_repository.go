package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/winwire/hr-onboarding-backend/internal/models"
)

const candidateColumns = `
	id, full_name, email, phone, position, department, offer_status,
	accept_token, accept_token_expiry, joining_triggered, credentials_sent,
	created_by, created_at, updated_at
`

// CandidateRepository handles candidate database operations
type CandidateRepository struct {
	db DB
}

// NewCandidateRepository creates a new candidate repository
func NewCandidateRepository(db DB) *CandidateRepository {
	return &CandidateRepository{
		db: db,
	}
}

// Create inserts a new candidate record
func (r *CandidateRepository) Create(candidate *models.Candidate) error {
	query := `
		INSERT INTO candidates (
			id, full_name, email, phone, position, department, offer_status,
			accept_token, accept_token_expiry, created_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7::offer_status, $8, $9, $10, $11, $12)
	`

	_, err := r.db.Exec(
		query,
		candidate.ID,
		candidate.FullName,
		candidate.Email,
		candidate.Phone,
		candidate.Position,
		candidate.Department,
		candidate.OfferStatus,
		candidate.AcceptToken,
		candidate.AcceptTokenExpiry,
		candidate.CreatedBy,
		candidate.CreatedAt,
		candidate.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create candidate: %w", err)
	}

	return nil
}

// GetByID retrieves a candidate by ID
func (r *CandidateRepository) GetByID(id uuid.UUID) (*models.Candidate, error) {
	var candidate models.Candidate

	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE id = $1`

	err := r.db.Get(&candidate, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get candidate by ID: %w", err)
	}

	return &candidate, nil
}

// GetByEmail retrieves a candidate by email
func (r *CandidateRepository) GetByEmail(email string) (*models.Candidate, error) {
	var candidate models.Candidate

	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE email = $1`

	err := r.db.Get(&candidate, query, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get candidate by email: %w", err)
	}

	return &candidate, nil
}

// GetByValidAcceptToken retrieves a candidate whose accept token matches and
// has not expired. Expired and unknown tokens are indistinguishable to the
// caller on purpose.
func (r *CandidateRepository) GetByValidAcceptToken(token uuid.UUID) (*models.Candidate, error) {
	var candidate models.Candidate

	query := `
		SELECT ` + candidateColumns + `
		FROM candidates
		WHERE accept_token = $1 AND accept_token_expiry > NOW()
	`

	err := r.db.Get(&candidate, query, token)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get candidate by accept token: %w", err)
	}

	return &candidate, nil
}

// List retrieves all candidates, newest first
func (r *CandidateRepository) List() ([]*models.Candidate, error) {
	var candidates []*models.Candidate

	query := `SELECT ` + candidateColumns + ` FROM candidates ORDER BY created_at DESC`

	err := r.db.Select(&candidates, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}

	return candidates, nil
}

// MarkOfferAccepted moves a pending offer to ACCEPTED. Returns the number of
// rows updated so the caller can distinguish "already decided" from success.
func (r *CandidateRepository) MarkOfferAccepted(id uuid.UUID) (int64, error) {
	query := `
		UPDATE candidates
		SET offer_status = 'ACCEPTED',
		    updated_at = $1
		WHERE id = $2 AND offer_status = 'PENDING'
	`

	result, err := r.db.Exec(query, time.Now(), id)
	if err != nil {
		return 0, fmt.Errorf("failed to mark offer accepted: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}

// Count returns the total number of candidates
func (r *CandidateRepository) Count() (int, error) {
	var count int

	err := r.db.QueryRow(`SELECT COUNT(*) FROM candidates`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count candidates: %w", err)
	}

	return count, nil
}

// CountByOfferStatus returns the number of candidates with the given offer status
func (r *CandidateRepository) CountByOfferStatus(status string) (int, error) {
	var count int

	err := r.db.QueryRow(`SELECT COUNT(*) FROM candidates WHERE offer_status = $1`, status).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count candidates by offer status: %w", err)
	}

	return count, nil
}

// MarkJoiningTriggered records that credentials were generated and sent
func (r *CandidateRepository) MarkJoiningTriggered(id uuid.UUID) error {
	query := `
		UPDATE candidates
		SET joining_triggered = TRUE,
		    credentials_sent = TRUE,
		    updated_at = $1
		WHERE id = $2
	`

	result, err := r.db.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to mark joining triggered: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("candidate not found")
	}

	return nil
}
