package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/winwire/hr-onboarding-backend/internal/models"
)

const submissionColumns = `
	id, candidate_id, email, full_name, department,
	first_name, last_name, middle_name, date_of_birth, phone, linkedin_url,
	address, city, state, pincode,
	emergency_contact_name, emergency_contact_phone, emergency_contact_relation,
	bank_account_number, bank_name, bank_ifsc, self_description,
	tenth_percentage, twelfth_percentage, degree_percentage,
	total_experience, previous_companies, aadhaar_number, pan_number,
	status, hr_remarks, reviewed_by, reviewed_at,
	date_of_joining, pass_token, pass_sent_at, pass_accepted_at,
	employee_created, employee_id, created_at, updated_at
`

// SubmissionRepository handles onboarding submission database operations
type SubmissionRepository struct {
	db DB
}

// NewSubmissionRepository creates a new submission repository
func NewSubmissionRepository(db DB) *SubmissionRepository {
	return &SubmissionRepository{
		db: db,
	}
}

// CreateWithDocuments inserts a submission and its documents in one
// transaction. The partial unique index on active submissions makes a
// concurrent duplicate submit fail here rather than create a second record.
func (r *SubmissionRepository) CreateWithDocuments(sub *models.OnboardingSubmission, docs []models.DocumentUpload) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO onboarding_submissions (
			id, candidate_id, email, full_name, department,
			first_name, last_name, middle_name, date_of_birth, phone, linkedin_url,
			address, city, state, pincode,
			emergency_contact_name, emergency_contact_phone, emergency_contact_relation,
			bank_account_number, bank_name, bank_ifsc, self_description,
			tenth_percentage, twelfth_percentage, degree_percentage,
			total_experience, previous_companies, aadhaar_number, pan_number,
			status, created_at, updated_at
		) VALUES (
			:id, :candidate_id, :email, :full_name, :department,
			:first_name, :last_name, :middle_name, :date_of_birth, :phone, :linkedin_url,
			:address, :city, :state, :pincode,
			:emergency_contact_name, :emergency_contact_phone, :emergency_contact_relation,
			:bank_account_number, :bank_name, :bank_ifsc, :self_description,
			:tenth_percentage, :twelfth_percentage, :degree_percentage,
			:total_experience, :previous_companies, :aadhaar_number, :pan_number,
			:status, :created_at, :updated_at
		)
	`

	if _, err := tx.NamedExec(query, sub); err != nil {
		if isUniqueViolation(err, "idx_submissions_active_candidate") {
			return ErrDuplicateActiveSubmission
		}
		return fmt.Errorf("failed to create submission: %w", err)
	}

	if err := insertDocuments(tx, models.DocumentOwnerSubmission, sub.ID, docs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit submission: %w", err)
	}

	return nil
}

// GetByID retrieves a submission by ID
func (r *SubmissionRepository) GetByID(id uuid.UUID) (*models.OnboardingSubmission, error) {
	var sub models.OnboardingSubmission

	query := `SELECT ` + submissionColumns + ` FROM onboarding_submissions WHERE id = $1`

	err := r.db.Get(&sub, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get submission by ID: %w", err)
	}

	return &sub, nil
}

// GetLatestByCandidateID retrieves the most recent submission for a candidate
func (r *SubmissionRepository) GetLatestByCandidateID(candidateID uuid.UUID) (*models.OnboardingSubmission, error) {
	var sub models.OnboardingSubmission

	query := `
		SELECT ` + submissionColumns + `
		FROM onboarding_submissions
		WHERE candidate_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	err := r.db.Get(&sub, query, candidateID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get submission by candidate: %w", err)
	}

	return &sub, nil
}

// GetActiveByCandidateID retrieves the candidate's non-rejected submission, if any
func (r *SubmissionRepository) GetActiveByCandidateID(candidateID uuid.UUID) (*models.OnboardingSubmission, error) {
	var sub models.OnboardingSubmission

	query := `
		SELECT ` + submissionColumns + `
		FROM onboarding_submissions
		WHERE candidate_id = $1 AND status <> 'REJECTED'
	`

	err := r.db.Get(&sub, query, candidateID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active submission: %w", err)
	}

	return &sub, nil
}

// GetByPassToken retrieves a submission whose onboarding pass token matches
// and is still outstanding. The status guard is what makes the token
// single-use: once accepted the same token no longer matches.
func (r *SubmissionRepository) GetByPassToken(token uuid.UUID) (*models.OnboardingSubmission, error) {
	var sub models.OnboardingSubmission

	query := `
		SELECT ` + submissionColumns + `
		FROM onboarding_submissions
		WHERE pass_token = $1 AND status = 'PASS_SENT'
	`

	err := r.db.Get(&sub, query, token)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get submission by pass token: %w", err)
	}

	return &sub, nil
}

// List retrieves all submissions, newest first
func (r *SubmissionRepository) List() ([]*models.OnboardingSubmission, error) {
	var subs []*models.OnboardingSubmission

	query := `SELECT ` + submissionColumns + ` FROM onboarding_submissions ORDER BY created_at DESC`

	err := r.db.Select(&subs, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}

	return subs, nil
}

// CountByStatus returns the number of submissions with the given status
func (r *SubmissionRepository) CountByStatus(status string) (int, error) {
	var count int

	err := r.db.QueryRow(`SELECT COUNT(*) FROM onboarding_submissions WHERE status = $1`, status).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count submissions by status: %w", err)
	}

	return count, nil
}

// GetRevisions returns a submission's revision history in request order
func (r *SubmissionRepository) GetRevisions(submissionID uuid.UUID) ([]models.SubmissionRevision, error) {
	revisions := []models.SubmissionRevision{}

	query := `
		SELECT id, submission_id, remarks, requested_by, requested_at, resolved, resolved_at
		FROM submission_revisions
		WHERE submission_id = $1
		ORDER BY requested_at ASC, id ASC
	`

	err := r.db.Select(&revisions, query, submissionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get revisions: %w", err)
	}

	return revisions, nil
}

// RequestRevision appends an unresolved revision entry and moves the
// submission to REVISION_REQUESTED in one transaction.
func (r *SubmissionRepository) RequestRevision(submissionID uuid.UUID, remarks string, reviewerID uuid.UUID) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	insertQuery := `
		INSERT INTO submission_revisions (submission_id, remarks, requested_by, requested_at, resolved)
		VALUES ($1, $2, $3, $4, FALSE)
	`
	if _, err := tx.Exec(insertQuery, submissionID, remarks, reviewerID, time.Now()); err != nil {
		return fmt.Errorf("failed to insert revision: %w", err)
	}

	updateQuery := `
		UPDATE onboarding_submissions
		SET status = 'REVISION_REQUESTED',
		    hr_remarks = $1,
		    reviewed_by = $2,
		    reviewed_at = $3,
		    updated_at = $3
		WHERE id = $4
	`
	if _, err := tx.Exec(updateQuery, remarks, reviewerID, time.Now(), submissionID); err != nil {
		return fmt.Errorf("failed to update submission for revision: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit revision request: %w", err)
	}

	return nil
}

// Resubmit persists an overlaid submission, resolves the latest unresolved
// revision entry, replaces any re-uploaded documents and moves the submission
// back to SUBMITTED, all in one transaction.
func (r *SubmissionRepository) Resubmit(sub *models.OnboardingSubmission, docs []models.DocumentUpload) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	resolveQuery := `
		UPDATE submission_revisions
		SET resolved = TRUE,
		    resolved_at = $1
		WHERE id = (
			SELECT id FROM submission_revisions
			WHERE submission_id = $2 AND resolved = FALSE
			ORDER BY requested_at DESC, id DESC
			LIMIT 1
		)
	`
	if _, err := tx.Exec(resolveQuery, time.Now(), sub.ID); err != nil {
		return fmt.Errorf("failed to resolve revision: %w", err)
	}

	updateQuery := `
		UPDATE onboarding_submissions SET
			full_name = :full_name,
			first_name = :first_name,
			last_name = :last_name,
			middle_name = :middle_name,
			date_of_birth = :date_of_birth,
			phone = :phone,
			linkedin_url = :linkedin_url,
			address = :address,
			city = :city,
			state = :state,
			pincode = :pincode,
			emergency_contact_name = :emergency_contact_name,
			emergency_contact_phone = :emergency_contact_phone,
			emergency_contact_relation = :emergency_contact_relation,
			bank_account_number = :bank_account_number,
			bank_name = :bank_name,
			bank_ifsc = :bank_ifsc,
			self_description = :self_description,
			tenth_percentage = :tenth_percentage,
			twelfth_percentage = :twelfth_percentage,
			degree_percentage = :degree_percentage,
			total_experience = :total_experience,
			previous_companies = :previous_companies,
			aadhaar_number = :aadhaar_number,
			pan_number = :pan_number,
			status = 'SUBMITTED',
			reviewed_by = NULL,
			reviewed_at = NULL,
			updated_at = :updated_at
		WHERE id = :id
	`
	sub.UpdatedAt = time.Now()
	if _, err := tx.NamedExec(updateQuery, sub); err != nil {
		return fmt.Errorf("failed to update submission: %w", err)
	}

	// Re-uploaded documents replace the stored copies for those fields only
	for _, doc := range docs {
		deleteQuery := `
			DELETE FROM documents
			WHERE owner_type = $1 AND owner_id = $2 AND field = $3
		`
		if !models.MultiDocumentFields[doc.Field] {
			if _, err := tx.Exec(deleteQuery, models.DocumentOwnerSubmission, sub.ID, doc.Field); err != nil {
				return fmt.Errorf("failed to replace document %s: %w", doc.Field, err)
			}
		}
	}
	if err := insertDocuments(tx, models.DocumentOwnerSubmission, sub.ID, docs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit resubmission: %w", err)
	}

	return nil
}

// Reject moves a submission to the terminal REJECTED state
func (r *SubmissionRepository) Reject(id uuid.UUID, remarks string, reviewerID uuid.UUID) error {
	query := `
		UPDATE onboarding_submissions
		SET status = 'REJECTED',
		    hr_remarks = $1,
		    reviewed_by = $2,
		    reviewed_at = $3,
		    updated_at = $3
		WHERE id = $4
	`

	_, err := r.db.Exec(query, remarks, reviewerID, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to reject submission: %w", err)
	}

	return nil
}

// Approve stores the onboarding pass details and moves the submission to PASS_SENT
func (r *SubmissionRepository) Approve(id uuid.UUID, remarks string, reviewerID uuid.UUID, passToken uuid.UUID, dateOfJoining time.Time) error {
	query := `
		UPDATE onboarding_submissions
		SET status = 'PASS_SENT',
		    hr_remarks = $1,
		    reviewed_by = $2,
		    reviewed_at = $3,
		    pass_token = $4,
		    pass_sent_at = $3,
		    date_of_joining = $5,
		    updated_at = $3
		WHERE id = $6
	`

	_, err := r.db.Exec(query, remarks, reviewerID, time.Now(), passToken, dateOfJoining, id)
	if err != nil {
		return fmt.Errorf("failed to approve submission: %w", err)
	}

	return nil
}

// AcceptPass finalizes onboarding in a single transaction: the employee ID
// is drawn from a database sequence, the user account is created or updated
// with the new credentials, the employee record is inserted, all submission
// documents are copied to the employee, and the submission is marked
// PASS_ACCEPTED. A crash cannot leave an employee without an accepted
// submission, and concurrent accepts cannot collide on the employee ID.
func (r *SubmissionRepository) AcceptPass(sub *models.OnboardingSubmission, emp *models.Employee, passwordHash, employeeIDPrefix string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var seq int64
	if err := tx.Get(&seq, `SELECT nextval('employee_id_seq')`); err != nil {
		return fmt.Errorf("failed to allocate employee id: %w", err)
	}
	emp.EmployeeID = fmt.Sprintf("%s%05d", employeeIDPrefix, seq)

	// Update or create the linked user account
	var userID uuid.UUID
	err = tx.Get(&userID, `SELECT id FROM users WHERE email = $1`, sub.Email)
	switch err {
	case nil:
		updateQuery := `
			UPDATE users
			SET password_hash = $1, employee_id = $2, updated_at = $3
			WHERE id = $4
		`
		if _, err := tx.Exec(updateQuery, passwordHash, emp.EmployeeID, time.Now(), userID); err != nil {
			return fmt.Errorf("failed to update user credentials: %w", err)
		}
	case sql.ErrNoRows:
		userID = uuid.New()
		insertQuery := `
			INSERT INTO users (id, email, password_hash, full_name, role, employee_id, is_active, created_at, updated_at)
			VALUES ($1, $2, $3, $4, 'EMPLOYEE', $5, TRUE, $6, $6)
		`
		if _, err := tx.Exec(insertQuery, userID, sub.Email, passwordHash, sub.FullName, emp.EmployeeID, time.Now()); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
	default:
		return fmt.Errorf("failed to look up user: %w", err)
	}
	emp.UserID = models.NewNullUUID(userID)

	employeeQuery := `
		INSERT INTO employees (
			id, employee_id, user_id, submission_id,
			first_name, last_name, middle_name, full_name, email, phone,
			date_of_birth, linkedin_url, department, position, joining_date,
			about_me, is_active, created_at
		) VALUES (
			:id, :employee_id, :user_id, :submission_id,
			:first_name, :last_name, :middle_name, :full_name, :email, :phone,
			:date_of_birth, :linkedin_url, :department, :position, :joining_date,
			:about_me, :is_active, :created_at
		)
	`
	if _, err := tx.NamedExec(employeeQuery, emp); err != nil {
		return fmt.Errorf("failed to create employee: %w", err)
	}

	// The employee owns its own copies; the submission keeps the originals
	// as the historical record.
	copyQuery := `
		INSERT INTO documents (id, owner_type, owner_id, field, filename, content_type, data, uploaded_at)
		SELECT gen_random_uuid(), $1, $2, field, filename, content_type, data, NOW()
		FROM documents
		WHERE owner_type = $3 AND owner_id = $4
	`
	if _, err := tx.Exec(copyQuery, models.DocumentOwnerEmployee, emp.ID, models.DocumentOwnerSubmission, sub.ID); err != nil {
		return fmt.Errorf("failed to copy documents: %w", err)
	}

	submissionQuery := `
		UPDATE onboarding_submissions
		SET status = 'PASS_ACCEPTED',
		    employee_created = TRUE,
		    employee_id = $1,
		    pass_accepted_at = $2,
		    updated_at = $2
		WHERE id = $3 AND status = 'PASS_SENT'
	`
	result, err := tx.Exec(submissionQuery, emp.EmployeeID, time.Now(), sub.ID)
	if err != nil {
		return fmt.Errorf("failed to mark submission accepted: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		// Another request consumed the token between our read and this write
		return fmt.Errorf("submission no longer awaiting pass acceptance")
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit pass acceptance: %w", err)
	}

	return nil
}

// insertDocuments inserts uploaded files for an owner within a transaction
func insertDocuments(tx *sqlx.Tx, ownerType string, ownerID uuid.UUID, docs []models.DocumentUpload) error {
	query := `
		INSERT INTO documents (id, owner_type, owner_id, field, filename, content_type, data, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	for _, doc := range docs {
		_, err := tx.Exec(query, uuid.New(), ownerType, ownerID, doc.Field, doc.Filename, doc.ContentType, doc.Data, time.Now())
		if err != nil {
			return fmt.Errorf("failed to insert document %s: %w", doc.Field, err)
		}
	}

	return nil
}
