package database

import (
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/winwire/hr-onboarding-backend/internal/models"
)

func sampleSubmission() *models.OnboardingSubmission {
	now := time.Now()
	return &models.OnboardingSubmission{
		ID:          uuid.New(),
		CandidateID: uuid.New(),
		Email:       "ravi.kumar@example.com",
		FullName:    "Ravi Kumar",
		Department:  "Engineering",
		FirstName:   models.NewNullString("Ravi"),
		LastName:    models.NewNullString("Kumar"),
		Status:      models.StatusSubmitted,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func sampleUpload(field string) models.DocumentUpload {
	return models.DocumentUpload{
		Field:       field,
		Filename:    field + ".pdf",
		ContentType: "application/pdf",
		Data:        []byte("pdf bytes"),
	}
}

func TestCreateWithDocuments(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := NewSubmissionRepository(mockDB)

	t.Run("Success", func(t *testing.T) {
		sub := sampleSubmission()
		docs := []models.DocumentUpload{
			sampleUpload(models.DocTenthCertificate),
			sampleUpload(models.DocAadhaarDocument),
		}

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO onboarding_submissions`).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec(`INSERT INTO documents`).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec(`INSERT INTO documents`).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		err := repo.CreateWithDocuments(sub, docs)
		require.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Duplicate Active Submission", func(t *testing.T) {
		sub := sampleSubmission()

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO onboarding_submissions`).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "idx_submissions_active_candidate"})
		mock.ExpectRollback()

		err := repo.CreateWithDocuments(sub, nil)
		assert.ErrorIs(t, err, ErrDuplicateActiveSubmission)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Document Insert Fails Rolls Back", func(t *testing.T) {
		sub := sampleSubmission()
		docs := []models.DocumentUpload{sampleUpload(models.DocPanDocument)}

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO onboarding_submissions`).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec(`INSERT INTO documents`).
			WillReturnError(fmt.Errorf("disk full"))
		mock.ExpectRollback()

		err := repo.CreateWithDocuments(sub, docs)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to insert document")

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetByPassToken(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := NewSubmissionRepository(mockDB)

	t.Run("Outstanding Pass", func(t *testing.T) {
		token := uuid.New()
		sub := sampleSubmission()

		rows := sqlmock.NewRows([]string{"id", "candidate_id", "email", "full_name", "department", "status", "total_experience", "employee_created", "created_at", "updated_at"}).
			AddRow(sub.ID, sub.CandidateID, sub.Email, sub.FullName, sub.Department, models.StatusPassSent, 2.5, false, sub.CreatedAt, sub.UpdatedAt)

		mock.ExpectQuery(`SELECT (.+) FROM onboarding_submissions\s+WHERE pass_token`).
			WithArgs(token).
			WillReturnRows(rows)

		got, err := repo.GetByPassToken(token)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, models.StatusPassSent, got.Status)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Consumed Or Unknown Token", func(t *testing.T) {
		token := uuid.New()

		mock.ExpectQuery(`SELECT (.+) FROM onboarding_submissions\s+WHERE pass_token`).
			WithArgs(token).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		got, err := repo.GetByPassToken(token)
		require.NoError(t, err)
		assert.Nil(t, got)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRequestRevision(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := NewSubmissionRepository(mockDB)

	t.Run("Success", func(t *testing.T) {
		subID := uuid.New()
		reviewerID := uuid.New()

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO submission_revisions`).
			WithArgs(subID, "Aadhaar number is unreadable", reviewerID, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec(`UPDATE onboarding_submissions`).
			WithArgs("Aadhaar number is unreadable", reviewerID, sqlmock.AnyArg(), subID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.RequestRevision(subID, "Aadhaar number is unreadable", reviewerID)
		require.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Revision Insert Fails Rolls Back", func(t *testing.T) {
		subID := uuid.New()
		reviewerID := uuid.New()

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO submission_revisions`).
			WillReturnError(fmt.Errorf("database error"))
		mock.ExpectRollback()

		err := repo.RequestRevision(subID, "remarks", reviewerID)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to insert revision")

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestResubmit(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := NewSubmissionRepository(mockDB)

	t.Run("Resolves Latest Unresolved Revision", func(t *testing.T) {
		sub := sampleSubmission()

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE submission_revisions`).
			WithArgs(sqlmock.AnyArg(), sub.ID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE onboarding_submissions`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.Resubmit(sub, nil)
		require.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Replaces Reuploaded Single Document", func(t *testing.T) {
		sub := sampleSubmission()
		docs := []models.DocumentUpload{sampleUpload(models.DocPanDocument)}

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE submission_revisions`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE onboarding_submissions`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`DELETE FROM documents`).
			WithArgs(models.DocumentOwnerSubmission, sub.ID, models.DocPanDocument).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO documents`).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		err := repo.Resubmit(sub, docs)
		require.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Multi File Field Appends Without Delete", func(t *testing.T) {
		sub := sampleSubmission()
		docs := []models.DocumentUpload{sampleUpload(models.DocExperienceLetters)}

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE submission_revisions`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE onboarding_submissions`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO documents`).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		err := repo.Resubmit(sub, docs)
		require.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestApprove(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := NewSubmissionRepository(mockDB)

	t.Run("Success", func(t *testing.T) {
		subID := uuid.New()
		reviewerID := uuid.New()
		passToken := uuid.New()
		joining := time.Now().Add(14 * 24 * time.Hour)

		mock.ExpectExec(`UPDATE onboarding_submissions`).
			WithArgs("All documents verified", reviewerID, sqlmock.AnyArg(), passToken, joining, subID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Approve(subID, "All documents verified", reviewerID, passToken, joining)
		require.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAcceptPass(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := NewSubmissionRepository(mockDB)

	sampleEmployee := func(sub *models.OnboardingSubmission) *models.Employee {
		return &models.Employee{
			ID:           uuid.New(),
			SubmissionID: models.NewNullUUID(sub.ID),
			FirstName:    "Ravi",
			LastName:     "Kumar",
			FullName:     sub.FullName,
			Email:        sub.Email,
			Department:   sub.Department,
			Position:     "Software Engineer",
			JoiningDate:  time.Now().Add(14 * 24 * time.Hour),
			IsActive:     true,
			CreatedAt:    time.Now(),
		}
	}

	t.Run("Creates User Employee And Copies Documents", func(t *testing.T) {
		sub := sampleSubmission()
		sub.Status = models.StatusPassSent
		emp := sampleEmployee(sub)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT nextval\('employee_id_seq'\)`).
			WillReturnRows(sqlmock.NewRows([]string{"nextval"}).AddRow(1))
		mock.ExpectQuery(`SELECT id FROM users WHERE email`).
			WithArgs(sub.Email).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectExec(`INSERT INTO users`).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec(`INSERT INTO employees`).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec(`INSERT INTO documents`).
			WithArgs(models.DocumentOwnerEmployee, emp.ID, models.DocumentOwnerSubmission, sub.ID).
			WillReturnResult(sqlmock.NewResult(0, 9))
		mock.ExpectExec(`UPDATE onboarding_submissions`).
			WithArgs("WW00001", sqlmock.AnyArg(), sub.ID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.AcceptPass(sub, emp, "hashed", "WW")
		require.NoError(t, err)
		assert.True(t, emp.UserID.Valid)
		assert.Equal(t, "WW00001", emp.EmployeeID)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Reuses Existing User Account", func(t *testing.T) {
		sub := sampleSubmission()
		sub.Status = models.StatusPassSent
		emp := sampleEmployee(sub)
		existingUserID := uuid.New()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT nextval\('employee_id_seq'\)`).
			WillReturnRows(sqlmock.NewRows([]string{"nextval"}).AddRow(2))
		mock.ExpectQuery(`SELECT id FROM users WHERE email`).
			WithArgs(sub.Email).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(existingUserID))
		mock.ExpectExec(`UPDATE users`).
			WithArgs("hashed", "WW00002", sqlmock.AnyArg(), existingUserID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO employees`).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec(`INSERT INTO documents`).
			WillReturnResult(sqlmock.NewResult(0, 9))
		mock.ExpectExec(`UPDATE onboarding_submissions`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.AcceptPass(sub, emp, "hashed", "WW")
		require.NoError(t, err)
		assert.Equal(t, existingUserID, emp.UserID.UUID)
		assert.Equal(t, "WW00002", emp.EmployeeID)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Concurrent Acceptance Rolls Back", func(t *testing.T) {
		sub := sampleSubmission()
		sub.Status = models.StatusPassSent
		emp := sampleEmployee(sub)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT nextval\('employee_id_seq'\)`).
			WillReturnRows(sqlmock.NewRows([]string{"nextval"}).AddRow(3))
		mock.ExpectQuery(`SELECT id FROM users WHERE email`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectExec(`INSERT INTO users`).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec(`INSERT INTO employees`).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec(`INSERT INTO documents`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`UPDATE onboarding_submissions`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.AcceptPass(sub, emp, "hashed", "WW")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "no longer awaiting pass acceptance")

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetRevisions(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := NewSubmissionRepository(mockDB)

	t.Run("Ordered History", func(t *testing.T) {
		subID := uuid.New()
		reviewerID := uuid.New()
		first := time.Now().Add(-2 * time.Hour)
		second := time.Now().Add(-1 * time.Hour)

		mock.ExpectQuery(`SELECT (.+) FROM submission_revisions`).
			WithArgs(subID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "submission_id", "remarks", "requested_by", "requested_at", "resolved", "resolved_at"}).
				AddRow(1, subID, "Fix PAN", reviewerID, first, true, second).
				AddRow(2, subID, "Fix Aadhaar", reviewerID, second, false, nil))

		revisions, err := repo.GetRevisions(subID)
		require.NoError(t, err)
		require.Len(t, revisions, 2)
		assert.True(t, revisions[0].Resolved)
		assert.False(t, revisions[1].Resolved)
		assert.Equal(t, "Fix Aadhaar", revisions[1].Remarks)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Empty History", func(t *testing.T) {
		subID := uuid.New()

		mock.ExpectQuery(`SELECT (.+) FROM submission_revisions`).
			WithArgs(subID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "submission_id", "remarks", "requested_by", "requested_at", "resolved", "resolved_at"}))

		revisions, err := repo.GetRevisions(subID)
		require.NoError(t, err)
		assert.Len(t, revisions, 0)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
