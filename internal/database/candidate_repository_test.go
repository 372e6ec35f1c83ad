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

var candidateRows = []string{
	"id", "full_name", "email", "phone", "position", "department", "offer_status",
	"accept_token", "accept_token_expiry", "joining_triggered", "credentials_sent",
	"created_by", "created_at", "updated_at",
}

func sampleCandidate() *models.Candidate {
	now := time.Now()
	return &models.Candidate{
		ID:                uuid.New(),
		FullName:          "Ravi Kumar",
		Email:             "ravi.kumar@example.com",
		Phone:             "9876543210",
		Position:          "Software Engineer",
		Department:        "Engineering",
		OfferStatus:       models.OfferPending,
		AcceptToken:       uuid.New(),
		AcceptTokenExpiry: now.Add(7 * 24 * time.Hour),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func TestCandidateCreate(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := NewCandidateRepository(mockDB)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO candidates`).
			WillReturnResult(sqlmock.NewResult(1, 1))

		err := repo.Create(sampleCandidate())
		require.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Duplicate Email", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO candidates`).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "candidates_email_key"})

		err := repo.Create(sampleCandidate())
		assert.ErrorIs(t, err, ErrDuplicateEmail)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database Error", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO candidates`).
			WillReturnError(fmt.Errorf("database error"))

		err := repo.Create(sampleCandidate())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create candidate")

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetByValidAcceptToken(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := NewCandidateRepository(mockDB)

	t.Run("Valid Token", func(t *testing.T) {
		c := sampleCandidate()

		mock.ExpectQuery(`SELECT (.+) FROM candidates`).
			WithArgs(c.AcceptToken).
			WillReturnRows(sqlmock.NewRows(candidateRows).AddRow(
				c.ID, c.FullName, c.Email, c.Phone, c.Position, c.Department, c.OfferStatus,
				c.AcceptToken, c.AcceptTokenExpiry, false, false,
				nil, c.CreatedAt, c.UpdatedAt,
			))

		got, err := repo.GetByValidAcceptToken(c.AcceptToken)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, c.ID, got.ID)
		assert.Equal(t, models.OfferPending, got.OfferStatus)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Expired Or Unknown Token", func(t *testing.T) {
		token := uuid.New()

		mock.ExpectQuery(`SELECT (.+) FROM candidates`).
			WithArgs(token).
			WillReturnRows(sqlmock.NewRows(candidateRows))

		got, err := repo.GetByValidAcceptToken(token)
		require.NoError(t, err)
		assert.Nil(t, got)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMarkOfferAccepted(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := NewCandidateRepository(mockDB)

	t.Run("Pending Offer Accepted", func(t *testing.T) {
		id := uuid.New()

		mock.ExpectExec(`UPDATE candidates`).
			WithArgs(sqlmock.AnyArg(), id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		rows, err := repo.MarkOfferAccepted(id)
		require.NoError(t, err)
		assert.Equal(t, int64(1), rows)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Already Decided", func(t *testing.T) {
		id := uuid.New()

		mock.ExpectExec(`UPDATE candidates`).
			WithArgs(sqlmock.AnyArg(), id).
			WillReturnResult(sqlmock.NewResult(0, 0))

		rows, err := repo.MarkOfferAccepted(id)
		require.NoError(t, err)
		assert.Equal(t, int64(0), rows)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCountByOfferStatus(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := NewCandidateRepository(mockDB)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM candidates WHERE offer_status`).
			WithArgs(models.OfferAccepted).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

		count, err := repo.CountByOfferStatus(models.OfferAccepted)
		require.NoError(t, err)
		assert.Equal(t, 7, count)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMarkJoiningTriggered(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := NewCandidateRepository(mockDB)

	t.Run("Success", func(t *testing.T) {
		id := uuid.New()

		mock.ExpectExec(`UPDATE candidates`).
			WithArgs(sqlmock.AnyArg(), id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.MarkJoiningTriggered(id)
		require.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Candidate Not Found", func(t *testing.T) {
		id := uuid.New()

		mock.ExpectExec(`UPDATE candidates`).
			WithArgs(sqlmock.AnyArg(), id).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.MarkJoiningTriggered(id)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "candidate not found")

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
