package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/winwire/hr-onboarding-backend/internal/config"
	"github.com/winwire/hr-onboarding-backend/internal/database"
	"github.com/winwire/hr-onboarding-backend/internal/models"
	"golang.org/x/crypto/bcrypt"
)

func TestSeedAdminUser(t *testing.T) {
	adminCfg := config.AdminConfig{Email: "hr@winwire.com", Password: "ChangeMe123!"}
	cols := []string{
		"id", "email", "password_hash", "full_name", "role", "employee_id",
		"is_active", "created_at", "updated_at",
	}

	t.Run("Creates Account On Fresh Database", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := database.NewUserRepository(db)

		mock.ExpectQuery(`SELECT (.+) FROM users WHERE email = \$1`).
			WithArgs(adminCfg.Email).
			WillReturnRows(sqlmock.NewRows(cols))
		mock.ExpectExec(`INSERT INTO users`).
			WillReturnResult(sqlmock.NewResult(1, 1))

		err := SeedAdminUser(repo, adminCfg, bcrypt.MinCost, newTestLogger())
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Skips When Account Exists", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := database.NewUserRepository(db)

		mock.ExpectQuery(`SELECT (.+) FROM users WHERE email = \$1`).
			WithArgs(adminCfg.Email).
			WillReturnRows(sqlmock.NewRows(cols).AddRow(
				uuid.New(), adminCfg.Email, "hash", "HR Administrator", models.RoleHR,
				nil, true, time.Now(), time.Now(),
			))

		err := SeedAdminUser(repo, adminCfg, bcrypt.MinCost, newTestLogger())
		require.NoError(t, err)
		// No insert expected
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Skips When Not Configured", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := database.NewUserRepository(db)

		err := SeedAdminUser(repo, config.AdminConfig{}, bcrypt.MinCost, newTestLogger())
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
