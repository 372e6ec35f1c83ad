package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/winwire/hr-onboarding-backend/internal/database"
	"github.com/winwire/hr-onboarding-backend/internal/middleware"
	"github.com/winwire/hr-onboarding-backend/internal/models"
	"github.com/winwire/hr-onboarding-backend/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

var userCols = []string{
	"id", "email", "password_hash", "full_name", "role", "employee_id",
	"is_active", "created_at", "updated_at",
}

func newAuthTestHandler(t *testing.T) (*AuthHandler, sqlmock.Sqlmock, *jwt.Service) {
	t.Helper()

	db, mock := newMockDB(t)
	jwtService := jwt.NewService("test-secret", "test-refresh-secret", time.Hour, 24*time.Hour)
	handler := NewAuthHandler(jwtService, database.NewUserRepository(db), newTestLogger())
	return handler, mock, jwtService
}

func postJSON(t *testing.T, path string, payload interface{}) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, err := json.Marshal(payload)
	require.NoError(t, err)
	c.Request, _ = http.NewRequest(http.MethodPost, path, bytes.NewBuffer(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return w, c
}

func userRow(id uuid.UUID, email, passwordHash, role string, active bool) *sqlmock.Rows {
	return sqlmock.NewRows(userCols).AddRow(
		id, email, passwordHash, "Priya Sharma", role, nil,
		active, time.Now(), time.Now(),
	)
}

func TestLogin(t *testing.T) {
	userID := uuid.New()
	email := "priya@example.com"
	password := "Secret123!"
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		handler, mock, _ := newAuthTestHandler(t)

		mock.ExpectQuery(`SELECT (.+) FROM users WHERE email = \$1`).
			WithArgs(email).
			WillReturnRows(userRow(userID, email, string(hash), models.RoleEmployee, true))

		w, c := postJSON(t, "/api/auth/login", models.LoginRequest{Email: email, Password: password})
		handler.Login(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp models.LoginResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.RefreshToken)
		require.NotNil(t, resp.User)
		assert.Equal(t, email, resp.User.Email)
		assert.Empty(t, resp.User.PasswordHash, "password hash must never be serialized")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Wrong Password", func(t *testing.T) {
		handler, mock, _ := newAuthTestHandler(t)

		mock.ExpectQuery(`SELECT (.+) FROM users WHERE email = \$1`).
			WithArgs(email).
			WillReturnRows(userRow(userID, email, string(hash), models.RoleEmployee, true))

		w, c := postJSON(t, "/api/auth/login", models.LoginRequest{Email: email, Password: "wrong"})
		handler.Login(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_CREDENTIALS")
	})

	t.Run("Unknown Email", func(t *testing.T) {
		handler, mock, _ := newAuthTestHandler(t)

		mock.ExpectQuery(`SELECT (.+) FROM users WHERE email = \$1`).
			WithArgs("nobody@example.com").
			WillReturnRows(sqlmock.NewRows(userCols))

		w, c := postJSON(t, "/api/auth/login", models.LoginRequest{Email: "nobody@example.com", Password: password})
		handler.Login(c)

		// Same response as a wrong password, no account enumeration
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_CREDENTIALS")
	})

	t.Run("Inactive User", func(t *testing.T) {
		handler, mock, _ := newAuthTestHandler(t)

		mock.ExpectQuery(`SELECT (.+) FROM users WHERE email = \$1`).
			WithArgs(email).
			WillReturnRows(userRow(userID, email, string(hash), models.RoleEmployee, false))

		w, c := postJSON(t, "/api/auth/login", models.LoginRequest{Email: email, Password: password})
		handler.Login(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "USER_INACTIVE")
	})

	t.Run("Missing Fields", func(t *testing.T) {
		handler, _, _ := newAuthTestHandler(t)

		w, c := postJSON(t, "/api/auth/login", gin.H{"email": email})
		handler.Login(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "validation_error")
	})
}

func TestRefresh(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mock, jwtService := newAuthTestHandler(t)

		userID := uuid.New()
		email := "priya@example.com"
		refreshToken, err := jwtService.GenerateRefreshToken(userID, email)
		require.NoError(t, err)

		mock.ExpectQuery(`SELECT (.+) FROM users WHERE id = \$1`).
			WithArgs(userID).
			WillReturnRows(userRow(userID, email, "hash", models.RoleEmployee, true))

		w, c := postJSON(t, "/api/auth/refresh", models.RefreshRequest{RefreshToken: refreshToken})
		handler.Refresh(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp models.LoginResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.AccessToken)
	})

	t.Run("Invalid Token", func(t *testing.T) {
		handler, _, _ := newAuthTestHandler(t)

		w, c := postJSON(t, "/api/auth/refresh", models.RefreshRequest{RefreshToken: "garbage"})
		handler.Refresh(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "invalid_token")
	})

	t.Run("Deactivated User", func(t *testing.T) {
		handler, mock, jwtService := newAuthTestHandler(t)

		userID := uuid.New()
		email := "priya@example.com"
		refreshToken, err := jwtService.GenerateRefreshToken(userID, email)
		require.NoError(t, err)

		mock.ExpectQuery(`SELECT (.+) FROM users WHERE id = \$1`).
			WithArgs(userID).
			WillReturnRows(userRow(userID, email, "hash", models.RoleEmployee, false))

		w, c := postJSON(t, "/api/auth/refresh", models.RefreshRequest{RefreshToken: refreshToken})
		handler.Refresh(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "user_inactive")
	})

	t.Run("Missing Token", func(t *testing.T) {
		handler, _, _ := newAuthTestHandler(t)

		w, c := postJSON(t, "/api/auth/refresh", gin.H{})
		handler.Refresh(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestMe(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mock, _ := newAuthTestHandler(t)

		userID := uuid.New()
		email := "hr@winwire.com"

		mock.ExpectQuery(`SELECT (.+) FROM users WHERE id = \$1`).
			WithArgs(userID).
			WillReturnRows(userRow(userID, email, "hash", models.RoleHR, true))

		gin.SetMode(gin.TestMode)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request, _ = http.NewRequest(http.MethodGet, "/api/auth/me", nil)
		c.Set(middleware.UserContextKey, middleware.UserContext{
			UserID: userID,
			Email:  email,
			Role:   models.RoleHR,
		})

		handler.Me(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), email)
		assert.NotContains(t, w.Body.String(), "password_hash")
	})

	t.Run("No User Context", func(t *testing.T) {
		handler, _, _ := newAuthTestHandler(t)

		gin.SetMode(gin.TestMode)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request, _ = http.NewRequest(http.MethodGet, "/api/auth/me", nil)

		handler.Me(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
