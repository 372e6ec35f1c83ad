package handlers

import (
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
	"github.com/winwire/hr-onboarding-backend/internal/config"
	"github.com/winwire/hr-onboarding-backend/internal/database"
	"github.com/winwire/hr-onboarding-backend/internal/middleware"
	"github.com/winwire/hr-onboarding-backend/internal/models"
	"github.com/winwire/hr-onboarding-backend/internal/services"
	"github.com/winwire/hr-onboarding-backend/pkg/mail"
	"golang.org/x/crypto/bcrypt"
)

func handlerTestConfig() config.OnboardingConfig {
	return config.OnboardingConfig{
		AppBaseURL:         "http://localhost:3000",
		OfferTokenValidity: 7 * 24 * time.Hour,
		EmployeeIDPrefix:   "WW",
		EmailSequenceDelay: time.Millisecond,
		CompanyName:        "WinWire",
	}
}

func newAdminTestHandler(t *testing.T) (*AdminHandler, sqlmock.Sqlmock) {
	t.Helper()

	db, mock := newMockDB(t)
	logger := newTestLogger()

	queue := services.NewTaskQueue(8, logger)
	t.Cleanup(queue.Stop)

	notifier := services.NewNotificationService(mail.NewLogMailer(logger), queue, handlerTestConfig(), logger)
	onboarding := services.NewOnboardingService(
		database.NewSubmissionRepository(db),
		database.NewCandidateRepository(db),
		database.NewEmployeeRepository(db),
		database.NewDocumentRepository(db),
		notifier,
		handlerTestConfig(),
		bcrypt.MinCost,
		logger,
	)
	audit := services.NewAuditService(db, logger)

	return NewAdminHandler(onboarding, audit, logger), mock
}

func hrContext(t *testing.T, method, path string, payload interface{}) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()

	var (
		w *httptest.ResponseRecorder
		c *gin.Context
	)
	if method == http.MethodGet {
		gin.SetMode(gin.TestMode)
		w = httptest.NewRecorder()
		c, _ = gin.CreateTestContext(w)
		c.Request, _ = http.NewRequest(http.MethodGet, path, nil)
	} else {
		w, c = postJSON(t, path, payload)
	}
	c.Set(middleware.UserContextKey, middleware.UserContext{
		UserID: uuid.New(),
		Email:  "hr@winwire.com",
		Role:   models.RoleHR,
	})
	return w, c
}

func TestDashboardStats(t *testing.T) {
	handler, mock := newAdminTestHandler(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM candidates`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(20))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM candidates WHERE offer_status`).
		WithArgs(models.OfferAccepted).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM onboarding_submissions WHERE status`).
		WithArgs(models.StatusSubmitted).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM employees`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(9))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM employees WHERE is_active`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(8))

	w, c := hrContext(t, http.MethodGet, "/api/admin/dashboard/stats", nil)
	handler.DashboardStats(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var stats models.DashboardStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 20, stats.TotalCandidates)
	assert.Equal(t, 12, stats.AcceptedOffers)
	assert.Equal(t, 4, stats.PendingSubmissions)
	assert.Equal(t, 9, stats.TotalEmployees)
	assert.Equal(t, 8, stats.ActiveEmployees)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSubmissionInvalidID(t *testing.T) {
	handler, _ := newAdminTestHandler(t)

	w, c := hrContext(t, http.MethodGet, "/api/admin/submissions/not-a-uuid", nil)
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}
	handler.GetSubmission(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_id")
}

func TestAcceptPassMalformedToken(t *testing.T) {
	handler, _ := newAdminTestHandler(t)

	w, c := postJSON(t, "/api/admin/accept-onboarding-pass/garbage", gin.H{})
	c.Params = gin.Params{{Key: "token", Value: "garbage"}}
	handler.AcceptPass(c)

	// Malformed and unknown tokens are indistinguishable to the caller
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_token")
}

func TestPassPreviewUnknownToken(t *testing.T) {
	handler, mock := newAdminTestHandler(t)

	token := uuid.New()
	mock.ExpectQuery(`SELECT (.+) FROM onboarding_submissions WHERE pass_token`).
		WithArgs(token).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	w, c := hrContext(t, http.MethodGet, "/api/admin/onboarding-pass/"+token.String(), nil)
	c.Params = gin.Params{{Key: "token", Value: token.String()}}
	handler.PassPreview(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_token")
}

func TestReviewActionsRequireContext(t *testing.T) {
	handler, _ := newAdminTestHandler(t)
	id := uuid.New()

	actions := []struct {
		name string
		call func(c *gin.Context)
	}{
		{"Approve", handler.Approve},
		{"Reject", handler.Reject},
		{"Request Revision", handler.RequestRevision},
	}

	for _, action := range actions {
		t.Run(action.name, func(t *testing.T) {
			w, c := postJSON(t, "/api/admin/submissions/"+id.String()+"/review", models.ReviewRequest{Remarks: "x"})
			c.Params = gin.Params{{Key: "id", Value: id.String()}}
			action.call(c)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestRejectEmptyRemarks(t *testing.T) {
	handler, _ := newAdminTestHandler(t)
	id := uuid.New()

	w, c := hrContext(t, http.MethodPost, "/api/admin/submissions/"+id.String()+"/reject", models.ReviewRequest{Remarks: "   "})
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	handler.Reject(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "validation_error")
}
