package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"maintenance/models"
	"maintenance/repository"
	"maintenance/services"
	"maintenance/storage"

	"github.com/gin-gonic/gin"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// stubNotifier records sends and can be told to fail delivery.
type stubNotifier struct {
	err  error
	sent int
	last string
}

func (s *stubNotifier) Send(recipients []string, subject, htmlBody string, attachment *services.Attachment) error {
	s.sent++
	s.last = subject
	return s.err
}

const (
	adminToken = "admin-session-token"
	hodToken   = "hod-session-token"
)

// setupDecisionFixture builds both stores: a sql.DB with users/session rows
// for auth, and a gorm DB with one pending request.
func setupDecisionFixture(t *testing.T, notifier services.Notifier) (*gin.Engine, *gorm.DB, int) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	authDB, err := sql.Open("sqlite3", "file:"+t.Name()+"_auth?mode=memory&cache=shared")
	require.NoError(t, err)
	authDB.SetMaxOpenConns(1)
	t.Cleanup(func() { authDB.Close() })

	schema := []string{
		`CREATE TABLE users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			employee_id TEXT, email TEXT, password TEXT,
			first_name TEXT, last_name TEXT, role TEXT, branch TEXT,
			suspended BOOLEAN,
			created_at TIMESTAMP, updated_at TIMESTAMP
		)`,
		`CREATE TABLE session (
			user_id INTEGER, session_id TEXT, host_name TEXT, ip_address TEXT,
			timestp TIMESTAMP, expires_at TIMESTAMP,
			refresh_token TEXT, refresh_token_expires_at TIMESTAMP
		)`,
		`INSERT INTO users (employee_id, email, password, first_name, last_name, role, branch, suspended, created_at, updated_at)
			VALUES ('EMP001', 'admin@college.edu', 'x', 'Admin', 'User', 'ADMIN', '', 0, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
		`INSERT INTO users (employee_id, email, password, first_name, last_name, role, branch, suspended, created_at, updated_at)
			VALUES ('EMP002', 'hod@college.edu', 'x', 'Jane', 'Doe', 'HOD', 'CSE', 0, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
		`INSERT INTO session (user_id, session_id, host_name, ip_address, timestp, expires_at)
			VALUES (1, '` + adminToken + `', 'admin@college.edu', '127.0.0.1', CURRENT_TIMESTAMP, datetime('now', '+1 hour'))`,
		`INSERT INTO session (user_id, session_id, host_name, ip_address, timestp, expires_at)
			VALUES (2, '` + hodToken + `', 'hod@college.edu', '127.0.0.1', CURRENT_TIMESTAMP, datetime('now', '+1 hour'))`,
	}
	for _, stmt := range schema {
		_, err := authDB.Exec(stmt)
		require.NoError(t, err)
	}

	gdb, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, storage.AutoMigrate(gdb))

	req := &models.MaintenanceRequest{
		HODID:         2,
		HODName:       "Jane Doe",
		HODEmail:      "hod@college.edu",
		Branch:        "CSE",
		Title:         "Lab PCs down",
		SelectedItems: `[{"device":"SSD","quantity":1,"price":1750}]`,
	}
	require.NoError(t, repository.CreateRequest(gdb, req, "1750"))

	r := gin.New()
	r.POST("/api/request_approve/:id", RequestApproveHandler(authDB, gdb, notifier))
	r.POST("/api/request_reject/:id", RequestRejectHandler(authDB, gdb, notifier))
	r.POST("/api/logout", LogoutHandler(authDB))
	return r, gdb, req.ID
}

func postDecision(r *gin.Engine, path, token string, body []byte) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func TestApprovePersistsDespiteNotifierFailure(t *testing.T) {
	notifier := &stubNotifier{err: errors.New("smtp down")}
	r, gdb, requestID := setupDecisionFixture(t, notifier)

	w := postDecision(r, "/api/request_approve/"+strconv.Itoa(requestID), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.StatusChangeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, models.StatusApproved, resp.NewStatus)

	stored, err := repository.GetRequest(gdb, requestID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, stored.Status)
	assert.Equal(t, "Approved by admin", stored.AdminRemark)
	assert.Equal(t, 1, notifier.sent, "delivery was attempted after the transition")
}

func TestRejectWithCustomRemark(t *testing.T) {
	notifier := &stubNotifier{}
	r, gdb, requestID := setupDecisionFixture(t, notifier)

	body := []byte(`{"remark":"No budget this quarter"}`)
	w := postDecision(r, "/api/request_reject/"+strconv.Itoa(requestID), adminToken, body)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.StatusChangeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, models.StatusRejected, resp.NewStatus)

	stored, err := repository.GetRequest(gdb, requestID)
	require.NoError(t, err)
	assert.Equal(t, "No budget this quarter", stored.AdminRemark)
	assert.Contains(t, notifier.last, "Rejected")
}

func TestApproveUnknownRequest(t *testing.T) {
	notifier := &stubNotifier{}
	r, _, _ := setupDecisionFixture(t, notifier)

	w := postDecision(r, "/api/request_approve/999", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Zero(t, notifier.sent)
}

func TestApproveRequiresApprover(t *testing.T) {
	notifier := &stubNotifier{}
	r, gdb, requestID := setupDecisionFixture(t, notifier)

	w := postDecision(r, "/api/request_approve/"+strconv.Itoa(requestID), hodToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = postDecision(r, "/api/request_approve/"+strconv.Itoa(requestID), "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	stored, err := repository.GetRequest(gdb, requestID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, stored.Status)
}

func TestLogoutDeletesSession(t *testing.T) {
	notifier := &stubNotifier{}
	r, _, _ := setupDecisionFixture(t, notifier)

	w := postDecision(r, "/api/logout", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"code":200,"message":"Logged out"}`, w.Body.String())

	// The session is gone, so a second logout is unauthorized
	w = postDecision(r, "/api/logout", adminToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
