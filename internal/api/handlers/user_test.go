package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/myysophia/toolbox-backend/internal/audit"
	"github.com/myysophia/toolbox-backend/internal/db/models"
	"github.com/stretchr/testify/assert"
)

func newUserHandler(t *testing.T) (*UserHandler, sqlmock.Sqlmock) {
	t.Helper()
	gdb, mock := setupMockDB(t)
	return NewUserHandler(gdb, audit.NewService(gdb, 30*24*time.Hour)), mock
}

func userContext(w *httptest.ResponseRecorder, method, id string) *gin.Context {
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, "/api/v1/users/x", nil)
	c.Params = gin.Params{{Key: "id", Value: id}}
	c.Set("userID", uint(1))
	return c
}

func TestGetUser_NonNumericIDRejected(t *testing.T) {
	handler, mock := newUserHandler(t)

	// 非数字ID直接拒绝，绝不进入 SQL 条件
	for _, id := range []string{"abc", "1 OR 1=1", "1;DROP TABLE users", "-1"} {
		w := httptest.NewRecorder()
		handler.Get(userContext(w, "GET", id))
		assert.Equal(t, http.StatusBadRequest, w.Code, "id=%q", id)
	}

	// 整个过程没有发出任何数据库语句
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteUser_NonNumericIDRejected(t *testing.T) {
	handler, mock := newUserHandler(t)

	w := httptest.NewRecorder()
	handler.Delete(userContext(w, "DELETE", "1 OR 1=1"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUser_ParameterizesID(t *testing.T) {
	handler, mock := newUserHandler(t)

	// ID 以绑定参数下发，而不是拼进语句文本
	mock.ExpectQuery(`SELECT (.+) FROM "users" WHERE "users"\."id" = \$1`).
		WillReturnRows(userRow("alice", "password123", models.RoleUser, true))

	w := httptest.NewRecorder()
	handler.Get(userContext(w, "GET", "1"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_InvalidRoleRejected(t *testing.T) {
	handler, _ := newUserHandler(t)

	body := `{"username":"bob","password":"password123","role":"root"}`
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/api/v1/users", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("userID", uint(1))

	handler.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
