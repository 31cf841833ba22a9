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
	"github.com/myysophia/toolbox-backend/internal/audit"
	"github.com/stretchr/testify/assert"
)

func newServiceHandler(t *testing.T) (*ServiceHandler, sqlmock.Sqlmock) {
	t.Helper()
	gdb, mock := setupMockDB(t)
	return NewServiceHandler(gdb, audit.NewService(gdb, 30*24*time.Hour)), mock
}

func reorderRequest(t *testing.T, items []SortItem) *http.Request {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{"items": items})
	assert.NoError(t, err)
	req := httptest.NewRequest("PUT", "/api/v1/services/sort", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestReorder_AllOrNothing(t *testing.T) {
	handler, mock := newServiceHandler(t)

	// 两条排序更新在同一个事务内提交
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "platform_services" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "platform_services" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// 成功后追加一条操作日志
	mock.ExpectQuery(`INSERT INTO "user_operation_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = reorderRequest(t, []SortItem{
		{ServiceCode: "svc-a", SortOrder: 2},
		{ServiceCode: "svc-b", SortOrder: 1},
	})
	c.Set("userID", uint(1))
	c.Set("username", "admin")

	handler.Reorder(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReorder_RollbackOnFailure(t *testing.T) {
	handler, mock := newServiceHandler(t)

	// 第二条更新失败，整个事务回滚，已更新的行不生效
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "platform_services" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "platform_services" SET`).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = reorderRequest(t, []SortItem{
		{ServiceCode: "svc-a", SortOrder: 2},
		{ServiceCode: "svc-b", SortOrder: 1},
	})
	c.Set("userID", uint(1))

	handler.Reorder(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReorder_UnknownServiceRollsBack(t *testing.T) {
	handler, mock := newServiceHandler(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "platform_services" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = reorderRequest(t, []SortItem{
		{ServiceCode: "missing", SortOrder: 1},
	})
	c.Set("userID", uint(1))

	handler.Reorder(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateService_DuplicateCode(t *testing.T) {
	handler, mock := newServiceHandler(t)

	mock.ExpectQuery(`SELECT count(.+) FROM "platform_services"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	body, _ := json.Marshal(map[string]interface{}{
		"service_code": "svc-a",
		"service_name": "测试服务",
	})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/api/v1/services", bytes.NewBuffer(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("userID", uint(1))

	handler.Create(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGetService_NotFound(t *testing.T) {
	handler, mock := newServiceHandler(t)

	mock.ExpectQuery(`SELECT (.+) FROM "platform_services"`).
		WillReturnError(assert.AnError)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/v1/services/missing", nil)
	c.Params = gin.Params{{Key: "code", Value: "missing"}}

	handler.Get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
