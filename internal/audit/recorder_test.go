package audit

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/myysophia/toolbox-backend/internal/db/models"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestRecord_AppendsOneRow(t *testing.T) {
	gdb, mock := setupMockDB(t)
	svc := NewService(gdb, 30*24*time.Hour)

	// 一次记录只产生一条 INSERT
	mock.ExpectQuery(`INSERT INTO "user_operation_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	ok := svc.Record(1, models.OperationAdd, "svc-a",
		map[string]interface{}{"resource": "platform_service", "name": "测试服务"},
		"127.0.0.1", "test-agent")

	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecord_UnknownOperationType(t *testing.T) {
	gdb, _ := setupMockDB(t)
	svc := NewService(gdb, 30*24*time.Hour)

	// 枚举外的操作类型直接拒绝，不访问数据库
	ok := svc.Record(1, "reboot", "svc-a", nil, "127.0.0.1", "test-agent")
	assert.False(t, ok)
}

func TestRecord_SerializationFailure(t *testing.T) {
	gdb, _ := setupMockDB(t)
	svc := NewService(gdb, 30*24*time.Hour)

	// channel 无法序列化为 JSON，记录失败但不 panic
	ok := svc.Record(1, models.OperationUpdate, "svc-a", make(chan int), "127.0.0.1", "test-agent")
	assert.False(t, ok)
}

func TestRecord_StoreFailure(t *testing.T) {
	gdb, mock := setupMockDB(t)
	svc := NewService(gdb, 30*24*time.Hour)

	mock.ExpectQuery(`INSERT INTO "user_operation_logs"`).
		WillReturnError(gorm.ErrInvalidDB)

	ok := svc.Record(1, models.OperationDelete, "svc-a", nil, "127.0.0.1", "test-agent")
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}
