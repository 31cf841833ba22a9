package audit

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestSweep_DeletesExpiredRows(t *testing.T) {
	gdb, mock := setupMockDB(t)
	svc := NewService(gdb, 30*24*time.Hour)

	mock.ExpectExec(`DELETE FROM "user_operation_logs"`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	deleted, err := svc.Sweep()
	assert.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSweep_Idempotent(t *testing.T) {
	gdb, mock := setupMockDB(t)
	svc := NewService(gdb, 30*24*time.Hour)

	// 第一次清理删除到期行，紧接着的第二次没有可删的行
	mock.ExpectExec(`DELETE FROM "user_operation_logs"`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`DELETE FROM "user_operation_logs"`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err := svc.Sweep()
	assert.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	deleted, err = svc.Sweep()
	assert.NoError(t, err)
	assert.Equal(t, int64(0), deleted)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSweep_StoreFailure(t *testing.T) {
	gdb, mock := setupMockDB(t)
	svc := NewService(gdb, 30*24*time.Hour)

	mock.ExpectExec(`DELETE FROM "user_operation_logs"`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnError(gorm.ErrInvalidDB)

	deleted, err := svc.Sweep()
	assert.Error(t, err)
	assert.Equal(t, int64(0), deleted)
}
