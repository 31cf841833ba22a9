package audit

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestRecent_NewestFirst(t *testing.T) {
	gdb, mock := setupMockDB(t)
	svc := NewService(gdb, 30*24*time.Hour)

	now := time.Now()

	// svc-a 依次发生 add、update、delete，limit=2 只取最新两条
	rows := sqlmock.NewRows(logColumns()).
		AddRow(3, 1, "admin", "", "delete", "svc-a", "", "127.0.0.1", "ua", now).
		AddRow(2, 1, "admin", "", "update", "svc-a", "", "127.0.0.1", "ua", now.Add(-time.Minute))
	mock.ExpectQuery(`SELECT (.+) FROM "user_operation_logs" LEFT JOIN users`).
		WillReturnRows(rows)

	logs, err := svc.Recent("svc-a", 2)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(logs))
	assert.Equal(t, "delete", logs[0].OperationType)
	assert.Equal(t, "update", logs[1].OperationType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecent_DefaultLimit(t *testing.T) {
	gdb, mock := setupMockDB(t)
	svc := NewService(gdb, 30*24*time.Hour)

	mock.ExpectQuery(`SELECT (.+) FROM "user_operation_logs" LEFT JOIN users`).
		WillReturnRows(sqlmock.NewRows(logColumns()))

	logs, err := svc.Recent("svc-a", 0)
	assert.NoError(t, err)
	assert.Equal(t, 0, len(logs))
}
