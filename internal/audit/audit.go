package audit

import (
	"time"

	"gorm.io/gorm"
)

// Service 操作日志服务，承载记录、清理、查询、统计
type Service struct {
	db        *gorm.DB
	retention time.Duration
}

// NewService 创建操作日志服务
// retention 为日志保留时长，早于 now-retention 的日志可被清理
func NewService(db *gorm.DB, retention time.Duration) *Service {
	if retention <= 0 {
		retention = 30 * 24 * time.Hour
	}
	return &Service{
		db:        db,
		retention: retention,
	}
}
