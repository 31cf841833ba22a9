package audit

import (
	"context"
	"time"

	"github.com/myysophia/toolbox-backend/internal/db/models"
	"github.com/myysophia/toolbox-backend/internal/logger"
	"go.uber.org/zap"
)

// Sweep 删除早于保留期的操作日志，返回删除行数
// 幂等：没有到期日志时删除 0 行
func (s *Service) Sweep() (int64, error) {
	cutoff := time.Now().Add(-s.retention)

	result := s.db.Where("created_at < ?", cutoff).Delete(&models.OperationLog{})
	if result.Error != nil {
		logger.Error("清理过期操作日志失败",
			zap.Error(result.Error),
			zap.Time("cutoff", cutoff))
		return 0, result.Error
	}

	if result.RowsAffected > 0 {
		logger.Info("清理过期操作日志完成",
			zap.Int64("deleted", result.RowsAffected),
			zap.Time("cutoff", cutoff))
	}

	return result.RowsAffected, nil
}

// StartSweeper 启动定时清理任务，ctx 取消后退出
// 清理与写入路径解耦，写日志的延迟和成败不受清理影响
func (s *Service) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				logger.Info("定时清理任务已停止")
				return
			case <-ticker.C:
				// 失败只记日志，下个周期重试
				if _, err := s.Sweep(); err != nil {
					logger.Warn("定时清理执行失败，等待下个周期", zap.Error(err))
				}
			}
		}
	}()
}
