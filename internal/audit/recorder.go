package audit

import (
	"encoding/json"

	"github.com/myysophia/toolbox-backend/internal/db/models"
	"github.com/myysophia/toolbox-backend/internal/logger"
	"go.uber.org/zap"
)

// Record 追加一条操作日志
// 日志记录是尽力而为的：任何失败只记录到服务端日志并返回 false，
// 绝不打断调用方的业务写入
func (s *Service) Record(userID uint, operationType, serviceCode string, detail interface{}, ip, userAgent string) bool {
	if !models.ValidOperationType(operationType) {
		logger.Warn("未知的操作类型，拒绝记录",
			zap.String("operation_type", operationType),
			zap.Uint("user_id", userID))
		return false
	}

	// 序列化操作详情
	var detailText string
	if detail != nil {
		detailJSON, err := json.Marshal(detail)
		if err != nil {
			logger.Error("操作详情序列化失败",
				zap.Error(err),
				zap.Uint("user_id", userID),
				zap.String("operation_type", operationType))
			return false
		}
		detailText = string(detailJSON)
	}

	log := models.OperationLog{
		UserID:          userID,
		OperationType:   operationType,
		ServiceCode:     serviceCode,
		OperationDetail: detailText,
		IPAddress:       ip,
		UserAgent:       userAgent,
	}

	if err := s.db.Create(&log).Error; err != nil {
		logger.Error("保存操作日志失败",
			zap.Error(err),
			zap.Uint("user_id", userID),
			zap.String("operation_type", operationType),
			zap.String("service_code", serviceCode))
		return false
	}

	return true
}
