package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/myysophia/toolbox-backend/internal/audit"
	"github.com/myysophia/toolbox-backend/internal/config"
	"github.com/myysophia/toolbox-backend/internal/db/models"
	"github.com/myysophia/toolbox-backend/internal/logger"
	"go.uber.org/zap"
)

// OperationLogHandler 操作日志处理器
type OperationLogHandler struct {
	*BaseHandler
	auditSvc *audit.Service
}

// NewOperationLogHandler 创建操作日志处理器
func NewOperationLogHandler(auditSvc *audit.Service) *OperationLogHandler {
	return &OperationLogHandler{
		BaseHandler: NewBaseHandler(),
		auditSvc:    auditSvc,
	}
}

// List 分页查询操作日志
// 存储失败时降级为空结果，仪表盘视图不因临时故障报错
func (h *OperationLogHandler) List(c *gin.Context) {
	filter := audit.Filter{}

	// 用户筛选
	if userIDStr := c.Query("user_id"); userIDStr != "" {
		userID, err := strconv.ParseUint(userIDStr, 10, 32)
		if err != nil {
			h.BadRequest(c, "无效的user_id参数")
			return
		}
		id := uint(userID)
		filter.UserID = &id
	}

	// 操作类型筛选
	if operationType := c.Query("operation_type"); operationType != "" {
		if !models.ValidOperationType(operationType) {
			h.BadRequest(c, "无效的operation_type参数")
			return
		}
		filter.OperationType = operationType
	}

	// 服务编码筛选
	filter.ServiceCode = c.Query("service_code")

	// 时间范围筛选
	// 纯日期参数在服务端归一：开始取当天 00:00:00，结束取当天 23:59:59
	startTime, err := parseTimeParam(c.Query("start_date"), false)
	if err != nil {
		h.BadRequest(c, "无效的start_date参数")
		return
	}
	filter.StartTime = startTime

	endTime, err := parseTimeParam(c.Query("end_date"), true)
	if err != nil {
		h.BadRequest(c, "无效的end_date参数")
		return
	}
	filter.EndTime = endTime

	// 分页参数
	defaultLimit := 50
	if cfg := config.GetConfig(); cfg != nil && cfg.Audit.DefaultPageSize > 0 {
		defaultLimit = cfg.Audit.DefaultPageSize
	}
	filter.Limit = defaultLimit
	if limitStr := c.Query("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			filter.Limit = limit
		}
	}
	if offsetStr := c.Query("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset >= 0 {
			filter.Offset = offset
		}
	}

	page, err := h.auditSvc.Query(filter)
	if err != nil {
		logger.Error("查询操作日志失败", zap.Error(err))
		page = &audit.Page{
			Total:      0,
			Logs:       []audit.LogItem{},
			Page:       filter.Offset/filter.Limit + 1,
			PageSize:   filter.Limit,
			TotalPages: 0,
		}
	}

	h.Success(c, page)
}

// Sweep 手动触发过期日志清理
func (h *OperationLogHandler) Sweep(c *gin.Context) {
	deleted, err := h.auditSvc.Sweep()
	if err != nil {
		h.InternalError(c, "清理过期日志失败")
		return
	}

	h.SuccessWithMessage(c, "清理完成", gin.H{
		"deleted_count": deleted,
	})
}

// Recent 查询某个服务最近的操作日志
func (h *OperationLogHandler) Recent(c *gin.Context) {
	serviceCode := c.Query("service_code")
	if serviceCode == "" {
		h.BadRequest(c, "缺少service_code参数")
		return
	}

	limit := 10
	if limitStr := c.Query("limit"); limitStr != "" {
		if n, err := strconv.Atoi(limitStr); err == nil && n > 0 {
			limit = n
		}
	}

	logs, err := h.auditSvc.Recent(serviceCode, limit)
	if err != nil {
		logger.Error("查询最近操作日志失败",
			zap.Error(err),
			zap.String("service_code", serviceCode))
		logs = []audit.LogItem{}
	}

	h.Success(c, gin.H{
		"service_code": serviceCode,
		"logs":         logs,
		"count":        len(logs),
	})
}

// Stats 统计最近若干天的操作分布
func (h *OperationLogHandler) Stats(c *gin.Context) {
	var userID *uint
	if userIDStr := c.Query("user_id"); userIDStr != "" {
		id, err := strconv.ParseUint(userIDStr, 10, 32)
		if err != nil {
			h.BadRequest(c, "无效的user_id参数")
			return
		}
		parsed := uint(id)
		userID = &parsed
	}

	days := 7
	if daysStr := c.Query("days"); daysStr != "" {
		if n, err := strconv.Atoi(daysStr); err == nil && n > 0 {
			days = n
		}
	}

	stats, err := h.auditSvc.Stats(userID, days)
	if err != nil {
		logger.Error("统计操作日志失败", zap.Error(err))
		stats = []audit.StatRow{}
	}

	h.Success(c, gin.H{
		"stats":   stats,
		"period":  days,
		"user_id": userID,
	})
}

// parseTimeParam 解析时间参数
// 完整 RFC3339 时间原样使用；纯日期按本地时区归一，
// endOfDay 为 true 时取当天最后一刻，保证结束日期含当天
func parseTimeParam(value string, endOfDay bool) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}

	t, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		// 按日历构造当天最后一刻，夏令时切换日也不会漂到邻天
		t = time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, time.Local)
	}
	return &t, nil
}
