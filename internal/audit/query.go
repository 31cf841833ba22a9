package audit

import (
	"encoding/json"
	"time"

	"github.com/myysophia/toolbox-backend/internal/db/models"
	"gorm.io/gorm"
)

// Filter 日志查询条件，所有字段可选，出现的条件做 AND 组合
// 缺省的条件不产生任何 WHERE 子句
type Filter struct {
	UserID        *uint
	OperationType string
	ServiceCode   string
	StartTime     *time.Time // 含边界，原样比较
	EndTime       *time.Time // 含边界，原样比较
	Limit         int        // 默认 50，不设上限
	Offset        int        // 默认 0
}

// LogItem 查询结果行，联表补充操作人显示名
type LogItem struct {
	ID              uint        `json:"id"`
	UserID          uint        `json:"user_id"`
	Username        string      `json:"username"`
	Nickname        string      `json:"nickname"`
	OperationType   string      `json:"operation_type"`
	ServiceCode     string      `json:"service_code"`
	OperationDetail interface{} `json:"operation_detail"`
	IPAddress       string      `json:"ip_address"`
	UserAgent       string      `json:"user_agent"`
	CreatedAt       time.Time   `json:"created_at"`
}

// Page 分页查询结果
type Page struct {
	Total      int64     `json:"total"`
	Logs       []LogItem `json:"logs"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalPages int       `json:"total_pages"`
}

// logRow 数据库扫描行
type logRow struct {
	ID              uint
	UserID          uint
	Username        string
	Nickname        string
	OperationType   string
	ServiceCode     string
	OperationDetail string
	IPAddress       string
	UserAgent       string
	CreatedAt       time.Time
}

// Query 分页查询操作日志
// 先按同一组条件 COUNT 得到总数，再联表取一页，按创建时间倒序
func (s *Service) Query(f Filter) (*Page, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	// 统计总数
	var total int64
	countQuery := applyFilter(s.db.Model(&models.OperationLog{}), f)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, err
	}

	// 联表查询一页，LEFT JOIN 保证用户删除后日志仍可见
	var rows []logRow
	listQuery := applyFilter(s.db.Table("user_operation_logs"), f).
		Select("user_operation_logs.id, user_operation_logs.user_id, users.username, users.nickname, " +
			"user_operation_logs.operation_type, user_operation_logs.service_code, " +
			"user_operation_logs.operation_detail, user_operation_logs.ip_address, " +
			"user_operation_logs.user_agent, user_operation_logs.created_at").
		Joins("LEFT JOIN users ON users.id = user_operation_logs.user_id").
		Order("user_operation_logs.created_at DESC").
		Limit(limit).
		Offset(offset)

	if err := listQuery.Scan(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]LogItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toItem())
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return &Page{
		Total:      total,
		Logs:       items,
		Page:       offset/limit + 1,
		PageSize:   limit,
		TotalPages: totalPages,
	}, nil
}

// applyFilter 只为出现的条件拼接 WHERE 子句
func applyFilter(query *gorm.DB, f Filter) *gorm.DB {
	if f.UserID != nil {
		query = query.Where("user_operation_logs.user_id = ?", *f.UserID)
	}
	if f.OperationType != "" {
		query = query.Where("user_operation_logs.operation_type = ?", f.OperationType)
	}
	if f.ServiceCode != "" {
		query = query.Where("user_operation_logs.service_code = ?", f.ServiceCode)
	}
	if f.StartTime != nil {
		query = query.Where("user_operation_logs.created_at >= ?", *f.StartTime)
	}
	if f.EndTime != nil {
		query = query.Where("user_operation_logs.created_at <= ?", *f.EndTime)
	}
	return query
}

// toItem 将数据库行转换为结果行，反解操作详情
func (r logRow) toItem() LogItem {
	return LogItem{
		ID:              r.ID,
		UserID:          r.UserID,
		Username:        r.Username,
		Nickname:        r.Nickname,
		OperationType:   r.OperationType,
		ServiceCode:     r.ServiceCode,
		OperationDetail: parseDetail(r.OperationDetail),
		IPAddress:       r.IPAddress,
		UserAgent:       r.UserAgent,
		CreatedAt:       r.CreatedAt,
	}
}

// parseDetail 将存储的详情文本反解为结构化数据
// 解析失败时降级为原始字符串，历史遗留格式不应让查询失败
func parseDetail(raw string) interface{} {
	if raw == "" {
		return nil
	}
	var parsed interface{}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return raw
	}
	return parsed
}
