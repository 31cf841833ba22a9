package audit

import (
	"time"
)

// StatRow 按操作类型和日期分组的统计行
type StatRow struct {
	OperationType string `json:"operation_type"`
	Count         int64  `json:"count"`
	Date          string `json:"date"`
}

// Stats 统计最近 days 天内各操作类型按天的数量
// userID 为 nil 时统计全部用户，按日期倒序、操作类型正序返回
func (s *Service) Stats(userID *uint, days int) ([]StatRow, error) {
	if days <= 0 {
		days = 7
	}
	since := time.Now().AddDate(0, 0, -days)

	query := s.db.Table("user_operation_logs").
		Select("operation_type, count(*) as count, to_char(date(created_at), 'YYYY-MM-DD') as date").
		Where("created_at >= ?", since)

	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}

	var rows []StatRow
	err := query.
		Group("operation_type, date(created_at)").
		Order("date DESC, operation_type ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	if rows == nil {
		rows = []StatRow{}
	}
	return rows, nil
}
