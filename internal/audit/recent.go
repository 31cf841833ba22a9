package audit

// Recent 查询某个服务最近的 N 条操作日志，按创建时间倒序
// 不带分页元信息，供服务详情页展示
func (s *Service) Recent(serviceCode string, limit int) ([]LogItem, error) {
	if limit <= 0 {
		limit = 10
	}

	var rows []logRow
	err := s.db.Table("user_operation_logs").
		Select("user_operation_logs.id, user_operation_logs.user_id, users.username, users.nickname, "+
			"user_operation_logs.operation_type, user_operation_logs.service_code, "+
			"user_operation_logs.operation_detail, user_operation_logs.ip_address, "+
			"user_operation_logs.user_agent, user_operation_logs.created_at").
		Joins("LEFT JOIN users ON users.id = user_operation_logs.user_id").
		Where("user_operation_logs.service_code = ?", serviceCode).
		Order("user_operation_logs.created_at DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	items := make([]LogItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toItem())
	}
	return items, nil
}
