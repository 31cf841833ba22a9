package models

import (
	"time"
)

// 操作类型
const (
	OperationAdd    = "add"    // 新增
	OperationUpdate = "update" // 更新
	OperationDelete = "delete" // 删除
	OperationAccess = "access" // 访问
)

// ValidOperationType 校验操作类型是否在枚举内
func ValidOperationType(t string) bool {
	switch t {
	case OperationAdd, OperationUpdate, OperationDelete, OperationAccess:
		return true
	}
	return false
}

// OperationLog 用户操作日志，只追加不更新
// user_id 不声明外键约束，允许用户删除后日志继续保留
type OperationLog struct {
	ID              uint      `gorm:"primarykey" json:"id"`
	UserID          uint      `gorm:"index;not null" json:"user_id"`
	OperationType   string    `gorm:"size:20;not null;index" json:"operation_type"` // add, update, delete, access
	ServiceCode     string    `gorm:"size:100;index" json:"service_code"`
	OperationDetail string    `gorm:"type:text" json:"operation_detail"`
	IPAddress       string    `gorm:"size:50" json:"ip_address"`
	UserAgent       string    `gorm:"type:text" json:"user_agent"`
	CreatedAt       time.Time `gorm:"index" json:"created_at"`
}

// TableName 指定表名
func (OperationLog) TableName() string {
	return "user_operation_logs"
}
