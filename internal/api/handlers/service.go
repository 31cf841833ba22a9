package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/myysophia/toolbox-backend/internal/audit"
	"github.com/myysophia/toolbox-backend/internal/db/models"
	"github.com/myysophia/toolbox-backend/internal/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ServiceHandler 平台/服务目录处理器
type ServiceHandler struct {
	*BaseHandler
	db       *gorm.DB
	auditSvc *audit.Service
}

// NewServiceHandler 创建目录处理器
func NewServiceHandler(db *gorm.DB, auditSvc *audit.Service) *ServiceHandler {
	return &ServiceHandler{
		BaseHandler: NewBaseHandler(),
		db:          db,
		auditSvc:    auditSvc,
	}
}

// ServiceRequest 目录条目创建/更新请求
type ServiceRequest struct {
	ServiceCode        string `json:"service_code" binding:"required,max=100"`
	ServiceName        string `json:"service_name" binding:"required,max=200"`
	ServiceDescription string `json:"service_description"`
	ServiceType        string `json:"service_type" binding:"omitempty,service_type"`
	IconName           string `json:"icon_name" binding:"max=100"`
	ColorClass         string `json:"color_class" binding:"max=100"`
	ServiceURL         string `json:"service_url" binding:"max=500"`
	URLType            string `json:"url_type" binding:"omitempty,url_type"`
	OtherInformation   string `json:"other_information"`
	SortOrder          int    `json:"sort_order"`
	IsVisible          *bool  `json:"is_visible"`
}

// List 获取目录列表，按排序值升序展示
func (h *ServiceHandler) List(c *gin.Context) {
	query := h.db.Model(&models.PlatformService{})

	if serviceType := c.Query("type"); serviceType != "" {
		query = query.Where("service_type = ?", serviceType)
	}
	if visible := c.Query("visible"); visible != "" {
		query = query.Where("is_visible = ?", visible == "true")
	}

	// 排序值相同时按插入顺序展示
	var services []models.PlatformService
	if err := query.Order("sort_order ASC, id ASC").Find(&services).Error; err != nil {
		logger.Error("获取服务列表失败", zap.Error(err))
		h.InternalError(c, "获取服务列表失败")
		return
	}

	h.Success(c, gin.H{
		"total": len(services),
		"items": services,
	})
}

// Get 按服务编码获取目录条目
func (h *ServiceHandler) Get(c *gin.Context) {
	code := c.Param("code")

	var service models.PlatformService
	if err := h.db.Where("service_code = ?", code).First(&service).Error; err != nil {
		h.NotFound(c, "服务不存在")
		return
	}

	h.Success(c, service)
}

// Create 创建目录条目
func (h *ServiceHandler) Create(c *gin.Context) {
	var req ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "参数错误")
		return
	}

	// 检查服务编码是否已存在
	var count int64
	if err := h.db.Model(&models.PlatformService{}).Where("service_code = ?", req.ServiceCode).Count(&count).Error; err != nil {
		h.InternalError(c, "检查服务编码失败")
		return
	}
	if count > 0 {
		h.Conflict(c, "服务编码已存在")
		return
	}

	service := models.PlatformService{
		ServiceCode:        req.ServiceCode,
		ServiceName:        req.ServiceName,
		ServiceDescription: req.ServiceDescription,
		ServiceType:        req.ServiceType,
		IconName:           req.IconName,
		ColorClass:         req.ColorClass,
		ServiceURL:         req.ServiceURL,
		URLType:            req.URLType,
		OtherInformation:   req.OtherInformation,
		SortOrder:          req.SortOrder,
		IsVisible:          true,
	}
	if service.ServiceType == "" {
		service.ServiceType = models.ServiceTypeService
	}
	if service.URLType == "" {
		service.URLType = models.URLTypeInternal
	}
	if req.IsVisible != nil {
		service.IsVisible = *req.IsVisible
	}

	if err := h.db.Create(&service).Error; err != nil {
		h.InternalError(c, "创建服务失败")
		return
	}

	h.recordOperation(c, models.OperationAdd, service.ServiceCode, map[string]interface{}{
		"resource": "platform_service",
		"after":    service,
	})

	h.Success(c, service)
}

// Update 更新目录条目
func (h *ServiceHandler) Update(c *gin.Context) {
	code := c.Param("code")

	var service models.PlatformService
	if err := h.db.Where("service_code = ?", code).First(&service).Error; err != nil {
		h.NotFound(c, "服务不存在")
		return
	}

	var req ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "参数错误")
		return
	}

	// 编码变更时检查新编码是否被占用
	if req.ServiceCode != service.ServiceCode {
		var count int64
		if err := h.db.Model(&models.PlatformService{}).
			Where("service_code = ? AND id != ?", req.ServiceCode, service.ID).
			Count(&count).Error; err != nil {
			h.InternalError(c, "检查服务编码失败")
			return
		}
		if count > 0 {
			h.Conflict(c, "服务编码已存在")
			return
		}
	}

	before := service

	updates := map[string]interface{}{
		"service_code":        req.ServiceCode,
		"service_name":        req.ServiceName,
		"service_description": req.ServiceDescription,
		"icon_name":           req.IconName,
		"color_class":         req.ColorClass,
		"service_url":         req.ServiceURL,
		"other_information":   req.OtherInformation,
		"sort_order":          req.SortOrder,
	}
	if req.ServiceType != "" {
		updates["service_type"] = req.ServiceType
	}
	if req.URLType != "" {
		updates["url_type"] = req.URLType
	}
	if req.IsVisible != nil {
		updates["is_visible"] = *req.IsVisible
	}

	if err := h.db.Model(&service).Updates(updates).Error; err != nil {
		h.InternalError(c, "更新服务失败")
		return
	}

	if err := h.db.First(&service, service.ID).Error; err != nil {
		h.NotFound(c, "获取更新后的服务失败")
		return
	}

	h.recordOperation(c, models.OperationUpdate, service.ServiceCode, map[string]interface{}{
		"resource": "platform_service",
		"before":   before,
		"after":    service,
	})

	h.Success(c, service)
}

// Delete 删除目录条目，日志详情保存删除快照
func (h *ServiceHandler) Delete(c *gin.Context) {
	code := c.Param("code")

	var service models.PlatformService
	if err := h.db.Where("service_code = ?", code).First(&service).Error; err != nil {
		h.NotFound(c, "服务不存在")
		return
	}

	if err := h.db.Delete(&service).Error; err != nil {
		h.InternalError(c, "删除服务失败")
		return
	}

	h.recordOperation(c, models.OperationDelete, service.ServiceCode, map[string]interface{}{
		"resource": "platform_service",
		"snapshot": service,
	})

	h.Success(c, nil)
}

// SortItem 单条排序项
type SortItem struct {
	ServiceCode string `json:"service_code" binding:"required"`
	SortOrder   int    `json:"sort_order"`
}

// Reorder 批量更新排序
// 整个排序在一个事务内完成，任何一条失败全部回滚，
// 避免界面观察到只更新了一半的顺序
func (h *ServiceHandler) Reorder(c *gin.Context) {
	var req struct {
		Items []SortItem `json:"items" binding:"required,min=1,dive"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "参数错误")
		return
	}

	tx := h.db.Begin()
	if tx.Error != nil {
		h.InternalError(c, "开启事务失败")
		return
	}

	for _, item := range req.Items {
		result := tx.Model(&models.PlatformService{}).
			Where("service_code = ?", item.ServiceCode).
			Update("sort_order", item.SortOrder)
		if result.Error != nil {
			tx.Rollback()
			h.InternalError(c, "更新排序失败")
			return
		}
		if result.RowsAffected == 0 {
			tx.Rollback()
			h.NotFound(c, "服务不存在: "+item.ServiceCode)
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		h.InternalError(c, "提交事务失败")
		return
	}

	h.recordOperation(c, models.OperationUpdate, "", map[string]interface{}{
		"resource": "platform_service",
		"action":   "reorder",
		"items":    req.Items,
	})

	h.Success(c, gin.H{"updated": len(req.Items)})
}

// Visit 记录一次服务访问
func (h *ServiceHandler) Visit(c *gin.Context) {
	code := c.Param("code")

	var service models.PlatformService
	if err := h.db.Where("service_code = ?", code).First(&service).Error; err != nil {
		h.NotFound(c, "服务不存在")
		return
	}

	h.recordOperation(c, models.OperationAccess, service.ServiceCode, map[string]interface{}{
		"resource":     "platform_service",
		"service_name": service.ServiceName,
		"url_type":     service.URLType,
	})

	h.Success(c, gin.H{
		"service_code": service.ServiceCode,
		"service_url":  service.ServiceURL,
		"url_type":     service.URLType,
	})
}

// recordOperation 记录操作日志，失败不影响主流程
func (h *ServiceHandler) recordOperation(c *gin.Context, operationType, serviceCode string, detail interface{}) {
	operatorID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	if !h.auditSvc.Record(operatorID, operationType, serviceCode, detail, c.ClientIP(), c.Request.UserAgent()) {
		logger.Warn("目录操作日志记录失败",
			zap.Uint("operator_id", operatorID),
			zap.String("operation_type", operationType),
			zap.String("service_code", serviceCode))
	}
}
