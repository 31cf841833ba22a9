package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/myysophia/toolbox-backend/internal/audit"
	"github.com/myysophia/toolbox-backend/internal/db/models"
	"github.com/myysophia/toolbox-backend/internal/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UserHandler 用户管理处理器
type UserHandler struct {
	*BaseHandler
	db       *gorm.DB
	auditSvc *audit.Service
}

// NewUserHandler 创建用户管理处理器
func NewUserHandler(db *gorm.DB, auditSvc *audit.Service) *UserHandler {
	return &UserHandler{
		BaseHandler: NewBaseHandler(),
		db:          db,
		auditSvc:    auditSvc,
	}
}

// List 获取用户列表
func (h *UserHandler) List(c *gin.Context) {
	// 获取分页参数
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}

	// 构建查询
	query := h.db.Model(&models.User{})

	// 处理筛选条件
	if username := c.Query("username"); username != "" {
		query = query.Where("username LIKE ?", "%"+username+"%")
	}
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if isActive := c.Query("is_active"); isActive != "" {
		query = query.Where("is_active = ?", isActive == "true")
	}

	// 获取总数
	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("获取用户总数失败", zap.Error(err))
		h.InternalError(c, "获取用户总数失败")
		return
	}

	// 获取用户列表
	var users []models.User
	if err := query.Order("id ASC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&users).Error; err != nil {
		logger.Error("获取用户列表失败", zap.Error(err))
		h.InternalError(c, "获取用户列表失败")
		return
	}

	h.Success(c, gin.H{
		"total":     total,
		"page":      page,
		"page_size": pageSize,
		"items":     users,
	})
}

// Create 创建用户
func (h *UserHandler) Create(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required,min=3,max=32"`
		Password string `json:"password" binding:"required,min=6,max=32"`
		Nickname string `json:"nickname" binding:"max=100"`
		Email    string `json:"email" binding:"omitempty,email"`
		Role     string `json:"role" binding:"omitempty,user_role"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "参数错误")
		return
	}

	// 检查用户名是否已存在
	var count int64
	if err := h.db.Model(&models.User{}).Where("username = ?", req.Username).Count(&count).Error; err != nil {
		h.InternalError(c, "检查用户名失败")
		return
	}
	if count > 0 {
		h.Conflict(c, "用户名已存在")
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}

	// 创建用户
	user := models.User{
		Username: req.Username,
		Nickname: req.Nickname,
		Email:    req.Email,
		Role:     role,
		IsActive: true,
	}
	if err := user.SetPassword(req.Password); err != nil {
		h.InternalError(c, "密码加密失败")
		return
	}

	if err := h.db.Create(&user).Error; err != nil {
		h.InternalError(c, "创建用户失败")
		return
	}

	// 记录操作日志
	h.recordOperation(c, models.OperationAdd, map[string]interface{}{
		"resource": "user",
		"id":       user.ID,
		"username": user.Username,
		"role":     user.Role,
	})

	h.Success(c, user)
}

// idParam 解析路径中的用户ID
// 必须是十进制数字，拒绝一切非数字输入，避免进入 SQL 条件
func idParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// Get 获取用户详情
func (h *UserHandler) Get(c *gin.Context) {
	userID, err := idParam(c)
	if err != nil {
		h.BadRequest(c, "无效的用户ID")
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		h.NotFound(c, "用户不存在")
		return
	}

	h.Success(c, user)
}

// Update 更新用户
func (h *UserHandler) Update(c *gin.Context) {
	userID, err := idParam(c)
	if err != nil {
		h.BadRequest(c, "无效的用户ID")
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		h.NotFound(c, "用户不存在")
		return
	}

	var req struct {
		Nickname *string `json:"nickname"`
		Email    *string `json:"email" binding:"omitempty,email"`
		Role     *string `json:"role" binding:"omitempty,user_role"`
		IsActive *bool   `json:"is_active"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "参数错误")
		return
	}

	// 变更前快照
	before := gin.H{
		"nickname":  user.Nickname,
		"email":     user.Email,
		"role":      user.Role,
		"is_active": user.IsActive,
	}

	updates := map[string]interface{}{}
	if req.Nickname != nil {
		updates["nickname"] = *req.Nickname
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Role != nil {
		updates["role"] = *req.Role
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) == 0 {
		h.BadRequest(c, "没有需要更新的字段")
		return
	}

	if err := h.db.Model(&user).Updates(updates).Error; err != nil {
		h.InternalError(c, "更新用户失败")
		return
	}

	// 记录操作日志
	h.recordOperation(c, models.OperationUpdate, map[string]interface{}{
		"resource": "user",
		"id":       user.ID,
		"before":   before,
		"after":    updates,
	})

	// 重新获取用户信息
	if err := h.db.First(&user, userID).Error; err != nil {
		h.NotFound(c, "获取更新后的用户信息失败")
		return
	}

	h.Success(c, user)
}

// ResetPassword 重置用户密码
func (h *UserHandler) ResetPassword(c *gin.Context) {
	userID, err := idParam(c)
	if err != nil {
		h.BadRequest(c, "无效的用户ID")
		return
	}

	var req struct {
		Password string `json:"password" binding:"required,min=6,max=32"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "参数错误")
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		h.NotFound(c, "用户不存在")
		return
	}

	if err := user.SetPassword(req.Password); err != nil {
		h.InternalError(c, "密码加密失败")
		return
	}

	if err := h.db.Model(&user).Update("password", user.Password).Error; err != nil {
		h.InternalError(c, "重置密码失败")
		return
	}

	// 记录操作日志
	h.recordOperation(c, models.OperationUpdate, map[string]interface{}{
		"resource": "user",
		"id":       user.ID,
		"action":   "reset_password",
	})

	h.Success(c, nil)
}

// Delete 删除用户
// 用户删除后其历史操作日志保留，查询侧通过 LEFT JOIN 兼容
func (h *UserHandler) Delete(c *gin.Context) {
	userID, err := idParam(c)
	if err != nil {
		h.BadRequest(c, "无效的用户ID")
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		h.NotFound(c, "用户不存在")
		return
	}

	if err := h.db.Delete(&user).Error; err != nil {
		h.InternalError(c, "删除用户失败")
		return
	}

	// 记录操作日志，详情保存删除快照
	h.recordOperation(c, models.OperationDelete, map[string]interface{}{
		"resource": "user",
		"snapshot": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"nickname": user.Nickname,
			"email":    user.Email,
			"role":     user.Role,
		},
	})

	h.Success(c, nil)
}

// recordOperation 记录操作日志，失败不影响主流程
func (h *UserHandler) recordOperation(c *gin.Context, operationType string, detail interface{}) {
	operatorID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	if !h.auditSvc.Record(operatorID, operationType, "", detail, c.ClientIP(), c.Request.UserAgent()) {
		logger.Warn("用户管理操作日志记录失败",
			zap.Uint("operator_id", operatorID),
			zap.String("operation_type", operationType))
	}
}
