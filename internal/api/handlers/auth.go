package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/myysophia/toolbox-backend/internal/audit"
	"github.com/myysophia/toolbox-backend/internal/auth"
	"github.com/myysophia/toolbox-backend/internal/config"
	"github.com/myysophia/toolbox-backend/internal/db/models"
	"gorm.io/gorm"
)

// AuthHandler 认证处理器
type AuthHandler struct {
	*BaseHandler
	db       *gorm.DB
	auditSvc *audit.Service
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(db *gorm.DB, auditSvc *audit.Service) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(),
		db:          db,
		auditSvc:    auditSvc,
	}
}

// Login 用户登录
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "参数错误")
		return
	}

	var user models.User
	if err := h.db.Where("username = ?", req.Username).First(&user).Error; err != nil {
		h.Unauthorized(c, "用户名或密码错误")
		return
	}

	if !user.CheckPassword(req.Password) {
		h.Unauthorized(c, "用户名或密码错误")
		return
	}

	if !user.IsActive {
		h.Forbidden(c, "账号已被禁用")
		return
	}

	// 生成 JWT token
	jwtConfig := config.GetConfig().JWT
	token, err := auth.GenerateToken(&user, &jwtConfig)
	if err != nil {
		h.InternalError(c, "生成令牌失败")
		return
	}

	// 登录作为一次访问操作记入日志
	h.auditSvc.Record(user.ID, models.OperationAccess, "",
		map[string]interface{}{"action": "login"},
		c.ClientIP(), c.Request.UserAgent())

	h.Success(c, gin.H{
		"token": token,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"nickname": user.Nickname,
			"role":     user.Role,
		},
	})
}

// Register 用户注册
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required,min=3,max=32"`
		Password string `json:"password" binding:"required,min=6,max=32"`
		Nickname string `json:"nickname" binding:"max=100"`
		Email    string `json:"email" binding:"omitempty,email"`
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

	// 创建用户
	user := models.User{
		Username: req.Username,
		Nickname: req.Nickname,
		Email:    req.Email,
		Role:     models.RoleUser,
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

	h.Success(c, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"nickname": user.Nickname,
		"email":    user.Email,
	})
}

// GetCurrentUser 获取当前用户信息
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		h.Unauthorized(c, "未登录")
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		h.NotFound(c, "用户不存在")
		return
	}

	h.Success(c, gin.H{
		"id":        user.ID,
		"username":  user.Username,
		"nickname":  user.Nickname,
		"email":     user.Email,
		"role":      user.Role,
		"is_active": user.IsActive,
	})
}

// UpdatePassword 更新密码
func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	var req struct {
		OldPassword string `json:"old_password" binding:"required"`
		NewPassword string `json:"new_password" binding:"required,min=6,max=32"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "参数错误")
		return
	}

	userID, ok := h.CurrentUserID(c)
	if !ok {
		h.Unauthorized(c, "未登录")
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		h.NotFound(c, "用户不存在")
		return
	}

	if !user.CheckPassword(req.OldPassword) {
		h.BadRequest(c, "原密码错误")
		return
	}

	if err := user.SetPassword(req.NewPassword); err != nil {
		h.InternalError(c, "密码加密失败")
		return
	}

	if err := h.db.Model(&user).Update("password", user.Password).Error; err != nil {
		h.InternalError(c, "更新密码失败")
		return
	}

	h.auditSvc.Record(userID, models.OperationUpdate, "",
		map[string]interface{}{"action": "change_password"},
		c.ClientIP(), c.Request.UserAgent())

	h.Success(c, nil)
}
