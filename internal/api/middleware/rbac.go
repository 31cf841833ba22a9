package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/myysophia/toolbox-backend/internal/db/models"
	"github.com/myysophia/toolbox-backend/internal/utils"
)

// RoleMiddleware 角色检查中间件
// 角色来自令牌声明，不再回查数据库
func RoleMiddleware(requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			utils.ResponseError(c, utils.CodeUnauthorized, errors.New("未登录"))
			c.Abort()
			return
		}

		if len(requiredRoles) > 0 {
			roleStr, _ := role.(string)
			matched := false
			for _, required := range requiredRoles {
				if roleStr == required {
					matched = true
					break
				}
			}
			if !matched {
				utils.ResponseError(c, utils.CodeForbidden, errors.New("没有权限执行此操作"))
				c.Abort()
				return
			}
		}

		c.Next()
	}
}

// AdminMiddleware 管理员检查中间件
func AdminMiddleware() gin.HandlerFunc {
	return RoleMiddleware(models.RoleAdmin)
}
