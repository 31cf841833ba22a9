package api

import (
	"github.com/gin-gonic/gin"
	"github.com/myysophia/toolbox-backend/internal/api/handlers"
	"github.com/myysophia/toolbox-backend/internal/api/middleware"
	"github.com/myysophia/toolbox-backend/internal/audit"
	"gorm.io/gorm"
)

// SetupRouter 设置路由
func SetupRouter(db *gorm.DB, auditSvc *audit.Service) *gin.Engine {
	// 创建Gin实例
	router := gin.New()

	// 全局中间件
	router.Use(
		gin.Recovery(),                    // 内置恢复中间件
		middleware.RecoveryMiddleware(),   // 自定义恢复中间件
		middleware.RequestIDMiddleware(),  // 请求ID中间件
		middleware.LoggerMiddleware(),     // 日志中间件
		middleware.CorsMiddleware(),       // 跨域中间件
	)

	// 创建处理器
	authHandler := handlers.NewAuthHandler(db, auditSvc)
	userHandler := handlers.NewUserHandler(db, auditSvc)
	serviceHandler := handlers.NewServiceHandler(db, auditSvc)
	operationLogHandler := handlers.NewOperationLogHandler(auditSvc)

	// 公开路由
	public := router.Group("/api/v1")
	{
		public.POST("/auth/login", authHandler.Login)
		public.POST("/auth/register", authHandler.Register)
	}

	// 需要认证的路由
	authorized := router.Group("/api/v1")
	authorized.Use(
		middleware.AuthMiddleware(), // 认证中间件
	)
	{
		// 当前用户
		authorized.GET("/user/current", authHandler.GetCurrentUser)
		authorized.PUT("/user/password", authHandler.UpdatePassword)

		// 目录读取，登录用户均可访问
		authorized.GET("/services", serviceHandler.List)
		authorized.GET("/services/:code", serviceHandler.Get)
		authorized.POST("/services/:code/visit", serviceHandler.Visit)

		// 操作日志读取，登录用户均可访问
		logs := authorized.Group("/operation-logs")
		{
			logs.GET("", operationLogHandler.List)
			logs.GET("/recent", operationLogHandler.Recent)
			logs.GET("/stats", operationLogHandler.Stats)
		}

		// 用户列表，登录用户均可访问
		authorized.GET("/users", userHandler.List)

		// 管理员路由
		admin := authorized.Group("")
		admin.Use(middleware.AdminMiddleware()) // 管理员权限中间件
		{
			// 用户管理
			admin.POST("/users", userHandler.Create)
			admin.GET("/users/:id", userHandler.Get)
			admin.PUT("/users/:id", userHandler.Update)
			admin.PUT("/users/:id/password", userHandler.ResetPassword)
			admin.DELETE("/users/:id", userHandler.Delete)

			// 目录管理
			admin.POST("/services", serviceHandler.Create)
			admin.PUT("/services/sort", serviceHandler.Reorder)
			admin.PUT("/services/:code", serviceHandler.Update)
			admin.DELETE("/services/:code", serviceHandler.Delete)

			// 过期日志清理
			admin.DELETE("/operation-logs", operationLogHandler.Sweep)
		}
	}

	return router
}
