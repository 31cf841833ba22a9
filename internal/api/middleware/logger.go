package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/myysophia/toolbox-backend/internal/logger"
	"go.uber.org/zap"
)

// LoggerMiddleware 日志中间件
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 开始时间
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery
		method := c.Request.Method
		ip := c.ClientIP()
		userAgent := c.Request.UserAgent()

		// 处理请求
		c.Next()

		// 结束时间
		end := time.Now()
		latency := end.Sub(start)
		status := c.Writer.Status()

		// 获取用户信息
		userID, exists := c.Get("userID")
		username, _ := c.Get("username")
		requestID, _ := c.Get("requestID")

		// 日志记录字段
		fields := []zap.Field{
			zap.String("method", method),
			zap.String("path", path),
			zap.String("query", query),
			zap.String("ip", ip),
			zap.String("user-agent", userAgent),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.Any("request_id", requestID),
		}

		// 添加用户信息
		if exists {
			fields = append(fields, zap.Any("user_id", userID))
			fields = append(fields, zap.Any("username", username))
		}

		// 记录错误信息
		if len(c.Errors) > 0 {
			for _, e := range c.Errors {
				fields = append(fields, zap.String("error", e.Error()))
			}
			logger.Error("请求处理失败", fields...)
			return
		}

		// 根据状态码决定日志级别
		if status >= 500 {
			logger.Error("服务器错误", fields...)
		} else if status >= 400 {
			logger.Warn("客户端错误", fields...)
		} else {
			logger.Info("请求处理成功", fields...)
		}
	}
}
