package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/myysophia/toolbox-backend/internal/api"
	"github.com/myysophia/toolbox-backend/internal/audit"
	"github.com/myysophia/toolbox-backend/internal/config"
	"github.com/myysophia/toolbox-backend/internal/db"
	"github.com/myysophia/toolbox-backend/internal/logger"
	"github.com/myysophia/toolbox-backend/internal/utils"
	"go.uber.org/zap"
)

func main() {
	// 加载配置
	cfg, err := config.LoadConfig("configs", os.Getenv("APP_ENV"))
	if err != nil {
		panic(fmt.Sprintf("加载配置失败: %v", err))
	}

	// 初始化日志系统
	if err := logger.Init(&cfg.Log); err != nil {
		panic(fmt.Sprintf("初始化日志系统失败: %v", err))
	}
	defer logger.Sync()

	logger.Info("工具箱后端服务启动中...")
	logger.Info("配置加载成功", zap.String("env", cfg.App.Env))

	// 初始化验证器
	utils.InitValidator()

	// 初始化数据库
	database, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatal("初始化数据库失败", zap.Error(err))
	}

	// 创建操作日志服务并启动定时清理
	auditSvc := audit.NewService(database, cfg.Audit.GetRetention())
	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	auditSvc.StartSweeper(sweepCtx, cfg.Audit.GetSweepInterval())
	logger.Info("操作日志服务初始化成功",
		zap.Int("retention_days", cfg.Audit.RetentionDays),
		zap.Int("sweep_interval", cfg.Audit.SweepInterval))

	// 设置路由
	router := api.SetupRouter(database, auditSvc)

	// 创建HTTP服务器
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.App.Host, cfg.App.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.App.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.App.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.App.IdleTimeout) * time.Second,
	}

	// 优雅关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// 启动HTTP服务器
	go func() {
		logger.Info("HTTP服务器启动成功", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP服务器启动失败", zap.Error(err))
		}
	}()

	// 等待退出信号
	<-quit
	logger.Info("正在关闭服务器...")

	// 停止定时清理任务
	stopSweeper()

	// 设置关闭超时时间
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 关闭HTTP服务器
	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("服务器关闭异常", zap.Error(err))
	}

	// 关闭数据库连接
	if err := db.Close(); err != nil {
		logger.Error("关闭数据库连接失败", zap.Error(err))
	}

	logger.Info("服务器已安全关闭")
}
