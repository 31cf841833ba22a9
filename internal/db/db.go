package db

import (
	"fmt"

	"github.com/myysophia/toolbox-backend/internal/config"
	"github.com/myysophia/toolbox-backend/internal/db/models"
	"github.com/myysophia/toolbox-backend/internal/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

var db *gorm.DB

// Init 初始化数据库连接，返回连接实例供上层注入使用
func Init(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	var err error

	// 配置 GORM
	gormConfig := &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true, // 使用单数表名
		},
		// 禁用默认事务
		SkipDefaultTransaction: true,
	}

	// 连接数据库
	db, err = gorm.Open(postgres.Open(cfg.GetDSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 配置连接池
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取数据库实例失败: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.GetConnMaxLifetime())

	// 自动迁移数据库表
	if err := autoMigrate(); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	// 初始化基础数据
	if err := initBaseData(); err != nil {
		return nil, fmt.Errorf("初始化基础数据失败: %w", err)
	}

	logger.Info("数据库初始化成功")
	return db, nil
}

// GetDB 获取数据库连接
func GetDB() *gorm.DB {
	return db
}

// SetDB 替换数据库连接（测试用）
func SetDB(d *gorm.DB) {
	db = d
}

// Close 关闭数据库连接
func Close() error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// autoMigrate 自动迁移数据库表
func autoMigrate() error {
	return db.AutoMigrate(
		&models.User{},
		&models.PlatformService{},
		&models.OperationLog{},
	)
}

// initBaseData 初始化基础数据
func initBaseData() error {
	// 创建默认管理员用户
	adminUser := &models.User{
		Username: "admin",
		Nickname: "系统管理员",
		Role:     models.RoleAdmin,
		IsActive: true,
	}

	if err := adminUser.SetPassword("admin123"); err != nil {
		return err
	}

	if err := db.FirstOrCreate(adminUser, models.User{Username: "admin"}).Error; err != nil {
		return err
	}

	return nil
}
