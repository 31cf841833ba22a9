package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	JWT      JWTConfig
	Database DatabaseConfig
	Log      LogConfig
	Audit    AuditConfig
}

type AppConfig struct {
	Name         string
	Env          string
	Host         string
	Port         int
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
	IdleTimeout  int `mapstructure:"idle_timeout"`
}

type JWTConfig struct {
	SecretKey string `mapstructure:"secret_key"`
	ExpiresIn int    `mapstructure:"expires_in"`
	Issuer    string
}

type DatabaseConfig struct {
	Driver          string
	Host            string
	Port            int
	Username        string
	Password        string
	DBName          string `mapstructure:"dbname"`
	SSLMode         string `mapstructure:"sslmode"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

type LogConfig struct {
	Level    string
	Format   string
	Output   string
	FilePath string `mapstructure:"file_path"`
}

type AuditConfig struct {
	RetentionDays   int `mapstructure:"retention_days"`    // 操作日志保留天数
	SweepInterval   int `mapstructure:"sweep_interval"`    // 定时清理间隔（秒）
	DefaultPageSize int `mapstructure:"default_page_size"` // 日志查询默认每页数量
}

var globalConfig *Config

// LoadConfig 根据环境加载配置文件
// 支持传入目录（会自动寻找目录下的 app.yaml）或者特定配置文件路径
// env 参数可选："dev", "test", "prod"，默认为 "dev"
func LoadConfig(configPath string, env string) (*Config, error) {
	if env == "" {
		env = "dev" // 默认使用开发环境
	}

	v := viper.New()

	// 尝试多个可能的配置路径
	configPaths := []string{
		configPath,      // 原始传入路径
		"./configs",     // 相对于运行目录
		"../configs",    // 上一级目录
		"../../configs", // 上两级目录
	}

	configFound := false

	// 尝试查找配置文件
	for _, path := range configPaths {
		if isDir(path) {
			baseConfigFile := fmt.Sprintf("%s/app.yaml", path)
			if fileExists(baseConfigFile) {
				v.AddConfigPath(path)
				v.SetConfigName("app")
				configFound = true
				break
			}
		} else if fileExists(path) {
			v.SetConfigFile(path)
			configFound = true
			break
		}
	}

	if !configFound {
		return nil, fmt.Errorf("无法找到配置文件，已尝试路径: %v", configPaths)
	}

	v.AutomaticEnv()

	// 读取基本配置
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取基本配置文件失败: %w", err)
	}

	// 读取环境特定配置并合并
	if v.ConfigFileUsed() != "" {
		configDir := filepath.Dir(v.ConfigFileUsed())
		envConfigFile := fmt.Sprintf("%s/app.%s.yaml", configDir, env)

		if fileExists(envConfigFile) {
			envViper := viper.New()
			envViper.SetConfigFile(envConfigFile)

			if err := envViper.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("读取环境配置文件失败: %w", err)
			}

			if err := v.MergeConfigMap(envViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("合并环境配置失败: %w", err)
			}
		}
	}

	// 解析配置到结构体
	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 审计配置默认值
	if config.Audit.RetentionDays <= 0 {
		config.Audit.RetentionDays = 30
	}
	if config.Audit.SweepInterval <= 0 {
		config.Audit.SweepInterval = 3600
	}
	if config.Audit.DefaultPageSize <= 0 {
		config.Audit.DefaultPageSize = 50
	}

	globalConfig = config
	return config, nil
}

// 检查是否是目录
func isDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// 检查文件是否存在
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// GetConfig 获取全局配置
func GetConfig() *Config {
	return globalConfig
}

// SetConfig 设置全局配置（测试用）
func SetConfig(cfg *Config) {
	globalConfig = cfg
}

// GetDSN 获取数据库连接字符串
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.Username, c.Password, c.DBName, c.SSLMode)
}

// GetConnMaxLifetime 获取数据库连接最大生命周期
func (c *DatabaseConfig) GetConnMaxLifetime() time.Duration {
	return time.Duration(c.ConnMaxLifetime) * time.Second
}

// GetJWTExpiration 获取 JWT 过期时间
func (c *JWTConfig) GetJWTExpiration() time.Duration {
	return time.Duration(c.ExpiresIn) * time.Second
}

// GetRetention 获取操作日志保留时长
func (c *AuditConfig) GetRetention() time.Duration {
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}

// GetSweepInterval 获取定时清理间隔
func (c *AuditConfig) GetSweepInterval() time.Duration {
	return time.Duration(c.SweepInterval) * time.Second
}
