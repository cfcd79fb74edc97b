package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Minio    MinioConfig    `mapstructure:"minio"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Web      WebConfig      `mapstructure:"web"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug / release
}

type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

type MinioConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	// PublicURL 是浏览器可访问的对象存储地址，落库的图片 URL 以它为前缀
	PublicURL string `mapstructure:"public_url"`
}

type AuthConfig struct {
	// EnforceOwnership 开启后，修改类接口要求携带 Token 且只能操作本人资源
	// 原型阶段默认关闭
	EnforceOwnership bool `mapstructure:"enforce_ownership"`
}

type WebConfig struct {
	StaticDir string `mapstructure:"static_dir"`
}

// LoadConfig 读取配置文件
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config") // 配置文件名 (不带扩展名)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".") // 查找路径：根目录

	// 支持环境变量覆盖 (例如在 Docker 中设置 SNAPFEED_JWT_SECRET)
	viper.SetEnvPrefix("SNAPFEED")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	return &cfg, nil
}
