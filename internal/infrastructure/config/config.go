package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config 全局配置结构
// 设计说明：使用Viper管理配置，支持YAML文件、环境变量覆盖，没有配置文件时使用默认值
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Log     LogConfig     `mapstructure:"log"`
	Tracing TracingConfig `mapstructure:"tracing"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Seed    SeedConfig    `mapstructure:"seed"`
}

type AppConfig struct {
	Name string `mapstructure:"name" validate:"required,notblank"`
	Env  string `mapstructure:"env" validate:"oneof=dev test prod"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
	Output string `mapstructure:"output" validate:"required"` // stdout | stderr | /path/to/file
}

// TracingConfig 链路追踪配置
// Endpoint为空时只在进程内记录span，不导出
type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	ServiceName string  `mapstructure:"service_name" validate:"required_if=Enabled true"`
	Endpoint    string  `mapstructure:"endpoint"` // OTLP gRPC，如 localhost:4317
	SampleRatio float64 `mapstructure:"sample_ratio" validate:"gte=0,lte=1"`
}

type MetricsConfig struct {
	Namespace string `mapstructure:"namespace" validate:"required,notblank"`
}

// SeedConfig 启动时导入的目录、会员和借阅
// 按books → members → loans的顺序导入
type SeedConfig struct {
	Books   []SeedBook   `mapstructure:"books" validate:"dive"`
	Members []SeedMember `mapstructure:"members" validate:"dive"`
	Loans   []SeedLoan   `mapstructure:"loans" validate:"dive"`
}

type SeedBook struct {
	ID     string `mapstructure:"id" validate:"required,notblank"`
	Title  string `mapstructure:"title" validate:"required,notblank"`
	Author string `mapstructure:"author" validate:"required,notblank"`
	Year   int    `mapstructure:"year" validate:"gt=0"`
}

type SeedMember struct {
	ID   string `mapstructure:"id" validate:"required,notblank"`
	Name string `mapstructure:"name" validate:"required,notblank"`
}

type SeedLoan struct {
	BookID   string `mapstructure:"book_id" validate:"required,notblank"`
	MemberID string `mapstructure:"member_id" validate:"required,notblank"`
}

// Load 加载配置
// 支持：
// 1. 默认加载config/config.yaml（或当前目录的config.yaml），文件不存在时使用默认值
// 2. 环境变量覆盖（如LIBRARY_LOG_LEVEL → log.level）
func Load() (*Config, error) {
	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	return decode(v)
}

// LoadFile 从指定文件加载配置，文件必须存在
func LoadFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	// 环境变量绑定（LIBRARY_TRACING_SAMPLE_RATIO → tracing.sample_ratio）
	v.SetEnvPrefix("LIBRARY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "library")
	v.SetDefault("app.env", "dev")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", "library")
	v.SetDefault("tracing.endpoint", "")
	v.SetDefault("tracing.sample_ratio", 1.0)

	v.SetDefault("metrics.namespace", "library")
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
