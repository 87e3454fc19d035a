package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/viper"
)

// Config 全局配置结构
// 使用Viper管理配置,支持YAML文件与环境变量覆盖。
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Log      LogConfig      `mapstructure:"log"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Rental   RentalConfig   `mapstructure:"rental"`
	MQ       MQConfig       `mapstructure:"mq"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"` // debug | release | test
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	Charset         string        `mapstructure:"charset"`
	ParseTime       bool          `mapstructure:"parse_time"`
	Loc             string        `mapstructure:"loc"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	TxTimeout       time.Duration `mapstructure:"tx_timeout"` // 借阅单事务超时,默认10s
}

// DSN 生成MySQL连接字符串
// loc参数需要URL编码(Asia/Colombo → Asia%2FColombo)。
func (d DatabaseConfig) DSN() string {
	loc := url.QueryEscape(d.Loc)
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.Charset, d.ParseTime, loc)
}

type RedisConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Addr 返回Redis地址
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type JWTConfig struct {
	Secret             string        `mapstructure:"secret"`
	AccessTokenExpire  time.Duration `mapstructure:"access_token_expire"`
	RefreshTokenExpire time.Duration `mapstructure:"refresh_token_expire"`
}

type LogConfig struct {
	Level        string `mapstructure:"level"`  // debug | info | warn | error
	Format       string `mapstructure:"format"` // console | json
	Output       string `mapstructure:"output"` // stdout | stderr | /path/to/file
	EnableCaller bool   `mapstructure:"enable_caller"`
}

type CacheConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	DetailTTL time.Duration `mapstructure:"detail_ttl"` // 详情缓存,默认600s
	ListTTL   time.Duration `mapstructure:"list_ttl"`   // 列表缓存,默认300s
	KeyPrefix string        `mapstructure:"key_prefix"`
}

// RentalConfig 租金费率配置
// 金额单位为分,默认前14天5000分,之后每周3000分。
type RentalConfig struct {
	BaseFee    int64 `mapstructure:"base_fee"`
	WeeklyFee  int64 `mapstructure:"weekly_fee"`
	BaseDays   int   `mapstructure:"base_days"`
	WeekDays   int   `mapstructure:"week_days"`
	ReturnDays int   `mapstructure:"return_days"` // 默认应还期限
}

type MQConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	URL      string `mapstructure:"url"`
	Exchange string `mapstructure:"exchange"`
}

// Load 加载配置文件
// 支持:
// 1. 默认加载config/config.yaml
// 2. 环境变量覆盖(如BOOKSHOP_DATABASE_PASSWORD → database.password)
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	v.SetEnvPrefix("BOOKSHOP")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyDefaults 补齐缺省值
func applyDefaults(cfg *Config) {
	if cfg.Database.TxTimeout <= 0 {
		cfg.Database.TxTimeout = 10 * time.Second
	}
	if cfg.Cache.DetailTTL <= 0 {
		cfg.Cache.DetailTTL = 600 * time.Second
	}
	if cfg.Cache.ListTTL <= 0 {
		cfg.Cache.ListTTL = 300 * time.Second
	}
	if cfg.Cache.KeyPrefix == "" {
		cfg.Cache.KeyPrefix = "bookshop"
	}
	if cfg.Rental.BaseFee <= 0 {
		cfg.Rental.BaseFee = 5000
	}
	if cfg.Rental.WeeklyFee <= 0 {
		cfg.Rental.WeeklyFee = 3000
	}
	if cfg.Rental.BaseDays <= 0 {
		cfg.Rental.BaseDays = 14
	}
	if cfg.Rental.WeekDays <= 0 {
		cfg.Rental.WeekDays = 7
	}
	if cfg.Rental.ReturnDays <= 0 {
		cfg.Rental.ReturnDays = 14
	}
	if cfg.MQ.Exchange == "" {
		cfg.MQ.Exchange = "bookshop.events"
	}
}

// validate 配置校验
func validate(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("无效的服务端口: %d", cfg.Server.Port)
	}

	if cfg.JWT.Secret == "your-secret-key-change-in-production" && cfg.Server.Mode == "release" {
		return fmt.Errorf("生产环境必须修改JWT密钥")
	}

	if cfg.MQ.Enabled && cfg.MQ.URL == "" {
		return fmt.Errorf("启用消息队列时必须配置mq.url")
	}

	return nil
}
