package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Поддерживаемые хранилища гаража
const (
	StorageMemory = "memory"
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
)

// Config содержит конфигурацию сервера и CLI
type Config struct {
	Port              int
	MaxPrice          float64
	MaxMonths         int
	MaxAPRPercent     float64
	MaxMileage        float64
	BreakEvenBand     float64
	BalloonVariance   float64
	ResidualTablePath string
	StorageBackend    string
	SQLitePath        string
	RedisAddr         string
	OTELEndpoint      string
	OTELServiceName   string
	LogLevel          string
	LogFormat         string
}

// SetDefaults регистрирует значения по умолчанию в экземпляре viper
func SetDefaults(v *viper.Viper) {
	v.SetDefault("port", 8000)
	v.SetDefault("max_price", 1e7)
	v.SetDefault("max_months", 120)
	v.SetDefault("max_apr_percent", 100.0)
	v.SetDefault("max_mileage", 1e6)
	v.SetDefault("break_even_band", 200.0)
	v.SetDefault("balloon_variance", 0.05)
	v.SetDefault("residual_table_path", "")
	v.SetDefault("storage_backend", StorageMemory)
	v.SetDefault("sqlite_path", "equity.db")
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("otel_endpoint", "")
	v.SetDefault("otel_service_name", "vehicle-equity")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
}

// NewViper создает экземпляр viper со значениями по умолчанию, переменными окружения
// и необязательным YAML-файлом configFile. Переменные окружения важнее файла.
func NewViper(configFile string) (*viper.Viper, error) {
	// Загружаем .env файл, если он существует (игнорируем ошибку)
	_ = godotenv.Load()

	v := viper.New()
	SetDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", configFile, err)
		}
	}
	return v, nil
}

// LoadConfig загружает конфигурацию: .env (если есть), переменные окружения
// и необязательный YAML-файл configFile
func LoadConfig(configFile string) (*Config, error) {
	v, err := NewViper(configFile)
	if err != nil {
		return nil, err
	}
	return FromViper(v)
}

// FromViper собирает Config из уже настроенного экземпляра viper
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:              v.GetInt("port"),
		MaxPrice:          v.GetFloat64("max_price"),
		MaxMonths:         v.GetInt("max_months"),
		MaxAPRPercent:     v.GetFloat64("max_apr_percent"),
		MaxMileage:        v.GetFloat64("max_mileage"),
		BreakEvenBand:     v.GetFloat64("break_even_band"),
		BalloonVariance:   v.GetFloat64("balloon_variance"),
		ResidualTablePath: v.GetString("residual_table_path"),
		StorageBackend:    strings.ToLower(v.GetString("storage_backend")),
		SQLitePath:        v.GetString("sqlite_path"),
		RedisAddr:         v.GetString("redis_addr"),
		OTELEndpoint:      v.GetString("otel_endpoint"),
		OTELServiceName:   v.GetString("otel_service_name"),
		LogLevel:          v.GetString("log_level"),
		LogFormat:         v.GetString("log_format"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	var errs []error

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.MaxPrice <= 0 {
		errs = append(errs, errors.New("max_price must be positive"))
	}
	if c.MaxMonths <= 0 {
		errs = append(errs, errors.New("max_months must be positive"))
	}
	if c.MaxAPRPercent < 0 {
		errs = append(errs, errors.New("max_apr_percent must not be negative"))
	}
	if c.BreakEvenBand < 0 {
		errs = append(errs, errors.New("break_even_band must not be negative"))
	}
	if c.BalloonVariance < 0 || c.BalloonVariance >= 1 {
		errs = append(errs, errors.New("balloon_variance must be in [0; 1)"))
	}

	switch c.StorageBackend {
	case StorageMemory:
	case StorageSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("sqlite_path is required for sqlite storage"))
		}
	case StorageRedis:
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("redis_addr is required for redis storage"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage backend %q", c.StorageBackend))
	}

	return errors.Join(errs...)
}
