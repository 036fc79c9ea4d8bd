package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Режимы хранения ссылок.
const (
	ModeDatabase = "database"
	ModeRedis    = "redis"
	ModeFile     = "file"
	ModeMemory   = "in-memory"
)

// Config хранит конфигурацию сервера
type Config struct {
	ServerAddress     string        `json:"server_address"`
	DatabaseDSN       string        `json:"database_dsn"`
	RedisURL          string        `json:"redis_url"`
	FileStoragePath   string        `json:"file_storage_path"`
	PgMigrationsPath  string        `json:"pg_migrations_path"`
	FallbackURL       string        `json:"fallback_url"`
	TrustedSubnet     string        `json:"trusted_subnet"`
	TLSCertPath       string        `json:"tls_cert_path"`
	TLSKeyPath        string        `json:"tls_key_path"`
	LogLevel          string        `json:"log_level"`
	Mode              string        `json:"-"`
	AccountingTimeout time.Duration `json:"accounting_timeout"`
	ShutdownTimeout   time.Duration `json:"shutdown_timeout"`
	EnableHTTPS       bool          `json:"enable_https"`
}

// flagKeys связывает имена флагов с ключами viper.
var flagKeys = map[string]string{
	"a":        "server_address",
	"d":        "database_dsn",
	"r":        "redis_url",
	"f":        "file_storage_path",
	"m":        "pg_migrations_path",
	"fallback": "fallback_url",
	"t":        "trusted_subnet",
	"timeout":  "accounting_timeout",
	"s":        "enable_https",
	"cert":     "tls_cert_path",
	"key":      "tls_key_path",
	"l":        "log_level",
}

// NewConfig собирает конфигурацию. Приоритет: флаги, переменные окружения,
// JSON-файл (-c/-config или CONFIG), .env, значения по умолчанию.
func NewConfig(args []string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server_address", "localhost:8080") // Значения по умолчанию
	v.SetDefault("database_dsn", "")
	v.SetDefault("redis_url", "")
	v.SetDefault("file_storage_path", "links.json")
	v.SetDefault("pg_migrations_path", "internal/migrations")
	v.SetDefault("fallback_url", "/")
	v.SetDefault("trusted_subnet", "")
	v.SetDefault("accounting_timeout", 2*time.Second)
	v.SetDefault("shutdown_timeout", 10*time.Second)
	v.SetDefault("enable_https", false)
	v.SetDefault("tls_cert_path", "cert.pem")
	v.SetDefault("tls_key_path", "key.pem")
	v.SetDefault("log_level", "info")

	v.AutomaticEnv()

	fs := flag.NewFlagSet("redirector", flag.ContinueOnError)
	values := make(map[string]*string, len(flagKeys))
	for name, key := range flagKeys {
		if name == "s" {
			continue
		}
		values[name] = fs.String(name, "", key)
	}
	enableHTTPS := fs.Bool("s", false, "enable HTTPS")
	configPath := fs.String("c", "", "path to JSON config file")
	fs.StringVar(configPath, "config", "", "path to JSON config file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Читаем .env, если есть
	if _, err := os.Stat(".env"); err == nil {
		v.SetConfigFile(".env")
		v.SetConfigType("env")
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("read .env: %w", err)
		}
	}

	// Загружаем JSON-конфигурацию (если указана)
	if *configPath == "" {
		*configPath = os.Getenv("CONFIG")
	}
	if *configPath != "" {
		v.SetConfigFile(*configPath)
		v.SetConfigType("json")
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("read config %q: %w", *configPath, err)
		}
	}

	// Флаги, переданные явно, имеют высший приоритет
	fs.Visit(func(f *flag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok {
			return
		}
		if f.Name == "s" {
			v.Set(key, *enableHTTPS)
			return
		}
		v.Set(key, *values[f.Name])
	})

	cfg := &Config{
		ServerAddress:     v.GetString("server_address"),
		DatabaseDSN:       v.GetString("database_dsn"),
		RedisURL:          v.GetString("redis_url"),
		FileStoragePath:   v.GetString("file_storage_path"),
		PgMigrationsPath:  v.GetString("pg_migrations_path"),
		FallbackURL:       v.GetString("fallback_url"),
		TrustedSubnet:     v.GetString("trusted_subnet"),
		TLSCertPath:       v.GetString("tls_cert_path"),
		TLSKeyPath:        v.GetString("tls_key_path"),
		LogLevel:          v.GetString("log_level"),
		AccountingTimeout: v.GetDuration("accounting_timeout"),
		ShutdownTimeout:   v.GetDuration("shutdown_timeout"),
		EnableHTTPS:       v.GetBool("enable_https"),
	}

	// Определяем режим работы
	switch {
	case cfg.DatabaseDSN != "":
		cfg.Mode = ModeDatabase
	case cfg.RedisURL != "":
		cfg.Mode = ModeRedis
	case cfg.FileStoragePath != "":
		cfg.Mode = ModeFile
	default:
		cfg.Mode = ModeMemory
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет корректность конфигурации
func (cfg *Config) Validate() error {
	if cfg.ServerAddress == "" {
		return errors.New("server address must not be empty")
	}
	if cfg.FallbackURL == "" {
		return errors.New("fallback URL must not be empty")
	}
	if cfg.AccountingTimeout <= 0 {
		return fmt.Errorf("accounting timeout must be positive, got %s", cfg.AccountingTimeout)
	}
	if cfg.TrustedSubnet != "" {
		if _, _, err := net.ParseCIDR(cfg.TrustedSubnet); err != nil {
			return fmt.Errorf("trusted subnet: %w", err)
		}
	}
	if cfg.EnableHTTPS && (cfg.TLSCertPath == "" || cfg.TLSKeyPath == "") {
		return errors.New("TLS certificate and key paths are required with HTTPS")
	}
	return nil
}
