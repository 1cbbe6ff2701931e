package config

import (
	"fmt"
	"time"
)

type (
	// APIServerConfig represents the full apiserver configuration
	APIServerConfig struct {
		Server    ServerConfig    `yaml:"server"`
		Database  DatabaseConfig  `yaml:"database"`
		JWT       JWTConfig       `yaml:"jwt"`
		RateLimit RateLimitConfig `yaml:"rate_limit"`
		SMTP      SMTPConfig      `yaml:"smtp"`
		Logger    LoggerConfig    `yaml:"logger"`
		I18n      I18nConfig      `yaml:"i18n"`
	}

	ServerConfig struct {
		Port    int    `yaml:"port"`
		BaseURL string `yaml:"base_url"` // externally visible URL, used in email links
	}

	DatabaseConfig struct {
		Type     string `yaml:"type"`     // mysql, postgres, sqlite
		Host     string `yaml:"host"`     // localhost
		Port     int    `yaml:"port"`     // 3306 (for mysql), 5432 (for postgres)
		User     string `yaml:"user"`     // root (for mysql), postgres (for postgres)
		Password string `yaml:"password"` // password
		DBName   string `yaml:"dbname"`   // database name, or file path for sqlite
		SSLMode  string `yaml:"sslmode"`  // disable (for postgres)
	}

	JWTConfig struct {
		SecretKey       string        `yaml:"secret_key"`
		AccessDuration  time.Duration `yaml:"access_duration"`
		RefreshDuration time.Duration `yaml:"refresh_duration"`
	}

	// RateLimitConfig throttles authentication endpoints per IP+identity
	// over a rolling window.
	RateLimitConfig struct {
		Type        string        `yaml:"type"` // memory or redis
		Window      time.Duration `yaml:"window"`
		MaxAttempts int64         `yaml:"max_attempts"`
		Redis       RedisConfig   `yaml:"redis"`
	}

	RedisConfig struct {
		Addr     string `yaml:"addr"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Prefix   string `yaml:"prefix"`
	}

	SMTPConfig struct {
		Host     string `yaml:"host"` // empty disables delivery, mails are logged instead
		Port     int    `yaml:"port"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		From     string `yaml:"from"`
	}

	// I18nConfig represents the internationalization configuration
	I18nConfig struct {
		Path string `yaml:"path"` // Path to i18n translation files
	}
)

func (c *APIServerConfig) setDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 5080
	}
	if c.JWT.AccessDuration <= 0 {
		c.JWT.AccessDuration = 2 * time.Hour
	}
	if c.JWT.RefreshDuration <= 0 {
		c.JWT.RefreshDuration = 30 * 24 * time.Hour
	}
	if c.RateLimit.Type == "" {
		c.RateLimit.Type = "memory"
	}
	if c.RateLimit.Window <= 0 {
		c.RateLimit.Window = 15 * time.Minute
	}
	if c.RateLimit.MaxAttempts <= 0 {
		c.RateLimit.MaxAttempts = 5
	}
}

// GetDSN returns the database connection string
func (c *DatabaseConfig) GetDSN() string {
	switch c.Type {
	case "postgres":
		return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
			c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			c.User, c.Password, c.Host, c.Port, c.DBName)
	case "sqlite":
		return c.DBName // For SQLite, DBName is the file path
	default:
		return ""
	}
}
