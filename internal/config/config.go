package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	App      AppConfig      `json:"app"`
	MySQL    MySQLConfig    `json:"mysql"`
	Redis    RedisConfig    `json:"redis"`
	Email    EmailConfig    `json:"email"`
	Security SecurityConfig `json:"security"`
}

// AppConfig carries the base application settings.
type AppConfig struct {
	Env            string  `json:"env"`              // local / prod
	LogLevel       string  `json:"log_level"`        // debug / info / warn / error
	HTTPAddr       string  `json:"http_addr"`        // API listen address
	LoginRateLimit float64 `json:"login_rate_limit"` // login attempts refilled per second, <0 disables throttling
	LoginRateBurst float64 `json:"login_rate_burst"` // login attempt burst capacity
}

// MySQLConfig holds the database settings.
type MySQLConfig struct {
	DSN string `json:"dsn"` // database connection string
}

// RedisConfig holds the redis settings.
type RedisConfig struct {
	Addr     string `json:"addr"` // host:port
	Password string `json:"password"`
}

// EmailConfig holds the SMTP settings for review notifications. Leaving
// SMTPHost empty disables mail.
type EmailConfig struct {
	SMTPHost  string `json:"smtp_host"`
	SMTPPort  int    `json:"smtp_port"`
	SMTPUser  string `json:"smtp_user"`
	SMTPPass  string `json:"smtp_pass"`
	FromEmail string `json:"from_email"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	AuthSecret string `json:"auth_secret"` // JWT signing key, required
}

// Load reads configuration from a JSON file, applies defaults for unset
// fields and lets environment variables override everything. A missing file
// is not an error; defaults plus environment are used instead.
func Load(configPath ...string) (*Config, error) {
	path := "configs/config.json"
	if len(configPath) > 0 && configPath[0] != "" {
		path = configPath[0]
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := getDefaultConfig()
		applyEnvOverrides(cfg)
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	applyDefaults(cfg)
	applyEnvOverrides(cfg)

	return cfg, nil
}

func getDefaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.App.Env == "" {
		cfg.App.Env = "local"
	}
	if cfg.App.LogLevel == "" {
		cfg.App.LogLevel = "info"
	}
	if cfg.App.HTTPAddr == "" {
		cfg.App.HTTPAddr = ":8080"
	}
	if cfg.App.LoginRateLimit == 0 {
		cfg.App.LoginRateLimit = 0.2 // one attempt every 5s once the burst is used
	}
	if cfg.App.LoginRateBurst == 0 {
		cfg.App.LoginRateBurst = 5
	}
	if cfg.MySQL.DSN == "" {
		cfg.MySQL.DSN = "berichtsheft:berichtsheft@tcp(127.0.0.1:3306)/berichtsheft?charset=utf8mb4&parseTime=True&loc=Local"
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "127.0.0.1:6379"
	}
	if cfg.Email.SMTPPort == 0 {
		cfg.Email.SMTPPort = 587
	}
}

// applyEnvOverrides lets deploy environments override secrets and addresses
// without touching the config file.
func applyEnvOverrides(cfg *Config) {
	viper.AutomaticEnv()

	_ = viper.BindEnv("db_dsn", "DB_DSN")
	_ = viper.BindEnv("redis_addr", "REDIS_ADDR")
	_ = viper.BindEnv("redis_password", "REDIS_PASSWORD")
	_ = viper.BindEnv("auth_secret", "AUTH_SECRET")
	_ = viper.BindEnv("smtp_pass", "SMTP_PASS")
	_ = viper.BindEnv("http_addr", "HTTP_ADDR")
	_ = viper.BindEnv("app_env", "APP_ENV")
	_ = viper.BindEnv("log_level", "LOG_LEVEL")

	if v := viper.GetString("db_dsn"); v != "" {
		cfg.MySQL.DSN = v
	}
	if v := viper.GetString("redis_addr"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := viper.GetString("redis_password"); v != "" {
		cfg.Redis.Password = v
	}
	if v := viper.GetString("auth_secret"); v != "" {
		cfg.Security.AuthSecret = v
	}
	if v := viper.GetString("smtp_pass"); v != "" {
		cfg.Email.SMTPPass = v
	}
	if v := viper.GetString("http_addr"); v != "" {
		cfg.App.HTTPAddr = v
	}
	if v := viper.GetString("app_env"); v != "" {
		cfg.App.Env = v
	}
	if v := viper.GetString("log_level"); v != "" {
		cfg.App.LogLevel = v
	}
}

// Production reports whether the app runs in a production environment; it
// controls the Secure flag on the auth cookie.
func (c *Config) Production() bool {
	return c.App.Env == "prod" || c.App.Env == "production"
}
