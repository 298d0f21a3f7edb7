// Package config loads the application configuration from file and
// environment.
package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"

	sharedconfig "github.com/praxisops/praxis/internal/shared/config"
)

type Config struct {
	Server       sharedconfig.ServerConfig       `mapstructure:"server"`
	Database     sharedconfig.DatabaseConfig     `mapstructure:"database"`
	Logger       sharedconfig.LoggerConfig       `mapstructure:"logger"`
	Redis        sharedconfig.RedisConfig        `mapstructure:"redis"`
	Auth         sharedconfig.AuthConfig         `mapstructure:"auth"`
	Email        sharedconfig.EmailConfig        `mapstructure:"email"`
	SMS          sharedconfig.SMSConfig          `mapstructure:"sms"`
	Tickets      sharedconfig.TicketsConfig      `mapstructure:"tickets"`
	Notification sharedconfig.NotificationConfig `mapstructure:"notification"`
	RateLimit    sharedconfig.RateLimitConfig    `mapstructure:"rate_limit"`
	MCP          sharedconfig.MCPConfig          `mapstructure:"mcp"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load reads configs/config.yaml plus PRAXIS_* environment overrides.
func Load(env string) (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../configs")
	viper.AddConfigPath("../../configs")

	viper.SetEnvPrefix("PRAXIS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// A missing file is fine: defaults plus environment cover everything.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if env != "" && env != "default" {
		viper.Set("server.mode", env)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration.
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	viper.SetDefault("database.driver", "mysql")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 3306)
	viper.SetDefault("database.username", "root")
	viper.SetDefault("database.password", "password")
	viper.SetDefault("database.database", "praxis_dev")
	viper.SetDefault("database.max_idle_conns", 10)
	viper.SetDefault("database.max_open_conns", 100)
	viper.SetDefault("database.conn_max_lifetime", 60)

	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "console")
	viper.SetDefault("logger.output_path", "stdout")

	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	viper.SetDefault("auth.jwt_secret", "change-me-in-production")
	viper.SetDefault("auth.access_exp_minutes", 15)
	viper.SetDefault("auth.bcrypt_cost", 12)

	viper.SetDefault("email.host", "localhost")
	viper.SetDefault("email.port", 1025)
	viper.SetDefault("email.from_address", "noreply@praxis.local")
	viper.SetDefault("email.from_name", "Praxis")
	viper.SetDefault("email.base_url", "http://localhost:8080")

	viper.SetDefault("sms.provider", "log")

	viper.SetDefault("tickets.terminal_statuses", []string{"resolved", "closed"})

	viper.SetDefault("notification.dedup_window_seconds", 60)

	viper.SetDefault("rate_limit.requests", 120)
	viper.SetDefault("rate_limit.window_seconds", 60)
	viper.SetDefault("rate_limit.auth_requests", 10)
	viper.SetDefault("rate_limit.auth_window_seconds", 60)

	viper.SetDefault("mcp.bearer_digest", "")
	viper.SetDefault("mcp.allowed_tools", []string{})
	viper.SetDefault("mcp.allow_ticket_updates", false)
}
