// Package config holds the configuration structs shared across layers.
// Loading and defaulting live in internal/infrastructure/config.
package config

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig holds relational store settings.
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// RedisConfig holds Redis connection settings for the rate limiter and
// notification dedup cache. Enabled=false keeps everything in-process.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig holds session and credential settings.
type AuthConfig struct {
	JWTSecret        string `mapstructure:"jwt_secret"`
	AccessExpMinutes int    `mapstructure:"access_exp_minutes"`
	BcryptCost       int    `mapstructure:"bcrypt_cost"`
	TOTPKey          string `mapstructure:"totp_key"`
	SessionSecret    string `mapstructure:"session_secret"`
}

// EmailConfig holds outbound SMTP settings.
type EmailConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
	BaseURL     string `mapstructure:"base_url"`
}

// SMSConfig holds outbound SMS adapter settings.
type SMSConfig struct {
	Provider string `mapstructure:"provider"`
	APIKey   string `mapstructure:"api_key"`
	Sender   string `mapstructure:"sender"`
}

// TicketsConfig holds ticket lifecycle tuning.
type TicketsConfig struct {
	// TerminalStatuses lists status slugs whose assignment closes a ticket.
	TerminalStatuses []string `mapstructure:"terminal_statuses"`
}

// NotificationConfig holds dispatcher tuning.
type NotificationConfig struct {
	DedupWindowSeconds int `mapstructure:"dedup_window_seconds"`
}

// RateLimitConfig holds the public API limiter windows.
type RateLimitConfig struct {
	Requests       int `mapstructure:"requests"`
	WindowSeconds  int `mapstructure:"window_seconds"`
	AuthRequests   int `mapstructure:"auth_requests"`
	AuthWindowSecs int `mapstructure:"auth_window_seconds"`
}

// MCPConfig holds the JSON-RPC adapter settings.
type MCPConfig struct {
	// BearerDigest is the SHA-256 hex digest of the shared-secret token.
	BearerDigest       string   `mapstructure:"bearer_digest"`
	AllowedTools       []string `mapstructure:"allowed_tools"`
	AllowTicketUpdates bool     `mapstructure:"allow_ticket_updates"`
}
