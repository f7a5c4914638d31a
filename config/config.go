package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server        ServerConfig
	Mail          MailConfig
	Upload        UploadConfig
	Logging       LoggingConfig
	Observability ObservabilityConfig
}

type ServerConfig struct {
	Port           string
	GinMode        string
	AppEnv         string
	StaticDir      string
	AllowedOrigins []string
}

// MailConfig holds the SMTP transport settings. None of these are required
// at startup: a submission that reaches dispatch with an incomplete mail
// configuration fails that request with a server error instead.
type MailConfig struct {
	Host      string
	Port      int
	Secure    bool // implicit TLS when true, STARTTLS otherwise
	Username  string
	Password  string
	Recipient string
	Sender    string // optional override, falls back to Username
}

type UploadConfig struct {
	MaxTotalBytes  int64 // ceiling for the combined size of all attachments
	MaxAttachments int
}

type LoggingConfig struct {
	Level string
	Dir   string
}

type ObservabilityConfig struct {
	ExporterEndpoint string
	ServiceName      string
	ServiceVersion   string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("STATIC_DIR", "./public")
	v.SetDefault("ALLOWED_CORS_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DIR", "")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_SECURE", false)
	v.SetDefault("MAX_UPLOAD_MB", 15)
	v.SetDefault("MAX_ATTACHMENTS", 10)
	v.SetDefault("O11Y_EXPORTER_ENDPOINT", "")
	v.SetDefault("O11Y_SERVICE_NAME", "disclosure-api")
	v.SetDefault("O11Y_SERVICE_VERSION", "1.0.0")

	// Automatically read environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	_ = v.ReadInConfig() //nolint:errcheck // Ignore error if .env file doesn't exist

	// Parse allowed CORS origins (comma-separated)
	allowedOrigins := []string{}
	for _, origin := range strings.Split(v.GetString("ALLOWED_CORS_ORIGINS"), ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			allowedOrigins = append(allowedOrigins, origin)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("PORT"),
			GinMode:        v.GetString("GIN_MODE"),
			AppEnv:         v.GetString("APP_ENV"),
			StaticDir:      v.GetString("STATIC_DIR"),
			AllowedOrigins: allowedOrigins,
		},
		Mail: MailConfig{
			Host:      v.GetString("SMTP_HOST"),
			Port:      v.GetInt("SMTP_PORT"),
			Secure:    v.GetBool("SMTP_SECURE"),
			Username:  v.GetString("SMTP_USER"),
			Password:  v.GetString("SMTP_PASS"),
			Recipient: v.GetString("RECIPIENT_EMAIL"),
			Sender:    v.GetString("SENDER_EMAIL"),
		},
		Upload: UploadConfig{
			MaxTotalBytes:  int64(v.GetInt("MAX_UPLOAD_MB")) << 20,
			MaxAttachments: v.GetInt("MAX_ATTACHMENTS"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
			Dir:   v.GetString("LOG_DIR"),
		},
		Observability: ObservabilityConfig{
			ExporterEndpoint: v.GetString("O11Y_EXPORTER_ENDPOINT"),
			ServiceName:      v.GetString("O11Y_SERVICE_NAME"),
			ServiceVersion:   v.GetString("O11Y_SERVICE_VERSION"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the values required at startup. The mail settings are
// intentionally excluded: their absence is surfaced per request at dispatch.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.Upload.MaxTotalBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB must be positive")
	}
	if c.Upload.MaxAttachments <= 0 {
		return fmt.Errorf("MAX_ATTACHMENTS must be positive")
	}
	return nil
}

// SenderAddress returns the configured sender override, or the SMTP
// username when no override is set.
func (c *MailConfig) SenderAddress() string {
	if c.Sender != "" {
		return c.Sender
	}
	return c.Username
}

// MaxUploadMB returns the attachment ceiling in whole megabytes, for use in
// user-facing limit messages.
func (c *UploadConfig) MaxUploadMB() int64 {
	return c.MaxTotalBytes >> 20
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development" || c.Server.GinMode == "debug"
}
