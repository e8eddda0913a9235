package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	envPrefix           = "MURMUR"
	defaultHTTPAddress  = "0.0.0.0:8080"
	defaultDatabasePath = "murmur.db"
	defaultLogLevel     = "info"
	defaultCookieName   = "murmur_session"
	defaultPageSize     = 20
	defaultResetTTL     = 10 * time.Minute
)

// AppConfig captures runtime configuration for the server.
type AppConfig struct {
	HTTPAddress    string
	DatabaseURL    string // postgres DSN; empty falls back to SQLite
	DatabasePath   string // SQLite fallback path
	LogLevel       string
	SessionSecret  string
	SessionCookie  string
	PageSize       int
	ResetTokenTTL  time.Duration
	ResetTokenKey  string // defaults to SessionSecret when unset
	SMTPHost       string
	SMTPPort       string
	SMTPUser       string
	SMTPPass       string
	SMTPFrom       string
	PublicBaseURL  string // used in reset links
}

// NewViper returns a viper instance with defaults and env bindings.
func NewViper() *viper.Viper {
	v := viper.New()
	ApplyDefaults(v)
	return v
}

// ApplyDefaults configures defaults and env bindings on the provided
// viper instance.
func ApplyDefaults(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("http.address", defaultHTTPAddress)
	v.SetDefault("database.url", "")
	v.SetDefault("database.path", defaultDatabasePath)
	v.SetDefault("log.level", defaultLogLevel)
	v.SetDefault("session.cookie_name", defaultCookieName)
	v.SetDefault("page.size", defaultPageSize)
	v.SetDefault("reset.token_ttl", defaultResetTTL)
	v.SetDefault("public.base_url", "http://localhost:8080")
}

// Load parses runtime configuration from viper.
func Load(v *viper.Viper) (AppConfig, error) {
	cfg := AppConfig{
		HTTPAddress:   v.GetString("http.address"),
		DatabaseURL:   v.GetString("database.url"),
		DatabasePath:  v.GetString("database.path"),
		LogLevel:      v.GetString("log.level"),
		SessionSecret: v.GetString("session.secret"),
		SessionCookie: v.GetString("session.cookie_name"),
		PageSize:      v.GetInt("page.size"),
		ResetTokenTTL: v.GetDuration("reset.token_ttl"),
		ResetTokenKey: v.GetString("reset.token_key"),
		SMTPHost:      v.GetString("smtp.host"),
		SMTPPort:      v.GetString("smtp.port"),
		SMTPUser:      v.GetString("smtp.user"),
		SMTPPass:      v.GetString("smtp.pass"),
		SMTPFrom:      v.GetString("smtp.from"),
		PublicBaseURL: v.GetString("public.base_url"),
	}

	if cfg.ResetTokenKey == "" {
		cfg.ResetTokenKey = cfg.SessionSecret
	}

	if err := cfg.validate(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

func (c AppConfig) validate() error {
	if strings.TrimSpace(c.SessionSecret) == "" {
		return fmt.Errorf("session.secret is required")
	}
	if c.DatabaseURL == "" && strings.TrimSpace(c.DatabasePath) == "" {
		return fmt.Errorf("one of database.url or database.path is required")
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("page.size must be positive")
	}
	return nil
}
