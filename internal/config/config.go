// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected in production.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Mail transports.
const (
	MailTransportEmailJS = "emailjs"
	MailTransportSMTP    = "smtp"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"MENTOREU_DB_PATH" envDefault:"./data/mentoreu.db"`
	SessionSecret string `env:"MENTOREU_SESSION_SECRET,required"`
	ServerHost    string `env:"MENTOREU_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"MENTOREU_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"MENTOREU_ENV" envDefault:"development"`
	LogLevel      string `env:"MENTOREU_LOG_LEVEL" envDefault:"info"`
	UploadsDir    string `env:"MENTOREU_UPLOADS_DIR" envDefault:"./uploads"`
	SiteURL       string `env:"MENTOREU_SITE_URL"` // Public base URL for robots.txt and sitemap.xml

	// Cache configuration
	RedisURL    string `env:"MENTOREU_REDIS_URL"`                           // Optional Redis URL for shared caching
	CachePrefix string `env:"MENTOREU_CACHE_PREFIX" envDefault:"mentoreu:"` // Redis key prefix
	CacheTTL    int    `env:"MENTOREU_CACHE_TTL" envDefault:"300"`          // Landing/catalog cache TTL in seconds

	// Lead notifications
	MailTransport string        `env:"MENTOREU_MAIL_TRANSPORT" envDefault:"emailjs"`
	EmailJSAPIURL string        `env:"MENTOREU_EMAILJS_API_URL" envDefault:"https://api.emailjs.com/api/v1.0/email/send"`
	SMTPHost      string        `env:"MENTOREU_SMTP_HOST"`
	SMTPPort      int           `env:"MENTOREU_SMTP_PORT" envDefault:"587"`
	SMTPUsername  string        `env:"MENTOREU_SMTP_USERNAME"`
	SMTPPassword  string        `env:"MENTOREU_SMTP_PASSWORD"`
	SMTPFrom      string        `env:"MENTOREU_SMTP_FROM" envDefault:"MentorEU <info@mentoreu.com>"`
	NotifyTimeout time.Duration `env:"MENTOREU_NOTIFY_TIMEOUT" envDefault:"15s"`

	// Optional lead.created event publication
	AMQPURL      string `env:"MENTOREU_AMQP_URL"`
	AMQPExchange string `env:"MENTOREU_AMQP_EXCHANGE" envDefault:"mentoreu.events"`

	// GeoLite2-Country database, optional
	GeoIPDBPath string `env:"MENTOREU_GEOIP_DB_PATH"`

	// Public API and lead form
	CORSOrigins   []string      `env:"MENTOREU_CORS_ORIGINS" envSeparator:"," envDefault:"*"`
	LeadRateLimit int           `env:"MENTOREU_LEAD_RATE_LIMIT" envDefault:"5"` // per minute per IP
	LeadRateBurst int           `env:"MENTOREU_LEAD_RATE_BURST" envDefault:"3"`
	SuccessWindow time.Duration `env:"MENTOREU_SUCCESS_WINDOW" envDefault:"30s"`

	// Initial admin account, created on first start
	AdminEmail    string `env:"MENTOREU_ADMIN_EMAIL" envDefault:"admin@mentoreu.com"`
	AdminPassword string `env:"MENTOREU_ADMIN_PASSWORD"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// UseAMQP returns true if lead events should be published to a broker.
func (c Config) UseAMQP() bool {
	return c.AMQPURL != ""
}

// GeoIPEnabled returns true if a GeoIP database path is configured.
func (c Config) GeoIPEnabled() bool {
	return c.GeoIPDBPath != ""
}

// CacheTTLDuration returns CacheTTL as a duration.
func (c Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// MinSessionSecretLength is the minimum required length for the session secret.
// AES-256 requires 32 bytes minimum for secure encryption.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Validate session secret length
	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("MENTOREU_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	// Reject known weak/default secrets
	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("MENTOREU_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	// Warn about low-entropy secrets
	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("MENTOREU_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	cfg.MailTransport = strings.ToLower(strings.TrimSpace(cfg.MailTransport))
	switch cfg.MailTransport {
	case MailTransportEmailJS:
	case MailTransportSMTP:
		if cfg.SMTPHost == "" {
			return nil, fmt.Errorf("MENTOREU_SMTP_HOST is required when MENTOREU_MAIL_TRANSPORT=smtp")
		}
	default:
		return nil, fmt.Errorf("MENTOREU_MAIL_TRANSPORT must be %q or %q, got %q",
			MailTransportEmailJS, MailTransportSMTP, cfg.MailTransport)
	}

	if cfg.LeadRateLimit < 0 || cfg.LeadRateBurst < 0 {
		return nil, fmt.Errorf("MENTOREU_LEAD_RATE_LIMIT and MENTOREU_LEAD_RATE_BURST must not be negative")
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
