// Package config loads wellchart settings from environment variables with
// defaults, and validates them on startup so misconfiguration fails fast.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Ingest   IngestConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
	Chart    ChartConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 127.0.0.1)
	Host string `env:"SERVER_HOST" default:"127.0.0.1"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" envAlt:"PORT" default:"8080"`

	// ReadTimeout bounds reading a request, uploads included (default: 60s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"60s"`

	// WriteTimeout bounds writing a response (default: 60s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the grace period for in-flight requests (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 5m)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"5m"`
}

// IngestConfig holds file loading limits.
type IngestConfig struct {
	// MaxFileSize caps one file or archive member in bytes (default: 100MB)
	MaxFileSize int64 `env:"INGEST_MAX_FILE_SIZE" default:"104857600"`

	// MaxUploadSize caps one multipart request in bytes (default: 256MB)
	MaxUploadSize int64 `env:"INGEST_MAX_UPLOAD_SIZE" default:"268435456"`

	// MaxArchiveDepth caps ZIP-in-ZIP nesting (default: 8)
	MaxArchiveDepth int `env:"INGEST_MAX_ARCHIVE_DEPTH" default:"8"`

	// MaxConcurrent is the number of batches ingested at once (default: 1)
	MaxConcurrent int `env:"INGEST_MAX_CONCURRENT" default:"1"`

	// MaxWaitTime is how long a batch waits for a slot (default: 30s)
	MaxWaitTime time.Duration `env:"INGEST_MAX_WAIT_TIME" default:"30s"`
}

// RateLimitConfig holds rate limiting settings.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the limit per client IP (default: 300)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"300"`

	// UploadLimit is requests per minute for the upload endpoint (default: 20)
	UploadLimit int `env:"RATE_LIMIT_UPLOAD" default:"20"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// APIKeys is a comma-separated list of keys accepted on mutating API calls
	APIKeys []string `env:"API_KEYS"`

	// RequireAPIKey enforces APIKeys on mutating API calls (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// ChartConfig holds chart building settings.
type ChartConfig struct {
	// PresetsFile is an optional TOML file overriding the column alias lists
	PresetsFile string `env:"CHART_PRESETS_FILE"`

	// StrictNumeric turns non-numeric Y cells into gaps instead of zeros (default: false)
	StrictNumeric bool `env:"CHART_STRICT_NUMERIC" default:"false"`

	// PanEnabled enables middle-button panning (default: true)
	PanEnabled bool `env:"CHART_PAN_ENABLED" default:"true"`

	// TimeZone interprets X timestamps, an IANA name or "Local" (default: Local)
	TimeZone string `env:"CHART_TIME_ZONE" default:"Local"`

	// RenderWidth and RenderHeight size PNG renderings (default: 1280x720)
	RenderWidth  int `env:"CHART_RENDER_WIDTH" default:"1280"`
	RenderHeight int `env:"CHART_RENDER_HEIGHT" default:"720"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Location resolves TimeZone.
func (c *ChartConfig) Location() (*time.Location, error) {
	if c.TimeZone == "" || c.TimeZone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.TimeZone)
}
