package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

// validConfig returns a config that passes Validate.
func validConfig() *Config {
	return &Config{
		Server:  ServerConfig{Port: 8080, ShutdownTimeout: time.Second},
		Ingest:  IngestConfig{MaxFileSize: 10, MaxUploadSize: 20, MaxArchiveDepth: 2, MaxConcurrent: 1, MaxWaitTime: time.Second},
		Rate:    RateLimitConfig{Enabled: true, RequestsPerMinute: 100},
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Chart:   ChartConfig{TimeZone: "Local", RenderWidth: 100, RenderHeight: 100},
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "127.0.0.1")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.Ingest.MaxConcurrent != 1 {
		t.Errorf("Ingest.MaxConcurrent = %d, want %d", cfg.Ingest.MaxConcurrent, 1)
	}
	if cfg.Ingest.MaxFileSize != 104857600 {
		t.Errorf("Ingest.MaxFileSize = %d, want %d", cfg.Ingest.MaxFileSize, 104857600)
	}
	if cfg.Ingest.MaxArchiveDepth != 8 {
		t.Errorf("Ingest.MaxArchiveDepth = %d, want %d", cfg.Ingest.MaxArchiveDepth, 8)
	}
	if !cfg.Chart.PanEnabled {
		t.Error("Chart.PanEnabled should default to true")
	}
	if cfg.Chart.StrictNumeric {
		t.Error("Chart.StrictNumeric should default to false")
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	os.Setenv("SERVER_PORT", "9090")
	os.Setenv("INGEST_MAX_CONCURRENT", "3")
	os.Setenv("CHART_PAN_ENABLED", "false")
	os.Setenv("CHART_STRICT_NUMERIC", "true")
	os.Setenv("LOG_LEVEL", "debug")
	defer func() {
		os.Unsetenv("SERVER_PORT")
		os.Unsetenv("INGEST_MAX_CONCURRENT")
		os.Unsetenv("CHART_PAN_ENABLED")
		os.Unsetenv("CHART_STRICT_NUMERIC")
		os.Unsetenv("LOG_LEVEL")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Ingest.MaxConcurrent != 3 {
		t.Errorf("Ingest.MaxConcurrent = %d, want %d", cfg.Ingest.MaxConcurrent, 3)
	}
	if cfg.Chart.PanEnabled || !cfg.Chart.StrictNumeric {
		t.Errorf("Chart = %+v, want pan off and strict on", cfg.Chart)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestLoad_AltEnvVar(t *testing.T) {
	os.Unsetenv("SERVER_PORT")
	os.Setenv("PORT", "7070")
	defer os.Unsetenv("PORT")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 7070)
	}
}

func TestLoad_InvalidValue(t *testing.T) {
	os.Setenv("INGEST_MAX_ARCHIVE_DEPTH", "deep")
	defer os.Unsetenv("INGEST_MAX_ARCHIVE_DEPTH")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() expected error for non-integer value")
	}
	if !contains(err.Error(), "INGEST_MAX_ARCHIVE_DEPTH") {
		t.Errorf("error should name the variable: %v", err)
	}
}

func TestLoad_Duration(t *testing.T) {
	os.Setenv("SERVER_READ_TIMEOUT", "45s")
	os.Setenv("INGEST_MAX_WAIT_TIME", "1m30s")
	defer func() {
		os.Unsetenv("SERVER_READ_TIMEOUT")
		os.Unsetenv("INGEST_MAX_WAIT_TIME")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.ReadTimeout != 45*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want %v", cfg.Server.ReadTimeout, 45*time.Second)
	}
	if cfg.Ingest.MaxWaitTime != 90*time.Second {
		t.Errorf("Ingest.MaxWaitTime = %v, want %v", cfg.Ingest.MaxWaitTime, 90*time.Second)
	}
}

func TestLoad_CommaSeparatedSlice(t *testing.T) {
	os.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 172.16.0.0/12 , 192.168.0.0/16")
	defer os.Unsetenv("TRUSTED_PROXIES")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	expected := []string{"10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"}
	if len(cfg.Security.TrustedProxies) != len(expected) {
		t.Fatalf("TrustedProxies length = %d, want %d", len(cfg.Security.TrustedProxies), len(expected))
	}
	for i, v := range expected {
		if cfg.Security.TrustedProxies[i] != v {
			t.Errorf("TrustedProxies[%d] = %q, want %q", i, cfg.Security.TrustedProxies[i], v)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"invalid port", func(c *Config) { c.Server.Port = 99999 }, "SERVER_PORT"},
		{"upload below file size", func(c *Config) { c.Ingest.MaxUploadSize = 5 }, "INGEST_MAX_UPLOAD_SIZE"},
		{"zero depth", func(c *Config) { c.Ingest.MaxArchiveDepth = 0 }, "INGEST_MAX_ARCHIVE_DEPTH"},
		{"zero concurrency", func(c *Config) { c.Ingest.MaxConcurrent = 0 }, "INGEST_MAX_CONCURRENT"},
		{"api key required without keys", func(c *Config) { c.Security.RequireAPIKey = true }, "API_KEYS"},
		{"unknown time zone", func(c *Config) { c.Chart.TimeZone = "Mars/Olympus" }, "CHART_TIME_ZONE"},
		{"invalid log level", func(c *Config) { c.Logging.Level = "verbose" }, "LOG_LEVEL"},
		{"invalid log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error mentioning %s", tt.wantErr)
			}
			if !contains(err.Error(), tt.wantErr) {
				t.Errorf("error should mention %s: %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 0
	cfg.Logging.Format = "xml"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error")
	}
	if strings.Count(err.Error(), "\n  - ") != 2 {
		t.Errorf("expected two listed problems: %v", err)
	}
}

func TestServerAddr(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"", 8080, ":8080"},
		{"0.0.0.0", 8080, "0.0.0.0:8080"},
		{"127.0.0.1", 3000, "127.0.0.1:3000"},
		{"::1", 443, "[::1]:443"},
	}

	for _, tt := range tests {
		cfg := &ServerConfig{Host: tt.host, Port: tt.port}
		got := cfg.Addr()
		if got != tt.want {
			t.Errorf("Addr() with host=%q, port=%d = %q, want %q", tt.host, tt.port, got, tt.want)
		}
	}
}

func TestChartLocation(t *testing.T) {
	c := &ChartConfig{TimeZone: "Local"}
	if loc, err := c.Location(); err != nil || loc != time.Local {
		t.Errorf("Location() = %v, %v", loc, err)
	}

	c.TimeZone = "UTC"
	if loc, err := c.Location(); err != nil || loc.String() != "UTC" {
		t.Errorf("Location() = %v, %v", loc, err)
	}
}

func TestConfigString_MasksAPIKeys(t *testing.T) {
	cfg := validConfig()
	cfg.Security.APIKeys = []string{"s3cret-key"}

	str := cfg.String()
	if contains(str, "s3cret") {
		t.Error("String() should mask API keys")
	}
	if !contains(str, "MASKED") {
		t.Error("String() should contain MASKED placeholder")
	}
}

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}
