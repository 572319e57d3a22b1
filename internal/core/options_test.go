package core

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/JonMunkholm/wellchart/internal/chart"
	"github.com/JonMunkholm/wellchart/internal/config"
)

func TestOptionsFromConfig(t *testing.T) {
	dir := t.TempDir()
	presets := filepath.Join(dir, "presets.toml")
	if err := os.WriteFile(presets, []byte(`default = [["Rate"]]`+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{
		Ingest: config.IngestConfig{MaxFileSize: 10, MaxArchiveDepth: 2, MaxConcurrent: 3, MaxWaitTime: time.Second},
		Chart:  config.ChartConfig{PresetsFile: presets, StrictNumeric: true, PanEnabled: true, TimeZone: "UTC"},
	}

	opts, err := OptionsFromConfig(cfg, nil)
	if err != nil {
		t.Fatalf("OptionsFromConfig: %v", err)
	}
	if opts.Mode != chart.Strict || !opts.PanEnabled || opts.Location != time.UTC {
		t.Errorf("chart options = %v %v %v", opts.Mode, opts.PanEnabled, opts.Location)
	}
	if opts.MaxFileSize != 10 || opts.MaxArchiveDepth != 2 || opts.MaxConcurrentLoads != 3 {
		t.Errorf("ingest options = %+v", opts)
	}
	if len(opts.Presets.Default) != 1 || opts.Presets.Default[0][0] != "Rate" {
		t.Errorf("default preset = %v", opts.Presets.Default)
	}
	if len(opts.Presets.FH) != len(chart.DefaultPresets().FH) {
		t.Error("FH preset not kept from defaults")
	}
}

func TestOptionsFromConfig_BadTimeZone(t *testing.T) {
	cfg := &config.Config{Chart: config.ChartConfig{TimeZone: "Mars/Olympus"}}
	if _, err := OptionsFromConfig(cfg, nil); err == nil {
		t.Error("expected error for unknown time zone")
	}
}
