package core

import (
	"fmt"
	"log/slog"

	"github.com/JonMunkholm/wellchart/internal/chart"
	"github.com/JonMunkholm/wellchart/internal/config"
)

// OptionsFromConfig builds service options from loaded configuration,
// reading the preset file if one is configured.
func OptionsFromConfig(cfg *config.Config, logger *slog.Logger) (Options, error) {
	presets, err := chart.LoadPresets(cfg.Chart.PresetsFile)
	if err != nil {
		return Options{}, fmt.Errorf("presets %s: %w", cfg.Chart.PresetsFile, err)
	}

	loc, err := cfg.Chart.Location()
	if err != nil {
		return Options{}, fmt.Errorf("time zone %q: %w", cfg.Chart.TimeZone, err)
	}

	mode := chart.Lenient
	if cfg.Chart.StrictNumeric {
		mode = chart.Strict
	}

	return Options{
		MaxFileSize:        cfg.Ingest.MaxFileSize,
		MaxArchiveDepth:    cfg.Ingest.MaxArchiveDepth,
		MaxConcurrentLoads: cfg.Ingest.MaxConcurrent,
		LoadWait:           cfg.Ingest.MaxWaitTime,
		Presets:            presets,
		Mode:               mode,
		PanEnabled:         cfg.Chart.PanEnabled,
		Location:           loc,
		Logger:             logger,
	}, nil
}
