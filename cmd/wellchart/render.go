package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/wellchart/internal/chart"
	"github.com/JonMunkholm/wellchart/internal/core"
)

type renderFlags struct {
	x      string
	y      []string
	out    string
	width  int
	height int
	title  string
}

func newRenderCmd() *cobra.Command {
	var flags renderFlags
	cmd := &cobra.Command{
		Use:   "render <path>",
		Short: "Render a file's chart to PNG",
		Long: "Render loads one file (a ZIP may hold several datasets; the last one loaded is drawn)\n" +
			"and writes its chart as PNG. Without --x/--y the preset selection for the file name is used.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRenderCmd(cmd, args, flags)
		},
	}

	cmd.Flags().StringVar(&flags.x, "x", "", "x column (default: Time or AcqTime)")
	cmd.Flags().StringSliceVar(&flags.y, "y", nil, "y columns, up to 5, in axis order")
	cmd.Flags().StringVarP(&flags.out, "out", "o", "", "output file (default: <name>.png)")
	cmd.Flags().IntVar(&flags.width, "width", 0, "image width (default: CHART_RENDER_WIDTH)")
	cmd.Flags().IntVar(&flags.height, "height", 0, "image height (default: CHART_RENDER_HEIGHT)")
	cmd.Flags().StringVar(&flags.title, "title", "", "chart title (default: file name)")

	return cmd
}

func runRenderCmd(cmd *cobra.Command, args []string, flags renderFlags) error {
	svc, cfg, err := newService()
	if err != nil {
		return err
	}

	report, err := loadPaths(cmd.Context(), svc, args)
	if err != nil {
		return err
	}
	if len(report.Loaded) == 0 {
		return loadFailure(report)
	}

	if flags.x != "" || len(flags.y) > 0 {
		sel := svc.Chart().Selection
		if flags.x != "" {
			sel.X = flags.x
		}
		if len(flags.y) > 0 {
			sel.Y = flags.y
		}
		if _, err := svc.SetSelection(sel); err != nil {
			return fmt.Errorf("failed to select columns: %s", core.FormatUserError(err))
		}
	}

	out := flags.out
	if out == "" {
		name := report.Loaded[len(report.Loaded)-1].Name
		out = strings.TrimSuffix(name, filepath.Ext(name)) + ".png"
	}

	opts := chart.RenderOptions{
		Width:  pick(flags.width, cfg.Chart.RenderWidth),
		Height: pick(flags.height, cfg.Chart.RenderHeight),
		Title:  flags.title,
	}
	if err := renderTo(svc, out, opts); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

// renderTo writes the current chart to path, removing the file on failure.
func renderTo(svc *core.Service, path string, opts chart.RenderOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := svc.RenderPNG(f, opts); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("failed to render: %s", core.FormatUserError(err))
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func loadFailure(report *core.LoadReport) error {
	switch {
	case len(report.Failed) > 0:
		f := report.Failed[0]
		return fmt.Errorf("%s: %s (%s). %s", f.Source, f.Error.Message, f.Error.Code, f.Error.Action)
	case len(report.Skipped) > 0:
		return fmt.Errorf("%s: %s", report.Skipped[0].Source, report.Skipped[0].Reason)
	default:
		return fmt.Errorf("no dataset loaded")
	}
}

func pick(flag, def int) int {
	if flag > 0 {
		return flag
	}
	return def
}
