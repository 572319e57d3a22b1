package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/JonMunkholm/wellchart/internal/core"
)

const defaultWidth = 100

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#1DC942"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF7F0E"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <paths...>",
		Short: "Load files and print what was parsed",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runInspectCmd,
	}
}

func runInspectCmd(cmd *cobra.Command, args []string) error {
	svc, _, err := newService()
	if err != nil {
		return err
	}

	report, err := loadPaths(cmd.Context(), svc, args)
	if err != nil {
		return err
	}

	var details []*core.DatasetDetail
	for _, d := range svc.Datasets().Datasets {
		detail, err := svc.Dataset(d.Index)
		if err != nil {
			return err
		}
		details = append(details, detail)
	}

	out := newPrinter(os.Stdout)
	out.report(report, details)
	return nil
}

// printer writes inspect output, styled only on terminals.
type printer struct {
	w      io.Writer
	styled bool
	width  int
}

func newPrinter(f *os.File) *printer {
	p := &printer{w: f, width: defaultWidth}
	if term.IsTerminal(int(f.Fd())) {
		p.styled = true
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			p.width = w
		}
	}
	return p
}

func (p *printer) style(s lipgloss.Style, text string) string {
	if !p.styled {
		return text
	}
	return s.Render(text)
}

func (p *printer) report(report *core.LoadReport, details []*core.DatasetDetail) {
	fmt.Fprintf(p.w, "%s %d loaded, %d skipped, %d failed\n",
		p.style(titleStyle, "batch"), len(report.Loaded), len(report.Skipped), len(report.Failed))

	for _, f := range report.Loaded {
		fmt.Fprintf(p.w, "  %s %s (%s, %d rows, %d dropped, %s)\n",
			p.style(okStyle, "loaded "), f.Name, f.Source, f.Rows, f.Dropped, f.Encoding)
	}
	for _, f := range report.Skipped {
		fmt.Fprintf(p.w, "  %s %s: %s\n", p.style(warnStyle, "skipped"), f.Source, f.Reason)
	}
	for _, f := range report.Failed {
		fmt.Fprintf(p.w, "  %s %s: %s (%s). %s\n", p.style(errStyle, "failed "), f.Source, f.Error.Message, f.Error.Code, f.Error.Action)
	}

	for _, d := range details {
		fmt.Fprintln(p.w)
		marker := " "
		if d.Index == report.Current {
			marker = "*"
		}
		fmt.Fprintf(p.w, "%s [%d] %s\n", marker, d.Index, p.style(titleStyle, d.Name))
		fmt.Fprintf(p.w, "    %s %d   %s %s\n", p.style(labelStyle, "rows"), d.Rows, p.style(labelStyle, "preset"), d.Family)
		fmt.Fprintf(p.w, "    %s %s\n", p.style(labelStyle, "fields"), p.fit(strings.Join(d.Fields, ", "), 11))
		fmt.Fprintf(p.w, "    %s %s\n", p.style(labelStyle, "x"), orDash(d.Preselection.X))
		for i, y := range d.Preselection.Y {
			fmt.Fprintf(p.w, "    %s %s\n", p.style(labelStyle, "y"+strconv.Itoa(i+1)), orDash(y))
		}
	}
}

// fit truncates s to the line width left after indent.
func (p *printer) fit(s string, indent int) string {
	limit := p.width - indent
	r := []rune(s)
	if limit < 10 || len(r) <= limit {
		return s
	}
	return string(r[:limit-3]) + "..."
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
