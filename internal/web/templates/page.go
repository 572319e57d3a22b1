package templates

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/wellchart/internal/chart"
)

// FileOption is one entry of the file selector.
type FileOption struct {
	Index int
	Name  string
}

// PageData is everything the viewer page shows on first paint.
type PageData struct {
	Files    []FileOption
	Current  int
	Fields   []string
	Selected chart.Selection
	Axes     int
}

// Page renders the viewer: file input and selector, the column selectors
// with their range inputs, and the chart canvas.
func Page(d PageData) templ.Component {
	return Layout("Well Chart", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder

		b.WriteString(`<main class="app"><section class="controls">`)
		b.WriteString(`<div id="alerts"></div>`)
		b.WriteString(`<form id="upload-form" class="row"><label for="file-input">Files</label>` +
			`<input id="file-input" name="file" type="file" accept=".csv,.txt,.zip" multiple></form>`)

		b.WriteString(`<div class="row"><label for="file-select">Loaded</label><select id="file-select">`)
		if len(d.Files) == 0 {
			b.WriteString(`<option value="">No files loaded</option>`)
		}
		for _, f := range d.Files {
			writeOption(&b, strconv.Itoa(f.Index), f.Name, f.Index == d.Current)
		}
		b.WriteString(`</select></div>`)

		b.WriteString(`<div class="row"><label for="x-select">X</label>`)
		writeFieldSelect(&b, "x-select", d.Fields, d.Selected.X)
		b.WriteString(`</div>`)

		for i := 0; i < d.Axes; i++ {
			n := i + 1
			selected := ""
			if i < len(d.Selected.Y) {
				selected = d.Selected.Y[i]
			}
			fmt.Fprintf(&b, `<div class="row axis" data-axis="%d"><label for="y%d-select">Y%d</label>`, n, n, n)
			writeFieldSelect(&b, fmt.Sprintf("y%d-select", n), d.Fields, selected)
			fmt.Fprintf(&b, `<input id="y%d-min" class="range" type="number" step="any" placeholder="min">`+
				`<input id="y%d-max" class="range" type="number" step="any" placeholder="max">`+
				`<button type="button" class="reset-axis" data-axis="%d">Reset</button></div>`, n, n, n)
		}

		b.WriteString(`<div class="row buttons">` +
			`<button type="button" id="plot-btn">Plot</button>` +
			`<button type="button" id="clear-btn">Clear</button>` +
			`<button type="button" id="reset-zoom-btn">Reset zoom</button>` +
			`<a id="png-link" href="/api/chart.png" target="_blank" rel="noopener">PNG</a></div>`)

		b.WriteString(`</section><section class="chart-area"><canvas id="chart"></canvas></section></main>`)

		_, err := io.WriteString(w, b.String())
		return err
	}))
}

func writeFieldSelect(b *strings.Builder, id string, fields []string, selected string) {
	b.WriteString(`<select id="` + templ.EscapeString(id) + `" class="field-select">`)
	writeOption(b, "", "(none)", selected == "")
	for _, f := range fields {
		writeOption(b, f, f, f == selected)
	}
	b.WriteString(`</select>`)
}

func writeOption(b *strings.Builder, value, label string, selected bool) {
	b.WriteString(`<option value="` + templ.EscapeString(value) + `"`)
	if selected {
		b.WriteString(` selected`)
	}
	b.WriteString(`>` + templ.EscapeString(label) + `</option>`)
}
