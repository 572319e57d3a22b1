// Package templates holds the templ components of the viewer page.
package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Chart.js and its plugins, pinned.
var scripts = []string{
	"https://cdn.jsdelivr.net/npm/chart.js@4.4.1/dist/chart.umd.min.js",
	"https://cdn.jsdelivr.net/npm/chartjs-adapter-date-fns@3.0.0/dist/chartjs-adapter-date-fns.bundle.min.js",
	"https://cdn.jsdelivr.net/npm/hammerjs@2.0.8/hammer.min.js",
	"https://cdn.jsdelivr.net/npm/chartjs-plugin-zoom@2.0.1/dist/chartjs-plugin-zoom.min.js",
}

// Layout wraps body in the HTML document shell.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!doctype html><html lang="en"><head><meta charset="utf-8">`+
			`<meta name="viewport" content="width=device-width, initial-scale=1"><title>`+
			templ.EscapeString(title)+
			`</title><link rel="stylesheet" href="/static/app.css">`); err != nil {
			return err
		}
		for _, src := range scripts {
			if _, err := io.WriteString(w, `<script src="`+templ.EscapeString(src)+`"></script>`); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `<script src="/static/app.js" defer></script></head><body>`); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</body></html>`)
		return err
	})
}

// ErrorAlert renders a user message with its suggested action and code.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		out := `<div class="alert alert-error" role="alert"><strong>` + templ.EscapeString(message) + `</strong>`
		if action != "" {
			out += `<p>` + templ.EscapeString(action) + `</p>`
		}
		out += `<small>Code: ` + templ.EscapeString(code) + `</small></div>`
		_, err := io.WriteString(w, out)
		return err
	})
}
