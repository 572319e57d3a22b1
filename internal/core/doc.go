// Package core holds the application state of the chart viewer and every
// operation the page and the CLI perform on it.
//
// # Service
//
// [Service] owns the dataset registry, the current dataset, the column
// selection and the chart built from them. All of it sits behind one mutex,
// so concurrent requests never interleave a chart build:
//
//	svc := core.NewService(opts)
//	report, err := svc.LoadFiles(ctx, files)
//	state, err := svc.SetSelection(chart.Selection{X: "Time", Y: []string{"Treating Pressure"}})
//
// # Loading
//
// [Service.LoadFiles] runs a batch through the ingest pipeline behind the
// [LoadLimiter]. Per-file problems never fail the batch: duplicates and
// unsupported types land in [LoadReport.Skipped], parse errors in
// [LoadReport.Failed] with their [UserMessage]. The last file loaded becomes
// current and is plotted with the preset selection for its name.
//
// # Chart state
//
// Selection changes, plots and dataset switches rebuild the chart and issue a
// new [ChartState.ID]. Axis ranges and the X zoom window edit the current
// chart in place and keep the ID.
//
// # Errors
//
// Sentinel errors from ingest, dataset and chart are wrapped with context and
// mapped to user messages by [MapError]; see error_messages.go for the codes.
package core
