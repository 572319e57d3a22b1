package core

import (
	"time"

	"github.com/JonMunkholm/wellchart/internal/chart"
	"github.com/JonMunkholm/wellchart/internal/ingest"
)

// LoadReport summarizes one batch of files.
type LoadReport struct {
	BatchID string        `json:"batch_id"`
	Loaded  []LoadedFile  `json:"loaded"`
	Skipped []SkippedFile `json:"skipped"`
	Failed  []FailedFile  `json:"failed"`
	Current int           `json:"current"`
	Chart   *ChartState   `json:"chart,omitempty"`
	Elapsed time.Duration `json:"-"`
}

// LoadedFile is a file that became a registry entry.
type LoadedFile struct {
	Index    int             `json:"index"`
	Name     string          `json:"name"`
	Source   string          `json:"source"`
	Rows     int             `json:"rows"`
	Fields   int             `json:"fields"`
	Dropped  int             `json:"dropped"`
	Encoding ingest.Encoding `json:"encoding"`
}

// SkippedFile is a file that was ignored without failing the batch:
// duplicates and unsupported types.
type SkippedFile struct {
	Name   string `json:"name"`
	Source string `json:"source"`
	Reason string `json:"reason"`
}

// FailedFile is a file whose ingestion failed.
type FailedFile struct {
	Source string      `json:"source"`
	Error  UserMessage `json:"error"`
}

// DatasetInfo describes one registry entry.
type DatasetInfo struct {
	Index    int       `json:"index"`
	Name     string    `json:"name"`
	Rows     int       `json:"rows"`
	Fields   []string  `json:"fields"`
	LoadedAt time.Time `json:"loaded_at"`
}

// DatasetList is the registry in insertion order plus the current index
// (-1 when nothing is selected).
type DatasetList struct {
	Current  int           `json:"current"`
	Datasets []DatasetInfo `json:"datasets"`
}

// DatasetDetail adds the preselection derived for a dataset.
type DatasetDetail struct {
	DatasetInfo
	Family       string          `json:"family"`
	Preselection chart.Selection `json:"preselection"`
}

// ChartState is the chart currently shown. ID changes on every rebuild and
// stays the same across axis range and zoom changes.
type ChartState struct {
	ID        string          `json:"id"`
	Dataset   string          `json:"dataset"`
	Index     int             `json:"index"`
	Visible   bool            `json:"visible"`
	Selection chart.Selection `json:"selection"`
	Spec      *chart.Spec     `json:"spec,omitempty"`
}
