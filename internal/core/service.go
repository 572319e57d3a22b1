package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/wellchart/internal/chart"
	"github.com/JonMunkholm/wellchart/internal/dataset"
	"github.com/JonMunkholm/wellchart/internal/ingest"
)

// LoadTimeout is the maximum duration for one batch.
var LoadTimeout = 10 * time.Minute

var (
	// ErrNoDataset is returned by chart operations before any dataset is selected.
	ErrNoDataset = errors.New("no dataset selected")

	// ErrDatasetNotFound is returned for registry indexes that do not exist.
	ErrDatasetNotFound = errors.New("dataset not found")
)

// Options configures a Service.
type Options struct {
	MaxFileSize        int64
	MaxArchiveDepth    int
	MaxConcurrentLoads int
	LoadWait           time.Duration

	Presets    chart.Presets
	Mode       chart.Mode
	PanEnabled bool
	Location   *time.Location

	Logger *slog.Logger
}

// Service owns the application state: the dataset registry, the current
// dataset and selection, and the chart built from them. Every operation runs
// under one mutex, so chart builds never overlap.
type Service struct {
	registry *dataset.Registry
	presets  chart.Presets
	builder  *chart.Builder
	limiter  *LoadLimiter
	opts     Options
	base     *slog.Logger // unscoped, handed to the ingest pipeline
	l        *slog.Logger

	mu        sync.Mutex
	current   int
	selection chart.Selection
	spec      *chart.Spec
	chartID   string
	visible   bool
}

// NewService creates a Service with an empty registry.
func NewService(opts Options) *Service {
	l := opts.Logger
	if l == nil {
		l = slog.Default()
	}
	if opts.Presets.Default == nil && opts.Presets.FH == nil && opts.Presets.PD == nil {
		opts.Presets = chart.DefaultPresets()
	}

	return &Service{
		registry: dataset.NewRegistry(),
		presets:  opts.Presets,
		builder: chart.NewBuilder(chart.BuilderOptions{
			Mode:       opts.Mode,
			PanEnabled: opts.PanEnabled,
			Location:   opts.Location,
		}),
		limiter: NewLoadLimiter(opts.MaxConcurrentLoads, opts.LoadWait),
		opts:    opts,
		base:    l,
		l:       l.With(slog.String("module", "core")),
		current: -1,
	}
}

// Limiter exposes the load limiter for health reporting and shutdown.
func (s *Service) Limiter() *LoadLimiter {
	return s.limiter
}

// LoadFiles ingests a batch. Per-file problems land in the report; only
// limiter and cancellation errors are returned. After the batch, the last
// file loaded becomes current and is plotted with its preselection.
func (s *Service) LoadFiles(ctx context.Context, files []ingest.RawFile) (*LoadReport, error) {
	if len(files) == 0 {
		return nil, errors.New("no file provided")
	}
	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	ctx, cancel := context.WithTimeout(ctx, LoadTimeout)
	defer cancel()

	start := time.Now()
	report := &LoadReport{
		BatchID: uuid.New().String(),
		Loaded:  []LoadedFile{},
		Skipped: []SkippedFile{},
		Failed:  []FailedFile{},
	}
	l := s.l.With(slog.String("batch_id", report.BatchID))

	s.mu.Lock()
	defer s.mu.Unlock()

	pipeline := ingest.New(ingest.Options{
		MaxFileSize:     s.opts.MaxFileSize,
		MaxArchiveDepth: s.opts.MaxArchiveDepth,
		Known:           s.registry.Has,
		Logger:          s.base.With(slog.String("batch_id", report.BatchID)),
	})

	last := -1
	runErr := pipeline.Run(ctx, files, func(r ingest.Result) {
		switch {
		case r.Err == nil:
			idx, err := s.registry.Add(r.Dataset)
			if err != nil {
				l.Warn("file already loaded", slog.String("name", r.Name))
				report.Skipped = append(report.Skipped, SkippedFile{Name: r.Name, Source: r.Source, Reason: err.Error()})
				return
			}
			last = idx
			report.Loaded = append(report.Loaded, LoadedFile{
				Index:    idx,
				Name:     r.Name,
				Source:   r.Source,
				Rows:     r.Dataset.Len(),
				Fields:   len(r.Dataset.Fields),
				Dropped:  r.Dropped,
				Encoding: r.Encoding,
			})
			l.Info("file loaded",
				slog.String("name", r.Name),
				slog.String("source", r.Source),
				slog.Int("rows", r.Dataset.Len()),
			)

		case errors.Is(r.Err, dataset.ErrDuplicateFile):
			l.Warn("file already loaded", slog.String("name", r.Name), slog.String("source", r.Source))
			report.Skipped = append(report.Skipped, SkippedFile{Name: r.Name, Source: r.Source, Reason: r.Err.Error()})

		case errors.Is(r.Err, ingest.ErrUnsupportedExtension):
			report.Skipped = append(report.Skipped, SkippedFile{Name: r.Name, Source: r.Source, Reason: r.Err.Error()})

		default:
			l.Error("file failed", slog.String("source", r.Source), slog.Any("error", r.Err))
			report.Failed = append(report.Failed, FailedFile{Source: r.Source, Error: MapError(r.Err)})
		}
	})

	if last >= 0 {
		if err := s.selectLocked(last); err != nil {
			l.Warn("initial plot failed", slog.Any("error", err))
		}
	}
	report.Current = s.current
	report.Chart = s.stateLocked()
	report.Elapsed = time.Since(start)

	l.Info("batch finished",
		slog.Int("loaded", len(report.Loaded)),
		slog.Int("skipped", len(report.Skipped)),
		slog.Int("failed", len(report.Failed)),
		slog.Duration("elapsed", report.Elapsed),
	)

	if runErr != nil {
		return report, runErr
	}
	return report, nil
}

// Datasets lists the registry in insertion order.
func (s *Service) Datasets() DatasetList {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.registry.List()
	list := DatasetList{Current: s.current, Datasets: make([]DatasetInfo, len(entries))}
	for i, e := range entries {
		list.Datasets[i] = infoOf(i, e)
	}
	return list
}

// Dataset describes one entry and the preselection its name implies.
func (s *Service) Dataset(index int) (*DatasetDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.registry.At(index)
	if !ok {
		return nil, fmt.Errorf("%w: index %d", ErrDatasetNotFound, index)
	}
	family, _ := s.presets.For(e.Name)
	return &DatasetDetail{
		DatasetInfo:  infoOf(index, e),
		Family:       family,
		Preselection: s.presets.Preselect(e.Dataset),
	}, nil
}

// Select makes a loaded dataset current, re-derives its preselection and
// rebuilds the chart from the already parsed rows.
func (s *Service) Select(index int) (*ChartState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.registry.At(index); !ok {
		return nil, fmt.Errorf("%w: index %d", ErrDatasetNotFound, index)
	}
	if err := s.selectLocked(index); err != nil {
		return nil, err
	}
	return s.stateLocked(), nil
}

// SetSelection replaces the column selection and rebuilds. An incomplete
// selection is stored but leaves the current chart untouched.
func (s *Service) SetSelection(sel chart.Selection) (*ChartState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ds, err := s.currentLocked()
	if err != nil {
		return nil, err
	}
	if err := sel.Validate(ds); err != nil {
		return nil, err
	}

	s.selection = chart.Selection{X: sel.X, Y: padSlots(sel.Y)}
	if err := s.rebuildLocked(); err != nil {
		return nil, err
	}
	return s.stateLocked(), nil
}

// Plot rebuilds the chart with the current selection.
func (s *Service) Plot() (*ChartState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.currentLocked(); err != nil {
		return nil, err
	}
	if err := s.rebuildLocked(); err != nil {
		return nil, err
	}
	return s.stateLocked(), nil
}

// SetAxisRange bounds Y axis n (1-based) on the current chart without
// rebuilding it.
func (s *Service) SetAxisRange(n int, r chart.AxisRange) (*ChartState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.spec == nil {
		return nil, fmt.Errorf("%w: no chart", chart.ErrAxisOutOfRange)
	}
	if err := s.spec.SetAxisRange(n, r); err != nil {
		return nil, err
	}
	return s.stateLocked(), nil
}

// ResetAxisRange clears both bounds of Y axis n.
func (s *Service) ResetAxisRange(n int) (*ChartState, error) {
	return s.SetAxisRange(n, chart.AxisRange{})
}

// Zoom limits the visible X range. Time axes take epoch milliseconds,
// category axes row indexes.
func (s *Service) Zoom(r chart.AxisRange) (*ChartState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.spec == nil {
		return nil, fmt.Errorf("%w: no chart", chart.ErrAxisOutOfRange)
	}
	if err := s.spec.SetXWindow(r); err != nil {
		return nil, err
	}
	return s.stateLocked(), nil
}

// ResetZoom restores the full X range.
func (s *Service) ResetZoom() (*ChartState, error) {
	return s.Zoom(chart.AxisRange{})
}

// ClearChart drops Y axes 2 to 5, rebuilds with what is left and hides the
// chart.
func (s *Service) ClearChart() (*ChartState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selection.Y = padSlots(s.selection.Y)
	for i := 1; i < len(s.selection.Y); i++ {
		s.selection.Y[i] = ""
	}
	if s.current >= 0 {
		if err := s.rebuildLocked(); err != nil {
			return nil, err
		}
	}
	s.visible = false
	return s.stateLocked(), nil
}

// Chart returns the current chart state.
func (s *Service) Chart() *ChartState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// RenderPNG rasterizes the current chart.
func (s *Service) RenderPNG(w io.Writer, opts chart.RenderOptions) error {
	s.mu.Lock()
	if s.spec == nil {
		s.mu.Unlock()
		return ErrNoDataset
	}
	spec := s.spec.Clone()
	if opts.Title == "" {
		if e, ok := s.registry.At(s.current); ok {
			opts.Title = e.Name
		}
	}
	s.mu.Unlock()

	return chart.RenderPNG(w, spec, opts)
}

// selectLocked switches the current dataset and plots its preselection.
func (s *Service) selectLocked(index int) error {
	e, _ := s.registry.At(index)
	s.current = index
	s.selection = s.presets.Preselect(e.Dataset)
	s.spec = nil
	s.chartID = ""
	s.visible = false

	s.l.Debug("dataset selected",
		slog.String("name", e.Name),
		slog.String("x", s.selection.X),
		slog.Any("y", s.selection.Columns()),
	)
	return s.rebuildLocked()
}

// rebuildLocked replaces the chart. An incomplete selection is a no-op.
func (s *Service) rebuildLocked() error {
	if s.selection.Empty() {
		return nil
	}
	ds, err := s.currentLocked()
	if err != nil {
		return err
	}

	spec, err := s.builder.Build(ds, s.selection)
	if err != nil {
		return err
	}
	s.spec = spec
	s.chartID = uuid.New().String()
	s.visible = true

	if spec.Quality.Coerced > 0 || spec.Quality.BadX > 0 {
		s.l.Warn("chart data coerced",
			slog.String("dataset", ds.Name),
			slog.String("mode", s.opts.Mode.String()),
			slog.Int("coerced", spec.Quality.Coerced),
			slog.Int("bad_x", spec.Quality.BadX),
		)
	}
	return nil
}

func (s *Service) currentLocked() (*dataset.Dataset, error) {
	e, ok := s.registry.At(s.current)
	if !ok {
		return nil, ErrNoDataset
	}
	return e.Dataset, nil
}

// stateLocked snapshots the chart state; the spec is cloned so callers can
// encode it after the lock is released.
func (s *Service) stateLocked() *ChartState {
	st := &ChartState{
		ID:        s.chartID,
		Index:     s.current,
		Visible:   s.visible,
		Selection: chart.Selection{X: s.selection.X, Y: append([]string(nil), s.selection.Y...)},
	}
	if e, ok := s.registry.At(s.current); ok {
		st.Dataset = e.Name
	}
	if s.spec != nil {
		st.Spec = s.spec.Clone()
	}
	return st
}

func infoOf(index int, e dataset.Entry) DatasetInfo {
	return DatasetInfo{
		Index:    index,
		Name:     e.Name,
		Rows:     e.Dataset.Len(),
		Fields:   append([]string(nil), e.Dataset.Fields...),
		LoadedAt: e.LoadedAt,
	}
}

// padSlots extends y to MaxYAxes entries.
func padSlots(y []string) []string {
	out := make([]string, chart.MaxYAxes)
	copy(out, y)
	return out
}
