package web

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/JonMunkholm/wellchart/internal/chart"
	"github.com/JonMunkholm/wellchart/internal/logging"
	"github.com/JonMunkholm/wellchart/internal/web/templates"
)

// maxRenderSide caps PNG dimensions requested by clients.
const maxRenderSide = 4096

// handleIndex renders the viewer page with the registry and chart state
// inlined so a reload restores the view.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	list := s.service.Datasets()
	state := s.service.Chart()

	page := templates.PageData{
		Current:  list.Current,
		Axes:     chart.MaxYAxes,
		Selected: state.Selection,
	}
	for _, d := range list.Datasets {
		page.Files = append(page.Files, templates.FileOption{Index: d.Index, Name: d.Name})
		if d.Index == list.Current {
			page.Fields = d.Fields
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Page(page).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render page", "error", err)
	}
}

// handleHealth reports liveness and the load limiter state.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"datasets": len(s.service.Datasets().Datasets),
		"loads":    s.service.Limiter().Status(),
	})
}

func (s *Server) handleListDatasets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Datasets())
}

func (s *Server) handleGetDataset(w http.ResponseWriter, r *http.Request) {
	index, err := pathIndex(r, "index")
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	detail, err := s.service.Dataset(index)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleSelectDataset(w http.ResponseWriter, r *http.Request) {
	index, err := pathIndex(r, "index")
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	state, err := s.service.Select(index)
	s.writeState(w, r, state, err)
}

func (s *Server) handleGetChart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Chart())
}

func (s *Server) handleSetSelection(w http.ResponseWriter, r *http.Request) {
	var sel chart.Selection
	if err := decodeJSON(w, r, &sel); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	state, err := s.service.SetSelection(sel)
	s.writeState(w, r, state, err)
}

func (s *Server) handlePlot(w http.ResponseWriter, r *http.Request) {
	state, err := s.service.Plot()
	s.writeState(w, r, state, err)
}

func (s *Server) handleSetAxisRange(w http.ResponseWriter, r *http.Request) {
	n, err := pathAxis(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	var rng chart.AxisRange
	if err := decodeJSON(w, r, &rng); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	state, err := s.service.SetAxisRange(n, rng)
	s.writeState(w, r, state, err)
}

func (s *Server) handleResetAxisRange(w http.ResponseWriter, r *http.Request) {
	n, err := pathAxis(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	state, err := s.service.ResetAxisRange(n)
	s.writeState(w, r, state, err)
}

func (s *Server) handleZoom(w http.ResponseWriter, r *http.Request) {
	var rng chart.AxisRange
	if err := decodeJSON(w, r, &rng); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	state, err := s.service.Zoom(rng)
	s.writeState(w, r, state, err)
}

func (s *Server) handleResetZoom(w http.ResponseWriter, r *http.Request) {
	state, err := s.service.ResetZoom()
	s.writeState(w, r, state, err)
}

func (s *Server) handleClearChart(w http.ResponseWriter, r *http.Request) {
	state, err := s.service.ClearChart()
	s.writeState(w, r, state, err)
}

// handleChartPNG rasterizes the current chart. The image is rendered into a
// buffer first so failures still produce a JSON error.
func (s *Server) handleChartPNG(w http.ResponseWriter, r *http.Request) {
	opts := chart.RenderOptions{
		Width:  min(queryInt(r, "width", s.cfg.Chart.RenderWidth), maxRenderSide),
		Height: min(queryInt(r, "height", s.cfg.Chart.RenderHeight), maxRenderSide),
		Title:  r.URL.Query().Get("title"),
	}

	var buf bytes.Buffer
	if err := s.service.RenderPNG(&buf, opts); err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}
