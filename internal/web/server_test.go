package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/wellchart/internal/chart"
	"github.com/JonMunkholm/wellchart/internal/config"
	"github.com/JonMunkholm/wellchart/internal/core"
)

const fhCSV = "Time,Treating Pressure,Slurry Rate,SLURRY_CONC,BH Proppant Conc,Casing Pressure\n" +
	"28-Aug-2025 01:39:16,5000,60,1.5,1.2,300\n" +
	"28-Aug-2025 01:39:17,5100,61,1.6,1.3,310\n" +
	"28-Aug-2025 01:39:18,5200,62,1.7,1.4,320\n"

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{RequestTimeout: time.Minute},
		Ingest: config.IngestConfig{MaxFileSize: 1 << 20, MaxUploadSize: 4 << 20, MaxArchiveDepth: 4},
		Rate:   config.RateLimitConfig{Enabled: false},
		Chart:  config.ChartConfig{RenderWidth: 400, RenderHeight: 300},
	}
}

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	svc := core.NewService(core.Options{
		PanEnabled: true,
		Location:   time.UTC,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return NewServer(svc, cfg)
}

func upload(t *testing.T, s *Server, files map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for name, data := range files {
		fw, err := mw.CreateFormFile("file", name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write([]byte(data)); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/files", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func do(s *Server, method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestLoadFiles_Report(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec := upload(t, s, map[string]string{
		"Well_FH_01.csv": fhCSV,
		"notes.docx":     "x",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	report := decode[core.LoadReport](t, rec)
	if len(report.Loaded) != 1 || report.Loaded[0].Name != "Well_FH_01.csv" {
		t.Errorf("loaded = %+v", report.Loaded)
	}
	if len(report.Skipped) != 1 {
		t.Errorf("skipped = %+v", report.Skipped)
	}
	if report.Chart == nil || report.Chart.Spec == nil || !report.Chart.Visible {
		t.Fatalf("chart not plotted: %+v", report.Chart)
	}
	if report.Chart.Selection.Y[0] != "Treating Pressure" {
		t.Errorf("preselected y1 = %q", report.Chart.Selection.Y[0])
	}

	// Loading the same name again is skipped, not failed.
	rec = upload(t, s, map[string]string{"Well_FH_01.csv": fhCSV})
	report = decode[core.LoadReport](t, rec)
	if len(report.Loaded) != 0 || len(report.Skipped) != 1 {
		t.Errorf("duplicate batch = %+v", report)
	}
}

func TestLoadFiles_NoFile(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec := upload(t, s, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if got := decode[ErrorResponse](t, rec); got.Code != "FILE004" {
		t.Errorf("code = %q, want FILE004", got.Code)
	}
}

func TestLoadFiles_TooLarge(t *testing.T) {
	cfg := testConfig()
	cfg.Ingest.MaxUploadSize = 64
	s := newTestServer(t, cfg)

	rec := upload(t, s, map[string]string{"big.csv": strings.Repeat("x", 1024)})
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
}

func TestDatasets(t *testing.T) {
	s := newTestServer(t, testConfig())
	upload(t, s, map[string]string{"Well_FH_01.csv": fhCSV})

	list := decode[core.DatasetList](t, do(s, http.MethodGet, "/api/datasets", ""))
	if list.Current != 0 || len(list.Datasets) != 1 {
		t.Fatalf("list = %+v", list)
	}

	detail := decode[core.DatasetDetail](t, do(s, http.MethodGet, "/api/datasets/0", ""))
	if detail.Family != "fh" || detail.Rows != 3 || detail.Preselection.X != "Time" {
		t.Errorf("detail = %+v", detail)
	}

	tests := []struct {
		path string
		want int
	}{
		{"/api/datasets/7", http.StatusNotFound},
		{"/api/datasets/abc", http.StatusBadRequest},
	}
	for _, tt := range tests {
		if rec := do(s, http.MethodGet, tt.path, ""); rec.Code != tt.want {
			t.Errorf("GET %s = %d, want %d", tt.path, rec.Code, tt.want)
		}
	}

	if rec := do(s, http.MethodPost, "/api/datasets/0/select", ""); rec.Code != http.StatusOK {
		t.Errorf("select = %d: %s", rec.Code, rec.Body.String())
	}
}

func TestChartOperations(t *testing.T) {
	s := newTestServer(t, testConfig())

	if rec := do(s, http.MethodPost, "/api/chart/plot", ""); rec.Code != http.StatusConflict {
		t.Errorf("plot before load = %d, want 409", rec.Code)
	}

	upload(t, s, map[string]string{"Well_FH_01.csv": fhCSV})
	first := decode[core.ChartState](t, do(s, http.MethodGet, "/api/chart", ""))

	rec := do(s, http.MethodPut, "/api/chart/axes/1/range", `{"min":0,"max":8000}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("set range = %d: %s", rec.Code, rec.Body.String())
	}
	ranged := decode[core.ChartState](t, rec)
	if ranged.ID != first.ID {
		t.Error("range change rebuilt the chart")
	}
	if y1 := ranged.Spec.Options.Scales[chart.AxisID(1)]; y1.Min == nil || *y1.Max != 8000 {
		t.Errorf("y1 scale = %+v", y1)
	}

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"inverted range", http.MethodPut, "/api/chart/axes/1/range", `{"min":5,"max":1}`, http.StatusBadRequest},
		{"axis zero", http.MethodPut, "/api/chart/axes/0/range", `{"min":1}`, http.StatusBadRequest},
		{"axis six", http.MethodDelete, "/api/chart/axes/6/range", "", http.StatusBadRequest},
		{"bad json", http.MethodPost, "/api/chart/zoom", `{"low":1}`, http.StatusBadRequest},
		{"unknown column", http.MethodPost, "/api/chart", `{"x":"Time","y":["Nope"]}`, http.StatusBadRequest},
		{"reset axis", http.MethodDelete, "/api/chart/axes/1/range", "", http.StatusOK},
		{"zoom", http.MethodPost, "/api/chart/zoom", `{"min":1756345156000,"max":1756345158000}`, http.StatusOK},
		{"reset zoom", http.MethodPost, "/api/chart/reset-zoom", "", http.StatusOK},
		{"select columns", http.MethodPost, "/api/chart", `{"x":"Time","y":["Slurry Rate","Casing Pressure"]}`, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := do(s, tt.method, tt.path, tt.body); rec.Code != tt.want {
				t.Errorf("%s %s = %d, want %d: %s", tt.method, tt.path, rec.Code, tt.want, rec.Body.String())
			}
		})
	}

	after := decode[core.ChartState](t, do(s, http.MethodGet, "/api/chart", ""))
	if after.ID == first.ID {
		t.Error("new selection kept the old chart id")
	}
	if len(after.Spec.Data.Datasets) != 2 {
		t.Errorf("datasets = %d, want 2", len(after.Spec.Data.Datasets))
	}

	cleared := decode[core.ChartState](t, do(s, http.MethodPost, "/api/chart/clear", ""))
	if cleared.Visible {
		t.Error("cleared chart still visible")
	}
	if cleared.Selection.Y[0] != "Slurry Rate" || cleared.Selection.Y[1] != "" {
		t.Errorf("cleared selection = %+v", cleared.Selection)
	}
}

func TestChartPNG(t *testing.T) {
	s := newTestServer(t, testConfig())

	if rec := do(s, http.MethodGet, "/api/chart.png", ""); rec.Code != http.StatusConflict {
		t.Errorf("png before load = %d, want 409", rec.Code)
	}

	upload(t, s, map[string]string{"Well_FH_01.csv": fhCSV})
	rec := do(s, http.MethodGet, "/api/chart.png?width=400&height=300", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("png = %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type = %q", ct)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")) {
		t.Error("body is not a PNG")
	}
}

func TestIndexAndHealth(t *testing.T) {
	s := newTestServer(t, testConfig())
	upload(t, s, map[string]string{"Well_FH_01.csv": fhCSV})

	rec := do(s, http.MethodGet, "/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("index = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Well_FH_01.csv") {
		t.Error("index missing loaded file")
	}
	if rec.Header().Get("Content-Security-Policy") == "" {
		t.Error("missing CSP header")
	}

	rec = do(s, http.MethodGet, "/healthz", "")
	health := decode[map[string]any](t, rec)
	if health["status"] != "ok" || health["datasets"] != float64(1) {
		t.Errorf("health = %v", health)
	}

	if rec := do(s, http.MethodGet, "/static/app.js", ""); rec.Code != http.StatusOK {
		t.Errorf("static = %d", rec.Code)
	}
}

func TestAPIKeyRequiredOnMutations(t *testing.T) {
	cfg := testConfig()
	cfg.Security = config.SecurityConfig{RequireAPIKey: true, APIKeys: []string{"secret"}}
	s := newTestServer(t, cfg)

	if rec := do(s, http.MethodGet, "/api/datasets", ""); rec.Code != http.StatusOK {
		t.Errorf("read = %d, want 200", rec.Code)
	}
	if rec := do(s, http.MethodPost, "/api/chart/plot", ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated plot = %d, want 401", rec.Code)
	}
}

func TestRateLimiter(t *testing.T) {
	now := time.Date(2025, 8, 28, 0, 0, 0, 0, time.UTC)
	rl := newRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	if !rl.allow("a") || !rl.allow("a") {
		t.Fatal("first two requests rejected")
	}
	if rl.allow("a") {
		t.Error("third request allowed")
	}
	if !rl.allow("b") {
		t.Error("other client limited")
	}

	now = now.Add(2 * time.Minute)
	if !rl.allow("a") {
		t.Error("window did not reset")
	}
}

func TestRespondError(t *testing.T) {
	s := newTestServer(t, testConfig())

	tests := []struct {
		name     string
		path     string
		err      error
		status   int
		wantCode string
		wantHTML bool
	}{
		{"known api error", "/api/chart", core.ErrNoDataset, http.StatusConflict, "CHT001", false},
		{"unknown api error", "/api/chart", errors.New("disk on fire"), http.StatusInternalServerError, "ERR000", false},
		{"page error", "/", core.ErrDatasetNotFound, http.StatusNotFound, "REG002", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.respondError(rec, httptest.NewRequest(http.MethodGet, tt.path, nil), tt.err, tt.status)

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			if tt.wantHTML {
				if !strings.Contains(rec.Body.String(), "Code: "+tt.wantCode) {
					t.Errorf("body = %q", rec.Body.String())
				}
				return
			}
			got := decode[ErrorResponse](t, rec)
			if got.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", got.Code, tt.wantCode)
			}
			if strings.Contains(rec.Body.String(), "disk on fire") {
				t.Error("technical error leaked to client")
			}
		})
	}
}

func TestAppJS_AxisSelectReplots(t *testing.T) {
	s := newTestServer(t, testConfig())
	rec := do(s, http.MethodGet, "/static/app.js", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	js := rec.Body.String()
	for _, want := range []string{
		`api("POST", "/api/chart", selection())`,
		`$("y" + n + "-select").addEventListener("change"`,
		`$("plot-btn").addEventListener("click", plot)`,
	} {
		if !strings.Contains(js, want) {
			t.Errorf("app.js missing %q", want)
		}
	}
}
