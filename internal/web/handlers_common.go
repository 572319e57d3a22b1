package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/wellchart/internal/chart"
	"github.com/JonMunkholm/wellchart/internal/core"
)

// maxJSONBody caps JSON request bodies.
const maxJSONBody = 64 << 10

var errBadRequest = errors.New("invalid request")

// pathIndex parses a non-negative integer URL parameter.
func pathIndex(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s %q", errBadRequest, name, raw)
	}
	return n, nil
}

// pathAxis parses the 1-based Y axis number of axis routes.
func pathAxis(r *http.Request) (int, error) {
	n, err := strconv.Atoi(chi.URLParam(r, "axis"))
	if err != nil || n < 1 || n > chart.MaxYAxes {
		return 0, fmt.Errorf("%w: %q", chart.ErrAxisOutOfRange, chi.URLParam(r, "axis"))
	}
	return n, nil
}

// decodeJSON reads a bounded JSON body into v, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", errBadRequest)
		}
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// queryInt parses a positive integer query parameter with a default.
func queryInt(r *http.Request, name string, def int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return def
	}
	return n
}

// writeState answers chart operations.
func (s *Server) writeState(w http.ResponseWriter, r *http.Request, state *core.ChartState, err error) {
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, state)
}
