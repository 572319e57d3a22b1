package web

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strings"

	"github.com/JonMunkholm/wellchart/internal/ingest"
	"github.com/JonMunkholm/wellchart/internal/logging"
)

// multipartMemory is the part of a multipart body kept in memory; the rest
// spills to temporary files.
const multipartMemory = 32 << 20

var (
	errNoFiles        = errors.New("no file provided")
	errUploadTooLarge = errors.New("request body too large")
)

// handleLoadFiles ingests every "file" part of a multipart upload as one
// batch and answers with the load report.
func (s *Server) handleLoadFiles(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Ingest.MaxUploadSize)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), errUploadTooLarge.Error()) {
			s.respondError(w, r, fmt.Errorf("%w: limit %d bytes", errUploadTooLarge, s.cfg.Ingest.MaxUploadSize), http.StatusRequestEntityTooLarge)
			return
		}
		s.respondError(w, r, fmt.Errorf("%w: %v", errBadRequest, err), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["file"]
	if len(headers) == 0 {
		s.respondError(w, r, errNoFiles, http.StatusBadRequest)
		return
	}

	files := make([]ingest.RawFile, 0, len(headers))
	for _, fh := range headers {
		f, err := readPart(fh)
		if err != nil {
			s.respondError(w, r, err, http.StatusBadRequest)
			return
		}
		files = append(files, f)
	}

	logging.WithFields(r.Context(), "files", len(files)).Info("batch received")

	report, err := s.service.LoadFiles(r.Context(), files)
	if err != nil && report == nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	if err != nil {
		// Cancelled mid-batch: what was loaded stays loaded.
		logging.FromContext(r.Context()).Warn("batch interrupted", "error", err)
	}
	writeJSON(w, http.StatusOK, report)
}

// readPart reads one uploaded file. Browsers may send a path, only the base
// name is kept.
func readPart(fh *multipart.FileHeader) (ingest.RawFile, error) {
	name := path.Base(strings.ReplaceAll(fh.Filename, `\`, "/"))
	if name == "." || name == "/" {
		return ingest.RawFile{}, fmt.Errorf("%w: empty file name", errBadRequest)
	}

	f, err := fh.Open()
	if err != nil {
		return ingest.RawFile{}, fmt.Errorf("%w: open %s: %v", errBadRequest, name, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return ingest.RawFile{}, fmt.Errorf("%w: read %s: %v", errBadRequest, name, err)
	}
	return ingest.RawFile{Name: name, Data: data}, nil
}
