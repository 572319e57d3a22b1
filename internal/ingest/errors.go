package ingest

import "errors"

var (
	// ErrHeaderNotFound means no line starts with a Time/AcqTime header.
	// Fatal for the file, never for its siblings.
	ErrHeaderNotFound = errors.New("could not find 'Time' header in file")

	// ErrArchiveRead covers corrupt archives and unreadable members.
	ErrArchiveRead = errors.New("error reading zip file")

	// ErrArchiveTooDeep is returned when archives nest beyond the configured depth.
	ErrArchiveTooDeep = errors.New("zip nesting too deep")

	// ErrFileTooLarge is returned for files or members above the size limit.
	ErrFileTooLarge = errors.New("file too large")

	// ErrUnsupportedExtension marks files that are not .csv, .txt or .zip.
	// These are skipped with a warning.
	ErrUnsupportedExtension = errors.New("unsupported file type")
)
