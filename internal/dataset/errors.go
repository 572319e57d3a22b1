package dataset

import "errors"

var (
	// ErrDuplicateFile is returned when a file name is already registered.
	// It is a warning: the registry keeps the first copy.
	ErrDuplicateFile = errors.New("file already loaded")

	// ErrUnknownField is returned for a field name the dataset lacks.
	ErrUnknownField = errors.New("column not found")
)
