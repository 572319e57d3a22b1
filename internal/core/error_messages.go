package core

// error_messages.go maps technical errors to user-facing messages.
//
// # Error Codes Reference
//
// Codes are grouped by category so users can quote them when something goes
// wrong.
//
// # Header Errors (HDR001-HDR099)
//
//	HDR001 - Header not found: No Time/AcqTime header row in the file
//	         Action: Check the file is an instrument export with a Time column
//	         Patterns: "could not find 'time' header"
//
// # Archive Errors (ARC001-ARC099)
//
//	ARC001 - Archive unreadable: The ZIP archive is corrupt or truncated
//	         Action: Re-export or re-download the archive
//	         Patterns: "error reading zip file"
//
//	ARC002 - Archive too deep: ZIP files are nested too many levels
//	         Action: Extract the inner archives and load them directly
//	         Patterns: "zip nesting too deep"
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: File exceeds the configured size limit
//	FILE002 - Unsupported type: Only .csv, .txt and .zip are accepted
//	FILE003 - Invalid CSV: Rows could not be parsed
//	FILE004 - No file: Nothing was selected
//
// # Registry Errors (REG001-REG099)
//
//	REG001 - Already loaded: A file with this name is already loaded
//	REG002 - Dataset not found: No dataset at the requested position
//
// # Chart Errors (CHT001-CHT099)
//
//	CHT001 - No dataset: No dataset is selected
//	CHT002 - Column not found: The selected column is not in the dataset
//	CHT003 - Axis out of range: The axis does not exist on the current chart
//	CHT004 - Not enough points: The chart has too few drawable points
//	CHT005 - Empty selection: No X column or no Y column selected
//	CHT006 - Invalid range: Axis minimum is not below the maximum
//
// # Load Errors (UPL001-UPL099)
//
//	UPL002 - System busy: Too many loads in progress
//	UPL004 - Request cancelled
//	UPL005 - Request timeout
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Malformed request: Body or path parameter could not be parsed
//	REQ002 - Upload too large: Multipart body exceeds the request limit
//
// # Rate Limiting (RATE001)
//
//	RATE001 - Rate limited: Too many requests
//
// # Default Error (ERR000)
//
// Fallback when no pattern matches. Check the logs for the technical error.
//
// Patterns are matched case-insensitively with strings.Contains; the first
// match wins.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"`
	Action  string `json:"action"`
	Code    string `json:"code"`
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error text (lowercase) to user messages.
// Specific patterns come before general ones.
var errorPatterns = []errorPattern{
	// =========================================================================
	// Ingestion (HDR, ARC, FILE)
	// =========================================================================
	{
		pattern: "could not find 'time' header",
		msg: UserMessage{
			Message: "No Time or AcqTime header row was found",
			Action:  "Check the file is an instrument export with a Time column",
			Code:    "HDR001",
		},
	},
	{
		pattern: "error reading zip file",
		msg: UserMessage{
			Message: "The ZIP archive could not be read",
			Action:  "Re-export or re-download the archive",
			Code:    "ARC001",
		},
	},
	{
		pattern: "zip nesting too deep",
		msg: UserMessage{
			Message: "ZIP files are nested too many levels",
			Action:  "Extract the inner archives and load them directly",
			Code:    "ARC002",
		},
	},
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum size limit",
			Action:  "Split the export into smaller files",
			Code:    "FILE001",
		},
	},
	{
		pattern: "unsupported file type",
		msg: UserMessage{
			Message: "Unsupported file type",
			Action:  "Load .csv, .txt or .zip files",
			Code:    "FILE002",
		},
	},
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "File rows could not be parsed",
			Action:  "Check the file uses one delimiter and balanced quotes",
			Code:    "FILE003",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Select one or more .csv, .txt or .zip files",
			Code:    "FILE004",
		},
	},

	// =========================================================================
	// Registry (REG)
	// =========================================================================
	{
		pattern: "file already loaded",
		msg: UserMessage{
			Message: "A file with this name is already loaded",
			Action:  "Pick it from the file selector instead",
			Code:    "REG001",
		},
	},
	{
		pattern: "dataset not found",
		msg: UserMessage{
			Message: "Dataset not found",
			Action:  "Reload the page to refresh the file list",
			Code:    "REG002",
		},
	},

	// =========================================================================
	// Chart (CHT)
	// =========================================================================
	{
		pattern: "no dataset selected",
		msg: UserMessage{
			Message: "No dataset is selected",
			Action:  "Load a file or pick one from the file selector",
			Code:    "CHT001",
		},
	},
	{
		pattern: "column not found",
		msg: UserMessage{
			Message: "Selected column is not in this dataset",
			Action:  "Pick columns from the current file",
			Code:    "CHT002",
		},
	},
	{
		pattern: "axis out of range",
		msg: UserMessage{
			Message: "That axis is not on the current chart",
			Action:  "Select a column for the axis and plot first",
			Code:    "CHT003",
		},
	},
	{
		pattern: "not enough data points",
		msg: UserMessage{
			Message: "Not enough data points to draw",
			Action:  "Widen the zoom window or pick another column",
			Code:    "CHT004",
		},
	},
	{
		pattern: "select an x column",
		msg: UserMessage{
			Message: "Nothing to plot",
			Action:  "Select an X column and at least one Y column",
			Code:    "CHT005",
		},
	},
	{
		pattern: "minimum must be below maximum",
		msg: UserMessage{
			Message: "Axis minimum must be below the maximum",
			Action:  "Adjust the min and max values",
			Code:    "CHT006",
		},
	},

	// =========================================================================
	// Load throttling and request lifecycle (UPL)
	// =========================================================================
	{
		pattern: "too many concurrent loads",
		msg: UserMessage{
			Message: "System is busy loading other files",
			Action:  "Please wait a moment and try again",
			Code:    "UPL002",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "UPL004",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try loading fewer files at once",
			Code:    "UPL005",
		},
	},

	// =========================================================================
	// Requests (REQ)
	// =========================================================================
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "Upload exceeds the maximum request size",
			Action:  "Load fewer files per batch",
			Code:    "REQ002",
		},
	},
	{
		pattern: "invalid request",
		msg: UserMessage{
			Message: "The request could not be understood",
			Action:  "Reload the page and try again",
			Code:    "REQ001",
		},
	},

	// =========================================================================
	// Rate Limiting (RATE001)
	// =========================================================================
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or check the server logs",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It returns the first matching pattern, or ERR000 when none matches.
//
// Example:
//
//	msg := MapError(fmt.Errorf("job.zip: %w", ingest.ErrArchiveRead))
//	// msg.Code == "ARC001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern rather than the
// ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-facing message.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
