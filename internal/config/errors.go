package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() so callers can match them
// with errors.Is().
var (
	// ErrNoCollectionID is returned when the collection identifier is empty.
	ErrNoCollectionID = errors.New("no collection specified: use --id or set 'collection' in the config file")

	// ErrInvalidCollectionID is returned when the collection identifier
	// contains whitespace and cannot be appended to the base URL.
	ErrInvalidCollectionID = errors.New("invalid collection id: must not contain whitespace")

	// ErrNoFilename is returned when the output filename is empty.
	ErrNoFilename = errors.New("no output filename specified")

	// ErrNoBaseURL is returned when the base endpoint is empty.
	ErrNoBaseURL = errors.New("no base url specified")

	// ErrNoHistoryDir is returned when history is enabled without a directory.
	ErrNoHistoryDir = errors.New("history enabled but no history directory specified")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
