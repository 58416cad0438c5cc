package record

import "errors"

// Record validation errors. Parse wraps exactly one of these, so callers
// can classify a rejected record with errors.Is.
var (
	// ErrMissingField is returned when a record has fewer than three fields.
	ErrMissingField = errors.New("missing field")

	// ErrBadDate is returned when the date field is not YYYY/MM/DD HH:MM:SS.
	ErrBadDate = errors.New("bad date")

	// ErrBadURL is returned when the url field is not an absolute URL.
	ErrBadURL = errors.New("bad url")

	// ErrNoHost is returned when the url parses but has no host.
	ErrNoHost = errors.New("no host")
)
