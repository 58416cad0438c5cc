package ingest

import "errors"

// Fatal ingestion errors. Recoverable per-record errors (*csv.ParseError,
// ErrInvalidUTF8 and the record package's validation errors) never reach the caller unless a
// Policy promotes them, in which case they are wrapped in ErrRejected.
var (
	// ErrFileOpen is returned when an enumerated path cannot be opened or
	// read as a CSV file.
	ErrFileOpen = errors.New("open csv file")

	// ErrInsert is returned when the store rejects a row.
	ErrInsert = errors.New("insert row")

	// ErrInvalidUTF8 is reported for a record whose fields are not valid
	// UTF-8. It is a decode error, like *csv.ParseError.
	ErrInvalidUTF8 = errors.New("invalid UTF-8")

	// ErrRejected is returned when a record is skipped under a Policy that
	// makes that class of skip fatal.
	ErrRejected = errors.New("record rejected")
)
