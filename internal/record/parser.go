// Package record turns raw CSV records from the phishing URL lists into
// validated storage rows.
package record

import (
	"fmt"
	"time"

	whatwg "github.com/nlnwa/whatwg-url/url"

	"github.com/runnerr0/phishurl/internal/storage"
)

// DateLayout is the only accepted format of the date column.
const DateLayout = "2006/01/02 15:04:05"

// Field positions within a record.
const (
	fieldDate = iota
	fieldURL
	fieldDescription
	minFields
)

var fieldNames = [minFields]string{"date", "url", "description"}

// Parse validates one record of the form date,url,description and returns
// the row to store. Fields after the third are ignored.
func Parse(fields []string) (*storage.Row, error) {
	if len(fields) < minFields {
		return nil, fmt.Errorf("%w: %s", ErrMissingField, fieldNames[len(fields)])
	}

	date, err := ParseDate(fields[fieldDate])
	if err != nil {
		return nil, err
	}

	canonical, host, err := ParseURL(fields[fieldURL])
	if err != nil {
		return nil, err
	}

	return &storage.Row{
		Date:        date,
		URL:         canonical,
		Host:        host,
		Description: fields[fieldDescription],
	}, nil
}

// ParseDate parses s strictly as DateLayout. time.Parse alone accepts a
// single digit hour, so the width is checked first.
func ParseDate(s string) (time.Time, error) {
	if len(s) != len(DateLayout) {
		return time.Time{}, fmt.Errorf("%w: %q is not YYYY/MM/DD HH:MM:SS", ErrBadDate, s)
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", ErrBadDate, err)
	}
	return t, nil
}

// ParseURL parses raw as an absolute WHATWG URL and returns its canonical
// serialization together with its hostname.
func ParseURL(raw string) (canonical, host string, err error) {
	u, err := whatwg.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrBadURL, err)
	}

	host = u.Hostname()
	if host == "" {
		return "", "", fmt.Errorf("%w: %s", ErrNoHost, raw)
	}

	return u.Href(false), host, nil
}
