package storage

import "time"

// Row is one validated phishing URL report ready for storage.
type Row struct {
	ID          int64
	Date        time.Time
	URL         string
	Host        string
	Description string
}

// Stats holds aggregate statistics about the urls table.
type Stats struct {
	TotalRows  int64
	OldestDate time.Time
	NewestDate time.Time
	TopHosts   []HostCount
}

// HostCount pairs a host with its row count.
type HostCount struct {
	Host  string
	Count int64
}
