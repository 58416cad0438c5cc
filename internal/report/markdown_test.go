package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/phishurl/internal/ingest"
	"github.com/runnerr0/phishurl/internal/storage"
)

func testRun() *Run {
	start := time.Date(2021, 5, 1, 12, 0, 0, 0, time.UTC)
	return &Run{
		Root:   "phishurl-list",
		Output: "phishurl.db3",
		Summary: &ingest.Summary{
			RunID:          "5f0c6d3e-1111-4222-8333-944445555666",
			Started:        start,
			Finished:       start.Add(1500 * time.Millisecond),
			Files:          2,
			Records:        8,
			Inserted:       3,
			DecodeErrors:   1,
			InvalidRecords: 4,
		},
		Stats: &storage.Stats{
			TotalRows:  3,
			OldestDate: time.Date(2021, 5, 1, 12, 0, 0, 0, time.UTC),
			NewestDate: time.Date(2021, 7, 1, 0, 0, 0, 0, time.UTC),
		},
		Hosts: []storage.HostCount{
			{Host: "login.bank.example", Count: 1},
			{Host: "www.shop.co.uk", Count: 1},
			{Host: "pay.shop.co.uk", Count: 1},
		},
	}
}

func TestMarkdownWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	n, err := NewMarkdownWriter(&buf).Write(testRun())
	require.NoError(t, err)

	out := buf.String()
	assert.Positive(t, n)
	assert.Contains(t, out, "# phishurl Load Report")
	assert.Contains(t, out, "5f0c6d3e-1111-4222-8333-944445555666")
	assert.Contains(t, out, "phishurl-list")
	assert.Contains(t, out, "## Records")
	assert.Contains(t, out, "Undecodable")
	assert.Contains(t, out, "**8**")
	assert.Contains(t, out, "mermaid")
	assert.Contains(t, out, "5 of 8 record(s) were skipped.")
	assert.Contains(t, out, "Oldest: 2021-05-01 12:00:00")
	assert.Contains(t, out, "Newest: 2021-07-01 00:00:00")
	assert.Contains(t, out, "## Top Hosts")
	assert.Contains(t, out, "`www.shop.co.uk`")
	assert.Contains(t, out, "## Top Registrable Domains")
	assert.Contains(t, out, "`shop.co.uk`")
}

func TestMarkdownWriter_EmptyRun(t *testing.T) {
	run := testRun()
	run.Summary.Files, run.Summary.Records = 0, 0
	run.Summary.Inserted, run.Summary.DecodeErrors, run.Summary.InvalidRecords = 0, 0, 0
	run.Stats = &storage.Stats{}
	run.Hosts = nil

	var buf bytes.Buffer
	_, err := NewMarkdownWriter(&buf).Write(run)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "No records were found")
	assert.NotContains(t, out, "mermaid")
	assert.NotContains(t, out, "## Date Range")
	assert.NotContains(t, out, "## Top Hosts")
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.md")
	require.NoError(t, WriteFile(path, testRun()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# phishurl Load Report")
}

func TestWriteFile_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "run.md")
	assert.Error(t, WriteFile(path, testRun()))
}

func TestRegistrableDomain(t *testing.T) {
	tests := []struct {
		host string
		want string
	}{
		{"www.example.com", "example.com"},
		{"example.com", "example.com"},
		{"a.b.example.co.uk", "example.co.uk"},
		{"login.bank.example", "bank.example"},
		{"co.uk", "co.uk"},
		{"127.0.0.1", "127.0.0.1"},
		{"[::1]", "[::1]"},
	}

	for _, tc := range tests {
		t.Run(tc.host, func(t *testing.T) {
			assert.Equal(t, tc.want, RegistrableDomain(tc.host))
		})
	}
}

func TestTopDomains_FoldsAndSorts(t *testing.T) {
	got := topDomains([]storage.HostCount{
		{Host: "a.example.com", Count: 2},
		{Host: "b.example.com", Count: 3},
		{Host: "other.org", Count: 4},
		{Host: "able.net", Count: 4},
	})

	assert.Equal(t, []storage.HostCount{
		{Host: "example.com", Count: 5},
		{Host: "able.net", Count: 4},
		{Host: "other.org", Count: 4},
	}, got)
}

func TestTopHosts_Bounded(t *testing.T) {
	var hosts []storage.HostCount
	for i := range 15 {
		hosts = append(hosts, storage.HostCount{Host: string(rune('a'+i)) + ".com", Count: int64(i)})
	}

	got := topHosts(hosts)
	require.Len(t, got, topN)
	assert.Equal(t, "o.com", got[0].Host)
	assert.Equal(t, "a.com", hosts[0].Host, "input is not reordered")
}
