// Package report renders a Markdown summary of a load run.
package report

import (
	"cmp"
	"fmt"
	"io"
	"net"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"golang.org/x/net/publicsuffix"

	"github.com/runnerr0/phishurl/internal/ingest"
	"github.com/runnerr0/phishurl/internal/storage"
)

// topN bounds the host and domain tables.
const topN = 10

// Run is everything a report describes.
type Run struct {
	Root    string
	Output  string
	Summary *ingest.Summary
	Stats   *storage.Stats
	Hosts   []storage.HostCount
}

// MarkdownWriter outputs run reports in Markdown format.
type MarkdownWriter struct {
	output io.Writer
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{output: output}
}

// WriteFile renders run into a new file at path.
func WriteFile(path string, run *Run) error {
	f, err := os.Create(path) //nolint:gosec // report path comes from the operator
	if err != nil {
		return fmt.Errorf("creating report: %w", err)
	}
	if _, err := NewMarkdownWriter(f).Write(run); err != nil {
		f.Close()
		return fmt.Errorf("writing report: %w", err)
	}
	return f.Close()
}

// Write outputs the report and returns the number of bytes rendered.
func (w *MarkdownWriter) Write(run *Run) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, run)
	w.writeRecords(md, run.Summary)
	w.writeDates(md, run.Stats)
	w.writeCounts(md, "Top Hosts", "Host", topHosts(run.Hosts))
	w.writeCounts(md, "Top Registrable Domains", "Domain", topDomains(run.Hosts))

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, run *Run) {
	sum := run.Summary

	md.H1("phishurl Load Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Run ID", "`" + sum.RunID + "`"},
			{"Started", sum.Started.Format("2006-01-02 15:04:05 MST")},
			{"Duration", sum.Duration().Round(time.Millisecond).String()},
			{"Input Root", "`" + run.Root + "`"},
			{"Output File", "`" + run.Output + "`"},
			{"Files", strconv.Itoa(sum.Files)},
		},
	})
	md.PlainText("")
}

// writeRecords writes the record breakdown with a pie chart when anything
// was read.
func (w *MarkdownWriter) writeRecords(md *markdown.Markdown, sum *ingest.Summary) {
	md.H2("Records")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Outcome", "Count"},
		Rows: [][]string{
			{"Inserted", strconv.Itoa(sum.Inserted)},
			{"Undecodable", strconv.Itoa(sum.DecodeErrors)},
			{"Invalid", strconv.Itoa(sum.InvalidRecords)},
			{"**Total**", "**" + strconv.Itoa(sum.Records) + "**"},
		},
	})
	md.PlainText("")

	if sum.Records > 0 {
		chart := piechart.NewPieChart(
			io.Discard,
			piechart.WithTitle("Record Outcomes"),
			piechart.WithShowData(true),
		)
		if sum.Inserted > 0 {
			chart.LabelAndIntValue("Inserted", uint64(sum.Inserted))
		}
		if sum.DecodeErrors > 0 {
			chart.LabelAndIntValue("Undecodable", uint64(sum.DecodeErrors))
		}
		if sum.InvalidRecords > 0 {
			chart.LabelAndIntValue("Invalid", uint64(sum.InvalidRecords))
		}
		md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
		md.PlainText("")
	}

	switch {
	case sum.Records == 0:
		md.Note("No records were found under the input root.")
	case sum.Skipped() > 0:
		md.Warningf("%d of %d record(s) were skipped.", sum.Skipped(), sum.Records)
	default:
		md.Tip("Every record was loaded.")
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeDates(md *markdown.Markdown, stats *storage.Stats) {
	if stats == nil || stats.TotalRows == 0 {
		return
	}
	md.H2("Date Range")
	md.PlainText("")
	md.BulletList(
		"Oldest: "+stats.OldestDate.Format("2006-01-02 15:04:05"),
		"Newest: "+stats.NewestDate.Format("2006-01-02 15:04:05"),
	)
	md.PlainText("")
}

func (w *MarkdownWriter) writeCounts(md *markdown.Markdown, title, column string, counts []storage.HostCount) {
	if len(counts) == 0 {
		return
	}
	rows := make([][]string, len(counts))
	for i, c := range counts {
		rows[i] = []string{"`" + c.Host + "`", strconv.FormatInt(c.Count, 10)}
	}

	md.H2(title)
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{column, "Rows"},
		Rows:   rows,
	})
	md.PlainText("")
}

// topHosts returns the topN most frequent hosts, ties broken by name.
func topHosts(hosts []storage.HostCount) []storage.HostCount {
	out := slices.Clone(hosts)
	sortCounts(out)
	return out[:min(len(out), topN)]
}

// topDomains folds hosts into registrable domains and returns the topN.
func topDomains(hosts []storage.HostCount) []storage.HostCount {
	totals := make(map[string]int64)
	for _, h := range hosts {
		totals[RegistrableDomain(h.Host)] += h.Count
	}

	out := make([]storage.HostCount, 0, len(totals))
	for domain, n := range totals {
		out = append(out, storage.HostCount{Host: domain, Count: n})
	}
	sortCounts(out)
	return out[:min(len(out), topN)]
}

func sortCounts(counts []storage.HostCount) {
	slices.SortFunc(counts, func(a, b storage.HostCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return strings.Compare(a.Host, b.Host)
	})
}

// RegistrableDomain returns the eTLD+1 of host. IP addresses, bare public
// suffixes and anything publicsuffix rejects are returned unchanged.
func RegistrableDomain(host string) string {
	if strings.HasPrefix(host, "[") || net.ParseIP(host) != nil {
		return host
	}
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return domain
}
