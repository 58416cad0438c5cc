// Package ingest drives one load run: every enumerated CSV file is read
// record by record, each record is validated, and valid rows go to the
// store. Bad records are reported and skipped; I/O and storage failures
// end the run.
package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"os"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/runnerr0/phishurl/internal/record"
	"github.com/runnerr0/phishurl/internal/storage"
)

// contextCheckInterval is how often, in records, a long file checks for
// cancellation.
const contextCheckInterval = 100

// Inserter receives validated rows.
type Inserter interface {
	Insert(ctx context.Context, row *storage.Row) (int64, error)
}

// Policy selects which recoverable error classes end the run instead of
// being skipped. The zero value skips both.
type Policy struct {
	FailOnDecode  bool
	FailOnInvalid bool
}

// Strict returns a Policy that makes every skip fatal.
func Strict() Policy {
	return Policy{FailOnDecode: true, FailOnInvalid: true}
}

// Summary counts what happened during a run.
type Summary struct {
	RunID          string
	Started        time.Time
	Finished       time.Time
	Files          int
	Records        int
	Inserted       int
	DecodeErrors   int
	InvalidRecords int
}

// Skipped returns the number of records that were not stored.
func (s *Summary) Skipped() int {
	return s.DecodeErrors + s.InvalidRecords
}

// Duration returns the wall time of the run.
func (s *Summary) Duration() time.Duration {
	return s.Finished.Sub(s.Started)
}

// Loader runs the ingestion loop against one store.
type Loader struct {
	store  Inserter
	diag   *Diagnostics
	policy Policy
	logger *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithPolicy sets the skip-or-fail policy.
func WithPolicy(p Policy) Option {
	return func(l *Loader) { l.policy = p }
}

// WithLogger sets the logger used for run lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) { l.logger = logger }
}

// NewLoader creates a Loader that inserts into store and writes skip
// diagnostics to diag.
func NewLoader(store Inserter, diag *Diagnostics, opts ...Option) *Loader {
	l := &Loader{
		store:  store,
		diag:   diag,
		logger: slog.Default(),
	}
	if l.diag == nil {
		l.diag = NewDiagnostics(nil)
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run loads every path in paths. The returned Summary is populated even
// when Run fails, covering the work done up to the failure.
func (l *Loader) Run(ctx context.Context, paths iter.Seq2[string, error]) (*Summary, error) {
	sum := &Summary{
		RunID:   uuid.NewString(),
		Started: time.Now(),
	}
	defer func() { sum.Finished = time.Now() }()

	log := l.logger.With("run_id", sum.RunID)
	log.Info("ingest started")

	for path, err := range paths {
		if err != nil {
			return sum, err
		}
		if err := ctx.Err(); err != nil {
			return sum, fmt.Errorf("operation cancelled: %w", err)
		}

		log.Debug("loading file", "path", path)
		if err := l.loadFile(ctx, path, sum); err != nil {
			return sum, err
		}
		sum.Files++
	}

	log.Info("ingest finished",
		"files", sum.Files,
		"records", sum.Records,
		"inserted", sum.Inserted,
		"skipped", sum.Skipped(),
	)
	return sum, nil
}

// loadFile streams the records of one file into the store. The file is
// closed before loadFile returns.
func (l *Loader) loadFile(ctx context.Context, path string, sum *Summary) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFileOpen, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // short records are reported by the parser
	r.LazyQuotes = true    // a bare quote inside an unquoted field is data

	for n := 1; ; n++ {
		if n%contextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("operation cancelled: %w", err)
			}
		}

		fields, err := r.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return fmt.Errorf("%w: %s: %w", ErrFileOpen, path, err)
			}
			sum.Records++
			sum.DecodeErrors++
			l.diag.Undecodable(err, path)
			if l.policy.FailOnDecode {
				return fmt.Errorf("%w: %s: %w", ErrRejected, path, err)
			}
			continue
		}
		sum.Records++

		if err := checkUTF8(r, fields); err != nil {
			sum.DecodeErrors++
			l.diag.Undecodable(err, path)
			if l.policy.FailOnDecode {
				return fmt.Errorf("%w: %s: %w", ErrRejected, path, err)
			}
			continue
		}

		row, err := record.Parse(fields)
		if err != nil {
			sum.InvalidRecords++
			l.diag.Rejected(err, path, fields)
			if l.policy.FailOnInvalid {
				return fmt.Errorf("%w: %s: %w", ErrRejected, path, err)
			}
			continue
		}

		if _, err := l.store.Insert(ctx, row); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInsert, path, err)
		}
		sum.Inserted++
	}
}

// checkUTF8 reports the first field of the last read record that is not
// valid UTF-8.
func checkUTF8(r *csv.Reader, fields []string) error {
	for i, field := range fields {
		if !utf8.ValidString(field) {
			line, _ := r.FieldPos(i)
			return fmt.Errorf("%w in field %d on line %d", ErrInvalidUTF8, i+1, line)
		}
	}
	return nil
}
