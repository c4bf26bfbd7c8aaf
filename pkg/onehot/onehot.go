// Package onehot turns a free-text, multi-valued survey column into a
// fixed-width one-hot table keyed by a canonical phrase vocabulary.
//
// The heavy lifting lives in the sub-packages: ingest normalizes raw text
// into phrase lists and encodes them, table reads and writes delimited
// files, store persists the result and analytics reports what the
// vocabulary captured. Encoder ties them together for one batch run.
package onehot

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/onehot/pkg/onehot/analytics"
	"github.com/cognicore/onehot/pkg/onehot/ingest"
	"github.com/cognicore/onehot/pkg/onehot/internalerr"
	"github.com/cognicore/onehot/pkg/onehot/table"
)

// DefaultRawColumn is the survey column holding the free-text answers.
const DefaultRawColumn = "Employment"

// Options configures an Encoder
type Options struct {
	Pipeline  *ingest.Pipeline
	RawColumn string // "" means DefaultRawColumn
	Prefix    string // prepended to every phrase column name
	Logger    *slog.Logger
}

// Encoder is the batch facade: records in, one-hot table out.
type Encoder struct {
	pipeline  *ingest.Pipeline
	rawColumn string
	prefix    string
	logger    *slog.Logger

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// New creates an Encoder with the given dependencies
func New(opts Options) *Encoder {
	raw := opts.RawColumn
	if raw == "" {
		raw = DefaultRawColumn
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Encoder{
		pipeline:  opts.Pipeline,
		rawColumn: raw,
		prefix:    opts.Prefix,
		logger:    logger,
		entropy:   ulid.Monotonic(rand.Reader, 0),
	}
}

// Pipeline returns the per-record pipeline.
func (e *Encoder) Pipeline() *ingest.Pipeline {
	return e.pipeline
}

// Summary describes one encoding pass.
type Summary struct {
	RunID            string
	Records          int
	EmptyRecords     int // records whose phrase list was empty
	RecordsWithMatch int // records with at least one vocabulary phrase
	Columns          int
	Vocabulary       int
	Collisions       []string // phrase columns that reuse an input column name
	Coverage         analytics.CoverageReport
	Stats            analytics.Stats
	Duration         time.Duration
}

// Encode builds the output table: every input column except the raw one,
// followed by one integer column per vocabulary phrase in vocabulary order.
// Row order is preserved and records is left untouched.
func (e *Encoder) Encode(records *table.Table) (*table.Table, Summary, error) {
	start := time.Now()
	summary := Summary{RunID: e.newRunID()}

	if e.pipeline == nil {
		return nil, summary, fmt.Errorf("%w: encoder has no pipeline", internalerr.ErrInvalidConfig)
	}
	rawIdx := records.ColumnIndex(e.rawColumn)
	if rawIdx < 0 {
		return nil, summary, fmt.Errorf("%w: %q", internalerr.ErrMissingColumn, e.rawColumn)
	}

	vocab := e.pipeline.Vocabulary()
	phrases := vocab.Phrases()

	// Column layout
	kept := make([]int, 0, records.Width()-1)
	for i := range records.Columns {
		if i != rawIdx {
			kept = append(kept, i)
		}
	}
	columns := make([]string, 0, len(kept)+len(phrases))
	types := make([]table.ColumnType, 0, len(kept)+len(phrases))
	existing := make(map[string]struct{}, len(kept))
	for _, i := range kept {
		columns = append(columns, records.Columns[i])
		types = append(types, records.TypeOf(i))
		existing[records.Columns[i]] = struct{}{}
	}
	for _, p := range phrases {
		name := e.prefix + p
		if _, clash := existing[name]; clash {
			summary.Collisions = append(summary.Collisions, name)
		}
		columns = append(columns, name)
		types = append(types, table.TypeInteger)
	}

	// Encode every record, then materialize the table once
	analyzer := analytics.NewAnalyzer()
	rows := make([][]string, records.Len())
	for r := 0; r < records.Len(); r++ {
		rec := e.pipeline.Process(records.Cell(r, rawIdx))
		analyzer.Process(rec.Tokens)

		row := make([]string, 0, len(columns))
		for _, i := range kept {
			row = append(row, records.Value(r, i))
		}
		matched := false
		for _, v := range rec.Row.Values() {
			if v > 0 {
				matched = true
			}
			row = append(row, strconv.Itoa(v))
		}
		if matched {
			summary.RecordsWithMatch++
		}
		rows[r] = row
	}

	out := &table.Table{Columns: columns, Types: types, Rows: rows}

	stats := analyzer.Snapshot()
	summary.Records = records.Len()
	summary.EmptyRecords = int(stats.EmptyRecords)
	summary.Columns = out.Width()
	summary.Vocabulary = vocab.Len()
	summary.Stats = stats
	summary.Coverage = analytics.Coverage(stats, vocab)
	summary.Duration = time.Since(start)

	e.logSummary(summary)
	return out, summary, nil
}

func (e *Encoder) logSummary(s Summary) {
	log := e.logger.With("run_id", s.RunID)
	for _, name := range s.Collisions {
		log.Warn("phrase column shadows an input column", "column", name)
	}
	for _, ps := range s.Coverage.UnmatchedPhrases {
		log.Debug("phrase outside vocabulary", "phrase", ps.Phrase, "records", ps.Records)
	}
	log.Info("records encoded",
		"records", s.Records,
		"empty", s.EmptyRecords,
		"matched_records", s.RecordsWithMatch,
		"columns", s.Columns,
		"coverage", fmt.Sprintf("%.1f%%", 100*s.Coverage.Ratio()),
		"duration", s.Duration.Round(time.Millisecond),
	)
}

func (e *Encoder) newRunID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return ulid.MustNew(ulid.Now(), e.entropy).String()
}
