package onehot

import (
	"context"
	"errors"
	"fmt"

	"github.com/cognicore/onehot/pkg/onehot/store"
	"github.com/cognicore/onehot/pkg/onehot/store/csvsink"
	"github.com/cognicore/onehot/pkg/onehot/store/sqlite"
	"github.com/cognicore/onehot/pkg/onehot/table"
)

// Job is one batch run: encode Records and write the result to Sink.
type Job struct {
	Records *table.Table
	Sink    store.Sink
	Table   string // destination table name, used by SQLite
}

// Run encodes the job's records and writes the output once. When encoding
// fails nothing is written.
func (e *Encoder) Run(ctx context.Context, job Job) (*table.Table, Summary, error) {
	if job.Sink == nil {
		return nil, Summary{}, errors.New("run: no sink")
	}
	out, summary, err := e.Encode(job.Records)
	if err != nil {
		return nil, summary, err
	}
	if err := ctx.Err(); err != nil {
		return nil, summary, err
	}
	if err := job.Sink.WriteTable(ctx, job.Table, out); err != nil {
		return nil, summary, fmt.Errorf("write output: %w", err)
	}
	e.logger.Info("output written", "run_id", summary.RunID, "table", job.Table)
	return out, summary, nil
}

// OpenSink opens the sink matching path's extension: SQLite for
// .db/.sqlite/.sqlite3, CSV for everything else.
func OpenSink(ctx context.Context, path string) (store.Sink, error) {
	switch store.KindForPath(path) {
	case store.KindSQLite:
		sink, err := sqlite.Open(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", path, err)
		}
		return sink, nil
	default:
		return csvsink.New(path), nil
	}
}
