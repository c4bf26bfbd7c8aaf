package csvsink

import (
	"context"

	"github.com/cognicore/onehot/pkg/onehot/table"
)

// Sink writes the encoded table to a single CSV file.
type Sink struct {
	path string
}

// New creates a sink targeting path. Nothing is touched until WriteTable.
func New(path string) *Sink {
	return &Sink{path: path}
}

// Path returns the output file.
func (s *Sink) Path() string {
	return s.path
}

// WriteTable writes t atomically. The table name is unused: a CSV file holds
// exactly one table.
func (s *Sink) WriteTable(ctx context.Context, name string, t *table.Table) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return table.WriteCSV(s.path, t)
}

// Close implements store.Sink.
func (s *Sink) Close() error { return nil }
