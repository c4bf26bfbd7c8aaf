package store

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/cognicore/onehot/pkg/onehot/table"
)

// Sink is where an encoded table is persisted. A run writes exactly one
// table; WriteTable either stores all of it or nothing.
type Sink interface {
	WriteTable(ctx context.Context, name string, t *table.Table) error
	Close() error
}

// Kind identifies a sink implementation.
type Kind string

const (
	KindCSV    Kind = "csv"
	KindSQLite Kind = "sqlite"
	KindMemory Kind = "memory"
)

// KindForPath picks the sink for an output path by extension.
func KindForPath(path string) Kind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return KindSQLite
	default:
		return KindCSV
	}
}
