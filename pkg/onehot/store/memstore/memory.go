package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/cognicore/onehot/pkg/onehot/table"
)

// Store is an in-memory implementation of store.Sink for tests and for
// library callers that want the encoded table back instead of a file.
type Store struct {
	mu     sync.RWMutex
	tables map[string]*table.Table
	closed bool
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{tables: make(map[string]*table.Table)}
}

// WriteTable stores a deep copy of t under name, replacing any previous one.
func (s *Store) WriteTable(ctx context.Context, name string, t *table.Table) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[name] = copyTable(t)
	return nil
}

// Table returns a copy of the stored table.
func (s *Store) Table(name string) (*table.Table, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tables[name]
	if !ok {
		return nil, false
	}
	return copyTable(t), true
}

// Names lists stored tables in sorted order.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.tables))
	for name := range s.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Closed reports whether Close was called.
func (s *Store) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

// Close implements store.Sink.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func copyTable(t *table.Table) *table.Table {
	out := &table.Table{
		Columns: append([]string(nil), t.Columns...),
		Types:   append([]table.ColumnType(nil), t.Types...),
		Rows:    make([][]string, len(t.Rows)),
	}
	for i, row := range t.Rows {
		out.Rows[i] = append([]string(nil), row...)
	}
	return out
}
