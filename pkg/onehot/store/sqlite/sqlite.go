package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/cognicore/onehot/pkg/onehot/internalerr"
	"github.com/cognicore/onehot/pkg/onehot/table"
)

// DefaultTable is the table name used when the caller passes none.
const DefaultTable = "employment_one_hot"

// Sink writes encoded tables into a SQLite database.
type Sink struct {
	db *sql.DB
}

// Open opens (or creates) a SQLite database with WAL mode enabled.
func Open(ctx context.Context, path string) (*Sink, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode so readers are not blocked while the table is replaced
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	return &Sink{db: db}, nil
}

// Close closes the database connection
func (s *Sink) Close() error {
	return s.db.Close()
}

// WriteTable replaces table name with t inside one transaction. Text
// columns become TEXT, encoded columns INTEGER. Column names must be unique.
func (s *Sink) WriteTable(ctx context.Context, name string, t *table.Table) error {
	if name == "" {
		name = DefaultTable
	}
	if len(t.Columns) == 0 {
		return fmt.Errorf("%w: table %s has no columns", internalerr.ErrInvalidInput, name)
	}
	if dups := t.DuplicateColumns(); len(dups) > 0 {
		return fmt.Errorf("%w: column %q appears more than once", internalerr.ErrDuplicate, dups[0])
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS `+quoteIdent(name)); err != nil {
		return fmt.Errorf("drop %s: %w", name, err)
	}
	if _, err := tx.ExecContext(ctx, createStatement(name, t)); err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	if err := insertRows(ctx, tx, name, t); err != nil {
		return err
	}

	return tx.Commit()
}

func createStatement(name string, t *table.Table) string {
	defs := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		kind := "TEXT"
		if t.TypeOf(i) == table.TypeInteger {
			kind = "INTEGER NOT NULL DEFAULT 0"
		}
		defs[i] = quoteIdent(col) + " " + kind
	}
	return fmt.Sprintf("CREATE TABLE %s (\n\t%s\n)", quoteIdent(name), strings.Join(defs, ",\n\t"))
}

func insertRows(ctx context.Context, tx *sql.Tx, name string, t *table.Table) error {
	if t.Len() == 0 {
		return nil
	}
	cols := make([]string, len(t.Columns))
	marks := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		cols[i] = quoteIdent(col)
		marks[i] = "?"
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(name), strings.Join(cols, ", "), strings.Join(marks, ", "))

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	args := make([]any, len(t.Columns))
	for r := 0; r < t.Len(); r++ {
		for c := range args {
			v, err := cellValue(t, r, c)
			if err != nil {
				return fmt.Errorf("row %d: %w", r, err)
			}
			args[c] = v
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert row %d: %w", r, err)
		}
	}
	return nil
}

func cellValue(t *table.Table, row, col int) (any, error) {
	v := t.Value(row, col)
	if t.TypeOf(col) != table.TypeInteger {
		return v, nil
	}
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: column %q value %q is not an integer", internalerr.ErrInvalidInput, t.Columns[col], v)
	}
	return n, nil
}

// quoteIdent quotes an identifier for SQLite; phrases such as
// "not employed" contain spaces.
func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
