package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cognicore/onehot/pkg/onehot/internalerr"
)

// ReadOptions controls how a delimited file is decoded.
type ReadOptions struct {
	// Encoding names the file's text encoding; "" means UTF-8.
	Encoding string
	// Comma is the field delimiter; 0 picks ',' (or '\t' for .tsv files).
	Comma rune
}

// ReadCSV loads a whole delimited file into memory. The first row is the
// header. A missing file wraps fs.ErrNotExist; undecodable text wraps
// internalerr.ErrDecode.
func ReadCSV(path string, opts ReadOptions) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	data, err := decode(raw, opts.Encoding)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}

	comma := opts.Comma
	if comma == 0 {
		comma = ','
		if strings.EqualFold(filepath.Ext(path), ".tsv") {
			comma = '\t'
		}
	}

	t, err := Parse(bytes.NewReader(data), comma)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return t, nil
}

// Parse reads UTF-8 delimited text. Ragged rows are allowed.
func Parse(r io.Reader, comma rune) (*Table, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty file", internalerr.ErrInvalidInput)
	}
	header := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		header[i] = cleanCell(cell)
	}
	t := New(header)
	t.Rows = rows[1:]
	return t, nil
}

// WriteCSV writes t as UTF-8 CSV. The file is written next to path and
// renamed into place, so a failed write leaves no partial output.
func WriteCSV(path string, t *Table) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(tmp), err)
	}
	if err := Write(f, t); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close %s: %w", filepath.Base(tmp), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename output: %w", err)
	}
	return nil
}

// Write encodes t as CSV to w.
func Write(w io.Writer, t *Table) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	record := make([]string, len(t.Columns))
	for i := range t.Rows {
		for j := range record {
			record[j] = t.Value(i, j)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// IsNotExist reports whether err stems from a missing file.
func IsNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}

// cleanCell strips a byte order mark left on the first header cell.
func cleanCell(v string) string {
	return strings.TrimPrefix(v, "\ufeff")
}
