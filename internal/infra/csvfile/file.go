package csvfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"techify-quiz/internal/domain"
)

// record is one data row with the line it starts on.
type record struct {
	line   int
	fields []string
}

// readRows returns the data rows of the CSV at path, excluding the header,
// plus one RowError per line the CSV reader could not split into fields.
// A missing or empty file yields no rows.
func readRows(path string, header []string) ([]record, []domain.RowError, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return decodeRows(f, header)
}

func decodeRows(r io.Reader, header []string) ([]record, []domain.RowError, error) {
	reader := csv.NewReader(r)
	// Row width is validated per row so one short row can be skipped.
	reader.FieldsPerRecord = -1
	// Hand-edited files carry stray quotes inside unquoted text.
	reader.LazyQuotes = true

	first, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}
	if !slices.Equal(first, header) {
		return nil, nil, fmt.Errorf("unexpected header %v, want %v", first, header)
	}

	var (
		rows       []record
		unreadable []domain.RowError
	)
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return rows, unreadable, nil
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			unreadable = append(unreadable, domain.RowError{
				Line: parseErr.StartLine,
				Err:  fmt.Errorf("%w: %v", domain.ErrMalformedRow, parseErr.Err),
			})
			continue
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read row: %w", err)
		}
		line, _ := reader.FieldPos(0)
		rows = append(rows, record{line: line, fields: fields})
	}
}

func fieldsOf(rows []record) [][]string {
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.fields)
	}
	return out
}

// writeRows replaces the file at path with header plus rows. It writes a
// sibling temp file and renames it over path so readers never see a partial
// file; concurrent writers in other processes can still lose updates.
func writeRows(path string, header []string, rows [][]string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		tmp.Close()
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		tmp.Close()
		return fmt.Errorf("write rows: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
