// Package csvout turns extracted tables and rows into per-table CSV
// files. Each table gets <name>.csv in the output directory, written
// through a .tmp sibling and renamed into place on successful close so
// a failed run never leaves a truncated final file behind.
package csvout

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/leengari/dumpcsv/internal/dump"
)

// Options control how the CSV files are produced
type Options struct {
	Dir        string // output directory, created if absent
	NullMarker string // what a SQL NULL becomes; empty string is allowed
	Delimiter  rune   // field delimiter, ',' when zero
}

// Writer owns one open CSV file per table seen in the dump
type Writer struct {
	opts   Options
	logger *slog.Logger
	files  map[string]*tableFile // table name → open file
	names  map[string]string     // sanitized filename → table name
	order  []string              // tables in creation order
}

type tableFile struct {
	table   string
	columns int
	path    string
	tmpPath string
	f       *os.File
	csv     *csv.Writer
	rows    int
}

func NewWriter(opts Options, logger *slog.Logger) (*Writer, error) {
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}
	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		return nil, &dump.OutputWriteError{Path: opts.Dir, Err: err}
	}
	return &Writer{
		opts:   opts,
		logger: logger,
		files:  make(map[string]*tableFile),
		names:  make(map[string]string),
	}, nil
}

// Create opens the output file for a newly defined table and writes its
// header row. Two tables whose names sanitize to the same filename are
// a collision, reported rather than silently overwritten.
func (w *Writer) Create(t *dump.Table) error {
	base := sanitizeName(t.Name) + ".csv"
	if prev, taken := w.names[base]; taken {
		return &dump.OutputWriteError{
			Table: t.Name,
			Path:  filepath.Join(w.opts.Dir, base),
			Err:   fmt.Errorf("output filename collides with table %q", prev),
		}
	}

	path := filepath.Join(w.opts.Dir, base)
	tmpPath := path + ".tmp"

	f, err := os.Create(tmpPath)
	if err != nil {
		return &dump.OutputWriteError{Table: t.Name, Path: tmpPath, Err: err}
	}

	cw := csv.NewWriter(f)
	cw.Comma = w.opts.Delimiter

	tf := &tableFile{
		table:   t.Name,
		columns: len(t.Columns),
		path:    path,
		tmpPath: tmpPath,
		f:       f,
		csv:     cw,
	}
	if err := cw.Write(t.Columns); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return &dump.OutputWriteError{Table: t.Name, Path: tmpPath, Err: err}
	}

	w.files[t.Name] = tf
	w.names[base] = t.Name
	w.order = append(w.order, t.Name)

	w.logger.Debug("output file created",
		slog.String("table", t.Name),
		slog.String("path", path),
		slog.Int("columns", tf.columns),
	)
	return nil
}

// WriteRow encodes one row for a previously created table. NULL becomes
// the configured marker; numbers keep their dump text; strings rely on
// encoding/csv to quote delimiters, quotes and newlines.
func (w *Writer) WriteRow(table string, row dump.Row) error {
	tf, ok := w.files[table]
	if !ok {
		return &dump.OutputWriteError{Table: table, Path: w.opts.Dir, Err: fmt.Errorf("no output file open")}
	}

	record := make([]string, len(row))
	for i, v := range row {
		if v.IsNull() {
			record[i] = w.opts.NullMarker
		} else {
			record[i] = v.Text
		}
	}
	if err := tf.csv.Write(record); err != nil {
		return &dump.OutputWriteError{Table: table, Path: tf.tmpPath, Err: err}
	}
	tf.rows++
	return nil
}

// RowCount returns the number of data rows written for table so far
func (w *Writer) RowCount(table string) int {
	if tf, ok := w.files[table]; ok {
		return tf.rows
	}
	return 0
}

// Close flushes every file and renames it into its final place.
// The first failure aborts; remaining temp files are cleaned up.
func (w *Writer) Close() error {
	for _, name := range w.order {
		tf, ok := w.files[name]
		if !ok {
			continue
		}
		tf.csv.Flush()
		if err := tf.csv.Error(); err != nil {
			w.Discard()
			return &dump.OutputWriteError{Table: tf.table, Path: tf.tmpPath, Err: err}
		}
		if err := tf.f.Close(); err != nil {
			tf.f = nil
			w.Discard()
			return &dump.OutputWriteError{Table: tf.table, Path: tf.tmpPath, Err: err}
		}
		tf.f = nil
		if err := os.Rename(tf.tmpPath, tf.path); err != nil {
			w.Discard()
			return &dump.OutputWriteError{Table: tf.table, Path: tf.path, Err: err}
		}
		tf.tmpPath = ""

		w.logger.Info("table written",
			slog.String("table", tf.table),
			slog.String("path", tf.path),
			slog.Int("rows", tf.rows),
		)
	}
	w.files = make(map[string]*tableFile)
	return nil
}

// Discard closes and removes any temp files still open. Called when the
// run fails so only complete tables from earlier runs remain on disk.
func (w *Writer) Discard() {
	for _, tf := range w.files {
		if tf.f != nil {
			tf.f.Close()
		}
		if tf.tmpPath != "" {
			os.Remove(tf.tmpPath)
		}
	}
	w.files = make(map[string]*tableFile)
}

// sanitizeName maps a table name onto a safe filename. Anything outside
// the portable set becomes '_'; the mapping is lossy, which is why
// Create checks for collisions.
func sanitizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "_"
	}
	return b.String()
}
