// Package convert wires the pipeline together: scan the dump into
// statements, extract schemas and rows, emit CSV. One forward pass, one
// goroutine; the first error aborts the run.
package convert

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/leengari/dumpcsv/internal/csvout"
	"github.com/leengari/dumpcsv/internal/dump"
	"github.com/leengari/dumpcsv/internal/parser"
	"github.com/leengari/dumpcsv/internal/scan"
)

// Options describe one conversion run
type Options struct {
	DumpPath   string
	OutputDir  string
	NullMarker string
	Delimiter  rune
	Logger     *slog.Logger
}

// Summary reports what a successful run produced
type Summary struct {
	Tables     int
	Rows       int
	Statements int // statements seen, including skipped ones
}

// Run converts one dump file into per-table CSV files.
// On failure no final .csv file from this run is left behind; temp files
// are discarded.
func Run(opts Options) (*Summary, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("run_id", uuid.NewString()))

	raw, err := os.ReadFile(opts.DumpPath)
	if err != nil {
		return nil, fmt.Errorf("read dump file: %w", err)
	}
	logger.Info("conversion started",
		slog.String("dump", opts.DumpPath),
		slog.String("output_dir", opts.OutputDir),
		slog.Int("bytes", len(raw)),
	)

	registry := dump.NewRegistry()
	writer, err := csvout.NewWriter(csvout.Options{
		Dir:        opts.OutputDir,
		NullMarker: opts.NullMarker,
		Delimiter:  opts.Delimiter,
	}, logger)
	if err != nil {
		return nil, err
	}
	defer writer.Discard() // no-op after a successful Close

	sum := &Summary{}
	scanner := scan.New(string(raw))
	for scanner.Scan() {
		stmt := scanner.Statement()
		sum.Statements++

		switch parser.Classify(stmt.Text) {
		case parser.KindCreateTable:
			table, err := parser.ParseCreateTable(stmt)
			if err != nil {
				return nil, err
			}
			if err := registry.Add(table); err != nil {
				return nil, err
			}
			if err := writer.Create(table); err != nil {
				return nil, err
			}
			logger.Debug("table defined",
				slog.String("table", table.Name),
				slog.Int("columns", len(table.Columns)),
				slog.Int("line", table.Line),
			)

		case parser.KindInsert:
			ins, err := parser.ParseInsert(stmt)
			if err != nil {
				return nil, err
			}
			table, ok := registry.Lookup(ins.Table)
			if !ok {
				return nil, &dump.UnknownTableError{Table: ins.Table, Line: ins.Line}
			}
			if err := checkColumns(table, ins); err != nil {
				return nil, err
			}
			for i, row := range ins.Rows {
				if len(row) != len(table.Columns) {
					return nil, &dump.RowParseError{
						Table:  table.Name,
						Line:   ins.Line,
						Tuple:  i,
						Reason: arityReason(len(row), len(table.Columns)),
					}
				}
				if err := writer.WriteRow(table.Name, row); err != nil {
					return nil, err
				}
			}
			sum.Rows += len(ins.Rows)

		default:
			logger.Debug("statement skipped",
				slog.Int("line", stmt.Line),
				slog.String("statement", dump.Preview(stmt.Text)),
			)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if err := writer.Close(); err != nil {
		return nil, err
	}
	sum.Tables = registry.Len()

	logger.Info("conversion finished",
		slog.Int("tables", sum.Tables),
		slog.Int("rows", sum.Rows),
		slog.Int("statements", sum.Statements),
	)
	return sum, nil
}

// checkColumns rejects an explicit INSERT column list that does not
// match the table definition. Reordered or partial inserts would break
// the positional mapping between tuples and the header row.
func checkColumns(table *dump.Table, ins *parser.Insert) error {
	if ins.Columns == nil {
		return nil
	}
	if len(ins.Columns) != len(table.Columns) {
		return &dump.RowParseError{
			Table:  table.Name,
			Line:   ins.Line,
			Tuple:  -1,
			Reason: arityReason(len(ins.Columns), len(table.Columns)),
		}
	}
	for i, col := range ins.Columns {
		if col != table.Columns[i] {
			return &dump.RowParseError{
				Table:  table.Name,
				Line:   ins.Line,
				Tuple:  -1,
				Reason: "column list does not match table definition order",
			}
		}
	}
	return nil
}

func arityReason(got, want int) string {
	return fmt.Sprintf("expected %d values, got %d", want, got)
}
