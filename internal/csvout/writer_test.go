package csvout

import (
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leengari/dumpcsv/internal/dump"
)

func newTestWriter(t *testing.T, opts Options) (*Writer, string) {
	t.Helper()
	dir := t.TempDir()
	opts.Dir = filepath.Join(dir, "out")
	w, err := NewWriter(opts, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return w, opts.Dir
}

func TestWriterBasic(t *testing.T) {
	w, dir := newTestWriter(t, Options{NullMarker: "NULL"})

	table := &dump.Table{Name: "users", Columns: []string{"id", "name", "bio"}}
	require.NoError(t, w.Create(table))
	require.NoError(t, w.WriteRow("users", dump.Row{dump.Number("1"), dump.String("Alice"), dump.Null()}))
	require.NoError(t, w.WriteRow("users", dump.Row{dump.Number("2"), dump.String("Bob; the builder"), dump.String(`Likes "quotes"`)}))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(filepath.Join(dir, "users.csv"))
	require.NoError(t, err)

	want := "id,name,bio\n" +
		"1,Alice,NULL\n" +
		"2,Bob; the builder,\"Likes \"\"quotes\"\"\"\n"
	assert.Equal(t, want, string(data))

	// temp file must be gone after Close
	_, err = os.Stat(filepath.Join(dir, "users.csv.tmp"))
	assert.True(t, os.IsNotExist(err))
}

func TestWriterNullVersusEmptyString(t *testing.T) {
	w, dir := newTestWriter(t, Options{NullMarker: "NULL"})

	table := &dump.Table{Name: "t", Columns: []string{"a", "b"}}
	require.NoError(t, w.Create(table))
	require.NoError(t, w.WriteRow("t", dump.Row{dump.Null(), dump.String("")}))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(filepath.Join(dir, "t.csv"))
	require.NoError(t, err)
	assert.Equal(t, "a,b\nNULL,\n", string(data))
}

func TestWriterRoundTrip(t *testing.T) {
	w, dir := newTestWriter(t, Options{NullMarker: "NULL"})

	values := []string{
		"plain",
		"comma, inside",
		`quote " inside`,
		"newline\ninside",
		"all, of \"them\"\ntogether",
	}

	table := &dump.Table{Name: "t", Columns: []string{"v"}}
	require.NoError(t, w.Create(table))
	for _, v := range values {
		require.NoError(t, w.WriteRow("t", dump.Row{dump.String(v)}))
	}
	require.NoError(t, w.Close())

	f, err := os.Open(filepath.Join(dir, "t.csv"))
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, len(values)+1)
	for i, v := range values {
		assert.Equal(t, v, records[i+1][0], "row %d did not round-trip", i+1)
	}
}

func TestWriterCustomOptions(t *testing.T) {
	w, dir := newTestWriter(t, Options{NullMarker: `\N`, Delimiter: ';'})

	table := &dump.Table{Name: "t", Columns: []string{"a", "b"}}
	require.NoError(t, w.Create(table))
	require.NoError(t, w.WriteRow("t", dump.Row{dump.Null(), dump.String("x;y")}))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(filepath.Join(dir, "t.csv"))
	require.NoError(t, err)
	assert.Equal(t, "a;b\n\\N;\"x;y\"\n", string(data))
}

func TestWriterFilenameCollision(t *testing.T) {
	w, _ := newTestWriter(t, Options{})

	require.NoError(t, w.Create(&dump.Table{Name: "a b", Columns: []string{"x"}}))
	err := w.Create(&dump.Table{Name: "a*b", Columns: []string{"x"}})
	require.Error(t, err)

	var owe *dump.OutputWriteError
	require.ErrorAs(t, err, &owe)
	assert.Equal(t, "a*b", owe.Table)
	assert.Contains(t, err.Error(), "collides")

	w.Discard()
}

func TestWriterDiscardRemovesTempFiles(t *testing.T) {
	w, dir := newTestWriter(t, Options{})

	require.NoError(t, w.Create(&dump.Table{Name: "t", Columns: []string{"x"}}))
	require.NoError(t, w.WriteRow("t", dump.Row{dump.Number("1")}))
	w.Discard()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no files should remain after Discard")
}

func TestSanitizeName(t *testing.T) {
	tests := map[string]string{
		"users":       "users",
		"order items": "order_items",
		"a/b":         "a_b",
		"..":          "__",
		"":            "_",
		"naïve":       "na_ve",
	}
	for in, want := range tests {
		assert.Equal(t, want, sanitizeName(in), "input %q", in)
	}
}

func TestWriterUnknownTable(t *testing.T) {
	w, _ := newTestWriter(t, Options{})
	err := w.WriteRow("ghost", dump.Row{dump.Number("1")})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "no output file open"))
}
