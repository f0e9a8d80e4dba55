package executor

import (
	"errors"
	"iter"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuannm99/stbdb/internal/heap"
	"github.com/tuannm99/stbdb/internal/record"
	"github.com/tuannm99/stbdb/internal/sql/parser"
)

// ---- fakes ----

type fakeTable struct {
	rows      []record.Row
	insertErr error
	scanErr   error
}

func (f *fakeTable) Insert(r record.Row) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.rows = append(f.rows, r)
	return nil
}

func (f *fakeTable) Rows() iter.Seq2[record.Row, error] {
	return func(yield func(record.Row, error) bool) {
		for _, r := range f.rows {
			if !yield(r, nil) {
				return
			}
		}
		if f.scanErr != nil {
			yield(record.Row{}, f.scanErr)
		}
	}
}

func mustParse(t *testing.T, line string) parser.Statement {
	t.Helper()
	stmt, err := parser.Parse(line)
	require.NoError(t, err)
	return stmt
}

// ---- tests ----

func TestExecute_InsertThenSelect(t *testing.T) {
	e := newExecutor(&fakeTable{}, nil)

	res, err := e.Execute(mustParse(t, "insert stb2 thehobbit warnerbros 2014-04-02 8.00 2:45"))
	require.NoError(t, err)
	require.Equal(t, int64(1), res.AffectedRows)

	res, err = e.Execute(mustParse(t, "select"))
	require.NoError(t, err)
	require.Equal(t, []string{"stb", "title", "provider", "date", "rev", "time"}, res.Columns)
	require.Len(t, res.Rows, 1)
	require.Equal(t, int64(1), res.AffectedRows)
	require.Equal(t, "(stb2, thehobbit, warnerbros, 2014-04-02, 8.000000, 2:45)", record.FormatRow(res.Rows[0]))
}

func TestExecute_InsertError(t *testing.T) {
	e := newExecutor(&fakeTable{insertErr: heap.ErrTableFull}, nil)

	_, err := e.Execute(mustParse(t, "insert a b c d 1 e"))
	require.ErrorIs(t, err, heap.ErrTableFull)
}

func TestExecute_SelectError(t *testing.T) {
	boom := errors.New("boom")
	e := newExecutor(&fakeTable{rows: []record.Row{{Stb: "a"}}, scanErr: boom}, nil)

	_, err := e.Execute(mustParse(t, "select"))
	require.ErrorIs(t, err, boom)
}

func TestExecute_Unsupported(t *testing.T) {
	e := newExecutor(&fakeTable{}, nil)

	_, err := e.Execute(nil)
	require.ErrorIs(t, err, ErrUnsupportedStatement)
}

func TestExecute_RealTable(t *testing.T) {
	tbl, err := heap.Open(filepath.Join(t.TempDir(), "test.db"), heap.Options{})
	require.NoError(t, err)
	defer func() { _ = tbl.Close() }()

	e := NewExecutor(tbl, nil)
	for _, line := range []string{
		"insert s1 t1 p1 d1 1 1",
		"insert s2 t2 p2 d2 2 2",
	} {
		_, err := e.Execute(mustParse(t, line))
		require.NoError(t, err)
	}

	res, err := e.Execute(mustParse(t, "select"))
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	require.Equal(t, "s1", res.Rows[0].Stb)
	require.Equal(t, "s2", res.Rows[1].Stb)
}
