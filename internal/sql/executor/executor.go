package executor

import (
	"errors"
	"fmt"
	"iter"

	"go.uber.org/zap"

	"github.com/tuannm99/stbdb/internal/heap"
	"github.com/tuannm99/stbdb/internal/record"
	"github.com/tuannm99/stbdb/internal/sql/parser"
)

var ErrUnsupportedStatement = errors.New("executor: unsupported statement")

// tableStore is a small seam for unit-testing Executor without a real file.
type tableStore interface {
	Insert(r record.Row) error
	Rows() iter.Seq2[record.Row, error]
}

var _ tableStore = (*heap.Table)(nil)

// Executor runs parsed statements against the table.
type Executor struct {
	table tableStore
	log   *zap.Logger
}

func NewExecutor(t *heap.Table, log *zap.Logger) *Executor {
	return newExecutor(t, log)
}

func newExecutor(t tableStore, log *zap.Logger) *Executor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Executor{table: t, log: log}
}

func (e *Executor) Execute(stmt parser.Statement) (*Result, error) {
	switch s := stmt.(type) {
	case *parser.InsertStmt:
		return e.execInsert(s)
	case *parser.SelectStmt:
		return e.execSelect()
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedStatement, stmt)
	}
}

func (e *Executor) execInsert(s *parser.InsertStmt) (*Result, error) {
	if err := e.table.Insert(s.Row); err != nil {
		return nil, err
	}
	return &Result{AffectedRows: 1}, nil
}

func (e *Executor) execSelect() (*Result, error) {
	res := &Result{Columns: columnNames()}
	for row, err := range e.table.Rows() {
		if err != nil {
			return nil, fmt.Errorf("select: %w", err)
		}
		res.Rows = append(res.Rows, row)
	}
	res.AffectedRows = int64(len(res.Rows))

	e.log.Debug("executor: select", zap.Int("rows", len(res.Rows)))
	return res, nil
}

func columnNames() []string {
	cols := make([]string, 0, record.RowSchema.NumCols())
	for _, c := range record.RowSchema.Cols {
		cols = append(cols, c.Name)
	}
	return cols
}
