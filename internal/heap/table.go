package heap

import (
	"errors"
	"fmt"
	"iter"

	"go.uber.org/zap"

	"github.com/tuannm99/stbdb/internal/metrics"
	"github.com/tuannm99/stbdb/internal/record"
	"github.com/tuannm99/stbdb/internal/storage"
)

var (
	ErrTableFull   = errors.New("heap: table full")
	ErrTableClosed = errors.New("heap: table is closed")
)

type Options struct {
	PageSize int // default storage.PageSize
	MaxPages int // default storage.MaxPages

	Logger  *zap.Logger
	Metrics *metrics.Metrics
}

// Table is the single append-only table of a database file. Row i lives in
// page i/RowsPerPage at slot i%RowsPerPage; rows are never moved or removed.
type Table struct {
	pager *storage.Pager

	numRows     uint32
	rowsPerPage uint32
	maxRows     uint32
	closed      bool

	log     *zap.Logger
	metrics *metrics.Metrics
}

// Open opens the database file and recovers the row count from its length.
func Open(path string, opts Options) (*Table, error) {
	if opts.PageSize == 0 {
		opts.PageSize = storage.PageSize
	}
	if opts.MaxPages == 0 {
		opts.MaxPages = storage.MaxPages
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	rowsPerPage := opts.PageSize / record.RowSize
	if rowsPerPage == 0 {
		return nil, fmt.Errorf("%w: page of %d bytes cannot hold a %d byte row",
			storage.ErrInvalidPageSize, opts.PageSize, record.RowSize)
	}

	pager, err := storage.Open(path, opts.PageSize, opts.MaxPages,
		storage.WithLogger(opts.Logger),
		storage.WithMetrics(opts.Metrics),
	)
	if err != nil {
		return nil, err
	}

	t := &Table{
		pager:       pager,
		rowsPerPage: uint32(rowsPerPage),
		maxRows:     uint32(rowsPerPage * opts.MaxPages),
		log:         opts.Logger,
		metrics:     opts.Metrics,
	}

	numRows, err := t.rowsInFile(pager.FileLength())
	if err != nil {
		_ = pager.Close()
		return nil, err
	}
	t.numRows = numRows
	t.metrics.SetRows(numRows)

	t.log.Info("table: opened",
		zap.String("path", path),
		zap.Uint32("rows", t.numRows),
		zap.Uint32("rows_per_page", t.rowsPerPage),
		zap.Uint32("max_rows", t.maxRows),
	)
	return t, nil
}

// rowsInFile: every full page holds RowsPerPage rows, the trailing partial
// page holds remainder/RowSize rows.
func (t *Table) rowsInFile(length int64) (uint32, error) {
	pageSize := int64(t.pager.PageSize())
	fullPages := length / pageSize
	rem := length % pageSize

	if rem%int64(record.RowSize) != 0 {
		return 0, fmt.Errorf("%w: trailing %d bytes are not a whole number of %d byte rows",
			storage.ErrCorruptFile, rem, record.RowSize)
	}

	n := uint32(fullPages)*t.rowsPerPage + uint32(rem/int64(record.RowSize))
	if n > t.maxRows {
		return 0, fmt.Errorf("%w: %d rows exceed capacity %d", storage.ErrCorruptFile, n, t.maxRows)
	}
	return n, nil
}

func (t *Table) NumRows() uint32     { return t.numRows }
func (t *Table) RowsPerPage() uint32 { return t.rowsPerPage }
func (t *Table) MaxRows() uint32     { return t.maxRows }
func (t *Table) PageSize() int       { return t.pager.PageSize() }
func (t *Table) MaxPages() int       { return t.pager.MaxPages() }

// Address maps a row index to its page and slot.
func (t *Table) Address(rowNum uint32) TID {
	return TID{
		PageID: rowNum / t.rowsPerPage,
		Slot:   uint16(rowNum % t.rowsPerPage),
	}
}

// slot returns the row slot bytes of rowNum, loading its page if needed.
func (t *Table) slot(rowNum uint32) ([]byte, error) {
	id := t.Address(rowNum)
	pg, err := t.pager.GetPage(int(id.PageID))
	if err != nil {
		return nil, err
	}
	return pg.Slot(id.Offset(record.RowSize), record.RowSize)
}

// Insert appends r. A row that fails validation, or a full table, leaves the
// table unchanged.
func (t *Table) Insert(r record.Row) error {
	if t.closed {
		return ErrTableClosed
	}
	if err := r.Validate(); err != nil {
		return err
	}
	if t.numRows >= t.maxRows {
		return ErrTableFull
	}

	c := t.End()
	buf, err := c.slot()
	if err != nil {
		return err
	}
	if err := record.EncodeRow(r, buf); err != nil {
		return err
	}

	t.numRows++
	t.metrics.RowInserted(t.numRows)
	t.log.Debug("table: inserted row",
		zap.Uint32("row", c.RowNum()),
		zap.Uint32("page", t.Address(c.RowNum()).PageID),
	)
	return nil
}

// Scan calls fn for every row in insertion order. A non-nil error from fn
// stops the scan and is returned.
func (t *Table) Scan(fn func(rowNum uint32, row record.Row) error) error {
	if t.closed {
		return ErrTableClosed
	}
	for c := t.Start(); !c.EndOfTable(); c.Advance() {
		row, err := c.Value()
		if err != nil {
			return err
		}
		t.metrics.RowScanned()
		if err := fn(c.RowNum(), row); err != nil {
			return err
		}
	}
	return nil
}

// Rows is Scan as an iterator; each range over it starts from row 0.
func (t *Table) Rows() iter.Seq2[record.Row, error] {
	return func(yield func(record.Row, error) bool) {
		errStop := errors.New("stop")
		err := t.Scan(func(_ uint32, row record.Row) error {
			if !yield(row, nil) {
				return errStop
			}
			return nil
		})
		if err != nil && !errors.Is(err, errStop) {
			yield(record.Row{}, err)
		}
	}
}

// Close writes back every loaded page and closes the file. Full pages are
// written whole; the last page only up to its last row.
func (t *Table) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true

	var errs []error
	for _, pageNum := range t.pager.CachedPages() {
		first := uint32(pageNum) * t.rowsPerPage
		if first >= t.numRows {
			continue
		}

		rows := min(t.numRows-first, t.rowsPerPage)
		used := int(rows) * record.RowSize
		if rows == t.rowsPerPage {
			used = t.pager.PageSize()
		}
		if err := t.pager.Flush(pageNum, used); err != nil {
			errs = append(errs, err)
		}
	}

	if err := t.pager.Close(); err != nil {
		errs = append(errs, err)
	}

	t.log.Info("table: closed", zap.Uint32("rows", t.numRows), zap.Int("errors", len(errs)))
	return errors.Join(errs...)
}
