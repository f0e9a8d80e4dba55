package heap

import "github.com/tuannm99/stbdb/internal/record"

// Cursor points at one row index of a table.
type Cursor struct {
	table      *Table
	rowNum     uint32
	endOfTable bool // one past the last row
}

// Start points at row 0.
func (t *Table) Start() *Cursor {
	return &Cursor{table: t, rowNum: 0, endOfTable: t.numRows == 0}
}

// End points one past the last row, where the next insert goes.
func (t *Table) End() *Cursor {
	return &Cursor{table: t, rowNum: t.numRows, endOfTable: true}
}

func (c *Cursor) RowNum() uint32   { return c.rowNum }
func (c *Cursor) EndOfTable() bool { return c.endOfTable }

func (c *Cursor) Advance() {
	c.rowNum++
	if c.rowNum >= c.table.numRows {
		c.endOfTable = true
	}
}

func (c *Cursor) slot() ([]byte, error) {
	return c.table.slot(c.rowNum)
}

// Value decodes the row under the cursor.
func (c *Cursor) Value() (record.Row, error) {
	buf, err := c.slot()
	if err != nil {
		return record.Row{}, err
	}
	return record.DecodeRow(buf)
}
