package repl

import (
	"strings"

	"github.com/tuannm99/stbdb/internal/record"
)

// doMetaCommand runs a line starting with '.'.
func (p *Processor) doMetaCommand(line string) error {
	switch strings.TrimSpace(line) {
	case ".exit":
		return p.terminate()
	case ".constants":
		return p.printConstants()
	case ".rows":
		return p.printf("Rows: %d\n", p.table.NumRows())
	default:
		return ErrUnrecognizedCommand
	}
}

func (p *Processor) printConstants() error {
	return p.printf("Constants:\n"+
		"ROW_SIZE: %d\n"+
		"PAGE_SIZE: %d\n"+
		"ROWS_PER_PAGE: %d\n"+
		"TABLE_MAX_PAGES: %d\n"+
		"TABLE_MAX_ROWS: %d\n",
		record.RowSize,
		p.table.PageSize(),
		p.table.RowsPerPage(),
		p.table.MaxPages(),
		p.table.MaxRows(),
	)
}
