package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tuannm99/stbdb/internal/record"
)

var (
	ErrEmptyStatement        = errors.New("parser: empty statement")
	ErrSyntax                = errors.New("parser: syntax error")
	ErrUnrecognizedStatement = errors.New("parser: unrecognized keyword")
)

const (
	kwInsert = "insert"
	kwSelect = "select"
)

// Parse turns one input line into a statement. Tokens are separated by
// whitespace; keywords are lower case. Insert rows are validated here, so a
// returned *InsertStmt always holds a storable row.
func Parse(line string) (Statement, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, ErrEmptyStatement
	}

	switch fields[0] {
	case kwInsert:
		return parseInsert(fields[1:])
	case kwSelect:
		if len(fields) != 1 {
			return nil, fmt.Errorf("%w: select takes no arguments", ErrSyntax)
		}
		return &SelectStmt{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnrecognizedStatement, fields[0])
	}
}

func parseInsert(args []string) (Statement, error) {
	if len(args) != record.RowSchema.NumCols() {
		return nil, fmt.Errorf("%w: insert needs %d values, got %d",
			ErrSyntax, record.RowSchema.NumCols(), len(args))
	}

	row, err := record.ParseRow(args)
	if err != nil {
		return nil, err
	}
	return &InsertStmt{Row: row}, nil
}
