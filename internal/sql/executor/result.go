package executor

import "github.com/tuannm99/stbdb/internal/record"

// Result is the outcome of one statement.
type Result struct {
	Columns []string
	Rows    []record.Row

	// For insert:
	AffectedRows int64
}
