package parser

import "github.com/tuannm99/stbdb/internal/record"

// Statement is the root interface for all statements.
type Statement interface {
	stmtNode()
}

// ----- INSERT -----
// insert <stb> <title> <provider> <date> <rev> <time>
type InsertStmt struct {
	Row record.Row // validated
}

func (*InsertStmt) stmtNode() {}

// ----- SELECT -----
// select: every row in insertion order.
type SelectStmt struct{}

func (*SelectStmt) stmtNode() {}
