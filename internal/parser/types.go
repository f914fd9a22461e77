package parser

import (
	"github.com/cybertec-postgresql/pgsplit/internal/discovery"
	"github.com/cybertec-postgresql/pgsplit/internal/errors"
	"github.com/cybertec-postgresql/pgsplit/pkg/split"
)

// ParsedSQL is a SQL buffer cut into statements
type ParsedSQL struct {
	File       *discovery.DiscoveredFile
	Source     string
	Scan       split.ScanResult
	Statements []*Statement

	// Unterminated locates the construct left open at end of text, if any.
	// Statements then holds only those terminated before it.
	Unterminated *errors.ParseError
}

// Complete reports whether every construct in the buffer was closed
func (p *ParsedSQL) Complete() bool {
	return p.Unterminated == nil
}

// Statement represents a single SQL statement with location information
type Statement struct {
	Index     int    // 1-indexed among non-empty statements
	RawSQL    string // Original SQL text, comments included, trimmed
	Stripped  string // RawSQL with comments removed
	StartPos  int    // Byte offset of RawSQL in Source
	EndPos    int
	StartLine int // 1-indexed line number
	EndLine   int // 1-indexed line number
}
