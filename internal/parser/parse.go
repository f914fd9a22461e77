package parser

import (
	"fmt"
	"io"
	"os"

	"github.com/cybertec-postgresql/pgsplit/internal/discovery"
	"github.com/cybertec-postgresql/pgsplit/internal/errors"
	"github.com/cybertec-postgresql/pgsplit/pkg/split"
)

// Parse reads a discovered file (or standard input) and splits it into statements
func Parse(file *discovery.DiscoveredFile, standardConformingStrings bool) (*ParsedSQL, error) {
	content, err := ReadSource(file)
	if err != nil {
		return nil, err
	}

	parsed := ParseString(content, standardConformingStrings)
	parsed.File = file
	if parsed.Unterminated != nil {
		parsed.Unterminated.File = file.RelativePath
	}
	return parsed, nil
}

// ReadSource returns the contents of a discovered file or of standard input
func ReadSource(file *discovery.DiscoveredFile) (string, error) {
	var content []byte
	var err error
	if file.IsStdin() {
		content, err = io.ReadAll(os.Stdin)
	} else {
		content, err = os.ReadFile(file.Path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return string(content), nil
}

// ParseString splits SQL text into its non-empty statements
func ParseString(sql string, standardConformingStrings bool) *ParsedSQL {
	res := split.Scan(sql, standardConformingStrings)
	parsed := &ParsedSQL{
		Source: sql,
		Scan:   res,
	}

	spans := split.Spans(sql, res.Points)
	stripped := split.SplitStatements(sql, res.Points, true)

	if !res.Complete() {
		// the last span runs into the unterminated construct
		spans = spans[:len(spans)-1]
		line, col := calculatePosition(sql, res.UnterminatedAt)
		parsed.Unterminated = errors.NewParseError("", line, col, "unterminated "+string(res.Unterminated))
	}

	for i, span := range spans {
		if stripped[i] == "" {
			continue // comment-only or empty
		}
		parsed.Statements = append(parsed.Statements, &Statement{
			Index:     len(parsed.Statements) + 1,
			RawSQL:    sql[span.Start:span.End],
			Stripped:  stripped[i],
			StartPos:  span.Start,
			EndPos:    span.End,
			StartLine: calculateLineNumber(sql, span.Start),
			EndLine:   calculateLineNumber(sql, span.End),
		})
	}

	return parsed
}
