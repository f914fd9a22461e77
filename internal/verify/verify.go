// Package verify checks the statement splitter against the PostgreSQL
// grammar, as compiled into libpg_query.
package verify

import (
	"strings"

	"github.com/cybertec-postgresql/pgsplit/internal/errors"
	"github.com/cybertec-postgresql/pgsplit/pkg/split"
	pgquery "github.com/pganalyze/pg_query_go/v6"
)

// Status is the outcome of a comparison
type Status int

const (
	StatusAgree    Status = iota // same statement count, or both reject the input
	StatusMismatch               // splitter and parser disagree
	StatusSkipped                // parser rejected the grammar, which the splitter does not check
)

// String returns a string representation of Status
func (s Status) String() string {
	switch s {
	case StatusAgree:
		return "agree"
	case StatusMismatch:
		return "mismatch"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Result holds both views of one SQL buffer
type Result struct {
	File         string             `json:"file"`
	Status       Status             `json:"-"`
	StatusName   string             `json:"status"`
	Splitter     int                `json:"splitter_statements"`
	Parser       int                `json:"parser_statements"`
	Unterminated split.Unterminated `json:"unterminated,omitempty"`
	ParserError  string             `json:"parser_error,omitempty"`
	Statements   []string           `json:"statements,omitempty"`
}

// Err returns a *errors.MismatchError when the two views disagree
func (r *Result) Err() error {
	if r.Status != StatusMismatch {
		return nil
	}
	switch {
	case r.ParserError != "" && r.Unterminated == "":
		return errors.NewMismatchError(r.File, r.Splitter, r.Parser, "parser error not detected: "+r.ParserError)
	case r.ParserError == "" && r.Unterminated != "":
		return errors.NewMismatchError(r.File, r.Splitter, r.Parser, "splitter reports unterminated "+string(r.Unterminated)+" but the parser accepts the input")
	default:
		return errors.NewMismatchError(r.File, r.Splitter, r.Parser, "")
	}
}

// Compare splits sql and parses it with the PostgreSQL parser. libpg_query
// always runs with standard_conforming_strings on, so the splitter does too.
func Compare(file, sql string) *Result {
	res := split.Scan(sql, true)
	r := &Result{
		File:         file,
		Unterminated: res.Unterminated,
	}
	if res.Complete() {
		r.Statements = split.NonEmptyStatements(sql, res.Points)
		r.Splitter = len(r.Statements)
	}

	tree, err := pgquery.Parse(sql)
	if err != nil {
		r.ParserError = err.Error()
	} else {
		r.Parser = len(tree.Stmts)
	}

	r.Status = classify(r)
	r.StatusName = r.Status.String()
	return r
}

func classify(r *Result) Status {
	switch {
	case r.ParserError != "" && r.Unterminated != "":
		return StatusAgree
	case r.ParserError != "":
		// a lexer failure the splitter should have seen, or a grammar
		// error it cannot see
		if isLexerError(r.ParserError) {
			return StatusMismatch
		}
		return StatusSkipped
	case r.Unterminated != "":
		return StatusMismatch
	case r.Splitter != r.Parser:
		return StatusMismatch
	default:
		return StatusAgree
	}
}

// isLexerError reports whether a parser message names one of the
// unterminated constructs the splitter tracks
func isLexerError(msg string) bool {
	for _, kind := range []split.Unterminated{
		split.UnterminatedString,
		split.UnterminatedIdentifier,
		split.UnterminatedDollar,
		split.UnterminatedComment,
	} {
		if strings.Contains(msg, "unterminated "+string(kind)) {
			return true
		}
	}
	return false
}
