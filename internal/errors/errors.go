package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// ParseError locates an unterminated construct in a SQL file
type ParseError struct {
	File    string
	Line    int
	Column  int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Column, e.Message)
}

// NewParseError creates a new ParseError
func NewParseError(file string, line, column int, message string) *ParseError {
	return &ParseError{
		File:    file,
		Line:    line,
		Column:  column,
		Message: message,
	}
}

// ConnectionError represents PostgreSQL connection failure
type ConnectionError struct {
	Message    string
	Suggestion string
}

func (e *ConnectionError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.Suggestion)
	}
	return e.Message
}

// NewConnectionError creates a new ConnectionError
func NewConnectionError(message, suggestion string) *ConnectionError {
	return &ConnectionError{
		Message:    message,
		Suggestion: suggestion,
	}
}

// StatementError represents the failure of a single statement
type StatementError struct {
	File     string
	Index    int // 1-indexed position among the file's statements
	Line     int
	SQL      string
	SQLError *pgconn.PgError // PostgreSQL error details
	Err      error
}

func (e *StatementError) Error() string {
	if e.SQLError != nil {
		return fmt.Sprintf("%s:%d: statement %d failed: [%s] %s", e.File, e.Line, e.Index, e.SQLError.Code, e.SQLError.Message)
	}
	return fmt.Sprintf("%s:%d: statement %d failed: %v", e.File, e.Line, e.Index, e.Err)
}

func (e *StatementError) Unwrap() error {
	return e.Err
}

// NewStatementError creates a new StatementError
func NewStatementError(file string, index, line int, sql string, err error) *StatementError {
	se := &StatementError{
		File:  file,
		Index: index,
		Line:  line,
		SQL:   sql,
		Err:   err,
	}
	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) {
		se.SQLError = pgErr
	}
	return se
}

// MismatchError reports that the splitter and the PostgreSQL parser disagree
type MismatchError struct {
	File     string
	Splitter int
	Parser   int
	Message  string
}

func (e *MismatchError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.File, e.Message)
	}
	return fmt.Sprintf("%s: splitter found %d statements, parser found %d", e.File, e.Splitter, e.Parser)
}

// NewMismatchError creates a new MismatchError
func NewMismatchError(file string, splitter, parser int, message string) *MismatchError {
	return &MismatchError{
		File:     file,
		Splitter: splitter,
		Parser:   parser,
		Message:  message,
	}
}
