package report

import (
	"strings"

	"github.com/cybertec-postgresql/pgsplit/internal/errors"
	"github.com/cybertec-postgresql/pgsplit/internal/parser"
	"github.com/cybertec-postgresql/pgsplit/pkg/split"
)

// SplitFile is the printable view of one parsed file
type SplitFile struct {
	File         string             `json:"file"`
	Statements   []string           `json:"statements"`
	Points       []split.SplitPoint `json:"points"`
	Unterminated *errors.ParseError `json:"-"`
	Error        string             `json:"error,omitempty"`

	// lineComment marks statements whose text ends inside a -- comment
	lineComment []bool
}

// NewSplitFile selects the statements to print from a parsed file. With
// stripComments the statements lose their comments; keepEmpty retains
// statements that hold nothing but comments and whitespace. The statement
// cut short by an unterminated construct is never included.
func NewSplitFile(parsed *parser.ParsedSQL, stripComments, keepEmpty bool) *SplitFile {
	sf := &SplitFile{
		Points:       parsed.Scan.Points,
		Unterminated: parsed.Unterminated,
	}
	if sf.Points == nil {
		sf.Points = []split.SplitPoint{}
	}
	if parsed.File != nil {
		sf.File = parsed.File.RelativePath
	}
	if parsed.Unterminated != nil {
		sf.Error = parsed.Unterminated.Error()
	}

	withComments := split.SplitStatements(parsed.Source, parsed.Scan.Points, false)
	spans := split.Spans(parsed.Source, parsed.Scan.Points)
	stripped := split.SplitStatements(parsed.Source, parsed.Scan.Points, true)
	if !parsed.Complete() {
		withComments = withComments[:len(withComments)-1]
		stripped = stripped[:len(stripped)-1]
	}

	sf.Statements = []string{}
	for i := range stripped {
		if stripped[i] == "" && !keepEmpty {
			continue
		}
		if stripComments {
			sf.Statements = append(sf.Statements, stripped[i])
			sf.lineComment = append(sf.lineComment, false)
		} else {
			sf.Statements = append(sf.Statements, withComments[i])
			sf.lineComment = append(sf.lineComment, endsInLineComment(parsed.Source, parsed.Scan.Points, spans[i]))
		}
	}
	return sf
}

// endsInLineComment reports whether span stops inside a -- comment, where
// anything written after it on the same line would be commented out.
func endsInLineComment(text string, points []split.SplitPoint, span split.Span) bool {
	if span.Empty() {
		return false
	}
	for _, p := range points {
		if p.IsSemicolon() || p.Start < span.Start {
			continue
		}
		if p.Start >= span.End {
			break
		}
		if span.End <= p.End && strings.HasPrefix(text[p.Start:], "--") {
			return true
		}
	}
	return false
}

// terminator returns the text that ends statement i when printed as SQL
func (sf *SplitFile) terminator(i int) string {
	if i < len(sf.lineComment) && sf.lineComment[i] {
		return "\n;"
	}
	return ";"
}
