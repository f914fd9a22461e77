// Package split locates statement boundaries in PostgreSQL SQL text.
//
// Scan makes a single forward pass over the text and reports the semicolons
// that separate statements and the ranges covered by comments, ignoring
// semicolons inside quoted strings, quoted identifiers, dollar-quoted strings
// and comments. SplitStatements and NonEmptyStatements rebuild the statement
// text from those split points.
//
// All positions are byte offsets into the Go string.
package split

import "fmt"

// Kind tags a SplitPoint
type Kind int

const (
	Semicolon Kind = iota // statement separator
	Comment               // -- or /* */ comment range
)

// String returns a string representation of Kind
func (k Kind) String() string {
	switch k {
	case Semicolon:
		return "semicolon"
	case Comment:
		return "comment"
	default:
		return "unknown"
	}
}

// MarshalText encodes Kind by name
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// SplitPoint is either a statement-terminating semicolon or a comment range.
// Start is inclusive and End exclusive; a semicolon has End == Start+1.
type SplitPoint struct {
	Kind  Kind `json:"kind"`
	Start int  `json:"start"`
	End   int  `json:"end"`
}

// SemicolonAt returns the split point for a semicolon at pos
func SemicolonAt(pos int) SplitPoint {
	return SplitPoint{Kind: Semicolon, Start: pos, End: pos + 1}
}

// CommentRange returns the split point for a comment spanning [start, end)
func CommentRange(start, end int) SplitPoint {
	return SplitPoint{Kind: Comment, Start: start, End: end}
}

// IsSemicolon reports whether p separates statements
func (p SplitPoint) IsSemicolon() bool {
	return p.Kind == Semicolon
}

func (p SplitPoint) String() string {
	if p.Kind == Semicolon {
		return fmt.Sprintf("semicolon(%d)", p.Start)
	}
	return fmt.Sprintf("comment(%d,%d)", p.Start, p.End)
}

// Unterminated names the kind of construct left open at end of text.
// The zero value means the scan completed.
type Unterminated string

const (
	UnterminatedString     Unterminated = "quoted string"
	UnterminatedIdentifier Unterminated = "quoted identifier"
	UnterminatedDollar     Unterminated = "dollar-quoted string"
	UnterminatedComment    Unterminated = "/* comment"
)

// ScanResult is the output of Scan
type ScanResult struct {
	Points       []SplitPoint `json:"points"`
	Unterminated Unterminated `json:"unterminated,omitempty"`
	// UnterminatedAt is the offset of the opening delimiter of the
	// unterminated construct, or -1.
	UnterminatedAt int `json:"unterminated_at"`
}

// Complete reports whether every quote, dollar quote and comment was closed
func (r ScanResult) Complete() bool {
	return r.Unterminated == ""
}

// Span is a byte range [Start, End) of the input text
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Empty reports whether the span covers no text
func (s Span) Empty() bool {
	return s.End <= s.Start
}

// UnterminatedError reports a construct left open by the text
type UnterminatedError struct {
	Kind   Unterminated
	Offset int
}

func (e *UnterminatedError) Error() string {
	return fmt.Sprintf("unterminated %s at offset %d", e.Kind, e.Offset)
}

// Split scans text and returns its non-empty statements, comments included.
// An unterminated construct yields an *UnterminatedError and no statements.
func Split(text string, standardConformingStrings bool) ([]string, error) {
	res := Scan(text, standardConformingStrings)
	if !res.Complete() {
		return nil, &UnterminatedError{Kind: res.Unterminated, Offset: res.UnterminatedAt}
	}
	return NonEmptyStatements(text, res.Points), nil
}
