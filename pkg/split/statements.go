package split

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// SplitStatements cuts text at the semicolon split points and at the end of
// text, returning one trimmed statement per terminator. Statements may be
// empty or consist only of comments.
//
// With stripComments, comment ranges are removed; a single space replaces a
// comment that would otherwise join two tokens.
func SplitStatements(text string, points []SplitPoint, stripComments bool) []string {
	statements := make([]string, 0, countSemicolons(points)+1)

	var stmt strings.Builder
	start := 0

	// the end of text acts as an implicit final semicolon
	for i := 0; i <= len(points); i++ {
		p := SemicolonAt(len(text))
		if i < len(points) {
			p = points[i]
		}

		stmt.WriteString(text[start:p.Start])

		switch {
		case p.IsSemicolon():
			statements = append(statements, strings.TrimSpace(stmt.String()))
			stmt.Reset()
			start = p.End
		case stripComments:
			start = p.End
			if !endsWithSpace(stmt.String()) && !startsWithSpace(text[start:]) {
				stmt.WriteByte(' ')
			}
		default:
			start = p.Start
		}
	}

	return statements
}

// NonEmptyStatements returns the statements of text, comments included,
// leaving out those that contain nothing once comments are removed.
func NonEmptyStatements(text string, points []SplitPoint) []string {
	withComments := SplitStatements(text, points, false)
	sansComments := SplitStatements(text, points, true)

	var statements []string
	for i, stmt := range withComments {
		if sansComments[i] != "" {
			statements = append(statements, stmt)
		}
	}
	return statements
}

// Spans returns, for every terminator including the end of text, the byte
// range of the trimmed statement with its comments retained. The text of
// each span equals the matching SplitStatements(text, points, false) element.
func Spans(text string, points []SplitPoint) []Span {
	spans := make([]Span, 0, countSemicolons(points)+1)
	start := 0
	for i := 0; i <= len(points); i++ {
		end := len(text)
		if i < len(points) {
			if !points[i].IsSemicolon() {
				continue
			}
			end = points[i].Start
		}
		spans = append(spans, trimSpan(text, start, end))
		if i < len(points) {
			start = points[i].End
		}
	}
	return spans
}

// trimSpan shrinks [start, end) past leading and trailing white space.
func trimSpan(text string, start, end int) Span {
	seg := text[start:end]
	left := len(seg) - len(strings.TrimLeftFunc(seg, unicode.IsSpace))
	right := len(strings.TrimRightFunc(seg, unicode.IsSpace))
	if right < left {
		return Span{Start: start + left, End: start + left}
	}
	return Span{Start: start + left, End: start + right}
}

func countSemicolons(points []SplitPoint) int {
	n := 0
	for _, p := range points {
		if p.IsSemicolon() {
			n++
		}
	}
	return n
}

// endsWithSpace reports whether s ends in white space. The empty string does not.
func endsWithSpace(s string) bool {
	r, size := utf8.DecodeLastRuneInString(s)
	return size > 0 && unicode.IsSpace(r)
}

// startsWithSpace reports whether s starts with white space. The empty string does not.
func startsWithSpace(s string) bool {
	r, size := utf8.DecodeRuneInString(s)
	return size > 0 && unicode.IsSpace(r)
}
