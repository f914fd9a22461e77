package split

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// scanner holds the cursor state of a single Scan call.
type scanner struct {
	src    string
	scs    bool // standard_conforming_strings
	pos    int
	points []SplitPoint

	unterminated   Unterminated
	unterminatedAt int
}

// Scan finds the semicolons separating the statements of text and the
// ranges of its comments. When standardConformingStrings is false, backslash
// escapes quotes inside ordinary '...' strings; E'...' strings always allow
// backslash escapes.
//
// Scanning stops at the first construct that is never closed; the points
// found before it are returned along with its kind.
func Scan(text string, standardConformingStrings bool) ScanResult {
	s := &scanner{
		src:            text,
		scs:            standardConformingStrings,
		unterminatedAt: -1,
	}
	s.run()
	return ScanResult{
		Points:         s.points,
		Unterminated:   s.unterminated,
		UnterminatedAt: s.unterminatedAt,
	}
}

func (s *scanner) run() {
	for s.pos < len(s.src) {
		at := nextMarker(s.src, s.pos)
		if at < 0 {
			return
		}

		var ok bool
		switch s.src[at] {
		case ';':
			s.points = append(s.points, SemicolonAt(at))
			s.pos = at + 1
			ok = true
		case '\'', '"':
			ok = s.quoted(at)
		case '$':
			ok = s.dollar(at)
		case '-':
			ok = s.lineComment(at)
		case '/':
			ok = s.blockComment(at)
		default:
			panic("split: marker dispatch reached unexpected character " + string(s.src[at]))
		}
		if !ok {
			return
		}
	}
}

// fail records an unterminated construct opened at start.
func (s *scanner) fail(kind Unterminated, start int) bool {
	s.unterminated = kind
	s.unterminatedAt = start
	s.pos = len(s.src)
	return false
}

// nextMarker returns the offset of the next ; ' " $ -- or /* at or after
// from, or -1. Markers are ASCII, so a byte scan never lands inside a
// multi-byte rune.
func nextMarker(src string, from int) int {
	for i := from; i < len(src); i++ {
		switch src[i] {
		case ';', '\'', '"', '$':
			return i
		case '-':
			if i+1 < len(src) && src[i+1] == '-' {
				return i
			}
		case '/':
			if i+1 < len(src) && src[i+1] == '*' {
				return i
			}
		}
	}
	return -1
}

// quoted consumes a '...' string or "..." identifier opening at start.
func (s *scanner) quoted(start int) bool {
	quote := s.src[start]
	isString := quote == '\''

	// Identifiers never allow backslash escapes.
	backslashing := false
	if isString {
		if !s.scs {
			backslashing = true
		} else if start > 0 && (s.src[start-1] == 'E' || s.src[start-1] == 'e') {
			backslashing = true
		}
	}

	stops := string(quote)
	if backslashing {
		stops = `'\`
	}

	at := start + 1
	for {
		if at > len(s.src) {
			at = len(s.src)
		}
		i := strings.IndexAny(s.src[at:], stops)
		if i < 0 {
			if isString {
				return s.fail(UnterminatedString, start)
			}
			return s.fail(UnterminatedIdentifier, start)
		}
		i += at

		if s.src[i] == '\\' {
			// backslash takes the next character verbatim
			at = i + 2
			continue
		}

		if i+1 < len(s.src) && s.src[i+1] == quote {
			at = i + 2 // doubled quote: '' or ""
			continue
		}

		if !isString {
			s.pos = i + 1
			return true
		}

		// 'abc'
		// 'def' continues the same literal
		if next, ok := continueString(s.src, i+1); ok {
			at = next
			continue
		}

		s.pos = i + 1
		return true
	}
}

// continueString matches whitespace containing at least one newline followed
// by a quote at from, returning the offset just past that quote.
func continueString(src string, from int) (int, bool) {
	newline := false
	i := from
	for i < len(src) {
		r, size := utf8.DecodeRuneInString(src[i:])
		if !unicode.IsSpace(r) {
			break
		}
		if r == '\n' {
			newline = true
		}
		i += size
	}
	if !newline || i >= len(src) || src[i] != '\'' {
		return 0, false
	}
	return i + 1, true
}

// dollar handles a $ at start: either the opening of a $tag$ string or
// ordinary text such as a positional parameter or part of an identifier.
func (s *scanner) dollar(start int) bool {
	// $ is legal inside identifiers, so abc$$ does not open a string
	if followsIdentifier(s.src[:start]) {
		s.pos = start + 1
		return true
	}

	tagEnd := dollarTagEnd(s.src, start+1)
	if tagEnd < 0 {
		s.pos = start + 1
		return true
	}

	tag := s.src[start:tagEnd]
	i := strings.Index(s.src[tagEnd:], tag)
	if i < 0 {
		return s.fail(UnterminatedDollar, start)
	}
	s.pos = tagEnd + i + len(tag)
	return true
}

// dollarTagEnd reads an optional tag identifier and the closing $ of a
// dollar-quote delimiter starting at from (just after the opening $).
// It returns the offset past the closing $, or -1 if there is none.
func dollarTagEnd(src string, from int) int {
	i := from
	for i < len(src) {
		r, size := utf8.DecodeRuneInString(src[i:])
		if r == '$' {
			return i + size
		}
		if i == from && !isDollarTagStart(r) {
			return -1
		}
		if !isDollarTagChar(r) {
			return -1
		}
		i += size
	}
	return -1
}

// lineComment records a -- comment starting at start. The range includes the
// terminating newline, or runs to the end of text.
func (s *scanner) lineComment(start int) bool {
	end := len(s.src)
	if i := strings.IndexByte(s.src[start+2:], '\n'); i >= 0 {
		end = start + 2 + i + 1
	}
	s.points = append(s.points, CommentRange(start, end))
	s.pos = end
	return true
}

// blockComment records a /* */ comment starting at start. Block comments nest.
func (s *scanner) blockComment(start int) bool {
	depth := 1
	at := start + 2
	for at < len(s.src)-1 {
		switch {
		case s.src[at] == '/' && s.src[at+1] == '*':
			depth++
			at += 2
		case s.src[at] == '*' && s.src[at+1] == '/':
			depth--
			at += 2
			if depth == 0 {
				s.points = append(s.points, CommentRange(start, at))
				s.pos = at
				return true
			}
		default:
			at++
		}
	}
	return s.fail(UnterminatedComment, start)
}

// followsIdentifier reports whether text ends in an unquoted identifier. The
// identifier is the longest trailing run of identifier characters and must
// begin with a letter or underscore, so 1$ and $$a$$$ do not qualify.
func followsIdentifier(text string) bool {
	start := len(text)
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(text[:start])
		if !isIdentChar(r) {
			break
		}
		start -= size
	}
	if start == len(text) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(text[start:])
	return isDollarTagStart(r)
}

// isIdentChar reports whether r may appear inside an unquoted identifier
func isIdentChar(r rune) bool {
	return r == '$' || isDollarTagChar(r)
}

// Every non-ASCII character counts as a letter, as in the server's lexer.
func isDollarTagStart(r rune) bool {
	return r == '_' || r >= utf8.RuneSelf || unicode.IsLetter(r)
}

func isDollarTagChar(r rune) bool {
	return isDollarTagStart(r) || ('0' <= r && r <= '9')
}
