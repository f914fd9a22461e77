package parser

import "unicode/utf8"

// calculateLineNumber converts a byte offset to a 1-indexed line number
func calculateLineNumber(sql string, offset int) int {
	line, _ := calculatePosition(sql, offset)
	return line
}

// calculatePosition converts a byte offset to a 1-indexed line and a
// 1-indexed column counted in runes
func calculatePosition(sql string, offset int) (int, int) {
	if offset < 0 {
		return 1, 1
	}
	if offset > len(sql) {
		offset = len(sql)
	}

	line := 1
	lineStart := 0
	for i := 0; i < offset; i++ {
		if sql[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}
	return line, utf8.RuneCountInString(sql[lineStart:offset]) + 1
}

