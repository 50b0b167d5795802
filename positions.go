// positions.go — byte-offset to line/column mapping
package jsx

import "strings"

// lineColAt converts a byte offset into 1-based line and column numbers.
// Offsets past the end of src are clamped. Columns count bytes, which
// matches how the lexer records positions.
func lineColAt(src string, pos int) (line, col int) {
	if pos < 0 {
		pos = 0
	}
	if pos > len(src) {
		pos = len(src)
	}
	line = 1 + strings.Count(src[:pos], "\n")
	lastNL := strings.LastIndex(src[:pos], "\n")
	if lastNL < 0 {
		return line, pos + 1
	}
	return line, pos - lastNL
}

// lineTextAt returns the 1-based line'th line of src, without its newline.
func lineTextAt(src string, line int) string {
	if line < 1 {
		line = 1
	}
	lines := strings.Split(src, "\n")
	if line > len(lines) {
		line = len(lines)
	}
	if len(lines) == 0 {
		return ""
	}
	return lines[line-1]
}
