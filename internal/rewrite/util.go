package rewrite

import "strings"

const pythonWhitespace = " \t\n\r\v\f"

func rstrip(s string) string {
	return strings.TrimRight(s, pythonWhitespace)
}

// expandTabs replaces tab characters with spaces up to the next multiple
// of tabLength, counting columns from the last newline.
func expandTabs(s string, tabLength int) string {
	if tabLength <= 0 {
		return strings.ReplaceAll(s, "\t", "")
	}
	var b strings.Builder
	col := 0
	for _, r := range s {
		switch r {
		case '\t':
			pad := tabLength - col%tabLength
			b.WriteString(strings.Repeat(" ", pad))
			col += pad
		case '\n', '\r':
			b.WriteRune(r)
			col = 0
		default:
			b.WriteRune(r)
			col++
		}
	}
	return b.String()
}

// indentWidth is the column width of a line's leading whitespace after
// tab expansion.
func indentWidth(line string, tabLength int) int {
	expanded := expandTabs(line, tabLength)
	return len(expanded) - len(strings.TrimLeft(expanded, " "))
}

// stripOutAnds flattens the conjunctions used in "arg1 and arg2" style
// listings so each name becomes its own list item.
func stripOutAnds(s string) string {
	s = strings.ReplaceAll(s, " and ", " ")
	return strings.ReplaceAll(s, " & ", " ")
}
