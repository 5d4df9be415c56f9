// Package frontmatter isolates the leading YAML block of a Markdown note.
//
// Extraction is deliberately line-oriented: validation checks and fixes
// operate on raw property lines, so the block is returned verbatim rather
// than decoded. Keeping the text untouched preserves comments, key order,
// and spacing when files are rewritten.
package frontmatter

import "strings"

// Bounds returns the line indices of the opening and closing delimiters.
// The first line whose trimmed text is "---" opens the block and the next
// such line closes it. ok is false when no opening delimiter exists; an
// unclosed block reports ok with end == -1.
func Bounds(lines []string) (start, end int, ok bool) {
	start = -1
	for i, line := range lines {
		if strings.TrimSpace(line) != "---" {
			continue
		}
		if start == -1 {
			start = i
			continue
		}
		return start, i, true
	}
	if start == -1 {
		return 0, -1, false
	}
	return start, -1, true
}

// Extract returns the frontmatter block of content, inclusive of both
// delimiter lines, joined by "\n". It reports false when fewer than two
// delimiter lines exist. Scanning stops at the closing delimiter, so "---"
// lines inside fenced code blocks in the body are never considered part of
// the block. Extract is idempotent: applied to its own output it returns
// the block unchanged.
func Extract(content string) (string, bool) {
	lines := strings.Split(content, "\n")
	start, end, ok := Bounds(lines)
	if !ok || end == -1 {
		return "", false
	}
	return strings.Join(lines[start:end+1], "\n"), true
}
