// Package source bridges the two coordinate systems the smcache writer has
// to reconcile: byte offsets, as reported by the tree-sitter AST over the
// minified source, and UTF-16 line/column positions, as used by source maps.
package source

import (
	"fmt"
	"unicode/utf8"
)

// Context precomputes per-line byte offsets of a piece of text so that byte
// offsets can be converted to (line, UTF-16 column) positions without
// rescanning the text on every lookup.
type Context struct {
	text       string
	lineStarts []int
}

// Position is a zero-based line and a UTF-16-code-unit column within that
// line, matching the coordinate system source maps are defined in.
type Position struct {
	Line   uint32
	Column uint32
}

// New builds a Context over text, which must be valid UTF-8.
func New(text string) (*Context, error) {
	if !utf8.ValidString(text) {
		return nil, fmt.Errorf("source: text is not valid UTF-8")
	}

	lineStarts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			lineStarts = append(lineStarts, i+1)
		}
	}

	return &Context{text: text, lineStarts: lineStarts}, nil
}

// OffsetToPosition converts a byte offset into the source text to its
// (line, UTF-16 column) position. It returns false if the offset is out of
// range or does not fall on a UTF-8 character boundary.
func (c *Context) OffsetToPosition(byteOffset uint32) (Position, bool) {
	offset := int(byteOffset)
	if offset < 0 || offset > len(c.text) {
		return Position{}, false
	}
	if offset < len(c.text) && !utf8.RuneStart(c.text[offset]) {
		return Position{}, false
	}

	line := lineForOffset(c.lineStarts, offset)
	lineStart := c.lineStarts[line]
	column := utf16Len(c.text[lineStart:offset])

	return Position{Line: uint32(line), Column: uint32(column)}, true
}

// PositionToOffset converts a (line, UTF-16 column) position back to a byte
// offset into the source text. It returns false if the line is out of
// range or the column overruns the line's length.
func (c *Context) PositionToOffset(pos Position) (uint32, bool) {
	line := int(pos.Line)
	if line < 0 || line >= len(c.lineStarts) {
		return 0, false
	}

	lineStart := c.lineStarts[line]
	lineEnd := len(c.text)
	if line+1 < len(c.lineStarts) {
		lineEnd = c.lineStarts[line+1]
	}

	remaining := int(pos.Column)
	offset := lineStart
	for offset < lineEnd {
		if remaining == 0 {
			return uint32(offset), true
		}
		r, size := utf8.DecodeRuneInString(c.text[offset:lineEnd])
		units := 1
		if r > 0xFFFF {
			units = 2
		}
		remaining -= units
		offset += size
	}
	if remaining == 0 {
		return uint32(offset), true
	}
	return 0, false
}

// Excerpt returns the substring of the source text spanning [lo, lo+n),
// clamped to the text's bounds. It returns false if lo itself is out of
// range.
func (c *Context) Excerpt(lo uint32, n int) (string, bool) {
	start := int(lo)
	if start < 0 || start > len(c.text) {
		return "", false
	}
	end := start + n
	if end > len(c.text) {
		end = len(c.text)
	}
	if end < start {
		end = start
	}
	return c.text[start:end], true
}

// lineForOffset returns the zero-based line index that contains offset,
// via binary search over the precomputed line-start table.
func lineForOffset(lineStarts []int, offset int) int {
	lo, hi := 0, len(lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if lineStarts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

// utf16Len counts the number of UTF-16 code units the given UTF-8 string
// would occupy once encoded as UTF-16: BMP runes count as 1, astral runes
// (which UTF-16 represents as a surrogate pair) count as 2.
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		if r > 0xFFFF {
			n += 2 // astral rune: encoded as a UTF-16 surrogate pair
		} else {
			n++
		}
	}
	return n
}
