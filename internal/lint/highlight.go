package lint

import (
	"sort"
	"strings"
)

// Span is one marked range: a row, a start column, and a length in
// characters. Rows and columns are zero-based buffer coordinates.
type Span struct {
	Row    int
	Col    int
	Length int
}

// Highlight accumulates the ranges and lines a lint pass wants marked.
//
// The engine only computes what to mark; drawing is the presentation
// layer's job. For region-scoped checkers MoveTo repositions the
// accumulator's origin so marks recorded against region-relative rows land
// on buffer rows.
//
// Highlight is not safe for concurrent use; each instance owns its own.
type Highlight struct {
	code    string
	outline bool
	lines   []string

	lineOffset int
	charOffset int

	marks     []Span
	markLines map[int]bool
}

// NewHighlight creates an accumulator over the given text snapshot.
// The outline flag is carried through for the presentation layer.
func NewHighlight(code string, outline bool) *Highlight {
	return &Highlight{
		code:      code,
		outline:   outline,
		lines:     splitLines(code),
		markLines: make(map[int]bool),
	}
}

// Outline reports whether marked ranges should be visually outlined.
func (h *Highlight) Outline() bool { return h.outline }

// MoveTo repositions the accumulator's origin for a scoped region.
// Subsequent rows are shifted by lineOffset; columns on the region's first
// row are shifted by charOffset.
func (h *Highlight) MoveTo(lineOffset, charOffset int) {
	h.lineOffset = lineOffset
	h.charOffset = charOffset
}

// SetCode replaces the text snapshot the accumulator resolves lines
// against, used when a scoped checker narrows to a region's text.
func (h *Highlight) SetCode(code string) {
	h.code = code
	h.lines = splitLines(code)
}

// FullLine returns the text of a (pre-offset) row, or false when the row is
// out of range.
func (h *Highlight) FullLine(row int) (string, bool) {
	if row < 0 || row >= len(h.lines) {
		return "", false
	}
	return h.lines[row], true
}

// Line marks a whole row.
func (h *Highlight) Line(row int) {
	h.markLines[row+h.lineOffset] = true
}

// Range marks the word starting at (row, col); a single character when no
// word starts there.
func (h *Highlight) Range(row, col int) {
	length := 1
	if line, ok := h.FullLine(row); ok {
		length = wordLength(line, col)
	}
	h.marks = append(h.marks, Span{
		Row:    h.adjustRow(row),
		Col:    h.adjustCol(row, col),
		Length: length,
	})
}

// Near marks the first occurrence of token on the row, found by text
// search. Falls back to marking the whole line when the token is absent.
func (h *Highlight) Near(row int, token string) {
	line, ok := h.FullLine(row)
	if !ok || token == "" {
		h.Line(row)
		return
	}

	idx := strings.Index(line, token)
	if idx < 0 {
		h.Line(row)
		return
	}

	// Byte index to character index.
	col := len([]rune(line[:idx]))
	h.marks = append(h.marks, Span{
		Row:    h.adjustRow(row),
		Col:    h.adjustCol(row, col),
		Length: len([]rune(token)),
	})
}

// Marks returns the accumulated spans in document order.
func (h *Highlight) Marks() []Span {
	marks := make([]Span, len(h.marks))
	copy(marks, h.marks)
	sort.Slice(marks, func(i, j int) bool {
		if marks[i].Row != marks[j].Row {
			return marks[i].Row < marks[j].Row
		}
		return marks[i].Col < marks[j].Col
	})
	return marks
}

// Lines returns the marked rows in ascending order.
func (h *Highlight) Lines() []int {
	rows := make([]int, 0, len(h.markLines))
	for row := range h.markLines {
		rows = append(rows, row)
	}
	sort.Ints(rows)
	return rows
}

// Clear drops all accumulated marks. Called when a buffer's assignment is
// removed so no orphaned marks survive the instance.
func (h *Highlight) Clear() {
	h.marks = nil
	h.markLines = make(map[int]bool)
}

// adjustRow shifts a region-relative row to a buffer row.
func (h *Highlight) adjustRow(row int) int {
	return row + h.lineOffset
}

// adjustCol shifts a column by the region's character offset on the
// region's first row only.
func (h *Highlight) adjustCol(row, col int) int {
	if row == 0 {
		return col + h.charOffset
	}
	return col
}

// wordLength returns the length of the identifier-like run starting at col,
// in characters. Returns 1 when col is past the end or no word starts there.
func wordLength(line string, col int) int {
	runes := []rune(line)
	if col < 0 || col >= len(runes) {
		return 1
	}

	length := 0
	for _, r := range runes[col:] {
		if !isWordRune(r) {
			break
		}
		length++
	}
	if length == 0 {
		return 1
	}
	return length
}

// isWordRune reports whether r belongs to an identifier-like token.
func isWordRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '_':
		return true
	default:
		return false
	}
}
