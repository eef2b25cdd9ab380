package lint

// CorrectColumn maps a checker-reported column to a character index in a
// line that may mix tabs and spaces.
//
// Many checkers report columns as if every tab occupied a fixed width. To
// recover the character index, walk the line accumulating an expansion
// delta of (tabWidth - 1) per tab seen so far and stop at the first index i
// with col - delta <= i. The walk must mirror the checker's own expansion
// exactly; a mismatch silently shifts every diagnostic on tab-indented
// lines.
//
// When tabWidth <= 1 the column already is a character index and is
// returned unchanged, as is a column past the end of the line.
func CorrectColumn(col, tabWidth int, line string) int {
	if tabWidth <= 1 || col < 0 {
		return col
	}

	diff := 0
	i := 0
	for _, r := range line {
		if r == '\t' {
			diff += tabWidth - 1
		}
		if col-diff <= i {
			return i
		}
		i++
	}
	return col
}
