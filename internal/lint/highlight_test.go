package lint

import "testing"

func TestHighlight_Line(t *testing.T) {
	h := NewHighlight("a\nb\nc", true)
	h.Line(1)
	h.Line(2)
	h.Line(1)

	lines := h.Lines()
	if len(lines) != 2 || lines[0] != 1 || lines[1] != 2 {
		t.Errorf("Expected lines [1 2], got %v", lines)
	}
}

func TestHighlight_RangeMarksWord(t *testing.T) {
	h := NewHighlight("x = unused_var + 1", true)
	h.Range(0, 4)

	marks := h.Marks()
	if len(marks) != 1 {
		t.Fatalf("Expected 1 mark, got %d", len(marks))
	}
	if marks[0].Row != 0 || marks[0].Col != 4 {
		t.Errorf("Expected mark at (0,4), got (%d,%d)", marks[0].Row, marks[0].Col)
	}
	if marks[0].Length != len("unused_var") {
		t.Errorf("Expected word length %d, got %d", len("unused_var"), marks[0].Length)
	}
}

func TestHighlight_RangeNonWordIsSingleChar(t *testing.T) {
	h := NewHighlight("a + b", true)
	h.Range(0, 2)

	marks := h.Marks()
	if marks[0].Length != 1 {
		t.Errorf("Expected length 1 at a non-word char, got %d", marks[0].Length)
	}
}

func TestHighlight_NearFindsToken(t *testing.T) {
	h := NewHighlight("if foo then\nreturn foo\n", true)
	h.Near(1, "foo")

	marks := h.Marks()
	if len(marks) != 1 {
		t.Fatalf("Expected 1 mark, got %d", len(marks))
	}
	if marks[0].Row != 1 || marks[0].Col != 7 || marks[0].Length != 3 {
		t.Errorf("Expected (1,7,3), got (%d,%d,%d)", marks[0].Row, marks[0].Col, marks[0].Length)
	}
}

func TestHighlight_NearMissingTokenMarksLine(t *testing.T) {
	h := NewHighlight("nothing here", true)
	h.Near(0, "absent")

	if len(h.Marks()) != 0 {
		t.Errorf("Expected no span marks, got %v", h.Marks())
	}
	lines := h.Lines()
	if len(lines) != 1 || lines[0] != 0 {
		t.Errorf("Expected line 0 marked, got %v", lines)
	}
}

func TestHighlight_MoveToShiftsRows(t *testing.T) {
	h := NewHighlight("region line one\nregion line two", true)
	h.MoveTo(10, 0)
	h.Line(0)
	h.Range(1, 0)

	lines := h.Lines()
	if len(lines) != 1 || lines[0] != 10 {
		t.Errorf("Expected line 10, got %v", lines)
	}
	marks := h.Marks()
	if marks[0].Row != 11 {
		t.Errorf("Expected row 11, got %d", marks[0].Row)
	}
}

func TestHighlight_MoveToShiftsFirstRowColumns(t *testing.T) {
	h := NewHighlight("tail of a line\nsecond", true)
	h.MoveTo(5, 20)
	h.Range(0, 0)
	h.Range(1, 0)

	marks := h.Marks()
	if marks[0].Row != 5 || marks[0].Col != 20 {
		t.Errorf("First region row: expected (5,20), got (%d,%d)", marks[0].Row, marks[0].Col)
	}
	if marks[1].Row != 6 || marks[1].Col != 0 {
		t.Errorf("Later region row: expected (6,0), got (%d,%d)", marks[1].Row, marks[1].Col)
	}
}

func TestHighlight_Clear(t *testing.T) {
	h := NewHighlight("a\nb", true)
	h.Line(0)
	h.Range(1, 0)
	h.Clear()

	if len(h.Marks()) != 0 || len(h.Lines()) != 0 {
		t.Error("Expected no marks after Clear")
	}
}

func TestHighlight_FullLine(t *testing.T) {
	h := NewHighlight("first\nsecond", false)

	line, ok := h.FullLine(1)
	if !ok || line != "second" {
		t.Errorf("Expected 'second', got %q (%v)", line, ok)
	}
	if _, ok := h.FullLine(5); ok {
		t.Error("Expected out-of-range row to report false")
	}
}

func TestHighlight_Outline(t *testing.T) {
	if !NewHighlight("", true).Outline() {
		t.Error("Expected outline true")
	}
	if NewHighlight("", false).Outline() {
		t.Error("Expected outline false")
	}
}
