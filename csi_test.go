package vterm

import "testing"

// These tests exercise dispatchCSI directly with hand-built parameter
// groups rather than a live *govte.Params, since govte's own construction
// API is not part of the Performer-interface surface this package depends
// on (see the doc comment on dispatchCSI in csi.go).

func TestParamOrDefault(t *testing.T) {
	if got := paramOr(nil, 0, 7); got != 7 {
		t.Errorf("paramOr(nil,0,7) = %d, want 7", got)
	}
	if got := paramOr([][]uint16{{0}}, 0, 7); got != 7 {
		t.Errorf("zero parameter must fall back to default, got %d", got)
	}
	if got := paramOr([][]uint16{{5}}, 0, 7); got != 5 {
		t.Errorf("got %d, want 5", got)
	}
}

func TestParamPresent(t *testing.T) {
	if _, ok := paramPresent(nil, 0); ok {
		t.Error("expected absent parameter group to report not-present")
	}
	if v, ok := paramPresent([][]uint16{{0}}, 0); !ok || v != 0 {
		t.Errorf("got %d, %v, want 0, true", v, ok)
	}
}

func TestCursorMovementClampsAtEdges(t *testing.T) {
	e := NewEmulator(NewRect(0, 0, 5, 5))

	e.dispatchCSI([][]uint16{{10}}, 'C') // CUF beyond right edge
	if e.Cursor().Col != 4 {
		t.Errorf("CUF clamp: col = %d, want 4", e.Cursor().Col)
	}

	e.dispatchCSI([][]uint16{{10}}, 'D') // CUB beyond left edge
	if e.Cursor().Col != 0 {
		t.Errorf("CUB clamp: col = %d, want 0", e.Cursor().Col)
	}

	e.dispatchCSI([][]uint16{{10}}, 'B') // CUD beyond bottom edge
	if e.Cursor().Row != 4 {
		t.Errorf("CUD clamp: row = %d, want 4", e.Cursor().Row)
	}

	e.dispatchCSI([][]uint16{{10}}, 'A') // CUU beyond top edge
	if e.Cursor().Row != 0 {
		t.Errorf("CUU clamp: row = %d, want 0", e.Cursor().Row)
	}
}

func TestCursorNextLineCarriagesReturn(t *testing.T) {
	e := NewEmulator(NewRect(0, 0, 5, 5))
	e.cursor.Col = 3
	e.dispatchCSI([][]uint16{{1}}, 'E')
	if e.Cursor() != (Cursor{Row: 1, Col: 0}) {
		t.Errorf("CNL: cursor = %+v, want {1,0}", e.Cursor())
	}
}

func TestEraseLineToEndOfLine(t *testing.T) {
	e := NewEmulator(NewRect(0, 0, 5, 1))
	for i := 0; i < 5; i++ {
		e.Grid().Set(0, i, Cell{Symbol: rune('a' + i)})
	}
	e.cursor.Col = 2

	e.dispatchCSI([][]uint16{{0}}, 'K') // erase to end of line
	want := []rune{'a', 'b', ' ', ' ', ' '}
	for i, w := range want {
		if cell := e.Grid().At(0, i); cell.Symbol != w {
			t.Errorf("col %d: got %q, want %q", i, cell.Symbol, w)
		}
	}
}

func TestDeleteLinesInverseOfInsertLines(t *testing.T) {
	e := NewEmulator(NewRect(0, 0, 3, 3))
	for row, ch := range []rune{'a', 'b', 'c'} {
		e.Grid().Set(row, 0, Cell{Symbol: ch})
	}
	e.cursor = Cursor{Row: 0, Col: 0}

	e.dispatchCSI(nil, 'M') // delete-line at row 0
	if !e.Grid().CheckInvariant() {
		t.Fatal("expected grid length to be preserved by delete-line")
	}
	if cell := e.Grid().At(0, 0); cell.Symbol != 'b' {
		t.Errorf("row0 after delete-line = %q, want 'b' (row1 shifted up)", cell.Symbol)
	}
	if cell := e.Grid().At(1, 0); cell.Symbol != 'c' {
		t.Errorf("row1 after delete-line = %q, want 'c' (row2 shifted up)", cell.Symbol)
	}
	if cell := e.Grid().At(2, 0); cell.Symbol != ' ' {
		t.Errorf("row2 after delete-line = %q, want blank (filled in at bottom)", cell.Symbol)
	}
}

func TestScrollRegionRejectsInvalidRange(t *testing.T) {
	e := NewEmulator(NewRect(0, 0, 5, 5))
	original := e.ScrollRegion()
	e.dispatchCSI([][]uint16{{4}, {2}}, 'r') // top > bottom: invalid
	if e.ScrollRegion() != original {
		t.Errorf("invalid scroll region must be rejected, got %+v", e.ScrollRegion())
	}
}

func TestUnhandledActionDoesNotPanic(t *testing.T) {
	e := NewEmulator(NewRect(0, 0, 5, 5))
	e.dispatchCSI([][]uint16{{1}}, 'Z') // not in the dispatch table
}

func TestIgnoredSequenceIsNoOp(t *testing.T) {
	e := NewEmulator(NewRect(0, 0, 5, 5))
	before := e.Cursor()
	e.CsiDispatch(nil, nil, true, 'A')
	if e.Cursor() != before {
		t.Error("ignored CSI sequence must not mutate state")
	}
}
