package vterm

import "github.com/cliofy/govte"

// paramOr returns the first value of parameter group idx, or def if the
// group is absent or its value is zero (CSI parameters default per their
// listed default when zero or missing).
func paramOr(groups [][]uint16, idx int, def int) int {
	if idx >= len(groups) || len(groups[idx]) == 0 || groups[idx][0] == 0 {
		return def
	}
	return int(groups[idx][0])
}

// paramPresent returns the first value of parameter group idx and whether
// the group was present at all, regardless of its value.
func paramPresent(groups [][]uint16, idx int) (int, bool) {
	if idx >= len(groups) || len(groups[idx]) == 0 {
		return 0, false
	}
	return int(groups[idx][0]), true
}

// CsiDispatch handles CSI escape sequences (§4.3.3).
func (e *Emulator) CsiDispatch(params *govte.Params, intermediates []byte, ignore bool, action rune) {
	if ignore {
		e.logf("[DEBUG] csi_dispatch: ignored sequence, action=%c", action)
		return
	}
	if len(intermediates) != 0 {
		e.logf("[DEBUG] csi_dispatch: ignored intermediates for action=%c", action)
		return
	}

	var groups [][]uint16
	if params != nil {
		groups = params.Iter()
	}
	e.dispatchCSI(groups, action)
}

// dispatchCSI applies the action named by a CSI final byte given its
// already-decoded parameter groups. Split out from CsiDispatch so the
// dispatch table can be exercised without a live govte.Params value.
func (e *Emulator) dispatchCSI(groups [][]uint16, action rune) {
	switch action {
	case 'A':
		n := paramOr(groups, 0, 1)
		e.cursor.Row = clampInt(e.cursor.Row-n, 0, e.height()-1)
	case 'B', 'e':
		n := paramOr(groups, 0, 1)
		e.cursor.Row = clampInt(e.cursor.Row+n, 0, e.height()-1)
	case 'C', 'a':
		n := paramOr(groups, 0, 1)
		e.cursor.Col = clampInt(e.cursor.Col+n, 0, e.width()-1)
	case 'D':
		n := paramOr(groups, 0, 1)
		e.cursor.Col = clampInt(e.cursor.Col-n, 0, e.width()-1)
	case 'E':
		n := paramOr(groups, 0, 1)
		e.cursor.Row = clampInt(e.cursor.Row+n, 0, e.height()-1)
		e.carriageReturn()
	case 'H', 'f':
		row := paramOr(groups, 0, 1)
		col := paramOr(groups, 1, 1)
		e.cursor.Row = clampInt(row-1, 0, e.height()-1)
		e.cursor.Col = clampInt(col-1, 0, e.width()-1)
	case 'J':
		e.eraseDisplay(paramOr(groups, 0, 0))
	case 'K':
		e.eraseLine(paramOr(groups, 0, 0))
	case 'L':
		n := paramOr(groups, 0, 1)
		if n < 1 {
			n = 1
		}
		e.insertLines(n)
	case 'M':
		n := paramOr(groups, 0, 1)
		if n < 1 {
			n = 1
		}
		e.deleteLines(n)
	case 'P':
		n := paramOr(groups, 0, 1)
		if n < 1 {
			n = 1
		}
		e.clearN(n)
	case 'r':
		top := paramOr(groups, 0, 1)
		bottom := paramOr(groups, 1, e.height())
		if top < bottom && top >= 1 && bottom <= e.height() {
			e.scroll = ScrollRegion{Top: top - 1, Bottom: bottom}
		} else {
			e.logf("[DEBUG] csi_dispatch: out-of-range scroll region top=%d bottom=%d height=%d", top, bottom, e.height())
		}
	case 'm':
		e.applySGR(groups)
	case 'h', 'l', 'q', 't':
		// mode/cursor/keyboard toggles: accepted as no-op, out of scope
	default:
		e.logf("[DEBUG] csi_dispatch: unhandled action=%c params=%v", action, groups)
	}
}

func (e *Emulator) eraseDisplay(mode int) {
	width, height := e.width(), e.height()
	switch mode {
	case 0:
		idx := e.cursor.Row*width + e.cursor.Col
		for i := idx; i < width*height; i++ {
			if cell := e.grid.AtIndex(i); cell != nil {
				cell.Reset()
			}
		}
	case 1:
		idx := e.cursor.Row*width + e.cursor.Col
		for i := 0; i <= idx && i < width*height; i++ {
			if cell := e.grid.AtIndex(i); cell != nil {
				cell.Reset()
			}
		}
	case 2, 3:
		for i := 0; i < width*height; i++ {
			if cell := e.grid.AtIndex(i); cell != nil {
				cell.Reset()
			}
		}
	default:
		e.logf("[DEBUG] erase_display: unsupported mode %d", mode)
	}
}

func (e *Emulator) eraseLine(mode int) {
	width := e.width()
	row := e.cursor.Row
	switch mode {
	case 0:
		for c := e.cursor.Col; c < width; c++ {
			if cell := e.grid.At(row, c); cell != nil {
				cell.Reset()
			}
		}
	case 1:
		for c := 0; c <= e.cursor.Col && c < width; c++ {
			if cell := e.grid.At(row, c); cell != nil {
				cell.Reset()
			}
		}
	case 2:
		for c := 0; c < width; c++ {
			if cell := e.grid.At(row, c); cell != nil {
				cell.Reset()
			}
		}
	default:
		e.logf("[DEBUG] erase_line: unsupported mode %d", mode)
	}
}

// insertLines implements CSI L (§4.3.3): insert n blank lines at the
// cursor row within the scroll region, preserving total grid length. n is
// capped at the rows left in the region; a cursor outside it is a no-op.
func (e *Emulator) insertLines(n int) {
	width := e.width()
	row := e.cursor.Row
	if row < e.scroll.Top || row >= e.scroll.Bottom {
		return
	}
	if n > e.scroll.Bottom-row {
		n = e.scroll.Bottom - row
	}
	e.grid.Drain((e.scroll.Bottom-n)*width, e.scroll.Bottom*width)
	e.grid.Splice(row*width, DefaultCells(n*width))
}

// deleteLines implements CSI M (§4.3.3): the inverse of insertLines. A
// cursor outside the scroll region is a no-op.
func (e *Emulator) deleteLines(n int) {
	width := e.width()
	if e.cursor.Row < e.scroll.Top || e.cursor.Row >= e.scroll.Bottom {
		return
	}
	e.grid.Splice(e.scroll.Bottom*width, DefaultCells(n*width))
	e.grid.Drain(e.cursor.Row*width, e.cursor.Row*width+n*width)
}

func (e *Emulator) clearN(n int) {
	width := e.width()
	idx := e.cursor.Row*width + e.cursor.Col
	end := idx + n
	if max := e.grid.Len(); end > max {
		end = max
	}
	for i := idx; i < end; i++ {
		if cell := e.grid.AtIndex(i); cell != nil {
			cell.Reset()
		}
	}
}
