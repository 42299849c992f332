package vterm

import "github.com/cliofy/govte"

// Cursor is the (row, col) position where the next printed character lands.
type Cursor struct {
	Row, Col int
}

// ScrollRegion is the half-open row band [Top, Bottom) that vertical
// scrolling is confined to.
type ScrollRegion struct {
	Top, Bottom int
}

// Emulator is the VT100/ANSI state machine: it owns a [Grid], a [Cursor],
// the current [Style], and a [ScrollRegion], and mutates them in response
// to govte.Performer callbacks. It implements govte.Performer directly, so
// a govte.Parser can drive it byte by byte.
type Emulator struct {
	grid         *Grid
	cursor       Cursor
	currentStyle Style
	scroll       ScrollRegion
	rect         Rect

	// Logf, when non-nil, receives a debug line for malformed or
	// unsupported input (spec'd as "log at debug level; continue").
	// The zero value is silent.
	Logf func(format string, args ...any)
}

// NewEmulator allocates an Emulator over a grid anchored at rect, with the
// scroll region covering the full height and the cursor at (0, 0).
func NewEmulator(rect Rect) *Emulator {
	return &Emulator{
		grid:   NewGrid(rect),
		rect:   rect,
		scroll: ScrollRegion{Top: 0, Bottom: rect.Height},
	}
}

// Grid returns the emulator's cell grid.
func (e *Emulator) Grid() *Grid { return e.grid }

// Cursor returns the current cursor position.
func (e *Emulator) Cursor() Cursor { return e.cursor }

// CurrentStyle returns the style that will be applied to the next printed
// character.
func (e *Emulator) CurrentStyle() Style { return e.currentStyle }

// ScrollRegion returns the active scroll region.
func (e *Emulator) ScrollRegion() ScrollRegion { return e.scroll }

func (e *Emulator) logf(format string, args ...any) {
	if e.Logf != nil {
		e.Logf(format, args...)
	}
}

func (e *Emulator) width() int  { return e.rect.Width }
func (e *Emulator) height() int { return e.rect.Height }

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// --- scroll region primitives (§4.3.6) ---

// scrollUp scrolls the active scroll region up by one row: the top row is
// discarded and a default row appears at the bottom.
func (e *Emulator) scrollUp() {
	width := e.width()
	top := e.scroll.Top * width
	e.grid.Drain(top, top+width)
	e.grid.Splice((e.scroll.Bottom-1)*width, DefaultCells(width))
}

// scrollDown scrolls the active scroll region down by one row: the bottom
// row is discarded and a default row appears at the top.
func (e *Emulator) scrollDown() {
	width := e.width()
	bottom := (e.scroll.Bottom - 1) * width
	e.grid.Drain(bottom, bottom+width)
	e.grid.Splice(e.scroll.Top*width, DefaultCells(width))
}

// lineFeed implements the LF rule of §4.3.2: advance the row within the
// scroll region, or scroll the region up by one at its bottom edge.
func (e *Emulator) lineFeed() {
	if e.cursor.Row < e.scroll.Bottom-1 {
		e.cursor.Row++
	} else {
		e.scrollUp()
	}
}

func (e *Emulator) carriageReturn() {
	e.cursor.Col = 0
}

// advanceAfterPrint implements §4.3.5: wrap at the right margin via an
// implicit linefeed.
func (e *Emulator) advanceAfterPrint() {
	if e.cursor.Col+1 < e.width() {
		e.cursor.Col++
	} else {
		e.cursor.Col = 0
		e.lineFeed()
	}
}

// --- govte.Performer ---

// Print writes c at the cursor with the current style, then advances the
// cursor (§4.3.1).
func (e *Emulator) Print(c rune) {
	if cell := e.grid.At(e.cursor.Row, e.cursor.Col); cell != nil {
		cell.Symbol = c
		cell.Style = e.currentStyle
	}
	e.advanceAfterPrint()
}

// Execute handles C0/C1 control bytes (§4.3.2).
func (e *Emulator) Execute(b byte) {
	switch b {
	case 0x08: // BS
		if e.cursor.Col > 0 {
			e.cursor.Col--
		} else {
			e.scrollUp()
			e.cursor.Col = e.width() - 1
		}
	case 0x09: // HT: tab stops every 4 columns
		next := ((e.cursor.Col / 4) + 1) * 4
		if next > e.width() {
			next = e.width()
		}
		for c := e.cursor.Col; c < next; c++ {
			if cell := e.grid.At(e.cursor.Row, c); cell != nil {
				cell.Reset()
			}
		}
		e.cursor.Col = clampInt(next, 0, e.width()-1)
	case 0x0A, 0x0B, 0x0C: // LF, VT, FF
		e.lineFeed()
	case 0x0D: // CR
		e.carriageReturn()
	case 0x07: // BEL
		// no-op; MUST NOT corrupt the grid
	default:
		e.logf("[DEBUG] execute: ignored control byte 0x%02x", b)
	}
}

// Hook handles DCS sequence start. DCS payload handling is out of scope;
// this is a no-op.
func (e *Emulator) Hook(params *govte.Params, intermediates []byte, ignore bool, action rune) {
}

// Put handles DCS data bytes. Out of scope; no-op.
func (e *Emulator) Put(b byte) {}

// Unhook handles DCS sequence end. Out of scope; no-op.
func (e *Emulator) Unhook() {}

// OscDispatch handles Operating System Command sequences. Full OSC payload
// handling is out of scope; unrecognized commands are logged and ignored.
func (e *Emulator) OscDispatch(params [][]byte, bellTerminated bool) {
	e.logf("[DEBUG] osc_dispatch: ignored %d params", len(params))
}

// EscDispatch handles ESC sequences (§4.3.4).
func (e *Emulator) EscDispatch(intermediates []byte, ignore bool, b byte) {
	if ignore || len(intermediates) != 0 {
		e.logf("[DEBUG] esc_dispatch: ignored, byte=%c", b)
		return
	}
	switch b {
	case 'D':
		e.lineFeed()
	case 'E':
		e.lineFeed()
		e.carriageReturn()
	case 'M':
		if e.cursor.Row > e.scroll.Top {
			e.cursor.Row--
		} else {
			e.scrollDown()
		}
	default:
		e.logf("[DEBUG] esc_dispatch: unhandled byte=%c", b)
	}
}
