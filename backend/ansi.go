package backend

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/vtcast/vtcast"
)

// ANSIBackend writes VT100/ANSI escape sequences for a grid diff to an
// io.Writer. Per cell it emits cursor-goto, then background and foreground
// SGR where they differ from the previous cell's (always for the first cell),
// then the glyph, and resets fg/bg once at the end of the whole batch — the
// same order and trailing-reset trick as a termion-style backend, chosen so
// a run of identically-styled cells doesn't re-emit SGR per cell.
type ANSIBackend struct {
	w *bufio.Writer
}

// NewANSIBackend wraps w in a buffered ANSI-escape writer.
func NewANSIBackend(w io.Writer) *ANSIBackend {
	return &ANSIBackend{w: bufio.NewWriter(w)}
}

// Draw implements Backend.
func (b *ANSIBackend) Draw(updates []vterm.CellUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	var buf strings.Builder
	var curFg, curBg vterm.Color
	haveCur := false
	styled := false

	for _, u := range updates {
		fmt.Fprintf(&buf, "\x1b[%d;%dH", u.Y+1, u.X+1)
		style := u.Cell.Style
		if !haveCur || style.Bg != curBg {
			buf.WriteString(bgSGR(style.Bg))
			styled = true
		}
		if !haveCur || style.Fg != curFg {
			buf.WriteString(fgSGR(style.Fg))
			styled = true
		}
		curFg, curBg, haveCur = style.Fg, style.Bg, true
		buf.WriteRune(u.Cell.Symbol)
	}
	if styled {
		buf.WriteString(bgSGR(vterm.ColorReset))
		buf.WriteString(fgSGR(vterm.ColorReset))
	}

	if _, err := b.w.WriteString(buf.String()); err != nil {
		return err
	}
	return b.w.Flush()
}

// Clear implements Backend: erases the full screen (CSI 2J).
func (b *ANSIBackend) Clear() error {
	if _, err := b.w.WriteString("\x1b[2J"); err != nil {
		return err
	}
	return b.w.Flush()
}

// HideCursor implements Backend (CSI ?25l).
func (b *ANSIBackend) HideCursor() error {
	_, err := b.w.WriteString("\x1b[?25l")
	return err
}

// ShowCursor implements Backend (CSI ?25h).
func (b *ANSIBackend) ShowCursor() error {
	_, err := b.w.WriteString("\x1b[?25h")
	return err
}

// CursorGoto implements Backend: moves to 1-based CUP coordinates derived
// from the 0-based (row, col) the emulator uses internally, then flushes.
func (b *ANSIBackend) CursorGoto(row, col int) error {
	if _, err := fmt.Fprintf(b.w, "\x1b[%d;%dH", row+1, col+1); err != nil {
		return err
	}
	return b.w.Flush()
}

// Flush implements Backend.
func (b *ANSIBackend) Flush() error {
	return b.w.Flush()
}

// fgSGR maps a Style color to its foreground SGR escape, following the
// three-tier named/indexed/truecolor scheme.
func fgSGR(c vterm.Color) string {
	return colorSGR(c, 30, 90, 38, "39")
}

// bgSGR maps a Style color to its background SGR escape.
func bgSGR(c vterm.Color) string {
	return colorSGR(c, 40, 100, 48, "49")
}

var namedColorCodes = map[vterm.Color]int{
	vterm.ColorBlack:        0,
	vterm.ColorRed:          1,
	vterm.ColorGreen:        2,
	vterm.ColorYellow:       3,
	vterm.ColorBlue:         4,
	vterm.ColorMagenta:      5,
	vterm.ColorCyan:         6,
	vterm.ColorGray:         7,
	vterm.ColorWhite:        7,
	vterm.ColorDarkGray:     0,
	vterm.ColorLightRed:     1,
	vterm.ColorLightGreen:   2,
	vterm.ColorLightYellow:  3,
	vterm.ColorLightBlue:    4,
	vterm.ColorLightMagenta: 5,
	vterm.ColorLightCyan:    6,
}

// brightColors is the set of Color constants that map to the 90-97/100-107
// bright SGR range instead of 30-37/40-47 — White maps to bright white
// (97/107) per the module's color table, and DarkGray to bright black.
var brightColors = map[vterm.Color]bool{
	vterm.ColorDarkGray:     true,
	vterm.ColorLightRed:     true,
	vterm.ColorLightGreen:   true,
	vterm.ColorLightYellow:  true,
	vterm.ColorLightBlue:    true,
	vterm.ColorLightMagenta: true,
	vterm.ColorLightCyan:    true,
	vterm.ColorWhite:        true,
}

func colorSGR(c vterm.Color, base, brightBase, extBase int, resetCode string) string {
	if c.IsReset() {
		return "\x1b[" + resetCode + "m"
	}
	if n, ok := c.Indexed(); ok {
		return fmt.Sprintf("\x1b[%d;5;%dm", extBase, n)
	}
	if r, g, bl, ok := c.RGB(); ok {
		return fmt.Sprintf("\x1b[%d;2;%d;%d;%dm", extBase, r, g, bl)
	}
	if n, ok := namedColorCodes[c]; ok {
		if brightColors[c] {
			return fmt.Sprintf("\x1b[%dm", brightBase+n)
		}
		return fmt.Sprintf("\x1b[%dm", base+n)
	}
	return "\x1b[" + resetCode + "m"
}
