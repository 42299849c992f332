package vterm

// Cell is one styled character position in the grid. The zero value is NOT
// the default cell — use [DefaultCell] or [Cell.Reset].
type Cell struct {
	Symbol rune
	Style  Style
}

// DefaultCell returns a cell holding a space with default style.
func DefaultCell() Cell {
	return Cell{Symbol: ' '}
}

// Reset restores the cell to its default symbol and style.
func (c *Cell) Reset() {
	c.Symbol = ' '
	c.Style.Reset()
}
