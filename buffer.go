package vterm

// CellUpdate is one entry of a diff batch: a changed cell at its screen
// coordinates.
type CellUpdate struct {
	X, Y int
	Cell Cell
}

// Grid is the double-buffered cell grid. current and previous are both
// flat, row-major slices of length Width*Height. Diff swaps their roles
// each call rather than reallocating, following the scheme described at
// the module boundary: after diff() both slices hold the latest frame.
type Grid struct {
	current  []Cell
	previous []Cell
	rect     Rect
}

// NewGrid allocates a Grid for rect, filled with default cells.
func NewGrid(rect Rect) *Grid {
	size := rect.Width * rect.Height
	current := make([]Cell, size)
	previous := make([]Cell, size)
	for i := range current {
		current[i] = DefaultCell()
		previous[i] = DefaultCell()
	}
	return &Grid{current: current, previous: previous, rect: rect}
}

// Width returns the grid's column count.
func (g *Grid) Width() int { return g.rect.Width }

// Height returns the grid's row count.
func (g *Grid) Height() int { return g.rect.Height }

// Rect returns the screen rectangle the grid is anchored to.
func (g *Grid) Rect() Rect { return g.rect }

// Len returns the number of cells currently held (Width*Height under the
// invariant in §4.2; checked explicitly by CheckInvariant).
func (g *Grid) Len() int { return len(g.current) }

// index converts row-major (row, col) into a flat index.
func (g *Grid) index(row, col int) int { return row*g.rect.Width + col }

// At returns a pointer into the current frame's cell at (row, col), or nil
// if out of bounds.
func (g *Grid) At(row, col int) *Cell {
	if row < 0 || row >= g.rect.Height || col < 0 || col >= g.rect.Width {
		return nil
	}
	return &g.current[g.index(row, col)]
}

// AtIndex returns a pointer into the current frame's cell at a flat index.
func (g *Grid) AtIndex(i int) *Cell {
	if i < 0 || i >= len(g.current) {
		return nil
	}
	return &g.current[i]
}

// Set writes a cell at (row, col). Out-of-bounds coordinates are ignored.
func (g *Grid) Set(row, col int, c Cell) {
	if cell := g.At(row, col); cell != nil {
		*cell = c
	}
}

// Drain removes current[start:end] and returns the removed cells, shifting
// everything after end left by (end-start). Mirrors Vec::drain.
func (g *Grid) Drain(start, end int) []Cell {
	removed := make([]Cell, end-start)
	copy(removed, g.current[start:end])
	g.current = append(g.current[:start], g.current[end:]...)
	return removed
}

// Splice inserts cells at position at, shifting everything at and after
// right. Mirrors Vec::splice with an empty removal range.
func (g *Grid) Splice(at int, cells []Cell) {
	tail := make([]Cell, len(g.current)-at)
	copy(tail, g.current[at:])
	g.current = append(g.current[:at], append(append([]Cell{}, cells...), tail...)...)
}

// DefaultCells returns a freshly allocated slice of n default cells, for use
// with Splice.
func DefaultCells(n int) []Cell {
	cells := make([]Cell, n)
	for i := range cells {
		cells[i] = DefaultCell()
	}
	return cells
}

// Diff returns the cells that changed since the last Diff call, in
// row-major order, as a side effect establishing previous := current so
// that a subsequent Diff with no intervening mutation yields nothing.
func (g *Grid) Diff() []CellUpdate {
	width := g.rect.Width
	x0, y0 := g.rect.X, g.rect.Y

	g.current, g.previous = g.previous, g.current
	previous := g.previous

	var updates []CellUpdate
	for i := range g.current {
		if previous[i] != g.current[i] {
			g.current[i] = previous[i]
			updates = append(updates, CellUpdate{
				X:    i%width + x0,
				Y:    i/width + y0,
				Cell: previous[i],
			})
		}
	}
	return updates
}

// CheckInvariant reports whether both buffers still have length
// Width*Height, the invariant every public mutation must preserve.
func (g *Grid) CheckInvariant() bool {
	want := g.rect.Width * g.rect.Height
	return len(g.current) == want && len(g.previous) == want
}
