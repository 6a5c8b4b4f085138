package piece

// Cell is a (column, row) position on the playfield. Row 0 is the top.
type Cell struct {
	Col int
	Row int
}

// Piece is a tetromino instance. All transforms return a new value and
// never check legality; that is left to the board.
type Piece struct {
	Kind  Kind
	Cells [4]Cell
	Color Color
}

// New creates a piece of the given kind at its spawn position.
func New(k Kind) Piece {
	return Piece{
		Kind:  k,
		Cells: catalog[k].cells,
		Color: ColorOf(k),
	}
}

// Pivot returns the cell the piece rotates around.
func (p Piece) Pivot() Cell {
	return p.Cells[1]
}

// Translate shifts every cell by the given deltas.
func (p Piece) Translate(dCol, dRow int) Piece {
	for i := range p.Cells {
		p.Cells[i].Col += dCol
		p.Cells[i].Row += dRow
	}
	return p
}

// Rotate turns the piece 90 degrees around its pivot. O pieces are returned unchanged.
func (p Piece) Rotate() Piece {
	if p.Kind == O {
		return p
	}
	pivot := p.Pivot()
	for i, c := range p.Cells {
		relCol := c.Col - pivot.Col
		relRow := c.Row - pivot.Row
		p.Cells[i] = Cell{Col: pivot.Col - relRow, Row: pivot.Row + relCol}
	}
	return p
}

// Contains reports whether the piece covers the given position.
func (p Piece) Contains(col, row int) bool {
	for _, c := range p.Cells {
		if c.Col == col && c.Row == row {
			return true
		}
	}
	return false
}
