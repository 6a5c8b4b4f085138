package board

import (
	"go-tetris/internal/piece"
	"slices"
)

const (
	Width  = 10
	Height = 20
)

// Board is the grid of locked cells. It never contains the falling piece.
type Board struct {
	cells [Width * Height]piece.Color
}

// New returns an empty board.
func New() *Board {
	return &Board{}
}

func inBounds(col, row int) bool {
	return col >= 0 && col < Width && row >= 0 && row < Height
}

func index(col, row int) int {
	return row*Width + col
}

// At returns the color locked at (col, row), or piece.None for empty or out-of-range cells.
func (b *Board) At(col, row int) piece.Color {
	if !inBounds(col, row) {
		return piece.None
	}
	return b.cells[index(col, row)]
}

// Set writes a color into a single cell. Out-of-range positions are ignored.
func (b *Board) Set(col, row int, c piece.Color) {
	if !inBounds(col, row) {
		return
	}
	b.cells[index(col, row)] = c
}

// IsValidPosition reports whether every cell of p is on the board and empty.
func (b *Board) IsValidPosition(p piece.Piece) bool {
	for _, c := range p.Cells {
		if !inBounds(c.Col, c.Row) || b.cells[index(c.Col, c.Row)] != piece.None {
			return false
		}
	}
	return true
}

// Occupied reports whether p cannot be placed: a cell is off the board
// or over a locked cell.
func (b *Board) Occupied(p piece.Piece) bool {
	return !b.IsValidPosition(p)
}

// Lock writes the piece's color into the board. Cells above the visible
// field (negative row) are skipped.
func (b *Board) Lock(p piece.Piece) {
	for _, c := range p.Cells {
		if c.Row < 0 {
			continue
		}
		b.Set(c.Col, c.Row, p.Color)
	}
}

func (b *Board) rowFull(row int) bool {
	for col := 0; col < Width; col++ {
		if b.cells[index(col, row)] == piece.None {
			return false
		}
	}
	return true
}

// FullRows returns the indices of every full row, bottom-most first.
func (b *Board) FullRows() []int {
	var rows []int
	for row := Height - 1; row >= 0; row-- {
		if b.rowFull(row) {
			rows = append(rows, row)
		}
	}
	return rows
}

// removeRow drops a single row: everything above it moves down by one
// and row 0 becomes empty.
func (b *Board) removeRow(row int) {
	copy(b.cells[Width:index(0, row)+Width], b.cells[:index(0, row)])
	for col := 0; col < Width; col++ {
		b.cells[col] = piece.None
	}
}

// ClearRows removes the given rows and returns how many were removed.
//
// Rows are removed one at a time from the bottom up. Each removal shifts
// the rows above it, so a row that was listed above an already removed row
// is found again one index lower in the shifted board.
func (b *Board) ClearRows(rows []int) int {
	sorted := make([]int, 0, len(rows))
	seen := make(map[int]bool, len(rows))
	for _, r := range rows {
		if r < 0 || r >= Height || seen[r] {
			continue
		}
		seen[r] = true
		sorted = append(sorted, r)
	}
	slices.Sort(sorted)
	slices.Reverse(sorted)

	for removed, r := range sorted {
		b.removeRow(r + removed)
	}
	return len(sorted)
}

// Reset empties every cell.
func (b *Board) Reset() {
	b.cells = [Width * Height]piece.Color{}
}

// Empty reports whether no cell is locked.
func (b *Board) Empty() bool {
	for _, c := range b.cells {
		if c != piece.None {
			return false
		}
	}
	return true
}

// Rows returns a copy of the grid, indexed [row][col].
func (b *Board) Rows() [Height][Width]piece.Color {
	var out [Height][Width]piece.Color
	for row := 0; row < Height; row++ {
		copy(out[row][:], b.cells[index(0, row):index(0, row)+Width])
	}
	return out
}
