package game

import (
	"go-tetris/internal/board"
	"go-tetris/internal/piece"
	"go-tetris/internal/state"
)

// Grid is the displayable playfield indexed [row][col]; piece.None is empty.
type Grid [board.Height][board.Width]piece.Color

// Snapshot is a read-only copy of everything a presentation layer draws.
type Snapshot struct {
	Grid      Grid
	Active    *piece.Piece
	Score     int
	Level     int
	Lines     int
	GameOver  bool
	Clearing  bool
	Phase     string
	Animation state.Animation
}

// Grid returns the locked cells with the active piece drawn on top. While
// rows are being cleared the active piece is left out.
func (g *Game) Grid() Grid {
	grid := Grid(g.board.Rows())
	if g.state.IsClearing() || g.active == nil {
		return grid
	}
	for _, c := range g.active.Cells {
		if c.Col >= 0 && c.Col < board.Width && c.Row >= 0 && c.Row < board.Height {
			grid[c.Row][c.Col] = g.active.Color
		}
	}
	return grid
}

// Snapshot returns a copy of the observable game state.
func (g *Game) Snapshot() Snapshot {
	snap := Snapshot{
		Grid:      g.Grid(),
		Score:     g.Score(),
		Level:     g.Level(),
		Lines:     g.Lines(),
		GameOver:  g.IsGameOver(),
		Clearing:  g.IsClearing(),
		Phase:     g.Phase(),
		Animation: g.Animation(),
	}
	if p, ok := g.Active(); ok {
		snap.Active = &p
	}
	return snap
}

// Flashing reports whether the cell at row should be drawn highlighted
// by the clear animation.
func (s Snapshot) Flashing(row int) bool {
	if !s.Animation.Clearing || !state.FlashOn(s.Animation.Progress) {
		return false
	}
	for _, r := range s.Animation.Lines {
		if r == row {
			return true
		}
	}
	return false
}
