package game

import (
	"go-tetris/internal/board"
	"go-tetris/internal/piece"
	"go-tetris/internal/state"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scripted yields the given kinds in order, cycling.
type scripted struct {
	kinds []piece.Kind
	i     int
}

func (s *scripted) IntN(n int) int {
	k := s.kinds[s.i%len(s.kinds)]
	s.i++
	return int(k) % n
}

type fakeClock struct {
	t time.Time
}

func (f *fakeClock) now() time.Time { return f.t }

func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestGame(kinds ...piece.Kind) (*Game, *fakeClock) {
	clk := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	g := NewGame(WithSource(&scripted{kinds: kinds}), WithClock(clk.now))
	return g, clk
}

func activeCells(t *testing.T, g *Game) [4]piece.Cell {
	t.Helper()
	p, ok := g.Active()
	require.True(t, ok, "expected an active piece")
	return p.Cells
}

// fillRows locks every column of the given rows except the gap columns.
func fillRows(g *Game, from, to int, gaps ...int) {
	for row := from; row <= to; row++ {
		for col := 0; col < board.Width; col++ {
			gap := false
			for _, c := range gaps {
				gap = gap || c == col
			}
			if !gap {
				g.board.Set(col, row, piece.Orange)
			}
		}
	}
}

// verticalIAtColumn0 turns the spawned I piece upright and moves it to column 0.
func verticalIAtColumn0(t *testing.T, g *Game) {
	t.Helper()
	require.True(t, g.MovePiece(0, 1))
	require.True(t, g.RotatePiece())
	require.True(t, g.MovePiece(-5, 0))
	require.Equal(t, [4]piece.Cell{{Col: 0, Row: 0}, {Col: 0, Row: 1}, {Col: 0, Row: 2}, {Col: 0, Row: 3}}, activeCells(t, g))
}

func TestNewGame(t *testing.T) {
	g, _ := newTestGame(piece.T)

	assert.Equal(t, 0, g.Score())
	assert.Equal(t, 1, g.Level())
	assert.Equal(t, 0, g.Lines())
	assert.False(t, g.IsGameOver())
	assert.False(t, g.IsClearing())
	assert.Equal(t, state.Playing, g.Phase())
	assert.Equal(t, piece.New(piece.T).Cells, activeCells(t, g))
	assert.Equal(t, state.Animation{}, g.Animation())
}

func TestNewGame_DefaultSource(t *testing.T) {
	g := NewGame()
	_, ok := g.Active()
	assert.True(t, ok)
}

func TestNewGame_SeedIsDeterministic(t *testing.T) {
	a := NewGame(WithSeed(42))
	b := NewGame(WithSeed(42))
	for i := 0; i < 20; i++ {
		pa, _ := a.Active()
		pb, _ := b.Active()
		require.Equal(t, pa.Kind, pb.Kind, "piece %d", i)
		a.HardDrop()
		b.HardDrop()
		a.CompleteLineClear()
		b.CompleteLineClear()
	}
}

func TestMovePiece(t *testing.T) {
	g, _ := newTestGame(piece.I)

	assert.True(t, g.MovePiece(-1, 0))
	assert.Equal(t, [4]piece.Cell{{Col: 3, Row: 0}, {Col: 4, Row: 0}, {Col: 5, Row: 0}, {Col: 6, Row: 0}}, activeCells(t, g))

	assert.True(t, g.MovePiece(0, 3))
	assert.Equal(t, [4]piece.Cell{{Col: 3, Row: 3}, {Col: 4, Row: 3}, {Col: 5, Row: 3}, {Col: 6, Row: 3}}, activeCells(t, g))
}

func TestMovePiece_RejectedLeavesPieceUnchanged(t *testing.T) {
	g, _ := newTestGame(piece.I)
	before := activeCells(t, g)

	assert.False(t, g.MovePiece(3, 0), "right wall")
	assert.False(t, g.MovePiece(-5, 0), "left wall")
	assert.False(t, g.MovePiece(0, -1), "above the field")
	assert.False(t, g.MovePiece(0, board.Height), "below the floor")

	g.board.Set(4, 1, piece.Red)
	assert.False(t, g.MovePiece(0, 1), "locked cell")
	assert.Equal(t, before, activeCells(t, g))
}

func TestMovePiece_RandomWalkStaysLegal(t *testing.T) {
	g, _ := newTestGame(piece.T, piece.S, piece.L)
	fillRows(g, 15, 19, 2, 7)
	rng := rand.New(rand.NewPCG(1, 2))

	for i := 0; i < 500; i++ {
		before := activeCells(t, g)
		dCol, dRow := rng.IntN(5)-2, rng.IntN(4)-1
		ok := g.MovePiece(dCol, dRow)

		after := activeCells(t, g)
		if !ok {
			require.Equal(t, before, after)
			continue
		}
		p, _ := g.Active()
		require.True(t, g.board.IsValidPosition(p))
		require.Equal(t, before[0].Col+dCol, after[0].Col)
		require.Equal(t, before[0].Row+dRow, after[0].Row)
	}
}

func TestRotatePiece_O(t *testing.T) {
	g, _ := newTestGame(piece.O)
	before := activeCells(t, g)

	assert.True(t, g.RotatePiece())
	assert.Equal(t, before, activeCells(t, g))
}

func TestRotatePiece_T(t *testing.T) {
	g, _ := newTestGame(piece.T)

	require.True(t, g.RotatePiece())
	assert.Equal(t, [4]piece.Cell{{Col: 4, Row: 2}, {Col: 3, Row: 1}, {Col: 3, Row: 2}, {Col: 3, Row: 3}}, activeCells(t, g))
}

func TestRotatePiece_FourTimesIsIdentity(t *testing.T) {
	for _, k := range piece.Kinds() {
		g, _ := newTestGame(k)
		require.True(t, g.MovePiece(0, 5))
		before := activeCells(t, g)

		for i := 0; i < 4; i++ {
			require.True(t, g.RotatePiece(), "kind %s rotation %d", k, i)
		}
		assert.Equal(t, before, activeCells(t, g), "kind %s", k)
	}
}

func TestRotatePiece_WallKick(t *testing.T) {
	g, _ := newTestGame(piece.I)
	require.True(t, g.MovePiece(0, 2))
	require.True(t, g.RotatePiece())
	require.Equal(t, [4]piece.Cell{{Col: 5, Row: 1}, {Col: 5, Row: 2}, {Col: 5, Row: 3}, {Col: 5, Row: 4}}, activeCells(t, g))
	require.True(t, g.MovePiece(4, 0))

	// Flat again, the plain rotation pokes through the right wall at column 10.
	// Offsets 0 and +1 fail; -1 is the first that fits.
	require.True(t, g.RotatePiece())
	assert.Equal(t, [4]piece.Cell{{Col: 9, Row: 2}, {Col: 8, Row: 2}, {Col: 7, Row: 2}, {Col: 6, Row: 2}}, activeCells(t, g))
}

func TestRotatePiece_KickOrderPrefersRight(t *testing.T) {
	g, _ := newTestGame(piece.T)
	require.True(t, g.MovePiece(0, 5))
	// T at (4,5),(3,6),(4,6),(5,6) pivots on (3,6); rotated cell (3,8) is blocked.
	g.board.Set(3, 8, piece.Red)

	require.True(t, g.RotatePiece())
	// Plain rotation (4,7),(3,6),(3,7),(3,8) fails; +1 fits before -1 is tried.
	assert.Equal(t, [4]piece.Cell{{Col: 5, Row: 7}, {Col: 4, Row: 6}, {Col: 4, Row: 7}, {Col: 4, Row: 8}}, activeCells(t, g))
}

func TestRotatePiece_FailsAtSpawnForI(t *testing.T) {
	g, _ := newTestGame(piece.I)
	before := activeCells(t, g)

	// Upright I would reach row -1; horizontal kicks cannot help.
	assert.False(t, g.RotatePiece())
	assert.Equal(t, before, activeCells(t, g))
}

func TestDropPiece(t *testing.T) {
	g, _ := newTestGame(piece.O, piece.T)

	for i := 0; i < board.Height-2; i++ {
		require.True(t, g.DropPiece(), "drop %d", i)
	}
	assert.Equal(t, [4]piece.Cell{{Col: 4, Row: 18}, {Col: 5, Row: 18}, {Col: 4, Row: 19}, {Col: 5, Row: 19}}, activeCells(t, g))

	// Resting: the piece locks and the next one spawns.
	assert.False(t, g.DropPiece())
	assert.Equal(t, piece.Yellow, g.board.At(4, 19))
	assert.Equal(t, piece.Yellow, g.board.At(5, 18))
	p, ok := g.Active()
	require.True(t, ok)
	assert.Equal(t, piece.T, p.Kind)
	assert.Equal(t, piece.New(piece.T).Cells, p.Cells)
}

func TestHardDrop_IOnEmptyBoard(t *testing.T) {
	g, _ := newTestGame(piece.I, piece.Z)

	fallen := g.HardDrop()
	assert.Equal(t, 19, fallen)
	for col := 4; col <= 7; col++ {
		assert.Equal(t, piece.Cyan, g.board.At(col, 19))
	}
	assert.Equal(t, piece.None, g.board.At(3, 19))

	assert.False(t, g.IsClearing())
	assert.Equal(t, 0, g.Score())
	assert.Equal(t, 1, g.Level())
	assert.Equal(t, 0, g.Lines())

	p, ok := g.Active()
	require.True(t, ok)
	assert.Equal(t, piece.Z, p.Kind)
}

func TestHardDrop_FourLineClear(t *testing.T) {
	g, _ := newTestGame(piece.I, piece.T)
	fillRows(g, 10, 19, 0)
	g.board.Set(5, 9, piece.Green)

	verticalIAtColumn0(t, g)
	g.HardDrop()

	require.True(t, g.IsClearing())
	assert.Equal(t, state.Clearing, g.Phase())
	anim := g.Animation()
	assert.True(t, anim.Clearing)
	assert.Equal(t, []int{19, 18, 17, 16}, anim.Lines)
	assert.Equal(t, 0.0, anim.Progress)
	_, ok := g.Active()
	assert.False(t, ok, "no piece is falling during the animation")

	// Rows are not removed until the animation completes.
	assert.Equal(t, []int{19, 18, 17, 16}, g.board.FullRows())
	assert.Equal(t, 0, g.Lines())

	g.UpdateAnimationProgress(0.5)
	assert.Equal(t, 0.5, g.Animation().Progress)

	g.CompleteLineClear()
	assert.Equal(t, 4, g.Lines())
	assert.Equal(t, 800, g.Score())
	assert.Equal(t, 1, g.Level())
	assert.Equal(t, state.Animation{}, g.Animation())
	assert.False(t, g.IsClearing())

	// Rows 10..15 shifted down by four.
	assert.Equal(t, piece.Green, g.board.At(5, 13))
	for row := 14; row < board.Height; row++ {
		assert.Equal(t, piece.None, g.board.At(0, row), "row %d", row)
		assert.Equal(t, piece.Orange, g.board.At(1, row), "row %d", row)
	}
	for row := 0; row < 14; row++ {
		assert.Equal(t, piece.None, g.board.At(1, row), "row %d", row)
	}

	p, ok := g.Active()
	require.True(t, ok)
	assert.Equal(t, piece.T, p.Kind)
}

func TestClearing_RejectsCommands(t *testing.T) {
	g, clk := newTestGame(piece.I, piece.O)
	fillRows(g, 19, 19, 4, 5, 6, 7)
	g.HardDrop()
	require.True(t, g.IsClearing())

	assert.False(t, g.MovePiece(1, 0))
	assert.False(t, g.RotatePiece())
	assert.False(t, g.DropPiece())
	assert.Equal(t, 0, g.HardDrop())

	clk.advance(time.Hour)
	assert.False(t, g.ShouldAutoDrop())
	assert.True(t, g.IsClearing())

	// Progress updates are the only accepted input.
	g.UpdateAnimationProgress(0.3)
	assert.Equal(t, 0.3, g.Animation().Progress)
}

func TestDropPiece_LockStartsClear(t *testing.T) {
	g, _ := newTestGame(piece.O, piece.J)
	fillRows(g, 18, 19, 4, 5)
	for g.DropPiece() {
	}

	require.True(t, g.IsClearing())
	assert.Equal(t, []int{19, 18}, g.Animation().Lines)

	g.CompleteLineClear()
	assert.Equal(t, 300, g.Score())
	assert.Equal(t, 2, g.Lines())
	assert.True(t, g.board.Empty())
	p, _ := g.Active()
	assert.Equal(t, piece.J, p.Kind)
}

func TestCompleteLineClear_ScoresAtLevel(t *testing.T) {
	tests := []struct {
		rows   int
		level  int
		points int
	}{
		{1, 1, 100},
		{2, 1, 300},
		{1, 3, 300},
		{2, 4, 1200},
		{3, 2, 1000},
		{4, 5, 4000},
	}

	for _, tt := range tests {
		g, _ := newTestGame(piece.I)
		g.score.Level = tt.level
		g.score.Lines = (tt.level - 1) * 10
		fillRows(g, board.Height-tt.rows, board.Height-1)
		require.True(t, g.state.StartClear(g.board.FullRows()))

		g.CompleteLineClear()
		assert.Equal(t, tt.points, g.Score(), "rows=%d level=%d", tt.rows, tt.level)
		assert.Equal(t, (tt.level-1)*10+tt.rows, g.Lines())
		assert.Equal(t, g.Lines()/10+1, g.Level())
	}
}

func TestCompleteLineClear_LevelBoundary(t *testing.T) {
	g, _ := newTestGame(piece.I)
	g.score.Lines = 9

	fillRows(g, 19, 19)
	g.state.StartClear(g.board.FullRows())
	g.CompleteLineClear()
	assert.Equal(t, 100, g.Score(), "scored at the old level")
	assert.Equal(t, 10, g.Lines())
	assert.Equal(t, 2, g.Level())

	fillRows(g, 19, 19)
	g.state.StartClear(g.board.FullRows())
	g.CompleteLineClear()
	assert.Equal(t, 300, g.Score(), "next clear uses level 2")
}

func TestCompleteLineClear_OutsideClearingIsNoOp(t *testing.T) {
	g, _ := newTestGame(piece.L, piece.S)
	before := g.Snapshot()

	g.CompleteLineClear()
	assert.Equal(t, before, g.Snapshot())
}

func TestUpdateAnimationProgress_IgnoredWhilePlaying(t *testing.T) {
	g, _ := newTestGame(piece.L)
	g.UpdateAnimationProgress(0.8)
	assert.Equal(t, state.Animation{}, g.Animation())
}

func TestSpawnNewPiece_BlockedIsGameOver(t *testing.T) {
	g, _ := newTestGame(piece.T)
	g.board.Set(4, 1, piece.Red)

	g.SpawnNewPiece()
	assert.True(t, g.IsGameOver())
	assert.Equal(t, state.GameOver, g.Phase())

	// Terminal: everything is rejected and the flag stays set.
	assert.False(t, g.MovePiece(0, 0))
	assert.False(t, g.RotatePiece())
	assert.False(t, g.DropPiece())
	assert.Equal(t, 0, g.HardDrop())
	g.SpawnNewPiece()
	g.CompleteLineClear()
	assert.True(t, g.IsGameOver())

	g.Reset()
	assert.False(t, g.IsGameOver())
}

func TestGameOver_StackReachesSpawn(t *testing.T) {
	g, _ := newTestGame(piece.O)
	for row := 2; row < board.Height; row++ {
		g.board.Set(4, row, piece.Blue)
	}

	assert.Equal(t, 0, g.HardDrop())
	assert.Equal(t, piece.Yellow, g.board.At(4, 0))
	assert.True(t, g.IsGameOver())
}

func TestShouldAutoDrop(t *testing.T) {
	g, clk := newTestGame(piece.T)

	assert.False(t, g.ShouldAutoDrop())
	clk.advance(1001 * time.Millisecond)
	assert.True(t, g.ShouldAutoDrop())
	assert.False(t, g.ShouldAutoDrop(), "gate restarts after firing")

	g.score.Level = 10
	clk.advance(101 * time.Millisecond)
	assert.True(t, g.ShouldAutoDrop())
}

func TestReset(t *testing.T) {
	g, clk := newTestGame(piece.I, piece.O, piece.T)
	fillRows(g, 19, 19, 4, 5, 6, 7)
	g.HardDrop()
	g.CompleteLineClear()
	g.HardDrop()
	fillRows(g, 17, 18, 0)
	require.NotZero(t, g.Score())

	clk.advance(5 * time.Second)
	g.Reset()

	assert.Equal(t, 0, g.Score())
	assert.Equal(t, 1, g.Level())
	assert.Equal(t, 0, g.Lines())
	assert.False(t, g.IsGameOver())
	assert.False(t, g.IsClearing())
	assert.Equal(t, state.Animation{}, g.Animation())
	assert.True(t, g.board.Empty())
	_, ok := g.Active()
	assert.True(t, ok)
	assert.False(t, g.ShouldAutoDrop(), "gravity restarts from the reset")
}

func TestReset_AbortsClearing(t *testing.T) {
	g, _ := newTestGame(piece.I)
	fillRows(g, 19, 19, 4, 5, 6, 7)
	g.HardDrop()
	require.True(t, g.IsClearing())

	g.Reset()
	assert.False(t, g.IsClearing())
	assert.True(t, g.board.Empty())
	assert.Equal(t, 0, g.Lines())
}
