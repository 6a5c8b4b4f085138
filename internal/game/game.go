package game

import (
	"go-tetris/internal/board"
	"go-tetris/internal/gravity"
	"go-tetris/internal/piece"
	"go-tetris/internal/scoring"
	"go-tetris/internal/state"
	"math/rand/v2"
	"time"
)

// kickOffsets are the column shifts tried, in order, when a rotation collides.
var kickOffsets = []int{0, 1, -1, 2, -2}

// Game encapsulates the core game logic, independent of the UI.
//
// A Game has a single writer. Callers sharing it between goroutines
// must serialize access themselves (see Session).
type Game struct {
	board  *board.Board
	active *piece.Piece
	score  *scoring.Scoring
	state  *state.State
	clock  *gravity.Clock
	rng    piece.Source
}

// Option configures a Game.
type Option func(*gameConfig)

type gameConfig struct {
	rng piece.Source
	now func() time.Time
}

// WithSource sets the random source used to pick pieces.
func WithSource(src piece.Source) Option {
	return func(c *gameConfig) { c.rng = src }
}

// WithSeed picks pieces from a deterministic sequence.
func WithSeed(seed uint64) Option {
	return WithSource(rand.New(rand.NewPCG(seed, seed)))
}

// WithClock sets the time source used for gravity.
func WithClock(now func() time.Time) Option {
	return func(c *gameConfig) { c.now = now }
}

// NewGame creates a game and spawns its first piece.
func NewGame(opts ...Option) *Game {
	cfg := gameConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.rng == nil {
		cfg.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	g := &Game{
		board: board.New(),
		score: scoring.InitScoring(),
		state: state.New(),
		clock: gravity.NewClock(cfg.now),
		rng:   cfg.rng,
	}
	g.SpawnNewPiece()
	return g
}

// SpawnNewPiece makes a random piece active at its spawn position. If the
// spawn cells are blocked the game is over.
func (g *Game) SpawnNewPiece() {
	p := piece.Random(g.rng)
	g.active = &p
	if g.board.Occupied(p) {
		g.state.TopOut()
	}
}

func (g *Game) canAct() bool {
	return g.active != nil && g.state.IsPlaying()
}

// MovePiece shifts the active piece if the new position is free.
func (g *Game) MovePiece(dCol, dRow int) bool {
	if !g.canAct() {
		return false
	}
	moved := g.active.Translate(dCol, dRow)
	if !g.board.IsValidPosition(moved) {
		return false
	}
	g.active = &moved
	return true
}

// RotatePiece turns the active piece, shifting it sideways if the plain
// rotation collides. The first free candidate wins.
func (g *Game) RotatePiece() bool {
	if !g.canAct() {
		return false
	}
	rotated := g.active.Rotate()
	if g.board.IsValidPosition(rotated) {
		g.active = &rotated
		return true
	}
	for _, dCol := range kickOffsets {
		kicked := rotated.Translate(dCol, 0)
		if g.board.IsValidPosition(kicked) {
			g.active = &kicked
			return true
		}
	}
	return false
}

// DropPiece moves the active piece down one row. When it cannot move the
// piece is locked; it returns true only if the piece moved.
func (g *Game) DropPiece() bool {
	if !g.canAct() {
		return false
	}
	if g.MovePiece(0, 1) {
		return true
	}
	g.lockPiece()
	return false
}

// HardDrop drops the active piece as far as it goes and locks it.
// It returns the number of rows the piece fell.
func (g *Game) HardDrop() int {
	if !g.canAct() {
		return 0
	}
	fallen := 0
	for g.MovePiece(0, 1) {
		fallen++
	}
	g.lockPiece()
	return fallen
}

// lockPiece writes the active piece into the board. Full rows start the
// clear animation; otherwise the next piece spawns right away.
func (g *Game) lockPiece() {
	g.board.Lock(*g.active)
	g.active = nil

	if rows := g.board.FullRows(); len(rows) > 0 {
		g.state.StartClear(rows)
		return
	}
	g.SpawnNewPiece()
}

// UpdateAnimationProgress records the caller's animation progress while
// rows are being cleared.
func (g *Game) UpdateAnimationProgress(progress float64) {
	g.state.SetProgress(progress)
}

// CompleteLineClear removes the rows of the running clear animation,
// scores them and spawns the next piece. It must be called once per
// animation; outside an animation it does nothing.
func (g *Game) CompleteLineClear() {
	rows := g.state.FinishClear()
	if rows == nil {
		return
	}
	cleared := g.board.ClearRows(rows)
	g.score.ScoreClear(cleared)
	g.SpawnNewPiece()
}

// ShouldAutoDrop reports whether gravity is due. It never fires while rows
// are being cleared.
func (g *Game) ShouldAutoDrop() bool {
	if g.state.IsClearing() {
		return false
	}
	return g.clock.Due(g.score.Level)
}

// Reset starts a new game.
func (g *Game) Reset() {
	g.board.Reset()
	g.active = nil
	g.score.Reset()
	g.state.Reset()
	g.clock.Reset()
	g.SpawnNewPiece()
}

func (g *Game) Score() int {
	return g.score.CurrentScore
}

func (g *Game) Level() int {
	return g.score.Level
}

func (g *Game) Lines() int {
	return g.score.Lines
}

func (g *Game) IsGameOver() bool {
	return g.state.IsGameOver()
}

func (g *Game) IsClearing() bool {
	return g.state.IsClearing()
}

// Phase returns the engine phase: state.Playing, state.Clearing or state.GameOver.
func (g *Game) Phase() string {
	return g.state.Phase()
}

// Animation returns a copy of the clear animation.
func (g *Game) Animation() state.Animation {
	return g.state.Snapshot()
}

// Active returns the falling piece, if any.
func (g *Game) Active() (piece.Piece, bool) {
	if g.active == nil {
		return piece.Piece{}, false
	}
	return *g.active, true
}

// Scoring returns the score state of the current game.
func (g *Game) Scoring() scoring.Scoring {
	return *g.score
}
