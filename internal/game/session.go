package game

import (
	"fmt"
	"go-tetris/internal/scoring"
	"sync"
	"time"
)

// Session wraps a Game for an interactive front end: it serializes access,
// adds pause and restart, and keeps the high score of the running process.
type Session struct {
	mu           sync.Mutex
	CurrentGame  *Game
	ScoreStorage scoring.ScoreStorage

	paused   bool
	recorded bool // the finished game has been saved to ScoreStorage
	newBest  bool // the recorded game beat every earlier one
	best     int
	history  scoring.ScoreHistory
	now      func() time.Time
}

// NewSession starts a game backed by storage for finished results.
func NewSession(storage scoring.ScoreStorage, opts ...Option) (*Session, error) {
	history, err := scoring.LoadHistory(storage)
	if err != nil {
		return nil, err
	}

	cfg := gameConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	now := cfg.now
	if now == nil {
		now = time.Now
	}

	return &Session{
		CurrentGame:  NewGame(opts...),
		ScoreStorage: storage,
		history:      history,
		best:         history.HighScore(),
		now:          now,
	}, nil
}

// playable reports whether player and gravity commands reach the game.
func (s *Session) playable() bool {
	g := s.CurrentGame
	return !s.paused && !g.IsGameOver() && !g.IsClearing()
}

// Tick applies gravity when it is due. It reports whether a drop step ran.
func (s *Session) Tick() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.playable() || !s.CurrentGame.ShouldAutoDrop() {
		return false, nil
	}
	s.CurrentGame.DropPiece()
	return true, s.update()
}

// Move shifts the falling piece horizontally.
func (s *Session) Move(dCol int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.playable() {
		return false
	}
	return s.CurrentGame.MovePiece(dCol, 0)
}

// Rotate turns the falling piece.
func (s *Session) Rotate() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.playable() {
		return false
	}
	return s.CurrentGame.RotatePiece()
}

// SoftDrop moves the falling piece down one row, locking it when it rests.
func (s *Session) SoftDrop() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.playable() {
		return false, nil
	}
	moved := s.CurrentGame.DropPiece()
	return moved, s.update()
}

// HardDrop drops and locks the falling piece. It returns the rows fallen.
func (s *Session) HardDrop() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.playable() {
		return 0, nil
	}
	fallen := s.CurrentGame.HardDrop()
	return fallen, s.update()
}

// UpdateAnimation forwards clear animation progress to the game.
func (s *Session) UpdateAnimation(progress float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.CurrentGame.UpdateAnimationProgress(progress)
}

// CompleteLineClear finishes the running clear animation. It reports the
// number of lines cleared by this call.
func (s *Session) CompleteLineClear() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.CurrentGame.IsClearing() {
		return 0, nil
	}
	before := s.CurrentGame.Lines()
	s.CurrentGame.CompleteLineClear()
	return s.CurrentGame.Lines() - before, s.update()
}

// TogglePause pauses or resumes play and returns the new paused state.
// A finished game cannot be paused.
func (s *Session) TogglePause() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.CurrentGame.IsGameOver() {
		s.paused = false
		return false
	}
	s.paused = !s.paused
	return s.paused
}

func (s *Session) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

// Restart resets the game and resumes play.
func (s *Session) Restart() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.CurrentGame.Reset()
	s.paused = false
	s.recorded = false
	s.newBest = false
}

// HighScore returns the best score seen by this process. Games abandoned
// by a restart still count; the score in progress is included after each
// drop or clear.
func (s *Session) HighScore() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.best
}

// NewHighScore reports whether the finished game beat every earlier
// recorded game.
func (s *Session) NewHighScore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.newBest
}

// ResetHighScore forgets every finished game and sets the high score to 0.
// The game in progress counts again from its next drop.
func (s *Session) ResetHighScore() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := scoring.ClearHistory(s.ScoreStorage); err != nil {
		return err
	}
	s.history = scoring.ScoreHistory{}
	s.best = 0
	s.newBest = false
	return nil
}

// TopScores returns the best n finished games.
func (s *Session) TopScores(n int) []scoring.ScoreHistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.history.GetNScoreEntries(n)
}

// Snapshot returns the observable game state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.CurrentGame.Snapshot()
}

// update raises the high score and saves the result once the game is over.
func (s *Session) update() error {
	g := s.CurrentGame
	s.best = max(s.best, g.Score())
	if !g.IsGameOver() || s.recorded {
		return nil
	}
	s.paused = false

	sc := g.Scoring()
	s.newBest = s.history.GotHighScore(sc.CurrentScore)
	if err := sc.SaveEntry(s.ScoreStorage, s.now()); err != nil {
		return fmt.Errorf("failed to record finished game: %w", err)
	}
	s.recorded = true
	history, err := scoring.LoadHistory(s.ScoreStorage)
	if err != nil {
		return err
	}
	s.history = history
	return nil
}
