package state

import (
	"context"
	"math"
	"slices"

	"github.com/looplab/fsm"
)

// Game phases. Clearing is a sub-state of play in which only animation
// progress updates are accepted.
const (
	Playing  = "playing"
	Clearing = "clearing"
	GameOver = "gameOver"
)

// Animation describes a running line-clear effect. The zero value is idle.
type Animation struct {
	Clearing bool
	Lines    []int   // rows being cleared, bottom-most first
	Progress float64 // 0..1, written by the caller's animation clock
}

// State tracks the engine phase and the clear animation.
type State struct {
	FSM       *fsm.FSM
	Animation Animation
}

// New returns a state in the Playing phase with an idle animation.
func New() *State {
	s := &State{}
	s.FSM = fsm.NewFSM(
		Playing,
		getStateTransitions(),
		getStateCallbacks(s),
	)
	return s
}

func getStateTransitions() []fsm.EventDesc {
	return fsm.Events{
		{Name: "startClear", Src: []string{Playing}, Dst: Clearing},
		{Name: "finishClear", Src: []string{Clearing}, Dst: Playing},
		{Name: "topOut", Src: []string{Playing, Clearing}, Dst: GameOver},
		{Name: "reset", Src: []string{Playing, Clearing, GameOver}, Dst: Playing},
	}
}

func getStateCallbacks(s *State) map[string]fsm.Callback {
	return fsm.Callbacks{
		"before_startClear": func(ctx context.Context, e *fsm.Event) {
			if len(e.Args) == 0 {
				e.Cancel()
				return
			}
			lines, ok := e.Args[0].([]int)
			if !ok || len(lines) == 0 {
				e.Cancel()
			}
		},
		"enter_clearing": func(ctx context.Context, e *fsm.Event) {
			lines := slices.Clone(e.Args[0].([]int))
			slices.Sort(lines)
			slices.Reverse(lines)
			s.Animation = Animation{
				Clearing: true,
				Lines:    lines,
			}
		},
		"leave_clearing": func(ctx context.Context, e *fsm.Event) {
			s.Animation = Animation{}
		},
	}
}

// Phase returns the current phase name.
func (s *State) Phase() string {
	return s.FSM.Current()
}

func (s *State) IsPlaying() bool {
	return s.FSM.Is(Playing)
}

func (s *State) IsClearing() bool {
	return s.FSM.Is(Clearing)
}

func (s *State) IsGameOver() bool {
	return s.FSM.Is(GameOver)
}

// StartClear enters the Clearing phase for the given rows.
// It reports false when not playing or when lines is empty.
func (s *State) StartClear(lines []int) bool {
	return s.FSM.Event(context.Background(), "startClear", lines) == nil
}

// SetProgress records the animation progress, clamped to [0, 1].
// Updates outside the Clearing phase and NaN are ignored.
func (s *State) SetProgress(progress float64) bool {
	if !s.IsClearing() || math.IsNaN(progress) {
		return false
	}
	s.Animation.Progress = min(max(progress, 0), 1)
	return true
}

// FinishClear leaves the Clearing phase and returns the rows that were
// being cleared. Outside the Clearing phase it returns nil.
func (s *State) FinishClear() []int {
	if !s.IsClearing() {
		return nil
	}
	lines := s.Animation.Lines
	_ = s.FSM.Event(context.Background(), "finishClear")
	return lines
}

// TopOut moves a playing game to GameOver.
func (s *State) TopOut() bool {
	return s.FSM.Event(context.Background(), "topOut") == nil
}

// Reset returns to Playing with an idle animation from any phase.
func (s *State) Reset() {
	// Playing -> Playing reports fsm.NoTransitionError, which is harmless here.
	_ = s.FSM.Event(context.Background(), "reset")
	s.Animation = Animation{}
}

// Snapshot returns a copy of the animation that shares no memory with the state.
func (s *State) Snapshot() Animation {
	a := s.Animation
	a.Lines = slices.Clone(a.Lines)
	return a
}
