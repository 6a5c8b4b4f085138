package scoring

import (
	"sort"
)

// ScoreHistoryEntry is the result of one finished game.
type ScoreHistoryEntry struct {
	Score     int    `json:"score"`
	Lines     int    `json:"lines"`
	Level     int    `json:"level"`
	Timestamp string `json:"timestamp"`
}

// ScoreHistory holds the finished games of the current process.
type ScoreHistory struct {
	Entries []ScoreHistoryEntry
}

// GetHighScoreEntry returns the best entry, or nil when no game has finished.
func (sh ScoreHistory) GetHighScoreEntry() *ScoreHistoryEntry {
	if len(sh.Entries) == 0 {
		return nil
	}
	best := sh.Entries[0]
	for _, e := range sh.Entries[1:] {
		if e.Score > best.Score {
			best = e
		}
	}
	return &best
}

// HighScore returns the best score, 0 when the history is empty.
func (sh ScoreHistory) HighScore() int {
	if e := sh.GetHighScoreEntry(); e != nil {
		return e.Score
	}
	return 0
}

// GetNScoreEntries returns the top N entries sorted by score.
func (sh ScoreHistory) GetNScoreEntries(n int) []ScoreHistoryEntry {
	// Make a copy to avoid modifying the original slice.
	entriesCopy := make([]ScoreHistoryEntry, len(sh.Entries))
	copy(entriesCopy, sh.Entries)

	sort.SliceStable(entriesCopy, func(i, j int) bool {
		return entriesCopy[i].Score > entriesCopy[j].Score
	})

	if len(entriesCopy) < n {
		return entriesCopy
	}
	return entriesCopy[:n]
}

// GotHighScore reports whether score beats every recorded game.
// With no history any positive score counts.
func (sh ScoreHistory) GotHighScore(score int) bool {
	return score > sh.HighScore()
}
