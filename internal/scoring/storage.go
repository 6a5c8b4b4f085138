package scoring

import (
	"fmt"
	"sync"
	"time"
)

// ScoreStorage defines the interface for loading and saving score data.
// This allows for swapping the storage layer during tests.
type ScoreStorage interface {
	// LoadAll loads all score entries.
	LoadAll() ([]ScoreHistoryEntry, error)
	// SaveAll replaces every stored entry.
	SaveAll(entries []ScoreHistoryEntry) error
}

// MemoryStorage keeps score entries for the lifetime of the process only.
type MemoryStorage struct {
	mu      sync.Mutex
	entries []ScoreHistoryEntry
}

// NewMemoryStorage returns an empty store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// LoadAll returns a copy of the stored entries.
func (ms *MemoryStorage) LoadAll() ([]ScoreHistoryEntry, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	out := make([]ScoreHistoryEntry, len(ms.entries))
	copy(out, ms.entries)
	return out, nil
}

// SaveAll replaces the stored entries with a copy of entries.
func (ms *MemoryStorage) SaveAll(entries []ScoreHistoryEntry) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.entries = make([]ScoreHistoryEntry, len(entries))
	copy(ms.entries, entries)
	return nil
}

// LoadHistory reads every entry from storage.
func LoadHistory(storage ScoreStorage) (ScoreHistory, error) {
	entries, err := storage.LoadAll()
	if err != nil {
		return ScoreHistory{}, fmt.Errorf("could not load score history: %w", err)
	}
	return ScoreHistory{Entries: entries}, nil
}

// SaveEntry appends the result of a finished game to storage.
func (s *Scoring) SaveEntry(storage ScoreStorage, at time.Time) error {
	allEntries, err := storage.LoadAll()
	if err != nil {
		return fmt.Errorf("could not load scores for saving: %w", err)
	}
	allEntries = append(allEntries, ScoreHistoryEntry{
		Score:     s.CurrentScore,
		Lines:     s.Lines,
		Level:     s.Level,
		Timestamp: at.Format(time.RFC3339),
	})
	return storage.SaveAll(allEntries)
}

// ClearHistory removes every stored entry.
func ClearHistory(storage ScoreStorage) error {
	if err := storage.SaveAll(nil); err != nil {
		return fmt.Errorf("could not clear score history: %w", err)
	}
	return nil
}
