package scoring

// LinesPerLevel is the number of cleared lines needed to advance a level.
const LinesPerLevel = 10

// Scoring tracks score, cleared lines and level for a single game.
type Scoring struct {
	CurrentScore int
	Lines        int
	Level        int
	scoreTable   map[int]int
}

// InitScoring returns scoring for a fresh game: no score, no lines, level 1.
func InitScoring() *Scoring {
	return &Scoring{
		Level:      1,
		scoreTable: getScoreTable(),
	}
}

// ScoreClear applies a batch of rows cleared at once and returns the points awarded.
// Points use the level in effect before the batch; the level is recomputed after.
func (s *Scoring) ScoreClear(rows int) int {
	if rows <= 0 {
		return 0
	}
	if s.scoreTable == nil {
		s.scoreTable = getScoreTable()
	}
	points := s.scoreTable[rows] * s.Level
	s.CurrentScore += points
	s.Lines += rows
	s.Level = LevelFor(s.Lines)
	return points
}

// Reset returns to start-of-game values.
func (s *Scoring) Reset() {
	s.CurrentScore = 0
	s.Lines = 0
	s.Level = 1
}

// LevelFor returns the level reached after clearing the given number of lines.
func LevelFor(lines int) int {
	return lines/LinesPerLevel + 1
}

// getScoreTable returns the base points per number of rows cleared in one batch.
func getScoreTable() map[int]int {
	return map[int]int{
		1: 100,
		2: 300,
		3: 500,
		4: 800,
	}
}
