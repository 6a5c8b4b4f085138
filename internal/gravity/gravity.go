package gravity

import "time"

const (
	baseInterval = 1000 * time.Millisecond
	levelStep    = 100 * time.Millisecond
	minInterval  = 100 * time.Millisecond
)

// Interval returns the time between automatic drops at the given level:
// 1000ms at level 1, 100ms less per level, never below 100ms.
func Interval(level int) time.Duration {
	return max(baseInterval-time.Duration(level-1)*levelStep, minInterval)
}

// Clock gates automatic drops. It does not schedule anything; callers poll Due.
type Clock struct {
	now      func() time.Time
	lastDrop time.Time
}

// NewClock returns a clock using now as its time source. A nil now uses time.Now.
func NewClock(now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{now: now, lastDrop: now()}
}

// Due reports whether more than the level's interval has passed since the
// last drop. When it has, the last drop is moved to now.
func (c *Clock) Due(level int) bool {
	t := c.now()
	if t.Sub(c.lastDrop) > Interval(level) {
		c.lastDrop = t
		return true
	}
	return false
}

// Reset restarts the interval from now.
func (c *Clock) Reset() {
	c.lastDrop = c.now()
}
