package state

import "time"

const (
	// FlashCount is the number of on/off flashes in one clear animation.
	FlashCount = 3
	// FlashPeriod is the length of a single flash.
	FlashPeriod = 200 * time.Millisecond
	// FlashDuration is the total length of a clear animation.
	FlashDuration = FlashCount * FlashPeriod
)

// Progress converts elapsed animation time into a value in [0, 1].
func Progress(elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	if elapsed >= FlashDuration {
		return 1
	}
	return float64(elapsed) / float64(FlashDuration)
}

// FlashOn reports whether clearing rows should be drawn highlighted at
// the given progress.
func FlashOn(progress float64) bool {
	return int(progress*FlashCount*2)%2 == 0
}
