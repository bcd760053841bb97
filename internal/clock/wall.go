package clock

import (
	"math"
	"time"
)

// Wall derives the song position from elapsed wall time, for sessions
// played without audio.
type Wall struct {
	start time.Time
	rate  float64
	now   func() time.Time
}

// NewWall starts the song at start, which may lie in the future to give
// the player a lead-in. rate scales elapsed time.
func NewWall(start time.Time, rate float64) *Wall {
	return &Wall{start: start, rate: rate, now: time.Now}
}

func (w *Wall) Position() time.Duration {
	elapsed := w.now().Sub(w.start)
	if elapsed <= 0 {
		return 0
	}
	return time.Duration(math.Round(float64(elapsed) * w.rate))
}

func (w *Wall) Playing() bool {
	return !w.now().Before(w.start)
}
