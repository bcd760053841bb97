// Package clock exposes the song position the engine samples once per
// tick.
//
// Positions are song time: what matters is where the audio is, not how
// much wall time elapsed. A Clock never runs backwards on its own; only
// an explicit restart may move it to an earlier position.
package clock

import "time"

type Clock interface {
	// Position is the current song position, 0 while nothing has
	// played yet.
	Position() time.Duration

	// Playing reports whether the position is expected to advance.
	Playing() bool
}

// Manual is a Clock moved only by its owner. Tests and replays drive the
// engine with it.
type Manual struct {
	position time.Duration
	playing  bool
}

func NewManual() *Manual {
	return &Manual{}
}

func (m *Manual) Position() time.Duration {
	return m.position
}

func (m *Manual) Playing() bool {
	return m.playing
}

// Set moves the clock to p and marks it playing. Earlier positions are
// ignored; use Restart to go back.
func (m *Manual) Set(p time.Duration) {
	m.playing = true
	if p > m.position {
		m.position = p
	}
}

func (m *Manual) Advance(d time.Duration) {
	m.Set(m.position + d)
}

func (m *Manual) Stop() {
	m.playing = false
}

// Restart returns to the beginning of the song.
func (m *Manual) Restart() {
	m.position = 0
	m.playing = false
}

// Monotonic guards an underlying clock against regressions. A source that
// stalls or glitches backwards reads as frozen at its high-water mark.
type Monotonic struct {
	source Clock
	high   time.Duration
}

func NewMonotonic(source Clock) *Monotonic {
	return &Monotonic{source: source}
}

func (m *Monotonic) Position() time.Duration {
	if p := m.source.Position(); p > m.high {
		m.high = p
	}
	return m.high
}

func (m *Monotonic) Playing() bool {
	return m.source.Playing()
}

// Restart forgets the high-water mark. Call it after seeking the source
// back.
func (m *Monotonic) Restart() {
	m.high = 0
}
