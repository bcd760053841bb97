package game

import (
	"sort"
	"time"
)

// Chart is the ordered event stream of one difficulty.
type Chart struct {
	Difficulty string
	Lanes      int
	Notes      []*Note

	start, end int
}

// NewChart builds a chart from stream order. Notes are stably sorted by
// time and numbered so Seq reflects the order the stream delivered them.
func NewChart(difficulty string, lanes int, notes []*Note) *Chart {
	for i, n := range notes {
		n.Seq = i
	}
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].Time < notes[j].Time
	})
	return &Chart{Difficulty: difficulty, Lanes: lanes, Notes: notes}
}

// Active returns the window of notes spawned so far but not yet passed
// by Advance.
func (c *Chart) Active() ([]*Note, int, int) {
	return c.Notes[c.start:c.end], c.start, c.end
}

// Spawn extends the window to every note due within horizon of now and
// returns the notes that entered it.
func (c *Chart) Spawn(now, horizon time.Duration) []*Note {
	from := c.end
	for c.end < len(c.Notes) && c.Notes[c.end].Time-now <= horizon {
		c.end++
	}
	return c.Notes[from:c.end]
}

// Advance drops terminal notes from the front of the window.
func (c *Chart) Advance() {
	for c.start < c.end && c.Notes[c.start].Terminal() {
		c.start++
	}
}

// Exhausted reports whether every note has been spawned.
func (c *Chart) Exhausted() bool {
	return c.end == len(c.Notes)
}

// Last is the time of the final note, 0 for an empty chart.
func (c *Chart) Last() time.Duration {
	if len(c.Notes) == 0 {
		return 0
	}
	return c.Notes[len(c.Notes)-1].Time
}
