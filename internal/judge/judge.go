// Package judge turns player presses into note judgements.
//
// All state is owned by a single tick loop. Each tick samples the clock
// once and passes that sample to every step, so hit resolution and miss
// sweeping can never disagree about the same note. Nothing here blocks,
// locks or spawns goroutines.
package judge

import (
	"log/slog"
	"time"

	"git.lost.host/meutraa/eotw/internal/config"
	"git.lost.host/meutraa/eotw/internal/game"
)

// Listener is told about every terminal transition. These are the only
// two notifications the engine sends for notes.
type Listener interface {
	OnNoteHit(note *game.Note, accuracy game.Accuracy)
	OnNoteMissed(note *game.Note)
}

// PenaltyListener is an optional extension of Listener for presses that
// hit nothing.
type PenaltyListener interface {
	OnErrantPress(lane int)
}

// Proxy is the rendering layer's handle for a note. The engine never owns
// it; it only asks for disposal once the note is hit. Implementations must
// be comparable, pointers are the usual choice.
type Proxy interface {
	Hit()
}

// ProxyFactory creates proxies for notes entering the active set.
type ProxyFactory interface {
	Spawn(note *game.Note) Proxy
}

// Outcome describes how one tick resolved a set of lanes.
type Outcome struct {
	Lanes    []int
	Hit      bool
	Chord    bool
	Accuracy game.Accuracy
}

// Judge classifies presses against a tracker's active set.
// Notifications go to the tracker's listener.
type Judge struct {
	tracker *Tracker
	windows config.Windows
	log     *slog.Logger
}

func New(tracker *Tracker, windows config.Windows, log *slog.Logger) *Judge {
	if nil == log {
		log = slog.Default()
	}
	return &Judge{
		tracker: tracker,
		windows: windows,
		log:     log,
	}
}

// Classify buckets an absolute delta. Anything inside the miss window is
// at worst Good; Miss is only ever assigned by the sweeper.
func (j *Judge) Classify(delta time.Duration) game.Accuracy {
	delta = abs(delta)
	switch {
	case delta <= j.windows.Perfect:
		return game.Perfect
	case delta <= j.windows.Great:
		return game.Great
	}
	return game.Good
}

// Resolve is the single entry point for a tick's presses. Several lanes
// are tried as a chord first; if no chord takes them, each lane is tried
// alone in ascending order. Lanes pressed alongside an accepted chord may
// still hit a note of their own, but pressing nothing there costs no
// penalty.
func (j *Judge) Resolve(now time.Duration, lanes []int) []Outcome {
	set := distinct(lanes)
	switch len(set) {
	case 0:
		return nil
	case 1:
		ok, a := j.TryHit(now, set[0])
		return []Outcome{{Lanes: set, Hit: ok, Accuracy: a}}
	}

	if ok, a, matched := j.tryHitChord(now, set); ok {
		outcomes := []Outcome{{Lanes: matched, Hit: true, Chord: true, Accuracy: a}}
		for _, lane := range set {
			if contains(matched, lane) {
				continue
			}
			if ok, a := j.tryHit(now, lane, false); ok {
				outcomes = append(outcomes, Outcome{Lanes: []int{lane}, Hit: true, Accuracy: a})
			}
		}
		return outcomes
	}

	outcomes := make([]Outcome, 0, len(set))
	for _, lane := range set {
		ok, a := j.TryHit(now, lane)
		outcomes = append(outcomes, Outcome{Lanes: []int{lane}, Hit: ok, Accuracy: a})
	}
	return outcomes
}

func abs(x time.Duration) time.Duration {
	if x < 0 {
		return -x
	}
	return x
}

// distinct returns the lanes sorted ascending without duplicates or
// negative entries.
func distinct(lanes []int) []int {
	set := make([]int, 0, len(lanes))
	for _, l := range lanes {
		if l < 0 {
			continue
		}
		i := 0
		for i < len(set) && set[i] < l {
			i++
		}
		if i < len(set) && set[i] == l {
			continue
		}
		set = append(set, 0)
		copy(set[i+1:], set[i:])
		set[i] = l
	}
	return set
}
