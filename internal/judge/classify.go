package judge

import (
	"time"

	"git.lost.host/meutraa/eotw/internal/game"
)

// TryHit resolves a single lane press at now. The closest Pending note in
// the lane within the miss window is claimed; equal distances go to the
// note that came first in the stream. A press with nothing to claim costs
// an errant-press penalty and leaves every note untouched.
func (j *Judge) TryHit(now time.Duration, lane int) (bool, game.Accuracy) {
	return j.tryHit(now, lane, true)
}

func (j *Judge) tryHit(now time.Duration, lane int, penalize bool) (bool, game.Accuracy) {
	var closest *entry
	distance := time.Duration(0)

	for _, e := range j.tracker.active {
		note := e.note
		if note.Lane != lane || note.Terminal() {
			continue
		}
		d := abs(now - note.Time)
		if d > j.windows.Miss {
			continue
		}
		if nil == closest || d < distance || (d == distance && note.Seq < closest.note.Seq) {
			closest = e
			distance = d
		}
	}

	if nil == closest {
		if penalize {
			j.penalty(lane)
		}
		return false, game.Miss
	}

	a := j.Classify(distance)
	j.tracker.hit([]*entry{closest}, a, now)
	return true, a
}

func (j *Judge) penalty(lane int) {
	j.log.Debug("errant press", "lane", lane)
	if p, ok := j.tracker.listener.(PenaltyListener); ok {
		p.OnErrantPress(lane)
	}
}
