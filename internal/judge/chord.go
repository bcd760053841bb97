package judge

import (
	"sort"
	"time"

	"git.lost.host/meutraa/eotw/internal/game"
)

type group struct {
	at      time.Duration // time of the first member
	entries []*entry
}

func (g *group) has(lane int) bool {
	for _, e := range g.entries {
		if e.note.Lane == lane {
			return true
		}
	}
	return false
}

// TryHitChord resolves a multi-lane press at now.
//
// Hittable notes in the pressed lanes are grouped greedily in time order:
// a note joins the first group whose first member lies within the chord
// tolerance and which has no note in that lane yet. The group matching
// the most lanes wins, then the one with the smallest mean distance, then
// the earliest. It is accepted only with at least two matches and at least
// as many pressed lanes as matches. A rejected chord consumes nothing and
// costs nothing.
func (j *Judge) TryHitChord(now time.Duration, lanes []int) (bool, game.Accuracy) {
	ok, a, _ := j.tryHitChord(now, lanes)
	return ok, a
}

// tryHitChord also returns the lanes the accepted chord claimed notes in.
func (j *Judge) tryHitChord(now time.Duration, lanes []int) (bool, game.Accuracy, []int) {
	pressed := distinct(lanes)
	if len(pressed) < 2 {
		return false, game.Miss, nil
	}

	candidates := []*entry{}
	for _, e := range j.tracker.active {
		note := e.note
		if note.Terminal() || !contains(pressed, note.Lane) {
			continue
		}
		if abs(now-note.Time) > j.windows.Miss {
			continue
		}
		candidates = append(candidates, e)
	}
	if len(candidates) < 2 {
		return false, game.Miss, nil
	}
	sort.SliceStable(candidates, func(a, b int) bool {
		na, nb := candidates[a].note, candidates[b].note
		if na.Time != nb.Time {
			return na.Time < nb.Time
		}
		return na.Seq < nb.Seq
	})

	groups := []*group{}
	for _, c := range candidates {
		placed := false
		for _, g := range groups {
			if abs(c.note.Time-g.at) <= j.windows.ChordTolerance && !g.has(c.note.Lane) {
				g.entries = append(g.entries, c)
				placed = true
				break
			}
		}
		if !placed {
			groups = append(groups, &group{at: c.note.Time, entries: []*entry{c}})
		}
	}

	var best *group
	bestMatches := 0
	bestMean := time.Duration(0)
	for _, g := range groups {
		matches := 0
		var sum time.Duration
		for _, e := range g.entries {
			if contains(pressed, e.note.Lane) {
				matches++
			}
			sum += abs(now - e.note.Time)
		}
		mean := sum / time.Duration(len(g.entries))
		if nil == best || matches > bestMatches || (matches == bestMatches && mean < bestMean) {
			best = g
			bestMatches = matches
			bestMean = mean
		}
	}

	if bestMatches < 2 || len(pressed) < bestMatches {
		j.log.Debug("chord rejected", "lanes", pressed, "matches", bestMatches)
		return false, game.Miss, nil
	}

	a := j.Classify(bestMean)
	matched := make([]int, 0, len(best.entries))
	for _, e := range best.entries {
		matched = append(matched, e.note.Lane)
	}
	j.tracker.hit(best.entries, a, now)
	return true, a, distinct(matched)
}

func contains(lanes []int, lane int) bool {
	for _, l := range lanes {
		if l == lane {
			return true
		}
	}
	return false
}
