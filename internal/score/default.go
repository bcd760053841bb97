package score

import (
	"math"
	"time"

	"git.lost.host/meutraa/eotw/internal/game"
)

var points = [...]int{
	game.Perfect: 300,
	game.Great:   200,
	game.Good:    100,
	game.Miss:    0,
}

type DefaultScorer struct {
	result  Result
	offsets []time.Duration
}

func New(difficulty string) *DefaultScorer {
	return &DefaultScorer{result: Result{Difficulty: difficulty}}
}

func abs(x time.Duration) time.Duration {
	if x < 0 {
		return -x
	}
	return x
}

// multiplier grows by one every 10 consecutive hits, up to 4.
func multiplier(combo int) int {
	if m := 1 + combo/10; m < 4 {
		return m
	}
	return 4
}

func (s *DefaultScorer) OnNoteHit(note *game.Note, a game.Accuracy) {
	s.result.Counts[a]++
	s.result.Combo++
	if s.result.Combo > s.result.MaxCombo {
		s.result.MaxCombo = s.result.Combo
	}
	s.result.Points += points[a] * multiplier(s.result.Combo-1)

	offset := note.Offset()
	s.offsets = append(s.offsets, offset)
	s.result.TotalError += abs(offset)
}

func (s *DefaultScorer) OnNoteMissed(note *game.Note) {
	s.result.Counts[game.Miss]++
	s.result.Combo = 0
}

func (s *DefaultScorer) OnErrantPress(lane int) {
	s.result.Errant++
	s.result.Combo = 0
}

func (s *DefaultScorer) Result() Result {
	r := s.result
	n := len(s.offsets)
	if n == 0 {
		return r
	}

	sum := 0.0
	for _, o := range s.offsets {
		sum += float64(o)
	}
	mean := sum / float64(n)
	r.Mean = time.Duration(math.Round(mean))

	if n > 1 {
		stdev := 0.0
		for _, o := range s.offsets {
			xi := float64(o) - mean
			stdev += xi * xi
		}
		stdev /= float64(n - 1)
		r.Stdev = time.Duration(math.Round(math.Sqrt(stdev)))
	}
	return r
}
