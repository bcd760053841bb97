package score

import (
	"time"

	"git.lost.host/meutraa/eotw/internal/game"
	"git.lost.host/meutraa/eotw/internal/judge"
)

// Scorer tallies a session from the engine's notifications.
type Scorer interface {
	judge.Listener
	judge.PenaltyListener

	// Result is a snapshot of the session so far.
	Result() Result
}

// Result is owned by whoever asked for it. Sessions hand it on
// explicitly; nothing is kept globally.
type Result struct {
	Difficulty string
	Counts     [len(game.Accuracies)]int // indexed by game.Accuracy
	Errant     int
	Combo      int
	MaxCombo   int
	Points     int

	// Sum of absolute hit offsets.
	TotalError time.Duration

	// Signed offsets, positive when early.
	Mean  time.Duration
	Stdev time.Duration
}

func (r Result) Hits() int {
	return r.Counts[game.Perfect] + r.Counts[game.Great] + r.Counts[game.Good]
}

// Judged is every note that reached a terminal state.
func (r Result) Judged() int {
	return r.Hits() + r.Counts[game.Miss]
}

// Percentage weights Perfect 100%, Great 66%, Good 33%.
func (r Result) Percentage() float64 {
	judged := r.Judged()
	if judged == 0 {
		return 0
	}
	weighted := 3*r.Counts[game.Perfect] + 2*r.Counts[game.Great] + r.Counts[game.Good]
	return 100 * float64(weighted) / float64(3*judged)
}
