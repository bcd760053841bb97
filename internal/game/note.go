package game

import (
	"fmt"
	"time"
)

// State is the lifecycle position of a note. Pending is the only
// non-terminal state.
type State uint8

const (
	Pending State = iota
	Hit
	Missed
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Hit:
		return "hit"
	case Missed:
		return "missed"
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

type Note struct {
	Time  time.Duration // The time the note should be hit
	Lane  int           // The chart column
	Chord int           // Authored chord id, 0 when the note is not part of one
	Seq   int           // Position in the event stream

	// This is state
	state    State
	accuracy Accuracy
	HitTime  time.Duration // When the note was hit
}

func (n *Note) State() State {
	return n.state
}

// Accuracy is only meaningful once the note is terminal; a missed note
// reports Miss.
func (n *Note) Accuracy() Accuracy {
	return n.accuracy
}

func (n *Note) Terminal() bool {
	return n.state != Pending
}

// MarkHit moves a pending note to Hit. It returns false, changing
// nothing, if the note already left Pending.
func (n *Note) MarkHit(a Accuracy, at time.Duration) bool {
	if n.state != Pending {
		return false
	}
	n.state = Hit
	n.accuracy = a
	n.HitTime = at
	return true
}

// MarkMissed moves a pending note to Missed. It returns false, changing
// nothing, if the note already left Pending.
func (n *Note) MarkMissed() bool {
	if n.state != Pending {
		return false
	}
	n.state = Missed
	n.accuracy = Miss
	return true
}

// Offset is the signed distance between the scheduled time and the hit,
// negative when the hit came late.
func (n *Note) Offset() time.Duration {
	return n.Time - n.HitTime
}

func (n *Note) String() string {
	return fmt.Sprintf("note#%d{lane=%d t=%v %v}", n.Seq, n.Lane, n.Time, n.state)
}
