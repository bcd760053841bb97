package game

import "fmt"

// Accuracy tiers, ordered best to worst.
type Accuracy uint8

const (
	Perfect Accuracy = iota
	Great
	Good
	Miss
)

var Accuracies = [...]Accuracy{Perfect, Great, Good, Miss}

func (a Accuracy) String() string {
	switch a {
	case Perfect:
		return "Perfect"
	case Great:
		return "Great"
	case Good:
		return "Good"
	case Miss:
		return "Miss"
	}
	return fmt.Sprintf("Accuracy(%d)", uint8(a))
}
