package theme

import "git.lost.host/meutraa/eotw/internal/game"

type Theme interface {
	// RenderAccuracy renders a tier name padded to a fixed width.
	RenderAccuracy(a game.Accuracy) string
	RenderLabel(label string) string
}
