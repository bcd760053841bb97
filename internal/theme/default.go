package theme

import (
	"fmt"

	"git.lost.host/meutraa/eotw/internal/game"
	"github.com/charmbracelet/lipgloss"
)

type DefaultTheme struct {
}

var (
	accuracyStyles = map[game.Accuracy]lipgloss.Style{
		game.Perfect: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("153")), // light blue
		game.Great:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),  // cyan
		game.Good:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),  // green
		game.Miss:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),   // red
	}
	labelStyle = lipgloss.NewStyle().Faint(true)
)

func (t *DefaultTheme) RenderAccuracy(a game.Accuracy) string {
	name := fmt.Sprintf("%10v", a)
	style, ok := accuracyStyles[a]
	if !ok {
		return name
	}
	return style.Render(name)
}

func (t *DefaultTheme) RenderLabel(label string) string {
	return labelStyle.Render(fmt.Sprintf("%10v", label))
}
