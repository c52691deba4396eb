package components

import (
	"fmt"

	"github.com/allbin/serialdelay/internal/tui/styles"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// Gauge draws the delay as a horizontal bar with its value and range
type Gauge struct {
	bar      progress.Model
	min, max float64
}

func NewGauge(min, max float64) *Gauge {
	bar := progress.New(
		progress.WithGradient(string(styles.Blue), string(styles.Pink)),
		progress.WithoutPercentage(),
	)
	return &Gauge{bar: bar, min: min, max: max}
}

// SetWidth sizes the bar, leaving room for the readout and range labels
func (g *Gauge) SetWidth(width int) {
	w := width - lipgloss.Width(styles.DelayValueStyle.Render("")) - 16
	if w < 10 {
		w = 10
	}
	g.bar.Width = w
}

// View renders fraction (0 to 1) with label as the readout
func (g *Gauge) View(fraction float64, label string) string {
	lo := styles.MutedStyle.Render(fmt.Sprintf("%g", g.min))
	hi := styles.MutedStyle.Render(fmt.Sprintf("%g", g.max))
	return lipgloss.JoinHorizontal(lipgloss.Center,
		lo, " ", g.bar.ViewAs(fraction), " ", hi,
		styles.DelayValueStyle.Render(label),
	)
}
