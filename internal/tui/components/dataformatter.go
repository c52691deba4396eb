package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/allbin/serialdelay/internal/tui/styles"
	"github.com/charmbracelet/lipgloss"
)

// EventKind classifies a line the controller adds to the output pane itself
type EventKind int

const (
	EventTX EventKind = iota
	EventError
	EventInfo
)

// LocalEvent is controller-generated text shown between device output
type LocalEvent struct {
	Timestamp time.Time
	Kind      EventKind
	Text      string
}

// EventFormatter renders local events. Device text is never reformatted.
type EventFormatter struct {
	showTimestamps bool
}

func NewEventFormatter(showTimestamps bool) *EventFormatter {
	return &EventFormatter{showTimestamps: showTimestamps}
}

func (f *EventFormatter) ShowTimestamps() bool {
	return f.showTimestamps
}

func (f *EventFormatter) ToggleTimestamps() {
	f.showTimestamps = !f.showTimestamps
}

// Format returns ev as a single styled line without a trailing newline
func (f *EventFormatter) Format(ev LocalEvent) string {
	var indicator string
	switch ev.Kind {
	case EventTX:
		indicator = lipgloss.NewStyle().
			Foreground(styles.Peach).
			Bold(true).
			Render("↗ TX")
	case EventError:
		indicator = lipgloss.NewStyle().
			Foreground(styles.Red).
			Bold(true).
			Render("✗")
	default:
		indicator = lipgloss.NewStyle().
			Foreground(styles.Sky).
			Bold(true).
			Render("●")
	}

	text := strings.TrimRight(ev.Text, "\r\n")
	if ev.Kind == EventError {
		text = styles.ErrorStyle.Render(text)
	}

	if !f.showTimestamps {
		return fmt.Sprintf("%s %s", indicator, text)
	}

	timestamp := lipgloss.NewStyle().
		Foreground(styles.Subtext0).
		Render(fmt.Sprintf("[%s]", ev.Timestamp.Format("15:04:05.000")))
	return fmt.Sprintf("%s %s %s", timestamp, indicator, text)
}
