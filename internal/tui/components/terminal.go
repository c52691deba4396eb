package components

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// defaultScrollback bounds the output pane in bytes. Older text is dropped a
// line at a time.
const defaultScrollback = 64 * 1024

// Terminal is the scrolling output pane: device text as received, with local
// events on lines of their own.
type Terminal struct {
	viewport  viewport.Model
	formatter *EventFormatter
	content   strings.Builder
	limit     int
}

func NewTerminal(width, height int) *Terminal {
	return &Terminal{
		viewport:  viewport.New(width, height),
		formatter: NewEventFormatter(false),
		limit:     defaultScrollback,
	}
}

func (t *Terminal) SetSize(width, height int) {
	t.viewport.Width = width
	t.viewport.Height = height
}

func (t *Terminal) GetViewport() viewport.Model {
	return t.viewport
}

// AppendOutput adds device text verbatim
func (t *Terminal) AppendOutput(chunks ...string) {
	if len(chunks) == 0 {
		return
	}
	for _, chunk := range chunks {
		t.content.WriteString(chunk)
	}
	t.refresh()
}

// AddEvent adds a local event, starting a new line if device text left one open
func (t *Terminal) AddEvent(ev LocalEvent) {
	if s := t.content.String(); s != "" && !strings.HasSuffix(s, "\n") {
		t.content.WriteByte('\n')
	}
	t.content.WriteString(t.formatter.Format(ev))
	t.content.WriteByte('\n')
	t.refresh()
}

// Content returns everything currently held by the pane
func (t *Terminal) Content() string {
	return t.content.String()
}

func (t *Terminal) refresh() {
	if t.content.Len() > t.limit {
		s := t.content.String()
		s = s[len(s)-t.limit:]
		if i := strings.IndexByte(s, '\n'); i >= 0 {
			s = s[i+1:]
		}
		for len(s) > 0 && !utf8.RuneStart(s[0]) {
			s = s[1:]
		}
		t.content.Reset()
		t.content.WriteString(s)
	}

	follow := t.viewport.AtBottom()
	t.viewport.SetContent(t.content.String())
	if follow {
		t.viewport.GotoBottom()
	}
}

func (t *Terminal) Clear() {
	t.content.Reset()
	t.viewport.SetContent("")
}

func (t *Terminal) ToggleTimestamps() {
	t.formatter.ToggleTimestamps()
}

func (t *Terminal) Update(msg tea.Msg) (viewport.Model, tea.Cmd) {
	// Keys stay with the controller; the viewport only sees resizes and the mouse wheel
	switch msg.(type) {
	case tea.WindowSizeMsg, tea.MouseMsg:
		var cmd tea.Cmd
		t.viewport, cmd = t.viewport.Update(msg)
		return t.viewport, cmd
	default:
		return t.viewport, nil
	}
}

func (t *Terminal) View() string {
	return t.viewport.View()
}
