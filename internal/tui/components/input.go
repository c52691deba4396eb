package components

import (
	"github.com/allbin/serialdelay"
	"github.com/allbin/serialdelay/internal/tui/styles"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// EntryMode decides what Enter does with the input line
type EntryMode int

const (
	// EntryModeDelay parses the line as an exact delay in ms
	EntryModeDelay EntryMode = iota
	// EntryModeCommand sends the line to the device as is
	EntryModeCommand
)

func (e EntryMode) String() string {
	switch e {
	case EntryModeCommand:
		return "CMD"
	default:
		return "DELAY"
	}
}

const (
	delayPlaceholder   = "Exact delay in ms, Enter sends immediately..."
	commandPlaceholder = "Command for the device (h, g, C, k 6), Enter sends..."
)

// Input is the entry line. Delays and device commands keep separate histories.
type Input struct {
	textInput     textinput.Model
	entryMode     EntryMode
	history       map[EntryMode]*entryHistory
	terminalWidth int
}

func NewInput() *Input {
	ti := textinput.New()
	ti.Placeholder = delayPlaceholder
	ti.CharLimit = serialdelay.MaxLineLength
	ti.Prompt = "" // We handle prompt styling separately

	return &Input{
		textInput: ti,
		entryMode: EntryModeDelay,
		history: map[EntryMode]*entryHistory{
			EntryModeDelay:   newEntryHistory(),
			EntryModeCommand: newEntryHistory(),
		},
	}
}

func (i *Input) SetWidth(width int) {
	i.terminalWidth = width
	// Account for: border(2) + padding(2) + prompt(1) + space(1) = 6 characters
	usableWidth := width - 6
	if usableWidth < 20 {
		usableWidth = 20
	}
	i.textInput.Width = usableWidth
}

func (i *Input) Focus() {
	i.textInput.Focus()
}

func (i *Input) Blur() {
	i.textInput.Blur()
}

func (i *Input) Value() string {
	return i.textInput.Value()
}

func (i *Input) SetValue(value string) {
	i.textInput.SetValue(value)
}

// ToggleEntryMode switches between delay and command entry, abandoning any history browse
func (i *Input) ToggleEntryMode() {
	i.history[i.entryMode].reset()
	switch i.entryMode {
	case EntryModeDelay:
		i.entryMode = EntryModeCommand
		i.textInput.Placeholder = commandPlaceholder
	case EntryModeCommand:
		i.entryMode = EntryModeDelay
		i.textInput.Placeholder = delayPlaceholder
	}
}

func (i *Input) GetEntryMode() EntryMode {
	return i.entryMode
}

func (i *Input) Update(msg tea.Msg) (*Input, tea.Cmd) {
	var cmd tea.Cmd
	i.textInput, cmd = i.textInput.Update(msg)
	return i, cmd
}

func (i *Input) ViewWithMode(isInsertMode bool) string {
	var promptStyle lipgloss.Style
	var promptSymbol string
	if i.entryMode == EntryModeCommand {
		promptSymbol = ">"
		promptStyle = lipgloss.NewStyle().
			Foreground(styles.Green).
			Bold(true)
	} else {
		promptSymbol = "ms"
		promptStyle = lipgloss.NewStyle().
			Foreground(styles.Yellow).
			Bold(true)
	}
	styledPrompt := promptStyle.Render(promptSymbol)

	var inputContent string
	if isInsertMode {
		inputContent = lipgloss.JoinHorizontal(lipgloss.Left, styledPrompt, " ", i.textInput.View())
	} else {
		instruction := styles.MutedStyle.Render("Press 'i' to type an exact delay or a command")
		inputContent = lipgloss.JoinHorizontal(lipgloss.Left, styledPrompt, " ", instruction)
	}

	// RoundedBorder and padding take 4 columns
	adjustedWidth := i.terminalWidth - 4
	if adjustedWidth < 10 {
		adjustedWidth = 10
	}

	inputStyle := styles.InputStyle.
		Width(adjustedWidth).
		AlignHorizontal(lipgloss.Left)
	if isInsertMode {
		inputStyle = inputStyle.BorderForeground(styles.Green)
	}

	return inputStyle.Render(inputContent)
}

// AddToHistory records a submitted line for the current entry mode
func (i *Input) AddToHistory(line string) {
	i.history[i.entryMode].add(line)
}

// NavigateHistoryUp recalls the previous line of the current entry mode
func (i *Input) NavigateHistoryUp() {
	if line, ok := i.history[i.entryMode].older(i.textInput.Value()); ok {
		i.textInput.SetValue(line)
	}
}

// NavigateHistoryDown moves toward the line that was being typed
func (i *Input) NavigateHistoryDown() {
	if line, ok := i.history[i.entryMode].newer(); ok {
		i.textInput.SetValue(line)
	}
}
