package components

import (
	"fmt"
	"strings"

	"github.com/allbin/serialdelay"
	"github.com/allbin/serialdelay/internal/tui/styles"
	"github.com/charmbracelet/lipgloss"
)

// ConnectionInfo is the line configuration shown on the right of the bar
type ConnectionInfo struct {
	BaudRate    int
	ResetPulse  bool
	FlushOnOpen bool
}

// NewConnectionInfo describes config for the status bar
func NewConnectionInfo(config serialdelay.Config) *ConnectionInfo {
	return &ConnectionInfo{
		BaudRate:    config.BaudRate,
		ResetPulse:  config.ResetPulse,
		FlushOnOpen: config.FlushOnOpen,
	}
}

func (ci *ConnectionInfo) String() string {
	var extras []string
	if ci.ResetPulse {
		extras = append(extras, "dtr-reset")
	}
	if ci.FlushOnOpen {
		extras = append(extras, "flush")
	}
	s := fmt.Sprintf("⚡ %d baud 8N1", ci.BaudRate)
	if len(extras) > 0 {
		s += " " + strings.Join(extras, ",")
	}
	return s
}

type StatusBar struct {
	portPath       string
	status         string
	err            error
	width          int
	connectionInfo *ConnectionInfo
}

func NewStatusBar() *StatusBar {
	return &StatusBar{
		status: "Disconnected",
	}
}

func (sb *StatusBar) SetWidth(width int) {
	sb.width = width
}

func (sb *StatusBar) SetConnectionInfo(info *ConnectionInfo) {
	sb.connectionInfo = info
}

func (sb *StatusBar) SetConnecting(portPath string) {
	sb.portPath = portPath
	sb.status = "Connecting..."
	sb.err = nil
}

func (sb *StatusBar) SetConnected(portPath string) {
	sb.portPath = portPath
	sb.status = "Connected to " + portPath
	sb.err = nil
}

func (sb *StatusBar) SetDisconnected(err error) {
	if err != nil {
		sb.status = fmt.Sprintf("Connection failed: %v", err)
		sb.err = err
	} else {
		sb.status = "Disconnected"
		sb.err = nil
	}
}

// Status is the human readable connection state
func (sb *StatusBar) Status() string {
	return sb.status
}

// ComprehensiveStatusBar renders mode, port, connection state, send state and line settings
func (sb *StatusBar) ComprehensiveStatusBar(inputMode, entryMode string, connected, pending bool, timestamp string) string {
	terminalWidth := sb.width
	if terminalWidth <= 0 {
		terminalWidth = 80
	}

	// Mode indicator (like NORMAL in nvim)
	modeBackground := styles.Blue
	if inputMode == "INSERT" {
		modeBackground = styles.Green
	}
	mode := lipgloss.NewStyle().
		Foreground(styles.Base).
		Background(modeBackground).
		Bold(true).
		Padding(0, 1).
		Render(inputMode)

	portPath := sb.portPath
	if portPath == "" {
		portPath = "no port"
	}
	port := lipgloss.NewStyle().
		Foreground(styles.Mauve).
		Bold(true).
		Padding(0, 1).
		Render(portPath)

	// Single character connection indicator
	var connIndicator string
	var connStyle lipgloss.Style
	switch {
	case sb.err != nil:
		connStyle = styles.GetStatusStyle(styles.StatusError)
		connIndicator = "✗"
	case connected:
		connStyle = styles.GetStatusStyle(styles.StatusConnected)
		connIndicator = "●"
	case sb.status == "Connecting...":
		connStyle = styles.GetStatusStyle(styles.StatusConnecting)
		connIndicator = "○"
	default:
		connStyle = styles.GetStatusStyle(styles.StatusDisconnected)
		connIndicator = "○"
	}
	connectionIndicator := connStyle.Render(connIndicator)

	divider := lipgloss.NewStyle().
		Foreground(styles.Surface2).
		Padding(0, 1).
		Render("│")

	leftParts := []string{mode, port, connectionIndicator}
	if pending {
		leftParts = append(leftParts, lipgloss.NewStyle().
			Foreground(styles.Yellow).
			Padding(0, 1).
			Render("sending…"))
	}
	if inputMode == "INSERT" {
		leftParts = append(leftParts, lipgloss.NewStyle().
			Foreground(styles.Peach).
			Bold(true).
			Padding(0, 1).
			Render(fmt.Sprintf("[%s] Tab to toggle", entryMode)))
	}
	leftParts = append(leftParts, divider)
	leftSide := lipgloss.JoinHorizontal(lipgloss.Left, leftParts...)

	connInfo := "⚡ serial"
	if sb.connectionInfo != nil {
		connInfo = sb.connectionInfo.String()
	}
	connectionDetails := lipgloss.NewStyle().
		Foreground(styles.Subtext0).
		Padding(0, 1).
		Render(connInfo)

	clock := lipgloss.NewStyle().
		Foreground(styles.Subtext1).
		Padding(0, 1).
		Render(timestamp)

	rightSide := lipgloss.JoinHorizontal(lipgloss.Left, connectionDetails, divider, clock)

	spacerWidth := terminalWidth - lipgloss.Width(leftSide) - lipgloss.Width(rightSide)
	if spacerWidth < 1 {
		spacerWidth = 1
	}
	spacer := lipgloss.NewStyle().Width(spacerWidth).Render("")

	statusBarStyle := lipgloss.NewStyle().
		Foreground(styles.Text).
		Background(styles.Surface0).
		Width(terminalWidth)

	return statusBarStyle.Render(lipgloss.JoinHorizontal(lipgloss.Left, leftSide, spacer, rightSide))
}
