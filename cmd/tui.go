/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/allbin/serialdelay"
	"github.com/allbin/serialdelay/internal/tui/components"
	"github.com/allbin/serialdelay/internal/tui/keys"
	"github.com/allbin/serialdelay/internal/tui/models"
	"github.com/allbin/serialdelay/internal/tui/styles"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// outputPollInterval is how often the output pane drains the client's queue
const outputPollInterval = 40 * time.Millisecond

// tuiCmd represents the tui command
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Delay controller with port picker, gauge and live device output",
	Long: `Open a terminal delay controller.

Pick a port from the table (the most likely board is preselected),
connect, then move the delay gauge with the arrow keys. Gauge changes
are sent once they have been quiet for the debounce period so holding
a key does not flood the device. An exact value typed in insert mode
is clamped to 0-1000 ms and sent immediately.

Example usage:
  serialdelay tui
  serialdelay tui --initial-delay 50 --debounce 200ms
  serialdelay tui --dtr-reset --log-file debug.log -v`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runControllerTUI(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)

	tuiCmd.Flags().Float64("initial-delay", models.DefaultDelay, "Delay shown on the gauge at startup, in ms")
	tuiCmd.Flags().Duration("debounce", serialdelay.DefaultDebounce, "Quiet period before a gauge change is sent")
	tuiCmd.Flags().String("log-file", "", "Write logs to this file (the terminal belongs to the UI)")
	cobra.CheckErr(viper.BindPFlag("initial-delay", tuiCmd.Flags().Lookup("initial-delay")))
	cobra.CheckErr(viper.BindPFlag("debounce", tuiCmd.Flags().Lookup("debounce")))
	cobra.CheckErr(viper.BindPFlag("log-file", tuiCmd.Flags().Lookup("log-file")))
}

type (
	tickMsg      time.Time
	portsMsg     []serialdelay.PortDescriptor
	sentMsg      struct{ line string }
	sendErrorMsg struct{ err error }
)

// echoTarget reports every delay the dispatcher puts on the wire
type echoTarget struct {
	models.Client
	notify func(line string)
}

func (e echoTarget) SetDelay(valueMs float64) error {
	if err := e.Client.SetDelay(valueMs); err != nil {
		return err
	}
	if e.notify != nil {
		e.notify(serialdelay.FormatDelay(valueMs))
	}
	return nil
}

// controllerModel represents the Bubble Tea model for the tui command
type controllerModel struct {
	session    *models.Session
	delay      models.Delay
	dispatcher *serialdelay.Dispatcher
	ports      *components.PortTable
	gauge      *components.Gauge
	terminal   *components.Terminal
	statusBar  *components.StatusBar
	input      *components.Input
	help       help.Model
	keys       keys.ControllerKeys
}

func runControllerTUI() error {
	// Anything written to stderr would tear the alt screen
	if path := viper.GetString("log-file"); path != "" {
		if err := setupLogging(viper.GetBool("verbose"), path); err != nil {
			return err
		}
	} else {
		zap.ReplaceGlobals(zap.NewNop())
		logger = zap.NewNop().Sugar()
	}

	opts := connectOptions()
	config, err := serialdelay.NewConfig(opts...)
	if err != nil {
		return err
	}

	client := serialdelay.NewClient(logger)

	var p *tea.Program
	send := func(msg tea.Msg) {
		if p != nil {
			p.Send(msg)
		}
	}
	target := echoTarget{
		Client: client,
		notify: func(line string) { send(sentMsg{line: line}) },
	}
	dispatcher := serialdelay.NewDispatcher(target, viper.GetDuration("debounce"),
		serialdelay.WithDispatcherLogger(logger),
		serialdelay.WithErrorHandler(func(err error) { send(sendErrorMsg{err: err}) }),
	)

	m := newControllerModel(models.NewSession(client, opts...), dispatcher, config, viper.GetFloat64("initial-delay"))
	p = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	_, err = p.Run()

	dispatcher.Stop()
	client.Disconnect()
	return err
}

func newControllerModel(session *models.Session, dispatcher *serialdelay.Dispatcher, config serialdelay.Config, initialDelay float64) *controllerModel {
	m := &controllerModel{
		session:    session,
		delay:      models.NewDelay(initialDelay),
		dispatcher: dispatcher,
		ports:      components.NewPortTable(),
		gauge:      components.NewGauge(models.DelayMin, models.DelayMax),
		terminal:   components.NewTerminal(0, 0), // sized by WindowSizeMsg
		statusBar:  components.NewStatusBar(),
		input:      components.NewInput(),
		help:       help.New(),
		keys:       keys.NewControllerKeys(),
	}
	m.statusBar.SetConnectionInfo(components.NewConnectionInfo(config))
	return m
}

func (m *controllerModel) Init() tea.Cmd {
	return tea.Batch(m.refreshPorts(), tick())
}

func tick() tea.Cmd {
	return tea.Tick(outputPollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *controllerModel) refreshPorts() tea.Cmd {
	client := m.session.Client()
	return func() tea.Msg {
		return portsMsg(client.ListPorts())
	}
}

func (m *controllerModel) connect(device string) tea.Cmd {
	client := m.session.Client()
	opts := m.session.Options()
	return func() tea.Msg {
		err := client.Connect(device, opts...)
		return models.ConnectionStatusMsg{Device: device, Connected: err == nil, Error: err}
	}
}

// commit sends v off the UI goroutine; the dispatcher reports back through the program
func (m *controllerModel) commit(v float64) tea.Cmd {
	d := m.dispatcher
	return func() tea.Msg {
		d.Commit(v)
		return nil
	}
}

func (m *controllerModel) sendLine(line string) tea.Cmd {
	client := m.session.Client()
	return func() tea.Msg {
		if err := client.SendLine(line); err != nil {
			return sendErrorMsg{err: err}
		}
		return sentMsg{line: line}
	}
}

func (m *controllerModel) event(kind components.EventKind, format string, args ...any) {
	m.terminal.AddEvent(components.LocalEvent{
		Timestamp: time.Now(),
		Kind:      kind,
		Text:      fmt.Sprintf(format, args...),
	})
}

// nudge moves the gauge and schedules a debounced send
func (m *controllerModel) nudge(delta float64) {
	m.delay.Nudge(delta)
	m.dispatcher.Update(m.delay.Value())
}

func (m *controllerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout(msg.Width, msg.Height)
		m.session.SetReady(true)

	case tickMsg:
		m.terminal.AppendOutput(m.session.Client().Output().Drain()...)
		if m.session.LinkLost() {
			m.session.Apply(models.ConnectionStatusMsg{Connected: false})
			m.statusBar.SetDisconnected(nil)
			m.event(components.EventError, "Link to %s closed", m.session.Device())
		}
		return m, tick()

	case portsMsg:
		m.ports.SetPorts(msg)

	case models.ConnectionStatusMsg:
		m.session.Apply(msg)
		if msg.Error != nil {
			m.statusBar.SetDisconnected(msg.Error)
			m.event(components.EventError, "Connect failed: %v", msg.Error)
			break
		}
		m.statusBar.SetConnected(msg.Device)
		m.event(components.EventInfo, "Connected to %s", msg.Device)
		// the board should match the gauge from the start
		cmds = append(cmds, m.commit(m.delay.Value()))

	case sentMsg:
		m.event(components.EventTX, "%s", msg.line)

	case sendErrorMsg:
		m.event(components.EventError, "[Serial write error] %v", msg.err)

	case tea.MouseMsg:
		_, cmd := m.terminal.Update(msg)
		cmds = append(cmds, cmd)

	case tea.KeyMsg:
		if m.session.IsInInsertMode() {
			cmds = append(cmds, m.updateInsert(msg))
		} else {
			cmds = append(cmds, m.updateNormal(msg))
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *controllerModel) updateInsert(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.session.SetInputMode(models.InputModeNormal)
		m.input.Blur()
		return nil

	case key.Matches(msg, m.keys.Enter):
		value := m.input.Value()
		if value == "" {
			return nil
		}
		m.input.AddToHistory(value)
		m.input.SetValue("")

		if m.input.GetEntryMode() == components.EntryModeCommand {
			return m.sendLine(value)
		}
		v, err := models.ParseDelay(value)
		if err != nil {
			m.event(components.EventError, "Invalid delay: %v", err)
			return nil
		}
		m.delay.Set(v)
		return m.commit(m.delay.Value())

	// only the arrows: j and k are text here
	case msg.Type == tea.KeyUp:
		m.input.NavigateHistoryUp()
		return nil

	case msg.Type == tea.KeyDown:
		m.input.NavigateHistoryDown()
		return nil

	case key.Matches(msg, m.keys.ToggleEntryMode):
		m.input.ToggleEntryMode()
		return nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *controllerModel) updateNormal(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.dispatcher.Stop()
		return tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.InsertMode):
		m.session.SetInputMode(models.InputModeInsert)
		m.input.Focus()

	case key.Matches(msg, m.keys.Increase):
		m.nudge(1)
	case key.Matches(msg, m.keys.Decrease):
		m.nudge(-1)
	case key.Matches(msg, m.keys.IncreaseFine):
		m.nudge(models.DelayStep)
	case key.Matches(msg, m.keys.DecreaseFine):
		m.nudge(-models.DelayStep)
	case key.Matches(msg, m.keys.IncreaseCoarse):
		m.nudge(10)
	case key.Matches(msg, m.keys.DecreaseCoarse):
		m.nudge(-10)

	case key.Matches(msg, m.keys.SendNow):
		return m.commit(m.delay.Value())

	case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
		return m.ports.Update(msg)

	case key.Matches(msg, m.keys.Refresh):
		return m.refreshPorts()

	case key.Matches(msg, m.keys.Connect):
		return m.toggleConnect()

	case key.Matches(msg, m.keys.Clear):
		m.terminal.Clear()

	case key.Matches(msg, m.keys.ToggleTimestamps):
		m.terminal.ToggleTimestamps()
	}
	return nil
}

func (m *controllerModel) toggleConnect() tea.Cmd {
	if m.session.IsConnecting() {
		return nil
	}
	if m.session.IsConnected() {
		m.dispatcher.Stop()
		m.session.Disconnect()
		m.statusBar.SetDisconnected(nil)
		m.event(components.EventInfo, "Disconnected")
		return nil
	}

	device, ok := m.ports.Selected()
	if !ok {
		m.event(components.EventError, "Select a serial port first")
		return nil
	}
	m.session.SetConnecting(device)
	m.statusBar.SetConnecting(device)
	return m.connect(device)
}

// layout sizes every component for a width x height terminal
func (m *controllerModel) layout(width, height int) {
	const (
		titleHeight  = 1
		portsHeight  = 9 // page of rows plus header, footer and border
		gaugeHeight  = 2
		inputHeight  = 3
		statusHeight = 1
		helpHeight   = 1
		borderHeight = 1
	)
	termHeight := height - titleHeight - portsHeight - gaugeHeight - inputHeight - statusHeight - helpHeight - borderHeight
	if termHeight < 3 {
		termHeight = 3
	}

	m.ports.SetWidth(width)
	m.gauge.SetWidth(width)
	m.terminal.SetSize(width, termHeight)
	m.terminal.Update(tea.WindowSizeMsg{Width: width, Height: termHeight})
	m.input.SetWidth(width)
	m.statusBar.SetWidth(width)
	m.help.Width = width
}

func (m *controllerModel) View() string {
	if !m.session.IsReady() {
		return "Initializing..."
	}

	title := styles.TitleStyle.Render("Serial Delay Controller")
	gauge := m.gauge.View(m.delay.Fraction(), m.delay.Label())
	output := styles.ContentBorderStyle.Render(m.terminal.View())
	input := m.input.ViewWithMode(m.session.IsInInsertMode())

	_, pending := m.dispatcher.Pending()
	statusBar := m.statusBar.ComprehensiveStatusBar(
		m.session.GetInputMode().String(),
		m.input.GetEntryMode().String(),
		m.session.IsConnected(),
		pending,
		time.Now().Format("15:04:05"),
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		m.ports.View(),
		gauge,
		"",
		output,
		input,
		statusBar,
		m.help.View(m.keys),
	)
}
