package cmd

import (
	"errors"
	"testing"
	"time"

	"github.com/allbin/serialdelay"
	"github.com/allbin/serialdelay/internal/tui/models"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestController(t *testing.T, client *fakeClient) *controllerModel {
	t.Helper()
	dispatcher := serialdelay.NewDispatcher(echoTarget{Client: client}, 20*time.Millisecond)
	t.Cleanup(dispatcher.Stop)

	m := newControllerModel(models.NewSession(client), dispatcher, serialdelay.DefaultConfig(), models.DefaultDelay)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

// run executes cmd and feeds what it produces back into the model, the way
// the program loop would.
func run(m *controllerModel, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case nil:
	case tea.BatchMsg:
		for _, c := range msg {
			run(m, c)
		}
	default:
		_, next := m.Update(msg)
		run(m, next)
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// typeLine enters insert mode and types s without running the cursor commands
func typeLine(m *controllerModel, s string) {
	m.Update(runes("i"))
	m.Update(runes(s))
}

func connected(t *testing.T) (*controllerModel, *fakeClient) {
	t.Helper()
	client := newFakeClient()
	m := newTestController(t, client)
	m.Update(portsMsg(client.ports))
	_, cmd := m.Update(runes("c"))
	run(m, cmd)
	require.True(t, m.session.IsConnected())
	return m, client
}

func TestControllerConnectSendsCurrentDelay(t *testing.T) {
	m, client := connected(t)

	assert.Equal(t, []string{"/dev/ttyACM0"}, client.connects)
	assert.Equal(t, []float64{20}, client.sentDelays())
	assert.Contains(t, m.terminal.Content(), "Connected to /dev/ttyACM0")
}

func TestControllerConnectFailure(t *testing.T) {
	client := newFakeClient()
	client.connectErr = errors.New("busy")
	m := newTestController(t, client)
	m.Update(portsMsg(client.ports))

	_, cmd := m.Update(runes("c"))
	run(m, cmd)

	assert.False(t, m.session.IsConnected())
	assert.False(t, m.session.IsConnecting())
	assert.Contains(t, m.terminal.Content(), "Connect failed")
	assert.Empty(t, client.sentDelays())
}

func TestControllerNeedsSelectedPort(t *testing.T) {
	client := newFakeClient()
	m := newTestController(t, client)
	m.Update(portsMsg(nil))

	_, cmd := m.Update(runes("c"))
	assert.Nil(t, cmd)
	assert.Contains(t, m.terminal.Content(), "Select a serial port first")
	assert.Empty(t, client.connects)
}

func TestControllerNudgesAreDebounced(t *testing.T) {
	m, client := connected(t)

	for range 3 {
		m.Update(runes("l"))
	}
	m.Update(runes("]"))
	assert.Equal(t, 23.1, m.delay.Value())

	assert.Eventually(t, func() bool {
		return len(client.sentDelays()) == 2
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []float64{20, 23.1}, client.sentDelays())
	assert.Equal(t, []string{"d 20", "d 23.1"}, client.sentLines())
}

func TestControllerNudgeClampsToRange(t *testing.T) {
	m := newTestController(t, newFakeClient())

	for range 5 {
		m.Update(runes("H"))
	}
	assert.Equal(t, models.DelayMin, m.delay.Value())
}

func TestControllerExactDelay(t *testing.T) {
	tests := []struct {
		name  string
		typed string
		want  float64
	}{
		{name: "decimal", typed: "12.5", want: 12.5},
		{name: "suffix", typed: "7ms", want: 7},
		{name: "above range", typed: "5000", want: models.DelayMax},
		{name: "below range", typed: "-4", want: models.DelayMin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, client := connected(t)

			typeLine(m, tt.typed)
			_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
			run(m, cmd)

			assert.Equal(t, tt.want, m.delay.Value())
			assert.Equal(t, []float64{20, tt.want}, client.sentDelays())
			assert.Empty(t, m.input.Value())
		})
	}
}

func TestControllerInvalidExactDelay(t *testing.T) {
	m, client := connected(t)

	typeLine(m, "fast")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	run(m, cmd)

	assert.Equal(t, models.DefaultDelay, m.delay.Value())
	assert.Equal(t, []float64{20}, client.sentDelays())
	assert.Contains(t, m.terminal.Content(), "Invalid delay")
}

func TestControllerCommandEntry(t *testing.T) {
	m, client := connected(t)

	m.Update(runes("i"))
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m.Update(runes("k 6"))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	run(m, cmd)

	assert.Equal(t, []string{"d 20", "k 6"}, client.sentLines())
	assert.Contains(t, m.terminal.Content(), "k 6")

	// history survives leaving insert mode
	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "k 6", m.input.Value())
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.session.IsInInsertMode())
}

func TestControllerSendError(t *testing.T) {
	client := newFakeClient()
	m := newTestController(t, client)

	m.Update(runes("i"))
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m.Update(runes("g"))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	run(m, cmd)

	assert.Contains(t, m.terminal.Content(), "[Serial write error] "+serialdelay.ErrNotConnected.Error())
}

func TestControllerShowsOutputAndLinkLoss(t *testing.T) {
	m, client := connected(t)

	client.output.Put("gain = 0 dB\n")
	m.Update(tickMsg(time.Now()))
	assert.Contains(t, m.terminal.Content(), "gain = 0 dB\n")

	client.setConnected(false)
	m.Update(tickMsg(time.Now()))
	assert.False(t, m.session.IsConnected())
	assert.Contains(t, m.terminal.Content(), "Link to /dev/ttyACM0 closed")
}

func TestControllerDisconnect(t *testing.T) {
	m, client := connected(t)

	m.Update(runes("c"))
	assert.False(t, m.session.IsConnected())
	assert.False(t, client.IsConnected())
}

func TestControllerView(t *testing.T) {
	m, _ := connected(t)

	view := m.View()
	assert.Contains(t, view, "Serial Delay Controller")
	assert.Contains(t, view, "20.0 ms")
	assert.Contains(t, view, "/dev/ttyACM0")
}
