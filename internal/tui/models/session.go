package models

import (
	"sync"

	"github.com/allbin/serialdelay"
)

// InputMode represents the current input mode (vim-like)
type InputMode int

const (
	InputModeNormal InputMode = iota
	InputModeInsert
)

func (m InputMode) String() string {
	switch m {
	case InputModeInsert:
		return "INSERT"
	default:
		return "NORMAL"
	}
}

// ConnectionStatusMsg reports the outcome of a connect attempt or a lost link
type ConnectionStatusMsg struct {
	Device    string
	Connected bool
	Error     error
}

// Client is the part of *serialdelay.Client the controller drives
type Client interface {
	serialdelay.DelayTarget
	ListPorts() []serialdelay.PortDescriptor
	Connect(port string, opts ...serialdelay.Option) error
	Disconnect()
	SendLine(text string) error
	Output() *serialdelay.OutputQueue
}

// Session tracks the controller's connection and mode state
type Session struct {
	client Client
	opts   []serialdelay.Option

	device     string
	connected  bool
	connecting bool
	err        error
	ready      bool

	inputMode InputMode

	mu sync.RWMutex
}

func NewSession(client Client, opts ...serialdelay.Option) *Session {
	return &Session{
		client:    client,
		opts:      opts,
		inputMode: InputModeNormal,
	}
}

func (s *Session) Client() Client {
	return s.client
}

// Options are the connect options taken from the command line
func (s *Session) Options() []serialdelay.Option {
	return s.opts
}

func (s *Session) Device() string {
	return s.device
}

func (s *Session) IsConnected() bool {
	return s.connected
}

func (s *Session) IsConnecting() bool {
	return s.connecting
}

// SetConnecting marks an attempt on device as in flight
func (s *Session) SetConnecting(device string) {
	s.device = device
	s.connecting = true
	s.err = nil
}

// Apply records the result of a connect attempt or a link loss
func (s *Session) Apply(msg ConnectionStatusMsg) {
	s.connecting = false
	s.connected = msg.Connected
	s.err = msg.Error
	if msg.Device != "" {
		s.device = msg.Device
	}
}

// Disconnect closes the link and clears the connection state
func (s *Session) Disconnect() {
	s.client.Disconnect()
	s.connected = false
	s.connecting = false
	s.err = nil
}

// LinkLost reports a link that was connected but has been closed by the reader
func (s *Session) LinkLost() bool {
	return s.connected && !s.client.IsConnected()
}

func (s *Session) Error() error {
	return s.err
}

func (s *Session) SetError(err error) {
	s.err = err
}

func (s *Session) IsReady() bool {
	return s.ready
}

func (s *Session) SetReady(ready bool) {
	s.ready = ready
}

func (s *Session) GetInputMode() InputMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inputMode
}

func (s *Session) SetInputMode(mode InputMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inputMode = mode
}

func (s *Session) IsInInsertMode() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inputMode == InputModeInsert
}
