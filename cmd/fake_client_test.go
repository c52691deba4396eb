package cmd

import (
	"sync"

	"github.com/allbin/serialdelay"
)

var testPorts = []serialdelay.PortDescriptor{
	{Device: "/dev/ttyS0", Description: "Standard Serial Port", HardwareID: "n/a"},
	{
		Device:       "/dev/ttyACM0",
		Description:  "USB Serial",
		Manufacturer: "Teensyduino",
		HardwareID:   "USB VID:PID=16C0:0483 SER=12345",
		IsUSB:        true,
		VID:          "16C0",
		PID:          "0483",
		SerialNumber: "12345",
	},
}

// fakeClient stands in for *serialdelay.Client in command tests
type fakeClient struct {
	mu         sync.Mutex
	ports      []serialdelay.PortDescriptor
	connected  bool
	connectErr error
	sendErr    error
	connects   []string
	sent       []string
	delays     []float64
	output     *serialdelay.OutputQueue
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		ports:  testPorts,
		output: serialdelay.NewOutputQueue(),
	}
}

func (f *fakeClient) ListPorts() []serialdelay.PortDescriptor {
	return f.ports
}

func (f *fakeClient) Connect(port string, opts ...serialdelay.Option) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connects = append(f.connects, port)
	if f.connectErr != nil {
		return &serialdelay.ConnectionError{Port: port, Err: f.connectErr}
	}
	f.connected = true
	return nil
}

func (f *fakeClient) Disconnect() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connected = false
}

func (f *fakeClient) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

func (f *fakeClient) setConnected(connected bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connected = connected
}

func (f *fakeClient) SendLine(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.connected {
		return serialdelay.ErrNotConnected
	}
	if _, err := serialdelay.EncodeLine(text); err != nil {
		return err
	}
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, text)
	return nil
}

func (f *fakeClient) SetDelay(valueMs float64) error {
	f.mu.Lock()
	f.delays = append(f.delays, valueMs)
	f.mu.Unlock()
	return f.SendLine(serialdelay.FormatDelay(valueMs))
}

func (f *fakeClient) Output() *serialdelay.OutputQueue {
	return f.output
}

func (f *fakeClient) sentLines() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

func (f *fakeClient) sentDelays() []float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]float64(nil), f.delays...)
}
