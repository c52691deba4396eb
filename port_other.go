//go:build !linux

package serialdelay

import (
	"fmt"
	"sync"

	"go.bug.st/serial"
)

// bugstPort adapts go.bug.st/serial to Link. The library has no input-queue
// query, so InWaiting performs a timed read into a pending buffer.
type bugstPort struct {
	mu      sync.Mutex
	handle  serial.Port
	pending []byte
	scratch []byte
	closed  bool
}

var _ Link = (*bugstPort)(nil)

func validBaudRate(rate int) bool {
	return rate > 0
}

func openLink(device string, config Config) (Link, error) {
	mode := &serial.Mode{
		BaudRate: config.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	handle, err := serial.Open(device, mode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", device, err)
	}
	if err := handle.SetReadTimeout(config.ReadTimeout); err != nil {
		handle.Close()
		return nil, fmt.Errorf("set read timeout: %w", err)
	}
	return &bugstPort{handle: handle, scratch: make([]byte, 4096)}, nil
}

func (p *bugstPort) InWaiting() (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return 0, ErrPortClosed
	}
	if len(p.pending) > 0 {
		return len(p.pending), nil
	}
	n, err := p.handle.Read(p.scratch)
	if err != nil {
		return 0, err
	}
	p.pending = append(p.pending, p.scratch[:n]...)
	return len(p.pending), nil
}

func (p *bugstPort) Read(buf []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return 0, ErrPortClosed
	}
	if len(p.pending) == 0 {
		return p.handle.Read(buf)
	}
	n := copy(buf, p.pending)
	p.pending = p.pending[n:]
	return n, nil
}

func (p *bugstPort) Write(data []byte) (int, error) {
	if !p.IsOpen() {
		return 0, ErrPortClosed
	}
	return p.handle.Write(data)
}

func (p *bugstPort) SetDTR(state bool) error {
	if !p.IsOpen() {
		return ErrPortClosed
	}
	return p.handle.SetDTR(state)
}

func (p *bugstPort) FlushInput() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrPortClosed
	}
	p.pending = nil
	return p.handle.ResetInputBuffer()
}

func (p *bugstPort) FlushOutput() error {
	if !p.IsOpen() {
		return ErrPortClosed
	}
	return p.handle.ResetOutputBuffer()
}

func (p *bugstPort) IsOpen() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.closed
}

func (p *bugstPort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrPortClosed
	}
	p.closed = true
	return p.handle.Close()
}
