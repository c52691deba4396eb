package serialdelay

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Client owns at most one connection to a device and exposes the line
// protocol on top of it. Device output is delivered through Output().
type Client struct {
	mu      sync.RWMutex
	link    Link
	port    string
	config  Config
	reader  *reader
	limiter *rate.Limiter

	output *OutputQueue
	logger *zap.SugaredLogger

	// open is replaced in tests
	open func(device string, config Config) (Link, error)
}

// NewClient creates a disconnected client. A nil logger disables logging.
func NewClient(logger *zap.SugaredLogger) *Client {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Client{
		output: NewOutputQueue(),
		logger: logger,
		open:   openLink,
	}
}

// Output returns the queue the reader publishes device text to
func (c *Client) Output() *OutputQueue {
	return c.output
}

// ListPorts enumerates serial ports, logging failures with the client's logger
func (c *Client) ListPorts() []PortDescriptor {
	return listPorts(c.logger)
}

// Port returns the device of the current connection, or ""
func (c *Client) Port() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.link == nil {
		return ""
	}
	return c.port
}

// Config returns the configuration of the current connection
func (c *Client) Config() Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

// Connect closes any existing connection, then opens port. The reader is
// running when Connect returns nil; on error the client is disconnected.
func (c *Client) Connect(port string, opts ...Option) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closeLocked()

	config, err := NewConfig(opts...)
	if err != nil {
		return err
	}

	link, err := c.open(port, config)
	if err != nil {
		c.logger.Debugw("Open failed", "port", port, "error", err)
		return &ConnectionError{Port: port, Err: err}
	}

	if config.ResetPulse {
		c.resetPulse(link)
	}
	if config.FlushOnOpen {
		// lossy by design of the option: a startup banner may be discarded
		if err := link.FlushInput(); err != nil {
			c.logger.Debugw("Input flush not supported", "port", port, "error", err)
		}
		if err := link.FlushOutput(); err != nil {
			c.logger.Debugw("Output flush not supported", "port", port, "error", err)
		}
	}

	c.link = link
	c.port = port
	c.config = config
	c.limiter = newSendLimiter(config.SendInterval)
	c.reader = newReader(link, c.output, c.logger)
	c.reader.start()

	c.logger.Infow("Connected", "port", port, "baud", config.BaudRate)
	return nil
}

// resetPulse drops DTR briefly. Boards without the line just ignore it.
func (c *Client) resetPulse(link Link) {
	if err := link.SetDTR(false); err != nil {
		c.logger.Debugw("DTR reset not supported", "error", err)
		return
	}
	time.Sleep(resetPulseSettle)
	if err := link.SetDTR(true); err != nil {
		c.logger.Debugw("DTR reassert failed", "error", err)
	}
}

func newSendLimiter(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

// Disconnect stops the reader and closes the device. Safe to call at any time.
func (c *Client) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
}

// closeLocked stops the reader before the handle is released
func (c *Client) closeLocked() {
	if c.reader != nil {
		c.reader.halt()
		c.reader = nil
	}
	if c.link == nil {
		return
	}
	if err := c.link.Close(); err != nil {
		c.logger.Debugw("Close returned error", "port", c.port, "error", err)
	}
	c.logger.Infow("Disconnected", "port", c.port)
	c.link = nil
	c.port = ""
}

// IsConnected reports whether a handle is held and still open
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.link != nil && c.link.IsOpen()
}

// SendLine writes one command line to the device
func (c *Client) SendLine(text string) error {
	return c.SendLineContext(context.Background(), text)
}

// SendLineContext is SendLine that also waits for the configured send
// interval, giving up when ctx is done.
func (c *Client) SendLineContext(ctx context.Context, text string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.link == nil || !c.link.IsOpen() {
		return ErrNotConnected
	}

	data, err := EncodeLine(text)
	if err != nil {
		return err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("waiting to send: %w", err)
	}

	if _, err := c.link.Write(data); err != nil {
		return fmt.Errorf("write to %s: %w", c.port, err)
	}
	c.logger.Debugw("Sent line", "port", c.port, "line", string(data[:len(data)-1]))
	return nil
}

// SetDelay sends the set-delay command. Range checks belong to the caller.
func (c *Client) SetDelay(valueMs float64) error {
	return c.SendLine(FormatDelay(valueMs))
}

// SendCommand sends a single-letter command whose meaning is defined by the firmware
func (c *Client) SendCommand(letter string, args ...float64) error {
	return c.SendLine(FormatCommand(letter, args...))
}

// RequestHelp asks the firmware to print its command list
func (c *Client) RequestHelp() error {
	return c.SendCommand("h")
}

// RequestSettings asks the firmware to print its current gain and delay
func (c *Client) RequestSettings() error {
	return c.SendCommand("g")
}

// ToggleCPUReport toggles the firmware's periodic CPU and memory printout
func (c *Client) ToggleCPUReport() error {
	return c.SendCommand("C")
}

// SetGain sends the digital gain command in dB
func (c *Client) SetGain(dB float64) error {
	return c.SendCommand("k", dB)
}
