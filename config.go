package serialdelay

import "time"

const (
	// DefaultBaudRate is the contractual default line speed.
	DefaultBaudRate = 115200
	// DefaultReadTimeout keeps the reader poll responsive; it is not a deadline.
	DefaultReadTimeout = 100 * time.Millisecond
	// resetPulseSettle is how long DTR is held low during a reset pulse.
	resetPulseSettle = 50 * time.Millisecond
)

// Config holds the configuration for a single connection
type Config struct {
	BaudRate    int
	ReadTimeout time.Duration
	// ResetPulse toggles DTR low then high after opening. Some boards reboot on it.
	ResetPulse bool
	// FlushOnOpen discards buffered input and output after opening.
	// This is lossy: it may drop the banner a device prints right after reset.
	FlushOnOpen bool
	// SendInterval is the minimum spacing between outbound lines. Zero disables pacing.
	SendInterval time.Duration
}

// Option is a functional option for configuring a connection
type Option func(*Config) error

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() Config {
	return Config{
		BaudRate:    DefaultBaudRate,
		ReadTimeout: DefaultReadTimeout,
	}
}

// NewConfig applies opts on top of DefaultConfig.
func NewConfig(opts ...Option) (Config, error) {
	config := DefaultConfig()
	for _, opt := range opts {
		if err := opt(&config); err != nil {
			return Config{}, err
		}
	}
	return config, nil
}

// WithBaudRate sets the baud rate
func WithBaudRate(rate int) Option {
	return func(c *Config) error {
		if !validBaudRate(rate) {
			return ErrInvalidBaudRate
		}
		c.BaudRate = rate
		return nil
	}
}

// WithReadTimeout sets the per-read timeout of the link
func WithReadTimeout(timeout time.Duration) Option {
	return func(c *Config) error {
		if timeout < 0 {
			return ErrInvalidConfig
		}
		c.ReadTimeout = timeout
		return nil
	}
}

// WithResetPulse enables the DTR reset pulse on connect
func WithResetPulse(enabled bool) Option {
	return func(c *Config) error {
		c.ResetPulse = enabled
		return nil
	}
}

// WithFlushOnOpen enables discarding buffered bytes on connect
func WithFlushOnOpen(enabled bool) Option {
	return func(c *Config) error {
		c.FlushOnOpen = enabled
		return nil
	}
}

// WithSendInterval sets the minimum spacing between outbound lines
func WithSendInterval(interval time.Duration) Option {
	return func(c *Config) error {
		if interval < 0 {
			return ErrInvalidConfig
		}
		c.SendInterval = interval
		return nil
	}
}
