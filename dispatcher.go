package serialdelay

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultDebounce is the quiet period used by front ends driving SetDelay
// from a continuous control such as a slider.
const DefaultDebounce = 120 * time.Millisecond

// DelayTarget receives delay commands from a Dispatcher. *Client implements it.
type DelayTarget interface {
	IsConnected() bool
	SetDelay(valueMs float64) error
}

// DispatcherOption configures a Dispatcher
type DispatcherOption func(*Dispatcher)

// WithErrorHandler sets the callback for failed sends. Failures are never retried.
func WithErrorHandler(fn func(error)) DispatcherOption {
	return func(d *Dispatcher) {
		d.onError = fn
	}
}

// WithDispatcherLogger sets the logger used for dropped and failed sends
func WithDispatcherLogger(logger *zap.SugaredLogger) DispatcherOption {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// Dispatcher coalesces bursts of value changes into one SetDelay call sent
// after the burst has been quiet for the configured period.
type Dispatcher struct {
	target  DelayTarget
	quiet   time.Duration
	onError func(error)
	logger  *zap.SugaredLogger

	mu    sync.Mutex
	value float64
	timer *time.Timer
	// gen invalidates timer fires that lost a race with Update, Commit or Stop
	gen uint64

	// sendMu keeps a timer fire and a Commit from writing at the same time
	sendMu sync.Mutex
	// sent is the generation of the newest value handed to the target
	sent uint64
}

// NewDispatcher creates a dispatcher for target. A non-positive quiet period
// selects DefaultDebounce.
func NewDispatcher(target DelayTarget, quiet time.Duration, opts ...DispatcherOption) *Dispatcher {
	if quiet <= 0 {
		quiet = DefaultDebounce
	}
	d := &Dispatcher{
		target: target,
		quiet:  quiet,
		logger: zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Update records v and (re)schedules its send after the quiet period
func (d *Dispatcher) Update(v float64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.value = v
	d.cancelLocked()
	gen := d.gen
	d.timer = time.AfterFunc(d.quiet, func() { d.fire(gen) })
}

// Commit sends v now and drops any scheduled send
func (d *Dispatcher) Commit(v float64) {
	d.mu.Lock()
	d.value = v
	d.cancelLocked()
	gen := d.gen
	d.mu.Unlock()

	d.send(v, gen)
}

// Pending reports the value of a scheduled send, if any
func (d *Dispatcher) Pending() (float64, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.value, d.timer != nil
}

// Stop cancels any scheduled send
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
}

func (d *Dispatcher) cancelLocked() {
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func (d *Dispatcher) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	v := d.value
	d.mu.Unlock()

	d.send(v, gen)
}

func (d *Dispatcher) send(v float64, gen uint64) {
	d.sendMu.Lock()
	defer d.sendMu.Unlock()

	// a newer value already went out
	if gen < d.sent {
		return
	}
	d.sent = gen

	if !d.target.IsConnected() {
		d.logger.Debugw("Dropping delay update while disconnected", "delay_ms", v)
		return
	}
	if err := d.target.SetDelay(v); err != nil {
		d.logger.Warnw("Delay update failed", "delay_ms", v, "error", err)
		if d.onError != nil {
			d.onError(err)
		}
	}
}
