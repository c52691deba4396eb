package serialdelay

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

const (
	// pollInterval is the idle wait between input-queue checks
	pollInterval = 10 * time.Millisecond
	// readChunkSize caps a single read
	readChunkSize = 4096
)

// reader drains a link into the output queue until stopped or the link fails
type reader struct {
	link    Link
	output  *OutputQueue
	logger  *zap.SugaredLogger
	decoder Decoder
	stop    chan struct{}
	done    chan struct{}
}

func newReader(link Link, output *OutputQueue, logger *zap.SugaredLogger) *reader {
	return &reader{
		link:   link,
		output: output,
		logger: logger,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

func (r *reader) start() {
	go r.run()
}

// halt signals the loop and waits for it to return. Must be called once.
func (r *reader) halt() {
	close(r.stop)
	<-r.done
}

func (r *reader) stopped() bool {
	select {
	case <-r.stop:
		return true
	default:
		return false
	}
}

func (r *reader) run() {
	defer close(r.done)
	defer func() {
		if rec := recover(); rec != nil {
			r.fail(fmt.Errorf("reader panic: %v", rec))
		}
	}()

	idle := time.NewTimer(pollInterval)
	defer idle.Stop()

	buf := make([]byte, readChunkSize)
	for !r.stopped() {
		n, err := r.link.InWaiting()
		if err != nil {
			r.fail(err)
			return
		}

		if n == 0 {
			idle.Reset(pollInterval)
			select {
			case <-r.stop:
				return
			case <-idle.C:
			}
			continue
		}

		if n > len(buf) {
			n = len(buf)
		}
		n, err = r.link.Read(buf[:n])
		if err != nil {
			r.fail(err)
			return
		}

		text := r.decoder.Decode(buf[:n])
		// bytes that arrive while disconnecting are dropped
		if text == "" || r.stopped() {
			continue
		}
		r.output.Put(text)
	}
}

// fail reports err through the output queue and closes the link so the
// connection reads as closed.
func (r *reader) fail(err error) {
	if r.stopped() {
		return
	}
	if rest := r.decoder.Flush(); rest != "" {
		r.output.Put(rest)
	}
	r.output.Put(fmt.Sprintf("\n[Serial read error] %v\n", err))
	r.logger.Warnw("Serial read failed, closing link", "error", err)
	if cerr := r.link.Close(); cerr != nil {
		r.logger.Debugw("Closing failed link", "error", cerr)
	}
}
