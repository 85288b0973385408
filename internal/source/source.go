// Package source produces the stream of decoded input events, either
// from a real device or from the synthetic generator. Exactly one source
// runs per process; downstream code cannot tell them apart.
package source

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"

	"kmdash/internal/codec"
)

// Source is the contract shared by the live reader and the simulator.
type Source interface {
	Start() error
	Stop()
	Events() <-chan codec.Event
}

// RetryPolicy maps read-error classes to backoff intervals. It exists as
// a value so tests can substitute a fake sleeper and shrunken intervals.
type RetryPolicy struct {
	// WouldBlock is the pause after an empty non-blocking read.
	WouldBlock time.Duration
	// ReadError is the pause after any other transient read error.
	ReadError time.Duration
}

// DefaultRetryPolicy matches the device hiccup profile of the virtual
// drivers: quick spin on would-block, longer pause on real errors.
var DefaultRetryPolicy = RetryPolicy{
	WouldBlock: 10 * time.Millisecond,
	ReadError:  100 * time.Millisecond,
}

// Backoff returns the pause for a failed read. A nil error means no
// pause.
func (p RetryPolicy) Backoff(err error) time.Duration {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, unix.EAGAIN):
		return p.WouldBlock
	default:
		return p.ReadError
	}
}

const eventBuffer = 64

// Reader streams events from one input device opened in non-blocking
// mode. Open failures terminate the source; once open it retries reads
// forever under the retry policy.
type Reader struct {
	path    string
	decoder *codec.Decoder
	policy  RetryPolicy
	sleep   func(time.Duration)
	read    func(fd int, buf []byte) (int, error)

	fd     int
	events chan codec.Event
	done   chan struct{}
	once   sync.Once
	log    zerolog.Logger
}

// NewReader creates a live reader for the given device path.
func NewReader(path string, decoder *codec.Decoder, log zerolog.Logger) *Reader {
	return &Reader{
		path:    path,
		decoder: decoder,
		policy:  DefaultRetryPolicy,
		sleep:   time.Sleep,
		read:    unix.Read,
		fd:      -1,
		events:  make(chan codec.Event, eventBuffer),
		done:    make(chan struct{}),
		log:     log.With().Str("component", "source").Str("device", path).Logger(),
	}
}

// Start opens the device and begins the read loop. Permission and
// not-found errors are returned immediately; neither is retried.
func (r *Reader) Start() error {
	fd, err := unix.Open(r.path, unix.O_RDONLY|unix.O_NONBLOCK, 0)
	switch {
	case errors.Is(err, unix.EACCES):
		return fmt.Errorf("permission denied: %s (try running as root)", r.path)
	case errors.Is(err, unix.ENOENT):
		return fmt.Errorf("device not found: %s", r.path)
	case err != nil:
		return fmt.Errorf("open %s: %w", r.path, err)
	}
	r.fd = fd
	r.log.Info().Msg("reading from device")
	go r.loop()
	return nil
}

// Stop terminates the read loop and closes the device.
func (r *Reader) Stop() {
	r.once.Do(func() {
		close(r.done)
		if r.fd >= 0 {
			unix.Close(r.fd)
		}
	})
}

// Events returns the decoded event stream.
func (r *Reader) Events() <-chan codec.Event {
	return r.events
}

func (r *Reader) loop() {
	defer close(r.events)
	buf := make([]byte, codec.EventSize)

	for {
		select {
		case <-r.done:
			return
		default:
		}

		n, err := r.read(r.fd, buf)
		if err != nil {
			select {
			case <-r.done:
				return
			default:
			}
			r.sleep(r.policy.Backoff(err))
			continue
		}
		if n != codec.EventSize {
			// Short read; discard and let the device resync.
			continue
		}

		ev := r.decoder.Decode(buf)
		if ev == nil {
			continue
		}
		select {
		case r.events <- *ev:
		case <-r.done:
			return
		}
	}
}
