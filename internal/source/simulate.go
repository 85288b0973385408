package source

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"kmdash/internal/codec"
	"kmdash/internal/telemetry"
)

// simKeys is the pool of key codes the simulator types from: letters,
// digits, space and enter.
var simKeys = []uint16{
	16, 17, 18, 19, 20, 21, 22, 23, 24, 25, // Q-P
	30, 31, 32, 33, 34, 35, 36, 37, 38, // A-L
	44, 45, 46, 47, 48, 49, 50, // Z-M
	57, // SPACE
	28, // ENTER
	2, 3, 4, 5, 6, 7, 8, 9, 10, 11, // 1-0
}

var simButtons = []uint16{codec.BtnLeft, codec.BtnRight, codec.BtnMiddle}

// Simulator generates synthetic keyboard and mouse events with the same
// shape, counter and timestamp discipline as the live reader.
type Simulator struct {
	ctx    *telemetry.Context
	rng    *rand.Rand
	sleep  func(time.Duration)
	events chan codec.Event
	done   chan struct{}
	once   sync.Once
	log    zerolog.Logger
}

// NewSimulator creates a simulator bound to the shared telemetry
// context.
func NewSimulator(ctx *telemetry.Context, log zerolog.Logger) *Simulator {
	return &Simulator{
		ctx:    ctx,
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		sleep:  time.Sleep,
		events: make(chan codec.Event, eventBuffer),
		done:   make(chan struct{}),
		log:    log.With().Str("component", "source").Str("mode", "simulate").Logger(),
	}
}

// Start begins generating events.
func (s *Simulator) Start() error {
	s.log.Info().Msg("simulation mode active, generating synthetic events")
	go s.loop()
	return nil
}

// Stop terminates the generator.
func (s *Simulator) Stop() {
	s.once.Do(func() { close(s.done) })
}

// Events returns the synthetic event stream.
func (s *Simulator) Events() <-chan codec.Event {
	return s.events
}

func (s *Simulator) loop() {
	defer close(s.events)
	for {
		s.sleep(s.interval())
		select {
		case <-s.done:
			return
		default:
		}

		// Weighted scenario choice: 50% keystroke, 30% motion, 20% click.
		switch choice := s.rng.Float64(); {
		case choice < 0.5:
			if !s.keystroke() {
				return
			}
		case choice < 0.8:
			if !s.motion() {
				return
			}
		default:
			if !s.click() {
				return
			}
		}
	}
}

// interval spaces scenarios uniformly between 0.3s and 1.5s.
func (s *Simulator) interval() time.Duration {
	return 300*time.Millisecond + time.Duration(s.rng.Float64()*float64(1200*time.Millisecond))
}

// keystroke emits a key press followed by a release after a short gap.
func (s *Simulator) keystroke() bool {
	key := simKeys[s.rng.IntN(len(simKeys))]
	if !s.emitKey(key, 1) {
		return false
	}
	s.sleep(50*time.Millisecond + time.Duration(s.rng.Float64()*float64(100*time.Millisecond)))
	return s.emitKey(key, 0)
}

// motion emits a REL X/Y pair; an axis with a zero delta is omitted.
func (s *Simulator) motion() bool {
	dx := s.rng.IntN(41) - 20
	dy := s.rng.IntN(41) - 20
	for _, axis := range []struct {
		code  uint16
		delta int
	}{{codec.RelX, dx}, {codec.RelY, dy}} {
		if axis.delta == 0 {
			continue
		}
		ev := s.base(codec.EvRel, axis.code, uint32(int32(axis.delta)))
		ev.Axis = codec.RelAxisName(axis.code)
		if !s.emit(ev) {
			return false
		}
	}
	return true
}

// click emits a mouse button press/release pair.
func (s *Simulator) click() bool {
	btn := simButtons[s.rng.IntN(len(simButtons))]
	if !s.emitKey(btn, 1) {
		return false
	}
	s.sleep(100 * time.Millisecond)
	return s.emitKey(btn, 0)
}

func (s *Simulator) emitKey(code uint16, value uint32) bool {
	ev := s.base(codec.EvKey, code, value)
	ev.Key = codec.KeyName(code)
	ev.Action = codec.KeyAction(value)
	return s.emit(ev)
}

func (s *Simulator) base(evType, code uint16, value uint32) codec.Event {
	return codec.Event{
		ID:     s.ctx.NextSequence(),
		Time:   codec.Timestamp(),
		Type:   codec.TypeName(evType),
		TypeID: evType,
		Code:   code,
		Value:  value,
	}
}

func (s *Simulator) emit(ev codec.Event) bool {
	select {
	case s.events <- ev:
		return true
	case <-s.done:
		return false
	}
}
