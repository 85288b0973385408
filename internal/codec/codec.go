// Package codec decodes raw Linux input_event records into labeled events.
package codec

import (
	"encoding/binary"
	"fmt"
	"time"

	"kmdash/internal/telemetry"
)

// EventSize is the byte length of one input_event record on a 64-bit
// platform: two native longs (sec, usec), two uint16 (type, code) and one
// uint32 (value). Callers must hand Decode exactly this many bytes; a
// short read is theirs to retry or discard.
const EventSize = 24

// Event is one decoded, sequenced input event as delivered to observers.
type Event struct {
	ID     uint64 `json:"id"`
	Time   string `json:"time"`
	Type   string `json:"type"`
	TypeID uint16 `json:"type_id"`
	Code   uint16 `json:"code"`
	Value  uint32 `json:"value"`

	// KEY events only
	Key    string `json:"key,omitempty"`
	Action string `json:"action,omitempty"`

	// REL/ABS events only
	Axis string `json:"axis,omitempty"`
}

// Decoder turns raw records into Events, assigning sequence numbers from
// the shared telemetry context.
type Decoder struct {
	ctx *telemetry.Context
}

// NewDecoder creates a decoder bound to the given telemetry context.
func NewDecoder(ctx *telemetry.Context) *Decoder {
	return &Decoder{ctx: ctx}
}

// Decode parses one fixed-size record. Returns nil for SYN records, which
// are frame markers with no payload of their own. The kernel timestamp in
// the record is discarded in favor of emission wall-clock time so that
// live and simulated events share one clock.
func (d *Decoder) Decode(buf []byte) *Event {
	evType := binary.NativeEndian.Uint16(buf[16:18])
	if evType == EvSyn {
		return nil
	}
	code := binary.NativeEndian.Uint16(buf[18:20])
	value := binary.NativeEndian.Uint32(buf[20:24])

	ev := &Event{
		ID:     d.ctx.NextSequence(),
		Time:   Timestamp(),
		Type:   TypeName(evType),
		TypeID: evType,
		Code:   code,
		Value:  value,
	}

	switch evType {
	case EvKey:
		ev.Key = KeyName(code)
		ev.Action = KeyAction(value)
	case EvRel:
		ev.Axis = RelAxisName(code)
	case EvAbs:
		ev.Axis = AbsAxisName(code)
	}
	return ev
}

// Timestamp returns the wall clock as HH:MM:SS.mmm.
func Timestamp() string {
	now := time.Now()
	return fmt.Sprintf("%s.%03d", now.Format("15:04:05"), now.Nanosecond()/1e6)
}

// TypeName resolves an event type to its display name, with an UNK_<n>
// fallback for types outside the table.
func TypeName(evType uint16) string {
	if name, ok := eventTypeNames[evType]; ok {
		return name
	}
	return fmt.Sprintf("UNK_%d", evType)
}

// KeyName resolves a key or button code to its display name.
func KeyName(code uint16) string {
	if name, ok := KeycodeNames[code]; ok {
		return name
	}
	return fmt.Sprintf("KEY_%d", code)
}

// KeyAction maps a KEY event value to its action string.
func KeyAction(value uint32) string {
	switch value {
	case 1:
		return "press"
	case 2:
		return "repeat"
	default:
		return "release"
	}
}

// RelAxisName resolves a relative axis code to its display name.
func RelAxisName(code uint16) string {
	if name, ok := relAxisNames[code]; ok {
		return name
	}
	return fmt.Sprintf("REL_%d", code)
}

// AbsAxisName resolves an absolute axis code to its display name.
func AbsAxisName(code uint16) string {
	if name, ok := absAxisNames[code]; ok {
		return name
	}
	return fmt.Sprintf("ABS_%d", code)
}
