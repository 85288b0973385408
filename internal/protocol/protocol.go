// Package protocol defines the JSON command envelope exchanged with
// observers and its parsed command forms.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Reply type tags.
const (
	TypeStatus       = "status"
	TypeInjectResult = "inject_result"
	TypeError        = "error"
)

// ErrMalformed is returned when an inbound message is not valid JSON.
var ErrMalformed = errors.New("invalid JSON")

// UnknownActionError is returned for a well-formed envelope whose action
// is not part of the command set.
type UnknownActionError struct {
	Action string
}

func (e *UnknownActionError) Error() string {
	return fmt.Sprintf("unknown action: %s", e.Action)
}

// Command is one parsed observer command. The concrete types below are
// the full closed set; Parse never returns anything else.
type Command interface {
	Action() string
}

// Waypoint is one absolute coordinate in an inject_path command.
type Waypoint struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// InjectKey presses and releases a single scancode.
type InjectKey struct {
	Scancode string
}

// InjectMouse injects one relative mouse packet.
type InjectMouse struct {
	Buttons int
	DX      int
	DY      int
}

// InjectText types a string character by character.
type InjectText struct {
	Text string
}

// InjectPreset runs a named macro from the preset library.
type InjectPreset struct {
	Preset string
}

// InjectPath replays a series of waypoints as relative motion.
type InjectPath struct {
	Waypoints []Waypoint
}

// SetRepeat updates the key repeat delay and/or rate. Nil fields are
// left untouched.
type SetRepeat struct {
	Delay *int
	Rate  *int
}

// SetDPI updates the pointer speed multiplier.
type SetDPI struct {
	DPI int
}

// SetLED sets one keyboard indicator.
type SetLED struct {
	LED   string
	State int
}

// SetLogLevel changes the server log verbosity.
type SetLogLevel struct {
	Level string
}

// GetStatus requests a fresh status snapshot.
type GetStatus struct{}

func (InjectKey) Action() string    { return "inject_key" }
func (InjectMouse) Action() string  { return "inject_mouse" }
func (InjectText) Action() string   { return "inject_text" }
func (InjectPreset) Action() string { return "inject_preset" }
func (InjectPath) Action() string   { return "inject_path" }
func (SetRepeat) Action() string    { return "set_repeat" }
func (SetDPI) Action() string       { return "set_dpi" }
func (SetLED) Action() string       { return "set_led" }
func (SetLogLevel) Action() string  { return "set_log_level" }
func (GetStatus) Action() string    { return "get_status" }

// envelope is the raw inbound shape; field presence depends on action.
type envelope struct {
	Action    string     `json:"action"`
	Scancode  string     `json:"scancode"`
	Buttons   int        `json:"buttons"`
	DX        int        `json:"dx"`
	DY        int        `json:"dy"`
	Text      string     `json:"text"`
	Preset    string     `json:"preset"`
	Waypoints []Waypoint `json:"waypoints"`
	Delay     *int       `json:"delay"`
	Rate      *int       `json:"rate"`
	DPI       *int       `json:"dpi"`
	LED       string     `json:"led"`
	State     int        `json:"state"`
	Level     string     `json:"level"`
}

// Parse decodes one inbound message into its command form. A JSON error
// yields ErrMalformed; a recognized envelope with an unknown action
// yields *UnknownActionError. Both are reported to the observer, never
// dropped silently.
func Parse(data []byte) (Command, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, ErrMalformed
	}

	switch env.Action {
	case "inject_key":
		scancode := env.Scancode
		if scancode == "" {
			scancode = "0x00"
		}
		return InjectKey{Scancode: scancode}, nil
	case "inject_mouse":
		return InjectMouse{Buttons: env.Buttons, DX: env.DX, DY: env.DY}, nil
	case "inject_text":
		return InjectText{Text: env.Text}, nil
	case "inject_preset":
		return InjectPreset{Preset: env.Preset}, nil
	case "inject_path":
		return InjectPath{Waypoints: env.Waypoints}, nil
	case "set_repeat":
		return SetRepeat{Delay: env.Delay, Rate: env.Rate}, nil
	case "set_dpi":
		dpi := 1
		if env.DPI != nil {
			dpi = *env.DPI
		}
		return SetDPI{DPI: dpi}, nil
	case "set_led":
		return SetLED{LED: env.LED, State: env.State}, nil
	case "set_log_level":
		level := env.Level
		if level == "" {
			level = "INFO"
		}
		return SetLogLevel{Level: level}, nil
	case "get_status":
		return GetStatus{}, nil
	default:
		return nil, &UnknownActionError{Action: env.Action}
	}
}

// InjectResult is the reply envelope for injection commands.
type InjectResult struct {
	Type    string `json:"type"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ErrorReply is the reply envelope for protocol-level failures.
type ErrorReply struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// NewErrorReply builds a type:error reply.
func NewErrorReply(message string) ErrorReply {
	return ErrorReply{Type: TypeError, Message: message}
}
