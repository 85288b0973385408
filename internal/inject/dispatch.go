// Package inject translates observer commands into sysfs attribute
// writes against the virtual driver injection endpoints.
package inject

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"kmdash/internal/device"
	"kmdash/internal/protocol"
)

// Result is the outcome of one dispatched command, reported back to the
// requesting observer. No command failure is fatal to the dispatcher.
type Result struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// OK reports whether the command succeeded.
func (r Result) OK() bool { return r.Status == "ok" }

func okf(format string, args ...any) Result {
	return Result{Status: "ok", Message: fmt.Sprintf(format, args...)}
}

func errorf(format string, args ...any) Result {
	return Result{Status: "error", Message: fmt.Sprintf(format, args...)}
}

// ResolveFunc maps a glob pattern to at most one concrete path.
type ResolveFunc func(pattern string) (string, bool)

// WriteFunc performs one attribute write.
type WriteFunc func(path, value string) error

// Dispatcher executes injection commands. Path resolution and the write
// primitive are injected so tests can substitute counting fakes.
type Dispatcher struct {
	resolve ResolveFunc
	write   WriteFunc
	log     zerolog.Logger
}

// New creates a dispatcher backed by real sysfs globbing and writes.
func New(log zerolog.Logger) *Dispatcher {
	return NewWith(device.ResolveAttr, writeFile, log)
}

// NewWith creates a dispatcher with custom resolution and write
// primitives.
func NewWith(resolve ResolveFunc, write WriteFunc, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		resolve: resolve,
		write:   write,
		log:     log.With().Str("component", "inject").Logger(),
	}
}

func writeFile(path, value string) error {
	return os.WriteFile(path, []byte(value), 0o644)
}

// Dispatch executes one command and returns its structured result. Each
// call is independent; a failed step never aborts the dispatcher.
func (d *Dispatcher) Dispatch(cmd protocol.Command) Result {
	switch c := cmd.(type) {
	case protocol.InjectKey:
		return d.injectKey(c.Scancode)
	case protocol.InjectMouse:
		return d.injectMousePacket(c.Buttons, c.DX, c.DY)
	case protocol.InjectText:
		return d.injectTextString(c.Text)
	case protocol.InjectPreset:
		return d.injectPreset(c.Preset)
	case protocol.InjectPath:
		return d.injectPath(c.Waypoints)
	case protocol.SetRepeat:
		return d.setRepeat(c.Delay, c.Rate)
	case protocol.SetDPI:
		return d.writeAttr("dpi_multiplier", strconv.Itoa(c.DPI))
	case protocol.SetLED:
		return d.setLED(c.LED, c.State)
	case protocol.SetLogLevel:
		return d.setLogLevel(c.Level)
	default:
		return errorf("unsupported command: %s", cmd.Action())
	}
}

// injectScancode writes one scancode value to the keyboard injection
// endpoint. The value is passed through as literal hex text.
func (d *Dispatcher) injectScancode(scancodeHex string) Result {
	path, ok := d.resolve(device.AttrPattern(device.AttrScancode))
	if !ok {
		return errorf("Keyboard sysfs path not found")
	}
	if err := d.write(path, scancodeHex); err != nil {
		return errorf("%v", err)
	}
	d.log.Debug().Str("scancode", scancodeHex).Msg("injected scancode")
	return okf("Injected %s", scancodeHex)
}

// injectKey writes the press scancode followed by its paired release
// (high bit set). The press result is what gets reported.
func (d *Dispatcher) injectKey(scancodeHex string) Result {
	code, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(scancodeHex), "0x"), 16, 32)
	if err != nil {
		return errorf("invalid scancode: %s", scancodeHex)
	}
	result := d.injectScancode(scancodeHex)
	d.injectScancode(fmt.Sprintf("0x%02X", code|0x80))
	return result
}

// injectMousePacket writes one relative packet. dx/dy are masked into
// unsigned-byte form, so values outside [-128,127] wrap rather than
// clamp; callers that need clamping (path playback) pre-clamp.
func (d *Dispatcher) injectMousePacket(buttons, dx, dy int) Result {
	path, ok := d.resolve(device.AttrPattern(device.AttrPacket))
	if !ok {
		return errorf("Mouse sysfs path not found")
	}
	packet := fmt.Sprintf("0x%02X 0x%02X 0x%02X", buttons&0xFF, dx&0xFF, dy&0xFF)
	if err := d.write(path, packet); err != nil {
		return errorf("%v", err)
	}
	d.log.Debug().Str("packet", packet).Msg("injected mouse packet")
	return okf("Injected packet: %s", packet)
}

// injectTextString types out text one character at a time. Characters
// absent from both tables are skipped, not errors; the reported count is
// the number actually injected.
func (d *Dispatcher) injectTextString(text string) Result {
	if _, ok := d.resolve(device.AttrPattern(device.AttrScancode)); !ok {
		return errorf("Keyboard sysfs path not found")
	}
	injected := 0
	for _, ch := range text {
		base, needsShift := shiftChars[ch]
		if !needsShift {
			base = ch
		}
		scancode, ok := textToScancode[base]
		if !ok {
			continue
		}
		if needsShift {
			d.injectScancode(shiftPress)
		}
		d.injectScancode(fmt.Sprintf("0x%02X", scancode))
		d.injectScancode(fmt.Sprintf("0x%02X", scancode|0x80))
		if needsShift {
			d.injectScancode(shiftRelease)
		}
		injected++
	}
	return okf("Injected %d characters", injected)
}

// injectPath replays waypoints as relative motion. Segment deltas are
// clamped to the signed-byte range so playback tracks without the
// wraparound a raw mouse packet allows.
func (d *Dispatcher) injectPath(waypoints []protocol.Waypoint) Result {
	if len(waypoints) < 2 {
		return errorf("Need at least 2 waypoints")
	}
	injected := 0
	for i := 1; i < len(waypoints); i++ {
		dx := clampByte(waypoints[i].X - waypoints[i-1].X)
		dy := clampByte(waypoints[i].Y - waypoints[i-1].Y)
		d.injectMousePacket(0, dx, dy)
		injected++
	}
	return okf("Injected %d waypoint segments", injected)
}

func clampByte(v int) int {
	if v > 127 {
		return 127
	}
	if v < -127 {
		return -127
	}
	return v
}

// setRepeat writes delay and/or rate; either may be omitted. Sub-result
// messages are joined into one reply.
func (d *Dispatcher) setRepeat(delay, rate *int) Result {
	var messages []string
	if delay != nil {
		messages = append(messages, d.writeAttr("repeat_delay_ms", strconv.Itoa(*delay)).Message)
	}
	if rate != nil {
		messages = append(messages, d.writeAttr("repeat_rate_ms", strconv.Itoa(*rate)).Message)
	}
	if len(messages) == 0 {
		return okf("No values set")
	}
	return okf("%s", strings.Join(messages, "; "))
}

func (d *Dispatcher) setLED(led string, state int) Result {
	attrs := map[string]string{
		"caps":   "led_caps",
		"num":    "led_num",
		"scroll": "led_scroll",
	}
	attr, ok := attrs[led]
	if !ok {
		return errorf("Unknown LED: %s", led)
	}
	return d.writeAttr(attr, strconv.Itoa(state))
}

// setLogLevel adjusts the process log verbosity. This is the one command
// that touches no injection endpoint.
func (d *Dispatcher) setLogLevel(level string) Result {
	parsed, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return errorf("Unknown log level: %s", level)
	}
	zerolog.SetGlobalLevel(parsed)
	d.log.Info().Str("level", parsed.String()).Msg("log level changed")
	return okf("Log level set to %s", level)
}

// writeAttr resolves a named driver attribute and writes one value.
func (d *Dispatcher) writeAttr(attr, value string) Result {
	path, ok := d.resolve(device.AttrPattern(attr))
	if !ok {
		return errorf("Sysfs attribute %s not found", attr)
	}
	if err := d.write(path, value); err != nil {
		return errorf("%v", err)
	}
	return okf("Set %s = %s", attr, value)
}
