package inject

import (
	"fmt"
	"math"

	"kmdash/internal/codec"
)

// circle preset geometry.
const (
	circleSteps  = 36
	circleRadius = 30
)

// injectPreset runs one of the fixed macros. Unknown names produce an
// error result with zero writes issued.
func (d *Dispatcher) injectPreset(name string) Result {
	switch name {
	case "hello":
		return d.injectTextString("HELLO")
	case "circle":
		return d.injectCircle()
	case "button_barrage":
		return d.injectButtonBarrage()
	default:
		return errorf("Unknown preset: %s", name)
	}
}

// injectCircle traces an approximate circle as successive relative
// deltas. Deltas pass through the mouse packet's unsigned-byte masking,
// same wraparound behavior as a raw inject_mouse.
func (d *Dispatcher) injectCircle() Result {
	for i := 0; i <= circleSteps; i++ {
		dx, dy := 0, 0
		if i > 0 {
			angle := 2 * math.Pi * float64(i) / circleSteps
			prev := 2 * math.Pi * float64(i-1) / circleSteps
			dx = int(circleRadius*math.Cos(angle) - circleRadius*math.Cos(prev))
			dy = int(circleRadius*math.Sin(angle) - circleRadius*math.Sin(prev))
		}
		d.injectMousePacket(0, dx, dy)
	}
	return okf("Injected circle pattern (%d steps)", circleSteps)
}

// injectButtonBarrage cycles left/right/middle presses three times.
// Presses only, no paired releases; the preset exists to stress a
// receiver's key-down handling.
func (d *Dispatcher) injectButtonBarrage() Result {
	buttons := []int{codec.BtnLeft, codec.BtnRight, codec.BtnMiddle}
	for cycle := 0; cycle < 3; cycle++ {
		for _, code := range buttons {
			d.injectScancode(fmt.Sprintf("0x%02X", code))
		}
	}
	return okf("Injected button barrage (9 clicks)")
}
