// Package device locates the virtual input devices and sysfs injection
// attributes exposed by the driver stack.
package device

import (
	"os"
	"path/filepath"
	"strings"
)

const procInputDevices = "/proc/bus/input/devices"

// Sysfs pattern for driver attributes. The concrete input number is not
// stable across module reloads, so every lookup globs fresh.
const sysfsAttrPattern = "/sys/devices/virtual/input/input*/"

// Injection endpoint attribute names.
const (
	AttrScancode = "inject_scancode"
	AttrPacket   = "inject_packet"
	AttrTap      = "inject_tap"
)

// FindVirtual scans the input device registry for devices created by the
// virtual drivers and returns their /dev/input/eventN paths. An
// unreadable registry yields an empty list, not an error; discovery is
// best-effort by contract.
func FindVirtual() []string {
	data, err := os.ReadFile(procInputDevices)
	if err != nil {
		return nil
	}
	return parseDeviceBlocks(string(data))
}

func parseDeviceBlocks(content string) []string {
	var devices []string
	for _, block := range strings.Split(content, "\n\n") {
		if !strings.Contains(block, "Virtual") {
			continue
		}
		for _, line := range strings.Split(block, "\n") {
			if !strings.HasPrefix(line, "H: Handlers=") {
				continue
			}
			handlers := strings.TrimPrefix(line, "H: Handlers=")
			for _, h := range strings.Fields(handlers) {
				if strings.HasPrefix(h, "event") {
					devices = append(devices, "/dev/input/"+h)
				}
			}
		}
	}
	return devices
}

// AttrPattern returns the glob pattern for a named sysfs attribute.
func AttrPattern(attr string) string {
	return sysfsAttrPattern + attr
}

// ResolveAttr globs a sysfs attribute pattern and returns the first
// match, if any.
func ResolveAttr(pattern string) (string, bool) {
	matches, err := filepath.Glob(pattern)
	if err != nil || len(matches) == 0 {
		return "", false
	}
	return matches[0], true
}
