package inject

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kmdash/internal/protocol"
)

func TestPresetHello(t *testing.T) {
	d, rec := newTestDispatcher()

	result := d.Dispatch(protocol.InjectPreset{Preset: "hello"})
	assert.True(t, result.OK())
	assert.Equal(t, "Injected 5 characters", result.Message)
	// Every character of HELLO is shifted: 4 writes each.
	assert.Len(t, rec.writes, 20)
	assert.Equal(t, "0x2A", rec.writes[0].value)
	assert.Equal(t, "0xAA", rec.writes[3].value)
}

func TestPresetCircle(t *testing.T) {
	d, rec := newTestDispatcher()

	result := d.Dispatch(protocol.InjectPreset{Preset: "circle"})
	assert.True(t, result.OK())
	assert.Equal(t, "Injected circle pattern (36 steps)", result.Message)
	// Steps 0..36 inclusive, one packet each.
	require.Len(t, rec.writes, 37)
	for _, w := range rec.writes {
		assert.Contains(t, w.path, "inject_packet")
	}
	// Step 0 carries no delta.
	assert.Equal(t, "0x00 0x00 0x00", rec.writes[0].value)
}

func TestPresetButtonBarrage(t *testing.T) {
	d, rec := newTestDispatcher()

	result := d.Dispatch(protocol.InjectPreset{Preset: "button_barrage"})
	assert.True(t, result.OK())
	assert.Equal(t, "Injected button barrage (9 clicks)", result.Message)
	// Nine presses, no paired releases, cycling L/R/M.
	require.Len(t, rec.writes, 9)
	assert.Equal(t, []string{
		"0x110", "0x111", "0x112",
		"0x110", "0x111", "0x112",
		"0x110", "0x111", "0x112",
	}, rec.values())
	for _, w := range rec.writes {
		assert.Contains(t, w.path, "inject_scancode")
	}
}

func TestPresetUnknownIssuesNoWrites(t *testing.T) {
	d, rec := newTestDispatcher()

	result := d.Dispatch(protocol.InjectPreset{Preset: "snake"})
	assert.False(t, result.OK())
	assert.True(t, strings.Contains(result.Message, "snake"))
	assert.Empty(t, rec.writes)
}
