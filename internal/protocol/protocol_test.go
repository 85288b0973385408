package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInjectKey(t *testing.T) {
	cmd, err := Parse([]byte(`{"action":"inject_key","scancode":"0x1E"}`))
	require.NoError(t, err)
	assert.Equal(t, InjectKey{Scancode: "0x1E"}, cmd)

	// Missing scancode falls back to the null scancode.
	cmd, err = Parse([]byte(`{"action":"inject_key"}`))
	require.NoError(t, err)
	assert.Equal(t, InjectKey{Scancode: "0x00"}, cmd)
}

func TestParseInjectMouse(t *testing.T) {
	cmd, err := Parse([]byte(`{"action":"inject_mouse","buttons":1,"dx":-5,"dy":12}`))
	require.NoError(t, err)
	assert.Equal(t, InjectMouse{Buttons: 1, DX: -5, DY: 12}, cmd)
}

func TestParseInjectPath(t *testing.T) {
	cmd, err := Parse([]byte(`{"action":"inject_path","waypoints":[{"x":0,"y":0},{"x":10,"y":20}]}`))
	require.NoError(t, err)
	path, ok := cmd.(InjectPath)
	require.True(t, ok)
	assert.Equal(t, []Waypoint{{X: 0, Y: 0}, {X: 10, Y: 20}}, path.Waypoints)
}

func TestParseSetRepeatOptionalFields(t *testing.T) {
	cmd, err := Parse([]byte(`{"action":"set_repeat","delay":500}`))
	require.NoError(t, err)
	repeat, ok := cmd.(SetRepeat)
	require.True(t, ok)
	require.NotNil(t, repeat.Delay)
	assert.Equal(t, 500, *repeat.Delay)
	assert.Nil(t, repeat.Rate)

	cmd, err = Parse([]byte(`{"action":"set_repeat"}`))
	require.NoError(t, err)
	repeat = cmd.(SetRepeat)
	assert.Nil(t, repeat.Delay)
	assert.Nil(t, repeat.Rate)
}

func TestParseSetDPIDefault(t *testing.T) {
	cmd, err := Parse([]byte(`{"action":"set_dpi"}`))
	require.NoError(t, err)
	assert.Equal(t, SetDPI{DPI: 1}, cmd)

	cmd, err = Parse([]byte(`{"action":"set_dpi","dpi":4}`))
	require.NoError(t, err)
	assert.Equal(t, SetDPI{DPI: 4}, cmd)
}

func TestParseSetLogLevelDefault(t *testing.T) {
	cmd, err := Parse([]byte(`{"action":"set_log_level"}`))
	require.NoError(t, err)
	assert.Equal(t, SetLogLevel{Level: "INFO"}, cmd)
}

func TestParseGetStatus(t *testing.T) {
	cmd, err := Parse([]byte(`{"action":"get_status"}`))
	require.NoError(t, err)
	assert.Equal(t, GetStatus{}, cmd)
}

func TestParseMalformed(t *testing.T) {
	_, err := Parse([]byte(`{not json`))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestParseUnknownAction(t *testing.T) {
	_, err := Parse([]byte(`{"action":"self_destruct"}`))
	var unknown *UnknownActionError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "self_destruct", unknown.Action)
	assert.Equal(t, "unknown action: self_destruct", unknown.Error())
}

func TestActionRoundTrip(t *testing.T) {
	// Every command reports the action tag it was parsed from.
	for _, action := range []string{
		"inject_key", "inject_mouse", "inject_text", "inject_preset",
		"inject_path", "set_repeat", "set_dpi", "set_led", "set_log_level", "get_status",
	} {
		cmd, err := Parse([]byte(`{"action":"` + action + `"}`))
		require.NoError(t, err, action)
		assert.Equal(t, action, cmd.Action())
	}
}
