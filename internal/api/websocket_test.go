package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kmdash/internal/codec"
	"kmdash/internal/hub"
	"kmdash/internal/inject"
	"kmdash/internal/telemetry"
)

type endpointRecorder struct {
	writes []string
}

func (r *endpointRecorder) resolve(pattern string) (string, bool) {
	return strings.ReplaceAll(pattern, "*", "0"), true
}

func (r *endpointRecorder) write(path, value string) error {
	r.writes = append(r.writes, value)
	return nil
}

type testRig struct {
	server   *Server
	hub      *hub.Hub
	tele     *telemetry.Context
	recorder *endpointRecorder
	ts       *httptest.Server
}

func newTestRig(t *testing.T) *testRig {
	t.Helper()
	rec := &endpointRecorder{}
	tele := telemetry.New(true, func() []string { return []string{"/dev/input/event9"} })
	broadcast := hub.New(zerolog.Nop())
	dispatcher := inject.NewWith(rec.resolve, rec.write, zerolog.Nop())
	s := NewServer(broadcast, dispatcher, tele, false, zerolog.Nop())

	ts := httptest.NewServer(http.HandlerFunc(s.handleWebSocket))
	t.Cleanup(ts.Close)
	return &testRig{server: s, hub: broadcast, tele: tele, recorder: rec, ts: ts}
}

func (r *testRig) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(r.ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readJSON(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg map[string]any
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func sendJSON(t *testing.T, conn *websocket.Conn, v string) {
	t.Helper()
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(v)))
}

func TestConnectSendsStatusSnapshot(t *testing.T) {
	rig := newTestRig(t)
	conn := rig.dial(t)

	msg := readJSON(t, conn)
	assert.Equal(t, "status", msg["type"])
	assert.Equal(t, []any{"/dev/input/event9"}, msg["devices"])
	assert.Equal(t, true, msg["simulate"])
	assert.Equal(t, float64(0), msg["event_count"])
}

func TestGetStatusRecomputes(t *testing.T) {
	rig := newTestRig(t)
	conn := rig.dial(t)
	readJSON(t, conn) // initial status

	rig.tele.NextSequence()
	sendJSON(t, conn, `{"action":"get_status"}`)

	msg := readJSON(t, conn)
	assert.Equal(t, "status", msg["type"])
	assert.Equal(t, float64(1), msg["event_count"])
}

func TestInjectCommandRoundTrip(t *testing.T) {
	rig := newTestRig(t)
	conn := rig.dial(t)
	readJSON(t, conn)

	sendJSON(t, conn, `{"action":"inject_mouse","buttons":0,"dx":5,"dy":-3}`)

	msg := readJSON(t, conn)
	assert.Equal(t, "inject_result", msg["type"])
	assert.Equal(t, "ok", msg["status"])
	assert.Equal(t, []string{"0x00 0x05 0xFD"}, rig.recorder.writes)
}

func TestMalformedMessageKeepsConnectionOpen(t *testing.T) {
	rig := newTestRig(t)
	conn := rig.dial(t)
	readJSON(t, conn)

	sendJSON(t, conn, `{this is not json`)
	msg := readJSON(t, conn)
	assert.Equal(t, "error", msg["type"])
	assert.Equal(t, "Invalid JSON", msg["message"])

	// The connection survives and still handles commands.
	sendJSON(t, conn, `{"action":"get_status"}`)
	msg = readJSON(t, conn)
	assert.Equal(t, "status", msg["type"])
}

func TestUnknownActionReported(t *testing.T) {
	rig := newTestRig(t)
	conn := rig.dial(t)
	readJSON(t, conn)

	sendJSON(t, conn, `{"action":"warp_drive"}`)
	msg := readJSON(t, conn)
	assert.Equal(t, "error", msg["type"])
	assert.Contains(t, msg["message"], "warp_drive")
}

func TestBroadcastReachesObserver(t *testing.T) {
	rig := newTestRig(t)
	conn := rig.dial(t)
	readJSON(t, conn)

	rig.hub.Publish(codec.Event{ID: 7, Type: "KEY", Key: "A", Action: "press"})

	msg := readJSON(t, conn)
	assert.Equal(t, "KEY", msg["type"])
	assert.Equal(t, float64(7), msg["id"])
	assert.Equal(t, "A", msg["key"])
}

func TestDisconnectUnregisters(t *testing.T) {
	rig := newTestRig(t)
	conn := rig.dial(t)
	readJSON(t, conn)

	require.Equal(t, 1, rig.hub.Count())
	conn.Close()

	require.Eventually(t, func() bool {
		return rig.hub.Count() == 0
	}, 2*time.Second, 10*time.Millisecond)
}
