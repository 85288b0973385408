package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"kmdash/internal/hub"
	"kmdash/internal/protocol"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Local network tool; the dashboard may be served from another origin.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 50 * time.Second
)

// client is one observer connection: its socket, its hub handle and the
// per-connection command loop.
type client struct {
	server   *Server
	conn     *websocket.Conn
	observer *hub.Observer
	log      zerolog.Logger
}

// handleWebSocket upgrades the connection, registers the observer and
// sends the initial status snapshot before entering the command loop.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	c := &client{
		server:   s,
		conn:     conn,
		observer: hub.NewObserver(256),
	}
	c.log = s.log.With().Str("observer", c.observer.ID).Str("remote", r.RemoteAddr).Logger()

	s.hub.Register(c.observer)
	c.log.Info().Msg("observer connected")

	c.reply(s.telemetry.Snapshot())

	go c.writePump()
	c.readPump()
}

// readPump reads commands until the connection dies, then unregisters
// the observer.
func (c *client) readPump() {
	defer func() {
		c.server.hub.Unregister(c.observer)
		c.conn.Close()
		c.log.Info().Msg("observer disconnected")
	}()

	c.conn.SetReadLimit(64 * 1024)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Warn().Err(err).Msg("read error")
			}
			return
		}
		c.handleMessage(message)
	}
}

// writePump drains the observer's outbox onto the socket and keeps the
// connection alive with pings. Exits when the observer is unregistered.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message := <-c.observer.Outbox():
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-c.observer.Done():
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage parses and executes one inbound command. Parse failures
// are reported back; the connection stays open.
func (c *client) handleMessage(data []byte) {
	cmd, err := protocol.Parse(data)
	if err != nil {
		var unknown *protocol.UnknownActionError
		if errors.As(err, &unknown) {
			c.reply(protocol.NewErrorReply(unknown.Error()))
			return
		}
		c.reply(protocol.NewErrorReply("Invalid JSON"))
		return
	}

	if _, ok := cmd.(protocol.GetStatus); ok {
		c.reply(c.server.telemetry.Snapshot())
		return
	}

	result := c.server.dispatcher.Dispatch(cmd)
	c.reply(protocol.InjectResult{
		Type:    protocol.TypeInjectResult,
		Status:  result.Status,
		Message: result.Message,
	})
}

// reply enqueues one message on the observer's own outbox, keeping
// replies ordered with broadcasts on this connection.
func (c *client) reply(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		c.log.Error().Err(err).Msg("failed to marshal reply")
		return
	}
	if err := c.observer.Deliver(data, hub.DefaultSendTimeout); err != nil {
		c.log.Warn().Err(err).Msg("failed to deliver reply")
		c.conn.Close()
	}
}
