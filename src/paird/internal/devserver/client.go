package devserver

import (
	stderr "errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pairdev/paird/src/paird/entity"
	"github.com/pairdev/paird/src/paird/internal/errors"
	"github.com/pairdev/paird/src/paird/internal/ratelimit"
	"github.com/pairdev/paird/src/paird/mapper"
)

// client is one WebSocket member of a room. The server assigns its wire
// identity at connect time and injects it into relayed cursor reports, so
// peers always see a consistent id regardless of what the client sent.
type client struct {
	srv      *Server
	conn     *websocket.Conn
	limiter  *ratelimit.Limiter
	roomID   string
	userID   string
	userName string

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func newClient(srv *Server, conn *websocket.Conn, roomID, userID string) *client {
	return &client{
		srv:      srv,
		conn:     conn,
		limiter:  srv.limiters.Get(userID),
		roomID:   roomID,
		userID:   userID,
		userName: entity.DefaultUserName(userID),
		send:     make(chan []byte, _sendBuffer),
		done:     make(chan struct{}),
	}
}

// enqueue offers a frame to the write pump without blocking. False means the
// client is gone or stalled; the caller decides what that implies.
func (c *client) enqueue(frame []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

func (c *client) shutdown() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

func (c *client) readPump() {
	defer c.srv.wg.Done()
	defer c.srv.dropClient(c)

	c.conn.SetReadLimit(c.srv.readLimit)
	c.conn.SetReadDeadline(time.Now().Add(_pongWait))
	c.conn.SetPingHandler(func(appData string) error {
		c.conn.SetReadDeadline(time.Now().Add(_pongWait))
		return c.conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(_writeWait))
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(_pongWait))
		c.handleFrame(frame)
	}
}

func (c *client) writePump() {
	defer c.srv.wg.Done()

	for {
		select {
		case frame := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(_writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				c.shutdown()
				return
			}

		case <-c.done:
			c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(_writeWait))
			return
		}
	}
}

// handleFrame processes one inbound frame: decode, dispatch, relay. An
// unusable frame earns the sender an error envelope and nothing else; the
// connection stays up.
func (c *client) handleFrame(frame []byte) {
	if !c.limiter.Allow() {
		c.srv.stats.Counter("relay_rate_limited").Inc(1)
		c.srv.logger.Debugw("Dropping frame over the per-client rate", "roomId", c.roomID, "userId", c.userID)
		return
	}

	env, err := mapper.DecodeEnvelope(frame)
	if err != nil {
		c.srv.stats.Counter("relay_invalid_frames").Inc(1)
		var unknown *errors.UnknownEnvelopeTypeError
		if stderr.As(err, &unknown) {
			c.sendError("unknown message type: " + unknown.Type)
		} else {
			c.sendError("invalid message format")
		}
		return
	}

	switch env.Type {
	case mapper.TypeCodeUpdate:
		c.handleCodeUpdate(env)
	case mapper.TypeCursorUpdate:
		c.handleCursorUpdate(env)
	default:
		// init, presence and error envelopes originate server-side only.
		c.srv.stats.Counter("relay_invalid_frames").Inc(1)
		c.sendError("unsupported message type: " + env.Type)
	}
}

func (c *client) handleCodeUpdate(env *mapper.Envelope) {
	code, err := mapper.CodeUpdateFromEnvelope(env)
	if err != nil {
		c.srv.stats.Counter("relay_invalid_frames").Inc(1)
		c.sendError("invalid code_update payload")
		return
	}

	if !c.srv.store.updateCode(c.roomID, code) {
		c.sendError("failed to save code")
		return
	}

	frame, err := mapper.EncodeCodeUpdateAt(code, c.srv.clock.Now())
	if err != nil {
		c.srv.logger.Errorw("Encoding code update relay failed", "error", err)
		return
	}
	c.srv.stats.Counter("relay_frames").Inc(1)
	c.srv.hub.relay(c.roomID, c, frame)
}

func (c *client) handleCursorUpdate(env *mapper.Envelope) {
	ev, err := mapper.CursorFromEnvelope(env)
	if err != nil {
		c.srv.stats.Counter("relay_invalid_frames").Inc(1)
		c.sendError("invalid cursor_update payload")
		return
	}

	ev.UserID = c.userID
	ev.UserName = c.userName

	frame, err := mapper.EncodeCursorUpdateAt(ev, c.srv.clock.Now())
	if err != nil {
		c.srv.logger.Errorw("Encoding cursor update relay failed", "error", err)
		return
	}
	c.srv.stats.Counter("relay_frames").Inc(1)
	c.srv.hub.relay(c.roomID, c, frame)
}

func (c *client) sendError(message string) {
	frame, err := mapper.EncodeErrorAt(message, c.srv.clock.Now())
	if err != nil {
		return
	}
	c.enqueue(frame)
}
