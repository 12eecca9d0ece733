package room

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pairdev/paird/src/paird/internal/errors"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

type channel struct {
	conn       *websocket.Conn
	send       chan []byte
	handlers   Handlers
	logger     *zap.SugaredLogger
	frameLimit int64

	closed        atomic.Bool
	closedLocally atomic.Bool
	closeOnce     sync.Once
	done          chan struct{}
}

func newChannel(conn *websocket.Conn, h Handlers, logger *zap.SugaredLogger, frameLimit int64) *channel {
	return &channel{
		conn:       conn,
		send:       make(chan []byte, _sendBuffer),
		handlers:   h,
		logger:     logger,
		frameLimit: frameLimit,
		done:       make(chan struct{}),
	}
}

func (c *channel) Send(frame []byte) error {
	if c.closed.Load() {
		return errors.NotConnectedError
	}
	// The server enforces the same limit on reads; an oversized frame would
	// get the whole connection torn down remotely.
	if int64(len(frame)) > c.frameLimit {
		return &errors.DocumentSizeLimitError{Size: int64(len(frame))}
	}
	select {
	case c.send <- frame:
		return nil
	default:
		// A full send buffer means the connection has stalled; the write
		// pump's deadline will tear it down shortly.
		return errors.NotConnectedError
	}
}

func (c *channel) Close() error {
	c.closedLocally.Store(true)
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(_writeWait))
	c.teardown(nil)
	return nil
}

// teardown makes the channel unusable and dispatches the closed handler
// unless the termination was an explicit local Close. Safe to call from any
// goroutine; only the first call has effect.
func (c *channel) teardown(err error) {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		close(c.done)
		c.conn.Close()
		if !c.closedLocally.Load() && c.handlers.OnClosed != nil {
			c.handlers.OnClosed(err)
		}
	})
}

func (c *channel) readPump() {
	defer c.conn.Close()

	c.conn.SetReadDeadline(time.Now().Add(_pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(_pongWait))
		return nil
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Debugf("Room channel read ended: %v", err)
			}
			c.teardown(err)
			return
		}
		if c.handlers.OnMessage != nil {
			c.handlers.OnMessage(frame)
		}
	}
}

func (c *channel) writePump() {
	ticker := time.NewTicker(_pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(_writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				c.teardown(err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(_writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.teardown(err)
				return
			}

		case <-c.done:
			return
		}
	}
}
