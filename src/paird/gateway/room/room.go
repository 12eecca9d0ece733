// Package room provides the transport channel used to exchange envelope
// frames with a collaboration room. A Channel is one bidirectional
// connection scoped to a single room endpoint; it carries opaque frames and
// knows nothing about the envelope contents. Reconnection is the caller's
// concern, a Channel never retries on its own.
package room

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	_maxDocumentConfigKey = "sync.maxDocumentBytes"

	_writeWait  = 10 * time.Second
	_pongWait   = 60 * time.Second
	_pingPeriod = (_pongWait * 9) / 10

	_sendBuffer = 256

	// Inbound frames carry a full document plus envelope framing.
	_envelopeOverheadBytes  = 4096
	_defaultMaxDocumentSize = 1024 * 1024
)

// Handlers are registered at dial time and receive everything the channel
// produces for its lifetime.
type Handlers struct {
	// OnMessage is invoked once per inbound frame, in arrival order. Frames
	// are never delivered concurrently.
	OnMessage func(frame []byte)
	// OnClosed is invoked at most once, when the connection terminates by
	// error or by the remote end. It does not fire after an explicit local
	// Close.
	OnClosed func(err error)
}

// Channel is one live connection to a room.
type Channel interface {
	// Send transmits a frame iff the connection is open. Otherwise the frame
	// is dropped and the sentinel errors.NotConnectedError is returned. A
	// frame over the configured document limit is refused with a
	// DocumentSizeLimitError before it can poison the connection. Send never
	// panics and never queues beyond the open connection's send buffer.
	Send(frame []byte) error
	// Close terminates the connection. The closed handler will not fire
	// after Close returns.
	Close() error
}

// Dialer establishes a fresh Channel per connection attempt.
type Dialer interface {
	Dial(ctx context.Context, endpoint string, h Handlers) (Channel, error)
}

// Params are the parameters needed to create the room dialer.
type Params struct {
	fx.In

	Config config.Provider
	Logger *zap.SugaredLogger
}

type dialer struct {
	logger    *zap.SugaredLogger
	readLimit int64
}

// New returns a Dialer for opening room channels.
func New(p Params) (Dialer, error) {
	var maxDocumentBytes int64
	if err := p.Config.Get(_maxDocumentConfigKey).Populate(&maxDocumentBytes); err != nil || maxDocumentBytes <= 0 {
		maxDocumentBytes = _defaultMaxDocumentSize
	}

	return &dialer{
		logger:    p.Logger.With("component", "room"),
		readLimit: maxDocumentBytes + _envelopeOverheadBytes,
	}, nil
}

// Dial opens a connection to the given room endpoint and starts its read and
// write pumps. The returned Channel is live until Close or a terminal error.
func (d *dialer) Dial(ctx context.Context, endpoint string, h Handlers) (Channel, error) {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		return nil, fmt.Errorf("dialing room endpoint %q: %w", endpoint, err)
	}
	conn.SetReadLimit(d.readLimit)

	c := newChannel(conn, h, d.logger, d.readLimit)
	go c.writePump()
	go c.readPump()
	return c, nil
}

// Endpoint builds the room channel URL for a server base and room id. An
// http or https base is rewritten to the matching WebSocket scheme, so the
// same room.server setting drives both the registry and the channel.
func Endpoint(server, roomID string) string {
	base := strings.TrimSuffix(server, "/")
	if strings.HasPrefix(base, "http") {
		base = "ws" + strings.TrimPrefix(base, "http")
	}
	return base + "/ws/" + roomID
}
