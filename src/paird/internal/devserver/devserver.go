// Package devserver is a self-contained room server for offline development
// and integration tests. It mirrors the hosted service's observable
// behavior: the registry REST surface, the envelope relay with
// server-assigned identities and timestamps, and a mock suggestion
// endpoint. It is a supporting component; the session code never imports it.
package devserver

import (
	"context"
	stderr "errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pairdev/paird/src/paird/internal/clock"
	"github.com/pairdev/paird/src/paird/internal/ratelimit"
	"github.com/pairdev/paird/src/paird/mapper"
	"github.com/uber-go/tally"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	_configKey            = "devserver"
	_maxDocumentConfigKey = "sync.maxDocumentBytes"
	_nameKey              = "devserver"

	_defaultListenAddress = "127.0.0.1:8000"

	_writeWait  = 10 * time.Second
	_pongWait   = 60 * time.Second
	_sendBuffer = 256

	// Inbound frames carry a full document plus envelope framing.
	_envelopeOverheadBytes  = 4096
	_defaultMaxDocumentSize = 1024 * 1024

	// Per-client inbound message rate limit.
	_relayRatePerSecond = 50
	_relayBurst         = 100
)

// Module provides the server into an Fx application. The invoke forces
// construction so the listener is up before the session controllers dial it.
var Module = fx.Options(
	fx.Provide(New),
	fx.Invoke(func(s *Server) {}),
)

// Config holds the embedded server's configuration block.
type Config struct {
	Enabled       bool   `yaml:"enabled"`
	ListenAddress string `yaml:"listenAddress"`
}

// Params are the parameters needed to create the development room server.
type Params struct {
	fx.In

	Config    config.Provider
	Logger    *zap.SugaredLogger
	Stats     tally.Scope
	Clock     clock.Clock
	Lifecycle fx.Lifecycle
}

// Server hosts the registry REST surface, the room relay, and the mock
// suggestion endpoint on one listener.
type Server struct {
	cfg       Config
	logger    *zap.SugaredLogger
	stats     tally.Scope
	clock     clock.Clock
	store     *roomStore
	hub       *hub
	limiters  *ratelimit.ClientLimiters
	upgrader  websocket.Upgrader
	readLimit int64

	mu       sync.Mutex
	listener net.Listener
	httpSrv  *http.Server
	wg       sync.WaitGroup
}

// New builds the server. When devserver.enabled is set, lifecycle hooks
// bring the listener up on devserver.listenAddress and tear it down on
// shutdown.
func New(p Params) (*Server, error) {
	cfg := Config{ListenAddress: _defaultListenAddress}
	if err := p.Config.Get(_configKey).Populate(&cfg); err != nil {
		return nil, fmt.Errorf("getting configuration for %q: %w", _configKey, err)
	}
	maxDocumentBytes := int64(_defaultMaxDocumentSize)
	if err := p.Config.Get(_maxDocumentConfigKey).Populate(&maxDocumentBytes); err != nil {
		return nil, fmt.Errorf("getting configuration for %q: %w", _maxDocumentConfigKey, err)
	}

	logger := p.Logger.With("component", _nameKey)
	s := &Server{
		cfg:      cfg,
		logger:   logger,
		stats:    p.Stats,
		clock:    p.Clock,
		store:    newRoomStore(p.Clock),
		hub:      newHub(logger),
		limiters: ratelimit.NewClientLimiters(p.Clock, _relayRatePerSecond, _relayBurst),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// A local development tool has no origin policy to enforce.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		readLimit: maxDocumentBytes + _envelopeOverheadBytes,
	}

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if !cfg.Enabled {
				return nil
			}
			return s.Start()
		},
		OnStop: func(ctx context.Context) error {
			if !cfg.Enabled {
				return nil
			}
			return s.Stop(ctx)
		},
	})

	return s, nil
}

// Start binds the listener and begins serving. Idempotent while running.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return nil
	}

	ln, err := net.Listen("tcp", s.cfg.ListenAddress)
	if err != nil {
		return fmt.Errorf("listening on %q: %w", s.cfg.ListenAddress, err)
	}
	s.listener = ln
	s.httpSrv = &http.Server{Handler: s.routes()}

	srv := s.httpSrv
	go func() {
		if err := srv.Serve(ln); err != nil && !stderr.Is(err, http.ErrServerClosed) {
			s.logger.Errorw("Development room server stopped", "error", err)
		}
	}()

	s.logger.Infow("Development room server listening", "address", ln.Addr().String())
	return nil
}

// Stop shuts the listener down and disconnects every room client, waiting
// for their pumps to wind down.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpSrv
	s.httpSrv = nil
	s.listener = nil
	s.mu.Unlock()
	if srv == nil {
		return nil
	}

	err := srv.Shutdown(ctx)
	s.hub.closeAll()
	s.wg.Wait()
	return err
}

// BaseURL returns the http base of the running server, or empty when the
// listener is down. Tests listen on an ephemeral port and read it from here.
func (s *Server) BaseURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return "http://" + s.listener.Addr().String()
}

// dropClient fully detaches one client: pumps stopped, room membership and
// rate limiter released, departure broadcast to the remaining members.
func (s *Server) dropClient(c *client) {
	c.shutdown()
	count, removed := s.hub.unregister(c)
	s.limiters.Remove(c.userID)
	if !removed {
		return
	}

	s.logger.Infow("Room client disconnected", "roomId", c.roomID, "userId", c.userID, "userCount", count)
	frame, err := mapper.EncodeUserLeftAt(c.roomID, c.userID, count, s.clock.Now())
	if err != nil {
		return
	}
	s.hub.relay(c.roomID, nil, frame)
}
