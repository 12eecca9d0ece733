// Package reconnect owns the connection state machine for a collaboration
// session. It schedules reconnect attempts with capped exponential backoff,
// keeps trying without an attempt limit, and treats one success as full
// forgiveness of prior failures.
//
// The supervisor does not dial anything itself. The session supplies a
// connect function; the supervisor decides when to run it. A completed dial
// is still only provisional: the session reports Confirm once the room's
// baseline arrives, and only then is the connection considered established.
package reconnect

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pairdev/paird/src/paird/entity"
	"github.com/pairdev/paird/src/paird/internal/clock"
	"github.com/uber-go/tally"
	"go.uber.org/zap"
)

const (
	_defaultInitialInterval = 1 * time.Second
	_defaultMaxInterval     = 30 * time.Second
	_defaultMultiplier      = 2.0
)

// Config holds the backoff schedule for reconnect attempts.
type Config struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
}

func (c Config) withDefaults() Config {
	if c.InitialInterval <= 0 {
		c.InitialInterval = _defaultInitialInterval
	}
	if c.MaxInterval <= 0 {
		c.MaxInterval = _defaultMaxInterval
	}
	if c.Multiplier <= 1 {
		c.Multiplier = _defaultMultiplier
	}
	return c
}

// Supervisor drives connection attempts for one session.
//
// The state handler is invoked inline on every transition and must not call
// back into the Supervisor.
type Supervisor struct {
	mu       sync.Mutex
	clock    clock.Clock
	logger   *zap.SugaredLogger
	stats    tally.Scope
	connect  func(ctx context.Context) error
	onState  func(state entity.ConnectionState)
	backoff  *backoff.ExponentialBackOff
	state    entity.ConnectionState
	attempts int
	timer    clock.Timer
	ctx      context.Context
	cancel   context.CancelFunc
	stopped  bool
}

// New returns a Supervisor in the disconnected state.
func New(cfg Config, c clock.Clock, logger *zap.SugaredLogger, stats tally.Scope, connect func(ctx context.Context) error, onState func(state entity.ConnectionState)) *Supervisor {
	cfg = cfg.withDefaults()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = cfg.InitialInterval
	b.MaxInterval = cfg.MaxInterval
	b.Multiplier = cfg.Multiplier
	// The doubling schedule is deterministic and never gives up on its own.
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	b.Reset()

	return &Supervisor{
		clock:   c,
		logger:  logger.With("component", "reconnect"),
		stats:   stats,
		connect: connect,
		onState: onState,
		backoff: b,
		state:   entity.StateDisconnected,
	}
}

// Start launches the first connection attempt. Later attempts are scheduled
// by the supervisor itself each time the session reports a lost connection.
func (s *Supervisor) Start(ctx context.Context) {
	s.mu.Lock()
	if s.stopped || s.ctx != nil {
		s.mu.Unlock()
		return
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.backoff.Reset()
	s.mu.Unlock()

	go s.runAttempt()
}

// Confirm marks the connection established. The session calls it when the
// room baseline arrives, not when the socket opens; a socket that drops
// before the baseline counts as a failed attempt. Confirm resets the backoff
// schedule and the attempt counter.
func (s *Supervisor) Confirm() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	s.backoff.Reset()
	s.attempts = 0
	s.setStateLocked(entity.StateConnected)
}

// ConnectionLost schedules the next reconnect attempt after the current
// backoff interval. Safe to call from the channel's closed handler.
func (s *Supervisor) ConnectionLost() {
	s.scheduleRetry()
}

// Stop tears the supervisor down. Armed timers are cleared; no attempt runs
// after Stop returns.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	s.stopped = true
	if s.timer != nil {
		s.timer.Stop()
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.setStateLocked(entity.StateDisconnected)
}

// State returns the current connection state.
func (s *Supervisor) State() entity.ConnectionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Attempts returns the count of consecutive failed attempts since the last
// confirmed connection.
func (s *Supervisor) Attempts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempts
}

func (s *Supervisor) runAttempt() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.setStateLocked(entity.StateConnecting)
	ctx := s.ctx
	s.mu.Unlock()

	if err := s.connect(ctx); err != nil {
		s.logger.Warnw("Connection attempt failed", "error", err)
		s.scheduleRetry()
	}
}

func (s *Supervisor) scheduleRetry() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	s.setStateLocked(entity.StateReconnecting)
	s.attempts++
	s.stats.Counter("reconnect_attempts").Inc(1)

	interval := s.backoff.NextBackOff()
	s.logger.Infow("Scheduling reconnect", "attempt", s.attempts, "interval", interval)
	s.timer = s.clock.AfterFunc(interval, s.runAttempt)
}

func (s *Supervisor) setStateLocked(state entity.ConnectionState) {
	if s.state == state {
		return
	}
	s.state = state
	s.logger.Infow("Connection state changed", "state", state.String())
	if s.onState != nil {
		s.onState(state)
	}
}
