// Package suggest runs the suggestion request pipeline. Editing activity is
// debounced, requests are rate limited and cancel their predecessors, and
// only results worth showing reach the listener. Nothing in this package ever
// blocks editing: every failure path is a log line and a counter.
package suggest

import (
	"context"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/pairdev/paird/src/paird/entity"
	"github.com/pairdev/paird/src/paird/gateway/autocomplete"
	"github.com/pairdev/paird/src/paird/internal/clock"
	"github.com/pairdev/paird/src/paird/internal/ratelimit"
	"github.com/pairdev/paird/src/paird/internal/textspan"
	"github.com/uber-go/tally"
	"go.lsp.dev/protocol"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	_configKey = "suggestions"
	_nameKey   = "suggest"

	_defaultDebounce      = 500 * time.Millisecond
	_defaultMinInterval   = 2 * time.Second
	_defaultMinConfidence = 0.5
)

// Config tunes the pipeline. Intervals are given in milliseconds.
type Config struct {
	Enabled       bool    `yaml:"enabled"`
	DebounceMs    int     `yaml:"debounceMs"`
	MinIntervalMs int     `yaml:"minIntervalMs"`
	MinConfidence float64 `yaml:"minConfidence"`
}

func (c Config) debounce() time.Duration {
	if c.DebounceMs <= 0 {
		return _defaultDebounce
	}
	return time.Duration(c.DebounceMs) * time.Millisecond
}

func (c Config) minInterval() time.Duration {
	if c.MinIntervalMs <= 0 {
		return _defaultMinInterval
	}
	return time.Duration(c.MinIntervalMs) * time.Millisecond
}

func (c Config) minConfidence() float64 {
	if c.MinConfidence <= 0 {
		return _defaultMinConfidence
	}
	return c.MinConfidence
}

// Controller runs the suggestion pipeline for one session.
type Controller interface {
	// CodeChanged reports editing activity: the buffer snapshot, the caret,
	// and the session language. Each call re-arms the debounce window; a
	// request fires only after a quiet period.
	CodeChanged(code string, cursor protocol.Position, language string)

	// OnSuggestions registers the handler for surfaced results. Registering
	// a handler replaces any previous one.
	OnSuggestions(handler func(s entity.Suggestions))

	// OnUnavailable registers the handler for the transient signal emitted
	// when a request fails. Cancelled requests emit nothing.
	OnUnavailable(handler func(err error))

	// Stop clears the armed timer and cancels any in-flight request. The
	// controller ignores activity reported after Stop.
	Stop()
}

// Params are the parameters needed to create the suggestion controller.
type Params struct {
	fx.In

	Config    config.Provider
	Logger    *zap.SugaredLogger
	Stats     tally.Scope
	Clock     clock.Clock
	Backend   autocomplete.Gateway
	Lifecycle fx.Lifecycle
}

type snapshot struct {
	code     string
	cursor   protocol.Position
	language string
}

type controller struct {
	cfg     Config
	logger  *zap.SugaredLogger
	stats   tally.Scope
	clock   clock.Clock
	backend autocomplete.Gateway
	limiter *ratelimit.Limiter

	mu        sync.Mutex
	onResult  func(s entity.Suggestions)
	onFailure func(err error)
	timer     clock.Timer
	gen       uint64
	pending   *snapshot
	inflight  context.CancelFunc
	ctx       context.Context
	cancel    context.CancelFunc
	stopped   bool
	wg        sync.WaitGroup
}

// New returns a Controller wired to the suggestion backend.
func New(p Params) (Controller, error) {
	cfg := Config{}
	if err := p.Config.Get(_configKey).Populate(&cfg); err != nil {
		return nil, fmt.Errorf("getting configuration for %q: %w", _configKey, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &controller{
		cfg:     cfg,
		logger:  p.Logger.With("component", _nameKey),
		stats:   p.Stats,
		clock:   p.Clock,
		backend: p.Backend,
		limiter: ratelimit.NewLimiter(p.Clock, float64(time.Second)/float64(cfg.minInterval()), 1),
		ctx:     ctx,
		cancel:  cancel,
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			c.Stop()
			return nil
		},
	})
	return c, nil
}

func (c *controller) CodeChanged(code string, cursor protocol.Position, language string) {
	if !c.cfg.Enabled {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}

	c.pending = &snapshot{code: code, cursor: cursor, language: language}
	c.armLocked(c.cfg.debounce())
}

func (c *controller) OnSuggestions(handler func(s entity.Suggestions)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onResult = handler
}

func (c *controller) OnUnavailable(handler func(err error)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onFailure = handler
}

func (c *controller) Stop() {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	c.stopped = true
	c.pending = nil
	if c.timer != nil {
		c.timer.Stop()
	}
	c.cancel()
	c.mu.Unlock()

	c.wg.Wait()
}

// armLocked replaces the pending timer. The generation counter keeps a timer
// that fired concurrently with its replacement from issuing a stale request.
func (c *controller) armLocked(d time.Duration) {
	c.gen++
	gen := c.gen
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = c.clock.AfterFunc(d, func() { c.fire(gen) })
}

func (c *controller) fire(gen uint64) {
	c.mu.Lock()
	if c.stopped || gen != c.gen || c.pending == nil {
		c.mu.Unlock()
		return
	}

	if ok, wait := c.limiter.Reserve(); !ok {
		// Inside the forbidden window. Defer to its end rather than drop;
		// the latest snapshot still wins if more edits arrive meanwhile.
		c.logger.Debugw("Deferring suggestion request", "wait", wait)
		c.armLocked(wait)
		c.mu.Unlock()
		return
	}

	snap := *c.pending
	c.pending = nil
	if c.inflight != nil {
		c.inflight()
	}
	reqCtx, cancel := context.WithCancel(c.ctx)
	c.inflight = cancel
	c.stats.Counter("suggestion_requests").Inc(1)
	c.wg.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.wg.Done()
		defer cancel()
		c.request(reqCtx, snap)
	}()
}

func (c *controller) request(ctx context.Context, snap snapshot) {
	m := textspan.NewMapper(snap.code)
	offset, err := m.RuneOffset(m.Clamp(snap.cursor))
	if err != nil {
		offset = utf8.RuneCountInString(snap.code)
	}

	result, err := c.backend.Fetch(ctx, snap.code, offset, snap.language)
	switch {
	case ctx.Err() != nil:
		// Superseded or stopped; a late response is discarded.
		c.stats.Counter("suggestions_discarded").Inc(1)
	case err != nil:
		c.logger.Warnw("Suggestion request failed", "error", err)
		c.stats.Counter("suggestion_requests_failed").Inc(1)
		c.notifyUnavailable(err)
	case !result.Usable(c.cfg.minConfidence()):
		c.logger.Debugw("Discarding suggestions below the bar",
			"count", len(result.Items), "confidence", result.Confidence)
		c.stats.Counter("suggestions_discarded").Inc(1)
	default:
		c.stats.Counter("suggestions_surfaced").Inc(1)
		c.notifySuggestions(*result)
	}
}

func (c *controller) notifySuggestions(s entity.Suggestions) {
	c.mu.Lock()
	handler := c.onResult
	c.mu.Unlock()
	if handler != nil {
		handler(s)
	}
}

func (c *controller) notifyUnavailable(err error) {
	c.mu.Lock()
	handler := c.onFailure
	c.mu.Unlock()
	if handler != nil {
		handler(err)
	}
}
