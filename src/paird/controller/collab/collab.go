// Package collab runs the collaboration session: it owns the room channel,
// keeps the local buffer converged on the server's copy, tracks the remote
// roster and its decorations, and forwards local activity to the room and to
// the suggestion pipeline. The session survives connection loss through the
// reconnection supervisor; the server's init envelope re-baselines the
// buffer after every gap.
package collab

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pairdev/paird/src/paird/controller/suggest"
	"github.com/pairdev/paird/src/paird/entity"
	"github.com/pairdev/paird/src/paird/factory"
	"github.com/pairdev/paird/src/paird/gateway/editor"
	"github.com/pairdev/paird/src/paird/gateway/registry"
	"github.com/pairdev/paird/src/paird/gateway/room"
	"github.com/pairdev/paird/src/paird/internal/clock"
	"github.com/pairdev/paird/src/paird/internal/errors"
	"github.com/pairdev/paird/src/paird/internal/reconnect"
	"github.com/pairdev/paird/src/paird/internal/textspan"
	"github.com/pairdev/paird/src/paird/mapper"
	"github.com/pairdev/paird/src/paird/repository/roster"
	"github.com/uber-go/tally"
	"go.lsp.dev/protocol"
	"go.uber.org/atomic"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	_roomConfigKey           = "room"
	_userConfigKey           = "user"
	_cursorThrottleConfigKey = "sync.cursorThrottleMs"
	_reconnectConfigKey      = "reconnect"
	_nameKey                 = "collab"

	_defaultCursorThrottle = 100 * time.Millisecond
)

type roomConfig struct {
	Server   string `yaml:"server"`
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Language string `yaml:"language"`
}

type userConfig struct {
	Name string `yaml:"name"`
}

type reconnectConfig struct {
	InitialIntervalMs int     `yaml:"initialIntervalMs"`
	MaxIntervalMs     int     `yaml:"maxIntervalMs"`
	Multiplier        float64 `yaml:"multiplier"`
}

func (c reconnectConfig) supervisorConfig() reconnect.Config {
	return reconnect.Config{
		InitialInterval: time.Duration(c.InitialIntervalMs) * time.Millisecond,
		MaxInterval:     time.Duration(c.MaxIntervalMs) * time.Millisecond,
		Multiplier:      c.Multiplier,
	}
}

// Controller is the daemon's collaboration session.
type Controller interface {
	// Start resolves the room, registers the editor handlers and begins
	// supervising the connection. The context bounds only the startup work.
	Start(ctx context.Context) error
	// Stop tears the session down: timers cleared, channel closed, roster
	// decorations left in place for the host to clean up on exit.
	Stop() error
	// Session returns a snapshot of the session's visible state.
	Session() entity.Session
	// OnStateChanged registers the handler notified on every connection
	// state or participant count change. Registering replaces any previous
	// handler.
	OnStateChanged(handler func(s entity.Session))
}

// Params are the parameters needed to create the collaboration controller.
type Params struct {
	fx.In

	Config    config.Provider
	Logger    *zap.SugaredLogger
	Stats     tally.Scope
	Clock     clock.Clock
	Lifecycle fx.Lifecycle
	Editor    editor.Gateway
	Registry  registry.Gateway
	Dialer    room.Dialer
	Roster    roster.Repository
	Suggest   suggest.Controller
}

type cursorReport struct {
	pos protocol.Position
	sel *protocol.Range
}

type controller struct {
	logger   *zap.SugaredLogger
	stats    tally.Scope
	clock    clock.Clock
	editor   editor.Gateway
	registry registry.Gateway
	dialer   room.Dialer
	roster   roster.Repository
	suggest  suggest.Controller

	roomCfg  roomConfig
	throttle time.Duration

	supervisor *reconnect.Supervisor
	applying   atomic.Bool

	mu            sync.Mutex
	sess          entity.Session
	channel       room.Channel
	chanGen       uint64
	onState       func(s entity.Session)
	cursorTimer   clock.Timer
	pendingCursor *cursorReport
	stopped       bool

	ctx    context.Context
	cancel context.CancelFunc
}

// New returns a Controller for the configured room, wired into the fx
// lifecycle.
func New(p Params) (Controller, error) {
	roomCfg := roomConfig{}
	if err := p.Config.Get(_roomConfigKey).Populate(&roomCfg); err != nil {
		return nil, fmt.Errorf("getting configuration for %q: %w", _roomConfigKey, err)
	}
	userCfg := userConfig{}
	if err := p.Config.Get(_userConfigKey).Populate(&userCfg); err != nil {
		return nil, fmt.Errorf("getting configuration for %q: %w", _userConfigKey, err)
	}
	var cursorThrottleMs int
	if err := p.Config.Get(_cursorThrottleConfigKey).Populate(&cursorThrottleMs); err != nil || cursorThrottleMs <= 0 {
		cursorThrottleMs = int(_defaultCursorThrottle / time.Millisecond)
	}
	rcCfg := reconnectConfig{}
	if err := p.Config.Get(_reconnectConfigKey).Populate(&rcCfg); err != nil {
		return nil, fmt.Errorf("getting configuration for %q: %w", _reconnectConfigKey, err)
	}

	userID := factory.UserID()
	userName := userCfg.Name
	if userName == "" {
		userName = entity.DefaultUserName(userID)
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &controller{
		logger:   p.Logger.With("component", _nameKey),
		stats:    p.Stats,
		clock:    p.Clock,
		editor:   p.Editor,
		registry: p.Registry,
		dialer:   p.Dialer,
		roster:   p.Roster,
		suggest:  p.Suggest,
		roomCfg:  roomCfg,
		throttle: time.Duration(cursorThrottleMs) * time.Millisecond,
		sess: entity.Session{
			UUID:     factory.UUID(),
			RoomID:   roomCfg.ID,
			UserID:   userID,
			UserName: userName,
			Language: roomCfg.Language,
			State:    entity.StateDisconnected,
		},
		ctx:    ctx,
		cancel: cancel,
	}
	c.supervisor = reconnect.New(
		rcCfg.supervisorConfig(), p.Clock, p.Logger, p.Stats,
		c.connect, c.supervisorStateChanged,
	)

	p.Lifecycle.Append(fx.Hook{
		OnStart: c.Start,
		OnStop: func(ctx context.Context) error {
			return c.Stop()
		},
	})
	return c, nil
}

func (c *controller) Start(ctx context.Context) error {
	if err := c.resolveRoom(ctx); err != nil {
		return err
	}

	c.editor.OnTextChanged(c.textChanged)
	c.editor.OnCursorChanged(c.cursorMoved)

	// The supervisor outlives the startup context.
	c.supervisor.Start(c.ctx)
	return nil
}

func (c *controller) Stop() error {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return nil
	}
	c.stopped = true
	c.pendingCursor = nil
	if c.cursorTimer != nil {
		c.cursorTimer.Stop()
		c.cursorTimer = nil
	}
	ch := c.channel
	c.channel = nil
	c.mu.Unlock()

	c.supervisor.Stop()
	c.cancel()

	var errs error
	if ch != nil {
		errs = multierr.Append(errs, ch.Close())
	}
	return errs
}

func (c *controller) Session() entity.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess
}

func (c *controller) OnStateChanged(handler func(s entity.Session)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onState = handler
}

// resolveRoom ensures the session has a room to join: the configured one,
// verified against the registry, or a freshly created one when none is
// configured.
func (c *controller) resolveRoom(ctx context.Context) error {
	c.mu.Lock()
	roomID := c.sess.RoomID
	c.mu.Unlock()

	if roomID == "" {
		r, err := c.registry.Create(ctx, c.roomCfg.Name, c.roomCfg.Language)
		if err != nil {
			return fmt.Errorf("creating room: %w", err)
		}
		c.logger.Infow("Created room", "roomId", r.ID, "language", r.Language)
		c.mu.Lock()
		c.sess.RoomID = r.ID
		c.sess.Language = r.Language
		c.mu.Unlock()
		return nil
	}

	r, err := c.registry.Get(ctx, roomID)
	if err != nil {
		if _, notFound := errors.NotFoundRoom(err); notFound {
			return fmt.Errorf("joining room %q: %w", roomID, err)
		}
		// The registry being unreachable is not fatal; the channel dial
		// retries on its own schedule.
		c.logger.Warnw("Could not verify room against the registry", "roomId", roomID, "error", err)
		return nil
	}
	c.mu.Lock()
	c.sess.Language = r.Language
	c.mu.Unlock()
	return nil
}

// connect is the supervisor's attempt function: close whatever channel is
// left from the previous attempt, dial a fresh one. Reaching the room is not
// yet being connected; the init envelope confirms the baseline.
func (c *controller) connect(ctx context.Context) error {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return errors.SessionStoppedError
	}
	endpoint := room.Endpoint(c.roomCfg.Server, c.sess.RoomID)
	old := c.channel
	c.channel = nil
	c.chanGen++
	gen := c.chanGen
	c.mu.Unlock()

	if old != nil {
		_ = old.Close()
	}

	ch, err := c.dialer.Dial(ctx, endpoint, room.Handlers{
		OnMessage: c.handleFrame,
		OnClosed:  func(err error) { c.channelClosed(gen, err) },
	})
	if err != nil {
		return err
	}

	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		_ = ch.Close()
		return errors.SessionStoppedError
	}
	c.channel = ch
	c.mu.Unlock()
	return nil
}

// channelClosed reacts to the loss of the current channel. The generation
// guard ignores close reports from channels already replaced by a newer dial.
func (c *controller) channelClosed(gen uint64, err error) {
	c.mu.Lock()
	if c.stopped || gen != c.chanGen {
		c.mu.Unlock()
		return
	}
	c.channel = nil
	c.mu.Unlock()

	if err != nil {
		c.logger.Warnw("Room channel lost", "error", err)
	} else {
		c.logger.Infow("Room channel closed by server")
	}
	c.supervisor.ConnectionLost()
}

func (c *controller) supervisorStateChanged(state entity.ConnectionState) {
	c.mu.Lock()
	c.sess.State = state
	snap := c.sess
	c.mu.Unlock()
	c.notifyState(snap)
}

func (c *controller) notifyState(snap entity.Session) {
	c.mu.Lock()
	handler := c.onState
	c.mu.Unlock()
	if handler != nil {
		handler(snap)
	}
}

// textChanged handles a genuine local edit: forward the full text to the
// room, then feed the suggestion pipeline. Mutations applied from remote
// envelopes are suppressed by the applying flag and never come back through
// here as outbound traffic.
func (c *controller) textChanged(text string) {
	if c.applying.Load() {
		return
	}

	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	ch := c.channel
	language := c.sess.Language
	c.mu.Unlock()

	frame, err := mapper.EncodeCodeUpdate(text)
	if err != nil {
		c.logger.Errorw("Encoding code update failed", "error", err)
	} else {
		c.send(ch, frame)
	}

	c.suggest.CodeChanged(text, c.editor.GetCursor(), language)
}

// cursorMoved throttles cursor reports to one send per window; the latest
// position within a window supersedes the earlier ones.
func (c *controller) cursorMoved(pos protocol.Position, selection *protocol.Range) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}
	c.pendingCursor = &cursorReport{pos: pos, sel: selection}
	if c.cursorTimer == nil {
		c.cursorTimer = c.clock.AfterFunc(c.throttle, c.flushCursor)
	}
}

func (c *controller) flushCursor() {
	c.mu.Lock()
	c.cursorTimer = nil
	if c.stopped || c.pendingCursor == nil {
		c.mu.Unlock()
		return
	}
	report := *c.pendingCursor
	c.pendingCursor = nil
	ch := c.channel
	userID, userName := c.sess.UserID, c.sess.UserName
	c.mu.Unlock()

	frame, err := mapper.EncodeCursorUpdate(userID, userName, report.pos, report.sel)
	if err != nil {
		c.logger.Errorw("Encoding cursor update failed", "error", err)
		return
	}
	c.send(ch, frame)
}

// send forwards one frame on the given channel. A missing or closed channel
// drops the frame; the drop is counted and logged, never fatal.
func (c *controller) send(ch room.Channel, frame []byte) {
	if ch == nil {
		c.stats.Counter("messages_dropped").Inc(1)
		c.logger.Debugw("Dropping outbound message, not connected")
		return
	}
	if err := ch.Send(frame); err != nil {
		if errors.IsDroppedSend(err) {
			c.stats.Counter("messages_dropped").Inc(1)
			c.logger.Debugw("Dropping outbound message, not connected")
			return
		}
		c.logger.Warnw("Sending to room failed", "error", err)
	}
}

// handleFrame dispatches one inbound envelope. Invoked by the channel's read
// pump in strict arrival order, never concurrently.
func (c *controller) handleFrame(raw []byte) {
	env, err := mapper.DecodeEnvelope(raw)
	if err != nil {
		c.dropEnvelope(err)
		return
	}

	switch env.Type {
	case mapper.TypeInit:
		c.handleInit(env)
	case mapper.TypeCodeUpdate:
		c.handleCodeUpdate(env)
	case mapper.TypeCursorUpdate:
		c.handleCursorUpdate(env)
	case mapper.TypeUserJoined, mapper.TypeUserLeft:
		c.handlePresence(env)
	case mapper.TypeError:
		c.handleServerError(env)
	}
}

func (c *controller) dropEnvelope(err error) {
	c.stats.Counter("envelopes_dropped").Inc(1)
	c.logger.Warnw("Dropping unusable envelope", "error", err)
}

// handleInit applies the server's authoritative baseline and confirms the
// connection. Trusting init unconditionally is the recovery mechanism after
// every reconnect.
func (c *controller) handleInit(env *mapper.Envelope) {
	ev, err := mapper.InitFromEnvelope(env)
	if err != nil {
		c.dropEnvelope(err)
		return
	}

	c.applyRemoteText(ev.Code)

	c.mu.Lock()
	c.sess.Language = ev.Language
	c.mu.Unlock()

	c.logger.Infow("Session baseline established", "roomId", ev.RoomID, "language", ev.Language)
	c.supervisor.Confirm()
}

func (c *controller) handleCodeUpdate(env *mapper.Envelope) {
	code, err := mapper.CodeUpdateFromEnvelope(env)
	if err != nil {
		c.dropEnvelope(err)
		return
	}
	c.applyRemoteText(code)
}

// applyRemoteText replaces the buffer under the last-write-wins policy. An
// update equal to the current text is a no-op; otherwise the caret is
// remapped to its logical position before the replacement lands. The
// applying flag marks the mutation as remote-caused for the whole scope.
func (c *controller) applyRemoteText(text string) {
	current := c.editor.GetText()
	if current == text {
		return
	}
	caret := textspan.Remap(current, text, c.editor.GetCursor())

	c.applying.Store(true)
	defer c.applying.Store(false)

	if err := c.editor.SetText(text); err != nil {
		c.logger.Warnw("Applying remote text failed", "error", err)
		return
	}
	c.editor.SetCursor(caret)
}

// handleCursorUpdate repaints one remote participant. Reports carrying the
// session's own user id are ignored.
func (c *controller) handleCursorUpdate(env *mapper.Envelope) {
	ev, err := mapper.CursorFromEnvelope(env)
	if err != nil {
		c.dropEnvelope(err)
		return
	}

	c.mu.Lock()
	own := ev.UserID == c.sess.UserID
	c.mu.Unlock()
	if own {
		return
	}

	p, err := c.roster.Get(c.ctx, ev.UserID)
	if err != nil {
		p = mapper.CursorEventToParticipant(ev)
		c.logger.Infow("Tracking new participant", "userId", p.ID, "name", p.DisplayName())
	} else {
		if ev.UserName != "" {
			p.Name = ev.UserName
		}
		p.Cursor = ev.Position
		p.Selection = ev.Selection
	}

	c.editor.ReleaseDecorations(p.Decorations)
	handles := make([]entity.DecorationHandle, 0, 2)
	caret := protocol.Range{Start: ev.Position, End: ev.Position}
	handles = append(handles, c.editor.PaintDecoration(p.ID, caret, entity.DecorationStyle{Color: p.Color}))
	if ev.Selection != nil {
		handles = append(handles, c.editor.PaintDecoration(p.ID, *ev.Selection, entity.DecorationStyle{Color: p.Color, Highlight: true}))
	}
	p.Decorations = handles

	if err := c.roster.Set(c.ctx, p); err != nil {
		c.logger.Warnw("Updating roster failed", "userId", ev.UserID, "error", err)
	}
}

func (c *controller) handlePresence(env *mapper.Envelope) {
	ev, err := mapper.PresenceFromEnvelope(env)
	if err != nil {
		c.dropEnvelope(err)
		return
	}

	if env.Type == mapper.TypeUserLeft {
		c.removeParticipant(ev.UserID)
	}

	c.mu.Lock()
	c.sess.UserCount = ev.UserCount
	snap := c.sess
	c.mu.Unlock()

	c.logger.Infow("Room presence changed", "userCount", ev.UserCount)
	c.notifyState(snap)
}

// removeParticipant releases a departing user's decorations and drops the
// roster entry. Departure of an unknown id is a safe no-op.
func (c *controller) removeParticipant(userID string) {
	p, err := c.roster.Get(c.ctx, userID)
	if err != nil {
		if _, notFound := errors.NotFoundParticipant(err); !notFound {
			c.logger.Warnw("Looking up departing participant failed", "userId", userID, "error", err)
		}
		return
	}
	c.editor.ReleaseDecorations(p.Decorations)
	if err := c.roster.Delete(c.ctx, userID); err != nil {
		c.logger.Warnw("Removing roster entry failed", "userId", userID, "error", err)
	}
}

func (c *controller) handleServerError(env *mapper.Envelope) {
	message, err := mapper.ErrorFromEnvelope(env)
	if err != nil {
		c.dropEnvelope(err)
		return
	}
	c.logger.Warnw("Room server reported an error", "message", message)
}
