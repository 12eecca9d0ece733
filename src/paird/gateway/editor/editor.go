package editor

import (
	"context"
	"fmt"
	"sync"

	"github.com/pairdev/paird/src/paird/entity"
	"github.com/pairdev/paird/src/paird/internal/fs"
	"go.lsp.dev/protocol"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	_configKey = "editor"

	// ModeMemory keeps the shared text in an in-memory buffer.
	ModeMemory = "memory"
	// ModeFile mirrors the shared text to a watched file on disk.
	ModeFile = "file"
)

// Config controls which buffer implementation backs the session.
type Config struct {
	Mode string `yaml:"mode"`
	Path string `yaml:"path"`
}

// Gateway is the capability surface through which the collaboration session
// reads and mutates the text being shared.
//
// SetText and SetCursor are the session's channel for applying remote state;
// they never re-trigger the changed handlers, so the session can distinguish
// its own writes from genuine local edits. OnTextChanged and OnCursorChanged
// each accept a single handler; registering again replaces the previous one.
type Gateway interface {
	GetText() string
	// SetText replaces the entire buffer. The text-changed handler does not fire.
	SetText(text string) error
	GetCursor() protocol.Position
	// SetCursor moves the local caret. The cursor-changed handler does not fire.
	SetCursor(pos protocol.Position)
	OnTextChanged(handler func(text string))
	OnCursorChanged(handler func(pos protocol.Position, selection *protocol.Range))
	// PaintDecoration draws a marker owned by the given id. The first style
	// painted for an owner is registered and reused for all later paints of
	// the same kind; repainting with a different style keeps the original.
	PaintDecoration(ownerID string, rng protocol.Range, style entity.DecorationStyle) entity.DecorationHandle
	ReleaseDecorations(handles []entity.DecorationHandle)
}

// Params are the parameters needed to create a buffer for the configured mode.
type Params struct {
	fx.In

	Config    config.Provider
	Logger    *zap.SugaredLogger
	Lifecycle fx.Lifecycle
	FS        fs.PairdFS
}

// New returns the Gateway selected by the editor configuration.
func New(p Params) (Gateway, error) {
	cfg := Config{Mode: ModeMemory}
	if err := p.Config.Get(_configKey).Populate(&cfg); err != nil {
		return nil, fmt.Errorf("getting configuration for %q: %w", _configKey, err)
	}

	switch cfg.Mode {
	case ModeMemory, "":
		return NewMemoryBuffer(), nil
	case ModeFile:
		fb, err := NewFileBuffer(cfg.Path, p.FS, p.Logger)
		if err != nil {
			return nil, err
		}
		p.Lifecycle.Append(fx.Hook{
			OnStart: func(ctx context.Context) error { return fb.Watch() },
			OnStop:  func(ctx context.Context) error { return fb.Close() },
		})
		return fb, nil
	default:
		return nil, fmt.Errorf("unknown editor mode %q", cfg.Mode)
	}
}

// Decoration is one painted marker together with the style it carries.
type Decoration struct {
	Owner string
	Range protocol.Range
	Style entity.DecorationStyle
}

// decorations tracks painted markers and per-owner registered styles.
// Both buffer implementations embed it.
type decorations struct {
	decoMu  sync.Mutex
	next    entity.DecorationHandle
	painted map[entity.DecorationHandle]Decoration
	styles  map[string]entity.DecorationStyle
}

func newDecorations() decorations {
	return decorations{
		painted: make(map[entity.DecorationHandle]Decoration),
		styles:  make(map[string]entity.DecorationStyle),
	}
}

func (d *decorations) PaintDecoration(ownerID string, rng protocol.Range, style entity.DecorationStyle) entity.DecorationHandle {
	d.decoMu.Lock()
	defer d.decoMu.Unlock()

	d.next++
	d.painted[d.next] = Decoration{
		Owner: ownerID,
		Range: rng,
		Style: d.registerStyle(ownerID, style),
	}
	return d.next
}

func (d *decorations) ReleaseDecorations(handles []entity.DecorationHandle) {
	d.decoMu.Lock()
	defer d.decoMu.Unlock()

	for _, h := range handles {
		delete(d.painted, h)
	}
}

// DecorationsFor returns every marker currently painted for the given owner.
func (d *decorations) DecorationsFor(ownerID string) []Decoration {
	d.decoMu.Lock()
	defer d.decoMu.Unlock()

	found := make([]Decoration, 0)
	for _, deco := range d.painted {
		if deco.Owner == ownerID {
			found = append(found, deco)
		}
	}
	return found
}

// registerStyle keeps the first style seen for an owner and kind. Cursor
// markers and selection highlights register independently.
func (d *decorations) registerStyle(ownerID string, style entity.DecorationStyle) entity.DecorationStyle {
	key := ownerID
	if style.Highlight {
		key += "/highlight"
	}
	if existing, ok := d.styles[key]; ok {
		return existing
	}
	d.styles[key] = style
	return style
}
