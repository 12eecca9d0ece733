package editor

import (
	"sync"

	"go.lsp.dev/protocol"
)

// MemoryBuffer is an in-memory Gateway implementation. It backs embedded
// sessions with no file on disk and doubles as the buffer used by tests.
// Local activity is driven through Edit and MoveCursor, which fire the
// registered handlers the way typing in a real surface would.
type MemoryBuffer struct {
	mu        sync.Mutex
	text      string
	cursor    protocol.Position
	selection *protocol.Range
	onText    func(text string)
	onCursor  func(pos protocol.Position, selection *protocol.Range)

	decorations
}

var _ Gateway = (*MemoryBuffer)(nil)

// NewMemoryBuffer returns an empty in-memory buffer.
func NewMemoryBuffer() *MemoryBuffer {
	return &MemoryBuffer{decorations: newDecorations()}
}

// GetText returns the current buffer contents.
func (b *MemoryBuffer) GetText() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text
}

// SetText replaces the buffer contents without firing the text-changed handler.
func (b *MemoryBuffer) SetText(text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.text = text
	return nil
}

// GetCursor returns the current caret position.
func (b *MemoryBuffer) GetCursor() protocol.Position {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cursor
}

// SetCursor moves the caret without firing the cursor-changed handler.
func (b *MemoryBuffer) SetCursor(pos protocol.Position) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cursor = pos
}

// OnTextChanged registers the handler invoked on local edits.
func (b *MemoryBuffer) OnTextChanged(handler func(text string)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onText = handler
}

// OnCursorChanged registers the handler invoked on local caret movement.
func (b *MemoryBuffer) OnCursorChanged(handler func(pos protocol.Position, selection *protocol.Range)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onCursor = handler
}

// Edit replaces the buffer contents as a local edit and fires the
// text-changed handler.
func (b *MemoryBuffer) Edit(text string) {
	b.mu.Lock()
	b.text = text
	handler := b.onText
	b.mu.Unlock()

	if handler != nil {
		handler(text)
	}
}

// MoveCursor moves the caret as a local action and fires the cursor-changed
// handler. A nil selection reports a bare caret move.
func (b *MemoryBuffer) MoveCursor(pos protocol.Position, selection *protocol.Range) {
	b.mu.Lock()
	b.cursor = pos
	b.selection = selection
	handler := b.onCursor
	b.mu.Unlock()

	if handler != nil {
		handler(pos, selection)
	}
}
