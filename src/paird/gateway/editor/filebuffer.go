package editor

import (
	"fmt"
	"hash/fnv"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/pairdev/paird/src/paird/internal/fs"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"
)

// FileBuffer is a Gateway implementation that mirrors the shared text to a
// file on disk. External writes to the file are reported as local edits;
// remote updates applied through SetText are written back to disk without
// re-triggering the watcher.
type FileBuffer struct {
	mu        sync.Mutex
	path      string
	fs        fs.PairdFS
	logger    *zap.SugaredLogger
	watcher   *fsnotify.Watcher
	text      string
	cursor    protocol.Position
	onText    func(text string)
	onCursor  func(pos protocol.Position, selection *protocol.Range)
	lastWrite uint64
	started   bool
	closed    bool

	watchCloser chan bool
	done        chan struct{}

	decorations
}

var _ Gateway = (*FileBuffer)(nil)

// NewFileBuffer mirrors the file at path. A missing file is created empty.
// Call Watch to start picking up external edits and Close to stop.
func NewFileBuffer(path string, pairdFS fs.PairdFS, logger *zap.SugaredLogger) (*FileBuffer, error) {
	if path == "" {
		return nil, fmt.Errorf("file editor mode requires editor.path")
	}
	path = filepath.Clean(path)

	isDir, err := pairdFS.DirExists(path)
	if err != nil {
		return nil, fmt.Errorf("checking shared buffer path %q: %w", path, err)
	}
	if isDir {
		return nil, fmt.Errorf("shared buffer path %q is a directory", path)
	}

	b := &FileBuffer{
		path:        path,
		fs:          pairdFS,
		logger:      logger.With("component", "filebuffer"),
		watchCloser: make(chan bool, 1),
		done:        make(chan struct{}),
		decorations: newDecorations(),
	}

	exists, err := pairdFS.FileExists(path)
	if err != nil {
		return nil, fmt.Errorf("checking shared buffer file %q: %w", path, err)
	}
	if exists {
		data, err := pairdFS.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading shared buffer file %q: %w", path, err)
		}
		b.text = string(data)
	} else if err := pairdFS.WriteFile(path, ""); err != nil {
		return nil, fmt.Errorf("creating shared buffer file %q: %w", path, err)
	}
	b.lastWrite = contentHash(b.text)

	// Watch the containing directory. Editors that save via rename replace
	// the file node, so watching the file itself would lose the watch.
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher for %q: %w", path, err)
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching %q: %w", filepath.Dir(path), err)
	}
	b.watcher = watcher

	return b, nil
}

// Watch starts reporting external writes to the file as local edits.
func (b *FileBuffer) Watch() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.started || b.closed {
		return nil
	}
	b.started = true
	go b.handleChanges(b.watchCloser)
	return nil
}

// Close stops the watcher. No handler fires after Close returns.
func (b *FileBuffer) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	started := b.started
	b.mu.Unlock()

	if !started {
		return b.watcher.Close()
	}
	b.watchCloser <- true
	<-b.done
	return nil
}

// GetText returns the current buffer contents.
func (b *FileBuffer) GetText() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text
}

// SetText replaces the buffer contents and writes them to disk. The watcher
// recognizes the resulting file event as its own write and stays quiet.
func (b *FileBuffer) SetText(text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if text == b.text {
		return nil
	}
	b.text = text
	b.lastWrite = contentHash(text)
	if err := b.fs.WriteFile(b.path, text); err != nil {
		return fmt.Errorf("writing shared buffer to %q: %w", b.path, err)
	}
	return nil
}

// GetCursor returns the tracked caret position.
func (b *FileBuffer) GetCursor() protocol.Position {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cursor
}

// SetCursor moves the tracked caret. A file surface has no caret of its own,
// so the position only feeds suggestion requests.
func (b *FileBuffer) SetCursor(pos protocol.Position) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cursor = pos
}

// OnTextChanged registers the handler invoked when the file changes on disk.
func (b *FileBuffer) OnTextChanged(handler func(text string)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onText = handler
}

// OnCursorChanged registers the cursor handler. A file surface never fires it.
func (b *FileBuffer) OnCursorChanged(handler func(pos protocol.Position, selection *protocol.Range)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onCursor = handler
}

func (b *FileBuffer) handleChanges(closer chan bool) {
	defer close(b.done)
	for {
		select {
		case event := <-b.watcher.Events:
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if filepath.Clean(event.Name) != b.path {
				continue
			}
			b.reload()

		case err := <-b.watcher.Errors:
			b.logger.Warnf("Failure in shared buffer watcher: %v", err)

		case <-closer:
			if err := b.watcher.Close(); err != nil {
				b.logger.Warnf("Failed to close shared buffer watcher: %v", err)
			}
			return
		}
	}
}

// reload reads the file after a change event and reports the new content as
// a local edit unless the change was this buffer's own write.
func (b *FileBuffer) reload() {
	data, err := b.fs.ReadFile(b.path)
	if err != nil {
		b.logger.Warnf("Failed to read shared buffer %q: %v", b.path, err)
		return
	}
	text := string(data)

	b.mu.Lock()
	if contentHash(text) == b.lastWrite || text == b.text {
		b.mu.Unlock()
		return
	}
	b.text = text
	handler := b.onText
	b.mu.Unlock()

	if handler != nil {
		handler(text)
	}
}

func contentHash(text string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(text))
	return h.Sum64()
}
