// Package sessioninfofile maintains a small JSON file describing the live
// collaboration session. External tooling (and the person who needs the room
// id to join) reads it instead of scraping logs. The file tracks every
// connection state change and is removed when the daemon shuts down.
package sessioninfofile

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"github.com/pairdev/paird/src/paird/controller/collab"
	"github.com/pairdev/paird/src/paird/entity"
	"github.com/pairdev/paird/src/paird/gateway/room"
	"github.com/pairdev/paird/src/paird/internal/fs"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	_configKey       = "info"
	_serverConfigKey = "room.server"
	_nameKey         = "sessioninfo"

	_fieldRoomID    = "room_id"
	_fieldEndpoint  = "endpoint"
	_fieldUserID    = "user_id"
	_fieldUserName  = "user_name"
	_fieldLanguage  = "language"
	_fieldState     = "state"
	_fieldEditable  = "editable"
	_fieldUserCount = "user_count"
)

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// Config holds the info file settings. An empty path disables the file.
type Config struct {
	Path string `yaml:"path"`
}

// SessionInfoFile publishes session details to a JSON file on disk.
type SessionInfoFile interface {
	// UpdateField records one key/value pair and rewrites the file.
	UpdateField(key string, value string) error
}

// Params are the parameters needed to create the session info file.
type Params struct {
	fx.In

	Config    config.Provider
	Logger    *zap.SugaredLogger
	Lifecycle fx.Lifecycle
	FS        fs.PairdFS
	Collab    collab.Controller
}

type module struct {
	logger *zap.SugaredLogger
	fs     fs.PairdFS

	path   string
	server string

	mu     sync.Mutex
	fields map[string]string
}

// New creates a SessionInfoFile and subscribes it to the collaboration
// session's state changes. When no path is configured the returned value is
// inert: updates succeed without touching the disk.
func New(p Params) (SessionInfoFile, error) {
	var cfg Config
	if err := p.Config.Get(_configKey).Populate(&cfg); err != nil {
		return nil, fmt.Errorf("getting configuration for %q: %w", _configKey, err)
	}
	var server string
	if err := p.Config.Get(_serverConfigKey).Populate(&server); err != nil {
		return nil, fmt.Errorf("getting configuration for %q: %w", _serverConfigKey, err)
	}

	m := &module{
		logger: p.Logger.With("component", _nameKey),
		fs:     p.FS,
		path:   cfg.Path,
		server: server,
		fields: make(map[string]string),
	}
	if m.path == "" {
		m.logger.Infow("Session info file disabled, no path configured")
		return m, nil
	}

	p.Collab.OnStateChanged(m.applySession)
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			m.applySession(p.Collab.Session())
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return m.removeFile()
		},
	})
	return m, nil
}

// UpdateField stores the given value and rewrites the info file.
func (m *module) UpdateField(key string, value string) error {
	if m.path == "" {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.fields[key] = value
	return m.writeFile()
}

// applySession refreshes every session-derived field in one write.
func (m *module) applySession(sess entity.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()

	endpoint := ""
	if sess.RoomID != "" {
		endpoint = room.Endpoint(m.server, sess.RoomID)
	}
	m.fields[_fieldRoomID] = sess.RoomID
	m.fields[_fieldEndpoint] = endpoint
	m.fields[_fieldUserID] = sess.UserID
	m.fields[_fieldUserName] = sess.UserName
	m.fields[_fieldLanguage] = sess.Language
	m.fields[_fieldState] = sess.State.String()
	// Wrapping surfaces read this to decide whether to accept local input.
	m.fields[_fieldEditable] = strconv.FormatBool(sess.State.Editable())
	m.fields[_fieldUserCount] = strconv.Itoa(sess.UserCount)
	if err := m.writeFile(); err != nil {
		m.logger.Warnw("Unable to write session info file", "path", m.path, "error", err)
	}
}

// writeFile marshals the current fields to the configured path.
// Callers must hold m.mu.
func (m *module) writeFile() error {
	content, err := json.Marshal(m.fields)
	if err != nil {
		return fmt.Errorf("marshaling session info: %w", err)
	}
	if err := m.fs.WriteFile(m.path, string(content)); err != nil {
		return fmt.Errorf("writing session info file: %w", err)
	}
	m.logger.Infow("Session info saved", "path", m.path)
	return nil
}

func (m *module) removeFile() error {
	exists, err := m.fs.FileExists(m.path)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	return m.fs.Remove(m.path)
}
