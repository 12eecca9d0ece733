// Package registry is the client for the room registry's REST surface. The
// session only needs a room id to open its channel; everything else here
// exists for creating rooms at startup and for operator tooling.
package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pairdev/paird/src/paird/entity"
	"github.com/pairdev/paird/src/paird/internal/errors"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	_serverConfigKey = "room.server"
	_roomsPath       = "/api/rooms/"

	_requestTimeout = 10 * time.Second
)

// Gateway exposes the registry's room CRUD operations.
type Gateway interface {
	// Create registers a new room. An empty language defaults server-side.
	Create(ctx context.Context, name, language string) (*entity.Room, error)
	// Get fetches one room. An unknown id yields a RoomNotFoundError.
	Get(ctx context.Context, roomID string) (*entity.Room, error)
	// List pages through rooms with the registry's skip/limit scheme.
	List(ctx context.Context, skip, limit int) ([]*entity.Room, error)
	// Delete removes a room. An unknown id yields a RoomNotFoundError.
	Delete(ctx context.Context, roomID string) error
}

// Params are the parameters needed to create the registry gateway.
type Params struct {
	fx.In

	Config config.Provider
	Logger *zap.SugaredLogger
}

type gateway struct {
	baseURL string
	client  *http.Client
	logger  *zap.SugaredLogger
}

// New returns a Gateway talking to the server named by room.server.
func New(p Params) (Gateway, error) {
	var server string
	if err := p.Config.Get(_serverConfigKey).Populate(&server); err != nil {
		return nil, fmt.Errorf("getting configuration for %q: %w", _serverConfigKey, err)
	}

	return &gateway{
		baseURL: strings.TrimSuffix(server, "/"),
		client:  &http.Client{Timeout: _requestTimeout},
		logger:  p.Logger.With("component", "registry"),
	}, nil
}

type createRoomRequest struct {
	Name     string `json:"name"`
	Language string `json:"language,omitempty"`
}

// roomResponse is the registry's wire shape. Timestamps arrive as ISO 8601
// strings, with or without a zone offset.
type roomResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Code      string `json:"code"`
	Language  string `json:"language"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func (r *roomResponse) toEntity() *entity.Room {
	return &entity.Room{
		ID:        r.ID,
		Name:      r.Name,
		Code:      r.Code,
		Language:  r.Language,
		CreatedAt: parseRegistryTime(r.CreatedAt),
		UpdatedAt: parseRegistryTime(r.UpdatedAt),
	}
}

func (g *gateway) Create(ctx context.Context, name, language string) (*entity.Room, error) {
	body, err := json.Marshal(createRoomRequest{Name: name, Language: language})
	if err != nil {
		return nil, fmt.Errorf("encoding create room request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+_roomsPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building create room request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("creating room: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("creating room: registry returned status %d", resp.StatusCode)
	}

	var room roomResponse
	if err := json.NewDecoder(resp.Body).Decode(&room); err != nil {
		return nil, fmt.Errorf("decoding create room response: %w", err)
	}
	g.logger.Infow("Created room", "roomID", room.ID, "name", room.Name)
	return room.toEntity(), nil
}

func (g *gateway) Get(ctx context.Context, roomID string) (*entity.Room, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+_roomsPath+roomID, nil)
	if err != nil {
		return nil, fmt.Errorf("building get room request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching room %q: %w", roomID, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, &errors.RoomNotFoundError{RoomID: roomID}
	default:
		return nil, fmt.Errorf("fetching room %q: registry returned status %d", roomID, resp.StatusCode)
	}

	var room roomResponse
	if err := json.NewDecoder(resp.Body).Decode(&room); err != nil {
		return nil, fmt.Errorf("decoding room %q: %w", roomID, err)
	}
	return room.toEntity(), nil
}

func (g *gateway) List(ctx context.Context, skip, limit int) ([]*entity.Room, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+_roomsPath, nil)
	if err != nil {
		return nil, fmt.Errorf("building list rooms request: %w", err)
	}
	q := req.URL.Query()
	q.Set("skip", strconv.Itoa(skip))
	q.Set("limit", strconv.Itoa(limit))
	req.URL.RawQuery = q.Encode()

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("listing rooms: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listing rooms: registry returned status %d", resp.StatusCode)
	}

	var rooms []roomResponse
	if err := json.NewDecoder(resp.Body).Decode(&rooms); err != nil {
		return nil, fmt.Errorf("decoding room list: %w", err)
	}

	found := make([]*entity.Room, 0, len(rooms))
	for i := range rooms {
		found = append(found, rooms[i].toEntity())
	}
	return found, nil
}

func (g *gateway) Delete(ctx context.Context, roomID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, g.baseURL+_roomsPath+roomID, nil)
	if err != nil {
		return fmt.Errorf("building delete room request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("deleting room %q: %w", roomID, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return &errors.RoomNotFoundError{RoomID: roomID}
	default:
		return fmt.Errorf("deleting room %q: registry returned status %d", roomID, resp.StatusCode)
	}
}

// parseRegistryTime accepts the timestamp variants registries emit. A value
// that parses as none of them maps to the zero time; timestamps here are
// informational only.
func parseRegistryTime(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05.999999999", "2006-01-02T15:04:05"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts
		}
	}
	return time.Time{}
}
