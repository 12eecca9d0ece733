// Package autocomplete is the client for the suggestion backend. One
// request carries the full buffer snapshot with the caret's offset; the
// backend answers with ranked suggestions and a confidence score. Requests
// are cancellable mid-flight, superseded snapshots get abandoned rather
// than awaited.
package autocomplete

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pairdev/paird/src/paird/entity"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	_serverConfigKey = "room.server"
	_path            = "/api/autocomplete/"

	_requestTimeout = 10 * time.Second
)

// Gateway fetches suggestions for a buffer snapshot.
type Gateway interface {
	Fetch(ctx context.Context, code string, cursorOffset int, language string) (*entity.Suggestions, error)
}

// Params are the parameters needed to create the autocomplete gateway.
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
		logger:  p.Logger.With("component", "autocomplete"),
	}, nil
}

type suggestionRequest struct {
	Code           string `json:"code"`
	CursorPosition int    `json:"cursor_position"`
	Language       string `json:"language,omitempty"`
}

type suggestionResponse struct {
	Suggestions []string `json:"suggestions"`
	Confidence  float64  `json:"confidence"`
}

func (g *gateway) Fetch(ctx context.Context, code string, cursorOffset int, language string) (*entity.Suggestions, error) {
	body, err := json.Marshal(suggestionRequest{
		Code:           code,
		CursorPosition: cursorOffset,
		Language:       language,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding suggestion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+_path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building suggestion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching suggestions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching suggestions: backend returned status %d", resp.StatusCode)
	}

	var parsed suggestionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding suggestion response: %w", err)
	}

	return &entity.Suggestions{
		Items:      parsed.Suggestions,
		Confidence: parsed.Confidence,
	}, nil
}
