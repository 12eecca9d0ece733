package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestConnectionStateString(t *testing.T) {
	testCases := []struct {
		name     string
		state    ConnectionState
		expected string
	}{
		{
			name:     "disconnected",
			state:    StateDisconnected,
			expected: "disconnected",
		},
		{
			name:     "connecting",
			state:    StateConnecting,
			expected: "connecting",
		},
		{
			name:     "connected",
			state:    StateConnected,
			expected: "connected",
		},
		{
			name:     "reconnecting",
			state:    StateReconnecting,
			expected: "reconnecting",
		},
		{
			name:     "out of range",
			state:    ConnectionState(42),
			expected: "unknown(42)",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.state.String(), "Unexpected string representation.")
		})
	}
}

func TestConnectionStateEditable(t *testing.T) {
	assert.True(t, StateConnected.Editable(), "Connected sessions should be editable.")
	for _, s := range []ConnectionState{StateDisconnected, StateConnecting, StateReconnecting} {
		assert.False(t, s.Editable(), "State %s should not be editable.", s)
	}
}

func TestParticipantDisplayName(t *testing.T) {
	t.Run("explicit name", func(t *testing.T) {
		p := &Participant{ID: "ab12cd34", Name: "grace"}
		assert.Equal(t, "grace", p.DisplayName())
	})
	t.Run("derived name", func(t *testing.T) {
		p := &Participant{ID: "ab12cd34"}
		assert.Equal(t, "User-ab12cd34", p.DisplayName())
	})
}

func TestColorForStability(t *testing.T) {
	first := ColorFor("ab12cd34")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ColorFor("ab12cd34"), "Color assignment must be stable per identifier.")
	}
}

func TestColorForSpreadsAcrossPalette(t *testing.T) {
	ids := []string{"a1", "b2", "c3", "d4", "e5", "f6", "g7", "h8", "i9", "j0"}
	seen := make(map[string]struct{})
	for _, id := range ids {
		seen[ColorFor(id)] = struct{}{}
	}
	assert.Greater(t, len(seen), 1, "Distinct identifiers should not all collapse onto one color.")
	assert.LessOrEqual(t, len(seen), PaletteSize())
}

func TestSuggestionsUsable(t *testing.T) {
	testCases := []struct {
		name          string
		suggestions   Suggestions
		minConfidence float64
		expected      bool
	}{
		{
			name:          "confident with items",
			suggestions:   Suggestions{Items: []string{"print()"}, Confidence: 0.9},
			minConfidence: 0.5,
			expected:      true,
		},
		{
			name:          "below confidence floor",
			suggestions:   Suggestions{Items: []string{"print()"}, Confidence: 0.4},
			minConfidence: 0.5,
			expected:      false,
		},
		{
			name:          "no items",
			suggestions:   Suggestions{Confidence: 0.99},
			minConfidence: 0.5,
			expected:      false,
		},
		{
			name:          "exactly at floor",
			suggestions:   Suggestions{Items: []string{"def "}, Confidence: 0.5},
			minConfidence: 0.5,
			expected:      true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.suggestions.Usable(tc.minConfidence))
		})
	}
}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
