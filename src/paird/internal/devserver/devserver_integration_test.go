package devserver

import (
	"context"
	"testing"
	"time"

	"github.com/pairdev/paird/src/paird/controller/collab"
	"github.com/pairdev/paird/src/paird/controller/suggest/suggestmock"
	"github.com/pairdev/paird/src/paird/entity"
	"github.com/pairdev/paird/src/paird/gateway/editor"
	"github.com/pairdev/paird/src/paird/gateway/registry"
	"github.com/pairdev/paird/src/paird/gateway/room"
	"github.com/pairdev/paird/src/paird/internal/clock"
	"github.com/pairdev/paird/src/paird/repository/roster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber-go/tally"
	"go.uber.org/config"
	"go.uber.org/fx/fxtest"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

// liveSession is one complete client stack wired against the embedded
// server: real registry client, real channel dialer, real collaboration
// controller, in-memory editor. Only the suggestion pipeline is mocked out.
type liveSession struct {
	controller collab.Controller
	editor     *editor.MemoryBuffer
	roster     roster.Repository
	fake       *clock.Fake
}

func newLiveSession(t *testing.T, server, roomID, userName string) *liveSession {
	t.Helper()

	provider, err := config.NewStaticProvider(map[string]interface{}{
		"room": map[string]interface{}{
			"server":   server,
			"id":       roomID,
			"name":     "integration",
			"language": "python",
		},
		"user": map[string]interface{}{"name": userName},
		"sync": map[string]interface{}{"cursorThrottleMs": 100},
		"reconnect": map[string]interface{}{
			"initialIntervalMs": 200,
			"maxIntervalMs":     1000,
			"multiplier":        2,
		},
	})
	require.NoError(t, err)

	logger := zap.NewNop().Sugar()
	scope := tally.NewTestScope("testing", make(map[string]string, 0))
	fake := clock.NewFake()

	reg, err := registry.New(registry.Params{Config: provider, Logger: logger})
	require.NoError(t, err)
	dialer, err := room.New(room.Params{Config: provider, Logger: logger})
	require.NoError(t, err)

	buf := editor.NewMemoryBuffer()
	repo := roster.New(scope)
	sugg := suggestmock.NewMockController(gomock.NewController(t))
	sugg.EXPECT().CodeChanged(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()

	c, err := collab.New(collab.Params{
		Config:    provider,
		Logger:    logger,
		Stats:     scope,
		Clock:     fake,
		Lifecycle: fxtest.NewLifecycle(t),
		Editor:    buf,
		Registry:  reg,
		Dialer:    dialer,
		Roster:    repo,
		Suggest:   sugg,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Stop() })
	require.NoError(t, c.Start(context.Background()))

	return &liveSession{controller: c, editor: buf, roster: repo, fake: fake}
}

func (s *liveSession) awaitState(t *testing.T, want entity.ConnectionState) {
	t.Helper()
	require.Eventually(t, func() bool {
		return s.controller.Session().State == want
	}, 5*time.Second, 10*time.Millisecond, "session never reached %v", want)
}

// TestTwoSessionsConvergeOverRealSockets drives two complete client stacks
// through the embedded server: room creation, join, an edit from one side
// landing in the other's buffer, presence counting, and a cursor report
// painting the peer's roster.
func TestTwoSessionsConvergeOverRealSockets(t *testing.T) {
	h := newServerHarness(t, clock.New())

	alice := newLiveSession(t, h.base, "", "Alice")
	alice.awaitState(t, entity.StateConnected)

	roomID := alice.controller.Session().RoomID
	require.NotEmpty(t, roomID, "an unconfigured session creates its room")
	assert.Equal(t, entity.DefaultRoomCode, alice.editor.GetText())

	bob := newLiveSession(t, h.base, roomID, "Bob")
	bob.awaitState(t, entity.StateConnected)
	assert.Equal(t, entity.DefaultRoomCode, bob.editor.GetText())

	require.Eventually(t, func() bool {
		return alice.controller.Session().UserCount == 2
	}, 5*time.Second, 10*time.Millisecond, "presence never reached the first session")

	edited := entity.DefaultRoomCode + "\nprint(1)"
	alice.editor.Edit(edited)
	require.Eventually(t, func() bool {
		return bob.editor.GetText() == edited
	}, 5*time.Second, 10*time.Millisecond, "the edit never converged")

	bob.editor.MoveCursor(pos(1, 3), nil)
	bob.fake.Advance(150 * time.Millisecond)
	require.Eventually(t, func() bool {
		count, err := alice.roster.Count(context.Background())
		return err == nil && count == 1
	}, 5*time.Second, 10*time.Millisecond, "the cursor report never arrived")

	participants, err := alice.roster.All(context.Background())
	require.NoError(t, err)
	require.Len(t, participants, 1)
	assert.Equal(t, pos(1, 3), participants[0].Cursor)
	assert.Len(t, participants[0].ID, 8, "peers are known by their server-assigned id")
	assert.Equal(t, entity.ColorFor(participants[0].ID), participants[0].Color)
}

// TestSessionSurvivesServerSideDisconnect covers the full recovery loop over
// real sockets: the server drops the client, the supervisor redials, and the
// fresh init re-baselines the buffer.
func TestSessionSurvivesServerSideDisconnect(t *testing.T) {
	h := newServerHarness(t, clock.New())

	alice := newLiveSession(t, h.base, "", "Alice")
	alice.awaitState(t, entity.StateConnected)

	// Drop every room client from the server side.
	h.server.hub.closeAll()
	require.Eventually(t, func() bool {
		return alice.controller.Session().State == entity.StateReconnecting
	}, 5*time.Second, 10*time.Millisecond, "the drop never surfaced")

	// The retry timer is armed on the fake clock by the supervisor's own
	// goroutine, so keep advancing until the redial has gone through.
	require.Eventually(t, func() bool {
		alice.fake.Advance(200 * time.Millisecond)
		return alice.controller.Session().State == entity.StateConnected
	}, 5*time.Second, 50*time.Millisecond, "the session never recovered")
	assert.Equal(t, entity.DefaultRoomCode, alice.editor.GetText())
}
