package app

import (
	"context"
	"testing"

	"github.com/pairdev/paird/src/paird/internal/clock"
	"github.com/pairdev/paird/src/paird/internal/devserver"
	"github.com/pairdev/paird/src/paird/internal/sessioninfofile/sessioninfofilemock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber-go/tally"
	"go.uber.org/config"
	"go.uber.org/fx/fxtest"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func newServerForInfo(t *testing.T, lc *fxtest.Lifecycle, enabled bool) *devserver.Server {
	t.Helper()

	provider, err := config.NewStaticProvider(map[string]interface{}{
		"devserver": map[string]interface{}{
			"enabled":       enabled,
			"listenAddress": "127.0.0.1:0",
		},
	})
	require.NoError(t, err)

	s, err := devserver.New(devserver.Params{
		Config:    provider,
		Logger:    zap.NewNop().Sugar(),
		Stats:     tally.NewTestScope("testing", make(map[string]string, 0)),
		Clock:     clock.New(),
		Lifecycle: lc,
	})
	require.NoError(t, err)
	return s
}

func TestOutputServerConnectionInfo(t *testing.T) {
	t.Run("writes the bound address", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		lc := fxtest.NewLifecycle(t)
		s := newServerForInfo(t, lc, true)

		var written string
		infoFile := sessioninfofilemock.NewMockSessionInfoFile(ctrl)
		infoFile.EXPECT().UpdateField(_devserverAddressField, gomock.Any()).DoAndReturn(func(key, value string) error {
			written = value
			return nil
		})

		outputServerConnectionInfo(ServerInfoParams{
			Server:    s,
			InfoFile:  infoFile,
			Lifecycle: lc,
		})

		lc.RequireStart()
		defer lc.RequireStop()

		assert.Equal(t, s.BaseURL(), written)
		assert.NotEmpty(t, written)
	})

	t.Run("skips when no server is listening", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		lc := fxtest.NewLifecycle(t)
		s := newServerForInfo(t, lc, false)

		// No expectations: any write would fail the test.
		infoFile := sessioninfofilemock.NewMockSessionInfoFile(ctrl)

		outputServerConnectionInfo(ServerInfoParams{
			Server:    s,
			InfoFile:  infoFile,
			Lifecycle: lc,
		})

		lc.RequireStart()
		lc.RequireStop()
	})

	t.Run("propagates write failures", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		lc := fxtest.NewLifecycle(t)
		s := newServerForInfo(t, lc, true)

		infoFile := sessioninfofilemock.NewMockSessionInfoFile(ctrl)
		infoFile.EXPECT().UpdateField(_devserverAddressField, gomock.Any()).Return(assert.AnError)

		outputServerConnectionInfo(ServerInfoParams{
			Server:    s,
			InfoFile:  infoFile,
			Lifecycle: lc,
		})

		err := lc.Start(context.Background())
		assert.ErrorContains(t, err, "outputting server address to info file")

		// The server's own start hook succeeded, so wind it back down.
		require.NoError(t, lc.Stop(context.Background()))
	})
}
