package app

import (
	"context"
	"fmt"

	"github.com/pairdev/paird/src/paird/internal/devserver"
	"github.com/pairdev/paird/src/paird/internal/sessioninfofile"
	"go.uber.org/fx"
)

const _devserverAddressField = "devserver-address"

// ServerInfoParams is the set of dependencies needed to publish server connection info.
type ServerInfoParams struct {
	fx.In

	Server    *devserver.Server
	InfoFile  sessioninfofile.SessionInfoFile
	Lifecycle fx.Lifecycle
}

// Output the embedded development server's address to the session info file.
// The bound address is only known once the listener is up, so this runs as a
// start hook after the server's own. Other components may independently add
// their fields to the info file.
func outputServerConnectionInfo(p ServerInfoParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			address := p.Server.BaseURL()
			if address == "" {
				return nil
			}
			if err := p.InfoFile.UpdateField(_devserverAddressField, address); err != nil {
				return fmt.Errorf("outputting server address to info file: %w", err)
			}
			return nil
		},
	})
}
