package gateway

import (
	"github.com/pairdev/paird/src/paird/gateway/autocomplete"
	"github.com/pairdev/paird/src/paird/gateway/editor"
	"github.com/pairdev/paird/src/paird/gateway/registry"
	"github.com/pairdev/paird/src/paird/gateway/room"
	"go.uber.org/fx"
)

// Module provides the daemon's outbound gateways into an Fx application.
var Module = fx.Options(
	fx.Provide(editor.New),
	fx.Provide(registry.New),
	fx.Provide(room.New),
	fx.Provide(autocomplete.New),
)
