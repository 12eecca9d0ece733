package controller

import (
	"github.com/pairdev/paird/src/paird/controller/collab"
	"github.com/pairdev/paird/src/paird/controller/suggest"
	"github.com/pairdev/paird/src/paird/repository/roster"
	"go.uber.org/fx"
)

// Module provides the session controllers into an Fx application.
var Module = fx.Options(
	fx.Provide(collab.New),
	fx.Provide(suggest.New),
	fx.Provide(roster.New),
	fx.Invoke(func(c collab.Controller) {}),
)
