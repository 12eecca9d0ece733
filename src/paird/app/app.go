// Package app assembles the paird daemon's dependency graph.
package app

import (
	"context"
	"time"

	"github.com/pairdev/paird/src/paird/controller"
	"github.com/pairdev/paird/src/paird/controller/suggest"
	"github.com/pairdev/paird/src/paird/entity"
	"github.com/pairdev/paird/src/paird/gateway"
	"github.com/pairdev/paird/src/paird/internal/clock"
	"github.com/pairdev/paird/src/paird/internal/core"
	"github.com/pairdev/paird/src/paird/internal/devserver"
	"github.com/pairdev/paird/src/paird/internal/fs"
	"github.com/pairdev/paird/src/paird/internal/sessioninfofile"
	"github.com/uber-go/tally"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module defines the paird daemon application module.
var Module = fx.Options(
	core.ConfigModule,
	core.LoggerModule,
	fs.Module,
	fx.Provide(clock.New),
	devserver.Module,  // embedded room server, bound before the session dials
	gateway.Module,    // outbounds
	controller.Module, // session + suggestion pipeline
	sessioninfofile.Module,
	fx.Provide(func(lc fx.Lifecycle) tally.Scope {
		rs, closer := tally.NewRootScope(tally.ScopeOptions{
			Tags: map[string]string{
				"service": "paird",
			},
		}, 1*time.Second)

		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return closer.Close()
			},
		})

		return rs
	}),
	fx.Decorate(decorateEnvContext),
	fx.Decorate(decorateConfigProvider),
	fx.Provide(func() Context {
		return Context{
			Environment:        "local",
			RuntimeEnvironment: "local",
		}
	}),
	fx.Invoke(outputServerConnectionInfo),
	fx.Invoke(logSurfacedSuggestions),
)

// logSurfacedSuggestions is the default sink for the suggestion pipeline:
// results land in the log until an embedding host replaces the handlers with
// its own surfacing.
func logSurfacedSuggestions(s suggest.Controller, logger *zap.SugaredLogger) {
	log := logger.With("component", "suggestions")
	s.OnSuggestions(func(res entity.Suggestions) {
		log.Infow("Suggestions ready", "count", len(res.Items), "confidence", res.Confidence)
	})
	s.OnUnavailable(func(err error) {
		log.Debugw("Suggestions unavailable", "error", err)
	})
}
