package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/behave/internal/config"
	"github.com/zeusync/behave/internal/core/bt"
	"github.com/zeusync/behave/internal/core/bt/nodes"
	"github.com/zeusync/behave/internal/core/observability/log"
	"github.com/zeusync/behave/internal/host"
)

// App is everything a command needs to run trees.
type App struct {
	Config   config.Config
	Logger   *log.Logger
	Registry *bt.Registry
	Host     *host.Host
}

var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvideAllocator,
	ProvideRegistry,
	ProvideHost,
	wire.Bind(new(log.Log), new(*log.Logger)),
	wire.Struct(new(App), "*"),
)

func ProvideLogger(cfg config.Config) (*log.Logger, func()) {
	l := log.New(cfg.Level())
	return l, func() { _ = l.Sync() }
}

func ProvideAllocator(cfg config.Config) *bt.Allocator {
	return bt.NewAllocator(cfg.Pool.Prewarm)
}

// ProvideRegistry returns a registry holding every builtin process node.
func ProvideRegistry() *bt.Registry {
	reg := bt.NewRegistry()
	nodes.RegisterBuiltins(reg)
	return reg
}

// ProvideHost binds every tree to a point of its own so movement nodes have
// something to move.
func ProvideHost(alloc *bt.Allocator, reg *bt.Registry, logger log.Log, cfg config.Config) (*host.Host, func()) {
	h := host.New(alloc, reg, logger, cfg, host.WithBindings(func() bt.Bindings {
		return bt.StaticBindings{T: &bt.Point{}}
	}))
	return h, h.Close
}
