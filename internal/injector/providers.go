package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/simmeta/internal/appconfig"
	"github.com/zeusync/simmeta/internal/core/events/bus"
	"github.com/zeusync/simmeta/internal/core/metadata/library"
	"github.com/zeusync/simmeta/internal/core/observability/log"
	"github.com/zeusync/simmeta/internal/server"
)

// ProviderSet builds everything a command needs from an appconfig.Config.
var ProviderSet = wire.NewSet(
	ProvideLogger,
	bus.New,
	ProvideLibrary,
	ProvideServer,
)

// ProvideLogger builds the process logger from the logging keys.
func ProvideLogger(cfg *appconfig.Config) log.Log {
	return log.NewWithOptions(cfg.LogOptions())
}

func ProvideLibrary(cfg *appconfig.Config, logger log.Log, events bus.EventBus) *library.Library {
	return library.New(cfg.Dataset, logger, events)
}

func ProvideServer(cfg *appconfig.Config, lib *library.Library, events bus.EventBus, logger log.Log) *server.Server {
	return server.NewServer(cfg.ServerOptions(), lib, events, logger)
}

// App bundles the wired components.
type App struct {
	Logger  log.Log
	Events  bus.EventBus
	Library *library.Library
	Server  *server.Server
}
