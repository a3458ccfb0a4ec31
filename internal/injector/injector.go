//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/simmeta/internal/appconfig"
)

func InitializeApp(cfg *appconfig.Config) *App {
	wire.Build(ProviderSet, wire.Struct(new(App), "*"))
	return nil
}
