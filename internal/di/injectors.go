//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"seenkeeper/internal"
	"seenkeeper/internal/controllers"
	"seenkeeper/internal/migration"
	"seenkeeper/internal/providers"
	"seenkeeper/internal/services"
	"seenkeeper/internal/storage"
	"seenkeeper/internal/storage/legacy"
	"seenkeeper/internal/storage/structured"
	"seenkeeper/internal/structures"
)

var storageSet = wire.NewSet(
	structured.NewOpener,
	wire.Bind(new(storage.Opener), new(*structured.Opener)),
	legacy.NewMirror,
	migration.NewEngine,
	services.NewFallbackResolver,
	services.NewStorageService,
	wire.Bind(new(services.StorageServiceInterface), new(*services.StorageService)),
	services.NewMirrorScheduler,
	wire.Bind(new(services.MirrorSchedulerInterface), new(*services.MirrorScheduler)),
	services.NewRegistrationService,
	wire.Bind(new(services.RegistrationServiceInterface), new(*services.RegistrationService)),
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		storageSet,
		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
