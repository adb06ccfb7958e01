package app

import (
	"go.uber.org/fx"

	"evoluflow-core/internal/app/bootstrap"
	"evoluflow-core/internal/app/config"
	"evoluflow-core/internal/infrastructure/database"
	"evoluflow-core/internal/infrastructure/logger"
	"evoluflow-core/internal/modules/auth"
	"evoluflow-core/internal/modules/referentiel"
	"evoluflow-core/internal/modules/system"
	"evoluflow-core/internal/modules/theme"
	authMiddleware "evoluflow-core/internal/shared/middleware/auth"
)

var AppModule = fx.Options(
	// Configuration (doit être fournie en premier)
	fx.Provide(config.NewConfig),
	fx.Provide(config.NewPostgresConfig),
	fx.Provide(config.NewRedisConfig),
	fx.Provide(config.NewMongoConfig),

	// Infrastructure
	database.Module,
	logger.Module,

	// Middlewares partagés (après infrastructure, avant modules métier)
	fx.Provide(authMiddleware.NewSessionMiddleware),

	// Modules métier
	referentiel.Module,
	auth.Module,
	theme.Module,
	system.Module,

	// Bootstrap System - Providers
	fx.Provide(bootstrap.NewBootstrapExtensionManager),
	fx.Provide(bootstrap.NewBootstrapSchemaManager),
	fx.Provide(bootstrap.NewBootstrapSeedingService),
	fx.Provide(bootstrap.NewBootstrapSeedingManager),
	fx.Provide(bootstrap.NewBootstrapSystem),

	// Router
	fx.Provide(NewRouter),

	// Application
	fx.Provide(NewApplication),

	// Lifecycle management
	fx.Invoke(bootstrap.RegisterBootstrapLifecycle),
	fx.Invoke((*Application).Start),
)
