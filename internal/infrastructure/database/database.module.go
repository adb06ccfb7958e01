package database

import (
	"go.uber.org/fx"

	"evoluflow-core/internal/infrastructure/database/mongodb"
	"evoluflow-core/internal/infrastructure/database/postgres"
	"evoluflow-core/internal/infrastructure/database/redis"
)

var Module = fx.Options(

	// Modules database
	postgres.Module,
	redis.Module,
	mongodb.Module,
)
