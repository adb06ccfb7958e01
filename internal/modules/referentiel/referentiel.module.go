package referentiel

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"evoluflow-core/internal/infrastructure/database/postgres"
	redisInfra "evoluflow-core/internal/infrastructure/database/redis"
	"evoluflow-core/internal/modules/referentiel/controllers"
	"evoluflow-core/internal/modules/referentiel/descriptor"
	"evoluflow-core/internal/modules/referentiel/queries"
	"evoluflow-core/internal/modules/referentiel/services"
	authMiddleware "evoluflow-core/internal/shared/middleware/auth"
)

// Module regroupe tous les providers du moteur de référentiel générique
var Module = fx.Options(
	fx.Provide(descriptor.NewCatalogRegistry),

	fx.Provide(services.NewListQueryService),
	fx.Provide(services.NewValidationService),
	fx.Provide(services.NewReferenceGeneratorService),
	fx.Provide(NewResourceStore),
	fx.Provide(NewSnapshotCache),
	fx.Provide(services.NewResourceService),
	fx.Provide(services.NewExportService),

	fx.Provide(controllers.NewResourceController),

	fx.Invoke(RegisterReferentielRoutes),
)

// NewResourceStore fournit la persistance PostgreSQL sous le contrat générique
func NewResourceStore(db *postgres.Client) services.ResourceStore {
	return queries.NewPostgresResourceStore(db)
}

// NewSnapshotCache fournit le cache d'instantanés Redis
func NewSnapshotCache(redis *redisInfra.Client) services.SnapshotCache {
	return services.NewResourceCacheService(redis)
}

// RegisterReferentielRoutes configure les routes Gin du référentiel.
// Toutes les routes exigent une session valide.
func RegisterReferentielRoutes(
	r *gin.Engine,
	ctrl *controllers.ResourceController,
	sessionMiddleware *authMiddleware.SessionMiddleware,
) {
	api := r.Group("/api/v1/referentiel")
	api.Use(sessionMiddleware.Handler())
	{
		api.GET("/:entity/list", ctrl.List)
		api.GET("/:entity/by-reference/:reference", ctrl.GetByReference)
		api.GET("/:entity/next-reference", ctrl.NextReference)
		api.POST("/:entity/add", ctrl.Add)
		api.PUT("/:entity/update/:reference", ctrl.Update)
		api.DELETE("/:entity/delete/:reference", ctrl.Delete)
		api.POST("/:entity/delete", ctrl.BulkDelete)
		api.POST("/:entity/export", ctrl.Export)
	}
}
