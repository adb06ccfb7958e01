package system

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"evoluflow-core/internal/modules/system/controllers"
	"evoluflow-core/internal/modules/system/services"
	authMiddleware "evoluflow-core/internal/shared/middleware/auth"
)

// Module regroupe tous les providers du domaine System
var Module = fx.Options(
	fx.Provide(services.NewSystemService),

	fx.Provide(controllers.NewSystemController),

	fx.Invoke(RegisterSystemRoutes),
)

// RegisterSystemRoutes configure les sondes publiques et les routes
// d'administration système
func RegisterSystemRoutes(
	r *gin.Engine,
	systemController *controllers.SystemController,
	sessionMiddleware *authMiddleware.SessionMiddleware,
) {
	r.GET("/health", systemController.Health)
	r.GET("/ready", systemController.Ready)

	systemAPI := r.Group("/api/v1/system")
	systemAPI.Use(sessionMiddleware.Handler(), sessionMiddleware.RequireAdmin())
	{
		systemAPI.GET("/info", systemController.Info)
		systemAPI.GET("/stats", systemController.Stats)
	}
}
