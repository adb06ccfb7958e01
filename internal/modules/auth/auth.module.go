package auth

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"evoluflow-core/internal/modules/auth/controllers"
	"evoluflow-core/internal/modules/auth/services"
	authMiddleware "evoluflow-core/internal/shared/middleware/auth"
)

// Module regroupe tous les providers du domaine Auth
var Module = fx.Options(
	fx.Provide(services.NewSessionService),
	fx.Provide(services.NewAuthService),

	fx.Provide(controllers.NewAuthController),

	fx.Invoke(RegisterAuthRoutes),
)

// RegisterAuthRoutes configure les routes Gin pour l'authentification
func RegisterAuthRoutes(
	r *gin.Engine,
	authController *controllers.AuthController,
	sessionMiddleware *authMiddleware.SessionMiddleware,
) {
	authAPI := r.Group("/api/v1/auth")
	{
		authAPI.POST("/login", authController.Login)
		authAPI.POST("/logout", authController.Logout)
	}

	protectedAuthAPI := r.Group("/api/v1/auth")
	protectedAuthAPI.Use(sessionMiddleware.Handler())
	{
		protectedAuthAPI.GET("/me", authController.Me)
		protectedAuthAPI.POST("/change-password", authController.ChangePassword)
	}
}
