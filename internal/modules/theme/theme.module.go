package theme

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"evoluflow-core/internal/modules/theme/controllers"
	"evoluflow-core/internal/modules/theme/services"
	authMiddleware "evoluflow-core/internal/shared/middleware/auth"
)

// Module regroupe tous les providers du domaine Theme
var Module = fx.Options(
	fx.Provide(services.NewThemeService),

	fx.Provide(controllers.NewThemeController),

	fx.Invoke(RegisterThemeRoutes),
)

// RegisterThemeRoutes configure les routes Gin pour la personnalisation visuelle
func RegisterThemeRoutes(
	r *gin.Engine,
	themeController *controllers.ThemeController,
	sessionMiddleware *authMiddleware.SessionMiddleware,
) {
	themeAPI := r.Group("/api/v1/theme")
	themeAPI.Use(sessionMiddleware.Handler())
	{
		themeAPI.GET("", themeController.GetTheme)
		themeAPI.PUT("", themeController.UpdateTheme)
		themeAPI.DELETE("", themeController.ResetTheme)
		themeAPI.GET("/presets", themeController.ListPresets)
		themeAPI.POST("/presets/:code/apply", themeController.ApplyPreset)
	}
}
