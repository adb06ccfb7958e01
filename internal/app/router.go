package app

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"evoluflow-core/internal/app/config"
	"evoluflow-core/internal/infrastructure/logger"
)

// NewRouter construit le moteur Gin avec les middlewares transverses.
// Les routes métier sont enregistrées par les modules via fx.Invoke.
func NewRouter(cfg *config.Config, loggerMiddleware *logger.LoggerMiddleware) *gin.Engine {
	configureGinMode(cfg.App.Environment)

	r := gin.New()

	r.Use(loggerMiddleware.GinLogger())
	r.Use(loggerMiddleware.GinRecovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           time.Duration(cfg.CORS.MaxAge) * time.Second,
	}))

	return r
}

// configureGinMode configure le mode Gin selon l'environnement
func configureGinMode(environment string) {
	switch environment {
	case "docker":
		gin.SetMode(gin.ReleaseMode)
	case "development":
		gin.SetMode(gin.DebugMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
}
