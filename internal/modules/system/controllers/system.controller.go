package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"evoluflow-core/internal/modules/system/services"
)

type SystemController struct {
	systemService *services.SystemService
}

// NewSystemController crée une nouvelle instance du contrôleur système
func NewSystemController(systemService *services.SystemService) *SystemController {
	return &SystemController{
		systemService: systemService,
	}
}

// Health - GET /health
// Vivacité du processus, sans toucher aux dépendances
func (c *SystemController) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Ready - GET /ready
func (c *SystemController) Ready(ctx *gin.Context) {
	result := c.systemService.Ready(ctx.Request.Context())

	status := http.StatusOK
	if !result.Ready {
		status = http.StatusServiceUnavailable
	}
	ctx.JSON(status, result)
}

// Info - GET /api/v1/system/info
func (c *SystemController) Info(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    c.systemService.Info(),
	})
}

// Stats - GET /api/v1/system/stats
func (c *SystemController) Stats(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    c.systemService.Stats(ctx.Request.Context()),
	})
}
