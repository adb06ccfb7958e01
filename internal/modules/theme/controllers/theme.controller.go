package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"evoluflow-core/internal/modules/theme/dto"
	"evoluflow-core/internal/modules/theme/services"
)

type ThemeController struct {
	themeService *services.ThemeService
}

// NewThemeController crée une nouvelle instance du contrôleur de thème
func NewThemeController(themeService *services.ThemeService) *ThemeController {
	return &ThemeController{
		themeService: themeService,
	}
}

// GetTheme - GET /api/v1/theme
func (c *ThemeController) GetTheme(ctx *gin.Context) {
	result, err := c.themeService.GetTheme(ctx.Request.Context(), ctx.GetString("user_id"))
	if err != nil {
		c.respondInternalError(ctx, "Erreur lors de la récupération du thème")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}

// UpdateTheme - PUT /api/v1/theme
func (c *ThemeController) UpdateTheme(ctx *gin.Context) {
	var req dto.UpdateThemeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "Palette invalide",
			"details": map[string]interface{}{
				"code":    "INVALID_REQUEST_FORMAT",
				"message": err.Error(),
			},
		})
		return
	}

	result, err := c.themeService.UpdateTheme(ctx.Request.Context(), ctx.GetString("user_id"), req.Palette)
	if err != nil {
		c.respondInternalError(ctx, "Erreur lors de la mise à jour du thème")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}

// ResetTheme - DELETE /api/v1/theme
func (c *ThemeController) ResetTheme(ctx *gin.Context) {
	result, err := c.themeService.ResetTheme(ctx.Request.Context(), ctx.GetString("user_id"))
	if err != nil {
		c.respondInternalError(ctx, "Erreur lors de la réinitialisation du thème")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}

// ListPresets - GET /api/v1/theme/presets
func (c *ThemeController) ListPresets(ctx *gin.Context) {
	presets, err := c.themeService.ListPresets(ctx.Request.Context())
	if err != nil {
		c.respondInternalError(ctx, "Erreur lors de la récupération des préréglages")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    presets,
	})
}

// ApplyPreset - POST /api/v1/theme/presets/:code/apply
func (c *ThemeController) ApplyPreset(ctx *gin.Context) {
	code := strings.TrimSpace(ctx.Param("code"))
	if code == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "Code de préréglage requis",
			"details": map[string]interface{}{
				"code": "PRESET_CODE_REQUIRED",
			},
		})
		return
	}

	result, err := c.themeService.ApplyPreset(ctx.Request.Context(), ctx.GetString("user_id"), code)
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{
			"error": "Préréglage introuvable",
			"details": map[string]interface{}{
				"code":        "PRESET_NOT_FOUND",
				"preset_code": code,
			},
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}

func (c *ThemeController) respondInternalError(ctx *gin.Context, message string) {
	ctx.JSON(http.StatusInternalServerError, gin.H{
		"error": message,
		"details": map[string]interface{}{
			"code": "INTERNAL_ERROR",
		},
	})
}
