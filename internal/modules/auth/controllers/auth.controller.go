package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"evoluflow-core/internal/modules/auth/dto"
	"evoluflow-core/internal/modules/auth/services"
)

type AuthController struct {
	authService *services.AuthService
	validator   *validator.Validate
}

// NewAuthController crée une nouvelle instance du contrôleur d'authentification
func NewAuthController(authService *services.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
		validator:   validator.New(),
	}
}

// Login - POST /api/v1/auth/login
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "Données de connexion invalides",
			"details": map[string]interface{}{
				"code":    "INVALID_REQUEST_FORMAT",
				"message": err.Error(),
			},
		})
		return
	}

	if strings.TrimSpace(req.Identifiant) == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "Identifiant requis",
			"details": map[string]interface{}{
				"code": "IDENTIFIANT_REQUIRED",
			},
		})
		return
	}
	if strings.TrimSpace(req.Password) == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "Mot de passe requis",
			"details": map[string]interface{}{
				"code": "PASSWORD_REQUIRED",
			},
		})
		return
	}
	if err := c.validator.Struct(req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "Données de connexion invalides",
			"details": map[string]interface{}{
				"code":    "VALIDATION_ERROR",
				"message": err.Error(),
			},
		})
		return
	}

	result, err := c.authService.Login(ctx.Request.Context(), req, ctx.ClientIP(), ctx.Request.UserAgent())
	if err != nil {
		if authErr, ok := err.(*dto.AuthError); ok {
			status := http.StatusUnauthorized
			if authErr.Code == "LOGIN_FAILED" || authErr.Code == "SESSION_CREATION_FAILED" {
				status = http.StatusInternalServerError
			}
			ctx.JSON(status, gin.H{
				"error": authErr.Message,
				"details": map[string]interface{}{
					"code": authErr.Code,
				},
			})
			return
		}

		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error": "Erreur lors de la connexion",
			"details": map[string]interface{}{
				"code": "INTERNAL_ERROR",
			},
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}

// Logout - POST /api/v1/auth/logout
// Toujours en succès : la déconnexion est idempotente
func (c *AuthController) Logout(ctx *gin.Context) {
	token := extractBearerToken(ctx.GetHeader("Authorization"))
	if token == "" {
		ctx.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": dto.LogoutResponse{
				Success: true,
				Message: "Déconnexion réussie",
			},
		})
		return
	}

	result := c.authService.Logout(ctx.Request.Context(), token, ctx.GetString("user_id"))
	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}

// ChangePassword - POST /api/v1/auth/change-password
func (c *AuthController) ChangePassword(ctx *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "Données invalides",
			"details": map[string]interface{}{
				"code":    "INVALID_REQUEST_FORMAT",
				"message": err.Error(),
			},
		})
		return
	}
	if err := c.validator.Struct(req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "Le nouveau mot de passe doit contenir au moins 8 caractères",
			"details": map[string]interface{}{
				"code":    "VALIDATION_ERROR",
				"message": err.Error(),
			},
		})
		return
	}

	err := c.authService.ChangePassword(ctx.Request.Context(), ctx.GetString("user_id"), req)
	if err != nil {
		if authErr, ok := err.(*dto.AuthError); ok {
			status := http.StatusInternalServerError
			if authErr.Code == "INVALID_CURRENT_PASSWORD" {
				status = http.StatusBadRequest
			}
			ctx.JSON(status, gin.H{
				"error": authErr.Message,
				"details": map[string]interface{}{
					"code": authErr.Code,
				},
			})
			return
		}

		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error": "Erreur lors du changement de mot de passe",
			"details": map[string]interface{}{
				"code": "INTERNAL_ERROR",
			},
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"message": "Mot de passe modifié avec succès",
		},
	})
}

// Me - GET /api/v1/auth/me
// Derrière le SessionMiddleware : le contexte porte déjà la session validée
func (c *AuthController) Me(ctx *gin.Context) {
	token := ctx.GetString("token")

	session, err := c.authService.ValidateSession(ctx.Request.Context(), token)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{
			"error": "Session invalide ou expirée",
			"details": map[string]interface{}{
				"code": "INVALID_TOKEN",
			},
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": dto.MeResponse{
			User: dto.UserData{
				ID:          session.UserID,
				Identifiant: session.Identifiant,
				Nom:         session.Nom,
				EstAdmin:    session.EstAdmin,
			},
			Session: dto.SessionInfo{
				Token:     token,
				ExpiresAt: session.ExpiresAt,
			},
		},
	})
}

func extractBearerToken(authHeader string) string {
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
