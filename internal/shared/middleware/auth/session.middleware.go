package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"evoluflow-core/internal/infrastructure/database/postgres"
	redisInfra "evoluflow-core/internal/infrastructure/database/redis"
	"evoluflow-core/internal/modules/auth/dto"
	"evoluflow-core/internal/modules/auth/services"
)

// SessionMiddleware valide le token Bearer et enrichit le contexte Gin
// avec l'identité de l'utilisateur connecté
type SessionMiddleware struct {
	sessionService *services.SessionService
}

// NewSessionMiddleware crée une nouvelle instance du middleware de session
func NewSessionMiddleware(db *postgres.Client, redisClient *redisInfra.Client) *SessionMiddleware {
	return &SessionMiddleware{
		sessionService: services.NewSessionService(db, redisClient),
	}
}

// Handler retourne le middleware Gin de validation de session
func (m *SessionMiddleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c.GetHeader("Authorization"))
		if token == "" {
			m.respondError(c, "TOKEN_REQUIRED", "Token d'authentification requis", map[string]interface{}{
				"header_format": "Authorization: Bearer {token}",
			})
			return
		}

		session, err := m.sessionService.GetSession(c.Request.Context(), token)
		if err != nil {
			if authErr, ok := err.(*dto.AuthError); ok {
				m.respondError(c, authErr.Code, authErr.Message, authErr.Details)
				return
			}
			m.respondError(c, "SESSION_VALIDATION_ERROR", "Erreur lors de la validation de la session", nil)
			return
		}

		c.Set("token", token)
		c.Set("user_id", session.UserID)
		c.Set("identifiant", session.Identifiant)
		c.Set("est_admin", session.EstAdmin)

		c.Next()
	}
}

// RequireAdmin bloque les utilisateurs non administrateurs.
// S'empile après Handler.
func (m *SessionMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool("est_admin") {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Accès réservé aux administrateurs",
				"details": map[string]interface{}{
					"code": "ADMIN_REQUIRED",
				},
			})
			c.Abort()
			return
		}
		c.Next()
	}
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

func (m *SessionMiddleware) respondError(c *gin.Context, code, message string, details map[string]interface{}) {
	payload := map[string]interface{}{"code": code}
	for k, v := range details {
		payload[k] = v
	}
	c.JSON(http.StatusUnauthorized, gin.H{
		"error":   message,
		"details": payload,
	})
	c.Abort()
}
