package services

import (
	"context"
	"fmt"
	"time"

	"evoluflow-core/internal/infrastructure/database/postgres"
	redisInfra "evoluflow-core/internal/infrastructure/database/redis"
	"evoluflow-core/internal/modules/auth/dto"
	"evoluflow-core/internal/modules/auth/queries"
)

// Patterns Redis du domaine auth, déclarés dans RedisKeyPatterns.
// Le TTL de session vient du pattern auth_session : une seule source.
const (
	sessionPattern      = "auth_session"
	blacklistPattern    = "auth_blacklist"
	userSessionsPattern = "auth_user_sessions"
)

// SessionService gère les sessions dans Redis avec repli PostgreSQL
type SessionService struct {
	db          *postgres.Client
	redisClient *redisInfra.Client
	ttl         time.Duration
}

// NewSessionService crée une nouvelle instance du service de session
func NewSessionService(db *postgres.Client, redisClient *redisInfra.Client) *SessionService {
	ttl, err := redisClient.PatternTTL(sessionPattern)
	if err != nil || ttl == 0 {
		ttl = time.Hour
	}
	return &SessionService{
		db:          db,
		redisClient: redisClient,
		ttl:         ttl,
	}
}

// TTL retourne la durée de vie d'une session, glissante sur l'activité
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

// CreateSession crée une session dans Redis, avec une ligne de repli PostgreSQL
func (s *SessionService) CreateSession(ctx context.Context, token string, sessionData *dto.SessionData) error {
	if err := s.createSessionRedis(ctx, token, sessionData); err != nil {
		// Redis indisponible : PostgreSQL seul fait foi
		return s.createSessionPostgres(ctx, token, sessionData)
	}

	s.createSessionPostgres(ctx, token, sessionData)
	return nil
}

// GetSession valide un token et retourne la session, Redis d'abord
func (s *SessionService) GetSession(ctx context.Context, token string) (*dto.SessionData, error) {
	if s.isTokenBlacklisted(ctx, token) {
		return nil, dto.NewAuthError("TOKEN_REVOKED", "Token révoqué", nil)
	}

	if session, err := s.getSessionRedis(ctx, token); err == nil {
		s.touchSession(ctx, token, session)
		return session, nil
	}

	session, err := s.getSessionPostgres(ctx, token)
	if err != nil {
		return nil, dto.NewAuthError("INVALID_TOKEN", "Session invalide ou expirée", nil)
	}

	// Re-synchronisation vers Redis, best effort
	s.createSessionRedis(ctx, token, session)
	return session, nil
}

// DeleteSession révoque une session de manière idempotente :
// blacklist Redis, suppression Redis, suppression PostgreSQL.
func (s *SessionService) DeleteSession(ctx context.Context, token, userID string) error {
	s.blacklistToken(ctx, token)

	pipe := s.redisClient.Client().Pipeline()
	pipe.Del(ctx, s.sessionKey(token))
	if userID != "" {
		pipe.SRem(ctx, s.userSessionsKey(userID), token)
	}
	pipe.Exec(ctx)

	s.db.Exec(ctx, queries.UserQueries.DeleteSession, token)
	return nil
}

// sessionKey construit la clé Redis d'une session selon le pattern standard
func (s *SessionService) sessionKey(token string) string {
	key, _ := s.redisClient.GenerateKey(sessionPattern, token)
	return key
}

func (s *SessionService) userSessionsKey(userID string) string {
	key, _ := s.redisClient.GenerateKey(userSessionsPattern, userID)
	return key
}

func (s *SessionService) createSessionRedis(ctx context.Context, token string, sessionData *dto.SessionData) error {
	pipe := s.redisClient.Client().Pipeline()

	sessionKey := s.sessionKey(token)
	pipe.HSet(ctx, sessionKey, sessionData.ToMap())
	pipe.Expire(ctx, sessionKey, s.ttl)

	userSessionsKey := s.userSessionsKey(sessionData.UserID)
	pipe.SAdd(ctx, userSessionsKey, token)
	pipe.Expire(ctx, userSessionsKey, s.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("création session Redis: %w", err)
	}
	return nil
}

func (s *SessionService) createSessionPostgres(ctx context.Context, token string, sessionData *dto.SessionData) error {
	expiresAt, err := time.Parse(time.RFC3339, sessionData.ExpiresAt)
	if err != nil {
		expiresAt = time.Now().Add(s.ttl)
	}
	if err := s.db.Exec(ctx, queries.UserQueries.CreateSession, token, sessionData.UserID, expiresAt); err != nil {
		return fmt.Errorf("création session PostgreSQL: %w", err)
	}
	return nil
}

func (s *SessionService) getSessionRedis(ctx context.Context, token string) (*dto.SessionData, error) {
	values, err := s.redisClient.Client().HGetAll(ctx, s.sessionKey(token)).Result()
	if err != nil {
		return nil, fmt.Errorf("lecture session Redis: %w", err)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("session absente de Redis")
	}
	return dto.SessionFromMap(values), nil
}

func (s *SessionService) getSessionPostgres(ctx context.Context, token string) (*dto.SessionData, error) {
	var (
		sessionToken string
		expiresAt    time.Time
		userID       string
		identifiant  string
		nom          string
		estAdmin     bool
	)

	err := s.db.QueryRow(ctx, queries.UserQueries.GetSession, token).
		Scan(&sessionToken, &expiresAt, &userID, &identifiant, &nom, &estAdmin)
	if err != nil {
		return nil, fmt.Errorf("lecture session PostgreSQL: %w", err)
	}

	now := time.Now().Format(time.RFC3339)
	return &dto.SessionData{
		UserID:       userID,
		Identifiant:  identifiant,
		Nom:          nom,
		EstAdmin:     estAdmin,
		CreatedAt:    now,
		LastActivity: now,
		ExpiresAt:    expiresAt.Format(time.RFC3339),
	}, nil
}

// touchSession fait glisser l'activité et le TTL, best effort
func (s *SessionService) touchSession(ctx context.Context, token string, session *dto.SessionData) {
	session.LastActivity = time.Now().Format(time.RFC3339)

	sessionKey := s.sessionKey(token)
	pipe := s.redisClient.Client().Pipeline()
	pipe.HSet(ctx, sessionKey, "last_activity", session.LastActivity)
	pipe.Expire(ctx, sessionKey, s.ttl)
	pipe.Exec(ctx)
}

func (s *SessionService) blacklistToken(ctx context.Context, token string) {
	s.redisClient.SetWithPattern(ctx, blacklistPattern, "1", token)
}

func (s *SessionService) isTokenBlacklisted(ctx context.Context, token string) bool {
	value, err := s.redisClient.GetWithPattern(ctx, blacklistPattern, token)
	return err == nil && value == "1"
}
