package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"evoluflow-core/internal/infrastructure/database/postgres"
	"evoluflow-core/internal/modules/auth/dto"
	"evoluflow-core/internal/modules/auth/queries"
	"evoluflow-core/internal/shared/utils"
)

// AuthService orchestre connexion et déconnexion
type AuthService struct {
	db             *postgres.Client
	sessionService *SessionService
}

// NewAuthService crée une nouvelle instance du service d'authentification
func NewAuthService(db *postgres.Client, sessionService *SessionService) *AuthService {
	return &AuthService{
		db:             db,
		sessionService: sessionService,
	}
}

// Login vérifie les identifiants et ouvre une session
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest, ipAddress, userAgent string) (*dto.LoginResponse, error) {
	var (
		userID             string
		identifiant        string
		nom                string
		prenoms            string
		passwordHash       string
		estAdmin           bool
		mustChangePassword bool
	)

	err := s.db.QueryRow(ctx, queries.UserQueries.GetUserByIdentifiant, req.Identifiant).
		Scan(&userID, &identifiant, &nom, &prenoms, &passwordHash, &estAdmin, &mustChangePassword)
	if err == pgx.ErrNoRows {
		return nil, dto.NewAuthError("INVALID_CREDENTIALS", "Identifiant ou mot de passe incorrect", nil)
	}
	if err != nil {
		return nil, dto.NewAuthError("LOGIN_FAILED", "Erreur lors de la connexion", nil)
	}

	if !utils.VerifyPassword(req.Password, passwordHash) {
		return nil, dto.NewAuthError("INVALID_CREDENTIALS", "Identifiant ou mot de passe incorrect", nil)
	}

	token := uuid.NewString()
	now := time.Now()
	expiresAt := now.Add(s.sessionService.TTL())

	sessionData := &dto.SessionData{
		UserID:       userID,
		Identifiant:  identifiant,
		Nom:          nom,
		EstAdmin:     estAdmin,
		IPAddress:    ipAddress,
		UserAgent:    userAgent,
		CreatedAt:    now.Format(time.RFC3339),
		LastActivity: now.Format(time.RFC3339),
		ExpiresAt:    expiresAt.Format(time.RFC3339),
	}

	if err := s.sessionService.CreateSession(ctx, token, sessionData); err != nil {
		return nil, dto.NewAuthError("SESSION_CREATION_FAILED", "Impossible de créer la session", nil)
	}

	// best effort, la connexion n'échoue pas sur l'audit
	s.db.Exec(ctx, queries.UserQueries.UpdateLastLogin, userID)

	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt.Format(time.RFC3339),
		User: dto.UserData{
			ID:                 userID,
			Identifiant:        identifiant,
			Nom:                nom,
			Prenoms:            prenoms,
			EstAdmin:           estAdmin,
			MustChangePassword: mustChangePassword,
		},
	}, nil
}

// Logout révoque la session, toujours avec succès (idempotent)
func (s *AuthService) Logout(ctx context.Context, token, userID string) *dto.LogoutResponse {
	s.sessionService.DeleteSession(ctx, token, userID)
	return &dto.LogoutResponse{
		Success: true,
		Message: "Déconnexion réussie",
	}
}

// ChangePassword remplace le mot de passe après vérification de l'actuel
// et lève le drapeau must_change_password
func (s *AuthService) ChangePassword(ctx context.Context, userID string, req dto.ChangePasswordRequest) error {
	var passwordHash string
	err := s.db.QueryRow(ctx, queries.UserQueries.GetPasswordHash, userID).Scan(&passwordHash)
	if err == pgx.ErrNoRows {
		return dto.NewAuthError("USER_NOT_FOUND", "Utilisateur introuvable", nil)
	}
	if err != nil {
		return dto.NewAuthError("PASSWORD_CHANGE_FAILED", "Erreur lors du changement de mot de passe", nil)
	}

	if !utils.VerifyPassword(req.CurrentPassword, passwordHash) {
		return dto.NewAuthError("INVALID_CURRENT_PASSWORD", "Mot de passe actuel incorrect", nil)
	}

	newHash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return dto.NewAuthError("PASSWORD_CHANGE_FAILED", "Erreur lors du changement de mot de passe", nil)
	}

	if err := s.db.Exec(ctx, queries.UserQueries.UpdatePassword, userID, newHash); err != nil {
		return dto.NewAuthError("PASSWORD_CHANGE_FAILED", "Erreur lors du changement de mot de passe", nil)
	}
	return nil
}

// ValidateSession valide un token et retourne la session
func (s *AuthService) ValidateSession(ctx context.Context, token string) (*dto.SessionData, error) {
	return s.sessionService.GetSession(ctx, token)
}
