package dto

// LoginRequest représente la requête de connexion
type LoginRequest struct {
	Identifiant string `json:"identifiant" validate:"required,min=3,max=50"`
	Password    string `json:"password" validate:"required,min=6"`
}

// LoginResponse représente la réponse de connexion réussie
type LoginResponse struct {
	Token     string   `json:"token"`
	ExpiresAt string   `json:"expires_at"`
	User      UserData `json:"user"`
}

// UserData représente les informations utilisateur exposées à l'interface
type UserData struct {
	ID                 string `json:"id"`
	Identifiant        string `json:"identifiant"`
	Nom                string `json:"nom"`
	Prenoms            string `json:"prenoms"`
	EstAdmin           bool   `json:"est_admin"`
	MustChangePassword bool   `json:"must_change_password"`
}

// ChangePasswordRequest représente la requête de changement de mot de passe
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// LogoutResponse représente la réponse de déconnexion
type LogoutResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// MeResponse représente la réponse du endpoint /me
type MeResponse struct {
	User    UserData    `json:"user"`
	Session SessionInfo `json:"session"`
}

// SessionInfo représente les informations de session
type SessionInfo struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

// SessionData représente les données de session stockées dans Redis
type SessionData struct {
	UserID       string `json:"user_id"`
	Identifiant  string `json:"identifiant"`
	Nom          string `json:"nom"`
	EstAdmin     bool   `json:"est_admin"`
	IPAddress    string `json:"ip_address"`
	UserAgent    string `json:"user_agent"`
	CreatedAt    string `json:"created_at"`
	LastActivity string `json:"last_activity"`
	ExpiresAt    string `json:"expires_at"`
}

// ToMap convertit la session en hash Redis
func (s *SessionData) ToMap() map[string]interface{} {
	estAdmin := "0"
	if s.EstAdmin {
		estAdmin = "1"
	}
	return map[string]interface{}{
		"user_id":       s.UserID,
		"identifiant":   s.Identifiant,
		"nom":           s.Nom,
		"est_admin":     estAdmin,
		"ip_address":    s.IPAddress,
		"user_agent":    s.UserAgent,
		"created_at":    s.CreatedAt,
		"last_activity": s.LastActivity,
		"expires_at":    s.ExpiresAt,
	}
}

// FromMap reconstruit la session depuis un hash Redis
func SessionFromMap(values map[string]string) *SessionData {
	return &SessionData{
		UserID:       values["user_id"],
		Identifiant:  values["identifiant"],
		Nom:          values["nom"],
		EstAdmin:     values["est_admin"] == "1",
		IPAddress:    values["ip_address"],
		UserAgent:    values["user_agent"],
		CreatedAt:    values["created_at"],
		LastActivity: values["last_activity"],
		ExpiresAt:    values["expires_at"],
	}
}

// AuthError représente une erreur d'authentification typée
type AuthError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *AuthError) Error() string {
	return e.Message
}

// NewAuthError crée une erreur d'authentification
func NewAuthError(code, message string, details map[string]interface{}) *AuthError {
	return &AuthError{Code: code, Message: message, Details: details}
}
