package queries

// UserQueries regroupe les requêtes SQL du domaine authentification
var UserQueries = struct {
	GetUserByIdentifiant  string
	CheckUserExists       string
	CreateUser            string
	GetPasswordHash       string
	UpdatePassword        string
	UpdateLastLogin       string
	CreateSession         string
	GetSession            string
	DeleteSession         string
	DeleteExpiredSessions string
	CountUsers            string
}{
	/**
	 * Récupère un utilisateur actif par son identifiant de connexion
	 * Paramètres: $1 = identifiant
	 */
	GetUserByIdentifiant: `
		SELECT id, identifiant, nom, prenoms, password_hash,
			est_admin, must_change_password
		FROM user_utilisateur
		WHERE identifiant = $1
			AND statut = 'actif'
	`,

	/**
	 * Vérifie si un identifiant est déjà utilisé
	 * Paramètres: $1 = identifiant
	 */
	CheckUserExists: `
		SELECT EXISTS(
			SELECT 1 FROM user_utilisateur WHERE identifiant = $1
		)
	`,

	/**
	 * Crée un utilisateur
	 * Paramètres: $1 = id, $2 = identifiant, $3 = nom, $4 = prenoms,
	 *            $5 = password_hash, $6 = est_admin, $7 = must_change_password
	 */
	CreateUser: `
		INSERT INTO user_utilisateur (
			id, identifiant, nom, prenoms, password_hash,
			est_admin, must_change_password, statut, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, 'actif', NOW())
	`,

	/**
	 * Récupère le hash du mot de passe d'un utilisateur actif
	 * Paramètres: $1 = user_id
	 */
	GetPasswordHash: `
			SELECT password_hash
			FROM user_utilisateur
			WHERE id = $1
				AND statut = 'actif'
		`,

	/**
	 * Remplace le mot de passe et lève l'obligation de changement
	 * Paramètres: $1 = user_id, $2 = password_hash
	 */
	UpdatePassword: `
			UPDATE user_utilisateur
			SET password_hash = $2, must_change_password = FALSE
			WHERE id = $1
		`,

	/**
	 * Met à jour la date de dernière connexion
	 * Paramètres: $1 = user_id
	 */
	UpdateLastLogin: `
		UPDATE user_utilisateur SET last_login_at = NOW() WHERE id = $1
	`,

	/**
	 * Crée une session de repli en PostgreSQL
	 * Paramètres: $1 = token, $2 = user_id, $3 = expires_at
	 */
	CreateSession: `
		INSERT INTO auth_session (token, user_id, created_at, expires_at)
		VALUES ($1, $2, NOW(), $3)
		ON CONFLICT (token) DO NOTHING
	`,

	/**
	 * Récupère une session non expirée avec son utilisateur
	 * Paramètres: $1 = token
	 */
	GetSession: `
		SELECT s.token, s.expires_at, u.id, u.identifiant, u.nom, u.est_admin
		FROM auth_session s
		JOIN user_utilisateur u ON u.id = s.user_id
		WHERE s.token = $1
			AND s.expires_at > NOW()
	`,

	/**
	 * Supprime une session (logout)
	 * Paramètres: $1 = token
	 */
	DeleteSession: `
		DELETE FROM auth_session WHERE token = $1
	`,

	/**
	 * Purge les sessions expirées
	 */
	DeleteExpiredSessions: `
		DELETE FROM auth_session WHERE expires_at <= NOW()
	`,

	/**
	 * Compte les utilisateurs
	 */
	CountUsers: `
		SELECT COUNT(*) FROM user_utilisateur
	`,
}
