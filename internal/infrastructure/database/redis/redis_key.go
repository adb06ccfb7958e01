package redis

import (
	"fmt"
	"regexp"
	"strings"
)

// RedisKeyGenerator génère et valide les clés Redis selon les conventions EvoluFlow
type RedisKeyGenerator struct{}

// NewRedisKeyGenerator crée une nouvelle instance du générateur
func NewRedisKeyGenerator() *RedisKeyGenerator {
	return &RedisKeyGenerator{}
}

// RedisKeyPattern définit les patterns standards des clés selon les conventions
// Pattern: evoluflow_{domain}_{context}:{identifier}
type RedisKeyPattern struct {
	Domain  string // auth, cache, referentiel, theme
	Context string // session, blacklist, snapshot, sequence, etc.
	TTL     int    // TTL en secondes, 0 = pas d'expiration
}

// Patterns prédéfinis selon les conventions du projet
// Note : Seuls les patterns réellement implémentés sont listés ici
var RedisKeyPatterns = map[string]RedisKeyPattern{
	"auth_session":         {Domain: "auth", Context: "session", TTL: 3600},
	"auth_blacklist":       {Domain: "auth", Context: "blacklist", TTL: 3600},
	"auth_user_sessions":   {Domain: "auth", Context: "user_sessions", TTL: 0},
	"referentiel_snapshot": {Domain: "referentiel", Context: "snapshot", TTL: 60},
	"referentiel_sequence": {Domain: "referentiel", Context: "sequence", TTL: 0}, // TTL calculé à la fin du mois
	"theme_overrides":      {Domain: "theme", Context: "overrides", TTL: 300},
}

// GenerateKey génère une clé Redis selon la convention : evoluflow_{domain}_{context}:{identifier}
func (rkg *RedisKeyGenerator) GenerateKey(patternName string, identifier ...string) (string, error) {
	pattern, exists := RedisKeyPatterns[patternName]
	if !exists {
		return "", fmt.Errorf("pattern Redis non trouvé: %s", patternName)
	}

	prefix := fmt.Sprintf("evoluflow_%s_%s", pattern.Domain, pattern.Context)

	if len(identifier) > 0 {
		identifierStr := strings.Join(identifier, "_")
		return fmt.Sprintf("%s:%s", prefix, identifierStr), nil
	}

	// Si pas d'identifier, retourner juste le préfixe (pour les clés singleton)
	return prefix, nil
}

// GetTTL récupère le TTL d'un pattern
func (rkg *RedisKeyGenerator) GetTTL(patternName string) (int, error) {
	pattern, exists := RedisKeyPatterns[patternName]
	if !exists {
		return 0, fmt.Errorf("pattern Redis non trouvé: %s", patternName)
	}
	return pattern.TTL, nil
}

// ValidateKey valide qu'une clé respecte les conventions
func (rkg *RedisKeyGenerator) ValidateKey(key string) error {
	if len(key) == 0 {
		return fmt.Errorf("clé vide")
	}

	if len(key) > 250 {
		return fmt.Errorf("clé trop longue (max 250 caractères): %d", len(key))
	}

	validKeyRegex := regexp.MustCompile(`^[a-zA-Z0-9_:\-]+$`)
	if !validKeyRegex.MatchString(key) {
		return fmt.Errorf("clé contient des caractères invalides: %s", key)
	}

	// Vérification convention evoluflow_{domain}_{context}
	if !strings.HasPrefix(key, "evoluflow_") {
		return fmt.Errorf("clé doit commencer par 'evoluflow_': %s", key)
	}

	parts := strings.SplitN(key, ":", 2)
	prefix := parts[0]

	prefixParts := strings.Split(prefix, "_")
	if len(prefixParts) < 3 {
		return fmt.Errorf("structure préfixe invalide (format: evoluflow_domain_context): %s", prefix)
	}

	return nil
}

// GenerateWildcardPattern génère un pattern wildcard pour recherche par domaine/context
func (rkg *RedisKeyGenerator) GenerateWildcardPattern(domain, context string) string {
	return fmt.Sprintf("evoluflow_%s_%s*", domain, context)
}

// ListAllPatterns retourne tous les patterns disponibles
func (rkg *RedisKeyGenerator) ListAllPatterns() map[string]RedisKeyPattern {
	return RedisKeyPatterns
}

// RedisKeyInfo contient les informations d'une clé analysée selon les conventions
type RedisKeyInfo struct {
	Domain     string
	Context    string
	Identifier string
	IsValid    bool
	Error      string
}

// AnalyzeKey analyse et décompose une clé Redis selon les conventions
func (rkg *RedisKeyGenerator) AnalyzeKey(key string) RedisKeyInfo {
	info := RedisKeyInfo{
		IsValid: false,
	}

	if err := rkg.ValidateKey(key); err != nil {
		info.Error = err.Error()
		return info
	}

	parts := strings.SplitN(key, ":", 2)
	prefix := parts[0]

	if len(parts) > 1 {
		info.Identifier = parts[1]
	}

	// Analyse du préfixe evoluflow_domain_context
	prefixParts := strings.Split(prefix, "_")
	if len(prefixParts) >= 3 {
		info.Domain = prefixParts[1]
		info.Context = strings.Join(prefixParts[2:], "_")
	}

	info.IsValid = true
	return info
}
