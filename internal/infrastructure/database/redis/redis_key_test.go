package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateKeyFollowsConvention(t *testing.T) {
	generator := NewRedisKeyGenerator()

	key, err := generator.GenerateKey("auth_session", "tok-123")
	require.NoError(t, err)
	assert.Equal(t, "evoluflow_auth_session:tok-123", key)

	key, err = generator.GenerateKey("referentiel_snapshot", "situation")
	require.NoError(t, err)
	assert.Equal(t, "evoluflow_referentiel_snapshot:situation", key)

	// les identifiants multiples sont joints par un underscore
	key, err = generator.GenerateKey("referentiel_sequence", "situation", "2503")
	require.NoError(t, err)
	assert.Equal(t, "evoluflow_referentiel_sequence:situation_2503", key)

	_, err = generator.GenerateKey("pattern_inconnu")
	assert.Error(t, err)
}

func TestGetTTLPerPattern(t *testing.T) {
	generator := NewRedisKeyGenerator()

	ttl, err := generator.GetTTL("auth_session")
	require.NoError(t, err)
	assert.Equal(t, 3600, ttl)

	ttl, err = generator.GetTTL("referentiel_snapshot")
	require.NoError(t, err)
	assert.Equal(t, 60, ttl)

	// pas de TTL : l'expiration est gérée par l'appelant
	ttl, err = generator.GetTTL("referentiel_sequence")
	require.NoError(t, err)
	assert.Equal(t, 0, ttl)

	_, err = generator.GetTTL("pattern_inconnu")
	assert.Error(t, err)
}

func TestValidateKey(t *testing.T) {
	generator := NewRedisKeyGenerator()

	assert.NoError(t, generator.ValidateKey("evoluflow_auth_session:tok-123"))
	assert.NoError(t, generator.ValidateKey("evoluflow_referentiel_sequence:situation:2503"))

	assert.Error(t, generator.ValidateKey(""))
	assert.Error(t, generator.ValidateKey("autre_auth_session:tok"))
	assert.Error(t, generator.ValidateKey("evoluflow_seul:tok"))
	assert.Error(t, generator.ValidateKey("evoluflow_auth_session:tok avec espace"))
}

func TestAnalyzeKey(t *testing.T) {
	generator := NewRedisKeyGenerator()

	info := generator.AnalyzeKey("evoluflow_auth_user_sessions:u-42")
	assert.True(t, info.IsValid)
	assert.Equal(t, "auth", info.Domain)
	assert.Equal(t, "user_sessions", info.Context)
	assert.Equal(t, "u-42", info.Identifier)

	invalid := generator.AnalyzeKey("cle_invalide")
	assert.False(t, invalid.IsValid)
	assert.NotEmpty(t, invalid.Error)
}

func TestGenerateWildcardPattern(t *testing.T) {
	generator := NewRedisKeyGenerator()
	assert.Equal(t, "evoluflow_referentiel_snapshot*", generator.GenerateWildcardPattern("referentiel", "snapshot"))
}
