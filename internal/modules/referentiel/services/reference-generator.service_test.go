package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evoluflow-core/internal/modules/referentiel/descriptor"
)

func TestBuildReferenceFormat(t *testing.T) {
	at := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, "SIT2503001", BuildReference("SIT", at, 1))
	assert.Equal(t, "MPA2503042", BuildReference("MPA", at, 42))
	assert.Equal(t, "CAN2512999", BuildReference("CAN", time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), 999))

	// la séquence déborde du gabarit à trois chiffres sans s'écraser
	assert.Equal(t, "SIT25031000", BuildReference("SIT", at, 1000))
}

func TestBuildReferencePadsYearAndMonth(t *testing.T) {
	at := time.Date(2009, 1, 5, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "PAY0901007", BuildReference("PAY", at, 7))
}

func TestNextFromExistingScansSameMonthOnly(t *testing.T) {
	at := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)

	existing := []string{
		"SIT2503001",
		"SIT2503007",
		"SIT2502045", // mois précédent, ignoré
		"MPA2503099", // autre préfixe, ignoré
		"SIT25030XX", // queue non numérique, ignorée
	}

	assert.Equal(t, 8, NextFromExisting("SIT", at, existing))
}

func TestNextFromExistingEmptySnapshot(t *testing.T) {
	at := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, NextFromExisting("SIT", at, nil))
}

func TestGenerateDisambiguatesAgainstSnapshot(t *testing.T) {
	registry, err := descriptor.NewCatalogRegistry()
	require.NoError(t, err)
	d, ok := registry.Lookup("situation")
	require.True(t, ok)

	generator := NewReferenceGeneratorService(nil)
	at := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)

	existing := []string{"SIT2503001", "SIT2503002", "SIT2503003"}
	ref := generator.Generate(context.Background(), d, existing, at)

	assert.Equal(t, "SIT2503004", ref)
	assert.NotContains(t, existing, ref)
}

func TestGenerateAlwaysAbsentFromSnapshot(t *testing.T) {
	registry, err := descriptor.NewCatalogRegistry()
	require.NoError(t, err)
	d, ok := registry.Lookup("situation")
	require.True(t, ok)

	generator := NewReferenceGeneratorService(nil)
	at := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	var existing []string
	for i := 0; i < 50; i++ {
		ref := generator.Generate(context.Background(), d, existing, at)
		require.NotContains(t, existing, ref, "référence %s déjà présente à l'itération %d", ref, i)
		existing = append(existing, ref)
	}

	assert.Equal(t, "SIT2506001", existing[0])
	assert.Equal(t, "SIT2506050", existing[49])
}

func TestTTLUntilMonthEnd(t *testing.T) {
	at := time.Date(2025, 3, 30, 23, 0, 0, 0, time.UTC)
	ttl := ttlUntilMonthEnd(at)

	assert.Positive(t, ttl)
	assert.LessOrEqual(t, ttl, 25*time.Hour)
	assert.Equal(t, fmt.Sprintf("%v", 24*time.Hour+59*time.Minute+59*time.Second), fmt.Sprintf("%v", ttl))
}
