package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLibelleOuiNon(t *testing.T) {
	assert.Equal(t, "Oui", LibelleOuiNon(1))
	assert.Equal(t, "Non", LibelleOuiNon(0))
	assert.Equal(t, "Oui", LibelleOuiNon(int64(1)))
	assert.Equal(t, "Oui", LibelleOuiNon(float64(1)))
	assert.Equal(t, "Oui", LibelleOuiNon(true))
	assert.Equal(t, "Non", LibelleOuiNon(false))

	// toute valeur hors drapeau retombe sur le libellé neutre
	assert.Equal(t, LibelleNonDefini, LibelleOuiNon(nil))
	assert.Equal(t, LibelleNonDefini, LibelleOuiNon(2))
	assert.Equal(t, LibelleNonDefini, LibelleOuiNon("oui"))
}

func TestLibelleAutorisation(t *testing.T) {
	assert.Equal(t, "Autorisé", LibelleAutorisation(1))
	assert.Equal(t, "Non autorisé", LibelleAutorisation(0))
	assert.Equal(t, LibelleNonDefini, LibelleAutorisation(nil))
	assert.Equal(t, LibelleNonDefini, LibelleAutorisation(-1))
}

func TestLibelleStatutDossier(t *testing.T) {
	assert.Equal(t, "Dossier incomplet", LibelleStatutDossier("incomplet"))
	assert.Equal(t, "Dossier complet", LibelleStatutDossier("complet"))
	assert.Equal(t, "Dossier validé", LibelleStatutDossier("valide"))
	assert.Equal(t, "Dossier rejeté", LibelleStatutDossier("rejete"))
	assert.Equal(t, LibelleNonDefini, LibelleStatutDossier(""))
	assert.Equal(t, LibelleNonDefini, LibelleStatutDossier("archive"))
}

func TestCouleurStatutDossier(t *testing.T) {
	assert.Equal(t, "warning", CouleurStatutDossier("incomplet"))
	assert.Equal(t, "info", CouleurStatutDossier("complet"))
	assert.Equal(t, "success", CouleurStatutDossier("valide"))
	assert.Equal(t, "danger", CouleurStatutDossier("rejete"))
	assert.Equal(t, "muted", CouleurStatutDossier("inconnu"))
}

func TestFormatHeure(t *testing.T) {
	at := time.Date(2025, 1, 10, 9, 5, 0, 0, time.UTC)

	assert.Equal(t, "10/01/2025 09:05", FormatHeure(at))
	assert.Equal(t, "10/01/2025 09:05", FormatHeure(&at))
	assert.Equal(t, "10/01/2025 09:05", FormatHeure("2025-01-10T09:05:00Z"))

	assert.Equal(t, "N/A", FormatHeure(nil))
	assert.Equal(t, "N/A", FormatHeure("pas une date"))
	assert.Equal(t, "N/A", FormatHeure((*time.Time)(nil)))
}

func TestHeureTimeLayouts(t *testing.T) {
	cases := map[string]time.Time{
		"2025-01-10T09:05:00Z":     time.Date(2025, 1, 10, 9, 5, 0, 0, time.UTC),
		"2025-01-10 09:05:00":      time.Date(2025, 1, 10, 9, 5, 0, 0, time.UTC),
		"2025-01-10":               time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		"2025-01-10T09:05:00.250Z": time.Date(2025, 1, 10, 9, 5, 0, 250000000, time.UTC),
	}

	for input, expected := range cases {
		parsed, ok := HeureTime(input)
		require.True(t, ok, "entrée %q non reconnue", input)
		assert.True(t, expected.Equal(parsed), "entrée %q: attendu %v, obtenu %v", input, expected, parsed)
	}

	_, ok := HeureTime(12345)
	assert.False(t, ok)
}
