package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evoluflow-core/internal/modules/referentiel/descriptor"
	"evoluflow-core/internal/modules/referentiel/dto"
)

func lookupDescriptor(t *testing.T, entity string) descriptor.ResourceDescriptor {
	t.Helper()
	registry, err := descriptor.NewCatalogRegistry()
	require.NoError(t, err)
	d, ok := registry.Lookup(entity)
	require.True(t, ok)
	return d
}

func TestValidateAddRequiresLibelle(t *testing.T) {
	service := NewValidationService()
	d := lookupDescriptor(t, "situation")

	_, champs := service.ValidateAdd(d, dto.Record{"libelle": "   "})

	require.NotNil(t, champs)
	assert.Equal(t, "Le libellé est requis", champs["libelle"])
}

func TestValidateAddIgnoresUnknownKeys(t *testing.T) {
	service := NewValidationService()
	d := lookupDescriptor(t, "situation")

	cleaned, champs := service.ValidateAdd(d, dto.Record{
		"libelle":      "Célibataire",
		"champ_pirate": "ignoré",
	})

	assert.Nil(t, champs)
	assert.NotContains(t, cleaned, "champ_pirate")
	assert.Equal(t, "Célibataire", cleaned.GetString("libelle"))
}

func TestValidateAddKeepsClientReference(t *testing.T) {
	service := NewValidationService()
	d := lookupDescriptor(t, "situation")

	cleaned, champs := service.ValidateAdd(d, dto.Record{
		"reference": "  SIT2501001  ",
		"libelle":   "Célibataire",
	})

	assert.Nil(t, champs)
	assert.Equal(t, "SIT2501001", cleaned.GetString("reference"))
}

func TestValidateAddCoercionMessages(t *testing.T) {
	service := NewValidationService()
	d := lookupDescriptor(t, "mode_paiement")

	_, champs := service.ValidateAdd(d, dto.Record{
		"libelle":     "Virement",
		"autorise":    2,
		"delai_jours": "trois",
	})

	require.NotNil(t, champs)
	assert.Equal(t, "Doit valoir 0 ou 1", champs["autorise"])
	assert.Equal(t, "Doit être un nombre entier", champs["delai_jours"])
}

func TestValidateAddRejectsFractionalInteger(t *testing.T) {
	service := NewValidationService()
	d := lookupDescriptor(t, "mode_paiement")

	// le décodage JSON livre les nombres en float64
	_, champs := service.ValidateAdd(d, dto.Record{
		"libelle":     "Chèque",
		"delai_jours": 3.5,
	})

	require.NotNil(t, champs)
	assert.Equal(t, "Doit être un nombre entier", champs["delai_jours"])

	cleaned, champs := service.ValidateAdd(d, dto.Record{
		"libelle":     "Chèque",
		"delai_jours": float64(3),
	})
	assert.Nil(t, champs)
	assert.Equal(t, 3, cleaned["delai_jours"])
}

func TestValidateAddEnum(t *testing.T) {
	service := NewValidationService()
	d := lookupDescriptor(t, "candidat")

	_, champs := service.ValidateAdd(d, dto.Record{
		"libelle":        "Dossier X",
		"nom":            "Kouassi",
		"statut_dossier": "perdu",
	})

	require.NotNil(t, champs)
	assert.Contains(t, champs["statut_dossier"], "Valeur invalide")
	assert.Contains(t, champs["statut_dossier"], "incomplet")
}

func TestValidateAddRequiredSpecificField(t *testing.T) {
	service := NewValidationService()
	d := lookupDescriptor(t, "candidat")

	_, champs := service.ValidateAdd(d, dto.Record{"libelle": "Dossier X"})

	require.NotNil(t, champs)
	assert.Equal(t, "Ce champ est requis", champs["nom"])
}

func TestValidateAddDateParsing(t *testing.T) {
	service := NewValidationService()
	d := lookupDescriptor(t, "concours")

	cleaned, champs := service.ValidateAdd(d, dto.Record{
		"libelle":      "Concours 2025",
		"date_epreuve": "2025-06-15",
	})
	assert.Nil(t, champs)
	parsed, ok := cleaned["date_epreuve"].(time.Time)
	require.True(t, ok)
	assert.Equal(t, time.June, parsed.Month())

	_, champs = service.ValidateAdd(d, dto.Record{
		"libelle":      "Concours 2025",
		"date_epreuve": "15/06/2025",
	})
	require.NotNil(t, champs)
	assert.Equal(t, "Format de date invalide", champs["date_epreuve"])
}

func TestValidateAddTypeMismatchOnText(t *testing.T) {
	service := NewValidationService()
	d := lookupDescriptor(t, "situation")

	_, champs := service.ValidateAdd(d, dto.Record{
		"libelle":     "Célibataire",
		"description": 42,
	})

	require.NotNil(t, champs)
	assert.Equal(t, "Doit être une chaîne de caractères", champs["description"])
}

func TestValidateUpdateImmutableReference(t *testing.T) {
	service := NewValidationService()
	d := lookupDescriptor(t, "situation")

	_, champs := service.ValidateUpdate(d, "SIT2501001", dto.Record{
		"reference": "SIT2501002",
		"libelle":   "Marié(e)",
	})

	require.NotNil(t, champs)
	assert.Equal(t, "La référence est immuable", champs["reference"])
}

func TestValidateUpdatePinsReference(t *testing.T) {
	service := NewValidationService()
	d := lookupDescriptor(t, "situation")

	cleaned, champs := service.ValidateUpdate(d, "SIT2501001", dto.Record{
		"libelle": "Marié(e)",
	})

	assert.Nil(t, champs)
	assert.Equal(t, "SIT2501001", cleaned.GetString("reference"))
}
