package descriptor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogRegistryIsValid(t *testing.T) {
	registry, err := NewCatalogRegistry()
	require.NoError(t, err)

	assert.Equal(t, 14, registry.Count())

	for _, name := range []string{
		"situation", "document", "mode_paiement", "filiere", "niveau_cours",
		"site", "type_facturation", "banque", "pays", "profession",
		"concours", "niveau_etude", "prospect", "candidat",
	} {
		_, ok := registry.Lookup(name)
		assert.True(t, ok, "entité %q absente du catalogue", name)
	}
}

func TestCatalogPrefixesAreUnique(t *testing.T) {
	registry, err := NewCatalogRegistry()
	require.NoError(t, err)

	seen := make(map[string]string)
	for _, d := range registry.List() {
		previous, dup := seen[d.Prefix]
		assert.False(t, dup, "préfixe %q partagé entre %q et %q", d.Prefix, previous, d.Name)
		seen[d.Prefix] = d.Name
	}
}

func TestCatalogReferenceTargetsExist(t *testing.T) {
	registry, err := NewCatalogRegistry()
	require.NoError(t, err)

	for _, d := range registry.List() {
		for _, f := range d.Fields {
			if f.Type != TypeReference {
				continue
			}
			_, ok := registry.Lookup(f.RefEntity)
			assert.True(t, ok, "entité %q: champ %q cible l'entité inconnue %q", d.Name, f.Key, f.RefEntity)
		}
	}
}

func TestAllFieldsOrder(t *testing.T) {
	registry, err := NewCatalogRegistry()
	require.NoError(t, err)
	d, ok := registry.Lookup("mode_paiement")
	require.True(t, ok)

	fields := d.AllFields()
	require.Len(t, fields, len(d.Fields)+4)

	assert.Equal(t, KeyReference, fields[0].Key)
	assert.Equal(t, KeyLibelle, fields[1].Key)
	assert.Equal(t, "autorise", fields[2].Key)
	assert.Equal(t, "delai_jours", fields[3].Key)
	assert.Equal(t, KeyUtilisateur, fields[len(fields)-2].Key)
	assert.Equal(t, KeyHeure, fields[len(fields)-1].Key)
}

func TestDescriptorValidateRejections(t *testing.T) {
	base := ResourceDescriptor{Name: "essai", Libelle: "Essai", Prefix: "ESS"}

	cases := map[string]ResourceDescriptor{
		"nom vide":          {Libelle: "X", Prefix: "ESS"},
		"nom majuscule":     {Name: "Essai", Libelle: "X", Prefix: "ESS"},
		"libellé vide":      {Name: "essai", Prefix: "ESS"},
		"préfixe minuscule": {Name: "essai", Libelle: "X", Prefix: "ess"},
		"préfixe trop long": {Name: "essai", Libelle: "X", Prefix: "ESSAIS"},
	}
	for label, d := range cases {
		assert.Error(t, d.Validate(), label)
	}

	dup := base
	dup.Fields = []FieldDescriptor{
		{Key: "code", Label: "Code", Type: TypeTexte},
		{Key: "code", Label: "Code bis", Type: TypeTexte},
	}
	assert.Error(t, dup.Validate(), "champ dupliqué")

	implicit := base
	implicit.Fields = []FieldDescriptor{{Key: "reference", Label: "Référence", Type: TypeTexte}}
	assert.Error(t, implicit.Validate(), "collision avec un champ implicite")

	enum := base
	enum.Fields = []FieldDescriptor{{Key: "etat", Label: "État", Type: TypeEnum}}
	assert.Error(t, enum.Validate(), "enum sans valeurs")

	ref := base
	ref.Fields = []FieldDescriptor{{Key: "cible", Label: "Cible", Type: TypeReference}}
	assert.Error(t, ref.Validate(), "référence sans entité cible")

	unknown := base
	unknown.Fields = []FieldDescriptor{{Key: "x", Label: "X", Type: FieldType("blob")}}
	assert.Error(t, unknown.Validate(), "type inconnu")
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	registry := NewRegistry()

	require.NoError(t, registry.Register(ResourceDescriptor{Name: "essai", Libelle: "Essai", Prefix: "ESS"}))

	err := registry.Register(ResourceDescriptor{Name: "essai", Libelle: "Essai bis", Prefix: "EBI"})
	assert.ErrorContains(t, err, "déjà enregistrée")

	err = registry.Register(ResourceDescriptor{Name: "autre", Libelle: "Autre", Prefix: "ESS"})
	assert.ErrorContains(t, err, "déjà utilisé")
}

func TestSearchableKeys(t *testing.T) {
	registry, err := NewCatalogRegistry()
	require.NoError(t, err)
	d, ok := registry.Lookup("situation")
	require.True(t, ok)

	keys := d.SearchableKeys()
	assert.Contains(t, keys, KeyReference)
	assert.Contains(t, keys, KeyLibelle)
	assert.Contains(t, keys, "description")
	assert.NotContains(t, keys, KeyUtilisateur)
}
