package seeds

// SeedDataStatus décrit les données initiales déjà présentes en base
type SeedDataStatus struct {
	AdminExists         bool `json:"admin_exists"`
	ReferenceDataExists bool `json:"reference_data_exists"`
	ThemePresetsExist   bool `json:"theme_presets_exist"`
	AllDataExists       bool `json:"all_data_exists"`
}

// SeedRecord décrit un enregistrement de référentiel à créer au premier démarrage
type SeedRecord struct {
	Entity  string
	Libelle string
	Fields  map[string]any
}

// DefaultReferenceData retourne les données de référence embarquées.
// Les références sont générées au format standard lors de l'insertion.
func DefaultReferenceData() []SeedRecord {
	return []SeedRecord{
		{Entity: "situation", Libelle: "Célibataire"},
		{Entity: "situation", Libelle: "Marié(e)"},
		{Entity: "situation", Libelle: "Divorcé(e)"},
		{Entity: "situation", Libelle: "Veuf(ve)"},

		{Entity: "mode_paiement", Libelle: "Espèces", Fields: map[string]any{"autorise": 1, "delai_jours": 0}},
		{Entity: "mode_paiement", Libelle: "Chèque", Fields: map[string]any{"autorise": 1, "delai_jours": 3}},
		{Entity: "mode_paiement", Libelle: "Virement bancaire", Fields: map[string]any{"autorise": 1, "delai_jours": 2}},
		{Entity: "mode_paiement", Libelle: "Mobile Money", Fields: map[string]any{"autorise": 1, "delai_jours": 0}},

		{Entity: "document", Libelle: "Carte nationale d'identité", Fields: map[string]any{"type_document": "identite", "obligatoire": 1}},
		{Entity: "document", Libelle: "Passeport", Fields: map[string]any{"type_document": "identite", "obligatoire": 0}},
		{Entity: "document", Libelle: "Dernier diplôme obtenu", Fields: map[string]any{"type_document": "diplome", "obligatoire": 1}},
		{Entity: "document", Libelle: "Photo d'identité", Fields: map[string]any{"type_document": "photo", "obligatoire": 1}},

		{Entity: "niveau_etude", Libelle: "Baccalauréat", Fields: map[string]any{"ordre": 1}},
		{Entity: "niveau_etude", Libelle: "Licence", Fields: map[string]any{"ordre": 2}},
		{Entity: "niveau_etude", Libelle: "Master", Fields: map[string]any{"ordre": 3}},

		{Entity: "type_facturation", Libelle: "Frais d'inscription", Fields: map[string]any{"periodicite": "unique"}},
		{Entity: "type_facturation", Libelle: "Scolarité mensuelle", Fields: map[string]any{"periodicite": "mensuelle"}},
	}
}
