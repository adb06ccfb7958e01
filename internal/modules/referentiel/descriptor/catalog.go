package descriptor

import "fmt"

// Catalog déclare toutes les entités du référentiel EvoluFlow.
// Ajouter une entité ici suffit : table, routes, validation et génération
// de références sont dérivées du descripteur au démarrage.
func Catalog() []ResourceDescriptor {
	return []ResourceDescriptor{
		{
			Name: "situation", Libelle: "Situation", Prefix: "SIT",
			Fields: []FieldDescriptor{
				{Key: "description", Label: "Description", Type: TypeTexte, Searchable: true},
			},
		},
		{
			Name: "document", Libelle: "Document", Prefix: "DOC",
			Fields: []FieldDescriptor{
				{Key: "type_document", Label: "Type de document", Type: TypeEnum, Required: true, Filterable: true,
					Enum: []string{"identite", "diplome", "justificatif", "photo", "autre"}},
				{Key: "obligatoire", Label: "Obligatoire", Type: TypeBooleen, Filterable: true},
			},
		},
		{
			Name: "mode_paiement", Libelle: "Mode de paiement", Prefix: "MPA",
			Fields: []FieldDescriptor{
				{Key: "autorise", Label: "Autorisation", Type: TypeBooleen, Filterable: true},
				{Key: "delai_jours", Label: "Délai (jours)", Type: TypeEntier, Sortable: true},
			},
		},
		{
			Name: "filiere", Libelle: "Filière", Prefix: "FIL",
			Fields: []FieldDescriptor{
				{Key: "duree_mois", Label: "Durée (mois)", Type: TypeEntier, Sortable: true},
				{Key: "site", Label: "Site", Type: TypeReference, RefEntity: "site", Filterable: true},
			},
		},
		{
			Name: "niveau_cours", Libelle: "Niveau de cours", Prefix: "NIV",
			Fields: []FieldDescriptor{
				{Key: "ordre", Label: "Ordre", Type: TypeEntier, Sortable: true},
				{Key: "filiere", Label: "Filière", Type: TypeReference, RefEntity: "filiere", Filterable: true},
			},
		},
		{
			Name: "site", Libelle: "Site", Prefix: "STE",
			Fields: []FieldDescriptor{
				{Key: "adresse", Label: "Adresse", Type: TypeTexte, Searchable: true},
				{Key: "telephone", Label: "Téléphone", Type: TypeTexte, Searchable: true},
				{Key: "actif", Label: "Actif", Type: TypeBooleen, Filterable: true},
			},
		},
		{
			Name: "type_facturation", Libelle: "Type de facturation", Prefix: "TFA",
			Fields: []FieldDescriptor{
				{Key: "periodicite", Label: "Périodicité", Type: TypeEnum, Filterable: true,
					Enum: []string{"unique", "mensuelle", "trimestrielle", "annuelle"}},
			},
		},
		{
			Name: "banque", Libelle: "Banque", Prefix: "BNQ",
			Fields: []FieldDescriptor{
				{Key: "code_guichet", Label: "Code guichet", Type: TypeTexte, Searchable: true},
			},
		},
		{
			Name: "pays", Libelle: "Pays", Prefix: "PAY",
			Fields: []FieldDescriptor{
				{Key: "code_iso", Label: "Code ISO", Type: TypeTexte, Searchable: true, Sortable: true},
			},
		},
		{
			Name: "profession", Libelle: "Profession", Prefix: "PRO",
		},
		{
			Name: "concours", Libelle: "Concours", Prefix: "CON",
			Fields: []FieldDescriptor{
				{Key: "date_epreuve", Label: "Date de l'épreuve", Type: TypeDate, Sortable: true},
				{Key: "filiere", Label: "Filière", Type: TypeReference, RefEntity: "filiere", Filterable: true},
			},
		},
		{
			Name: "niveau_etude", Libelle: "Niveau d'étude", Prefix: "NET",
			Fields: []FieldDescriptor{
				{Key: "ordre", Label: "Ordre", Type: TypeEntier, Sortable: true},
			},
		},
		{
			Name: "prospect", Libelle: "Prospect", Prefix: "PSP",
			Fields: []FieldDescriptor{
				{Key: "nom", Label: "Nom", Type: TypeTexte, Required: true, Searchable: true, Sortable: true},
				{Key: "prenoms", Label: "Prénoms", Type: TypeTexte, Searchable: true},
				{Key: "telephone", Label: "Téléphone", Type: TypeTexte, Searchable: true},
				{Key: "email", Label: "Email", Type: TypeTexte, Searchable: true},
				{Key: "filiere", Label: "Filière visée", Type: TypeReference, RefEntity: "filiere", Filterable: true},
				{Key: "situation", Label: "Situation", Type: TypeReference, RefEntity: "situation", Filterable: true},
			},
		},
		{
			Name: "candidat", Libelle: "Candidat", Prefix: "CAN",
			Fields: []FieldDescriptor{
				{Key: "nom", Label: "Nom", Type: TypeTexte, Required: true, Searchable: true, Sortable: true},
				{Key: "prenoms", Label: "Prénoms", Type: TypeTexte, Searchable: true},
				{Key: "telephone", Label: "Téléphone", Type: TypeTexte, Searchable: true},
				{Key: "email", Label: "Email", Type: TypeTexte, Searchable: true},
				{Key: "filiere", Label: "Filière", Type: TypeReference, RefEntity: "filiere", Filterable: true},
				{Key: "concours", Label: "Concours", Type: TypeReference, RefEntity: "concours", Filterable: true},
				{Key: "statut_dossier", Label: "Statut du dossier", Type: TypeEnum, Filterable: true, Sortable: true,
					Enum: []string{"incomplet", "complet", "valide", "rejete"}},
				{Key: "dossier_paye", Label: "Dossier payé", Type: TypeBooleen, Filterable: true},
			},
		},
	}
}

// NewCatalogRegistry construit le registre chargé avec le catalogue complet.
// Un descripteur invalide est une erreur de programmation : échec au démarrage.
func NewCatalogRegistry() (*Registry, error) {
	registry := NewRegistry()
	for _, d := range Catalog() {
		if err := registry.Register(d); err != nil {
			return nil, fmt.Errorf("catalogue référentiel invalide: %w", err)
		}
	}
	return registry, nil
}
