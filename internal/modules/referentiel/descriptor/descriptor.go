package descriptor

import (
	"fmt"
	"regexp"
	"sort"
	"sync"
)

// FieldType énumère les types de champs supportés par le référentiel
type FieldType string

const (
	TypeTexte     FieldType = "texte"
	TypeEntier    FieldType = "entier"
	TypeBooleen   FieldType = "booleen" // stocké 0/1 sur le fil
	TypeDate      FieldType = "date"
	TypeReference FieldType = "reference" // renvoi vers la référence d'une autre entité
	TypeEnum      FieldType = "enum"
)

// Clés des champs implicites présents sur toutes les entités
const (
	KeyReference   = "reference"
	KeyLibelle     = "libelle"
	KeyUtilisateur = "utilisateur"
	KeyHeure       = "heure"
)

// FieldDescriptor décrit un champ spécifique d'une entité du référentiel
type FieldDescriptor struct {
	Key        string    `json:"key"`
	Label      string    `json:"label"`
	Type       FieldType `json:"type"`
	Required   bool      `json:"required"`
	Searchable bool      `json:"searchable"`
	Filterable bool      `json:"filterable"`
	Sortable   bool      `json:"sortable"`
	Enum       []string  `json:"enum,omitempty"`       // valeurs autorisées pour TypeEnum
	RefEntity  string    `json:"ref_entity,omitempty"` // entité cible pour TypeReference
}

// ResourceDescriptor décrit une entité gérée par le moteur générique.
// Une seule instanciation du triptyque service/contrôleur/store sert
// toutes les entités déclarées dans le catalogue.
type ResourceDescriptor struct {
	Name    string            `json:"name"`    // identifiant technique (ex: "situation")
	Libelle string            `json:"libelle"` // libellé humain (ex: "Situation")
	Prefix  string            `json:"prefix"`  // préfixe de génération des références (ex: "SIT")
	Fields  []FieldDescriptor `json:"fields"`  // champs spécifiques, hors champs implicites
}

// TableName retourne le nom de la table PostgreSQL portant l'entité
func (d ResourceDescriptor) TableName() string {
	return "ref_" + d.Name
}

// Field retourne le descripteur d'un champ (implicite ou spécifique)
func (d ResourceDescriptor) Field(key string) (FieldDescriptor, bool) {
	for _, f := range d.AllFields() {
		if f.Key == key {
			return f, true
		}
	}
	return FieldDescriptor{}, false
}

// AllFields retourne tous les champs dans l'ordre des colonnes :
// reference, libelle, champs spécifiques, utilisateur, heure
func (d ResourceDescriptor) AllFields() []FieldDescriptor {
	fields := make([]FieldDescriptor, 0, len(d.Fields)+4)
	fields = append(fields,
		FieldDescriptor{Key: KeyReference, Label: "Référence", Type: TypeTexte, Required: true, Searchable: true, Sortable: true},
		FieldDescriptor{Key: KeyLibelle, Label: "Libellé", Type: TypeTexte, Required: true, Searchable: true, Filterable: true, Sortable: true},
	)
	fields = append(fields, d.Fields...)
	fields = append(fields,
		FieldDescriptor{Key: KeyUtilisateur, Label: "Utilisateur", Type: TypeTexte},
		FieldDescriptor{Key: KeyHeure, Label: "Date de création", Type: TypeDate, Sortable: true},
	)
	return fields
}

// SearchableKeys retourne les clés des champs participant à la recherche globale
func (d ResourceDescriptor) SearchableKeys() []string {
	var keys []string
	for _, f := range d.AllFields() {
		if f.Searchable {
			keys = append(keys, f.Key)
		}
	}
	return keys
}

var (
	namePattern   = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
	prefixPattern = regexp.MustCompile(`^[A-Z]{2,5}$`)
	keyPattern    = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
)

// Validate vérifie la cohérence interne du descripteur
func (d ResourceDescriptor) Validate() error {
	if !namePattern.MatchString(d.Name) {
		return fmt.Errorf("nom d'entité invalide: %q", d.Name)
	}
	if d.Libelle == "" {
		return fmt.Errorf("libellé requis pour l'entité %q", d.Name)
	}
	if !prefixPattern.MatchString(d.Prefix) {
		return fmt.Errorf("préfixe invalide pour l'entité %q: %q", d.Name, d.Prefix)
	}

	seen := map[string]bool{
		KeyReference: true, KeyLibelle: true, KeyUtilisateur: true, KeyHeure: true,
	}
	for _, f := range d.Fields {
		if !keyPattern.MatchString(f.Key) {
			return fmt.Errorf("entité %q: clé de champ invalide: %q", d.Name, f.Key)
		}
		if seen[f.Key] {
			return fmt.Errorf("entité %q: champ dupliqué: %q", d.Name, f.Key)
		}
		seen[f.Key] = true

		switch f.Type {
		case TypeTexte, TypeEntier, TypeBooleen, TypeDate:
		case TypeEnum:
			if len(f.Enum) == 0 {
				return fmt.Errorf("entité %q: champ enum %q sans valeurs", d.Name, f.Key)
			}
		case TypeReference:
			if f.RefEntity == "" {
				return fmt.Errorf("entité %q: champ référence %q sans entité cible", d.Name, f.Key)
			}
		default:
			return fmt.Errorf("entité %q: type de champ inconnu: %q", d.Name, f.Type)
		}
	}
	return nil
}

// Registry référence les descripteurs d'entités du référentiel.
// Les contrôleurs et services génériques résolvent les entités par leur nom.
type Registry struct {
	mu          sync.RWMutex
	descriptors map[string]ResourceDescriptor
}

// NewRegistry crée un registre vide
func NewRegistry() *Registry {
	return &Registry{descriptors: make(map[string]ResourceDescriptor)}
}

// Register ajoute un descripteur au registre après validation
func (r *Registry) Register(d ResourceDescriptor) error {
	if err := d.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.descriptors[d.Name]; exists {
		return fmt.Errorf("entité déjà enregistrée: %q", d.Name)
	}
	for _, existing := range r.descriptors {
		if existing.Prefix == d.Prefix {
			return fmt.Errorf("préfixe %q déjà utilisé par l'entité %q", d.Prefix, existing.Name)
		}
	}

	r.descriptors[d.Name] = d
	return nil
}

// Lookup retourne le descripteur d'une entité, ou false si inconnue
func (r *Registry) Lookup(name string) (ResourceDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.descriptors[name]
	return d, ok
}

// List retourne tous les descripteurs triés par nom d'entité
func (r *Registry) List() []ResourceDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]ResourceDescriptor, 0, len(r.descriptors))
	for _, d := range r.descriptors {
		result = append(result, d)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// Count retourne le nombre d'entités enregistrées
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.descriptors)
}
