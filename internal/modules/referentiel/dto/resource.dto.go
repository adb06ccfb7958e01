package dto

import (
	"fmt"
	"time"
)

// Record représente un enregistrement plat du référentiel.
// Les clés correspondent aux champs du descripteur de l'entité
// (reference, libelle, champs spécifiques, utilisateur, heure).
type Record map[string]any

// Reference retourne l'identifiant unique de l'enregistrement
func (r Record) Reference() string {
	return r.GetString("reference")
}

// GetString retourne la valeur texte d'un champ, "" si absent ou d'un autre type
func (r Record) GetString(key string) string {
	if v, ok := r[key].(string); ok {
		return v
	}
	return ""
}

// GetInt retourne la valeur entière d'un champ, en tolérant les
// représentations issues du décodage JSON (float64) et de pgx (int64)
func (r Record) GetInt(key string) (int, bool) {
	switch v := r[key].(type) {
	case int:
		return v, true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}

// Clone retourne une copie superficielle de l'enregistrement
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// ListQuery porte les paramètres d'interrogation d'une liste :
// recherche globale, filtres par champ (combinés en ET), tri et pagination.
type ListQuery struct {
	Search  string            `form:"search"`
	Filters map[string]string `form:"-"` // paramètres filter[champ]=valeur
	SortBy  string            `form:"sort"`
	SortDir string            `form:"dir"` // asc | desc | "" (non trié)
	Page    int               `form:"page"`
	Limit   int               `form:"limit"`
}

// ListResult est la tranche paginée retournée au client avec les totaux
// nécessaires pour recaler la page courante côté interface.
type ListResult struct {
	Items      []Record `json:"items"`
	Total      int      `json:"total"` // total après recherche + filtres
	Page       int      `json:"page"`  // page effectivement servie
	Limit      int      `json:"limit"` // taille de page effective
	TotalPages int      `json:"total_pages"`
}

// SelectionScope précise la portée d'une opération de masse :
// la page courante ou l'ensemble filtré.
type SelectionScope string

const (
	SelectionPage   SelectionScope = "page"
	SelectionFiltre SelectionScope = "filtre"
)

// ExportRequest décrit une demande d'export d'une liste.
// La portée par défaut est l'ensemble filtré.
type ExportRequest struct {
	Format     string         `json:"format" validate:"required,oneof=csv pdf excel word"`
	Scope      SelectionScope `json:"scope,omitempty" validate:"omitempty,oneof=page filtre"`
	References []string       `json:"references,omitempty"` // export limité à la sélection
	Query      ListQuery      `json:"query"`
}

// BulkDeleteRequest porte les références à supprimer en masse
type BulkDeleteRequest struct {
	References []string `json:"references" validate:"required,min=1"`
}

// BulkDeleteResult détaille le sort de chaque suppression.
// Les suppressions sont séquentielles, sans garantie transactionnelle.
type BulkDeleteResult struct {
	Deleted []string          `json:"deleted"`
	Failed  map[string]string `json:"failed,omitempty"`
}

// NextReferenceResponse est la réponse de génération de référence
type NextReferenceResponse struct {
	Reference   string    `json:"reference"`
	Entity      string    `json:"entity"`
	GeneratedAt time.Time `json:"generated_at"`
}

// ErrorKind discrimine les issues d'une opération du référentiel
type ErrorKind string

const (
	KindValidation   ErrorKind = "validation"
	KindConflict     ErrorKind = "conflict"
	KindNotFound     ErrorKind = "not_found"
	KindUnauthorized ErrorKind = "unauthorized"
	KindInternal     ErrorKind = "internal"
)

// OperationError est le résultat d'échec unique de toutes les opérations
// du référentiel : les appelants testent le Kind, jamais un type d'erreur
// sous-jacent, et aucune opération ne panique ni ne laisse fuir une erreur brute.
type OperationError struct {
	Kind    ErrorKind         `json:"kind"`
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Champs  map[string]string `json:"champs,omitempty"`
	// Référence de remplacement proposée lors d'un conflit de référence
	SuggestedReference string `json:"suggested_reference,omitempty"`
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewValidationError construit une erreur de validation avec détails par champ
func NewValidationError(champs map[string]string) *OperationError {
	return &OperationError{
		Kind:    KindValidation,
		Code:    "VALIDATION_ERROR",
		Message: "Données invalides",
		Champs:  champs,
	}
}

// NewConflictError construit une erreur de référence dupliquée avec
// une proposition de remplacement (protocole de création optimiste)
func NewConflictError(reference, suggested string) *OperationError {
	return &OperationError{
		Kind:               KindConflict,
		Code:               "REFERENCE_CONFLICT",
		Message:            fmt.Sprintf("La référence %s existe déjà", reference),
		SuggestedReference: suggested,
	}
}

// NewNotFoundError construit une erreur d'enregistrement introuvable
func NewNotFoundError(entity, reference string) *OperationError {
	return &OperationError{
		Kind:    KindNotFound,
		Code:    "RECORD_NOT_FOUND",
		Message: fmt.Sprintf("Aucun enregistrement %s avec la référence %s", entity, reference),
	}
}

// NewInternalError enveloppe une défaillance technique en message générique.
// Le détail est journalisé côté serveur, jamais exposé au client.
func NewInternalError(err error) *OperationError {
	return &OperationError{
		Kind:    KindInternal,
		Code:    "INTERNAL_ERROR",
		Message: "Une erreur interne est survenue",
	}
}

// NewUnknownEntityError construit l'erreur d'entité absente du catalogue
func NewUnknownEntityError(entity string) *OperationError {
	return &OperationError{
		Kind:    KindNotFound,
		Code:    "UNKNOWN_ENTITY",
		Message: fmt.Sprintf("Entité inconnue du référentiel: %s", entity),
	}
}
