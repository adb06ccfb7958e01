package services

import (
	"fmt"
	"strings"
	"time"

	"evoluflow-core/internal/modules/referentiel/descriptor"
	"evoluflow-core/internal/modules/referentiel/dto"
)

// ValidationService vérifie les charges utiles d'ajout et de modification
// contre le descripteur de l'entité et produit des erreurs par champ.
// L'ajout omet les champs affectés par le serveur (utilisateur, heure) ;
// la modification porte l'enregistrement complet, référence immuable.
type ValidationService struct{}

func NewValidationService() *ValidationService {
	return &ValidationService{}
}

// ValidateAdd nettoie et valide une charge utile de création.
// Les clés inconnues sont ignorées, les champs serveur écartés.
// La référence est optionnelle : absente, elle sera générée.
func (s *ValidationService) ValidateAdd(d descriptor.ResourceDescriptor, payload dto.Record) (dto.Record, map[string]string) {
	cleaned, champs := s.validateFields(d, payload, false)

	if ref := strings.TrimSpace(payload.GetString(descriptor.KeyReference)); ref != "" {
		cleaned[descriptor.KeyReference] = ref
	}
	return cleaned, champs
}

// ValidateUpdate nettoie et valide une charge utile de modification.
// Toute tentative de changer la référence est une erreur de validation.
func (s *ValidationService) ValidateUpdate(d descriptor.ResourceDescriptor, reference string, payload dto.Record) (dto.Record, map[string]string) {
	cleaned, champs := s.validateFields(d, payload, true)

	if ref := strings.TrimSpace(payload.GetString(descriptor.KeyReference)); ref != "" && ref != reference {
		if champs == nil {
			champs = make(map[string]string)
		}
		champs[descriptor.KeyReference] = "La référence est immuable"
	}
	cleaned[descriptor.KeyReference] = reference
	return cleaned, champs
}

// validateFields traite libellé et champs spécifiques, communs aux deux modes
func (s *ValidationService) validateFields(d descriptor.ResourceDescriptor, payload dto.Record, update bool) (dto.Record, map[string]string) {
	cleaned := make(dto.Record)
	champs := make(map[string]string)

	libelle := strings.TrimSpace(payload.GetString(descriptor.KeyLibelle))
	if libelle == "" {
		champs[descriptor.KeyLibelle] = "Le libellé est requis"
	}
	cleaned[descriptor.KeyLibelle] = libelle

	for _, field := range d.Fields {
		raw, present := payload[field.Key]
		if !present || raw == nil {
			if field.Required {
				champs[field.Key] = "Ce champ est requis"
			}
			cleaned[field.Key] = nil
			continue
		}

		value, err := coerceField(field, raw)
		if err != "" {
			champs[field.Key] = err
			continue
		}
		cleaned[field.Key] = value
	}

	if len(champs) == 0 {
		return cleaned, nil
	}
	return cleaned, champs
}

// coerceField normalise une valeur selon le type déclaré du champ.
// Retourne un message d'erreur français vide si la valeur est acceptée.
func coerceField(field descriptor.FieldDescriptor, raw any) (any, string) {
	switch field.Type {
	case descriptor.TypeTexte, descriptor.TypeReference:
		text, ok := raw.(string)
		if !ok {
			return nil, "Doit être une chaîne de caractères"
		}
		text = strings.TrimSpace(text)
		if field.Required && text == "" {
			return nil, "Ce champ est requis"
		}
		return text, ""

	case descriptor.TypeEntier:
		n, ok := toInt(raw)
		if !ok {
			return nil, "Doit être un nombre entier"
		}
		return n, ""

	case descriptor.TypeBooleen:
		n, ok := toInt(raw)
		if !ok || (n != 0 && n != 1) {
			return nil, "Doit valoir 0 ou 1"
		}
		return n, ""

	case descriptor.TypeDate:
		if t, ok := dto.HeureTime(raw); ok {
			return t, ""
		}
		return nil, "Format de date invalide"

	case descriptor.TypeEnum:
		text, ok := raw.(string)
		if !ok {
			return nil, "Doit être une chaîne de caractères"
		}
		for _, allowed := range field.Enum {
			if text == allowed {
				return text, ""
			}
		}
		return nil, fmt.Sprintf("Valeur invalide. Valeurs autorisées: %s", strings.Join(field.Enum, ", "))
	}
	return nil, "Type de champ non supporté"
}

func toInt(raw any) (int, bool) {
	switch x := raw.(type) {
	case int:
		return x, true
	case int32:
		return int(x), true
	case int64:
		return int(x), true
	case float64:
		// le décodage JSON produit des float64 ; refuser les fractions
		if x != float64(int(x)) {
			return 0, false
		}
		return int(x), true
	case time.Time:
		return 0, false
	}
	return 0, false
}
