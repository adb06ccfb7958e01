package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"evoluflow-core/internal/modules/referentiel/descriptor"
	"evoluflow-core/internal/modules/referentiel/dto"
)

// ErrDuplicateReference est retournée par un ResourceStore quand l'insertion
// viole l'unicité de la référence (course entre clients concurrents).
var ErrDuplicateReference = errors.New("référence déjà utilisée")

// ResourceStore est le contrat de persistance du moteur générique.
// L'implémentation PostgreSQL vit dans le paquet queries ; les tests
// utilisent une implémentation en mémoire.
type ResourceStore interface {
	List(ctx context.Context, d descriptor.ResourceDescriptor) ([]dto.Record, error)
	GetByReference(ctx context.Context, d descriptor.ResourceDescriptor, reference string) (dto.Record, error)
	Exists(ctx context.Context, d descriptor.ResourceDescriptor, reference string) (bool, error)
	Insert(ctx context.Context, d descriptor.ResourceDescriptor, record dto.Record) error
	Update(ctx context.Context, d descriptor.ResourceDescriptor, reference string, record dto.Record) (bool, error)
	Delete(ctx context.Context, d descriptor.ResourceDescriptor, reference string) (bool, error)
	Count(ctx context.Context, d descriptor.ResourceDescriptor) (int, error)
}

// generateAttempts borne la boucle de regénération lors d'une course
// sur une référence générée côté serveur
const generateAttempts = 3

// ResourceService est le médiateur unique entre l'API et la persistance
// pour toutes les entités du catalogue. Chaque mutation réussie invalide
// l'instantané : la liste suivante est une relecture complète du store,
// jamais un raccommodage local.
type ResourceService struct {
	registry   *descriptor.Registry
	store      ResourceStore
	cache      SnapshotCache
	generator  *ReferenceGeneratorService
	validation *ValidationService
	query      *ListQueryService
}

func NewResourceService(
	registry *descriptor.Registry,
	store ResourceStore,
	cache SnapshotCache,
	generator *ReferenceGeneratorService,
	validation *ValidationService,
	query *ListQueryService,
) *ResourceService {
	return &ResourceService{
		registry:   registry,
		store:      store,
		cache:      cache,
		generator:  generator,
		validation: validation,
		query:      query,
	}
}

// Registry expose le catalogue pour les contrôleurs et le module système
func (s *ResourceService) Registry() *descriptor.Registry {
	return s.registry
}

// List évalue une interrogation sur l'instantané de l'entité
func (s *ResourceService) List(ctx context.Context, entity string, q dto.ListQuery) (*dto.ListResult, *dto.OperationError) {
	d, ok := s.registry.Lookup(entity)
	if !ok {
		return nil, dto.NewUnknownEntityError(entity)
	}

	records, opErr := s.snapshot(ctx, d)
	if opErr != nil {
		return nil, opErr
	}

	result := s.query.Evaluate(d, records, q)
	return &result, nil
}

// GetByReference relit l'enregistrement faisant foi, sans passer par
// l'instantané potentiellement périmé
func (s *ResourceService) GetByReference(ctx context.Context, entity, reference string) (dto.Record, *dto.OperationError) {
	d, ok := s.registry.Lookup(entity)
	if !ok {
		return nil, dto.NewUnknownEntityError(entity)
	}

	record, err := s.store.GetByReference(ctx, d, reference)
	if err != nil {
		return nil, s.internal(entity, "lecture par référence", err)
	}
	if record == nil {
		return nil, dto.NewNotFoundError(d.Libelle, reference)
	}
	return record, nil
}

// Add crée un enregistrement. La référence proposée par le client est
// acceptée si elle est libre ; sinon l'erreur de conflit porte une
// proposition de remplacement fraîchement générée (création optimiste).
// Sans référence fournie, le serveur génère et réessaie en cas de course.
func (s *ResourceService) Add(ctx context.Context, entity string, payload dto.Record, user string) (dto.Record, *dto.OperationError) {
	d, ok := s.registry.Lookup(entity)
	if !ok {
		return nil, dto.NewUnknownEntityError(entity)
	}

	record, champs := s.validation.ValidateAdd(d, payload)
	if champs != nil {
		return nil, dto.NewValidationError(champs)
	}

	existing, opErr := s.existingReferences(ctx, d)
	if opErr != nil {
		return nil, opErr
	}

	now := time.Now()
	record[descriptor.KeyHeure] = now
	record[descriptor.KeyUtilisateur] = user

	clientRef := record.GetString(descriptor.KeyReference)
	if clientRef != "" {
		taken, err := s.store.Exists(ctx, d, clientRef)
		if err != nil {
			return nil, s.internal(entity, "vérification de référence", err)
		}
		if taken {
			return nil, dto.NewConflictError(clientRef, s.generator.Generate(ctx, d, existing, now))
		}
		if err := s.store.Insert(ctx, d, record); err != nil {
			if errors.Is(err, ErrDuplicateReference) {
				// un autre client a pris la référence entre la vérification et l'insertion
				return nil, dto.NewConflictError(clientRef, s.generator.Generate(ctx, d, existing, now))
			}
			return nil, s.internal(entity, "insertion", err)
		}
		s.cache.Invalidate(ctx, entity)
		return record, nil
	}

	for attempt := 0; attempt < generateAttempts; attempt++ {
		ref := s.generator.Generate(ctx, d, existing, now)
		record[descriptor.KeyReference] = ref

		err := s.store.Insert(ctx, d, record)
		if err == nil {
			s.cache.Invalidate(ctx, entity)
			return record, nil
		}
		if !errors.Is(err, ErrDuplicateReference) {
			return nil, s.internal(entity, "insertion", err)
		}
		existing = append(existing, ref)
	}

	return nil, &dto.OperationError{
		Kind:    dto.KindConflict,
		Code:    "REFERENCE_GENERATION_EXHAUSTED",
		Message: "Impossible de générer une référence libre, veuillez réessayer",
	}
}

// Update remplace l'enregistrement complet, référence immuable
func (s *ResourceService) Update(ctx context.Context, entity, reference string, payload dto.Record, user string) (dto.Record, *dto.OperationError) {
	d, ok := s.registry.Lookup(entity)
	if !ok {
		return nil, dto.NewUnknownEntityError(entity)
	}

	record, champs := s.validation.ValidateUpdate(d, reference, payload)
	if champs != nil {
		return nil, dto.NewValidationError(champs)
	}

	current, err := s.store.GetByReference(ctx, d, reference)
	if err != nil {
		return nil, s.internal(entity, "relecture avant modification", err)
	}
	if current == nil {
		return nil, dto.NewNotFoundError(d.Libelle, reference)
	}

	// les champs d'audit de création ne sont pas réécrits
	record[descriptor.KeyHeure] = current[descriptor.KeyHeure]
	record[descriptor.KeyUtilisateur] = current[descriptor.KeyUtilisateur]

	updated, err := s.store.Update(ctx, d, reference, record)
	if err != nil {
		return nil, s.internal(entity, "modification", err)
	}
	if !updated {
		return nil, dto.NewNotFoundError(d.Libelle, reference)
	}

	s.cache.Invalidate(ctx, entity)
	return record, nil
}

// Delete supprime un enregistrement par référence
func (s *ResourceService) Delete(ctx context.Context, entity, reference string) *dto.OperationError {
	d, ok := s.registry.Lookup(entity)
	if !ok {
		return dto.NewUnknownEntityError(entity)
	}

	deleted, err := s.store.Delete(ctx, d, reference)
	if err != nil {
		return s.internal(entity, "suppression", err)
	}
	if !deleted {
		return dto.NewNotFoundError(d.Libelle, reference)
	}

	s.cache.Invalidate(ctx, entity)
	return nil
}

// BulkDelete supprime séquentiellement, sans transaction : chaque
// référence a son propre verdict
func (s *ResourceService) BulkDelete(ctx context.Context, entity string, references []string) (*dto.BulkDeleteResult, *dto.OperationError) {
	if _, ok := s.registry.Lookup(entity); !ok {
		return nil, dto.NewUnknownEntityError(entity)
	}

	result := &dto.BulkDeleteResult{}
	for _, ref := range references {
		if opErr := s.Delete(ctx, entity, ref); opErr != nil {
			if result.Failed == nil {
				result.Failed = make(map[string]string)
			}
			result.Failed[ref] = opErr.Message
			continue
		}
		result.Deleted = append(result.Deleted, ref)
	}
	return result, nil
}

// NextReference génère la prochaine référence libre de l'entité
func (s *ResourceService) NextReference(ctx context.Context, entity string) (*dto.NextReferenceResponse, *dto.OperationError) {
	d, ok := s.registry.Lookup(entity)
	if !ok {
		return nil, dto.NewUnknownEntityError(entity)
	}

	existing, opErr := s.existingReferences(ctx, d)
	if opErr != nil {
		return nil, opErr
	}

	now := time.Now()
	return &dto.NextReferenceResponse{
		Reference:   s.generator.Generate(ctx, d, existing, now),
		Entity:      entity,
		GeneratedAt: now,
	}, nil
}

// Snapshot retourne l'instantané complet de l'entité (exports, statistiques)
func (s *ResourceService) Snapshot(ctx context.Context, entity string) ([]dto.Record, *dto.OperationError) {
	d, ok := s.registry.Lookup(entity)
	if !ok {
		return nil, dto.NewUnknownEntityError(entity)
	}
	return s.snapshot(ctx, d)
}

// snapshot sert l'instantané depuis le cache, ou relit le store et
// remplace l'instantané en bloc
func (s *ResourceService) snapshot(ctx context.Context, d descriptor.ResourceDescriptor) ([]dto.Record, *dto.OperationError) {
	if records, ok := s.cache.Get(ctx, d.Name); ok {
		return records, nil
	}

	records, err := s.store.List(ctx, d)
	if err != nil {
		return nil, s.internal(d.Name, "lecture de la liste", err)
	}

	s.cache.Set(ctx, d.Name, records)
	return records, nil
}

func (s *ResourceService) existingReferences(ctx context.Context, d descriptor.ResourceDescriptor) ([]string, *dto.OperationError) {
	records, err := s.store.List(ctx, d)
	if err != nil {
		return nil, s.internal(d.Name, "lecture des références", err)
	}

	refs := make([]string, 0, len(records))
	for _, rec := range records {
		refs = append(refs, rec.Reference())
	}
	return refs, nil
}

func (s *ResourceService) internal(entity, operation string, err error) *dto.OperationError {
	fmt.Printf("[REFERENTIEL] ❌ %s %s: %v\n", entity, operation, err)
	return dto.NewInternalError(err)
}
