package services

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evoluflow-core/internal/modules/referentiel/descriptor"
	"evoluflow-core/internal/modules/referentiel/dto"
)

// memStore est l'implémentation en mémoire de ResourceStore pour les tests
type memStore struct {
	records map[string]map[string]dto.Record // entité -> référence -> enregistrement
}

func newMemStore() *memStore {
	return &memStore{records: make(map[string]map[string]dto.Record)}
}

func (s *memStore) table(entity string) map[string]dto.Record {
	if s.records[entity] == nil {
		s.records[entity] = make(map[string]dto.Record)
	}
	return s.records[entity]
}

func (s *memStore) List(_ context.Context, d descriptor.ResourceDescriptor) ([]dto.Record, error) {
	table := s.table(d.Name)
	refs := make([]string, 0, len(table))
	for ref := range table {
		refs = append(refs, ref)
	}
	sort.Strings(refs)

	out := make([]dto.Record, 0, len(refs))
	for _, ref := range refs {
		out = append(out, table[ref].Clone())
	}
	return out, nil
}

func (s *memStore) GetByReference(_ context.Context, d descriptor.ResourceDescriptor, reference string) (dto.Record, error) {
	record, ok := s.table(d.Name)[reference]
	if !ok {
		return nil, nil
	}
	return record.Clone(), nil
}

func (s *memStore) Exists(_ context.Context, d descriptor.ResourceDescriptor, reference string) (bool, error) {
	_, ok := s.table(d.Name)[reference]
	return ok, nil
}

func (s *memStore) Insert(_ context.Context, d descriptor.ResourceDescriptor, record dto.Record) error {
	table := s.table(d.Name)
	ref := record.Reference()
	if _, ok := table[ref]; ok {
		return ErrDuplicateReference
	}
	table[ref] = record.Clone()
	return nil
}

func (s *memStore) Update(_ context.Context, d descriptor.ResourceDescriptor, reference string, record dto.Record) (bool, error) {
	table := s.table(d.Name)
	if _, ok := table[reference]; !ok {
		return false, nil
	}
	table[reference] = record.Clone()
	return true, nil
}

func (s *memStore) Delete(_ context.Context, d descriptor.ResourceDescriptor, reference string) (bool, error) {
	table := s.table(d.Name)
	if _, ok := table[reference]; !ok {
		return false, nil
	}
	delete(table, reference)
	return true, nil
}

func (s *memStore) Count(_ context.Context, d descriptor.ResourceDescriptor) (int, error) {
	return len(s.table(d.Name)), nil
}

// memCache trace les invalidations pour vérifier la relecture après mutation
type memCache struct {
	snapshots     map[string][]dto.Record
	invalidations []string
}

func newMemCache() *memCache {
	return &memCache{snapshots: make(map[string][]dto.Record)}
}

func (c *memCache) Get(_ context.Context, entity string) ([]dto.Record, bool) {
	records, ok := c.snapshots[entity]
	return records, ok
}

func (c *memCache) Set(_ context.Context, entity string, records []dto.Record) {
	c.snapshots[entity] = records
}

func (c *memCache) Invalidate(_ context.Context, entity string) {
	delete(c.snapshots, entity)
	c.invalidations = append(c.invalidations, entity)
}

func newTestService(t *testing.T) (*ResourceService, *memStore, *memCache) {
	t.Helper()

	registry, err := descriptor.NewCatalogRegistry()
	require.NoError(t, err)

	store := newMemStore()
	cache := newMemCache()
	service := NewResourceService(
		registry,
		store,
		cache,
		NewReferenceGeneratorService(nil),
		NewValidationService(),
		NewListQueryService(),
	)
	return service, store, cache
}

func TestResourceServiceAddGeneratesReference(t *testing.T) {
	service, _, cache := newTestService(t)
	ctx := context.Background()

	record, opErr := service.Add(ctx, "situation", dto.Record{"libelle": "Célibataire"}, "admin")
	require.Nil(t, opErr)

	now := time.Now()
	assert.Equal(t, BuildReference("SIT", now, 1), record.Reference())
	assert.Equal(t, "admin", record.GetString("utilisateur"))
	assert.NotNil(t, record["heure"])
	assert.Contains(t, cache.invalidations, "situation")
}

func TestResourceServiceAddSequencesReferences(t *testing.T) {
	service, _, _ := newTestService(t)
	ctx := context.Background()

	first, opErr := service.Add(ctx, "situation", dto.Record{"libelle": "Célibataire"}, "admin")
	require.Nil(t, opErr)
	second, opErr := service.Add(ctx, "situation", dto.Record{"libelle": "Marié(e)"}, "admin")
	require.Nil(t, opErr)

	now := time.Now()
	assert.Equal(t, BuildReference("SIT", now, 1), first.Reference())
	assert.Equal(t, BuildReference("SIT", now, 2), second.Reference())
}

func TestResourceServiceAddClientReferenceConflict(t *testing.T) {
	service, _, _ := newTestService(t)
	ctx := context.Background()

	ref := BuildReference("SIT", time.Now(), 1)
	_, opErr := service.Add(ctx, "situation", dto.Record{"reference": ref, "libelle": "Célibataire"}, "admin")
	require.Nil(t, opErr)

	_, opErr = service.Add(ctx, "situation", dto.Record{"reference": ref, "libelle": "Marié(e)"}, "admin")
	require.NotNil(t, opErr)
	assert.Equal(t, dto.KindConflict, opErr.Kind)
	assert.Equal(t, "REFERENCE_CONFLICT", opErr.Code)

	// la proposition de remplacement est libre et bien formée
	suggested := opErr.SuggestedReference
	require.NotEmpty(t, suggested)
	assert.NotEqual(t, ref, suggested)
	assert.Equal(t, BuildReference("SIT", time.Now(), 2), suggested)
}

func TestResourceServiceAddValidation(t *testing.T) {
	service, _, _ := newTestService(t)

	_, opErr := service.Add(context.Background(), "situation", dto.Record{"libelle": "   "}, "admin")
	require.NotNil(t, opErr)
	assert.Equal(t, dto.KindValidation, opErr.Kind)
	assert.Equal(t, "Le libellé est requis", opErr.Champs["libelle"])
}

func TestResourceServiceAddUnknownEntity(t *testing.T) {
	service, _, _ := newTestService(t)

	_, opErr := service.Add(context.Background(), "inconnue", dto.Record{"libelle": "X"}, "admin")
	require.NotNil(t, opErr)
	assert.Equal(t, "UNKNOWN_ENTITY", opErr.Code)
}

func TestResourceServiceUpdatePreservesAudit(t *testing.T) {
	service, store, _ := newTestService(t)
	ctx := context.Background()

	created, opErr := service.Add(ctx, "situation", dto.Record{"libelle": "Célibataire"}, "createur")
	require.Nil(t, opErr)

	updated, opErr := service.Update(ctx, "situation", created.Reference(), dto.Record{"libelle": "Divorcé(e)"}, "modificateur")
	require.Nil(t, opErr)

	assert.Equal(t, "Divorcé(e)", updated.GetString("libelle"))
	assert.Equal(t, "createur", updated.GetString("utilisateur"))
	assert.Equal(t, created["heure"], updated["heure"])

	stored, err := store.GetByReference(ctx, mustLookup(t, service, "situation"), created.Reference())
	require.NoError(t, err)
	assert.Equal(t, "Divorcé(e)", stored.GetString("libelle"))
}

func TestResourceServiceUpdateImmutableReference(t *testing.T) {
	service, _, _ := newTestService(t)
	ctx := context.Background()

	created, opErr := service.Add(ctx, "situation", dto.Record{"libelle": "Célibataire"}, "admin")
	require.Nil(t, opErr)

	_, opErr = service.Update(ctx, "situation", created.Reference(),
		dto.Record{"reference": "SIT9999999", "libelle": "Autre"}, "admin")
	require.NotNil(t, opErr)
	assert.Equal(t, dto.KindValidation, opErr.Kind)
	assert.Equal(t, "La référence est immuable", opErr.Champs["reference"])
}

func TestResourceServiceUpdateNotFound(t *testing.T) {
	service, _, _ := newTestService(t)

	_, opErr := service.Update(context.Background(), "situation", "SIT2501001", dto.Record{"libelle": "X"}, "admin")
	require.NotNil(t, opErr)
	assert.Equal(t, dto.KindNotFound, opErr.Kind)
}

func TestResourceServiceDeleteInvalidatesSnapshot(t *testing.T) {
	service, _, cache := newTestService(t)
	ctx := context.Background()

	created, opErr := service.Add(ctx, "situation", dto.Record{"libelle": "Célibataire"}, "admin")
	require.Nil(t, opErr)

	// amorcer l'instantané
	result, opErr := service.List(ctx, "situation", dto.ListQuery{})
	require.Nil(t, opErr)
	assert.Equal(t, 1, result.Total)

	require.Nil(t, service.Delete(ctx, "situation", created.Reference()))

	// la liste suivante relit le store, l'enregistrement a disparu
	result, opErr = service.List(ctx, "situation", dto.ListQuery{})
	require.Nil(t, opErr)
	assert.Equal(t, 0, result.Total)
	assert.GreaterOrEqual(t, len(cache.invalidations), 2)
}

func TestResourceServiceBulkDeletePartialFailure(t *testing.T) {
	service, _, _ := newTestService(t)
	ctx := context.Background()

	created, opErr := service.Add(ctx, "situation", dto.Record{"libelle": "Célibataire"}, "admin")
	require.Nil(t, opErr)

	result, opErr := service.BulkDelete(ctx, "situation", []string{created.Reference(), "SIT0000000"})
	require.Nil(t, opErr)

	assert.Equal(t, []string{created.Reference()}, result.Deleted)
	require.Len(t, result.Failed, 1)
	assert.Contains(t, result.Failed, "SIT0000000")
}

func TestResourceServiceNextReferenceDoesNotReserve(t *testing.T) {
	service, _, _ := newTestService(t)
	ctx := context.Background()

	first, opErr := service.NextReference(ctx, "situation")
	require.Nil(t, opErr)
	second, opErr := service.NextReference(ctx, "situation")
	require.Nil(t, opErr)

	// sans insertion ni Redis, la prévisualisation ne consomme rien
	assert.Equal(t, first.Reference, second.Reference)
}

func TestResourceServiceGetByReference(t *testing.T) {
	service, _, _ := newTestService(t)
	ctx := context.Background()

	created, opErr := service.Add(ctx, "situation", dto.Record{"libelle": "Célibataire"}, "admin")
	require.Nil(t, opErr)

	record, opErr := service.GetByReference(ctx, "situation", created.Reference())
	require.Nil(t, opErr)
	assert.Equal(t, "Célibataire", record.GetString("libelle"))

	_, opErr = service.GetByReference(ctx, "situation", "SIT0000000")
	require.NotNil(t, opErr)
	assert.Equal(t, dto.KindNotFound, opErr.Kind)
}

func mustLookup(t *testing.T, service *ResourceService, entity string) descriptor.ResourceDescriptor {
	t.Helper()
	d, ok := service.Registry().Lookup(entity)
	require.True(t, ok)
	return d
}
