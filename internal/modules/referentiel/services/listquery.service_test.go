package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evoluflow-core/internal/modules/referentiel/descriptor"
	"evoluflow-core/internal/modules/referentiel/dto"
)

func candidatDescriptor(t *testing.T) descriptor.ResourceDescriptor {
	t.Helper()
	registry, err := descriptor.NewCatalogRegistry()
	require.NoError(t, err)
	d, ok := registry.Lookup("candidat")
	require.True(t, ok)
	return d
}

func candidatRecords() []dto.Record {
	return []dto.Record{
		{
			"reference": "CAN2501001", "libelle": "Dossier Kouassi",
			"nom": "Kouassi", "prenoms": "Awa", "statut_dossier": "complet",
			"dossier_paye": 1, "heure": time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC),
		},
		{
			"reference": "CAN2501002", "libelle": "Dossier Diallo",
			"nom": "Diallo", "prenoms": "Moussa", "statut_dossier": "incomplet",
			"dossier_paye": 0, "heure": time.Date(2024, 12, 28, 14, 30, 0, 0, time.UTC),
		},
		{
			"reference": "CAN2501003", "libelle": "Dossier Traoré",
			"nom": "Traoré", "prenoms": "Fatou", "statut_dossier": "complet",
			"dossier_paye": 0, "heure": time.Date(2025, 1, 2, 8, 15, 0, 0, time.UTC),
		},
	}
}

func TestListQuerySearchCaseInsensitive(t *testing.T) {
	d := candidatDescriptor(t)
	service := NewListQueryService()

	result := service.Evaluate(d, candidatRecords(), dto.ListQuery{Search: "KOUASSI"})

	require.Equal(t, 1, result.Total)
	assert.Equal(t, "CAN2501001", result.Items[0].Reference())
}

func TestListQuerySearchNoMatch(t *testing.T) {
	d := candidatDescriptor(t)
	service := NewListQueryService()

	result := service.Evaluate(d, candidatRecords(), dto.ListQuery{Search: "introuvable"})

	assert.Equal(t, 0, result.Total)
	assert.NotNil(t, result.Items)
	assert.Empty(t, result.Items)
}

func TestListQueryFiltersCombineEnEt(t *testing.T) {
	d := candidatDescriptor(t)
	service := NewListQueryService()

	result := service.Evaluate(d, candidatRecords(), dto.ListQuery{
		Filters: map[string]string{
			"statut_dossier": "complet",
			"dossier_paye":   "0",
		},
	})

	require.Equal(t, 1, result.Total)
	assert.Equal(t, "CAN2501003", result.Items[0].Reference())
}

func TestListQueryFilterIgnoresUnknownField(t *testing.T) {
	d := candidatDescriptor(t)
	service := NewListQueryService()

	result := service.Evaluate(d, candidatRecords(), dto.ListQuery{
		Filters: map[string]string{"champ_inconnu": "x"},
	})

	assert.Equal(t, 3, result.Total)
}

func TestListQuerySortDatesByEpoch(t *testing.T) {
	d := candidatDescriptor(t)
	service := NewListQueryService()

	// l'ordre lexicographique des dates formatées jj/mm/aaaa placerait
	// le 02/01/2025 avant le 28/12/2024
	result := service.Evaluate(d, candidatRecords(), dto.ListQuery{SortBy: "heure", SortDir: "asc"})

	require.Equal(t, 3, result.Total)
	assert.Equal(t, "CAN2501002", result.Items[0].Reference()) // 28/12/2024
	assert.Equal(t, "CAN2501003", result.Items[1].Reference()) // 02/01/2025
	assert.Equal(t, "CAN2501001", result.Items[2].Reference()) // 10/01/2025
}

func TestListQuerySortDescInversesAsc(t *testing.T) {
	d := candidatDescriptor(t)
	service := NewListQueryService()

	asc := service.Evaluate(d, candidatRecords(), dto.ListQuery{SortBy: "nom", SortDir: "asc"})
	desc := service.Evaluate(d, candidatRecords(), dto.ListQuery{SortBy: "nom", SortDir: "desc"})

	require.Equal(t, len(asc.Items), len(desc.Items))
	for i := range asc.Items {
		assert.Equal(t, asc.Items[i].Reference(), desc.Items[len(desc.Items)-1-i].Reference())
	}
}

func TestListQueryEmptyDirLeavesServerOrder(t *testing.T) {
	d := candidatDescriptor(t)
	service := NewListQueryService()

	// troisième état du cycle de tri : direction vide, ordre serveur conservé
	result := service.Evaluate(d, candidatRecords(), dto.ListQuery{SortBy: "nom", SortDir: ""})

	assert.Equal(t, "CAN2501001", result.Items[0].Reference())
	assert.Equal(t, "CAN2501002", result.Items[1].Reference())
	assert.Equal(t, "CAN2501003", result.Items[2].Reference())
}

func TestListQueryPagination(t *testing.T) {
	d := candidatDescriptor(t)
	service := NewListQueryService()

	result := service.Evaluate(d, candidatRecords(), dto.ListQuery{Page: 2, Limit: 2})

	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 2, result.Page)
	assert.Equal(t, 2, result.TotalPages)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "CAN2501003", result.Items[0].Reference())
}

func TestListQueryPageOutOfRangeResetsToFirst(t *testing.T) {
	d := candidatDescriptor(t)
	service := NewListQueryService()

	result := service.Evaluate(d, candidatRecords(), dto.ListQuery{Page: 9, Limit: 2})

	assert.Equal(t, 1, result.Page)
	require.Len(t, result.Items, 2)
	assert.Equal(t, "CAN2501001", result.Items[0].Reference())
}

func TestListQueryLimitBounds(t *testing.T) {
	d := candidatDescriptor(t)
	service := NewListQueryService()

	zero := service.Evaluate(d, candidatRecords(), dto.ListQuery{Limit: 0})
	assert.Equal(t, DefaultPageSize, zero.Limit)

	huge := service.Evaluate(d, candidatRecords(), dto.ListQuery{Limit: 10000})
	assert.Equal(t, MaxPageSize, huge.Limit)
}

func TestListQueryDoesNotMutateSnapshot(t *testing.T) {
	d := candidatDescriptor(t)
	service := NewListQueryService()
	records := candidatRecords()

	service.Evaluate(d, records, dto.ListQuery{Search: "dossier", SortBy: "nom", SortDir: "desc"})

	// l'instantané d'origine garde son ordre serveur
	assert.Equal(t, "CAN2501001", records[0].Reference())
	assert.Equal(t, "CAN2501002", records[1].Reference())
	assert.Equal(t, "CAN2501003", records[2].Reference())
}
