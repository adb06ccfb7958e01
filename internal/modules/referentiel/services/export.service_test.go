package services

import (
	"encoding/csv"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evoluflow-core/internal/modules/referentiel/dto"
)

func modePaiementRecords() []dto.Record {
	return []dto.Record{
		{
			"reference": "MPA2501001", "libelle": "Espèces",
			"autorise": 1, "delai_jours": 0,
			"utilisateur": "system", "heure": time.Date(2025, 1, 5, 8, 0, 0, 0, time.UTC),
		},
		{
			"reference": "MPA2501002", "libelle": "Chèque",
			"autorise": 0, "delai_jours": 3,
			"utilisateur": "system", "heure": time.Date(2025, 1, 6, 9, 30, 0, 0, time.UTC),
		},
	}
}

func parseCSV(t *testing.T, content []byte) [][]string {
	t.Helper()
	reader := csv.NewReader(strings.NewReader(string(content)))
	reader.Comma = ';'
	rows, err := reader.ReadAll()
	require.NoError(t, err)
	return rows
}

func TestExportProducesSemicolonCSV(t *testing.T) {
	service := NewExportService(NewListQueryService())
	d := lookupDescriptor(t, "mode_paiement")

	file, opErr := service.Export(d, modePaiementRecords(), dto.ExportRequest{Format: "csv"})
	require.Nil(t, opErr)

	assert.Equal(t, "text/csv; charset=utf-8", file.ContentType)

	rows := parseCSV(t, file.Content)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{
		"Référence", "Libellé", "Autorisation", "Délai (jours)", "Utilisateur", "Date de création",
	}, rows[0])
	assert.Equal(t, []string{
		"MPA2501001", "Espèces", "Oui", "0", "system", "05/01/2025 08:00",
	}, rows[1])
	assert.Equal(t, "Non", rows[2][2])
}

func TestExportFilenameCarriesRequestedFormat(t *testing.T) {
	service := NewExportService(NewListQueryService())
	d := lookupDescriptor(t, "mode_paiement")

	for _, format := range []string{"csv", "pdf", "excel", "word"} {
		file, opErr := service.Export(d, modePaiementRecords(), dto.ExportRequest{Format: format})
		require.Nil(t, opErr)

		expected := fmt.Sprintf("mode_paiement_export_%s_%s.csv", format, time.Now().Format("20060102"))
		assert.Equal(t, expected, file.Filename)
	}
}

func TestExportRespectsSelection(t *testing.T) {
	service := NewExportService(NewListQueryService())
	d := lookupDescriptor(t, "mode_paiement")

	file, opErr := service.Export(d, modePaiementRecords(), dto.ExportRequest{
		Format:     "csv",
		References: []string{"MPA2501002"},
	})
	require.Nil(t, opErr)

	rows := parseCSV(t, file.Content)
	require.Len(t, rows, 2)
	assert.Equal(t, "MPA2501002", rows[1][0])
}

func TestExportAppliesQueryFilters(t *testing.T) {
	service := NewExportService(NewListQueryService())
	d := lookupDescriptor(t, "mode_paiement")

	file, opErr := service.Export(d, modePaiementRecords(), dto.ExportRequest{
		Format: "csv",
		Query:  dto.ListQuery{Filters: map[string]string{"autorise": "1"}},
	})
	require.Nil(t, opErr)

	rows := parseCSV(t, file.Content)
	require.Len(t, rows, 2)
	assert.Equal(t, "MPA2501001", rows[1][0])
}

func TestExportIgnoresRequestedPage(t *testing.T) {
	service := NewExportService(NewListQueryService())
	d := lookupDescriptor(t, "mode_paiement")

	// la pagination de l'écran ne tronque pas l'export
	file, opErr := service.Export(d, modePaiementRecords(), dto.ExportRequest{
		Format: "csv",
		Query:  dto.ListQuery{Page: 7, Limit: 1},
	})
	require.Nil(t, opErr)

	rows := parseCSV(t, file.Content)
	assert.Len(t, rows, 3)
}

func TestExportScopePageLimitsToRequestedPage(t *testing.T) {
	service := NewExportService(NewListQueryService())
	d := lookupDescriptor(t, "mode_paiement")

	// portée "page" : seule la page demandée est exportée
	file, opErr := service.Export(d, modePaiementRecords(), dto.ExportRequest{
		Format: "csv",
		Scope:  dto.SelectionPage,
		Query:  dto.ListQuery{Page: 2, Limit: 1},
	})
	require.Nil(t, opErr)

	rows := parseCSV(t, file.Content)
	require.Len(t, rows, 2)
	assert.Equal(t, "MPA2501002", rows[1][0])
}

func TestExportScopeFiltreWalksWholeSet(t *testing.T) {
	service := NewExportService(NewListQueryService())
	d := lookupDescriptor(t, "mode_paiement")

	file, opErr := service.Export(d, modePaiementRecords(), dto.ExportRequest{
		Format: "csv",
		Scope:  dto.SelectionFiltre,
		Query:  dto.ListQuery{Page: 7, Limit: 1},
	})
	require.Nil(t, opErr)

	rows := parseCSV(t, file.Content)
	assert.Len(t, rows, 3)
}

func TestCollectAllWalksEveryPage(t *testing.T) {
	service := NewExportService(NewListQueryService())
	d := lookupDescriptor(t, "mode_paiement")

	records := make([]dto.Record, 0, 25)
	for i := 1; i <= 25; i++ {
		records = append(records, dto.Record{
			"reference": fmt.Sprintf("MPA2501%03d", i),
			"libelle":   fmt.Sprintf("Mode %02d", i),
		})
	}

	all := service.collectAll(d, records, dto.ListQuery{Limit: 10})
	assert.Len(t, all, 25)
}
