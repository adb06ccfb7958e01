package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"evoluflow-core/internal/modules/referentiel/descriptor"
	"evoluflow-core/internal/modules/referentiel/dto"
)

// ExportService matérialise une liste du référentiel en document
// téléchargeable. Le contenu produit est toujours du CSV (séparateur ";",
// convention des tableurs français) : aucun générateur PDF/Office n'est
// embarqué, le format demandé est conservé dans le nom du fichier.
type ExportService struct {
	query *ListQueryService
}

func NewExportService(query *ListQueryService) *ExportService {
	return &ExportService{query: query}
}

// ExportFile est le document produit par un export
type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Export applique l'interrogation demandée puis sérialise les lignes.
// La portée "page" se limite à la page demandée, toute autre portée déroule
// l'ensemble filtré. Si des références sont fournies, l'export est ensuite
// limité à cette sélection.
func (s *ExportService) Export(d descriptor.ResourceDescriptor, records []dto.Record, req dto.ExportRequest) (*ExportFile, *dto.OperationError) {
	var filtered []dto.Record
	if req.Scope == dto.SelectionPage {
		filtered = s.query.Evaluate(d, records, req.Query).Items
	} else {
		query := req.Query
		query.Page = 1
		query.Limit = MaxPageSize
		filtered = s.collectAll(d, records, query)
	}

	if len(req.References) > 0 {
		selected := make(map[string]bool, len(req.References))
		for _, ref := range req.References {
			selected[ref] = true
		}
		var kept []dto.Record
		for _, rec := range filtered {
			if selected[rec.Reference()] {
				kept = append(kept, rec)
			}
		}
		filtered = kept
	}

	content, err := s.writeCSV(d, filtered)
	if err != nil {
		return nil, dto.NewInternalError(err)
	}

	return &ExportFile{
		Filename:    fmt.Sprintf("%s_export_%s_%s.csv", d.Name, req.Format, time.Now().Format("20060102")),
		ContentType: "text/csv; charset=utf-8",
		Content:     content,
	}, nil
}

// collectAll déroule la pagination pour récupérer tout l'ensemble filtré
func (s *ExportService) collectAll(d descriptor.ResourceDescriptor, records []dto.Record, query dto.ListQuery) []dto.Record {
	var all []dto.Record
	for page := 1; ; page++ {
		query.Page = page
		result := s.query.Evaluate(d, records, query)
		all = append(all, result.Items...)
		if page >= result.TotalPages || len(result.Items) == 0 {
			break
		}
	}
	return all
}

func (s *ExportService) writeCSV(d descriptor.ResourceDescriptor, records []dto.Record) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	writer.Comma = ';'

	fields := d.AllFields()
	header := make([]string, len(fields))
	for i, f := range fields {
		header[i] = f.Label
	}
	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("écriture en-tête CSV: %w", err)
	}

	for _, rec := range records {
		row := make([]string, len(fields))
		for i, f := range fields {
			row[i] = exportValue(f, rec[f.Key])
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("écriture ligne CSV: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// exportValue rend la valeur telle que l'écran l'aurait affichée
func exportValue(field descriptor.FieldDescriptor, raw any) string {
	switch field.Type {
	case descriptor.TypeBooleen:
		return dto.LibelleOuiNon(raw)
	case descriptor.TypeDate:
		return dto.FormatHeure(raw)
	default:
		return stringify(raw)
	}
}
