package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"evoluflow-core/internal/modules/referentiel/descriptor"
	"evoluflow-core/internal/modules/referentiel/dto"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// ListQueryService évalue une interrogation de liste sur un instantané
// d'enregistrements : recherche globale, filtres par champ combinés en ET,
// tri (époque pour les dates, jamais les chaînes formatées) et pagination.
type ListQueryService struct{}

func NewListQueryService() *ListQueryService {
	return &ListQueryService{}
}

// Evaluate applique recherche, filtres, tri et pagination dans cet ordre
func (s *ListQueryService) Evaluate(d descriptor.ResourceDescriptor, records []dto.Record, q dto.ListQuery) dto.ListResult {
	filtered := s.applySearch(d, records, q.Search)
	filtered = s.applyFilters(d, filtered, q.Filters)
	s.applySort(d, filtered, q.SortBy, q.SortDir)

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	total := len(filtered)
	totalPages := (total + limit - 1) / limit
	if totalPages == 0 {
		totalPages = 1
	}

	// Une page hors bornes (filtre resserré, taille de page modifiée)
	// ramène à la première page
	page := q.Page
	if page < 1 || page > totalPages {
		page = 1
	}

	start := (page - 1) * limit
	end := start + limit
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	items := filtered[start:end]
	if items == nil {
		items = []dto.Record{}
	}

	return dto.ListResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}

// applySearch conserve les lignes dont au moins un champ interrogeable
// contient le terme, sans sensibilité à la casse
func (s *ListQueryService) applySearch(d descriptor.ResourceDescriptor, records []dto.Record, search string) []dto.Record {
	term := strings.ToLower(strings.TrimSpace(search))
	if term == "" {
		return append([]dto.Record(nil), records...)
	}

	keys := d.SearchableKeys()
	var out []dto.Record
	for _, rec := range records {
		for _, key := range keys {
			if strings.Contains(strings.ToLower(stringify(rec[key])), term) {
				out = append(out, rec)
				break
			}
		}
	}
	return out
}

// applyFilters combine les filtres par champ en ET avec la recherche.
// Les champs texte filtrent par sous-chaîne, les autres par égalité stricte.
func (s *ListQueryService) applyFilters(d descriptor.ResourceDescriptor, records []dto.Record, filters map[string]string) []dto.Record {
	if len(filters) == 0 {
		return records
	}

	out := records
	for key, value := range filters {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		field, ok := d.Field(key)
		if !ok || !field.Filterable {
			continue
		}

		var kept []dto.Record
		for _, rec := range out {
			if matchesFilter(field, rec[key], value) {
				kept = append(kept, rec)
			}
		}
		out = kept
	}
	return out
}

func matchesFilter(field descriptor.FieldDescriptor, raw any, value string) bool {
	if field.Type == descriptor.TypeTexte {
		return strings.Contains(strings.ToLower(stringify(raw)), strings.ToLower(value))
	}
	return strings.EqualFold(stringify(raw), value)
}

// applySort trie en place selon le champ demandé. Le tri est stable pour
// conserver l'ordre serveur entre lignes équivalentes. Une direction vide
// laisse la liste non triée (troisième état du cycle d'en-tête).
func (s *ListQueryService) applySort(d descriptor.ResourceDescriptor, records []dto.Record, sortBy, sortDir string) {
	if sortBy == "" || (sortDir != "asc" && sortDir != "desc") {
		return
	}
	field, ok := d.Field(sortBy)
	if !ok || !field.Sortable {
		return
	}

	desc := sortDir == "desc"
	sort.SliceStable(records, func(i, j int) bool {
		less := lessByField(field, records[i][sortBy], records[j][sortBy])
		if desc {
			return lessByField(field, records[j][sortBy], records[i][sortBy])
		}
		return less
	})
}

func lessByField(field descriptor.FieldDescriptor, a, b any) bool {
	switch field.Type {
	case descriptor.TypeDate:
		// Comparaison par époque : l'ordre lexicographique des dates
		// formatées est faux au passage de mois ou d'année
		ta, oka := dto.HeureTime(a)
		tb, okb := dto.HeureTime(b)
		if !oka {
			return okb
		}
		if !okb {
			return false
		}
		return ta.Before(tb)
	case descriptor.TypeEntier, descriptor.TypeBooleen:
		na, oka := numeric(a)
		nb, okb := numeric(b)
		if !oka {
			return okb
		}
		if !okb {
			return false
		}
		return na < nb
	default:
		return strings.ToLower(stringify(a)) < strings.ToLower(stringify(b))
	}
}

func numeric(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", x)
	}
}
