package services

import (
	"context"
	"fmt"

	"evoluflow-core/internal/modules/theme/dto"
)

// DefaultPalette retourne la configuration visuelle de base de l'application.
// Les surcharges utilisateur se fusionnent par-dessus.
func DefaultPalette() dto.ThemePalette {
	return dto.ThemePalette{
		Primary:   "#1e40af",
		Secondary: "#64748b",
		Accent:    "#f59e0b",
		Sidebar: map[string]string{
			"background": "#0f172a",
			"text":       "#e2e8f0",
			"active":     "#1e40af",
		},
		Button: map[string]string{
			"background": "#1e40af",
			"text":       "#ffffff",
			"hover":      "#1e3a8a",
		},
		Table: map[string]string{
			"header": "#f1f5f9",
			"stripe": "#f8fafc",
			"border": "#e2e8f0",
			"hover":  "#eff6ff",
		},
		Form: map[string]string{
			"border": "#cbd5e1",
			"focus":  "#1e40af",
			"error":  "#dc2626",
		},
	}
}

// DefaultPresets retourne les préréglages embarqués, utilisés pour le seeding
// et comme repli si MongoDB est indisponible
func DefaultPresets() []dto.ThemePreset {
	return []dto.ThemePreset{
		{
			Code:    "clair",
			Libelle: "Thème clair",
			Palette: DefaultPalette(),
		},
		{
			Code:    "sombre",
			Libelle: "Thème sombre",
			Palette: dto.ThemePalette{
				Primary:   "#3b82f6",
				Secondary: "#94a3b8",
				Accent:    "#fbbf24",
				Sidebar: map[string]string{
					"background": "#020617",
					"text":       "#cbd5e1",
					"active":     "#3b82f6",
				},
				Button: map[string]string{
					"background": "#3b82f6",
					"text":       "#ffffff",
					"hover":      "#2563eb",
				},
				Table: map[string]string{
					"header": "#1e293b",
					"stripe": "#0f172a",
					"border": "#334155",
					"hover":  "#1e3a8a",
				},
				Form: map[string]string{
					"border": "#475569",
					"focus":  "#3b82f6",
					"error":  "#f87171",
				},
			},
		},
		{
			Code:    "allmeng",
			Libelle: "Centre Allmeng",
			Palette: dto.ThemePalette{
				Primary:   "#0f766e",
				Secondary: "#78716c",
				Accent:    "#ea580c",
			},
		},
	}
}

// OverrideStore est le contrat de persistance des surcharges par utilisateur
type OverrideStore interface {
	Get(ctx context.Context, userID string) (dto.ThemePalette, bool, error)
	Save(ctx context.Context, userID string, palette dto.ThemePalette) error
	Delete(ctx context.Context, userID string) error
}

// PresetStore est le contrat de lecture des préréglages
type PresetStore interface {
	List(ctx context.Context) ([]dto.ThemePreset, error)
}

// ThemeService gère la configuration visuelle : palette par défaut,
// préréglages stockés dans MongoDB et surcharges par utilisateur
type ThemeService struct {
	overrides OverrideStore
	presets   PresetStore
}

// NewThemeServiceWithStores assemble le service sur des stores explicites
func NewThemeServiceWithStores(overrides OverrideStore, presets PresetStore) *ThemeService {
	return &ThemeService{
		overrides: overrides,
		presets:   presets,
	}
}

// GetTheme retourne la palette résolue pour un utilisateur :
// palette par défaut fusionnée superficiellement avec ses surcharges
func (s *ThemeService) GetTheme(ctx context.Context, userID string) (*dto.ThemeResponse, error) {
	override, found, err := s.overrides.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	resolved := DefaultPalette()
	if found {
		resolved = resolved.Merge(override)
	}

	return &dto.ThemeResponse{
		Palette:    resolved,
		Customized: found && !override.IsEmpty(),
	}, nil
}

// UpdateTheme fusionne une surcharge partielle avec les surcharges existantes
// de l'utilisateur et retourne la palette résolue
func (s *ThemeService) UpdateTheme(ctx context.Context, userID string, override dto.ThemePalette) (*dto.ThemeResponse, error) {
	current, found, err := s.overrides.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	merged := override
	if found {
		merged = current.Merge(override)
	}

	if err := s.overrides.Save(ctx, userID, merged); err != nil {
		return nil, err
	}

	return &dto.ThemeResponse{
		Palette:    DefaultPalette().Merge(merged),
		Customized: !merged.IsEmpty(),
	}, nil
}

// ResetTheme supprime les surcharges de l'utilisateur, idempotent
func (s *ThemeService) ResetTheme(ctx context.Context, userID string) (*dto.ThemeResponse, error) {
	if err := s.overrides.Delete(ctx, userID); err != nil {
		return nil, err
	}

	return &dto.ThemeResponse{
		Palette:    DefaultPalette(),
		Customized: false,
	}, nil
}

// ListPresets retourne les préréglages disponibles, depuis MongoDB
// avec repli sur les préréglages embarqués
func (s *ThemeService) ListPresets(ctx context.Context) ([]dto.ThemePreset, error) {
	presets, err := s.presets.List(ctx)
	if err != nil || len(presets) == 0 {
		return DefaultPresets(), nil
	}
	return presets, nil
}

// ApplyPreset remplace entièrement les surcharges de l'utilisateur par la
// palette du préréglage. Surtout pas de fusion : les sous-palettes d'un
// ancien thème ne doivent pas survivre au changement de préréglage.
func (s *ThemeService) ApplyPreset(ctx context.Context, userID, code string) (*dto.ThemeResponse, error) {
	presets, err := s.ListPresets(ctx)
	if err != nil {
		return nil, err
	}

	for _, preset := range presets {
		if preset.Code != code {
			continue
		}

		if err := s.overrides.Save(ctx, userID, preset.Palette); err != nil {
			return nil, err
		}

		return &dto.ThemeResponse{
			Palette:    DefaultPalette().Merge(preset.Palette),
			Customized: !preset.Palette.IsEmpty(),
		}, nil
	}
	return nil, fmt.Errorf("préréglage inconnu: %s", code)
}
