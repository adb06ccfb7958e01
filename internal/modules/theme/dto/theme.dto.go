package dto

// ThemePalette décrit une palette de personnalisation de l'interface.
// Les couleurs principales et chaque sous-palette (sidebar, boutons,
// tableaux, formulaires) sont surchargeables indépendamment.
type ThemePalette struct {
	Primary   string            `json:"primary,omitempty" bson:"primary,omitempty"`
	Secondary string            `json:"secondary,omitempty" bson:"secondary,omitempty"`
	Accent    string            `json:"accent,omitempty" bson:"accent,omitempty"`
	Sidebar   map[string]string `json:"sidebar,omitempty" bson:"sidebar,omitempty"`
	Button    map[string]string `json:"button,omitempty" bson:"button,omitempty"`
	Table     map[string]string `json:"table,omitempty" bson:"table,omitempty"`
	Form      map[string]string `json:"form,omitempty" bson:"form,omitempty"`
}

// IsEmpty indique si la palette ne porte aucune surcharge
func (p ThemePalette) IsEmpty() bool {
	return p.Primary == "" && p.Secondary == "" && p.Accent == "" &&
		len(p.Sidebar) == 0 && len(p.Button) == 0 && len(p.Table) == 0 && len(p.Form) == 0
}

// Merge applique une surcharge sur la palette, en fusion superficielle :
// chaque clé de premier niveau présente dans la surcharge remplace en bloc
// la valeur précédente, les clés absentes sont conservées.
func (p ThemePalette) Merge(override ThemePalette) ThemePalette {
	merged := p
	if override.Primary != "" {
		merged.Primary = override.Primary
	}
	if override.Secondary != "" {
		merged.Secondary = override.Secondary
	}
	if override.Accent != "" {
		merged.Accent = override.Accent
	}
	if override.Sidebar != nil {
		merged.Sidebar = override.Sidebar
	}
	if override.Button != nil {
		merged.Button = override.Button
	}
	if override.Table != nil {
		merged.Table = override.Table
	}
	if override.Form != nil {
		merged.Form = override.Form
	}
	return merged
}

// ThemePreset est une palette nommée proposée par défaut
type ThemePreset struct {
	Code    string       `json:"code" bson:"_id"`
	Libelle string       `json:"libelle" bson:"libelle"`
	Palette ThemePalette `json:"palette" bson:"palette"`
}

// ThemeResponse est la configuration résolue retournée au client
type ThemeResponse struct {
	Palette    ThemePalette `json:"palette"`
	Customized bool         `json:"customized"` // des surcharges utilisateur existent
}

// UpdateThemeRequest porte une surcharge partielle de palette
type UpdateThemeRequest struct {
	Palette ThemePalette `json:"palette"`
}
