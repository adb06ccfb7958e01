package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evoluflow-core/internal/modules/theme/dto"
)

type memOverrideStore struct {
	palettes map[string]dto.ThemePalette
}

func newMemOverrideStore() *memOverrideStore {
	return &memOverrideStore{palettes: map[string]dto.ThemePalette{}}
}

func (s *memOverrideStore) Get(_ context.Context, userID string) (dto.ThemePalette, bool, error) {
	palette, found := s.palettes[userID]
	return palette, found, nil
}

func (s *memOverrideStore) Save(_ context.Context, userID string, palette dto.ThemePalette) error {
	s.palettes[userID] = palette
	return nil
}

func (s *memOverrideStore) Delete(_ context.Context, userID string) error {
	delete(s.palettes, userID)
	return nil
}

type memPresetStore struct {
	presets []dto.ThemePreset
	err     error
}

func (s *memPresetStore) List(_ context.Context) ([]dto.ThemePreset, error) {
	return s.presets, s.err
}

func newThemeTestService(overrides *memOverrideStore) *ThemeService {
	return NewThemeServiceWithStores(overrides, &memPresetStore{presets: DefaultPresets()})
}

func TestGetThemeWithoutOverride(t *testing.T) {
	service := newThemeTestService(newMemOverrideStore())

	resp, err := service.GetTheme(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, DefaultPalette(), resp.Palette)
	assert.False(t, resp.Customized)
}

func TestUpdateThemeMergesWithExistingOverride(t *testing.T) {
	overrides := newMemOverrideStore()
	service := newThemeTestService(overrides)

	_, err := service.UpdateTheme(context.Background(), "user-1", dto.ThemePalette{
		Primary: "#111111",
		Sidebar: map[string]string{"background": "#000000"},
	})
	require.NoError(t, err)

	resp, err := service.UpdateTheme(context.Background(), "user-1", dto.ThemePalette{
		Accent: "#222222",
	})
	require.NoError(t, err)

	// La fusion garde les surcharges antérieures non contredites
	stored := overrides.palettes["user-1"]
	assert.Equal(t, "#111111", stored.Primary)
	assert.Equal(t, "#222222", stored.Accent)
	assert.Equal(t, map[string]string{"background": "#000000"}, stored.Sidebar)
	assert.True(t, resp.Customized)
}

func TestApplyPresetReplacesPreviousOverrides(t *testing.T) {
	overrides := newMemOverrideStore()
	service := newThemeTestService(overrides)

	_, err := service.ApplyPreset(context.Background(), "user-1", "sombre")
	require.NoError(t, err)
	require.NotNil(t, overrides.palettes["user-1"].Sidebar)

	resp, err := service.ApplyPreset(context.Background(), "user-1", "allmeng")
	require.NoError(t, err)

	// Le préréglage remplace les surcharges : les sous-palettes du thème
	// sombre ne doivent pas persister après le passage à allmeng
	stored := overrides.palettes["user-1"]
	assert.Equal(t, "#0f766e", stored.Primary)
	assert.Nil(t, stored.Sidebar)
	assert.Nil(t, stored.Button)
	assert.Nil(t, stored.Table)
	assert.Nil(t, stored.Form)

	assert.Equal(t, DefaultPalette().Sidebar, resp.Palette.Sidebar)
	assert.Equal(t, DefaultPalette().Table, resp.Palette.Table)
	assert.Equal(t, "#0f766e", resp.Palette.Primary)
}

func TestApplyPresetAfterManualOverride(t *testing.T) {
	overrides := newMemOverrideStore()
	service := newThemeTestService(overrides)

	_, err := service.UpdateTheme(context.Background(), "user-1", dto.ThemePalette{
		Table: map[string]string{"header": "#1e293b"},
	})
	require.NoError(t, err)

	_, err = service.ApplyPreset(context.Background(), "user-1", "clair")
	require.NoError(t, err)

	stored := overrides.palettes["user-1"]
	assert.Equal(t, DefaultPalette().Table, stored.Table)
}

func TestApplyPresetUnknownCode(t *testing.T) {
	service := newThemeTestService(newMemOverrideStore())

	_, err := service.ApplyPreset(context.Background(), "user-1", "inexistant")
	assert.Error(t, err)
}

func TestResetThemeClearsOverride(t *testing.T) {
	overrides := newMemOverrideStore()
	service := newThemeTestService(overrides)

	_, err := service.UpdateTheme(context.Background(), "user-1", dto.ThemePalette{Primary: "#111111"})
	require.NoError(t, err)

	resp, err := service.ResetTheme(context.Background(), "user-1")
	require.NoError(t, err)

	_, found := overrides.palettes["user-1"]
	assert.False(t, found)
	assert.Equal(t, DefaultPalette(), resp.Palette)
	assert.False(t, resp.Customized)
}

func TestListPresetsFallsBackToDefaults(t *testing.T) {
	service := NewThemeServiceWithStores(newMemOverrideStore(), &memPresetStore{err: errors.New("mongo indisponible")})

	presets, err := service.ListPresets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultPresets(), presets)

	service = NewThemeServiceWithStores(newMemOverrideStore(), &memPresetStore{})
	presets, err = service.ListPresets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultPresets(), presets)
}
