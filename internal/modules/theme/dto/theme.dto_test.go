package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func basePalette() ThemePalette {
	return ThemePalette{
		Primary:   "#1a4d8f",
		Secondary: "#5c7ba6",
		Accent:    "#e8a33d",
		Sidebar:   map[string]string{"background": "#12263a", "text": "#f4f7fa"},
		Button:    map[string]string{"background": "#1a4d8f", "text": "#ffffff"},
	}
}

func TestPaletteIsEmpty(t *testing.T) {
	assert.True(t, ThemePalette{}.IsEmpty())
	assert.False(t, ThemePalette{Primary: "#000000"}.IsEmpty())
	assert.False(t, ThemePalette{Sidebar: map[string]string{"text": "#fff"}}.IsEmpty())
}

func TestMergeReplacesScalarsWhenSet(t *testing.T) {
	merged := basePalette().Merge(ThemePalette{Primary: "#b3122e"})

	assert.Equal(t, "#b3122e", merged.Primary)
	assert.Equal(t, "#5c7ba6", merged.Secondary)
	assert.Equal(t, "#e8a33d", merged.Accent)
}

func TestMergeReplacesSubPalettesWholesale(t *testing.T) {
	// la fusion est superficielle : une sous-palette surchargée remplace
	// l'ancienne en bloc, clés absentes comprises
	merged := basePalette().Merge(ThemePalette{
		Sidebar: map[string]string{"background": "#000000"},
	})

	assert.Equal(t, map[string]string{"background": "#000000"}, merged.Sidebar)
	assert.NotContains(t, merged.Sidebar, "text")
	assert.Equal(t, basePalette().Button, merged.Button)
}

func TestMergeEmptyOverrideKeepsBase(t *testing.T) {
	base := basePalette()
	merged := base.Merge(ThemePalette{})

	assert.Equal(t, base, merged)
}

func TestMergeDoesNotMutateReceiver(t *testing.T) {
	base := basePalette()
	base.Merge(ThemePalette{Primary: "#b3122e", Sidebar: map[string]string{}})

	assert.Equal(t, "#1a4d8f", base.Primary)
	assert.Equal(t, basePalette().Sidebar, base.Sidebar)
}
