package handler

import (
	"os"
	"path/filepath"
	"testing"

	M "github.com/swastikanata/ecommerce-dashboard/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadNarrativeDefault(t *testing.T) {
	narrative, err := LoadNarrative("")
	require.NoError(t, err)

	assert.Equal(t, "Analisis E-Commerce", narrative.Title)
	require.Len(t, narrative.Tabs, 3)
	assert.True(t, narrative.Tabs[0].ShowMetrics)

	charts := make(map[string]bool)
	for _, tab := range narrative.Tabs {
		for _, block := range tab.Blocks {
			if block.Chart != "" {
				charts[block.Chart] = true
			}
		}
	}
	for _, id := range M.ChartIDs {
		assert.True(t, charts[id], id)
	}
}

func TestLoadNarrativeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "narrative.yaml")
	raw := []byte("title: Toko\ntabs:\n  - id: one\n    label: Satu\n    blocks:\n      - chart: recency\n      - text: Halo\n")
	require.NoError(t, os.WriteFile(path, raw, 0644))

	narrative, err := LoadNarrative(path)
	require.NoError(t, err)
	assert.Equal(t, "Toko", narrative.Title)
	assert.Equal(t, "Halo", narrative.Tabs[0].Blocks[1].Text)

	_, err = LoadNarrative(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParseNarrativeInvalid(t *testing.T) {
	for name, raw := range map[string]string{
		"NoTabs":       "title: Toko\n",
		"DuplicateTab": "tabs:\n  - id: a\n  - id: a\n",
		"MissingTabID": "tabs:\n  - label: a\n",
		"UnknownChart": "tabs:\n  - id: a\n    blocks:\n      - chart: sales\n",
		"UnknownField": "tabs:\n  - id: a\n    colour: red\n",
		"Malformed":    "tabs: [",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseNarrative([]byte(raw))
			assert.Error(t, err)
		})
	}
}
