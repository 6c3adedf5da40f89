package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldSetNames(t *testing.T) {
	names := AdPostFields.Names()
	assert.Equal(t, []string{"name", "status", "adset_id", "creative"}, names)

	// A fatia devolvida é uma cópia: mutações não afetam o conjunto
	names[0] = "mutado"
	assert.Equal(t, []string{"name", "status", "adset_id", "creative"}, AdPostFields.Names())
}

func TestFieldSetHas(t *testing.T) {
	assert.True(t, CampaignPostFields.Has("daily_budget"))
	assert.True(t, AdSetPostFields.Has("targeting"))
	assert.False(t, CampaignPostFields.Has("id"))
	assert.False(t, AdPostFields.Has("campaign_id"))
}

func TestFieldSetLabel(t *testing.T) {
	assert.Equal(t, "Orçamento diário", CampaignGetFields.Label("daily_budget"))
	assert.Equal(t, "Segmentação", AdSetGetFields.Label("targeting"))
	// Campo fora do conjunto cai no próprio nome
	assert.Equal(t, "campo_desconhecido", CampaignGetFields.Label("campo_desconhecido"))
}

func TestFieldSetLen(t *testing.T) {
	assert.Equal(t, 4, AdPostFields.Len())
	assert.Equal(t, len(CampaignGetFields.Names()), CampaignGetFields.Len())
}

func TestPostFieldsFor(t *testing.T) {
	tests := []struct {
		objectType string
		found      bool
		sample     string
	}{
		{objectType: "campaign", found: true, sample: "objective"},
		{objectType: "adset", found: true, sample: "optimization_goal"},
		{objectType: "ad", found: true, sample: "creative"},
		{objectType: "creative", found: true, sample: "object_story_spec"},
		{objectType: "pixel", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.objectType, func(t *testing.T) {
			set, ok := PostFieldsFor(tt.objectType)
			assert.Equal(t, tt.found, ok)
			if tt.found {
				assert.True(t, set.Has(tt.sample))
			}
		})
	}
}
