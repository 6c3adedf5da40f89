package inspecting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/campaign-cloner-api/infrastructure/integrator/meta"
	"github.com/vfg2006/campaign-cloner-api/internal/domain"
)

func TestAssembleTemplate(t *testing.T) {
	raw := &meta.RawHierarchy{
		Campaign: domain.Fields{"id": "camp-1", "name": "Campanha"},
		AdSets: []domain.Fields{
			{"id": "adset-1", "name": "Conjunto 01"},
			{"id": "adset-2", "name": "Conjunto 02"},
		},
		Ads: []domain.Fields{
			{
				"id":       "ad-1",
				"adset_id": "adset-1",
				"creative": map[string]interface{}{"id": "creative-1"},
			},
			{
				"id":       "ad-2",
				"adset_id": "adset-1",
				"creative": map[string]interface{}{"id": "creative-desconhecido"},
			},
			{
				"id":       "ad-3",
				"adset_id": "adset-2",
			},
		},
		Creatives: []domain.Fields{
			{
				"id": "creative-1",
				"object_story_spec": map[string]interface{}{
					"link_data": map[string]interface{}{
						"message":  "Mensagem padrão",
						"headline": "Título padrão",
					},
				},
			},
		},
	}

	graph := assembleTemplate(raw)

	require.NotNil(t, graph)
	assert.Equal(t, "camp-1", graph.Campaign.GetString("id"))
	require.Len(t, graph.AdSets, 2)

	t.Run("Anúncios são agrupados pelo ad set de origem", func(t *testing.T) {
		assert.Equal(t, "adset-1", graph.AdSets[0].Fields.GetString("id"))
		assert.Len(t, graph.AdSets[0].Ads, 2)
		assert.Len(t, graph.AdSets[1].Ads, 1)
	})

	t.Run("Detalhes do criativo e textos padrão são anexados", func(t *testing.T) {
		ad := graph.AdSets[0].Ads[0]
		require.NotNil(t, ad.CreativeDetails)
		assert.Equal(t, "creative-1", ad.CreativeDetails.GetString("id"))
		assert.Equal(t, "Mensagem padrão", ad.DefaultMessage)
		assert.Equal(t, "Título padrão", ad.DefaultHeadline)
	})

	t.Run("Criativo não encontrado deixa o anúncio sem detalhes", func(t *testing.T) {
		ad := graph.AdSets[0].Ads[1]
		assert.Nil(t, ad.CreativeDetails)
		assert.Empty(t, ad.DefaultMessage)
	})

	t.Run("Anúncio sem criativo também entra no template", func(t *testing.T) {
		ad := graph.AdSets[1].Ads[0]
		assert.Equal(t, "ad-3", ad.Fields.GetString("id"))
		assert.Nil(t, ad.CreativeDetails)
	})

	t.Run("Lista de criativos brutos é preservada", func(t *testing.T) {
		assert.Len(t, graph.Creatives, 1)
	})
}

func TestAssembleTemplate_EmptyHierarchy(t *testing.T) {
	graph := assembleTemplate(&meta.RawHierarchy{
		Campaign: domain.Fields{"id": "camp-1"},
	})

	require.NotNil(t, graph)
	assert.Empty(t, graph.AdSets)
	assert.Empty(t, graph.Creatives)
}
