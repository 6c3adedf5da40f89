package cloning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/campaign-cloner-api/internal/domain"
)

func TestBuildCampaignPayload(t *testing.T) {
	template := domain.Fields{
		"id":           "camp-origem",
		"name":         "Campanha origem",
		"objective":    "OUTCOME_SALES",
		"status":       "ACTIVE",
		"daily_budget": "5000",
		"created_time": "2024-01-01T00:00:00Z",
	}

	t.Run("Override do operador vence o valor do template", func(t *testing.T) {
		payload := BuildCampaignPayload(template, domain.Fields{"name": "Campanha nova"}, true)
		assert.Equal(t, "Campanha nova", payload["name"])
		assert.Equal(t, "OUTCOME_SALES", payload["objective"])
	})

	t.Run("Campanha sem CBO não carrega orçamento próprio", func(t *testing.T) {
		payload := BuildCampaignPayload(template, nil, false)
		assert.False(t, payload.Has("daily_budget"))
		assert.False(t, payload.Has("lifetime_budget"))
	})

	t.Run("Campanha CBO mantém o orçamento do template", func(t *testing.T) {
		payload := BuildCampaignPayload(template, nil, true)
		assert.Equal(t, "5000", payload["daily_budget"])
	})

	t.Run("Campos fora do conjunto de criação nunca entram", func(t *testing.T) {
		payload := BuildCampaignPayload(template, nil, true)
		assert.False(t, payload.Has("id"))
		assert.False(t, payload.Has("created_time"))
	})

	t.Run("Sem status definido o padrão é PAUSED", func(t *testing.T) {
		payload := BuildCampaignPayload(domain.Fields{"name": "Nova"}, nil, false)
		assert.Equal(t, "PAUSED", payload["status"])
	})
}

func TestBuildAdSetPayload(t *testing.T) {
	template := domain.Fields{
		"id":           "adset-origem",
		"campaign_id":  "camp-origem",
		"name":         "Conjunto 01",
		"daily_budget": "3000",
		"targeting":    map[string]interface{}{"geo_locations": map[string]interface{}{"countries": []interface{}{"BR"}}},
	}

	t.Run("O campaign_id é sempre o da campanha recém-criada", func(t *testing.T) {
		payload := BuildAdSetPayload(template, nil, "camp-novo", false)
		assert.Equal(t, "camp-novo", payload["campaign_id"])
	})

	t.Run("Em campanha CBO o ad set perde o orçamento", func(t *testing.T) {
		payload := BuildAdSetPayload(template, nil, "camp-novo", true)
		assert.False(t, payload.Has("daily_budget"))
		assert.False(t, payload.Has("lifetime_budget"))
	})

	t.Run("Sem CBO o orçamento do template é mantido", func(t *testing.T) {
		payload := BuildAdSetPayload(template, nil, "camp-novo", false)
		assert.Equal(t, "3000", payload["daily_budget"])
	})

	t.Run("A segmentação estruturada passa intacta", func(t *testing.T) {
		payload := BuildAdSetPayload(template, nil, "camp-novo", false)
		assert.NotNil(t, payload.GetFields("targeting"))
	})
}

func TestBuildAdPayload(t *testing.T) {
	template := domain.Fields{
		"id":       "ad-origem",
		"name":     "Anúncio 01",
		"adset_id": "adset-origem",
	}

	payload := BuildAdPayload(template, nil, "adset-novo", "creative-novo")

	assert.Equal(t, "adset-novo", payload["adset_id"])
	assert.Equal(t, map[string]interface{}{"creative_id": "creative-novo"}, payload["creative"])
	assert.Equal(t, "Anúncio 01", payload["name"])
	assert.Equal(t, "PAUSED", payload["status"])
	assert.False(t, payload.Has("id"))
}
