package cloning

import (
	"github.com/vfg2006/campaign-cloner-api/internal/domain"
	"github.com/vfg2006/campaign-cloner-api/internal/schema"
)

// BuildCampaignPayload monta o payload de criação da campanha a partir do
// template e dos valores digitados pelo operador. Campos de orçamento só
// entram quando a campanha é CBO.
func BuildCampaignPayload(template, overrides domain.Fields, isCBO bool) domain.Fields {
	payload := domain.Fields{}

	for _, field := range schema.CampaignPostFields.Names() {
		if (field == "daily_budget" || field == "lifetime_budget") && !isCBO {
			continue
		}

		originalValue := template[field]
		value, hasOverride := overrides[field]
		if !hasOverride {
			value = originalValue
		}

		normalized := NormalizeField(field, value, originalValue)
		if normalized == nil {
			continue
		}
		payload[field] = normalized
	}

	if payload.GetString("status") == "" {
		payload["status"] = "PAUSED"
	}

	return payload
}

// BuildAdSetPayload monta o payload do ad set. O campaign_id é sempre o da
// campanha recém-criada, nunca o do template de origem. Em campanhas CBO o
// orçamento fica só no nível da campanha.
func BuildAdSetPayload(template, overrides domain.Fields, newCampaignID string, isCBO bool) domain.Fields {
	payload := domain.Fields{}

	for _, field := range schema.AdSetPostFields.Names() {
		if field == "campaign_id" {
			continue
		}
		if (field == "daily_budget" || field == "lifetime_budget") && isCBO {
			continue
		}

		originalValue := template[field]
		value, hasOverride := overrides[field]
		if !hasOverride {
			value = originalValue
		}

		normalized := NormalizeField(field, value, originalValue)
		if normalized == nil {
			continue
		}
		payload[field] = normalized
	}

	payload["campaign_id"] = newCampaignID
	if payload.GetString("status") == "" {
		payload["status"] = "PAUSED"
	}
	if isCBO {
		delete(payload, "daily_budget")
		delete(payload, "lifetime_budget")
	}

	return payload
}

// BuildAdPayload monta o payload do anúncio amarrado ao ad set e ao
// criativo recém-criados
func BuildAdPayload(template, overrides domain.Fields, newAdSetID, creativeID string) domain.Fields {
	payload := domain.Fields{}

	for _, field := range schema.AdPostFields.Names() {
		if field == "creative" || field == "adset_id" {
			continue
		}

		originalValue := template[field]
		value, hasOverride := overrides[field]
		if !hasOverride {
			value = originalValue
		}

		normalized := NormalizeField(field, value, originalValue)
		if normalized == nil {
			continue
		}
		payload[field] = normalized
	}

	payload["adset_id"] = newAdSetID
	payload["creative"] = map[string]interface{}{"creative_id": creativeID}
	if payload.GetString("status") == "" {
		payload["status"] = "PAUSED"
	}

	return payload
}
