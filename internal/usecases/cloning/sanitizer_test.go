package cloning

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/campaign-cloner-api/internal/domain"
)

func withFrozenTime(t *testing.T, frozen time.Time) {
	t.Helper()
	previous := timeNow
	timeNow = func() time.Time { return frozen }
	t.Cleanup(func() { timeNow = previous })
}

func TestSanitizePayload_BudgetExclusivity(t *testing.T) {
	tests := []struct {
		name     string
		payload  domain.Fields
		validate func(t *testing.T, result domain.Fields)
	}{
		{
			name: "Com os dois orçamentos positivos o diário vence",
			payload: domain.Fields{
				"daily_budget":    "5000",
				"lifetime_budget": "90000",
			},
			validate: func(t *testing.T, result domain.Fields) {
				assert.Equal(t, 5000, result["daily_budget"])
				assert.False(t, result.Has("lifetime_budget"))
			},
		},
		{
			name: "Somente o orçamento total positivo sobrevive",
			payload: domain.Fields{
				"daily_budget":    "0",
				"lifetime_budget": "90000",
			},
			validate: func(t *testing.T, result domain.Fields) {
				assert.Equal(t, 90000, result["lifetime_budget"])
				assert.False(t, result.Has("daily_budget"))
			},
		},
		{
			name: "Orçamentos inválidos são removidos por completo",
			payload: domain.Fields{
				"daily_budget":    "abc",
				"lifetime_budget": nil,
			},
			validate: func(t *testing.T, result domain.Fields) {
				assert.False(t, result.Has("daily_budget"))
				assert.False(t, result.Has("lifetime_budget"))
			},
		},
		{
			name: "Valor decimal de orçamento é arredondado para inteiro",
			payload: domain.Fields{
				"daily_budget": "1500.6",
			},
			validate: func(t *testing.T, result domain.Fields) {
				assert.Equal(t, 1501, result["daily_budget"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SanitizePayload(tt.payload, "campaign")
			tt.validate(t, result)
		})
	}
}

func TestSanitizePayload_SpendCap(t *testing.T) {
	tests := []struct {
		name     string
		capValue interface{}
		expected interface{}
		kept     bool
	}{
		{name: "Limite de gasto zero é removido", capValue: "0", kept: false},
		{name: "Limite de gasto vazio é removido", capValue: "", kept: false},
		{name: "Limite de gasto nulo é removido", capValue: nil, kept: false},
		{name: "Limite de gasto positivo é normalizado", capValue: "2500.4", expected: 2500, kept: true},
		{name: "Limite de gasto não numérico é removido", capValue: "muito", kept: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SanitizePayload(domain.Fields{"spend_cap": tt.capValue}, "campaign")
			if tt.kept {
				assert.Equal(t, tt.expected, result["spend_cap"])
			} else {
				assert.False(t, result.Has("spend_cap"))
			}
		})
	}
}

func TestSanitizePayload_Categories(t *testing.T) {
	t.Run("Categorias ausentes no nível raiz viram lista vazia", func(t *testing.T) {
		result := SanitizePayload(domain.Fields{"name": "Campanha"}, "campaign")
		assert.Equal(t, []interface{}{}, result["special_ad_categories"])
	})

	t.Run("Categorias em JSON de texto são canonicalizadas", func(t *testing.T) {
		result := SanitizePayload(domain.Fields{
			"special_ad_categories": `["HOUSING"," CREDIT ",""]`,
		}, "campaign")
		assert.Equal(t, []interface{}{"HOUSING", "CREDIT"}, result["special_ad_categories"])
	})

	t.Run("Campos de brand safety inválidos são removidos", func(t *testing.T) {
		result := SanitizePayload(domain.Fields{
			"brand_safety_content_filter_levels": 42,
		}, "adset")
		assert.False(t, result.Has("brand_safety_content_filter_levels"))
	})
}

func TestSanitizePayload_TimeRules(t *testing.T) {
	frozen := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	withFrozenTime(t, frozen)

	t.Run("start_time no passado é elevado para o agora", func(t *testing.T) {
		result := SanitizePayload(domain.Fields{
			"start_time": "2020-01-01T00:00:00+0000",
		}, "adset")
		assert.Equal(t, frozen.Format(time.RFC3339), result["start_time"])
	})

	t.Run("start_time futuro é preservado em RFC 3339", func(t *testing.T) {
		result := SanitizePayload(domain.Fields{
			"start_time": "2030-06-01T10:30:00Z",
		}, "adset")
		assert.Equal(t, "2030-06-01T10:30:00Z", result["start_time"])
	})

	t.Run("end_time vazio é removido", func(t *testing.T) {
		result := SanitizePayload(domain.Fields{"end_time": ""}, "adset")
		assert.False(t, result.Has("end_time"))
	})

	t.Run("stop_time ilegível é removido", func(t *testing.T) {
		result := SanitizePayload(domain.Fields{"stop_time": "amanhã"}, "campaign")
		assert.False(t, result.Has("stop_time"))
	})

	t.Run("Timestamp numérico é convertido para RFC 3339", func(t *testing.T) {
		result := SanitizePayload(domain.Fields{
			"end_time": float64(1893456000), // 2030-01-01T00:00:00Z
		}, "adset")
		assert.Equal(t, "2030-01-01T00:00:00Z", result["end_time"])
	})
}

func TestSanitizePayload_NumericCoercion(t *testing.T) {
	result := SanitizePayload(domain.Fields{
		"bid_amount":  "300",
		"campaign_id": "120210000000",
		"page_id":     "98765",
		"creative_id": "1122334455",
		"frequency":   "1.5",
		"reach":       "1e3",
		"score":       "+42",
		"name":        "Conjunto 01",
	}, "adset")

	assert.Equal(t, 300, result["bid_amount"])
	assert.Equal(t, 1.5, result["frequency"])
	assert.Equal(t, "Conjunto 01", result["name"])

	// Texto com sinal ou notação científica não é tratado como inteiro
	assert.Equal(t, float64(1000), result["reach"])
	assert.Equal(t, float64(42), result["score"])

	// Identificadores nunca podem virar números
	assert.Equal(t, "120210000000", result["campaign_id"])
	assert.Equal(t, "98765", result["page_id"])
	assert.Equal(t, "1122334455", result["creative_id"])
}

func TestSanitizePayload_NestedStructures(t *testing.T) {
	result := SanitizePayload(domain.Fields{
		"targeting": map[string]interface{}{
			"age_min":   "18",
			"age_max":   "65",
			"genders":   []interface{}{"1"},
			"zip_codes": []interface{}{"01310-100"},
		},
	}, "adset")

	targeting := result.GetFields("targeting")
	assert.NotNil(t, targeting)
	assert.Equal(t, 18, targeting["age_min"])
	assert.Equal(t, 65, targeting["age_max"])
}

func TestSanitizePayload_Idempotency(t *testing.T) {
	frozen := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	withFrozenTime(t, frozen)

	payload := domain.Fields{
		"name":            "Campanha",
		"daily_budget":    "5000",
		"lifetime_budget": "90000",
		"spend_cap":       "0",
		"start_time":      "2030-06-01T10:30:00Z",
		"bid_amount":      "300",
	}

	once := SanitizePayload(payload, "campaign")
	twice := SanitizePayload(once, "campaign")

	assert.Equal(t, once, twice)
}
