package cloning

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeField(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		value    interface{}
		original interface{}
		expected interface{}
	}{
		{
			name:     "Valor nulo deve ser omitido do payload",
			field:    "name",
			value:    nil,
			original: "Campanha antiga",
			expected: nil,
		},
		{
			name:     "Orçamento em texto decimal vira string inteira em centavos",
			field:    "daily_budget",
			value:    "1500.75",
			original: nil,
			expected: "1501",
		},
		{
			name:     "Orçamento numérico vira string inteira",
			field:    "lifetime_budget",
			value:    float64(20000),
			original: nil,
			expected: "20000",
		},
		{
			name:     "Orçamento em texto vazio deve ser omitido",
			field:    "daily_budget",
			value:    "   ",
			original: nil,
			expected: nil,
		},
		{
			name:     "Booleano em texto vira booleano",
			field:    "is_dynamic_creative",
			value:    "true",
			original: nil,
			expected: true,
		},
		{
			name:     "Texto falsy de campo booleano vira false",
			field:    "is_dynamic_creative",
			value:    "no",
			original: nil,
			expected: false,
		},
		{
			name:     "Original booleano força coerção booleana mesmo sem classe",
			field:    "enabled",
			value:    "1",
			original: true,
			expected: true,
		},
		{
			name:     "Campo estruturado aceita JSON digitado",
			field:    "targeting",
			value:    `{"geo_locations":{"countries":["BR"]}}`,
			original: nil,
			expected: map[string]interface{}{
				"geo_locations": map[string]interface{}{
					"countries": []interface{}{"BR"},
				},
			},
		},
		{
			name:     "JSON inválido sobre original estruturado preserva o original",
			field:    "targeting",
			value:    "{quebrado",
			original: map[string]interface{}{"geo_locations": "BR"},
			expected: map[string]interface{}{"geo_locations": "BR"},
		},
		{
			name:     "Categorias especiais vazias viram lista vazia",
			field:    "special_ad_categories",
			value:    "",
			original: nil,
			expected: []interface{}{},
		},
		{
			name:     "Categorias especiais separadas por vírgula viram lista",
			field:    "special_ad_categories",
			value:    "HOUSING, CREDIT",
			original: nil,
			expected: []interface{}{"HOUSING", "CREDIT"},
		},
		{
			name:     "Texto numérico com original inteiro vira inteiro",
			field:    "bid_cap",
			value:    "250",
			original: 100,
			expected: 250,
		},
		{
			name:     "Texto numérico com original decimal vira decimal",
			field:    "frequency",
			value:    "2.5",
			original: 1.5,
			expected: 2.5,
		},
		{
			name:     "Texto vazio com original numérico deve ser omitido",
			field:    "bid_cap",
			value:    "  ",
			original: 100,
			expected: nil,
		},
		{
			name:     "Texto residual com cara de JSON é decodificado",
			field:    "notes",
			value:    `["a","b"]`,
			original: nil,
			expected: []interface{}{"a", "b"},
		},
		{
			name:     "Texto residual comum só perde os espaços",
			field:    "name",
			value:    "  Campanha Nova  ",
			original: "Campanha antiga",
			expected: "Campanha Nova",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NormalizeField(tt.field, tt.value, tt.original)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestIsBudgetOptimized(t *testing.T) {
	tests := []struct {
		name     string
		campaign map[string]interface{}
		expected bool
	}{
		{
			name:     "Campanha sem orçamento próprio não é CBO",
			campaign: map[string]interface{}{"name": "ABO"},
			expected: false,
		},
		{
			name:     "Orçamento diário positivo em texto indica CBO",
			campaign: map[string]interface{}{"daily_budget": "5000"},
			expected: true,
		},
		{
			name:     "Orçamento diário zero não indica CBO",
			campaign: map[string]interface{}{"daily_budget": "0"},
			expected: false,
		},
		{
			name:     "Orçamento total numérico positivo indica CBO",
			campaign: map[string]interface{}{"lifetime_budget": float64(100000)},
			expected: true,
		},
		{
			name:     "Texto não numérico e não vazio é tratado como positivo",
			campaign: map[string]interface{}{"daily_budget": "indefinido"},
			expected: true,
		},
		{
			name:     "Orçamento nulo é ignorado",
			campaign: map[string]interface{}{"daily_budget": nil, "lifetime_budget": nil},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsBudgetOptimized(tt.campaign))
		})
	}
}
