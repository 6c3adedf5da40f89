package cloning

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// FieldClass é a classe de coerção de um campo. A classificação é estática
// por nome de campo; o tipo do valor original só desempata os casos em que
// o campo não tem classe própria.
type FieldClass int

const (
	ClassPlainString FieldClass = iota
	ClassBudget
	ClassBoolean
	ClassJSONStructured
)

// Tabela estática de classificação por nome de campo
var fieldClasses = map[string]FieldClass{
	"daily_budget":          ClassBudget,
	"lifetime_budget":       ClassBudget,
	"spend_cap":             ClassBudget,
	"bid_amount":            ClassBudget,
	"is_dynamic_creative":   ClassBoolean,
	"promoted_object":       ClassJSONStructured,
	"targeting":             ClassJSONStructured,
	"attribution_spec":      ClassJSONStructured,
	"special_ad_categories": ClassJSONStructured,
}

var truthyValues = map[string]bool{"true": true, "1": true, "yes": true, "y": true}
var falsyValues = map[string]bool{"false": true, "0": true, "no": true, "n": true}

func classifyField(fieldName string) FieldClass {
	if class, ok := fieldClasses[fieldName]; ok {
		return class
	}
	return ClassPlainString
}

// NormalizeField coage o valor informado pelo operador (ou vindo do
// template) para a forma que a plataforma aceita. Devolve nil quando o
// campo deve ser omitido do payload.
func NormalizeField(fieldName string, value, originalValue interface{}) interface{} {
	if value == nil {
		return nil
	}

	switch classifyField(fieldName) {
	case ClassBudget:
		return normalizeBudget(value)
	case ClassBoolean:
		return normalizeBoolean(value)
	}

	if _, ok := originalValue.(bool); ok {
		return normalizeBoolean(value)
	}

	// Estruturas passam sem alteração
	switch value.(type) {
	case map[string]interface{}, []interface{}:
		return value
	}

	if isStructured(originalValue) {
		if text, ok := value.(string); ok {
			var parsed interface{}
			if err := json.Unmarshal([]byte(text), &parsed); err != nil {
				// Nunca descartar a estrutura original por um texto inválido
				return originalValue
			}
			return parsed
		}
		return value
	}

	if classifyField(fieldName) == ClassJSONStructured {
		return normalizeJSONHinted(fieldName, value)
	}

	if numeric, ok := asNumber(originalValue); ok {
		if coerced, done := coerceToNumericLike(value, numeric); done {
			return coerced
		}
	}

	if text, ok := value.(string); ok {
		return normalizeResidualString(text)
	}

	return value
}

func normalizeBudget(value interface{}) interface{} {
	switch typed := value.(type) {
	case string:
		trimmed := strings.TrimSpace(typed)
		if trimmed == "" {
			return nil
		}
		if parsed, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return strconv.FormatInt(int64(math.Round(parsed)), 10)
		}
		// Texto não numérico é responsabilidade do chamador
		return trimmed
	case float64:
		return strconv.FormatInt(int64(math.Round(typed)), 10)
	case float32:
		return strconv.FormatInt(int64(math.Round(float64(typed))), 10)
	case int:
		return strconv.Itoa(typed)
	case int64:
		return strconv.FormatInt(typed, 10)
	}
	return value
}

func normalizeBoolean(value interface{}) interface{} {
	if typed, ok := value.(bool); ok {
		return typed
	}
	if text, ok := value.(string); ok {
		lowered := strings.ToLower(strings.TrimSpace(text))
		if truthyValues[lowered] {
			return true
		}
		if falsyValues[lowered] {
			return false
		}
	}
	return isTruthy(value)
}

func normalizeJSONHinted(fieldName string, value interface{}) interface{} {
	text, ok := value.(string)
	if !ok {
		return value
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		if fieldName == "special_ad_categories" {
			return []interface{}{}
		}
		return nil
	}

	var parsed interface{}
	if err := json.Unmarshal([]byte(trimmed), &parsed); err == nil {
		return parsed
	}

	// Fallback: lista separada por vírgulas para as categorias especiais
	if fieldName == "special_ad_categories" {
		tokens := make([]interface{}, 0)
		for _, token := range strings.Split(trimmed, ",") {
			if cleaned := strings.TrimSpace(token); cleaned != "" {
				tokens = append(tokens, cleaned)
			}
		}
		return tokens
	}

	return value
}

// coerceToNumericLike tenta alinhar o candidato ao subtipo numérico do
// valor original. O segundo retorno indica se a coerção foi resolvida;
// textos não numéricos caem nas regras seguintes.
func coerceToNumericLike(value interface{}, original float64) (interface{}, bool) {
	if candidate, ok := asNumber(value); ok {
		if original == math.Trunc(original) {
			return int(candidate), true
		}
		return candidate, true
	}

	if text, ok := value.(string); ok {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return nil, true
		}
		if parsed, err := strconv.ParseFloat(trimmed, 64); err == nil {
			if original == math.Trunc(original) {
				return int(parsed), true
			}
			return parsed, true
		}
	}

	return nil, false
}

func normalizeResidualString(text string) interface{} {
	trimmed := strings.TrimSpace(text)

	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		var parsed interface{}
		if err := json.Unmarshal([]byte(trimmed), &parsed); err == nil {
			return parsed
		}
	}

	lowered := strings.ToLower(trimmed)
	if truthyValues[lowered] {
		return true
	}
	if falsyValues[lowered] {
		return false
	}

	return trimmed
}

func isStructured(value interface{}) bool {
	switch value.(type) {
	case map[string]interface{}, []interface{}:
		return true
	}
	return false
}

func asNumber(value interface{}) (float64, bool) {
	switch typed := value.(type) {
	case float64:
		return typed, true
	case float32:
		return float64(typed), true
	case int:
		return float64(typed), true
	case int64:
		return float64(typed), true
	}
	return 0, false
}

func isTruthy(value interface{}) bool {
	switch typed := value.(type) {
	case nil:
		return false
	case bool:
		return typed
	case string:
		return typed != ""
	case float64:
		return typed != 0
	case float32:
		return typed != 0
	case int:
		return typed != 0
	case int64:
		return typed != 0
	case []interface{}:
		return len(typed) > 0
	case map[string]interface{}:
		return len(typed) > 0
	}
	return true
}

// IsBudgetOptimized detecta se a campanha usa orçamento no nível da
// campanha (CBO). Valores de orçamento não numéricos mas não vazios são
// tratados como positivos por precaução.
func IsBudgetOptimized(campaign map[string]interface{}) bool {
	for _, field := range []string{"daily_budget", "lifetime_budget"} {
		value, ok := campaign[field]
		if !ok || value == nil {
			continue
		}
		if numeric, isNumeric := asNumber(value); isNumeric {
			if numeric > 0 {
				return true
			}
			continue
		}
		if text, isText := value.(string); isText {
			if parsed, err := strconv.ParseFloat(text, 64); err == nil {
				if parsed > 0 {
					return true
				}
				continue
			}
			if text != "" && text != "0" {
				return true
			}
			continue
		}
		return true
	}
	return false
}
