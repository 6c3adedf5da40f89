package cloning

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/vfg2006/campaign-cloner-api/internal/domain"
)

// injetável para testes determinísticos de clamp de datas
var timeNow = time.Now

// Campos cujo valor textual numérico é um identificador e nunca pode ser
// convertido para número
var numericCoercionExclusions = map[string]bool{
	"id":                   true,
	"account_id":           true,
	"campaign_id":          true,
	"adset_id":             true,
	"creative_id":          true,
	"parent_id":            true,
	"existing_creative_id": true,
}

var brandSafetyFields = []string{
	"brand_safety_content_filter_levels",
	"brand_safety_content_severity_levels",
	"excluded_brand_safety_content_types",
}

// SanitizePayload aplica as invariantes estruturais da plataforma sobre o
// payload montado, imediatamente antes da chamada de criação: exclusividade
// entre orçamento diário e total, remoção de limites de gasto não
// positivos, canonicalização de listas, datas em ISO 8601 e coerção
// numérica das strings restantes
func SanitizePayload(payload domain.Fields, objectType string) domain.Fields {
	objectType = strings.ToLower(objectType)
	now := timeNow().UTC()

	sanitized := sanitizeValue(map[string]interface{}(payload), objectType, 0, now)
	if values, ok := sanitized.(map[string]interface{}); ok {
		return domain.Fields(values)
	}
	return payload
}

func sanitizeValue(value interface{}, objectType string, depth int, now time.Time) interface{} {
	switch typed := value.(type) {
	case domain.Fields:
		return sanitizeValue(map[string]interface{}(typed), objectType, depth, now)
	case map[string]interface{}:
		sanitizedDict := make(map[string]interface{}, len(typed))
		for key, subValue := range typed {
			sanitizedDict[key] = sanitizeValue(subValue, objectType, depth+1, now)
		}
		return applyFieldRules(sanitizedDict, objectType, depth, now)
	case []interface{}:
		sanitizedList := make([]interface{}, len(typed))
		for i, item := range typed {
			sanitizedList[i] = sanitizeValue(item, objectType, depth+1, now)
		}
		return sanitizedList
	}
	return value
}

func applyFieldRules(values map[string]interface{}, objectType string, depth int, now time.Time) map[string]interface{} {
	if len(values) == 0 {
		return values
	}

	applyBudgetExclusivity(values)
	applySpendCapRule(values)
	applyCategoryRules(values, depth)
	applyTimeRules(values, objectType, now)
	applyNumericCoercion(values)

	return values
}

// applyBudgetExclusivity garante que no máximo um dos orçamentos sobrevive;
// em empate de valores positivos o diário vence
func applyBudgetExclusivity(values map[string]interface{}) {
	dailyValue, dailyPresent := values["daily_budget"]
	lifetimeValue, lifetimePresent := values["lifetime_budget"]
	if !dailyPresent && !lifetimePresent {
		return
	}

	dailyAmount, dailyOK := parsePositiveAmount(dailyValue)
	lifetimeAmount, lifetimeOK := parsePositiveAmount(lifetimeValue)

	switch {
	case dailyOK:
		values["daily_budget"] = dailyAmount
		delete(values, "lifetime_budget")
	case lifetimeOK:
		values["lifetime_budget"] = lifetimeAmount
		delete(values, "daily_budget")
	default:
		delete(values, "daily_budget")
		delete(values, "lifetime_budget")
	}
}

func applySpendCapRule(values map[string]interface{}) {
	capValue, present := values["spend_cap"]
	if !present {
		return
	}

	if text, ok := capValue.(string); ok {
		capValue = strings.TrimSpace(text)
	}
	switch capValue {
	case nil, "", "0", 0, float64(0):
		delete(values, "spend_cap")
		return
	}

	if normalized, ok := parsePositiveAmount(capValue); ok {
		values["spend_cap"] = normalized
	} else {
		delete(values, "spend_cap")
	}
}

func applyCategoryRules(values map[string]interface{}, depth int) {
	_, categoriesPresent := values["special_ad_categories"]
	if depth == 0 || categoriesPresent {
		normalized, ok := normalizeStringCollection(values["special_ad_categories"])
		if !ok {
			if depth == 0 {
				values["special_ad_categories"] = []interface{}{}
			} else {
				delete(values, "special_ad_categories")
			}
		} else {
			values["special_ad_categories"] = toInterfaceList(normalized)
		}
	}

	for _, fieldName := range brandSafetyFields {
		if _, present := values[fieldName]; !present {
			continue
		}
		normalized, ok := normalizeStringCollection(values[fieldName])
		if !ok {
			delete(values, fieldName)
		} else {
			values[fieldName] = toInterfaceList(normalized)
		}
	}
}

func applyTimeRules(values map[string]interface{}, objectType string, now time.Time) {
	if startValue, present := values["start_time"]; present {
		if startValue == nil || startValue == "" {
			delete(values, "start_time")
		} else if parsed, ok := parseDateTimeValue(startValue); ok {
			// start_time nunca pode estar no passado
			if parsed.Before(now) {
				parsed = now
			}
			values["start_time"] = formatDateTime(parsed)
		} else {
			delete(values, "start_time")
		}
	}

	var timeFields []string
	switch objectType {
	case "campaign":
		timeFields = []string{"stop_time"}
	case "adset":
		timeFields = []string{"end_time", "stop_time"}
	default:
		timeFields = []string{"stop_time", "end_time"}
	}

	for _, timeField := range timeFields {
		value, present := values[timeField]
		if !present {
			continue
		}
		if value == nil || value == "" {
			delete(values, timeField)
			continue
		}
		if parsed, ok := parseDateTimeValue(value); ok {
			values[timeField] = formatDateTime(parsed)
		} else {
			delete(values, timeField)
		}
	}
}

func applyNumericCoercion(values map[string]interface{}) {
	for key, value := range values {
		text, ok := value.(string)
		if !ok {
			continue
		}
		stripped := strings.TrimSpace(text)
		if stripped == "" {
			continue
		}
		if numericCoercionExclusions[key] || strings.HasSuffix(key, "_id") || strings.HasSuffix(key, "_ids") {
			continue
		}
		if isAllDigits(stripped) {
			if parsed, err := strconv.ParseInt(stripped, 10, 64); err == nil {
				values[key] = int(parsed)
				continue
			}
		}
		if parsed, err := strconv.ParseFloat(stripped, 64); err == nil {
			values[key] = parsed
		}
	}
}

// isAllDigits verifica se o texto contém apenas dígitos decimais. Sinais,
// separadores e notação científica ficam de fora e seguem para o parse de
// ponto flutuante.
func isAllDigits(text string) bool {
	if text == "" {
		return false
	}
	for _, r := range text {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// parsePositiveAmount interpreta um valor de orçamento como inteiro
// positivo em unidades mínimas de moeda. O segundo retorno indica se o
// valor é utilizável.
func parsePositiveAmount(value interface{}) (int, bool) {
	var amount float64

	switch typed := value.(type) {
	case nil:
		return 0, false
	case string:
		trimmed := strings.TrimSpace(typed)
		if trimmed == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0, false
		}
		amount = parsed
	case float64:
		amount = typed
	case float32:
		amount = float64(typed)
	case int:
		amount = float64(typed)
	case int64:
		amount = float64(typed)
	default:
		return 0, false
	}

	if amount <= 0 {
		return 0, false
	}
	return int(math.Round(amount)), true
}

// normalizeStringCollection canonicaliza um valor de lista textual:
// remove itens vazios, apara espaços e aceita tanto JSON quanto texto
// separado por vírgulas. O segundo retorno é falso quando o valor não é
// representável como lista.
func normalizeStringCollection(value interface{}) ([]string, bool) {
	switch typed := value.(type) {
	case nil:
		return []string{}, true
	case string:
		trimmed := strings.TrimSpace(typed)
		if trimmed == "" || trimmed == "[]" {
			return []string{}, true
		}
		var parsed interface{}
		if err := json.Unmarshal([]byte(trimmed), &parsed); err != nil {
			tokens := make([]string, 0)
			for _, token := range strings.Split(trimmed, ",") {
				if cleaned := strings.TrimSpace(token); cleaned != "" {
					tokens = append(tokens, cleaned)
				}
			}
			return tokens, true
		}
		switch parsedTyped := parsed.(type) {
		case nil:
			return []string{}, true
		case []interface{}:
			items := make([]string, 0, len(parsedTyped))
			for _, item := range parsedTyped {
				if cleaned := strings.TrimSpace(stringifyItem(item)); cleaned != "" {
					items = append(items, cleaned)
				}
			}
			return items, true
		default:
			if cleaned := strings.TrimSpace(stringifyItem(parsed)); cleaned != "" {
				return []string{cleaned}, true
			}
			return []string{}, true
		}
	case []interface{}:
		if len(typed) == 0 {
			return []string{}, true
		}
		items := make([]string, 0, len(typed))
		for _, item := range typed {
			if item == nil || item == "" {
				continue
			}
			if text, isText := item.(string); isText {
				if cleaned := strings.TrimSpace(text); cleaned != "" {
					items = append(items, cleaned)
				}
				continue
			}
			items = append(items, stringifyItem(item))
		}
		return items, true
	case []string:
		items := make([]string, 0, len(typed))
		for _, item := range typed {
			if cleaned := strings.TrimSpace(item); cleaned != "" {
				items = append(items, cleaned)
			}
		}
		return items, true
	}
	return nil, false
}

func stringifyItem(item interface{}) string {
	switch typed := item.(type) {
	case string:
		return typed
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case bool:
		if typed {
			return "true"
		}
		return "false"
	}
	return fmt.Sprintf("%v", item)
}

func toInterfaceList(items []string) []interface{} {
	converted := make([]interface{}, len(items))
	for i, item := range items {
		converted[i] = item
	}
	return converted
}

var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseDateTimeValue interpreta datas em vários formatos: RFC 3339 (com ou
// sem dois-pontos no fuso), data-hora sem fuso (assumida UTC) e timestamps
// numéricos
func parseDateTimeValue(value interface{}) (time.Time, bool) {
	switch typed := value.(type) {
	case time.Time:
		return typed, true
	case float64:
		return time.Unix(int64(typed), 0).UTC(), true
	case int:
		return time.Unix(int64(typed), 0).UTC(), true
	case int64:
		return time.Unix(typed, 0).UTC(), true
	case string:
		trimmed := strings.TrimSpace(typed)
		if trimmed == "" {
			return time.Time{}, false
		}
		for _, layout := range dateTimeLayouts {
			if parsed, err := time.Parse(layout, trimmed); err == nil {
				return parsed, true
			}
		}
	}
	return time.Time{}, false
}

func formatDateTime(value time.Time) string {
	return value.Truncate(time.Second).Format(time.RFC3339)
}
