// Package schema centraliza os conjuntos de campos por tipo de objeto da
// Graph API: quais campos são lidos (GET) e quais são elegíveis para os
// payloads de criação (POST). O normalizador e o sanitizador consultam
// apenas a pertinência do nome; os rótulos servem para as camadas de
// apresentação.
package schema

import "fmt"

// FieldSet é um conjunto ordenado de campos com rótulo de exibição
type FieldSet struct {
	order  []string
	labels map[string]string
}

func newFieldSet(labels map[string]string, keys ...string) FieldSet {
	set := FieldSet{
		order:  make([]string, 0, len(keys)),
		labels: make(map[string]string, len(keys)),
	}
	if len(keys) == 0 {
		panic("schema: field set sem campos")
	}
	for _, field := range keys {
		label, ok := labels[field]
		if !ok {
			panic(fmt.Sprintf("schema: rótulo ausente para o campo %q", field))
		}
		set.order = append(set.order, field)
		set.labels[field] = label
	}
	return set
}

// Names devolve os nomes dos campos na ordem de declaração
func (s FieldSet) Names() []string {
	names := make([]string, len(s.order))
	copy(names, s.order)
	return names
}

// Has informa se o campo pertence ao conjunto
func (s FieldSet) Has(field string) bool {
	_, ok := s.labels[field]
	return ok
}

// Label devolve o rótulo de exibição do campo, ou o próprio nome
func (s FieldSet) Label(field string) string {
	if label, ok := s.labels[field]; ok {
		return label
	}
	return field
}

// Len devolve a quantidade de campos do conjunto
func (s FieldSet) Len() int {
	return len(s.order)
}

var campaignFieldLabels = map[string]string{
	"id":                    "ID da campanha",
	"account_id":            "ID da conta de anúncios",
	"name":                  "Nome da campanha",
	"status":                "Status da campanha",
	"configured_status":     "Status configurado",
	"effective_status":      "Status efetivo",
	"objective":             "Objetivo",
	"start_time":            "Início",
	"stop_time":             "Término",
	"daily_budget":          "Orçamento diário",
	"lifetime_budget":       "Orçamento total",
	"spend_cap":             "Limite de gasto",
	"buying_type":           "Tipo de compra",
	"bid_strategy":          "Estratégia de lance",
	"promoted_object":       "Objeto promovido",
	"special_ad_categories": "Categorias especiais",
	"created_time":          "Criado em",
	"updated_time":          "Atualizado em",
}

var CampaignGetFields = newFieldSet(campaignFieldLabels,
	"id",
	"account_id",
	"name",
	"status",
	"configured_status",
	"effective_status",
	"objective",
	"start_time",
	"stop_time",
	"daily_budget",
	"lifetime_budget",
	"spend_cap",
	"buying_type",
	"bid_strategy",
	"promoted_object",
	"special_ad_categories",
	"created_time",
	"updated_time",
)

var CampaignPostFields = newFieldSet(campaignFieldLabels,
	"name",
	"objective",
	"status",
	"special_ad_categories",
	"buying_type",
	"bid_strategy",
	"start_time",
	"stop_time",
	"daily_budget",
	"lifetime_budget",
	"spend_cap",
	"promoted_object",
)

var adSetFieldLabels = map[string]string{
	"id":                  "ID do ad set",
	"account_id":          "ID da conta de anúncios",
	"campaign_id":         "ID da campanha",
	"name":                "Nome do ad set",
	"status":              "Status do ad set",
	"configured_status":   "Status configurado",
	"effective_status":    "Status efetivo",
	"daily_budget":        "Orçamento diário",
	"lifetime_budget":     "Orçamento total",
	"budget_remaining":    "Orçamento restante",
	"start_time":          "Início",
	"end_time":            "Término",
	"pacing_type":         "Ritmo de veiculação",
	"adset_schedule":      "Agenda do ad set",
	"bid_strategy":        "Estratégia de lance",
	"bid_amount":          "Valor do lance",
	"billing_event":       "Evento de cobrança",
	"optimization_goal":   "Meta de otimização",
	"promoted_object":     "Objeto promovido",
	"targeting":           "Segmentação",
	"attribution_spec":    "Atribuição",
	"is_dynamic_creative": "Criativo dinâmico",
	"learning_stage_info": "Fase de aprendizado",
	"issues_info":         "Problemas",
	"recommendations":     "Recomendações",
	"created_time":        "Criado em",
	"updated_time":        "Atualizado em",

	"financial_services_declaration_section": "Declaração de serviços financeiros",
}

var AdSetGetFields = newFieldSet(adSetFieldLabels,
	"id",
	"account_id",
	"campaign_id",
	"name",
	"status",
	"configured_status",
	"effective_status",
	"daily_budget",
	"lifetime_budget",
	"budget_remaining",
	"start_time",
	"end_time",
	"pacing_type",
	"adset_schedule",
	"bid_strategy",
	"bid_amount",
	"billing_event",
	"optimization_goal",
	"promoted_object",
	"targeting",
	"attribution_spec",
	"is_dynamic_creative",
	"learning_stage_info",
	"issues_info",
	"recommendations",
	"created_time",
	"updated_time",
)

var AdSetPostFields = newFieldSet(adSetFieldLabels,
	"name",
	"campaign_id",
	"status",
	"daily_budget",
	"lifetime_budget",
	"start_time",
	"end_time",
	"pacing_type",
	"bid_strategy",
	"bid_amount",
	"billing_event",
	"optimization_goal",
	"promoted_object",
	"targeting",
	"attribution_spec",
	"is_dynamic_creative",
	"financial_services_declaration_section",
)

var adFieldLabels = map[string]string{
	"id":           "ID do anúncio",
	"name":         "Nome do anúncio",
	"status":       "Status do anúncio",
	"campaign_id":  "ID da campanha",
	"adset_id":     "ID do ad set",
	"creative{id}": "ID do criativo",
	"creative":     "Criativo",
	"created_time": "Criado em",
	"updated_time": "Atualizado em",
}

var AdGetFields = newFieldSet(adFieldLabels,
	"id",
	"name",
	"status",
	"campaign_id",
	"adset_id",
	"creative{id}",
	"created_time",
	"updated_time",
)

var AdPostFields = newFieldSet(adFieldLabels,
	"name",
	"status",
	"adset_id",
	"creative",
)

var creativeFieldLabels = map[string]string{
	"id":                        "ID do criativo",
	"name":                      "Nome do criativo",
	"status":                    "Status do criativo",
	"object_story_spec":         "Especificação da história",
	"asset_feed_spec":           "Especificação de assets",
	"image_url":                 "URL da imagem",
	"video_id":                  "ID do vídeo",
	"thumbnail_url":             "URL da miniatura",
	"effective_object_story_id": "ID efetivo da história",
	"body":                      "Texto do anúncio",
	"title":                     "Título do criativo",
	"call_to_action_type":       "Tipo de chamada para ação",
	"instagram_actor_id":        "ID do perfil do Instagram",
	"url_tags":                  "Parâmetros de URL",
	"message":                   "Mensagem do anúncio",
	"headline":                  "Título do anúncio",
}

var CreativeGetFields = newFieldSet(creativeFieldLabels,
	"id",
	"name",
	"status",
	"object_story_spec",
	"asset_feed_spec",
	"image_url",
	"video_id",
	"thumbnail_url",
	"effective_object_story_id",
)

var CreativePostFields = newFieldSet(creativeFieldLabels,
	"name",
	"object_story_spec",
	"body",
	"title",
	"image_url",
	"thumbnail_url",
	"video_id",
	"call_to_action_type",
	"instagram_actor_id",
	"url_tags",
	"message",
	"headline",
)

// PostFieldsFor devolve o conjunto POST do tipo de objeto informado
func PostFieldsFor(objectType string) (FieldSet, bool) {
	switch objectType {
	case "campaign":
		return CampaignPostFields, true
	case "adset":
		return AdSetPostFields, true
	case "ad":
		return AdPostFields, true
	case "creative":
		return CreativePostFields, true
	}
	return FieldSet{}, false
}
