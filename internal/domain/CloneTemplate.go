package domain

import "fmt"

// TemplateGraph é a fotografia imutável da hierarquia de origem usada como
// fonte de valores padrão durante a clonagem. É capturada uma única vez por
// sessão; remoções locais de ad sets/ads são permitidas antes do envio.
type TemplateGraph struct {
	Campaign  Fields          `json:"campaign"`
	AdSets    []TemplateAdSet `json:"ad_sets"`
	Creatives []Fields        `json:"creatives,omitempty"`
}

// TemplateAdSet agrupa um ad set de origem com seus anúncios
type TemplateAdSet struct {
	Fields Fields       `json:"fields"`
	Ads    []TemplateAd `json:"ads"`
}

// TemplateAd agrupa um anúncio de origem com os detalhes do criativo
// associado e os textos padrão extraídos dele
type TemplateAd struct {
	Fields          Fields `json:"fields"`
	CreativeDetails Fields `json:"creative_details,omitempty"`
	DefaultMessage  string `json:"default_message,omitempty"`
	DefaultHeadline string `json:"default_headline,omitempty"`
}

// Key devolve o identificador sintético estável do ad set dentro da sessão:
// o id de origem quando existe, senão a posição. Assim remoções estruturais
// não dessincronizam overrides dos dados.
func (s TemplateAdSet) Key(index int) string {
	if id := s.Fields.GetString("id"); id != "" {
		return id
	}
	return fmt.Sprintf("adset_%d", index)
}

// Key devolve o identificador sintético estável do anúncio
func (a TemplateAd) Key(adSetKey string, index int) string {
	if id := a.Fields.GetString("id"); id != "" {
		return id
	}
	return fmt.Sprintf("%s_ad_%d", adSetKey, index)
}

// OverrideMap carrega os valores digitados pelo operador, indexados pelas
// chaves sintéticas dos objetos do template. Escopo de sessão.
type OverrideMap struct {
	Campaign Fields                   `json:"campaign"`
	AdSets   map[string]AdSetOverride `json:"ad_sets"`
}

type AdSetOverride struct {
	Fields Fields                `json:"fields"`
	Ads    map[string]AdOverride `json:"ads"`
}

type AdOverride struct {
	Fields   Fields        `json:"fields"`
	Creative CreativeInput `json:"creative"`
}

// CreativeInput são os ajustes de criativo por anúncio: textos, link de
// destino, ids de produto e o asset enviado escolhido (se houver)
type CreativeInput struct {
	AssetName       string `json:"asset_name,omitempty"`
	Name            string `json:"name,omitempty"`
	Message         string `json:"message,omitempty"`
	Title           string `json:"title,omitempty"`
	Link            string `json:"link,omitempty"`
	RetailerItemIDs string `json:"retailer_item_ids,omitempty"`
}

// CreationResult acumula os identificadores criados na ordem de criação.
// Resultados parciais são preservados para inspeção mesmo quando o fluxo
// aborta no meio da árvore.
type CreationResult struct {
	CampaignID string   `json:"campaign_id"`
	AdSetIDs   []string `json:"adset_ids"`
	AdIDs      []string `json:"ad_ids"`
}
