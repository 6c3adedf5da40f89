package cloning

import (
	"strings"

	"github.com/vfg2006/campaign-cloner-api/internal/domain"
)

// CreativeText agrupa os textos editáveis de um criativo
type CreativeText struct {
	Message string
	Title   string
	Link    string
}

func firstString(values ...interface{}) string {
	for _, value := range values {
		if text, ok := value.(string); ok && text != "" {
			return text
		}
	}
	return ""
}

func linkFromCallToAction(section domain.Fields) string {
	callToAction := section.GetFields("call_to_action")
	if callToAction == nil {
		return ""
	}
	value := callToAction.GetFields("value")
	if value == nil {
		return ""
	}
	return firstString(value["link"], value["link_url"])
}

// ParseCreativeSpec extrai mensagem, título e link de um object_story_spec,
// olhando as seções na ordem template_data, link_data, video_data e
// photo_data
func ParseCreativeSpec(spec domain.Fields) CreativeText {
	parsed := CreativeText{}
	if spec == nil {
		return parsed
	}

	if templateData := spec.GetFields("template_data"); templateData != nil {
		parsed.Message = firstString(templateData["message"])
		parsed.Link = firstString(templateData["link"], templateData["link_url"])
		if parsed.Link == "" {
			parsed.Link = linkFromCallToAction(templateData)
		}
		if children := templateData.GetList("child_attachments"); len(children) > 0 {
			if firstChild, ok := children[0].(map[string]interface{}); ok {
				parsed.Title = firstString(firstChild["name"], firstChild["title"])
			}
		}
	}

	if linkData := spec.GetFields("link_data"); linkData != nil {
		if parsed.Message == "" {
			parsed.Message = firstString(linkData["message"])
		}
		if parsed.Title == "" {
			parsed.Title = firstString(linkData["headline"], linkData["name"])
		}
		if parsed.Link == "" {
			parsed.Link = firstString(linkData["link"], linkData["link_url"])
		}
		if parsed.Link == "" {
			parsed.Link = linkFromCallToAction(linkData)
		}
	}

	if videoData := spec.GetFields("video_data"); videoData != nil {
		if parsed.Message == "" {
			parsed.Message = firstString(videoData["message"])
		}
		if parsed.Title == "" {
			parsed.Title = firstString(videoData["title"])
		}
		if parsed.Link == "" {
			parsed.Link = linkFromCallToAction(videoData)
		}
	}

	if photoData := spec.GetFields("photo_data"); photoData != nil {
		if parsed.Message == "" {
			parsed.Message = firstString(photoData["message"])
		}
	}

	return parsed
}

// ExtractCreativeEditDefaults resolve os textos padrão de edição de um
// criativo, combinando o object_story_spec com os campos de nível superior
func ExtractCreativeEditDefaults(creative domain.Fields) CreativeText {
	defaults := CreativeText{}
	if creative == nil {
		return defaults
	}

	specDefaults := ParseCreativeSpec(creative.GetFields("object_story_spec"))

	defaults.Message = firstString(specDefaults.Message, creative["body"])
	defaults.Title = firstString(specDefaults.Title, creative["title"])
	defaults.Link = specDefaults.Link

	if defaults.Link == "" {
		defaults.Link = firstString(creative["object_url"], creative["link_url"])
	}
	if defaults.Link == "" {
		defaults.Link = linkFromCallToAction(creative)
	}

	return defaults
}

// ExtractDefaultText devolve a mensagem e o título padrão de um criativo,
// priorizando link_data, depois video_data e photo_data
func ExtractDefaultText(creative domain.Fields) (string, string) {
	if creative == nil {
		return "", ""
	}

	message := ""
	headline := ""

	if spec := creative.GetFields("object_story_spec"); spec != nil {
		if linkData := spec.GetFields("link_data"); linkData != nil {
			message = firstString(linkData["message"])
			headline = firstString(linkData["headline"], linkData["name"])
		} else if videoData := spec.GetFields("video_data"); videoData != nil {
			message = firstString(videoData["message"])
			headline = firstString(videoData["title"])
		} else if photoData := spec.GetFields("photo_data"); photoData != nil {
			message = firstString(photoData["message"])
		}
	}

	message = firstString(message, creative["body"])
	headline = firstString(headline, creative["title"])

	return message, headline
}

// ExtractRetailerItemIDs coleta os retailer_item_ids do criativo em todas
// as seções aplicáveis, deduplicados e na ordem de aparição
func ExtractRetailerItemIDs(creative domain.Fields) []string {
	items := make([]string, 0)
	if creative == nil {
		return items
	}

	storySpec := creative.GetFields("object_story_spec")
	if storySpec != nil {
		items = append(items, collectStringItems(storySpec.GetList("retailer_item_ids"))...)
		for _, sectionKey := range []string{"link_data", "video_data", "template_data"} {
			if section := storySpec.GetFields(sectionKey); section != nil {
				items = append(items, collectStringItems(section.GetList("retailer_item_ids"))...)
			}
		}
	}

	return dedupeTrimmed(items)
}

func collectStringItems(list []interface{}) []string {
	items := make([]string, 0, len(list))
	for _, item := range list {
		text := stringifyItem(item)
		if strings.TrimSpace(text) != "" {
			items = append(items, text)
		}
	}
	return items
}

func dedupeTrimmed(items []string) []string {
	seen := make(map[string]bool, len(items))
	ordered := make([]string, 0, len(items))
	for _, item := range items {
		normalized := strings.TrimSpace(item)
		if normalized == "" || seen[normalized] {
			continue
		}
		seen[normalized] = true
		ordered = append(ordered, normalized)
	}
	return ordered
}

// UpdateObjectStorySpec aplica sobre o object_story_spec o asset enviado
// pelo operador e os textos de mensagem, título e link, propagando cada
// um para as seções aninhadas aplicáveis
func UpdateObjectStorySpec(
	storySpec domain.Fields,
	asset *domain.AssetRef,
	message, headline, link string,
	retailerItemIDs []string,
) domain.Fields {
	updated := domain.Fields{}
	if storySpec != nil {
		updated = storySpec.Clone()
	}

	if asset != nil && asset.Key != "" && asset.Value != "" {
		if linkData := updated.GetFields("link_data"); linkData != nil {
			switch asset.Key {
			case "image_hash":
				linkData["image_hash"] = asset.Value
				delete(linkData, "video_id")
			case "video_id":
				linkData["video_id"] = asset.Value
				delete(linkData, "image_hash")
			}
			updated["link_data"] = map[string]interface{}(linkData)
		}
		if videoData := updated.GetFields("video_data"); videoData != nil {
			if asset.Key == "video_id" {
				videoData["video_id"] = asset.Value
			}
			updated["video_data"] = map[string]interface{}(videoData)
		}
		if photoData := updated.GetFields("photo_data"); photoData != nil {
			if asset.Key == "image_hash" {
				photoData["image_hash"] = asset.Value
			}
			updated["photo_data"] = map[string]interface{}(photoData)
		}
	}

	if message != "" {
		for _, section := range []string{"link_data", "video_data", "photo_data"} {
			if sectionData := updated.GetFields(section); sectionData != nil {
				sectionData["message"] = message
				updated[section] = map[string]interface{}(sectionData)
			}
		}
	}

	if headline != "" {
		if linkData := updated.GetFields("link_data"); linkData != nil {
			linkData["headline"] = headline
			linkData["name"] = headline
			updated["link_data"] = map[string]interface{}(linkData)
		}
		if videoData := updated.GetFields("video_data"); videoData != nil {
			videoData["title"] = headline
			updated["video_data"] = map[string]interface{}(videoData)
		}
	}

	if link != "" {
		if linkData := updated.GetFields("link_data"); linkData != nil {
			linkData["link"] = link
			linkData["link_url"] = link
			applyLinkToCallToAction(domain.Fields(linkData), link)
			updated["link_data"] = map[string]interface{}(linkData)
		}
		for _, section := range []string{"video_data", "photo_data"} {
			if sectionData := updated.GetFields(section); sectionData != nil {
				applyLinkToCallToAction(domain.Fields(sectionData), link)
				updated[section] = map[string]interface{}(sectionData)
			}
		}
	}

	cleanedIDs := dedupeTrimmed(retailerItemIDs)
	if len(cleanedIDs) > 0 {
		for _, section := range []string{"link_data", "video_data", "template_data"} {
			if sectionData := updated.GetFields(section); sectionData != nil {
				sectionData["retailer_item_ids"] = toInterfaceList(cleanedIDs)
				updated[section] = map[string]interface{}(sectionData)
			}
		}
		updated["retailer_item_ids"] = toInterfaceList(cleanedIDs)
	} else {
		for _, section := range []string{"link_data", "video_data", "template_data"} {
			if sectionData := updated.GetFields(section); sectionData != nil {
				delete(sectionData, "retailer_item_ids")
				updated[section] = map[string]interface{}(sectionData)
			}
		}
		delete(updated, "retailer_item_ids")
	}

	return updated
}

func applyLinkToCallToAction(section domain.Fields, link string) {
	callToAction := section.GetFields("call_to_action")
	if callToAction == nil {
		return
	}

	if value := callToAction.GetFields("value"); value != nil {
		value["link"] = link
		value["link_url"] = link
		callToAction["value"] = map[string]interface{}(value)
	} else {
		callToAction["value"] = map[string]interface{}{"link": link}
	}
	section["call_to_action"] = map[string]interface{}(callToAction)
}

// Campos somente-leitura que nunca podem voltar em um payload de criação
var creativeReadOnlyFields = []string{
	"id",
	"status",
	"thumbnail_url",
	"image_url",
	"effective_object_story_id",
	"asset_feed_spec",
}

// BuildCreativePayload monta o payload do criativo a partir do template
// capturado, dos textos do operador e do asset selecionado. Devolve nil
// quando não há template utilizável; o anúncio correspondente é pulado.
func BuildCreativePayload(
	creativeTemplate domain.Fields,
	inputs domain.CreativeInput,
	assets domain.AssetMap,
) (domain.Fields, *domain.AssetRef) {
	if creativeTemplate == nil {
		return nil, nil
	}

	payload := creativeTemplate.Clone()
	for _, field := range creativeReadOnlyFields {
		delete(payload, field)
	}

	var asset *domain.AssetRef
	if inputs.AssetName != "" {
		if ref, ok := assets[inputs.AssetName]; ok {
			asset = &ref
		}
	}

	retailerIDs := make([]string, 0)
	for _, token := range strings.Split(inputs.RetailerItemIDs, ",") {
		if cleaned := strings.TrimSpace(token); cleaned != "" {
			retailerIDs = append(retailerIDs, cleaned)
		}
	}

	payload["object_story_spec"] = map[string]interface{}(UpdateObjectStorySpec(
		payload.GetFields("object_story_spec"),
		asset,
		inputs.Message,
		inputs.Title,
		inputs.Link,
		retailerIDs,
	))

	if inputs.Message != "" {
		payload["body"] = inputs.Message
	} else {
		delete(payload, "body")
	}
	if inputs.Title != "" {
		payload["title"] = inputs.Title
	} else {
		delete(payload, "title")
	}
	if len(retailerIDs) > 0 {
		payload["retailer_item_ids"] = toInterfaceList(dedupeTrimmed(retailerIDs))
	} else {
		delete(payload, "retailer_item_ids")
	}
	if inputs.Name != "" {
		payload["name"] = inputs.Name
	}

	return payload, asset
}
