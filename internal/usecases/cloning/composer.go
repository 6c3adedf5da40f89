package cloning

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/vfg2006/campaign-cloner-api/internal/domain"
)

// Formatos de criativo montáveis do zero, sem template de origem
const (
	CompositionSingle     = "single"
	CompositionCarousel   = "carousel"
	CompositionCollection = "collection"
	CompositionRaw        = "raw"
)

type CarouselCard struct {
	Headline  string `json:"headline"`
	Link      string `json:"link"`
	ImageHash string `json:"image_hash"`
}

// CreativeComposition são os campos informados pelo operador para montar um
// criativo novo. Kind decide quais campos são obrigatórios.
type CreativeComposition struct {
	Kind             string         `json:"kind"`
	PageID           string         `json:"page_id"`
	Name             string         `json:"name"`
	Message          string         `json:"message"`
	Headline         string         `json:"headline"`
	Link             string         `json:"link"`
	CallToActionType string         `json:"call_to_action_type"`
	ImageHash        string         `json:"image_hash"`
	VideoID          string         `json:"video_id"`
	Cards            []CarouselCard `json:"cards"`
	ProductSetID     string         `json:"product_set_id"`
	Raw              domain.Fields  `json:"raw"`
}

// ComposeCreativePayload monta o payload de criação do criativo a partir
// dos campos do operador. Toda validação acontece aqui, antes de qualquer
// chamada de rede; falhas retornam erro de montagem.
func ComposeCreativePayload(input CreativeComposition) (domain.Fields, error) {
	switch strings.ToLower(strings.TrimSpace(input.Kind)) {
	case CompositionSingle:
		return composeSingle(input)
	case CompositionCarousel:
		return composeCarousel(input)
	case CompositionCollection:
		return composeCollection(input)
	case CompositionRaw:
		return composeRaw(input)
	}
	return nil, NewCloneError(ErrorKindAssemblyInvalid, "compose",
		fmt.Errorf("formato de criativo desconhecido: %q", input.Kind))
}

func composeSingle(input CreativeComposition) (domain.Fields, error) {
	pageID := strings.TrimSpace(input.PageID)
	if pageID == "" {
		return nil, composeError("page_id é obrigatório")
	}
	link := strings.TrimSpace(input.Link)
	if link == "" {
		return nil, composeError("a URL de destino é obrigatória")
	}
	imageHash := strings.TrimSpace(input.ImageHash)
	videoID := strings.TrimSpace(input.VideoID)
	if imageHash == "" && videoID == "" {
		return nil, composeError("informe image_hash ou video_id")
	}

	message := strings.TrimSpace(input.Message)
	headline := strings.TrimSpace(input.Headline)

	linkData := domain.Fields{"link": link}
	if message != "" {
		linkData["message"] = message
	}
	if headline != "" {
		linkData["name"] = headline
	}
	if cta := buildCallToAction(input.CallToActionType, link); cta != nil {
		linkData["call_to_action"] = cta
	}
	if imageHash != "" {
		linkData["image_hash"] = imageHash
	}
	if videoID != "" {
		linkData["video_id"] = videoID
	}

	payload := domain.Fields{
		"object_story_spec": domain.Fields{"page_id": pageID, "link_data": linkData},
	}
	applyComposedTexts(payload, input.Name, message, headline)
	return payload, nil
}

func composeCarousel(input CreativeComposition) (domain.Fields, error) {
	pageID := strings.TrimSpace(input.PageID)
	if pageID == "" {
		return nil, composeError("page_id é obrigatório")
	}
	link := strings.TrimSpace(input.Link)
	if link == "" {
		return nil, composeError("o carrossel precisa da URL principal")
	}
	if len(input.Cards) == 0 {
		return nil, composeError("o carrossel precisa de pelo menos um cartão")
	}

	message := strings.TrimSpace(input.Message)
	headline := strings.TrimSpace(input.Headline)

	attachments := make([]interface{}, 0, len(input.Cards))
	for index, card := range input.Cards {
		imageHash := strings.TrimSpace(card.ImageHash)
		if imageHash == "" {
			return nil, composeError(fmt.Sprintf("cartão %d do carrossel sem image_hash", index+1))
		}

		cardLink := strings.TrimSpace(card.Link)
		if cardLink == "" {
			cardLink = link
		}
		cardHeadline := strings.TrimSpace(card.Headline)
		if cardHeadline == "" {
			cardHeadline = fmt.Sprintf("Cartão %d", index+1)
		}

		attachments = append(attachments, domain.Fields{
			"link":       cardLink,
			"name":       cardHeadline,
			"image_hash": imageHash,
		})
	}

	linkData := domain.Fields{
		"link":              link,
		"child_attachments": attachments,
	}
	if message != "" {
		linkData["message"] = message
	}
	if headline != "" {
		linkData["name"] = headline
	}
	if cta := buildCallToAction(input.CallToActionType, link); cta != nil {
		linkData["call_to_action"] = cta
	}

	payload := domain.Fields{
		"object_story_spec": domain.Fields{"page_id": pageID, "link_data": linkData},
	}
	applyComposedTexts(payload, input.Name, message, headline)
	return payload, nil
}

func composeCollection(input CreativeComposition) (domain.Fields, error) {
	pageID := strings.TrimSpace(input.PageID)
	if pageID == "" {
		return nil, composeError("page_id é obrigatório")
	}
	productSetID := strings.TrimSpace(input.ProductSetID)
	if productSetID == "" {
		return nil, composeError("selecione o conjunto de produtos")
	}
	link := strings.TrimSpace(input.Link)
	if link == "" {
		return nil, composeError("o criativo de coleção precisa da URL de destino")
	}
	imageHash := strings.TrimSpace(input.ImageHash)
	videoID := strings.TrimSpace(input.VideoID)
	if imageHash == "" && videoID == "" {
		return nil, composeError("informe o image_hash ou video_id da capa")
	}

	message := strings.TrimSpace(input.Message)
	headline := strings.TrimSpace(input.Headline)

	templateData := domain.Fields{
		"product_set_id": productSetID,
		"link":           link,
	}
	if message != "" {
		templateData["message"] = message
	}
	if headline != "" {
		templateData["name"] = headline
	}
	if imageHash != "" {
		templateData["image_hash"] = imageHash
	}
	if videoID != "" {
		templateData["video_id"] = videoID
	}
	if cta := buildCallToAction(input.CallToActionType, link); cta != nil {
		templateData["call_to_action"] = cta
	}

	payload := domain.Fields{
		"object_story_spec": domain.Fields{"page_id": pageID, "template_data": templateData},
	}
	applyComposedTexts(payload, input.Name, message, headline)
	return payload, nil
}

func composeRaw(input CreativeComposition) (domain.Fields, error) {
	if input.Raw == nil {
		return nil, composeError("o payload bruto deve ser um objeto JSON")
	}

	payload := input.Raw.Clone()
	if payload.GetFields("object_story_spec") == nil {
		return nil, composeError("o payload bruto precisa de um object_story_spec válido")
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		payload["name"] = name
	}
	return payload, nil
}

func buildCallToAction(ctaType, link string) domain.Fields {
	ctaValue := strings.ToUpper(strings.TrimSpace(ctaType))
	if ctaValue == "" {
		return nil
	}

	payload := domain.Fields{"type": ctaValue}
	if link := strings.TrimSpace(link); link != "" {
		payload["value"] = domain.Fields{"link": link}
	}
	return payload
}

func applyComposedTexts(payload domain.Fields, name, message, headline string) {
	if name := strings.TrimSpace(name); name != "" {
		payload["name"] = name
	}
	if message != "" {
		payload["body"] = message
	}
	if headline != "" {
		payload["title"] = headline
	}
}

func composeError(message string) error {
	return NewCloneError(ErrorKindAssemblyInvalid, "compose", errors.New(message))
}
