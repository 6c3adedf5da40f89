package cloning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/campaign-cloner-api/internal/domain"
)

func TestExtractCreativeEditDefaults(t *testing.T) {
	tests := []struct {
		name     string
		creative domain.Fields
		expected CreativeText
	}{
		{
			name:     "Criativo nulo devolve textos vazios",
			creative: nil,
			expected: CreativeText{},
		},
		{
			name: "Textos vêm do link_data quando presente",
			creative: domain.Fields{
				"object_story_spec": map[string]interface{}{
					"link_data": map[string]interface{}{
						"message":  "Aproveite a promoção",
						"headline": "Armações 2 por 1",
						"link":     "https://loja.example.com",
					},
				},
			},
			expected: CreativeText{
				Message: "Aproveite a promoção",
				Title:   "Armações 2 por 1",
				Link:    "https://loja.example.com",
			},
		},
		{
			name: "Vídeo usa o link do call_to_action",
			creative: domain.Fields{
				"object_story_spec": map[string]interface{}{
					"video_data": map[string]interface{}{
						"message": "Veja o vídeo",
						"title":   "Lançamento",
						"call_to_action": map[string]interface{}{
							"type":  "LEARN_MORE",
							"value": map[string]interface{}{"link": "https://video.example.com"},
						},
					},
				},
			},
			expected: CreativeText{
				Message: "Veja o vídeo",
				Title:   "Lançamento",
				Link:    "https://video.example.com",
			},
		},
		{
			name: "Campos de nível superior completam o que falta no spec",
			creative: domain.Fields{
				"body":       "Texto do corpo",
				"title":      "Título geral",
				"object_url": "https://fallback.example.com",
			},
			expected: CreativeText{
				Message: "Texto do corpo",
				Title:   "Título geral",
				Link:    "https://fallback.example.com",
			},
		},
		{
			name: "Carrossel tira o título do primeiro cartão",
			creative: domain.Fields{
				"object_story_spec": map[string]interface{}{
					"template_data": map[string]interface{}{
						"message": "Coleção nova",
						"link":    "https://catalogo.example.com",
						"child_attachments": []interface{}{
							map[string]interface{}{"name": "Cartão principal"},
						},
					},
				},
			},
			expected: CreativeText{
				Message: "Coleção nova",
				Title:   "Cartão principal",
				Link:    "https://catalogo.example.com",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractCreativeEditDefaults(tt.creative))
		})
	}
}

func TestExtractRetailerItemIDs(t *testing.T) {
	creative := domain.Fields{
		"object_story_spec": map[string]interface{}{
			"retailer_item_ids": []interface{}{"SKU-1", " SKU-2 "},
			"link_data": map[string]interface{}{
				"retailer_item_ids": []interface{}{"SKU-2", "SKU-3", ""},
			},
		},
	}

	ids := ExtractRetailerItemIDs(creative)
	assert.Equal(t, []string{"SKU-1", "SKU-2", "SKU-3"}, ids)
}

func TestUpdateObjectStorySpec_AssetSubstitution(t *testing.T) {
	spec := domain.Fields{
		"page_id": "111",
		"link_data": map[string]interface{}{
			"link":       "https://loja.example.com",
			"image_hash": "hash-antigo",
		},
	}

	t.Run("Imagem nova substitui o hash e remove video_id", func(t *testing.T) {
		asset := &domain.AssetRef{Key: "image_hash", Value: "abc123"}
		updated := UpdateObjectStorySpec(spec, asset, "", "", "", nil)

		linkData := updated.GetFields("link_data")
		assert.Equal(t, "abc123", linkData["image_hash"])
		assert.False(t, linkData.Has("video_id"))

		// O spec original permanece intocado
		original := domain.Fields(spec.GetFields("link_data"))
		assert.Equal(t, "hash-antigo", original["image_hash"])
	})

	t.Run("Vídeo novo substitui o image_hash no link_data", func(t *testing.T) {
		asset := &domain.AssetRef{Key: "video_id", Value: "v-987"}
		updated := UpdateObjectStorySpec(spec, asset, "", "", "", nil)

		linkData := updated.GetFields("link_data")
		assert.Equal(t, "v-987", linkData["video_id"])
		assert.False(t, linkData.Has("image_hash"))
	})
}

func TestUpdateObjectStorySpec_TextAndLink(t *testing.T) {
	spec := domain.Fields{
		"link_data": map[string]interface{}{
			"link":     "https://antigo.example.com",
			"message":  "Mensagem antiga",
			"headline": "Título antigo",
			"call_to_action": map[string]interface{}{
				"type":  "SHOP_NOW",
				"value": map[string]interface{}{"link": "https://antigo.example.com"},
			},
		},
	}

	updated := UpdateObjectStorySpec(spec, nil, "Mensagem nova", "Título novo", "https://novo.example.com", nil)

	linkData := updated.GetFields("link_data")
	assert.Equal(t, "Mensagem nova", linkData["message"])
	assert.Equal(t, "Título novo", linkData["headline"])
	assert.Equal(t, "Título novo", linkData["name"])
	assert.Equal(t, "https://novo.example.com", linkData["link"])

	callToAction := linkData.GetFields("call_to_action")
	value := callToAction.GetFields("value")
	assert.Equal(t, "https://novo.example.com", value["link"])
}

func TestUpdateObjectStorySpec_RetailerItemIDs(t *testing.T) {
	spec := domain.Fields{
		"link_data": map[string]interface{}{
			"link":              "https://loja.example.com",
			"retailer_item_ids": []interface{}{"VELHO"},
		},
	}

	t.Run("IDs novos substituem os antigos com dedupe", func(t *testing.T) {
		updated := UpdateObjectStorySpec(spec, nil, "", "", "", []string{"A", "A", "B ", ""})
		linkData := updated.GetFields("link_data")
		assert.Equal(t, []interface{}{"A", "B"}, linkData["retailer_item_ids"])
		assert.Equal(t, []interface{}{"A", "B"}, updated["retailer_item_ids"])
	})

	t.Run("Lista vazia remove os IDs existentes", func(t *testing.T) {
		updated := UpdateObjectStorySpec(spec, nil, "", "", "", nil)
		linkData := updated.GetFields("link_data")
		assert.False(t, linkData.Has("retailer_item_ids"))
		assert.False(t, updated.Has("retailer_item_ids"))
	})
}

func TestBuildCreativePayload(t *testing.T) {
	template := domain.Fields{
		"id":            "creative-1",
		"name":          "Criativo original",
		"status":        "ACTIVE",
		"thumbnail_url": "https://cdn.example.com/thumb.jpg",
		"body":          "Corpo original",
		"object_story_spec": map[string]interface{}{
			"page_id": "111",
			"link_data": map[string]interface{}{
				"link":       "https://loja.example.com",
				"image_hash": "hash-antigo",
			},
		},
	}

	t.Run("Template nulo devolve nil para o anúncio ser pulado", func(t *testing.T) {
		payload, asset := BuildCreativePayload(nil, domain.CreativeInput{}, nil)
		assert.Nil(t, payload)
		assert.Nil(t, asset)
	})

	t.Run("Campos somente-leitura nunca voltam no payload", func(t *testing.T) {
		payload, _ := BuildCreativePayload(template, domain.CreativeInput{}, nil)
		assert.False(t, payload.Has("id"))
		assert.False(t, payload.Has("status"))
		assert.False(t, payload.Has("thumbnail_url"))
	})

	t.Run("Asset escolhido é aplicado e os IDs de produto divididos por vírgula", func(t *testing.T) {
		assets := domain.AssetMap{
			"banner.png": {FileName: "banner.png", Key: "image_hash", Value: "abc123"},
		}
		inputs := domain.CreativeInput{
			AssetName:       "banner.png",
			Message:         "Mensagem nova",
			RetailerItemIDs: "A, A, B ,",
		}

		payload, asset := BuildCreativePayload(template, inputs, assets)
		assert.NotNil(t, asset)
		assert.Equal(t, "abc123", asset.Value)

		spec := payload.GetFields("object_story_spec")
		linkData := spec.GetFields("link_data")
		assert.Equal(t, "abc123", linkData["image_hash"])
		assert.Equal(t, []interface{}{"A", "B"}, payload["retailer_item_ids"])
		assert.Equal(t, "Mensagem nova", payload["body"])
	})

	t.Run("Sem mensagem do operador o body original é descartado", func(t *testing.T) {
		payload, _ := BuildCreativePayload(template, domain.CreativeInput{}, nil)
		assert.False(t, payload.Has("body"))
	})
}
