package cloning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/campaign-cloner-api/internal/domain"
)

func assertAssemblyError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, ErrorKindAssemblyInvalid, KindOf(err))
}

func TestComposeCreativePayload_Single(t *testing.T) {
	t.Run("Imagem única com todos os campos", func(t *testing.T) {
		payload, err := ComposeCreativePayload(CreativeComposition{
			Kind:             "single",
			PageID:           "111",
			Name:             "Criativo teste",
			Message:          "Mensagem",
			Headline:         "Título",
			Link:             "https://loja.example.com",
			CallToActionType: "shop_now",
			ImageHash:        "abc123",
		})
		require.NoError(t, err)

		spec := payload.GetFields("object_story_spec")
		require.NotNil(t, spec)
		assert.Equal(t, "111", spec.GetString("page_id"))

		linkData := spec.GetFields("link_data")
		require.NotNil(t, linkData)
		assert.Equal(t, "abc123", linkData["image_hash"])
		assert.Equal(t, "Mensagem", linkData["message"])
		assert.Equal(t, "Título", linkData["name"])

		cta := linkData.GetFields("call_to_action")
		require.NotNil(t, cta)
		assert.Equal(t, "SHOP_NOW", cta["type"])

		assert.Equal(t, "Criativo teste", payload["name"])
		assert.Equal(t, "Mensagem", payload["body"])
		assert.Equal(t, "Título", payload["title"])
	})

	t.Run("Vídeo único usa video_id no link_data", func(t *testing.T) {
		payload, err := ComposeCreativePayload(CreativeComposition{
			Kind:    "single",
			PageID:  "111",
			Link:    "https://loja.example.com",
			VideoID: "v-987",
		})
		require.NoError(t, err)

		linkData := payload.GetFields("object_story_spec").GetFields("link_data")
		assert.Equal(t, "v-987", linkData["video_id"])
		assert.False(t, linkData.Has("image_hash"))
	})

	tests := []struct {
		name  string
		input CreativeComposition
	}{
		{
			name:  "Sem page_id é erro de montagem",
			input: CreativeComposition{Kind: "single", Link: "https://x.com", ImageHash: "abc"},
		},
		{
			name:  "Sem link é erro de montagem",
			input: CreativeComposition{Kind: "single", PageID: "111", ImageHash: "abc"},
		},
		{
			name:  "Sem asset é erro de montagem",
			input: CreativeComposition{Kind: "single", PageID: "111", Link: "https://x.com"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComposeCreativePayload(tt.input)
			assertAssemblyError(t, err)
		})
	}
}

func TestComposeCreativePayload_Carousel(t *testing.T) {
	t.Run("Cartões herdam link principal e recebem título padrão", func(t *testing.T) {
		payload, err := ComposeCreativePayload(CreativeComposition{
			Kind:   "carousel",
			PageID: "111",
			Link:   "https://loja.example.com",
			Cards: []CarouselCard{
				{ImageHash: "h1"},
				{ImageHash: "h2", Link: "https://outro.example.com", Headline: "Oferta"},
			},
		})
		require.NoError(t, err)

		linkData := payload.GetFields("object_story_spec").GetFields("link_data")
		attachments := linkData.GetList("child_attachments")
		require.Len(t, attachments, 2)

		first, ok := attachments[0].(domain.Fields)
		require.True(t, ok)
		assert.Equal(t, "https://loja.example.com", first["link"])
		assert.Equal(t, "Cartão 1", first["name"])

		second, ok := attachments[1].(domain.Fields)
		require.True(t, ok)
		assert.Equal(t, "https://outro.example.com", second["link"])
		assert.Equal(t, "Oferta", second["name"])
	})

	t.Run("Carrossel sem cartões é erro de montagem", func(t *testing.T) {
		_, err := ComposeCreativePayload(CreativeComposition{
			Kind:   "carousel",
			PageID: "111",
			Link:   "https://loja.example.com",
		})
		assertAssemblyError(t, err)
	})

	t.Run("Cartão sem image_hash é erro de montagem", func(t *testing.T) {
		_, err := ComposeCreativePayload(CreativeComposition{
			Kind:   "carousel",
			PageID: "111",
			Link:   "https://loja.example.com",
			Cards:  []CarouselCard{{Headline: "Sem imagem"}},
		})
		assertAssemblyError(t, err)
	})
}

func TestComposeCreativePayload_Collection(t *testing.T) {
	t.Run("Coleção monta template_data com conjunto de produtos", func(t *testing.T) {
		payload, err := ComposeCreativePayload(CreativeComposition{
			Kind:         "collection",
			PageID:       "111",
			ProductSetID: "ps-1",
			Link:         "https://catalogo.example.com",
			ImageHash:    "capa123",
		})
		require.NoError(t, err)

		templateData := payload.GetFields("object_story_spec").GetFields("template_data")
		require.NotNil(t, templateData)
		assert.Equal(t, "ps-1", templateData["product_set_id"])
		assert.Equal(t, "capa123", templateData["image_hash"])
	})

	t.Run("Coleção sem conjunto de produtos é erro de montagem", func(t *testing.T) {
		_, err := ComposeCreativePayload(CreativeComposition{
			Kind:      "collection",
			PageID:    "111",
			Link:      "https://catalogo.example.com",
			ImageHash: "capa123",
		})
		assertAssemblyError(t, err)
	})

	t.Run("Coleção sem capa é erro de montagem", func(t *testing.T) {
		_, err := ComposeCreativePayload(CreativeComposition{
			Kind:         "collection",
			PageID:       "111",
			ProductSetID: "ps-1",
			Link:         "https://catalogo.example.com",
		})
		assertAssemblyError(t, err)
	})
}

func TestComposeCreativePayload_Raw(t *testing.T) {
	t.Run("Payload bruto válido passa com o nome aplicado", func(t *testing.T) {
		payload, err := ComposeCreativePayload(CreativeComposition{
			Kind: "raw",
			Name: "Bruto",
			Raw: domain.Fields{
				"object_story_spec": map[string]interface{}{"page_id": "111"},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "Bruto", payload["name"])
	})

	t.Run("Payload bruto sem object_story_spec é erro de montagem", func(t *testing.T) {
		_, err := ComposeCreativePayload(CreativeComposition{
			Kind: "raw",
			Raw:  domain.Fields{"name": "sem spec"},
		})
		assertAssemblyError(t, err)
	})

	t.Run("Payload bruto nulo é erro de montagem", func(t *testing.T) {
		_, err := ComposeCreativePayload(CreativeComposition{Kind: "raw"})
		assertAssemblyError(t, err)
	})
}

func TestComposeCreativePayload_UnknownKind(t *testing.T) {
	_, err := ComposeCreativePayload(CreativeComposition{Kind: "stories"})
	assertAssemblyError(t, err)
}
