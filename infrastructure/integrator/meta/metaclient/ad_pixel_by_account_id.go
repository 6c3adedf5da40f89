package metaclient

import (
	"context"
	"net/url"

	metadomain "github.com/vfg2006/campaign-cloner-api/infrastructure/integrator/meta/domain"
)

// GetPixelsByAccountID lista os pixels de conversão da conta de anúncios
func (c *MetaClient) GetPixelsByAccountID(ctx context.Context, accountID string) ([]metadomain.Pixel, error) {
	params := url.Values{}
	params.Set("fields", "id,name")

	items, err := c.GetEdge(ctx, "act_"+accountID+"/adspixels", params)
	if err != nil {
		return nil, err
	}

	pixels := make([]metadomain.Pixel, 0, len(items))
	for _, item := range items {
		pixels = append(pixels, metadomain.Pixel{
			ID:   item.GetString("id"),
			Name: item.GetString("name"),
		})
	}

	return pixels, nil
}
