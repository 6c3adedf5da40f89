package metaclient

import (
	"context"
	"net/url"

	metadomain "github.com/vfg2006/campaign-cloner-api/infrastructure/integrator/meta/domain"
)

// GetAdCampaignsByAccountID lista as campanhas ativas da conta, percorrendo
// todas as páginas de resultado
func (c *MetaClient) GetAdCampaignsByAccountID(ctx context.Context, accountID string) ([]metadomain.Campaign, error) {
	params := url.Values{}
	params.Set("fields", "id,name,status")
	params.Set("effective_status", "['ACTIVE']")

	items, err := c.GetEdge(ctx, "act_"+accountID+"/campaigns", params)
	if err != nil {
		return nil, err
	}

	campaigns := make([]metadomain.Campaign, 0, len(items))
	for _, item := range items {
		campaigns = append(campaigns, metadomain.Campaign{
			ID:     item.GetString("id"),
			Name:   item.GetString("name"),
			Status: item.GetString("status"),
		})
	}

	return campaigns, nil
}
