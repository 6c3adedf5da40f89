package meta

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	metadomain "github.com/vfg2006/campaign-cloner-api/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/campaign-cloner-api/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/campaign-cloner-api/internal/config"
	"github.com/vfg2006/campaign-cloner-api/internal/domain"
	"github.com/vfg2006/campaign-cloner-api/pkg/utils"
)

// Conjuntos de campos lidos da plataforma ao capturar uma hierarquia
var (
	campaignFetchFields = []string{
		"id", "name", "status", "effective_status", "objective", "buying_type",
		"start_time", "stop_time", "budget_remaining", "daily_budget",
		"lifetime_budget", "bid_strategy", "created_time", "updated_time",
		"promoted_object", "special_ad_categories",
	}

	adSetFetchFields = []string{
		"id", "name", "status", "effective_status", "campaign_id",
		"daily_budget", "lifetime_budget", "start_time", "end_time",
		"promoted_object", "optimization_goal", "billing_event", "bid_amount",
		"targeting", "pacing_type", "is_dynamic_creative", "attribution_spec",
		"bid_strategy", "created_time", "updated_time",
	}

	adFetchFields = []string{
		"id", "name", "status", "effective_status", "adset_id", "campaign_id",
		"creative", "conversion_domain", "tracking_specs", "source_ad_id",
		"created_time", "updated_time",
	}

	creativeFetchFields = []string{
		"id", "name", "status", "object_story_spec", "asset_feed_spec", "body",
		"title", "image_url", "thumbnail_url", "video_id", "url_tags",
		"effective_object_story_id", "instagram_actor_id", "call_to_action_type",
	}
)

type MetaIntegrator struct {
	cfg    *config.Config
	Client metaclient.Client
	Batch  *metaclient.BatchOrchestrator
}

func New(cfg *config.Config, client metaclient.Client, batch *metaclient.BatchOrchestrator) *MetaIntegrator {
	return &MetaIntegrator{
		cfg:    cfg,
		Client: client,
		Batch:  batch,
	}
}

// ListCampaigns lista as campanhas ativas da conta para seleção de origem
func (s *MetaIntegrator) ListCampaigns(ctx context.Context, accountID string) ([]metadomain.Campaign, error) {
	campaigns, err := s.Client.GetAdCampaignsByAccountID(ctx, accountID)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"account_id": accountID,
			"error":      err.Error(),
		}).Error("cloner: falha ao listar campanhas da conta")
		return nil, err
	}
	return campaigns, nil
}

// ListPixels lista os pixels de conversão da conta
func (s *MetaIntegrator) ListPixels(ctx context.Context, accountID string) ([]metadomain.Pixel, error) {
	return s.Client.GetPixelsByAccountID(ctx, accountID)
}

// ListProductCatalogs lista os catálogos de produto da conta, ordenados
// pelo nome
func (s *MetaIntegrator) ListProductCatalogs(ctx context.Context, accountID string) ([]metadomain.ProductCatalog, error) {
	params := url.Values{}
	params.Set("fields", "id,name")

	items, err := s.Client.GetEdge(ctx, fmt.Sprintf("act_%s/product_catalogs", accountID), params)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar catálogos da conta %s: %w", accountID, err)
	}

	catalogs := make([]metadomain.ProductCatalog, 0, len(items))
	for _, item := range items {
		id := item.GetString("id")
		if id == "" {
			continue
		}
		name := item.GetString("name")
		if name == "" {
			name = id
		}
		catalogs = append(catalogs, metadomain.ProductCatalog{ID: id, Name: name})
	}
	sort.Slice(catalogs, func(i, j int) bool { return catalogs[i].Name < catalogs[j].Name })

	return catalogs, nil
}

// ListProductSets lista os conjuntos de produtos do catálogo
func (s *MetaIntegrator) ListProductSets(ctx context.Context, catalogID string) ([]metadomain.ProductSet, error) {
	params := url.Values{}
	params.Set("fields", "id,name")

	items, err := s.Client.GetEdge(ctx, catalogID+"/product_sets", params)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar conjuntos do catálogo %s: %w", catalogID, err)
	}

	sets := make([]metadomain.ProductSet, 0, len(items))
	for _, item := range items {
		id := item.GetString("id")
		if id == "" {
			continue
		}
		name := item.GetString("name")
		if name == "" {
			name = id
		}
		sets = append(sets, metadomain.ProductSet{ID: id, Name: name})
	}
	sort.Slice(sets, func(i, j int) bool { return sets[i].Name < sets[j].Name })

	return sets, nil
}

// RawHierarchy é a hierarquia crua capturada da plataforma, antes da
// montagem do template de clonagem
type RawHierarchy struct {
	Campaign  domain.Fields
	AdSets    []domain.Fields
	Ads       []domain.Fields
	Creatives []domain.Fields
}

// FetchCampaignHierarchy captura a campanha, os ad sets por cursor e os
// anúncios e criativos via requisições em lote
func (s *MetaIntegrator) FetchCampaignHierarchy(ctx context.Context, campaignID string) (*RawHierarchy, error) {
	campaign, err := s.Client.GetObject(ctx, campaignID, campaignFetchFields, nil)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar a campanha %s: %w", campaignID, err)
	}

	adSets, err := s.fetchAdSets(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	adSetIDs := make([]string, 0, len(adSets))
	for _, adSet := range adSets {
		if id := adSet.GetString("id"); id != "" {
			adSetIDs = append(adSetIDs, id)
		}
	}

	ads, err := s.fetchAdsByAdSetIDs(ctx, adSetIDs)
	if err != nil {
		return nil, err
	}

	creativeIDs := collectCreativeIDs(ads)
	creatives, err := s.fetchCreativesByIDs(ctx, creativeIDs)
	if err != nil {
		return nil, err
	}

	return &RawHierarchy{
		Campaign:  campaign,
		AdSets:    adSets,
		Ads:       ads,
		Creatives: creatives,
	}, nil
}

func (s *MetaIntegrator) fetchAdSets(ctx context.Context, campaignID string) ([]domain.Fields, error) {
	params := url.Values{}
	params.Set("fields", strings.Join(adSetFetchFields, ","))

	items, err := s.Client.GetEdge(ctx, campaignID+"/adsets", params)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar os ad sets da campanha %s: %w", campaignID, err)
	}
	return items, nil
}

// fetchAdsByAdSetIDs busca os anúncios de vários ad sets em lote; cada
// sub-requisição lista os anúncios de um ad set
func (s *MetaIntegrator) fetchAdsByAdSetIDs(ctx context.Context, adSetIDs []string) ([]domain.Fields, error) {
	if len(adSetIDs) == 0 {
		return nil, nil
	}

	entries := make([]metaclient.BatchEntry, 0, len(adSetIDs))
	for _, adSetID := range adSetIDs {
		params := url.Values{}
		params.Set("fields", strings.Join(adFetchFields, ","))
		params.Set("limit", fmt.Sprintf("%d", s.cfg.Meta.PageLimit))
		entries = append(entries, metaclient.BatchEntry{
			Key:         adSetID,
			Method:      "GET",
			RelativeURL: adSetID + "/ads?" + params.Encode(),
		})
	}

	outcome, err := s.Batch.Run(ctx, entries)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar anúncios em lote: %w", err)
	}
	for _, failure := range outcome.Failed {
		logrus.WithFields(logrus.Fields{
			"adset_id": failure.Entry.Key,
			"error":    failure.Err.Error(),
		}).Warn("cloner: falha ao buscar anúncios do ad set")
	}

	ads := make([]domain.Fields, 0)
	for _, success := range outcome.Succeeded {
		var page struct {
			Data []domain.Fields `json:"data"`
		}
		if err := json.Unmarshal(success.Body, &page); err != nil {
			logrus.WithField("adset_id", success.Entry.Key).Warn("cloner: resposta de anúncios ilegível")
			continue
		}
		for _, ad := range page.Data {
			if ad.GetString("adset_id") == "" {
				ad["adset_id"] = success.Entry.Key
			}
			ads = append(ads, ad)
		}
	}

	return ads, nil
}

// fetchCreativesByIDs busca os metadados dos criativos em lote
func (s *MetaIntegrator) fetchCreativesByIDs(ctx context.Context, creativeIDs []string) ([]domain.Fields, error) {
	if len(creativeIDs) == 0 {
		return nil, nil
	}

	entries := make([]metaclient.BatchEntry, 0, len(creativeIDs))
	for _, creativeID := range creativeIDs {
		params := url.Values{}
		params.Set("fields", strings.Join(creativeFetchFields, ","))
		entries = append(entries, metaclient.BatchEntry{
			Key:         creativeID,
			Method:      "GET",
			RelativeURL: creativeID + "?" + params.Encode(),
		})
	}

	outcome, err := s.Batch.Run(ctx, entries)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar criativos em lote: %w", err)
	}
	for _, failure := range outcome.Failed {
		logrus.WithFields(logrus.Fields{
			"creative_id": failure.Entry.Key,
			"error":       failure.Err.Error(),
		}).Warn("cloner: falha ao buscar criativo")
	}

	creatives := make([]domain.Fields, 0, len(outcome.Succeeded))
	for _, success := range outcome.Succeeded {
		var creative domain.Fields
		if err := json.Unmarshal(success.Body, &creative); err != nil {
			logrus.WithField("creative_id", success.Entry.Key).Warn("cloner: resposta de criativo ilegível")
			continue
		}
		creatives = append(creatives, creative)
	}

	return creatives, nil
}

// AccountSnapshot é a estrutura completa da conta capturada pelo sync
// diário, sem métricas
type AccountSnapshot struct {
	AccountID string          `json:"account_id"`
	Campaigns []domain.Fields `json:"campaigns"`
	AdSets    []domain.Fields `json:"ad_sets"`
	Ads       []domain.Fields `json:"ads"`
	Creatives []domain.Fields `json:"creatives"`
}

// updatedSinceFilter restringe as consultas aos objetos alterados após o
// instante informado
func updatedSinceFilter(since time.Time) string {
	filter := []map[string]interface{}{
		{
			"field":    "updated_time",
			"operator": "GREATER_THAN",
			"value":    since.Unix(),
		},
	}
	encoded, _ := json.Marshal(filter)
	return string(encoded)
}

// SnapshotAccountStructure captura campanhas, ad sets, anúncios e criativos
// da conta. Os endpoints de conta são tentados primeiro; quando voltam
// vazios, a captura cai para lotes por campanha ou por ad set.
func (s *MetaIntegrator) SnapshotAccountStructure(ctx context.Context, accountID string, updatedSince *time.Time) (*AccountSnapshot, error) {
	var filtering string
	if updatedSince != nil {
		filtering = updatedSinceFilter(*updatedSince)
	}

	campaigns, err := s.fetchAccountEdge(ctx, accountID, "campaigns", campaignFetchFields, filtering)
	if err != nil {
		return nil, fmt.Errorf("erro ao capturar campanhas da conta %s: %w", accountID, err)
	}

	adSets, err := s.fetchAccountEdge(ctx, accountID, "adsets", adSetFetchFields, filtering)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"account_id": accountID,
			"error":      err.Error(),
		}).Warn("cloner: captura de ad sets pelo endpoint da conta falhou")
	}
	if len(adSets) == 0 && len(campaigns) > 0 {
		adSets, err = s.fetchAdSetsByCampaigns(ctx, campaigns, filtering)
		if err != nil {
			return nil, err
		}
	}

	ads, err := s.fetchAccountEdge(ctx, accountID, "ads", adFetchFields, filtering)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"account_id": accountID,
			"error":      err.Error(),
		}).Warn("cloner: captura de anúncios pelo endpoint da conta falhou")
	}
	if len(ads) == 0 && len(adSets) > 0 {
		adSetIDs := make([]string, 0, len(adSets))
		for _, adSet := range adSets {
			if id := adSet.GetString("id"); id != "" {
				adSetIDs = append(adSetIDs, id)
			}
		}
		ads, err = s.fetchAdsByAdSetIDs(ctx, adSetIDs)
		if err != nil {
			return nil, err
		}
	}

	// Achata o bloco creative de cada anúncio em creative_id antes da
	// gravação do snapshot
	creativeIDs := collectCreativeIDs(ads)
	for _, ad := range ads {
		if creativeInfo := ad.GetFields("creative"); creativeInfo != nil {
			if id := creativeInfo.GetString("id"); id != "" {
				ad["creative_id"] = id
			}
			delete(ad, "creative")
		}
	}

	creatives, err := s.fetchCreativesByIDs(ctx, creativeIDs)
	if err != nil {
		return nil, err
	}

	return &AccountSnapshot{
		AccountID: accountID,
		Campaigns: campaigns,
		AdSets:    adSets,
		Ads:       ads,
		Creatives: creatives,
	}, nil
}

func (s *MetaIntegrator) fetchAccountEdge(ctx context.Context, accountID, edge string, fields []string, filtering string) ([]domain.Fields, error) {
	params := url.Values{}
	params.Set("fields", strings.Join(fields, ","))
	if filtering != "" {
		params.Set("filtering", filtering)
	}
	return s.Client.GetEdge(ctx, fmt.Sprintf("act_%s/%s", accountID, edge), params)
}

// fetchAdSetsByCampaigns busca os ad sets campanha a campanha em lote,
// usado quando o endpoint da conta não retorna dados
func (s *MetaIntegrator) fetchAdSetsByCampaigns(ctx context.Context, campaigns []domain.Fields, filtering string) ([]domain.Fields, error) {
	entries := make([]metaclient.BatchEntry, 0, len(campaigns))
	for _, campaign := range campaigns {
		campaignID := campaign.GetString("id")
		if campaignID == "" {
			continue
		}
		params := url.Values{}
		params.Set("fields", strings.Join(adSetFetchFields, ","))
		params.Set("limit", fmt.Sprintf("%d", s.cfg.Meta.PageLimit))
		if filtering != "" {
			params.Set("filtering", filtering)
		}
		entries = append(entries, metaclient.BatchEntry{
			Key:         campaignID,
			Method:      "GET",
			RelativeURL: campaignID + "/adsets?" + params.Encode(),
		})
	}
	if len(entries) == 0 {
		return nil, nil
	}

	outcome, err := s.Batch.Run(ctx, entries)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar ad sets em lote: %w", err)
	}
	for _, failure := range outcome.Failed {
		logrus.WithFields(logrus.Fields{
			"campaign_id": failure.Entry.Key,
			"error":       failure.Err.Error(),
		}).Warn("cloner: falha ao buscar ad sets da campanha")
	}

	adSets := make([]domain.Fields, 0)
	for _, success := range outcome.Succeeded {
		var page struct {
			Data []domain.Fields `json:"data"`
		}
		if err := json.Unmarshal(success.Body, &page); err != nil {
			logrus.WithField("campaign_id", success.Entry.Key).Warn("cloner: resposta de ad sets ilegível")
			continue
		}
		adSets = append(adSets, page.Data...)
	}

	return adSets, nil
}

func collectCreativeIDs(ads []domain.Fields) []string {
	seen := make(map[string]bool)
	ids := make([]string, 0)
	for _, ad := range ads {
		creativeInfo := ad.GetFields("creative")
		if creativeInfo == nil {
			continue
		}
		id := creativeInfo.GetString("id")
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

// GetAdAccounts lista as contas de anúncio de todos os business managers
// acessíveis pelo token atual
func (s *MetaIntegrator) GetAdAccounts() ([]*domain.AdAccount, error) {
	bms, err := s.getBusinessManagers()
	if err != nil {
		logrus.WithError(err).Error("cloner: falha ao buscar business managers")
		return nil, err
	}

	allAdAccounts := make([]*domain.AdAccount, 0)
	for _, b := range bms {
		logrus.WithFields(logrus.Fields{
			"business_id":   b.ID,
			"business_name": b.Name,
		}).Debug("cloner: buscando contas de anúncio do business")

		adAccounts, err := s.Client.GetAdAccountsByBusinessID(b.ID)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"business_id": b.ID,
				"error":       err.Error(),
			}).Error("cloner: falha ao buscar contas de anúncio do business")
			continue
		}

		for _, adAccount := range adAccounts {
			allAdAccounts = append(allAdAccounts, &domain.AdAccount{
				ExternalID:          adAccount.ID,
				Name:                adAccount.Name,
				Nickname:            &adAccount.Name,
				Origin:              "meta",
				BusinessManagerID:   b.ID,
				BusinessManagerName: b.Name,
			})
		}
	}

	logrus.WithField("total_accounts", len(allAdAccounts)).Info("cloner: contas de anúncio carregadas")

	return allAdAccounts, nil
}

func (s *MetaIntegrator) getBusinessManagers() ([]metadomain.BusinessManager, error) {
	if err := s.Client.EnsureValidToken(); err != nil {
		return nil, fmt.Errorf("erro ao verificar validade do token: %w", err)
	}

	url := fmt.Sprintf("%s/me/businesses?limit=100&access_token=%s", s.cfg.Meta.URL, s.cfg.Meta.AccessToken)

	data, err := utils.MakeRequest(url)
	if err != nil {
		if strings.Contains(err.Error(), "Error on Request") {
			if refreshErr := s.Client.RefreshToken(); refreshErr != nil {
				return nil, fmt.Errorf("erro ao renovar token: %w", refreshErr)
			}

			url = fmt.Sprintf("%s/me/businesses?limit=100&access_token=%s", s.cfg.Meta.URL, s.cfg.Meta.AccessToken)

			data, err = utils.MakeRequest(url)
			if err != nil {
				return nil, err
			}
		} else {
			return nil, err
		}
	}

	var response struct {
		Data []metadomain.BusinessManager `json:"data"`
	}
	err = json.Unmarshal(data, &response)
	if err != nil {
		return nil, err
	}

	return response.Data, nil
}
