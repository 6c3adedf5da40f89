package inspecting

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-cloner-api/infrastructure/integrator/meta"
	metadomain "github.com/vfg2006/campaign-cloner-api/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/campaign-cloner-api/internal/config"
	"github.com/vfg2006/campaign-cloner-api/internal/domain"
	"github.com/vfg2006/campaign-cloner-api/internal/usecases/cloning"
	"github.com/vfg2006/campaign-cloner-api/pkg/storage"
)

// Inspector captura hierarquias de campanha e as monta como template de
// clonagem, com os textos padrão dos criativos já extraídos
type Inspector interface {
	ListCampaigns(ctx context.Context, accountID string) ([]metadomain.Campaign, error)
	ListPixels(ctx context.Context, accountID string) ([]metadomain.Pixel, error)
	ListProductCatalogs(ctx context.Context, accountID string) ([]metadomain.ProductCatalog, error)
	ListProductSets(ctx context.Context, catalogID string) ([]metadomain.ProductSet, error)
	FetchTemplate(ctx context.Context, accountID, campaignID string) (*domain.TemplateGraph, error)
}

type Service struct {
	cfg         *config.Config
	metaService *meta.MetaIntegrator
}

// NewService cria o serviço de inspeção de campanhas
func NewService(cfg *config.Config, metaService *meta.MetaIntegrator) Inspector {
	return &Service{
		cfg:         cfg,
		metaService: metaService,
	}
}

func (s *Service) ListCampaigns(ctx context.Context, accountID string) ([]metadomain.Campaign, error) {
	return s.metaService.ListCampaigns(ctx, accountID)
}

func (s *Service) ListPixels(ctx context.Context, accountID string) ([]metadomain.Pixel, error) {
	return s.metaService.ListPixels(ctx, accountID)
}

func (s *Service) ListProductCatalogs(ctx context.Context, accountID string) ([]metadomain.ProductCatalog, error) {
	return s.metaService.ListProductCatalogs(ctx, accountID)
}

func (s *Service) ListProductSets(ctx context.Context, catalogID string) ([]metadomain.ProductSet, error) {
	return s.metaService.ListProductSets(ctx, catalogID)
}

// FetchTemplate captura a hierarquia completa da campanha e a monta como
// template imutável. O template é fotografado uma única vez; ajustes do
// operador nunca alteram esta estrutura.
func (s *Service) FetchTemplate(ctx context.Context, accountID, campaignID string) (*domain.TemplateGraph, error) {
	started := time.Now()

	raw, err := s.metaService.FetchCampaignHierarchy(ctx, campaignID)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"account_id":  accountID,
			"campaign_id": campaignID,
			"error":       err.Error(),
		}).Error("cloner: falha ao capturar a hierarquia da campanha")
		return nil, err
	}

	graph := assembleTemplate(raw)

	logrus.WithFields(logrus.Fields{
		"campaign_id": campaignID,
		"adsets":      len(graph.AdSets),
		"creatives":   len(graph.Creatives),
		"elapsed":     time.Since(started).String(),
	}).Info("cloner: template de campanha capturado")

	s.dumpSnapshot(accountID, campaignID, graph)

	return graph, nil
}

// assembleTemplate agrupa os anúncios por ad set e anexa a cada um os
// detalhes do criativo e os textos padrão extraídos dele
func assembleTemplate(raw *meta.RawHierarchy) *domain.TemplateGraph {
	creativesByID := make(map[string]domain.Fields, len(raw.Creatives))
	for _, creative := range raw.Creatives {
		if id := creative.GetString("id"); id != "" {
			creativesByID[id] = creative
		}
	}

	adsByAdSet := make(map[string][]domain.TemplateAd)
	for _, ad := range raw.Ads {
		adSetID := ad.GetString("adset_id")

		templateAd := domain.TemplateAd{Fields: ad}
		if creativeInfo := ad.GetFields("creative"); creativeInfo != nil {
			if details, ok := creativesByID[creativeInfo.GetString("id")]; ok {
				templateAd.CreativeDetails = details
				templateAd.DefaultMessage, templateAd.DefaultHeadline = cloning.ExtractDefaultText(details)
			}
		}

		adsByAdSet[adSetID] = append(adsByAdSet[adSetID], templateAd)
	}

	adSets := make([]domain.TemplateAdSet, 0, len(raw.AdSets))
	for _, adSetFields := range raw.AdSets {
		adSets = append(adSets, domain.TemplateAdSet{
			Fields: adSetFields,
			Ads:    adsByAdSet[adSetFields.GetString("id")],
		})
	}

	return &domain.TemplateGraph{
		Campaign:  raw.Campaign,
		AdSets:    adSets,
		Creatives: raw.Creatives,
	}
}

// dumpSnapshot grava a fotografia da hierarquia em disco para auditoria
func (s *Service) dumpSnapshot(accountID, campaignID string, graph *domain.TemplateGraph) {
	if s.cfg == nil || s.cfg.Clone.ReportDir == "" {
		return
	}

	fileName := fmt.Sprintf("template_%s_%s.json", accountID, campaignID)
	if _, err := storage.SaveJSON(s.cfg.Clone.ReportDir, fileName, graph); err != nil {
		logrus.WithError(err).Warn("cloner: não foi possível gravar o snapshot do template")
	}
}
