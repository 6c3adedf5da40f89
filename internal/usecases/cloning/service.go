package cloning

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-cloner-api/infrastructure/repository"
	"github.com/vfg2006/campaign-cloner-api/internal/config"
	"github.com/vfg2006/campaign-cloner-api/internal/domain"
	"github.com/vfg2006/campaign-cloner-api/pkg/storage"
	"github.com/vfg2006/campaign-cloner-api/pkg/utils"
)

// CloneRequest é a sessão de clonagem: o template capturado, os ajustes do
// operador e os assets enviados. Todo o estado do fluxo vive aqui, nada é
// ambiente.
type CloneRequest struct {
	AccountID        string
	SourceCampaignID string
	Template         *domain.TemplateGraph
	Overrides        domain.OverrideMap
	Assets           domain.AssetMap
	RequestedBy      string
}

// Cloner clona uma hierarquia de campanha completa na ordem de dependência
// e monta criativos avulsos a partir dos campos do operador
type Cloner interface {
	CloneCampaign(ctx context.Context, request *CloneRequest) (*domain.CreationResult, error)
	ComposeCreative(ctx context.Context, accountID string, input CreativeComposition) (string, error)
}

type Service struct {
	cfg     *config.Config
	creator *ObjectCreator
	jobs    repository.CloneJobRepository
}

// NewService cria o serviço de clonagem hierárquica
func NewService(cfg *config.Config, creator *ObjectCreator, jobs repository.CloneJobRepository) Cloner {
	return &Service{
		cfg:     cfg,
		creator: creator,
		jobs:    jobs,
	}
}

// CloneCampaign percorre o template em uma única passada sequencial:
// campanha, depois cada ad set e, dentro dele, criativo e anúncio de cada
// ad. Qualquer falha não recuperável interrompe o restante da árvore; os
// IDs já criados são preservados no resultado parcial. Não há rollback dos
// objetos já criados na plataforma.
func (s *Service) CloneCampaign(ctx context.Context, request *CloneRequest) (*domain.CreationResult, error) {
	if request == nil || request.Template == nil {
		return nil, NewCloneError(ErrorKindAssemblyInvalid, "clone", errors.New("template de campanha ausente"))
	}

	result := &domain.CreationResult{
		AdSetIDs: make([]string, 0),
		AdIDs:    make([]string, 0),
	}

	// O modo de orçamento é decidido uma única vez a partir do template e
	// vale para a corrida inteira
	isCBO := IsBudgetOptimized(request.Template.Campaign)

	job := s.startJob(request)

	cloneErr := s.runClone(ctx, request, isCBO, result)

	s.finishJob(job, result, cloneErr)
	s.dumpReport(request, result, cloneErr)

	if cloneErr != nil {
		cloneErr.Partial = result
		return result, cloneErr
	}
	return result, nil
}

func (s *Service) runClone(ctx context.Context, request *CloneRequest, isCBO bool, result *domain.CreationResult) *CloneError {
	campaignID, cloneErr := s.createCampaign(ctx, request, isCBO)
	if cloneErr != nil {
		return cloneErr
	}
	result.CampaignID = campaignID

	for index, adSet := range request.Template.AdSets {
		adSetKey := adSet.Key(index)
		adSetName := adSet.Fields.GetString("name")
		if adSetName == "" {
			adSetName = adSetKey
		}

		logrus.WithFields(logrus.Fields{
			"adset":    adSetName,
			"position": fmt.Sprintf("%d/%d", index+1, len(request.Template.AdSets)),
		}).Info("Criando ad set")

		adSetOverride := request.Overrides.AdSets[adSetKey]

		adSetID, cloneErr := s.createAdSet(ctx, request, adSet, adSetOverride.Fields, campaignID, adSetName, isCBO)
		if cloneErr != nil {
			return cloneErr
		}
		result.AdSetIDs = append(result.AdSetIDs, adSetID)

		for adIndex, ad := range adSet.Ads {
			adKey := ad.Key(adSetKey, adIndex)
			adName := ad.Fields.GetString("name")
			if adName == "" {
				adName = adKey
			}

			adOverride := adSetOverride.Ads[adKey]

			adID, cloneErr := s.createAdWithCreative(ctx, request, ad, adOverride, adSetID, adName)
			if cloneErr != nil {
				if cloneErr.Kind == ErrorKindSkippable {
					logrus.WithField("ad", adName).Warn("Anúncio pulado por falta de criativo montável")
					continue
				}
				return cloneErr
			}
			result.AdIDs = append(result.AdIDs, adID)
		}
	}

	return nil
}

func (s *Service) createCampaign(ctx context.Context, request *CloneRequest, isCBO bool) (string, *CloneError) {
	payload := BuildCampaignPayload(request.Template.Campaign, request.Overrides.Campaign, isCBO)
	params := SanitizePayload(payload, "campaign")

	logrus.Debug("Payload da campanha sanitizado: ", utils.PrettyJson(params))

	// Campanha CBO sem orçamento é erro de montagem, detectado antes de
	// qualquer chamada de rede
	if isCBO && !params.Has("daily_budget") && !params.Has("lifetime_budget") {
		return "", NewCloneError(
			ErrorKindAssemblyInvalid,
			"campaign",
			errors.New("campanha com CBO precisa de daily_budget ou lifetime_budget"),
		)
	}

	displayName := params.GetString("name")
	if displayName == "" {
		displayName = "campanha sem nome"
	}

	campaignID, err := s.creator.Create(ctx, fmt.Sprintf("act_%s/campaigns", request.AccountID), params, "Campaign: "+displayName)
	if err != nil {
		return "", asCloneError(err, "campaign")
	}
	return campaignID, nil
}

func (s *Service) createAdSet(
	ctx context.Context,
	request *CloneRequest,
	adSet domain.TemplateAdSet,
	overrides domain.Fields,
	campaignID, displayName string,
	isCBO bool,
) (string, *CloneError) {
	payload := BuildAdSetPayload(adSet.Fields, overrides, campaignID, isCBO)
	params := SanitizePayload(payload, "adset")

	// Sem CBO, cada ad set precisa carregar o próprio orçamento
	if !isCBO && !params.Has("daily_budget") && !params.Has("lifetime_budget") {
		return "", NewCloneError(
			ErrorKindAssemblyInvalid,
			"adset",
			fmt.Errorf("ad set %s sem orçamento: informe o orçamento diário ou total", displayName),
		)
	}

	adSetID, err := s.creator.Create(ctx, fmt.Sprintf("act_%s/adsets", request.AccountID), params, "AdSet: "+displayName)
	if err != nil {
		return "", asCloneError(err, "adset")
	}
	return adSetID, nil
}

func (s *Service) createAdWithCreative(
	ctx context.Context,
	request *CloneRequest,
	ad domain.TemplateAd,
	override domain.AdOverride,
	adSetID, displayName string,
) (string, *CloneError) {
	creativePayload, _ := BuildCreativePayload(ad.CreativeDetails, override.Creative, request.Assets)
	if creativePayload == nil {
		return "", NewCloneError(
			ErrorKindSkippable,
			"creative",
			fmt.Errorf("anúncio %s sem criativo montável", displayName),
		)
	}

	creativeParams := SanitizePayload(creativePayload, "creative")

	creativeID, err := s.creator.Create(ctx, fmt.Sprintf("act_%s/adcreatives", request.AccountID), creativeParams, "Creative: "+displayName)
	if err != nil {
		return "", asCloneError(err, "creative")
	}

	adPayload := BuildAdPayload(ad.Fields, override.Fields, adSetID, creativeID)
	adParams := SanitizePayload(adPayload, "ad")

	adID, err := s.creator.Create(ctx, fmt.Sprintf("act_%s/ads", request.AccountID), adParams, "Ad: "+displayName)
	if err != nil {
		return "", asCloneError(err, "ad")
	}
	return adID, nil
}

// ComposeCreative monta e cria um criativo avulso na conta. A validação
// dos campos acontece inteira antes da chamada de rede.
func (s *Service) ComposeCreative(ctx context.Context, accountID string, input CreativeComposition) (string, error) {
	payload, err := ComposeCreativePayload(input)
	if err != nil {
		return "", err
	}

	params := SanitizePayload(payload, "creative")

	displayName := params.GetString("name")
	if displayName == "" {
		displayName = "criativo sem nome"
	}

	creativeID, err := s.creator.Create(ctx, fmt.Sprintf("act_%s/adcreatives", accountID), params, "Creative: "+displayName)
	if err != nil {
		return "", err
	}
	return creativeID, nil
}

// startJob registra o início da corrida para auditoria. Falha de
// persistência não interrompe a clonagem.
func (s *Service) startJob(request *CloneRequest) *domain.CloneJob {
	if s.jobs == nil {
		return nil
	}

	now := time.Now().UTC()
	job := &domain.CloneJob{
		ID:               uuid.NewString(),
		AccountID:        request.AccountID,
		SourceCampaignID: request.SourceCampaignID,
		Status:           domain.CloneJobRunning,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if request.RequestedBy != "" {
		job.RequestedBy = &request.RequestedBy
	}

	if err := s.jobs.Create(job); err != nil {
		logrus.WithError(err).Warn("Não foi possível registrar o início do job de clonagem")
		return nil
	}
	return job
}

func (s *Service) finishJob(job *domain.CloneJob, result *domain.CreationResult, cloneErr *CloneError) {
	if job == nil || s.jobs == nil {
		return
	}

	job.Result = result
	if cloneErr != nil {
		job.Status = domain.CloneJobAborted
		message := cloneErr.Error()
		job.ErrorMessage = &message
	} else {
		job.Status = domain.CloneJobDone
	}

	if err := s.jobs.UpdateOutcome(job); err != nil {
		logrus.WithError(err).Warn("Não foi possível registrar o desfecho do job de clonagem")
	}
}

// dumpReport grava o relatório da corrida em disco para inspeção
func (s *Service) dumpReport(request *CloneRequest, result *domain.CreationResult, cloneErr *CloneError) {
	if s.cfg == nil || s.cfg.Clone.ReportDir == "" {
		return
	}

	report := map[string]interface{}{
		"account_id":         request.AccountID,
		"source_campaign_id": request.SourceCampaignID,
		"result":             result,
		"finished_at":        time.Now().UTC().Format(time.RFC3339),
	}
	if cloneErr != nil {
		report["error"] = cloneErr.Error()
		report["error_kind"] = string(cloneErr.Kind)
	}

	fileName := fmt.Sprintf("clone_%s_%s.json", request.AccountID, time.Now().UTC().Format("20060102T150405"))
	if _, err := storage.SaveJSON(s.cfg.Clone.ReportDir, fileName, report); err != nil {
		logrus.WithError(err).Warn("Não foi possível salvar o relatório da clonagem")
	}
}

func asCloneError(err error, step string) *CloneError {
	if cloneErr, ok := err.(*CloneError); ok {
		return cloneErr
	}
	return NewCloneError(ErrorKindFatalRemote, step, err)
}
