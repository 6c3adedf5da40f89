package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-cloner-api/infrastructure/repository"
	"github.com/vfg2006/campaign-cloner-api/internal/domain"
	"github.com/vfg2006/campaign-cloner-api/internal/usecases/cloning"
	"github.com/vfg2006/campaign-cloner-api/internal/usecases/inspecting"
	"github.com/vfg2006/campaign-cloner-api/pkg/apiErrors"
	"github.com/vfg2006/campaign-cloner-api/pkg/middleware"
)

// CloneRunRequest é o corpo da requisição de clonagem: o template
// capturado previamente mais os ajustes e assets da sessão
type CloneRunRequest struct {
	SourceCampaignID string                `json:"source_campaign_id"`
	Template         *domain.TemplateGraph `json:"template"`
	Overrides        domain.OverrideMap    `json:"overrides"`
	Assets           domain.AssetMap       `json:"assets"`
}

// CloneRunResponse devolve o resultado da corrida, inclusive o parcial em
// caso de aborto
type CloneRunResponse struct {
	Result    *domain.CreationResult `json:"result"`
	Error     string                 `json:"error,omitempty"`
	ErrorKind string                 `json:"error_kind,omitempty"`
}

func ListAccountCampaigns(service inspecting.Inspector) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accountID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if accountID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID da conta é obrigatório", nil)
			return
		}

		campaigns, err := service.ListCampaigns(r.Context(), accountID)
		if err != nil {
			logrus.Error("Error listing campaigns:", err)
			writeMetaError(w, err, "Erro ao listar campanhas da conta")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(campaigns); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao codificar resposta", nil)
		}
	})
}

func ListAccountPixels(service inspecting.Inspector) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accountID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if accountID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID da conta é obrigatório", nil)
			return
		}

		pixels, err := service.ListPixels(r.Context(), accountID)
		if err != nil {
			logrus.Error("Error listing pixels:", err)
			writeMetaError(w, err, "Erro ao listar pixels da conta")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(pixels); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao codificar resposta", nil)
		}
	})
}

func ListAccountCatalogs(service inspecting.Inspector) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accountID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if accountID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID da conta é obrigatório", nil)
			return
		}

		catalogs, err := service.ListProductCatalogs(r.Context(), accountID)
		if err != nil {
			logrus.Error("Error listing product catalogs:", err)
			writeMetaError(w, err, "Erro ao listar catálogos da conta")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(catalogs); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao codificar resposta", nil)
		}
	})
}

func ListCatalogProductSets(service inspecting.Inspector) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		catalogID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if catalogID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID do catálogo é obrigatório", nil)
			return
		}

		sets, err := service.ListProductSets(r.Context(), catalogID)
		if err != nil {
			logrus.Error("Error listing product sets:", err)
			writeMetaError(w, err, "Erro ao listar conjuntos de produtos do catálogo")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(sets); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao codificar resposta", nil)
		}
	})
}

func FetchCampaignTemplate(service inspecting.Inspector) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - FetchCampaignTemplate")

		params := httprouter.ParamsFromContext(r.Context())
		accountID := params.ByName("id")
		campaignID := params.ByName("campaign_id")
		if accountID == "" || campaignID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "IDs de conta e campanha são obrigatórios", nil)
			return
		}

		template, err := service.FetchTemplate(r.Context(), accountID, campaignID)
		if err != nil {
			logrus.Error("Error fetching campaign template:", err)
			writeMetaError(w, err, "Erro ao capturar o template da campanha")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(template); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao codificar resposta", nil)
		}
	})
}

func RunClone(service cloning.Cloner) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - RunClone")

		accountID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if accountID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID da conta é obrigatório", nil)
			return
		}

		var body CloneRunRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Corpo da requisição inválido: "+err.Error(), nil)
			return
		}

		request := &cloning.CloneRequest{
			AccountID:        accountID,
			SourceCampaignID: body.SourceCampaignID,
			Template:         body.Template,
			Overrides:        body.Overrides,
			Assets:           body.Assets,
			RequestedBy:      requesterEmail(r),
		}

		result, err := service.CloneCampaign(r.Context(), request)
		if err != nil {
			logrus.Error("Error cloning campaign:", err)
			writeCloneOutcome(w, result, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(CloneRunResponse{Result: result}); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao codificar resposta", nil)
		}
	})
}

func ComposeCreative(service cloning.Cloner) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - ComposeCreative")

		accountID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if accountID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID da conta é obrigatório", nil)
			return
		}

		var input cloning.CreativeComposition
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Corpo da requisição inválido: "+err.Error(), nil)
			return
		}

		creativeID, err := service.ComposeCreative(r.Context(), accountID, input)
		if err != nil {
			logrus.Error("Error composing creative:", err)
			writeCloningError(w, err, "Erro ao montar o criativo")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]string{"creative_id": creativeID}); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao codificar resposta", nil)
		}
	})
}

func GetCloneJob(jobs repository.CloneJobRepository) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jobID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if jobID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID do job é obrigatório", nil)
			return
		}

		job, err := jobs.GetByID(jobID)
		if err != nil {
			logrus.Error("Error getting clone job:", err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao buscar o job de clonagem", nil)
			return
		}
		if job == nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Job de clonagem não encontrado", map[string]interface{}{
				"job_id": jobID,
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(job); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao codificar resposta", nil)
		}
	})
}

func ListCloneJobs(jobs repository.CloneJobRepository) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accountID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if accountID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID da conta é obrigatório", nil)
			return
		}

		limit := uint64(0)
		if rawLimit := r.URL.Query().Get("limit"); rawLimit != "" {
			parsed, err := strconv.ParseUint(rawLimit, 10, 64)
			if err != nil {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Parâmetro limit inválido", nil)
				return
			}
			limit = parsed
		}

		list, err := jobs.ListByAccount(accountID, limit)
		if err != nil {
			logrus.Error("Error listing clone jobs:", err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao listar jobs de clonagem", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(list); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao codificar resposta", nil)
		}
	})
}

// requesterEmail identifica o operador da requisição a partir do token
func requesterEmail(r *http.Request) string {
	claims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
	if !ok || claims == nil {
		return ""
	}
	return claims.UserEmail
}

// writeCloneOutcome devolve o erro da clonagem junto com o resultado
// parcial já criado na plataforma
func writeCloneOutcome(w http.ResponseWriter, result *domain.CreationResult, err error) {
	kind := cloning.KindOf(err)

	response := CloneRunResponse{
		Result:    result,
		Error:     err.Error(),
		ErrorKind: string(kind),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusForCloneKind(kind))
	if encodeErr := json.NewEncoder(w).Encode(response); encodeErr != nil {
		logrus.WithError(encodeErr).Error("Erro ao codificar resposta de clonagem")
	}
}

// writeCloningError mapeia erros do fluxo de clonagem para códigos da API
func writeCloningError(w http.ResponseWriter, err error, fallbackMessage string) {
	var cloneErr *cloning.CloneError
	if !errors.As(err, &cloneErr) {
		apiErrors.WriteError(w, apiErrors.ErrInternalServer, fallbackMessage, nil)
		return
	}

	switch cloneErr.Kind {
	case cloning.ErrorKindAssemblyInvalid:
		apiErrors.WriteError(w, apiErrors.ErrCloneAssembly, cloneErr.Error(), nil)
	case cloning.ErrorKindRateLimited:
		apiErrors.WriteError(w, apiErrors.ErrMetaRateLimited, cloneErr.Error(), nil)
	case cloning.ErrorKindMissingIdentifier:
		apiErrors.WriteError(w, apiErrors.ErrMetaMissingID, cloneErr.Error(), nil)
	default:
		apiErrors.WriteError(w, apiErrors.ErrMetaService, cloneErr.Error(), nil)
	}
}

func statusForCloneKind(kind cloning.ErrorKind) int {
	switch kind {
	case cloning.ErrorKindAssemblyInvalid:
		return http.StatusUnprocessableEntity
	case cloning.ErrorKindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusBadGateway
	}
}

// writeMetaError trata falhas de leitura da plataforma
func writeMetaError(w http.ResponseWriter, err error, message string) {
	if cloning.ClassifyRemoteError(err) == cloning.ErrorKindRateLimited {
		apiErrors.WriteError(w, apiErrors.ErrMetaRateLimited, message, nil)
		return
	}
	apiErrors.WriteError(w, apiErrors.ErrExternalService, message, nil)
}
