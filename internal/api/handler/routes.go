package handler

import (
	"net/http"

	"github.com/vfg2006/campaign-cloner-api/infrastructure/repository"
	"github.com/vfg2006/campaign-cloner-api/internal/api/handler/router"
	"github.com/vfg2006/campaign-cloner-api/internal/usecases/account"
	"github.com/vfg2006/campaign-cloner-api/internal/usecases/authenticating"
	"github.com/vfg2006/campaign-cloner-api/internal/usecases/cloning"
	"github.com/vfg2006/campaign-cloner-api/internal/usecases/inspecting"
	"github.com/vfg2006/campaign-cloner-api/internal/usecases/uploading"
	"github.com/vfg2006/campaign-cloner-api/pkg/middleware"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func AdAccounts(service account.AccountService) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/accounts",
			Method:      http.MethodGet,
			Handler:     AdAccountList(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/accounts/sync",
			Method:      http.MethodGet,
			Handler:     SyncAccounts(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/accounts/:id",
			Method:      http.MethodPut,
			Handler:     UpdateAdAccount(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

// Inspection retorna as rotas de leitura da estrutura das contas: campanhas,
// pixels, catálogos e captura de templates. As rotas por conta exigem
// vínculo do operador com a conta.
func Inspection(service inspecting.Inspector, auth authenticating.Authenticator) []router.Route {
	accountScoped := []func(http.Handler) http.Handler{
		middleware.AllRoles(),
		middleware.AccountScope(auth.AuthorizeAccountAccess),
	}

	return []router.Route{
		{
			Path:        "/v1/accounts/:id/campaigns",
			Method:      http.MethodGet,
			Handler:     ListAccountCampaigns(service),
			Middlewares: accountScoped,
		},
		{
			Path:        "/v1/accounts/:id/pixels",
			Method:      http.MethodGet,
			Handler:     ListAccountPixels(service),
			Middlewares: accountScoped,
		},
		{
			Path:        "/v1/accounts/:id/catalogs",
			Method:      http.MethodGet,
			Handler:     ListAccountCatalogs(service),
			Middlewares: accountScoped,
		},
		{
			// O :id aqui é o catálogo, não a conta
			Path:        "/v1/catalogs/:id/product-sets",
			Method:      http.MethodGet,
			Handler:     ListCatalogProductSets(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/accounts/:id/campaigns/:campaign_id/template",
			Method:      http.MethodGet,
			Handler:     FetchCampaignTemplate(service),
			Middlewares: accountScoped,
		},
	}
}

// Cloning retorna as rotas de execução: clonagem, montagem de criativos,
// upload de assets e consulta de jobs. As rotas por conta exigem vínculo
// do operador com a conta.
func Cloning(cloner cloning.Cloner, uploader uploading.Uploader, jobs repository.CloneJobRepository, auth authenticating.Authenticator) []router.Route {
	accountScoped := []func(http.Handler) http.Handler{
		middleware.AllRoles(),
		middleware.AccountScope(auth.AuthorizeAccountAccess),
	}

	return []router.Route{
		{
			Path:        "/v1/accounts/:id/clones",
			Method:      http.MethodPost,
			Handler:     RunClone(cloner),
			Middlewares: accountScoped,
		},
		{
			Path:        "/v1/accounts/:id/clones",
			Method:      http.MethodGet,
			Handler:     ListCloneJobs(jobs),
			Middlewares: accountScoped,
		},
		{
			// O :id aqui é o job de clonagem
			Path:        "/v1/clones/:id",
			Method:      http.MethodGet,
			Handler:     GetCloneJob(jobs),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/accounts/:id/creatives",
			Method:      http.MethodPost,
			Handler:     ComposeCreative(cloner),
			Middlewares: accountScoped,
		},
		{
			Path:        "/v1/accounts/:id/assets",
			Method:      http.MethodPost,
			Handler:     UploadAsset(uploader),
			Middlewares: accountScoped,
		},
	}
}

func Authentication(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/login",
			Method:  http.MethodPost,
			Handler: Login(service),
		},
		{
			Path:    "/v1/register",
			Method:  http.MethodPost,
			Handler: CreateUser(service),
		},
		{
			Path:        "/v1/users/:id/generate-password",
			Method:      http.MethodPost,
			Handler:     GeneratePassword(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/users/:id/change-password",
			Method:      http.MethodPost,
			Handler:     ChangePassword(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/me",
			Method:      http.MethodGet,
			Handler:     GetMe(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func User(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/users",
			Method:      http.MethodGet,
			Handler:     ListUsers(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/users",
			Method:      http.MethodPost,
			Handler:     CreateUser(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/users/:id",
			Method:      http.MethodGet,
			Handler:     GetUser(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/users/:id",
			Method:      http.MethodPut,
			Handler:     UpdateUser(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

// UserAccounts retorna as rotas para gerenciamento de contas vinculadas a usuários
func UserAccounts(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/me/accounts",
			Method:      http.MethodGet,
			Handler:     GetUserAccounts(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/users/:id/accounts",
			Method:      http.MethodPut,
			Handler:     UpdateUserAccounts(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/users/:id/accounts/link",
			Method:      http.MethodPost,
			Handler:     LinkUserAccount(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/users/:id/accounts/:account_id",
			Method:      http.MethodDelete,
			Handler:     UnlinkUserAccount(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/cron/:type/run",
			Method:      http.MethodPost,
			Handler:     RunCronJob(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrSupervisor()},
		},
		{
			Path:        "/v1/cron/status",
			Method:      http.MethodGet,
			Handler:     GetCronStatus(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrSupervisor()},
		},
	}
}
