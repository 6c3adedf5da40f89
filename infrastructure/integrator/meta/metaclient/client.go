package metaclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	metadomain "github.com/vfg2006/campaign-cloner-api/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/campaign-cloner-api/internal/config"
	"github.com/vfg2006/campaign-cloner-api/internal/domain"
)

type Client interface {
	GetObject(ctx context.Context, objectID string, fields []string, extra url.Values) (domain.Fields, error)
	GetEdge(ctx context.Context, path string, params url.Values) ([]domain.Fields, error)
	CreateObject(ctx context.Context, path string, payload domain.Fields) (string, error)
	ExecuteBatch(ctx context.Context, entries []BatchEntry) ([]BatchItemResponse, error)

	GetAdCampaignsByAccountID(ctx context.Context, accountID string) ([]metadomain.Campaign, error)
	GetAdAccountsByBusinessID(businessID string) ([]metadomain.AdAccount, error)
	GetPixelsByAccountID(ctx context.Context, accountID string) ([]metadomain.Pixel, error)

	UploadImage(ctx context.Context, accountID, fileName string, content []byte) (string, error)
	UploadVideo(ctx context.Context, accountID, fileName string, content []byte) (string, error)
	WaitVideoReady(ctx context.Context, videoID string) error

	RefreshToken() error
	EnsureValidToken() error
	HandleResponse(resp *http.Response) ([]byte, error)
}

type MetaClient struct {
	Cfg          *config.Config
	TokenManager *TokenManager
	Executor     *RequestExecutor
	HTTPClient   *http.Client
}

func NewClient(cfg *config.Config, tokenManager *TokenManager, executor *RequestExecutor) Client {
	client := &MetaClient{
		Cfg:          cfg,
		TokenManager: tokenManager,
		Executor:     executor,
		HTTPClient:   &http.Client{},
	}
	return client
}

// RefreshToken obtém um novo token de longa duração
func (c *MetaClient) RefreshToken() error {
	return c.TokenManager.RefreshToken()
}

// EnsureValidToken verifica se o token atual é válido e tenta renová-lo se necessário
func (c *MetaClient) EnsureValidToken() error {
	return c.TokenManager.EnsureValidToken()
}

// HandleResponse manipula a resposta HTTP e verifica erros de token expirado
func (c *MetaClient) HandleResponse(resp *http.Response) ([]byte, error) {
	return c.TokenManager.HandleResponse(resp)
}

const tokenRenewedMessage = "token expirado e renovado, por favor tente novamente"

// doGet executa um GET autenticado com retry, devolvendo o corpo bruto.
// O token é lido a cada tentativa para aproveitar renovações feitas pelo
// TokenManager no meio da sequência de retries.
func (c *MetaClient) doGet(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if err := c.EnsureValidToken(); err != nil {
		return nil, fmt.Errorf("erro ao verificar validade do token: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}

	attempt := func(ctx context.Context) ([]byte, error) {
		params.Set("access_token", c.Cfg.Meta.AccessToken)
		requestURL := fmt.Sprintf("%s/%s?%s", c.Cfg.Meta.URL, strings.TrimPrefix(path, "/"), params.Encode())

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
		if err != nil {
			return nil, err
		}

		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		return c.HandleResponse(resp)
	}

	body, err := c.Executor.Execute(ctx, "GET "+path, attempt)
	if err != nil && err.Error() == tokenRenewedMessage {
		// O token foi renovado durante a tentativa; repetir com o token novo
		return c.Executor.Execute(ctx, "GET "+path, attempt)
	}
	return body, err
}

// doPostForm executa um POST autenticado de formulário com retry
func (c *MetaClient) doPostForm(ctx context.Context, path string, form url.Values) ([]byte, error) {
	if err := c.EnsureValidToken(); err != nil {
		return nil, fmt.Errorf("erro ao verificar validade do token: %w", err)
	}

	requestURL := fmt.Sprintf("%s/%s", c.Cfg.Meta.URL, strings.TrimPrefix(path, "/"))

	attempt := func(ctx context.Context) ([]byte, error) {
		form.Set("access_token", c.Cfg.Meta.AccessToken)

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, strings.NewReader(form.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		return c.HandleResponse(resp)
	}

	body, err := c.Executor.Execute(ctx, "POST "+path, attempt)
	if err != nil && err.Error() == tokenRenewedMessage {
		// O token foi renovado durante a tentativa; repetir com o token novo
		return c.Executor.Execute(ctx, "POST "+path, attempt)
	}
	return body, err
}

// GetObject busca um objeto pelo ID com os campos solicitados
func (c *MetaClient) GetObject(ctx context.Context, objectID string, fields []string, extra url.Values) (domain.Fields, error) {
	params := url.Values{}
	if len(fields) > 0 {
		params.Set("fields", strings.Join(fields, ","))
	}
	for key, values := range extra {
		for _, value := range values {
			params.Add(key, value)
		}
	}

	body, err := c.doGet(ctx, objectID, params)
	if err != nil {
		return nil, err
	}

	var object domain.Fields
	if err := json.Unmarshal(body, &object); err != nil {
		return nil, fmt.Errorf("erro ao decodificar objeto %s: %w", objectID, err)
	}
	return object, nil
}

type edgePage struct {
	Data   []domain.Fields   `json:"data"`
	Paging metadomain.Paging `json:"paging"`
}

// GetEdge busca todos os itens de uma edge, percorrendo os cursores de
// paginação até a última página
func (c *MetaClient) GetEdge(ctx context.Context, path string, params url.Values) ([]domain.Fields, error) {
	if params == nil {
		params = url.Values{}
	}
	if params.Get("limit") == "" {
		params.Set("limit", fmt.Sprintf("%d", c.Cfg.Meta.PageLimit))
	}

	var items []domain.Fields
	after := ""

	for {
		pageParams := url.Values{}
		for key, values := range params {
			for _, value := range values {
				pageParams.Add(key, value)
			}
		}
		if after != "" {
			pageParams.Set("after", after)
		}

		body, err := c.doGet(ctx, path, pageParams)
		if err != nil {
			return nil, err
		}

		var page edgePage
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("erro ao decodificar página de %s: %w", path, err)
		}

		items = append(items, page.Data...)

		if page.Paging.Next == "" || page.Paging.Cursors.After == "" || page.Paging.Cursors.After == after {
			break
		}
		after = page.Paging.Cursors.After
	}

	return items, nil
}

type createResponse struct {
	ID string `json:"id"`
}

// CreateObject envia um payload de criação e devolve o ID do objeto criado
func (c *MetaClient) CreateObject(ctx context.Context, path string, payload domain.Fields) (string, error) {
	form := url.Values{}
	for key, value := range payload {
		encoded, err := EncodeFormValue(value)
		if err != nil {
			return "", fmt.Errorf("erro ao codificar o campo %s: %w", key, err)
		}
		form.Set(key, encoded)
	}

	body, err := c.doPostForm(ctx, path, form)
	if err != nil {
		return "", err
	}

	var created createResponse
	if err := json.Unmarshal(body, &created); err != nil {
		return "", fmt.Errorf("erro ao decodificar resposta de criação em %s: %w", path, err)
	}
	if created.ID == "" {
		return "", fmt.Errorf("criação em %s: %w", path, metadomain.ErrMissingObjectID)
	}

	return created.ID, nil
}

// EncodeFormValue serializa um valor de payload para o formato de formulário
// da Graph API: escalares viram texto simples e estruturas viram JSON
func EncodeFormValue(value interface{}) (string, error) {
	switch typed := value.(type) {
	case string:
		return typed, nil
	case bool:
		if typed {
			return "true", nil
		}
		return "false", nil
	case nil:
		return "", nil
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}
