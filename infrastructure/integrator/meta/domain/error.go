package metadomain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingObjectID indica uma criação aceita pela plataforma cuja
// resposta não trouxe o ID do objeto criado
var ErrMissingObjectID = errors.New("resposta de criação sem o ID do objeto")

// Códigos que a API do Meta usa para sinalizar limite de requisições
var RateLimitErrorCodes = map[int]struct{}{
	4:     {},
	17:    {},
	32:    {},
	613:   {},
	80004: {},
}

// Subcódigos de limitação no nível da conta de anúncios. Quando presentes,
// o backoff mínimo é muito maior que o backoff exponencial normal.
var AccountRateLimitSubcodes = map[int]struct{}{
	2446079: {},
	2446094: {},
	2446095: {},
}

// ErrorResponse representa a estrutura de erro da API do Meta
type ErrorResponse struct {
	Error ErrorDetails `json:"error"`
}

// ErrorDetails contém os detalhes de erro da API do Meta
type ErrorDetails struct {
	Message        string      `json:"message"`
	Type           string      `json:"type"`
	Code           int         `json:"code"`
	ErrorSubcode   int         `json:"error_subcode,omitempty"`
	ErrorUserTitle string      `json:"error_user_title,omitempty"`
	ErrorUserMsg   string      `json:"error_user_msg,omitempty"`
	FBTraceID      string      `json:"fbtrace_id"`
	ErrorData      interface{} `json:"error_data,omitempty"`
}

// IsTokenExpired verifica se o erro é de token expirado
func (e *ErrorResponse) IsTokenExpired() bool {
	// O código 190 representa "token expirado" nas respostas da API do Meta
	// Possíveis subcódigos relacionados a problemas de token: 460, 463, 467
	return e.Error.Code == 190 ||
		(e.Error.Type == "OAuthException" && (e.Error.ErrorSubcode == 460 || e.Error.ErrorSubcode == 463 || e.Error.ErrorSubcode == 467))
}

// IsRateLimited verifica se o erro representa limitação de requisições
func (e *ErrorResponse) IsRateLimited() bool {
	if _, ok := RateLimitErrorCodes[e.Error.Code]; ok {
		return true
	}
	if _, ok := RateLimitErrorCodes[e.Error.ErrorSubcode]; ok {
		return true
	}
	return e.IsAccountThrottled()
}

// IsAccountThrottled verifica se a conta de anúncios inteira está limitada.
// Esses subcódigos exigem uma pausa longa antes de qualquer nova tentativa.
func (e *ErrorResponse) IsAccountThrottled() bool {
	_, ok := AccountRateLimitSubcodes[e.Error.ErrorSubcode]
	return ok
}

// CombinedMessage junta as mensagens visíveis do erro em um único texto,
// usado pela heurística de retry dos batches
func (e *ErrorResponse) CombinedMessage() string {
	parts := make([]string, 0, 3)
	for _, msg := range []string{e.Error.Message, e.Error.ErrorUserTitle, e.Error.ErrorUserMsg} {
		if msg != "" {
			parts = append(parts, msg)
		}
	}
	return strings.Join(parts, " ")
}

// APIError encapsula um ErrorResponse como erro Go, preservando o corpo
// bruto para diagnóstico das rejeições do lado da plataforma
type APIError struct {
	Response ErrorResponse
	RawBody  []byte
	Status   int
}

func NewAPIError(resp ErrorResponse, status int, body []byte) *APIError {
	return &APIError{Response: resp, Status: status, RawBody: body}
}

func (e *APIError) Error() string {
	details := e.Response.Error
	if details.ErrorSubcode != 0 {
		return fmt.Sprintf("meta api error (code=%d, subcode=%d): %s", details.Code, details.ErrorSubcode, details.Message)
	}
	return fmt.Sprintf("meta api error (code=%d): %s", details.Code, details.Message)
}

func (e *APIError) Code() int    { return e.Response.Error.Code }
func (e *APIError) Subcode() int { return e.Response.Error.ErrorSubcode }

func (e *APIError) IsRateLimited() bool      { return e.Response.IsRateLimited() }
func (e *APIError) IsAccountThrottled() bool { return e.Response.IsAccountThrottled() }
func (e *APIError) IsTokenExpired() bool     { return e.Response.IsTokenExpired() }

// LooksRateLimited aplica a heurística textual usada quando o corpo do erro
// não traz um código numérico confiável (respostas parciais de batch)
func LooksRateLimited(message string) bool {
	lowered := strings.ToLower(message)
	return strings.Contains(lowered, "limit") || strings.Contains(lowered, "too many")
}
