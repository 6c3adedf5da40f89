package domain

type BusinessManager struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ExternalID string `json:"external_id"`
	Origin     string `json:"origin"`
}

type AdAccountStatus string

const (
	AdAccountStatusActive   AdAccountStatus = "ACTIVE"
	AdAccountStatusInactive AdAccountStatus = "INACTIVE"
)

type AdAccount struct {
	BusinessManagerID   string          `json:"business_id"`
	BusinessManagerName string          `json:"business_name"`
	CNPJ                *string         `json:"cnpj"`
	ExternalID          string          `json:"external_id"`
	ID                  string          `json:"id"`
	Name                string          `json:"name"`
	Nickname            *string         `json:"nickname"`
	Origin              string          `json:"origin"`
	SecretName          *string         `json:"secret_name"`
	Status              AdAccountStatus `json:"status"`
}

type AdAccountResponse struct {
	CNPJ       *string         `json:"cnpj"`
	ExternalID string          `json:"external_id"`
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Nickname   *string         `json:"nickname"`
	HasToken   bool            `json:"hasToken"`
	Status     AdAccountStatus `json:"status"`
}

type UpdateAdAccountRequest struct {
	ID         string  `json:"id"`
	Nickname   *string `json:"nickname,omitempty"`
	CNPJ       *string `json:"cnpj,omitempty"`
	SecretName *string `json:"secret_name,omitempty"`
	Token      *string `json:"token,omitempty"`
	Status     *string `json:"status,omitempty"`
}

type UpdateAdAccountResponse struct {
	ID         string  `json:"id"`
	Nickname   *string `json:"nickname,omitempty"`
	CNPJ       *string `json:"cnpj,omitempty"`
	SecretName *string `json:"secret_name,omitempty"`
	Status     *string `json:"status,omitempty"`
}

type SyncAccountsResponse struct {
	Quantity int    `json:"quantity"`
	Message  string `json:"message"`
	Error    bool   `json:"error"`
}
