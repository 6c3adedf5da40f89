package metadomain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorResponseClassification(t *testing.T) {
	tests := []struct {
		name             string
		details          ErrorDetails
		rateLimited      bool
		accountThrottled bool
		tokenExpired     bool
	}{
		{
			name:        "Código 17 é limite de requisições",
			details:     ErrorDetails{Code: 17},
			rateLimited: true,
		},
		{
			name:        "Código 80004 é limite de requisições",
			details:     ErrorDetails{Code: 80004},
			rateLimited: true,
		},
		{
			name:        "Subcódigo de limite também classifica",
			details:     ErrorDetails{Code: 100, ErrorSubcode: 613},
			rateLimited: true,
		},
		{
			name:             "Subcódigo de conta estrangulada exige pausa longa",
			details:          ErrorDetails{Code: 17, ErrorSubcode: 2446079},
			rateLimited:      true,
			accountThrottled: true,
		},
		{
			name:         "Código 190 é token expirado",
			details:      ErrorDetails{Code: 190},
			tokenExpired: true,
		},
		{
			name:         "OAuthException com subcódigo 463 é token expirado",
			details:      ErrorDetails{Type: "OAuthException", ErrorSubcode: 463},
			tokenExpired: true,
		},
		{
			name:    "Erro de validação comum não é transitório",
			details: ErrorDetails{Code: 100, Message: "Invalid parameter"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &ErrorResponse{Error: tt.details}
			assert.Equal(t, tt.rateLimited, resp.IsRateLimited())
			assert.Equal(t, tt.accountThrottled, resp.IsAccountThrottled())
			assert.Equal(t, tt.tokenExpired, resp.IsTokenExpired())
		})
	}
}

func TestAPIError(t *testing.T) {
	apiErr := NewAPIError(ErrorResponse{
		Error: ErrorDetails{Code: 17, ErrorSubcode: 2446079, Message: "User request limit reached"},
	}, 400, []byte(`{"error":{"code":17}}`))

	assert.Equal(t, 17, apiErr.Code())
	assert.Equal(t, 2446079, apiErr.Subcode())
	assert.True(t, apiErr.IsRateLimited())
	assert.True(t, apiErr.IsAccountThrottled())
	assert.Contains(t, apiErr.Error(), "code=17")
	assert.Contains(t, apiErr.Error(), "subcode=2446079")
}

func TestLooksRateLimited(t *testing.T) {
	assert.True(t, LooksRateLimited("User request limit reached"))
	assert.True(t, LooksRateLimited("Too many calls"))
	assert.False(t, LooksRateLimited("Invalid parameter"))
}

func TestCombinedMessage(t *testing.T) {
	resp := &ErrorResponse{Error: ErrorDetails{
		Message:        "Request limit",
		ErrorUserTitle: "Limite atingido",
	}}
	assert.Equal(t, "Request limit Limite atingido", resp.CombinedMessage())
}
