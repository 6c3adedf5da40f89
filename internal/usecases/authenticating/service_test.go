package authenticating

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	repomocks "github.com/vfg2006/campaign-cloner-api/infrastructure/repository/mocks"
	"github.com/vfg2006/campaign-cloner-api/internal/domain"
	"go.uber.org/mock/gomock"
)

func operatorClaims(accounts ...string) *domain.Claims {
	return &domain.Claims{
		UserID:       42,
		UserRoleID:   domain.RoleOperator,
		UserAccounts: accounts,
	}
}

func TestAuthorizeAccountAccess(t *testing.T) {
	tests := []struct {
		name      string
		claims    *domain.Claims
		accountID string
		setup     func(repo *repomocks.MockAccountRepository)
		wantErr   error
	}{
		{
			name:      "Administrador acessa qualquer conta",
			claims:    &domain.Claims{UserID: 1, UserRoleID: domain.RoleAdmin},
			accountID: "123",
		},
		{
			name:      "Operador com vínculo acessa a conta",
			claims:    operatorClaims("acc-1"),
			accountID: "123",
			setup: func(repo *repomocks.MockAccountRepository) {
				repo.EXPECT().ListExternalIDs([]string{"acc-1"}).Return([]string{"act_123"}, nil)
			},
		},
		{
			name:      "Prefixo act_ é ignorado na comparação",
			claims:    operatorClaims("acc-1"),
			accountID: "act_123",
			setup: func(repo *repomocks.MockAccountRepository) {
				repo.EXPECT().ListExternalIDs([]string{"acc-1"}).Return([]string{"123"}, nil)
			},
		},
		{
			name:      "Operador sem vínculo é recusado",
			claims:    operatorClaims("acc-1"),
			accountID: "123",
			setup: func(repo *repomocks.MockAccountRepository) {
				repo.EXPECT().ListExternalIDs([]string{"acc-1"}).Return([]string{"999"}, nil)
			},
			wantErr: ErrInsufficientPrivilege,
		},
		{
			name:      "Operador sem nenhuma conta vinculada é recusado",
			claims:    operatorClaims(),
			accountID: "123",
			setup: func(repo *repomocks.MockAccountRepository) {
				repo.EXPECT().ListExternalIDs(gomock.Len(0)).Return(nil, nil)
			},
			wantErr: ErrInsufficientPrivilege,
		},
		{
			name:      "Conta não informada é recusada sem consultar o banco",
			claims:    operatorClaims("acc-1"),
			accountID: "",
			wantErr:   ErrInvalidRequest,
		},
		{
			name:    "Claims ausentes são recusadas",
			wantErr: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			accountRepo := repomocks.NewMockAccountRepository(ctrl)
			if tt.setup != nil {
				tt.setup(accountRepo)
			}

			service := NewService(nil, accountRepo, nil)

			err := service.AuthorizeAccountAccess(tt.claims, tt.accountID)

			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAuthorizeAccountAccess_RepositoryError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	accountRepo := repomocks.NewMockAccountRepository(ctrl)
	accountRepo.EXPECT().
		ListExternalIDs([]string{"acc-1"}).
		Return(nil, errors.New("conexão recusada"))

	service := NewService(nil, accountRepo, nil)

	err := service.AuthorizeAccountAccess(operatorClaims("acc-1"), "123")

	require.Error(t, err)

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, 42, authErr.UserID)
}
