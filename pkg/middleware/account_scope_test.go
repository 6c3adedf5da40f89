package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/campaign-cloner-api/internal/domain"
)

func scopedRequest(claims *domain.Claims, accountID string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/v1/accounts/"+accountID+"/campaigns", nil)

	ctx := req.Context()
	if claims != nil {
		ctx = context.WithValue(ctx, ContextKeyUser, claims)
	}
	ctx = context.WithValue(ctx, httprouter.ParamsKey, httprouter.Params{
		{Key: "id", Value: accountID},
	})

	return req.WithContext(ctx)
}

func TestAccountScope(t *testing.T) {
	claims := &domain.Claims{UserID: 42, UserRoleID: domain.RoleOperator}

	tests := []struct {
		name       string
		claims     *domain.Claims
		authorize  func(claims *domain.Claims, accountExternalID string) error
		wantStatus int
		wantNext   bool
	}{
		{
			name:   "Operador autorizado segue para o handler",
			claims: claims,
			authorize: func(_ *domain.Claims, _ string) error {
				return nil
			},
			wantStatus: http.StatusOK,
			wantNext:   true,
		},
		{
			name:   "Operador sem vínculo recebe 403",
			claims: claims,
			authorize: func(_ *domain.Claims, _ string) error {
				return errors.New("sem vínculo")
			},
			wantStatus: http.StatusForbidden,
		},
		{
			name: "Requisição sem claims recebe 401",
			authorize: func(_ *domain.Claims, _ string) error {
				t.Fatal("authorize não deveria ser chamado sem claims")
				return nil
			},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				w.WriteHeader(http.StatusOK)
			})

			recorder := httptest.NewRecorder()
			AccountScope(tt.authorize)(next).ServeHTTP(recorder, scopedRequest(tt.claims, "123"))

			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.Equal(t, tt.wantNext, nextCalled)
		})
	}
}

func TestAccountScope_PassesRouteParamToAuthorizer(t *testing.T) {
	var gotAccountID string
	authorize := func(_ *domain.Claims, accountExternalID string) error {
		gotAccountID = accountExternalID
		return nil
	}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	claims := &domain.Claims{UserID: 7, UserRoleID: domain.RoleAdmin}

	AccountScope(authorize)(next).ServeHTTP(httptest.NewRecorder(), scopedRequest(claims, "act_555"))

	assert.Equal(t, "act_555", gotAccountID)
}
