package middleware

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-cloner-api/internal/domain"
	"github.com/vfg2006/campaign-cloner-api/pkg/apiErrors"
)

// AccountScope restringe rotas parametrizadas por conta de anúncios (:id)
// às contas vinculadas ao operador autenticado. A decisão fica com o
// serviço de autenticação, injetado via authorize.
func AccountScope(authorize func(claims *domain.Claims, accountExternalID string) error) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userClaims, ok := r.Context().Value(ContextKeyUser).(*domain.Claims)
			if !ok {
				apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
				return
			}

			accountID := httprouter.ParamsFromContext(r.Context()).ByName("id")
			if err := authorize(userClaims, accountID); err != nil {
				logrus.Warningf("Acesso negado à conta %s para usuário ID=%d: %v", accountID, userClaims.UserID, err)
				apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Você não tem vínculo com esta conta de anúncios", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
