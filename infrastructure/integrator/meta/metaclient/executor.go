package metaclient

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
	metadomain "github.com/vfg2006/campaign-cloner-api/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/campaign-cloner-api/internal/config"
)

// RequestFunc executa uma única tentativa de requisição e devolve o corpo
type RequestFunc func(ctx context.Context) ([]byte, error)

// RequestExecutor aplica retry com backoff exponencial sobre requisições à
// Graph API. Apenas erros de limite de requisições são retentados; qualquer
// outro erro é devolvido imediatamente ao chamador.
type RequestExecutor struct {
	MaxRetries     int
	InitialBackoff time.Duration
	ThrottleFloor  time.Duration

	// injetáveis para testes determinísticos
	sleep  func(ctx context.Context, d time.Duration) error
	jitter func() time.Duration
}

func NewRequestExecutor(cfg config.MetaRetry) *RequestExecutor {
	return &RequestExecutor{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: secondsToDuration(cfg.InitialBackoffSeconds),
		ThrottleFloor:  secondsToDuration(cfg.ThrottleFloorSeconds),
		sleep:          sleepWithContext,
		jitter:         randomJitter,
	}
}

// Execute roda a requisição até obter sucesso ou esgotar as tentativas.
// O backoff da tentativa n é initial * 2^n mais um jitter de até meio
// segundo. Quando a conta inteira está estrangulada o backoff nunca fica
// abaixo do piso configurado.
func (e *RequestExecutor) Execute(ctx context.Context, operation string, fn RequestFunc) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt < e.MaxRetries; attempt++ {
		body, err := fn(ctx)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if !isRetryable(err) {
			return nil, err
		}

		if attempt == e.MaxRetries-1 {
			break
		}

		backoff := e.backoffFor(attempt, err)
		logrus.WithFields(logrus.Fields{
			"operation": operation,
			"attempt":   attempt + 1,
			"backoff":   backoff.String(),
		}).Warn("Limite de requisições atingido, aguardando antes de tentar novamente")

		if sleepErr := e.sleep(ctx, backoff); sleepErr != nil {
			return nil, sleepErr
		}
	}

	logrus.WithFields(logrus.Fields{
		"operation": operation,
		"attempts":  e.MaxRetries,
	}).Error("Tentativas esgotadas para a requisição")

	return nil, lastErr
}

func (e *RequestExecutor) backoffFor(attempt int, err error) time.Duration {
	backoff := time.Duration(float64(e.InitialBackoff)*math.Pow(2, float64(attempt))) + e.jitter()

	// Limitação no nível da conta exige uma pausa longa independente do
	// ponto em que a sequência exponencial esteja
	var apiErr *metadomain.APIError
	if errors.As(err, &apiErr) && apiErr.IsAccountThrottled() && backoff < e.ThrottleFloor {
		backoff = e.ThrottleFloor
	}

	return backoff
}

// isRetryable classifica o erro: somente limitação de requisições é
// transitória. Erros estruturais e de validação não mudam com retry.
func isRetryable(err error) bool {
	var apiErr *metadomain.APIError
	if errors.As(err, &apiErr) {
		if apiErr.IsRateLimited() {
			return true
		}
		return metadomain.LooksRateLimited(apiErr.Response.CombinedMessage())
	}
	return metadomain.LooksRateLimited(err.Error())
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func randomJitter() time.Duration {
	return time.Duration(rand.Float64() * float64(500*time.Millisecond))
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}
