package metaclient

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metadomain "github.com/vfg2006/campaign-cloner-api/infrastructure/integrator/meta/domain"
)

func newTestExecutor(maxRetries int) (*RequestExecutor, *[]time.Duration) {
	sleeps := make([]time.Duration, 0)
	executor := &RequestExecutor{
		MaxRetries:     maxRetries,
		InitialBackoff: 1 * time.Second,
		ThrottleFloor:  600 * time.Second,
		sleep: func(ctx context.Context, d time.Duration) error {
			sleeps = append(sleeps, d)
			return nil
		},
		jitter: func() time.Duration { return 0 },
	}
	return executor, &sleeps
}

func rateLimitError(subcode int) *metadomain.APIError {
	return metadomain.NewAPIError(metadomain.ErrorResponse{
		Error: metadomain.ErrorDetails{Code: 17, ErrorSubcode: subcode, Message: "User request limit reached"},
	}, 400, nil)
}

func TestRequestExecutor_Execute(t *testing.T) {
	t.Run("Sucesso na primeira tentativa não espera", func(t *testing.T) {
		executor, sleeps := newTestExecutor(5)

		body, err := executor.Execute(context.Background(), "GET campanhas", func(ctx context.Context) ([]byte, error) {
			return []byte("ok"), nil
		})

		require.NoError(t, err)
		assert.Equal(t, []byte("ok"), body)
		assert.Empty(t, *sleeps)
	})

	t.Run("Erro não transitório é devolvido sem retry", func(t *testing.T) {
		executor, sleeps := newTestExecutor(5)
		calls := 0

		_, err := executor.Execute(context.Background(), "POST campanha", func(ctx context.Context) ([]byte, error) {
			calls++
			return nil, errors.New("invalid parameter")
		})

		require.Error(t, err)
		assert.Equal(t, 1, calls)
		assert.Empty(t, *sleeps)
	})

	t.Run("Rate limit retenta até o limite com backoff exponencial", func(t *testing.T) {
		executor, sleeps := newTestExecutor(4)
		calls := 0

		_, err := executor.Execute(context.Background(), "GET campanhas", func(ctx context.Context) ([]byte, error) {
			calls++
			return nil, rateLimitError(0)
		})

		require.Error(t, err)
		assert.Equal(t, 4, calls)
		assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}, *sleeps)
	})

	t.Run("Recuperação no meio da sequência devolve o corpo", func(t *testing.T) {
		executor, _ := newTestExecutor(5)
		calls := 0

		body, err := executor.Execute(context.Background(), "GET campanhas", func(ctx context.Context) ([]byte, error) {
			calls++
			if calls < 3 {
				return nil, rateLimitError(0)
			}
			return []byte("recuperado"), nil
		})

		require.NoError(t, err)
		assert.Equal(t, []byte("recuperado"), body)
		assert.Equal(t, 3, calls)
	})

	t.Run("Conta estrangulada respeita o piso de backoff", func(t *testing.T) {
		executor, sleeps := newTestExecutor(2)

		_, err := executor.Execute(context.Background(), "GET campanhas", func(ctx context.Context) ([]byte, error) {
			return nil, rateLimitError(2446079)
		})

		require.Error(t, err)
		require.Len(t, *sleeps, 1)
		assert.Equal(t, 600*time.Second, (*sleeps)[0])
	})

	t.Run("Mensagem com cara de rate limit também é retentada", func(t *testing.T) {
		executor, _ := newTestExecutor(3)
		calls := 0

		_, err := executor.Execute(context.Background(), "GET campanhas", func(ctx context.Context) ([]byte, error) {
			calls++
			return nil, errors.New("too many requests, slow down")
		})

		require.Error(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("Cancelamento do contexto interrompe a espera", func(t *testing.T) {
		executor, _ := newTestExecutor(5)
		executor.sleep = func(ctx context.Context, d time.Duration) error {
			return context.Canceled
		}

		_, err := executor.Execute(context.Background(), "GET campanhas", func(ctx context.Context) ([]byte, error) {
			return nil, rateLimitError(0)
		})

		assert.ErrorIs(t, err, context.Canceled)
	})
}
