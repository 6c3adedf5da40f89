package metaclient_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/campaign-cloner-api/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/campaign-cloner-api/infrastructure/integrator/meta/metaclient/mocks"
	"github.com/vfg2006/campaign-cloner-api/internal/config"
	"go.uber.org/mock/gomock"
)

func testBatchConfig() config.MetaBatch {
	return config.MetaBatch{
		ChunkSize:                     2,
		MaxChunkRetries:               2,
		InitialBackoffSeconds:         0,
		FallbackMaxRetries:            2,
		FallbackInitialBackoffSeconds: 0,
		PauseMinSeconds:               0,
		PauseMaxSeconds:               0,
	}
}

func batchEntries(keys ...string) []metaclient.BatchEntry {
	entries := make([]metaclient.BatchEntry, 0, len(keys))
	for _, key := range keys {
		entries = append(entries, metaclient.BatchEntry{
			Key:         key,
			Method:      "GET",
			RelativeURL: key + "/ads",
		})
	}
	return entries
}

func okResponses(count int) []metaclient.BatchItemResponse {
	responses := make([]metaclient.BatchItemResponse, count)
	for i := range responses {
		responses[i] = metaclient.BatchItemResponse{Code: 200, Body: `{"data":[]}`}
	}
	return responses
}

func TestBatchOrchestrator_EveryEntryGetsAnOutcome(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mocks.NewMockClient(ctrl)

	// Três entradas com chunk de dois geram dois lotes
	gomock.InOrder(
		mockClient.EXPECT().
			ExecuteBatch(gomock.Any(), gomock.Len(2)).
			Return(okResponses(2), nil),
		mockClient.EXPECT().
			ExecuteBatch(gomock.Any(), gomock.Len(1)).
			Return(okResponses(1), nil),
	)

	orchestrator := metaclient.NewBatchOrchestrator(mockClient, testBatchConfig())

	outcome, err := orchestrator.Run(context.Background(), batchEntries("a", "b", "c"))

	require.NoError(t, err)
	assert.Len(t, outcome.Succeeded, 3)
	assert.Empty(t, outcome.Failed)

	byKey := outcome.SucceededByKey()
	for _, key := range []string{"a", "b", "c"} {
		assert.Contains(t, byKey, key)
	}
}

func TestBatchOrchestrator_UnprocessedEntryIsRequeued(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mocks.NewMockClient(ctrl)

	gomock.InOrder(
		// Primeira rodada: a segunda entrada volta sem resposta (Code 0)
		mockClient.EXPECT().
			ExecuteBatch(gomock.Any(), gomock.Len(2)).
			Return([]metaclient.BatchItemResponse{
				{Code: 200, Body: `{"id":"a"}`},
				{},
			}, nil),
		// Segunda rodada processa só a entrada reenfileirada
		mockClient.EXPECT().
			ExecuteBatch(gomock.Any(), gomock.Len(1)).
			DoAndReturn(func(_ context.Context, entries []metaclient.BatchEntry) ([]metaclient.BatchItemResponse, error) {
				assert.Equal(t, "b", entries[0].Key)
				return okResponses(1), nil
			}),
	)

	orchestrator := metaclient.NewBatchOrchestrator(mockClient, testBatchConfig())

	outcome, err := orchestrator.Run(context.Background(), batchEntries("a", "b"))

	require.NoError(t, err)
	assert.Len(t, outcome.Succeeded, 2)
	assert.Empty(t, outcome.Failed)
}

func TestBatchOrchestrator_NonRetryableItemFailsImmediately(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mocks.NewMockClient(ctrl)

	mockClient.EXPECT().
		ExecuteBatch(gomock.Any(), gomock.Len(2)).
		Return([]metaclient.BatchItemResponse{
			{Code: 200, Body: `{"id":"a"}`},
			{Code: 400, Body: `{"error":{"code":100,"message":"Invalid parameter"}}`},
		}, nil)

	orchestrator := metaclient.NewBatchOrchestrator(mockClient, testBatchConfig())

	outcome, err := orchestrator.Run(context.Background(), batchEntries("a", "b"))

	require.NoError(t, err)
	assert.Len(t, outcome.Succeeded, 1)
	require.Len(t, outcome.Failed, 1)
	assert.Equal(t, "b", outcome.Failed[0].Entry.Key)
	assert.Error(t, outcome.Failed[0].Err)
}

func TestBatchOrchestrator_RateLimitedFallsBackToSequential(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mocks.NewMockClient(ctrl)

	rateLimitedBody := `{"error":{"code":17,"message":"User request limit reached"}}`

	gomock.InOrder(
		// Duas rodadas de lote limitadas
		mockClient.EXPECT().
			ExecuteBatch(gomock.Any(), gomock.Len(1)).
			Return([]metaclient.BatchItemResponse{{Code: 400, Body: rateLimitedBody}}, nil),
		mockClient.EXPECT().
			ExecuteBatch(gomock.Any(), gomock.Len(1)).
			Return([]metaclient.BatchItemResponse{{Code: 400, Body: rateLimitedBody}}, nil),
		// Fallback sequencial consegue processar a entrada
		mockClient.EXPECT().
			ExecuteBatch(gomock.Any(), gomock.Len(1)).
			Return(okResponses(1), nil),
	)

	orchestrator := metaclient.NewBatchOrchestrator(mockClient, testBatchConfig())

	outcome, err := orchestrator.Run(context.Background(), batchEntries("a"))

	require.NoError(t, err)
	assert.Len(t, outcome.Succeeded, 1)
	assert.Empty(t, outcome.Failed)
}

func TestBatchOrchestrator_WholeBatchFailurePropagates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mocks.NewMockClient(ctrl)

	mockClient.EXPECT().
		ExecuteBatch(gomock.Any(), gomock.Len(2)).
		Return(nil, errors.New("invalid access token"))

	orchestrator := metaclient.NewBatchOrchestrator(mockClient, testBatchConfig())

	outcome, err := orchestrator.Run(context.Background(), batchEntries("a", "b"))

	require.Error(t, err)
	assert.Nil(t, outcome)
}
