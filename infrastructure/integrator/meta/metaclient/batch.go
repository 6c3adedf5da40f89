package metaclient

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	metadomain "github.com/vfg2006/campaign-cloner-api/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/campaign-cloner-api/internal/config"
)

// BatchEntry é uma sub-requisição do endpoint de batch da Graph API. Key
// identifica a entrada para o chamador; não é enviada à plataforma.
type BatchEntry struct {
	Key         string
	Method      string
	RelativeURL string
	Body        url.Values
}

type batchWireEntry struct {
	Method      string `json:"method"`
	RelativeURL string `json:"relative_url"`
	Body        string `json:"body,omitempty"`
}

// BatchItemResponse é a resposta de uma sub-requisição dentro do batch
type BatchItemResponse struct {
	Code int    `json:"code"`
	Body string `json:"body"`
}

// BatchItemResult associa a entrada original ao desfecho individual dela.
// Exatamente um entre Body e Err está preenchido.
type BatchItemResult struct {
	Entry BatchEntry
	Body  []byte
	Err   error
}

// BatchOutcome agrega os desfechos de um lote inteiro. Toda entrada
// submetida aparece em Succeeded ou em Failed, nunca em nenhum dos dois.
type BatchOutcome struct {
	Succeeded []BatchItemResult
	Failed    []BatchItemResult
}

func (o *BatchOutcome) SucceededByKey() map[string][]byte {
	byKey := make(map[string][]byte, len(o.Succeeded))
	for _, result := range o.Succeeded {
		byKey[result.Entry.Key] = result.Body
	}
	return byKey
}

// ExecuteBatch envia um único lote à Graph API e devolve as respostas na
// ordem das entradas. Entradas sem resposta vêm com Code zero.
func (c *MetaClient) ExecuteBatch(ctx context.Context, entries []BatchEntry) ([]BatchItemResponse, error) {
	wire := make([]batchWireEntry, 0, len(entries))
	for _, entry := range entries {
		item := batchWireEntry{
			Method:      entry.Method,
			RelativeURL: entry.RelativeURL,
		}
		if len(entry.Body) > 0 {
			item.Body = entry.Body.Encode()
		}
		wire = append(wire, item)
	}

	encoded, err := json.Marshal(wire)
	if err != nil {
		return nil, fmt.Errorf("erro ao serializar o lote: %w", err)
	}

	form := url.Values{}
	form.Set("batch", string(encoded))

	body, err := c.doPostForm(ctx, "", form)
	if err != nil {
		return nil, err
	}

	// A API devolve null para entradas que não foram processadas; o decode
	// em ponteiros preserva essa informação
	var rawResponses []*BatchItemResponse
	if err := json.Unmarshal(body, &rawResponses); err != nil {
		return nil, fmt.Errorf("erro ao decodificar respostas do lote: %w", err)
	}

	responses := make([]BatchItemResponse, len(entries))
	for i := range responses {
		if i < len(rawResponses) && rawResponses[i] != nil {
			responses[i] = *rawResponses[i]
		}
	}
	return responses, nil
}

// BatchOrchestrator particiona grandes volumes de sub-requisições em lotes,
// retenta apenas as entradas limitadas por rate limit e garante que cada
// entrada termine com um desfecho individual.
type BatchOrchestrator struct {
	client          Client
	chunkSize       int
	maxChunkRetries int
	initialBackoff  time.Duration
	fallback        *RequestExecutor
	pauseMin        time.Duration
	pauseMax        time.Duration

	// injetáveis para testes determinísticos
	sleep  func(ctx context.Context, d time.Duration) error
	jitter func() time.Duration
	random func() float64
}

func NewBatchOrchestrator(client Client, cfg config.MetaBatch) *BatchOrchestrator {
	fallback := &RequestExecutor{
		MaxRetries:     cfg.FallbackMaxRetries,
		InitialBackoff: secondsToDuration(cfg.FallbackInitialBackoffSeconds),
		ThrottleFloor:  secondsToDuration(600),
		sleep:          sleepWithContext,
		jitter:         randomJitter,
	}

	return &BatchOrchestrator{
		client:          client,
		chunkSize:       cfg.ChunkSize,
		maxChunkRetries: cfg.MaxChunkRetries,
		initialBackoff:  secondsToDuration(cfg.InitialBackoffSeconds),
		fallback:        fallback,
		pauseMin:        secondsToDuration(cfg.PauseMinSeconds),
		pauseMax:        secondsToDuration(cfg.PauseMaxSeconds),
		sleep:           sleepWithContext,
		jitter:          randomJitter,
		random:          rand.Float64,
	}
}

// Run processa todas as entradas e devolve um desfecho por entrada. Entre
// lotes há uma pausa aleatória para suavizar a pressão sobre a API.
func (o *BatchOrchestrator) Run(ctx context.Context, entries []BatchEntry) (*BatchOutcome, error) {
	outcome := &BatchOutcome{}

	for start := 0; start < len(entries); start += o.chunkSize {
		end := start + o.chunkSize
		if end > len(entries) {
			end = len(entries)
		}
		chunk := entries[start:end]

		if err := o.runChunk(ctx, chunk, outcome); err != nil {
			return nil, err
		}

		if end < len(entries) {
			if err := o.sleep(ctx, o.interChunkPause()); err != nil {
				return nil, err
			}
		}
	}

	return outcome, nil
}

// runChunk executa um lote e retenta somente o subconjunto limitado por
// rate limit. Depois de esgotar as rodadas, as entradas restantes passam
// pelo fallback sequencial antes de serem marcadas como falha.
func (o *BatchOrchestrator) runChunk(ctx context.Context, chunk []BatchEntry, outcome *BatchOutcome) error {
	pending := chunk

	for round := 1; round <= o.maxChunkRetries; round++ {
		responses, err := o.client.ExecuteBatch(ctx, pending)
		if err != nil {
			// Falha do lote inteiro: se for rate limit, vale retentar o
			// conjunto completo; caso contrário propaga
			if round < o.maxChunkRetries && isRetryable(err) {
				if sleepErr := o.sleep(ctx, o.roundBackoff(round)); sleepErr != nil {
					return sleepErr
				}
				continue
			}
			return err
		}

		var rateLimited []BatchEntry
		for i, entry := range pending {
			response := responses[i]
			switch {
			case response.Code == 0:
				// Entrada não processada pela plataforma: tratar como
				// limitada e reenfileirar
				rateLimited = append(rateLimited, entry)
			case response.Code >= 200 && response.Code < 300:
				outcome.Succeeded = append(outcome.Succeeded, BatchItemResult{Entry: entry, Body: []byte(response.Body)})
			default:
				itemErr := parseBatchItemError(response)
				if isRetryable(itemErr) {
					rateLimited = append(rateLimited, entry)
				} else {
					outcome.Failed = append(outcome.Failed, BatchItemResult{Entry: entry, Err: itemErr})
				}
			}
		}

		if len(rateLimited) == 0 {
			return nil
		}

		logrus.WithFields(logrus.Fields{
			"round":        round,
			"rate_limited": len(rateLimited),
		}).Warn("Parte do lote foi limitada pela API, reenfileirando")

		pending = rateLimited

		if round < o.maxChunkRetries {
			if err := o.sleep(ctx, o.roundBackoff(round)); err != nil {
				return err
			}
		}
	}

	// Rodadas esgotadas: tenta cada entrada restante individualmente, com
	// um retry mais paciente, antes de declarar falha
	return o.sequentialFallback(ctx, pending, outcome)
}

func (o *BatchOrchestrator) sequentialFallback(ctx context.Context, pending []BatchEntry, outcome *BatchOutcome) error {
	logrus.WithField("pending", len(pending)).Warn("Executando fallback sequencial para as entradas restantes do lote")

	for _, entry := range pending {
		body, err := o.fallback.Execute(ctx, entry.Method+" "+entry.RelativeURL, func(ctx context.Context) ([]byte, error) {
			responses, batchErr := o.client.ExecuteBatch(ctx, []BatchEntry{entry})
			if batchErr != nil {
				return nil, batchErr
			}
			response := responses[0]
			if response.Code >= 200 && response.Code < 300 {
				return []byte(response.Body), nil
			}
			return nil, parseBatchItemError(response)
		})
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			outcome.Failed = append(outcome.Failed, BatchItemResult{Entry: entry, Err: err})
			continue
		}
		outcome.Succeeded = append(outcome.Succeeded, BatchItemResult{Entry: entry, Body: body})
	}

	return nil
}

// roundBackoff calcula a espera entre rodadas: initial * 2^(round-1) + jitter
func (o *BatchOrchestrator) roundBackoff(round int) time.Duration {
	return time.Duration(float64(o.initialBackoff)*math.Pow(2, float64(round-1))) + o.jitter()
}

func (o *BatchOrchestrator) interChunkPause() time.Duration {
	spread := float64(o.pauseMax - o.pauseMin)
	if spread <= 0 {
		return o.pauseMin
	}
	return o.pauseMin + time.Duration(o.random()*spread)
}

// parseBatchItemError converte o corpo de uma sub-resposta com erro em um
// APIError, preservando código e subcódigo quando presentes
func parseBatchItemError(response BatchItemResponse) error {
	var errorResp metadomain.ErrorResponse
	if err := json.Unmarshal([]byte(response.Body), &errorResp); err == nil && errorResp.Error.Code != 0 {
		return metadomain.NewAPIError(errorResp, response.Code, []byte(response.Body))
	}
	return fmt.Errorf("erro na sub-requisição do lote. Status: %d, Corpo: %s", response.Code, response.Body)
}
