package cloning

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
	metadomain "github.com/vfg2006/campaign-cloner-api/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/campaign-cloner-api/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/campaign-cloner-api/internal/domain"
)

// ObjectCreator é o funil único de toda criação remota (campanha, ad set,
// criativo e anúncio): sanitiza o payload, registra exatamente o que foi
// enviado e converte as falhas da plataforma em CloneError tipado
type ObjectCreator struct {
	client metaclient.Client
}

func NewObjectCreator(client metaclient.Client) *ObjectCreator {
	return &ObjectCreator{client: client}
}

// Create cria um objeto no caminho informado e devolve o ID gerado. O
// label tem a forma "Tipo: nome de exibição"; o tipo antes dos dois-pontos
// seleciona as regras de sanitização.
func (c *ObjectCreator) Create(ctx context.Context, path string, payload domain.Fields, label string) (string, error) {
	objectType := objectTypeFromLabel(label)
	sanitized := SanitizePayload(payload, objectType)

	logrus.WithFields(logrus.Fields{
		"label":   label,
		"payload": sanitized,
	}).Info("Criando objeto na plataforma")

	objectID, err := c.client.CreateObject(ctx, path, sanitized)
	if err != nil {
		c.logCreateFailure(label, sanitized, err)
		return "", NewCloneError(ClassifyRemoteError(err), label, err)
	}

	logrus.WithFields(logrus.Fields{
		"label": label,
		"id":    objectID,
	}).Info("Objeto criado com sucesso")

	return objectID, nil
}

// logCreateFailure registra o corpo de erro da plataforma junto com o
// payload exato que provocou a rejeição
func (c *ObjectCreator) logCreateFailure(label string, payload domain.Fields, err error) {
	entry := logrus.WithFields(logrus.Fields{
		"label":   label,
		"payload": payload,
	})

	var apiErr *metadomain.APIError
	if errors.As(err, &apiErr) {
		entry = entry.WithFields(logrus.Fields{
			"code":       apiErr.Code(),
			"subcode":    apiErr.Subcode(),
			"error_body": string(apiErr.RawBody),
		})
	}

	entry.WithError(err).Error("Falha ao criar objeto na plataforma")
}

func objectTypeFromLabel(label string) string {
	objectType := label
	if index := strings.Index(label, ":"); index >= 0 {
		objectType = label[:index]
	}
	return strings.ToLower(strings.TrimSpace(objectType))
}
