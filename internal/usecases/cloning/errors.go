package cloning

import (
	"errors"
	"fmt"

	metadomain "github.com/vfg2006/campaign-cloner-api/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/campaign-cloner-api/internal/domain"
)

// ErrorKind classifica as falhas do fluxo de clonagem
type ErrorKind string

const (
	// A plataforma limitou as requisições e as tentativas se esgotaram
	ErrorKindRateLimited ErrorKind = "RATE_LIMITED"
	// A plataforma rejeitou a operação por validação, permissão ou afins
	ErrorKindFatalRemote ErrorKind = "FATAL_REMOTE"
	// A criação respondeu sem erro mas não devolveu o ID esperado
	ErrorKindMissingIdentifier ErrorKind = "MISSING_IDENTIFIER"
	// O payload estava inválido antes de qualquer chamada de rede
	ErrorKindAssemblyInvalid ErrorKind = "ASSEMBLY_INVALID"
	// Um objeto dependente não pôde ser montado; os irmãos continuam
	ErrorKindSkippable ErrorKind = "SKIPPABLE"
)

// CloneError é o erro tipado do fluxo de clonagem. Partial carrega os IDs
// criados antes da interrupção, para inspeção do operador.
type CloneError struct {
	Kind    ErrorKind
	Step    string
	Err     error
	Partial *domain.CreationResult
}

func (e *CloneError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s [%s]: %v", e.Step, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s [%s]", e.Step, e.Kind)
}

func (e *CloneError) Unwrap() error {
	return e.Err
}

func NewCloneError(kind ErrorKind, step string, err error) *CloneError {
	return &CloneError{Kind: kind, Step: step, Err: err}
}

// ClassifyRemoteError decide o tipo de uma falha vinda da camada de rede
func ClassifyRemoteError(err error) ErrorKind {
	if errors.Is(err, metadomain.ErrMissingObjectID) {
		return ErrorKindMissingIdentifier
	}
	var apiErr *metadomain.APIError
	if errors.As(err, &apiErr) && apiErr.IsRateLimited() {
		return ErrorKindRateLimited
	}
	return ErrorKindFatalRemote
}

// KindOf extrai o ErrorKind de um erro do fluxo, ou FatalRemote quando o
// erro não é um CloneError
func KindOf(err error) ErrorKind {
	var cloneErr *CloneError
	if errors.As(err, &cloneErr) {
		return cloneErr.Kind
	}
	return ErrorKindFatalRemote
}
