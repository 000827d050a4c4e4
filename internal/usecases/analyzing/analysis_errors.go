package analyzing

import (
	"errors"
	"fmt"

	"github.com/vfg2006/shop-analyzer-api/pkg/apiErrors"
)

// Erros de validação do texto de entrada
var (
	ErrEmptyText       = errors.New("texto da loja vazio")
	ErrInvalidEncoding = errors.New("texto da loja não está em UTF-8")
	ErrTextTooLarge    = errors.New("texto da loja excede o tamanho máximo")

	ErrGenerateID = errors.New("erro ao gerar ID da análise")
)

// AnalysisError é um erro com contexto adicional para análises
type AnalysisError struct {
	Err     error  // Erro base
	Code    string // Código de erro para API
	Field   string // Campo da requisição (shop1, shop2, text)
	Details string
}

func (e *AnalysisError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

func NewAnalysisError(err error, code string, field string, details string) *AnalysisError {
	return &AnalysisError{
		Err:     err,
		Code:    code,
		Field:   field,
		Details: details,
	}
}

// IsValidationError verifica se o erro é de validação do texto recebido
func IsValidationError(err error) bool {
	return errors.Is(err, ErrEmptyText) ||
		errors.Is(err, ErrInvalidEncoding) ||
		errors.Is(err, ErrTextTooLarge)
}

// codeFor código de API correspondente ao erro de validação
func codeFor(err error) string {
	switch {
	case errors.Is(err, ErrEmptyText):
		return apiErrors.ErrEmptyText
	case errors.Is(err, ErrInvalidEncoding):
		return apiErrors.ErrInvalidEncoding
	case errors.Is(err, ErrTextTooLarge):
		return apiErrors.ErrTextTooLarge
	default:
		return apiErrors.ErrInternalServer
	}
}
