package authenticating

import (
	"errors"
	"fmt"

	"github.com/vfg2006/shop-analyzer-api/pkg/apiErrors"
)

var (
	ErrInvalidCredentials    = errors.New("credenciais inválidas")
	ErrInvalidToken          = errors.New("token inválido")
	ErrExpiredToken          = errors.New("token expirado")
	ErrInsufficientPrivilege = errors.New("privilégios insuficientes")
	ErrMissingRequiredData   = errors.New("dados obrigatórios ausentes")
)

// authErrorCodes código da API para cada sentinela; o resto vira SRV_001
var authErrorCodes = []struct {
	err  error
	code string
}{
	{ErrInvalidCredentials, apiErrors.ErrInvalidCredentials},
	{ErrInvalidToken, apiErrors.ErrInvalidToken},
	{ErrExpiredToken, apiErrors.ErrExpiredToken},
	{ErrInsufficientPrivilege, apiErrors.ErrInsufficientPrivilege},
	{ErrMissingRequiredData, apiErrors.ErrMissingRequiredData},
}

// AuthError falha de login ou de token, com o código devolvido pela API
type AuthError struct {
	Err     error
	Code    string
	Email   string // vazio quando a falha não envolve um operador
	Details string
}

func (e *AuthError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// ForOperator associa o email do operador ao erro
func (e *AuthError) ForOperator(email string) *AuthError {
	e.Email = email
	return e
}

func NewAuthError(err error, details string) *AuthError {
	code := apiErrors.ErrInternalServer
	for _, entry := range authErrorCodes {
		if errors.Is(err, entry.err) {
			code = entry.code
			break
		}
	}

	return &AuthError{
		Err:     err,
		Code:    code,
		Details: details,
	}
}

func IsCredentialsError(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) || errors.Is(err, ErrMissingRequiredData)
}

// IsAuthorizationError token ausente, inválido, expirado ou role sem permissão
func IsAuthorizationError(err error) bool {
	return errors.Is(err, ErrInsufficientPrivilege) ||
		errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrExpiredToken)
}
