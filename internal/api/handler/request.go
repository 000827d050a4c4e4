package handler

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/shop-analyzer-api/pkg/apiErrors"
	"github.com/vfg2006/shop-analyzer-api/pkg/log"
)

var (
	json     = jsoniter.ConfigCompatibleWithStandardLibrary
	validate = validator.New(validator.WithRequiredStructEnabled())
)

// decodeRequest lê o corpo JSON (limitado a maxBytes) e valida as tags `validate`.
// Em caso de erro a resposta já foi escrita e o retorno é false.
func decodeRequest(w http.ResponseWriter, r *http.Request, maxBytes int64, dst any) bool {
	if maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	}

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			apiErrors.WriteError(w, apiErrors.ErrTextTooLarge, "Corpo da requisição excede o tamanho máximo", map[string]any{
				"limit_bytes": maxBytesErr.Limit,
			})
			return false
		}
		apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
		return false
	}

	if err := validate.Struct(dst); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			fields := make(map[string]string, len(validationErrs))
			for _, fieldErr := range validationErrs {
				fields[fieldErr.Field()] = fieldErr.Tag()
			}
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Dados obrigatórios ausentes", fields)
			return false
		}
		apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, err.Error(), nil)
		return false
	}

	return true
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.ForContext(r.Context()).WithError(err).Error("Erro ao enviar resposta")
	}
}
