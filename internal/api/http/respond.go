package apihttp

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"energia-cloud/internal/validation"
)

const (
	// MessageValidation is the envelope message of a 422 response.
	MessageValidation = "Erro de validação."
	// MessageStorage is the envelope message of a 500 response.
	MessageStorage = "Erro interno no banco de dados."
)

// ErrorBody is the JSON error envelope.
type ErrorBody struct {
	Message string `json:"message"`
	Detail  any    `json:"detail,omitempty"`
}

// WriteJSON encodes body with status.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteError writes {"message": message, "detail": message}. detail keeps the
// shape older clients of this API read.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorBody{Message: message, Detail: message})
}

// WriteValidation writes a 422 with field-level detail.
func WriteValidation(w http.ResponseWriter, errs validation.Errors) {
	if errs == nil {
		errs = validation.Errors{}
	}
	WriteJSON(w, http.StatusUnprocessableEntity, ErrorBody{Message: MessageValidation, Detail: errs})
}

// WriteInternal logs err and writes a 500 carrying the raw error text.
func WriteInternal(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	if logger != nil {
		logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", RequestIDFromContext(r.Context())),
			zap.Error(err),
		)
	}
	WriteJSON(w, http.StatusInternalServerError, ErrorBody{Message: MessageStorage, Detail: err.Error()})
}

// DecodeJSON reads a JSON body into dst and validates it.
// Malformed bodies and tag violations come back as validation.Errors.
func DecodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.Is(err, io.EOF):
			return validation.Errors{}.Add("body", "corpo da requisição vazio")
		case errors.As(err, &typeErr) && typeErr.Field != "":
			return validation.Errors{}.Add(typeErr.Field, "tipo inválido")
		default:
			return validation.Errors{}.Add("body", err.Error())
		}
	}
	return validation.Struct(dst)
}

// WriteDocument serves a generated file as an attachment.
func WriteDocument(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
