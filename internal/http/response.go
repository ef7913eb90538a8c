package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"portfolio-backend-go/internal/services"
)

const maxBodyBytes = 1 << 20

type ErrorResponse struct {
	Message string                `json:"message"`
	Errors  []services.FieldError `json:"errors,omitempty"`
}

type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorResponse{Message: message})
}

// writeServiceError writes err when it is a ServiceError and reports whether
// it did.
func writeServiceError(w http.ResponseWriter, err error) bool {
	var serr services.ServiceError
	if !errors.As(err, &serr) {
		return false
	}
	WriteJSON(w, serr.Status, ErrorResponse{Message: serr.Message, Errors: serr.Fields})
	return true
}

// decodeJSON reads a JSON body into dst. An empty body decodes as {}.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return services.ErrBadRequest(services.InvalidDataMessage)
	}
	return nil
}
