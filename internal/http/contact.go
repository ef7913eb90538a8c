package httpapi

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"portfolio-backend-go/internal/models"
	"portfolio-backend-go/internal/services"
)

const (
	msgMissingFields = "Missing required fields"
	msgInvalidEmail  = "Invalid email format"
)

// SendContactMessage validates a visitor message and hands it to the delivery
// collaborator. Nothing is stored.
func (s *Server) SendContactMessage(w http.ResponseWriter, r *http.Request) {
	var msg models.ContactMessage
	if err := decodeJSON(w, r, &msg); err != nil {
		writeServiceError(w, err)
		return
	}
	if err := s.Validator.Struct(msg); err != nil {
		writeServiceError(w, contactValidationError(err))
		return
	}
	submission := services.NewContactSubmission(msg, s.proxies.clientIP(r))
	if err := s.Deliverer.Deliver(r.Context(), submission); err != nil {
		s.logError(r, "contact delivery failed", err, zap.String("submission_id", submission.ID))
		WriteError(w, http.StatusInternalServerError, "Failed to send message. Please try again later.")
		return
	}
	WriteJSON(w, http.StatusOK, SuccessResponse{Success: true, Message: "Message received!"})
}

// contactValidationError names the most useful failure in the message while
// keeping the per-field detail.
func contactValidationError(err error) error {
	var serr services.ServiceError
	if !errors.As(err, &serr) {
		return err
	}
	for _, field := range serr.Fields {
		if field.Message == "is required" {
			serr.Message = msgMissingFields
			return serr
		}
	}
	for _, field := range serr.Fields {
		if field.Field == "email" {
			serr.Message = msgInvalidEmail
			return serr
		}
	}
	return serr
}
