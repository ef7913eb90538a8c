package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"portfolio-backend-go/internal/models"
)

// ContactSubmission is a validated contact form message ready for delivery.
type ContactSubmission struct {
	ID         string                `json:"id"`
	ReceivedAt time.Time             `json:"receivedAt"`
	RemoteIP   string                `json:"remoteIp,omitempty"`
	Message    models.ContactMessage `json:"message"`
}

func NewContactSubmission(msg models.ContactMessage, remoteIP string) ContactSubmission {
	return ContactSubmission{
		ID:         uuid.NewString(),
		ReceivedAt: time.Now().UTC(),
		RemoteIP:   remoteIP,
		Message:    msg,
	}
}

// ContactDeliverer hands contact messages to whoever reads them. Failures are
// reported to the visitor and not retried.
type ContactDeliverer interface {
	Deliver(ctx context.Context, submission ContactSubmission) error
}

// LogDeliverer records contact messages in the application log. It is the
// default when no queue is configured.
type LogDeliverer struct {
	Log *zap.Logger
}

func (d LogDeliverer) Deliver(ctx context.Context, submission ContactSubmission) error {
	subject := ""
	if submission.Message.Subject != nil {
		subject = *submission.Message.Subject
	}
	d.Log.Info("contact message received",
		zap.String("id", submission.ID),
		zap.String("name", submission.Message.Name),
		zap.String("email", submission.Message.Email),
		zap.String("subject", subject),
		zap.Int("length", len(submission.Message.Message)),
	)
	return nil
}
