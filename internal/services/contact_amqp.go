package services

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPDeliverer publishes contact messages as persistent JSON messages to a
// durable queue. A connection is opened per message; contact traffic is a
// handful of messages a day.
type AMQPDeliverer struct {
	URL   string
	Queue string
}

func (d AMQPDeliverer) Deliver(ctx context.Context, submission ContactSubmission) error {
	conn, err := amqp.Dial(d.URL)
	if err != nil {
		return fmt.Errorf("amqp dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("amqp channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(d.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("amqp queue declare: %w", err)
	}

	body, err := json.Marshal(submission)
	if err != nil {
		return err
	}
	err = ch.PublishWithContext(ctx, "", d.Queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    submission.ID,
		Timestamp:    submission.ReceivedAt,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("amqp publish: %w", err)
	}
	return nil
}
