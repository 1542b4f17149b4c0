package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/utilflow/lead-sequencer/internal/entity"
)

// NotificationPayload is the message handed off to the webhook worker.
type NotificationPayload struct {
	Event string       `json:"event"`
	Lead  *entity.Lead `json:"lead"`
}

type Producer struct {
	Ch          *amqp.Channel
	webhookURLs map[string]string
}

// NewProducer keeps the webhook map so events with no configured URL
// never reach the broker at all.
func NewProducer(ch *amqp.Channel, webhookURLs map[string]string) *Producer {
	return &Producer{
		Ch:          ch,
		webhookURLs: webhookURLs,
	}
}

func (p *Producer) Publish(ctx context.Context, event string, lead *entity.Lead) error {
	if p.webhookURLs[event] == "" {
		return nil
	}

	body, err := json.Marshal(NotificationPayload{Event: event, Lead: lead})
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}

	return nil
}
