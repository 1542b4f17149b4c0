package queue

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Worker drains the notification queue and delivers each event to its
// configured webhook URL. Delivery is best-effort: a failed POST is
// logged and the message acked anyway, so a dead endpoint can never
// back up the queue.
type Worker struct {
	Channel     *amqp.Channel
	webhookURLs map[string]string
	client      *http.Client
}

func NewWorker(ch *amqp.Channel, webhookURLs map[string]string) *Worker {
	return &Worker{
		Channel:     ch,
		webhookURLs: webhookURLs,
		client:      &http.Client{Timeout: 10 * time.Second},
	}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack (manual is safer)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		log.Fatalf("❌ [WORKER] failed to register consumer: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var payload NotificationPayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				log.Printf("❌ [WORKER] invalid JSON: %s", err)
				// Malformed message. Reject without requeue so it lands on the DLQ.
				d.Nack(false, false)
				continue
			}

			url := w.webhookURLs[payload.Event]
			if url == "" {
				// No webhook configured for this event. Nothing to do.
				d.Ack(false)
				continue
			}

			if err := w.deliver(url, d.Body); err != nil {
				log.Printf("⚠️ [WORKER] webhook delivery failed for %q: %s", payload.Event, err)
			} else {
				log.Printf("✅ [WORKER] delivered %q notification", payload.Event)
			}

			// Notifications are fire-and-forget, ack either way.
			d.Ack(false)
		}
	}()

	log.Printf(" [*] Worker running, waiting on queue '%s'", queueName)
	<-forever
}

func (w *Worker) deliver(url string, body []byte) error {
	resp, err := w.client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return nil
}
