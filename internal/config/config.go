package config

import (
	"fmt"
	"os"
	"strconv"
)

// Event names used for outbound webhook notifications.
const (
	EventLeadCreated     = "lead_created"
	EventLeadBooked      = "lead_booked"
	EventSequenceStarted = "lead_sequence_started"
	EventEmailSent       = "email_sent"
)

// Config is read once at startup and handed to the engine and workers.
// Nothing in the core reaches for the environment at runtime.
type Config struct {
	HTTPAddr    string
	DatabaseURL string

	RabbitUser string
	RabbitPass string
	RabbitHost string
	RabbitPort string

	MailHost string
	MailPort int
	MailUser string
	MailPass string

	SenderName  string
	SenderEmail string

	// APIToken is the static bearer token for the automation API. An empty
	// token means the API is not configured (requests get 501).
	APIToken string

	// Sequence settings. Either value <= 0 disables the follow-up job.
	MaxFollowUps          int
	HoursBetweenFollowUps int

	// WebhookURLs maps event names to outbound notification URLs.
	// Missing entries mean the event is not delivered anywhere.
	WebhookURLs map[string]string
}

func Load() (*Config, error) {
	cfg := &Config{
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		RabbitUser: getenv("RABBITMQ_USER", "guest"),
		RabbitPass: getenv("RABBITMQ_PASS", "guest"),
		RabbitHost: getenv("RABBITMQ_HOST", "localhost"),
		RabbitPort: getenv("RABBITMQ_PORT", "5672"),

		MailHost: os.Getenv("MAIL_HOST"),
		MailPort: getenvInt("MAIL_PORT", 587),
		MailUser: os.Getenv("MAIL_USER"),
		MailPass: os.Getenv("MAIL_PASS"),

		SenderName:  getenv("SENDER_NAME", "Lead Sequencer"),
		SenderEmail: os.Getenv("SENDER_EMAIL"),

		APIToken: os.Getenv("API_TOKEN"),

		MaxFollowUps:          getenvInt("MAX_FOLLOW_UPS", 5),
		HoursBetweenFollowUps: getenvInt("HOURS_BETWEEN_FOLLOW_UPS", 24),

		WebhookURLs: map[string]string{
			EventLeadCreated:     os.Getenv("WEBHOOK_LEAD_CREATED"),
			EventLeadBooked:      os.Getenv("WEBHOOK_LEAD_BOOKED"),
			EventSequenceStarted: os.Getenv("WEBHOOK_LEAD_SEQUENCE_STARTED"),
			EventEmailSent:       os.Getenv("WEBHOOK_EMAIL_SENT"),
		},
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
