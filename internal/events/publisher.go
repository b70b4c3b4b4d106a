// Package events publishes engine run events to NATS JetStream so other
// systems (deploy hooks, notifiers) can react to site rebuilds.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/roadtodev/siteconf/internal/config"
)

// RunEvent describes one engine run.
type RunEvent struct {
	RunID     string    `json:"run_id"`
	Trigger   string    `json:"trigger"` // "watch", "schedule", or "manual"
	Outcome   string    `json:"outcome"`
	Error     string    `json:"error,omitempty"`
	DurationS float64   `json:"duration_seconds"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher manages the NATS connection used for run events.
type Publisher struct {
	conn    *nats.Conn
	js      jetstream.JetStream
	subject string
}

// NewPublisher connects to NATS using the daemon events configuration.
func NewPublisher(cfg *config.NATSConfig) (*Publisher, error) {
	if cfg == nil {
		return nil, fmt.Errorf("events config is required")
	}

	conn, err := nats.Connect(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	slog.Info("NATS publisher initialized", "url", cfg.URL, "subject", cfg.Subject)

	return &Publisher{conn: conn, js: js, subject: cfg.Subject}, nil
}

// PublishRun publishes a run event.
func (p *Publisher) PublishRun(event *RunEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	event.Timestamp = time.Now()

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if _, err := p.js.Publish(ctx, p.subject, data); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	slog.Debug("Published run event", "run_id", event.RunID, "outcome", event.Outcome)
	return nil
}

// Close closes the NATS connection.
func (p *Publisher) Close() error {
	if p.conn != nil {
		p.conn.Close()
	}
	return nil
}
