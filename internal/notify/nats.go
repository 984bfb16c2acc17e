// Package notify publishes staging run events to NATS so downstream tooling
// (dashboards, deploy triggers) can react to completed stagings. Notification
// is optional: publish failures are logged and never abort a staging run.
package notify

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/assetstage/internal/config"
	"git.home.luguber.info/inful/assetstage/internal/logfields"
)

// RunEvent is the JSON payload published per staging run.
type RunEvent struct {
	RunID     string    `json:"run_id"`
	Outcome   string    `json:"outcome"`
	Source    string    `json:"source"`
	Dest      string    `json:"dest"`
	Files     int       `json:"files"`
	Bytes     int64     `json:"bytes"`
	Commit    string    `json:"commit,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher manages the NATS connection for run notifications.
type Publisher struct {
	conn    *nats.Conn
	subject string
}

// NewPublisher connects to the configured NATS server. Returns an error if
// the config is empty or the connection fails; callers treat a nil publisher
// as "notifications disabled".
func NewPublisher(cfg config.NotifyConfig) (*Publisher, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("notify URL is required")
	}

	conn, err := nats.Connect(cfg.URL,
		nats.Name("assetstage"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	slog.Info("NATS publisher initialized",
		logfields.Subject(cfg.Subject))

	return &Publisher{conn: conn, subject: cfg.Subject}, nil
}

// Publish sends a run event. Safe to call on a nil publisher.
func (p *Publisher) Publish(event RunEvent) error {
	if p == nil || p.conn == nil {
		return nil
	}

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal run event: %w", err)
	}

	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("failed to publish run event: %w", err)
	}

	slog.Debug("Published run event",
		logfields.RunID(event.RunID),
		logfields.Outcome(event.Outcome),
		logfields.Subject(p.subject))
	return nil
}

// Close flushes and closes the NATS connection. Safe to call on a nil publisher.
func (p *Publisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	_ = p.conn.Flush()
	p.conn.Close()
}
