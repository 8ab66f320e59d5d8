package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"debo-loans/internal/config"

	"github.com/pobyzaarif/goshortcute"
)

// Message is an outgoing email
type Message struct {
	ToName  string
	ToEmail string
	Subject string
	Body    string
}

// MailjetMailer sends email through the Mailjet v3.1 send API
type MailjetMailer struct {
	cfg    config.MailConfig
	client *http.Client
}

// NewMailjetMailer creates a Mailjet mailer
func NewMailjetMailer(cfg config.MailConfig) *MailjetMailer {
	return &MailjetMailer{
		cfg:    cfg,
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

type mailjetAddress struct {
	Email string `json:"Email"`
	Name  string `json:"Name"`
}

type mailjetMessage struct {
	From     mailjetAddress   `json:"From"`
	To       []mailjetAddress `json:"To"`
	Subject  string           `json:"Subject"`
	TextPart string           `json:"TextPart"`
	HTMLPart string           `json:"HTMLPart"`
}

type mailjetPayload struct {
	Messages []mailjetMessage `json:"Messages"`
}

// Send posts msg to Mailjet
func (m *MailjetMailer) Send(ctx context.Context, msg Message) error {
	payload := mailjetPayload{
		Messages: []mailjetMessage{{
			From:     mailjetAddress{Email: m.cfg.SenderEmail, Name: m.cfg.SenderName},
			To:       []mailjetAddress{{Email: msg.ToEmail, Name: msg.ToName}},
			Subject:  msg.Subject,
			TextPart: msg.Body,
			HTMLPart: msg.Body,
		}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal json payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.BaseURL+"/v3.1/send", bytes.NewReader(body))
	if err != nil {
		return err
	}

	basicAuth := goshortcute.StringtoBase64Encode(m.cfg.Username + ":" + m.cfg.Password)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Basic "+basicAuth)

	res, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 200 && res.StatusCode <= 299 {
		return nil
	}
	respBody, _ := io.ReadAll(res.Body)
	return fmt.Errorf("mailer service returned %d: %s", res.StatusCode, respBody)
}

// LogMailer writes every email to the log. Used in development.
type LogMailer struct{}

func (LogMailer) Send(ctx context.Context, msg Message) error {
	log.Printf("📧 Mail to %s <%s>: %s\n%s", msg.ToName, msg.ToEmail, msg.Subject, msg.Body)
	return nil
}

// MemoryMailer keeps sent messages in memory
type MemoryMailer struct {
	mu   sync.Mutex
	sent []Message
}

func (m *MemoryMailer) Send(ctx context.Context, msg Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

// Sent returns a copy of every message sent so far
func (m *MemoryMailer) Sent() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Message, len(m.sent))
	copy(out, m.sent)
	return out
}

// New selects a mailer by cfg.Driver
func New(cfg config.MailConfig) interface {
	Send(ctx context.Context, msg Message) error
} {
	if cfg.Driver == "mailjet" {
		return NewMailjetMailer(cfg)
	}
	return LogMailer{}
}
