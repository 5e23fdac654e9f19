package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/joyalure/joyalure-backend/pkg/config"
)

const defaultTimeout = 15 * time.Second

// Message is a single outbound email.
type Message struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// SendResult carries the provider-assigned message id.
type SendResult struct {
	ID string `json:"id"`
}

// Sender is the outbound email surface consumed by services and jobs.
type Sender interface {
	Send(ctx context.Context, msg Message) (*SendResult, error)
}

// Client talks to the transactional email HTTP API.
type Client struct {
	baseURL     string
	apiKey      string
	defaultFrom string
	httpClient  *http.Client
}

// New constructs an email client from config. The API key is required; the
// rest falls back to sane defaults.
func New(cfg config.EmailConfig) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("email api key is required")
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		return nil, fmt.Errorf("email base url is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:     baseURL,
		apiKey:      cfg.APIKey,
		defaultFrom: cfg.DefaultFrom,
		httpClient:  &http.Client{Timeout: timeout},
	}, nil
}

// Send delivers one message. A missing From falls back to the configured
// default sender.
func (c *Client) Send(ctx context.Context, msg Message) (*SendResult, error) {
	if len(msg.To) == 0 {
		return nil, fmt.Errorf("at least one recipient is required")
	}
	if strings.TrimSpace(msg.Subject) == "" {
		return nil, fmt.Errorf("subject is required")
	}
	if msg.From == "" {
		msg.From = c.defaultFrom
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encoding email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("email api returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result SendResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding email response: %w", err)
	}
	return &result, nil
}
