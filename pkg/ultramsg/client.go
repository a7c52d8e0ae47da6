// Package ultramsg provides a client for sending WhatsApp messages via the
// UltraMsg HTTP API.
//
// It is used as the message transport of the notification service: a send
// either succeeds or returns an error, retry policy is the caller's concern.
package ultramsg

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.ultramsg.com"

// Config holds the UltraMsg credentials and tuning knobs.
type Config struct {
	InstanceID  string
	Token       string
	BaseURL     string        // defaults to the public UltraMsg endpoint
	SendTimeout time.Duration // bounds every send call
}

// Client represents an UltraMsg client used to send WhatsApp messages.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewClient creates a new UltraMsg Client. Credentials are validated up front
// so a misconfigured process fails at startup, not on the first send.
func NewClient(cfg Config) (*Client, error) {
	if cfg.InstanceID == "" {
		return nil, fmt.Errorf("ultramsg: instance id is required")
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("ultramsg: token is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	timeout := cfg.SendTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL: fmt.Sprintf("%s/%s/messages/chat", strings.TrimRight(baseURL, "/"), cfg.InstanceID),
		token:   cfg.Token,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

// sendMessageRequest represents the payload for the UltraMsg chat API.
type sendMessageRequest struct {
	To    string `json:"to"`
	Body  string `json:"body"`
	Token string `json:"token"`
}

// sendMessageResponse carries the provider-level error field UltraMsg returns
// inside an HTTP 200 body.
type sendMessageResponse struct {
	Error json.RawMessage `json:"error"`
}

// Send sends a WhatsApp message to the given phone number.
//
// The number is rewritten to the UltraMsg chat id format: leading "+" removed,
// "@c.us" suffix appended. A non-200 status or an error field in the response
// body is returned as a failure.
func (c *Client) Send(to string, msg string) error {
	reqBody := sendMessageRequest{
		To:    strings.TrimPrefix(to, "+") + "@c.us",
		Body:  msg,
		Token: c.token,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	resp, err := c.client.Post(c.baseURL, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ultramsg API error: %s", resp.Status)
	}

	var out sendMessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	if len(out.Error) > 0 && string(out.Error) != "null" {
		return fmt.Errorf("ultramsg error: %s", out.Error)
	}

	return nil
}
