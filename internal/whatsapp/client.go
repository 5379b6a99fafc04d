package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"whatsapp-autoreply/internal/config"
)

// ErrNotConfigured is returned when the token or phone number id is missing
var ErrNotConfigured = errors.New("whatsapp: cloud api token or phone number id not configured")

// APIError is a non-2xx answer from the Graph API
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error: %d %s - %s", e.Status, http.StatusText(e.Status), e.Body)
}

type Client struct {
	Config     *config.Config
	HTTPClient *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		Config:     cfg,
		HTTPClient: &http.Client{Timeout: cfg.WhatsAppTimeout},
	}
}

// --- Message Structures ---

type GenericMessage struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	RecipientType    string   `json:"recipient_type,omitempty"`
	Text             *TextObj `json:"text,omitempty"`
}

type TextObj struct {
	Body       string `json:"body"`
	PreviewUrl bool   `json:"preview_url,omitempty"`
}

// --- Helper Functions ---

func (c *Client) sendRequest(ctx context.Context, method, url string, body interface{}) ([]byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+c.Config.WhatsAppToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("whatsapp request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		return respBody, &APIError{Status: resp.StatusCode, Body: string(respBody)}
	}

	return respBody, nil
}

func (c *Client) messagesURL() string {
	base := strings.TrimRight(c.Config.GraphAPIURL, "/")
	return fmt.Sprintf("%s/%s/%s/messages", base, c.Config.GraphAPIVersion, c.Config.PhoneNumberID)
}

// --- Messaging Methods ---

func (c *Client) SendRawMessage(ctx context.Context, msg GenericMessage) error {
	if c.Config.WhatsAppToken == "" || c.Config.PhoneNumberID == "" {
		return ErrNotConfigured
	}
	if msg.MessagingProduct == "" {
		msg.MessagingProduct = "whatsapp"
	}
	_, err := c.sendRequest(ctx, http.MethodPost, c.messagesURL(), msg)
	return err
}

// SendMessage sends a plain text message to the given WhatsApp id
func (c *Client) SendMessage(ctx context.Context, to, body string) error {
	msg := GenericMessage{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "text",
		Text: &TextObj{
			Body: body,
		},
	}
	return c.SendRawMessage(ctx, msg)
}
