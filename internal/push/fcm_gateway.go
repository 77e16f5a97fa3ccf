package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// FCMGateway реализует Gateway поверх HTTP JSON API FCM (авторизация
// серверным ключом). SDK не используется: нужен ровно один endpoint.
type FCMGateway struct {
	config *Config
	client *http.Client
}

func NewFCMGateway(config *Config) *FCMGateway {
	if config == nil {
		config = DefaultConfig()
	}
	return &FCMGateway{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}
}

// notificationBody - блок notification в запросе FCM
type notificationBody struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type fcmRequest struct {
	To              string            `json:"to,omitempty"`
	RegistrationIDs []string          `json:"registration_ids,omitempty"`
	Notification    notificationBody  `json:"notification"`
	Data            map[string]string `json:"data,omitempty"`
}

type fcmResult struct {
	MessageID string `json:"message_id"`
	Error     string `json:"error"`
}

type fcmResponse struct {
	MessageID int64       `json:"message_id"` // для топиков
	Success   int         `json:"success"`
	Failure   int         `json:"failure"`
	Results   []fcmResult `json:"results"`
}

func (g *FCMGateway) SendToTopic(ctx context.Context, topic string, msg *Message) (string, error) {
	if err := g.Validate(); err != nil {
		return "", err
	}

	payload := fcmRequest{
		To:           "/topics/" + topic,
		Notification: notificationBody{Title: msg.Title, Body: msg.Body},
		Data:         msg.Data,
	}

	resp, err := g.post(ctx, payload)
	if err != nil {
		return "", fmt.Errorf("topic send failed: %w", err)
	}
	return fmt.Sprintf("%d", resp.MessageID), nil
}

func (g *FCMGateway) SendToTokens(ctx context.Context, tokens []string, msg *Message) (*SendReport, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return &SendReport{}, nil
	}

	payload := fcmRequest{
		RegistrationIDs: tokens,
		Notification:    notificationBody{Title: msg.Title, Body: msg.Body},
		Data:            msg.Data,
	}

	resp, err := g.post(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("token batch send failed: %w", err)
	}

	report := &SendReport{
		SuccessCount: resp.Success,
		FailureCount: resp.Failure,
	}
	for i, result := range resp.Results {
		if result.Error == "" || i >= len(tokens) {
			continue
		}
		report.Errors = append(report.Errors, TokenError{Token: tokens[i], Err: result.Error})
	}
	return report, nil
}

func (g *FCMGateway) post(ctx context.Context, payload fcmRequest) (*fcmResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.config.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+g.config.ServerKey)

	httpResp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gateway returned %d: %s", httpResp.StatusCode, string(raw))
	}

	var resp fcmResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode gateway response: %w", err)
	}
	return &resp, nil
}

func (g *FCMGateway) Validate() error {
	if g.config.Endpoint == "" {
		return fmt.Errorf("push endpoint is not configured")
	}
	if g.config.ServerKey == "" {
		return fmt.Errorf("push server key is not configured")
	}
	return nil
}

func (g *FCMGateway) Close() error {
	g.client.CloseIdleConnections()
	return nil
}
