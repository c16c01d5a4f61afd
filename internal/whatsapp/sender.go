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
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/pensionworks/support-bot/pkg/logging"
)

var senderTracer = otel.Tracer("supportbot.internal.whatsapp.sender")

// Sender delivers a reply to a customer. The bot core does not care which
// transport carries it.
type Sender interface {
	SendText(ctx context.Context, to, body string) error
}

// GraphSender posts text messages through the Meta Graph API.
type GraphSender struct {
	baseURL       string
	token         string
	phoneNumberID string
	retryMax      int
	retryBase     time.Duration
	httpClient    *http.Client
	logger        *logging.Logger
}

// GraphSenderConfig carries the delivery settings for the Graph API.
type GraphSenderConfig struct {
	BaseURL       string
	Token         string
	PhoneNumberID string
	Timeout       time.Duration
	RetryMax      int
	RetryBase     time.Duration
}

// NewGraphSender builds a sender for the Graph API messages endpoint.
func NewGraphSender(cfg GraphSenderConfig, logger *logging.Logger) *GraphSender {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://graph.facebook.com/v18.0"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RetryMax <= 0 {
		cfg.RetryMax = 3
	}
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = 2 * time.Second
	}
	return &GraphSender{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		token:         cfg.Token,
		phoneNumberID: cfg.PhoneNumberID,
		retryMax:      cfg.RetryMax,
		retryBase:     cfg.RetryBase,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

var _ Sender = (*GraphSender)(nil)

// SendText dispatches a single text message, retrying transient failures
// with linear backoff.
func (s *GraphSender) SendText(ctx context.Context, to, body string) error {
	if s.token == "" {
		return errors.New("whatsapp: access token missing")
	}
	if to == "" {
		return errors.New("whatsapp: recipient required")
	}
	if strings.TrimSpace(body) == "" {
		return errors.New("whatsapp: body required")
	}

	ctx, span := senderTracer.Start(ctx, "whatsapp.send_text")
	defer span.End()
	span.SetAttributes(
		attribute.String("supportbot.to", to),
		attribute.Int("supportbot.body_len", len(body)),
	)

	payload, err := json.Marshal(map[string]any{
		"messaging_product": "whatsapp",
		"to":                to,
		"text":              map[string]string{"body": body},
	})
	if err != nil {
		return fmt.Errorf("whatsapp: failed to marshal payload: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", s.baseURL, s.phoneNumberID)

	var lastErr error
	for attempt := 1; attempt <= s.retryMax; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("whatsapp: failed to build request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+s.token)
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.httpClient.Do(req)
		if err != nil {
			lastErr = err
		} else {
			respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 8192))
			resp.Body.Close()
			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				s.logger.Info("whatsapp message sent", "to", to, "attempt", attempt)
				return nil
			}
			lastErr = fmt.Errorf("whatsapp: send failed: status %d, body: %s", resp.StatusCode, string(respBody))
			// Client errors will not succeed on retry.
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				break
			}
		}

		if attempt < s.retryMax {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * s.retryBase):
			}
		}
	}

	return fmt.Errorf("whatsapp: delivery failed after %d attempts: %w", s.retryMax, lastErr)
}
