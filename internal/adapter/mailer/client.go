package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"
)

// RetryAfterError represents rate limiting signal from mail gateway.
type RetryAfterError struct {
	RetryAfter time.Duration
}

func (e RetryAfterError) Error() string {
	return fmt.Sprintf("too many requests, retry after %s", e.RetryAfter)
}

// StatusChangeMessage describes an order status notification payload.
type StatusChangeMessage struct {
	OrderID   string `json:"orderId"`
	UserID    string `json:"userId"`
	NewStatus string `json:"newStatus"`
	OldStatus string `json:"oldStatus,omitempty"`
}

// Sender delivers status change notifications to users.
type Sender interface {
	SendStatusChange(ctx context.Context, msg StatusChangeMessage) error
}

// HTTPClient implements Sender via mail gateway HTTP API.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPClient creates HTTP mail gateway client with default timeout.
func NewHTTPClient(baseURL string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse mail gateway url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("mail gateway url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// SendStatusChange posts the notification to the gateway.
func (c *HTTPClient) SendStatusChange(ctx context.Context, msg StatusChangeMessage) error {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/api/notifications")

	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusTooManyRequests:
		retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"))
		return RetryAfterError{RetryAfter: retryAfter}
	default:
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("mail gateway request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(body)))
		return fmt.Errorf("mail gateway error: %s", resp.Status)
	}
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 5 * time.Second
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}
	return 5 * time.Second
}

// NopSender logs notifications instead of delivering them. Used when no
// mail gateway address is configured.
type NopSender struct {
	logger *slog.Logger
}

// NewNopSender creates NopSender.
func NewNopSender(logger *slog.Logger) *NopSender {
	return &NopSender{logger: logger}
}

// SendStatusChange records the notification in the log.
func (s *NopSender) SendStatusChange(_ context.Context, msg StatusChangeMessage) error {
	s.logger.Info("notification delivered locally",
		slog.String("order_id", msg.OrderID),
		slog.String("user_id", msg.UserID),
		slog.String("new_status", msg.NewStatus),
	)
	return nil
}
