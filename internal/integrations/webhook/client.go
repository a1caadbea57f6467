package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client клиент чат-webhook (Discord-совместимый)
type Client struct {
	url        string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента webhook
func NewClient(url string, timeout time.Duration, log Logger) *Client {
	return &Client{
		url: strings.TrimSpace(url),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// CheckConfig проверяет, что адрес webhook задан
func (c *Client) CheckConfig() error {
	if c.url == "" {
		return fmt.Errorf("%w: DISCORD_WEBHOOK_URL", ErrMissingURL)
	}
	return nil
}

// Post отправляет сообщение. Любой 2xx (включая 204) считается успехом
func (c *Client) Post(ctx context.Context, content string) error {
	if err := c.CheckConfig(); err != nil {
		return err
	}

	body, err := json.Marshal(Message{Content: truncate(content, MaxContentLength)})
	if err != nil {
		return fmt.Errorf("%w: failed to encode message: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: status %d: %s", ErrRejected, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	c.log.Info("Webhook accepted message: status=%d", resp.StatusCode)
	return nil
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
