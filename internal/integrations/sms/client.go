package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultBaseURL = "https://api.twilio.com"

// Client клиент Twilio Messages API
type Client struct {
	creds      Credentials
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента Twilio
func NewClient(creds Credentials, timeout time.Duration, log Logger) *Client {
	if creds.BaseURL == "" {
		creds.BaseURL = DefaultBaseURL
	}
	creds.BaseURL = strings.TrimRight(creds.BaseURL, "/")

	return &Client{
		creds: creds,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// CheckConfig проверяет, что заданы sid, токен и отправитель (номер или messaging service)
func (c *Client) CheckConfig() error {
	var missing []string
	if c.creds.AccountSID == "" {
		missing = append(missing, "TWILIO_ACCOUNT_SID")
	}
	if c.creds.AuthToken == "" {
		missing = append(missing, "TWILIO_AUTH_TOKEN")
	}
	if c.creds.FromNumber == "" && c.creds.MessagingServiceSID == "" {
		missing = append(missing, "TWILIO_FROM_NUMBER or TWILIO_MESSAGING_SERVICE_SID")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingCredentials, strings.Join(missing, ", "))
	}
	return nil
}

// Send отправляет одно SMS получателю to
func (c *Client) Send(ctx context.Context, to, body string) (*Message, error) {
	if err := c.CheckConfig(); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", c.creds.BaseURL, url.PathEscape(c.creds.AccountSID))

	form := url.Values{}
	form.Set("To", to)
	form.Set("Body", body)
	if c.creds.MessagingServiceSID != "" {
		form.Set("MessagingServiceSid", c.creds.MessagingServiceSID)
	} else {
		form.Set("From", c.creds.FromNumber)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.SetBasicAuth(c.creds.AccountSID, c.creds.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

		var apiErr ErrorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
			return nil, fmt.Errorf("%w: status %d, code %d: %s", ErrRejected, resp.StatusCode, apiErr.Code, apiErr.Message)
		}
		return nil, fmt.Errorf("%w: status %d: %s", ErrRejected, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	// 2xx уже означает, что провайдер принял сообщение; тело нужно только для логов
	var msg Message
	if err := json.NewDecoder(resp.Body).Decode(&msg); err != nil {
		c.log.Warn("SMS accepted but response is unreadable: %v", fmt.Errorf("%w: %v", ErrInvalidResponse, err))
		return &msg, nil
	}

	c.log.Info("SMS accepted by provider: sid=%s, status=%s", msg.SID, msg.Status)
	return &msg, nil
}
