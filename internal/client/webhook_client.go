package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type WebhookClient struct {
	url        string
	token      string
	httpClient *http.Client
}

type webhookError struct {
	Err string `json:"error"`
}

func NewWebhookClient(url, token string) *WebhookClient {
	return &WebhookClient{
		url:        url,
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *WebhookClient) TaskCreated(event TaskEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("Error trying to parse event to Json: %w", err)
	}

	req, err := http.NewRequest("POST", c.url, bytes.NewBuffer(body))
	if err != nil {
		return err
	}

	if c.token != "" {
		req.Header.Set("Authorization", c.token)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errorBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("Error trying to read the body: %w", err)
		}

		var hookErr webhookError
		if err := json.Unmarshal(errorBody, &hookErr); err != nil {
			return fmt.Errorf("webhook error status: %d", resp.StatusCode)
		}

		if hookErr.Err != "" {
			return fmt.Errorf("webhook error: %s", hookErr.Err)
		}

		return fmt.Errorf("webhook error status: %d", resp.StatusCode)
	}

	return nil
}
