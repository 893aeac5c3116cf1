package push

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to an external push-notification gateway. Delivery is
// best-effort: callers log failures and move on.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

type PushRequest struct {
	UserID  uint   `json:"user_id"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

type PushResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL: baseURL,
		Token:   token,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Enabled reports whether a gateway is configured.
func (c *Client) Enabled() bool {
	return c.BaseURL != ""
}

// Send delivers a push notification to a single user.
func (c *Client) Send(userID uint, title, message string) error {
	requestData := PushRequest{
		UserID:  userID,
		Title:   title,
		Message: message,
	}

	jsonData, err := json.Marshal(requestData)
	if err != nil {
		return fmt.Errorf("failed to marshal push request: %w", err)
	}

	url := fmt.Sprintf("%s/notify", c.BaseURL)
	req, err := http.NewRequest("POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var response PushResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	if !response.Success {
		return fmt.Errorf("push gateway rejected notification: %s", response.Message)
	}

	return nil
}
