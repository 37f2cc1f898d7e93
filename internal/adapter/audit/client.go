// Package audit posts per-turn analytics to an external webhook, the way
// the original deployment logged rows to a spreadsheet. Delivery is best
// effort and never blocks a turn.
package audit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/datamining-co/minai/internal/domain"
)

// Client posts turn records to a configured webhook URL.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient creates a webhook client. An empty URL disables logging.
func NewClient(url string) *Client {
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// Enabled reports whether a webhook URL is configured.
func (c *Client) Enabled() bool {
	return c.url != ""
}

// Log posts one turn record as JSON.
func (c *Client) Log(rec *domain.TurnRecord) error {
	if !c.Enabled() {
		return nil
	}

	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal turn record: %w", err)
	}

	resp, err := c.httpClient.Post(c.url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to post turn record: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("audit webhook returned status %d", resp.StatusCode)
	}
	return nil
}
