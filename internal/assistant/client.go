// Package assistant is a thin client for the external chat-assistant
// endpoint. The endpoint is an opaque collaborator: it accepts a user
// message plus a context string and returns a text reply. All scoping of
// the context to the caller's school happens before this client is
// invoked; it performs no authorization itself.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrUnconfigured is returned when no endpoint URL was set.
var ErrUnconfigured = errors.New("assistant endpoint not configured")

// Client posts messages to the assistant endpoint with a bounded timeout.
type Client struct {
	url  string
	http *http.Client
}

// New builds a Client. url may be empty, in which case Ask returns
// ErrUnconfigured; timeout bounds the whole request.
func New(url string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		url:  url,
		http: &http.Client{Timeout: timeout},
	}
}

type askRequest struct {
	Message string `json:"message"`
	Context string `json:"context"`
}

type askResponse struct {
	Response string `json:"response"`
}

// Ask sends the user message and school context, returning the reply text.
// Timeouts and non-200 statuses surface as plain errors for the handler to
// report as a transient failure.
func (c *Client) Ask(ctx context.Context, message, contextStr string) (string, error) {
	if c.url == "" {
		return "", ErrUnconfigured
	}
	body, err := json.Marshal(askRequest{Message: message, Context: contextStr})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain a little for the error message, ignore the rest.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return "", fmt.Errorf("assistant returned %d: %s", resp.StatusCode, snippet)
	}

	var out askResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.Response, nil
}
