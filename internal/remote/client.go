package remote

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

	"github.com/vovakirdan/lanchat/internal/core"
)

const (
	MessagesPath    = "/api/messages"
	SendMessagePath = "/api/sendMessage"

	// maxResponseBytes bounds how much of a log response is read.
	maxResponseBytes = 8 << 20
)

// Client talks to the remote chat log over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a client for baseURL. timeout bounds every request; per-call
// contexts may shorten it further.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchMessages retrieves the complete log in display order.
func (c *Client) FetchMessages(ctx context.Context) ([]core.WireMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+MessagesPath, nil)
	if err != nil {
		return nil, core.TransportFailure(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, core.TransportFailure(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		drain(resp.Body)
		return nil, core.ServerError(resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, core.TransportFailure(fmt.Errorf("read body: %w", err))
	}

	return decodeLog(body)
}

// SendMessage delivers a single wire message. Any 2xx status counts as accepted.
func (c *Client) SendMessage(ctx context.Context, msg core.WireMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return core.TransportFailure(fmt.Errorf("marshal message: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+SendMessagePath, bytes.NewReader(payload))
	if err != nil {
		return core.TransportFailure(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return core.TransportFailure(err)
	}
	defer resp.Body.Close()
	drain(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return core.ServerError(resp.StatusCode)
	}
	return nil
}

// decodeLog accepts only a JSON array of strings; null, objects and mixed
// arrays are malformed.
func decodeLog(body []byte) ([]core.WireMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, core.MalformedResponse(errors.New("expected a JSON array"))
	}

	var raw []string
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, core.MalformedResponse(err)
	}
	if raw == nil {
		raw = []string{}
	}
	return raw, nil
}

func drain(r io.Reader) {
	_, _ = io.Copy(io.Discard, io.LimitReader(r, maxResponseBytes))
}
