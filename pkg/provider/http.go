package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Config carries the startup-time knobs of one peer connection.
type Config struct {
	// URL is the base address of the peer, like http://localhost:8001.
	URL string

	// Budget is the per-call ceiling on a move request. Zero means
	// DefaultBudget.
	Budget time.Duration
}

// Client is a Provider talking JSON over HTTP to a peer which exposes
// POST /move and GET /ping.
type Client struct {
	config Config
	client *http.Client
}

var _ Provider = (*Client)(nil)

func NewClient(config Config) *Client {
	if config.Budget <= 0 {
		config.Budget = DefaultBudget
	}

	config.URL = strings.TrimRight(config.URL, "/")

	return &Client{
		config: config,
		client: &http.Client{},
	}
}

// URL returns the peer's base address.
func (peer *Client) URL() string {
	return peer.config.URL
}

func (peer *Client) RequestMove(ctx context.Context, request Request) (string, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	ctx, cancel := context.WithTimeout(ctx, peer.config.Budget)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, peer.config.URL+"/move", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := peer.client.Do(req)
	if err != nil {
		return "", classify(err, peer.config.Budget)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", classify(err, peer.config.Budget)
	}

	if resp.StatusCode != http.StatusOK {
		// The peer may still have sent a structured error body.
		var response Response
		if json.Unmarshal(raw, &response) == nil && response.Error != "" {
			return "", fmt.Errorf("%w: %s", ErrUnreachable, response.Error)
		}

		return "", fmt.Errorf("%w: peer replied %s", ErrUnreachable, resp.Status)
	}

	var response Response
	if err := json.Unmarshal(raw, &response); err != nil {
		// A 200 with an undecodable body is the peer talking garbage,
		// not infrastructure failing: surface the raw text and let the
		// validation layer reject it as unparsable.
		return string(raw), nil
	}

	if response.Error != "" {
		return "", fmt.Errorf("%w: %s", ErrUnreachable, response.Error)
	}

	// A missing move field is a malformed reply; like garbage bodies it
	// is surfaced as text for the validation layer to reject.
	return response.Move, nil
}

func (peer *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, peer.config.URL+"/ping", nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	resp, err := peer.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: peer replied %s", ErrUnreachable, resp.Status)
	}

	return nil
}

// classify maps a transport error onto the provider error taxonomy:
// deadline overruns become ErrTimeout, everything else ErrUnreachable.
func classify(err error, budget time.Duration) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: no reply within %s", ErrTimeout, budget)
	}

	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Timeout() {
		return fmt.Errorf("%w: no reply within %s", ErrTimeout, budget)
	}

	return fmt.Errorf("%w: %v", ErrUnreachable, err)
}
