package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/kdquach/thetrois-backend/pkg/errors"
)

const responseBodyReadLimit int64 = 1 << 20

// Client fetches the topping catalog from the upstream commerce API.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient builds a catalog client for the given upstream base URL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, fmt.Errorf("catalog base url is required")
	}

	client := &Client{
		baseURL:    trimmed,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// Toppings returns the full topping list. The upstream wraps the list in
// several envelopes depending on the endpoint version, all of which are
// accepted here.
func (c *Client) Toppings(ctx context.Context) ([]Topping, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/toppings", nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build toppings request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute toppings request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency,
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))),
			"toppings request failed")
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read toppings response")
	}

	return decodeToppingList(raw), nil
}

func decodeToppingList(raw []byte) []Topping {
	body := bytes.TrimSpace(raw)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return []Topping{}
	}

	if body[0] == '{' {
		var envelope struct {
			Results json.RawMessage `json:"results"`
			Data    json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(body, &envelope); err == nil {
			if len(envelope.Results) > 0 {
				body = envelope.Results
			} else if len(envelope.Data) > 0 {
				body = envelope.Data
			}
		}
	}

	var entries []struct {
		ID    string      `json:"id"`
		AltID string      `json:"_id"`
		Name  string      `json:"name"`
		Price json.Number `json:"price"`
	}
	if err := json.Unmarshal(body, &entries); err != nil {
		return []Topping{}
	}

	toppings := make([]Topping, 0, len(entries))
	for _, entry := range entries {
		id := entry.ID
		if id == "" {
			id = entry.AltID
		}
		if id == "" {
			continue
		}
		price, _ := entry.Price.Int64()
		toppings = append(toppings, Topping{ID: id, Name: entry.Name, Price: int(price)})
	}
	return toppings
}
