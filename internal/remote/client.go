package remote

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

// client is the HTTP plumbing shared by the cart and order clients.
type client struct {
	httpClient *http.Client
	baseURL    string
}

func newClient(baseURL string, httpClient *http.Client) (*client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, fmt.Errorf("base url is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &client{httpClient: httpClient, baseURL: trimmed}, nil
}

// do executes one round trip and returns the raw response body. Non-2xx
// responses become dependency errors carrying the server's own message when
// one can be extracted.
func (c *client) do(ctx context.Context, method, path string, payload any) (json.RawMessage, error) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode request body")
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build request")
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute request")
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read response body")
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		message := serverMessage(raw)
		if message == "" {
			message = fmt.Sprintf("request failed with status %d", resp.StatusCode)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency,
			fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode), message)
	}

	return raw, nil
}

// serverMessage digs the human-readable message out of an error body. The
// upstream uses both a flat {"message"} and a nested {"error": {"message"}}.
func serverMessage(raw []byte) string {
	var flat struct {
		Message string `json:"message"`
		Error   struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &flat); err != nil {
		return ""
	}
	if flat.Message != "" {
		return flat.Message
	}
	return flat.Error.Message
}
