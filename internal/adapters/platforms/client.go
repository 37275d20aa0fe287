package platforms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/adpilot/marketops/internal/domain"
)

// restClient is the transport shared by every adapter. It owns the mapping
// from HTTP status codes to the domain's typed failures so no raw transport
// error crosses an adapter boundary.
type restClient struct {
	httpClient *http.Client
	baseURL    string
}

func newRESTClient(baseURL string, timeout time.Duration) *restClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &restClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

func (c *restClient) getJSON(ctx context.Context, accessToken, path string, query url.Values, out any) error {
	return c.doJSON(ctx, http.MethodGet, accessToken, path, query, nil, out)
}

func (c *restClient) postJSON(ctx context.Context, accessToken, path string, body any, out any) error {
	return c.doJSON(ctx, http.MethodPost, accessToken, path, nil, body, out)
}

func (c *restClient) deleteJSON(ctx context.Context, accessToken, path string) error {
	return c.doJSON(ctx, http.MethodDelete, accessToken, path, nil, nil, nil)
}

func (c *restClient) doJSON(ctx context.Context, method, accessToken, path string, query url.Values, body any, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: encode request: %v", domain.ErrRemote, err)
		}
		reader = strings.NewReader(string(raw))
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", domain.ErrRemote, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return fmt.Errorf("%w: %v", domain.ErrRemote, err)
		}
		return fmt.Errorf("%w: %v", domain.ErrRemote, err)
	}
	defer resp.Body.Close()

	if err := mapStatus(resp.StatusCode, resp.Body); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", domain.ErrRemote, err)
	}
	return nil
}

// mapStatus converts remote status codes to the adapter error taxonomy.
func mapStatus(statusCode int, body io.Reader) error {
	if statusCode >= 200 && statusCode <= 299 {
		return nil
	}
	snippet, _ := io.ReadAll(io.LimitReader(body, 512))
	msg := strings.TrimSpace(string(snippet))
	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return fmt.Errorf("%w: status=%d body=%s", domain.ErrPlatformAuthExpired, statusCode, msg)
	case statusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: status=%d", domain.ErrRateLimited, statusCode)
	default:
		return fmt.Errorf("%w: status=%d body=%s", domain.ErrRemote, statusCode, msg)
	}
}
