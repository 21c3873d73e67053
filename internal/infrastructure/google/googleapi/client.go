package googleapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/time/rate"

	"github.com/afkham/recurring-meeting-optimizer/internal/infrastructure/resilience"
)

// Client is the shared plumbing for Google REST calls: an authorized HTTP
// client, one rate limiter covering every call, and the retry executor.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	exec       *resilience.Executor
}

func NewClient(httpClient *http.Client, limiter *rate.Limiter, exec *resilience.Executor) *Client {
	return &Client{
		httpClient: httpClient,
		limiter:    limiter,
		exec:       exec,
	}
}

// GetJSON issues a GET and decodes the response body into out.
func (c *Client) GetJSON(ctx context.Context, operation, url string, out any) error {
	return c.roundTrip(ctx, operation, http.MethodGet, url, nil, out)
}

// PatchJSON issues a PATCH with a JSON payload.
func (c *Client) PatchJSON(ctx context.Context, operation, url string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", operation, err)
	}
	return c.roundTrip(ctx, operation, http.MethodPatch, url, body, nil)
}

// Delete issues a DELETE; Google returns an empty body on success.
func (c *Client) Delete(ctx context.Context, operation, url string) error {
	return c.roundTrip(ctx, operation, http.MethodDelete, url, nil, nil)
}

func (c *Client) roundTrip(ctx context.Context, operation, method, url string, body []byte, out any) error {
	return c.exec.Execute(ctx, operation, func(ctx context.Context) error {
		return c.do(ctx, operation, method, url, body, out)
	}, ClassifyError)
}

func (c *Client) do(ctx context.Context, operation, method, url string, body []byte, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("create %s request: %w", operation, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("google %s request: %w", operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return newStatusError(operation, resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", operation, err)
	}
	return nil
}

// HTTPStatusError carries the status and a body excerpt of a failed
// Google API call so callers can classify and log it.
type HTTPStatusError struct {
	Operation  string
	StatusCode int
	Status     string
	Body       string
}

func newStatusError(operation string, resp *http.Response) *HTTPStatusError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	return &HTTPStatusError{
		Operation:  operation,
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       strings.TrimSpace(string(body)),
	}
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "google api status error"
	}
	if e.Body == "" {
		return fmt.Sprintf("google %s status: %s", e.Operation, e.Status)
	}
	return fmt.Sprintf("google %s status: %s: %s", e.Operation, e.Status, e.Body)
}
