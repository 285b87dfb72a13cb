// Package upstream talks to the remote user listing endpoint.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/BradenHooton/userboard/internal/models"
)

// Doer is satisfied by *http.Client
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// maxErrorBody bounds how much of a failed response is read for a message
const maxErrorBody = 64 << 10

// cacheControlHint mirrors the five minute cache window
const cacheControlHint = "max-age=300"

// Result is a successful response from the listing endpoint
type Result struct {
	Users       []models.UserRecord
	ETag        string
	NotModified bool
	StatusCode  int
}

// Client fetches the user listing
type Client struct {
	baseURL string
	http    Doer
}

// NewClient creates a client for the listing at baseURL
func NewClient(baseURL string, httpClient Doer) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, http: httpClient}
}

// FetchUsers performs one GET against the listing. When etag is non-empty it
// is sent as If-None-Match, and a 304 answer is reported as NotModified
// rather than as an error. Every failure is a *models.FetchError.
func (c *Client) FetchUsers(ctx context.Context, etag string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, &models.FetchError{Kind: models.FetchErrTransport, Message: models.MsgUnexpected, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", cacheControlHint)
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &models.FetchError{Kind: models.FetchErrTransport, Message: models.MsgFetchFailed, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified {
		return &Result{
			ETag:        resp.Header.Get("ETag"),
			NotModified: true,
			StatusCode:  resp.StatusCode,
		}, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp)
	}

	var body models.UserListResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &models.FetchError{
			Kind:       models.FetchErrDecode,
			StatusCode: resp.StatusCode,
			Message:    models.MsgUnexpected,
			Err:        fmt.Errorf("decode user listing: %w", err),
		}
	}
	if body.Users == nil {
		body.Users = []models.UserRecord{}
	}

	return &Result{
		Users:      body.Users,
		ETag:       resp.Header.Get("ETag"),
		StatusCode: resp.StatusCode,
	}, nil
}

// statusError builds the error for a non-2xx response, preferring the
// "message" field of a JSON body.
func statusError(resp *http.Response) error {
	cause := fmt.Errorf("upstream responded %d", resp.StatusCode)

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var payload struct {
		Message string `json:"message"`
	}
	if len(raw) > 0 && json.Unmarshal(raw, &payload) == nil && strings.TrimSpace(payload.Message) != "" {
		return &models.FetchError{
			Kind:       models.FetchErrStatusMessage,
			StatusCode: resp.StatusCode,
			Message:    payload.Message,
			Err:        cause,
		}
	}

	return &models.FetchError{
		Kind:       models.FetchErrStatusGeneric,
		StatusCode: resp.StatusCode,
		Message:    models.MsgFetchFailed,
		Err:        cause,
	}
}

// IsCanceled reports whether err came from a cancelled or expired context
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
