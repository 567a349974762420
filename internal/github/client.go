// Package github fetches user and repository records from the GitHub REST API.
//
// Only two endpoints are used, both unauthenticated:
//
//	GET {base}/users/{username}
//	GET {base}/repos/{owner}/{repo}
//
// Every failure (transport, non-2xx status, malformed body, wrong shape) is
// returned as apperror.FetchFailed so callers can treat them uniformly while
// the cause is still available for logs.
package github

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sakif/ghlookup/internal/apperror"
	"github.com/sakif/ghlookup/internal/model"
)

// DefaultBaseURL is the public GitHub REST API.
const DefaultBaseURL = "https://api.github.com"

// maxBodyBytes bounds how much of a response body is read. Real user and
// repository payloads are a few KB.
const maxBodyBytes = 1 << 20

// Client performs lookups against a GitHub-compatible API.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// NewClient creates a Client. An empty baseURL means DefaultBaseURL; a nil
// httpClient means http.DefaultClient. No timeout is imposed here: the call is
// bounded only by the caller's context.
func NewClient(baseURL string, httpClient *http.Client, logger *slog.Logger) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("github: parsing base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("github: base URL %q must be http or https", baseURL)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		logger:  logger,
	}, nil
}

// URL builds the endpoint for mode and nickname.
//
// The nickname is percent-encoded. In repo mode each "/"-separated segment is
// encoded on its own so "owner/repo" keeps addressing a repository.
func (c *Client) URL(mode model.Mode, nickname string) (string, error) {
	switch mode {
	case model.ModeUser:
		return c.baseURL + "/users/" + url.PathEscape(nickname), nil
	case model.ModeRepo:
		segments := strings.Split(nickname, "/")
		for i, s := range segments {
			segments[i] = url.PathEscape(s)
		}
		return c.baseURL + "/repos/" + strings.Join(segments, "/"), nil
	default:
		return "", apperror.ValidationFailed("mode", fmt.Sprintf("unsupported mode %s", mode))
	}
}

// Fetch performs exactly one GET and decodes the body into the record shape
// expected for mode.
//
// FAILURE MODES (all returned as apperror.FetchFailed, cause attached):
//   - building the request or the transport failing (DNS, refused, ctx cancelled)
//   - any status outside 200-299, as *StatusError
//   - a body that is not JSON, or not the shape Decode expects
//
// No retries, no timeout of its own: ctx is the only deadline. Callers show
// the user apperror.FetchFailedMessage and log the cause.
func (c *Client) Fetch(ctx context.Context, mode model.Mode, nickname string) (model.Record, error) {
	endpoint, err := c.URL(mode, nickname)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, apperror.FetchFailed(fmt.Errorf("github: building request: %w", err))
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperror.FetchFailed(fmt.Errorf("github: GET %s: %w", endpoint, err))
	}
	defer resp.Body.Close()

	c.logger.Debug("github response",
		slog.String("url", endpoint),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, apperror.FetchFailed(&StatusError{URL: endpoint, StatusCode: resp.StatusCode})
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, apperror.FetchFailed(fmt.Errorf("github: reading body: %w", err))
	}

	record, err := Decode(mode, body)
	if err != nil {
		return nil, apperror.FetchFailed(err)
	}
	return record, nil
}

// StatusError reports a non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("github: GET %s returned status %d", e.URL, e.StatusCode)
}
