// Copyright (c) 2026 Trackbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package remote is the HTTP client of the reading-plan backend.

Every domain store (plans, reports, auth) talks to the backend through one
[Client], which owns the cross-cutting rules of that conversation:

  - Identity: the caller's access token travels as 'Authorization: Bearer'.
  - Envelope: bodies shaped {statusCode, message, data} are unwrapped to data;
    endpoints that answer with the bare resource are decoded as-is.
  - Errors: upstream statuses become [apperr.AppError] values (see [classify]).
  - Retries: idempotent GETs are retried with exponential backoff on transport
    failures and 5xx answers. Writes are never retried.
*/
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/taibuivan/trackbook/internal/platform/apperr"
	"github.com/taibuivan/trackbook/internal/platform/constants"
	"github.com/taibuivan/trackbook/internal/platform/ctxutil"
)

// maxResponseBytes bounds how much of an upstream body is read.
const maxResponseBytes = 4 << 20

// Options configures a [Client].
type Options struct {
	// BaseURL is the API root, e.g. http://localhost:8000/api. Paths are appended verbatim.
	BaseURL string

	// Timeout bounds one attempt. Zero means [constants.RemoteDefaultTimeout].
	Timeout time.Duration

	// Retries is the number of extra attempts for GET requests.
	Retries int

	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
}

// Client performs JSON calls against the reading-plan backend.
type Client struct {
	httpClient *http.Client
	baseURL    string
	retries    uint
	logger     *slog.Logger

	initialInterval time.Duration
	maxInterval     time.Duration
}

/*
NewClient validates options and builds a [Client].

Returns:
  - error: when BaseURL is not an absolute http(s) URL
*/
func NewClient(options Options, logger *slog.Logger) (*Client, error) {
	parsed, err := url.Parse(options.BaseURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, fmt.Errorf("remote: invalid base URL %q", options.BaseURL)
	}

	timeout := options.Timeout
	if timeout <= 0 {
		timeout = constants.RemoteDefaultTimeout
	}

	httpClient := options.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		httpClient:      httpClient,
		baseURL:         strings.TrimRight(options.BaseURL, "/"),
		retries:         uint(max(options.Retries, 0)),
		logger:          logger,
		initialInterval: constants.RemoteRetryInitialInterval,
		maxInterval:     constants.RemoteRetryMaxInterval,
	}, nil
}

// # Verbs

// Get fetches path and decodes the answer into out.
func (client *Client) Get(ctx context.Context, path string, out any) error {
	return client.Do(ctx, http.MethodGet, path, nil, out)
}

// Post sends body to path and decodes the answer into out (which may be nil).
func (client *Client) Post(ctx context.Context, path string, body, out any) error {
	return client.Do(ctx, http.MethodPost, path, body, out)
}

// Put sends body to path and decodes the answer into out (which may be nil).
func (client *Client) Put(ctx context.Context, path string, body, out any) error {
	return client.Do(ctx, http.MethodPut, path, body, out)
}

// Delete removes the resource at path.
func (client *Client) Delete(ctx context.Context, path string, out any) error {
	return client.Do(ctx, http.MethodDelete, path, nil, out)
}

/*
Do performs one logical call, retrying GETs when the failure is transient.

Parameters:
  - method: HTTP method
  - path: endpoint path starting with '/'
  - body: value encoded as the JSON request body, or nil
  - out: destination of the (unwrapped) response body, or nil to discard it

Returns:
  - error: an [apperr.AppError] for upstream answers, or the context error
*/
func (client *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("remote: encode %s %s: %w", method, path, err)
		}
		payload = encoded
	}

	if method != http.MethodGet || client.retries == 0 {
		return client.send(ctx, method, path, payload, out)
	}

	attempt := 0
	operation := func() (struct{}, error) {
		attempt++
		err := client.send(ctx, method, path, payload, out)
		if err == nil || !retryable(err) {
			return struct{}{}, backoff.Permanent(err)
		}

		client.logger.WarnContext(ctx, "remote_call_retrying",
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()),
		)
		return struct{}{}, err
	}

	_, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(client.newBackOff()),
		backoff.WithMaxTries(client.retries+1),
	)
	return err
}

// Reachable reports whether the backend answers HTTP at all. Any status,
// including 404, counts as reachable.
func (client *Client) Reachable(ctx context.Context) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodHead, client.baseURL, nil)
	if err != nil {
		return fmt.Errorf("remote: build probe: %w", err)
	}

	response, err := client.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("remote: unreachable: %w", err)
	}
	_ = response.Body.Close()

	return nil
}

// # Transport

func (client *Client) send(ctx context.Context, method, path string, payload []byte, out any) error {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	request, err := http.NewRequestWithContext(ctx, method, client.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("remote: build %s %s: %w", method, path, err)
	}

	request.Header.Set("Accept", "application/json")
	if payload != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if token := ctxutil.GetAccessToken(ctx); token != "" {
		request.Header.Set(constants.HeaderAuthorization, "Bearer "+token)
	}
	if requestID := ctxutil.GetRequestID(ctx); requestID != "" {
		request.Header.Set(constants.HeaderXRequestID, requestID)
	}

	startTime := time.Now()
	response, err := client.httpClient.Do(request)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return apperr.BadGateway(fmt.Errorf("remote: %s %s: %w", method, path, err))
	}
	defer response.Body.Close()

	data, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil {
		return apperr.BadGateway(fmt.Errorf("remote: read %s %s: %w", method, path, err))
	}

	client.logger.DebugContext(ctx, "remote_call_finished",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", response.StatusCode),
		slog.Int64("latency_ms", time.Since(startTime).Milliseconds()),
	)

	if response.StatusCode >= http.StatusBadRequest {
		return classify(response.StatusCode, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	if err := decode(data, out); err != nil {
		return apperr.BadGateway(fmt.Errorf("remote: decode %s %s: %w", method, path, err))
	}

	return nil
}

func (client *Client) newBackOff() backoff.BackOff {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = client.initialInterval
	policy.MaxInterval = client.maxInterval
	return policy
}

func retryable(err error) bool {
	ae := apperr.As(err)
	return ae != nil && ae.Code == apperr.CodeBadGateway
}

// # Envelope

// envelope is the backend's generic response wrapper.
type envelope struct {
	StatusCode *int            `json:"statusCode"`
	Message    json.RawMessage `json:"message"`
	Data       json.RawMessage `json:"data"`
}

// decode unwraps the envelope when present, otherwise decodes data as the resource.
func decode(data []byte, out any) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var wrapper envelope
		if err := json.Unmarshal(trimmed, &wrapper); err == nil && wrapper.StatusCode != nil && wrapper.Data != nil {
			return json.Unmarshal(wrapper.Data, out)
		}
	}
	return json.Unmarshal(trimmed, out)
}

/*
classify maps an upstream error answer to an [apperr.AppError].

  - 401: the session is over ([apperr.SessionExpired]); callers sign the user out.
  - 403: forbidden.
  - 404: not found.
  - 5xx: bad gateway.
  - anything else: the backend's own message, or "Error <status>: <text>".
*/
func classify(status int, body []byte) error {
	switch {
	case status == http.StatusUnauthorized:
		return apperr.SessionExpired()
	case status == http.StatusForbidden:
		return apperr.Forbidden("You do not have permission to perform this action.")
	case status == http.StatusNotFound:
		return apperr.NotFound("Resource")
	case status >= http.StatusInternalServerError:
		return apperr.BadGateway(fmt.Errorf("remote: upstream answered %d", status))
	}

	if message := upstreamMessage(body); message != "" {
		return apperr.Upstream(status, message)
	}
	return apperr.Upstream(status, fmt.Sprintf("Error %d: %s", status, http.StatusText(status)))
}

// upstreamMessage extracts "message", which the backend sends either as a
// string or as a list of validation messages.
func upstreamMessage(body []byte) string {
	var wrapper envelope
	if err := json.Unmarshal(body, &wrapper); err != nil || len(wrapper.Message) == 0 {
		return ""
	}

	var single string
	if err := json.Unmarshal(wrapper.Message, &single); err == nil {
		return strings.TrimSpace(single)
	}

	var many []string
	if err := json.Unmarshal(wrapper.Message, &many); err == nil {
		return strings.Join(many, "; ")
	}

	return ""
}

// IsNotFound reports whether err is the upstream's 404.
func IsNotFound(err error) bool {
	ae := apperr.As(err)
	return ae != nil && ae.Code == apperr.CodeNotFound
}
