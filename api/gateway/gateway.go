/* gateway.go
 * Contains the HTTP client core used to talk to the remote bidding API.
 * Every remote call goes through do(), which attaches the bearer token,
 * applies the timeout budget and normalizes failures into the three error
 * kinds consumers switch on: RejectedError, ErrUnreachable and
 * ErrUnauthenticated.
 */

package gateway

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

	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout bounds every call except authentication.
	DefaultTimeout = 15 * time.Second
	// AuthTimeout is deliberately generous, the backend cold-starts slowly
	// and login is the first thing it sees.
	AuthTimeout = 60 * time.Second

	// UnreachableMessage is the fixed user-facing text for connectivity
	// failures. Raw transport errors are never shown to users.
	UnreachableMessage = "Cannot reach the bidding server. Check your connection and try again."
)

// ErrUnreachable is returned on network failure or timeout
var ErrUnreachable = errors.New(UnreachableMessage)

// ErrUnauthenticated is returned when the server rejects the token or the
// token has already expired client-side. Consumers destroy the session and
// ask the user to log in again.
var ErrUnauthenticated = errors.New("your session has expired, please log in again")

// RejectedError is a genuine server rejection (validation failure, quota
// exhausted server-side, and so on). Message is shown to the user verbatim.
type RejectedError struct {
	StatusCode int
	Message    string
}

func (e *RejectedError) Error() string {
	return e.Message
}

// Client is the typed gateway to the remote bidding API. Methods never
// retain the token; callers pass it per request so one Client serves every
// logged-in user.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter

	timeout     time.Duration
	authTimeout time.Duration
}

// NewClient creates a gateway client for the given base URL
// (e.g. https://bids.example.com/api).
func NewClient(baseURL string) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("baseURL is required but none was provided")
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		// Timeouts are applied per request via context so auth can get a
		// longer budget than everything else.
		http:        &http.Client{},
		limiter:     rate.NewLimiter(rate.Limit(10), 20),
		timeout:     DefaultTimeout,
		authTimeout: AuthTimeout,
	}, nil
}

// do executes one request against the remote API and decodes the JSON
// success body into out (which may be nil for ack-only endpoints).
func (c *Client) do(ctx context.Context, method, path, token string, body any, out any, timeout time.Duration) error {
	// An expired token can never succeed, fail locally instead of burning
	// a round-trip on a guaranteed 401.
	if token != "" && TokenExpired(token, time.Now()) {
		return ErrUnauthenticated
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return ErrUnreachable
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body for %s: %w", path, err)
		}
		reader = bytes.NewReader(payload)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request for %s: %w", path, err)
	}
	request.Header.Set("Content-Type", "application/json")
	if token != "" {
		request.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	}

	response, err := c.http.Do(request)
	if err != nil {
		// Timeouts, DNS failures, refused connections all land here. They
		// surface as one fixed connectivity error.
		return ErrUnreachable
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		return ErrUnreachable
	}

	if response.StatusCode == http.StatusUnauthorized {
		return ErrUnauthenticated
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return &RejectedError{
			StatusCode: response.StatusCode,
			Message:    extractMessage(raw),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}

// getList fetches a JSON array endpoint. The server occasionally returns a
// non-array body on success (empty object from older versions); callers
// that need a sequence get an empty one rather than a decode error.
func (c *Client) getList(ctx context.Context, path, token string, out any) error {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, path, token, nil, &raw, c.timeout); err != nil {
		return err
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}

// errorBody matches the failure shapes the backend produces: detail is
// either a single message string or a list of field-level validation
// entries, in which case the first message is used.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

type validationEntry struct {
	Msg string `json:"msg"`
}

func extractMessage(raw []byte) string {
	var body errorBody
	if err := json.Unmarshal(raw, &body); err == nil && len(body.Detail) > 0 {
		var msg string
		if err := json.Unmarshal(body.Detail, &msg); err == nil && msg != "" {
			return msg
		}
		var entries []validationEntry
		if err := json.Unmarshal(body.Detail, &entries); err == nil && len(entries) > 0 && entries[0].Msg != "" {
			return entries[0].Msg
		}
	}
	return "The bidding server rejected the request"
}
