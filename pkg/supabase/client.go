// Package supabase is a small client for the Supabase REST surfaces used by
// the app: GoTrue auth, PostgREST rows and Storage objects.
package supabase

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

var ErrNotConfigured = errors.New("supabase: url and key are required")

type Config struct {
	URL     string
	Key     string
	Timeout time.Duration
}

type Client struct {
	url  string
	key  string
	http *resty.Client

	mu          sync.RWMutex
	nextSubID   int
	subscribers map[int]func(AuthEvent)
}

func New(cfg Config) (*Client, error) {
	url := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	key := strings.TrimSpace(cfg.Key)
	if url == "" || key == "" {
		return nil, ErrNotConfigured
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	httpClient := resty.New().
		SetBaseURL(url).
		SetTimeout(timeout).
		SetHeader("apikey", key).
		SetHeader("Accept", "application/json")

	return &Client{
		url:         url,
		key:         key,
		http:        httpClient,
		subscribers: make(map[int]func(AuthEvent)),
	}, nil
}

func (c *Client) URL() string {
	return c.url
}

// request starts a call authorized with token, or with the project key when
// token is empty.
func (c *Client) request(token string) *resty.Request {
	if token == "" {
		token = c.key
	}
	return c.http.R().SetAuthToken(token).SetError(&errorBody{})
}

// Error is a non-2xx answer from Supabase. Message is the server's
// user-facing text.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("supabase: %d %s", e.Status, e.Message)
}

// errorBody covers the error shapes of GoTrue, PostgREST and Storage.
type errorBody struct {
	Code             any    `json:"code"`
	ErrorCode        string `json:"error_code"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	ErrorText        string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (b *errorBody) message() string {
	for _, m := range []string{b.Msg, b.ErrorDescription, b.Message, b.ErrorText} {
		if m != "" {
			return m
		}
	}
	return ""
}

func (b *errorBody) code() string {
	if b.ErrorCode != "" {
		return b.ErrorCode
	}
	switch v := b.Code.(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%.0f", v)
	}
	return ""
}

// checkResponse turns transport failures and error statuses into errors.
func checkResponse(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("supabase request: %w", err)
	}
	if !resp.IsError() {
		return nil
	}

	apiErr := &Error{Status: resp.StatusCode()}
	if body, ok := resp.Error().(*errorBody); ok && body != nil {
		apiErr.Message = body.message()
		apiErr.Code = body.code()
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(resp.String())
	}
	if apiErr.Message == "" {
		apiErr.Message = resp.Status()
	}
	return apiErr
}
