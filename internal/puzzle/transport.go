package puzzle

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"
)

// Transport sends one request and hands back the raw response. Failures of
// the connection itself are returned as errors; status codes are not judged
// here.
type Transport interface {
	Get(ctx context.Context, u *url.URL, header http.Header, retry bool) (*Response, error)
	Post(ctx context.Context, u *url.URL, header http.Header, body []byte, retry bool) (*Response, error)
}

type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Logger is satisfied by *log.Logger and by the CLI's terminal logger.
type Logger interface {
	Printf(format string, args ...any)
}

type HTTPTransport struct {
	client     *http.Client
	userAgent  string
	maxRetries int
	backoff    time.Duration
	logger     Logger
}

type TransportOption func(*HTTPTransport)

func WithUserAgent(ua string) TransportOption {
	return func(t *HTTPTransport) { t.userAgent = ua }
}

// WithMaxRetries sets how many extra attempts a retryable call gets.
func WithMaxRetries(n int) TransportOption {
	return func(t *HTTPTransport) {
		if n >= 0 {
			t.maxRetries = n
		}
	}
}

func WithBackoff(d time.Duration) TransportOption {
	return func(t *HTTPTransport) { t.backoff = d }
}

func WithTransportLogger(l Logger) TransportOption {
	return func(t *HTTPTransport) { t.logger = l }
}

func NewHTTPTransport(client *http.Client, opts ...TransportOption) *HTTPTransport {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	t := &HTTPTransport{
		client:     client,
		userAgent:  "lipuzzle",
		maxRetries: 2,
		backoff:    500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NewAuthClient returns an http.Client that signs every request with the
// given personal or OAuth access token. An empty token gives an anonymous
// client.
func NewAuthClient(ctx context.Context, token string) *http.Client {
	if token == "" {
		return &http.Client{Timeout: 30 * time.Second}
	}
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	}))
	client.Timeout = 30 * time.Second
	return client
}

func (t *HTTPTransport) Get(ctx context.Context, u *url.URL, header http.Header, retry bool) (*Response, error) {
	return t.do(ctx, http.MethodGet, u, header, nil, retry)
}

func (t *HTTPTransport) Post(ctx context.Context, u *url.URL, header http.Header, body []byte, retry bool) (*Response, error) {
	return t.do(ctx, http.MethodPost, u, header, body, retry)
}

func (t *HTTPTransport) do(ctx context.Context, method string, u *url.URL, header http.Header, body []byte, retry bool) (*Response, error) {
	attempts := 1
	if retry {
		attempts += t.maxRetries
	}

	var (
		resp *Response
		err  error
	)
	for i := 0; i < attempts; i++ {
		if i > 0 {
			wait := t.backoff << (i - 1)
			t.logf("retrying %s %s in %s (attempt %d/%d)", method, u.Path, wait, i+1, attempts)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}

		resp, err = t.once(ctx, method, u, header, body)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			continue
		}
		if !retryableStatus(resp.StatusCode) {
			return resp, nil
		}
	}
	return resp, err
}

func (t *HTTPTransport) once(ctx context.Context, method string, u *url.URL, header http.Header, body []byte) (*Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, err
	}
	req.Header = t.headers(header)

	t.logf("%s %s", method, u.String())
	httpResp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, u.Path, err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       data,
	}, nil
}

func (t *HTTPTransport) headers(extra http.Header) http.Header {
	headers := http.Header{}
	headers.Set("accept", "application/json")
	headers.Set("user-agent", t.userAgent)
	for k, v := range extra {
		headers[k] = append([]string(nil), v...)
	}
	return headers
}

func (t *HTTPTransport) logf(format string, args ...any) {
	if t.logger != nil {
		t.logger.Printf(format+"\n", args...)
	}
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}
