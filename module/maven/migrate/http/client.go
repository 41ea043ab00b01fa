package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/harness/nexus-migrate/module/maven/migrate/http/modifier"
	"github.com/harness/nexus-migrate/module/maven/migrate/types"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
)

// Client is a util for common HTTP operations against a nexus instance.
// Use Do instead if Get can not meet your requirement
type Client struct {
	modifiers []modifier.Modifier
	client    *retryablehttp.Client
}

// NewClient creates an instance of Client.
// Use a transport from GetHTTPTransport if c is nil.
// Retries is the number of extra attempts on connection errors and 5xx
// responses, zero sends every request exactly once.
// Modifiers modify the request before sending it.
func NewClient(c *http.Client, retries int, logger zerolog.Logger, modifiers ...modifier.Modifier) *Client {
	if c == nil {
		c = &http.Client{
			Transport: GetHTTPTransport(),
		}
	}
	rc := retryablehttp.NewClient()
	rc.HTTPClient = c
	rc.RetryMax = retries
	rc.Logger = leveledLogger{logger: logger}
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Client{
		client:    rc,
		modifiers: modifiers,
	}
}

// Do applies the modifiers and sends the request.
func (c *Client) Do(req *retryablehttp.Request) (*http.Response, error) {
	for _, modifier := range c.modifiers {
		if err := modifier.Modify(req.Request); err != nil {
			return nil, err
		}
	}
	return c.client.Do(req)
}

// Get decodes a JSON response into v. Non-2xx responses are returned as
// *types.InfoRetrievalError.
func (c *Client) Get(ctx context.Context, url string, v interface{}) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	data, err := c.do(req)
	if err != nil {
		return err
	}
	if v == nil {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", url, err)
	}
	return nil
}

// Open returns the body of a successful GET. The caller closes it.
func (c *Client) Open(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		data, _ := io.ReadAll(resp.Body)
		return nil, &types.InfoRetrievalError{Status: resp.StatusCode, URL: url, Message: string(data)}
	}
	return resp.Body, nil
}

func (c *Client) do(req *retryablehttp.Request) ([]byte, error) {
	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &types.InfoRetrievalError{
			Status:  resp.StatusCode,
			URL:     req.URL.String(),
			Message: string(data),
		}
	}

	return data, nil
}

// leveledLogger routes retryablehttp's own logging into zerolog at debug.
type leveledLogger struct {
	logger zerolog.Logger
}

func (l leveledLogger) Error(msg string, kv ...interface{}) {
	l.logger.Debug().Fields(kv).Msg(msg)
}

func (l leveledLogger) Info(msg string, kv ...interface{}) {
	l.logger.Debug().Fields(kv).Msg(msg)
}

func (l leveledLogger) Debug(msg string, kv ...interface{}) {
	l.logger.Debug().Fields(kv).Msg(msg)
}

func (l leveledLogger) Warn(msg string, kv ...interface{}) {
	l.logger.Debug().Fields(kv).Msg(msg)
}
