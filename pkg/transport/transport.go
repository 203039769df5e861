// Package transport implements the loader's Transport over net/http.
package transport

import (
	"context"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/piraces/feedstash/pkg/loader"
	"github.com/pkg/errors"
)

const (
	defaultUserAgent = "feedstash"
	defaultTimeout   = 30 * time.Second
	maxRedirects     = 2
)

type Config struct {
	UserAgent string
	Timeout   time.Duration
	// RetryMax, when positive, retries transient transport failures before
	// reporting them. Retrying is strictly a transport concern: the loader
	// itself never retries anything.
	RetryMax int
}

// HTTPTransport is safe for concurrent use. One instance is meant to be
// shared across all loads and torn down once via Close.
type HTTPTransport struct {
	client    *http.Client
	userAgent string
}

func New(config Config) *HTTPTransport {
	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	checkRedirect := func(req *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return errors.Errorf("stopped after %d redirects", maxRedirects)
		}
		return nil
	}

	var client *http.Client
	if config.RetryMax > 0 {
		retryClient := retryablehttp.NewClient()
		retryClient.RetryMax = config.RetryMax
		retryClient.Logger = nil
		retryClient.HTTPClient.Timeout = timeout
		// Redirects are followed by the wrapped client, so the cap has to
		// be installed there.
		retryClient.HTTPClient.CheckRedirect = checkRedirect
		client = retryClient.StandardClient()
	} else {
		client = &http.Client{Timeout: timeout, CheckRedirect: checkRedirect}
	}

	return &HTTPTransport{client: client, userAgent: userAgent}
}

func (t *HTTPTransport) Get(url string) (*loader.Response, error) {
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "error building the request")
	}
	req.Header.Set("User-Agent", t.userAgent)

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}

	return &loader.Response{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       resp.Body,
	}, nil
}

func (t *HTTPTransport) Close() error {
	t.client.CloseIdleConnections()
	return nil
}
