package clover

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/shiftsync/timeclock-backend/internal/config"
	"golang.org/x/oauth2"
)

// Client talks to the Clover REST API for a single merchant
type Client struct {
	baseURL    string
	merchantID string
	pageLimit  int
	maxRetries int
	retryWait  time.Duration
	http       *http.Client
}

// NewClient creates a Clover client authenticated with the merchant's bearer token
func NewClient(cfg config.CloverConfig) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("clover client: %w", err)
	}

	base := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 25 * time.Second
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		merchantID: cfg.MerchantID,
		pageLimit:  cfg.PageLimit,
		maxRetries: cfg.MaxRetries,
		retryWait:  cfg.RetryWait,
		http: &http.Client{
			Timeout: timeout,
			Transport: &oauth2.Transport{
				Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.AccessToken}),
				Base:   base,
			},
		},
	}, nil
}

// FetchError is returned when Clover answers with a non-2xx status
type FetchError struct {
	StatusCode int
	Body       string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("clover API status=%d, body=%s", e.StatusCode, e.Body)
}

// Temporary reports whether retrying the same request may succeed
func (e *FetchError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}
