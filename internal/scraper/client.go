package scraper

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"
)

const maxRedirects = 5

// Fetcher retrieves raw page content for a URL.
type Fetcher interface {
	Fetch(url string) (string, error)
}

// Client is an HTTP client for scraping product pages. It performs a
// single attempt per call: fetch failures are surfaced as *FetchError and
// retrying is left to the caller.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a new scraper client.
func NewClient(userAgent string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		userAgent: userAgent,
	}
}

// Fetch fetches a URL and returns the HTML content.
func (c *Client) Fetch(url string) (string, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return "", &FetchError{URL: url, Reason: FetchOther, Err: err}
	}

	// Browser-like headers; retail pages serve bot traffic a different,
	// much emptier document.
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "es-ES,es;q=0.9,en;q=0.8")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	req.Header.Set("Cache-Control", "max-age=0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &FetchError{URL: url, Reason: classifyFetchErr(err), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", &FetchError{URL: url, Reason: FetchNotFound, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &FetchError{URL: url, Reason: FetchOther, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	var reader io.Reader = resp.Body
	if strings.Contains(resp.Header.Get("Content-Encoding"), "gzip") {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return "", &FetchError{URL: url, Reason: FetchOther, Err: err}
		}
		reader = gzipReader
	}

	content, err := io.ReadAll(reader)
	if err != nil {
		return "", &FetchError{URL: url, Reason: FetchOther, Err: err}
	}

	return string(content), nil
}

// classifyFetchErr maps a transport error onto the fetch-reason taxonomy.
// DNS failures count as not_found: the host the caller named does not exist.
func classifyFetchErr(err error) FetchReason {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return FetchTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return FetchTimeout
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsTimeout {
			return FetchTimeout
		}
		return FetchNotFound
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return FetchConnectionRefused
	}
	return FetchOther
}
