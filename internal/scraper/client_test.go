package scraper

import (
	"context"
	"errors"
	"net"
	"net/http"
	"syscall"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/require"
)

func newMockedClient(t *testing.T) *Client {
	t.Helper()
	c := NewClient("test-agent", 5*time.Second)
	httpmock.ActivateNonDefault(c.httpClient)
	t.Cleanup(httpmock.DeactivateAndReset)
	return c
}

func TestClientFetchOK(t *testing.T) {
	c := newMockedClient(t)

	httpmock.RegisterResponder("GET", "https://www.amazon.com/dp/B0OK",
		func(req *http.Request) (*http.Response, error) {
			require.Equal(t, "test-agent", req.Header.Get("User-Agent"))
			return httpmock.NewStringResponse(200, "<html><body>ok</body></html>"), nil
		})

	body, err := c.Fetch("https://www.amazon.com/dp/B0OK")
	require.NoError(t, err)
	require.Contains(t, body, "ok")
}

func TestClientFetch404(t *testing.T) {
	c := newMockedClient(t)

	httpmock.RegisterResponder("GET", "https://www.amazon.com/dp/B0GONE",
		httpmock.NewStringResponder(404, "not here"))

	_, err := c.Fetch("https://www.amazon.com/dp/B0GONE")
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	require.Equal(t, FetchNotFound, fe.Reason)
}

func TestClientFetchServerError(t *testing.T) {
	c := newMockedClient(t)

	httpmock.RegisterResponder("GET", "https://www.amazon.com/dp/B0FIVEHUNDRED",
		httpmock.NewStringResponder(503, "busy"))

	_, err := c.Fetch("https://www.amazon.com/dp/B0FIVEHUNDRED")
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	require.Equal(t, FetchOther, fe.Reason)
}

func TestClientFetchDNSFailure(t *testing.T) {
	c := newMockedClient(t)

	httpmock.RegisterResponder("GET", "https://www.amazon.com/dp/B0NOHOST",
		httpmock.NewErrorResponder(&net.DNSError{Err: "no such host", Name: "www.amazon.com", IsNotFound: true}))

	_, err := c.Fetch("https://www.amazon.com/dp/B0NOHOST")
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	require.Equal(t, FetchNotFound, fe.Reason)
}

func TestClientFetchTimeout(t *testing.T) {
	c := newMockedClient(t)

	httpmock.RegisterResponder("GET", "https://www.amazon.com/dp/B0SLOW",
		httpmock.NewErrorResponder(context.DeadlineExceeded))

	_, err := c.Fetch("https://www.amazon.com/dp/B0SLOW")
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	require.Equal(t, FetchTimeout, fe.Reason)
}

func TestClientFetchConnectionRefused(t *testing.T) {
	c := newMockedClient(t)

	httpmock.RegisterResponder("GET", "https://www.amazon.com/dp/B0REFUSED",
		httpmock.NewErrorResponder(syscall.ECONNREFUSED))

	_, err := c.Fetch("https://www.amazon.com/dp/B0REFUSED")
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	require.Equal(t, FetchConnectionRefused, fe.Reason)
}

func TestClassifyFetchErr(t *testing.T) {
	require.Equal(t, FetchTimeout, classifyFetchErr(context.DeadlineExceeded))
	require.Equal(t, FetchTimeout, classifyFetchErr(&net.DNSError{IsTimeout: true}))
	require.Equal(t, FetchNotFound, classifyFetchErr(&net.DNSError{IsNotFound: true}))
	require.Equal(t, FetchConnectionRefused, classifyFetchErr(syscall.ECONNREFUSED))
	require.Equal(t, FetchOther, classifyFetchErr(errors.New("broken pipe")))
}
