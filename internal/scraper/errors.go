package scraper

import "fmt"

// FetchReason classifies why a page fetch failed. The pipeline never
// retries; the reason tag lets the caller pick a response status and
// decide whether a retry is worth it.
type FetchReason string

const (
	FetchTimeout           FetchReason = "timeout"
	FetchNotFound          FetchReason = "not_found"
	FetchConnectionRefused FetchReason = "connection_refused"
	FetchOther             FetchReason = "other"
)

// FetchError is the terminal error for one extraction attempt.
type FetchError struct {
	URL    string
	Reason FetchReason
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s (%s): %v", e.URL, e.Reason, e.Err)
	}
	return fmt.Sprintf("fetch %s (%s)", e.URL, e.Reason)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
