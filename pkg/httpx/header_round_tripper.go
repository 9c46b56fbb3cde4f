package httpx

import (
	"fmt"
	"net/http"
)

// HeaderRoundTripper sets static headers on every outgoing request. The Steam
// Community endpoints are picky about the default Go user agent, so the client
// sends a browser-like one.
type HeaderRoundTripper struct {
	next    http.RoundTripper
	headers http.Header
}

func NewHeaderRoundTripper(
	next http.RoundTripper,
	headers http.Header,
) HeaderRoundTripper {
	return HeaderRoundTripper{
		next:    next,
		headers: headers,
	}
}

func (rt HeaderRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	for name, values := range rt.headers {
		if req.Header.Get(name) != "" {
			continue
		}

		for _, value := range values {
			req.Header.Add(name, value)
		}
	}

	resp, err := rt.next.RoundTrip(req)
	if err != nil {
		return nil, fmt.Errorf("next.RoundTrip: %w", err)
	}

	return resp, nil
}
