package feed

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
)

// Transport fetches raw feed bytes. The implementation is selected once at
// construction from the deployment context: a direct connection, or a relay
// for environments where the upstream's non-standard port is blocked.
type Transport interface {
	Fetch(ctx context.Context, feedURL string) ([]byte, error)
}

// DirectTransport fetches the upstream URL as-is.
type DirectTransport struct {
	Client *http.Client
}

func NewDirectTransport() *DirectTransport {
	return &DirectTransport{Client: &http.Client{}}
}

func (t *DirectTransport) Fetch(ctx context.Context, feedURL string) ([]byte, error) {
	return doFetch(ctx, t.Client, feedURL, feedURL)
}

// RelayTransport routes the request through an HTTP relay, passing the
// upstream URL percent-encoded as the relay's "url" query parameter.
type RelayTransport struct {
	Client   *http.Client
	RelayURL string
}

func NewRelayTransport(relayURL string) *RelayTransport {
	return &RelayTransport{Client: &http.Client{}, RelayURL: relayURL}
}

func (t *RelayTransport) Fetch(ctx context.Context, feedURL string) ([]byte, error) {
	relayed := t.RelayURL + "?url=" + url.QueryEscape(feedURL)
	return doFetch(ctx, t.Client, relayed, feedURL)
}

func doFetch(ctx context.Context, client *http.Client, requestURL, upstreamURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, &FetchError{Kind: FetchUnreachable, URL: upstreamURL, Err: err}
	}
	resp, err := client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &FetchError{Kind: FetchTimeout, URL: upstreamURL, Err: err}
		}
		return nil, &FetchError{Kind: FetchUnreachable, URL: upstreamURL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{Kind: FetchUpstreamStatus, StatusCode: resp.StatusCode, URL: upstreamURL}
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &FetchError{Kind: FetchTimeout, URL: upstreamURL, Err: err}
		}
		return nil, &FetchError{Kind: FetchUnreachable, URL: upstreamURL, Err: err}
	}
	return b, nil
}
