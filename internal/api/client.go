// Package api provides the catalog fetch client.
//
// The remote API serves two JSON catalogs: the reciter list (each reciter
// carrying its moshaf styles) and the global surah list. Responses are
// decoded into catalog types; failures are classified into a typed *Error
// so callers can pick a user-facing message without string matching.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"time"

	"github.com/hamidallah2/quran/internal/catalog"
	"github.com/hamidallah2/quran/internal/logging"
	"golang.org/x/time/rate"
)

// Client fetches catalog data from the remote API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	language   string
	limiter    *rate.Limiter
}

// NewClient creates a Client for the given API base URL and catalog
// language. Requests are rate limited to be a good citizen. A nil
// httpClient gets a default with the given timeout; passing one in
// lets the caller route requests through the offline cache.
func NewClient(httpClient *http.Client, baseURL, language string, timeout time.Duration, rps float64) *Client {
	if rps <= 0 {
		rps = 2
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		language:   language,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
	}
}

type recitersResponse struct {
	Reciters []catalog.Reciter `json:"reciters"`
}

type suwarResponse struct {
	Suwar []catalog.Surah `json:"suwar"`
}

// FetchReciters retrieves the reciter catalog.
func (c *Client) FetchReciters(ctx context.Context) ([]catalog.Reciter, error) {
	var out recitersResponse
	if err := c.getJSON(ctx, "reciters", &out); err != nil {
		return nil, err
	}
	return out.Reciters, nil
}

// FetchSuwar retrieves the global surah catalog.
func (c *Client) FetchSuwar(ctx context.Context) ([]catalog.Surah, error) {
	var out suwarResponse
	if err := c.getJSON(ctx, "suwar", &out); err != nil {
		return nil, err
	}
	return out.Suwar, nil
}

// getJSON performs a rate-limited GET against <base>/<endpoint>?language=<lang>
// and decodes the JSON body into v.
func (c *Client) getJSON(ctx context.Context, endpoint string, v interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &Error{Kind: KindNetwork, Err: err}
	}

	url := fmt.Sprintf("%s/%s?language=%s", c.baseURL, endpoint, c.language)
	logging.Debug("fetching catalog", "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &Error{Kind: KindNetwork, Err: err}
	}
	req.Header.Set("User-Agent", "quran/1.0 (github.com/hamidallah2/quran)")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logging.Error("catalog fetch failed", "endpoint", endpoint, "error", err)
		return &Error{Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		logging.Error("catalog server error", "endpoint", endpoint, "status", resp.StatusCode)
		return &Error{Kind: KindServer, Status: resp.StatusCode, Err: fmt.Errorf("%s", resp.Status)}
	case resp.StatusCode >= 400:
		logging.Error("catalog request error", "endpoint", endpoint, "status", resp.StatusCode)
		return &Error{Kind: KindClient, Status: resp.StatusCode, Err: fmt.Errorf("%s", resp.Status)}
	case resp.StatusCode != http.StatusOK:
		return &Error{Kind: KindProtocol, Status: resp.StatusCode, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		return &Error{Kind: KindProtocol, Err: fmt.Errorf("non-JSON response (%s)", mediaType)}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return &Error{Kind: KindProtocol, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
