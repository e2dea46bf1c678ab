package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Provider adapts one external catalogue to the canonical [Book] model.
//
// Implementations must treat their provider as unreliable: any transport
// or parse failure is returned as an error and the aggregator degrades
// to zero results for that stage. Detail returns (nil, nil) when the
// provider positively reports the book as missing.
type Provider interface {
	// Source names the catalogue this adapter serves.
	Source() Source

	// Search issues one query against the provider's search endpoint and
	// maps the response into canonical Books, at most limit of them.
	Search(ctx context.Context, query string, limit int) ([]Book, error)

	// Detail resolves full metadata and the read location for a bare
	// provider identifier (already stripped of the "source:" prefix).
	Detail(ctx context.Context, providerID string) (*Book, error)
}

// HTTPDoer is the minimal HTTP client seam shared by all adapters.
// Production code passes *http.Client; tests substitute fakes.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

const (
	// defaultHTTPTimeout bounds every provider call. A hung provider is
	// indistinguishable from a failed one: the stage yields zero results.
	defaultHTTPTimeout = 8 * time.Second

	// providerRatePerSecond is a politeness limit per provider. None of
	// the four catalogues publish hard quotas for anonymous use, but all
	// of them ban abusive clients.
	providerRatePerSecond = 5
	providerRateBurst     = 10

	// maxBodyBytes caps how much of a book body we pull into memory.
	maxBodyBytes = 10 << 20 // 10 MiB
)

// NewHTTPClient returns the default client used for provider calls.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: defaultHTTPTimeout}
}

// apiClient wraps an [HTTPDoer] with rate limiting and decode helpers.
// Each adapter embeds its own instance so one noisy provider cannot
// starve the others of request budget.
type apiClient struct {
	httpClient HTTPDoer
	limiter    *rate.Limiter
}

func newAPIClient(httpClient HTTPDoer) apiClient {
	return apiClient{
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(providerRatePerSecond), providerRateBurst),
	}
}

// getJSON performs a rate-limited GET and decodes the JSON body into target.
func (c *apiClient) getJSON(ctx context.Context, url string, target any) error {
	body, err := c.get(ctx, url)
	if err != nil {
		return err
	}
	defer body.Close()

	if err := json.NewDecoder(body).Decode(target); err != nil {
		return fmt.Errorf("catalog: decode response from %s: %w", url, err)
	}
	return nil
}

// getText performs a rate-limited GET and returns the body as a string,
// truncated at [maxBodyBytes].
func (c *apiClient) getText(ctx context.Context, url string) (string, error) {
	body, err := c.get(ctx, url)
	if err != nil {
		return "", err
	}
	defer body.Close()

	raw, err := io.ReadAll(io.LimitReader(body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("catalog: read body from %s: %w", url, err)
	}
	return string(raw), nil
}

func (c *apiClient) get(ctx context.Context, url string) (io.ReadCloser, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("catalog: rate limiter: %w", err)
		}
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("catalog: build request for %s: %w", url, err)
	}
	request.Header.Set("Accept", "application/json, text/plain, text/html")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("catalog: request %s: %w", url, err)
	}

	if response.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(response.Body, 4096))
		_ = response.Body.Close()
		return nil, fmt.Errorf("catalog: unexpected status %d from %s", response.StatusCode, url)
	}

	return response.Body, nil
}
