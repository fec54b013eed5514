package egov

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Default configuration values for the API client.
const (
	// DefaultBaseURL is the production e-Gov law API origin.
	DefaultBaseURL = "https://laws.e-gov.go.jp"

	// DefaultTimeout is the per-request HTTP timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRetryAttempts bounds retries for transient failures.
	DefaultRetryAttempts = 3

	// DefaultRetryBackoff is the linear backoff unit between attempts.
	DefaultRetryBackoff = 400 * time.Millisecond

	// DefaultRequestInterval is the minimum interval between API requests.
	DefaultRequestInterval = 500 * time.Millisecond

	// DefaultUserAgent is the User-Agent header sent with requests.
	DefaultUserAgent = "lawnote/1.0 (+https://github.com/coolbeans/lawnote)"
)

// ClientConfig holds configuration for the API client.
type ClientConfig struct {
	// BaseURL is the API origin, without a trailing slash.
	BaseURL string

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration

	// RetryAttempts bounds retries for 429/5xx and connection failures.
	RetryAttempts int

	// RetryBackoff is the linear backoff unit: attempt n sleeps n*RetryBackoff.
	RetryBackoff time.Duration

	// RequestInterval is the minimum interval between requests.
	RequestInterval time.Duration

	// UserAgent overrides the default User-Agent header.
	UserAgent string
}

// DefaultClientConfig returns a ClientConfig with production defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		BaseURL:         DefaultBaseURL,
		Timeout:         DefaultTimeout,
		RetryAttempts:   DefaultRetryAttempts,
		RetryBackoff:    DefaultRetryBackoff,
		RequestInterval: DefaultRequestInterval,
		UserAgent:       DefaultUserAgent,
	}
}

// Client talks to the e-Gov law API v2. Transient failures (rate limiting,
// server errors, connection errors) are retried with linear backoff; any other
// non-2xx status is terminal. Requests are paced by a rate limiter so a deep
// crawl never hammers the API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	config     ClientConfig
}

// NewClient creates a Client with the given configuration. Zero-valued fields
// fall back to the defaults.
func NewClient(config ClientConfig) *Client {
	defaults := DefaultClientConfig()
	if config.BaseURL == "" {
		config.BaseURL = defaults.BaseURL
	}
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	if config.RetryAttempts <= 0 {
		config.RetryAttempts = defaults.RetryAttempts
	}
	if config.RetryBackoff <= 0 {
		config.RetryBackoff = defaults.RetryBackoff
	}
	if config.RequestInterval <= 0 {
		config.RequestInterval = defaults.RequestInterval
	}
	if config.UserAgent == "" {
		config.UserAgent = defaults.UserAgent
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	return &Client{
		httpClient: &http.Client{Timeout: config.Timeout},
		limiter:    rate.NewLimiter(rate.Every(config.RequestInterval), 1),
		config:     config,
	}
}

// SearchLaws returns candidates matching a free-text statute title query.
func (client *Client) SearchLaws(ctx context.Context, lawTitle string) ([]LawCandidate, error) {
	body, err := client.getJSON(ctx, "/api/2/laws", url.Values{"law_title": {lawTitle}})
	if err != nil {
		return nil, err
	}

	var response lawsResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to decode laws response: %w", err)
	}
	return parseLawCandidates(response), nil
}

// ListLawsPaged retrieves one page of the full statute listing. A page with
// zero laws signals the end of the listing.
func (client *Client) ListLawsPaged(ctx context.Context, limit, offset int) ([]ListedLaw, error) {
	query := url.Values{
		"limit":  {strconv.Itoa(limit)},
		"offset": {strconv.Itoa(offset)},
	}
	body, err := client.getJSON(ctx, "/api/2/laws", query)
	if err != nil {
		return nil, err
	}

	var response lawsResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to decode laws listing: %w", err)
	}

	listed := make([]ListedLaw, 0, len(response.Laws))
	for _, law := range response.Laws {
		listed = append(listed, ListedLaw{
			LawID:            law.LawInfo.LawID,
			LawNum:           law.LawInfo.LawNum,
			LawTitle:         law.RevisionInfo.LawTitle,
			Abbrev:           law.RevisionInfo.Abbrev,
			PromulgationDate: law.LawInfo.PromulgationDate,
		})
	}
	return listed, nil
}

// FetchLawContents retrieves and normalizes the full text of a statute,
// addressed by law ID when present, otherwise by statute number.
func (client *Client) FetchLawContents(ctx context.Context, candidate LawCandidate) (*LawContents, error) {
	idOrNum := candidate.LawID
	if idOrNum == "" {
		idOrNum = candidate.LawNum
	}
	if idOrNum == "" {
		return nil, fmt.Errorf("candidate %q has neither law_id nor law_num", candidate.LawTitle)
	}

	query := url.Values{
		"response_format":      {"json"},
		"law_full_text_format": {"json"},
	}
	body, err := client.getJSON(ctx, "/api/2/law_data/"+url.PathEscape(idOrNum), query)
	if err != nil {
		return nil, err
	}

	var response lawDataResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to decode law_data response: %w", err)
	}
	return parseLawContents(response)
}

// getJSON issues a GET against the API and returns the raw response body.
// 429 and 5xx responses and connection errors are retried with linear backoff
// up to the configured attempt count; exhaustion surfaces the last error.
func (client *Client) getJSON(ctx context.Context, path string, query url.Values) ([]byte, error) {
	requestURL := client.config.BaseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	var lastErr error
	for attempt := 1; attempt <= client.config.RetryAttempts; attempt++ {
		if err := client.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		request, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request for %s: %w", requestURL, err)
		}
		request.Header.Set("User-Agent", client.config.UserAgent)
		request.Header.Set("Accept", "application/json")

		response, err := client.httpClient.Do(request)
		if err != nil {
			lastErr = fmt.Errorf("request failed for %s: %w", requestURL, err)
			client.sleepBackoff(ctx, attempt)
			continue
		}

		if response.StatusCode == http.StatusTooManyRequests || response.StatusCode >= 500 {
			drainAndClose(response.Body)
			lastErr = fmt.Errorf("transient HTTP %d for %s", response.StatusCode, requestURL)
			client.sleepBackoff(ctx, attempt)
			continue
		}

		body, readErr := io.ReadAll(response.Body)
		response.Body.Close()

		if response.StatusCode < 200 || response.StatusCode >= 300 {
			snippet := strings.TrimSpace(string(body))
			if snippet == "" {
				snippet = "<no body>"
			}
			return nil, fmt.Errorf("API error %d for %s: %s", response.StatusCode, requestURL, snippet)
		}
		if readErr != nil {
			return nil, fmt.Errorf("failed to read response from %s: %w", requestURL, readErr)
		}
		return body, nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("request failed for %s", requestURL)
	}
	return nil, fmt.Errorf("retries exhausted: %w", lastErr)
}

// sleepBackoff sleeps for attempt*RetryBackoff, or returns early when the
// context is cancelled.
func (client *Client) sleepBackoff(ctx context.Context, attempt int) {
	timer := time.NewTimer(time.Duration(attempt) * client.config.RetryBackoff)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// drainAndClose discards a response body so the connection can be reused.
func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 4096))
	_ = body.Close()
}
