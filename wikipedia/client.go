// Package wikipedia provides a MediaWiki API implementation of
// wikirag.ArticleSource.
//
// Articles are discovered through the opensearch endpoint and fetched through
// the query endpoint's HTML extracts. Extract HTML is stripped of citation
// and navigation markup, then converted to markdown. An optional cache avoids
// refetching, and an optional extractor recovers pages whose extract comes
// back empty.
package wikipedia

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/wikirag"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the MediaWiki API endpoint of English Wikipedia.
	DefaultBaseURL = "https://en.wikipedia.org/w/api.php"

	// DefaultUserAgent identifies the client per the Wikimedia User-Agent
	// policy.
	DefaultUserAgent = "wikirag/1.0 (https://github.com/fwojciec/wikirag)"

	// DefaultSearchLimit is how many titles SearchArticles requests.
	DefaultSearchLimit = 8

	// DefaultRequestsPerSecond bounds the request rate against the API.
	DefaultRequestsPerSecond = 1.0

	// DefaultTimeout is the per-request HTTP timeout.
	DefaultTimeout = 30 * time.Second
)

// DefaultRetryDelays returns the backoff delays for request retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// Ensure Client implements wikirag.ArticleSource at compile time.
var _ wikirag.ArticleSource = (*Client)(nil)

// Client searches and fetches Wikipedia articles through the MediaWiki API.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	userAgent   string
	searchLimit int
	limiter     *rate.Limiter
	retryDelays []time.Duration
	converter   wikirag.Converter
	extractor   wikirag.Extractor
	cache       wikirag.ArticleCache
	cacheMaxAge time.Duration
	logger      *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL points the client at a different MediaWiki API endpoint,
// e.g. another language edition or a test server.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithUserAgent overrides the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithSearchLimit sets how many titles SearchArticles requests.
func WithSearchLimit(n int) Option {
	return func(c *Client) {
		c.searchLimit = n
	}
}

// WithRequestsPerSecond adjusts the request rate limit.
func WithRequestsPerSecond(rps float64) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithRetryDelays sets the waits between retries of failed requests.
// An empty slice disables retries. This is useful for testing without
// waiting for real delays.
func WithRetryDelays(delays []time.Duration) Option {
	return func(c *Client) {
		c.retryDelays = delays
	}
}

// WithExtractor sets a fallback extractor for pages whose API extract is
// empty: the rendered page is fetched and the extractor pulls the article
// body out of the full HTML. Without one such pages fail with ENOTFOUND.
func WithExtractor(e wikirag.Extractor) Option {
	return func(c *Client) {
		c.extractor = e
	}
}

// WithCache adds a read-through article cache. Fetched articles are stored
// and reused while younger than maxAge; maxAge <= 0 means entries never
// expire.
func WithCache(cache wikirag.ArticleCache, maxAge time.Duration) Option {
	return func(c *Client) {
		c.cache = cache
		c.cacheMaxAge = maxAge
	}
}

// WithLogger sets the logger for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a Client. The converter is required: article HTML is converted
// to markdown before it reaches the chunker. Everything else is optional and
// configured with options.
func New(converter wikirag.Converter, opts ...Option) (*Client, error) {
	if converter == nil {
		return nil, wikirag.Errorf(wikirag.EINVALID, "converter required")
	}

	c := &Client{
		baseURL:     DefaultBaseURL,
		userAgent:   DefaultUserAgent,
		searchLimit: DefaultSearchLimit,
		limiter:     rate.NewLimiter(rate.Limit(DefaultRequestsPerSecond), 1),
		retryDelays: DefaultRetryDelays(),
		converter:   converter,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	if c.searchLimit <= 0 {
		c.searchLimit = DefaultSearchLimit
	}

	return c, nil
}

// SearchArticles returns titles of articles relevant to topic, best match
// first, using the opensearch endpoint.
func (c *Client) SearchArticles(ctx context.Context, topic string) ([]string, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, wikirag.Errorf(wikirag.EINVALID, "search topic required")
	}

	params := url.Values{}
	params.Set("action", "opensearch")
	params.Set("format", "xml")
	params.Set("search", topic)
	params.Set("limit", strconv.Itoa(c.searchLimit))

	body, err := c.api(ctx, params)
	if err != nil {
		return nil, err
	}

	titles, err := parseSearchResponse(body)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("wikipedia search", "topic", topic, "titles", len(titles))
	return titles, nil
}

// parseSearchResponse extracts titles from an opensearch XML response.
// The document is a SearchSuggestion with Item elements carrying Text,
// Description and Url children; only Text is used.
func parseSearchResponse(body []byte) ([]string, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return nil, wikirag.Errorf(wikirag.EUNAVAILABLE, "malformed search response: %v", err)
	}

	var titles []string
	for _, item := range doc.FindElements("//Item") {
		text := item.SelectElement("Text")
		if text == nil {
			continue
		}
		if title := strings.TrimSpace(text.Text()); title != "" {
			titles = append(titles, title)
		}
	}
	return titles, nil
}

// FetchArticle retrieves the article with the given title as markdown text.
// When a cache is configured it is consulted first and fresh entries skip
// the API entirely.
func (c *Client) FetchArticle(ctx context.Context, title string) (*wikirag.Article, error) {
	if strings.TrimSpace(title) == "" {
		return nil, wikirag.Errorf(wikirag.EINVALID, "article title required")
	}

	if article := c.fromCache(ctx, title); article != nil {
		return article, nil
	}

	page, err := c.queryPage(ctx, title)
	if err != nil {
		return nil, err
	}

	html := page.Extract
	if strings.TrimSpace(html) == "" {
		html, err = c.extractFromPage(ctx, page)
		if err != nil {
			return nil, err
		}
	}

	cleaned, err := cleanArticleHTML(html)
	if err != nil {
		return nil, err
	}
	content, err := c.converter.Convert(cleaned)
	if err != nil {
		return nil, err
	}
	content = normalizeText(content)
	if content == "" {
		return nil, wikirag.Errorf(wikirag.ENOTFOUND, "article %q has no content", title)
	}

	article := &wikirag.Article{
		Title:       page.Title,
		URL:         page.FullURL,
		Content:     content,
		ContentHash: fmt.Sprintf("%016x", xxhash.Sum64String(content)),
		FetchedAt:   time.Now().UTC(),
	}

	c.toCache(ctx, article)
	return article, nil
}

// queryResponse is the envelope of a query API response.
type queryResponse struct {
	Query struct {
		Pages []pageResponse `json:"pages"`
	} `json:"query"`
}

// pageResponse is the subset of the query API page object the client reads.
type pageResponse struct {
	Title   string `json:"title"`
	Extract string `json:"extract"`
	FullURL string `json:"fullurl"`
	Missing bool   `json:"missing"`
	Invalid bool   `json:"invalid"`
}

// queryPage asks the query endpoint for a page's HTML extract and canonical
// URL. Redirects are followed so the returned title may differ from the
// requested one.
func (c *Client) queryPage(ctx context.Context, title string) (*pageResponse, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("format", "json")
	params.Set("formatversion", "2")
	params.Set("prop", "extracts|info")
	params.Set("inprop", "url")
	params.Set("redirects", "1")
	params.Set("titles", title)

	body, err := c.api(ctx, params)
	if err != nil {
		return nil, err
	}

	var resp queryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, wikirag.Errorf(wikirag.EUNAVAILABLE, "malformed page response: %v", err)
	}
	if len(resp.Query.Pages) == 0 {
		return nil, wikirag.Errorf(wikirag.ENOTFOUND, "article %q not found", title)
	}

	page := resp.Query.Pages[0]
	if page.Missing || page.Invalid {
		return nil, wikirag.Errorf(wikirag.ENOTFOUND, "article %q not found", title)
	}
	return &page, nil
}

// extractFromPage recovers article HTML for pages the extracts prop cannot
// serve, by fetching the rendered page and running the extractor over it.
func (c *Client) extractFromPage(ctx context.Context, page *pageResponse) (string, error) {
	if c.extractor == nil || page.FullURL == "" {
		return "", wikirag.Errorf(wikirag.ENOTFOUND, "article %q has no extract", page.Title)
	}

	c.logger.Debug("empty extract, extracting from rendered page", "title", page.Title, "url", page.FullURL)

	html, err := c.get(ctx, page.FullURL)
	if err != nil {
		return "", err
	}
	res, err := c.extractor.Extract(string(html))
	if err != nil {
		return "", err
	}
	return res.ContentHTML, nil
}

// api performs a GET against the API endpoint with the given parameters.
func (c *Client) api(ctx context.Context, params url.Values) ([]byte, error) {
	return c.get(ctx, c.baseURL+"?"+params.Encode())
}

// get fetches a URL with retries. A request is attempted len(retryDelays)+1
// times; transport failures after the last attempt surface as EUNAVAILABLE.
func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	maxAttempts := len(c.retryDelays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		body, err := c.fetch(ctx, u)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if attempt >= maxAttempts-1 {
			break
		}

		// Check context before sleeping
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		c.logger.Debug("retrying request", "url", u, "attempt", attempt+2, "error", err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.retryDelays[attempt]):
		}
	}

	return nil, wikirag.Errorf(wikirag.EUNAVAILABLE, "wikipedia request failed after %d attempts: %v", maxAttempts, lastErr)
}

// fetch performs a single HTTP GET, honoring the rate limiter.
func (c *Client) fetch(ctx context.Context, u string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, u)
	}

	return io.ReadAll(resp.Body)
}

// fromCache returns the cached article for title when present and fresh.
func (c *Client) fromCache(ctx context.Context, title string) *wikirag.Article {
	if c.cache == nil {
		return nil
	}

	article, err := c.cache.GetArticle(ctx, title)
	if err != nil {
		if wikirag.ErrorCode(err) != wikirag.ENOTFOUND {
			c.logger.Warn("article cache read failed", "title", title, "error", err)
		}
		return nil
	}
	if c.cacheMaxAge > 0 && time.Since(article.FetchedAt) > c.cacheMaxAge {
		return nil
	}

	c.logger.Debug("article served from cache", "title", title)
	return article
}

// toCache stores a fetched article. Cache write failures are logged, not
// returned: the fetch itself succeeded.
func (c *Client) toCache(ctx context.Context, article *wikirag.Article) {
	if c.cache == nil {
		return
	}
	if err := c.cache.PutArticle(ctx, article); err != nil {
		c.logger.Warn("article cache write failed", "title", article.Title, "error", err)
	}
}
