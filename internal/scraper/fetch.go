package scraper

import (
	"bytes"
	"io"
	"net/http"
	"slices"
	"time"

	"github.com/lazhrach20/auto-assistent-llm/logger"
	"github.com/lazhrach20/auto-assistent-llm/pkg/errors"
	"github.com/lazhrach20/auto-assistent-llm/services/cache"

	"golang.org/x/net/html/charset"
)

// Browser-like headers for the listings page. The source site serves the
// Japanese locale, so Accept-Language prefers ja.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Fetcher issues a single GET against the fixed search-results page.
// Retrying is the worker's job, not the fetcher's.
type Fetcher struct {
	URL       string
	CacheKey  string
	CacheSvc  cache.CacheService
	BlockTime time.Duration
	client    *http.Client
	log       *logger.Logger
}

// NewFetcher creates a fetcher for the given URL. cacheSvc may be nil,
// in which case rate-limit blocks are not recorded.
func NewFetcher(url string, timeout time.Duration, cacheSvc cache.CacheService, blockTime time.Duration) *Fetcher {
	return &Fetcher{
		URL:       url,
		CacheKey:  "fetch_blocked",
		CacheSvc:  cacheSvc,
		BlockTime: blockTime,
		client:    &http.Client{Timeout: timeout},
		log:       logger.ForComponent("fetcher"),
	}
}

// Fetch performs the GET and returns the page body decoded to UTF-8.
func (f *Fetcher) Fetch() (io.Reader, error) {
	// Honor an active rate-limit block
	if f.CacheSvc != nil && f.CacheKey != "" {
		if _, err := f.CacheSvc.Get(f.CacheKey); err == nil {
			return nil, errors.NewRateLimit("fetch", f.BlockTime)
		}
	}

	req, err := http.NewRequest(http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, errors.NewNetwork("fetch", "failed to create request", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "ja,en-US;q=0.9,en;q=0.8")
	req.Header.Set("Connection", "keep-alive")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, errors.NewNetwork("fetch", "failed to fetch URL", err)
	}
	defer resp.Body.Close()

	if slices.Contains([]int{http.StatusTooManyRequests, 430}, resp.StatusCode) {
		f.block()
		return nil, errors.NewRateLimit("fetch", f.BlockTime)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.NewNetwork("fetch", f.URL+" unexpected status code "+resp.Status, nil)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewNetwork("fetch", "failed to read response body", err)
	}

	f.log.Debug().
		Int("status", resp.StatusCode).
		Int("bytes", len(bodyBytes)).
		Msg("Fetched listings page")

	return toUTF8(bodyBytes, resp.Header.Get("Content-Type"))
}

// block records a rate-limit window so that subsequent fetch attempts
// are refused until it expires
func (f *Fetcher) block() {
	if f.CacheSvc == nil || f.CacheKey == "" {
		return
	}
	if err := f.CacheSvc.Set(f.CacheKey, []byte(f.BlockTime.String()), f.BlockTime); err != nil {
		f.log.Warn().Err(err).Msg("Failed to record rate-limit block")
	}
}

// toUTF8 converts the body to UTF-8 based on the Content-Type header
// and the body content
func toUTF8(body []byte, contentType string) (io.Reader, error) {
	encoding, name, _ := charset.DetermineEncoding(body, contentType)

	if name == "utf-8" || name == "UTF-8" {
		return bytes.NewReader(body), nil
	}

	utf8Reader := encoding.NewDecoder().Reader(bytes.NewReader(body))
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, utf8Reader); err != nil {
		return nil, errors.NewParsing("fetch", "failed to decode body to UTF-8", err)
	}

	return &buf, nil
}
