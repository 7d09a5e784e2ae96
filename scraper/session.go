package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	sessionWarmupURL = siteBaseURL + "/pretraga?category_id=18"
	sessionUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) " +
		"Chrome/137.0.0.0 Safari/537.36"
)

// Client is one authenticated request channel against the site API: an HTTP
// client carrying the browser's cookies plus the XSRF header the API expects.
type Client struct {
	http    *http.Client
	headers http.Header
}

func (c *Client) Get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	for k, vs := range c.headers {
		for _, v := range vs {
			req.Header.Set(k, v)
		}
	}
	return c.http.Do(req)
}

// SessionSource hands out the current authenticated client and can mint a
// fresh one when the fetcher rotates. A source is not safe for concurrent
// use; each fetch batch owns its own.
type SessionSource interface {
	Current(ctx context.Context) (*Client, error)
	Rotate(ctx context.Context) (*Client, error)
}

// BrowserSessionSource mints sessions by warming up the search page in the
// browser and harvesting its cookies, including the XSRF token the API
// requires on every request.
type BrowserSessionSource struct {
	browser *Browser
	base    *http.Client
	timeout time.Duration
	current *Client
	log     *logrus.Entry
}

func NewBrowserSessionSource(browser *Browser, base *http.Client, timeout time.Duration, log *logrus.Entry) *BrowserSessionSource {
	return &BrowserSessionSource{browser: browser, base: base, timeout: timeout, log: log}
}

func (s *BrowserSessionSource) Current(ctx context.Context) (*Client, error) {
	if s.current != nil {
		return s.current, nil
	}
	return s.Rotate(ctx)
}

func (s *BrowserSessionSource) Rotate(ctx context.Context) (*Client, error) {
	s.log.Debug("Minting fresh request session")

	if _, err := s.browser.Render(ctx, sessionWarmupURL, s.timeout); err != nil {
		return nil, fmt.Errorf("session warmup: %w", err)
	}

	cookies, err := s.browser.Cookies()
	if err != nil {
		return nil, fmt.Errorf("read browser cookies: %w", err)
	}

	siteURL, _ := url.Parse(siteBaseURL)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	var token string
	httpCookies := make([]*http.Cookie, 0, len(cookies))
	for _, c := range cookies {
		if c.Name == "XSRF-TOKEN" {
			token = c.Value
		}
		httpCookies = append(httpCookies, &http.Cookie{Name: c.Name, Value: c.Value})
	}
	if token == "" {
		return nil, fmt.Errorf("failed to fetch auth token from browser cookies")
	}
	jar.SetCookies(siteURL, httpCookies)

	client := *s.base
	client.Jar = jar

	headers := http.Header{}
	headers.Set("User-Agent", sessionUserAgent)
	headers.Set("Accept", "application/json, text/plain, */*")
	headers.Set("Referer", sessionWarmupURL)
	headers.Set("X-Xsrf-Token", token)

	s.current = &Client{http: &client, headers: headers}
	s.log.Info("Request session minted")
	return s.current, nil
}
