package scraper

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
)

// PageRenderer navigates to a URL, waits until the page is stable and
// returns the rendered HTML. A renderer instance is not safe for concurrent
// use; parallel walks each get their own.
type PageRenderer interface {
	Render(ctx context.Context, url string, readyTimeout time.Duration) (string, error)
	Close()
}

// Browser renders pages through a persistent Chromium profile. Reusing the
// profile keeps cookies and fingerprint state across runs, which the target
// rewards with fewer challenges.
type Browser struct {
	mu          sync.Mutex
	pw          *playwright.Playwright
	context     playwright.BrowserContext
	page        playwright.Page
	headless    bool
	initialized bool
}

func NewBrowser(headless bool) *Browser {
	return &Browser{headless: headless}
}

func (b *Browser) ensure() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.initialized {
		return nil
	}

	var err error
	b.pw, err = playwright.Run()
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}

	cwd, _ := os.Getwd()
	userDataDir := filepath.Join(cwd, "browser_data")
	b.context, err = b.pw.Chromium.LaunchPersistentContext(userDataDir, playwright.BrowserTypeLaunchPersistentContextOptions{
		Headless: playwright.Bool(b.headless),
		Args: []string{
			"--disable-blink-features=AutomationControlled",
			"--disable-dev-shm-usage",
			"--no-sandbox",
		},
	})
	if err != nil {
		return fmt.Errorf("failed to launch browser: %w", err)
	}

	b.page, err = b.context.NewPage()
	if err != nil {
		return fmt.Errorf("failed to create page: %w", err)
	}

	b.initialized = true
	return nil
}

// Render navigates to url and returns the page HTML once loading settles.
// A navigation timeout is transient unless the partial content already
// carries a not-found signature, in which case the terminal outcome wins.
func (b *Browser) Render(ctx context.Context, url string, readyTimeout time.Duration) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := b.ensure(); err != nil {
		return "", Transient(url, err)
	}

	_, err := b.page.Goto(url, playwright.PageGotoOptions{
		Timeout:   playwright.Float(float64(readyTimeout.Milliseconds())),
		WaitUntil: playwright.WaitUntilStateLoad,
	})
	if err != nil {
		if content, cerr := b.page.Content(); cerr == nil && ContainsNotFound(content) {
			return "", NotFound(url)
		}
		return "", Transient(url, err)
	}

	content, err := b.page.Content()
	if err != nil {
		return "", Transient(url, err)
	}
	return content, nil
}

// Cookies returns the browser context's current cookies, used to mint
// authenticated request sessions.
func (b *Browser) Cookies() ([]playwright.Cookie, error) {
	if err := b.ensure(); err != nil {
		return nil, err
	}
	return b.context.Cookies()
}

func (b *Browser) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.page != nil {
		b.page.Close()
		b.page = nil
	}
	if b.context != nil {
		b.context.Close()
	}
	if b.pw != nil {
		b.pw.Stop()
	}
	b.initialized = false
}
