package scrape

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// BrowserScraper renders pages in headless Chrome before extracting text.
// Used for sites that assemble their content client-side, where a plain
// fetch returns an empty shell.
type BrowserScraper struct {
	timeout  time.Duration
	execPath string
}

// NewBrowserScraper creates a chromedp-backed scraper. execPath may be
// empty to use the default browser discovery.
func NewBrowserScraper(timeout time.Duration, execPath string) *BrowserScraper {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &BrowserScraper{timeout: timeout, execPath: execPath}
}

func (b *BrowserScraper) Name() string { return "browser" }

// Scrape navigates to url in a fresh headless session and returns the
// rendered body text.
func (b *BrowserScraper) Scrape(ctx context.Context, url string) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(fetchUserAgent),
	)
	if b.execPath != "" {
		opts = append(opts, chromedp.ExecPath(b.execPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, b.timeout)
	defer cancelTimeout()

	var text string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Text("body", &text, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("browser scrape failed: %w", err)
	}

	return strings.Join(strings.Fields(text), " "), nil
}
