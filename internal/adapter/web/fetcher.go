// Package web fetches venue website text for the website length pass.
package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// maxPageBytes caps how much of a page is read. Track lengths appear in
// body copy; anything past the cap is menus and scripts.
const maxPageBytes = 1 << 20

var (
	scriptRe = regexp.MustCompile(`(?is)<(script|style|noscript)\b.*?</\s*(script|style|noscript)\s*>`)
	tagRe    = regexp.MustCompile(`(?s)<[^>]*>`)
	spaceRe  = regexp.MustCompile(`\s+`)
)

// Fetcher implements pass.PageFetcher with a plain HTTP GET. Sites that
// render their content with JavaScript yield little text and fall through
// to the permanent-miss path, which matches how often such sites state a
// track length in markup anyway.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
}

// NewFetcher creates a page fetcher.
func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  "mpintel-dataset-bot/1.0",
	}
}

// FetchText retrieves the page and strips it to visible text.
func (f *Fetcher) FetchText(ctx context.Context, url string) (string, error) {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "https://" + url
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch page: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("read page: %w", err)
	}
	return StripHTML(string(body)), nil
}

// StripHTML reduces markup to whitespace-normalized text.
func StripHTML(html string) string {
	text := scriptRe.ReplaceAllString(html, " ")
	text = tagRe.ReplaceAllString(text, " ")
	text = strings.NewReplacer("&nbsp;", " ", "&amp;", "&", "&lt;", "<", "&gt;", ">", "&#39;", "'", "&quot;", `"`).Replace(text)
	return strings.TrimSpace(spaceRe.ReplaceAllString(text, " "))
}
