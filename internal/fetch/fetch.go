// Package fetch downloads job postings and reduces their HTML to readable text.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/jonathan/resume-studio/internal/logger"
)

const (
	// DefaultTimeout bounds a single page download.
	DefaultTimeout = 20 * time.Second
	// DefaultUserAgent is sent with every request.
	DefaultUserAgent = "Mozilla/5.0 (compatible; ResumeStudio/1.0)"
	// DefaultMaxBytes caps how much of a response body is read.
	DefaultMaxBytes = 4 << 20
)

// Page is a downloaded document.
type Page struct {
	URL         string
	HTML        string
	ContentType string
	StatusCode  int
}

// Error describes a failed download.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures downloads. Zero values fall back to the defaults.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	MaxBytes  int64
	Headers   map[string]string
	// Client overrides the HTTP client, mostly for tests.
	Client *http.Client
}

// DefaultOptions returns the options used when nil is passed.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
		MaxBytes:  DefaultMaxBytes,
	}
}

func (o *Options) withDefaults() *Options {
	out := DefaultOptions()
	if o == nil {
		return out
	}
	if o.Timeout > 0 {
		out.Timeout = o.Timeout
	}
	if o.UserAgent != "" {
		out.UserAgent = o.UserAgent
	}
	if o.MaxBytes > 0 {
		out.MaxBytes = o.MaxBytes
	}
	out.Headers = o.Headers
	out.Client = o.Client
	return out
}

// URL downloads a page. A non-200 response returns both the page and an error.
func URL(ctx context.Context, rawURL string, opts *Options) (*Page, error) {
	opts = opts.withDefaults()

	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, &Error{URL: rawURL, Message: "invalid URL", Cause: err}
	}

	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", opts.UserAgent)
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, opts.MaxBytes))
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "failed to read body", Cause: err}
	}

	page := &Page{
		URL:         rawURL,
		HTML:        string(body),
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}
	if resp.StatusCode != http.StatusOK {
		return page, &Error{URL: rawURL, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}
	return page, nil
}

// JobDescription downloads a job posting and returns its main text, using the
// selectors of the job board the URL belongs to.
func JobDescription(ctx context.Context, rawURL string, opts *Options) (string, error) {
	page, err := URL(ctx, rawURL, opts)
	if err != nil {
		return "", err
	}

	platform := DetectPlatform(rawURL)
	text, err := ExtractMainText(page.HTML, ContentSelectors(platform), NoiseSelectors(platform)...)
	if err != nil {
		return "", &Error{URL: rawURL, Message: "failed to parse page", Cause: err}
	}
	if text == "" {
		return "", &Error{URL: rawURL, Message: "page has no readable text"}
	}

	logger.Debug().
		Str("url", rawURL).
		Str("platform", string(platform)).
		Int("chars", len(text)).
		Msg("fetched job description")
	return text, nil
}

// ExtractMainText strips boilerplate and noise from an HTML page and returns
// the text of the first element matching contentSelectors, or of the body.
func ExtractMainText(page string, contentSelectors []string, noiseSelectors ...string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find(strings.Join(boilerplateSelectors, ", ")).Remove()
	if len(noiseSelectors) > 0 {
		doc.Find(strings.Join(noiseSelectors, ", ")).Remove()
	}

	content := doc.Find("body")
	for _, selector := range contentSelectors {
		if sel := doc.Find(selector); sel.Length() > 0 {
			content = sel.First()
			break
		}
	}

	// Block elements would otherwise run together once tags are dropped.
	content.Find("p, li, br, div, h1, h2, h3, h4, h5, h6, tr").Each(func(_ int, s *goquery.Selection) {
		s.AppendNodes(&html.Node{Type: html.TextNode, Data: "\n"})
	})

	return collapseLines(content.Text()), nil
}

var boilerplateSelectors = []string{
	"nav", "footer", "header", "script", "style", "noscript", "svg",
	".ad", ".advertisement", ".ads", ".sidebar", ".cookie-banner", ".popup",
}

// DefaultTextSelectors are tried on pages that are not job postings.
func DefaultTextSelectors() []string {
	return []string{"main", "article", ".content", "#content", ".main-content", "#main-content"}
}

// JobPostingSelectors are tried on job postings from unknown boards.
func JobPostingSelectors() []string {
	return []string{
		".job-description",
		"#job-description",
		".job-content",
		".posting-content",
		".job-details",
		"[data-testid='job-description']",
		"main",
		"article",
		".content",
		"#content",
	}
}

func collapseLines(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
