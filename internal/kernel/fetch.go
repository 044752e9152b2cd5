package kernel

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/purduesigbots/pros-cli/internal/branding"
)

// LatestPointerName is the resource on the kernel site whose body is the
// identifier of the newest kernel.
const LatestPointerName = "latest.kernel"

// Remote is the source kernels are fetched from.
type Remote interface {
	// LatestPointer returns the trimmed identifier the site advertises as latest.
	LatestPointer(ctx context.Context) (string, error)
	// Archive downloads <id>.zip.
	Archive(ctx context.Context, id string) ([]byte, error)
	// ArchiveURL returns the location Archive downloads from.
	ArchiveURL(id string) string
}

// Fetcher downloads kernel data from a static site over HTTP.
type Fetcher struct {
	site       string
	httpClient *http.Client
	userAgent  string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.httpClient = c
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// NewFetcher creates a Fetcher for site. The site may omit its trailing slash.
func NewFetcher(site string, opts ...Option) *Fetcher {
	f := &Fetcher{
		site:       strings.TrimSpace(site),
		httpClient: http.DefaultClient,
		userAgent:  branding.UserAgent(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Site returns the site this fetcher downloads from.
func (f *Fetcher) Site() string {
	return f.site
}

// URL returns the location of name on the site.
func (f *Fetcher) URL(name string) string {
	return strings.TrimRight(f.site, "/") + "/" + name
}

// ArchiveURL returns the location of the archive for kernel id.
func (f *Fetcher) ArchiveURL(id string) string {
	return f.URL(id + ".zip")
}

// LatestPointer fetches latest.kernel and returns its trimmed body.
func (f *Fetcher) LatestPointer(ctx context.Context) (string, error) {
	body, err := f.get(ctx, f.URL(LatestPointerName))
	if err != nil {
		return "", err
	}
	id := NormalizeID(string(body))
	if id == "" {
		return "", fmt.Errorf("%s is empty", LatestPointerName)
	}
	return id, nil
}

// Archive downloads the zip archive for kernel id.
func (f *Fetcher) Archive(ctx context.Context, id string) ([]byte, error) {
	return f.get(ctx, f.ArchiveURL(id))
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	if f.site == "" {
		return nil, ErrNoSite
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetching %s: server returned status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}
	return body, nil
}
