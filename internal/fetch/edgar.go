package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/openroster/affilscan/internal/core/domain"
	"github.com/openroster/affilscan/internal/core/ports/driven"
)

// Ensure EDGARFetcher implements the interface.
var _ driven.FilingFetcher = (*EDGARFetcher)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://www.sec.gov"
	DefaultTimeout = 60 * time.Second
)

// Config holds configuration for the EDGAR fetcher.
type Config struct {
	// UserAgent is the contact identity header (required by the archive).
	UserAgent string

	// BaseURL is the archive base URL (default: https://www.sec.gov).
	BaseURL string

	// Timeout is the request timeout (default: 60s).
	Timeout time.Duration
}

// EDGARFetcher downloads filing documents from the EDGAR archive.
type EDGARFetcher struct {
	client    *http.Client
	baseURL   string
	userAgent string
	limiter   *RateLimiter
}

// NewEDGARFetcher creates a rate-limited archive fetcher.
func NewEDGARFetcher(cfg Config) (*EDGARFetcher, error) {
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("edgar: %w", domain.ErrIdentityRequired)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &EDGARFetcher{
		client:    &http.Client{Timeout: cfg.Timeout},
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		limiter:   NewRateLimiter(),
	}, nil
}

// Fetch downloads the document the metadata points at. The document URL
// takes precedence; without one the complete submission file is derived
// from the registrant and accession numbers.
func (f *EDGARFetcher) Fetch(ctx context.Context, meta domain.FilingMetadata) (string, error) {
	url, err := f.documentURL(meta)
	if err != nil {
		return "", err
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("edgar: waiting for rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("edgar: create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("edgar: fetching %s: %w", meta.AccessionNo, err)
	}
	defer resp.Body.Close()

	f.limiter.UpdateFromResponse(resp)

	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("edgar: %s: %w", meta.AccessionNo, domain.ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("edgar: %s: status %d", meta.AccessionNo, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("edgar: reading %s: %w", meta.AccessionNo, err)
	}

	return string(body), nil
}

// documentURL resolves where to download the document from.
func (f *EDGARFetcher) documentURL(meta domain.FilingMetadata) (string, error) {
	if meta.DocumentURL != "" {
		return meta.DocumentURL, nil
	}

	if meta.CompanyCIK == "" || meta.AccessionNo == "" {
		return "", fmt.Errorf("edgar: no document URL and no CIK/accession pair: %w",
			domain.ErrInvalidInput)
	}

	// The complete submission text file lives under the dashed
	// accession number.
	cik := strings.TrimLeft(meta.CompanyCIK, "0")
	return fmt.Sprintf("%s/Archives/edgar/data/%s/%s.txt",
		f.baseURL, cik, meta.AccessionNo), nil
}

// Close releases resources.
func (f *EDGARFetcher) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}
