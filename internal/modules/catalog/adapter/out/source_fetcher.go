package out

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	apperrors "profithopper/internal/platform/errors"
)

const maxCatalogBytes = 8 << 20

// SourceFetcher reads a catalog over HTTP(S) or from the local filesystem.
type SourceFetcher struct {
	client *http.Client
}

func NewSourceFetcher(client *http.Client) *SourceFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &SourceFetcher{client: client}
}

func (f *SourceFetcher) Fetch(ctx context.Context, source string) ([]byte, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, fmt.Errorf("catalog source is empty: %w", apperrors.ErrCatalogLoad)
	}
	if !isRemote(source) {
		raw, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("read catalog file: %v: %w", err, apperrors.ErrCatalogLoad)
		}
		return raw, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %v: %w", err, apperrors.ErrCatalogLoad)
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.1")
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %v: %w", err, apperrors.ErrCatalogLoad)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch catalog: unexpected status %s: %w", resp.Status, apperrors.ErrCatalogLoad)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxCatalogBytes))
	if err != nil {
		return nil, fmt.Errorf("read catalog body: %v: %w", err, apperrors.ErrCatalogLoad)
	}
	return raw, nil
}

func isRemote(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
