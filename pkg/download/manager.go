package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	pkgerrors "github.com/glorpus-work/refetch/pkg/errors"
)

// ManagerImpl is a simple HTTP-based fetcher. It is intentionally minimal:
// one GET per fetch, no retries, no partial downloads.
type ManagerImpl struct {
	client    *http.Client
	userAgent string
}

// NewManager creates a new fetcher with the given timeout and user agent.
func NewManager(timeout time.Duration, userAgent string) *ManagerImpl {
	if userAgent == "" {
		userAgent = "refetch/1.0"
	}
	return &ManagerImpl{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Fetch downloads the resource at u and returns its bytes.
func (m *ManagerImpl) Fetch(ctx context.Context, u *url.URL) ([]byte, error) {
	if u == nil {
		return nil, fmt.Errorf("nil URL: %w", pkgerrors.ErrFetchFailed)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to create request")
	}
	req.Header.Set("User-Agent", m.userAgent)

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", pkgerrors.ErrFetchFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d: %w", resp.StatusCode, pkgerrors.ErrFetchFailed)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", pkgerrors.ErrFetchFailed, err)
	}
	return data, nil
}
