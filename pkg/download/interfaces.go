//go:generate mockgen -destination=./mocks/download.go -package=mocks . Manager

package download

import (
	"context"
	"net/url"
)

// Manager defines the interface for fetching remote file content. A fetch
// either returns the complete body or an error; retry policy, if any,
// belongs to the caller.
type Manager interface {
	// Fetch downloads the resource at u and returns its bytes.
	Fetch(ctx context.Context, u *url.URL) ([]byte, error)
}
