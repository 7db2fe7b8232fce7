// Package digest provides the content fingerprint function used to compare
// local and remote file versions. The function is injectable so the rest of
// the system never assumes a specific algorithm.
package digest

import (
	"crypto/sha1" //nolint:gosec // legacy algorithm kept for compatibility, opt-in only
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/glorpus-work/refetch/pkg/errors"
)

// Func maps a byte sequence to a stable fixed-length hex identifier.
// Implementations must be pure and deterministic.
type Func func(data []byte) string

// DefaultAlgorithm is used when the configuration does not name one.
const DefaultAlgorithm = "sha256"

// SHA256 is the default digest function.
func SHA256(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// New returns the digest function for a named algorithm.
func New(algorithm string) (Func, error) {
	switch strings.ToLower(strings.TrimSpace(algorithm)) {
	case "", DefaultAlgorithm:
		return SHA256, nil
	case "sha512":
		return func(data []byte) string {
			sum := sha512.Sum512(data)
			return hex.EncodeToString(sum[:])
		}, nil
	case "sha1":
		return func(data []byte) string {
			sum := sha1.Sum(data) //nolint:gosec
			return hex.EncodeToString(sum[:])
		}, nil
	default:
		return nil, fmt.Errorf("%w: %s", errors.ErrUnknownAlgorithm, algorithm)
	}
}

// File returns the digest of the file at path, or (nil, nil) if the file
// does not exist. Absence is not an error: a missing local file is a normal
// reconciliation input.
func File(path string, fn Func) (*string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s for digest", path)
	}
	d := fn(data)
	return &d, nil
}
