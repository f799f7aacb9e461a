package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
)

// fingerprintPrefixLen is how many leading bytes of each file take
// part in the fingerprint. Hashing a prefix instead of whole files
// keeps the key cheap for large uploads; a change past the prefix is
// not detected, which matches the freshness guarantee the cache makes.
const fingerprintPrefixLen = 1024

// Fingerprint derives a deterministic cache key from the file set.
// Files are visited in path order, and each contributes its path and
// the first fingerprintPrefixLen bytes of content to a sha256 digest.
func (c *Cache) Fingerprint(files []domain.SourceFile) (string, error) {
	if len(files) == 0 {
		return "", fmt.Errorf("%w: no source files to fingerprint", domain.ErrEmptyInput)
	}

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	sort.Strings(paths)

	h := sha256.New()
	buf := make([]byte, fingerprintPrefixLen)
	for _, path := range paths {
		h.Write([]byte(path))
		h.Write([]byte{0})

		f, err := os.Open(path)
		if err != nil {
			return "", fmt.Errorf("fingerprint %s: %w", path, err)
		}
		n, err := io.ReadFull(f, buf)
		f.Close()
		if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
			return "", fmt.Errorf("fingerprint %s: %w", path, err)
		}
		h.Write(buf[:n])
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
