package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
)

// Checksum contains the digest and size of a file
type Checksum struct {
	SHA256 string
	Size   int64
}

// CalculateChecksum streams a file through SHA-256
func CalculateChecksum(path string) (*Checksum, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return nil, err
	}

	return &Checksum{
		SHA256: hex.EncodeToString(h.Sum(nil)),
		Size:   n,
	}, nil
}

// VerifySHA256 compares the digest of path with the expected hex digest.
// An optional "sha256:" prefix on expected is accepted.
func VerifySHA256(path, expected string) error {
	expected = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(expected), "sha256:"))
	if expected == "" {
		return nil
	}

	sum, err := CalculateChecksum(path)
	if err != nil {
		return fmt.Errorf("failed to calculate checksum: %w", err)
	}

	if sum.SHA256 != expected {
		return fmt.Errorf("checksum mismatch for %s: expected %s, got %s", path, expected, sum.SHA256)
	}
	return nil
}
