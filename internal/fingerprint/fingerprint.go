// Package fingerprint computes stable content digests for input documents.
//
// Digests are used only for equality comparison between invocations, never
// for security decisions. The format is "sha256:<hex>" so stored values stay
// self-describing if the algorithm ever changes.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
)

// Compute returns the digest of the given bytes.
func Compute(data []byte) string {
	sum := sha256.Sum256(data)
	return "sha256:" + hex.EncodeToString(sum[:])
}

// FromFile reads a file and returns its content digest. Read failures are
// returned unwrapped enough for callers to classify via errors.Is against
// fs.ErrNotExist and fs.ErrPermission.
func FromFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read input %s: %w", path, err)
	}
	return Compute(data), nil
}
