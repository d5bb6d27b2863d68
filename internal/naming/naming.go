// Package naming enforces the split-identifier grammar and produces
// collision-free directory names.
//
// A split name is strict lowercase kebab-case: ^[a-z0-9]+(-[a-z0-9]+)*$. A
// split directory name prefixes that with a two-digit index, NN-name.
// Sanitize converts free-form titles toward the grammar on a best-effort
// basis; callers re-validate the result.
package naming

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultMaxNameLength bounds sanitized names when no limit is configured.
const DefaultMaxNameLength = 50

// ErrInvalidName marks names that fail the split-name grammar.
var ErrInvalidName = errors.New("invalid split name")

var (
	namePattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	dirPattern  = regexp.MustCompile(`^\d{2}-[a-z0-9]+(?:-[a-z0-9]+)*$`)

	disallowed   = regexp.MustCompile(`[^a-z0-9-]`)
	multiHyphen  = regexp.MustCompile(`-+`)
	stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Validate checks a bare split name (no index prefix) against the grammar.
func Validate(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidName)
	}
	if !namePattern.MatchString(name) {
		return fmt.Errorf("%w: %q must be lowercase kebab-case (e.g. auth-system)", ErrInvalidName, name)
	}
	// A bare name must not smuggle in an index prefix; NN- belongs to the
	// directory name, not the name.
	if dirPattern.MatchString(name) {
		return fmt.Errorf("%w: %q carries an NN- index prefix; pass the bare name", ErrInvalidName, name)
	}
	return nil
}

// IsSplitDirName reports whether a directory name matches NN-kebab-name.
func IsSplitDirName(name string) bool {
	return dirPattern.MatchString(name)
}

// SplitIndex extracts the numeric index from a valid split directory name.
func SplitIndex(name string) int {
	index, _ := strconv.Atoi(name[:2])
	return index
}

// Sanitize converts a raw title toward the split-name grammar: accents
// stripped, lowercased, separators replaced with hyphens, disallowed runes
// removed, hyphen runs collapsed, then truncated to maxLength. The result is
// best-effort and may still fail Validate (e.g. an all-punctuation title).
func Sanitize(raw string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = DefaultMaxNameLength
	}

	result := raw
	if stripped, _, err := transform.String(stripAccents, raw); err == nil {
		result = stripped
	}
	result = strings.ToLower(result)
	result = strings.NewReplacer(" ", "-", "_", "-").Replace(result)
	result = disallowed.ReplaceAllString(result, "")
	result = multiHyphen.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	if len(result) > maxLength {
		result = strings.TrimRight(result[:maxLength], "-")
	}
	return result
}

// NextIndex returns the two-digit index a new entry should receive given the
// existing NN-name identifiers: max(parsed indices) + 1, or "01" when none
// exist. The max-based rule survives partial runs where entries were removed.
func NextIndex(existing []string) (string, error) {
	next := 1
	for _, name := range existing {
		if !IsSplitDirName(name) {
			continue
		}
		if idx := SplitIndex(name); idx >= next {
			next = idx + 1
		}
	}
	if next > 99 {
		return "", fmt.Errorf("split index space exhausted (next would be %d)", next)
	}
	return fmt.Sprintf("%02d", next), nil
}

// FormatDirName builds an NN-name directory name from an index and a bare
// split name, validating both.
func FormatDirName(index int, name string) (string, error) {
	if index < 1 || index > 99 {
		return "", fmt.Errorf("split index must be 1-99, got %d", index)
	}
	if err := Validate(name); err != nil {
		return "", err
	}
	return fmt.Sprintf("%02d-%s", index, name), nil
}

// Disambiguate returns a directory name that does not collide with any
// existing name, appending -2, -3, ... to the base when needed. The second
// return value reports whether a rename occurred; callers must surface it.
func Disambiguate(base string, exists func(string) bool) (string, bool, error) {
	if !exists(base) {
		return base, false, nil
	}
	for suffix := 2; suffix < 100; suffix++ {
		candidate := fmt.Sprintf("%s-%d", base, suffix)
		if !exists(candidate) {
			return candidate, true, nil
		}
	}
	return "", false, fmt.Errorf("cannot find a unique name for %q", base)
}
