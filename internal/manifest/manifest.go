// Package manifest parses and serializes the delimited split-manifest block
// embedded in a planning document.
//
// The block must be the first non-blank content of the document:
//
//	<!-- SPLIT_MANIFEST
//	01-backend
//	02-frontend
//	END_MANIFEST -->
//
// Everything after the end marker is free-form prose and outside the codec's
// concern. Decode and Encode satisfy the round-trip law
// Decode(Encode(m)) == m.
package manifest

import (
	"errors"
	"fmt"
	"strings"

	"splitplan/internal/naming"
)

// Block delimiters. The start marker opens an HTML comment so the block stays
// invisible when the document is rendered.
const (
	StartMarker = "<!-- SPLIT_MANIFEST"
	EndMarker   = "END_MANIFEST -->"
)

// ErrMalformed marks every structural manifest failure.
var ErrMalformed = errors.New("malformed manifest")

// ParseError describes a structural failure with enough detail for the caller
// to present an actionable message.
type ParseError struct {
	Line   int // 1-based document line, 0 when not line-scoped
	Detail string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed manifest: line %d: %s", e.Line, e.Detail)
	}
	return "malformed manifest: " + e.Detail
}

func (e *ParseError) Unwrap() error { return ErrMalformed }

// Entry is one ordered split declaration.
type Entry struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
}

// DirName renders the NN-name directory identifier for the entry.
func (e Entry) DirName() string {
	return fmt.Sprintf("%02d-%s", e.Index, e.Name)
}

// Manifest is the validated, ordered split plan.
type Manifest struct {
	Entries []Entry
}

// DirNames returns the NN-name identifiers in declaration order.
func (m *Manifest) DirNames() []string {
	names := make([]string, len(m.Entries))
	for i, entry := range m.Entries {
		names[i] = entry.DirName()
	}
	return names
}

// Decode extracts and validates the manifest block from a document. Rules are
// applied in order and the first failure wins: block-first placement, per-line
// grammar, unique indices, unique names.
func Decode(doc string) (*Manifest, error) {
	lines := strings.Split(doc, "\n")

	start := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.TrimSpace(line) != StartMarker {
			return nil, &ParseError{Line: i + 1, Detail: fmt.Sprintf("expected %q as the first content of the document", StartMarker)}
		}
		start = i
		break
	}
	if start < 0 {
		return nil, &ParseError{Detail: "document is empty; no manifest block found"}
	}

	var entries []Entry
	seenIndex := map[int]int{}   // index -> line
	seenName := map[string]int{} // name -> line
	end := -1
	for i := start + 1; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == EndMarker {
			end = i
			break
		}
		if line == "" {
			continue
		}
		if !naming.IsSplitDirName(line) {
			return nil, &ParseError{Line: i + 1, Detail: fmt.Sprintf("%q does not match NN-kebab-name (e.g. 01-backend)", line)}
		}
		index := naming.SplitIndex(line)
		name := line[3:]
		if prev, ok := seenIndex[index]; ok {
			return nil, &ParseError{Line: i + 1, Detail: fmt.Sprintf("duplicate index %02d (first used on line %d)", index, prev)}
		}
		if prev, ok := seenName[name]; ok {
			return nil, &ParseError{Line: i + 1, Detail: fmt.Sprintf("duplicate name %q (first used on line %d)", name, prev)}
		}
		seenIndex[index] = i + 1
		seenName[name] = i + 1
		entries = append(entries, Entry{Index: index, Name: name})
	}
	if end < 0 {
		return nil, &ParseError{Line: start + 1, Detail: fmt.Sprintf("missing %q end marker", EndMarker)}
	}
	if len(entries) == 0 {
		return nil, &ParseError{Line: start + 1, Detail: "manifest block is empty; expected one or more NN-kebab-name lines"}
	}

	return &Manifest{Entries: entries}, nil
}

// Encode renders the manifest block. Encoding then decoding reproduces an
// equal entry sequence.
func Encode(m *Manifest) string {
	var b strings.Builder
	b.WriteString(StartMarker)
	b.WriteByte('\n')
	for _, entry := range m.Entries {
		b.WriteString(entry.DirName())
		b.WriteByte('\n')
	}
	b.WriteString(EndMarker)
	b.WriteByte('\n')
	return b.String()
}

// ReplaceBlock rewrites the manifest block of an existing document, keeping
// all prose after the end marker intact. The existing block must itself be
// well-placed; its entries are discarded in favor of m.
func ReplaceBlock(doc string, m *Manifest) (string, error) {
	if strings.TrimSpace(doc) == "" {
		return Encode(m), nil
	}
	if _, err := Decode(doc); err != nil {
		return "", err
	}

	lines := strings.Split(doc, "\n")
	end := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == EndMarker {
			end = i
			break
		}
	}

	var b strings.Builder
	b.WriteString(Encode(m))
	if end+1 < len(lines) {
		b.WriteString(strings.Join(lines[end+1:], "\n"))
	}
	return b.String(), nil
}
