package workflow

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"splitplan/internal/manifest"
	"splitplan/internal/materialize"
	"splitplan/internal/naming"
)

var (
	ErrInputUnavailable   = errors.New("input unavailable")
	ErrManifestMalformed  = errors.New("manifest malformed")
	ErrNamingInvalid      = errors.New("naming invalid")
	ErrDirectoryCollision = errors.New("directory collision")
	ErrSessionNamespace   = errors.New("session namespace unavailable")
	ErrStorageUnwritable  = errors.New("storage unwritable")
)

// Wrap builds an error message that includes operation context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrStorageUnwritable
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind maps an error to the stable failure kind reported to callers.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInputUnavailable), errors.Is(err, fs.ErrNotExist):
		return "input-unavailable"
	case errors.Is(err, ErrManifestMalformed), errors.Is(err, manifest.ErrMalformed):
		return "manifest-malformed"
	case errors.Is(err, ErrNamingInvalid), errors.Is(err, naming.ErrInvalidName):
		return "naming-invalid"
	case errors.Is(err, ErrDirectoryCollision), errors.Is(err, materialize.ErrCollision):
		return "directory-collision"
	case errors.Is(err, ErrSessionNamespace):
		return "session-namespace"
	case errors.Is(err, ErrStorageUnwritable), errors.Is(err, fs.ErrPermission):
		return "storage-unwritable"
	default:
		return "internal"
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "workflow failure"
	}
	return strings.Join(parts, ": ")
}
