package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfiguration marks data or configuration problems that retrying
	// cannot fix (empty candidate set, unexpected routing token).
	ErrConfiguration = errors.New("configuration error")
	// ErrInvariant marks violated filesystem-state invariants (missing current
	// image, invalid source path, failed post-copy check).
	ErrInvariant = errors.New("invariant violation")
	// ErrUpstream marks failures of the remote model or the renderer.
	ErrUpstream   = errors.New("upstream failure")
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
)

// Kind names the error class used in logs and API responses.
type Kind string

const (
	KindConfiguration Kind = "configuration"
	KindInvariant     Kind = "invariant"
	KindUpstream      Kind = "upstream"
	KindValidation    Kind = "validation"
	KindNotFound      Kind = "not_found"
	KindUnknown       Kind = "unknown"
)

// Wrap builds an error message that includes component context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrUpstream
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Classify maps an error to its Kind. Unmarked errors are reported as unknown.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrConfiguration):
		return KindConfiguration
	case errors.Is(err, ErrInvariant):
		return KindInvariant
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrUpstream):
		return KindUpstream
	default:
		return KindUnknown
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
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
