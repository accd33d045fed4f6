package carousel

import (
	"fmt"

	"trmnl/internal/services"
)

var (
	// ErrNoActiveImage reports an empty slot where a current image is required.
	ErrNoActiveImage = fmt.Errorf("%w: no active image in working directory", services.ErrInvariant)
	// ErrSlotInconsistent reports a promoted bitmap missing right after the copy.
	ErrSlotInconsistent = fmt.Errorf("%w: working slot inconsistent after copy", services.ErrInvariant)
	// ErrInvalidSourceImage matches every InvalidSourceImageError.
	ErrInvalidSourceImage = fmt.Errorf("%w: invalid source image", services.ErrInvariant)
)

// InvalidSourceImageError describes why an engine result was refused.
type InvalidSourceImageError struct {
	Path   string
	Reason string
}

func (e *InvalidSourceImageError) Error() string {
	return fmt.Sprintf("invalid source image %s: %s", e.Path, e.Reason)
}

func (e *InvalidSourceImageError) Is(target error) bool {
	return target == ErrInvalidSourceImage || target == services.ErrInvariant
}
