package domain

import (
	"errors"
	"fmt"
)

var (
	ErrAuth          = errors.New("authentication failure")
	ErrDocumentFetch = errors.New("document fetch failure")
	ErrAnnotate      = errors.New("annotate failure")
	// ErrInconsistentCancellation marks an event whose description was
	// annotated but whose occurrence could not be deleted. Requires
	// manual operator resolution.
	ErrInconsistentCancellation = errors.New("inconsistent cancellation")
	ErrTemporary                = errors.New("temporary failure")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
