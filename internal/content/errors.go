package content

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("content: not found")
	ErrSlugRequired    = errors.New("content: slug is required")
	ErrSlugExists      = errors.New("content: slug already exists")
	ErrParentNotFound  = errors.New("content: parent not found")
	ErrParentCycle     = errors.New("content: parent assignment creates a cycle")
	ErrInvalidOrder    = errors.New("content: unsupported order")
	ErrRefRequired     = errors.New("content: reference is required")
	ErrMetaKeyRequired = errors.New("content: meta key is required")
)

// NotFoundError represents missing records from repository lookups.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// IsNotFound reports whether err is a missing-record error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
