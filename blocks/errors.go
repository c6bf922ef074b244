package blocks

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrBlockIDRequired    = errors.New("blocks: block id required")
	ErrNameRequired       = errors.New("blocks: name is required")
	ErrSlugInvalid        = errors.New("blocks: slug contains invalid characters")
	ErrSlugExists         = errors.New("blocks: slug already exists")
	ErrCircularReference  = errors.New("blocks: circular reference detected")
	ErrSlotIDRequired     = errors.New("blocks: slot id is required")
	ErrSlotIDTooLong      = errors.New("blocks: slot id exceeds maximum length")
	ErrSegmentTypeUnknown = errors.New("blocks: segment type is not registered")
	ErrSegmentValueEmpty  = errors.New("blocks: segment value is required")
)

// CircularReferenceError identifies the block whose content closes a cycle
// in the reference graph.
type CircularReferenceError struct {
	BlockID uuid.UUID
	Name    string
}

func (e *CircularReferenceError) Error() string {
	if e == nil {
		return ErrCircularReference.Error()
	}
	name := strings.TrimSpace(e.Name)
	if name != "" {
		return fmt.Sprintf("%s: block=%s", ErrCircularReference.Error(), name)
	}
	if e.BlockID != uuid.Nil {
		return fmt.Sprintf("%s: id=%s", ErrCircularReference.Error(), e.BlockID)
	}
	return ErrCircularReference.Error()
}

func (e *CircularReferenceError) Unwrap() error {
	return ErrCircularReference
}

// SlugExistsError captures slug uniqueness conflicts surfaced at save time.
type SlugExistsError struct {
	Slug       string
	ExistingID uuid.UUID
}

func (e *SlugExistsError) Error() string {
	if e == nil {
		return ErrSlugExists.Error()
	}
	slug := strings.TrimSpace(e.Slug)
	if slug != "" {
		return fmt.Sprintf("%s: slug=%s", ErrSlugExists.Error(), slug)
	}
	return ErrSlugExists.Error()
}

func (e *SlugExistsError) Unwrap() error {
	return ErrSlugExists
}
