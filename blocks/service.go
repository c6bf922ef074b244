package blocks

import (
	"context"

	"github.com/google/uuid"
)

// Service exposes reusable block management use cases. Validation runs
// before every write: slugs stay unique among non-deleted blocks and the
// block reference graph stays acyclic.
type Service interface {
	Create(ctx context.Context, req CreateBlockRequest) (*ReusableBlock, error)
	Get(ctx context.Context, id uuid.UUID) (*ReusableBlock, error)
	GetBySlug(ctx context.Context, slug string) (*ReusableBlock, error)
	List(ctx context.Context) ([]*ReusableBlock, error)
	Update(ctx context.Context, req UpdateBlockRequest) (*ReusableBlock, error)
	Delete(ctx context.Context, req DeleteBlockRequest) error
	Publish(ctx context.Context, id uuid.UUID) (*ReusableBlock, error)
	Unpublish(ctx context.Context, id uuid.UUID) (*ReusableBlock, error)
}

// CreateBlockRequest captures the information required to create a block.
// Slug is optional; when empty it is derived from Name.
type CreateBlockRequest struct {
	Name    string
	Slug    string
	Content Segments
}

// UpdateBlockRequest captures mutable fields for an existing block. Nil
// pointers leave the current value untouched.
type UpdateBlockRequest struct {
	ID      uuid.UUID
	Name    *string
	Slug    *string
	Content *Segments
}

// DeleteBlockRequest captures block deletion inputs. Deletes are soft by
// default so dangling references degrade at render time instead of breaking
// referential integrity.
type DeleteBlockRequest struct {
	ID         uuid.UUID
	HardDelete bool
}
