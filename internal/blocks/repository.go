package blocks

import (
	"context"
	"fmt"

	"github.com/goliatone/go-reusable-blocks/blocks"
	"github.com/google/uuid"
)

// Repository exposes persistence operations for reusable blocks. Soft
// deleted rows are invisible to every read so dangling references degrade
// at render time instead of resurrecting removed content.
type Repository interface {
	Create(ctx context.Context, block *blocks.ReusableBlock) (*blocks.ReusableBlock, error)
	GetByID(ctx context.Context, id uuid.UUID) (*blocks.ReusableBlock, error)
	GetBySlug(ctx context.Context, slug string) (*blocks.ReusableBlock, error)
	List(ctx context.Context) ([]*blocks.ReusableBlock, error)
	Update(ctx context.Context, block *blocks.ReusableBlock) (*blocks.ReusableBlock, error)
	Delete(ctx context.Context, id uuid.UUID, hard bool) error
}

// NotFoundError is returned when a reusable block cannot be located.
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
