package blocks

import (
	"context"
	"fmt"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/goliatone/go-reusable-blocks/blocks"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewBlockRepository creates the raw go-repository-bun repository for
// reusable blocks.
func NewBlockRepository(db *bun.DB) repository.Repository[*blocks.ReusableBlock] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*blocks.ReusableBlock]{
		NewRecord:          func() *blocks.ReusableBlock { return &blocks.ReusableBlock{} },
		GetID:              func(b *blocks.ReusableBlock) uuid.UUID { return b.ID },
		SetID:              func(b *blocks.ReusableBlock, id uuid.UUID) { b.ID = id },
		GetIdentifier:      func() string { return "slug" },
		GetIdentifierValue: func(b *blocks.ReusableBlock) string { return b.Slug },
	})
}

// BunRepository implements Repository with optional read caching. Render
// paths resolve referenced blocks repeatedly, so cached reads pay off on
// pages that embed the same fragment many times.
type BunRepository struct {
	repo repository.Repository[*blocks.ReusableBlock]
	now  func() time.Time
}

// NewBunRepository creates a block repository without caching.
func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache creates a block repository with caching services.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunRepository {
	base := NewBlockRepository(db)
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
	}
	return &BunRepository{repo: base, now: time.Now}
}

func (r *BunRepository) Create(ctx context.Context, block *blocks.ReusableBlock) (*blocks.ReusableBlock, error) {
	record, err := r.repo.Create(ctx, block)
	if err != nil {
		return nil, mapRepositoryError(err, "reusable_block", block.Slug)
	}
	return record, nil
}

func (r *BunRepository) GetByID(ctx context.Context, id uuid.UUID) (*blocks.ReusableBlock, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.id = ?", id).Where("?TableAlias.deleted_at IS NULL")
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "reusable_block", id.String())
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "reusable_block", Key: id.String()}
	}
	return records[0], nil
}

func (r *BunRepository) GetBySlug(ctx context.Context, slug string) (*blocks.ReusableBlock, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.slug = ?", slug).Where("?TableAlias.deleted_at IS NULL")
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "reusable_block", slug)
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "reusable_block", Key: slug}
	}
	return records[0], nil
}

func (r *BunRepository) List(ctx context.Context) ([]*blocks.ReusableBlock, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.deleted_at IS NULL").Order("updated_at DESC")
		}),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "reusable_block", "")
	}
	return records, nil
}

func (r *BunRepository) Update(ctx context.Context, block *blocks.ReusableBlock) (*blocks.ReusableBlock, error) {
	updated, err := r.repo.Update(ctx, block,
		repository.UpdateByID(block.ID.String()),
		repository.UpdateColumns(
			"name",
			"slug",
			"content",
			"live",
			"deleted_at",
			"updated_at",
		),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "reusable_block", block.ID.String())
	}
	return updated, nil
}

func (r *BunRepository) Delete(ctx context.Context, id uuid.UUID, hard bool) error {
	block, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if hard {
		if err := r.repo.Delete(ctx, block); err != nil {
			return mapRepositoryError(err, "reusable_block", id.String())
		}
		return nil
	}

	now := r.now()
	block.DeletedAt = &now
	block.UpdatedAt = now
	if _, err := r.Update(ctx, block); err != nil {
		return err
	}
	return nil
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}

	if errors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: resource, Key: key}
	}

	return fmt.Errorf("%s repository error: %w", resource, err)
}

var _ Repository = (*BunRepository)(nil)
