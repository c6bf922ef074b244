package blocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/goliatone/go-reusable-blocks/blocks"
	"github.com/google/uuid"
)

// NewMemoryRepository constructs an "in memory" block repository. It backs
// the default module wiring and the test fixtures.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		byID: make(map[uuid.UUID]*blocks.ReusableBlock),
	}
}

type memoryRepository struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]*blocks.ReusableBlock
}

func (m *memoryRepository) Create(_ context.Context, block *blocks.ReusableBlock) (*blocks.ReusableBlock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := cloneBlock(block)
	m.byID[cloned.ID] = cloned

	return cloneBlock(cloned), nil
}

func (m *memoryRepository) GetByID(_ context.Context, id uuid.UUID) (*blocks.ReusableBlock, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.byID[id]
	if !ok || record.DeletedAt != nil {
		return nil, &NotFoundError{Resource: "reusable_block", Key: id.String()}
	}
	return cloneBlock(record), nil
}

func (m *memoryRepository) GetBySlug(_ context.Context, slug string) (*blocks.ReusableBlock, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, record := range m.byID {
		if record.Slug == slug && record.DeletedAt == nil {
			return cloneBlock(record), nil
		}
	}
	return nil, &NotFoundError{Resource: "reusable_block", Key: slug}
}

func (m *memoryRepository) List(_ context.Context) ([]*blocks.ReusableBlock, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]*blocks.ReusableBlock, 0, len(m.byID))
	for _, record := range m.byID {
		if record.DeletedAt != nil {
			continue
		}
		records = append(records, cloneBlock(record))
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].UpdatedAt.After(records[j].UpdatedAt)
	})
	return records, nil
}

func (m *memoryRepository) Update(_ context.Context, block *blocks.ReusableBlock) (*blocks.ReusableBlock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.byID[block.ID]
	if !ok || existing.DeletedAt != nil {
		return nil, &NotFoundError{Resource: "reusable_block", Key: block.ID.String()}
	}

	cloned := cloneBlock(block)
	m.byID[cloned.ID] = cloned
	return cloneBlock(cloned), nil
}

func (m *memoryRepository) Delete(_ context.Context, id uuid.UUID, hard bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.byID[id]
	if !ok || record.DeletedAt != nil {
		return &NotFoundError{Resource: "reusable_block", Key: id.String()}
	}

	if hard {
		delete(m.byID, id)
		return nil
	}

	now := time.Now()
	record.DeletedAt = &now
	return nil
}

func cloneBlock(block *blocks.ReusableBlock) *blocks.ReusableBlock {
	if block == nil {
		return nil
	}
	cloned := *block
	if block.DeletedAt != nil {
		deleted := *block.DeletedAt
		cloned.DeletedAt = &deleted
	}
	cloned.Content = cloneSegments(block.Content)
	return &cloned
}

func cloneSegments(segments blocks.Segments) blocks.Segments {
	if segments == nil {
		return nil
	}
	out := make(blocks.Segments, len(segments))
	for i, segment := range segments {
		out[i] = cloneSegment(segment)
	}
	return out
}

func cloneSegment(segment blocks.Segment) blocks.Segment {
	if layout, ok := segment.Value.(blocks.LayoutValue); ok {
		fills := make([]blocks.SlotFill, len(layout.SlotFills))
		for i, fill := range layout.SlotFills {
			fills[i] = blocks.SlotFill{
				SlotID:  fill.SlotID,
				Content: cloneSegments(fill.Content),
			}
		}
		segment.Value = blocks.LayoutValue{LayoutID: layout.LayoutID, SlotFills: fills}
	}
	return segment
}
