package blocks

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-reusable-blocks/blocks"
	"github.com/google/uuid"
)

func seedBlock(t *testing.T, repo Repository, id string, segments ...blocks.Segment) *blocks.ReusableBlock {
	t.Helper()
	block := &blocks.ReusableBlock{
		ID:      uuid.MustParse(id),
		Name:    "block-" + id[len(id)-2:],
		Slug:    "block-" + id[len(id)-2:],
		Content: segments,
	}
	created, err := repo.Create(context.Background(), block)
	if err != nil {
		t.Fatalf("seed block %s: %v", id, err)
	}
	return created
}

func TestDetectCircularReferencesSelfReference(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	id := uuid.MustParse("00000000-0000-0000-0000-0000000000b1")
	block := seedBlock(t, repo, id.String(), blocks.BlockReference(id))

	err := detectCircularReferences(ctx, repo, block, nil)
	if !errors.Is(err, blocks.ErrCircularReference) {
		t.Fatalf("expected circular reference error, got %v", err)
	}

	var circular *blocks.CircularReferenceError
	if !errors.As(err, &circular) {
		t.Fatalf("expected CircularReferenceError, got %v", err)
	}
	if circular.BlockID != id {
		t.Fatalf("expected cycle reported at %s, got %s", id, circular.BlockID)
	}
}

func TestDetectCircularReferencesMutualCycle(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	idA := uuid.MustParse("00000000-0000-0000-0000-0000000000c1")
	idB := uuid.MustParse("00000000-0000-0000-0000-0000000000c2")

	seedBlock(t, repo, idA.String(), blocks.BlockReference(idB))
	blockB := seedBlock(t, repo, idB.String())

	// Closing the cycle: B's candidate content points back at A.
	blockB.Content = blocks.Segments{blocks.BlockReference(idA)}

	if err := detectCircularReferences(ctx, repo, blockB, nil); !errors.Is(err, blocks.ErrCircularReference) {
		t.Fatalf("expected circular reference error, got %v", err)
	}
}

func TestDetectCircularReferencesThroughSlotFills(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	layoutID := uuid.MustParse("00000000-0000-0000-0000-0000000000d1")
	pageID := uuid.MustParse("00000000-0000-0000-0000-0000000000d2")

	seedBlock(t, repo, layoutID.String(), blocks.RawHTML(`<div data-slot="main"></div>`))
	page := seedBlock(t, repo, pageID.String())

	// The fill content points back at the page embedding the layout.
	page.Content = blocks.Segments{
		blocks.Layout(layoutID, blocks.SlotFill{
			SlotID:  "main",
			Content: blocks.Segments{blocks.BlockReference(pageID)},
		}),
	}

	if err := detectCircularReferences(ctx, repo, page, nil); !errors.Is(err, blocks.ErrCircularReference) {
		t.Fatalf("expected circular reference error, got %v", err)
	}
}

func TestDetectCircularReferencesLinearChain(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	idA := uuid.MustParse("00000000-0000-0000-0000-0000000000e1")
	idB := uuid.MustParse("00000000-0000-0000-0000-0000000000e2")
	idC := uuid.MustParse("00000000-0000-0000-0000-0000000000e3")

	seedBlock(t, repo, idC.String(), blocks.RichText("<p>leaf</p>"))
	seedBlock(t, repo, idB.String(), blocks.BlockReference(idC))
	blockA := seedBlock(t, repo, idA.String(), blocks.BlockReference(idB))

	if err := detectCircularReferences(ctx, repo, blockA, nil); err != nil {
		t.Fatalf("linear chains must pass, got %v", err)
	}
}

func TestDetectCircularReferencesSkipsDanglingReferences(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	missing := uuid.MustParse("00000000-0000-0000-0000-0000000000f9")
	block := seedBlock(t, repo, "00000000-0000-0000-0000-0000000000f1", blocks.BlockReference(missing))

	if err := detectCircularReferences(ctx, repo, block, nil); err != nil {
		t.Fatalf("dangling references are not cycles, got %v", err)
	}
}

func TestServiceUpdateRejectsCycleBeforePersisting(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	svc := NewService(repo)

	blockA, err := svc.Create(ctx, blocks.CreateBlockRequest{Name: "Alpha"})
	if err != nil {
		t.Fatalf("create alpha: %v", err)
	}
	blockB, err := svc.Create(ctx, blocks.CreateBlockRequest{
		Name:    "Beta",
		Content: blocks.Segments{blocks.BlockReference(blockA.ID)},
	})
	if err != nil {
		t.Fatalf("create beta: %v", err)
	}

	cycle := blocks.Segments{blocks.BlockReference(blockB.ID)}
	if _, err := svc.Update(ctx, blocks.UpdateBlockRequest{ID: blockA.ID, Content: &cycle}); !errors.Is(err, blocks.ErrCircularReference) {
		t.Fatalf("expected circular reference error, got %v", err)
	}

	// The rejected write left the stored block untouched.
	stored, err := svc.Get(ctx, blockA.ID)
	if err != nil {
		t.Fatalf("get alpha: %v", err)
	}
	if len(stored.Content) != 0 {
		t.Fatalf("expected alpha content unchanged, got %d segments", len(stored.Content))
	}
}
