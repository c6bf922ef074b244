package blocks

import (
	"context"
	"errors"

	"github.com/goliatone/go-reusable-blocks/blocks"
	"github.com/google/uuid"
)

// detectCircularReferences walks the reference graph below block depth-first
// and fails as soon as the traversal revisits a block already seen. The
// visited set is threaded through the walk explicitly; the traversal has no
// side effects beyond one repository lookup per unvisited node.
//
// Dangling references are not cycles: a referenced block that no longer
// exists is skipped here and degrades at render time instead.
func detectCircularReferences(ctx context.Context, repo Repository, block *blocks.ReusableBlock, visited map[uuid.UUID]struct{}) error {
	if visited == nil {
		visited = make(map[uuid.UUID]struct{})
	}

	if _, seen := visited[block.ID]; seen {
		return &blocks.CircularReferenceError{BlockID: block.ID, Name: block.Name}
	}
	visited[block.ID] = struct{}{}

	for _, id := range block.Content.ReferencedBlockIDs() {
		referenced, err := repo.GetByID(ctx, id)
		if err != nil {
			var notFound *NotFoundError
			if errors.As(err, &notFound) {
				continue
			}
			return err
		}
		if err := detectCircularReferences(ctx, repo, referenced, visited); err != nil {
			return err
		}
	}

	return nil
}
