package render

import (
	"context"

	"github.com/goliatone/go-reusable-blocks/blocks"
	"github.com/google/uuid"
)

// Renderer produces final HTML for reusable blocks. Implementations never
// return an error past this boundary: missing blocks render as empty output,
// exhausted depth renders as a placeholder, and broken segments degrade
// individually with a warning log.
type Renderer interface {
	// RenderBlock renders a loaded block's segments. The zero Context is
	// a fresh top-level context.
	RenderBlock(ctx context.Context, block *blocks.ReusableBlock, rctx Context) string

	// RenderReference resolves and renders a referenced block by id,
	// applying the missing-block and depth-limit degradations.
	RenderReference(ctx context.Context, blockID uuid.UUID, rctx Context) string

	// RenderLayout renders a layout selection with its slot fills injected.
	RenderLayout(ctx context.Context, layout blocks.LayoutValue, rctx Context) string

	// RenderSegments renders an ordered segment list with the supplied
	// context, degrading per segment.
	RenderSegments(ctx context.Context, segments blocks.Segments, rctx Context) string
}

// SlotDetector extracts slot placeholders from rendered layout HTML so the
// editing UI can offer fill targets.
type SlotDetector interface {
	DetectSlots(html string) []SlotInfo
}
