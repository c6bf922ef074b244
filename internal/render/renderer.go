package render

import (
	"context"
	"errors"
	"strings"

	blockstore "github.com/goliatone/go-reusable-blocks/internal/blocks"

	"github.com/goliatone/go-reusable-blocks/blocks"
	"github.com/goliatone/go-reusable-blocks/internal/logging"
	"github.com/goliatone/go-reusable-blocks/internal/runtimeconfig"
	"github.com/goliatone/go-reusable-blocks/pkg/interfaces"
	"github.com/goliatone/go-reusable-blocks/render"
	"github.com/google/uuid"
)

// Renderer expands reusable block content into HTML. Failures never cross
// this boundary: a missing block renders as empty output, an exhausted depth
// budget renders as a placeholder, and a broken segment degrades on its own
// while its siblings still render.
type Renderer struct {
	repo     blockstore.Repository
	registry *Registry
	slots    *SlotEngine
	maxDepth func() int
	logger   interfaces.Logger
}

// Option customises renderer construction.
type Option func(*Renderer)

// WithLogger attaches a logger for degradation warnings.
func WithLogger(logger interfaces.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMaxDepth overrides the nesting depth source. The function is read on
// every expansion so runtime configuration changes take effect immediately.
func WithMaxDepth(maxDepth func() int) Option {
	return func(r *Renderer) {
		if maxDepth != nil {
			r.maxDepth = maxDepth
		}
	}
}

// WithRegistry overrides the segment definition registry.
func WithRegistry(registry *Registry) Option {
	return func(r *Renderer) {
		if registry != nil {
			r.registry = registry
		}
	}
}

// WithSlotEngine overrides the slot engine used for layout rendering.
func WithSlotEngine(slots *SlotEngine) Option {
	return func(r *Renderer) {
		if slots != nil {
			r.slots = slots
		}
	}
}

// New constructs a renderer reading blocks from the supplied repository.
func New(repo blockstore.Repository, opts ...Option) *Renderer {
	r := &Renderer{
		repo:     repo,
		maxDepth: func() int { return runtimeconfig.DefaultMaxNestingDepth },
		logger:   logging.NoOp(),
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.registry == nil {
		r.registry = DefaultRegistry(NewMarkdown(), NewSanitizer(), true)
	}
	if r.slots == nil {
		r.slots = NewSlotEngine(WithSlotLogger(r.logger))
	}

	return r
}

// RenderBlock renders a loaded block's segments with the supplied context.
func (r *Renderer) RenderBlock(ctx context.Context, block *blocks.ReusableBlock, rctx render.Context) string {
	if block == nil {
		return ""
	}
	return r.RenderSegments(ctx, block.Content, rctx)
}

// RenderReference resolves a referenced block by id and renders it one level
// deeper. The depth budget is checked before the lookup so an exhausted
// branch costs nothing.
func (r *Renderer) RenderReference(ctx context.Context, blockID uuid.UUID, rctx render.Context) string {
	if rctx.Depth >= r.maxDepth() {
		r.logger.Warn("maximum nesting depth exceeded",
			"block_id", blockID,
			"depth", rctx.Depth,
			"max_depth", r.maxDepth(),
		)
		return render.DepthExceededHTML
	}

	block, err := r.repo.GetByID(ctx, blockID)
	if err != nil {
		var notFound *blockstore.NotFoundError
		if errors.As(err, &notFound) {
			r.logger.Warn("referenced block no longer exists", "block_id", blockID)
			return ""
		}
		r.logger.Error("failed to load referenced block", "block_id", blockID, "error", err)
		return ""
	}

	return r.RenderSegments(ctx, block.Content, rctx.Nested())
}

// RenderLayout renders a layout block with slot fills injected into its
// markup. Fills that render to empty output leave the slot's default
// children in place.
func (r *Renderer) RenderLayout(ctx context.Context, layout blocks.LayoutValue, rctx render.Context) string {
	if rctx.Depth >= r.maxDepth() {
		r.logger.Warn("maximum nesting depth exceeded",
			"layout_id", layout.LayoutID,
			"depth", rctx.Depth,
			"max_depth", r.maxDepth(),
		)
		return render.DepthExceededHTML
	}

	block, err := r.repo.GetByID(ctx, layout.LayoutID)
	if err != nil {
		var notFound *blockstore.NotFoundError
		if errors.As(err, &notFound) {
			r.logger.Warn("layout block no longer exists", "layout_id", layout.LayoutID)
			return ""
		}
		r.logger.Error("failed to load layout block", "layout_id", layout.LayoutID, "error", err)
		return ""
	}

	nested := rctx.Nested()
	layoutHTML := r.RenderSegments(ctx, block.Content, nested)
	if len(layout.SlotFills) == 0 {
		return layoutHTML
	}

	fills := make(map[string]string, len(layout.SlotFills))
	for _, fill := range layout.SlotFills {
		rendered := r.RenderSegments(ctx, fill.Content, nested)
		if strings.TrimSpace(rendered) == "" {
			continue
		}
		fills[fill.SlotID] = rendered
	}
	if len(fills) == 0 {
		return layoutHTML
	}

	return r.slots.InjectSlotFills(layoutHTML, fills)
}

// RenderSegments renders an ordered segment list. Segments degrade one at a
// time; a broken segment never takes its siblings down with it.
func (r *Renderer) RenderSegments(ctx context.Context, segments blocks.Segments, rctx render.Context) string {
	if len(segments) == 0 {
		return ""
	}

	parts := make([]string, 0, len(segments))
	for _, segment := range segments {
		if rendered := r.renderSegment(ctx, segment, rctx); rendered != "" {
			parts = append(parts, rendered)
		}
	}
	return strings.Join(parts, "\n")
}

func (r *Renderer) renderSegment(ctx context.Context, segment blocks.Segment, rctx render.Context) string {
	def, ok := r.registry.Get(segment.Type)
	if !ok {
		r.logger.Warn("skipping segment with unregistered type", "segment_type", segment.Type)
		return ""
	}

	switch def.Kind {
	case runtimeconfig.SegmentKindText:
		text, ok := segment.Value.(blocks.TextValue)
		if !ok {
			r.logger.Warn("text segment carries a non-text value", "segment_type", segment.Type)
			return ""
		}
		if def.Transform == nil {
			return text.Text
		}
		out, err := def.Transform(text.Text)
		if err != nil {
			r.logger.Warn("segment transform failed", "segment_type", segment.Type, "error", err)
			return ""
		}
		return out

	case runtimeconfig.SegmentKindReference:
		ref, ok := segment.Value.(blocks.ReferenceValue)
		if !ok {
			r.logger.Warn("reference segment carries a non-reference value", "segment_type", segment.Type)
			return ""
		}
		return r.RenderReference(ctx, ref.BlockID, rctx)

	case runtimeconfig.SegmentKindLayout:
		layout, ok := segment.Value.(blocks.LayoutValue)
		if !ok {
			r.logger.Warn("layout segment carries a non-layout value", "segment_type", segment.Type)
			return ""
		}
		return r.RenderLayout(ctx, layout, rctx)
	}

	r.logger.Warn("segment definition has unknown kind", "segment_type", segment.Type, "kind", def.Kind)
	return ""
}

var _ render.Renderer = (*Renderer)(nil)
