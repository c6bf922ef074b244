package render

import (
	"context"
	"strings"
	"testing"

	blockstore "github.com/goliatone/go-reusable-blocks/internal/blocks"

	"github.com/goliatone/go-reusable-blocks/blocks"
	"github.com/goliatone/go-reusable-blocks/render"
	"github.com/google/uuid"
)

func seedRenderBlock(t *testing.T, repo blockstore.Repository, slug string, segments ...blocks.Segment) *blocks.ReusableBlock {
	t.Helper()
	created, err := repo.Create(context.Background(), &blocks.ReusableBlock{
		ID:      uuid.New(),
		Name:    slug,
		Slug:    slug,
		Content: segments,
	})
	if err != nil {
		t.Fatalf("seed block %s: %v", slug, err)
	}
	return created
}

func TestRendererRendersTextSegments(t *testing.T) {
	ctx := context.Background()
	repo := blockstore.NewMemoryRepository()
	renderer := New(repo)

	block := seedRenderBlock(t, repo, "hello",
		blocks.RichText("<p>Hello</p>"),
		blocks.RawHTML(`<div class="raw">raw</div>`),
	)

	out := renderer.RenderBlock(ctx, block, render.Context{})
	if !strings.Contains(out, "<p>Hello</p>") {
		t.Fatalf("expected rich text rendered, got %q", out)
	}
	if !strings.Contains(out, `<div class="raw">raw</div>`) {
		t.Fatalf("expected raw html passed through, got %q", out)
	}
}

func TestRendererSanitizesRichText(t *testing.T) {
	ctx := context.Background()
	repo := blockstore.NewMemoryRepository()
	renderer := New(repo)

	block := seedRenderBlock(t, repo, "unsafe",
		blocks.RichText(`<p onclick="steal()">hi</p><script>bad()</script>`),
	)

	out := renderer.RenderBlock(ctx, block, render.Context{})
	if strings.Contains(out, "script") || strings.Contains(out, "onclick") {
		t.Fatalf("expected markup sanitized, got %q", out)
	}
	if !strings.Contains(out, "hi") {
		t.Fatalf("expected safe content kept, got %q", out)
	}
}

func TestRendererConvertsMarkdown(t *testing.T) {
	ctx := context.Background()
	repo := blockstore.NewMemoryRepository()
	renderer := New(repo)

	block := seedRenderBlock(t, repo, "md", blocks.Markdown("# Title"))

	out := renderer.RenderBlock(ctx, block, render.Context{})
	if !strings.Contains(out, "<h1") || !strings.Contains(out, "Title") {
		t.Fatalf("expected markdown converted to html, got %q", out)
	}
}

func TestRendererSkipsUnknownSegmentTypes(t *testing.T) {
	ctx := context.Background()
	repo := blockstore.NewMemoryRepository()
	renderer := New(repo)

	block := seedRenderBlock(t, repo, "mixed",
		blocks.Text("custom_embed", "ignored"),
		blocks.RichText("<p>kept</p>"),
	)

	out := renderer.RenderBlock(ctx, block, render.Context{})
	if strings.Contains(out, "ignored") {
		t.Fatalf("expected unknown segment skipped, got %q", out)
	}
	if !strings.Contains(out, "<p>kept</p>") {
		t.Fatalf("expected siblings to survive, got %q", out)
	}
}

func TestRendererExpandsReferences(t *testing.T) {
	ctx := context.Background()
	repo := blockstore.NewMemoryRepository()
	renderer := New(repo)

	leaf := seedRenderBlock(t, repo, "leaf", blocks.RichText("<p>leaf</p>"))
	middle := seedRenderBlock(t, repo, "middle", blocks.BlockReference(leaf.ID))
	top := seedRenderBlock(t, repo, "top", blocks.BlockReference(middle.ID))

	out := renderer.RenderBlock(ctx, top, render.Context{})
	if !strings.Contains(out, "<p>leaf</p>") {
		t.Fatalf("expected nested content rendered, got %q", out)
	}
}

func TestRendererMissingReferenceRendersEmpty(t *testing.T) {
	ctx := context.Background()
	repo := blockstore.NewMemoryRepository()
	renderer := New(repo)

	block := seedRenderBlock(t, repo, "dangling",
		blocks.BlockReference(uuid.New()),
		blocks.RichText("<p>after</p>"),
	)

	out := renderer.RenderBlock(ctx, block, render.Context{})
	if !strings.Contains(out, "<p>after</p>") {
		t.Fatalf("expected siblings rendered after missing reference, got %q", out)
	}
	if strings.Contains(out, render.DepthExceededHTML) {
		t.Fatalf("missing block must render empty, not a placeholder: %q", out)
	}
}

func TestRendererStopsAtMaxDepth(t *testing.T) {
	ctx := context.Background()
	repo := blockstore.NewMemoryRepository()
	renderer := New(repo, WithMaxDepth(func() int { return 2 }))

	leaf := seedRenderBlock(t, repo, "leaf", blocks.RichText("<p>leaf</p>"))
	level2 := seedRenderBlock(t, repo, "level2", blocks.BlockReference(leaf.ID))
	level1 := seedRenderBlock(t, repo, "level1", blocks.BlockReference(level2.ID))
	top := seedRenderBlock(t, repo, "top", blocks.BlockReference(level1.ID))

	// Two expansions fit inside the budget.
	within := renderer.RenderBlock(ctx, level1, render.Context{})
	if !strings.Contains(within, "<p>leaf</p>") {
		t.Fatalf("expected chain within budget to render, got %q", within)
	}

	// Three expansions exceed it; the leaf is replaced by the placeholder.
	out := renderer.RenderBlock(ctx, top, render.Context{})
	if strings.Contains(out, "<p>leaf</p>") {
		t.Fatalf("expected leaf beyond budget to be cut, got %q", out)
	}
	if !strings.Contains(out, render.DepthExceededHTML) {
		t.Fatalf("expected depth placeholder, got %q", out)
	}
}

func TestRendererDefaultDepthBoundary(t *testing.T) {
	ctx := context.Background()
	repo := blockstore.NewMemoryRepository()
	renderer := New(repo)

	leaf := seedRenderBlock(t, repo, "leaf", blocks.RichText("<p>leaf</p>"))

	// One expansion below the default limit of five still renders.
	within := renderer.RenderReference(ctx, leaf.ID, render.Context{Depth: 4})
	if !strings.Contains(within, "<p>leaf</p>") {
		t.Fatalf("expected depth 4 to render, got %q", within)
	}

	// Entering an expansion at the limit emits the placeholder.
	if out := renderer.RenderReference(ctx, leaf.ID, render.Context{Depth: 5}); out != render.DepthExceededHTML {
		t.Fatalf("expected placeholder at depth 5, got %q", out)
	}
}

func TestRendererDepthBranchesAreIndependent(t *testing.T) {
	ctx := context.Background()
	repo := blockstore.NewMemoryRepository()
	renderer := New(repo, WithMaxDepth(func() int { return 2 }))

	leaf := seedRenderBlock(t, repo, "leaf", blocks.RichText("<p>leaf</p>"))
	deep := seedRenderBlock(t, repo, "deep", blocks.BlockReference(leaf.ID))
	shallow := seedRenderBlock(t, repo, "shallow", blocks.RichText("<p>shallow</p>"))
	top := seedRenderBlock(t, repo, "top",
		blocks.BlockReference(deep.ID),
		blocks.BlockReference(shallow.ID),
	)

	out := renderer.RenderBlock(ctx, top, render.Context{})
	if !strings.Contains(out, "<p>shallow</p>") {
		t.Fatalf("expected shallow branch unaffected by deep sibling, got %q", out)
	}
	if !strings.Contains(out, "<p>leaf</p>") {
		t.Fatalf("expected deep branch within budget to render, got %q", out)
	}
}

func TestRendererRendersLayoutWithFills(t *testing.T) {
	ctx := context.Background()
	repo := blockstore.NewMemoryRepository()
	renderer := New(repo)

	layout := seedRenderBlock(t, repo, "two-column",
		blocks.RawHTML(`<div class="cols"><div data-slot="left"><p>left default</p></div><div data-slot="right"><p>right default</p></div></div>`),
	)
	page := seedRenderBlock(t, repo, "landing",
		blocks.Layout(layout.ID, blocks.SlotFill{
			SlotID:  "left",
			Content: blocks.Segments{blocks.RichText("<p>filled left</p>")},
		}),
	)

	out := renderer.RenderBlock(ctx, page, render.Context{})
	if !strings.Contains(out, "<p>filled left</p>") {
		t.Fatalf("expected left slot filled, got %q", out)
	}
	if strings.Contains(out, "left default") {
		t.Fatalf("expected left default replaced, got %q", out)
	}
	if !strings.Contains(out, "right default") {
		t.Fatalf("expected right slot to keep its default, got %q", out)
	}
}

func TestRendererLayoutEmptyFillKeepsDefault(t *testing.T) {
	ctx := context.Background()
	repo := blockstore.NewMemoryRepository()
	renderer := New(repo)

	layout := seedRenderBlock(t, repo, "hero",
		blocks.RawHTML(`<div data-slot="main"><p>default</p></div>`),
	)
	page := seedRenderBlock(t, repo, "page",
		blocks.Layout(layout.ID, blocks.SlotFill{SlotID: "main"}),
	)

	out := renderer.RenderBlock(ctx, page, render.Context{})
	if !strings.Contains(out, "<p>default</p>") {
		t.Fatalf("expected empty fill to leave the default, got %q", out)
	}
}

func TestRendererLayoutWithoutFillsIsUntouched(t *testing.T) {
	ctx := context.Background()
	repo := blockstore.NewMemoryRepository()
	renderer := New(repo)

	layoutHTML := `<div data-slot="main"><p>default</p></div>`
	layout := seedRenderBlock(t, repo, "plain", blocks.RawHTML(layoutHTML))
	page := seedRenderBlock(t, repo, "page", blocks.Layout(layout.ID))

	out := renderer.RenderBlock(ctx, page, render.Context{})
	if out != layoutHTML {
		t.Fatalf("expected layout html returned verbatim, got %q", out)
	}
}

func TestRendererZeroDepthBudgetEmitsPlaceholder(t *testing.T) {
	ctx := context.Background()
	repo := blockstore.NewMemoryRepository()
	renderer := New(repo, WithMaxDepth(func() int { return 0 }))

	leaf := seedRenderBlock(t, repo, "leaf", blocks.RichText("<p>leaf</p>"))

	if out := renderer.RenderReference(ctx, leaf.ID, render.Context{}); out != render.DepthExceededHTML {
		t.Fatalf("expected placeholder at zero budget, got %q", out)
	}
}

func TestRendererNilBlockRendersEmpty(t *testing.T) {
	renderer := New(blockstore.NewMemoryRepository())
	if out := renderer.RenderBlock(context.Background(), nil, render.Context{}); out != "" {
		t.Fatalf("expected empty output, got %q", out)
	}
}
