package render

// Context carries request-local render state down a render call chain. It is
// a value type: entering a nested reusable-block expansion works on a copy,
// so sibling branches never observe each other's depth.
type Context struct {
	// Depth counts the reusable-block expansions already performed below
	// the top-level render. The zero value is a valid top-level context.
	Depth int
}

// Nested returns a copy of the context one expansion deeper.
func (c Context) Nested() Context {
	c.Depth++
	return c
}

// SlotInfo describes one slot placeholder detected in layout HTML. It is
// computed on demand for the editing UI and never persisted.
type SlotInfo struct {
	SlotID      string `json:"slot_id"`
	DefaultHTML string `json:"default_html"`
}

// DepthExceededHTML is emitted in place of a block's content when a render
// branch reaches the configured nesting limit.
const DepthExceededHTML = `<p class="reusable-block-warning">Maximum nesting depth exceeded</p>`

// SlotAttribute is the HTML attribute marking fillable slot elements.
const SlotAttribute = "data-slot"
