package render

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/goliatone/go-reusable-blocks/blocks"
	"github.com/goliatone/go-reusable-blocks/internal/logging"
	"github.com/goliatone/go-reusable-blocks/pkg/interfaces"
	"github.com/goliatone/go-reusable-blocks/render"
)

// SlotEngine parses layout HTML to discover slot placeholders and to inject
// rendered fill content into them. Both passes share one fragment parser so
// detection and injection agree on what counts as a slot.
type SlotEngine struct {
	logger interfaces.Logger
}

// SlotEngineOption customises slot engine construction.
type SlotEngineOption func(*SlotEngine)

// WithSlotLogger attaches a logger used for malformed markup diagnostics.
func WithSlotLogger(logger interfaces.Logger) SlotEngineOption {
	return func(e *SlotEngine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewSlotEngine constructs a slot engine.
func NewSlotEngine(opts ...SlotEngineOption) *SlotEngine {
	e := &SlotEngine{logger: logging.NoOp()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// DetectSlots returns the slot placeholders found in the layout HTML in
// document order. Duplicate slot ids keep their first occurrence, matching
// the injection pass. Invalid ids are skipped with a warning.
func (e *SlotEngine) DetectSlots(layoutHTML string) []render.SlotInfo {
	nodes, err := parseFragment(layoutHTML)
	if err != nil {
		e.logger.Warn("failed to parse layout markup for slot detection", "error", err)
		return nil
	}

	var slots []render.SlotInfo
	seen := map[string]struct{}{}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if slotID, ok := slotAttribute(n); ok {
				if !validSlotID(slotID) {
					e.logger.Warn("skipping slot with invalid id", "slot_id", slotID)
				} else if _, dup := seen[slotID]; !dup {
					seen[slotID] = struct{}{}
					slots = append(slots, render.SlotInfo{
						SlotID:      slotID,
						DefaultHTML: innerHTML(n),
					})
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	for _, n := range nodes {
		walk(n)
	}

	return slots
}

// InjectSlotFills replaces the children of each matching slot element with
// the rendered fill HTML. The first element carrying a given slot id wins;
// slots without a fill keep their default children. An empty fill map
// returns the layout HTML untouched.
func (e *SlotEngine) InjectSlotFills(layoutHTML string, fills map[string]string) string {
	if len(fills) == 0 {
		return layoutHTML
	}

	nodes, err := parseFragment(layoutHTML)
	if err != nil {
		e.logger.Warn("failed to parse layout markup for slot injection", "error", err)
		return layoutHTML
	}

	used := map[string]struct{}{}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if slotID, ok := slotAttribute(n); ok && validSlotID(slotID) {
				if content, filled := fills[slotID]; filled {
					if _, taken := used[slotID]; !taken {
						used[slotID] = struct{}{}
						e.replaceChildren(n, content)
						// Injected content is final output; slots inside
						// it are not fill targets.
						return
					}
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	for _, n := range nodes {
		walk(n)
	}

	return renderNodes(nodes)
}

// replaceChildren swaps the element's children for the parsed fill HTML.
func (e *SlotEngine) replaceChildren(n *html.Node, content string) {
	for n.FirstChild != nil {
		n.RemoveChild(n.FirstChild)
	}

	children, err := html.ParseFragment(strings.NewReader(content), n)
	if err != nil {
		e.logger.Warn("failed to parse slot fill markup", "error", err)
		return
	}
	for _, child := range children {
		n.AppendChild(child)
	}
}

func parseFragment(fragment string) ([]*html.Node, error) {
	context := &html.Node{
		Type:     html.ElementNode,
		Data:     atom.Div.String(),
		DataAtom: atom.Div,
	}
	return html.ParseFragment(strings.NewReader(fragment), context)
}

func slotAttribute(n *html.Node) (string, bool) {
	for _, attr := range n.Attr {
		if attr.Key == render.SlotAttribute {
			return attr.Val, true
		}
	}
	return "", false
}

func validSlotID(slotID string) bool {
	trimmed := strings.TrimSpace(slotID)
	return trimmed != "" && len(slotID) <= blocks.MaxSlotIDLength
}

func innerHTML(n *html.Node) string {
	var buf bytes.Buffer
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if err := html.Render(&buf, child); err != nil {
			return ""
		}
	}
	return buf.String()
}

func renderNodes(nodes []*html.Node) string {
	var buf bytes.Buffer
	for _, n := range nodes {
		if err := html.Render(&buf, n); err != nil {
			return ""
		}
	}
	return buf.String()
}

var _ render.SlotDetector = (*SlotEngine)(nil)
