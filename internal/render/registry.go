package render

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-reusable-blocks/blocks"
	"github.com/goliatone/go-reusable-blocks/internal/runtimeconfig"
)

// TextTransform converts the body of a text-kind segment into final HTML.
type TextTransform func(input string) (string, error)

// SegmentDefinition describes how one segment type renders. Text kinds run
// an optional transform over the stored body; reference and layout kinds are
// expanded by the renderer itself.
type SegmentDefinition struct {
	Name      string
	Kind      string
	Transform TextTransform
}

// Registry is the thread-safe lookup of segment definitions keyed by type
// name. Unknown types degrade at render time rather than failing a write.
type Registry struct {
	mu          sync.RWMutex
	definitions map[string]SegmentDefinition
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		definitions: make(map[string]SegmentDefinition),
	}
}

// DefaultRegistry returns a registry with the built-in segment types wired
// to the supplied markdown converter and rich text sanitizer. When
// sanitizeRichText is false rich text passes through untouched.
func DefaultRegistry(markdown *Markdown, sanitizer *Sanitizer, sanitizeRichText bool) *Registry {
	registry := NewRegistry()

	richText := func(input string) (string, error) { return input, nil }
	if sanitizeRichText && sanitizer != nil {
		richText = func(input string) (string, error) {
			return sanitizer.Sanitize(input), nil
		}
	}

	registry.mustRegister(SegmentDefinition{
		Name:      blocks.SegmentRichText,
		Kind:      runtimeconfig.SegmentKindText,
		Transform: richText,
	})
	registry.mustRegister(SegmentDefinition{
		Name: blocks.SegmentRawHTML,
		Kind: runtimeconfig.SegmentKindText,
	})
	if markdown != nil {
		registry.mustRegister(SegmentDefinition{
			Name:      blocks.SegmentMarkdown,
			Kind:      runtimeconfig.SegmentKindText,
			Transform: markdown.Render,
		})
	}
	registry.mustRegister(SegmentDefinition{
		Name: blocks.SegmentReusableBlock,
		Kind: runtimeconfig.SegmentKindReference,
	})
	registry.mustRegister(SegmentDefinition{
		Name: blocks.SegmentReusableLayout,
		Kind: runtimeconfig.SegmentKindLayout,
	})

	return registry
}

// Register stores a definition after validating its name and kind.
func (r *Registry) Register(def SegmentDefinition) error {
	name := strings.TrimSpace(strings.ToLower(def.Name))
	if name == "" {
		return runtimeconfig.ErrSegmentTypeNameRequired
	}

	switch def.Kind {
	case runtimeconfig.SegmentKindText,
		runtimeconfig.SegmentKindReference,
		runtimeconfig.SegmentKindLayout:
	default:
		return runtimeconfig.ErrSegmentTypeKindUnknown
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.definitions[name]; exists {
		return runtimeconfig.ErrSegmentTypeDuplicate
	}

	def.Name = name
	r.definitions[name] = def
	return nil
}

// Get returns the stored definition for the segment type.
func (r *Registry) Get(name string) (SegmentDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.definitions[strings.ToLower(name)]
	return def, ok
}

// List returns all registered definitions in name order.
func (r *Registry) List() []SegmentDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]SegmentDefinition, 0, len(r.definitions))
	for _, def := range r.definitions {
		result = append(result, def)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// Remove deletes the definition if it exists.
func (r *Registry) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.definitions, strings.ToLower(name))
}

func (r *Registry) mustRegister(def SegmentDefinition) {
	if err := r.Register(def); err != nil {
		panic(err)
	}
}
