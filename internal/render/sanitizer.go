package render

import (
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-reusable-blocks/render"
)

// Sanitizer scrubs rich text HTML before it reaches rendered output. Raw
// HTML segments bypass it, matching the trust split between the two types.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer returns a sanitizer backed by the bluemonday UGC policy,
// extended to keep the slot marker attribute on layout markup.
func NewSanitizer() *Sanitizer {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class", render.SlotAttribute).Globally()
	return &Sanitizer{policy: policy}
}

// Sanitize returns the HTML with disallowed elements and attributes removed.
func (s *Sanitizer) Sanitize(html string) string {
	return s.policy.Sanitize(html)
}
