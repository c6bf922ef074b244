package blocks

import "github.com/goliatone/go-slug"

// NormalizeSlug lowercases and de-accents a candidate slug. An empty result
// means the input had no usable characters.
func NormalizeSlug(value string) (string, error) {
	return slug.Normalize(value)
}

// IsValidSlug reports whether the value already satisfies the slug rules.
func IsValidSlug(value string) bool {
	return slug.IsValid(value)
}
