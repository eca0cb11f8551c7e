package utils

import (
	"strings"

	"github.com/gosimple/slug"
)

// HandleFallback is used when normalizing a handle leaves nothing behind.
const HandleFallback = "creator"

// NormalizeHandle turns arbitrary input into a public profile handle:
// lowercase, runs of non-alphanumerics collapsed to a single hyphen, leading
// and trailing hyphens stripped. Empty results fall back to a constant so a
// handle always exists. Idempotent.
func NormalizeHandle(input string) string {
	// slug treats underscores as authorized; the handle alphabet does not.
	normalized := slug.Make(strings.ReplaceAll(input, "_", " "))
	if normalized == "" {
		return HandleFallback
	}
	return normalized
}
