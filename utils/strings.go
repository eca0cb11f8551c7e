package utils

import "strings"

// SplitCommaList splits a comma-separated form value into trimmed, non-empty
// items: "beauty, wellness, " -> ["beauty", "wellness"].
func SplitCommaList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// TrimToNil trims a form value and returns nil when nothing remains, so
// optional columns store NULL instead of empty strings.
func TrimToNil(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

// EmailPrefix returns the local part of an email address, used as a fallback
// display/handle base during lazy provisioning.
func EmailPrefix(email string) string {
	prefix, _, _ := strings.Cut(email, "@")
	return strings.TrimSpace(prefix)
}
