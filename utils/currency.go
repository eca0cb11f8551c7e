package utils

import (
	"regexp"
	"strconv"
	"strings"
)

// Whole units followed by at most two fractional digits. Three or more
// fractional digits are rejected outright, not rounded.
var amountPattern = regexp.MustCompile(`^\d+(\.\d{0,2})?$`)

// ParseAmountToCents converts a human-entered decimal amount (e.g. "1,200.50")
// into integer minor-currency units. Thousands separators are stripped before
// validation and the combined result must be positive.
func ParseAmountToCents(raw string) (int64, bool) {
	cleaned := strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if cleaned == "" || !amountPattern.MatchString(cleaned) {
		return 0, false
	}

	wholePart, fractionalPart, _ := strings.Cut(cleaned, ".")
	whole, err := strconv.ParseInt(wholePart, 10, 64)
	if err != nil {
		return 0, false
	}

	// Right-pad to two digits so ".5" means 50 cents.
	fraction, err := strconv.ParseInt((fractionalPart + "00")[:2], 10, 64)
	if err != nil {
		return 0, false
	}

	cents := whole*100 + fraction
	if cents <= 0 {
		return 0, false
	}
	return cents, true
}
