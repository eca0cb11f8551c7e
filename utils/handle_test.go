package utils

import "testing"

func TestNormalizeHandle(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Jordan Lee!!", "jordan-lee"},
		{"jordan-lee", "jordan-lee"},
		{"  Studio   Nine  ", "studio-nine"},
		{"snake_case_name", "snake-case-name"},
		{"UPPER", "upper"},
		{"---", "creator"},
		{"", "creator"},
		{"!!!", "creator"},
		{"a1b2", "a1b2"},
	}

	for _, tc := range cases {
		if got := NormalizeHandle(tc.in); got != tc.want {
			t.Errorf("NormalizeHandle(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeHandleIdempotent(t *testing.T) {
	inputs := []string{"Jordan Lee!!", "été de Paris", "x__y", "Already-Fine-123", "", "  spaced out  "}
	for _, in := range inputs {
		once := NormalizeHandle(in)
		twice := NormalizeHandle(once)
		if once != twice {
			t.Errorf("NormalizeHandle not idempotent for %q: %q -> %q", in, once, twice)
		}
	}
}
