package utils

import "testing"

func TestParseAmountToCents(t *testing.T) {
	cases := []struct {
		in    string
		cents int64
		ok    bool
	}{
		{"1500", 150000, true},
		{"1,200.5", 120050, true},
		{"1200.50", 120050, true},
		{"0.01", 1, true},
		{"12.99", 1299, true},
		{"12.", 1200, true},
		{" 42 ", 4200, true},
		{"1,000,000", 100000000, true},

		{"0", 0, false},
		{"0.00", 0, false},
		{"", 0, false},
		{"   ", 0, false},
		{"12.999", 0, false}, // three fractional digits rejected, not rounded
		{"-5", 0, false},
		{"5-", 0, false},
		{"abc", 0, false},
		{"12.3.4", 0, false},
		{"$100", 0, false},
		{".50", 0, false},
		{"99999999999999999999", 0, false}, // overflows
	}

	for _, tc := range cases {
		cents, ok := ParseAmountToCents(tc.in)
		if ok != tc.ok {
			t.Errorf("ParseAmountToCents(%q) ok = %v, want %v", tc.in, ok, tc.ok)
			continue
		}
		if ok && cents != tc.cents {
			t.Errorf("ParseAmountToCents(%q) = %d, want %d", tc.in, cents, tc.cents)
		}
	}
}
