package phone

import "testing"

func TestE164_RegionAppliedToNationalNumbers(t *testing.T) {
	tests := []struct {
		region string
		input  string
		want   string
	}{
		{"IN", "98765 43210", "+919876543210"},
		{"US", "(650) 253-0000", "+16502530000"},
		{"IN", "+16502530000", "+16502530000"},
		{"US", "  not a number  ", "not a number"},
		{"IN", "", ""},
	}

	for _, tt := range tests {
		got := NewNormalizer(tt.region).E164(tt.input)
		if got != tt.want {
			t.Errorf("E164(%q) with region %s = %q, want %q", tt.input, tt.region, got, tt.want)
		}
	}
}
