package types

import "testing"

func TestParseSTR(t *testing.T) {
	tests := []struct {
		in   string
		want uint64
	}{
		{"0.001", 1000},
		{"1", 1_000_000},
		{"1.5", 1_500_000},
		{"0.000001", 1},
		{".5", 500_000},
		{"42.123456", 42_123_456},
		// Digits beyond the sixth are truncated, never rounded.
		{"0.0000019", 1},
		{"1.9999999", 1_999_999},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSTR(tt.in)
			if err != nil {
				t.Fatalf("ParseSTR(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseSTR(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseSTR_Invalid(t *testing.T) {
	tests := []string{
		"", "0", "0.0", "0.0000009", // zero after truncation
		"-1", "abc", "1.2.3", "1,5",
	}

	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			if _, err := ParseSTR(in); err == nil {
				t.Errorf("ParseSTR(%q) should fail", in)
			}
		})
	}
}

func TestFormatSTR(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{1000, "0.001"},
		{1_000_000, "1"},
		{1_500_000, "1.5"},
		{1, "0.000001"},
		{42_123_456, "42.123456"},
	}

	for _, tt := range tests {
		if got := FormatSTR(tt.in); got != tt.want {
			t.Errorf("FormatSTR(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
