package utils

import "testing"

func TestNormalizeSchoolCode(t *testing.T) {
	if got := NormalizeSchoolCode("  spring24 "); got != "SPRING24" {
		t.Fatalf("got %q", got)
	}
}

func TestValidSchoolCode(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"SPRING24", true},
		{"ABCD", true},
		{"A1B2C3D4E5F6", true},
		{"ABC", false},           // too short
		{"A1B2C3D4E5F6G", false}, // too long
		{"SPRING 24", false},     // space
		{"spring24", false},      // not normalized
		{"SPRÎNG24", false},      // non-ASCII
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidSchoolCode(tt.code); got != tt.want {
			t.Errorf("ValidSchoolCode(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}
