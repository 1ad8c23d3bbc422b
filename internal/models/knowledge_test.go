package models

import "testing"

func TestValidKind(t *testing.T) {
	for _, kind := range EntryKinds {
		if !ValidKind(kind) {
			t.Errorf("ValidKind(%q) = false, want true", kind)
		}
	}

	for _, kind := range []EntryKind{"", "bogus", "Fact", "vocabulary "} {
		if ValidKind(kind) {
			t.Errorf("ValidKind(%q) = true, want false", kind)
		}
	}
}

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello!", "hello"},
		{"  Speed of Light  ", "speed of light"},
		{"\"quoted\"", "quoted"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := NormalizeKey(tt.in); got != tt.want {
			t.Errorf("NormalizeKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
