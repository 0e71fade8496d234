package utils

import "testing"

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly ten chars!", 18, "exactly ten chars!"},
		{"this is a longer string", 10, "this is..."},
		{"héllo wörld this is long", 10, "héllo w..."},
		{"abc", 0, ""},
		{"abcdef", 2, "ab"},
	}

	for _, tt := range tests {
		if got := Truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestTruncate_RuneSafe(t *testing.T) {
	got := Truncate("日本語のテキストです", 5)
	if got != "日本..." {
		t.Errorf("Truncate = %q, want rune boundary cut", got)
	}
}
