package core

import "testing"

func TestSupportsTools(t *testing.T) {
	tests := []struct {
		model string
		want  bool
	}{
		{"llama3.2:3b", true},
		{"qwen2.5:7b", true},
		{"mistral:7b", true},
		{"codellama:13b", false},
		{"llama2:7b", false},
		{"gemma:2b", false},
		{"phi3:mini", false},
		{"CodeLlama:13b", false},
		{"", true},
	}

	for _, tt := range tests {
		if got := SupportsTools(tt.model); got != tt.want {
			t.Errorf("SupportsTools(%q) = %v, want %v", tt.model, got, tt.want)
		}
	}
}

func TestSuggestToolCapable(t *testing.T) {
	got, ok := SuggestToolCapable([]string{"codellama:13b", "gemma:2b", "llama3.2:3b", "qwen2.5:7b"})
	if !ok || got != "llama3.2:3b" {
		t.Errorf("SuggestToolCapable = %q, %v, want first compatible", got, ok)
	}

	_, ok = SuggestToolCapable([]string{"codellama:13b", "phi3:mini"})
	if ok {
		t.Error("SuggestToolCapable should report no compatible model")
	}

	_, ok = SuggestToolCapable(nil)
	if ok {
		t.Error("SuggestToolCapable(nil) should report false")
	}
}
