package core

import "strings"

// toolIncapableFamilies lists model-family substrings known to reject
// tool-augmented prompts.
var toolIncapableFamilies = []string{
	"codellama",
	"llama2",
	"gemma",
	"phi",
}

// SupportsTools reports whether a model accepts tool-augmented prompts.
// Pure lookup, no network.
func SupportsTools(model string) bool {
	name := strings.ToLower(model)
	for _, family := range toolIncapableFamilies {
		if strings.Contains(name, family) {
			return false
		}
	}
	return true
}

// SuggestToolCapable returns the first tool-capable model from the available
// list, or false when none qualifies.
func SuggestToolCapable(models []string) (string, bool) {
	for _, m := range models {
		if SupportsTools(m) {
			return m, true
		}
	}
	return "", false
}
