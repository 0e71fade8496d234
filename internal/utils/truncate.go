package utils

// Truncate shortens s to at most max runes, appending "..." when it cuts.
// Rune-safe so multi-byte characters never get split.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
