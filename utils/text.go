// utils/text.go
package utils

// Truncate shortens s to at most max runes, appending an ellipsis when
// anything was cut. Counting runes keeps multi-byte text intact.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
