package markdown

import "strings"

// ReplaceManagedBlock swaps the text between startMarker and the first
// endMarker after it for generated. Text outside the markers is kept. A
// start marker with no matching end is completed in place; a note with no
// block gets one appended.
func ReplaceManagedBlock(body, startMarker, endMarker, generated string) string {
	block := startMarker + "\n" + strings.TrimRight(generated, "\n") + "\n" + endMarker

	if start := strings.Index(body, startMarker); start >= 0 {
		after := start + len(startMarker)
		if rel := strings.Index(body[after:], endMarker); rel >= 0 {
			return body[:start] + block + body[after+rel+len(endMarker):]
		}
		return body[:start] + block + body[after:]
	}

	switch {
	case strings.TrimSpace(body) == "":
		return block + "\n"
	case strings.HasSuffix(body, "\n"):
		return body + "\n" + block + "\n"
	default:
		return body + "\n\n" + block + "\n"
	}
}
