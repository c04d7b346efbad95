package server

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	anchorRe = regexp.MustCompile(`<a\b[^>]*>[^<]*</a>`)
	urlRe    = regexp.MustCompile(`https?://[^\s<>"']+`)
)

// Linkify wraps bare http(s) URLs in anchor tags. Existing anchors,
// including the ones the answer composer emits for references, pass
// through untouched.
func Linkify(text string) string {
	var b strings.Builder
	last := 0
	for _, loc := range anchorRe.FindAllStringIndex(text, -1) {
		b.WriteString(linkifyPlain(text[last:loc[0]]))
		b.WriteString(text[loc[0]:loc[1]])
		last = loc[1]
	}
	b.WriteString(linkifyPlain(text[last:]))
	return b.String()
}

func linkifyPlain(text string) string {
	return urlRe.ReplaceAllStringFunc(text, func(u string) string {
		// Trailing punctuation belongs to the sentence, not the URL
		trimmed := strings.TrimRight(u, ".,;:!?)")
		tail := u[len(trimmed):]
		return fmt.Sprintf("<a href='%s' target='_blank'>%s</a>%s", trimmed, trimmed, tail)
	})
}
