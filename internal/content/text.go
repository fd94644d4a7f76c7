package content

import (
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"
)

// MaxTextLength is the service limit for one rich-text segment, in UTF-16 code units.
const MaxTextLength = 2000

func textLen(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// splitText cuts s into pieces of at most limit UTF-16 code units. A cut is
// placed after the last whitespace inside the window when there is one, so
// words stay whole. Concatenating the pieces yields s.
func splitText(s string, limit int) []string {
	if s == "" {
		return nil
	}
	if textLen(s) <= limit {
		return []string{s}
	}

	var out []string
	for s != "" {
		units, cut, lastSpace := 0, len(s), -1
		for i, r := range s {
			w := utf16.RuneLen(r)
			if units+w > limit {
				cut = i
				break
			}
			units += w
			if unicode.IsSpace(r) {
				lastSpace = i + len(string(r))
			}
		}
		if cut < len(s) && lastSpace > 0 {
			cut = lastSpace
		}
		if cut == 0 {
			_, size := utf8.DecodeRuneInString(s)
			cut = size
		}
		out = append(out, s[:cut])
		s = s[cut:]
	}
	return out
}

func richText(s string) []RichText {
	parts := splitText(s, MaxTextLength)
	out := make([]RichText, 0, len(parts))
	for _, p := range parts {
		out = append(out, RichText{Type: "text", Text: &Text{Content: p}})
	}
	return out
}

func joinText(segs []RichText) string {
	var b strings.Builder
	for _, s := range segs {
		b.WriteString(s.String())
	}
	return b.String()
}
